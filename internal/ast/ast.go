// Package ast describes the external contract the Lowering core assumes a
// surface-syntax parser provides. The parser itself is an
// external collaborator out of scope for this repository; this package only
// pins the node-navigation interface and a concrete Node implementation
// good enough to build trees in tests and in the thin cmd/tython driver.
package ast

import "fmt"

// Pos is a source position, carried on every node for diagnostics.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Node is the node-navigation interface the Lowering core consumes.
// It mirrors a generic walkable AST (e.g. Python's ast module) rather than
// a typed Go sum type: every surface construct is reached by TypeName +
// attribute/list/scalar accessors instead of a type switch.
type Node interface {
	// TypeName returns the surface node kind, e.g. "FunctionDef", "BinOp",
	// "Compare", "Constant", "Name", "Attribute", "Call", "Tuple", "Dict",
	// "Set", "List", "JoinedStr", "FormattedValue", "Subscript", "Slice",
	// "For", "While", "If", "Try", "Raise", "Assert", "Break", "Continue",
	// "ClassDef", "Import", "ImportFrom", "AnnAssign", "Assign",
	// "AugAssign", "Return", "Expr", "UnaryOp", "BoolOp", "ListComp",
	// "GeneratorExp".
	TypeName() string

	// GetAttr returns a single child node field, or nil if absent.
	GetAttr(name string) Node

	// GetList returns a repeated child node field (body, args, ...).
	GetList(name string) []Node

	// GetString returns a string-valued leaf field (identifier name, op
	// subtype name such as "Add"/"Lt"/"And", string literal contents).
	GetString(name string) string

	// GetInt returns an int-valued leaf field (integer literal value).
	GetInt(name string) int64

	// GetFloat returns a float-valued leaf field.
	GetFloat(name string) float64

	// GetBool returns a bool-valued leaf field (boolean literal / flag).
	GetBool(name string) bool

	// Lineno returns the 1-based source line for error reporting.
	Lineno() int

	// Position returns the full position (line + column + file).
	Position() Pos
}

// Map is a concrete, allocation-friendly Node backed by a plain map. It is
// the adapter used by tests and by the thin reference front-end in
// cmd/tython to build trees without a real parser: every surface
// construction helper in build.go returns one of these.
type Map struct {
	Kind   string
	Pos    Pos
	Attrs  map[string]Node
	Lists  map[string][]Node
	Str    map[string]string
	Int    map[string]int64
	Float  map[string]float64
	Bool   map[string]bool
}

func NewNode(kind string, pos Pos) *Map {
	return &Map{
		Kind:  kind,
		Pos:   pos,
		Attrs: map[string]Node{},
		Lists: map[string][]Node{},
		Str:   map[string]string{},
		Int:   map[string]int64{},
		Float: map[string]float64{},
		Bool:  map[string]bool{},
	}
}

func (m *Map) TypeName() string { return m.Kind }

func (m *Map) GetAttr(name string) Node {
	if n, ok := m.Attrs[name]; ok {
		return n
	}
	return nil
}

func (m *Map) GetList(name string) []Node { return m.Lists[name] }
func (m *Map) GetString(name string) string { return m.Str[name] }
func (m *Map) GetInt(name string) int64     { return m.Int[name] }
func (m *Map) GetFloat(name string) float64 { return m.Float[name] }
func (m *Map) GetBool(name string) bool     { return m.Bool[name] }
func (m *Map) Lineno() int                  { return m.Pos.Line }
func (m *Map) Position() Pos                { return m.Pos }

// SetAttr/SetList/SetStr/SetInt/SetFloat/SetBool are builder helpers used
// by build.go and by tests to populate a Map node fluently.

func (m *Map) SetAttr(name string, n Node) *Map {
	m.Attrs[name] = n
	return m
}

func (m *Map) SetList(name string, ns []Node) *Map {
	m.Lists[name] = ns
	return m
}

func (m *Map) SetStr(name, v string) *Map {
	m.Str[name] = v
	return m
}

func (m *Map) SetInt(name string, v int64) *Map {
	m.Int[name] = v
	return m
}

func (m *Map) SetFloat(name string, v float64) *Map {
	m.Float[name] = v
	return m
}

func (m *Map) SetBool(name string, v bool) *Map {
	m.Bool[name] = v
	return m
}
