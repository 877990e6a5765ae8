// Package scope implements the lexically-scoped name->type map and the
// separate global symbol table for cross-module and class-method
// resolution.
package scope

import "github.com/cla7aye15I4nd/Tython-sub001/internal/types"

// Scope is a stack of frames, top-to-bottom search order.
type Scope struct {
	frames []map[string]types.Type
}

func New() *Scope {
	s := &Scope{}
	s.Push() // module-level (global) frame
	return s
}

// Push opens a new frame on function/class/block entry.
func (s *Scope) Push() {
	s.frames = append(s.frames, map[string]types.Type{})
}

// Pop closes the top frame on exit.
func (s *Scope) Pop() {
	if len(s.frames) == 0 {
		panic("scope: pop on empty stack")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Declare writes to the top frame; shadowing an outer frame is allowed.
func (s *Scope) Declare(name string, ty types.Type) {
	s.frames[len(s.frames)-1][name] = ty
}

// Lookup searches from the top frame down to the module-level frame.
func (s *Scope) Lookup(name string) (types.Type, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if ty, ok := s.frames[i][name]; ok {
			return ty, true
		}
	}
	return types.Type{}, false
}

// IsGlobal reports whether name is declared in the outermost (module)
// frame specifically, regardless of any shadowing inner frame.
func (s *Scope) IsGlobal(name string) bool {
	_, ok := s.frames[0][name]
	return ok
}

// Depth is the current number of open frames, used by callers that need to
// restore a known depth after a partial lowering failure.
func (s *Scope) Depth() int { return len(s.frames) }

// GlobalSymbols is the separate table of fully-qualified callable/class
// names, consulted for cross-module and class-method resolution
// independent of the lexical scope stack.
type GlobalSymbols struct {
	functions map[string]types.Type // mangled name -> Function type
	classes   map[string]types.Type // qualified name -> Class type
	imports   map[string]string     // local alias -> module path
}

func NewGlobalSymbols() *GlobalSymbols {
	return &GlobalSymbols{
		functions: map[string]types.Type{},
		classes:   map[string]types.Type{},
		imports:   map[string]string{},
	}
}

func (g *GlobalSymbols) DeclareFunction(mangled string, ty types.Type) {
	g.functions[mangled] = ty
}

func (g *GlobalSymbols) LookupFunction(mangled string) (types.Type, bool) {
	ty, ok := g.functions[mangled]
	return ty, ok
}

func (g *GlobalSymbols) DeclareClass(qualified string, ty types.Type) {
	g.classes[qualified] = ty
}

func (g *GlobalSymbols) LookupClass(qualified string) (types.Type, bool) {
	ty, ok := g.classes[qualified]
	return ty, ok
}

func (g *GlobalSymbols) DeclareImport(alias, modulePath string) {
	g.imports[alias] = modulePath
}

func (g *GlobalSymbols) ResolveImportAlias(alias string) (string, bool) {
	path, ok := g.imports[alias]
	return path, ok
}
