// Package types defines the closed, source-level type universe that the
// Lowering core resolves every annotation, literal, and expression against.
package types

import (
	"fmt"
	"strings"
)

// Kind tags the closed universe of source-level types.
type Kind int

const (
	Invalid Kind = iota
	Int
	Float
	Bool
	Str
	Bytes
	ByteArray
	Unit
	Module
	Class
	Function
	List
	Dict
	Set
	Tuple
)

// Type is the full source-level type, including the non-value kinds
// (Module, Unit, Function) that ValueType excludes.
type Type struct {
	Kind Kind

	// Module carries the dotted module path for Kind == Module.
	ModulePath string

	// Class carries the fully-qualified class name for Kind == Class.
	ClassName string

	// Function carries parameter and return types for Kind == Function.
	Params []Type
	Return *Type

	// List/Set carry a single element type; Dict carries Key/Elem.
	Elem *Type
	Key  *Type

	// Tuple carries one entry per element, in order.
	Elements []Type
}

// Reference-semantics kinds: Str, Bytes, ByteArray, Class, List, Dict, Set.
func (t Type) IsReference() bool {
	switch t.Kind {
	case Str, Bytes, ByteArray, Class, List, Dict, Set:
		return true
	default:
		return false
	}
}

func (t Type) IsNumeric() bool {
	return t.Kind == Int || t.Kind == Float
}

func (t Type) String() string {
	switch t.Kind {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Str:
		return "str"
	case Bytes:
		return "bytes"
	case ByteArray:
		return "bytearray"
	case Unit:
		return "None"
	case Module:
		return fmt.Sprintf("module(%s)", t.ModulePath)
	case Class:
		return t.ClassName
	case Function:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		ret := "None"
		if t.Return != nil {
			ret = t.Return.String()
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), ret)
	case List:
		return fmt.Sprintf("list[%s]", t.Elem.String())
	case Dict:
		return fmt.Sprintf("dict[%s, %s]", t.Key.String(), t.Elem.String())
	case Set:
		return fmt.Sprintf("set[%s]", t.Elem.String())
	case Tuple:
		parts := make([]string, len(t.Elements))
		for i, e := range t.Elements {
			parts[i] = e.String()
		}
		return fmt.Sprintf("tuple[%s]", strings.Join(parts, ", "))
	default:
		return "<invalid>"
	}
}

func (t Type) Equal(o Type) bool {
	return t.String() == o.String()
}

// Constructors for the simple, field-less kinds.
func NewInt() Type       { return Type{Kind: Int} }
func NewFloat() Type     { return Type{Kind: Float} }
func NewBool() Type      { return Type{Kind: Bool} }
func NewStr() Type       { return Type{Kind: Str} }
func NewBytes() Type     { return Type{Kind: Bytes} }
func NewByteArray() Type { return Type{Kind: ByteArray} }
func NewUnit() Type      { return Type{Kind: Unit} }

func NewModule(path string) Type { return Type{Kind: Module, ModulePath: path} }
func NewClass(name string) Type  { return Type{Kind: Class, ClassName: name} }

func NewFunction(params []Type, ret Type) Type {
	r := ret
	return Type{Kind: Function, Params: params, Return: &r}
}

func NewList(elem Type) Type { return Type{Kind: List, Elem: &elem} }
func NewDict(key, elem Type) Type {
	return Type{Kind: Dict, Key: &key, Elem: &elem}
}
func NewSet(elem Type) Type         { return Type{Kind: Set, Elem: &elem} }
func NewTuple(elems ...Type) Type   { return Type{Kind: Tuple, Elements: elems} }

// ValueType is the strict subset of Type every runtime value carries:
// Module, Unit, and Function are excluded. Conversion to/from Type is
// total on the shared subset.
type ValueType struct {
	inner Type
}

// ToValueType converts a Type to a ValueType, returning false for
// Module/Unit/Function which have no runtime representation.
func ToValueType(t Type) (ValueType, bool) {
	switch t.Kind {
	case Module, Unit, Function, Invalid:
		return ValueType{}, false
	default:
		return ValueType{inner: t}, true
	}
}

// MustValueType panics (an ICE) if t has no ValueType representation.
// Callers that already guarantee t is runtime-representable use this to
// avoid threading a bool through call sites that cannot fail.
func MustValueType(t Type) ValueType {
	vt, ok := ToValueType(t)
	if !ok {
		panic(fmt.Sprintf("internal error: %s has no ValueType representation", t))
	}
	return vt
}

func (v ValueType) Type() Type      { return v.inner }
func (v ValueType) Kind() Kind      { return v.inner.Kind }
func (v ValueType) String() string  { return v.inner.String() }
func (v ValueType) IsReference() bool { return v.inner.IsReference() }
func (v ValueType) IsNumeric() bool   { return v.inner.IsNumeric() }
func (v ValueType) Equal(o ValueType) bool { return v.inner.Equal(o.inner) }
func (v ValueType) ClassName() string { return v.inner.ClassName }
func (v ValueType) Elem() ValueType  { return MustValueType(*v.inner.Elem) }
func (v ValueType) Key() ValueType   { return MustValueType(*v.inner.Key) }
func (v ValueType) Elements() []ValueType {
	out := make([]ValueType, len(v.inner.Elements))
	for i, e := range v.inner.Elements {
		out[i] = MustValueType(e)
	}
	return out
}

func VInt() ValueType       { return MustValueType(NewInt()) }
func VFloat() ValueType     { return MustValueType(NewFloat()) }
func VBool() ValueType      { return MustValueType(NewBool()) }
func VStr() ValueType       { return MustValueType(NewStr()) }
func VBytes() ValueType     { return MustValueType(NewBytes()) }
func VByteArray() ValueType { return MustValueType(NewByteArray()) }
func VClass(name string) ValueType { return MustValueType(NewClass(name)) }
func VList(elem ValueType) ValueType {
	return MustValueType(NewList(elem.inner))
}
func VDict(key, elem ValueType) ValueType {
	return MustValueType(NewDict(key.inner, elem.inner))
}
func VSet(elem ValueType) ValueType { return MustValueType(NewSet(elem.inner)) }
func VTuple(elems ...ValueType) ValueType {
	ts := make([]Type, len(elems))
	for i, e := range elems {
		ts[i] = e.inner
	}
	return MustValueType(NewTuple(ts...))
}

// NormalizeTypeName renders a ValueType the way the intrinsic-instance
// registry and tuple-class synthesizer key their maps: a flat identifier
// safe for use inside a mangled name.
func NormalizeTypeName(v ValueType) string {
	switch v.Kind() {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Bool:
		return "Bool"
	case Str:
		return "Str"
	case Bytes:
		return "Bytes"
	case ByteArray:
		return "ByteArray"
	case Class:
		return v.ClassName()
	case List:
		return "List_" + NormalizeTypeName(v.Elem())
	case Dict:
		return "Dict_" + NormalizeTypeName(v.Key()) + "_" + NormalizeTypeName(v.Elem())
	case Set:
		return "Set_" + NormalizeTypeName(v.Elem())
	case Tuple:
		parts := make([]string, len(v.Elements()))
		for i, e := range v.Elements() {
			parts[i] = NormalizeTypeName(e)
		}
		return "Tuple_" + strings.Join(parts, "_")
	default:
		return "Unknown"
	}
}
