// Package codegen proves the TIR this core emits is realizable as concrete
// LLVM IR, without implementing instruction selection itself — the actual
// backend code generator remains an external collaborator. Built on
// github.com/llir/llvm, the real Go LLVM-IR construction library, treating
// ValueType as the thing a backend consumes.
//
// Every ValueType maps to exactly one LLVM type (total, no panics on a
// well-formed ValueType): numerics to the matching LLVM scalar, reference
// types to an opaque named-struct pointer the runtime library owns the
// layout of, classes and tuple classes to a named struct with one field
// per class field in declaration order.
package codegen

import (
	llirtypes "github.com/llir/llvm/ir/types"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/classreg"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/diag"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/tir"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

// Converter holds the named-struct cache for one module's class registry,
// so repeated ValueTypeToLLVM calls for the same class (or mutually
// recursive classes, e.g. a container and its `__iter__` iterator class)
// return the identical *llirtypes.StructType instance instead of
// redeclaring it.
type Converter struct {
	classes *classreg.Registry
	structs map[string]*llirtypes.StructType
}

func NewConverter(classes *classreg.Registry) *Converter {
	return &Converter{
		classes: classes,
		structs: map[string]*llirtypes.StructType{},
	}
}

// opaqueRef is the pointer-to-named-opaque-struct representation used for
// every reference-semantics runtime type whose internal layout belongs to
// the runtime library, not this core (str, bytes, bytearray, list, dict,
// set).
func opaqueRef(name string) *llirtypes.PointerType {
	return llirtypes.NewPointer(&llirtypes.StructType{TypeName: name})
}

// ValueTypeToLLVM is the total mapping from every ValueType tag to an
// llir/llvm/ir/types value.
func (c *Converter) ValueTypeToLLVM(vt types.ValueType) llirtypes.Type {
	switch vt.Kind() {
	case types.Int:
		return llirtypes.I64
	case types.Float:
		return llirtypes.Double
	case types.Bool:
		return llirtypes.I1
	case types.Str:
		return opaqueRef("tython.str")
	case types.Bytes:
		return opaqueRef("tython.bytes")
	case types.ByteArray:
		return opaqueRef("tython.bytearray")
	case types.List:
		return opaqueRef("tython.list")
	case types.Dict:
		return opaqueRef("tython.dict")
	case types.Set:
		return opaqueRef("tython.set")
	case types.Class:
		return llirtypes.NewPointer(c.classStruct(vt.ClassName()))
	default:
		diag.Panic("codegen: ValueType `%s` has no LLVM representation", vt)
		return nil // unreachable
	}
}

// classStruct returns (creating and caching on first use) the named
// struct type for qualifiedName, one field per ClassField in declaration
// order. The struct is cached before its fields are filled in so a class
// that is mutually recursive with another (a container whose `__iter__`
// returns an iterator class that holds a pointer back to the container)
// resolves without infinite recursion.
func (c *Converter) classStruct(qualifiedName string) *llirtypes.StructType {
	if st, ok := c.structs[qualifiedName]; ok {
		return st
	}
	st := &llirtypes.StructType{TypeName: qualifiedName}
	c.structs[qualifiedName] = st

	info, ok := c.classes.Get(qualifiedName)
	if !ok {
		diag.Panic("codegen: class `%s` missing from registry", qualifiedName)
	}
	fields := make([]llirtypes.Type, len(info.Fields))
	for _, f := range info.Fields {
		fields[f.Index] = c.ValueTypeToLLVM(f.Ty)
	}
	st.Fields = fields
	return st
}

// FunctionLLVMSignature builds the LLVM function type for a lowered
// tir.Function: Unit return (fn.Return == nil) maps to llirtypes.Void,
// every other return and every parameter goes through ValueTypeToLLVM.
func (c *Converter) FunctionLLVMSignature(fn *tir.Function) *llirtypes.FuncType {
	params := make([]llirtypes.Type, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, c.ValueTypeToLLVM(p.Ty))
	}

	var ret llirtypes.Type = llirtypes.Void
	if fn.Return != nil {
		ret = c.ValueTypeToLLVM(*fn.Return)
	}
	return llirtypes.NewFunc(ret, params...)
}
