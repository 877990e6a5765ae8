package codegen

import (
	"testing"

	llirtypes "github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/classreg"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/tir"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

func TestValueTypeToLLVM_Scalars(t *testing.T) {
	c := NewConverter(classreg.New("m"))

	assert.Equal(t, llirtypes.I64, c.ValueTypeToLLVM(types.VInt()))
	assert.Equal(t, llirtypes.Double, c.ValueTypeToLLVM(types.VFloat()))
	assert.Equal(t, llirtypes.I1, c.ValueTypeToLLVM(types.VBool()))
}

func TestValueTypeToLLVM_ReferenceTypesAreOpaquePointers(t *testing.T) {
	c := NewConverter(classreg.New("m"))

	for _, vt := range []types.ValueType{
		types.VStr(), types.VBytes(), types.VByteArray(),
		types.VList(types.VInt()), types.VSet(types.VInt()), types.VDict(types.VInt(), types.VStr()),
	} {
		llvmTy := c.ValueTypeToLLVM(vt)
		_, ok := llvmTy.(*llirtypes.PointerType)
		assert.Truef(t, ok, "%s should lower to a pointer type, got %T", vt, llvmTy)
	}
}

func TestValueTypeToLLVM_ClassIsNamedStructPointer(t *testing.T) {
	reg := classreg.New("m")
	info := reg.GetOrCreateTupleClass([]types.ValueType{types.VInt(), types.VStr()})

	c := NewConverter(reg)
	llvmTy := c.ValueTypeToLLVM(types.VClass(info.QualifiedName))

	ptr, ok := llvmTy.(*llirtypes.PointerType)
	require.True(t, ok)
	st, ok := ptr.ElemType.(*llirtypes.StructType)
	require.True(t, ok)
	assert.Equal(t, info.QualifiedName, st.TypeName)
	require.Len(t, st.Fields, 2)
	assert.Equal(t, llirtypes.I64, st.Fields[0])
}

func TestClassStruct_CachesSameInstance(t *testing.T) {
	reg := classreg.New("m")
	info := reg.GetOrCreateTupleClass([]types.ValueType{types.VInt()})

	c := NewConverter(reg)
	a := c.classStruct(info.QualifiedName)
	b := c.classStruct(info.QualifiedName)
	assert.Same(t, a, b)
}

func TestFunctionLLVMSignature_UnitReturnIsVoid(t *testing.T) {
	c := NewConverter(classreg.New("m"))
	fn := &tir.Function{
		MangledName: "m$f",
		Params:      []tir.Param{{Name: "x", Ty: types.VInt()}},
	}
	sig := c.FunctionLLVMSignature(fn)
	assert.Equal(t, llirtypes.Void, sig.RetType)
	require.Len(t, sig.Params, 1)
	assert.Equal(t, llirtypes.I64, sig.Params[0])
}

func TestFunctionLLVMSignature_CapturesAppendAsTrailingParams(t *testing.T) {
	c := NewConverter(classreg.New("m"))
	ret := types.VFloat()
	fn := &tir.Function{
		MangledName: "m$f",
		Params:      []tir.Param{{Name: "x", Ty: types.VInt()}},
		Return:      &ret,
		Captures:    []tir.Param{{Name: "y", Ty: types.VBool()}},
	}
	sig := c.FunctionLLVMSignature(fn)
	assert.Equal(t, llirtypes.Double, sig.RetType)
	require.Len(t, sig.Params, 2)
	assert.Equal(t, llirtypes.I64, sig.Params[0])
	assert.Equal(t, llirtypes.I1, sig.Params[1])
}
