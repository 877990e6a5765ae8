package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType_StringRendersSurfaceSyntax(t *testing.T) {
	assert.Equal(t, "int", NewInt().String())
	assert.Equal(t, "None", NewUnit().String())
	assert.Equal(t, "list[int]", NewList(NewInt()).String())
	assert.Equal(t, "dict[str, int]", NewDict(NewStr(), NewInt()).String())
	assert.Equal(t, "tuple[int, str]", NewTuple(NewInt(), NewStr()).String())
	assert.Equal(t, "(int, str) -> bool", NewFunction([]Type{NewInt(), NewStr()}, NewBool()).String())
}

func TestType_IsReferenceAndIsNumeric(t *testing.T) {
	assert.True(t, NewStr().IsReference())
	assert.True(t, NewList(NewInt()).IsReference())
	assert.False(t, NewInt().IsReference())
	assert.False(t, NewBool().IsReference())

	assert.True(t, NewInt().IsNumeric())
	assert.True(t, NewFloat().IsNumeric())
	assert.False(t, NewStr().IsNumeric())
}

func TestType_EqualComparesStructurally(t *testing.T) {
	assert.True(t, NewList(NewInt()).Equal(NewList(NewInt())))
	assert.False(t, NewList(NewInt()).Equal(NewList(NewStr())))
	assert.True(t, NewClass("m$Widget").Equal(NewClass("m$Widget")))
}

func TestToValueType_ExcludesModuleUnitFunction(t *testing.T) {
	_, ok := ToValueType(NewModule("m"))
	assert.False(t, ok)
	_, ok = ToValueType(NewUnit())
	assert.False(t, ok)
	_, ok = ToValueType(NewFunction(nil, NewInt()))
	assert.False(t, ok)

	vt, ok := ToValueType(NewInt())
	require.True(t, ok)
	assert.Equal(t, Int, vt.Kind())
}

func TestMustValueType_PanicsOnNonRepresentable(t *testing.T) {
	assert.Panics(t, func() { MustValueType(NewUnit()) })
}

func TestValueType_ContainerAccessors(t *testing.T) {
	listTy := VList(VInt())
	assert.Equal(t, Int, listTy.Elem().Kind())

	dictTy := VDict(VStr(), VBool())
	assert.Equal(t, Str, dictTy.Key().Kind())
	assert.Equal(t, Bool, dictTy.Elem().Kind())

	tupleTy := VTuple(VInt(), VStr())
	elems := tupleTy.Elements()
	require.Len(t, elems, 2)
	assert.Equal(t, Int, elems[0].Kind())
	assert.Equal(t, Str, elems[1].Kind())
}

func TestNormalizeTypeName(t *testing.T) {
	assert.Equal(t, "Int", NormalizeTypeName(VInt()))
	assert.Equal(t, "List_Int", NormalizeTypeName(VList(VInt())))
	assert.Equal(t, "Dict_Str_Int", NormalizeTypeName(VDict(VStr(), VInt())))
	assert.Equal(t, "Set_Bool", NormalizeTypeName(VSet(VBool())))
	assert.Equal(t, "m$Widget", NormalizeTypeName(VClass("m$Widget")))
}
