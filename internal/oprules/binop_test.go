package oprules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

func TestLookupBinOp_IntIntArithmeticStaysInt(t *testing.T) {
	rule := LookupBinOp(Add, types.VInt(), types.VInt())
	require.NotNil(t, rule)
	assert.Equal(t, CoerceNone, rule.LeftCoercion)
	assert.Equal(t, CoerceNone, rule.RightCoercion)
	assert.Equal(t, types.VInt(), rule.ResultType)
}

func TestLookupBinOp_MixedIntFloatPromotesOneSide(t *testing.T) {
	rule := LookupBinOp(Add, types.VInt(), types.VFloat())
	require.NotNil(t, rule)
	assert.Equal(t, CoerceToFloat, rule.LeftCoercion)
	assert.Equal(t, CoerceNone, rule.RightCoercion)
	assert.Equal(t, types.VFloat(), rule.ResultType)

	rule = LookupBinOp(Add, types.VFloat(), types.VInt())
	require.NotNil(t, rule)
	assert.Equal(t, CoerceNone, rule.LeftCoercion)
	assert.Equal(t, CoerceToFloat, rule.RightCoercion)
}

func TestLookupBinOp_DivAlwaysPromotesIntIntToFloat(t *testing.T) {
	rule := LookupBinOp(Div, types.VInt(), types.VInt())
	require.NotNil(t, rule)
	assert.Equal(t, CoerceToFloat, rule.LeftCoercion)
	assert.Equal(t, CoerceToFloat, rule.RightCoercion)
	assert.Equal(t, types.VFloat(), rule.ResultType)
}

func TestLookupBinOp_BitwiseRequiresIntInt(t *testing.T) {
	rule := LookupBinOp(BitAnd, types.VInt(), types.VInt())
	require.NotNil(t, rule)
	assert.Equal(t, types.VInt(), rule.ResultType)

	assert.Nil(t, LookupBinOp(BitAnd, types.VFloat(), types.VInt()))
	assert.Nil(t, LookupBinOp(BitAnd, types.VInt(), types.VFloat()))
}

func TestLookupBinOp_StrConcatenationIsExternalCall(t *testing.T) {
	rule := LookupBinOp(Add, types.VStr(), types.VStr())
	require.NotNil(t, rule)
	assert.Equal(t, "add_Str", rule.ExternalCall)
	assert.Equal(t, types.VStr(), rule.ResultType)
}

func TestLookupBinOp_ListConcatenationPreservesElementType(t *testing.T) {
	listTy := types.VList(types.VInt())
	rule := LookupBinOp(Add, listTy, listTy)
	require.NotNil(t, rule)
	assert.Equal(t, listTy, rule.ResultType)
	assert.Equal(t, "add_List", rule.ExternalCall)
}

func TestLookupBinOp_MismatchedSequenceAddIsInvalid(t *testing.T) {
	assert.Nil(t, LookupBinOp(Add, types.VList(types.VInt()), types.VList(types.VStr())))
	assert.Nil(t, LookupBinOp(Add, types.VStr(), types.VBytes()))
}

func TestLookupBinOp_SeqTimesIntSwapsOperandsWhenIntIsLeft(t *testing.T) {
	strTy := types.VStr()
	rule := LookupBinOp(Mul, types.VInt(), strTy)
	require.NotNil(t, rule)
	assert.True(t, rule.SwapOperands)
	assert.Equal(t, strTy, rule.ResultType)

	rule = LookupBinOp(Mul, strTy, types.VInt())
	require.NotNil(t, rule)
	assert.False(t, rule.SwapOperands)
}

func TestLookupBinOp_ClassOperandsAreNeverHandledHere(t *testing.T) {
	assert.Nil(t, LookupBinOp(Add, types.VClass("m$Widget"), types.VInt()))
}

func TestOpSymbol(t *testing.T) {
	assert.Equal(t, "+", OpSymbol(Add))
	assert.Equal(t, "//", OpSymbol(FloorDiv))
}

func TestMagicMethodNames(t *testing.T) {
	fwd, rev := MagicMethodNames(Add)
	assert.Equal(t, "__add__", fwd)
	assert.Equal(t, "__radd__", rev)

	fwd, rev = MagicMethodNames(LShift)
	assert.Equal(t, "", fwd)
	assert.Equal(t, "", rev)
}

func TestBinOpTypeErrorMessage(t *testing.T) {
	msg := BinOpTypeErrorMessage(Add, types.VStr(), types.VInt())
	assert.Contains(t, msg, "numeric operands")
	assert.Contains(t, msg, "str")

	msg = BinOpTypeErrorMessage(BitAnd, types.VFloat(), types.VInt())
	assert.Contains(t, msg, "bitwise operator")
}
