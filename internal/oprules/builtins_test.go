package oprules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

func TestLookupConversion_IdentityWhenAlreadyTargetKind(t *testing.T) {
	rule := LookupConversion(types.Int, types.VInt())
	require.NotNil(t, rule)
	assert.Equal(t, Identity, rule.Kind)
	assert.Equal(t, types.VInt(), rule.ReturnType)
}

func TestLookupConversion_PrimitiveCrossCasts(t *testing.T) {
	rule := LookupConversion(types.Float, types.VInt())
	require.NotNil(t, rule)
	assert.Equal(t, PrimitiveCast, rule.Kind)
	assert.Equal(t, "IntToFloat", rule.CastKind)

	rule = LookupConversion(types.Bool, types.VFloat())
	require.NotNil(t, rule)
	assert.Equal(t, "FloatToBool", rule.CastKind)
}

func TestLookupConversion_StrToIntAndFloatAreExternalCalls(t *testing.T) {
	rule := LookupConversion(types.Int, types.VStr())
	require.NotNil(t, rule)
	assert.Equal(t, ExternalCall, rule.Kind)
	assert.Equal(t, "str_to_int", rule.Tag)

	rule = LookupConversion(types.Float, types.VStr())
	require.NotNil(t, rule)
	assert.Equal(t, "str_to_float", rule.Tag)
}

func TestLookupConversion_BoolAcceptsAnyArgumentViaTruthiness(t *testing.T) {
	rule := LookupConversion(types.Bool, types.VList(types.VInt()))
	require.NotNil(t, rule)
	assert.Equal(t, ExternalCall, rule.Kind)
	assert.Equal(t, "truthy_List_Int", rule.Tag)
}

func TestLookupConversion_StrToBoolSupportedStrToBytesReturnsNil(t *testing.T) {
	assert.NotNil(t, LookupConversion(types.Bool, types.VStr()))
	assert.Nil(t, LookupConversion(types.Bytes, types.VStr()))
}

func TestLookupAbs(t *testing.T) {
	rule := LookupAbs(types.VInt())
	require.NotNil(t, rule)
	assert.Equal(t, "abs_Int", rule.Tag)

	assert.Nil(t, LookupAbs(types.VStr()))
}

func TestLookupPow(t *testing.T) {
	rule := LookupPow(types.VInt(), types.VInt())
	require.NotNil(t, rule)
	assert.Equal(t, "pow_Int", rule.Tag)
	assert.Equal(t, types.VInt(), rule.ReturnType)

	rule = LookupPow(types.VInt(), types.VFloat())
	require.NotNil(t, rule)
	assert.Equal(t, "pow_Float", rule.Tag)

	assert.Nil(t, LookupPow(types.VStr(), types.VInt()))
}

func TestLookupRound(t *testing.T) {
	rule := LookupRound(types.VFloat())
	require.NotNil(t, rule)
	assert.Equal(t, ExternalCall, rule.Kind)
	assert.Equal(t, types.VInt(), rule.ReturnType)

	rule = LookupRound(types.VInt())
	require.NotNil(t, rule)
	assert.Equal(t, Identity, rule.Kind)

	assert.Nil(t, LookupRound(types.VStr()))
}

func TestLookupMinMax_PrimitivesFoldViaLt(t *testing.T) {
	rule := LookupMinMax(types.VInt())
	require.NotNil(t, rule)
	assert.Equal(t, FoldExternalCall, rule.Kind)
	assert.Equal(t, "lt_Int", rule.FoldTag)
}

func TestLookupMinMax_ClassDispatchesToLt(t *testing.T) {
	rule := LookupMinMax(types.VClass("m$Widget"))
	require.NotNil(t, rule)
	assert.Equal(t, ClassMagicRule, rule.Kind)
	assert.Equal(t, []string{"__lt__"}, rule.CandidateDunders)
}

func TestLookupSum_SeedsFromBinOpAddRule(t *testing.T) {
	rule := LookupSum(types.VInt(), types.VInt())
	require.NotNil(t, rule)
	assert.Equal(t, "add", rule.FoldTag)
	assert.Equal(t, types.VInt(), rule.ReturnType)

	assert.Nil(t, LookupSum(types.VStr(), types.VInt()))
}

func TestLookupStrOrRepr_PrimitivesUseExternalCall(t *testing.T) {
	rule := LookupStrOrRepr(types.VInt(), false)
	require.NotNil(t, rule)
	assert.Equal(t, "int_to_str", rule.Tag)

	rule = LookupStrOrRepr(types.VStr(), false)
	require.NotNil(t, rule)
	assert.Equal(t, Identity, rule.Kind)
}

func TestLookupStrOrRepr_ClassDispatchesToStrOrRepr(t *testing.T) {
	rule := LookupStrOrRepr(types.VClass("m$Widget"), false)
	require.NotNil(t, rule)
	assert.Equal(t, []string{"__str__"}, rule.CandidateDunders)

	rule = LookupStrOrRepr(types.VClass("m$Widget"), true)
	require.NotNil(t, rule)
	assert.Equal(t, []string{"__repr__"}, rule.CandidateDunders)
}

func TestLookupStrOrRepr_ListUsesSynthesisAutoKinds(t *testing.T) {
	rule := LookupStrOrRepr(types.VList(types.VInt()), false)
	require.NotNil(t, rule)
	assert.Equal(t, StrAuto, rule.Kind)

	rule = LookupStrOrRepr(types.VList(types.VInt()), true)
	require.NotNil(t, rule)
	assert.Equal(t, ReprAuto, rule.Kind)
}
