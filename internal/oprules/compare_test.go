package oprules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

func TestLookupCompare_SameNumericKindIsDirectTyped(t *testing.T) {
	strategy, rule := LookupCompare(Lt, types.VInt(), types.VInt())
	assert.Equal(t, StrategyDirectTyped, strategy)
	require.NotNil(t, rule)
	assert.Equal(t, types.VInt(), rule.ResultType)
}

func TestLookupCompare_MixedIntFloatPromotesBoth(t *testing.T) {
	strategy, rule := LookupCompare(Lt, types.VInt(), types.VFloat())
	assert.Equal(t, StrategyDirectTyped, strategy)
	require.NotNil(t, rule)
	assert.Equal(t, CoerceToFloat, rule.LeftCoercion)
	assert.Equal(t, CoerceToFloat, rule.RightCoercion)
}

func TestLookupCompare_BoolComparesAsIntAgainstInt(t *testing.T) {
	strategy, rule := LookupCompare(Lt, types.VBool(), types.VInt())
	assert.Equal(t, StrategyDirectTyped, strategy)
	require.NotNil(t, rule)
	assert.Equal(t, types.VInt(), rule.ResultType)
}

func TestLookupCompare_BoolAgainstFloatPromotesToFloat(t *testing.T) {
	strategy, rule := LookupCompare(Lt, types.VBool(), types.VFloat())
	assert.Equal(t, StrategyDirectTyped, strategy)
	require.NotNil(t, rule)
	assert.Equal(t, types.VFloat(), rule.ResultType)
}

func TestLookupCompare_ReferenceEqualityFallsBackToMagicEq(t *testing.T) {
	strategy, rule := LookupCompare(Eq, types.VStr(), types.VStr())
	assert.Equal(t, StrategyMagicEq, strategy)
	assert.Nil(t, rule)

	strategy, _ = LookupCompare(NotEq, types.VClass("m$Widget"), types.VClass("m$Widget"))
	assert.Equal(t, StrategyMagicEq, strategy)
}

func TestLookupCompare_ReferenceOrderingFallsBackToMagicLt(t *testing.T) {
	strategy, rule := LookupCompare(Lt, types.VStr(), types.VStr())
	assert.Equal(t, StrategyMagicLt, strategy)
	assert.Nil(t, rule)

	strategy, _ = LookupCompare(GtE, types.VClass("m$Widget"), types.VClass("m$Widget"))
	assert.Equal(t, StrategyMagicLt, strategy)
}

func TestLookupCompare_InNotInAreContainsRegardlessOfOperandTypes(t *testing.T) {
	strategy, rule := LookupCompare(In, types.VInt(), types.VList(types.VInt()))
	assert.Equal(t, StrategyContains, strategy)
	assert.Nil(t, rule)

	strategy, _ = LookupCompare(NotIn, types.VStr(), types.VStr())
	assert.Equal(t, StrategyContains, strategy)
}

func TestLookupCompare_IsIsNotAreIdentity(t *testing.T) {
	strategy, rule := LookupCompare(Is, types.VClass("m$Widget"), types.VClass("m$Widget"))
	assert.Equal(t, StrategyIdentity, strategy)
	assert.Nil(t, rule)

	strategy, _ = LookupCompare(IsNot, types.VInt(), types.VInt())
	assert.Equal(t, StrategyIdentity, strategy)
}
