package oprules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

func TestLookupUnaryOp_USubUAddPreserveNumericType(t *testing.T) {
	rule := LookupUnaryOp(USub, types.VInt())
	require.NotNil(t, rule)
	assert.Equal(t, types.VInt(), rule.ResultType)

	rule = LookupUnaryOp(UAdd, types.VFloat())
	require.NotNil(t, rule)
	assert.Equal(t, types.VFloat(), rule.ResultType)
}

func TestLookupUnaryOp_USubOnNonNumericIsInvalid(t *testing.T) {
	assert.Nil(t, LookupUnaryOp(USub, types.VStr()))
	assert.Nil(t, LookupUnaryOp(USub, types.VBool()))
}

func TestLookupUnaryOp_NotAlwaysYieldsBool(t *testing.T) {
	rule := LookupUnaryOp(Not, types.VClass("m$Widget"))
	require.NotNil(t, rule)
	assert.Equal(t, types.VBool(), rule.ResultType)
}

func TestLookupUnaryOp_InvertOnlyAcceptsInt(t *testing.T) {
	rule := LookupUnaryOp(Invert, types.VInt())
	require.NotNil(t, rule)
	assert.Equal(t, types.VInt(), rule.ResultType)

	assert.Nil(t, LookupUnaryOp(Invert, types.VFloat()))
}

func TestUnaryMagicMethod_OnlyNotHasOne(t *testing.T) {
	assert.Equal(t, "__bool__", UnaryMagicMethod(Not))
	assert.Equal(t, "", UnaryMagicMethod(USub))
	assert.Equal(t, "", UnaryMagicMethod(Invert))
}

func TestUnaryOpTypeErrorMessage(t *testing.T) {
	msg := UnaryOpTypeErrorMessage(USub, types.VStr())
	assert.Contains(t, msg, "unary `-`")
	assert.Contains(t, msg, "str")
}
