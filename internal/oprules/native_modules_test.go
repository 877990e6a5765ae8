package oprules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupNativeModuleFunction_KnownMathFunction(t *testing.T) {
	f, ok := LookupNativeModuleFunction("math", "sqrt")
	require.True(t, ok)
	assert.Equal(t, "math_sqrt", f.Tag)
}

func TestLookupNativeModuleFunction_KnownRandomFunction(t *testing.T) {
	f, ok := LookupNativeModuleFunction("random", "randint")
	require.True(t, ok)
	assert.Equal(t, "random_randint", f.Tag)
}

func TestLookupNativeModuleFunction_UnknownFunctionOrModuleFails(t *testing.T) {
	_, ok := LookupNativeModuleFunction("math", "tan")
	assert.False(t, ok)

	_, ok = LookupNativeModuleFunction("os", "sqrt")
	assert.False(t, ok)
}

func TestLookupNativeModuleFunction_ModuleMismatchIsNotConfused(t *testing.T) {
	// "sqrt" only exists under "math", not under "random".
	_, ok := LookupNativeModuleFunction("random", "sqrt")
	assert.False(t, ok)
}
