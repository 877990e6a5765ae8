package tags

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExceptionTag_KnownAndUnknownNames(t *testing.T) {
	tag, ok := ExceptionTag("TypeError")
	require.True(t, ok)
	assert.Equal(t, 4, tag)

	_, ok = ExceptionTag("NotARealException")
	assert.False(t, ok)
}

func TestExceptionName_IsTheInverseOfExceptionTag(t *testing.T) {
	tag, ok := ExceptionTag("ZeroDivisionError")
	require.True(t, ok)
	name, ok := ExceptionName(tag)
	require.True(t, ok)
	assert.Equal(t, "ZeroDivisionError", name)
}

func TestBuiltinTag_KnownAndUnknownNames(t *testing.T) {
	tag, ok := BuiltinTag("list_append")
	require.True(t, ok)
	assert.Equal(t, "list_append", tag)

	_, ok = BuiltinTag("not_a_real_builtin")
	assert.False(t, ok)
}

func TestAllBuiltinNames_IsSortedAndIncludesKnownEntries(t *testing.T) {
	names := AllBuiltinNames()
	require.NotEmpty(t, names)
	assert.True(t, sort.StringsAreSorted(names))

	found := false
	for _, n := range names {
		if n == "list_append" {
			found = true
		}
	}
	assert.True(t, found)
}
