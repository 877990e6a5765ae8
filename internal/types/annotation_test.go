package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnnotation_Scalars(t *testing.T) {
	cases := map[string]Kind{
		"int": Int, "float": Float, "bool": Bool, "str": Str,
		"bytes": Bytes, "bytearray": ByteArray, "None": Unit,
	}
	for s, want := range cases {
		ty, err := ParseAnnotation(s)
		require.NoError(t, err)
		assert.Equal(t, want, ty.Kind)
	}
}

func TestParseAnnotation_Containers(t *testing.T) {
	ty, err := ParseAnnotation("list[int]")
	require.NoError(t, err)
	assert.Equal(t, "list[int]", ty.String())

	ty, err = ParseAnnotation("dict[str, list[int]]")
	require.NoError(t, err)
	assert.Equal(t, "dict[str, list[int]]", ty.String())

	ty, err = ParseAnnotation("tuple[int, str, bool]")
	require.NoError(t, err)
	assert.Equal(t, "tuple[int, str, bool]", ty.String())

	ty, err = ParseAnnotation("set[int]")
	require.NoError(t, err)
	assert.Equal(t, Set, ty.Kind)
}

func TestParseAnnotation_DictRejectsWrongArity(t *testing.T) {
	_, err := ParseAnnotation("dict[str]")
	assert.Error(t, err)
}

func TestParseAnnotation_EmptyStringIsAnError(t *testing.T) {
	_, err := ParseAnnotation("")
	assert.Error(t, err)
}

func TestParseAnnotation_UnknownNameIsAssumedClass(t *testing.T) {
	ty, err := ParseAnnotation("Widget")
	require.NoError(t, err)
	assert.Equal(t, Class, ty.Kind)
	assert.Equal(t, "Widget", ty.ClassName)
}

func TestParseAnnotation_TrimsWhitespace(t *testing.T) {
	ty, err := ParseAnnotation("  int  ")
	require.NoError(t, err)
	assert.Equal(t, Int, ty.Kind)
}
