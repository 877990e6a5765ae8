package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
)

func TestNew_WrapsAFormattedReport(t *testing.T) {
	pos := ast.Pos{File: "m.ty", Line: 3, Column: 5}
	err := New(TypeError, pos, "f", "expected `%s`, got `%s`", "int", "str")
	require.Error(t, err)

	rep, ok := AsReport(err)
	require.True(t, ok)
	assert.Equal(t, TypeError, rep.Category)
	assert.Equal(t, "expected `int`, got `str`", rep.Message)
	assert.Equal(t, "m.ty", rep.File)
	assert.Equal(t, 3, rep.Line)
	assert.Equal(t, 5, rep.Column)
	assert.Equal(t, "f", rep.FunctionName)
}

func TestAsReport_FailsOnPlainError(t *testing.T) {
	_, ok := AsReport(assertPlainError())
	assert.False(t, ok)
}

func assertPlainError() error {
	return &notAReport{}
}

type notAReport struct{}

func (notAReport) Error() string { return "boom" }

func TestWrap_NilReportIsNilError(t *testing.T) {
	assert.NoError(t, Wrap(nil))
}

func TestReport_ToJSONRoundTrips(t *testing.T) {
	pos := ast.Pos{File: "m.ty", Line: 1, Column: 1}
	err := New(NameError, pos, "", "undefined name `%s`", "x")
	rep, _ := AsReport(err)

	compact, jerr := rep.ToJSON(true)
	require.NoError(t, jerr)
	assert.Contains(t, compact, `"category":"NameError"`)

	pretty, jerr := rep.ToJSON(false)
	require.NoError(t, jerr)
	assert.Contains(t, pretty, "\n")
}

func TestICE_ErrorMessageHasPrefix(t *testing.T) {
	ice := ICE{Msg: "unreachable branch"}
	assert.Equal(t, "internal compiler error: unreachable branch", ice.Error())
}

func TestPanic_RaisesAnICE(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		ice, ok := r.(ICE)
		require.True(t, ok)
		assert.Contains(t, ice.Msg, "bad state")
	}()
	Panic("bad state: %d", 42)
}
