package classreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/diag"
)

func TestCollectParamDefaults_OnlyParamsWithDefaultsAreReturned(t *testing.T) {
	fn := ast.FunctionDef(cfPos, "f", []string{"a", "b", "c"},
		[]ast.Node{nil, nil, nil},
		[]ast.Node{nil, ast.ConstInt(cfPos, 10), nil},
		"int", nil)

	defaults, err := CollectParamDefaults(fn)
	require.NoError(t, err)
	require.Len(t, defaults, 1)
	assert.Equal(t, "b", defaults[0].Name)
	assert.Equal(t, int64(10), defaults[0].Value)
}

func TestCollectParamDefaults_FoldsArithmeticDefaults(t *testing.T) {
	fn := ast.FunctionDef(cfPos, "f", []string{"a"}, []ast.Node{nil},
		[]ast.Node{ast.BinOp(cfPos, "Mult", ast.ConstInt(cfPos, 2), ast.ConstInt(cfPos, 3))},
		"int", nil)

	defaults, err := CollectParamDefaults(fn)
	require.NoError(t, err)
	require.Len(t, defaults, 1)
	assert.Equal(t, int64(6), defaults[0].Value)
}

func TestCollectParamDefaults_NonFoldableDefaultIsASyntaxError(t *testing.T) {
	fn := ast.FunctionDef(cfPos, "f", []string{"a"}, []ast.Node{nil},
		[]ast.Node{ast.Name(cfPos, "other_param")}, "int", nil)

	_, err := CollectParamDefaults(fn)
	require.Error(t, err)
	rep, ok := diag.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, diag.SyntaxError, rep.Category)
}

func TestCollectParamDefaults_NoDefaultsReturnsEmpty(t *testing.T) {
	fn := ast.FunctionDef(cfPos, "f", []string{"a", "b"}, nil, nil, "int", nil)
	defaults, err := CollectParamDefaults(fn)
	require.NoError(t, err)
	assert.Empty(t, defaults)
}
