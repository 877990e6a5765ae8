package classreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
)

var cfPos = ast.Pos{File: "m.ty", Line: 1, Column: 1}

func TestFoldConstant_Literals(t *testing.T) {
	v, err := foldConstant(ast.ConstInt(cfPos, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	v, err = foldConstant(ast.ConstStr(cfPos, "hi"))
	require.NoError(t, err)
	assert.Equal(t, "hi", v)
}

func TestFoldConstant_UnaryMinusNegatesNumeric(t *testing.T) {
	v, err := foldConstant(ast.UnaryOp(cfPos, "USub", ast.ConstInt(cfPos, 7)))
	require.NoError(t, err)
	assert.Equal(t, int64(-7), v)
}

func TestFoldConstant_UnaryMinusRejectsNonNumeric(t *testing.T) {
	_, err := foldConstant(ast.UnaryOp(cfPos, "USub", ast.ConstStr(cfPos, "x")))
	assert.Error(t, err)
}

func TestFoldConstant_ArithmeticFoldsIntAndMixed(t *testing.T) {
	v, err := foldConstant(ast.BinOp(cfPos, "Add", ast.ConstInt(cfPos, 2), ast.ConstInt(cfPos, 3)))
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	v, err = foldConstant(ast.BinOp(cfPos, "Div", ast.ConstInt(cfPos, 1), ast.ConstInt(cfPos, 2)))
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
}

func TestFoldConstant_FloorDivAndModMatchPythonSignConvention(t *testing.T) {
	v, err := foldConstant(ast.BinOp(cfPos, "FloorDiv", ast.ConstInt(cfPos, -7), ast.ConstInt(cfPos, 2)))
	require.NoError(t, err)
	assert.Equal(t, int64(-4), v)

	v, err = foldConstant(ast.BinOp(cfPos, "Mod", ast.ConstInt(cfPos, -7), ast.ConstInt(cfPos, 2)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestFoldConstant_DivisionByZeroIsAnError(t *testing.T) {
	_, err := foldConstant(ast.BinOp(cfPos, "FloorDiv", ast.ConstInt(cfPos, 1), ast.ConstInt(cfPos, 0)))
	assert.Error(t, err)

	_, err = foldConstant(ast.BinOp(cfPos, "Div", ast.ConstInt(cfPos, 1), ast.ConstInt(cfPos, 0)))
	assert.Error(t, err)
}

func TestFoldConstant_NoneIsRejected(t *testing.T) {
	noneNode := ast.NewNode("Constant", cfPos).SetStr("kind", "none")
	_, err := foldConstant(noneNode)
	assert.Error(t, err)
}

func TestFoldConstant_NonConstantExpressionIsRejected(t *testing.T) {
	_, err := foldConstant(ast.Name(cfPos, "x"))
	assert.Error(t, err)
}
