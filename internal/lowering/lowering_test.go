package lowering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/diag"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/tir"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

var pos = ast.Pos{File: "m.ty", Line: 1, Column: 1}

func lowerModule(t *testing.T, body []ast.Node) *tir.Module {
	t.Helper()
	module, err := New("m").LowerModule(body)
	require.NoError(t, err)
	return module
}

// scenario 1: integer promotion.
// x: float = 1 + 2 * 3
func TestScenario_IntegerPromotion(t *testing.T) {
	stmt := ast.AnnAssign(pos, ast.Name(pos, "x"), "float",
		ast.BinOp(pos, "Add", ast.ConstInt(pos, 1),
			ast.BinOp(pos, "Mult", ast.ConstInt(pos, 2), ast.ConstInt(pos, 3))))

	module := lowerModule(t, []ast.Node{stmt})
	fn := module.Functions["m$$main$"]
	require.NotNil(t, fn)
	require.Len(t, fn.Body, 1)

	let := fn.Body[0]
	assert.Equal(t, tir.KindLet, let.Kind)
	assert.Equal(t, "x", let.Name)
	assert.Equal(t, types.VFloat(), let.Ty)

	cast := let.Expr
	require.Equal(t, tir.KindCastIntToFloat, cast.Kind)
	add := cast.Left
	require.Equal(t, tir.KindIntAdd, add.Kind)
	assert.Equal(t, int64(1), add.Left.IntVal)
	mul := add.Right
	require.Equal(t, tir.KindIntMul, mul.Kind)
	assert.Equal(t, int64(2), mul.Left.IntVal)
	assert.Equal(t, int64(3), mul.Right.IntVal)
}

// scenario 2: chained comparison.
// a, b, c: int = ...; a < b <= c
func TestScenario_ChainedComparison(t *testing.T) {
	body := []ast.Node{
		ast.AnnAssign(pos, ast.Name(pos, "a"), "int", ast.ConstInt(pos, 1)),
		ast.AnnAssign(pos, ast.Name(pos, "b"), "int", ast.ConstInt(pos, 2)),
		ast.AnnAssign(pos, ast.Name(pos, "c"), "int", ast.ConstInt(pos, 3)),
		ast.ExprStmt(pos, ast.Compare(pos, ast.Name(pos, "a"), []string{"Lt", "LtE"},
			[]ast.Node{ast.Name(pos, "b"), ast.Name(pos, "c")})),
	}
	module := lowerModule(t, body)
	fn := module.Functions["m$$main$"]
	require.Len(t, fn.Body, 4)

	exprStmt := fn.Body[3]
	require.Equal(t, tir.KindExprStmt, exprStmt.Kind)
	top := exprStmt.Expr
	require.Equal(t, tir.KindLogicalAnd, top.Kind)
	assert.Equal(t, tir.KindIntLt, top.Left.Kind)
	assert.Equal(t, tir.KindIntLtEq, top.Right.Kind)
	assert.Equal(t, types.VBool(), top.Ty)
}

// scenario 3: tuple class reuse and equality.
// t1 = (1, "x"); t2 = (2, "y"); t1 == t2
func TestScenario_TupleClassReuseAndEquality(t *testing.T) {
	body := []ast.Node{
		ast.AnnAssign(pos, ast.Name(pos, "t1"), "tuple[int, str]",
			ast.TupleLit(pos, ast.ConstInt(pos, 1), ast.ConstStr(pos, "x"))),
		ast.AnnAssign(pos, ast.Name(pos, "t2"), "tuple[int, str]",
			ast.TupleLit(pos, ast.ConstInt(pos, 2), ast.ConstStr(pos, "y"))),
		ast.ExprStmt(pos, ast.Compare(pos, ast.Name(pos, "t1"), []string{"Eq"}, []ast.Node{ast.Name(pos, "t2")})),
	}
	module := lowerModule(t, body)
	fn := module.Functions["m$$main$"]
	require.Len(t, fn.Body, 3)

	t1 := fn.Body[0].Expr
	t2 := fn.Body[1].Expr
	require.Equal(t, tir.KindConstruct, t1.Kind)
	require.Equal(t, tir.KindConstruct, t2.Kind)
	assert.Equal(t, t1.Ty, t2.Ty, "both tuple literals share the synthesized class")

	// Exactly one tuple class exists in the module output.
	var tupleClasses int
	for name := range module.Classes {
		if name == t1.Ty.ClassName() {
			tupleClasses++
		}
	}
	assert.Equal(t, 1, tupleClasses)

	eq := fn.Body[2].Expr
	require.Equal(t, tir.KindCall, eq.Kind)
	assert.Equal(t, "m$"+t1.Ty.ClassName()+"$__eq__", eq.Target.Named)
}

// scenario 4: list comprehension with filter.
// squares = [x*x for x in range(10) if x%2==0]
func TestScenario_ListComprehensionWithFilter(t *testing.T) {
	gen := ast.Comprehension(
		ast.Name(pos, "x"),
		ast.Call(pos, ast.Name(pos, "range"), []ast.Node{ast.ConstInt(pos, 10)}, nil, nil),
		[]ast.Node{
			ast.Compare(pos, ast.BinOp(pos, "Mod", ast.Name(pos, "x"), ast.ConstInt(pos, 2)),
				[]string{"Eq"}, []ast.Node{ast.ConstInt(pos, 0)}),
		},
	)
	comp := ast.ListComp(pos, ast.BinOp(pos, "Mult", ast.Name(pos, "x"), ast.Name(pos, "x")), []ast.Node{gen})
	stmt := ast.AnnAssign(pos, ast.Name(pos, "squares"), "list[int]", comp)

	module := lowerModule(t, []ast.Node{stmt})
	fn := module.Functions["m$$main$"]

	// Let squares; Let __listcomp; ForRange(...); Let squares = Var(__listcomp)
	require.True(t, len(fn.Body) >= 3)

	var forRange *tir.Stmt
	for i := range fn.Body {
		if fn.Body[i].Kind == tir.KindForRange {
			forRange = &fn.Body[i]
		}
	}
	require.NotNil(t, forRange, "expected a ForRange loop in the lowered body")
	assert.Equal(t, int64(0), forRange.Start.IntVal)
	assert.Equal(t, int64(10), forRange.Stop.IntVal)
	assert.Equal(t, int64(1), forRange.Step.IntVal)

	require.Len(t, forRange.Body, 1)
	ifStmt := forRange.Body[0]
	require.Equal(t, tir.KindIf, ifStmt.Kind)
	require.Equal(t, tir.KindIntEq, ifStmt.Cond.Kind)
	require.Len(t, ifStmt.Then, 1)
	appendCall := ifStmt.Then[0]
	require.Equal(t, tir.KindVoidCall, appendCall.Kind)
	assert.Equal(t, "list_append", appendCall.CallTarget.Builtin)

	last := fn.Body[len(fn.Body)-1]
	assert.Equal(t, types.VList(types.VInt()), last.Ty)
}

// scenario 5: sum-over-generator fusion.
// s: int = sum(n*n for n in range(5), 0)
func TestScenario_SumOverGeneratorFusion(t *testing.T) {
	gen := ast.Comprehension(ast.Name(pos, "n"),
		ast.Call(pos, ast.Name(pos, "range"), []ast.Node{ast.ConstInt(pos, 5)}, nil, nil), nil)
	genExpr := ast.GeneratorExp(pos, ast.BinOp(pos, "Mult", ast.Name(pos, "n"), ast.Name(pos, "n")), []ast.Node{gen})
	sumCall := ast.Call(pos, ast.Name(pos, "sum"), []ast.Node{genExpr, ast.ConstInt(pos, 0)}, nil, nil)
	stmt := ast.AnnAssign(pos, ast.Name(pos, "s"), "int", sumCall)

	module := lowerModule(t, []ast.Node{stmt})
	fn := module.Functions["m$$main$"]

	for _, s := range fn.Body {
		assert.NotEqual(t, tir.KindForList, s.Kind, "fusion must not materialize an intermediate list")
	}

	var forRange *tir.Stmt
	for i := range fn.Body {
		if fn.Body[i].Kind == tir.KindForRange {
			forRange = &fn.Body[i]
		}
	}
	require.NotNil(t, forRange)
	require.Len(t, forRange.Body, 1)
	accLet := forRange.Body[0]
	require.Equal(t, tir.KindLet, accLet.Kind)
	require.Equal(t, tir.KindIntAdd, accLet.Expr.Kind)

	last := fn.Body[len(fn.Body)-1]
	assert.Equal(t, "s", last.Name)
	assert.Equal(t, types.VInt(), last.Ty)
}

// scenario 6: reference-field immutability.
func TestScenario_ReferenceFieldImmutability(t *testing.T) {
	classBody := []ast.Node{
		ast.AnnAssign(pos, ast.Name(pos, "name"), "str", nil),
		ast.FunctionDef(pos, "__init__", []string{"self", "name"},
			[]ast.Node{nil, ast.NewNode("ann", pos).SetStr("annotation", "str")}, nil, "None",
			[]ast.Node{
				ast.Assign(pos, ast.Attribute(pos, ast.Name(pos, "self"), "name"), ast.Name(pos, "name")),
			}),
		ast.FunctionDef(pos, "rename", []string{"self"}, []ast.Node{nil}, nil, "None",
			[]ast.Node{
				ast.Assign(pos, ast.Attribute(pos, ast.Name(pos, "self"), "name"), ast.ConstStr(pos, "new")),
			}),
	}
	classDef := ast.ClassDef(pos, "Widget", nil, classBody)

	_, err := New("m").LowerModule([]ast.Node{classDef})
	require.Error(t, err)
	rep, ok := diag.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, diag.TypeError, rep.Category)
	assert.Contains(t, rep.Message, "name")
}
