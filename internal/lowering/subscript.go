package lowering

import (
	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/diag"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/tir"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

// lowerSubscript implements the subscript rules: list slicing,
// static/dynamic tuple indexing, and the `__getitem__` fallback for
// everything else.
func (l *Lowering) lowerSubscript(node ast.Node) (tir.Expr, error) {
	value, err := l.lowerExpr(node.GetAttr("value"))
	if err != nil {
		return tir.Expr{}, err
	}
	sliceNode := node.GetAttr("slice")

	if sliceNode.TypeName() == "Slice" {
		if value.Ty.Kind() != types.List {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "slicing is only supported on `list`, got `%s`", value.Ty)
		}
		return l.lowerListSlice(node, value, sliceNode)
	}

	if l.isTuple(value.Ty) {
		return l.lowerTupleIndex(node, value, sliceNode)
	}

	index, err := l.lowerExpr(sliceNode)
	if err != nil {
		return tir.Expr{}, err
	}
	method, ok := l.lookupMethod(value.Ty.ClassName(), "__getitem__")
	if value.Ty.Kind() != types.Class || !ok {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` does not support subscripting", value.Ty)
	}
	return l.callMethod(node, method, value, []tir.Expr{index})
}

func (l *Lowering) lowerListSlice(node ast.Node, value tir.Expr, sliceNode ast.Node) (tir.Expr, error) {
	var args []tir.Expr
	args = append(args, value)
	for _, part := range []string{"lower", "upper", "step"} {
		if n := sliceNode.GetAttr(part); n != nil {
			v, err := l.lowerExpr(n)
			if err != nil {
				return tir.Expr{}, err
			}
			args = append(args, v)
		} else {
			args = append(args, tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt(), IntVal: -1})
		}
	}
	return tir.Expr{Kind: tir.KindExternalCall, Ty: value.Ty, Span: node.Position(), Target: tir.BuiltinTarget("list_slice"), Args: args}, nil
}

// lowerTupleIndex handles tuple subscripting: a static integer index is a
// bounds-checked field access; a dynamic integer index requires the tuple
// to be homogeneous and lowers to an if/else ladder mapping the index to
// each field.
func (l *Lowering) lowerTupleIndex(node ast.Node, value tir.Expr, indexNode ast.Node) (tir.Expr, error) {
	info, ok := l.classes.Get(value.Ty.ClassName())
	if !ok {
		diag.Panic("tuple literal's class %s missing from registry", value.Ty.ClassName())
	}

	if indexNode.TypeName() == "Constant" && indexNode.GetString("kind") == "int" {
		idx := int(indexNode.GetInt("value"))
		n := len(info.Fields)
		if idx < 0 {
			idx += n
		}
		if idx < 0 || idx >= n {
			return tir.Expr{}, diag.New(diag.ValueError, node.Position(), l.funcName(), "tuple index %d out of range for tuple of length %d", indexNode.GetInt("value"), n)
		}
		field := info.Fields[idx]
		return tir.Expr{Kind: tir.KindGetField, Ty: field.Ty, Span: node.Position(), Object: &value, ClassName: value.Ty.ClassName(), FieldIndex: idx}, nil
	}

	for i := 1; i < len(info.Fields); i++ {
		if !info.Fields[i].Ty.Equal(info.Fields[0].Ty) {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "dynamic tuple indexing requires a homogeneous tuple")
		}
	}

	index, err := l.lowerExpr(indexNode)
	if err != nil {
		return tir.Expr{}, err
	}
	if index.Ty.Kind() != types.Int {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "tuple index must be `int`, got `%s`", index.Ty)
	}

	elemTy := info.Fields[0].Ty
	resultVar := l.freshName("__tupidx")
	l.scope.Declare(resultVar, elemTy.Type())
	l.emit(tir.Let(resultVar, elemTy, &tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt()}))

	var buildLadder func(i int) []tir.Stmt
	buildLadder = func(i int) []tir.Stmt {
		field := tir.Expr{Kind: tir.KindGetField, Ty: elemTy, Object: &value, ClassName: value.Ty.ClassName(), FieldIndex: i}
		idxLit := tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt(), IntVal: int64(i)}
		cond := tir.Expr{Kind: tir.KindIntEq, Ty: types.VBool(), Left: &index, Right: &idxLit}
		then := []tir.Stmt{tir.Let(resultVar, elemTy, &field)}
		if i == len(info.Fields)-1 {
			return then
		}
		return []tir.Stmt{{Kind: tir.KindIf, Cond: &cond, Then: then, Else: buildLadder(i + 1)}}
	}
	for _, s := range buildLadder(0) {
		l.emit(s)
	}
	return tir.Expr{Kind: tir.KindVar, Ty: elemTy, Name: resultVar, Span: node.Position()}, nil
}
