package lowering

import (
	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/diag"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/intrinsics"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/oprules"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/tir"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

func (l *Lowering) funcName() string {
	if l.method != nil {
		return l.method.className
	}
	return ""
}

// lowerExpr is the recursive-descent entry point for Expression Lowering:
// for every AST node kind it computes (kind, ValueType)
// and may push hoisted setup statements via l.emit (flushed by the
// caller's enclosing lowerBlock).
func (l *Lowering) lowerExpr(node ast.Node) (tir.Expr, error) {
	switch node.TypeName() {
	case "Constant":
		return l.lowerConstant(node)
	case "Name":
		return l.lowerName(node)
	case "Attribute":
		return l.lowerAttribute(node)
	case "BinOp":
		return l.lowerBinOp(node)
	case "Compare":
		return l.lowerCompare(node)
	case "BoolOp":
		return l.lowerBoolOp(node)
	case "UnaryOp":
		return l.lowerUnaryOp(node)
	case "Call":
		return l.lowerCallExpr(node)
	case "List":
		return l.lowerListLit(node, nil)
	case "Dict":
		return l.lowerDictLit(node, nil)
	case "Set":
		return l.lowerSetLit(node, nil)
	case "Tuple":
		return l.lowerTupleLit(node)
	case "Subscript":
		return l.lowerSubscript(node)
	case "ListComp":
		return l.lowerListComp(node)
	case "GeneratorExp":
		return l.lowerListComp(node) // materialized the same way unless fused by sum()
	case "JoinedStr":
		return l.lowerJoinedStr(node)
	case "FormattedValue":
		return l.lowerFormattedValue(node)
	default:
		return tir.Expr{}, diag.New(diag.SyntaxError, node.Position(), l.funcName(), "unsupported expression of kind `%s`", node.TypeName())
	}
}

func (l *Lowering) lowerConstant(node ast.Node) (tir.Expr, error) {
	switch node.GetString("kind") {
	case "int":
		return tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt(), IntVal: node.GetInt("value"), Span: node.Position()}, nil
	case "float":
		return tir.Expr{Kind: tir.KindFloatLit, Ty: types.VFloat(), FloatVal: node.GetFloat("value"), Span: node.Position()}, nil
	case "bool":
		return tir.Expr{Kind: tir.KindBoolLit, Ty: types.VBool(), BoolVal: node.GetBool("value"), Span: node.Position()}, nil
	case "str":
		return tir.Expr{Kind: tir.KindStrLit, Ty: types.VStr(), StrVal: node.GetString("value"), Span: node.Position()}, nil
	default:
		return tir.Expr{}, diag.New(diag.SyntaxError, node.Position(), l.funcName(), "constant of kind `%s` is not supported here", node.GetString("kind"))
	}
}

// lowerName looks up the scope chain; a Module binding is not itself a
// valid expression.
func (l *Lowering) lowerName(node ast.Node) (tir.Expr, error) {
	id := node.GetString("id")
	ty, ok := l.scope.Lookup(id)
	if !ok {
		return tir.Expr{}, diag.New(diag.NameError, node.Position(), l.funcName(), "name `%s` is not defined", id)
	}
	if ty.Kind == types.Module {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "module `%s` cannot be used as a value", id)
	}
	if ty.Kind == types.Function {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "function `%s` cannot be used as a first-class value", id)
	}
	vt := types.MustValueType(ty)
	return tir.Expr{Kind: tir.KindVar, Ty: vt, Name: id, Span: node.Position()}, nil
}

// lowerAttribute reads a field by index, resolved via the object's class
//. Module-qualified access (`math.sqrt`) is resolved by the
// Call Lowering classifier before it reaches here.
func (l *Lowering) lowerAttribute(node ast.Node) (tir.Expr, error) {
	obj, err := l.lowerExpr(node.GetAttr("value"))
	if err != nil {
		return tir.Expr{}, err
	}
	attr := node.GetString("attr")
	if obj.Ty.Kind() != types.Class {
		return tir.Expr{}, diag.New(diag.AttributeError, node.Position(), l.funcName(), "`%s` has no attribute `%s`", obj.Ty, attr)
	}
	info, ok := l.classes.Get(obj.Ty.ClassName())
	if !ok {
		diag.Panic("attribute access on unregistered class %s", obj.Ty.ClassName())
	}
	idx, ok := info.FieldMap[attr]
	if !ok {
		return tir.Expr{}, diag.New(diag.AttributeError, node.Position(), l.funcName(), "`%s` has no field `%s`", obj.Ty.ClassName(), attr)
	}
	field := info.Fields[idx]
	return tir.Expr{
		Kind: tir.KindGetField, Ty: field.Ty, Span: node.Position(),
		Object: &obj, ClassName: obj.Ty.ClassName(), FieldIndex: idx,
	}, nil
}

// lowerBinOp dispatches through Type Rules, falling back to class magic
// methods.
func (l *Lowering) lowerBinOp(node ast.Node) (tir.Expr, error) {
	opName := node.GetString("op")
	left, err := l.lowerExpr(node.GetAttr("left"))
	if err != nil {
		return tir.Expr{}, err
	}
	right, err := l.lowerExpr(node.GetAttr("right"))
	if err != nil {
		return tir.Expr{}, err
	}
	return l.applyBinOp(node, oprules.BinOp(opName), left, right)
}

func (l *Lowering) applyBinOp(node ast.Node, op oprules.BinOp, left, right tir.Expr) (tir.Expr, error) {
	if left.Ty.Kind() == types.Class || right.Ty.Kind() == types.Class {
		return l.applyBinOpMagic(node, op, left, right)
	}

	rule := oprules.LookupBinOp(op, left.Ty, right.Ty)
	if rule == nil {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "%s", oprules.BinOpTypeErrorMessage(op, left.Ty, right.Ty))
	}
	left = coerce(left, rule.LeftCoercion)
	right = coerce(right, rule.RightCoercion)

	if rule.ExternalCall != "" {
		args := []tir.Expr{left, right}
		if rule.SwapOperands {
			args = []tir.Expr{right, left}
		}
		return tir.Expr{
			Kind: tir.KindExternalCall, Ty: rule.ResultType, Span: node.Position(),
			Target: tir.BuiltinTarget(rule.ExternalCall), Args: args,
		}, nil
	}

	kind, ok := typedArithKind(op, rule.ResultType)
	if !ok {
		diag.Panic("binop %s on %s has no typed TIR kind", op, rule.ResultType)
	}
	return tir.Expr{Kind: kind, Ty: rule.ResultType, Span: node.Position(), Left: &left, Right: &right}, nil
}

func typedArithKind(op oprules.BinOp, ty types.ValueType) (tir.ExprKind, bool) {
	isFloat := ty.Kind() == types.Float
	switch op {
	case oprules.Add:
		if isFloat {
			return tir.KindFloatAdd, true
		}
		return tir.KindIntAdd, true
	case oprules.Sub:
		if isFloat {
			return tir.KindFloatSub, true
		}
		return tir.KindIntSub, true
	case oprules.Mul:
		if isFloat {
			return tir.KindFloatMul, true
		}
		return tir.KindIntMul, true
	case oprules.Div:
		return tir.KindFloatDiv, true
	case oprules.FloorDiv:
		if isFloat {
			return 0, false // floor-div on floats is not part of the closed kind set
		}
		return tir.KindIntFloorDiv, true
	case oprules.Mod:
		if isFloat {
			return tir.KindFloatMod, true
		}
		return tir.KindIntMod, true
	case oprules.Pow:
		if isFloat {
			return tir.KindFloatPow, true
		}
		return tir.KindIntPow, true
	case oprules.BitAnd:
		return tir.KindIntBitAnd, true
	case oprules.BitOr:
		return tir.KindIntBitOr, true
	case oprules.BitXor:
		return tir.KindIntBitXor, true
	case oprules.LShift:
		return tir.KindIntLShift, true
	case oprules.RShift:
		return tir.KindIntRShift, true
	}
	return 0, false
}

// applyBinOpMagic dispatches to a class's __add__/__radd__/... via direct method-map lookup.
func (l *Lowering) applyBinOpMagic(node ast.Node, op oprules.BinOp, left, right tir.Expr) (tir.Expr, error) {
	forward, reflected := oprules.MagicMethodNames(op)
	if forward == "" {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "%s", oprules.BinOpTypeErrorMessage(op, left.Ty, right.Ty))
	}
	if left.Ty.Kind() == types.Class {
		if method, ok := l.lookupMethod(left.Ty.ClassName(), forward); ok {
			return l.callMethod(node, method, left, []tir.Expr{right})
		}
	}
	if right.Ty.Kind() == types.Class {
		if method, ok := l.lookupMethod(right.Ty.ClassName(), reflected); ok {
			return l.callMethod(node, method, right, []tir.Expr{left})
		}
	}
	return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(),
		"`%s` does not support operator `%s` with `%s`", left.Ty, oprules.OpSymbol(op), right.Ty)
}

func (l *Lowering) lookupMethod(className, methodName string) (tir.ClassMethod, bool) {
	info, ok := l.classes.Get(className)
	if !ok {
		return tir.ClassMethod{}, false
	}
	m, ok := info.Methods[methodName]
	return m, ok
}

// callMethod emits a direct TIR Call to method's mangled name with self as
// the implicit first argument.
func (l *Lowering) callMethod(node ast.Node, method tir.ClassMethod, self tir.Expr, args []tir.Expr) (tir.Expr, error) {
	if method.ReturnType == nil {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` cannot be used as a value expression", method.Name)
	}
	allArgs := append([]tir.Expr{self}, args...)
	return tir.Expr{Kind: tir.KindCall, Ty: *method.ReturnType, Span: node.Position(), Target: tir.NamedTarget(method.MangledName), Args: allArgs}, nil
}

// lowerCompare lowers chained comparisons `a < b < c` into an AND-chain of
// pairwise comparisons.
func (l *Lowering) lowerCompare(node ast.Node) (tir.Expr, error) {
	left, err := l.lowerExpr(node.GetAttr("left"))
	if err != nil {
		return tir.Expr{}, err
	}
	ops := ast.CompareOps(node)
	comparators := node.GetList("comparators")

	var chain *tir.Expr
	cur := left
	for i, opName := range ops {
		rightNode := comparators[i]
		right, err := l.lowerValueWithHint(rightNode, &cur.Ty)
		if err != nil {
			return tir.Expr{}, err
		}
		pair, err := l.applyCompare(node, oprules.CompareOp(opName), cur, right)
		if err != nil {
			return tir.Expr{}, err
		}
		if chain == nil {
			chain = &pair
		} else {
			l2, r2 := *chain, pair
			chain = &tir.Expr{Kind: tir.KindLogicalAnd, Ty: types.VBool(), Span: node.Position(), Left: &l2, Right: &r2}
		}
		cur = right
	}
	return *chain, nil
}

func (l *Lowering) applyCompare(node ast.Node, op oprules.CompareOp, left, right tir.Expr) (tir.Expr, error) {
	strategy, rule := oprules.LookupCompare(op, left.Ty, right.Ty)
	switch strategy {
	case oprules.StrategyDirectTyped:
		left = coerce(left, rule.LeftCoercion)
		right = coerce(right, rule.RightCoercion)
		kind, ok := typedCompareKind(op, rule.ResultType)
		if !ok {
			diag.Panic("compare %s on %s has no typed TIR kind", op, rule.ResultType)
		}
		return tir.Expr{Kind: kind, Ty: types.VBool(), Span: node.Position(), Left: &left, Right: &right}, nil

	case oprules.StrategyMagicEq:
		return l.applyMagicCompare(node, op, left, right, "__eq__", "__ne__")

	case oprules.StrategyMagicLt:
		return l.applyMagicOrdering(node, op, left, right)

	case oprules.StrategyContains:
		method := "contains"
		args := []tir.Expr{right, left}
		result := tir.Expr{Kind: tir.KindExternalCall, Ty: types.VBool(), Span: node.Position(), Target: tir.BuiltinTarget(method + "_" + types.NormalizeTypeName(right.Ty)), Args: args}
		if op == oprules.NotIn {
			return tir.Expr{Kind: tir.KindLogicalNot, Ty: types.VBool(), Span: node.Position(), Left: &result}, nil
		}
		return result, nil

	case oprules.StrategyIdentity:
		result := tir.Expr{Kind: tir.KindExternalCall, Ty: types.VBool(), Span: node.Position(), Target: tir.BuiltinTarget("identity_eq"), Args: []tir.Expr{left, right}}
		if op == oprules.IsNot {
			return tir.Expr{Kind: tir.KindLogicalNot, Ty: types.VBool(), Span: node.Position(), Left: &result}, nil
		}
		return result, nil
	}
	return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "unsupported comparison between `%s` and `%s`", left.Ty, right.Ty)
}

func typedCompareKind(op oprules.CompareOp, operandTy types.ValueType) (tir.ExprKind, bool) {
	isFloat := operandTy.Kind() == types.Float
	isBool := operandTy.Kind() == types.Bool
	switch op {
	case oprules.Eq:
		if isBool {
			return tir.KindBoolEq, true
		}
		if isFloat {
			return tir.KindFloatEq, true
		}
		return tir.KindIntEq, true
	case oprules.NotEq:
		if isBool {
			return tir.KindBoolNe, true
		}
		if isFloat {
			return tir.KindFloatNe, true
		}
		return tir.KindIntNe, true
	case oprules.Lt:
		if isFloat {
			return tir.KindFloatLt, true
		}
		return tir.KindIntLt, true
	case oprules.LtE:
		if isFloat {
			return tir.KindFloatLtEq, true
		}
		return tir.KindIntLtEq, true
	case oprules.Gt:
		if isFloat {
			return tir.KindFloatGt, true
		}
		return tir.KindIntGt, true
	case oprules.GtE:
		if isFloat {
			return tir.KindFloatGtEq, true
		}
		return tir.KindIntGtEq, true
	}
	return 0, false
}

// applyMagicCompare handles reference-type `==`/`!=` via `__eq__`,
// threading intrinsic equality tags for containers and
// plain method dispatch for classes.
func (l *Lowering) applyMagicCompare(node ast.Node, op oprules.CompareOp, left, right tir.Expr, eqName, neName string) (tir.Expr, error) {
	if left.Ty.Kind() == types.Class {
		method, ok := l.lookupMethod(left.Ty.ClassName(), eqName)
		if !ok {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` has no `%s`", left.Ty, eqName)
		}
		result, err := l.callMethod(node, method, left, []tir.Expr{right})
		if err != nil {
			return tir.Expr{}, err
		}
		if op == oprules.NotEq {
			return tir.Expr{Kind: tir.KindLogicalNot, Ty: types.VBool(), Span: node.Position(), Left: &result}, nil
		}
		return result, nil
	}
	// Str/Bytes/ByteArray/List/Dict/Set: generic equality through an
	// intrinsic-tagged external call.
	tag := l.intrinsics.Register(intrinsics.Eq, left.Ty)
	result := tir.Expr{
		Kind: tir.KindIntrinsicCmp, Ty: types.VBool(), Span: node.Position(),
		IntrinsicOpKind: tir.IntrinsicEq, IntrinsicTag: tag, Left: &left, Right: &right,
	}
	if op == oprules.NotEq {
		return tir.Expr{Kind: tir.KindLogicalNot, Ty: types.VBool(), Span: node.Position(), Left: &result}, nil
	}
	return result, nil
}

// applyMagicOrdering derives le/gt/ge from __lt__ the way Python's total
// ordering does: `a<=b` is `not (b<a)`, `a>b` is `b<a`, `a>=b` is `not (a<b)`.
func (l *Lowering) applyMagicOrdering(node ast.Node, op oprules.CompareOp, left, right tir.Expr) (tir.Expr, error) {
	lt := func(a, b tir.Expr) (tir.Expr, error) {
		if a.Ty.Kind() == types.Class {
			method, ok := l.lookupMethod(a.Ty.ClassName(), "__lt__")
			if !ok {
				return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` has no `__lt__`", a.Ty)
			}
			return l.callMethod(node, method, a, []tir.Expr{b})
		}
		tag := l.intrinsics.Register(intrinsics.Lt, a.Ty)
		return tir.Expr{Kind: tir.KindIntrinsicCmp, Ty: types.VBool(), Span: node.Position(), IntrinsicOpKind: tir.IntrinsicLt, IntrinsicTag: tag, Left: &a, Right: &b}, nil
	}
	negate := func(e tir.Expr) tir.Expr {
		return tir.Expr{Kind: tir.KindLogicalNot, Ty: types.VBool(), Span: node.Position(), Left: &e}
	}
	switch op {
	case oprules.Lt:
		return lt(left, right)
	case oprules.GtE:
		r, err := lt(left, right)
		if err != nil {
			return tir.Expr{}, err
		}
		return negate(r), nil
	case oprules.Gt:
		return lt(right, left)
	case oprules.LtE:
		r, err := lt(right, left)
		if err != nil {
			return tir.Expr{}, err
		}
		return negate(r), nil
	}
	return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "unsupported ordering comparison")
}

// lowerBoolOp lowers `and`/`or` preserving short-circuit semantics;
// operands are coerced to Bool via the truthiness rule first.
func (l *Lowering) lowerBoolOp(node ast.Node) (tir.Expr, error) {
	op := node.GetString("op")
	values := node.GetList("values")
	cur, err := l.truthy(values[0])
	if err != nil {
		return tir.Expr{}, err
	}
	kind := tir.KindLogicalAnd
	if op == "Or" {
		kind = tir.KindLogicalOr
	}
	for _, v := range values[1:] {
		next, err := l.truthy(v)
		if err != nil {
			return tir.Expr{}, err
		}
		l2, r2 := cur, next
		cur = tir.Expr{Kind: kind, Ty: types.VBool(), Span: node.Position(), Left: &l2, Right: &r2}
	}
	return cur, nil
}

// truthy lowers node and, if its type is not already Bool, applies the
// truthiness rule: nonzero for numerics, non-empty for
// sequences/containers, `__bool__` for classes.
func (l *Lowering) truthy(node ast.Node) (tir.Expr, error) {
	e, err := l.lowerExpr(node)
	if err != nil {
		return tir.Expr{}, err
	}
	return l.coerceTruthy(node, e)
}

func (l *Lowering) coerceTruthy(node ast.Node, e tir.Expr) (tir.Expr, error) {
	if e.Ty.Kind() == types.Bool {
		return e, nil
	}
	if e.Ty.Kind() == types.Class {
		method, ok := l.lookupMethod(e.Ty.ClassName(), "__bool__")
		if !ok {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` has no `__bool__`", e.Ty)
		}
		return l.callMethod(node, method, e, nil)
	}
	tag := "truthy_" + types.NormalizeTypeName(e.Ty)
	return tir.Expr{Kind: tir.KindExternalCall, Ty: types.VBool(), Span: node.Position(), Target: tir.BuiltinTarget(tag), Args: []tir.Expr{e}}, nil
}

// lowerUnaryOp lowers `-`/`+`/`~`/`not`.
func (l *Lowering) lowerUnaryOp(node ast.Node) (tir.Expr, error) {
	op := oprules.UnaryOp(node.GetString("op"))
	operandNode := node.GetAttr("operand")

	if op == oprules.Not {
		operand, err := l.truthy(operandNode)
		if err != nil {
			return tir.Expr{}, err
		}
		return tir.Expr{Kind: tir.KindLogicalNot, Ty: types.VBool(), Span: node.Position(), Left: &operand}, nil
	}

	operand, err := l.lowerExpr(operandNode)
	if err != nil {
		return tir.Expr{}, err
	}
	if operand.Ty.Kind() == types.Class {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "%s", oprules.UnaryOpTypeErrorMessage(op, operand.Ty))
	}
	rule := oprules.LookupUnaryOp(op, operand.Ty)
	if rule == nil {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "%s", oprules.UnaryOpTypeErrorMessage(op, operand.Ty))
	}
	kind := unaryKind(op, rule.ResultType)
	return tir.Expr{Kind: kind, Ty: rule.ResultType, Span: node.Position(), Left: &operand}, nil
}

func unaryKind(op oprules.UnaryOp, ty types.ValueType) tir.ExprKind {
	isFloat := ty.Kind() == types.Float
	switch op {
	case oprules.USub:
		if isFloat {
			return tir.KindFloatNeg
		}
		return tir.KindIntNeg
	case oprules.UAdd:
		if isFloat {
			return tir.KindFloatPos
		}
		return tir.KindIntPos
	case oprules.Invert:
		return tir.KindIntInvert
	}
	diag.Panic("unary op %s has no typed TIR kind", op)
	return 0
}

// lowerListLit lowers a non-empty or (with hint) empty list literal. hint, when non-nil, supplies the element type for an empty `[]`.
func (l *Lowering) lowerListLit(node ast.Node, hint *types.ValueType) (tir.Expr, error) {
	elts := node.GetList("elts")
	if len(elts) == 0 {
		if hint == nil {
			return tir.Expr{}, diag.New(diag.SyntaxError, node.Position(), l.funcName(), "empty list literal requires a type annotation or inherited element-type hint")
		}
		return tir.Expr{Kind: tir.KindListLit, Ty: types.VList(*hint), Span: node.Position()}, nil
	}
	elements := make([]tir.Expr, len(elts))
	first, err := l.lowerExpr(elts[0])
	if err != nil {
		return tir.Expr{}, err
	}
	elements[0] = first
	for i, e := range elts[1:] {
		v, err := l.lowerExpr(e)
		if err != nil {
			return tir.Expr{}, err
		}
		if !v.Ty.Equal(first.Ty) {
			return tir.Expr{}, diag.New(diag.TypeError, e.Position(), l.funcName(), "list literal elements must share one type: `%s` vs `%s`", first.Ty, v.Ty)
		}
		elements[i+1] = v
	}
	return tir.Expr{Kind: tir.KindListLit, Ty: types.VList(first.Ty), Span: node.Position(), Elements: elements}, nil
}

// lowerDictLit builds a fresh dict via the runtime's dict_new/dict_set
// external calls; hint, when
// non-nil, supplies the key/value types for an empty `{}`/`dict()`.
func (l *Lowering) lowerDictLit(node ast.Node, hint *types.ValueType) (tir.Expr, error) {
	keys := node.GetList("keys")
	values := node.GetList("values")
	resultVar := l.freshName("__dict")

	if len(keys) == 0 {
		if hint == nil {
			return tir.Expr{}, diag.New(diag.SyntaxError, node.Position(), l.funcName(), "empty dict literal requires a type annotation or inherited element-type hint")
		}
		l.scope.Declare(resultVar, hint.Type())
		l.emit(tir.Let(resultVar, *hint, &tir.Expr{Kind: tir.KindExternalCall, Ty: *hint, Target: tir.BuiltinTarget("dict_new")}))
		return tir.Expr{Kind: tir.KindVar, Ty: *hint, Name: resultVar, Span: node.Position()}, nil
	}

	firstKey, err := l.lowerExpr(keys[0])
	if err != nil {
		return tir.Expr{}, err
	}
	firstVal, err := l.lowerExpr(values[0])
	if err != nil {
		return tir.Expr{}, err
	}
	dictTy := types.VDict(firstKey.Ty, firstVal.Ty)

	l.scope.Declare(resultVar, dictTy.Type())
	l.emit(tir.Let(resultVar, dictTy, &tir.Expr{Kind: tir.KindExternalCall, Ty: dictTy, Target: tir.BuiltinTarget("dict_new")}))
	resultExpr := tir.Expr{Kind: tir.KindVar, Ty: dictTy, Name: resultVar}
	l.emit(tir.VoidCallStmt(tir.BuiltinTarget("dict_set"), []tir.Expr{resultExpr, firstKey, firstVal}))

	for i := 1; i < len(keys); i++ {
		k, err := l.lowerExpr(keys[i])
		if err != nil {
			return tir.Expr{}, err
		}
		v, err := l.lowerExpr(values[i])
		if err != nil {
			return tir.Expr{}, err
		}
		if !k.Ty.Equal(firstKey.Ty) {
			return tir.Expr{}, diag.New(diag.TypeError, keys[i].Position(), l.funcName(), "dict literal keys must share one type: `%s` vs `%s`", firstKey.Ty, k.Ty)
		}
		if !v.Ty.Equal(firstVal.Ty) {
			return tir.Expr{}, diag.New(diag.TypeError, values[i].Position(), l.funcName(), "dict literal values must share one type: `%s` vs `%s`", firstVal.Ty, v.Ty)
		}
		l.emit(tir.VoidCallStmt(tir.BuiltinTarget("dict_set"), []tir.Expr{resultExpr, k, v}))
	}
	return resultExpr, nil
}

// lowerSetLit mirrors lowerDictLit using set_new/set_add.
func (l *Lowering) lowerSetLit(node ast.Node, hint *types.ValueType) (tir.Expr, error) {
	elts := node.GetList("elts")
	resultVar := l.freshName("__set")

	if len(elts) == 0 {
		if hint == nil {
			return tir.Expr{}, diag.New(diag.SyntaxError, node.Position(), l.funcName(), "empty set literal requires a type annotation or inherited element-type hint")
		}
		l.scope.Declare(resultVar, hint.Type())
		l.emit(tir.Let(resultVar, *hint, &tir.Expr{Kind: tir.KindExternalCall, Ty: *hint, Target: tir.BuiltinTarget("set_new")}))
		return tir.Expr{Kind: tir.KindVar, Ty: *hint, Name: resultVar, Span: node.Position()}, nil
	}

	first, err := l.lowerExpr(elts[0])
	if err != nil {
		return tir.Expr{}, err
	}
	setTy := types.VSet(first.Ty)

	l.scope.Declare(resultVar, setTy.Type())
	l.emit(tir.Let(resultVar, setTy, &tir.Expr{Kind: tir.KindExternalCall, Ty: setTy, Target: tir.BuiltinTarget("set_new")}))
	resultExpr := tir.Expr{Kind: tir.KindVar, Ty: setTy, Name: resultVar}
	l.emit(tir.VoidCallStmt(tir.BuiltinTarget("set_add"), []tir.Expr{resultExpr, first}))

	for _, e := range elts[1:] {
		v, err := l.lowerExpr(e)
		if err != nil {
			return tir.Expr{}, err
		}
		if !v.Ty.Equal(first.Ty) {
			return tir.Expr{}, diag.New(diag.TypeError, e.Position(), l.funcName(), "set literal elements must share one type: `%s` vs `%s`", first.Ty, v.Ty)
		}
		l.emit(tir.VoidCallStmt(tir.BuiltinTarget("set_add"), []tir.Expr{resultExpr, v}))
	}
	return resultExpr, nil
}

// lowerTupleLit creates (or reuses) the tuple class for the literal's
// shape and emits a Construct.
func (l *Lowering) lowerTupleLit(node ast.Node) (tir.Expr, error) {
	elts := node.GetList("elts")
	elements := make([]tir.Expr, len(elts))
	elemTypes := make([]types.ValueType, len(elts))
	for i, e := range elts {
		v, err := l.lowerExpr(e)
		if err != nil {
			return tir.Expr{}, err
		}
		elements[i] = v
		elemTypes[i] = v.Ty
	}
	info := l.classes.GetOrCreateTupleClass(elemTypes)
	return tir.Expr{
		Kind: tir.KindConstruct, Ty: types.VClass(info.QualifiedName), Span: node.Position(),
		ClassName: info.QualifiedName, Args: elements,
	}, nil
}

// lowerJoinedStr lowers an f-string as a left-fold of string concatenation
// over each piece.
func (l *Lowering) lowerJoinedStr(node ast.Node) (tir.Expr, error) {
	values := node.GetList("values")
	if len(values) == 0 {
		return tir.Expr{Kind: tir.KindStrLit, Ty: types.VStr(), StrVal: "", Span: node.Position()}, nil
	}
	acc, err := l.lowerExpr(values[0])
	if err != nil {
		return tir.Expr{}, err
	}
	if acc.Ty.Kind() != types.Str {
		diag.Panic("JoinedStr piece did not lower to Str")
	}
	for _, v := range values[1:] {
		piece, err := l.lowerExpr(v)
		if err != nil {
			return tir.Expr{}, err
		}
		l2, r2 := acc, piece
		acc = tir.Expr{Kind: tir.KindExternalCall, Ty: types.VStr(), Span: node.Position(), Target: tir.BuiltinTarget("add_Str"), Args: []tir.Expr{l2, r2}}
	}
	return acc, nil
}

// lowerFormattedValue dispatches its value through str(...)/repr(...)
// depending on the `!r`/`!s` conversion flag. Format specs
// are accepted but ignored, matching the stated scope.
func (l *Lowering) lowerFormattedValue(node ast.Node) (tir.Expr, error) {
	value, err := l.lowerExpr(node.GetAttr("value"))
	if err != nil {
		return tir.Expr{}, err
	}
	wantRepr := node.GetString("conversion") == "r"
	return l.lowerStrOrRepr(node, value, wantRepr)
}

// lowerStrOrRepr implements `str(x)`/`repr(x)`.
func (l *Lowering) lowerStrOrRepr(node ast.Node, arg tir.Expr, wantRepr bool) (tir.Expr, error) {
	rule := oprules.LookupStrOrRepr(arg.Ty, wantRepr)
	if rule == nil {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` has no string conversion", arg.Ty)
	}
	switch rule.Kind {
	case oprules.Identity:
		return arg, nil
	case oprules.ExternalCall:
		return tir.Expr{Kind: tir.KindExternalCall, Ty: rule.ReturnType, Span: node.Position(), Target: tir.BuiltinTarget(rule.Tag), Args: []tir.Expr{arg}}, nil
	case oprules.ClassMagicRule:
		method, ok := l.lookupMethod(arg.Ty.ClassName(), rule.CandidateDunders[0])
		if !ok {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` has no `%s`", arg.Ty, rule.CandidateDunders[0])
		}
		return l.callMethod(node, method, arg, nil)
	case oprules.StrAuto, oprules.ReprAuto:
		return l.synthesizeStrRepr(node, arg, rule.Kind == oprules.ReprAuto)
	}
	return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` has no string conversion", arg.Ty)
}
