package lowering

import (
	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/diag"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/oprules"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/tags"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/tir"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

// lowerStmt is the recursive-descent entry point for Statement Lowering.
// Every branch ends by draining the hoisted pre-statement
// bag through finishStmt, splicing in whatever its own sub-expressions
// pushed via l.emit.
func (l *Lowering) lowerStmt(node ast.Node) ([]tir.Stmt, error) {
	switch node.TypeName() {
	case "Assign":
		return l.lowerAssign(node)
	case "AnnAssign":
		return l.lowerAnnAssign(node)
	case "AugAssign":
		return l.lowerAugAssign(node)
	case "Expr":
		return l.lowerExprStmt(node)
	case "Return":
		return l.lowerReturn(node)
	case "If":
		return l.lowerIf(node)
	case "While":
		return l.lowerWhile(node)
	case "For":
		return l.lowerFor(node)
	case "Break":
		return l.finishStmt(tir.BreakStmt()), nil
	case "Continue":
		return l.finishStmt(tir.ContinueStmt()), nil
	case "Assert":
		return l.lowerAssert(node)
	case "Raise":
		return l.lowerRaise(node)
	case "Try":
		return l.lowerTry(node)
	case "Pass":
		return nil, nil
	default:
		return nil, diag.New(diag.SyntaxError, node.Position(), l.funcName(), "unsupported statement of kind `%s`", node.TypeName())
	}
}

// finishStmt drains whatever lowering primary's operands pushed into the
// pre-statement bag and splices it immediately before primary.
func (l *Lowering) finishStmt(primary ...tir.Stmt) []tir.Stmt {
	return append(l.drainPreStmts(), primary...)
}

// lowerValueWithHint lowers valueNode, routing an empty `[]`/`{}`/`set()`
// literal's element-type hint through directly rather than via lowerExpr
// (which always passes nil) — the one path by which an annotation or an
// established variable type can reach an empty container literal.
func (l *Lowering) lowerValueWithHint(valueNode ast.Node, hint *types.ValueType) (tir.Expr, error) {
	switch valueNode.TypeName() {
	case "List":
		if hint != nil && hint.Kind() == types.List {
			elemHint := hint.Elem()
			return l.lowerListLit(valueNode, &elemHint)
		}
		return l.lowerListLit(valueNode, nil)
	case "Dict":
		if hint != nil && hint.Kind() == types.Dict {
			return l.lowerDictLit(valueNode, hint)
		}
		return l.lowerDictLit(valueNode, nil)
	case "Set":
		if hint != nil && hint.Kind() == types.Set {
			return l.lowerSetLit(valueNode, hint)
		}
		return l.lowerSetLit(valueNode, nil)
	default:
		return l.lowerExpr(valueNode)
	}
}

// lowerAssign dispatches `target = value` by target shape.
func (l *Lowering) lowerAssign(node ast.Node) ([]tir.Stmt, error) {
	target := node.GetAttr("target")
	valueNode := node.GetAttr("value")
	switch target.TypeName() {
	case "Name":
		return l.lowerAssignName(node, target, valueNode)
	case "Attribute":
		return l.lowerAssignAttribute(node, target, valueNode)
	case "Subscript":
		return l.lowerAssignSubscript(node, target, valueNode)
	default:
		return nil, diag.New(diag.SyntaxError, node.Position(), l.funcName(), "unsupported assignment target")
	}
}

// lowerAssignName declares id on first assignment, or rebinds it — a
// rebind must keep the name's established type.
func (l *Lowering) lowerAssignName(node ast.Node, target, valueNode ast.Node) ([]tir.Stmt, error) {
	id := target.GetString("id")
	prior, wasDeclared := l.scope.Lookup(id)
	var hint *types.ValueType
	if wasDeclared {
		if vt, ok := types.ToValueType(prior); ok {
			hint = &vt
		}
	}
	value, err := l.lowerValueWithHint(valueNode, hint)
	if err != nil {
		return nil, err
	}
	if hint != nil && !value.Ty.Equal(*hint) {
		return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "cannot assign `%s` to `%s`, already bound to `%s`", value.Ty, id, *hint)
	}
	l.scope.Declare(id, value.Ty.Type())
	return l.finishStmt(tir.Let(id, value.Ty, &value)), nil
}

// lowerAssignAttribute implements `obj.field = value` plus the
// reference-field-immutability rule: a
// reference-typed field may only be set from inside its own class's
// `__init__`, through `self`.
func (l *Lowering) lowerAssignAttribute(node ast.Node, target, valueNode ast.Node) ([]tir.Stmt, error) {
	objNode := target.GetAttr("value")
	obj, err := l.lowerExpr(objNode)
	if err != nil {
		return nil, err
	}
	attr := target.GetString("attr")
	if obj.Ty.Kind() != types.Class {
		return nil, diag.New(diag.AttributeError, node.Position(), l.funcName(), "`%s` has no attribute `%s`", obj.Ty, attr)
	}
	info, ok := l.classes.Get(obj.Ty.ClassName())
	if !ok {
		diag.Panic("attribute assignment on unregistered class %s", obj.Ty.ClassName())
	}
	idx, ok := info.FieldMap[attr]
	if !ok {
		return nil, diag.New(diag.AttributeError, node.Position(), l.funcName(), "`%s` has no field `%s`", obj.Ty.ClassName(), attr)
	}
	field := info.Fields[idx]

	isSelf := objNode.TypeName() == "Name" && objNode.GetString("id") == "self"
	inOwnInit := l.method != nil && l.method.isInit && l.method.className == obj.Ty.ClassName()
	if field.Ty.IsReference() && !(isSelf && inOwnInit) {
		return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "field `%s` of `%s` is reference-typed and can only be set once, in `__init__`", attr, obj.Ty.ClassName())
	}

	value, err := l.lowerValueWithHint(valueNode, &field.Ty)
	if err != nil {
		return nil, err
	}
	coerced, err := l.coerceArg(node, value, field.Ty)
	if err != nil {
		return nil, err
	}
	return l.finishStmt(tir.Stmt{Kind: tir.KindSetField, SetObject: &obj, SetClassName: obj.Ty.ClassName(), SetFieldIndex: idx, SetValue: &coerced}), nil
}

// lowerAssignSubscript implements `lst[i] = value` and `d[k] = value`.
func (l *Lowering) lowerAssignSubscript(node ast.Node, target, valueNode ast.Node) ([]tir.Stmt, error) {
	obj, err := l.lowerExpr(target.GetAttr("value"))
	if err != nil {
		return nil, err
	}
	index, err := l.lowerExpr(target.GetAttr("slice"))
	if err != nil {
		return nil, err
	}

	switch obj.Ty.Kind() {
	case types.List:
		if index.Ty.Kind() != types.Int {
			return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "list index must be `int`, got `%s`", index.Ty)
		}
		value, err := l.lowerValueWithHint(valueNode, nil)
		if err != nil {
			return nil, err
		}
		coerced, err := l.coerceArg(node, value, obj.Ty.Elem())
		if err != nil {
			return nil, err
		}
		return l.finishStmt(tir.Stmt{Kind: tir.KindListSet, ListTarget: &obj, ListIndex: &index, ListValue: &coerced}), nil
	case types.Dict:
		value, err := l.lowerValueWithHint(valueNode, nil)
		if err != nil {
			return nil, err
		}
		coerced, err := l.coerceArg(node, value, obj.Ty.Elem())
		if err != nil {
			return nil, err
		}
		return l.finishStmt(tir.VoidCallStmt(tir.BuiltinTarget("dict_set"), []tir.Expr{obj, index, coerced})), nil
	default:
		return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` does not support subscript assignment", obj.Ty)
	}
}

// lowerAnnAssign implements `target: annotation = value`.
// The annotation, resolved through the class registry the same way a
// parameter annotation is, both declares the name's type and supplies the
// hint an empty `[]`/`{}`/`set()` literal needs.
func (l *Lowering) lowerAnnAssign(node ast.Node) ([]tir.Stmt, error) {
	target := node.GetAttr("target")
	if target.TypeName() != "Name" {
		return nil, diag.New(diag.SyntaxError, node.Position(), l.funcName(), "annotated assignment target must be a name")
	}
	id := target.GetString("id")

	annTy, err := types.ParseAnnotation(node.GetString("annotation"))
	if err != nil {
		return nil, diag.New(diag.SyntaxError, node.Position(), l.funcName(), "%v", err)
	}
	declaredTy, err := l.classes.ResolveType(annTy)
	if err != nil {
		return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` cannot be used as a variable's type", annTy)
	}

	valueNode := node.GetAttr("value")
	if valueNode == nil {
		l.scope.Declare(id, declaredTy.Type())
		return nil, nil
	}

	value, err := l.lowerValueWithHint(valueNode, &declaredTy)
	if err != nil {
		return nil, err
	}
	coerced, err := l.coerceArg(node, value, declaredTy)
	if err != nil {
		return nil, err
	}
	l.scope.Declare(id, declaredTy.Type())
	return l.finishStmt(tir.Let(id, declaredTy, &coerced)), nil
}

// lowerAugAssign implements `target op= value` by reading the current
// value, applying the ordinary binop rule, and rewriting it back through
// whichever write form the target shape needs. The result
// type must match the target's established type exactly — augmented
// assignment never changes what a name or field holds.
func (l *Lowering) lowerAugAssign(node ast.Node) ([]tir.Stmt, error) {
	target := node.GetAttr("target")
	op := oprules.BinOp(node.GetString("op"))
	rhs, err := l.lowerExpr(node.GetAttr("value"))
	if err != nil {
		return nil, err
	}

	switch target.TypeName() {
	case "Name":
		id := target.GetString("id")
		cur, err := l.lowerName(target)
		if err != nil {
			return nil, err
		}
		result, err := l.applyBinOp(node, op, cur, rhs)
		if err != nil {
			return nil, err
		}
		if !result.Ty.Equal(cur.Ty) {
			return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "augmented assignment would change `%s`'s type from `%s` to `%s`", id, cur.Ty, result.Ty)
		}
		return l.finishStmt(tir.Let(id, result.Ty, &result)), nil

	case "Attribute":
		objNode := target.GetAttr("value")
		obj, err := l.lowerExpr(objNode)
		if err != nil {
			return nil, err
		}
		attr := target.GetString("attr")
		info, ok := l.classes.Get(obj.Ty.ClassName())
		if obj.Ty.Kind() != types.Class || !ok {
			return nil, diag.New(diag.AttributeError, node.Position(), l.funcName(), "`%s` has no attribute `%s`", obj.Ty, attr)
		}
		idx, ok := info.FieldMap[attr]
		if !ok {
			return nil, diag.New(diag.AttributeError, node.Position(), l.funcName(), "`%s` has no field `%s`", obj.Ty.ClassName(), attr)
		}
		field := info.Fields[idx]
		cur := tir.Expr{Kind: tir.KindGetField, Ty: field.Ty, Object: &obj, ClassName: obj.Ty.ClassName(), FieldIndex: idx}
		result, err := l.applyBinOp(node, op, cur, rhs)
		if err != nil {
			return nil, err
		}
		if !result.Ty.Equal(field.Ty) {
			return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "augmented assignment would change field `%s`'s type from `%s` to `%s`", attr, field.Ty, result.Ty)
		}
		return l.finishStmt(tir.Stmt{Kind: tir.KindSetField, SetObject: &obj, SetClassName: obj.Ty.ClassName(), SetFieldIndex: idx, SetValue: &result}), nil

	case "Subscript":
		obj, err := l.lowerExpr(target.GetAttr("value"))
		if err != nil {
			return nil, err
		}
		if obj.Ty.Kind() != types.List {
			return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "augmented subscript assignment is only supported on `list`")
		}
		index, err := l.lowerExpr(target.GetAttr("slice"))
		if err != nil {
			return nil, err
		}
		elemTy := obj.Ty.Elem()
		cur := tir.Expr{Kind: tir.KindExternalCall, Ty: elemTy, Target: tir.BuiltinTarget("list_getitem"), Args: []tir.Expr{obj, index}}
		result, err := l.applyBinOp(node, op, cur, rhs)
		if err != nil {
			return nil, err
		}
		if !result.Ty.Equal(elemTy) {
			return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "augmented assignment would change the element type from `%s` to `%s`", elemTy, result.Ty)
		}
		return l.finishStmt(tir.Stmt{Kind: tir.KindListSet, ListTarget: &obj, ListIndex: &index, ListValue: &result}), nil
	}
	return nil, diag.New(diag.SyntaxError, node.Position(), l.funcName(), "unsupported augmented-assignment target")
}

// lowerExprStmt lowers a bare expression statement. A `Call` routes through
// lowerCallStmt so a Unit-returning callee becomes a VoidCall rather than
// an ExprStmt wrapping an untyped value.
func (l *Lowering) lowerExprStmt(node ast.Node) ([]tir.Stmt, error) {
	value := node.GetAttr("value")
	if value.TypeName() == "Call" {
		s, err := l.lowerCallStmt(value)
		if err != nil {
			return nil, err
		}
		return l.finishStmt(s), nil
	}
	e, err := l.lowerExpr(value)
	if err != nil {
		return nil, err
	}
	return l.finishStmt(tir.ExprStmt(&e)), nil
}

// lowerReturn enforces the enclosing function's declared return type
// exactly; `return` cannot appear anywhere inside a `try` statement that
// has a `finally` clause.
func (l *Lowering) lowerReturn(node ast.Node) ([]tir.Stmt, error) {
	if l.tryFinallyDepth > 0 {
		return nil, diag.New(diag.SyntaxError, node.Position(), l.funcName(), "`return` is not allowed inside a `try` statement with a `finally` clause")
	}
	valueNode := node.GetAttr("value")
	if valueNode == nil {
		if l.currentReturn != nil {
			return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "function must return a value of type `%s`", *l.currentReturn)
		}
		return l.finishStmt(tir.ReturnStmt(nil)), nil
	}
	if l.currentReturn == nil {
		return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "function declared to return `None` cannot return a value")
	}
	value, err := l.lowerValueWithHint(valueNode, l.currentReturn)
	if err != nil {
		return nil, err
	}
	coerced, err := l.coerceArg(node, value, *l.currentReturn)
	if err != nil {
		return nil, err
	}
	return l.finishStmt(tir.ReturnStmt(&coerced)), nil
}

// lowerIf lowers `if`/`elif`/`else`, each branch in its own
// scope frame so names declared in one branch don't leak into the other.
func (l *Lowering) lowerIf(node ast.Node) ([]tir.Stmt, error) {
	cond, err := l.truthy(node.GetAttr("test"))
	if err != nil {
		return nil, err
	}
	pre := l.drainPreStmts()

	l.scope.Push()
	thenBody, err := l.lowerBlock(node.GetList("body"))
	l.scope.Pop()
	if err != nil {
		return nil, err
	}

	l.scope.Push()
	elseBody, err := l.lowerBlock(node.GetList("orelse"))
	l.scope.Pop()
	if err != nil {
		return nil, err
	}

	return append(pre, tir.Stmt{Kind: tir.KindIf, Cond: &cond, Then: thenBody, Else: elseBody}), nil
}

// lowerWhile lowers `while`/`else`; the `orelse` clause runs
// on ordinary loop completion, never after a `break`.
func (l *Lowering) lowerWhile(node ast.Node) ([]tir.Stmt, error) {
	cond, err := l.truthy(node.GetAttr("test"))
	if err != nil {
		return nil, err
	}
	pre := l.drainPreStmts()

	l.scope.Push()
	body, err := l.lowerBlock(node.GetList("body"))
	l.scope.Pop()
	if err != nil {
		return nil, err
	}

	l.scope.Push()
	elseBody, err := l.lowerBlock(node.GetList("orelse"))
	l.scope.Pop()
	if err != nil {
		return nil, err
	}

	return append(pre, tir.Stmt{Kind: tir.KindWhile, Cond: &cond, Then: body, Else: elseBody}), nil
}

// lowerFor lowers a `for`/`else` statement, reusing comprehension.go's
// generator classifier (all nine shapes) and layering on the statement-only
// `orelse` clause comprehensions never need.
func (l *Lowering) lowerFor(node ast.Node) ([]tir.Stmt, error) {
	l.scope.Push()
	shape, err := l.classifyGenerator(node)
	if err != nil {
		l.scope.Pop()
		return nil, err
	}
	if err := l.bindGeneratorTarget(node, shape); err != nil {
		l.scope.Pop()
		return nil, err
	}
	pre := l.drainPreStmts()

	body, err := l.lowerBlock(node.GetList("body"))
	l.scope.Pop()
	if err != nil {
		return nil, err
	}

	loop, err := l.buildGeneratorLoop(node, shape, body)
	if err != nil {
		return nil, err
	}

	l.scope.Push()
	elseBody, err := l.lowerBlock(node.GetList("orelse"))
	l.scope.Pop()
	if err != nil {
		return nil, err
	}
	loop.ElseBody = elseBody

	return append(pre, loop), nil
}

// lowerAssert lowers `assert test, msg` to a void runtime call carrying the
// truthiness-coerced condition and an optional `str` message.
func (l *Lowering) lowerAssert(node ast.Node) ([]tir.Stmt, error) {
	cond, err := l.truthy(node.GetAttr("test"))
	if err != nil {
		return nil, err
	}
	args := []tir.Expr{cond}
	if msgNode := node.GetAttr("msg"); msgNode != nil {
		msg, err := l.lowerExpr(msgNode)
		if err != nil {
			return nil, err
		}
		if msg.Ty.Kind() != types.Str {
			return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "assert message must be `str`, got `%s`", msg.Ty)
		}
		args = append(args, msg)
	}
	return l.finishStmt(tir.VoidCallStmt(tir.BuiltinTarget("assert"), args)), nil
}

// lowerRaise lowers `raise`, `raise Exc()`, and `raise Exc(msg)`, tagging
// the exception kind through the closed small-integer enum tags.ExceptionTag
// loads rather than carrying a name string into TIR.
func (l *Lowering) lowerRaise(node ast.Node) ([]tir.Stmt, error) {
	excNode := node.GetAttr("exc")
	if excNode == nil {
		return l.finishStmt(tir.Stmt{Kind: tir.KindRaise}), nil
	}

	var name string
	var msgNode ast.Node
	switch excNode.TypeName() {
	case "Name":
		name = excNode.GetString("id")
	case "Call":
		fn := excNode.GetAttr("func")
		if fn.TypeName() != "Name" {
			return nil, diag.New(diag.SyntaxError, node.Position(), l.funcName(), "`raise` target must name an exception type")
		}
		name = fn.GetString("id")
		if args := excNode.GetList("args"); len(args) > 0 {
			msgNode = args[0]
		}
	default:
		return nil, diag.New(diag.SyntaxError, node.Position(), l.funcName(), "`raise` target must name an exception type")
	}

	tag, ok := tags.ExceptionTag(name)
	if !ok {
		return nil, diag.New(diag.NameError, node.Position(), l.funcName(), "`%s` is not a recognized exception type", name)
	}
	var msg *tir.Expr
	if msgNode != nil {
		m, err := l.lowerExpr(msgNode)
		if err != nil {
			return nil, err
		}
		if m.Ty.Kind() != types.Str {
			return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "exception message must be `str`, got `%s`", m.Ty)
		}
		msg = &m
	}
	return l.finishStmt(tir.Stmt{Kind: tir.KindRaise, ExcTypeTag: &tag, Message: msg}), nil
}

// lowerTry lowers `try`/`except`/`else`/`finally`. A
// `finally` clause forbids `return` anywhere in the guarded body, tracked
// via tryFinallyDepth so a nested function def would reset the count —
// except nested defs aren't lowered inline, so the counter only ever sees
// the current function's own try/finally nesting.
func (l *Lowering) lowerTry(node ast.Node) ([]tir.Stmt, error) {
	hasFinally := len(node.GetList("finalbody")) > 0
	if hasFinally {
		l.tryFinallyDepth++
	}
	l.scope.Push()
	body, err := l.lowerBlock(node.GetList("body"))
	l.scope.Pop()
	if err != nil {
		if hasFinally {
			l.tryFinallyDepth--
		}
		return nil, err
	}

	var handlers []tir.ExceptClause
	for _, h := range node.GetList("handlers") {
		clause, err := l.lowerExceptHandler(h)
		if err != nil {
			if hasFinally {
				l.tryFinallyDepth--
			}
			return nil, err
		}
		handlers = append(handlers, clause)
	}

	l.scope.Push()
	elseBody, err := l.lowerBlock(node.GetList("orelse"))
	l.scope.Pop()
	if err != nil {
		if hasFinally {
			l.tryFinallyDepth--
		}
		return nil, err
	}

	var finallyBody []tir.Stmt
	if hasFinally {
		l.scope.Push()
		finallyBody, err = l.lowerBlock(node.GetList("finalbody"))
		l.scope.Pop()
		l.tryFinallyDepth--
		if err != nil {
			return nil, err
		}
	}

	return l.finishStmt(tir.Stmt{
		Kind: tir.KindTryCatch, TryBody: body, Handlers: handlers, TryElse: elseBody,
		Finally: finallyBody, HasFinally: hasFinally,
	}), nil
}

// lowerExceptHandler lowers one `except T as name:` arm. `name`, when
// present, is bound as the exception's `str` message within the handler's
// own scope.
func (l *Lowering) lowerExceptHandler(h ast.Node) (tir.ExceptClause, error) {
	typeName := h.GetString("type")
	name := h.GetString("name")

	excTag := 0 // bare `except:` catches everything
	if typeName != "" {
		tag, ok := tags.ExceptionTag(typeName)
		if !ok {
			return tir.ExceptClause{}, diag.New(diag.NameError, h.Position(), l.funcName(), "`%s` is not a recognized exception type", typeName)
		}
		excTag = tag
	}

	l.scope.Push()
	if name != "" {
		l.scope.Declare(name, types.NewStr())
	}
	body, err := l.lowerBlock(h.GetList("body"))
	l.scope.Pop()
	if err != nil {
		return tir.ExceptClause{}, err
	}
	return tir.ExceptClause{ExcTag: excTag, Name: name, Body: body}, nil
}
