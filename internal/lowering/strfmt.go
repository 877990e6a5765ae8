package lowering

import (
	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/diag"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/oprules"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/tir"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

// lowerPrintCall implements : print is statement-only; every
// argument is lowered by type (primitive -> typed Print* external call,
// class -> __str__ then print, list/tuple -> the repr-building algorithm
// printed piece by piece).
func (l *Lowering) lowerPrintCall(node ast.Node, argNodes []ast.Node) (tir.Expr, error) {
	for i, a := range argNodes {
		v, err := l.lowerExpr(a)
		if err != nil {
			return tir.Expr{}, err
		}
		if i > 0 {
			l.emit(tir.VoidCallStmt(tir.BuiltinTarget("print_sep"), nil))
		}
		if err := l.emitPrintValue(node, v); err != nil {
			return tir.Expr{}, err
		}
	}
	l.emit(tir.VoidCallStmt(tir.BuiltinTarget("print_newline"), nil))
	return tir.Expr{Kind: tir.KindCall, Ty: types.ValueType{}, Span: node.Position(), Target: tir.BuiltinTarget("print")}, nil
}

func (l *Lowering) emitPrintValue(node ast.Node, v tir.Expr) error {
	if l.isTuple(v.Ty) {
		return l.emitPrintTuple(node, v)
	}
	switch v.Ty.Kind() {
	case types.Int, types.Float, types.Bool, types.Str, types.Bytes, types.ByteArray:
		tag := "print_" + types.NormalizeTypeName(v.Ty)
		l.emit(tir.VoidCallStmt(tir.BuiltinTarget(tag), []tir.Expr{v}))
		return nil
	case types.Class:
		method, ok := l.lookupMethod(v.Ty.ClassName(), "__str__")
		if !ok {
			return diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` has no `__str__` and cannot be printed", v.Ty)
		}
		s, err := l.callMethod(node, method, v, nil)
		if err != nil {
			return err
		}
		l.emit(tir.VoidCallStmt(tir.BuiltinTarget("print_Str"), []tir.Expr{s}))
		return nil
	case types.List:
		return l.emitPrintList(node, v)
	default:
		return diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` cannot be printed", v.Ty)
	}
}

// emitPrintList implements the list-printing algorithm: open
// "[", iterate emitting each element's repr separated by ", ", close "]".
func (l *Lowering) emitPrintList(node ast.Node, list tir.Expr) error {
	l.emit(tir.VoidCallStmt(tir.BuiltinTarget("print_lbracket"), nil))
	indexVar := l.freshName("__pidx")
	lenVar := l.freshName("__plen")
	elemTy := list.Ty.Elem()

	l.scope.Push()
	defer l.scope.Pop()
	l.scope.Declare(indexVar, types.NewInt())

	idxExpr := tir.Expr{Kind: tir.KindVar, Ty: types.VInt(), Name: indexVar}
	guardFirst := tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt(), IntVal: 0}
	cmp := tir.Expr{Kind: tir.KindIntGt, Ty: types.VBool(), Left: &idxExpr, Right: &guardFirst}
	sepCall := tir.Stmt{Kind: tir.KindVoidCall, CallTarget: tir.BuiltinTarget("print_comma_space")}
	sepIf := tir.Stmt{Kind: tir.KindIf, Cond: &cmp, Then: []tir.Stmt{sepCall}}

	elemVar := l.freshName("__pelem")
	l.scope.Declare(elemVar, elemTy.Type())
	elemExpr := tir.Expr{Kind: tir.KindVar, Ty: elemTy, Name: elemVar}
	reprExpr, err := l.lowerStrOrRepr(node, elemExpr, true)
	if err != nil {
		return err
	}

	body := []tir.Stmt{sepIf, tir.VoidCallStmt(tir.BuiltinTarget("print_Str"), []tir.Expr{reprExpr})}
	l.emit(tir.Stmt{
		Kind: tir.KindForList, LoopVar: elemVar, LoopVarTy: elemTy,
		ListVar: list.Name, IndexVar: indexVar, LenVar: lenVar, Body: body,
	})
	l.emit(tir.VoidCallStmt(tir.BuiltinTarget("print_rbracket"), nil))
	return nil
}

// emitPrintTuple implements the tuple-printing algorithm: flat
// enumeration of GetField+repr, with a dangling "," for single-element
// tuples.
func (l *Lowering) emitPrintTuple(node ast.Node, tup tir.Expr) error {
	info, ok := l.classes.Get(tup.Ty.ClassName())
	if !ok {
		diag.Panic("print on unregistered tuple class %s", tup.Ty.ClassName())
	}
	l.emit(tir.VoidCallStmt(tir.BuiltinTarget("print_lparen"), nil))
	for i, field := range info.Fields {
		if i > 0 {
			l.emit(tir.VoidCallStmt(tir.BuiltinTarget("print_comma_space"), nil))
		}
		fieldExpr := tir.Expr{Kind: tir.KindGetField, Ty: field.Ty, Object: &tup, ClassName: tup.Ty.ClassName(), FieldIndex: i}
		repr, err := l.lowerStrOrRepr(node, fieldExpr, true)
		if err != nil {
			return err
		}
		l.emit(tir.VoidCallStmt(tir.BuiltinTarget("print_Str"), []tir.Expr{repr}))
	}
	if len(info.Fields) == 1 {
		l.emit(tir.VoidCallStmt(tir.BuiltinTarget("print_comma"), nil))
	}
	l.emit(tir.VoidCallStmt(tir.BuiltinTarget("print_rparen"), nil))
	return nil
}

// synthesizeStrRepr implements the `str(x)`/`repr(x)` for list
// and tuple: a builder that accumulates into a fresh string variable using
// the same open/iterate/close algorithm as print, but building a Str
// instead of writing to stdout.
func (l *Lowering) synthesizeStrRepr(node ast.Node, arg tir.Expr, wantRepr bool) (tir.Expr, error) {
	accVar := l.freshName("__strbuild")
	l.scope.Declare(accVar, types.NewStr())
	l.emit(tir.Let(accVar, types.VStr(), &tir.Expr{Kind: tir.KindStrLit, Ty: types.VStr()}))
	accAppend := func(piece tir.Expr) {
		acc := tir.Expr{Kind: tir.KindVar, Ty: types.VStr(), Name: accVar}
		sum := tir.Expr{Kind: tir.KindExternalCall, Ty: types.VStr(), Target: tir.BuiltinTarget("add_Str"), Args: []tir.Expr{acc, piece}}
		l.emit(tir.Let(accVar, types.VStr(), &sum))
	}
	lit := func(s string) tir.Expr { return tir.Expr{Kind: tir.KindStrLit, Ty: types.VStr(), StrVal: s} }

	if l.isTuple(arg.Ty) {
		info, ok := l.classes.Get(arg.Ty.ClassName())
		if !ok {
			diag.Panic("str/repr on unregistered tuple class %s", arg.Ty.ClassName())
		}
		accAppend(lit("("))
		for i, field := range info.Fields {
			if i > 0 {
				accAppend(lit(", "))
			}
			fieldExpr := tir.Expr{Kind: tir.KindGetField, Ty: field.Ty, Object: &arg, ClassName: arg.Ty.ClassName(), FieldIndex: i}
			repr, err := l.lowerStrOrRepr(node, fieldExpr, true)
			if err != nil {
				return tir.Expr{}, err
			}
			accAppend(repr)
		}
		if len(info.Fields) == 1 {
			accAppend(lit(","))
		}
		accAppend(lit(")"))
		_ = wantRepr
		return tir.Expr{Kind: tir.KindVar, Ty: types.VStr(), Name: accVar, Span: node.Position()}, nil
	}

	switch arg.Ty.Kind() {
	case types.List:
		accAppend(lit("["))
		indexVar := l.freshName("__sidx")
		lenVar := l.freshName("__slen")
		elemTy := arg.Ty.Elem()
		l.scope.Push()
		l.scope.Declare(indexVar, types.NewInt())
		elemVar := l.freshName("__selem")
		l.scope.Declare(elemVar, elemTy.Type())
		elemExpr := tir.Expr{Kind: tir.KindVar, Ty: elemTy, Name: elemVar}

		savedPre := l.drainPreStmts()
		repr, err := l.lowerStrOrRepr(node, elemExpr, true)
		if err != nil {
			l.scope.Pop()
			return tir.Expr{}, err
		}
		innerPre := l.drainPreStmts()
		l.preStmts = savedPre

		idxExpr := tir.Expr{Kind: tir.KindVar, Ty: types.VInt(), Name: indexVar}
		zero := tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt()}
		cmp := tir.Expr{Kind: tir.KindIntGt, Ty: types.VBool(), Left: &idxExpr, Right: &zero}
		sepAcc := tir.Expr{Kind: tir.KindVar, Ty: types.VStr(), Name: accVar}
		sepLit := lit(", ")
		sepSum := tir.Expr{Kind: tir.KindExternalCall, Ty: types.VStr(), Target: tir.BuiltinTarget("add_Str"), Args: []tir.Expr{sepAcc, sepLit}}
		sepThen := []tir.Stmt{tir.Let(accVar, types.VStr(), &sepSum)}

		body := append(append([]tir.Stmt{}, innerPre...), tir.Stmt{Kind: tir.KindIf, Cond: &cmp, Then: sepThen})
		accAfter := tir.Expr{Kind: tir.KindVar, Ty: types.VStr(), Name: accVar}
		reprSum := tir.Expr{Kind: tir.KindExternalCall, Ty: types.VStr(), Target: tir.BuiltinTarget("add_Str"), Args: []tir.Expr{accAfter, repr}}
		body = append(body, tir.Let(accVar, types.VStr(), &reprSum))

		l.scope.Pop()
		l.emit(tir.Stmt{Kind: tir.KindForList, LoopVar: elemVar, LoopVarTy: elemTy, ListVar: arg.Name, IndexVar: indexVar, LenVar: lenVar, Body: body})
		accAppend(lit("]"))

	default:
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` has no composite string synthesis", arg.Ty)
	}

	_ = wantRepr // str() and repr() share the same synthesis for composites
	return tir.Expr{Kind: tir.KindVar, Ty: types.VStr(), Name: accVar, Span: node.Position()}, nil
}

// lowerSumCall handles `sum(iterable, start)`: summing over a
// plain list/tuple folds the add rule across elements; `sum(<generator>,
// start)` is the mandatory fusion that skips list materialization
// entirely, reusing the for-loop builder with an accumulating body.
func (l *Lowering) lowerSumCall(node ast.Node, argNodes []ast.Node) (tir.Expr, error) {
	if len(argNodes) == 0 {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`sum` requires at least one argument")
	}
	var start tir.Expr
	haveStart := len(argNodes) > 1
	if haveStart {
		v, err := l.lowerExpr(argNodes[1])
		if err != nil {
			return tir.Expr{}, err
		}
		start = v
	} else {
		start = tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt(), IntVal: 0}
	}

	if argNodes[0].TypeName() == "GeneratorExp" {
		return l.lowerSumFusion(node, argNodes[0], start)
	}

	iter, err := l.lowerExpr(argNodes[0])
	if err != nil {
		return tir.Expr{}, err
	}
	if l.isTuple(iter.Ty) {
		return l.lowerSumOverTuple(node, iter, start)
	}
	if iter.Ty.Kind() != types.List {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`sum` requires a `list`, `tuple`, or generator expression, got `%s`", iter.Ty)
	}
	rule := oprules.LookupSum(iter.Ty.Elem(), start.Ty)
	if rule == nil {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`sum` cannot add `%s` elements to `%s`", iter.Ty.Elem(), start.Ty)
	}

	accVar := l.freshName("__sumacc")
	l.scope.Declare(accVar, rule.ReturnType.Type())
	l.emit(tir.Let(accVar, rule.ReturnType, &start))

	indexVar := l.freshName("__sumidx")
	lenVar := l.freshName("__sumlen")
	elemVar := l.freshName("__sumelem")
	elemTy := iter.Ty.Elem()

	l.scope.Push()
	l.scope.Declare(indexVar, types.NewInt())
	l.scope.Declare(elemVar, elemTy.Type())
	accExpr := tir.Expr{Kind: tir.KindVar, Ty: rule.ReturnType, Name: accVar}
	elemExpr := tir.Expr{Kind: tir.KindVar, Ty: elemTy, Name: elemVar}
	sumExpr, err := l.applyBinOp(node, oprules.Add, accExpr, elemExpr)
	l.scope.Pop()
	if err != nil {
		return tir.Expr{}, err
	}

	l.emit(tir.Stmt{
		Kind: tir.KindForList, LoopVar: elemVar, LoopVarTy: elemTy,
		ListVar: iter.Name, IndexVar: indexVar, LenVar: lenVar,
		Body: []tir.Stmt{tir.Let(accVar, rule.ReturnType, &sumExpr)},
	})
	return tir.Expr{Kind: tir.KindVar, Ty: rule.ReturnType, Name: accVar, Span: node.Position()}, nil
}

// lowerSumOverTuple implements `sum` over a homogeneous tuple: a tuple's
// length is static, so the fold unrolls into a straight-line sequence of
// accumulator updates instead of a runtime loop.
func (l *Lowering) lowerSumOverTuple(node ast.Node, tup tir.Expr, start tir.Expr) (tir.Expr, error) {
	info, ok := l.classes.Get(tup.Ty.ClassName())
	if !ok {
		diag.Panic("sum over unregistered tuple class %s", tup.Ty.ClassName())
	}
	for i := 1; i < len(info.Fields); i++ {
		if !info.Fields[i].Ty.Equal(info.Fields[0].Ty) {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`sum` over a tuple requires a homogeneous tuple")
		}
	}
	if len(info.Fields) == 0 {
		return start, nil
	}
	rule := oprules.LookupSum(info.Fields[0].Ty, start.Ty)
	if rule == nil {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`sum` cannot add `%s` elements to `%s`", info.Fields[0].Ty, start.Ty)
	}

	accVar := l.freshName("__sumacc")
	l.scope.Declare(accVar, rule.ReturnType.Type())
	l.emit(tir.Let(accVar, rule.ReturnType, &start))

	for i, field := range info.Fields {
		accExpr := tir.Expr{Kind: tir.KindVar, Ty: rule.ReturnType, Name: accVar}
		fieldExpr := tir.Expr{Kind: tir.KindGetField, Ty: field.Ty, Object: &tup, ClassName: tup.Ty.ClassName(), FieldIndex: i}
		sumExpr, err := l.applyBinOp(node, oprules.Add, accExpr, fieldExpr)
		if err != nil {
			return tir.Expr{}, err
		}
		l.emit(tir.Let(accVar, rule.ReturnType, &sumExpr))
	}
	return tir.Expr{Kind: tir.KindVar, Ty: rule.ReturnType, Name: accVar, Span: node.Position()}, nil
}

// lowerSumFusion implements the mandatory sum-over-generator optimization:
// the accumulator is seeded from start and the inner body
// becomes `acc = acc + elt`, with no intermediate list ever constructed.
func (l *Lowering) lowerSumFusion(node ast.Node, genExpr ast.Node, start tir.Expr) (tir.Expr, error) {
	generators := genExpr.GetList("generators")
	if len(generators) != 1 {
		return tir.Expr{}, diag.New(diag.SyntaxError, node.Position(), l.funcName(), "sum-fusion supports exactly one `for` clause in the generator expression")
	}
	gen := generators[0]

	accVar := l.freshName("__sumacc")

	l.scope.Push()
	shape, err := l.classifyGenerator(gen)
	if err != nil {
		l.scope.Pop()
		return tir.Expr{}, err
	}
	if err := l.bindGeneratorTarget(gen, shape); err != nil {
		l.scope.Pop()
		return tir.Expr{}, err
	}

	elt, err := l.lowerExpr(genExpr.GetAttr("elt"))
	if err != nil {
		l.scope.Pop()
		return tir.Expr{}, err
	}

	rule := oprules.LookupSum(elt.Ty, start.Ty)
	if rule == nil {
		l.scope.Pop()
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`sum` cannot add `%s` elements to `%s`", elt.Ty, start.Ty)
	}

	accExpr := tir.Expr{Kind: tir.KindVar, Ty: rule.ReturnType, Name: accVar}
	sumExpr, err := l.applyBinOp(node, oprules.Add, accExpr, elt)
	if err != nil {
		l.scope.Pop()
		return tir.Expr{}, err
	}
	innerBody := []tir.Stmt{tir.Let(accVar, rule.ReturnType, &sumExpr)}
	innerBody = l.wrapWithFilters(gen, innerBody)

	loopStmt, err := l.buildGeneratorLoop(gen, shape, innerBody)
	l.scope.Pop()
	if err != nil {
		return tir.Expr{}, err
	}

	l.scope.Declare(accVar, rule.ReturnType.Type())
	l.emit(tir.Let(accVar, rule.ReturnType, &start))
	l.emit(loopStmt)

	return tir.Expr{Kind: tir.KindVar, Ty: rule.ReturnType, Name: accVar, Span: node.Position()}, nil
}
