package lowering

import (
	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/diag"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/tir"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

// genShape is a generator's iteration shape (Range, List,
// Str, Bytes, ByteArray, Tuple, ClassIter, Zip2, Enumerate).
type genShape int

const (
	genRange genShape = iota
	genList
	genStr
	genBytes
	genByteArray
	genTuple
	genClassIter
	genZip2
	genEnumerate
)

// genInfo records what classifyGenerator learned about one `for` clause,
// enough for bindGeneratorTarget and buildGeneratorLoop to do their work
// without re-inspecting the AST.
type genInfo struct {
	shape     genShape
	iterExpr  tir.Expr   // the lowered iterable (Range call's args live on call node instead)
	rangeArgs []tir.Expr // start/stop/step, only for genRange
	elemTy    types.ValueType
	zipSecond tir.Expr // second list, only for genZip2
}

// classifyGenerator lowers one comprehension/generator `for` clause's
// iterable and determines its shape.
func (l *Lowering) classifyGenerator(gen ast.Node) (genInfo, error) {
	iterNode := gen.GetAttr("iter")

	if iterNode.TypeName() == "Call" {
		fn := iterNode.GetAttr("func")
		if fn.TypeName() == "Name" {
			switch fn.GetString("id") {
			case "range":
				args, err := l.lowerPositionalArgs(iterNode.GetList("args"))
				if err != nil {
					return genInfo{}, err
				}
				return genInfo{shape: genRange, rangeArgs: normalizeRangeArgs(args), elemTy: types.VInt()}, nil
			case "zip":
				argNodes := iterNode.GetList("args")
				if len(argNodes) != 2 {
					return genInfo{}, diag.New(diag.SyntaxError, gen.Position(), l.funcName(), "`zip` is only supported with exactly two iterables")
				}
				first, err := l.lowerExpr(argNodes[0])
				if err != nil {
					return genInfo{}, err
				}
				second, err := l.lowerExpr(argNodes[1])
				if err != nil {
					return genInfo{}, err
				}
				if first.Ty.Kind() != types.List || second.Ty.Kind() != types.List {
					return genInfo{}, diag.New(diag.TypeError, gen.Position(), l.funcName(), "`zip` requires two `list` arguments")
				}
				return genInfo{shape: genZip2, iterExpr: l.materializeVar(first), zipSecond: l.materializeVar(second)}, nil
			case "enumerate":
				argNodes := iterNode.GetList("args")
				if len(argNodes) != 1 {
					return genInfo{}, diag.New(diag.SyntaxError, gen.Position(), l.funcName(), "`enumerate` takes exactly one argument")
				}
				v, err := l.lowerExpr(argNodes[0])
				if err != nil {
					return genInfo{}, err
				}
				if v.Ty.Kind() != types.List {
					return genInfo{}, diag.New(diag.TypeError, gen.Position(), l.funcName(), "`enumerate` requires a `list` argument")
				}
				return genInfo{shape: genEnumerate, iterExpr: l.materializeVar(v)}, nil
			}
		}
	}

	iter, err := l.lowerExpr(iterNode)
	if err != nil {
		return genInfo{}, err
	}
	if l.isTuple(iter.Ty) {
		info, _ := l.classes.Get(iter.Ty.ClassName())
		for i := 1; i < len(info.Fields); i++ {
			if !info.Fields[i].Ty.Equal(info.Fields[0].Ty) {
				return genInfo{}, diag.New(diag.TypeError, gen.Position(), l.funcName(), "iterating over a tuple requires a homogeneous tuple")
			}
		}
		return genInfo{shape: genTuple, iterExpr: iter, elemTy: info.Fields[0].Ty}, nil
	}
	switch iter.Ty.Kind() {
	case types.List:
		return genInfo{shape: genList, iterExpr: l.materializeVar(iter), elemTy: iter.Ty.Elem()}, nil
	case types.Str:
		return genInfo{shape: genStr, iterExpr: l.materializeVar(iter), elemTy: types.VStr()}, nil
	case types.Bytes:
		return genInfo{shape: genBytes, iterExpr: l.materializeVar(iter), elemTy: types.VInt()}, nil
	case types.ByteArray:
		return genInfo{shape: genByteArray, iterExpr: l.materializeVar(iter), elemTy: types.VInt()}, nil
	case types.Class:
		if _, ok := l.lookupMethod(iter.Ty.ClassName(), "__iter__"); ok {
			return genInfo{shape: genClassIter, iterExpr: iter}, nil
		}
		return genInfo{}, diag.New(diag.TypeError, gen.Position(), l.funcName(), "`%s` has no `__iter__`", iter.Ty)
	default:
		return genInfo{}, diag.New(diag.TypeError, gen.Position(), l.funcName(), "`%s` is not iterable", iter.Ty)
	}
}

// materializeVar binds e to a fresh local when it isn't already a bare Var
// reference, since ForList/ForStr/ForRange's loop construction addresses the
// iterable by name rather than by re-evaluating an expression
// on every pass.
func (l *Lowering) materializeVar(e tir.Expr) tir.Expr {
	if e.Kind == tir.KindVar {
		return e
	}
	name := l.freshName("__iter")
	l.scope.Declare(name, e.Ty.Type())
	l.emit(tir.Let(name, e.Ty, &e))
	return tir.Expr{Kind: tir.KindVar, Ty: e.Ty, Name: name}
}

func normalizeRangeArgs(args []tir.Expr) []tir.Expr {
	one := tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt(), IntVal: 1}
	zero := tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt(), IntVal: 0}
	switch len(args) {
	case 1:
		return []tir.Expr{zero, args[0], one}
	case 2:
		return []tir.Expr{args[0], args[1], one}
	default:
		return args
	}
}

// bindGeneratorTarget declares the loop variable(s) in the current scope
// frame, handling the tuple-unpack targets zip/enumerate introduce.
func (l *Lowering) bindGeneratorTarget(gen ast.Node, shape genInfo) error {
	target := gen.GetAttr("target")
	switch shape.shape {
	case genZip2, genEnumerate:
		if target.TypeName() != "Tuple" {
			return diag.New(diag.SyntaxError, gen.Position(), l.funcName(), "`zip`/`enumerate` require a tuple-unpack loop target")
		}
		elts := target.GetList("elts")
		if len(elts) != 2 {
			return diag.New(diag.SyntaxError, gen.Position(), l.funcName(), "`zip`/`enumerate` unpack exactly two names")
		}
		if shape.shape == genEnumerate {
			l.scope.Declare(elts[0].GetString("id"), types.NewInt())
			l.scope.Declare(elts[1].GetString("id"), shape.iterExpr.Ty.Elem().Type())
		} else {
			l.scope.Declare(elts[0].GetString("id"), shape.iterExpr.Ty.Elem().Type())
			l.scope.Declare(elts[1].GetString("id"), shape.zipSecond.Ty.Elem().Type())
		}
	default:
		l.scope.Declare(target.GetString("id"), shape.elemTy.Type())
	}
	return nil
}

// wrapWithFilters wraps body in nested If blocks, one per `if` clause on
// gen, innermost body last.
func (l *Lowering) wrapWithFilters(gen ast.Node, body []tir.Stmt) []tir.Stmt {
	ifs := gen.GetList("ifs")
	for i := len(ifs) - 1; i >= 0; i-- {
		cond, err := l.truthy(ifs[i])
		if err != nil {
			diag.Panic("comprehension filter failed to lower after successful classification: %v", err)
		}
		body = append(l.drainPreStmts(), tir.Stmt{Kind: tir.KindIf, Cond: &cond, Then: body})
	}
	return body
}

// buildGeneratorLoop wraps innerBody in the single for-loop statement
// matching shape's iteration kind.
func (l *Lowering) buildGeneratorLoop(gen ast.Node, shape genInfo, innerBody []tir.Stmt) (tir.Stmt, error) {
	target := gen.GetAttr("target")

	switch shape.shape {
	case genRange:
		loopVar := target.GetString("id")
		return tir.Stmt{Kind: tir.KindForRange, LoopVar: loopVar, Start: &shape.rangeArgs[0], Stop: &shape.rangeArgs[1], Step: &shape.rangeArgs[2], Body: innerBody}, nil

	case genList:
		loopVar := target.GetString("id")
		indexVar := l.freshName("__cidx")
		lenVar := l.freshName("__clen")
		return tir.Stmt{Kind: tir.KindForList, LoopVar: loopVar, LoopVarTy: shape.elemTy, ListVar: shape.iterExpr.Name, IndexVar: indexVar, LenVar: lenVar, Body: innerBody}, nil

	case genStr:
		loopVar := target.GetString("id")
		indexVar := l.freshName("__cidx")
		lenVar := l.freshName("__clen")
		return tir.Stmt{Kind: tir.KindForStr, LoopVar: loopVar, LoopVarTy: types.VStr(), ListVar: shape.iterExpr.Name, IndexVar: indexVar, LenVar: lenVar, Body: innerBody}, nil

	case genBytes:
		loopVar := target.GetString("id")
		indexVar := l.freshName("__cidx")
		lenVar := l.freshName("__clen")
		return tir.Stmt{Kind: tir.KindForBytes, LoopVar: loopVar, LoopVarTy: types.VInt(), ListVar: shape.iterExpr.Name, IndexVar: indexVar, LenVar: lenVar, Body: innerBody}, nil

	case genByteArray:
		loopVar := target.GetString("id")
		indexVar := l.freshName("__cidx")
		lenVar := l.freshName("__clen")
		return tir.Stmt{Kind: tir.KindForByteArray, LoopVar: loopVar, LoopVarTy: types.VInt(), ListVar: shape.iterExpr.Name, IndexVar: indexVar, LenVar: lenVar, Body: innerBody}, nil

	case genTuple:
		// A homogeneous tuple's length is known at lowering time; iterating
		// it is a compile-time-unrolled index ladder binding loopVar to each
		// field in turn, the same technique lowerTupleIndex uses for a
		// dynamic subscript.
		loopVar := target.GetString("id")
		indexVar := l.freshName("__cidx")
		info, ok := l.classes.Get(shape.iterExpr.Ty.ClassName())
		if !ok {
			diag.Panic("tuple generator over unregistered class %s", shape.iterExpr.Ty.ClassName())
		}
		n := int64(len(info.Fields))
		start := tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt(), IntVal: 0}
		stop := tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt(), IntVal: n}
		step := tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt(), IntVal: 1}
		indexVarExpr := tir.Expr{Kind: tir.KindVar, Ty: types.VInt(), Name: indexVar}

		var buildLadder func(i int) []tir.Stmt
		buildLadder = func(i int) []tir.Stmt {
			field := tir.Expr{Kind: tir.KindGetField, Ty: shape.elemTy, Object: &shape.iterExpr, ClassName: shape.iterExpr.Ty.ClassName(), FieldIndex: i}
			bind := tir.Let(loopVar, shape.elemTy, &field)
			body := append([]tir.Stmt{bind}, innerBody...)
			if i == int(n)-1 {
				return body
			}
			idxLit := tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt(), IntVal: int64(i)}
			cond := tir.Expr{Kind: tir.KindIntEq, Ty: types.VBool(), Left: &indexVarExpr, Right: &idxLit}
			return []tir.Stmt{{Kind: tir.KindIf, Cond: &cond, Then: body, Else: buildLadder(i + 1)}}
		}
		return tir.Stmt{Kind: tir.KindForRange, LoopVar: indexVar, Start: &start, Stop: &stop, Step: &step, Body: buildLadder(0)}, nil

	case genClassIter:
		loopVar := target.GetString("id")
		iterVar := l.freshName("__citer")
		info, ok := l.classes.Get(shape.iterExpr.Ty.ClassName())
		if !ok {
			diag.Panic("class-iter over unregistered class %s", shape.iterExpr.Ty.ClassName())
		}
		iterMethod := info.Methods["__iter__"]
		nextMethod, ok := l.lookupMethod(iterMethod.ReturnType.ClassName(), "__next__")
		if !ok {
			return tir.Stmt{}, diag.New(diag.TypeError, gen.Position(), l.funcName(), "`%s` iterator has no `__next__`", iterMethod.ReturnType)
		}
		return tir.Stmt{
			Kind: tir.KindForIter, LoopVar: loopVar, LoopVarTy: *nextMethod.ReturnType,
			Object: &shape.iterExpr, IterClassTy: *iterMethod.ReturnType, NextMangled: nextMethod.MangledName,
			IterVar: iterVar, Body: innerBody,
		}, nil

	case genZip2:
		elts := target.GetList("elts")
		loopVar := elts[0].GetString("id")
		secondVar := elts[1].GetString("id")
		indexVar := l.freshName("__cidx")
		lenVar := l.freshName("__clen")
		secondElemTy := shape.zipSecond.Ty.Elem()
		secondAccess := tir.Stmt{
			Kind: tir.KindLet, Name: secondVar, Ty: secondElemTy,
			Expr: &tir.Expr{Kind: tir.KindExternalCall, Ty: secondElemTy, Target: tir.BuiltinTarget("list_getitem"),
				Args: []tir.Expr{shape.zipSecond, {Kind: tir.KindVar, Ty: types.VInt(), Name: indexVar}}},
		}
		body := append([]tir.Stmt{secondAccess}, innerBody...)
		return tir.Stmt{Kind: tir.KindForList, LoopVar: loopVar, LoopVarTy: shape.iterExpr.Ty.Elem(), ListVar: shape.iterExpr.Name, IndexVar: indexVar, LenVar: lenVar, Body: body}, nil

	case genEnumerate:
		elts := target.GetList("elts")
		indexVar := elts[0].GetString("id")
		loopVar := elts[1].GetString("id")
		lenVar := l.freshName("__clen")
		return tir.Stmt{Kind: tir.KindForList, LoopVar: loopVar, LoopVarTy: shape.iterExpr.Ty.Elem(), ListVar: shape.iterExpr.Name, IndexVar: indexVar, LenVar: lenVar, Body: innerBody}, nil
	}
	return tir.Stmt{}, diag.New(diag.SyntaxError, gen.Position(), l.funcName(), "unsupported generator shape")
}

// lowerListComp implements the shared list-comprehension /
// generator-expression lowering: build a fresh result list, wrap the
// append in nested If blocks for each filter, emit nested for-loops
// (outermost generator outermost), then yield a Var reference to the
// result list.
func (l *Lowering) lowerListComp(node ast.Node) (tir.Expr, error) {
	generators := node.GetList("generators")
	if len(generators) == 0 {
		diag.Panic("comprehension with no generators")
	}

	resultVar := l.freshName("__listcomp")

	l.scope.Push()

	shapes := make([]genInfo, len(generators))
	for i, gen := range generators {
		shape, err := l.classifyGenerator(gen)
		if err != nil {
			l.scope.Pop()
			return tir.Expr{}, err
		}
		if err := l.bindGeneratorTarget(gen, shape); err != nil {
			l.scope.Pop()
			return tir.Expr{}, err
		}
		shapes[i] = shape
	}

	elt, err := l.lowerExpr(node.GetAttr("elt"))
	if err != nil {
		l.scope.Pop()
		return tir.Expr{}, err
	}

	resultExpr := tir.Expr{Kind: tir.KindVar, Ty: types.VList(elt.Ty), Name: resultVar}
	appendStmt := tir.VoidCallStmt(tir.BuiltinTarget("list_append"), []tir.Expr{resultExpr, elt})
	innerBody := append(l.drainPreStmts(), appendStmt)
	innerBody = l.wrapWithFilters(generators[len(generators)-1], innerBody)

	var loop tir.Stmt
	var buildErr error
	for i := len(generators) - 1; i >= 0; i-- {
		built, err := l.buildGeneratorLoop(generators[i], shapes[i], innerBody)
		if err != nil {
			buildErr = err
			break
		}
		if i > 0 {
			innerBody = l.wrapWithFilters(generators[i-1], []tir.Stmt{built})
		} else {
			loop = built
		}
	}

	l.scope.Pop()
	if buildErr != nil {
		return tir.Expr{}, buildErr
	}

	l.scope.Declare(resultVar, types.NewList(elt.Ty.Type()))
	l.emit(tir.Let(resultVar, types.VList(elt.Ty), &tir.Expr{Kind: tir.KindListLit, Ty: types.VList(elt.Ty)}))
	l.emit(loop)

	return tir.Expr{Kind: tir.KindVar, Ty: types.VList(elt.Ty), Name: resultVar, Span: node.Position()}, nil
}
