package lowering

import (
	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/diag"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/oprules"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/tir"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

// lowerBuiltinCall implements the built-in conversion/numeric-helper table
// of : int/float/bool/str/repr/abs/pow/min/max/round/sum/sorted/len.
func (l *Lowering) lowerBuiltinCall(node ast.Node, name string, argNodes []ast.Node) (tir.Expr, error) {
	switch name {
	case "int", "float", "bool":
		if len(argNodes) != 1 {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` takes exactly one argument", name)
		}
		arg, err := l.lowerExpr(argNodes[0])
		if err != nil {
			return tir.Expr{}, err
		}
		target := map[string]types.Kind{"int": types.Int, "float": types.Float, "bool": types.Bool}[name]
		rule := oprules.LookupConversion(target, arg.Ty)
		if rule == nil {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "cannot convert `%s` to `%s`", arg.Ty, name)
		}
		return l.applyBuiltinRule(node, *rule, []tir.Expr{arg})

	case "str", "repr":
		if len(argNodes) != 1 {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` takes exactly one argument", name)
		}
		arg, err := l.lowerExpr(argNodes[0])
		if err != nil {
			return tir.Expr{}, err
		}
		return l.lowerStrOrRepr(node, arg, name == "repr")

	case "abs":
		arg, err := l.lowerExpr(argNodes[0])
		if err != nil {
			return tir.Expr{}, err
		}
		rule := oprules.LookupAbs(arg.Ty)
		if rule == nil {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`abs` requires a numeric argument, got `%s`", arg.Ty)
		}
		return l.applyBuiltinRule(node, *rule, []tir.Expr{arg})

	case "pow":
		if len(argNodes) != 2 {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`pow` takes exactly two arguments")
		}
		x, err := l.lowerExpr(argNodes[0])
		if err != nil {
			return tir.Expr{}, err
		}
		y, err := l.lowerExpr(argNodes[1])
		if err != nil {
			return tir.Expr{}, err
		}
		rule := oprules.LookupPow(x.Ty, y.Ty)
		if rule == nil {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`pow` requires numeric arguments")
		}
		return l.applyBuiltinRule(node, *rule, []tir.Expr{x, y})

	case "round":
		arg, err := l.lowerExpr(argNodes[0])
		if err != nil {
			return tir.Expr{}, err
		}
		rule := oprules.LookupRound(arg.Ty)
		if rule == nil {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`round` requires a numeric argument, got `%s`", arg.Ty)
		}
		return l.applyBuiltinRule(node, *rule, []tir.Expr{arg})

	case "min", "max":
		args, err := l.lowerPositionalArgs(argNodes)
		if err != nil {
			return tir.Expr{}, err
		}
		if len(args) < 2 {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` requires at least two arguments", name)
		}
		rule := oprules.LookupMinMax(args[0].Ty)
		if rule == nil {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` does not support `%s`", name, args[0].Ty)
		}
		tag := name + "_" + rule.FoldTag
		if rule.Kind == oprules.ClassMagicRule {
			tag = rule.CandidateDunders[0]
		}
		return l.foldAcrossArgs(node, args, rule, tag)

	case "sum":
		return l.lowerSumCall(node, argNodes)

	case "sorted":
		arg, err := l.lowerExpr(argNodes[0])
		if err != nil {
			return tir.Expr{}, err
		}
		if arg.Ty.Kind() != types.List {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`sorted` requires a `list`, got `%s`", arg.Ty)
		}
		return tir.Expr{Kind: tir.KindExternalCall, Ty: arg.Ty, Span: node.Position(), Target: tir.BuiltinTarget("sorted_List"), Args: []tir.Expr{arg}}, nil

	case "len":
		arg, err := l.lowerExpr(argNodes[0])
		if err != nil {
			return tir.Expr{}, err
		}
		return l.lowerLen(node, arg)

	case "open":
		args, err := l.lowerPositionalArgs(argNodes)
		if err != nil {
			return tir.Expr{}, err
		}
		return tir.Expr{Kind: tir.KindExternalCall, Ty: types.VStr(), Span: node.Position(), Target: tir.BuiltinTarget("file_open"), Args: args}, nil
	}
	return tir.Expr{}, diag.New(diag.NameError, node.Position(), l.funcName(), "unrecognized builtin `%s`", name)
}

func (l *Lowering) applyBuiltinRule(node ast.Node, rule oprules.BuiltinRule, args []tir.Expr) (tir.Expr, error) {
	switch rule.Kind {
	case oprules.Identity:
		return args[0], nil
	case oprules.PrimitiveCast:
		return tir.Expr{Kind: castKindByName(rule.CastKind), Ty: rule.ReturnType, Span: node.Position(), Left: &args[0]}, nil
	case oprules.ExternalCall:
		return tir.Expr{Kind: tir.KindExternalCall, Ty: rule.ReturnType, Span: node.Position(), Target: tir.BuiltinTarget(rule.Tag), Args: args}, nil
	case oprules.ConstIntRule:
		return tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt(), IntVal: rule.ConstValue, Span: node.Position()}, nil
	}
	return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "unsupported builtin rule")
}

func castKindByName(name string) tir.ExprKind {
	switch name {
	case "IntToFloat":
		return tir.KindCastIntToFloat
	case "FloatToInt":
		return tir.KindCastFloatToInt
	case "IntToBool":
		return tir.KindCastIntToBool
	case "BoolToInt":
		return tir.KindCastBoolToInt
	case "FloatToBool":
		return tir.KindCastFloatToBool
	case "BoolToFloat":
		return tir.KindCastBoolToFloat
	}
	diag.Panic("unknown cast kind %q", name)
	return 0
}

// foldAcrossArgs implements min/max's FoldExternalCall / ClassMagicRule
// left-fold across more than two arguments.
func (l *Lowering) foldAcrossArgs(node ast.Node, args []tir.Expr, rule *oprules.BuiltinRule, tag string) (tir.Expr, error) {
	best := args[0]
	for _, cand := range args[1:] {
		if rule.Kind == oprules.ClassMagicRule {
			method, ok := l.lookupMethod(cand.Ty.ClassName(), rule.CandidateDunders[0])
			if !ok {
				return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` has no `%s`", cand.Ty, rule.CandidateDunders[0])
			}
			lt, err := l.callMethod(node, method, cand, []tir.Expr{best})
			if err != nil {
				return tir.Expr{}, err
			}
			best = pickByCond(lt, cand, best)
			continue
		}
		l2, r2 := cand, best
		lt := tir.Expr{Kind: tir.KindExternalCall, Ty: types.VBool(), Span: node.Position(), Target: tir.BuiltinTarget(tag), Args: []tir.Expr{l2, r2}}
		best = pickByCond(lt, cand, best)
	}
	return best, nil
}

// pickByCond is a conditional-select placeholder: the backend resolves
// Select over an external boolean the same way it resolves any other
// external call result, so min/max reuse the generic external-call select
// tag rather than a dedicated TIR node.
func pickByCond(cond, ifTrue, ifFalse tir.Expr) tir.Expr {
	return tir.Expr{Kind: tir.KindExternalCall, Ty: ifTrue.Ty, Target: tir.BuiltinTarget("select"), Args: []tir.Expr{cond, ifTrue, ifFalse}}
}

// lowerLen implements `len(x)`: a compile-time constant for tuples, an
// external call for the reference containers, and `__len__` for classes.
func (l *Lowering) lowerLen(node ast.Node, arg tir.Expr) (tir.Expr, error) {
	if l.isTuple(arg.Ty) {
		info, _ := l.classes.Get(arg.Ty.ClassName())
		return tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt(), IntVal: int64(len(info.Fields)), Span: node.Position()}, nil
	}
	switch arg.Ty.Kind() {
	case types.List, types.Dict, types.Set, types.Str, types.Bytes, types.ByteArray:
		tag := "len_" + types.NormalizeTypeName(arg.Ty)
		return tir.Expr{Kind: tir.KindExternalCall, Ty: types.VInt(), Span: node.Position(), Target: tir.BuiltinTarget(tag), Args: []tir.Expr{arg}}, nil
	case types.Class:
		method, ok := l.lookupMethod(arg.Ty.ClassName(), "__len__")
		if !ok {
			return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` has no `__len__`", arg.Ty)
		}
		return l.callMethod(node, method, arg, nil)
	}
	return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`len` does not support `%s`", arg.Ty)
}
