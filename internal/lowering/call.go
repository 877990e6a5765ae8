package lowering

import (
	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/classreg"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/diag"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/oprules"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/tir"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

// globalBuiltins is the closed set of GlobalName callables
// handled directly by the lowering core rather than through a class or a
// user function.
var globalBuiltins = map[string]bool{
	"print": true, "open": true, "int": true, "float": true, "bool": true,
	"str": true, "repr": true, "abs": true, "pow": true, "min": true,
	"max": true, "round": true, "sum": true, "sorted": true, "len": true,
}

// lowerCallExpr lowers a Call node used in expression position; `print`
// reaching here (rather than as a top-level Expr statement) is a
// TypeError, since it is statement-only.
func (l *Lowering) lowerCallExpr(node ast.Node) (tir.Expr, error) {
	fn := node.GetAttr("func")
	if fn.TypeName() == "Name" && fn.GetString("id") == "print" {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`print` is a statement and cannot be used as a value expression")
	}
	return l.lowerCall(node, false)
}

// lowerCallStmt lowers a Call node used in statement position, returning
// either a VoidCall stmt (Unit-returning callee) or an ExprStmt wrapping a
// non-Unit call whose value is simply discarded.
func (l *Lowering) lowerCallStmt(node ast.Node) (tir.Stmt, error) {
	e, err := l.lowerCall(node, true)
	if err != nil {
		return tir.Stmt{}, err
	}
	if e.Kind == tir.KindCall || e.Kind == tir.KindExternalCall {
		if isVoidCallTarget(e) {
			return tir.VoidCallStmt(e.Target, e.Args), nil
		}
	}
	return tir.ExprStmt(&e), nil
}

func isVoidCallTarget(e tir.Expr) bool {
	return e.Ty.Kind() == types.Invalid
}

// lowerCall is the Call Lowering entry point: classify the
// callee, normalize arguments, and package the result. When
// statementPosition is false, a Unit-returning callee (direct function,
// native-module function, or method) is rejected: a void call is only
// valid as a statement, never as a value expression.
func (l *Lowering) lowerCall(node ast.Node, statementPosition bool) (tir.Expr, error) {
	fn := node.GetAttr("func")

	var (
		e   tir.Expr
		err error
	)
	switch fn.TypeName() {
	case "Name":
		e, err = l.lowerCallByName(node, fn)
	case "Attribute":
		e, err = l.lowerCallByAttribute(node, fn)
	default:
		return tir.Expr{}, diag.New(diag.SyntaxError, node.Position(), l.funcName(), "unsupported call target")
	}
	if err != nil {
		return tir.Expr{}, err
	}
	if !statementPosition && e.Ty.Kind() == types.Invalid {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "void function cannot be used as a value expression")
	}
	return e, nil
}

func (l *Lowering) lowerPositionalArgs(argNodes []ast.Node) ([]tir.Expr, error) {
	args := make([]tir.Expr, len(argNodes))
	for i, a := range argNodes {
		v, err := l.lowerExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (l *Lowering) lowerCallByName(node, fn ast.Node) (tir.Expr, error) {
	name := fn.GetString("id")
	argNodes := node.GetList("args")

	if name == "print" {
		return l.lowerPrintCall(node, argNodes)
	}
	if globalBuiltins[name] {
		return l.lowerBuiltinCall(node, name, argNodes)
	}

	if sig, ok := l.funcSigs[name]; ok {
		return l.lowerDirectFunctionCall(node, sig, argNodes)
	}

	if ty, ok := l.scope.Lookup(name); ok && ty.Kind == types.Class {
		return l.lowerConstructorCall(node, ty.ClassName, argNodes)
	}

	return tir.Expr{}, diag.New(diag.NameError, node.Position(), l.funcName(), "`%s` is not callable", name)
}

func (l *Lowering) lowerDirectFunctionCall(node ast.Node, sig *funcSig, argNodes []ast.Node) (tir.Expr, error) {
	args, err := l.lowerPositionalArgs(argNodes)
	if err != nil {
		return tir.Expr{}, err
	}
	kwNames := ast.CallKeywords(node)
	kwValues, err := l.lowerPositionalArgs(node.GetList("kwvalues"))
	if err != nil {
		return tir.Expr{}, err
	}
	defaults, err := classreg.CollectParamDefaults(sig.node)
	if err != nil {
		return tir.Expr{}, err
	}
	bound, err := l.bindArguments(node, sig.params, defaults, args, kwNames, kwValues)
	if err != nil {
		return tir.Expr{}, err
	}
	if sig.ret == nil {
		return tir.Expr{Kind: tir.KindCall, Ty: types.ValueType{}, Span: node.Position(), Target: tir.NamedTarget(sig.mangled), Args: bound}, nil
	}
	return tir.Expr{Kind: tir.KindCall, Ty: *sig.ret, Span: node.Position(), Target: tir.NamedTarget(sig.mangled), Args: bound}, nil
}

func (l *Lowering) lowerConstructorCall(node ast.Node, qualifiedClass string, argNodes []ast.Node) (tir.Expr, error) {
	info, ok := l.classes.Get(qualifiedClass)
	if !ok {
		diag.Panic("constructor call for unregistered class %s", qualifiedClass)
	}
	method, ok := info.Methods["__init__"]
	if !ok {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "`%s` has no `__init__` and cannot be constructed", qualifiedClass)
	}
	args, err := l.lowerPositionalArgs(argNodes)
	if err != nil {
		return tir.Expr{}, err
	}
	kwNames := ast.CallKeywords(node)
	kwValues, err := l.lowerPositionalArgs(node.GetList("kwvalues"))
	if err != nil {
		return tir.Expr{}, err
	}
	bound, err := l.bindArguments(node, method.Params, nil, args, kwNames, kwValues)
	if err != nil {
		return tir.Expr{}, err
	}
	return tir.Expr{Kind: tir.KindConstruct, Ty: types.VClass(qualifiedClass), Span: node.Position(), ClassName: qualifiedClass, Args: bound}, nil
}

// lowerCallByAttribute handles `module.func(...)` (NativeModuleFunction)
// and `obj.method(...)` (ClassMethod/BuiltinMethod).
func (l *Lowering) lowerCallByAttribute(node, fn ast.Node) (tir.Expr, error) {
	recv := fn.GetAttr("value")
	methodName := fn.GetString("attr")
	argNodes := node.GetList("args")

	if recv.TypeName() == "Name" {
		if modulePath, ok := l.globals.ResolveImportAlias(recv.GetString("id")); ok {
			if nf, ok := oprules.LookupNativeModuleFunction(moduleKind(modulePath), methodName); ok {
				args, err := l.lowerPositionalArgs(argNodes)
				if err != nil {
					return tir.Expr{}, err
				}
				return tir.Expr{Kind: tir.KindExternalCall, Ty: nativeModuleReturnType(nf.Name), Span: node.Position(), Target: tir.BuiltinTarget(nf.Tag), Args: args}, nil
			}
		}
	}

	self, err := l.lowerExpr(recv)
	if err != nil {
		return tir.Expr{}, err
	}
	if self.Ty.Kind() == types.Class {
		method, ok := l.lookupMethod(self.Ty.ClassName(), methodName)
		if !ok {
			return tir.Expr{}, diag.New(diag.AttributeError, node.Position(), l.funcName(), "`%s` has no method `%s`", self.Ty, methodName)
		}
		args, err := l.lowerPositionalArgs(argNodes)
		if err != nil {
			return tir.Expr{}, err
		}
		kwNames := ast.CallKeywords(node)
		kwValues, err := l.lowerPositionalArgs(node.GetList("kwvalues"))
		if err != nil {
			return tir.Expr{}, err
		}
		bound, err := l.bindArguments(node, method.Params, nil, args, kwNames, kwValues)
		if err != nil {
			return tir.Expr{}, err
		}
		if method.ReturnType == nil {
			return tir.Expr{Kind: tir.KindCall, Ty: types.ValueType{}, Span: node.Position(), Target: tir.NamedTarget(method.MangledName), Args: append([]tir.Expr{self}, bound...)}, nil
		}
		return tir.Expr{Kind: tir.KindCall, Ty: *method.ReturnType, Span: node.Position(), Target: tir.NamedTarget(method.MangledName), Args: append([]tir.Expr{self}, bound...)}, nil
	}

	return l.lowerBuiltinMethodCall(node, self, methodName, argNodes)
}

func moduleKind(modulePath string) string {
	switch modulePath {
	case "math":
		return "math"
	case "random":
		return "random"
	default:
		return modulePath
	}
}

func nativeModuleReturnType(funcName string) types.ValueType {
	switch funcName {
	case "randint":
		return types.VInt()
	case "seed":
		return types.ValueType{}
	default:
		return types.VFloat()
	}
}

// lowerBuiltinMethodCall dispatches (ValueType, method_name) via a small
// closed method-rule table.
// Container append/insert/etc. are exposed this way rather than through
// the class magic-method map, since primitives have no method map of
// their own.
func (l *Lowering) lowerBuiltinMethodCall(node ast.Node, self tir.Expr, methodName string, argNodes []ast.Node) (tir.Expr, error) {
	args, err := l.lowerPositionalArgs(argNodes)
	if err != nil {
		return tir.Expr{}, err
	}
	allArgs := append([]tir.Expr{self}, args...)
	tag := types.NormalizeTypeName(self.Ty) + "_" + methodName

	switch methodName {
	case "append", "extend", "insert", "remove", "clear", "sort", "add", "discard", "update":
		return tir.Expr{Kind: tir.KindExternalCall, Ty: types.ValueType{}, Span: node.Position(), Target: tir.BuiltinTarget(tag), Args: allArgs}, nil
	case "get", "pop", "keys", "values", "items", "count", "index", "upper", "lower", "strip", "split", "join", "format", "encode", "decode":
		return tir.Expr{Kind: tir.KindExternalCall, Ty: self.Ty, Span: node.Position(), Target: tir.BuiltinTarget(tag), Args: allArgs}, nil
	default:
		return tir.Expr{}, diag.New(diag.AttributeError, node.Position(), l.funcName(), "`%s` has no method `%s`", self.Ty, methodName)
	}
}

// bindArguments fills parameter slots positionally, then by keyword, then
// from defaults, inserting numeric coercions as needed.
func (l *Lowering) bindArguments(node ast.Node, params []tir.Param, defaults []classreg.ParamDefault, positional []tir.Expr, kwNames []string, kwValues []tir.Expr) ([]tir.Expr, error) {
	if len(positional) > len(params) {
		return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "too many positional arguments: expected %d, got %d", len(params), len(positional))
	}
	bound := make([]tir.Expr, len(params))
	filled := make([]bool, len(params))
	for i, v := range positional {
		bound[i] = v
		filled[i] = true
	}

	for i, kwName := range kwNames {
		idx := paramIndex(params, kwName)
		if idx < 0 {
			return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "unknown keyword argument `%s`", kwName)
		}
		if filled[idx] {
			return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "argument `%s` already supplied positionally", kwName)
		}
		bound[idx] = kwValues[i]
		filled[idx] = true
	}

	for i, p := range params {
		if filled[i] {
			continue
		}
		if dv, ok := defaultFor(defaults, p.Name); ok {
			bound[i] = defaultExpr(dv, p.Ty)
			filled[i] = true
		}
	}

	for i, p := range params {
		if !filled[i] {
			return nil, diag.New(diag.TypeError, node.Position(), l.funcName(), "missing required argument `%s`", p.Name)
		}
		coerced, err := l.coerceArg(node, bound[i], p.Ty)
		if err != nil {
			return nil, err
		}
		bound[i] = coerced
	}
	return bound, nil
}

func paramIndex(params []tir.Param, name string) int {
	for i, p := range params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func defaultFor(defaults []classreg.ParamDefault, name string) (any, bool) {
	for _, d := range defaults {
		if d.Name == name {
			return d.Value, true
		}
	}
	return nil, false
}

func defaultExpr(value any, ty types.ValueType) tir.Expr {
	switch v := value.(type) {
	case int64:
		return tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt(), IntVal: v}
	case float64:
		return tir.Expr{Kind: tir.KindFloatLit, Ty: types.VFloat(), FloatVal: v}
	case bool:
		return tir.Expr{Kind: tir.KindBoolLit, Ty: types.VBool(), BoolVal: v}
	case string:
		return tir.Expr{Kind: tir.KindStrLit, Ty: types.VStr(), StrVal: v}
	default:
		diag.Panic("unsupported default value of type %T for parameter of type %s", value, ty)
		return tir.Expr{}
	}
}

// coerceArg inserts one of the six cross-cast kinds when arg
// is a numeric value type distinct from the declared parameter type.
func (l *Lowering) coerceArg(node ast.Node, arg tir.Expr, want types.ValueType) (tir.Expr, error) {
	if arg.Ty.Equal(want) {
		return arg, nil
	}
	if !arg.Ty.IsNumeric() && arg.Ty.Kind() != types.Bool {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "argument of type `%s` does not match parameter type `%s`", arg.Ty, want)
	}
	if !want.IsNumeric() && want.Kind() != types.Bool {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "argument of type `%s` does not match parameter type `%s`", arg.Ty, want)
	}
	kind, ok := castKind(arg.Ty.Kind(), want.Kind())
	if !ok {
		return tir.Expr{}, diag.New(diag.TypeError, node.Position(), l.funcName(), "argument of type `%s` does not match parameter type `%s`", arg.Ty, want)
	}
	return tir.Expr{Kind: kind, Ty: want, Span: node.Position(), Left: &arg}, nil
}

func castKind(from, to types.Kind) (tir.ExprKind, bool) {
	switch {
	case from == types.Int && to == types.Float:
		return tir.KindCastIntToFloat, true
	case from == types.Float && to == types.Int:
		return tir.KindCastFloatToInt, true
	case from == types.Int && to == types.Bool:
		return tir.KindCastIntToBool, true
	case from == types.Bool && to == types.Int:
		return tir.KindCastBoolToInt, true
	case from == types.Float && to == types.Bool:
		return tir.KindCastFloatToBool, true
	case from == types.Bool && to == types.Float:
		return tir.KindCastBoolToFloat, true
	}
	return 0, false
}
