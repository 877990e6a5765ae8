// Package lowering is the Lowering driver: the single
// value that owns scope, the class registry, the intrinsic registry, and
// the deferred-class/synthetic-name bookkeeping for one module's lifetime.
// It runs phase-ordered: discover classes, collect signatures, then lower
// bodies, so every reference resolves regardless of declaration order.
package lowering

import (
	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/classreg"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/diag"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/intrinsics"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/mangle"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/oprules"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/scope"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/tir"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

// funcSig is what function-signature collection records before bodies are
// lowered, so forward references and mutual recursion between top-level
// functions resolve the same way class references do.
type funcSig struct {
	mangled string
	params  []tir.Param
	ret     *types.ValueType
	node    ast.Node
}

// methodCtx threads the enclosing class through method-body lowering so
// `self` resolves and the reference-field-immutability rule can tell whether the current method is
// `__init__`.
type methodCtx struct {
	className string
	isInit    bool
}

// Lowering is the single owning value for one module's lowering pass:
// every field here is mutated only from the call stack
// rooted at LowerModule, and none are observable once it returns.
type Lowering struct {
	modulePath string

	scope      *scope.Scope
	globals    *scope.GlobalSymbols
	classes    *classreg.Registry
	intrinsics *intrinsics.Registry

	module *tir.Module

	funcSigs map[string]*funcSig // short name -> signature, top-level functions only

	preStmts []tir.Stmt // hoisted pre-statement bag, flushed by the caller

	synthCounter int

	method *methodCtx // non-nil while lowering a method body

	tryFinallyDepth int // >0 forbids `return`

	emptyListHint *types.ValueType // inherited element-type hint for `[]`/`{}` literals

	currentReturn *types.ValueType // enclosing function/method's declared return type
}

// New creates a Lowering value for modulePath, ready for LowerModule.
func New(modulePath string) *Lowering {
	return &Lowering{
		modulePath: modulePath,
		scope:      scope.New(),
		globals:    scope.NewGlobalSymbols(),
		classes:    classreg.New(modulePath),
		intrinsics: intrinsics.NewRegistry(),
		module:     tir.NewModule(modulePath),
		funcSigs:   map[string]*funcSig{},
	}
}

// LowerModule runs the full driver sequence: register
// imports, run Class Registry phases 1a/1b, collect top-level function
// signatures, then lower every top-level statement, function body, and
// method body in turn. Top-level statements outside any def become the
// module's synthetic `$$main$` entry point.
func (l *Lowering) LowerModule(body []ast.Node) (*tir.Module, error) {
	if err := l.registerImports(body); err != nil {
		return nil, err
	}

	if err := l.classes.DiscoverClasses(body, nil, func(short string, ty types.Type) {
		l.scope.Declare(short, ty)
		l.globals.DeclareClass(ty.ClassName, ty)
	}); err != nil {
		return nil, err
	}
	if err := l.classes.CollectClasses(body, nil, func(short string) (string, bool) {
		ty, ok := l.scope.Lookup(short)
		if !ok || ty.Kind != types.Class {
			return "", false
		}
		return ty.ClassName, true
	}); err != nil {
		return nil, err
	}

	if err := l.collectFunctionSignatures(body); err != nil {
		return nil, err
	}

	var mainBody []ast.Node
	for _, node := range body {
		switch node.TypeName() {
		case "FunctionDef":
			fn, err := l.lowerFunctionBody(node)
			if err != nil {
				return nil, err
			}
			l.module.Functions[fn.MangledName] = fn
		case "ClassDef":
			if err := l.lowerClassMethods(node, nil); err != nil {
				return nil, err
			}
		case "Import", "ImportFrom":
			// Handled by registerImports.
		default:
			mainBody = append(mainBody, node)
		}
	}

	if len(mainBody) > 0 {
		stmts, err := l.lowerBlock(mainBody)
		if err != nil {
			return nil, err
		}
		mangled := mangle.SyntheticMain(l.modulePath)
		l.module.Functions[mangled] = &tir.Function{MangledName: mangled, Body: stmts}
	}

	for _, qualified := range l.classes.DeferredTupleClasses() {
		info, ok := l.classes.Get(qualified)
		if !ok {
			continue
		}
		l.module.Classes[qualified] = info
		if err := l.synthesizeTupleClassMethods(info); err != nil {
			return nil, err
		}
	}
	for _, qualified := range l.classSourceOrder(body, nil) {
		if info, ok := l.classes.Get(qualified); ok {
			l.module.Classes[qualified] = info
		}
	}

	return l.module, nil
}

// classSourceOrder walks ClassDef nodes in source order so module.Classes
// includes every user-declared class alongside the synthesized tuple
// classes already flushed from the deferred bag.
func (l *Lowering) classSourceOrder(body []ast.Node, nesting []string) []string {
	var out []string
	for _, node := range body {
		if node.TypeName() != "ClassDef" {
			continue
		}
		name := mangle.NormalizeIdent(node.GetString("name"))
		qualified := mangle.NestedClass(l.modulePath, nesting, name)
		out = append(out, qualified)
		childNesting := append(append([]string{}, nesting...), name)
		out = append(out, l.classSourceOrder(node.GetList("body"), childNesting)...)
	}
	return out
}

// registerImports declares `import X` / `from X import ...` aliases so
// Call Lowering can recognize `math.sqrt(...)`-shaped NativeModuleFunction
// calls. Full module linking is out of scope;
// only the alias-to-module-kind mapping needed for native routines is
// recorded.
func (l *Lowering) registerImports(body []ast.Node) error {
	for _, node := range body {
		switch node.TypeName() {
		case "Import":
			path := node.GetString("path")
			l.globals.DeclareImport(path, path)
		case "ImportFrom":
			path := node.GetString("path")
			for _, sym := range ast.ImportFromSymbols(node) {
				l.globals.DeclareImport(sym, path)
			}
		}
	}
	return nil
}

func (l *Lowering) collectFunctionSignatures(body []ast.Node) error {
	for _, node := range body {
		if node.TypeName() != "FunctionDef" {
			continue
		}
		name := mangle.NormalizeIdent(node.GetString("name"))
		mangled := mangle.Function(l.modulePath, name)

		n := ast.FuncDefParamCount(node)
		params := make([]tir.Param, 0, n)
		paramTypes := make([]types.Type, 0, n)
		for i := 0; i < n; i++ {
			pname := mangle.NormalizeIdent(ast.FuncDefParamName(node, i))
			ptypeNode := ast.FuncDefParamType(node, i)
			if ptypeNode == nil {
				return diag.New(diag.SyntaxError, node.Position(), name, "parameter `%s` is missing a type annotation", pname)
			}
			ty, err := types.ParseAnnotation(ptypeNode.GetString("annotation"))
			if err != nil {
				return diag.New(diag.SyntaxError, node.Position(), name, "%v", err)
			}
			vt, err := l.classes.ResolveType(ty)
			if err != nil {
				return diag.New(diag.TypeError, node.Position(), name, "parameter `%s` cannot have type `%s`", pname, ty)
			}
			params = append(params, tir.Param{Name: pname, Ty: vt})
			paramTypes = append(paramTypes, vt.Type())
		}

		var retPtr *types.ValueType
		retType := types.NewUnit()
		if ann := node.GetString("returns"); ann != "" && ann != "None" {
			ty, err := types.ParseAnnotation(ann)
			if err != nil {
				return diag.New(diag.SyntaxError, node.Position(), name, "%v", err)
			}
			vt, err := l.classes.ResolveType(ty)
			if err != nil {
				return diag.New(diag.TypeError, node.Position(), name, "return type cannot be `%s`", ty)
			}
			retPtr = &vt
			retType = vt.Type()
		}

		l.funcSigs[name] = &funcSig{mangled: mangled, params: params, ret: retPtr, node: node}
		l.scope.Declare(name, types.NewFunction(paramTypes, retType))
		l.globals.DeclareFunction(mangled, types.NewFunction(paramTypes, retType))
	}
	return nil
}

func (l *Lowering) lowerFunctionBody(node ast.Node) (*tir.Function, error) {
	name := mangle.NormalizeIdent(node.GetString("name"))
	sig := l.funcSigs[name]

	l.scope.Push()
	defer l.scope.Pop()
	for _, p := range sig.params {
		l.scope.Declare(p.Name, p.Ty.Type())
	}

	prevReturn := l.currentReturn
	l.currentReturn = sig.ret
	defer func() { l.currentReturn = prevReturn }()

	stmts, err := l.lowerBlock(node.GetList("body"))
	if err != nil {
		return nil, err
	}
	return &tir.Function{MangledName: sig.mangled, Params: sig.params, Return: sig.ret, Body: stmts}, nil
}

// lowerClassMethods lowers every method body of a ClassDef, once Phase 1b
// has resolved every class's field/method signatures module-wide.
func (l *Lowering) lowerClassMethods(node ast.Node, nesting []string) error {
	name := mangle.NormalizeIdent(node.GetString("name"))
	qualified := mangle.NestedClass(l.modulePath, nesting, name)
	info, ok := l.classes.Get(qualified)
	if !ok {
		diag.Panic("class %s missing from registry during method lowering", qualified)
	}

	for _, stmt := range node.GetList("body") {
		switch stmt.TypeName() {
		case "FunctionDef":
			methodName := mangle.NormalizeIdent(stmt.GetString("name"))
			method, ok := info.Methods[methodName]
			if !ok {
				continue // "new" factories have no body to lower
			}
			if err := l.lowerMethodBody(qualified, method, stmt); err != nil {
				return err
			}
		case "ClassDef":
			childNesting := append(append([]string{}, nesting...), name)
			if err := l.lowerClassMethods(stmt, childNesting); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Lowering) lowerMethodBody(qualifiedClass string, method tir.ClassMethod, node ast.Node) error {
	l.scope.Push()
	defer l.scope.Pop()

	selfTy := types.NewClass(qualifiedClass)
	l.scope.Declare("self", selfTy)
	for _, p := range method.Params {
		l.scope.Declare(p.Name, p.Ty.Type())
	}

	prevMethod := l.method
	l.method = &methodCtx{className: qualifiedClass, isInit: method.Name == "__init__"}
	defer func() { l.method = prevMethod }()

	prevReturn := l.currentReturn
	l.currentReturn = method.ReturnType
	defer func() { l.currentReturn = prevReturn }()

	stmts, err := l.lowerBlock(node.GetList("body"))
	if err != nil {
		return err
	}

	fn := &tir.Function{MangledName: method.MangledName, Params: method.Params, Return: method.ReturnType, Body: stmts}
	l.module.Functions[method.MangledName] = fn
	return nil
}

// freshName allocates a synthetic local-variable name, unique within this
// module, for comprehension/fusion/intermediate-result bookkeeping.
func (l *Lowering) freshName(prefix string) string {
	l.synthCounter++
	return prefix + mangle.Sep + itoa(l.synthCounter)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

// emit appends stmt to the pre-statement bag, which the current block
// builder flushes before the statement that triggered lowering.
func (l *Lowering) emit(stmt tir.Stmt) {
	l.preStmts = append(l.preStmts, stmt)
}

// drainPreStmts takes and clears the accumulated pre-statement bag.
func (l *Lowering) drainPreStmts() []tir.Stmt {
	out := l.preStmts
	l.preStmts = nil
	return out
}

// lowerBlock lowers a sequence of statements into a flat TIR statement
// list, splicing each statement's hoisted pre-statements immediately
// before it.
func (l *Lowering) lowerBlock(body []ast.Node) ([]tir.Stmt, error) {
	var out []tir.Stmt
	for _, node := range body {
		stmts, err := l.lowerStmt(node)
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
	}
	return out, nil
}

// isTuple reports whether ty is a tuple value. Tuple instances carry
// Ty.Kind() == Class (ClassName set to the synthesized tuple class), never
// Kind() == Tuple — that Kind is reserved for unresolved `tuple[...]`
// annotations, which ResolveType always converts before they reach an Expr.
func (l *Lowering) isTuple(ty types.ValueType) bool {
	return ty.Kind() == types.Class && l.classes.IsSynthetic(ty.ClassName())
}

// coerce inserts the appropriate TIR cast when coercion != CoerceNone, or
// returns e unchanged.
func coerce(e tir.Expr, coercion oprules.Coercion) tir.Expr {
	if coercion == oprules.CoerceToFloat && e.Ty.Kind() == types.Int {
		return tir.Expr{Kind: tir.KindCastIntToFloat, Ty: types.VFloat(), Left: &e}
	}
	return e
}
