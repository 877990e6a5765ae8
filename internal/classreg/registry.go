// Package classreg implements the Class Registry: a
// two-phase discover/collect scheme supporting forward references and
// mutual recursion between classes, plus tuple-class synthesis.
// ClassInfo storage follows the typed-node layout tir.Module already uses
// for functions, so classes and functions share one resolved-declaration
// shape.
package classreg

import (
	"fmt"
	"sort"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/diag"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/mangle"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/tir"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

// Const is a class-level constant: either an annotated or plain assignment
// whose RHS constant-folds.
type Const struct {
	Name  string
	Ty    types.ValueType
	Value any
}

// entry augments tir.ClassInfo with registry bookkeeping not part of the
// TIR interface to the backend.
type entry struct {
	info      *tir.ClassInfo
	consts    map[string]Const
	hasInit   bool
	isSynthetic bool // tuple classes, added by GetOrCreateTupleClass
}

// Registry is the owning value for one module's class discovery/collection
// pass plus the deferred tuple-class bag.
type Registry struct {
	modulePath string
	classes    map[string]*entry
	// deferred holds qualified names of tuple classes discovered during
	// lowering, flushed into the module output at the end.
	deferred []string
}

func New(modulePath string) *Registry {
	return &Registry{
		modulePath: modulePath,
		classes:    map[string]*entry{},
	}
}

func (r *Registry) Get(qualifiedName string) (*tir.ClassInfo, bool) {
	e, ok := r.classes[qualifiedName]
	if !ok {
		return nil, false
	}
	return e.info, true
}

func (r *Registry) Const(qualifiedName, constName string) (Const, bool) {
	e, ok := r.classes[qualifiedName]
	if !ok {
		return Const{}, false
	}
	c, ok := e.consts[constName]
	return c, ok
}

func (r *Registry) HasInit(qualifiedName string) bool {
	e, ok := r.classes[qualifiedName]
	return ok && e.hasInit
}

// IsSynthetic reports whether qualifiedName names a tuple class synthesized
// by GetOrCreateTupleClass, as opposed to a user-written class. Callers use this to recognize tuple values, which carry Ty.Kind()
// == Class (not Kind() == Tuple, which is reserved for unresolved `tuple[...]`
// annotations — see ResolveType).
func (r *Registry) IsSynthetic(qualifiedName string) bool {
	e, ok := r.classes[qualifiedName]
	return ok && e.isSynthetic
}

// ResolveType normalizes a parsed annotation Type into its canonical
// ValueType, converting every `tuple[...]` (recursively, including nested
// inside list/dict/set element types) into the corresponding synthesized
// tuple class rather than leaving it as a bare Kind-Tuple ValueType
// ("one class per distinct tuple shape" applies to every
// tuple the type system can name, not just literals).
func (r *Registry) ResolveType(t types.Type) (types.ValueType, error) {
	switch t.Kind {
	case types.Tuple:
		elems := make([]types.ValueType, len(t.Elements))
		for i, e := range t.Elements {
			vt, err := r.ResolveType(e)
			if err != nil {
				return types.ValueType{}, err
			}
			elems[i] = vt
		}
		info := r.GetOrCreateTupleClass(elems)
		return types.VClass(info.QualifiedName), nil
	case types.List:
		elem, err := r.ResolveType(*t.Elem)
		if err != nil {
			return types.ValueType{}, err
		}
		return types.VList(elem), nil
	case types.Set:
		elem, err := r.ResolveType(*t.Elem)
		if err != nil {
			return types.ValueType{}, err
		}
		return types.VSet(elem), nil
	case types.Dict:
		key, err := r.ResolveType(*t.Key)
		if err != nil {
			return types.ValueType{}, err
		}
		elem, err := r.ResolveType(*t.Elem)
		if err != nil {
			return types.ValueType{}, err
		}
		return types.VDict(key, elem), nil
	default:
		vt, ok := types.ToValueType(t)
		if !ok {
			return types.ValueType{}, fmt.Errorf("`%s` cannot have a runtime representation", t)
		}
		return vt, nil
	}
}

// DeferredTupleClasses returns the tuple classes accumulated this module,
// in first-use order, for the driver to flush into the module's output.
func (r *Registry) DeferredTupleClasses() []string {
	return append([]string(nil), r.deferred...)
}

// DiscoverClasses is Phase 1a: recursively walk the AST for every
// ClassDef, install an empty ClassInfo under its qualified name, and
// declare the short name in the given declare callback as Class(qualified)
//. nesting is the chain of enclosing class short names,
// empty at the top level.
func (r *Registry) DiscoverClasses(body []ast.Node, nesting []string, declare func(shortName string, ty types.Type)) error {
	for _, node := range body {
		if node.TypeName() != "ClassDef" {
			continue
		}
		name := mangle.NormalizeIdent(node.GetString("name"))
		qualified := mangle.NestedClass(r.modulePath, nesting, name)
		if _, exists := r.classes[qualified]; exists {
			return diag.New(diag.SyntaxError, node.Position(), "", "duplicate class definition `%s`", name)
		}
		r.classes[qualified] = &entry{
			info:   tir.NewClassInfo(qualified),
			consts: map[string]Const{},
		}
		declare(name, types.NewClass(qualified))

		childNesting := append(append([]string{}, nesting...), name)
		if err := r.DiscoverClasses(node.GetList("body"), childNesting, declare); err != nil {
			return err
		}
	}
	return nil
}

// CollectClasses is Phase 1b: walk the AST again, and for
// each ClassDef collect field declarations, method signatures, and
// class-level constants. resolveClassName resolves a short class name
// appearing in an annotation to its qualified form (via the enclosing
// scope, which Phase 1a already populated).
func (r *Registry) CollectClasses(body []ast.Node, nesting []string, resolveClassName func(short string) (string, bool)) error {
	for _, node := range body {
		if node.TypeName() != "ClassDef" {
			continue
		}
		name := mangle.NormalizeIdent(node.GetString("name"))
		qualified := mangle.NestedClass(r.modulePath, nesting, name)
		if len(node.GetList("bases")) > 0 {
			return diag.New(diag.SyntaxError, node.Position(), "", "class `%s` may not declare base classes", name)
		}

		e := r.classes[qualified]
		seen := map[string]bool{}

		for _, stmt := range node.GetList("body") {
			switch stmt.TypeName() {
			case "AnnAssign":
				target := stmt.GetAttr("target")
				fieldName := mangle.NormalizeIdent(target.GetString("id"))
				if seen[fieldName] {
					return diag.New(diag.SyntaxError, stmt.Position(), "", "duplicate member `%s` in class `%s`", fieldName, name)
				}
				seen[fieldName] = true

				ty, err := r.resolveAnnotationWithScope(stmt.GetString("annotation"), resolveClassName, stmt)
				if err != nil {
					return err
				}

				if value := stmt.GetAttr("value"); value != nil {
					// Annotated assignment with a value at class level is
					// a constant, not a field.
					folded, err := foldConstant(value)
					if err != nil {
						return diag.New(diag.SyntaxError, stmt.Position(), "", "class constant `%s.%s` must be constant-foldable: %v", name, fieldName, err)
					}
					vt, err := r.ResolveType(ty)
					if err != nil {
						return diag.New(diag.TypeError, stmt.Position(), "", "field `%s.%s` cannot have type `%s`", name, fieldName, ty)
					}
					e.consts[fieldName] = Const{Name: fieldName, Ty: vt, Value: folded}
					continue
				}

				vt, err := r.ResolveType(ty)
				if err != nil {
					return diag.New(diag.TypeError, stmt.Position(), "", "field `%s.%s` cannot have type `%s`", name, fieldName, ty)
				}
				e.info.AddField(fieldName, vt)

			case "Assign":
				target := stmt.GetAttr("target")
				constName := mangle.NormalizeIdent(target.GetString("id"))
				if seen[constName] {
					return diag.New(diag.SyntaxError, stmt.Position(), "", "duplicate member `%s` in class `%s`", constName, name)
				}
				seen[constName] = true
				value := stmt.GetAttr("value")
				folded, err := foldConstant(value)
				if err != nil {
					return diag.New(diag.SyntaxError, stmt.Position(), "", "class constant `%s.%s` must be constant-foldable: %v", name, constName, err)
				}
				e.consts[constName] = Const{Name: constName, Value: folded, Ty: valueTypeOfConst(folded)}

			case "FunctionDef":
				methodName := mangle.NormalizeIdent(stmt.GetString("name"))
				if seen[methodName] {
					return diag.New(diag.SyntaxError, stmt.Position(), "", "duplicate member `%s` in class `%s`", methodName, name)
				}
				seen[methodName] = true

				method, err := r.collectMethodSignature(qualified, name, stmt, resolveClassName)
				if err != nil {
					return err
				}
				e.info.Methods[methodName] = method
				if methodName == "__init__" {
					e.hasInit = true
					if method.ReturnType != nil {
						return diag.New(diag.TypeError, stmt.Position(), methodName, "`__init__` must declare return type `None`")
					}
					factory := tir.ClassMethod{
						Name:        "new",
						Params:      method.Params,
						MangledName: mangle.NewFactory(qualified),
					}
					rt := types.VClass(qualified)
					factory.ReturnType = &rt
					e.info.Methods["new"] = factory
				}

			case "Expr":
				if !isDocstringOrEllipsis(stmt.GetAttr("value")) {
					return diag.New(diag.SyntaxError, stmt.Position(), "", "statement not permitted in class body of `%s`", name)
				}

			case "ClassDef":
				childNesting := append(append([]string{}, nesting...), name)
				if err := r.CollectClasses([]ast.Node{stmt}, childNesting, resolveClassName); err != nil {
					return err
				}

			default:
				return diag.New(diag.SyntaxError, stmt.Position(), "", "statement not permitted in class body of `%s`", name)
			}
		}
	}
	return nil
}

func isDocstringOrEllipsis(value ast.Node) bool {
	if value == nil {
		return false
	}
	if value.TypeName() != "Constant" {
		return false
	}
	kind := value.GetString("kind")
	return kind == "str" || kind == "ellipsis"
}

func (r *Registry) resolveAnnotationWithScope(annotation string, resolveClassName func(string) (string, bool), node ast.Node) (types.Type, error) {
	ty, err := types.ParseAnnotation(annotation)
	if err != nil {
		return types.Type{}, diag.New(diag.SyntaxError, node.Position(), "", "%v", err)
	}
	if ty.Kind == types.Class {
		if qualified, ok := resolveClassName(ty.ClassName); ok {
			ty.ClassName = qualified
		} else if _, ok := r.classes[ty.ClassName]; !ok {
			return types.Type{}, diag.New(diag.NameError, node.Position(), "", "unknown class `%s` in type annotation", ty.ClassName)
		}
	}
	return ty, nil
}

func (r *Registry) collectMethodSignature(qualifiedClass, className string, fn ast.Node, resolveClassName func(string) (string, bool)) (tir.ClassMethod, error) {
	methodName := mangle.NormalizeIdent(fn.GetString("name"))
	n := ast.FuncDefParamCount(fn)
	params := make([]tir.Param, 0, n)
	for i := 0; i < n; i++ {
		pname := mangle.NormalizeIdent(ast.FuncDefParamName(fn, i))
		if i == 0 && pname == "self" {
			continue
		}
		ptypeNode := ast.FuncDefParamType(fn, i)
		if ptypeNode == nil {
			return tir.ClassMethod{}, diag.New(diag.SyntaxError, fn.Position(), methodName, "parameter `%s` of `%s.%s` is missing a type annotation", pname, className, methodName)
		}
		ty, err := r.resolveAnnotationWithScope(ptypeNode.GetString("annotation"), resolveClassName, fn)
		if err != nil {
			return tir.ClassMethod{}, err
		}
		vt, err := r.ResolveType(ty)
		if err != nil {
			return tir.ClassMethod{}, diag.New(diag.TypeError, fn.Position(), methodName, "parameter `%s` cannot have type `%s`", pname, ty)
		}
		params = append(params, tir.Param{Name: pname, Ty: vt})
	}

	var retPtr *types.ValueType
	retAnn := fn.GetString("returns")
	if retAnn != "" && retAnn != "None" {
		ty, err := r.resolveAnnotationWithScope(retAnn, resolveClassName, fn)
		if err != nil {
			return tir.ClassMethod{}, err
		}
		vt, err := r.ResolveType(ty)
		if err != nil {
			return tir.ClassMethod{}, diag.New(diag.TypeError, fn.Position(), methodName, "return type cannot be `%s`", ty)
		}
		retPtr = &vt
	}

	return tir.ClassMethod{
		Name:        methodName,
		Params:      params,
		ReturnType:  retPtr,
		MangledName: qualifiedClass + mangle.Sep + mangle.NormalizeIdent(methodName),
	}, nil
}

func valueTypeOfConst(v any) types.ValueType {
	switch v.(type) {
	case int64:
		return types.VInt()
	case float64:
		return types.VFloat()
	case bool:
		return types.VBool()
	case string:
		return types.VStr()
	default:
		panic(fmt.Sprintf("classreg: unsupported constant value %#v", v))
	}
}

// sortedQualifiedNames is a test/diagnostics helper.
func (r *Registry) sortedQualifiedNames() []string {
	names := make([]string, 0, len(r.classes))
	for k := range r.classes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
