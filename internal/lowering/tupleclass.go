package lowering

import (
	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/oprules"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/tir"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

// synthNode is a zero-value ast.Map used as the Position() source for
// diagnostics raised while lowering a synthesized tuple-class method body —
// there is no source line to point to, only the synthesis site itself.
var synthNode ast.Node = &ast.Map{}

// synthesizeTupleClassMethods builds the Function bodies for one tuple
// class's fixed method set. GetOrCreateTupleClass records
// the signatures eagerly, but every body here is built directly from
// info.Fields rather than from any ClassDef AST node — tuple classes are
// synthesized and never parsed. Every tuple shape gets exactly these six
// bodies, plus the bodyless `new` factory shared with user classes.
func (l *Lowering) synthesizeTupleClassMethods(info *tir.ClassInfo) error {
	qualified := info.QualifiedName
	selfTy := types.VClass(qualified)
	self := tir.Expr{Kind: tir.KindVar, Ty: selfTy, Name: "self"}

	if err := l.synthTupleInit(info, qualified, self); err != nil {
		return err
	}
	l.synthTupleLen(info, qualified)
	l.synthTupleBool(info, qualified)
	if err := l.synthTupleEq(info, qualified, self); err != nil {
		return err
	}
	if err := l.synthTupleStrRepr(info, qualified, self, "__repr__"); err != nil {
		return err
	}
	if err := l.synthTupleStrRepr(info, qualified, self, "__str__"); err != nil {
		return err
	}
	return nil
}

func (l *Lowering) synthTupleInit(info *tir.ClassInfo, qualified string, self tir.Expr) error {
	method := info.Methods["__init__"]
	var body []tir.Stmt
	for i, field := range info.Fields {
		param := tir.Expr{Kind: tir.KindVar, Ty: field.Ty, Name: method.Params[i].Name}
		body = append(body, tir.Stmt{
			Kind: tir.KindSetField, SetObject: &self, SetClassName: qualified,
			SetFieldIndex: i, SetValue: &param,
		})
	}
	l.module.Functions[method.MangledName] = &tir.Function{MangledName: method.MangledName, Params: method.Params, Body: body}
	return nil
}

func (l *Lowering) synthTupleLen(info *tir.ClassInfo, qualified string) {
	method := info.Methods["__len__"]
	lenLit := tir.Expr{Kind: tir.KindIntLit, Ty: types.VInt(), IntVal: int64(len(info.Fields))}
	body := []tir.Stmt{tir.ReturnStmt(&lenLit)}
	l.module.Functions[method.MangledName] = &tir.Function{MangledName: method.MangledName, Return: method.ReturnType, Body: body}
}

func (l *Lowering) synthTupleBool(info *tir.ClassInfo, qualified string) {
	method := info.Methods["__bool__"]
	boolLit := tir.Expr{Kind: tir.KindBoolLit, Ty: types.VBool(), BoolVal: len(info.Fields) != 0}
	body := []tir.Stmt{tir.ReturnStmt(&boolLit)}
	l.module.Functions[method.MangledName] = &tir.Function{MangledName: method.MangledName, Return: method.ReturnType, Body: body}
}

// synthTupleEq builds `self._0 == other._0 and self._1 == other._1 and ...`
// (an empty tuple compares equal to another empty tuple of the same
// shape), reusing the ordinary comparison dispatch so nested tuples/classes
// recurse into their own `__eq__` instead of needing special handling here.
func (l *Lowering) synthTupleEq(info *tir.ClassInfo, qualified string, self tir.Expr) error {
	method := info.Methods["__eq__"]
	other := tir.Expr{Kind: tir.KindVar, Ty: types.VClass(qualified), Name: method.Params[0].Name}

	var chain *tir.Expr
	for i, field := range info.Fields {
		left := tir.Expr{Kind: tir.KindGetField, Ty: field.Ty, Object: &self, ClassName: qualified, FieldIndex: i}
		right := tir.Expr{Kind: tir.KindGetField, Ty: field.Ty, Object: &other, ClassName: qualified, FieldIndex: i}
		pair, err := l.applyCompare(synthNode, oprules.Eq, left, right)
		if err != nil {
			return err
		}
		if chain == nil {
			chain = &pair
		} else {
			l2, r2 := *chain, pair
			chain = &tir.Expr{Kind: tir.KindLogicalAnd, Ty: types.VBool(), Left: &l2, Right: &r2}
		}
	}
	var result tir.Expr
	if chain == nil {
		result = tir.Expr{Kind: tir.KindBoolLit, Ty: types.VBool(), BoolVal: true}
	} else {
		result = *chain
	}
	body := []tir.Stmt{tir.ReturnStmt(&result)}
	l.module.Functions[method.MangledName] = &tir.Function{MangledName: method.MangledName, Params: method.Params, Return: method.ReturnType, Body: body}
	return nil
}

// synthTupleStrRepr builds `__repr__`/`__str__` by reusing the same
// open/iterate/close algorithm print and str()/repr() use for tuple values
// elsewhere (strfmt.go), draining the statements it hoists into the
// method's own body instead of the caller's.
func (l *Lowering) synthTupleStrRepr(info *tir.ClassInfo, qualified string, self tir.Expr, name string) error {
	method := info.Methods[name]
	l.drainPreStmts()
	result, err := l.synthesizeStrRepr(synthNode, self, name == "__repr__")
	if err != nil {
		l.drainPreStmts()
		return err
	}
	body := append(l.drainPreStmts(), tir.ReturnStmt(&result))
	l.module.Functions[method.MangledName] = &tir.Function{MangledName: method.MangledName, Return: method.ReturnType, Body: body}
	return nil
}
