package classreg

import (
	"github.com/cla7aye15I4nd/Tython-sub001/internal/mangle"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/tir"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

// GetOrCreateTupleClass returns the ClassInfo for the tuple shape named by
// elems, synthesizing it on first use: one class per
// distinct ValueType-tuple shape, fields `_0.._{n-1}`, and the fixed method
// set `__init__`/`new`/`__len__`/`__bool__`/`__eq__`/`__repr__`/`__str__`.
func (r *Registry) GetOrCreateTupleClass(elems []types.ValueType) *tir.ClassInfo {
	typeNames := make([]string, len(elems))
	for i, e := range elems {
		typeNames[i] = types.NormalizeTypeName(e)
	}
	qualified := mangle.TupleClassName(typeNames)

	if e, ok := r.classes[qualified]; ok {
		return e.info
	}

	info := tir.NewClassInfo(qualified)
	for i, elem := range elems {
		info.AddField(fieldName(i), elem)
	}

	initParams := make([]tir.Param, 0, len(elems))
	for i, elem := range elems {
		initParams = append(initParams, tir.Param{Name: fieldName(i), Ty: elem})
	}
	info.Methods["__init__"] = tir.ClassMethod{
		Name:        "__init__",
		Params:      initParams,
		MangledName: mangle.Method(r.modulePath, qualified, "__init__"),
	}

	newReturn := types.VClass(qualified)
	info.Methods["new"] = tir.ClassMethod{
		Name:        "new",
		Params:      initParams,
		ReturnType:  &newReturn,
		MangledName: mangle.NewFactory(qualified),
	}

	lenReturn := types.VInt()
	info.Methods["__len__"] = tir.ClassMethod{
		Name:        "__len__",
		ReturnType:  &lenReturn,
		MangledName: mangle.Method(r.modulePath, qualified, "__len__"),
	}

	boolReturn := types.VBool()
	info.Methods["__bool__"] = tir.ClassMethod{
		Name:        "__bool__",
		ReturnType:  &boolReturn,
		MangledName: mangle.Method(r.modulePath, qualified, "__bool__"),
	}

	eqReturn := types.VBool()
	info.Methods["__eq__"] = tir.ClassMethod{
		Name:        "__eq__",
		Params:      []tir.Param{{Name: "other", Ty: types.VClass(qualified)}},
		ReturnType:  &eqReturn,
		MangledName: mangle.Method(r.modulePath, qualified, "__eq__"),
	}

	strReturn := types.VStr()
	info.Methods["__repr__"] = tir.ClassMethod{
		Name:        "__repr__",
		ReturnType:  &strReturn,
		MangledName: mangle.Method(r.modulePath, qualified, "__repr__"),
	}
	info.Methods["__str__"] = tir.ClassMethod{
		Name:        "__str__",
		ReturnType:  &strReturn,
		MangledName: mangle.Method(r.modulePath, qualified, "__str__"),
	}

	r.classes[qualified] = &entry{info: info, consts: map[string]Const{}, isSynthetic: true}
	r.deferred = append(r.deferred, qualified)
	return info
}

// fieldName is `_0`, `_1`, ...
func fieldName(i int) string {
	digits := []byte{}
	n := i
	if n == 0 {
		return "_0"
	}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return "_" + string(digits)
}

// TupleFieldIndex returns the field index for element i of a tuple (trivial,
// but named so call sites read declaratively — the dynamic
// subscript lowering walks these by position).
func TupleFieldIndex(i int) int { return i }
