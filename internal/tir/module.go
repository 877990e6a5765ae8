package tir

import "github.com/cla7aye15I4nd/Tython-sub001/internal/types"

// Param is one function parameter, already resolved to a ValueType.
type Param struct {
	Name string
	Ty   types.ValueType
}

// Function is a lowered, mangled, typed function body.
type Function struct {
	MangledName string
	Params      []Param
	Return      *types.ValueType // nil == Unit return
	Body        []Stmt
}

// ClassField is one field of a lowered class, in declaration order.
type ClassField struct {
	Name  string
	Ty    types.ValueType
	Index int
}

// ClassMethod records a method's signature and mangled entry point.
type ClassMethod struct {
	Name        string
	Params      []Param
	ReturnType  *types.ValueType
	MangledName string
}

// ClassInfo is the registry entry for one class. Created
// empty in Phase 1a, populated in Phase 1b, read-only thereafter.
type ClassInfo struct {
	QualifiedName string
	Fields        []ClassField
	Methods       map[string]ClassMethod
	FieldMap      map[string]int
}

func NewClassInfo(qualifiedName string) *ClassInfo {
	return &ClassInfo{
		QualifiedName: qualifiedName,
		Methods:       map[string]ClassMethod{},
		FieldMap:      map[string]int{},
	}
}

func (c *ClassInfo) AddField(name string, ty types.ValueType) ClassField {
	f := ClassField{Name: name, Ty: ty, Index: len(c.Fields)}
	c.Fields = append(c.Fields, f)
	c.FieldMap[name] = f.Index
	return f
}

// Module is the complete TIR interface to the backend.
type Module struct {
	Path      string
	Functions map[string]*Function
	Classes   map[string]*ClassInfo
}

func NewModule(path string) *Module {
	return &Module{
		Path:      path,
		Functions: map[string]*Function{},
		Classes:   map[string]*ClassInfo{},
	}
}
