package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

func TestScope_DeclareAndLookupAtModuleFrame(t *testing.T) {
	s := New()
	s.Declare("x", types.NewInt())

	ty, ok := s.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, types.Int, ty.Kind)
}

func TestScope_InnerFrameShadowsOuter(t *testing.T) {
	s := New()
	s.Declare("x", types.NewInt())
	s.Push()
	s.Declare("x", types.NewStr())

	ty, ok := s.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, types.Str, ty.Kind)

	s.Pop()
	ty, ok = s.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, types.Int, ty.Kind)
}

func TestScope_LookupMissingNameFails(t *testing.T) {
	s := New()
	_, ok := s.Lookup("nope")
	assert.False(t, ok)
}

func TestScope_IsGlobalIgnoresInnerShadow(t *testing.T) {
	s := New()
	s.Declare("x", types.NewInt())
	s.Push()
	s.Declare("x", types.NewStr())

	assert.True(t, s.IsGlobal("x"))

	s.Push()
	s.Declare("y", types.NewBool())
	assert.False(t, s.IsGlobal("y"))
}

func TestScope_DepthTracksPushPop(t *testing.T) {
	s := New()
	assert.Equal(t, 1, s.Depth())
	s.Push()
	s.Push()
	assert.Equal(t, 3, s.Depth())
	s.Pop()
	assert.Equal(t, 2, s.Depth())
}

func TestScope_PopOnEmptyStackPanics(t *testing.T) {
	s := &Scope{}
	assert.Panics(t, func() { s.Pop() })
}

func TestGlobalSymbols_FunctionsClassesAndImports(t *testing.T) {
	g := NewGlobalSymbols()

	g.DeclareFunction("m$f", types.NewInt())
	ty, ok := g.LookupFunction("m$f")
	assert.True(t, ok)
	assert.Equal(t, types.Int, ty.Kind)

	_, ok = g.LookupFunction("m$missing")
	assert.False(t, ok)

	classTy := types.NewClass("m$Widget")
	g.DeclareClass("m$Widget", classTy)
	got, ok := g.LookupClass("m$Widget")
	assert.True(t, ok)
	assert.Equal(t, "m$Widget", got.ClassName)

	g.DeclareImport("np", "numeric")
	path, ok := g.ResolveImportAlias("np")
	assert.True(t, ok)
	assert.Equal(t, "numeric", path)

	_, ok = g.ResolveImportAlias("missing")
	assert.False(t, ok)
}
