package intrinsics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

func TestRegister_IsIdempotentForSameOpAndType(t *testing.T) {
	r := NewRegistry()
	a := r.Register(Eq, types.VInt())
	b := r.Register(Eq, types.VInt())
	assert.Equal(t, a, b)
	assert.Equal(t, 1, r.Count())
}

func TestRegister_DistinctOpOrTypeGetsDistinctTag(t *testing.T) {
	r := NewRegistry()
	eqInt := r.Register(Eq, types.VInt())
	ltInt := r.Register(Lt, types.VInt())
	eqStr := r.Register(Eq, types.VStr())

	assert.NotEqual(t, eqInt, ltInt)
	assert.NotEqual(t, eqInt, eqStr)
	assert.Equal(t, 3, r.Count())
}

func TestLookup_OnlyFindsRegisteredInstances(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup(Eq, types.VInt())
	assert.False(t, ok)

	tag := r.Register(Eq, types.VInt())
	got, ok := r.Lookup(Eq, types.VInt())
	require.True(t, ok)
	assert.Equal(t, tag, got)
}

func TestResolve_IsTheInverseOfRegister(t *testing.T) {
	r := NewRegistry()
	tag := r.Register(Lt, types.VFloat())

	op, ty, ok := r.Resolve(tag)
	require.True(t, ok)
	assert.Equal(t, Lt, op)
	assert.Equal(t, types.VFloat(), ty)

	_, _, ok = r.Resolve(9999)
	assert.False(t, ok)
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "Eq", Eq.String())
	assert.Equal(t, "Lt", Lt.String())
}
