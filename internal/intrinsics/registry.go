// Package intrinsics implements the Intrinsic Instance Registry: generic containers (Dict, Set, ListEq/Sorted) cannot inline
// per-element equality or ordering because their element type is only
// known at the call site, so the core hands the backend a small integer
// tag identifying which per-type instance to call. Grounded on the
// teacher's internal/types.InstanceEnv, whose Add/Lookup coherence
// checking this mirrors with registration-on-first-use instead of
// upfront built-in population.
package intrinsics

import (
	"fmt"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/types"
)

// Op is one of the two generic operations a container needs dispatched
// per-element (Eq, Lt).
type Op int

const (
	Eq Op = iota
	Lt
)

func (o Op) String() string {
	if o == Eq {
		return "Eq"
	}
	return "Lt"
}

// Registry maps (op, ValueType) -> a fresh tag, allocated on first use.
// Owned by the single Lowering value for the module's
// lifetime; nothing here is observable after the module finishes.
type Registry struct {
	tags    map[string]int
	next    int
	byTag   map[int]instanceKey
}

type instanceKey struct {
	op Op
	ty types.ValueType
}

func NewRegistry() *Registry {
	return &Registry{
		tags:  map[string]int{},
		byTag: map[int]instanceKey{},
		next:  1,
	}
}

func key(op Op, ty types.ValueType) string {
	return fmt.Sprintf("%s::%s", op, types.NormalizeTypeName(ty))
}

// Register is idempotent: repeat calls with an equal
// (op, ty) return the same tag.
func (r *Registry) Register(op Op, ty types.ValueType) int {
	k := key(op, ty)
	if tag, ok := r.tags[k]; ok {
		return tag
	}
	tag := r.next
	r.next++
	r.tags[k] = tag
	r.byTag[tag] = instanceKey{op: op, ty: ty}
	return tag
}

// Lookup returns the tag for (op, ty) if already registered.
func (r *Registry) Lookup(op Op, ty types.ValueType) (int, bool) {
	tag, ok := r.tags[key(op, ty)]
	return tag, ok
}

// Resolve is the inverse of Register, used by tests and by the
// diagnostics path to describe which instance a tag names.
func (r *Registry) Resolve(tag int) (Op, types.ValueType, bool) {
	k, ok := r.byTag[tag]
	return k.op, k.ty, ok
}

// Count is the number of distinct instances registered so far.
func (r *Registry) Count() int { return len(r.tags) }
