package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bpos = Pos{File: "m.ty", Line: 1, Column: 1}

func TestCompare_OpsRoundTripThroughCompareOps(t *testing.T) {
	n := Compare(bpos, Name(bpos, "a"), []string{"Lt", "LtE", "Eq"},
		[]Node{Name(bpos, "b"), Name(bpos, "c"), Name(bpos, "d")})
	assert.Equal(t, []string{"Lt", "LtE", "Eq"}, CompareOps(n))
	assert.Len(t, n.GetList("comparators"), 3)
}

func TestCall_KeywordsRoundTripThroughCallKeywords(t *testing.T) {
	n := Call(bpos, Name(bpos, "f"), []Node{ConstInt(bpos, 1)},
		[]string{"x", "y"}, []Node{ConstInt(bpos, 2), ConstInt(bpos, 3)})
	assert.Equal(t, []string{"x", "y"}, CallKeywords(n))
	assert.Len(t, n.GetList("args"), 1)
	assert.Len(t, n.GetList("kwvalues"), 2)
}

func TestCall_NoKeywordsIsEmptySlice(t *testing.T) {
	n := Call(bpos, Name(bpos, "f"), nil, nil, nil)
	assert.Empty(t, CallKeywords(n))
}

func TestSubscriptAndSlice(t *testing.T) {
	sl := Slice(bpos, ConstInt(bpos, 0), ConstInt(bpos, 5), nil)
	n := Subscript(bpos, Name(bpos, "xs"), sl)
	require.NotNil(t, n.GetAttr("slice"))
	assert.Nil(t, n.GetAttr("slice").GetAttr("step"))
	assert.NotNil(t, n.GetAttr("slice").GetAttr("lower"))
}

func TestComprehensionTargetIterAndFilters(t *testing.T) {
	cond := Compare(bpos, Name(bpos, "x"), []string{"Gt"}, []Node{ConstInt(bpos, 0)})
	gen := Comprehension(Name(bpos, "x"), Name(bpos, "xs"), []Node{cond})
	assert.Equal(t, "comprehension", gen.TypeName())
	assert.Equal(t, "x", gen.GetAttr("target").GetString("id"))
	assert.Len(t, gen.GetList("ifs"), 1)
}

func TestListCompAndGeneratorExp(t *testing.T) {
	gen := Comprehension(Name(bpos, "x"), Name(bpos, "xs"), nil)
	lc := ListComp(bpos, Name(bpos, "x"), []Node{gen})
	assert.Equal(t, "ListComp", lc.TypeName())
	assert.Len(t, lc.GetList("generators"), 1)

	ge := GeneratorExp(bpos, Name(bpos, "x"), []Node{gen})
	assert.Equal(t, "GeneratorExp", ge.TypeName())
}

func TestJoinedStrAndFormattedValue(t *testing.T) {
	fv := FormattedValue(bpos, Name(bpos, "x"), "r")
	n := JoinedStr(bpos, ConstStr(bpos, "val="), fv)
	assert.Len(t, n.GetList("values"), 2)
	assert.Equal(t, "r", n.GetList("values")[1].GetString("conversion"))
}

func TestTupleListSetDictLiterals(t *testing.T) {
	tup := TupleLit(bpos, ConstInt(bpos, 1), ConstStr(bpos, "x"))
	assert.Len(t, tup.GetList("elts"), 2)

	lst := ListLit(bpos, ConstInt(bpos, 1))
	assert.Equal(t, "List", lst.TypeName())

	set := SetLit(bpos, ConstInt(bpos, 1))
	assert.Equal(t, "Set", set.TypeName())

	dict := DictLit(bpos, []Node{ConstStr(bpos, "k")}, []Node{ConstInt(bpos, 1)})
	assert.Len(t, dict.GetList("keys"), 1)
	assert.Len(t, dict.GetList("values"), 1)
}
