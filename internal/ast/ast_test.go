package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap_FieldAccessorsRoundTrip(t *testing.T) {
	pos := Pos{File: "m.ty", Line: 2, Column: 4}
	n := NewNode("Name", pos).SetStr("id", "x")

	assert.Equal(t, "Name", n.TypeName())
	assert.Equal(t, "x", n.GetString("id"))
	assert.Equal(t, 2, n.Lineno())
	assert.Equal(t, pos, n.Position())
}

func TestMap_MissingFieldsReturnZeroValues(t *testing.T) {
	n := NewNode("Name", Pos{})
	assert.Nil(t, n.GetAttr("missing"))
	assert.Nil(t, n.GetList("missing"))
	assert.Equal(t, "", n.GetString("missing"))
	assert.Equal(t, int64(0), n.GetInt("missing"))
	assert.Equal(t, 0.0, n.GetFloat("missing"))
	assert.Equal(t, false, n.GetBool("missing"))
}

func TestMap_AttrAndListNesting(t *testing.T) {
	pos := Pos{File: "m.ty", Line: 1, Column: 1}
	left := NewNode("Name", pos).SetStr("id", "a")
	right := NewNode("Name", pos).SetStr("id", "b")
	n := NewNode("BinOp", pos).SetAttr("left", left).SetAttr("right", right).
		SetList("decorators", []Node{left, right})

	assert.Same(t, Node(left), n.GetAttr("left"))
	assert.Equal(t, []Node{left, right}, n.GetList("decorators"))
}

func TestMap_IntFloatBoolFields(t *testing.T) {
	n := NewNode("Constant", Pos{}).SetInt("value", 42).SetFloat("fvalue", 3.5).SetBool("flag", true)
	assert.Equal(t, int64(42), n.GetInt("value"))
	assert.Equal(t, 3.5, n.GetFloat("fvalue"))
	assert.True(t, n.GetBool("flag"))
}

func TestPos_StringFormat(t *testing.T) {
	p := Pos{File: "m.ty", Line: 10, Column: 2}
	assert.Equal(t, "m.ty:10:2", p.String())
}
