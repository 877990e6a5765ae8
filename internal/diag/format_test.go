package diag

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestFormat_IncludesMessageLocationAndFunction(t *testing.T) {
	color.NoColor = true
	r := &Report{
		Category:     TypeError,
		Message:      "bad type",
		File:         "m.ty",
		Line:         4,
		Column:       3,
		SourceLine:   "x: int = y",
		FunctionName: "f",
	}
	out := Format(r)
	assert.Contains(t, out, "TypeError: bad type")
	assert.Contains(t, out, "m.ty:4:3")
	assert.Contains(t, out, "x: int = y")
	assert.Contains(t, out, "in function `f`")
}

func TestFormat_OmitsSourceLineAndFunctionWhenAbsent(t *testing.T) {
	color.NoColor = true
	r := &Report{Category: NameError, Message: "undefined", File: "m.ty", Line: 1, Column: 1}
	out := Format(r)
	assert.NotContains(t, out, "in function")
}
