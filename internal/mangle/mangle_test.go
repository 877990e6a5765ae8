package mangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFunction(t *testing.T) {
	assert.Equal(t, "m$f", Function("m", "f"))
}

func TestMethod(t *testing.T) {
	assert.Equal(t, "m$Widget$rename", Method("m", "Widget", "rename"))
}

func TestNestedClass(t *testing.T) {
	assert.Equal(t, "m$Outer$Inner", NestedClass("m", []string{"Outer"}, "Inner"))
	assert.Equal(t, "m$A$B$C", NestedClass("m", []string{"A", "B"}, "C"))
}

func TestSyntheticMain(t *testing.T) {
	assert.Equal(t, "m$$main$", SyntheticMain("m"))
}

func TestNewFactory(t *testing.T) {
	assert.Equal(t, "m$Widget$new", NewFactory("m$Widget"))
}

func TestTupleClassName(t *testing.T) {
	assert.Equal(t, "__tuple$Int|Str", TupleClassName([]string{"Int", "Str"}))
	assert.Equal(t, "__tuple$", TupleClassName(nil))
}

func TestSplitAndShortName(t *testing.T) {
	mangled := Method("m", "Widget", "rename")
	assert.Equal(t, []string{"m", "Widget", "rename"}, Split(mangled))
	assert.Equal(t, "rename", ShortName(mangled))

	// The synthetic-main name ends in the separator; ShortName skips the
	// trailing empty component and returns the last real one.
	assert.Equal(t, "main", ShortName(SyntheticMain("m")))
}

func TestNormalizeIdent_StripsBOMAndNormalizesForm(t *testing.T) {
	withBOM := string(bomUTF8) + "x"
	assert.Equal(t, "x", NormalizeIdent(withBOM))

	// NFD (e + combining acute, U+0065 U+0301) normalizes to the single
	// NFC precomposed code point U+00E9.
	nfd := string([]rune{0x0065, 0x0301})
	nfc := string([]rune{0x00E9})
	assert.Equal(t, nfc, NormalizeIdent(nfd))
}
