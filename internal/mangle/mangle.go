// Package mangle implements the flat `$`-separated name mangling scheme
// and the identifier normalization boundary every mangled path passes
// through before its parts are joined.
package mangle

import (
	"bytes"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const Sep = "$"

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// NormalizeIdent NFC-normalizes an identifier and strips a leading BOM,
// so two source files using different Unicode normal forms for the same
// identifier mangle identically. Applied once, at the scope/class-registry
// boundary, before any identifier is ever mangled or used as a map key.
func NormalizeIdent(name string) string {
	b := []byte(name)
	b = bytes.TrimPrefix(b, bomUTF8)
	if !norm.NFC.IsNormal(b) {
		b = norm.NFC.Bytes(b)
	}
	return string(b)
}

// Function mangles a top-level function name: m$f.
func Function(modulePath, name string) string {
	return join(modulePath, name)
}

// Method mangles a method name: m$C$meth.
func Method(modulePath, className, methodName string) string {
	return join(modulePath, className, methodName)
}

// NestedClass mangles a nested class name: m$Outer$Inner.
func NestedClass(modulePath string, outerNames []string, innerName string) string {
	parts := append([]string{modulePath}, outerNames...)
	parts = append(parts, innerName)
	return join(parts...)
}

// SyntheticMain is the mangled name for a module's synthesized top-level
// driver code.
func SyntheticMain(modulePath string) string {
	return modulePath + Sep + Sep + "main" + Sep
}

// NewFactory mangles a class's auto-synthesized `new` factory.
func NewFactory(classMangled string) string {
	return classMangled + Sep + "new"
}

// TupleClassName builds `__tuple$<type>|<type>|...` for a synthesized
// tuple shape.
func TupleClassName(elementTypeNames []string) string {
	return "__tuple" + Sep + strings.Join(elementTypeNames, "|")
}

func join(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = NormalizeIdent(p)
	}
	return strings.Join(normalized, Sep)
}

// Split recovers the path components of a mangled name: splitting on `$` always recovers the module
// prefix and the short name, since `$` never appears in a source
// identifier.
func Split(mangled string) []string {
	return strings.Split(mangled, Sep)
}

// ShortName returns the last, non-empty component of a mangled name.
func ShortName(mangled string) string {
	parts := Split(mangled)
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}
	return mangled
}
