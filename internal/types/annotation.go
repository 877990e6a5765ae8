package types

import (
	"fmt"
	"strings"
)

// ParseAnnotation parses a surface type annotation string (as the AST
// interface's GetString("annotation") yields) into a Type. This is the
// boundary between surface syntax and the closed Type universe; it knows nothing about class registries, so a bare class name is
// always accepted as Class(name) — callers verify the class is actually
// registered.
func ParseAnnotation(s string) (Type, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "int":
		return NewInt(), nil
	case "float":
		return NewFloat(), nil
	case "bool":
		return NewBool(), nil
	case "str":
		return NewStr(), nil
	case "bytes":
		return NewBytes(), nil
	case "bytearray":
		return NewByteArray(), nil
	case "None":
		return NewUnit(), nil
	}

	if inner, ok := strip(s, "list[", "]"); ok {
		elem, err := ParseAnnotation(inner)
		if err != nil {
			return Type{}, err
		}
		return NewList(elem), nil
	}
	if inner, ok := strip(s, "set[", "]"); ok {
		elem, err := ParseAnnotation(inner)
		if err != nil {
			return Type{}, err
		}
		return NewSet(elem), nil
	}
	if inner, ok := strip(s, "dict[", "]"); ok {
		parts := splitTopLevel(inner)
		if len(parts) != 2 {
			return Type{}, fmt.Errorf("dict[...] annotation needs exactly two type parameters, got %q", s)
		}
		k, err := ParseAnnotation(parts[0])
		if err != nil {
			return Type{}, err
		}
		v, err := ParseAnnotation(parts[1])
		if err != nil {
			return Type{}, err
		}
		return NewDict(k, v), nil
	}
	if inner, ok := strip(s, "tuple[", "]"); ok {
		parts := splitTopLevel(inner)
		elems := make([]Type, len(parts))
		for i, p := range parts {
			t, err := ParseAnnotation(p)
			if err != nil {
				return Type{}, err
			}
			elems[i] = t
		}
		return NewTuple(elems...), nil
	}

	if s == "" {
		return Type{}, fmt.Errorf("empty type annotation")
	}

	// Anything else is assumed to be a (possibly module-qualified) class
	// name; the class registry resolves it against known classes.
	return NewClass(s), nil
}

func strip(s, prefix, suffix string) (string, bool) {
	if strings.HasPrefix(s, prefix) && strings.HasSuffix(s, suffix) {
		return s[len(prefix) : len(s)-len(suffix)], true
	}
	return "", false
}

// splitTopLevel splits a comma-separated list of type parameters, respecting
// nested brackets so `dict[str, list[int]]`'s inner comma doesn't split.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}
