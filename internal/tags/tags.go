// Package tags loads the two closed small-integer enums the Lowering core
// emits into TIR instead of concrete backend symbols:
// exception tags and builtin tags. Both tables are data, embedded as YAML
// and parsed with gopkg.in/yaml.v3, so the tag tables can be regenerated
// without touching the Go switch statements that consume them.
package tags

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed exceptions.yaml
var exceptionsYAML []byte

//go:embed builtins.yaml
var builtinsYAML []byte

type exceptionEntry struct {
	Tag  int    `yaml:"tag"`
	Name string `yaml:"name"`
}

type builtinEntry struct {
	Tag  int    `yaml:"tag"`
	Name string `yaml:"name"`
}

var (
	exceptionByName = map[string]int{}
	exceptionByTag  = map[int]string{}
	builtinByName   = map[string]int{}
	builtinByTag    = map[int]string{}
)

func init() {
	var exc []exceptionEntry
	if err := yaml.Unmarshal(exceptionsYAML, &exc); err != nil {
		panic(fmt.Sprintf("tags: invalid exceptions.yaml: %v", err))
	}
	for _, e := range exc {
		exceptionByName[e.Name] = e.Tag
		exceptionByTag[e.Tag] = e.Name
	}

	var bi []builtinEntry
	if err := yaml.Unmarshal(builtinsYAML, &bi); err != nil {
		panic(fmt.Sprintf("tags: invalid builtins.yaml: %v", err))
	}
	for _, e := range bi {
		builtinByName[e.Name] = e.Tag
		builtinByTag[e.Tag] = e.Name
	}
}

// ExceptionTag returns the closed small-integer tag for an exception kind
// name, and false if the name is not one of the 20 registered
// kinds.
func ExceptionTag(name string) (int, bool) {
	t, ok := exceptionByName[name]
	return t, ok
}

// ExceptionName is the inverse of ExceptionTag, used by diagnostics.
func ExceptionName(tag int) (string, bool) {
	n, ok := exceptionByTag[tag]
	return n, ok
}

// BuiltinTag returns the opaque closed-enum tag the backend uses to select
// a concrete runtime-library symbol for a builtin operation.
func BuiltinTag(name string) (string, bool) {
	_, ok := builtinByName[name]
	if !ok {
		return "", false
	}
	return name, true
}

// AllBuiltinNames returns every registered builtin name, sorted, for
// completeness checks.
func AllBuiltinNames() []string {
	names := make([]string, 0, len(builtinByName))
	for n := range builtinByName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
