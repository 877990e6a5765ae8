package oprules

// NativeModuleFunction is a small closed table of recognized math/random
// module aliases and their function names, mapping directly to builtin
// tags.
type NativeModuleFunction struct {
	Module string
	Name   string
	Tag    string
}

var nativeModuleFunctions = []NativeModuleFunction{
	{Module: "math", Name: "sqrt", Tag: "math_sqrt"},
	{Module: "math", Name: "floor", Tag: "math_floor"},
	{Module: "math", Name: "ceil", Tag: "math_ceil"},
	{Module: "math", Name: "sin", Tag: "math_sin"},
	{Module: "math", Name: "cos", Tag: "math_cos"},
	{Module: "math", Name: "log", Tag: "math_log"},
	{Module: "random", Name: "random", Tag: "random_random"},
	{Module: "random", Name: "randint", Tag: "random_randint"},
	{Module: "random", Name: "seed", Tag: "random_seed"},
}

// LookupNativeModuleFunction looks up a recognized `module.func(...)` call
// by the module's registered alias kind ("math" or "random") and the
// function name.
func LookupNativeModuleFunction(moduleKind, funcName string) (NativeModuleFunction, bool) {
	for _, f := range nativeModuleFunctions {
		if f.Module == moduleKind && f.Name == funcName {
			return f, true
		}
	}
	return NativeModuleFunction{}, false
}
