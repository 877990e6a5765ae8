package classreg

import (
	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/diag"
)

// ParamDefault is a constant-folded parameter default value, keyed by
// parameter name. Call lowering consults these when a call
// site omits a trailing positional argument or omits a keyword argument
// entirely.
type ParamDefault struct {
	Name  string
	Value any
}

// CollectParamDefaults constant-folds every default expression attached to
// fn's parameters. Call lowering invokes it at each direct call of a
// top-level function, so defaults are folded anew per call site. Python's "defaults apply to a trailing
// suffix of parameters" rule is not enforced here; a default in an earlier
// position is simply available for that parameter's name, same as any
// other.
func CollectParamDefaults(fn ast.Node) ([]ParamDefault, error) {
	n := ast.FuncDefParamCount(fn)
	out := make([]ParamDefault, 0, n)
	for i := 0; i < n; i++ {
		def := ast.FuncDefParamDefault(fn, i)
		if def == nil {
			continue
		}
		name := ast.FuncDefParamName(fn, i)
		value, err := foldConstant(def)
		if err != nil {
			return nil, diag.New(diag.SyntaxError, fn.Position(), fn.GetString("name"),
				"default value for parameter `%s` must be constant-foldable: %v", name, err)
		}
		out = append(out, ParamDefault{Name: name, Value: value})
	}
	return out, nil
}
