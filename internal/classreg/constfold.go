package classreg

import (
	"fmt"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
)

// foldConstant evaluates a restricted constant-expression grammar: literals,
// unary +/-/not on a folded operand, +,-,*,/ on two folded int/float
// operands, //,% on two folded ints, and + on two folded strings. This is exactly the subset class-level constants and
// parameter defaults are allowed to use — defaults are restricted to this
// literal-and-arithmetic grammar rather than general constant propagation.
func foldConstant(n ast.Node) (any, error) {
	if n == nil {
		return nil, fmt.Errorf("missing value")
	}
	switch n.TypeName() {
	case "Constant":
		switch n.GetString("kind") {
		case "int":
			return n.GetInt("value"), nil
		case "float":
			return n.GetFloat("value"), nil
		case "bool":
			return n.GetBool("value"), nil
		case "str":
			return n.GetString("value"), nil
		case "none":
			return nil, fmt.Errorf("None is not a valid constant here")
		default:
			return nil, fmt.Errorf("unrecognized constant kind %q", n.GetString("kind"))
		}

	case "UnaryOp":
		operand, err := foldConstant(n.GetAttr("operand"))
		if err != nil {
			return nil, err
		}
		switch n.GetString("op") {
		case "USub":
			switch v := operand.(type) {
			case int64:
				return -v, nil
			case float64:
				return -v, nil
			}
			return nil, fmt.Errorf("unary `-` requires a numeric constant")
		case "UAdd":
			switch operand.(type) {
			case int64, float64:
				return operand, nil
			}
			return nil, fmt.Errorf("unary `+` requires a numeric constant")
		case "Not":
			return !truthy(operand), nil
		default:
			return nil, fmt.Errorf("unsupported unary operator %q in constant expression", n.GetString("op"))
		}

	case "BinOp":
		left, err := foldConstant(n.GetAttr("left"))
		if err != nil {
			return nil, err
		}
		right, err := foldConstant(n.GetAttr("right"))
		if err != nil {
			return nil, err
		}
		return foldBinOp(n.GetString("op"), left, right)

	default:
		return nil, fmt.Errorf("expression of kind %q is not constant-foldable", n.TypeName())
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return false
	}
}

func foldBinOp(op string, left, right any) (any, error) {
	li, lIsInt := left.(int64)
	ri, rIsInt := right.(int64)
	lf, lIsFloat := left.(float64)
	rf, rIsFloat := right.(float64)

	switch {
	case lIsInt && rIsInt:
		switch op {
		case "Add":
			return li + ri, nil
		case "Sub":
			return li - ri, nil
		case "Mult":
			return li * ri, nil
		case "FloorDiv":
			if ri == 0 {
				return nil, fmt.Errorf("division by zero in constant expression")
			}
			return floorDivInt(li, ri), nil
		case "Mod":
			if ri == 0 {
				return nil, fmt.Errorf("modulo by zero in constant expression")
			}
			return floorModInt(li, ri), nil
		case "Div":
			if ri == 0 {
				return nil, fmt.Errorf("division by zero in constant expression")
			}
			return float64(li) / float64(ri), nil
		}

	case (lIsInt || lIsFloat) && (rIsInt || rIsFloat):
		a := lf
		if lIsInt {
			a = float64(li)
		}
		b := rf
		if rIsInt {
			b = float64(ri)
		}
		switch op {
		case "Add":
			return a + b, nil
		case "Sub":
			return a - b, nil
		case "Mult":
			return a * b, nil
		case "Div":
			if b == 0 {
				return nil, fmt.Errorf("division by zero in constant expression")
			}
			return a / b, nil
		}
	}

	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok && op == "Add" {
			return ls + rs, nil
		}
	}

	return nil, fmt.Errorf("operator %q is not supported between these constant operands", op)
}

func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorModInt(a, b int64) int64 {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}
