package oprules

import "github.com/cla7aye15I4nd/Tython-sub001/internal/types"

// UnaryOp mirrors the unary op subtype names lists.
type UnaryOp string

const (
	USub   UnaryOp = "USub"
	UAdd   UnaryOp = "UAdd"
	Not    UnaryOp = "Not"
	Invert UnaryOp = "Invert"
)

type UnaryOpRule struct {
	ResultType types.ValueType
}

// LookupUnaryOp validates a unary operator against its operand's type.
//
// `not` is handled specially by the caller via the truthiness rule (it
// accepts any ValueType, including class instances via __bool__); this
// table only covers the primitive-numeric cases directly.
func LookupUnaryOp(op UnaryOp, operand types.ValueType) *UnaryOpRule {
	switch op {
	case USub, UAdd:
		switch operand.Kind() {
		case types.Int:
			return &UnaryOpRule{ResultType: types.VInt()}
		case types.Float:
			return &UnaryOpRule{ResultType: types.VFloat()}
		}
		return nil
	case Not:
		// Truthiness rule accepts any ValueType; always yields Bool.
		return &UnaryOpRule{ResultType: types.VBool()}
	case Invert:
		if operand.Kind() == types.Int {
			return &UnaryOpRule{ResultType: types.VInt()}
		}
		return nil
	}
	return nil
}

func UnaryOpTypeErrorMessage(op UnaryOp, operand types.ValueType) string {
	switch op {
	case USub:
		return "unary `-` requires a numeric operand, got `" + operand.String() + "`"
	case UAdd:
		return "unary `+` requires a numeric operand, got `" + operand.String() + "`"
	case Not:
		return "unary `not` is not supported for `" + operand.String() + "`"
	case Invert:
		return "bitwise `~` requires an `int` operand, got `" + operand.String() + "`"
	}
	return "invalid unary operand"
}

// UnaryMagicMethod returns the candidate dunder for a unary op when the
// operand is a class instance (only `not`/`__bool__` has one in this
// design; `-`/`+`/`~` on a class are always a TypeError, matching
// the unary rule table).
func UnaryMagicMethod(op UnaryOp) string {
	if op == Not {
		return "__bool__"
	}
	return ""
}
