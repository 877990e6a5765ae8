// Package oprules is the Type Rules component: pure,
// deterministic lookups deciding validity, coercion, and result type for
// binary/unary/builtin operations, keyed by (op, left, right) over the
// closed set of primitive and sequence kinds.
package oprules

import "github.com/cla7aye15I4nd/Tython-sub001/internal/types"

// Coercion describes what cast (if any) to insert before an operand feeds
// an operation.
type Coercion int

const (
	CoerceNone Coercion = iota
	CoerceToFloat
)

// BinOpRule is the result of a successful (op, left, right) lookup.
type BinOpRule struct {
	LeftCoercion  Coercion
	RightCoercion Coercion
	ResultType    types.ValueType
	// ExternalCall is set for sequence +/* operations, which lower to a
	// runtime-library call rather than a typed arithmetic TIR node.
	ExternalCall string
	// SwapOperands is set for `Int * Seq` which normalizes to `Seq * Int`.
	SwapOperands bool
}

// BinOp is the closed set of source-level binary operators // names (Op kind subtype names from the AST interface).
type BinOp string

const (
	Add    BinOp = "Add"
	Sub    BinOp = "Sub"
	Mul    BinOp = "Mult"
	Div    BinOp = "Div"
	FloorDiv BinOp = "FloorDiv"
	Mod    BinOp = "Mod"
	Pow    BinOp = "Pow"
	LShift BinOp = "LShift"
	RShift BinOp = "RShift"
	BitAnd BinOp = "BitAnd"
	BitOr  BinOp = "BitOr"
	BitXor BinOp = "BitXor"
)

func same(ty types.ValueType) BinOpRule {
	return BinOpRule{ResultType: ty}
}

func promoteBothToFloat() BinOpRule {
	return BinOpRule{LeftCoercion: CoerceToFloat, RightCoercion: CoerceToFloat, ResultType: types.VFloat()}
}

func promoteLeftToFloat() BinOpRule {
	return BinOpRule{LeftCoercion: CoerceToFloat, ResultType: types.VFloat()}
}

func promoteRightToFloat() BinOpRule {
	return BinOpRule{RightCoercion: CoerceToFloat, ResultType: types.VFloat()}
}

// LookupBinOp returns nil if the (op, left, right) combination is invalid
// for primitive/sequence types. Class operands (possible
// `__add__`/`__radd__`/... dispatch) are handled by the caller before
// falling back to this table.
func LookupBinOp(op BinOp, left, right types.ValueType) *BinOpRule {
	lk, rk := left.Kind(), right.Kind()

	switch op {
	case BitAnd, BitOr, BitXor, LShift, RShift:
		if lk == types.Int && rk == types.Int {
			r := same(types.VInt())
			return &r
		}
		return nil

	case Div:
		switch {
		case lk == types.Int && rk == types.Int:
			r := promoteBothToFloat()
			return &r
		case lk == types.Float && rk == types.Float:
			r := same(types.VFloat())
			return &r
		case lk == types.Int && rk == types.Float:
			r := promoteLeftToFloat()
			return &r
		case lk == types.Float && rk == types.Int:
			r := promoteRightToFloat()
			return &r
		}
		return nil

	case Add, Sub, Mul, FloorDiv, Mod, Pow:
		switch {
		case lk == types.Int && rk == types.Int:
			r := same(types.VInt())
			return &r
		case lk == types.Float && rk == types.Float:
			r := same(types.VFloat())
			return &r
		case lk == types.Int && rk == types.Float:
			r := promoteLeftToFloat()
			return &r
		case lk == types.Float && rk == types.Int:
			r := promoteRightToFloat()
			return &r
		}
		// Sequence rules only apply to Add/Mul; fall through below.
	}

	if op == Add {
		if rule := lookupSequenceAdd(left, right); rule != nil {
			return rule
		}
	}
	if op == Mul {
		if rule := lookupSequenceMul(left, right); rule != nil {
			return rule
		}
	}

	return nil
}

func lookupSequenceAdd(left, right types.ValueType) *BinOpRule {
	if !left.Equal(right) {
		return nil
	}
	switch left.Kind() {
	case types.Str:
		return &BinOpRule{ResultType: types.VStr(), ExternalCall: "add_Str"}
	case types.Bytes:
		return &BinOpRule{ResultType: types.VBytes(), ExternalCall: "add_Bytes"}
	case types.ByteArray:
		return &BinOpRule{ResultType: types.VByteArray(), ExternalCall: "add_ByteArray"}
	case types.List:
		return &BinOpRule{ResultType: left, ExternalCall: "add_List"}
	}
	return nil
}

func lookupSequenceMul(left, right types.ValueType) *BinOpRule {
	isSeq := func(v types.ValueType) bool {
		switch v.Kind() {
		case types.Str, types.Bytes, types.ByteArray, types.List:
			return true
		}
		return false
	}
	switch {
	case isSeq(left) && right.Kind() == types.Int:
		return &BinOpRule{ResultType: left, ExternalCall: "mul_Seq"}
	case left.Kind() == types.Int && isSeq(right):
		return &BinOpRule{ResultType: right, ExternalCall: "mul_Seq", SwapOperands: true}
	}
	return nil
}

// BinOpTypeErrorMessage renders the diagnostic text for an invalid operand
// combination.
func BinOpTypeErrorMessage(op BinOp, left, right types.ValueType) string {
	switch op {
	case BitAnd, BitOr, BitXor, LShift, RShift:
		return "bitwise operator `" + OpSymbol(op) + "` requires `int` operands, got `" + left.String() + "` and `" + right.String() + "`"
	default:
		return "operator `" + OpSymbol(op) + "` requires numeric operands, got `" + left.String() + "` and `" + right.String() + "`"
	}
}

var opSymbols = map[BinOp]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", FloorDiv: "//", Mod: "%", Pow: "**",
	LShift: "<<", RShift: ">>", BitAnd: "&", BitOr: "|", BitXor: "^",
}

func OpSymbol(op BinOp) string {
	if s, ok := opSymbols[op]; ok {
		return s
	}
	return string(op)
}

// MagicMethodNames returns the candidate dunder methods to try, in order,
// for a binary operator when either operand is a class instance.
func MagicMethodNames(op BinOp) (forward, reflected string) {
	table := map[BinOp][2]string{
		Add:      {"__add__", "__radd__"},
		Sub:      {"__sub__", "__rsub__"},
		Mul:      {"__mul__", "__rmul__"},
		Div:      {"__truediv__", "__rtruediv__"},
		FloorDiv: {"__floordiv__", "__rfloordiv__"},
		Mod:      {"__mod__", "__rmod__"},
		Pow:      {"__pow__", "__rpow__"},
	}
	if pair, ok := table[op]; ok {
		return pair[0], pair[1]
	}
	return "", ""
}
