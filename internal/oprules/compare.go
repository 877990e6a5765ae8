package oprules

import "github.com/cla7aye15I4nd/Tython-sub001/internal/types"

// CompareOp mirrors the comparison op subtype names lists.
type CompareOp string

const (
	Eq    CompareOp = "Eq"
	NotEq CompareOp = "NotEq"
	Lt    CompareOp = "Lt"
	LtE   CompareOp = "LtE"
	Gt    CompareOp = "Gt"
	GtE   CompareOp = "GtE"
	In    CompareOp = "In"
	NotIn CompareOp = "NotIn"
	Is    CompareOp = "Is"
	IsNot CompareOp = "IsNot"
)

// CompareStrategy tells the caller how to lower one comparand pair.
type CompareStrategy int

const (
	StrategyDirectTyped   CompareStrategy = iota // Int/Float/Bool direct typed node
	StrategyMagicEq                              // reference type __eq__ / __ne__ fallback
	StrategyMagicLt                               // reference type __lt__ fallback (derives le/gt/ge)
	StrategyContains                              // __contains__ for in / not in
	StrategyIdentity                              // is / is not
)

// LookupCompare decides the comparison strategy and, for the direct-typed
// case, the coercion/result the same way LookupBinOp does for arithmetic.
func LookupCompare(op CompareOp, left, right types.ValueType) (CompareStrategy, *BinOpRule) {
	switch op {
	case In, NotIn:
		return StrategyContains, nil
	case Is, IsNot:
		return StrategyIdentity, nil
	}

	lk, rk := left.Kind(), right.Kind()
	bothPrimitiveNumericOrBool := func(k types.Kind) bool {
		return k == types.Int || k == types.Float || k == types.Bool
	}

	if bothPrimitiveNumericOrBool(lk) && bothPrimitiveNumericOrBool(rk) {
		switch {
		case lk == rk:
			r := same(left)
			return StrategyDirectTyped, &r
		case lk == types.Int && rk == types.Float, lk == types.Float && rk == types.Int:
			r := promoteBothToFloat()
			return StrategyDirectTyped, &r
		case lk == types.Bool && rk != types.Bool, rk == types.Bool && lk != types.Bool:
			// Bool compares as Int against Int/Float.
			if lk == types.Float || rk == types.Float {
				r := promoteBothToFloat()
				return StrategyDirectTyped, &r
			}
			r := same(types.VInt())
			return StrategyDirectTyped, &r
		}
	}

	switch op {
	case Eq, NotEq:
		return StrategyMagicEq, nil
	default:
		return StrategyMagicLt, nil
	}
}
