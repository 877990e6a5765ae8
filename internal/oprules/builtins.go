package oprules

import "github.com/cla7aye15I4nd/Tython-sub001/internal/types"

// BuiltinRuleKind tags the shape of a builtin-conversion/numeric-helper
// rule (Identity, ExternalCall, PrimitiveCast,
// ConstInt, FoldExternalCall, ClassMagic, StrAuto/ReprAuto).
type BuiltinRuleKind int

const (
	Identity BuiltinRuleKind = iota
	ExternalCall
	PrimitiveCast
	ConstIntRule
	FoldExternalCall
	ClassMagicRule
	StrAuto
	ReprAuto
)

type BuiltinRule struct {
	Kind BuiltinRuleKind

	// ExternalCall.
	Tag        string
	ReturnType types.ValueType

	// PrimitiveCast.
	CastKind string // one of the six cross-cast kinds

	// ConstIntRule (e.g. len() on a compile-time-known-length tuple).
	ConstValue int64

	// FoldExternalCall.
	FoldTag string

	// ClassMagicRule.
	CandidateDunders []string
	ExpectedReturn   *types.ValueType
}

// castKindFor returns the cross-cast kind name for a (from, to) numeric
// pair, or "" if not one of the six supported cross-casts.
func castKindFor(from, to types.Kind) string {
	switch {
	case from == types.Int && to == types.Float:
		return "IntToFloat"
	case from == types.Float && to == types.Int:
		return "FloatToInt"
	case from == types.Int && to == types.Bool:
		return "IntToBool"
	case from == types.Bool && to == types.Int:
		return "BoolToInt"
	case from == types.Float && to == types.Bool:
		return "FloatToBool"
	case from == types.Bool && to == types.Float:
		return "BoolToFloat"
	}
	return ""
}

// LookupConversion resolves `int(x)`, `float(x)`, `bool(x)` given the
// argument's ValueType.
func LookupConversion(target types.Kind, arg types.ValueType) *BuiltinRule {
	if arg.Kind() == target {
		return &BuiltinRule{Kind: Identity, ReturnType: arg}
	}
	if kind := castKindFor(arg.Kind(), target); kind != "" {
		rt := types.MustValueType(types.Type{Kind: target})
		return &BuiltinRule{Kind: PrimitiveCast, CastKind: kind, ReturnType: rt}
	}
	switch target {
	case types.Int:
		if arg.Kind() == types.Str {
			return &BuiltinRule{Kind: ExternalCall, Tag: "str_to_int", ReturnType: types.VInt()}
		}
	case types.Float:
		if arg.Kind() == types.Str {
			return &BuiltinRule{Kind: ExternalCall, Tag: "str_to_float", ReturnType: types.VFloat()}
		}
	case types.Bool:
		// Any reference/numeric type through the truthiness rule.
		return &BuiltinRule{Kind: ExternalCall, Tag: "truthy_" + typeTagFragment(arg), ReturnType: types.VBool()}
	}
	return nil
}

func typeTagFragment(v types.ValueType) string {
	return types.NormalizeTypeName(v)
}

// LookupAbs resolves abs(x).
func LookupAbs(arg types.ValueType) *BuiltinRule {
	switch arg.Kind() {
	case types.Int:
		return &BuiltinRule{Kind: ExternalCall, Tag: "abs_Int", ReturnType: types.VInt()}
	case types.Float:
		return &BuiltinRule{Kind: ExternalCall, Tag: "abs_Float", ReturnType: types.VFloat()}
	}
	return nil
}

// LookupPow resolves pow(x, y).
func LookupPow(x, y types.ValueType) *BuiltinRule {
	if x.Kind() == types.Int && y.Kind() == types.Int {
		return &BuiltinRule{Kind: ExternalCall, Tag: "pow_Int", ReturnType: types.VInt()}
	}
	if x.IsNumeric() && y.IsNumeric() {
		return &BuiltinRule{Kind: ExternalCall, Tag: "pow_Float", ReturnType: types.VFloat()}
	}
	return nil
}

// LookupRound resolves round(x).
func LookupRound(arg types.ValueType) *BuiltinRule {
	if arg.Kind() == types.Float {
		return &BuiltinRule{Kind: ExternalCall, Tag: "round_Float", ReturnType: types.VInt()}
	}
	if arg.Kind() == types.Int {
		return &BuiltinRule{Kind: Identity, ReturnType: arg}
	}
	return nil
}

// LookupMinMax resolves min(...)/max(...) over same-typed numeric/str args
// via a left-fold comparison, or a class's __lt__.
func LookupMinMax(elemTy types.ValueType) *BuiltinRule {
	switch elemTy.Kind() {
	case types.Int, types.Float, types.Str:
		return &BuiltinRule{Kind: FoldExternalCall, FoldTag: "lt_" + typeTagFragment(elemTy), ReturnType: elemTy}
	case types.Class:
		rt := elemTy
		return &BuiltinRule{Kind: ClassMagicRule, CandidateDunders: []string{"__lt__"}, ExpectedReturn: &rt}
	}
	return nil
}

// LookupSum resolves sum(iter, start): left-fold of the add rule across
// elements, seeded with start.
func LookupSum(elemTy, startTy types.ValueType) *BuiltinRule {
	rule := LookupBinOp(Add, startTy, elemTy)
	if rule == nil {
		return nil
	}
	return &BuiltinRule{Kind: FoldExternalCall, FoldTag: "add", ReturnType: rule.ResultType}
}

// LookupStr/LookupRepr dispatch composite types through synthesized code,
// primitives through a direct ExternalCall, and classes through their
// mandatory __str__/__repr__.
func LookupStrOrRepr(arg types.ValueType, wantRepr bool) *BuiltinRule {
	switch arg.Kind() {
	case types.Int, types.Float, types.Bool, types.Str:
		tag := "int_to_str"
		switch arg.Kind() {
		case types.Float:
			tag = "float_to_str"
		case types.Bool:
			tag = "bool_to_str"
		case types.Str:
			return &BuiltinRule{Kind: Identity, ReturnType: types.VStr()}
		}
		return &BuiltinRule{Kind: ExternalCall, Tag: tag, ReturnType: types.VStr()}
	case types.Class:
		method := "__str__"
		if wantRepr {
			method = "__repr__"
		}
		rt := types.VStr()
		return &BuiltinRule{Kind: ClassMagicRule, CandidateDunders: []string{method}, ExpectedReturn: &rt}
	case types.List, types.Tuple:
		kind := StrAuto
		if wantRepr {
			kind = ReprAuto
		}
		return &BuiltinRule{Kind: kind, ReturnType: types.VStr()}
	}
	return nil
}
