package ast

// Builder helpers for assembling Map node trees without a real parser.
// Each function returns a concrete, fully-populated Map for one AST node
// kind, so tests and the JSON front-end can construct trees declaratively
// while still satisfying the generic Node contract.

func Name(pos Pos, id string) *Map {
	return NewNode("Name", pos).SetStr("id", id)
}

func ConstInt(pos Pos, v int64) *Map {
	return NewNode("Constant", pos).SetStr("kind", "int").SetInt("value", v)
}

func ConstFloat(pos Pos, v float64) *Map {
	return NewNode("Constant", pos).SetStr("kind", "float").SetFloat("value", v)
}

func ConstBool(pos Pos, v bool) *Map {
	return NewNode("Constant", pos).SetStr("kind", "bool").SetBool("value", v)
}

func ConstStr(pos Pos, v string) *Map {
	return NewNode("Constant", pos).SetStr("kind", "str").SetStr("value", v)
}

func ConstNone(pos Pos) *Map {
	return NewNode("Constant", pos).SetStr("kind", "none")
}

func BinOp(pos Pos, op string, left, right Node) *Map {
	return NewNode("BinOp", pos).SetStr("op", op).SetAttr("left", left).SetAttr("right", right)
}

func UnaryOp(pos Pos, op string, operand Node) *Map {
	return NewNode("UnaryOp", pos).SetStr("op", op).SetAttr("operand", operand)
}

func BoolOp(pos Pos, op string, values ...Node) *Map {
	return NewNode("BoolOp", pos).SetStr("op", op).SetList("values", values)
}

func Compare(pos Pos, left Node, ops []string, comparators []Node) *Map {
	n := NewNode("Compare", pos).SetAttr("left", left).SetList("comparators", comparators)
	for i, op := range ops {
		n.SetStr(opKey(i), op)
	}
	n.SetInt("nops", int64(len(ops)))
	return n
}

func opKey(i int) string {
	return "op" + string(rune('0'+i))
}

func CompareOps(n Node) []string {
	count := int(n.GetInt("nops"))
	out := make([]string, count)
	for i := 0; i < count; i++ {
		out[i] = n.GetString(opKey(i))
	}
	return out
}

func Attribute(pos Pos, value Node, attr string) *Map {
	return NewNode("Attribute", pos).SetAttr("value", value).SetStr("attr", attr)
}

func Call(pos Pos, fn Node, args []Node, kwNames []string, kwValues []Node) *Map {
	n := NewNode("Call", pos).SetAttr("func", fn).SetList("args", args)
	n.SetList("kwvalues", kwValues)
	n.SetInt("nkw", int64(len(kwNames)))
	for i, name := range kwNames {
		n.SetStr(kwKey(i), name)
	}
	return n
}

func kwKey(i int) string { return "kw" + string(rune('0'+i)) }

func CallKeywords(n Node) []string {
	count := int(n.GetInt("nkw"))
	out := make([]string, count)
	for i := 0; i < count; i++ {
		out[i] = n.GetString(kwKey(i))
	}
	return out
}

func Subscript(pos Pos, value, slice Node) *Map {
	return NewNode("Subscript", pos).SetAttr("value", value).SetAttr("slice", slice)
}

func Slice(pos Pos, lower, upper, step Node) *Map {
	n := NewNode("Slice", pos)
	if lower != nil {
		n.SetAttr("lower", lower)
	}
	if upper != nil {
		n.SetAttr("upper", upper)
	}
	if step != nil {
		n.SetAttr("step", step)
	}
	return n
}

func ListLit(pos Pos, elts ...Node) *Map {
	return NewNode("List", pos).SetList("elts", elts)
}

func TupleLit(pos Pos, elts ...Node) *Map {
	return NewNode("Tuple", pos).SetList("elts", elts)
}

func DictLit(pos Pos, keys, values []Node) *Map {
	return NewNode("Dict", pos).SetList("keys", keys).SetList("values", values)
}

func SetLit(pos Pos, elts ...Node) *Map {
	return NewNode("Set", pos).SetList("elts", elts)
}

func Comprehension(target, iter Node, ifs []Node) *Map {
	n := NewNode("comprehension", Pos{}).SetAttr("target", target).SetAttr("iter", iter)
	n.SetList("ifs", ifs)
	return n
}

func ListComp(pos Pos, elt Node, generators []Node) *Map {
	return NewNode("ListComp", pos).SetAttr("elt", elt).SetList("generators", generators)
}

func GeneratorExp(pos Pos, elt Node, generators []Node) *Map {
	return NewNode("GeneratorExp", pos).SetAttr("elt", elt).SetList("generators", generators)
}

func JoinedStr(pos Pos, values ...Node) *Map {
	return NewNode("JoinedStr", pos).SetList("values", values)
}

func FormattedValue(pos Pos, value Node, conversion string) *Map {
	return NewNode("FormattedValue", pos).SetAttr("value", value).SetStr("conversion", conversion)
}

// Statements

func Assign(pos Pos, target, value Node) *Map {
	return NewNode("Assign", pos).SetAttr("target", target).SetAttr("value", value)
}

func AnnAssign(pos Pos, target Node, annotation string, value Node) *Map {
	n := NewNode("AnnAssign", pos).SetAttr("target", target).SetStr("annotation", annotation)
	if value != nil {
		n.SetAttr("value", value)
	}
	return n
}

func AugAssign(pos Pos, target Node, op string, value Node) *Map {
	return NewNode("AugAssign", pos).SetAttr("target", target).SetStr("op", op).SetAttr("value", value)
}

func ExprStmt(pos Pos, value Node) *Map {
	return NewNode("Expr", pos).SetAttr("value", value)
}

func Return(pos Pos, value Node) *Map {
	n := NewNode("Return", pos)
	if value != nil {
		n.SetAttr("value", value)
	}
	return n
}

func If(pos Pos, test Node, body, orelse []Node) *Map {
	return NewNode("If", pos).SetAttr("test", test).SetList("body", body).SetList("orelse", orelse)
}

func While(pos Pos, test Node, body, orelse []Node) *Map {
	return NewNode("While", pos).SetAttr("test", test).SetList("body", body).SetList("orelse", orelse)
}

func For(pos Pos, target, iter Node, body, orelse []Node) *Map {
	return NewNode("For", pos).SetAttr("target", target).SetAttr("iter", iter).
		SetList("body", body).SetList("orelse", orelse)
}

func Break(pos Pos) *Map    { return NewNode("Break", pos) }
func Continue(pos Pos) *Map { return NewNode("Continue", pos) }

func Assert(pos Pos, test Node, msg Node) *Map {
	n := NewNode("Assert", pos).SetAttr("test", test)
	if msg != nil {
		n.SetAttr("msg", msg)
	}
	return n
}

func Raise(pos Pos, exc Node, cause Node) *Map {
	n := NewNode("Raise", pos)
	if exc != nil {
		n.SetAttr("exc", exc)
	}
	if cause != nil {
		n.SetAttr("cause", cause)
	}
	return n
}

func ExceptHandler(pos Pos, typ string, name string, body []Node) *Map {
	return NewNode("ExceptHandler", pos).SetStr("type", typ).SetStr("name", name).SetList("body", body)
}

func Try(pos Pos, body []Node, handlers []Node, orelse []Node, finalbody []Node) *Map {
	return NewNode("Try", pos).SetList("body", body).SetList("handlers", handlers).
		SetList("orelse", orelse).SetList("finalbody", finalbody)
}

func FunctionDef(pos Pos, name string, paramNames []string, paramTypes, paramDefaults []Node, returns string, body []Node) *Map {
	n := NewNode("FunctionDef", pos).SetStr("name", name).SetList("body", body).SetStr("returns", returns)
	n.SetInt("nparams", int64(len(paramNames)))
	for i, pn := range paramNames {
		n.SetStr(paramKey(i), pn)
		if i < len(paramTypes) && paramTypes[i] != nil {
			n.SetAttr(paramTypeKey(i), paramTypes[i])
		}
		if i < len(paramDefaults) && paramDefaults[i] != nil {
			n.SetAttr(paramDefaultKey(i), paramDefaults[i])
		}
	}
	return n
}

func paramKey(i int) string        { return "param" + itoa(i) }
func paramTypeKey(i int) string    { return "ptype" + itoa(i) }
func paramDefaultKey(i int) string { return "pdefault" + itoa(i) }

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

// FuncDefParamCount / FuncDefParamName / FuncDefParamType / FuncDefParamDefault
// read back the positional parameter encoding written by FunctionDef.
func FuncDefParamCount(n Node) int         { return int(n.GetInt("nparams")) }
func FuncDefParamName(n Node, i int) string { return n.GetString(paramKey(i)) }
func FuncDefParamType(n Node, i int) Node   { return n.GetAttr(paramTypeKey(i)) }
func FuncDefParamDefault(n Node, i int) Node {
	return n.GetAttr(paramDefaultKey(i))
}

func ClassDef(pos Pos, name string, bases []Node, body []Node) *Map {
	return NewNode("ClassDef", pos).SetStr("name", name).SetList("bases", bases).SetList("body", body)
}

func Import(pos Pos, path string) *Map {
	return NewNode("Import", pos).SetStr("path", path)
}

func ImportFrom(pos Pos, path string, symbols []string) *Map {
	n := NewNode("ImportFrom", pos).SetStr("path", path)
	n.SetInt("nsym", int64(len(symbols)))
	for i, s := range symbols {
		n.SetStr("sym"+itoa(i), s)
	}
	return n
}

func ImportFromSymbols(n Node) []string {
	count := int(n.GetInt("nsym"))
	out := make([]string, count)
	for i := range out {
		out[i] = n.GetString("sym" + itoa(i))
	}
	return out
}
