package tir

import "github.com/cla7aye15I4nd/Tython-sub001/internal/types"

// StmtKind tags every TIR statement node.
type StmtKind int

const (
	KindLet StmtKind = iota
	KindReturn
	KindExprStmt
	KindIf
	KindWhile
	KindForRange
	KindForList
	KindForStr
	KindForBytes
	KindForByteArray
	KindForIter
	KindSetField
	KindListSet
	KindVoidCall
	KindTryCatch
	KindRaise
	KindBreak
	KindContinue
)

// ExceptClause is one `except T as name:` arm.
type ExceptClause struct {
	ExcTag int // 0 means "bare except" (catches Exception)
	Name   string
	Body   []Stmt
}

// Stmt is one TIR statement. Only the fields relevant to Kind are set.
type Stmt struct {
	Kind StmtKind

	// Let.
	Name string
	Ty   types.ValueType
	Expr *Expr

	// Return.
	Value *Expr

	// If / While.
	Cond *Expr
	Then []Stmt
	Else []Stmt

	// ForRange.
	LoopVar  string
	Start    *Expr
	Stop     *Expr
	Step     *Expr
	Body     []Stmt
	ElseBody []Stmt

	// ForList / ForStr / ForBytes / ForByteArray.
	LoopVarTy types.ValueType
	ListVar   string
	IndexVar  string
	LenVar    string

	// ForIter.
	Object       *Expr
	IterClassTy  types.ValueType
	NextMangled  string
	IterVar      string

	// SetField.
	SetObject     *Expr
	SetClassName  string
	SetFieldIndex int
	SetValue      *Expr

	// ListSet.
	ListTarget *Expr
	ListIndex  *Expr
	ListValue  *Expr

	// VoidCall.
	CallTarget CallTarget
	CallArgs   []Expr

	// TryCatch.
	TryBody    []Stmt
	Handlers   []ExceptClause
	TryElse    []Stmt
	Finally    []Stmt
	HasFinally bool

	// Raise.
	ExcTypeTag *int
	Message    *Expr
}

func Let(name string, ty types.ValueType, value *Expr) Stmt {
	return Stmt{Kind: KindLet, Name: name, Ty: ty, Expr: value}
}

func ReturnStmt(value *Expr) Stmt {
	return Stmt{Kind: KindReturn, Value: value}
}

func ExprStmt(e *Expr) Stmt {
	return Stmt{Kind: KindExprStmt, Expr: e}
}

func VoidCallStmt(target CallTarget, args []Expr) Stmt {
	return Stmt{Kind: KindVoidCall, CallTarget: target, CallArgs: args}
}

func BreakStmt() Stmt    { return Stmt{Kind: KindBreak} }
func ContinueStmt() Stmt { return Stmt{Kind: KindContinue} }
