// Package diag is the centralized diagnostic-reporting layer for the
// Lowering core: a typed Report plus a Go-error wrapper around it.
package diag

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/ast"
)

// Category is one of the five closed error categories names.
type Category string

const (
	TypeError      Category = "TypeError"
	NameError      Category = "NameError"
	SyntaxError    Category = "SyntaxError"
	ValueError     Category = "ValueError"
	AttributeError Category = "AttributeError"
)

// Report is the canonical structured diagnostic. Every lowering helper
// returns either a TIR fragment or a *Report; lowering aborts on the first
// one produced.
type Report struct {
	Schema       string         `json:"schema"`
	Category     Category       `json:"category"`
	Message      string         `json:"message"`
	File         string         `json:"file"`
	Line         int            `json:"line"`
	Column       int            `json:"column,omitempty"`
	SourceLine   string         `json:"source_line,omitempty"`
	FunctionName string         `json:"function_name,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
}

// ReportError wraps a Report as a Go error, so it survives errors.As
// unwrapping.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return fmt.Sprintf("%s: %s", e.Rep.Category, e.Rep.Message)
}

// AsReport extracts a *Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap wraps a Report as an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// New builds a Report for the given position and enclosing function name.
func New(cat Category, pos ast.Pos, functionName, format string, args ...any) error {
	return Wrap(&Report{
		Schema:       "tython.diag/v1",
		Category:     cat,
		Message:      fmt.Sprintf(format, args...),
		File:         pos.File,
		Line:         pos.Line,
		Column:       pos.Column,
		FunctionName: functionName,
	})
}

// ToJSON renders a Report as deterministic JSON: struct fields in
// declaration order, and the keys of Data sorted.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ICE is an internal-consistency-failure panic. Invariant violations
// are ICE panics and must never reach the backend
// as a *Report — they indicate a bug in the Lowering core itself, not a
// user-facing error.
type ICE struct {
	Msg string
}

func (i ICE) Error() string { return "internal compiler error: " + i.Msg }

// Panic raises an ICE. Callers use this for invariant violations instead
// of returning an error.
func Panic(format string, args ...any) {
	panic(ICE{Msg: fmt.Sprintf(format, args...)})
}
