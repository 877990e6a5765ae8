package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	fileLabel  = color.New(color.FgCyan).SprintFunc()
	caretColor = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// Format renders a Report as a category-colored banner, file:line:col, the
// offending source line (when available) with a caret under the column,
// and the enclosing function name.
func Format(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s\n", errorLabel(string(r.Category)), r.Message)
	fmt.Fprintf(&b, "  --> %s\n", fileLabel(fmt.Sprintf("%s:%d:%d", r.File, r.Line, r.Column)))

	if r.SourceLine != "" {
		fmt.Fprintf(&b, "   |\n")
		fmt.Fprintf(&b, "   | %s\n", r.SourceLine)
		if r.Column > 0 {
			pad := strings.Repeat(" ", r.Column-1)
			fmt.Fprintf(&b, "   | %s%s\n", pad, caretColor("^"))
		}
	}

	if r.FunctionName != "" {
		fmt.Fprintf(&b, "   = in function `%s`\n", r.FunctionName)
	}

	return b.String()
}
