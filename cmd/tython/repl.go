package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/diag"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/lowering"
)

// replCommands lists the ":"-prefixed commands the completer and
// handleCommand both recognize.
var replCommands = []string{":help", ":quit", ":reset", ":history"}

// repl is a line-oriented session for lowering JSON-AST module bodies one
// at a time. Each line is either a ":" command or a JSON array of
// ast.Node-shaped statements (the same wire schema lowerFile reads from a
// whole file); the REPL wraps it in a synthetic module and prints the
// resulting TIR. Each line is lowered by a fresh Lowering as its own
// one-off module: only the scratch module path carries across lines, and
// definitions from earlier lines are not visible to later ones.
type repl struct {
	modulePath string
	history    []string
}

func newREPL() *repl {
	return &repl{modulePath: "repl"}
}

// start runs the read-eval-print loop against line-edited stdin, mirroring
// the history and multiline affordances of an interactive shell: up/down
// arrows recall prior snippets and history survives across sessions via a
// temp file.
func (r *repl) start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".tython_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(partial string) (c []string) {
		if strings.HasPrefix(partial, ":") {
			for _, cmd := range replCommands {
				if strings.HasPrefix(cmd, partial) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	fmt.Fprintf(out, "%s %s\n", bold("tython"), bold(Version))
	fmt.Fprintln(out, "Type :help for help, :quit to exit")
	fmt.Fprintln(out)

	for {
		input, err := line.Prompt(fmt.Sprintf("tython[%s]> ", r.modulePath))
		if err == io.EOF {
			fmt.Fprintln(out, green("Goodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if r.handleCommand(input, out) {
				break
			}
			continue
		}

		r.lowerLine(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// handleCommand processes a ":"-prefixed directive; it returns true when
// the session should end.
func (r *repl) handleCommand(input string, out io.Writer) bool {
	switch {
	case input == ":quit" || input == ":q":
		fmt.Fprintln(out, green("Goodbye!"))
		return true
	case input == ":help":
		fmt.Fprintln(out, "Commands: :help :reset :history :quit")
		fmt.Fprintln(out, "Any other line is a JSON array of statement nodes to lower.")
	case input == ":reset":
		r.history = nil
		fmt.Fprintln(out, dim("history cleared"))
	case input == ":history":
		for i, h := range r.history {
			fmt.Fprintf(out, "%3d  %s\n", i+1, h)
		}
	default:
		fmt.Fprintf(out, "%s: unknown command '%s'\n", red("Error"), input)
	}
	return false
}

// lowerLine parses a single line as a JSON array of statement nodes,
// lowers it as a fresh one-off module, and prints the resulting TIR or a
// formatted diagnostic.
func (r *repl) lowerLine(input string, out io.Writer) {
	body, err := parseModuleAST(r.modulePath, []byte(input))
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
		return
	}

	l := lowering.New(r.modulePath)
	module, err := l.LowerModule(body)
	if err != nil {
		if rep, ok := diag.AsReport(err); ok {
			fmt.Fprint(out, diag.Format(rep))
			return
		}
		fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
		return
	}

	encoded, err := json.MarshalIndent(module, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "%s: encoding TIR: %v\n", red("Error"), err)
		return
	}
	fmt.Fprintln(out, string(encoded))
}

var dim = color.New(color.Faint).SprintFunc()
