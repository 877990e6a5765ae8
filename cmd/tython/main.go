// Command tython is the thin CLI driver wiring the stub JSON front-end
// (frontend.go) to the Lowering core and reporting diagnostics through the
// colorized formatter (the CLI entry point and file-system
// driver are external collaborators; this command never contains
// lowering logic itself).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/cla7aye15I4nd/Tython-sub001/internal/diag"
	"github.com/cla7aye15I4nd/Tython-sub001/internal/lowering"
)

var (
	Version = "dev"

	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("tython %s\n", bold(Version))
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	switch command := flag.Arg(0); command {
	case "lower":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			fmt.Println("Usage: tython lower <file.ast.json>")
			os.Exit(1)
		}
		lowerFile(flag.Arg(1))
	case "repl":
		newREPL().start(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("tython - Lowering core CLI"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tython <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <file.ast.json>   Lower a JSON-encoded AST document to TIR and print it\n", cyan("lower"))
	fmt.Printf("  %s                  Start an interactive line-at-a-time lowering session\n", cyan("repl"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version   Print version information")
	fmt.Println("  --help      Show this help message")
	fmt.Println()
	fmt.Println("The real surface-syntax parser is out of scope for this repository")
	fmt.Println("; `lower` accepts its node tree pre-serialized as JSON in")
	fmt.Println("the ast.Node wire schema documented in frontend.go.")
}

func lowerFile(filename string) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read file '%s': %v\n", red("Error"), filename, err)
		os.Exit(1)
	}

	body, err := parseModuleAST(filename, raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	modulePath := modulePathFromFilename(filename)
	l := lowering.New(modulePath)

	module, err := l.LowerModule(body)
	if err != nil {
		if rep, ok := diag.AsReport(err); ok {
			fmt.Fprint(os.Stderr, diag.Format(rep))
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(module, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: encoding TIR: %v\n", red("Error"), err)
		os.Exit(1)
	}
	fmt.Println(string(out))
	fmt.Fprintf(os.Stderr, "%s lowered %s\n", green("✓"), filename)
}

func modulePathFromFilename(filename string) string {
	base := filename
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' {
			base = base[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}
