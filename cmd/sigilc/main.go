// Command sigilc is the thin CLI collaborator that wires Sigil's
// compiler packages together: lex, parse, validate, resolve a module
// graph, and type-check. It is the only place in the module that
// prints anything, and it supplies the filesystem-backed collaborators
// (including internal/project's sigil.json reader) that the core
// packages take as arguments.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/source"
)

var (
	Version = "dev"

	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
		jsonFlag    = flag.Bool("json", false, "Print diagnostics as JSON instead of human-readable text")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("sigilc %s\n", bold(Version))
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	switch command := flag.Arg(0); command {
	case "check":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			fmt.Println("Usage: sigilc check <file.sigil>")
			os.Exit(1)
		}
		runCheck(flag.Arg(1), *jsonFlag)
	case "tokens":
		runTokensREPL()
	case "parse":
		runParseREPL()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("sigilc - the Sigil compiler front-end"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sigilc <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <file>   Lex, parse, validate, and type-check a file and its imports\n", cyan("check"))
	fmt.Printf("  %s            Tokenize one line at a time in an interactive REPL\n", cyan("tokens"))
	fmt.Printf("  %s             Parse one line at a time in an interactive REPL\n", cyan("parse"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version   Print version information")
	fmt.Println("  --help      Show this help message")
	fmt.Println("  --json      Print diagnostics as JSON instead of human-readable text")
}

// printDiagnostic renders one diagnostic to stderr in the requested format.
func printDiagnostic(d *diag.Diagnostic, asJSON bool) {
	if asJSON {
		out, err := d.JSON(true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: marshaling diagnostic: %v\n", red("Error"), err)
			return
		}
		fmt.Fprintln(os.Stderr, out)
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s %s\n", cyan(source.FormatLocation(d.File, d.Span.Start)), red(d.Code), bold(d.Message))
}
