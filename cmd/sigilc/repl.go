package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterh/liner"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/lexer"
	"github.com/sigil-lang/sigil/internal/parser"
)

// runTokensREPL reads one line at a time and prints its token stream,
// a development aid for exploring the lexer's grammar interactively
// rather than a pipeline stage.
func runTokensREPL() {
	runLineREPL("tokens", func(line string) {
		tokens, err := lexer.Tokenize(line, "<repl>")
		if err != nil {
			reportREPLError(err)
			return
		}
		for _, tok := range tokens {
			fmt.Println(tok.String())
		}
	})
}

// runParseREPL reads one line at a time and prints its parsed AST.
func runParseREPL() {
	runLineREPL("parse", func(line string) {
		prog, err := parser.Parse(line, "<repl>")
		if err != nil {
			reportREPLError(err)
			return
		}
		fmt.Println(ast.Print(prog))
	})
}

func reportREPLError(err error) {
	if d, ok := diag.AsDiagnostic(err); ok {
		printDiagnostic(d, false)
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
}

// runLineREPL drives the shared liner.Liner read loop: history file,
// multi-line mode off (each line is a complete, independent snippet),
// ":quit"/":q" to exit, handing every other line to handle.
func runLineREPL(name string, handle func(line string)) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyFile := filepath.Join(os.TempDir(), ".sigilc_"+name+"_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("%s sigilc %s REPL — one line in, one result out. :quit to exit.\n", cyan("→"), name)

	prompt := name + "> "
	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			fmt.Println()
			break
		}
		if input == ":quit" || input == ":q" {
			break
		}
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		handle(input)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}
