package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/modgraph"
	"github.com/sigil-lang/sigil/internal/project"
	"github.com/sigil-lang/sigil/internal/types"
	"github.com/sigil-lang/sigil/internal/validator"
)

// runCheck lexes, parses, validates, and type-checks file plus every
// module it transitively imports, printing every diagnostic found. It
// exits 1 if any module fails any stage.
func runCheck(file string, asJSON bool) {
	abs, err := filepath.Abs(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: resolving %q: %v\n", red("Error"), file, err)
		os.Exit(1)
	}

	opts := modgraph.Options{
		ReadFile:       func(p string) ([]byte, error) { return os.ReadFile(p) },
		Canonicalize:   canonicalize,
		FindProject:    project.Load,
		FindStdlibRoot: findStdlibRoot,
	}

	graph, err := modgraph.Build(abs, opts)
	if err != nil {
		reportBuildFailure(err, asJSON)
		os.Exit(1)
	}

	failed := false
	for _, id := range graph.TopoOrder {
		mod := graph.Modules[id]

		for _, d := range validator.ValidateSurface(mod.AST) {
			printDiagnostic(d, asJSON)
			failed = true
		}
		for _, d := range validator.ValidateCanonical(mod.AST, mod.FilePath, mod.Source) {
			printDiagnostic(d, asJSON)
			failed = true
		}

		if _, err := types.TypeCheck(mod.AST, types.Options{SourceFile: mod.FilePath}); err != nil {
			if d, ok := diag.AsDiagnostic(err); ok {
				printDiagnostic(d, asJSON)
			} else {
				fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			}
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
	fmt.Printf("%s %s and %d imported module(s): no errors found\n", green("✓"), file, len(graph.TopoOrder)-1)
}

func reportBuildFailure(err error, asJSON bool) {
	if d, ok := diag.AsDiagnostic(err); ok {
		printDiagnostic(d, asJSON)
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
}

// canonicalize resolves path to its absolute, symlink-free form, the
// shape modgraph.Options.Canonicalize requires.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// findStdlibRoot walks upward from startPath looking for an ancestor
// directory that itself contains a stdlib/ subdirectory, matching
// spec §4.5's stdlib⋅ resolution rule.
func findStdlibRoot(startPath string) (string, bool) {
	dir := startPath
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, "stdlib")); err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
