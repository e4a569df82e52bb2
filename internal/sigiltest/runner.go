package sigiltest

import (
	"fmt"
	"path"
	"testing"

	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/lexer"
	"github.com/sigil-lang/sigil/internal/modgraph"
	"github.com/sigil-lang/sigil/internal/parser"
	"github.com/sigil-lang/sigil/internal/project"
	"github.com/sigil-lang/sigil/internal/types"
	"github.com/sigil-lang/sigil/internal/validator"
)

// Run loads the fixture at path and drives it through the phase it
// names, failing t with a descriptive message if the observed outcome
// doesn't match what the fixture declared.
func Run(t *testing.T, path string) {
	t.Helper()
	f, err := Load(path)
	if err != nil {
		t.Fatalf("%v", err)
	}
	RunFixture(t, f)
}

// RunFixture drives an already-loaded fixture. Exported separately from
// Run so a caller that wants to glob testdata/boundary itself (e.g. to
// name each subtest after the fixture's own Name rather than its file
// path) can Load once and dispatch here.
func RunFixture(t *testing.T, f *Fixture) {
	t.Helper()

	var codes []string
	var line, column int
	var haveSpan bool

	switch f.Phase {
	case PhaseLex:
		codes, line, column, haveSpan = runLex(t, f)
	case PhaseCanonical:
		codes = runCanonical(t, f)
	case PhaseTypecheck:
		codes, line, column, haveSpan = runTypecheck(t, f)
	case PhaseModgraph:
		codes, line, column, haveSpan = runModgraph(t, f)
	default:
		t.Fatalf("sigiltest: %s: unknown phase %q", f.Name, f.Phase)
	}

	if f.WantOK {
		if len(codes) != 0 {
			t.Errorf("%s: got diagnostics %v, want none", f.Name, codes)
		}
		return
	}

	if f.WantCode == "" {
		t.Fatalf("sigiltest: %s: want_code is required unless want_ok is set", f.Name)
	}
	if !hasCode(codes, f.WantCode) {
		t.Errorf("%s: got codes %v, want %s", f.Name, codes, f.WantCode)
		return
	}
	if f.WantLine != 0 && haveSpan && line != f.WantLine {
		t.Errorf("%s: got line %d, want %d", f.Name, line, f.WantLine)
	}
	if f.WantColumn != 0 && haveSpan && column != f.WantColumn {
		t.Errorf("%s: got column %d, want %d", f.Name, column, f.WantColumn)
	}
}

func hasCode(codes []string, want string) bool {
	for _, c := range codes {
		if c == want {
			return true
		}
	}
	return false
}

func runLex(t *testing.T, f *Fixture) (codes []string, line, column int, haveSpan bool) {
	t.Helper()
	src := f.Files[f.Entry]
	_, err := lexer.Tokenize(src, f.Entry)
	if err == nil {
		return nil, 0, 0, false
	}
	d, ok := diag.AsDiagnostic(err)
	if !ok {
		t.Fatalf("%s: error %v is not a diagnostic", f.Name, err)
	}
	return []string{d.Code}, d.Span.Start.Line, d.Span.Start.Column, true
}

func runCanonical(t *testing.T, f *Fixture) []string {
	t.Helper()
	src := f.Files[f.Entry]
	prog, err := parser.Parse(src, f.Entry)
	if err != nil {
		t.Fatalf("%s: Parse() error = %v", f.Name, err)
	}
	return validator.ValidateCanonical(prog, f.Entry, src).Codes()
}

func runTypecheck(t *testing.T, f *Fixture) (codes []string, line, column int, haveSpan bool) {
	t.Helper()
	src := f.Files[f.Entry]
	prog, err := parser.Parse(src, f.Entry)
	if err != nil {
		t.Fatalf("%s: Parse() error = %v", f.Name, err)
	}
	_, err = types.TypeCheck(prog, types.Options{SourceFile: f.Entry})
	if err == nil {
		return nil, 0, 0, false
	}
	d, ok := diag.AsDiagnostic(err)
	if !ok {
		t.Fatalf("%s: error %v is not a diagnostic", f.Name, err)
	}
	return []string{d.Code}, d.Span.Start.Line, d.Span.Start.Column, true
}

func runModgraph(t *testing.T, f *Fixture) (codes []string, line, column int, haveSpan bool) {
	t.Helper()
	projectRoot := f.ProjectRoot
	if projectRoot == "" {
		projectRoot = "/proj"
	}
	cfg := &project.Config{Root: projectRoot, Layout: project.Layout{Src: "src", Tests: "tests", Out: ".local"}}

	opts := modgraph.Options{
		ReadFile: func(p string) ([]byte, error) {
			src, ok := f.Files[p]
			if !ok {
				return nil, fmt.Errorf("no such file: %s", p)
			}
			return []byte(src), nil
		},
		Canonicalize: func(p string) (string, error) {
			return path.Clean(p), nil
		},
		FindProject: func(startPath string) (*project.Config, bool) {
			dir := path.Dir(startPath)
			for {
				if dir == projectRoot {
					return cfg, true
				}
				parent := path.Dir(dir)
				if parent == dir {
					return nil, false
				}
				dir = parent
			}
		},
		FindStdlibRoot: func(startPath string) (string, bool) {
			return f.StdlibRoot, f.HasStdlib
		},
	}

	_, err := modgraph.Build(f.Entry, opts)
	if err == nil {
		return nil, 0, 0, false
	}
	d, ok := diag.AsDiagnostic(err)
	if !ok {
		t.Fatalf("%s: error %v is not a diagnostic", f.Name, err)
	}
	return []string{d.Code}, d.Span.Start.Line, d.Span.Start.Column, true
}
