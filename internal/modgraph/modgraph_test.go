package modgraph

import (
	"fmt"
	"path"
	"testing"

	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/project"
)

// fixture builds an in-memory Options backed by plain maps, so tests
// never touch the real filesystem.
type fixture struct {
	files      map[string]string
	projects   map[string]*project.Config // dir -> project, keyed by exact dir
	stdlibRoot string
	hasStdlib  bool
}

func (f *fixture) options() Options {
	return Options{
		ReadFile: func(p string) ([]byte, error) {
			src, ok := f.files[p]
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
				if cfg, ok := f.projects[dir]; ok {
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
			return f.stdlibRoot, f.hasStdlib
		},
	}
}

var testProject = &project.Config{Root: "/proj", Layout: project.Layout{Src: "src", Tests: "tests", Out: ".local"}}

func TestBuildSingleFileGraph(t *testing.T) {
	f := &fixture{
		files:    map[string]string{"/proj/src/app.sigil": "λmain()→𝕌=()\n"},
		projects: map[string]*project.Config{"/proj": testProject},
	}

	graph, err := Build("/proj/src/app.sigil", f.options())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(graph.Modules) != 1 {
		t.Fatalf("Modules = %v, want 1 entry", graph.Modules)
	}
	if len(graph.TopoOrder) != 1 {
		t.Fatalf("TopoOrder = %v, want 1 entry", graph.TopoOrder)
	}
}

func TestBuildResolvesSrcImportInTopoOrder(t *testing.T) {
	f := &fixture{
		files: map[string]string{
			"/proj/src/app.sigil":      "i src⋅util\nλmain()→𝕌=()\n",
			"/proj/src/util.lib.sigil": "λhelper()→ℤ=0\n",
		},
		projects: map[string]*project.Config{"/proj": testProject},
	}

	graph, err := Build("/proj/src/app.sigil", f.options())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(graph.TopoOrder) != 2 {
		t.Fatalf("TopoOrder = %v, want 2 entries", graph.TopoOrder)
	}
	if graph.TopoOrder[0] != "src⋅util" {
		t.Errorf("TopoOrder[0] = %q, want %q (dependency before dependent)", graph.TopoOrder[0], "src⋅util")
	}
	if graph.TopoOrder[1] != "src⋅app" {
		t.Errorf("TopoOrder[1] = %q, want %q", graph.TopoOrder[1], "src⋅app")
	}
}

func TestBuildResolvesStdlibImport(t *testing.T) {
	f := &fixture{
		files: map[string]string{
			"/proj/src/app.sigil":     "i stdlib⋅list\nλmain()→𝕌=()\n",
			"/lang/stdlib/list.lib.sigil": "λempty()→𝕌=()\n",
		},
		projects:   map[string]*project.Config{"/proj": testProject},
		stdlibRoot: "/lang",
		hasStdlib:  true,
	}

	graph, err := Build("/proj/src/app.sigil", f.options())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, ok := graph.Modules["stdlib⋅list"]; !ok {
		t.Errorf("Modules = %v, want stdlib⋅list present", graph.Modules)
	}
}

func TestBuildDetectsImportCycle(t *testing.T) {
	f := &fixture{
		files: map[string]string{
			"/proj/src/a.lib.sigil": "i src⋅b\nλf()→ℤ=0\n",
			"/proj/src/b.lib.sigil": "i src⋅a\nλg()→ℤ=0\n",
		},
		projects: map[string]*project.Config{"/proj": testProject},
	}

	_, err := Build("/proj/src/a.lib.sigil", f.options())
	if err == nil {
		t.Fatalf("Build() succeeded, want SIGIL-CLI-IMPORT-CYCLE")
	}
	d, ok := diag.AsDiagnostic(err)
	if !ok {
		t.Fatalf("error %v is not a diagnostic", err)
	}
	if d.Code != diag.CliImportCycle {
		t.Errorf("code = %s, want %s", d.Code, diag.CliImportCycle)
	}
}

func TestBuildImportNotFound(t *testing.T) {
	f := &fixture{
		files:    map[string]string{"/proj/src/app.sigil": "i src⋅missing\nλmain()→𝕌=()\n"},
		projects: map[string]*project.Config{"/proj": testProject},
	}

	_, err := Build("/proj/src/app.sigil", f.options())
	if err == nil {
		t.Fatalf("Build() succeeded, want SIGIL-CLI-IMPORT-NOT-FOUND")
	}
	d, ok := diag.AsDiagnostic(err)
	if !ok {
		t.Fatalf("error %v is not a diagnostic", err)
	}
	if d.Code != diag.CliImportNotFound {
		t.Errorf("code = %s, want %s", d.Code, diag.CliImportNotFound)
	}
}

func TestBuildSrcImportWithoutProjectRequiresRoot(t *testing.T) {
	f := &fixture{files: map[string]string{
		"/loose/app.sigil": "i src⋅util\nλmain()→𝕌=()\n",
	}}

	_, err := Build("/loose/app.sigil", f.options())
	if err == nil {
		t.Fatalf("Build() succeeded, want SIGIL-CLI-PROJECT-ROOT-REQUIRED")
	}
	d, ok := diag.AsDiagnostic(err)
	if !ok {
		t.Fatalf("error %v is not a diagnostic", err)
	}
	if d.Code != diag.CliProjectRootRequired {
		t.Errorf("code = %s, want %s", d.Code, diag.CliProjectRootRequired)
	}
}

func TestBuildAlreadyLoadedModuleIsNotReVisited(t *testing.T) {
	f := &fixture{
		files: map[string]string{
			"/proj/src/app.sigil":        "i src⋅a\ni src⋅b\nλmain()→𝕌=()\n",
			"/proj/src/a.lib.sigil":      "i src⋅shared\nλf()→ℤ=0\n",
			"/proj/src/b.lib.sigil":      "i src⋅shared\nλg()→ℤ=0\n",
			"/proj/src/shared.lib.sigil": "λval()→ℤ=0\n",
		},
		projects: map[string]*project.Config{"/proj": testProject},
	}

	graph, err := Build("/proj/src/app.sigil", f.options())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(graph.TopoOrder) != 4 {
		t.Fatalf("TopoOrder = %v, want 4 entries (shared loaded once)", graph.TopoOrder)
	}
}
