// Package sigiltest runs the compiler's boundary scenarios — the
// handful of edge cases spec.md calls out by name (a rejected tab, a
// duplicate declaration, a library file that declares main, an import
// cycle, a const whose annotation disagrees with its value, recursion
// that never destructures its argument) — from declarative YAML
// fixtures rather than one hand-written Go test per case. It is
// grounded on the teacher's testutil/golden.go in spirit (data-driven
// fixtures checked into testdata/, with a golden-style single point of
// truth) but trades JSON snapshot comparison for a small expectation
// schema, since a boundary scenario cares about one diagnostic code
// and span, not a whole serialized value.
package sigiltest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Phase names which compiler stage a Fixture exercises. Each phase
// drives a different entry point in runner.go.
type Phase string

const (
	PhaseLex       Phase = "lex"
	PhaseCanonical Phase = "canonical"
	PhaseModgraph  Phase = "modgraph"
	PhaseTypecheck Phase = "typecheck"
)

// Fixture is one boundary scenario loaded from a testdata/boundary/*.yaml
// file. Files holds every source file the scenario needs, keyed by the
// path the scenario's phase expects (a bare filename for lex/canonical/
// typecheck, an absolute in-project path for modgraph). Entry names
// which of Files is the one passed to the phase's entry point.
type Fixture struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Phase       Phase             `yaml:"phase"`
	Files       map[string]string `yaml:"files"`
	Entry       string            `yaml:"entry"`

	WantCode   string `yaml:"want_code"`
	WantLine   int    `yaml:"want_line,omitempty"`
	WantColumn int    `yaml:"want_column,omitempty"`
	WantOK     bool   `yaml:"want_ok,omitempty"`

	// ProjectRoot, StdlibRoot and HasStdlib only matter to the
	// modgraph phase, which resolves imports against a project layout
	// rather than a bare file.
	ProjectRoot string `yaml:"project_root,omitempty"`
	StdlibRoot  string `yaml:"stdlib_root,omitempty"`
	HasStdlib   bool   `yaml:"has_stdlib,omitempty"`
}

// Load reads and parses one fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sigiltest: reading %s: %w", path, err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("sigiltest: parsing %s: %w", path, err)
	}
	if f.Entry == "" {
		return nil, fmt.Errorf("sigiltest: %s: entry is required", path)
	}
	if _, ok := f.Files[f.Entry]; !ok {
		return nil, fmt.Errorf("sigiltest: %s: entry %q not present in files", path, f.Entry)
	}
	return &f, nil
}
