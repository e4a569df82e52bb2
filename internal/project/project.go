// Package project locates and parses a Sigil project's sigil.json
// marker file: its presence both declares the project root and fixes
// the layout the CLI resolves src⋅ imports and writes output under.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const markerFile = "sigil.json"

// Layout is the optional directory-layout object inside sigil.json.
// Fields absent from the file fall back to their documented defaults.
type Layout struct {
	Src   string `json:"src"`
	Tests string `json:"tests"`
	Out   string `json:"out"`
}

func defaultLayout() Layout {
	return Layout{Src: "src", Tests: "tests", Out: ".local"}
}

// Config is a loaded project: its root directory and effective layout.
type Config struct {
	Root   string
	Layout Layout
}

// rawConfig mirrors sigil.json's on-disk shape before defaults are applied.
type rawConfig struct {
	Layout *struct {
		Src   *string `json:"src"`
		Tests *string `json:"tests"`
		Out   *string `json:"out"`
	} `json:"layout"`
}

// FindRoot walks up from startPath looking for a directory containing
// sigil.json, returning that directory. startPath may be a file or a
// directory; a file's parent directory is where the search begins.
func FindRoot(startPath string) (string, bool) {
	current, err := filepath.Abs(startPath)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(current); err == nil && !info.IsDir() {
		current = filepath.Dir(current)
	}

	for {
		if _, err := os.Stat(filepath.Join(current, markerFile)); err == nil {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// Load finds the project root containing startPath and parses its
// sigil.json, applying documented defaults for any absent layout field.
func Load(startPath string) (*Config, bool) {
	root, ok := FindRoot(startPath)
	if !ok {
		return nil, false
	}

	data, err := os.ReadFile(filepath.Join(root, markerFile))
	if err != nil {
		return nil, false
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}

	layout := defaultLayout()
	if raw.Layout != nil {
		if raw.Layout.Src != nil {
			layout.Src = *raw.Layout.Src
		}
		if raw.Layout.Tests != nil {
			layout.Tests = *raw.Layout.Tests
		}
		if raw.Layout.Out != nil {
			layout.Out = *raw.Layout.Out
		}
	}

	return &Config{Root: root, Layout: layout}, true
}
