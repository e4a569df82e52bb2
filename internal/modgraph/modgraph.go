// Package modgraph builds Sigil's module graph: walking stdlib⋅/src⋅
// imports depth-first from an entry file, loading, validating, and
// linking every reachable module, and producing a topological order.
// The core stays I/O-abstracted: every filesystem touch goes through
// a collaborator-supplied function in Options, so cmd/sigilc supplies
// the os-backed implementations and tests supply in-memory fixtures.
package modgraph

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/parser"
	"github.com/sigil-lang/sigil/internal/project"
	"github.com/sigil-lang/sigil/internal/source"
	"github.com/sigil-lang/sigil/internal/validator"
)

// LoadedModule is one module in the graph: its logical id, absolute
// file path, raw source, validated AST, and the project it was
// resolved under (nil for a module outside any project, e.g. stdlib).
type LoadedModule struct {
	ID       string
	FilePath string
	Source   string
	AST      *ast.Program
	Project  *project.Config
}

// Graph is the result of a successful Build: every module reached from
// the entry, plus a topological order in which every module's
// transitive imports appear before it.
type Graph struct {
	Modules   map[string]*LoadedModule
	TopoOrder []string
}

// Options supplies the I/O collaborators the core stays abstracted
// over. cmd/sigilc wires these to the os and filepath packages; tests
// wire them to an in-memory fixture.
type Options struct {
	// ReadFile returns a file's raw contents.
	ReadFile func(path string) ([]byte, error)
	// Canonicalize resolves path to its absolute, symlink-free form.
	Canonicalize func(path string) (string, error)
	// FindProject returns the nearest project root at or above
	// startPath, and whether one was found.
	FindProject func(startPath string) (*project.Config, bool)
	// FindStdlibRoot returns the nearest ancestor directory above
	// startPath that contains a stdlib/ directory, and whether one
	// was found.
	FindStdlibRoot func(startPath string) (string, bool)
}

// Build walks imports depth-first from entry, loading, validating, and
// linking every reachable module into a Graph.
func Build(entry string, opts Options) (*Graph, error) {
	b := &builder{
		opts:     opts,
		modules:  map[string]*LoadedModule{},
		visiting: map[string]bool{},
	}
	if err := b.visit(entry, "", nil); err != nil {
		return nil, err
	}
	return &Graph{Modules: b.modules, TopoOrder: b.topoOrder}, nil
}

type builder struct {
	opts       Options
	modules    map[string]*LoadedModule
	topoOrder  []string
	visiting   map[string]bool
	visitStack []string
}

func zeroSpan() source.Span {
	return source.Zero(source.NewPosition(1, 1, 0))
}

func (b *builder) visit(filePath, logicalID string, inherited *project.Config) error {
	absFile, err := b.opts.Canonicalize(filePath)
	if err != nil {
		return fmt.Errorf("modgraph: resolving %s: %w", filePath, err)
	}

	projectCfg := inherited
	if found, ok := b.opts.FindProject(absFile); ok {
		projectCfg = found
	}

	moduleKey := logicalID
	if moduleKey == "" {
		if id, ok := filePathToModuleID(absFile, projectCfg); ok {
			moduleKey = id
		} else {
			moduleKey = absFile
		}
	}

	if _, alreadyLoaded := b.modules[moduleKey]; alreadyLoaded {
		return nil
	}

	if b.visiting[moduleKey] {
		cycle := cyclePathFrom(b.visitStack, moduleKey)
		return diag.AsError(diag.New(diag.CliImportCycle, diag.PhaseCli, absFile, zeroSpan(),
			"import cycle detected: "+strings.Join(cycle, " -> ")))
	}
	b.visiting[moduleKey] = true
	b.visitStack = append(b.visitStack, moduleKey)

	data, err := b.opts.ReadFile(absFile)
	if err != nil {
		return fmt.Errorf("modgraph: reading %s: %w", absFile, err)
	}
	src := string(data)

	prog, err := parser.Parse(src, absFile)
	if err != nil {
		return err
	}
	if diags := validator.ValidateSurface(prog); diags.HasErrors() {
		return diags
	}
	if diags := validator.ValidateCanonical(prog, absFile, src); diags.HasErrors() {
		return diags
	}

	for _, decl := range prog.Declarations {
		imp, ok := decl.(*ast.ImportDecl)
		if !ok {
			continue
		}
		moduleID := strings.Join(imp.ModulePath, "⋅")
		if !isSigilImportPath(moduleID) {
			continue
		}

		resolved, err := b.resolveImport(absFile, projectCfg, moduleID)
		if err != nil {
			return err
		}
		if err := b.visit(resolved.filePath, resolved.moduleID, resolved.project); err != nil {
			return err
		}
	}

	delete(b.visiting, moduleKey)
	b.visitStack = b.visitStack[:len(b.visitStack)-1]

	b.modules[moduleKey] = &LoadedModule{
		ID:       moduleKey,
		FilePath: absFile,
		Source:   src,
		AST:      prog,
		Project:  projectCfg,
	}
	b.topoOrder = append(b.topoOrder, moduleKey)
	return nil
}

// isSigilImportPath reports whether moduleID is one of the two
// prefixes the module graph resolves itself (stdlib⋅, src⋅). Any other
// prefix is an extern-collaborator concern and is skipped here.
func isSigilImportPath(moduleID string) bool {
	return strings.HasPrefix(moduleID, "stdlib⋅") || strings.HasPrefix(moduleID, "src⋅")
}

// filePathToModuleID derives a module's logical id from its absolute
// path: "stdlib⋅<relative>" for a file under a stdlib/ directory, or
// "<relative>" (including its own leading path segment, typically
// "src") for a file under proj's root.
func filePathToModuleID(absFile string, proj *project.Config) (string, bool) {
	normalized := filepath.ToSlash(absFile)

	if idx := strings.Index(normalized, "/stdlib/"); idx >= 0 {
		relative := normalized[idx+len("/stdlib/"):]
		if stem, ok := stripSigilExt(relative); ok {
			return "stdlib⋅" + strings.ReplaceAll(stem, "/", "⋅"), true
		}
	}

	if proj != nil {
		root := filepath.ToSlash(proj.Root)
		if strings.HasPrefix(normalized, root) {
			relative := strings.TrimPrefix(strings.TrimPrefix(normalized, root), "/")
			if stem, ok := stripSigilExt(relative); ok {
				return strings.ReplaceAll(stem, "/", "⋅"), true
			}
		}
	}

	return "", false
}

// stripSigilExt removes a file's .lib.sigil or .sigil extension,
// folding both into the same module-id stem. The original derivation
// strips only ".sigil", which leaves ".lib" as part of a library
// module's own id — but module path segments can never contain ".",
// so that id could never actually be spelled in an import statement.
// Stripping ".lib.sigil" as one unit keeps library modules reachable
// by import.
func stripSigilExt(relative string) (string, bool) {
	if stem, ok := strings.CutSuffix(relative, ".lib.sigil"); ok {
		return stem, true
	}
	return strings.CutSuffix(relative, ".sigil")
}

type resolvedImport struct {
	moduleID string
	filePath string
	project  *project.Config
}

// resolveImport converts a stdlib⋅/src⋅ module id back into a
// filesystem path, requiring a project root for src⋅ imports and a
// stdlib-bearing ancestor directory for stdlib⋅ imports. It probes
// both the library and plain extension, preferring the library file
// since only library modules (no mandatory main()) are realistically
// import targets.
func (b *builder) resolveImport(importerFile string, importerProject *project.Config, moduleID string) (*resolvedImport, error) {
	filePathStr := strings.ReplaceAll(moduleID, "⋅", "/")

	var baseDir string
	switch {
	case strings.HasPrefix(moduleID, "src⋅"):
		if importerProject == nil {
			return nil, diag.AsError(diag.New(diag.CliProjectRootRequired, diag.PhaseCli, importerFile, zeroSpan(),
				fmt.Sprintf("import %q requires a project root (sigil.json) but none was found above %s", moduleID, importerFile)))
		}
		baseDir = importerProject.Root

	case strings.HasPrefix(moduleID, "stdlib⋅"):
		langRoot, ok := b.opts.FindStdlibRoot(importerFile)
		if !ok {
			return nil, diag.AsError(diag.New(diag.CliInvalidImport, diag.PhaseCli, importerFile, zeroSpan(),
				"could not locate a stdlib/ directory above "+importerFile))
		}
		baseDir = langRoot

	default:
		return nil, diag.AsError(diag.New(diag.CliInvalidImport, diag.PhaseCli, importerFile, zeroSpan(),
			fmt.Sprintf("unrecognized import prefix in %q", moduleID)))
	}

	for _, ext := range []string{".lib.sigil", ".sigil"} {
		candidate := filepath.Join(baseDir, filePathStr+ext)
		if _, err := b.opts.ReadFile(candidate); err == nil {
			return &resolvedImport{moduleID: moduleID, filePath: candidate, project: importerProject}, nil
		}
	}

	return nil, diag.AsError(diag.New(diag.CliImportNotFound, diag.PhaseCli, importerFile, zeroSpan(),
		fmt.Sprintf("import %q not found (looked for %s.lib.sigil and %s.sigil under %s)", moduleID, filePathStr, filePathStr, baseDir)))
}

// cyclePathFrom builds the cycle list starting at repeated's first
// occurrence in stack and ending with repeated again, so the result
// both begins and ends with the same module id.
func cyclePathFrom(stack []string, repeated string) []string {
	for i, id := range stack {
		if id == repeated {
			cycle := append([]string{}, stack[i:]...)
			return append(cycle, repeated)
		}
	}
	return []string{repeated, repeated}
}
