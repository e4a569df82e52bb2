package validator

import (
	"sort"
	"strings"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/source"
)

func zeroSpan() source.Span {
	return source.Zero(source.NewPosition(1, 1, 0))
}

// inTestsDir reports whether any path segment of filePath is exactly
// "tests", matching path/tests/foo.sigil, tests/foo.sigil, and
// nested/tests/foo.sigil alike.
func inTestsDir(filePath string) bool {
	normalized := strings.ReplaceAll(filePath, "\\", "/")
	for _, segment := range strings.Split(normalized, "/") {
		if segment == "tests" {
			return true
		}
	}
	return false
}

// ValidateCanonical enforces Sigil's "ONE WAY" canonical-form rules:
// source formatting, no duplicate declarations, file purpose (exactly
// one of executable/library), filename format, test-block placement,
// declaration category/alphabetical ordering, recursion shape, and
// parameter/effect ordering. filePath and src may both be empty (in
// which case the file-identity and source-formatting rules are
// skipped, matching the original's Option<&str> parameters).
func ValidateCanonical(program *ast.Program, filePath, src string) diag.Diagnostics {
	var out diag.Diagnostics

	if src != "" {
		out = append(out, validateEOFNewline(src, filePath)...)
		out = append(out, validateNoTrailingWhitespace(src, filePath)...)
		out = append(out, validateBlankLines(src, filePath)...)
	}

	out = append(out, validateNoDuplicates(program, filePath)...)
	out = append(out, validateFilePurpose(program, filePath)...)

	if filePath != "" {
		out = append(out, validateFilenameFormat(filePath)...)
		out = append(out, validateTestLocation(program, filePath)...)
	}

	out = append(out, validateDeclarationOrdering(program, filePath)...)
	out = append(out, validateRecursiveFunctions(program, filePath)...)
	out = append(out, validateFunctionSignatureOrdering(program, filePath)...)

	return out
}

func validateEOFNewline(src, filePath string) diag.Diagnostics {
	if src == "" || strings.HasSuffix(src, "\n") {
		return nil
	}
	return diag.Diagnostics{diag.New(diag.CanonEOFNewline, diag.PhaseCanonical, filePath, zeroSpan(),
		"file does not end with a trailing newline")}
}

func validateNoTrailingWhitespace(src, filePath string) diag.Diagnostics {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
			pos := source.NewPosition(i+1, 1, 0)
			return diag.Diagnostics{diag.New(diag.CanonTrailingWhitespace, diag.PhaseCanonical, filePath,
				source.Zero(pos), "trailing whitespace on this line")}
		}
	}
	return nil
}

func validateBlankLines(src, filePath string) diag.Diagnostics {
	lines := strings.Split(src, "\n")
	for i := 0; i+1 < len(lines); i++ {
		if lines[i] == "" && lines[i+1] == "" {
			pos := source.NewPosition(i+2, 1, 0)
			return diag.Diagnostics{diag.New(diag.CanonBlankLines, diag.PhaseCanonical, filePath,
				source.Zero(pos), "more than one consecutive blank line")}
		}
	}
	return nil
}

// validateNoDuplicates rejects more than one declaration sharing the
// same identity within its own category: type/extern (by joined
// module path)/import (by joined module path)/const/function/test (by
// description string).
func validateNoDuplicates(program *ast.Program, filePath string) diag.Diagnostics {
	var out diag.Diagnostics

	types := map[string]source.Span{}
	externs := map[string]source.Span{}
	imports := map[string]source.Span{}
	consts := map[string]source.Span{}
	functions := map[string]source.Span{}
	tests := map[string]source.Span{}

	dup := func(code, name string, loc source.Span) {
		out = append(out, diag.New(code, diag.PhaseCanonical, filePath, loc,
			"duplicate declaration: \""+name+"\""))
	}

	for _, decl := range program.Declarations {
		switch d := decl.(type) {
		case *ast.TypeDecl:
			if _, seen := types[d.Name]; seen {
				dup(diag.CanonDuplicateType, d.Name, d.Loc)
			} else {
				types[d.Name] = d.Loc
			}
		case *ast.ExternDecl:
			name := strings.Join(d.ModulePath, "⋅")
			if _, seen := externs[name]; seen {
				dup(diag.CanonDuplicateExtern, name, d.Loc)
			} else {
				externs[name] = d.Loc
			}
		case *ast.ImportDecl:
			name := strings.Join(d.ModulePath, "⋅")
			if _, seen := imports[name]; seen {
				dup(diag.CanonDuplicateImport, name, d.Loc)
			} else {
				imports[name] = d.Loc
			}
		case *ast.ConstDecl:
			if _, seen := consts[d.Name]; seen {
				dup(diag.CanonDuplicateConst, d.Name, d.Loc)
			} else {
				consts[d.Name] = d.Loc
			}
		case *ast.FunctionDecl:
			if _, seen := functions[d.Name]; seen {
				dup(diag.CanonDuplicateFunction, d.Name, d.Loc)
			} else {
				functions[d.Name] = d.Loc
			}
		case *ast.TestDecl:
			if _, seen := tests[d.Description]; seen {
				dup(diag.CanonDuplicateTest, d.Description, d.Loc)
			} else {
				tests[d.Description] = d.Loc
			}
		}
	}

	return out
}

// validateFilePurpose enforces that a file is exactly one of
// executable (has main(), no .lib.sigil suffix) or library (.lib.sigil
// suffix, no main()); files under a tests/ directory are exempt from
// the suffix rule but must still have main() if they contain test
// blocks, since tests run as an executable entry point.
func validateFilePurpose(program *ast.Program, filePath string) diag.Diagnostics {
	hasMain := false
	hasTests := false
	for _, decl := range program.Declarations {
		switch d := decl.(type) {
		case *ast.FunctionDecl:
			if d.Name == "main" {
				hasMain = true
			}
		case *ast.TestDecl:
			hasTests = true
		}
	}

	if filePath != "" {
		isLibFile := strings.HasSuffix(filePath, ".lib.sigil")
		isTestFile := inTestsDir(filePath)

		if isLibFile && hasMain {
			return diag.Diagnostics{diag.New(diag.CanonLibNoMain, diag.PhaseCanonical, filePath, zeroSpan(),
				".lib.sigil files are libraries and cannot have main(); remove main() or rename to a .sigil executable")}
		}
		if !isLibFile && !isTestFile && !hasMain {
			return diag.Diagnostics{diag.New(diag.CanonExecNeedsMain, diag.PhaseCanonical, filePath, zeroSpan(),
				".sigil executables must have a main() function; add λmain() or rename to .lib.sigil")}
		}
	}

	if hasTests && !hasMain {
		return diag.Diagnostics{diag.New(diag.CanonTestNeedsMain, diag.PhaseCanonical, filePath, zeroSpan(),
			"test files must have λmain()→𝕌=()")}
	}

	return nil
}

// validateFilenameFormat enforces lowercase-with-hyphens basenames.
func validateFilenameFormat(filePath string) diag.Diagnostics {
	trimmed := filePath
	switch {
	case strings.HasSuffix(trimmed, ".lib.sigil"):
		trimmed = strings.TrimSuffix(trimmed, ".lib.sigil")
	case strings.HasSuffix(trimmed, ".sigil"):
		trimmed = strings.TrimSuffix(trimmed, ".sigil")
	}
	basename := trimmed
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		basename = trimmed[idx+1:]
	}

	loc := zeroSpan()

	if basename != strings.ToLower(basename) {
		return diag.Diagnostics{diag.New(diag.CanonFilenameCase, diag.PhaseCanonical, filePath, loc,
			"filename must be lowercase, found \""+basename+"\"")}
	}
	if strings.Contains(basename, "_") {
		return diag.Diagnostics{diag.New(diag.CanonFilenameInvalidChar, diag.PhaseCanonical, filePath, loc,
			"filename must use hyphens, not underscores: \""+basename+"\"")}
	}
	for _, c := range basename {
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') && c != '-' {
			return diag.Diagnostics{diag.New(diag.CanonFilenameInvalidChar, diag.PhaseCanonical, filePath, loc,
				"filename contains an invalid character: \""+basename+"\"")}
		}
	}
	if basename == "" {
		return diag.Diagnostics{diag.New(diag.CanonFilenameFormat, diag.PhaseCanonical, filePath, loc,
			"filename cannot be empty")}
	}
	if strings.HasPrefix(basename, "-") || strings.HasSuffix(basename, "-") {
		return diag.Diagnostics{diag.New(diag.CanonFilenameFormat, diag.PhaseCanonical, filePath, loc,
			"filename cannot start or end with a hyphen")}
	}
	if strings.Contains(basename, "--") {
		return diag.Diagnostics{diag.New(diag.CanonFilenameFormat, diag.PhaseCanonical, filePath, loc,
			"filename cannot contain consecutive hyphens")}
	}
	return nil
}

// validateTestLocation requires that any file containing a test block
// live under a tests/ directory.
func validateTestLocation(program *ast.Program, filePath string) diag.Diagnostics {
	hasTests := false
	for _, decl := range program.Declarations {
		if _, ok := decl.(*ast.TestDecl); ok {
			hasTests = true
			break
		}
	}
	if !hasTests {
		return nil
	}

	if !inTestsDir(filePath) {
		return diag.Diagnostics{diag.New(diag.CanonTestLocation, diag.PhaseCanonical, filePath, zeroSpan(),
			"test blocks can only appear in files under a tests/ directory; move this file into one")}
	}
	return nil
}

// declCategory orders the six declaration kinds: type, extern, import,
// const, function, test.
func declCategory(decl ast.Decl) int {
	switch decl.(type) {
	case *ast.TypeDecl:
		return 0
	case *ast.ExternDecl:
		return 1
	case *ast.ImportDecl:
		return 2
	case *ast.ConstDecl:
		return 3
	case *ast.FunctionDecl:
		return 4
	case *ast.TestDecl:
		return 5
	default:
		return 6
	}
}

var categoryNames = []string{"type", "extern", "import", "const", "function", "test"}
var categorySymbols = []string{"t", "e", "i", "c", "λ", "test"}

func declName(decl ast.Decl) string {
	switch d := decl.(type) {
	case *ast.TypeDecl:
		return d.Name
	case *ast.ExternDecl:
		return strings.Join(d.ModulePath, "⋅")
	case *ast.ImportDecl:
		return strings.Join(d.ModulePath, "⋅")
	case *ast.ConstDecl:
		return d.Name
	case *ast.FunctionDecl:
		return d.Name
	case *ast.TestDecl:
		return d.Description
	default:
		return ""
	}
}

func declIsExported(decl ast.Decl) bool {
	switch d := decl.(type) {
	case *ast.TypeDecl:
		return d.IsExported
	case *ast.ExternDecl:
		return d.IsExported
	case *ast.ImportDecl:
		return d.IsExported
	case *ast.ConstDecl:
		return d.IsExported
	case *ast.FunctionDecl:
		return d.IsExported
	case *ast.TestDecl:
		return d.IsExported
	default:
		return false
	}
}

// validateDeclarationOrdering checks that declarations appear in
// category order (type → extern → import → const → function → test)
// and that, within each category, exported declarations form a
// contiguous alphabetical sub-block followed by a contiguous
// alphabetical non-exported sub-block. This generalizes the original's
// function-only alphabetical check (which also ignored is_exported
// entirely) to all six categories, per DESIGN.md item 4.
func validateDeclarationOrdering(program *ast.Program, filePath string) diag.Diagnostics {
	var out diag.Diagnostics

	lastCategory := -1
	for _, decl := range program.Declarations {
		cat := declCategory(decl)
		if cat < lastCategory {
			out = append(out, diag.New(diag.CanonDeclCategoryOrder, diag.PhaseCanonical, filePath, decl.Span(),
				"wrong category position for "+categorySymbols[cat]+" ("+categoryNames[cat]+
					"); category order is type → extern → import → const → function → test"))
		}
		if cat > lastCategory {
			lastCategory = cat
		}
	}

	for cat := 0; cat <= 5; cat++ {
		var group []ast.Decl
		for _, decl := range program.Declarations {
			if declCategory(decl) == cat {
				group = append(group, decl)
			}
		}
		out = append(out, validateCategoryExportOrder(group, cat, filePath)...)
	}

	return out
}

// validateCategoryExportOrder checks that, within one category, every
// exported declaration precedes every non-exported one, and that each
// of the two sub-blocks is independently alphabetical by name.
func validateCategoryExportOrder(group []ast.Decl, cat int, filePath string) diag.Diagnostics {
	var out diag.Diagnostics

	seenNonExported := false
	for _, decl := range group {
		if declIsExported(decl) {
			if seenNonExported {
				out = append(out, diag.New(diag.CanonDeclExportOrder, diag.PhaseCanonical, filePath, decl.Span(),
					"exported "+categoryNames[cat]+" declaration \""+declName(decl)+
						"\" must come before non-exported declarations of the same category"))
			}
		} else {
			seenNonExported = true
		}
	}

	var exported, nonExported []ast.Decl
	for _, decl := range group {
		if declIsExported(decl) {
			exported = append(exported, decl)
		} else {
			nonExported = append(nonExported, decl)
		}
	}

	out = append(out, validateAlphabeticalWithin(exported, cat, filePath)...)
	out = append(out, validateAlphabeticalWithin(nonExported, cat, filePath)...)

	return out
}

func validateAlphabeticalWithin(group []ast.Decl, cat int, filePath string) diag.Diagnostics {
	var out diag.Diagnostics
	for i := 1; i < len(group); i++ {
		prev, curr := group[i-1], group[i]
		if declName(curr) < declName(prev) {
			out = append(out, diag.New(diag.CanonDeclAlphabetical, diag.PhaseCanonical, filePath, curr.Span(),
				"\""+declName(curr)+"\" is out of alphabetical order; expected it before \""+declName(prev)+
					"\" within the "+categoryNames[cat]+" category"))
		}
	}
	return out
}

// validateRecursiveFunctions rejects accumulator-passing style,
// continuation-passing style, and non-structural list recursion in any
// function that calls itself.
func validateRecursiveFunctions(program *ast.Program, filePath string) diag.Diagnostics {
	var out diag.Diagnostics

	for _, decl := range program.Declarations {
		fn, ok := decl.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		if !isRecursive(fn.Body, fn.Name) {
			continue
		}

		if suspicious := detectAccumulatorParams(fn); len(suspicious) > 0 {
			out = append(out, diag.New(diag.CanonRecursionAccumulator, diag.PhaseCanonical, filePath, fn.Span(),
				"accumulator-passing style detected in function \""+fn.Name+"\": "+strings.Join(suspicious, ", ")))
		}

		if _, isFn := fn.ReturnType.(*ast.FunctionType); isFn {
			out = append(out, diag.New(diag.CanonRecursionCPS, diag.PhaseCanonical, filePath, fn.Span(),
				"recursive function \""+fn.Name+"\" returns a function type (continuation-passing style)"))
		}

		if len(fn.Params) == 1 {
			if _, isList := fn.Params[0].TypeAnnotation.(*ast.ListType); isList {
				if !usesStructuralRecursion(fn.Body, fn.Params[0].Name) {
					out = append(out, diag.New(diag.CanonRecursionCollectionNonstruct, diag.PhaseCanonical, filePath, fn.Span(),
						"recursive function \""+fn.Name+"\" has a list parameter but doesn't use structural recursion"))
				}
			}
		}
	}

	return out
}

// children returns expr's immediate sub-expressions, used by every
// tree-walking check below (isRecursive, referencesIdentifier,
// findStructuralMatch, collectRecursiveCalls) so the traversal logic
// is written exactly once.
func children(expr ast.Expr) []ast.Expr {
	switch e := expr.(type) {
	case *ast.ApplicationExpr:
		return append([]ast.Expr{e.Func}, e.Args...)
	case *ast.LambdaExpr:
		return []ast.Expr{e.Body}
	case *ast.BinaryExpr:
		return []ast.Expr{e.Left, e.Right}
	case *ast.UnaryExpr:
		return []ast.Expr{e.Operand}
	case *ast.MatchExpr:
		out := []ast.Expr{e.Scrutinee}
		for _, arm := range e.Arms {
			if arm.Guard != nil {
				out = append(out, arm.Guard)
			}
			out = append(out, arm.Body)
		}
		return out
	case *ast.LetExpr:
		return []ast.Expr{e.Value, e.Body}
	case *ast.IfExpr:
		out := []ast.Expr{e.Condition, e.ThenBranch}
		if e.ElseBranch != nil {
			out = append(out, e.ElseBranch)
		}
		return out
	case *ast.ListExpr:
		return e.Elements
	case *ast.RecordExpr:
		out := make([]ast.Expr, len(e.Fields))
		for i, f := range e.Fields {
			out[i] = f.Value
		}
		return out
	case *ast.TupleExpr:
		return e.Elements
	case *ast.FieldAccessExpr:
		return []ast.Expr{e.Object}
	case *ast.IndexExpr:
		return []ast.Expr{e.Object, e.Index}
	case *ast.PipelineExpr:
		return []ast.Expr{e.Left, e.Right}
	case *ast.MapExpr:
		return []ast.Expr{e.List, e.Func}
	case *ast.FilterExpr:
		return []ast.Expr{e.List, e.Predicate}
	case *ast.FoldExpr:
		return []ast.Expr{e.List, e.Func, e.Init}
	case *ast.WithMockExpr:
		return []ast.Expr{e.Target, e.Replacement, e.Body}
	case *ast.TypeAscriptionExpr:
		return []ast.Expr{e.Expr}
	default:
		// IdentifierExpr, LiteralExpr, MemberAccessExpr: leaves.
		return nil
	}
}

// isRecursive reports whether expr contains a direct call to
// functionName anywhere in its tree.
func isRecursive(expr ast.Expr, functionName string) bool {
	if expr == nil {
		return false
	}
	if app, ok := expr.(*ast.ApplicationExpr); ok {
		if id, ok := app.Func.(*ast.IdentifierExpr); ok && id.Name == functionName {
			return true
		}
	}
	for _, c := range children(expr) {
		if isRecursive(c, functionName) {
			return true
		}
	}
	return false
}

// referencesIdentifier reports whether expr contains a reference to
// name anywhere in its tree.
func referencesIdentifier(expr ast.Expr, name string) bool {
	if expr == nil {
		return false
	}
	if id, ok := expr.(*ast.IdentifierExpr); ok && id.Name == name {
		return true
	}
	for _, c := range children(expr) {
		if referencesIdentifier(c, name) {
			return true
		}
	}
	return false
}

// collectRecursiveCalls appends every direct application of
// functionName found anywhere in expr's tree to out.
func collectRecursiveCalls(expr ast.Expr, functionName string, out *[]*ast.ApplicationExpr) {
	if expr == nil {
		return
	}
	if app, ok := expr.(*ast.ApplicationExpr); ok {
		if id, ok := app.Func.(*ast.IdentifierExpr); ok && id.Name == functionName {
			*out = append(*out, app)
		}
	}
	for _, c := range children(expr) {
		collectRecursiveCalls(c, functionName, out)
	}
}

// detectAccumulatorParams flags a parameter as accumulator-passing
// when every recursive call site passes, in that parameter's
// position, an expression built from that same parameter (e.g.
// `acc + x`, `[x, ...acc]`) rather than the parameter passed through
// unchanged or a value structurally unrelated to it. A parameter with
// no recursive call sites, or whose argument is ever a bare reference
// to itself or something that never mentions it, is never flagged.
func detectAccumulatorParams(fn *ast.FunctionDecl) []string {
	if len(fn.Params) < 2 {
		return nil
	}
	var calls []*ast.ApplicationExpr
	collectRecursiveCalls(fn.Body, fn.Name, &calls)
	if len(calls) == 0 {
		return nil
	}

	var suspicious []string
	for i, param := range fn.Params {
		builtFromParam := true
		for _, call := range calls {
			if i >= len(call.Args) {
				builtFromParam = false
				break
			}
			arg := call.Args[i]
			if id, ok := arg.(*ast.IdentifierExpr); ok && id.Name == param.Name {
				builtFromParam = false
				break
			}
			if !referencesIdentifier(arg, param.Name) {
				builtFromParam = false
				break
			}
		}
		if builtFromParam {
			suspicious = append(suspicious, param.Name)
		}
	}
	return suspicious
}

// usesStructuralRecursion reports whether body contains a match
// expression scrutinizing paramName with at least one list- or
// constructor-shaped arm, anywhere in the function body (not
// necessarily at the top level). A body with no such match fails the
// check, since a bare recursive call gives no evidence of destructuring.
func usesStructuralRecursion(body ast.Expr, paramName string) bool {
	return findStructuralMatch(body, paramName)
}

func findStructuralMatch(expr ast.Expr, paramName string) bool {
	if expr == nil {
		return false
	}
	if m, ok := expr.(*ast.MatchExpr); ok {
		if referencesIdentifier(m.Scrutinee, paramName) {
			for _, arm := range m.Arms {
				if matchesListPattern(arm.Pattern) {
					return true
				}
			}
		}
	}
	for _, c := range children(expr) {
		if findStructuralMatch(c, paramName) {
			return true
		}
	}
	return false
}

// matchesListPattern reports whether pattern destructures via a list
// shape (including the empty-list base case `[]`) or a constructor.
func matchesListPattern(pattern ast.Pattern) bool {
	switch pattern.(type) {
	case *ast.ListPattern:
		return true
	case *ast.ConstructorPattern:
		return true
	default:
		return false
	}
}

// validateFunctionSignatureOrdering checks that every function's
// parameters and effect annotations are alphabetical.
func validateFunctionSignatureOrdering(program *ast.Program, filePath string) diag.Diagnostics {
	var out diag.Diagnostics
	for _, decl := range program.Declarations {
		fn, ok := decl.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		out = append(out, validateParameterOrdering(fn.Params, fn.Name, fn.Span(), filePath)...)
		out = append(out, validateEffectOrdering(fn.Effects, fn.Name, fn.Span(), filePath)...)
	}
	return out
}

func validateParameterOrdering(params []ast.Param, funcName string, loc source.Span, filePath string) diag.Diagnostics {
	if len(params) <= 1 {
		return nil
	}
	for i := 1; i < len(params); i++ {
		prev, curr := params[i-1], params[i]
		if curr.Name < prev.Name {
			names := make([]string, len(params))
			for j, p := range params {
				names[j] = p.Name
			}
			sort.Strings(names)
			return diag.Diagnostics{diag.New(diag.CanonParamOrder, diag.PhaseCanonical, filePath, loc,
				"parameter \""+curr.Name+"\" is out of alphabetical order in function \""+funcName+
					"\"; expected order: "+strings.Join(names, ", "))}
		}
	}
	return nil
}

func validateEffectOrdering(effects []string, funcName string, loc source.Span, filePath string) diag.Diagnostics {
	if len(effects) <= 1 {
		return nil
	}
	for i := 1; i < len(effects); i++ {
		if effects[i] < effects[i-1] {
			sorted := append([]string(nil), effects...)
			sort.Strings(sorted)
			return diag.Diagnostics{diag.New(diag.CanonEffectOrder, diag.PhaseCanonical, filePath, loc,
				"effect \""+effects[i]+"\" is out of alphabetical order in function \""+funcName+
					"\"; expected order: "+strings.Join(sorted, ", "))}
		}
	}
	return nil
}
