package validator

import (
	"testing"

	"github.com/sigil-lang/sigil/internal/parser"
)

func TestValidateSurfaceAcceptsFullyAnnotatedProgram(t *testing.T) {
	prog, err := parser.Parse(`λadd(x:ℤ,y:ℤ)→ℤ=x+y`, "test.sigil")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	diags := ValidateSurface(prog)
	if diags.HasErrors() {
		t.Errorf("ValidateSurface() = %v, want no diagnostics", diags)
	}
}

func TestValidateSurfaceIgnoresNonFunctionDeclarations(t *testing.T) {
	prog, err := parser.Parse(`c pi=(3.14:ℝ)`, "test.sigil")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	diags := ValidateSurface(prog)
	if diags.HasErrors() {
		t.Errorf("ValidateSurface() = %v, want no diagnostics", diags)
	}
}
