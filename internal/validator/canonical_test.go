package validator

import (
	"strings"
	"testing"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/parser"
)

func codesOf(t *testing.T, src, file string) []string {
	t.Helper()
	prog, err := parser.Parse(src, file)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", src, err)
	}
	return ValidateCanonical(prog, file, src).Codes()
}

func hasCode(codes []string, want string) bool {
	for _, c := range codes {
		if c == want {
			return true
		}
	}
	return false
}

func TestValidateCanonicalNoDuplicateFunctions(t *testing.T) {
	src := `λadd(a:ℤ,b:ℤ)→ℤ=a+b
λsubtract(a:ℤ,b:ℤ)→ℤ=a-b
`
	codes := codesOf(t, src, "math.sigil")
	if hasCode(codes, diag.CanonDuplicateFunction) {
		t.Errorf("codes = %v, did not want CanonDuplicateFunction", codes)
	}
}

func TestValidateCanonicalDuplicateFunctionDetected(t *testing.T) {
	src := `λadd(a:ℤ,b:ℤ)→ℤ=a+b
λadd(x:ℤ,y:ℤ)→ℤ=x+y
`
	codes := codesOf(t, src, "math.sigil")
	if !hasCode(codes, diag.CanonDuplicateFunction) {
		t.Errorf("codes = %v, want CanonDuplicateFunction", codes)
	}
}

func TestValidateCanonicalDuplicateTypeDetected(t *testing.T) {
	src := `t UserId=ℤ
t UserId=ℝ
`
	codes := codesOf(t, src, "types.lib.sigil")
	if !hasCode(codes, diag.CanonDuplicateType) {
		t.Errorf("codes = %v, want CanonDuplicateType", codes)
	}
}

func TestValidateCanonicalLibFileWithMainRejected(t *testing.T) {
	src := `λmain()→𝕌=()
`
	codes := codesOf(t, src, "util.lib.sigil")
	if !hasCode(codes, diag.CanonLibNoMain) {
		t.Errorf("codes = %v, want CanonLibNoMain", codes)
	}
}

func TestValidateCanonicalExecFileWithoutMainRejected(t *testing.T) {
	src := `λhelper()→ℤ=0
`
	codes := codesOf(t, src, "helper.sigil")
	if !hasCode(codes, diag.CanonExecNeedsMain) {
		t.Errorf("codes = %v, want CanonExecNeedsMain", codes)
	}
}

func TestValidateCanonicalExecFileWithMainAccepted(t *testing.T) {
	src := `λmain()→𝕌=()
`
	codes := codesOf(t, src, "app.sigil")
	if hasCode(codes, diag.CanonExecNeedsMain) || hasCode(codes, diag.CanonLibNoMain) {
		t.Errorf("codes = %v, want neither file-purpose code", codes)
	}
}

func TestValidateCanonicalFilenameUppercaseRejected(t *testing.T) {
	src := `λmain()→𝕌=()
`
	codes := codesOf(t, src, "Main.sigil")
	if !hasCode(codes, diag.CanonFilenameCase) {
		t.Errorf("codes = %v, want CanonFilenameCase", codes)
	}
}

func TestValidateCanonicalFilenameUnderscoreRejected(t *testing.T) {
	src := `λmain()→𝕌=()
`
	codes := codesOf(t, src, "my_app.sigil")
	if !hasCode(codes, diag.CanonFilenameInvalidChar) {
		t.Errorf("codes = %v, want CanonFilenameInvalidChar", codes)
	}
}

func TestValidateCanonicalFilenameHyphenatedAccepted(t *testing.T) {
	src := `λmain()→𝕌=()
`
	codes := codesOf(t, src, "my-app.sigil")
	for _, c := range codes {
		if strings.HasPrefix(c, "SIGIL-CANON-FILENAME") {
			t.Errorf("codes = %v, want no filename-format codes", codes)
		}
	}
}

func TestValidateCanonicalTestOutsideTestsDirRejected(t *testing.T) {
	src := `λmain()→𝕌=()
test "adds"{1+1}
`
	codes := codesOf(t, src, "app.sigil")
	if !hasCode(codes, diag.CanonTestLocation) {
		t.Errorf("codes = %v, want CanonTestLocation", codes)
	}
}

func TestValidateCanonicalTestInsideTestsDirAccepted(t *testing.T) {
	src := `λmain()→𝕌=()
test "adds"{1+1}
`
	codes := codesOf(t, src, "tests/app.sigil")
	if hasCode(codes, diag.CanonTestLocation) {
		t.Errorf("codes = %v, did not want CanonTestLocation", codes)
	}
}

func TestValidateCanonicalDeclarationCategoryOrderEnforced(t *testing.T) {
	src := `λadd(a:ℤ,b:ℤ)→ℤ=a+b
t UserId=ℤ
`
	codes := codesOf(t, src, "mixed.lib.sigil")
	if !hasCode(codes, diag.CanonDeclCategoryOrder) {
		t.Errorf("codes = %v, want CanonDeclCategoryOrder", codes)
	}
}

func TestValidateCanonicalDeclarationAlphabeticalOrderEnforced(t *testing.T) {
	src := `λsubtract(a:ℤ,b:ℤ)→ℤ=a-b
λadd(a:ℤ,b:ℤ)→ℤ=a+b
`
	codes := codesOf(t, src, "mixed.lib.sigil")
	if !hasCode(codes, diag.CanonDeclAlphabetical) {
		t.Errorf("codes = %v, want CanonDeclAlphabetical", codes)
	}
}

func TestValidateCanonicalExportedFunctionsComeFirst(t *testing.T) {
	src := `λaaa()→ℤ=0
export λbbb()→ℤ=0
`
	codes := codesOf(t, src, "mixed.lib.sigil")
	if !hasCode(codes, diag.CanonDeclExportOrder) {
		t.Errorf("codes = %v, want CanonDeclExportOrder", codes)
	}
}

func TestValidateCanonicalParameterOrderEnforced(t *testing.T) {
	src := `λf(b:ℤ,a:ℤ)→ℤ=a+b
`
	codes := codesOf(t, src, "params.lib.sigil")
	if !hasCode(codes, diag.CanonParamOrder) {
		t.Errorf("codes = %v, want CanonParamOrder", codes)
	}
}

func TestValidateCanonicalEffectOrderEnforced(t *testing.T) {
	src := `λreadAll()→!IO!Error 𝕊=""
`
	codes := codesOf(t, src, "effects.lib.sigil")
	if !hasCode(codes, diag.CanonEffectOrder) {
		t.Errorf("codes = %v, want CanonEffectOrder (Error < IO)", codes)
	}
}

func TestValidateCanonicalRecursionCPSRejected(t *testing.T) {
	src := `λloop(n:ℤ)→λ(ℤ)→ℤ=loop(n)
`
	codes := codesOf(t, src, "loop.lib.sigil")
	if !hasCode(codes, diag.CanonRecursionCPS) {
		t.Errorf("codes = %v, want CanonRecursionCPS", codes)
	}
}

func TestValidateCanonicalSimpleRecursionAllowed(t *testing.T) {
	src := `λsum(xs:[ℤ])→ℤ≡xs{[]→0|[h,.rest]→h+sum(rest)}
`
	codes := codesOf(t, src, "sum.lib.sigil")
	if hasCode(codes, diag.CanonRecursionCollectionNonstruct) {
		t.Errorf("codes = %v, did not want CanonRecursionCollectionNonstruct", codes)
	}
	if hasCode(codes, diag.CanonRecursionAccumulator) {
		t.Errorf("codes = %v, did not want CanonRecursionAccumulator", codes)
	}
}

func TestValidateCanonicalRecursionWithoutDestructuringRejected(t *testing.T) {
	src := `λloopForever(xs:[ℤ])→ℤ=loopForever(xs)
`
	codes := codesOf(t, src, "loop.lib.sigil")
	if !hasCode(codes, diag.CanonRecursionCollectionNonstruct) {
		t.Errorf("codes = %v, want CanonRecursionCollectionNonstruct", codes)
	}
}

func TestValidateCanonicalAccumulatorParamDetected(t *testing.T) {
	src := `λsumAcc(xs:[ℤ],acc:ℤ)→ℤ≡xs{[]→acc|[h,.rest]→sumAcc(rest,acc+h)}
`
	codes := codesOf(t, src, "sum-acc.lib.sigil")
	if !hasCode(codes, diag.CanonRecursionAccumulator) {
		t.Errorf("codes = %v, want CanonRecursionAccumulator", codes)
	}
}

func TestValidateCanonicalPassthroughParamNotAccumulator(t *testing.T) {
	src := `λwithLimit(xs:[ℤ],limit:ℤ)→ℤ≡xs{[]→limit|[h,.rest]→withLimit(rest,limit)}
`
	codes := codesOf(t, src, "with-limit.lib.sigil")
	if hasCode(codes, diag.CanonRecursionAccumulator) {
		t.Errorf("codes = %v, did not want CanonRecursionAccumulator", codes)
	}
}

func TestValidateCanonicalEOFNewlineRequired(t *testing.T) {
	src := `λmain()→𝕌=()`
	diags := ValidateCanonical(mustOne(t, src, "app.sigil"), "app.sigil", src)
	if !hasCode(diags.Codes(), diag.CanonEOFNewline) {
		t.Errorf("codes = %v, want CanonEOFNewline", diags.Codes())
	}
}

func TestValidateCanonicalNoTrailingWhitespace(t *testing.T) {
	src := "λmain()→𝕌=() \n"
	diags := ValidateCanonical(mustOne(t, src, "app.sigil"), "app.sigil", src)
	if !hasCode(diags.Codes(), diag.CanonTrailingWhitespace) {
		t.Errorf("codes = %v, want CanonTrailingWhitespace", diags.Codes())
	}
}

func TestValidateCanonicalNoConsecutiveBlankLines(t *testing.T) {
	src := "λmain()→𝕌=()\n\n\nλhelper()→ℤ=0\n"
	diags := ValidateCanonical(mustOne(t, src, "app.sigil"), "app.sigil", src)
	if !hasCode(diags.Codes(), diag.CanonBlankLines) {
		t.Errorf("codes = %v, want CanonBlankLines", diags.Codes())
	}
}

func mustOne(t *testing.T, src, file string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(src, file)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", src, err)
	}
	return prog
}
