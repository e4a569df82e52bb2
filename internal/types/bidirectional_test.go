package types

import (
	"testing"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/parser"
)

func checkSource(t *testing.T, src string) (map[string]InferenceType, error) {
	t.Helper()
	prog, err := parser.Parse(src, "test.sigil")
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", src, err)
	}
	return TypeCheck(prog, Options{SourceFile: "test.sigil"})
}

func diagCode(t *testing.T, err error) string {
	t.Helper()
	d, ok := diag.AsDiagnostic(err)
	if !ok {
		t.Fatalf("error %v is not a diagnostic", err)
	}
	return d.Code
}

func TestTypeCheckFunctionReturningLiteral(t *testing.T) {
	bindings, err := checkSource(t, `λanswer()→ℤ=42`)
	if err != nil {
		t.Fatalf("TypeCheck() error = %v", err)
	}
	fn, ok := bindings["answer"].(Function)
	if !ok {
		t.Fatalf("answer = %T, want Function", bindings["answer"])
	}
	if !TypesEqual(fn.ReturnType, Primitive{Name: ast.PrimInt}) {
		t.Errorf("answer's return type = %s, want ℤ", FormatType(fn.ReturnType))
	}
}

func TestTypeCheckReturnTypeMismatch(t *testing.T) {
	_, err := checkSource(t, `λanswer()→𝕊=42`)
	if err == nil {
		t.Fatalf("TypeCheck() succeeded, want a type mismatch")
	}
	if code := diagCode(t, err); code != diag.TypeError {
		t.Errorf("code = %s, want %s", code, diag.TypeError)
	}
}

func TestTypeCheckParamUsedInBody(t *testing.T) {
	bindings, err := checkSource(t, `λadd(a:ℤ,b:ℤ)→ℤ=a+b`)
	if err != nil {
		t.Fatalf("TypeCheck() error = %v", err)
	}
	fn := bindings["add"].(Function)
	if len(fn.Params) != 2 {
		t.Fatalf("add params = %v, want 2", fn.Params)
	}
}

func TestTypeCheckBinaryOperandMismatch(t *testing.T) {
	_, err := checkSource(t, `λbad()→ℤ=1+"x"`)
	if err == nil {
		t.Fatalf("TypeCheck() succeeded, want a type error")
	}
	if code := diagCode(t, err); code != diag.TypeError {
		t.Errorf("code = %s, want %s", code, diag.TypeError)
	}
}

func TestTypeCheckMatchExpression(t *testing.T) {
	bindings, err := checkSource(t, `λabs(x:ℤ)→ℤ≡x{0→0|_→x}`)
	if err != nil {
		t.Fatalf("TypeCheck() error = %v", err)
	}
	if _, ok := bindings["abs"]; !ok {
		t.Fatalf("abs missing from bindings")
	}
}

func TestTypeCheckMatchArmsMustAgree(t *testing.T) {
	_, err := checkSource(t, `λbad(x:ℤ)→ℤ≡x{0→0|_→"other"}`)
	if err == nil {
		t.Fatalf("TypeCheck() succeeded, want disagreeing arm types to be rejected")
	}
	if code := diagCode(t, err); code != diag.TypeError {
		t.Errorf("code = %s, want %s", code, diag.TypeError)
	}
}

func TestTypeCheckLetExpression(t *testing.T) {
	bindings, err := checkSource(t, `λtwice(x:ℤ)→ℤ=l y=x+x;y`)
	if err != nil {
		t.Fatalf("TypeCheck() error = %v", err)
	}
	if _, ok := bindings["twice"]; !ok {
		t.Fatalf("twice missing from bindings")
	}
}

func TestTypeCheckSumTypeConstructorAndMatch(t *testing.T) {
	src := "t Maybe[T]=Some(T)|None\n" +
		"λunwrap(m:Maybe[ℤ])→ℤ≡m{Some(x)→x|None→0}\n"
	bindings, err := checkSource(t, src)
	if err != nil {
		t.Fatalf("TypeCheck() error = %v", err)
	}
	if _, ok := bindings["unwrap"]; !ok {
		t.Fatalf("unwrap missing from bindings")
	}
	if _, ok := bindings["Some"].(Function); !ok {
		t.Errorf("Some = %T, want Function constructor", bindings["Some"])
	}
	if _, ok := bindings["None"]; !ok {
		t.Errorf("None missing from bindings")
	}
}

func TestTypeCheckSumTypeConstructorApplication(t *testing.T) {
	src := "t Maybe[T]=Some(T)|None\n" +
		"λwrap(x:ℤ)→Maybe[ℤ]=Some(x)\n"
	if _, err := checkSource(t, src); err != nil {
		t.Fatalf("TypeCheck() error = %v", err)
	}
}

func TestTypeCheckConstDeclMatchesAnnotation(t *testing.T) {
	bindings, err := checkSource(t, `c maxRetries=(3:ℤ)`)
	if err != nil {
		t.Fatalf("TypeCheck() error = %v", err)
	}
	if _, ok := bindings["maxRetries"]; !ok {
		t.Fatalf("maxRetries missing from bindings")
	}
}

func TestTypeCheckListLiteralElementsMustAgree(t *testing.T) {
	_, err := checkSource(t, `λbad()→[ℤ]=[1,"x"]`)
	if err == nil {
		t.Fatalf("TypeCheck() succeeded, want a type error")
	}
	if code := diagCode(t, err); code != diag.TypeError {
		t.Errorf("code = %s, want %s", code, diag.TypeError)
	}
}

func TestTypeCheckNamedProductTypeFieldAccess(t *testing.T) {
	src := "t Point={x:ℤ,y:ℤ}\n" +
		"λgetX(p:Point)→ℤ=p.x\n"
	bindings, err := checkSource(t, src)
	if err != nil {
		t.Fatalf("TypeCheck() error = %v", err)
	}
	if _, ok := bindings["getX"]; !ok {
		t.Fatalf("getX missing from bindings")
	}
}

func TestTypeCheckRecordLiteralFieldAccess(t *testing.T) {
	bindings, err := checkSource(t, `λgetX()→ℤ={x:1,y:2}.x`)
	if err != nil {
		t.Fatalf("TypeCheck() error = %v", err)
	}
	if _, ok := bindings["getX"]; !ok {
		t.Fatalf("getX missing from bindings")
	}
}

func TestTypeCheckUndefinedNameIsAnError(t *testing.T) {
	_, err := checkSource(t, `λbad()→ℤ=unknownName`)
	if err == nil {
		t.Fatalf("TypeCheck() succeeded, want an undefined-name error")
	}
	if code := diagCode(t, err); code != diag.TypeError {
		t.Errorf("code = %s, want %s", code, diag.TypeError)
	}
}

func TestTypeCheckExternNamespaceMemberAccess(t *testing.T) {
	src := "e os⋅env:{home:𝕊}\n" +
		"λgetHome()→𝕊=os⋅env.home\n"
	bindings, err := checkSource(t, src)
	if err != nil {
		t.Fatalf("TypeCheck() error = %v", err)
	}
	if _, ok := bindings["getHome"]; !ok {
		t.Fatalf("getHome missing from bindings")
	}
}

func TestTypeCheckImportBindsNamespaceFromOptions(t *testing.T) {
	prog, err := parser.Parse("i std⋅util\nλuseIt()→ℤ=(std⋅util.helper:ℤ)\n", "test.sigil")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	opts := Options{
		SourceFile: "test.sigil",
		ImportedNamespaces: map[string]InferenceType{
			"std⋅util": Record{Fields: []RecordField{{Name: "helper", Type: Primitive{Name: ast.PrimInt}}}},
		},
	}
	if _, err := TypeCheck(prog, opts); err != nil {
		t.Fatalf("TypeCheck() error = %v", err)
	}
}

func TestTypeCheckQualifiedTypeNotExported(t *testing.T) {
	prog, err := parser.Parse("λuseIt(x:src⋅models.User)→𝕌=()\n", "test.sigil")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	opts := Options{
		SourceFile:             "test.sigil",
		ImportedTypeRegistries: map[string]map[string]TypeInfo{"src⋅models": {"Account": TypeInfo{}}},
	}
	_, err = TypeCheck(prog, opts)
	if err == nil {
		t.Fatalf("TypeCheck() succeeded, want SIGIL-TYPE-MODULE-NOT-EXPORTED")
	}
	if code := diagCode(t, err); code != diag.TypeModuleNotExported {
		t.Errorf("code = %s, want %s", code, diag.TypeModuleNotExported)
	}
}

func TestTypeCheckApplicationEffectMustBeDeclared(t *testing.T) {
	src := "e io⋅console:{log:λ(𝕊)→!IO 𝕌}\n" +
		"λgreet(name:𝕊)→𝕌=io⋅console.log(name)\n"
	_, err := checkSource(t, src)
	if err == nil {
		t.Fatalf("TypeCheck() succeeded, want an undeclared-effect error")
	}
	if code := diagCode(t, err); code != diag.TypeError {
		t.Errorf("code = %s, want %s", code, diag.TypeError)
	}
}

func TestTypeCheckApplicationEffectDeclaredIsAccepted(t *testing.T) {
	src := "e io⋅console:{log:λ(𝕊)→!IO 𝕌}\n" +
		"λgreet(name:𝕊)→!IO 𝕌=io⋅console.log(name)\n"
	if _, err := checkSource(t, src); err != nil {
		t.Fatalf("TypeCheck() error = %v", err)
	}
}

func TestTypeCheckWithMockRequiresMockableTarget(t *testing.T) {
	src := "λnow()→ℤ=0\n" +
		"λfakeNow()→ℤ=1\n" +
		"λuseIt()→ℤ=with_mock now fakeNow{now()}\n"
	_, err := checkSource(t, src)
	if err == nil {
		t.Fatalf("TypeCheck() succeeded, want now to be rejected as non-mockable")
	}
	if code := diagCode(t, err); code != diag.TypeError {
		t.Errorf("code = %s, want %s", code, diag.TypeError)
	}
}

func TestTypeCheckWithMockAcceptsMockableTarget(t *testing.T) {
	src := "mockable λnow()→ℤ=0\n" +
		"λfakeNow()→ℤ=1\n" +
		"λuseIt()→ℤ=with_mock now fakeNow{now()}\n"
	if _, err := checkSource(t, src); err != nil {
		t.Fatalf("TypeCheck() error = %v", err)
	}
}

func TestTypeCheckWithMockReplacementMustMatchTargetType(t *testing.T) {
	src := "mockable λnow()→ℤ=0\n" +
		"λfakeNow()→𝕊=\"now\"\n" +
		"λuseIt()→ℤ=with_mock now fakeNow{now()}\n"
	_, err := checkSource(t, src)
	if err == nil {
		t.Fatalf("TypeCheck() succeeded, want a replacement-type mismatch")
	}
	if code := diagCode(t, err); code != diag.TypeError {
		t.Errorf("code = %s, want %s", code, diag.TypeError)
	}
}

func TestTypeCheckTestDeclBodyChecksAgainstItsOwnEffects(t *testing.T) {
	src := "e io⋅console:{log:λ(𝕊)→!IO 𝕌}\n" +
		"test \"logs a greeting\"!IO{io⋅console.log(\"hi\")}\n"
	if _, err := checkSource(t, src); err != nil {
		t.Fatalf("TypeCheck() error = %v", err)
	}
}
