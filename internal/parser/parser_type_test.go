package parser

import (
	"testing"

	"github.com/sigil-lang/sigil/internal/ast"
)

func parseParamType(t *testing.T, typeSrc string) ast.Type {
	t.Helper()
	decl := parseOne(t, `λf(x:`+typeSrc+`)→ℤ=0`)
	return decl.(*ast.FunctionDecl).Params[0].TypeAnnotation
}

func TestParsePrimitiveTypes(t *testing.T) {
	cases := map[string]ast.PrimitiveName{
		"ℤ": ast.PrimInt,
		"ℝ": ast.PrimFloat,
		"𝔹": ast.PrimBool,
		"𝕊": ast.PrimString,
		"ℂ": ast.PrimChar,
		"𝕌": ast.PrimUnit,
	}
	for src, want := range cases {
		typ, ok := parseParamType(t, src).(*ast.PrimitiveType)
		if !ok || typ.Name != want {
			t.Errorf("parseType(%q) = %+v, want PrimitiveType{%s}", src, typ, want)
		}
	}
}

func TestParseListType(t *testing.T) {
	typ, ok := parseParamType(t, `[ℤ]`).(*ast.ListType)
	if !ok {
		t.Fatalf("type is %T, want *ast.ListType", typ)
	}
	if _, ok := typ.ElementType.(*ast.PrimitiveType); !ok {
		t.Errorf("ElementType is %T, want *ast.PrimitiveType", typ.ElementType)
	}
}

func TestParseMapType(t *testing.T) {
	typ, ok := parseParamType(t, `{𝕊:ℤ}`).(*ast.MapType)
	if !ok {
		t.Fatalf("type is %T, want *ast.MapType", typ)
	}
	if _, ok := typ.KeyType.(*ast.PrimitiveType); !ok {
		t.Errorf("KeyType is %T, want *ast.PrimitiveType", typ.KeyType)
	}
}

func TestParseFunctionType(t *testing.T) {
	typ, ok := parseParamType(t, `λ(ℤ,ℤ)→!IO ℤ`).(*ast.FunctionType)
	if !ok {
		t.Fatalf("type is %T, want *ast.FunctionType", typ)
	}
	if len(typ.ParamTypes) != 2 {
		t.Errorf("len(ParamTypes) = %d, want 2", len(typ.ParamTypes))
	}
	if len(typ.Effects) != 1 || typ.Effects[0] != "IO" {
		t.Errorf("Effects = %v, want [IO]", typ.Effects)
	}
}

func TestParseQualifiedType(t *testing.T) {
	typ, ok := parseParamType(t, `std⋅io.Reader`).(*ast.QualifiedType)
	if !ok {
		t.Fatalf("type is %T, want *ast.QualifiedType", typ)
	}
	if typ.TypeName != "Reader" {
		t.Errorf("TypeName = %q, want %q", typ.TypeName, "Reader")
	}
	if len(typ.ModulePath) != 2 || typ.ModulePath[0] != "std" || typ.ModulePath[1] != "io" {
		t.Errorf("ModulePath = %v, want [std io]", typ.ModulePath)
	}
}

func TestParseTypeConstructorWithArgs(t *testing.T) {
	typ, ok := parseParamType(t, `Result[ℤ,𝕊]`).(*ast.TypeConstructor)
	if !ok {
		t.Fatalf("type is %T, want *ast.TypeConstructor", typ)
	}
	if typ.Name != "Result" || len(typ.TypeArgs) != 2 {
		t.Errorf("type = %+v, want Result[ℤ,𝕊]", typ)
	}
}

func TestParseTypeVariable(t *testing.T) {
	typ, ok := parseParamType(t, `T`).(*ast.TypeVariable)
	if !ok || typ.Name != "T" {
		t.Errorf("type = %+v, want TypeVariable{T}", typ)
	}
}

func TestParseTupleType(t *testing.T) {
	typ, ok := parseParamType(t, `(ℤ,𝕊)`).(*ast.TupleType)
	if !ok || len(typ.Types) != 2 {
		t.Errorf("type = %+v, want 2-element TupleType", typ)
	}
}

func TestParseBareLowercaseWithoutQualifiedPathIsError(t *testing.T) {
	parseErr(t, `λf(x:bogus)→ℤ=0`)
}
