package parser

import (
	"testing"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
)

func parsePattern(t *testing.T, src string) ast.Pattern {
	t.Helper()
	expr := parseOne(t, `λmain()→ℤ≡0{`+src+`→1|_→0}`).(*ast.FunctionDecl).Body
	return expr.(*ast.MatchExpr).Arms[0].Pattern
}

func TestParseLiteralPatterns(t *testing.T) {
	if p, ok := parsePattern(t, `42`).(*ast.LiteralPattern); !ok || p.Kind != ast.LitInt {
		t.Errorf("int pattern wrong: %+v", p)
	}
	if p, ok := parsePattern(t, `"s"`).(*ast.LiteralPattern); !ok || p.Kind != ast.LitString {
		t.Errorf("string pattern wrong: %+v", p)
	}
	if p, ok := parsePattern(t, `⊤`).(*ast.LiteralPattern); !ok || p.Kind != ast.LitBool {
		t.Errorf("bool pattern wrong: %+v", p)
	}
}

func TestParseWildcardPattern(t *testing.T) {
	if _, ok := parsePattern(t, `_`).(*ast.WildcardPattern); !ok {
		t.Errorf("expected *ast.WildcardPattern")
	}
}

func TestParseIdentifierPattern(t *testing.T) {
	p, ok := parsePattern(t, `x`).(*ast.IdentifierPattern)
	if !ok || p.Name != "x" {
		t.Errorf("pattern = %+v, want IdentifierPattern{x}", p)
	}
}

func TestParseConstructorPatternWithSubPatterns(t *testing.T) {
	p, ok := parsePattern(t, `Some(x)`).(*ast.ConstructorPattern)
	if !ok {
		t.Fatalf("pattern is %T, want *ast.ConstructorPattern", p)
	}
	if p.Name != "Some" || len(p.Patterns) != 1 {
		t.Errorf("pattern = %+v, want Some(x)", p)
	}
}

func TestParseConstructorPatternNoPayload(t *testing.T) {
	p, ok := parsePattern(t, `None`).(*ast.ConstructorPattern)
	if !ok || p.Name != "None" || p.Patterns != nil {
		t.Errorf("pattern = %+v, want None with no patterns", p)
	}
}

func TestParseListPatternWithRest(t *testing.T) {
	p, ok := parsePattern(t, `[x,y,.rest]`).(*ast.ListPattern)
	if !ok {
		t.Fatalf("pattern is %T, want *ast.ListPattern", p)
	}
	if len(p.Patterns) != 2 || !p.HasRest || p.Rest != "rest" {
		t.Errorf("pattern = %+v, want [x,y,.rest]", p)
	}
}

func TestParseListPatternEmpty(t *testing.T) {
	p, ok := parsePattern(t, `[]`).(*ast.ListPattern)
	if !ok || len(p.Patterns) != 0 || p.HasRest {
		t.Errorf("pattern = %+v, want empty list pattern", p)
	}
}

func TestParseRecordPattern(t *testing.T) {
	p, ok := parsePattern(t, `{x,y:value}`).(*ast.RecordPattern)
	if !ok {
		t.Fatalf("pattern is %T, want *ast.RecordPattern", p)
	}
	if len(p.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(p.Fields))
	}
	if p.Fields[0].Name != "x" || p.Fields[0].Pattern != nil {
		t.Errorf("Fields[0] = %+v, want shorthand x with no sub-pattern", p.Fields[0])
	}
	if p.Fields[1].Name != "y" || p.Fields[1].Pattern == nil {
		t.Errorf("Fields[1] = %+v, want y: value", p.Fields[1])
	}
}

func TestParseTuplePattern(t *testing.T) {
	p, ok := parsePattern(t, `(a,b,d)`).(*ast.TuplePattern)
	if !ok || len(p.Patterns) != 3 {
		t.Errorf("pattern = %+v, want 3-tuple pattern", p)
	}
}

func TestParseLetLocalBindingKeywordCollisionIsError(t *testing.T) {
	err := parseErr(t, `λmain()→ℤ=l t=1;t`)
	wantCode(t, err, diag.ParseLocalBinding)
}
