package parser

import (
	"testing"

	"github.com/sigil-lang/sigil/internal/ast"
)

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	decl := parseOne(t, `λmain()→ℤ=`+src)
	return decl.(*ast.FunctionDecl).Body
}

func TestParsePrecedenceMultiplicativeBeforeAdditive(t *testing.T) {
	expr := parseExpr(t, `1+2*3`)
	bin := expr.(*ast.BinaryExpr)
	if bin.Operator != ast.OpAdd {
		t.Fatalf("top operator = %s, want +", bin.Operator)
	}
	if _, ok := bin.Right.(*ast.BinaryExpr); !ok {
		t.Errorf("Right is %T, want *ast.BinaryExpr (2*3)", bin.Right)
	}
	if _, ok := bin.Left.(*ast.LiteralExpr); !ok {
		t.Errorf("Left is %T, want *ast.LiteralExpr", bin.Left)
	}
}

func TestParsePrecedenceComparisonBeforeLogical(t *testing.T) {
	expr := parseExpr(t, `1<2∧3>4`)
	bin := expr.(*ast.BinaryExpr)
	if bin.Operator != ast.OpAnd {
		t.Fatalf("top operator = %s, want ∧", bin.Operator)
	}
	left, ok := bin.Left.(*ast.BinaryExpr)
	if !ok || left.Operator != ast.OpLess {
		t.Errorf("Left = %+v, want 1<2", bin.Left)
	}
}

func TestParsePrecedenceUnaryBindsTighterThanMultiplicative(t *testing.T) {
	expr := parseExpr(t, `-1*2`)
	bin := expr.(*ast.BinaryExpr)
	if bin.Operator != ast.OpMultiply {
		t.Fatalf("top operator = %s, want *", bin.Operator)
	}
	if _, ok := bin.Left.(*ast.UnaryExpr); !ok {
		t.Errorf("Left is %T, want *ast.UnaryExpr", bin.Left)
	}
}

func TestParsePostfixApplicationFieldIndex(t *testing.T) {
	expr := parseExpr(t, `f(1,2).field[0]`)
	idx, ok := expr.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("expr is %T, want *ast.IndexExpr", expr)
	}
	fa, ok := idx.Object.(*ast.FieldAccessExpr)
	if !ok {
		t.Fatalf("idx.Object is %T, want *ast.FieldAccessExpr", idx.Object)
	}
	if fa.Field != "field" {
		t.Errorf("Field = %q, want %q", fa.Field, "field")
	}
	app, ok := fa.Object.(*ast.ApplicationExpr)
	if !ok {
		t.Fatalf("fa.Object is %T, want *ast.ApplicationExpr", fa.Object)
	}
	if len(app.Args) != 2 {
		t.Errorf("len(Args) = %d, want 2", len(app.Args))
	}
}

func TestParsePipeline(t *testing.T) {
	expr := parseExpr(t, `xs|>double`)
	pipe, ok := expr.(*ast.PipelineExpr)
	if !ok {
		t.Fatalf("expr is %T, want *ast.PipelineExpr", expr)
	}
	if pipe.Operator != ast.PipePipe {
		t.Errorf("Operator = %s, want |>", pipe.Operator)
	}
}

func TestParseComposeOperators(t *testing.T) {
	fwd := parseExpr(t, `f>>g`).(*ast.PipelineExpr)
	if fwd.Operator != ast.PipeComposeFwd {
		t.Errorf("fwd Operator = %s, want >>", fwd.Operator)
	}
	bwd := parseExpr(t, `f<<g`).(*ast.PipelineExpr)
	if bwd.Operator != ast.PipeComposeBwd {
		t.Errorf("bwd Operator = %s, want <<", bwd.Operator)
	}
}

func TestParseListOperationsMapFilterFold(t *testing.T) {
	m := parseExpr(t, `xs↦double`)
	if _, ok := m.(*ast.MapExpr); !ok {
		t.Errorf("map expr is %T, want *ast.MapExpr", m)
	}
	f := parseExpr(t, `xs⊳isEven`)
	if _, ok := f.(*ast.FilterExpr); !ok {
		t.Errorf("filter expr is %T, want *ast.FilterExpr", f)
	}
	fold := parseExpr(t, `xs⊕add⊕0`).(*ast.FoldExpr)
	if _, ok := fold.Init.(*ast.LiteralExpr); !ok {
		t.Errorf("Init is %T, want *ast.LiteralExpr", fold.Init)
	}
}

func TestParseLambdaExpression(t *testing.T) {
	expr := parseExpr(t, `λ(x:ℤ)→ℤ{x+1}`)
	lam, ok := expr.(*ast.LambdaExpr)
	if !ok {
		t.Fatalf("expr is %T, want *ast.LambdaExpr", expr)
	}
	if len(lam.Params) != 1 {
		t.Errorf("len(Params) = %d, want 1", len(lam.Params))
	}
}

func TestParseMatchExpression(t *testing.T) {
	expr := parseOne(t, `λmain()→ℤ≡x{0→"zero"|_ when x<0→"negative"|_→"other"}`).(*ast.FunctionDecl).Body
	m, ok := expr.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("expr is %T, want *ast.MatchExpr", expr)
	}
	if len(m.Arms) != 3 {
		t.Fatalf("len(Arms) = %d, want 3", len(m.Arms))
	}
	if m.Arms[1].Guard == nil {
		t.Errorf("Arms[1].Guard = nil, want a guard expression")
	}
}

func TestParseLetExpressionSemicolonForm(t *testing.T) {
	expr := parseExpr(t, `l x=1;x+1`)
	let, ok := expr.(*ast.LetExpr)
	if !ok {
		t.Fatalf("expr is %T, want *ast.LetExpr", expr)
	}
	if _, ok := let.Pattern.(*ast.IdentifierPattern); !ok {
		t.Errorf("Pattern is %T, want *ast.IdentifierPattern", let.Pattern)
	}
}

func TestParseListExpression(t *testing.T) {
	expr := parseExpr(t, `[1,2,3]`)
	lst, ok := expr.(*ast.ListExpr)
	if !ok {
		t.Fatalf("expr is %T, want *ast.ListExpr", expr)
	}
	if len(lst.Elements) != 3 {
		t.Errorf("len(Elements) = %d, want 3", len(lst.Elements))
	}
}

func TestParseRecordExpression(t *testing.T) {
	expr := parseExpr(t, `{x:1,y:2}`)
	rec, ok := expr.(*ast.RecordExpr)
	if !ok {
		t.Fatalf("expr is %T, want *ast.RecordExpr", expr)
	}
	if len(rec.Fields) != 2 {
		t.Errorf("len(Fields) = %d, want 2", len(rec.Fields))
	}
}

func TestParseGroupedExpression(t *testing.T) {
	expr := parseExpr(t, `(1+2)*3`)
	bin := expr.(*ast.BinaryExpr)
	if bin.Operator != ast.OpMultiply {
		t.Fatalf("top operator = %s, want *", bin.Operator)
	}
	if _, ok := bin.Left.(*ast.BinaryExpr); !ok {
		t.Errorf("Left is %T, want *ast.BinaryExpr", bin.Left)
	}
}

func TestParseTupleExpression(t *testing.T) {
	expr := parseExpr(t, `(1,2,3)`)
	tup, ok := expr.(*ast.TupleExpr)
	if !ok {
		t.Fatalf("expr is %T, want *ast.TupleExpr", expr)
	}
	if len(tup.Elements) != 3 {
		t.Errorf("len(Elements) = %d, want 3", len(tup.Elements))
	}
}

func TestParseUnitLiteral(t *testing.T) {
	expr := parseExpr(t, `()`)
	lit, ok := expr.(*ast.LiteralExpr)
	if !ok || lit.Kind != ast.LitUnit {
		t.Fatalf("expr = %+v, want unit literal", expr)
	}
}

func TestParseTypeAscriptionExpression(t *testing.T) {
	expr := parseExpr(t, `(3:ℤ)`)
	asc, ok := expr.(*ast.TypeAscriptionExpr)
	if !ok {
		t.Fatalf("expr is %T, want *ast.TypeAscriptionExpr", expr)
	}
	if _, ok := asc.AscribedType.(*ast.PrimitiveType); !ok {
		t.Errorf("AscribedType is %T, want *ast.PrimitiveType", asc.AscribedType)
	}
}

func TestParseMemberAccessExpression(t *testing.T) {
	expr := parseExpr(t, `os⋅env.home`)
	mem, ok := expr.(*ast.MemberAccessExpr)
	if !ok {
		t.Fatalf("expr is %T, want *ast.MemberAccessExpr", expr)
	}
	if mem.Member != "home" {
		t.Errorf("Member = %q, want %q", mem.Member, "home")
	}
}

func TestParseWithMockExpression(t *testing.T) {
	expr := parseExpr(t, `with_mock now fakeNow{1}`)
	wm, ok := expr.(*ast.WithMockExpr)
	if !ok {
		t.Fatalf("expr is %T, want *ast.WithMockExpr", expr)
	}
	if _, ok := wm.Target.(*ast.IdentifierExpr); !ok {
		t.Errorf("Target is %T, want *ast.IdentifierExpr", wm.Target)
	}
}

func TestParseInvalidIntLiteralIsError(t *testing.T) {
	// 64-bit overflow: strconv.ParseInt rejects it, exercising errorAt.
	parseErr(t, `λmain()→ℤ=99999999999999999999`)
}
