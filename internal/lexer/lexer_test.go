package lexer

import (
	"testing"

	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
)

func TestTokenizeSimpleTokens(t *testing.T) {
	toks, err := Tokenize("λ → ≡", "test.sigil")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if len(toks) != 4 { // 3 tokens + EOF
		t.Fatalf("len(tokens) = %d, want 4", len(toks))
	}
	want := []token.Kind{token.LAMBDA, token.ARROW, token.MATCH, token.EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestTokenizeNumbers(t *testing.T) {
	toks, err := Tokenize("42 3.14", "test.sigil")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if toks[0].Kind != token.INT || toks[0].Literal != "42" {
		t.Errorf("token 0 = %s, want INT(42)", toks[0])
	}
	if toks[1].Kind != token.FLOAT || toks[1].Literal != "3.14" {
		t.Errorf("token 1 = %s, want FLOAT(3.14)", toks[1])
	}
}

func TestTokenizeNoExponentNotation(t *testing.T) {
	// The grammar has no scientific-notation floats: "1e10" lexes as the
	// integer "1" followed by the identifier "e10".
	toks, err := Tokenize("1e10", "test.sigil")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if toks[0].Kind != token.INT || toks[0].Literal != "1" {
		t.Errorf("token 0 = %s, want INT(1)", toks[0])
	}
	if toks[1].Kind != token.IDENT_LOWER || toks[1].Literal != "e10" {
		t.Errorf("token 1 = %s, want IDENT_LOWER(e10)", toks[1])
	}
}

func TestTokenizeStrings(t *testing.T) {
	toks, err := Tokenize(`"hello world"`, "test.sigil")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if toks[0].Kind != token.STRING || toks[0].Literal != "hello world" {
		t.Errorf("token 0 = %s, want STRING(hello world)", toks[0])
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, err := Tokenize(`"a\nb\t\"c\""`, "test.sigil")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	want := "a\nb\t\"c\""
	if toks[0].Literal != want {
		t.Errorf("token 0 literal = %q, want %q", toks[0].Literal, want)
	}
}

func TestTokenizeChars(t *testing.T) {
	toks, err := Tokenize(`'a'`, "test.sigil")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if toks[0].Kind != token.CHAR || toks[0].Literal != "a" {
		t.Errorf("token 0 = %s, want CHAR(a)", toks[0])
	}
}

func TestTokenizeIdentifiers(t *testing.T) {
	toks, err := Tokenize("foo Bar mut export", "test.sigil")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	want := []token.Kind{token.IDENT_LOWER, token.IDENT_UPPER, token.KW_MUT, token.KW_EXPORT}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestTokenizeOneLetterKeywordsStandaloneOnly(t *testing.T) {
	toks, err := Tokenize("t type i import", "test.sigil")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	want := []token.Kind{token.KW_TYPE, token.IDENT_LOWER, token.KW_IMPORT, token.IDENT_LOWER}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestTokenizeBooleanLiterals(t *testing.T) {
	toks, err := Tokenize("⊤ ⊥", "test.sigil")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if toks[0].Kind != token.TRUE || toks[1].Kind != token.FALSE {
		t.Errorf("tokens = %s %s, want TRUE FALSE", toks[0], toks[1])
	}
}

func TestTokenizePipelineAndCompose(t *testing.T) {
	toks, err := Tokenize("x |> f >> g << h", "test.sigil")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	want := []token.Kind{
		token.IDENT_LOWER, token.PIPE, token.IDENT_LOWER,
		token.COMPOSEFWD, token.IDENT_LOWER, token.COMPOSEBWD, token.IDENT_LOWER,
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestTokenizeMultilineComment(t *testing.T) {
	toks, err := Tokenize("⟦ this is a comment ⟧ x", "test.sigil")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if toks[0].Kind != token.IDENT_LOWER || toks[0].Literal != "x" {
		t.Errorf("token 0 = %s, want IDENT_LOWER(x)", toks[0])
	}
}

func TestTokenizeUnterminatedMultilineComment(t *testing.T) {
	_, err := Tokenize("⟦ never closes", "test.sigil")
	assertDiagCode(t, err, diag.LexUnterminatedComment)
}

func TestTokenizeTabError(t *testing.T) {
	_, err := Tokenize("foo\tbar", "test.sigil")
	assertDiagCode(t, err, diag.LexTab)
}

func TestTokenizeStandaloneCRError(t *testing.T) {
	_, err := Tokenize("foo\rbar", "test.sigil")
	assertDiagCode(t, err, diag.LexCRLF)
}

func TestTokenizeCRLFIsNewline(t *testing.T) {
	toks, err := Tokenize("foo\r\nbar", "test.sigil")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if toks[1].Kind != token.NEWLINE {
		t.Errorf("token 1 kind = %s, want NEWLINE", toks[1].Kind)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize(`"unterminated`, "test.sigil")
	assertDiagCode(t, err, diag.LexUnterminatedString)
}

func TestTokenizeUnterminatedStringAtNewline(t *testing.T) {
	_, err := Tokenize("\"foo\nbar\"", "test.sigil")
	assertDiagCode(t, err, diag.LexUnterminatedString)
}

func TestTokenizeEmptyChar(t *testing.T) {
	_, err := Tokenize(`''`, "test.sigil")
	assertDiagCode(t, err, diag.LexEmptyChar)
}

func TestTokenizeCharLength(t *testing.T) {
	_, err := Tokenize(`'ab'`, "test.sigil")
	assertDiagCode(t, err, diag.LexCharLength)
}

func TestTokenizeInvalidEscape(t *testing.T) {
	_, err := Tokenize(`"\q"`, "test.sigil")
	assertDiagCode(t, err, diag.LexInvalidEscape)
}

func TestTokenizeUnexpectedChar(t *testing.T) {
	_, err := Tokenize("@", "test.sigil")
	assertDiagCode(t, err, diag.LexUnexpectedChar)
}

func TestTokenizeUnexpectedCharRejectsBOM(t *testing.T) {
	_, err := Tokenize("\xef\xbb\xbfx", "test.sigil")
	assertDiagCode(t, err, diag.LexUnexpectedChar)
}

func TestTokenizeDelimitersAndPunctuation(t *testing.T) {
	toks, err := Tokenize("(){}[],:;_&", "test.sigil")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	want := []token.Kind{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACKET, token.RBRACKET, token.COMMA, token.COLON,
		token.SEMICOLON, token.UNDERSCORE, token.AMPERSAND,
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestTokenizeEOFSpanIsZeroWidth(t *testing.T) {
	toks, err := Tokenize("x", "test.sigil")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	eof := toks[len(toks)-1]
	if eof.Kind != token.EOF {
		t.Fatalf("last token kind = %s, want EOF", eof.Kind)
	}
	if eof.Span.Start != eof.Span.End {
		t.Errorf("EOF span is not zero-width: %+v", eof.Span)
	}
}

func assertDiagCode(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", want)
	}
	d, ok := diag.AsDiagnostic(err)
	if !ok {
		t.Fatalf("error %v is not a *diag.Diagnostic", err)
	}
	if d.Code != want {
		t.Errorf("diagnostic code = %s, want %s", d.Code, want)
	}
}
