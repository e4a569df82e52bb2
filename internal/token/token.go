// Package token defines the lexical token kinds produced by
// internal/lexer and consumed by internal/parser.
package token

import (
	"fmt"

	"github.com/sigil-lang/sigil/internal/source"
)

// Kind identifies the lexical category of a Token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF
	NEWLINE

	// Literals
	IDENT_LOWER // identifier starting with a lowercase letter
	IDENT_UPPER // identifier starting with an uppercase letter
	INT
	FLOAT
	STRING
	CHAR
	TRUE  // ⊤
	FALSE // ⊥

	// One-letter declaration keywords, valid only as a standalone lexeme.
	KW_TYPE   // t
	KW_IMPORT // i
	KW_EXTERN // e
	KW_LET    // l
	KW_CONST  // c

	// Multi-letter keywords.
	KW_MUT
	KW_MOCKABLE
	KW_WITH_MOCK
	KW_WHEN
	KW_EXPORT

	// Unicode operator and type symbols.
	LAMBDA      // λ
	ARROW       // →
	MATCH       // ≡
	NAMESPACESEP // ⋅
	AND         // ∧
	OR          // ∨
	NOT         // ¬
	LESSEQ      // ≤
	GREATEREQ   // ≥
	NOTEQUAL    // ≠
	MAP         // ↦
	FILTER      // ⊳
	FOLD        // ⊕
	LISTAPPEND  // ⧺
	TYPE_INT    // ℤ
	TYPE_FLOAT  // ℝ
	TYPE_BOOL   // 𝔹
	TYPE_STRING // 𝕊
	TYPE_CHAR   // ℂ
	TYPE_UNIT   // 𝕌
	TYPE_NEVER  // ∅

	// ASCII operators and multi-char combinations.
	PIPE        // |> (pipeline operator)
	PIPESEP     // | (record/pattern separator)
	COMPOSEFWD  // >>
	COMPOSEBWD  // <<
	APPEND      // ++ (list append)
	DOTDOT      // ..
	PLUS        // +
	MINUS       // -
	STAR        // *
	SLASH       // /
	PERCENT     // %
	CARET       // ^
	EQUAL       // =
	LESS        // <
	GREATER     // >
	HASH        // #
	BANG        // !
	DOT         // .
	COMMA       // ,
	COLON       // :
	SEMICOLON   // ;

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET

	UNDERSCORE // _ as its own lexeme, distinct from identifier scanning
	AMPERSAND  // &
)

var names = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	NEWLINE: "NEWLINE",

	IDENT_LOWER: "IDENT_LOWER",
	IDENT_UPPER: "IDENT_UPPER",
	INT:         "INT",
	FLOAT:       "FLOAT",
	STRING:      "STRING",
	CHAR:        "CHAR",
	TRUE:        "⊤",
	FALSE:       "⊥",

	KW_TYPE:   "t",
	KW_IMPORT: "i",
	KW_EXTERN: "e",
	KW_LET:    "l",
	KW_CONST:  "c",

	KW_MUT:       "mut",
	KW_MOCKABLE:  "mockable",
	KW_WITH_MOCK: "with_mock",
	KW_WHEN:      "when",
	KW_EXPORT:    "export",

	LAMBDA:       "λ",
	ARROW:        "→",
	MATCH:        "≡",
	NAMESPACESEP: "⋅",
	AND:          "∧",
	OR:           "∨",
	NOT:          "¬",
	LESSEQ:       "≤",
	GREATEREQ:    "≥",
	NOTEQUAL:     "≠",
	MAP:          "↦",
	FILTER:       "⊳",
	FOLD:         "⊕",
	LISTAPPEND:   "⧺",
	TYPE_INT:     "ℤ",
	TYPE_FLOAT:   "ℝ",
	TYPE_BOOL:    "𝔹",
	TYPE_STRING:  "𝕊",
	TYPE_CHAR:    "ℂ",
	TYPE_UNIT:    "𝕌",
	TYPE_NEVER:   "∅",

	PIPE:       "|>",
	PIPESEP:    "|",
	COMPOSEFWD: ">>",
	COMPOSEBWD: "<<",
	APPEND:     "++",
	DOTDOT:     "..",
	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	SLASH:      "/",
	PERCENT:    "%",
	CARET:      "^",
	EQUAL:      "=",
	LESS:       "<",
	GREATER:    ">",
	HASH:       "#",
	BANG:       "!",
	DOT:        ".",
	COMMA:      ",",
	COLON:      ":",
	SEMICOLON:  ";",

	LPAREN:   "(",
	RPAREN:   ")",
	LBRACE:   "{",
	RBRACE:   "}",
	LBRACKET: "[",
	RBRACKET: "]",

	UNDERSCORE: "_",
	AMPERSAND:  "&",
}

func (k Kind) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// oneLetterKeywords maps the standalone one-letter lexeme to its kind.
// The lexer consults this only when the identifier it scanned is
// exactly one scalar long; a longer identifier beginning with the same
// letter (e.g. "type") is always IDENT_LOWER.
var oneLetterKeywords = map[string]Kind{
	"t": KW_TYPE,
	"i": KW_IMPORT,
	"e": KW_EXTERN,
	"l": KW_LET,
	"c": KW_CONST,
}

// multiLetterKeywords maps reserved multi-character words to their kind.
var multiLetterKeywords = map[string]Kind{
	"mut":       KW_MUT,
	"mockable":  KW_MOCKABLE,
	"with_mock": KW_WITH_MOCK,
	"when":      KW_WHEN,
	"export":    KW_EXPORT,
}

// LookupIdent classifies an already-scanned identifier lexeme, applying
// the one-letter-keyword-wins-only-standalone rule and falling back to
// IDENT_LOWER/IDENT_UPPER by the first rune's case.
func LookupIdent(ident string, firstUpper bool) Kind {
	if len([]rune(ident)) == 1 {
		if kind, ok := oneLetterKeywords[ident]; ok {
			return kind
		}
	}
	if kind, ok := multiLetterKeywords[ident]; ok {
		return kind
	}
	if firstUpper {
		return IDENT_UPPER
	}
	return IDENT_LOWER
}

// Token is one lexical unit: its kind, the exact source text it was
// scanned from, and the span it occupies.
type Token struct {
	Kind    Kind
	Literal string
	Span    source.Span
}

// New builds a Token.
func New(kind Kind, literal string, span source.Span) Token {
	return Token{Kind: kind, Literal: literal, Span: span}
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Literal, t.Span.Start)
}

// EffectNames is the closed set of five effect names accepted after an
// effect marker in a function's return-type position.
var EffectNames = map[string]bool{
	"IO":      true,
	"Network": true,
	"Async":   true,
	"Error":   true,
	"Mut":     true,
}
