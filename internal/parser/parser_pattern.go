package parser

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/token"
)

// pattern parses one pattern: literal, wildcard, constructor,
// identifier, list, record, or tuple.
func (p *Parser) pattern() (ast.Pattern, error) {
	if lit, ok, err := p.tryLiteralPattern(); ok || err != nil {
		return lit, err
	}

	if p.match(token.UNDERSCORE) {
		return &ast.WildcardPattern{Loc: p.previous().Span}, nil
	}

	if p.check(token.IDENT_UPPER) {
		start := p.advance()
		name := start.Literal

		if p.match(token.LPAREN) {
			var patterns []ast.Pattern
			if !p.check(token.RPAREN) {
				for {
					sub, err := p.pattern()
					if err != nil {
						return nil, err
					}
					patterns = append(patterns, sub)
					if !p.match(token.COMMA) {
						break
					}
				}
			}
			if _, err := p.consume(token.RPAREN, "expected \")\""); err != nil {
				return nil, err
			}
			return &ast.ConstructorPattern{Name: name, Patterns: patterns, Loc: p.loc(start)}, nil
		}

		return &ast.ConstructorPattern{Name: name, Patterns: nil, Loc: start.Span}, nil
	}

	if p.check(token.IDENT_LOWER) {
		if err := p.rejectLocalBindingKeyword(); err != nil {
			return nil, err
		}
		tok := p.advance()
		return &ast.IdentifierPattern{Name: tok.Literal, Loc: tok.Span}, nil
	}

	// List pattern: [x, y, .rest] or bare []
	if p.match(token.LBRACKET) {
		start := p.previous()
		var patterns []ast.Pattern
		var rest string
		hasRest := false

		if !p.check(token.RBRACKET) {
			for {
				if p.match(token.DOT) {
					tok, err := p.consume(token.IDENT_LOWER, "expected identifier after \".\"")
					if err != nil {
						return nil, err
					}
					rest = tok.Literal
					hasRest = true
					break
				}
				sub, err := p.pattern()
				if err != nil {
					return nil, err
				}
				patterns = append(patterns, sub)
				if !p.match(token.COMMA) {
					break
				}
			}
		}

		if _, err := p.consume(token.RBRACKET, "expected \"]\""); err != nil {
			return nil, err
		}
		return &ast.ListPattern{Patterns: patterns, Rest: rest, HasRest: hasRest, Loc: p.loc(start)}, nil
	}

	// Record pattern: {x, y: value}
	if p.match(token.LBRACE) {
		start := p.previous()
		var fields []ast.RecordPatternField
		if !p.check(token.RBRACE) {
			for {
				fieldStart := p.peek()
				nameTok, err := p.consume(token.IDENT_LOWER, "expected field name")
				if err != nil {
					return nil, err
				}
				var sub ast.Pattern
				if p.match(token.COLON) {
					sub, err = p.pattern()
					if err != nil {
						return nil, err
					}
				}
				fields = append(fields, ast.RecordPatternField{Name: nameTok.Literal, Pattern: sub, Loc: p.loc(fieldStart)})
				if !p.match(token.COMMA) {
					break
				}
			}
		}
		if _, err := p.consume(token.RBRACE, "expected \"}\""); err != nil {
			return nil, err
		}
		return &ast.RecordPattern{Fields: fields, Loc: p.loc(start)}, nil
	}

	// Tuple pattern: (x, y, z)
	if p.match(token.LPAREN) {
		start := p.previous()
		var patterns []ast.Pattern
		if !p.check(token.RPAREN) {
			for {
				sub, err := p.pattern()
				if err != nil {
					return nil, err
				}
				patterns = append(patterns, sub)
				if !p.match(token.COMMA) {
					break
				}
			}
		}
		if _, err := p.consume(token.RPAREN, "expected \")\""); err != nil {
			return nil, err
		}
		return &ast.TuplePattern{Patterns: patterns, Loc: p.loc(start)}, nil
	}

	return nil, p.errorf("expected pattern")
}

// tryLiteralPattern consumes a literal token into a LiteralPattern if
// the next token is one; ok is false (with a nil error) when the
// current token is not a literal kind at all.
func (p *Parser) tryLiteralPattern() (ast.Pattern, bool, error) {
	switch {
	case p.match(token.INT):
		tok := p.previous()
		v, err := p.parseIntLiteral(tok)
		if err != nil {
			return nil, true, err
		}
		return &ast.LiteralPattern{Kind: ast.LitInt, Value: v, Loc: tok.Span}, true, nil
	case p.match(token.FLOAT):
		tok := p.previous()
		v, err := p.parseFloatLiteral(tok)
		if err != nil {
			return nil, true, err
		}
		return &ast.LiteralPattern{Kind: ast.LitFloat, Value: v, Loc: tok.Span}, true, nil
	case p.match(token.STRING):
		tok := p.previous()
		return &ast.LiteralPattern{Kind: ast.LitString, Value: tok.Literal, Loc: tok.Span}, true, nil
	case p.match(token.CHAR):
		tok := p.previous()
		v, err := p.parseCharLiteral(tok)
		if err != nil {
			return nil, true, err
		}
		return &ast.LiteralPattern{Kind: ast.LitChar, Value: v, Loc: tok.Span}, true, nil
	case p.match(token.TRUE):
		return &ast.LiteralPattern{Kind: ast.LitBool, Value: true, Loc: p.previous().Span}, true, nil
	case p.match(token.FALSE):
		return &ast.LiteralPattern{Kind: ast.LitBool, Value: false, Loc: p.previous().Span}, true, nil
	}
	return nil, false, nil
}
