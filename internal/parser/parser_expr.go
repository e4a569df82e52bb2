package parser

import (
	"strconv"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/source"
	"github.com/sigil-lang/sigil/internal/token"
)

// expression is the entry point of the precedence ladder: pipeline is
// the lowest-precedence production, primary the highest.
func (p *Parser) expression() (ast.Expr, error) {
	return p.pipeline()
}

func (p *Parser) pipeline() (ast.Expr, error) {
	expr, err := p.listOperations()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.PipelineOperator
		switch {
		case p.match(token.PIPE):
			op = ast.PipePipe
		case p.match(token.COMPOSEFWD):
			op = ast.PipeComposeFwd
		case p.match(token.COMPOSEBWD):
			op = ast.PipeComposeBwd
		default:
			return expr, nil
		}
		right, err := p.listOperations()
		if err != nil {
			return nil, err
		}
		expr = &ast.PipelineExpr{Left: expr, Operator: op, Right: right, Loc: source.Merge(expr.Span(), right.Span())}
	}
}

// listOperations handles the built-in list constructs ↦ (map), ⊳
// (filter), and ⊕ (fold, written twice: `list ⊕ func ⊕ init`).
func (p *Parser) listOperations() (ast.Expr, error) {
	expr, err := p.logical()
	if err != nil {
		return nil, err
	}
	for {
		start := expr
		switch {
		case p.match(token.MAP):
			fn, err := p.logical()
			if err != nil {
				return nil, err
			}
			expr = &ast.MapExpr{List: expr, Func: fn, Loc: source.Merge(start.Span(), fn.Span())}
		case p.match(token.FILTER):
			pred, err := p.logical()
			if err != nil {
				return nil, err
			}
			expr = &ast.FilterExpr{List: expr, Predicate: pred, Loc: source.Merge(start.Span(), pred.Span())}
		case p.match(token.FOLD):
			fn, err := p.logical()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.FOLD, "expected \"⊕\" before initial value"); err != nil {
				return nil, err
			}
			init, err := p.logical()
			if err != nil {
				return nil, err
			}
			expr = &ast.FoldExpr{List: expr, Func: fn, Init: init, Loc: source.Merge(start.Span(), init.Span())}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) logical() (ast.Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.check(token.AND) || p.check(token.OR) {
		var op ast.BinaryOperator
		if p.match(token.AND) {
			op = ast.OpAnd
		} else {
			p.advance()
			op = ast.OpOr
		}
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryExpr{Left: expr, Operator: op, Right: right, Loc: source.Merge(expr.Span(), right.Span())}
	}
	return expr, nil
}

func (p *Parser) comparison() (ast.Expr, error) {
	expr, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.matchAny(token.EQUAL, token.NOTEQUAL, token.LESS, token.GREATER, token.LESSEQ, token.GREATEREQ) {
		op := binaryOpFor(p.previous().Kind)
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryExpr{Left: expr, Operator: op, Right: right, Loc: source.Merge(expr.Span(), right.Span())}
	}
	return expr, nil
}

func (p *Parser) additive() (ast.Expr, error) {
	expr, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.matchAny(token.PLUS, token.MINUS, token.APPEND, token.LISTAPPEND) {
		op := binaryOpFor(p.previous().Kind)
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryExpr{Left: expr, Operator: op, Right: right, Loc: source.Merge(expr.Span(), right.Span())}
	}
	return expr, nil
}

func (p *Parser) multiplicative() (ast.Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.matchAny(token.STAR, token.SLASH, token.PERCENT, token.CARET) {
		op := binaryOpFor(p.previous().Kind)
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryExpr{Left: expr, Operator: op, Right: right, Loc: source.Merge(expr.Span(), right.Span())}
	}
	return expr, nil
}

func binaryOpFor(k token.Kind) ast.BinaryOperator {
	switch k {
	case token.EQUAL:
		return ast.OpEqual
	case token.NOTEQUAL:
		return ast.OpNotEqual
	case token.LESS:
		return ast.OpLess
	case token.GREATER:
		return ast.OpGreater
	case token.LESSEQ:
		return ast.OpLessEq
	case token.GREATEREQ:
		return ast.OpGreaterEq
	case token.PLUS:
		return ast.OpAdd
	case token.MINUS:
		return ast.OpSubtract
	case token.APPEND:
		return ast.OpAppend
	case token.LISTAPPEND:
		return ast.OpListAppend
	case token.STAR:
		return ast.OpMultiply
	case token.SLASH:
		return ast.OpDivide
	case token.PERCENT:
		return ast.OpModulo
	case token.CARET:
		return ast.OpPower
	default:
		return ast.OpAdd
	}
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.matchAny(token.MINUS, token.NOT, token.HASH) {
		start := p.previous()
		var op ast.UnaryOperator
		switch start.Kind {
		case token.MINUS:
			op = ast.OpNegate
		case token.NOT:
			op = ast.OpNot
		case token.HASH:
			op = ast.OpLength
		}
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Operator: op, Operand: operand, Loc: p.loc(start)}, nil
	}
	return p.postfix()
}

func (p *Parser) postfix() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(token.LPAREN):
			p.advance()
			var args []ast.Expr
			if !p.check(token.RPAREN) {
				for {
					arg, err := p.expression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.match(token.COMMA) {
						break
					}
				}
			}
			if _, err := p.consume(token.RPAREN, "expected \")\""); err != nil {
				return nil, err
			}
			expr = &ast.ApplicationExpr{Func: expr, Args: args, Loc: source.Merge(expr.Span(), p.previous().Span)}
		case p.match(token.DOT):
			fieldTok, err := p.consume(token.IDENT_LOWER, "expected field name")
			if err != nil {
				return nil, err
			}
			expr = &ast.FieldAccessExpr{Object: expr, Field: fieldTok.Literal, Loc: source.Merge(expr.Span(), p.previous().Span)}
		case p.match(token.LBRACKET):
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RBRACKET, "expected \"]\""); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Object: expr, Index: index, Loc: source.Merge(expr.Span(), p.previous().Span)}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.INT):
		tok := p.previous()
		v, err := p.parseIntLiteral(tok)
		if err != nil {
			return nil, err
		}
		return &ast.LiteralExpr{Kind: ast.LitInt, Value: v, Loc: tok.Span}, nil
	case p.match(token.FLOAT):
		tok := p.previous()
		v, err := p.parseFloatLiteral(tok)
		if err != nil {
			return nil, err
		}
		return &ast.LiteralExpr{Kind: ast.LitFloat, Value: v, Loc: tok.Span}, nil
	case p.match(token.STRING):
		tok := p.previous()
		return &ast.LiteralExpr{Kind: ast.LitString, Value: tok.Literal, Loc: tok.Span}, nil
	case p.match(token.CHAR):
		tok := p.previous()
		v, err := p.parseCharLiteral(tok)
		if err != nil {
			return nil, err
		}
		return &ast.LiteralExpr{Kind: ast.LitChar, Value: v, Loc: tok.Span}, nil
	case p.match(token.TRUE):
		return &ast.LiteralExpr{Kind: ast.LitBool, Value: true, Loc: p.previous().Span}, nil
	case p.match(token.FALSE):
		return &ast.LiteralExpr{Kind: ast.LitBool, Value: false, Loc: p.previous().Span}, nil
	}

	// Identifier, possibly an FFI member access: ns⋅ns2.member
	if p.check(token.IDENT_LOWER) || p.check(token.IDENT_UPPER) {
		tok := p.advance()

		if p.check(token.NAMESPACESEP) {
			namespace := []string{tok.Literal}
			for p.match(token.NAMESPACESEP) {
				seg, err := p.modulePathSegment()
				if err != nil {
					return nil, err
				}
				namespace = append(namespace, seg)
			}
			if _, err := p.consume(token.DOT, "expected \".\" after namespace path"); err != nil {
				return nil, err
			}
			memberTok, err := p.consume(token.IDENT_LOWER, "expected member name")
			if err != nil {
				return nil, err
			}
			return &ast.MemberAccessExpr{Namespace: namespace, Member: memberTok.Literal, Loc: source.Merge(tok.Span, p.previous().Span)}, nil
		}

		return &ast.IdentifierExpr{Name: tok.Literal, Loc: tok.Span}, nil
	}

	if p.match(token.LAMBDA) {
		return p.lambdaExpression()
	}

	if p.match(token.MATCH) {
		return p.matchExpression()
	}

	if p.match(token.KW_LET) {
		return p.letExpression()
	}

	if p.match(token.LBRACKET) {
		return p.listExpression()
	}

	if p.match(token.LBRACE) {
		return p.recordExpression()
	}

	if p.match(token.LPAREN) {
		startParen := p.previous()

		if p.check(token.RPAREN) {
			p.advance()
			return &ast.LiteralExpr{Kind: ast.LitUnit, Value: nil, Loc: p.loc(startParen)}, nil
		}

		first, err := p.expression()
		if err != nil {
			return nil, err
		}

		if p.match(token.COLON) {
			ascribedType, err := p.parseType()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RPAREN, "expected \")\""); err != nil {
				return nil, err
			}
			return &ast.TypeAscriptionExpr{Expr: first, AscribedType: ascribedType, Loc: p.loc(startParen)}, nil
		}

		if p.match(token.COMMA) {
			elements := []ast.Expr{first}
			for {
				elem, err := p.expression()
				if err != nil {
					return nil, err
				}
				elements = append(elements, elem)
				if !p.match(token.COMMA) {
					break
				}
			}
			if _, err := p.consume(token.RPAREN, "expected \")\""); err != nil {
				return nil, err
			}
			return &ast.TupleExpr{Elements: elements, Loc: p.loc(startParen)}, nil
		}

		if _, err := p.consume(token.RPAREN, "expected \")\""); err != nil {
			return nil, err
		}
		return first, nil
	}

	if p.match(token.KW_WITH_MOCK) {
		return p.withMockExpression()
	}

	return nil, p.errorf("expected expression")
}

func (p *Parser) lambdaExpression() (ast.Expr, error) {
	start := p.previous()
	if _, err := p.consume(token.LPAREN, "expected \"(\""); err != nil {
		return nil, err
	}
	params, err := p.parameterList()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "expected \")\""); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.ARROW, "expected \"→\""); err != nil {
		return nil, err
	}
	effects, err := p.parseEffects()
	if err != nil {
		return nil, err
	}
	returnType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LBRACE, "expected \"{\""); err != nil {
		return nil, err
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RBRACE, "expected \"}\""); err != nil {
		return nil, err
	}
	return &ast.LambdaExpr{Params: params, Effects: effects, ReturnType: returnType, Body: body, Loc: p.loc(start)}, nil
}

// matchExpression parses `≡ scrutinee { pattern [when guard] → body | ... }`.
func (p *Parser) matchExpression() (ast.Expr, error) {
	start := p.previous()
	scrutinee, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LBRACE, "expected \"{\""); err != nil {
		return nil, err
	}

	var arms []ast.MatchArm
	for {
		armStart := p.peek()
		pat, err := p.pattern()
		if err != nil {
			return nil, err
		}

		var guard ast.Expr
		if p.match(token.KW_WHEN) {
			guard, err = p.expression()
			if err != nil {
				return nil, err
			}
		}

		if _, err := p.consume(token.ARROW, "expected \"→\""); err != nil {
			return nil, err
		}
		body, err := p.expression()
		if err != nil {
			return nil, err
		}

		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body, Loc: p.loc(armStart)})

		if !p.match(token.PIPESEP) {
			break
		}
	}

	if _, err := p.consume(token.RBRACE, "expected \"}\""); err != nil {
		return nil, err
	}
	return &ast.MatchExpr{Scrutinee: scrutinee, Arms: arms, Loc: p.loc(start)}, nil
}

// letExpression parses `l pattern = value ; body` (semicolon form,
// per DESIGN.md item 6 — the original implements this, not the
// brace-delimited form spec prose shows).
func (p *Parser) letExpression() (ast.Expr, error) {
	start := p.previous()
	if err := p.rejectLocalBindingKeyword(); err != nil {
		return nil, err
	}
	pat, err := p.pattern()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.EQUAL, "expected \"=\""); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected \";\""); err != nil {
		return nil, err
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.LetExpr{Pattern: pat, Value: value, Body: body, Loc: p.loc(start)}, nil
}

func (p *Parser) listExpression() (ast.Expr, error) {
	start := p.previous()
	var elements []ast.Expr
	if !p.check(token.RBRACKET) {
		for {
			elem, err := p.expression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RBRACKET, "expected \"]\""); err != nil {
		return nil, err
	}
	return &ast.ListExpr{Elements: elements, Loc: p.loc(start)}, nil
}

func (p *Parser) recordExpression() (ast.Expr, error) {
	start := p.previous()
	var fields []ast.RecordField
	if !p.check(token.RBRACE) {
		for {
			fieldStart := p.peek()
			nameTok, err := p.consume(token.IDENT_LOWER, "expected field name")
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.COLON, "expected \":\""); err != nil {
				return nil, err
			}
			value, err := p.expression()
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.RecordField{Name: nameTok.Literal, Value: value, Loc: p.loc(fieldStart)})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RBRACE, "expected \"}\""); err != nil {
		return nil, err
	}
	return &ast.RecordExpr{Fields: fields, Loc: p.loc(start)}, nil
}

// withMockExpression parses `with_mock target replacement { body }`:
// target and replacement are each a single primary expression (the
// original never lets them be full expressions, only identifiers or
// member accesses naming a mockable function).
func (p *Parser) withMockExpression() (ast.Expr, error) {
	start := p.previous()
	target, err := p.primary()
	if err != nil {
		return nil, err
	}
	replacement, err := p.primary()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LBRACE, "expected \"{\""); err != nil {
		return nil, err
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RBRACE, "expected \"}\""); err != nil {
		return nil, err
	}
	return &ast.WithMockExpr{Target: target, Replacement: replacement, Body: body, Loc: p.loc(start)}, nil
}

// ---- literal parsing ----

func (p *Parser) parseIntLiteral(tok token.Token) (int64, error) {
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		return 0, p.errorAt(tok, "invalid integer literal")
	}
	return v, nil
}

func (p *Parser) parseFloatLiteral(tok token.Token) (float64, error) {
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		return 0, p.errorAt(tok, "invalid float literal")
	}
	return v, nil
}

func (p *Parser) parseCharLiteral(tok token.Token) (rune, error) {
	runes := []rune(tok.Literal)
	if len(runes) == 0 {
		return 0, p.errorAt(tok, "invalid character literal")
	}
	return runes[0], nil
}

