package parser

import (
	"fmt"

	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
)

// declaration dispatches on the leading token to one of the six
// declaration kinds, mirroring the original's declaration() match arm
// order exactly: export → mockable → function → type → const →
// import → extern → test.
func (p *Parser) declaration() (ast.Decl, error) {
	exported := p.match(token.KW_EXPORT)

	if p.match(token.KW_MOCKABLE) {
		if !p.check(token.LAMBDA) {
			return nil, p.errorf("expected \"λ\" after \"mockable\"")
		}
		p.advance()
		return p.functionDeclaration(true, exported)
	}

	if p.match(token.LAMBDA) {
		return p.functionDeclaration(false, exported)
	}

	if p.match(token.KW_TYPE) {
		return p.typeDeclaration(exported)
	}

	if p.match(token.KW_CONST) {
		return p.constDeclaration(exported)
	}

	if p.match(token.KW_IMPORT) {
		return p.importDeclaration(exported)
	}

	if p.match(token.KW_EXTERN) {
		return p.externDeclaration(exported)
	}

	if p.checkIdent("test") {
		p.advance()
		return p.testDeclaration(exported)
	}

	return nil, p.errorf("expected declaration (λ for function, t for type, etc.)")
}

func (p *Parser) functionDeclaration(isMockable, isExported bool) (ast.Decl, error) {
	start := p.previous()
	nameTok, err := p.consume(token.IDENT_LOWER, "expected function name")
	if err != nil {
		return nil, err
	}
	name := nameTok.Literal

	// Optional generic type parameters: λfunc[T,U](...). Parsed and
	// discarded, matching the original: type inference never consults
	// them from the AST, so FunctionDecl carries no type-parameter field.
	if p.match(token.LBRACKET) {
		for !p.check(token.RBRACKET) && !p.isAtEnd() {
			p.advance()
		}
		if _, err := p.consume(token.RBRACKET, "expected \"]\" after type parameters"); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.LPAREN, "expected \"(\" after function name"); err != nil {
		return nil, err
	}
	params, err := p.parameterList()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "expected \")\" after parameters"); err != nil {
		return nil, err
	}

	if _, err := p.consume(token.ARROW, fmt.Sprintf(
		"expected \"→\" after parameters for function %q; return type annotations are required (canonical form)", name)); err != nil {
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

	body, err := p.canonicalBody(name)
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDecl{
		Name:       name,
		IsMockable: isMockable,
		IsExported: isExported,
		Params:     params,
		Effects:    effects,
		ReturnType: returnType,
		Body:       body,
		Loc:        p.loc(start),
	}, nil
}

// canonicalBody enforces the `=` vs bare `≡` branching: canonical form
// requires exactly one of them, chosen by whether the body is itself a
// match expression.
func (p *Parser) canonicalBody(name string) (ast.Expr, error) {
	hasEqual := p.match(token.EQUAL)
	isMatchExpr := p.check(token.MATCH)

	if isMatchExpr && hasEqual {
		return nil, p.errorf("unexpected \"=\" before match expression (canonical form: λ%s()→T≡...)", name)
	}
	if !isMatchExpr && !hasEqual {
		return nil, p.errorf("expected \"=\" before function body (canonical form: λ%s()→T=...)", name)
	}
	return p.expression()
}

func (p *Parser) parameterList() ([]ast.Param, error) {
	var params []ast.Param
	if p.check(token.RPAREN) {
		return params, nil
	}
	for {
		start := p.peek()
		nameTok, err := p.consume(token.IDENT_LOWER, "expected parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.COLON, "expected \":\" after parameter name (type annotations are required)"); err != nil {
			return nil, err
		}
		isMutable := p.match(token.KW_MUT)
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{
			Name:           nameTok.Literal,
			TypeAnnotation: typ,
			IsMutable:      isMutable,
			Loc:            p.loc(start),
		})
		if !p.match(token.COMMA) {
			break
		}
	}
	return params, nil
}

func (p *Parser) typeDeclaration(isExported bool) (ast.Decl, error) {
	start := p.previous()
	nameTok, err := p.consume(token.IDENT_UPPER, "expected type name")
	if err != nil {
		return nil, err
	}

	var typeParams []string
	if p.match(token.LBRACKET) {
		if !p.check(token.RBRACKET) {
			for {
				tp, err := p.consume(token.IDENT_UPPER, "expected type parameter name")
				if err != nil {
					return nil, err
				}
				typeParams = append(typeParams, tp.Literal)
				if !p.match(token.COMMA) {
					break
				}
			}
		}
		if _, err := p.consume(token.RBRACKET, "expected \"]\" after type parameters"); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.EQUAL, "expected \"=\" after type name"); err != nil {
		return nil, err
	}

	def, err := p.typeDefinition()
	if err != nil {
		return nil, err
	}

	return &ast.TypeDecl{
		Name:       nameTok.Literal,
		IsExported: isExported,
		TypeParams: typeParams,
		Definition: def,
		Loc:        p.loc(start),
	}, nil
}

// typeDefinition parses a product type ({...}), a sum type
// (variant | variant | ...), or a type alias. A definition that starts
// with an uppercase name, or whose first entry is followed by "|", is a
// sum type; any other single type is an alias.
func (p *Parser) typeDefinition() (ast.TypeDef, error) {
	if p.check(token.LBRACE) {
		return p.productType()
	}

	start := p.peek()
	first, err := p.variantOrType()
	if err != nil {
		return nil, err
	}

	if p.check(token.PIPESEP) {
		variants := []ast.Variant{first}
		for p.match(token.PIPESEP) {
			v, err := p.variantOrType()
			if err != nil {
				return nil, err
			}
			variants = append(variants, v)
		}
		return ast.SumType{Variants: variants, Loc: p.loc(start)}, nil
	}

	// No "|" follows. An unnamed entry is the aliased type that
	// variantOrType parsed; an uppercase name never reaches this branch.
	aliased := first.Types
	if len(aliased) == 1 && first.Name == "" {
		return ast.TypeAlias{AliasedType: aliased[0], Loc: p.loc(start)}, nil
	}
	// first.Name non-empty with no "|" following: single-variant sum.
	return ast.SumType{Variants: []ast.Variant{first}, Loc: p.loc(start)}, nil
}

// variantOrType parses `UPPER_IDENTIFIER(type, type, ...)` as a sum
// variant, or falls through to parseType for an alias RHS. The two
// forms are distinguished by Variant.Name: empty means "this was
// really a bare type, wrap it as an alias" (see typeDefinition).
func (p *Parser) variantOrType() (ast.Variant, error) {
	if p.check(token.IDENT_UPPER) {
		start := p.peek()
		p.advance()
		name := p.previous().Literal
		var types []ast.Type
		if p.match(token.LPAREN) {
			if !p.check(token.RPAREN) {
				for {
					t, err := p.parseType()
					if err != nil {
						return ast.Variant{}, err
					}
					types = append(types, t)
					if !p.match(token.COMMA) {
						break
					}
				}
			}
			if _, err := p.consume(token.RPAREN, "expected \")\""); err != nil {
				return ast.Variant{}, err
			}
		}
		return ast.Variant{Name: name, Types: types, Loc: p.loc(start)}, nil
	}

	start := p.peek()
	t, err := p.parseType()
	if err != nil {
		return ast.Variant{}, err
	}
	return ast.Variant{Name: "", Types: []ast.Type{t}, Loc: p.loc(start)}, nil
}

func (p *Parser) productType() (ast.TypeDef, error) {
	start := p.peek()
	if _, err := p.consume(token.LBRACE, "expected \"{\""); err != nil {
		return nil, err
	}
	var fields []ast.Field
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
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.Field{Name: nameTok.Literal, FieldType: typ, Loc: p.loc(fieldStart)})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RBRACE, "expected \"}\""); err != nil {
		return nil, err
	}
	return ast.ProductType{Fields: fields, Loc: p.loc(start)}, nil
}

// constDeclaration requires `c name = (value : Type)`: the RHS must be
// a top-level TypeAscriptionExpr, which is unwrapped into the const's
// declared type and stored value. A bare identifier NAME (uppercase)
// is rejected outright as an invalid constant name.
func (p *Parser) constDeclaration(isExported bool) (ast.Decl, error) {
	start := p.previous()

	if p.check(token.IDENT_UPPER) {
		tok := p.peek()
		return nil, diag.AsError(diag.New(diag.ParseConstName, diag.PhaseParser, p.file, tok.Span,
			fmt.Sprintf("invalid constant name %q: constants must start with a lowercase letter", tok.Literal)))
	}
	nameTok, err := p.consume(token.IDENT_LOWER, "expected constant name")
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(token.EQUAL, "expected \"=\" after constant name"); err != nil {
		return nil, err
	}

	valueExpr, err := p.expression()
	if err != nil {
		return nil, err
	}

	ascription, ok := valueExpr.(*ast.TypeAscriptionExpr)
	if !ok {
		return nil, diag.AsError(diag.New(diag.ParseConstUntyped, diag.PhaseParser, p.file, valueExpr.Span(),
			fmt.Sprintf("const value must use type ascription: c %s=(value:Type)", nameTok.Literal)))
	}

	return &ast.ConstDecl{
		Name:           nameTok.Literal,
		IsExported:     isExported,
		TypeAnnotation: ascription.AscribedType,
		Value:          ascription.Expr,
		Loc:            p.loc(start),
	}, nil
}

func (p *Parser) importDeclaration(isExported bool) (ast.Decl, error) {
	start := p.previous()
	path, err := p.modulePath()
	if err != nil {
		return nil, err
	}
	return &ast.ImportDecl{ModulePath: path, IsExported: isExported, Loc: p.loc(start)}, nil
}

func (p *Parser) externDeclaration(isExported bool) (ast.Decl, error) {
	start := p.previous()
	path, err := p.modulePath()
	if err != nil {
		return nil, err
	}

	var members []ast.ExternMember
	if p.match(token.COLON) {
		if _, err := p.consume(token.LBRACE, "expected \"{\" after \":\""); err != nil {
			return nil, err
		}
		if !p.check(token.RBRACE) {
			for {
				if p.check(token.RBRACE) {
					break
				}
				memberStart := p.peek()
				nameTok, err := p.consume(token.IDENT_LOWER, "expected member name")
				if err != nil {
					return nil, err
				}
				if _, err := p.consume(token.COLON, "expected \":\""); err != nil {
					return nil, err
				}
				typ, err := p.parseType()
				if err != nil {
					return nil, err
				}
				members = append(members, ast.ExternMember{Name: nameTok.Literal, MemberType: typ, Loc: p.loc(memberStart)})
				// Tolerate either a comma or running straight into "}".
				if !p.match(token.COMMA) {
					break
				}
			}
		}
		if _, err := p.consume(token.RBRACE, "expected \"}\""); err != nil {
			return nil, err
		}
	}

	return &ast.ExternDecl{ModulePath: path, IsExported: isExported, Members: members, Loc: p.loc(start)}, nil
}

// modulePath parses a ⋅-joined sequence of path segments. A trailing
// "/" or "." where ⋅ was expected is the one distinguished namespace
// error; any other unexpected token falls through to the generic
// "expected declaration" error from the caller's own consume calls.
func (p *Parser) modulePath() ([]string, error) {
	first, err := p.modulePathSegment()
	if err != nil {
		return nil, err
	}
	path := []string{first}
	for p.match(token.NAMESPACESEP) {
		seg, err := p.modulePathSegment()
		if err != nil {
			return nil, err
		}
		path = append(path, seg)
	}

	if p.check(token.SLASH) || p.check(token.DOT) {
		tok := p.peek()
		return nil, diag.AsError(diag.New(diag.ParseNsSep, diag.PhaseParser, p.file, tok.Span,
			fmt.Sprintf("invalid namespace separator: found %q, expected \"⋅\"", tok.Kind.String())))
	}

	return path, nil
}

func (p *Parser) testDeclaration(isExported bool) (ast.Decl, error) {
	start := p.previous()
	descTok, err := p.consume(token.STRING, "expected test description string")
	if err != nil {
		return nil, err
	}

	effects, err := p.parseEffects()
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(token.LBRACE, "expected \"{\" after test description"); err != nil {
		return nil, err
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RBRACE, "expected \"}\""); err != nil {
		return nil, err
	}

	return &ast.TestDecl{
		Description: descTok.Literal,
		IsExported:  isExported,
		Effects:     effects,
		Body:        body,
		Loc:         p.loc(start),
	}, nil
}

// rejectLocalBindingKeyword reports SIGIL-PARSE-LOCAL-BINDING when a
// let-expression's pattern position holds one of the one-letter
// declaration keywords rather than a true local name.
func (p *Parser) rejectLocalBindingKeyword() error {
	switch p.peek().Kind {
	case token.KW_TYPE, token.KW_IMPORT, token.KW_EXTERN, token.KW_LET, token.KW_CONST:
		tok := p.peek()
		return diag.AsError(diag.New(diag.ParseLocalBinding, diag.PhaseParser, p.file, tok.Span,
			fmt.Sprintf("%q is a reserved one-letter declaration keyword and cannot be used as a local binding name", tok.Literal)))
	}
	return nil
}
