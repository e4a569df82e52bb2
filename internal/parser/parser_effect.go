package parser

import (
	"strings"

	"github.com/sigil-lang/sigil/internal/token"
)

// parseEffects parses zero or more `!Name` effect annotations. Each
// name must be one of the five closed effect names; anything else is
// rejected immediately rather than accepted and caught later. Neither
// case maps to a dedicated closed diagnostic code in the original
// (ParseError::InvalidEffect carries no SIGIL-PARSE-* string, unlike
// InvalidConstantName/InvalidNamespaceSeparator), so both fall through
// to the generic unexpected-token code.
func (p *Parser) parseEffects() ([]string, error) {
	var effects []string
	for p.match(token.BANG) {
		if !p.check(token.IDENT_UPPER) {
			return nil, p.errorf("expected effect name (%s) after \"!\"", validEffectList())
		}
		tok := p.advance()
		if !token.EffectNames[tok.Literal] {
			return nil, p.errorf("invalid effect %q, valid effects are: %s", tok.Literal, validEffectList())
		}
		effects = append(effects, tok.Literal)
	}
	return effects, nil
}

func validEffectList() string {
	names := make([]string, 0, len(token.EffectNames))
	for _, name := range []string{"IO", "Network", "Async", "Error", "Mut"} {
		if token.EffectNames[name] {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
