package parser

import (
	"fmt"

	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
)

// errorf builds a SIGIL-PARSE-UNEXPECTED-TOKEN diagnostic anchored at
// the current token, the parser's catch-all error path. The more
// specific codes (const name/type, namespace separator, local
// binding) are raised directly by their own productions instead.
func (p *Parser) errorf(format string, args ...any) error {
	tok := p.peek()
	message := fmt.Sprintf(format, args...)
	return diag.AsError(diag.New(diag.ParseUnexpected, diag.PhaseParser, p.file, tok.Span, message))
}

// errorAt builds the same diagnostic anchored at an explicit token
// rather than the parser's current position, for errors discovered
// after the offending token has already been consumed (malformed
// numeric/char literals).
func (p *Parser) errorAt(tok token.Token, message string) error {
	return diag.AsError(diag.New(diag.ParseUnexpected, diag.PhaseParser, p.file, tok.Span, message))
}
