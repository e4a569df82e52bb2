package lexer

import (
	"fmt"

	"github.com/sigil-lang/sigil/internal/diag"
)

const (
	diagCodeTab                 = diag.LexTab
	diagCodeCRLF                = diag.LexCRLF
	diagCodeUnterminatedString  = diag.LexUnterminatedString
	diagCodeUnterminatedComment = diag.LexUnterminatedComment
	diagCodeEmptyChar           = diag.LexEmptyChar
	diagCodeCharLength          = diag.LexCharLength
	diagCodeUnterminatedChar    = diag.LexUnterminatedChar
	diagCodeInvalidEscape       = diag.LexInvalidEscape
	diagCodeUnexpectedChar      = diag.LexUnexpectedChar
)

func runeHex(ch rune) string {
	return fmt.Sprintf("%04X", ch)
}
