package diag

// Error code constants, grouped by phase. This is the closed, stable
// catalog: 9 lexer + 5 parser + 29 canonical + 2 typecheck + 1 mutability
// + 8 cli + 2 runtime = 56 codes total, matching the original
// implementation's own closed-set accounting. Adding a code here is a
// deliberate API change, never a side effect of a refactor.
const (
	// Lexer (9)
	LexTab                 = "SIGIL-LEX-TAB"
	LexCRLF                = "SIGIL-LEX-CRLF"
	LexUnterminatedString  = "SIGIL-LEX-UNTERMINATED-STRING"
	LexUnterminatedComment = "SIGIL-LEX-UNTERMINATED-COMMENT"
	LexEmptyChar           = "SIGIL-LEX-EMPTY-CHAR"
	LexCharLength          = "SIGIL-LEX-CHAR-LENGTH"
	LexUnterminatedChar    = "SIGIL-LEX-UNTERMINATED-CHAR"
	LexInvalidEscape       = "SIGIL-LEX-INVALID-ESCAPE"
	LexUnexpectedChar      = "SIGIL-LEX-UNEXPECTED-CHAR"

	// Parser (5)
	ParseConstName    = "SIGIL-PARSE-CONST-NAME"
	ParseConstUntyped = "SIGIL-PARSE-CONST-UNTYPED"
	ParseNsSep        = "SIGIL-PARSE-NS-SEP"
	ParseLocalBinding = "SIGIL-PARSE-LOCAL-BINDING"
	ParseUnexpected   = "SIGIL-PARSE-UNEXPECTED-TOKEN"

	// Canonical (29)
	CanonDuplicateType              = "SIGIL-CANON-DUPLICATE-TYPE"
	CanonDuplicateExtern            = "SIGIL-CANON-DUPLICATE-EXTERN"
	CanonDuplicateImport            = "SIGIL-CANON-DUPLICATE-IMPORT"
	CanonDuplicateConst             = "SIGIL-CANON-DUPLICATE-CONST"
	CanonDuplicateFunction           = "SIGIL-CANON-DUPLICATE-FUNCTION"
	CanonDuplicateTest               = "SIGIL-CANON-DUPLICATE-TEST"
	CanonEOFNewline                  = "SIGIL-CANON-EOF-NEWLINE"
	CanonTrailingWhitespace          = "SIGIL-CANON-TRAILING-WHITESPACE"
	CanonBlankLines                  = "SIGIL-CANON-BLANK-LINES"
	CanonLibNoMain                   = "SIGIL-CANON-LIB-NO-MAIN"
	CanonExecNeedsMain               = "SIGIL-CANON-EXEC-NEEDS-MAIN"
	CanonTestNeedsMain               = "SIGIL-CANON-TEST-NEEDS-MAIN"
	CanonTestLocation                = "SIGIL-CANON-TEST-LOCATION"
	CanonTestPath                    = "SIGIL-CANON-TEST-PATH"
	CanonFilenameCase                = "SIGIL-CANON-FILENAME-CASE"
	CanonFilenameInvalidChar         = "SIGIL-CANON-FILENAME-INVALID-CHAR"
	CanonFilenameFormat              = "SIGIL-CANON-FILENAME-FORMAT"
	CanonRecursionAccumulator        = "SIGIL-CANON-RECURSION-ACCUMULATOR"
	CanonRecursionCollectionNonstruct = "SIGIL-CANON-RECURSION-COLLECTION-NONSTRUCTURAL"
	CanonRecursionCPS                = "SIGIL-CANON-RECURSION-CPS"
	CanonMatchBoolean                = "SIGIL-CANON-MATCH-BOOLEAN"
	CanonMatchTupleBoolean           = "SIGIL-CANON-MATCH-TUPLE-BOOLEAN"
	CanonParamOrder                  = "SIGIL-CANON-PARAM-ORDER"
	CanonEffectOrder                 = "SIGIL-CANON-EFFECT-ORDER"
	CanonLetUntyped                  = "SIGIL-CANON-LET-UNTYPED"
	CanonDeclCategoryOrder           = "SIGIL-CANON-DECL-CATEGORY-ORDER"
	CanonDeclExportOrder             = "SIGIL-CANON-DECL-EXPORT-ORDER"
	CanonDeclAlphabetical            = "SIGIL-CANON-DECL-ALPHABETICAL"
	CanonExternMemberOrder           = "SIGIL-CANON-EXTERN-MEMBER-ORDER"

	// Typecheck (2)
	TypeError            = "SIGIL-TYPE-ERROR"
	TypeModuleNotExported = "SIGIL-TYPE-MODULE-NOT-EXPORTED"

	// Mutability (1)
	MutabilityInvalid = "SIGIL-MUTABILITY-INVALID"

	// CLI (8) — module-graph diagnostics live under this prefix; see
	// DESIGN.md item 5 for why.
	CliUsage              = "SIGIL-CLI-USAGE"
	CliUnknownCommand     = "SIGIL-CLI-UNKNOWN-COMMAND"
	CliUnsupportedOption  = "SIGIL-CLI-UNSUPPORTED-OPTION"
	CliUnexpected         = "SIGIL-CLI-UNEXPECTED"
	CliImportNotFound     = "SIGIL-CLI-IMPORT-NOT-FOUND"
	CliImportCycle        = "SIGIL-CLI-IMPORT-CYCLE"
	CliInvalidImport      = "SIGIL-CLI-INVALID-IMPORT"
	CliProjectRootRequired = "SIGIL-CLI-PROJECT-ROOT-REQUIRED"

	// Runtime (2)
	RuntimeChildExit    = "SIGIL-RUNTIME-CHILD-EXIT"
	RuntimeEngineNotFound = "SIGIL-RUN-ENGINE-NOT-FOUND"
)

// AllCodes is every code in the closed catalog, used by tests to assert
// the set stays exactly 56 entries and that every code matches the
// `^SIGIL-[A-Z]+-[A-Z-]+$` shape required by spec §8.
var AllCodes = []string{
	LexTab, LexCRLF, LexUnterminatedString, LexUnterminatedComment,
	LexEmptyChar, LexCharLength, LexUnterminatedChar, LexInvalidEscape,
	LexUnexpectedChar,

	ParseConstName, ParseConstUntyped, ParseNsSep, ParseLocalBinding,
	ParseUnexpected,

	CanonDuplicateType, CanonDuplicateExtern, CanonDuplicateImport,
	CanonDuplicateConst, CanonDuplicateFunction, CanonDuplicateTest,
	CanonEOFNewline, CanonTrailingWhitespace, CanonBlankLines,
	CanonLibNoMain, CanonExecNeedsMain, CanonTestNeedsMain,
	CanonTestLocation, CanonTestPath, CanonFilenameCase,
	CanonFilenameInvalidChar, CanonFilenameFormat,
	CanonRecursionAccumulator, CanonRecursionCollectionNonstruct,
	CanonRecursionCPS, CanonMatchBoolean, CanonMatchTupleBoolean,
	CanonParamOrder, CanonEffectOrder, CanonLetUntyped,
	CanonDeclCategoryOrder, CanonDeclExportOrder, CanonDeclAlphabetical,
	CanonExternMemberOrder,

	TypeError, TypeModuleNotExported,

	MutabilityInvalid,

	CliUsage, CliUnknownCommand, CliUnsupportedOption, CliUnexpected,
	CliImportNotFound, CliImportCycle, CliInvalidImport,
	CliProjectRootRequired,

	RuntimeChildExit, RuntimeEngineNotFound,
}
