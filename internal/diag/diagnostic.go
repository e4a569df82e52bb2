// Package diag defines the stable diagnostic model shared by every
// compiler phase: a closed set of SIGIL-<PHASE>-<NAME> codes, the
// Diagnostic value carrying one of them, and dual human/JSON rendering.
// It mirrors the teacher's internal/errors Report/ReportError pattern:
// a Diagnostic can be wrapped as a Go error and recovered with
// errors.As, so callers that only want *an* error can use the standard
// library while callers that want the structured value still get it.
package diag

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sigil-lang/sigil/internal/source"
)

// Phase identifies which stage of the pipeline produced a Diagnostic.
type Phase string

const (
	PhaseLexer     Phase = "lexer"
	PhaseParser    Phase = "parser"
	PhaseSurface   Phase = "surface"
	PhaseCanonical Phase = "canonical"
	PhaseTypecheck Phase = "typecheck"
	PhaseMutability Phase = "mutability"
	PhaseCli       Phase = "cli"
	PhaseIo        Phase = "io"
	PhaseExtern    Phase = "extern"
	PhaseCodegen   Phase = "codegen"
	PhaseRuntime   Phase = "runtime"
)

// Suggestion is a short, human-readable nudge attached to a Diagnostic.
// It is advisory text, not a machine-applicable edit; use Fixit for that.
type Suggestion struct {
	Message string `json:"message"`
}

// Fixit is a machine-applicable replacement for a single Span. Tools
// consuming JSON output can apply Replacement to the byte range
// [Span.Start.Offset, Span.End.Offset) verbatim.
type Fixit struct {
	Span        source.Span `json:"span"`
	Replacement string      `json:"replacement"`
	Description string      `json:"description"`
}

// Diagnostic is one compiler error or warning. Code is always a member
// of AllCodes. Span anchors the diagnostic in source; diagnostics with
// no natural anchor (e.g. whole-file checks) use source.Zero at 1:1.
type Diagnostic struct {
	Code       string       `json:"code"`
	Phase      Phase        `json:"phase"`
	Message    string       `json:"message"`
	File       string       `json:"file"`
	Span       source.Span  `json:"span"`
	Data       map[string]any `json:"data,omitempty"`
	Fix        *Fixit       `json:"fix,omitempty"`
	Suggestion *Suggestion  `json:"suggestion,omitempty"`
}

// New builds a Diagnostic with no extra data, fix, or suggestion.
func New(code string, phase Phase, file string, span source.Span, message string) *Diagnostic {
	return &Diagnostic{Code: code, Phase: phase, File: file, Span: span, Message: message}
}

// WithData attaches structured context (e.g. {"name": "foo"}) and
// returns the same Diagnostic for chaining.
func (d *Diagnostic) WithData(data map[string]any) *Diagnostic {
	d.Data = data
	return d
}

// WithFix attaches a machine-applicable fix and returns the same
// Diagnostic for chaining.
func (d *Diagnostic) WithFix(fix *Fixit) *Diagnostic {
	d.Fix = fix
	return d
}

// WithSuggestion attaches advisory text and returns the same
// Diagnostic for chaining.
func (d *Diagnostic) WithSuggestion(message string) *Diagnostic {
	d.Suggestion = &Suggestion{Message: message}
	return d
}

// Human renders the one-line "file:line:col: CODE: message" form used
// by cmd/sigilc's plain-text output.
func (d *Diagnostic) Human() string {
	loc := source.FormatLocation(d.File, d.Span.Start)
	return fmt.Sprintf("%s: %s: %s", loc, d.Code, d.Message)
}

// JSON renders the Diagnostic as a single JSON object. compact omits
// indentation.
func (d *Diagnostic) JSON(compact bool) (string, error) {
	var (
		b   []byte
		err error
	)
	if compact {
		b, err = json.Marshal(d)
	} else {
		b, err = json.MarshalIndent(d, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Error satisfies the error interface so a Diagnostic can be returned
// directly or wrapped by ReportError and recovered with errors.As.
func (d *Diagnostic) Error() string {
	return d.Human()
}

// ReportError wraps a Diagnostic so it survives errors.As across
// layers that otherwise only pass plain errors around. Mirrors the
// teacher's internal/errors.ReportError.
type ReportError struct {
	Diagnostic *Diagnostic
}

func (e *ReportError) Error() string {
	return e.Diagnostic.Error()
}

func (e *ReportError) Unwrap() error {
	return e.Diagnostic
}

// AsError wraps d in a ReportError.
func AsError(d *Diagnostic) error {
	return &ReportError{Diagnostic: d}
}

// AsDiagnostic recovers the *Diagnostic from any error produced by
// AsError, or from a bare *Diagnostic returned as an error.
func AsDiagnostic(err error) (*Diagnostic, bool) {
	if err == nil {
		return nil, false
	}
	if re, ok := err.(*ReportError); ok {
		return re.Diagnostic, true
	}
	if d, ok := err.(*Diagnostic); ok {
		return d, true
	}
	return nil, false
}

// Diagnostics is an ordered batch of Diagnostic values, e.g. every
// violation the canonical validator found in one pass. It never
// short-circuits on first error; callers decide whether to stop.
type Diagnostics []*Diagnostic

// Error joins every diagnostic's Human form onto its own line, so a
// whole batch can still satisfy the error interface.
func (ds Diagnostics) Error() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.Human()
	}
	return strings.Join(lines, "\n")
}

// HasErrors reports whether the batch is non-empty.
func (ds Diagnostics) HasErrors() bool {
	return len(ds) > 0
}

// Codes returns the Code of every diagnostic in order, useful for
// asserting exact error sets in tests.
func (ds Diagnostics) Codes() []string {
	codes := make([]string, len(ds))
	for i, d := range ds {
		codes[i] = d.Code
	}
	return codes
}
