// Package errors implements the diagnostics reporter shared by every stage
// of the pipeline: lexer, parser, resolver, semantic analyzer, type
// checker, and interpreter all raise Diagnostic values through a common
// Reporter so the CLI renders one consistent style of error regardless of
// which stage caught the problem.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wfl-lang/wfl/internal/lexer"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Stable diagnostic codes. The ranges mirror spec §4.8: WFL-0xx lexical,
// WFL-1xx syntax, WFL-2xx semantic, WFL-3xx type, WFL-4xx runtime, plus the
// pattern engine's own PATTERN-SYNTAX-*/PATTERN-RUNTIME-* namespace.
const (
	CodeIllegalCharacter     = "WFL-001"
	CodeUnterminatedString   = "WFL-002"
	CodeUnexpectedToken      = "WFL-101"
	CodeUnclosedBlock        = "WFL-102"
	CodeUndefinedName        = "WFL-201"
	CodeUnreachableCode      = "WFL-202"
	CodeUnusedVariable       = "WFL-203"
	CodeDuplicateDefinition  = "WFL-204"
	CodeTypeMismatch         = "WFL-301"
	CodeNotOptionalNarrowed  = "WFL-302"
	CodeUnknownContainer     = "WFL-303"
	CodeMissingContentType   = "WFL-304"
	CodeArityMismatchWarning = "WFL-241"
	CodeRuntimePanic         = "WFL-401"
	CodeImportCycle          = "WFL-402"
	CodeImportNotFound       = "WFL-403"
	CodeImportParseError     = "WFL-404"
	CodePatternSyntax        = "PATTERN-SYNTAX-001"
	CodePatternRuntimeDepth  = "PATTERN-RUNTIME-DEPTH"
)

// RelatedSpan attaches a secondary location to a Diagnostic, e.g. where a
// name was first declared when reporting a duplicate definition.
type RelatedSpan struct {
	Pos     lexer.Position
	Message string
}

// Diagnostic is one reported problem: a severity, a primary position, a
// message, a stable code, optional related spans, and an optional fix
// suggestion the CLI can print as a hint line.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Pos      lexer.Position
	Related  []RelatedSpan
	Fix      string
}

// Reporter accumulates diagnostics from every pipeline stage and renders
// them against the original source text, following the teacher's
// CompilerError.FormatWithContext convention of a source line plus a caret.
type Reporter struct {
	source string
	file   string
	diags  []Diagnostic
}

// NewReporter creates a Reporter that renders diagnostics against source,
// identifying it as file in output (use "" for stdin/eval snippets).
func NewReporter(file, source string) *Reporter {
	return &Reporter{file: file, source: source}
}

func (r *Reporter) Add(d Diagnostic) { r.diags = append(r.diags, d) }

func (r *Reporter) Errorf(pos lexer.Position, code, format string, args ...any) {
	r.Add(Diagnostic{Severity: SeverityError, Code: code, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (r *Reporter) Warnf(pos lexer.Position, code, format string, args ...any) {
	r.Add(Diagnostic{Severity: SeverityWarning, Code: code, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// Diagnostics returns every diagnostic recorded so far, ordered by
// position, errors before warnings before info at a given position.
func (r *Reporter) Diagnostics() []Diagnostic {
	out := append([]Diagnostic(nil), r.diags...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pos.Line != out[j].Pos.Line {
			return out[i].Pos.Line < out[j].Pos.Line
		}
		if out[i].Pos.Column != out[j].Pos.Column {
			return out[i].Pos.Column < out[j].Pos.Column
		}
		return out[i].Severity < out[j].Severity
	})
	return out
}

// HasErrors reports whether any accumulated diagnostic is an error.
func (r *Reporter) HasErrors() bool {
	for _, d := range r.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Format renders one diagnostic as a single human-readable block: a header
// line, the offending source line, and a caret under the column.
func (r *Reporter) Format(d Diagnostic) string {
	var b strings.Builder
	loc := r.file
	if loc == "" {
		loc = "<input>"
	}
	fmt.Fprintf(&b, "%s:%d:%d: %s[%s]: %s\n", loc, d.Pos.Line, d.Pos.Column, d.Severity, d.Code, d.Message)
	if line := sourceLine(r.source, d.Pos.Line); line != "" {
		fmt.Fprintf(&b, "    %s\n", line)
		fmt.Fprintf(&b, "    %s^\n", strings.Repeat(" ", max(0, d.Pos.Column-1)))
	}
	for _, rel := range d.Related {
		fmt.Fprintf(&b, "    note: %s (%d:%d)\n", rel.Message, rel.Pos.Line, rel.Pos.Column)
	}
	if d.Fix != "" {
		fmt.Fprintf(&b, "    fix: %s\n", d.Fix)
	}
	return b.String()
}

// FormatAll renders every accumulated diagnostic, in position order.
func (r *Reporter) FormatAll() string {
	var b strings.Builder
	for _, d := range r.Diagnostics() {
		b.WriteString(r.Format(d))
	}
	return b.String()
}

func sourceLine(source string, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}
