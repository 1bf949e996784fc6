package errors

import (
	"strings"
	"testing"

	"github.com/wfl-lang/wfl/internal/lexer"
)

func TestFormatIncludesCaret(t *testing.T) {
	r := NewReporter("main.wfl", "store x as 1\ndisplay y")
	r.Errorf(lexer.Position{Line: 2, Column: 9}, CodeUndefinedName, "undefined name %q", "y")
	out := r.Format(r.Diagnostics()[0])
	if !strings.Contains(out, "main.wfl:2:9") {
		t.Fatalf("missing location: %s", out)
	}
	if !strings.Contains(out, "display y") {
		t.Fatalf("missing source line: %s", out)
	}
}

func TestHasErrorsDistinguishesWarnings(t *testing.T) {
	r := NewReporter("", "")
	r.Warnf(lexer.Position{Line: 1, Column: 1}, CodeUnusedVariable, "unused variable")
	if r.HasErrors() {
		t.Fatal("warnings alone should not count as errors")
	}
	r.Errorf(lexer.Position{Line: 1, Column: 1}, CodeUndefinedName, "boom")
	if !r.HasErrors() {
		t.Fatal("expected HasErrors true after an error diagnostic")
	}
}

func TestDiagnosticsSortedByPosition(t *testing.T) {
	r := NewReporter("", "")
	r.Errorf(lexer.Position{Line: 5, Column: 1}, CodeUndefinedName, "later")
	r.Errorf(lexer.Position{Line: 1, Column: 1}, CodeUndefinedName, "earlier")
	got := r.Diagnostics()
	if got[0].Message != "earlier" || got[1].Message != "later" {
		t.Fatalf("not sorted: %+v", got)
	}
}

func TestToJSONRoundTripsFields(t *testing.T) {
	r := NewReporter("", "")
	r.Errorf(lexer.Position{Line: 3, Column: 4}, CodeTypeMismatch, "type mismatch")
	out, err := r.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	if !strings.Contains(s, "WFL-301") || !strings.Contains(s, "\"line\": 3") {
		t.Fatalf("json missing expected fields: %s", s)
	}
}
