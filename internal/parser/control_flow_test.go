package parser

import (
	"testing"

	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/errors"
	"github.com/wfl-lang/wfl/internal/lexer"
)

func parseProgramSource(t *testing.T, source string) *ast.Program {
	t.Helper()
	reporter := errors.NewReporter("<test>", source)
	l := lexer.New(source)
	p := New(l, reporter)
	prog := p.ParseProgram()
	if reporter.HasErrors() {
		t.Fatalf("parse errors for:\n%s\n%s", source, reporter.FormatAll())
	}
	return prog
}

// TestConditionalWithOtherwise covers the plain `check if ... otherwise:
// ... end check` shape.
func TestConditionalWithOtherwise(t *testing.T) {
	prog := parseProgramSource(t, `check if x is greater than 0:
display "positive"
otherwise:
display "non-positive"
end check`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	cond, ok := prog.Statements[0].(*ast.ConditionalStatement)
	if !ok {
		t.Fatalf("expected *ast.ConditionalStatement, got %T", prog.Statements[0])
	}
	if len(cond.Then) != 1 || len(cond.Else) != 1 {
		t.Fatalf("expected one statement in each branch, got then=%d else=%d", len(cond.Then), len(cond.Else))
	}
}

// TestOtherwiseCheckIfChainsAsNestedConditional covers `otherwise: check
// if ...` used to build an else-if chain: the nested `check if` is just an
// ordinary statement parsed inside the outer Else block, not a distinct
// grammar construct.
func TestOtherwiseCheckIfChainsAsNestedConditional(t *testing.T) {
	prog := parseProgramSource(t, `check if score is at least 90:
display "A"
otherwise:
check if score is at least 80:
display "B"
otherwise:
display "C"
end check
end check`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	outer, ok := prog.Statements[0].(*ast.ConditionalStatement)
	if !ok {
		t.Fatalf("expected *ast.ConditionalStatement, got %T", prog.Statements[0])
	}
	if len(outer.Else) != 1 {
		t.Fatalf("expected outer Else to hold exactly the nested check if, got %d statements", len(outer.Else))
	}
	inner, ok := outer.Else[0].(*ast.ConditionalStatement)
	if !ok {
		t.Fatalf("expected nested statement to be *ast.ConditionalStatement, got %T", outer.Else[0])
	}
	if len(inner.Then) != 1 || len(inner.Else) != 1 {
		t.Fatalf("expected one statement in each inner branch, got then=%d else=%d", len(inner.Then), len(inner.Else))
	}
}

// TestConditionalWithoutOtherwise covers a `check if` with no else branch
// at all: Else must stay nil/empty rather than being populated.
func TestConditionalWithoutOtherwise(t *testing.T) {
	prog := parseProgramSource(t, `check if ready:
display "go"
end check`)
	cond, ok := prog.Statements[0].(*ast.ConditionalStatement)
	if !ok {
		t.Fatalf("expected *ast.ConditionalStatement, got %T", prog.Statements[0])
	}
	if len(cond.Else) != 0 {
		t.Fatalf("expected no Else statements, got %d", len(cond.Else))
	}
}

// TestDeeplyNestedOtherwiseCheckIfChain covers a longer else-if chain to
// make sure nesting depth isn't hardcoded anywhere in the otherwise/check
// if handling.
func TestDeeplyNestedOtherwiseCheckIfChain(t *testing.T) {
	prog := parseProgramSource(t, `check if n is 1:
display "one"
otherwise:
check if n is 2:
display "two"
otherwise:
check if n is 3:
display "three"
otherwise:
display "many"
end check
end check
end check`)
	depth := 0
	cond := prog.Statements[0].(*ast.ConditionalStatement)
	for {
		depth++
		if len(cond.Else) != 1 {
			break
		}
		next, ok := cond.Else[0].(*ast.ConditionalStatement)
		if !ok {
			break
		}
		cond = next
	}
	if depth != 3 {
		t.Fatalf("expected 3 levels of check if nesting, got %d", depth)
	}
}
