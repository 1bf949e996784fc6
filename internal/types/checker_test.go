package types

import (
	"testing"

	"github.com/wfl-lang/wfl/internal/errors"
	"github.com/wfl-lang/wfl/internal/lexer"
	"github.com/wfl-lang/wfl/internal/parser"
)

func check(t *testing.T, source string) *errors.Reporter {
	t.Helper()
	reporter := errors.NewReporter("<test>", source)
	p := parser.New(lexer.New(source), reporter)
	prog := p.ParseProgram()
	if reporter.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", reporter.Diagnostics())
	}
	Check(prog, reporter)
	return reporter
}

func hasCode(reporter *errors.Reporter, code string) bool {
	for _, d := range reporter.Diagnostics() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestArithmeticOnTextIsTypeMismatch(t *testing.T) {
	source := "store total as 1\n" +
		"store label as \"x\"\n" +
		"store sum as total plus label\n"
	reporter := check(t, source)
	if !hasCode(reporter, errors.CodeTypeMismatch) {
		t.Fatalf("expected %s, got %v", errors.CodeTypeMismatch, reporter.Diagnostics())
	}
}

func TestArithmeticOnTwoNumbersIsClean(t *testing.T) {
	source := "store a as 1\n" +
		"store b as 2\n" +
		"store total as a plus b\n"
	reporter := check(t, source)
	if hasCode(reporter, errors.CodeTypeMismatch) {
		t.Errorf("two Numbers should not mismatch, got %v", reporter.Diagnostics())
	}
}

func TestConcatenationNeverMismatches(t *testing.T) {
	source := "store n as 1\n" +
		"store greeting as \"count: \" with n\n"
	reporter := check(t, source)
	if hasCode(reporter, errors.CodeTypeMismatch) {
		t.Errorf("concatenation should coerce any operand, got %v", reporter.Diagnostics())
	}
}

func TestOrderedComparisonMixingNumberAndTextMismatches(t *testing.T) {
	source := "store n as 1\n" +
		"store label as \"x\"\n" +
		"store ok as n is greater than label\n"
	reporter := check(t, source)
	if !hasCode(reporter, errors.CodeTypeMismatch) {
		t.Fatalf("expected %s, got %v", errors.CodeTypeMismatch, reporter.Diagnostics())
	}
}

func TestOrderedComparisonOnTwoTextValuesIsClean(t *testing.T) {
	source := "store a as \"apple\"\n" +
		"store b as \"banana\"\n" +
		"store ok as a is less than b\n"
	reporter := check(t, source)
	if hasCode(reporter, errors.CodeTypeMismatch) {
		t.Errorf("two Text values should order-compare cleanly, got %v", reporter.Diagnostics())
	}
}

func TestLogicalOperatorOnNumbersMismatches(t *testing.T) {
	source := "store a as 1\n" +
		"store b as 2\n" +
		"store ok as a and b\n"
	reporter := check(t, source)
	if !hasCode(reporter, errors.CodeTypeMismatch) {
		t.Fatalf("expected %s, got %v", errors.CodeTypeMismatch, reporter.Diagnostics())
	}
}

func TestEqualsAllowsNullOnEitherSide(t *testing.T) {
	source := "store a as 1\n" +
		"store ok as a is nothing\n"
	reporter := check(t, source)
	if hasCode(reporter, errors.CodeTypeMismatch) {
		t.Errorf("comparing against nothing should never mismatch, got %v", reporter.Diagnostics())
	}
}

func TestContainerPropertyDefaultTypeMismatch(t *testing.T) {
	source := "create container Counter:\n" +
		"property value as Number = \"not a number\"\n" +
		"end container\n"
	reporter := check(t, source)
	if !hasCode(reporter, errors.CodeTypeMismatch) {
		t.Fatalf("expected %s, got %v", errors.CodeTypeMismatch, reporter.Diagnostics())
	}
}

func TestContainerPropertyInitTypeMismatchOnCreate(t *testing.T) {
	source := "create container Counter:\n" +
		"property value as Number = 0\n" +
		"end container\n" +
		"create new Counter as c: value is \"not a number\" end create\n"
	reporter := check(t, source)
	if !hasCode(reporter, errors.CodeTypeMismatch) {
		t.Fatalf("expected %s, got %v", errors.CodeTypeMismatch, reporter.Diagnostics())
	}
}

func TestInheritedPropertyResolvesThroughParent(t *testing.T) {
	source := "create container Shape:\n" +
		"property label as Text = \"shape\"\n" +
		"end container\n" +
		"create container Circle extends Shape:\n" +
		"define action called describe:\n" +
		"display label\n" +
		"end action\n" +
		"end container\n"
	reporter := check(t, source)
	if hasCode(reporter, errors.CodeTypeMismatch) {
		t.Errorf("inherited property access should not mismatch, got %v", reporter.Diagnostics())
	}
}

func TestActionCallWithMatchingArgumentCountIsClean(t *testing.T) {
	source := "define action called shout needs words:\n" +
		"display words\n" +
		"end action\n" +
		"call shout with 1\n"
	reporter := check(t, source)
	if hasCode(reporter, errors.CodeTypeMismatch) {
		t.Errorf("untyped parameter should not mismatch any argument, got %v", reporter.Diagnostics())
	}
}
