package semantic

import (
	"strings"
	"testing"

	"github.com/wfl-lang/wfl/internal/errors"
	"github.com/wfl-lang/wfl/internal/lexer"
	"github.com/wfl-lang/wfl/internal/parser"
)

func analyze(t *testing.T, source string) *errors.Reporter {
	t.Helper()
	reporter := errors.NewReporter("<test>", source)
	p := parser.New(lexer.New(source), reporter)
	prog := p.ParseProgram()
	if reporter.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", reporter.Diagnostics())
	}
	Analyze(prog, reporter)
	return reporter
}

func codesOf(reporter *errors.Reporter) []string {
	var codes []string
	for _, d := range reporter.Diagnostics() {
		codes = append(codes, d.Code)
	}
	return codes
}

func hasCode(reporter *errors.Reporter, code string) bool {
	for _, c := range codesOf(reporter) {
		if c == code {
			return true
		}
	}
	return false
}

func TestUndefinedNameSuggestsClosestMatch(t *testing.T) {
	reporter := analyze(t, "store total as 1\ndisplay totol\n")
	if !hasCode(reporter, errors.CodeUndefinedName) {
		t.Fatalf("expected %s, got %v", errors.CodeUndefinedName, codesOf(reporter))
	}
	found := false
	for _, d := range reporter.Diagnostics() {
		if d.Code == errors.CodeUndefinedName && strings.Contains(d.Message, "total") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the undefined-name diagnostic to suggest %q, got %v", "total", reporter.Diagnostics())
	}
}

func TestUnusedLocalVariableWarnsAtScopeExit(t *testing.T) {
	source := "define action called run:\n" +
		"store unused as 1\n" +
		"store used as 2\n" +
		"display used\n" +
		"end action\n"
	reporter := analyze(t, source)
	if !hasCode(reporter, errors.CodeUnusedVariable) {
		t.Fatalf("expected %s, got %v", errors.CodeUnusedVariable, codesOf(reporter))
	}
}

func TestTopLevelUnusedActionIsNotFlagged(t *testing.T) {
	source := "define action called helper needs x:\n" +
		"display x\n" +
		"end action\n"
	reporter := analyze(t, source)
	if hasCode(reporter, errors.CodeUnusedVariable) {
		t.Errorf("top-level action should not be flagged unused, got %v", codesOf(reporter))
	}
}

func TestParameterUsedOnlyInsideNestedCallStillCountsAsUsed(t *testing.T) {
	source := "define action called shout needs words:\n" +
		"display words\n" +
		"end action\n" +
		"define action called run needs message:\n" +
		"call shout with message\n" +
		"end action\n"
	reporter := analyze(t, source)
	if hasCode(reporter, errors.CodeUnusedVariable) {
		t.Errorf("parameter passed into a nested call should count as used, got %v", codesOf(reporter))
	}
}

func TestUnreachableCodeAfterReturnIsFlagged(t *testing.T) {
	source := "define action called run:\n" +
		"give back 1\n" +
		"display \"never\"\n" +
		"end action\n"
	reporter := analyze(t, source)
	if !hasCode(reporter, errors.CodeUnreachableCode) {
		t.Fatalf("expected %s, got %v", errors.CodeUnreachableCode, codesOf(reporter))
	}
}

func TestUnreachableCodeAfterBreakInsideLoop(t *testing.T) {
	source := "repeat forever:\n" +
		"break\n" +
		"display \"never\"\n" +
		"end repeat\n"
	reporter := analyze(t, source)
	if !hasCode(reporter, errors.CodeUnreachableCode) {
		t.Fatalf("expected %s, got %v", errors.CodeUnreachableCode, codesOf(reporter))
	}
}

func TestDuplicateActionDefinitionIsFlagged(t *testing.T) {
	source := "define action called run:\n" +
		"display 1\n" +
		"end action\n" +
		"define action called run:\n" +
		"display 2\n" +
		"end action\n"
	reporter := analyze(t, source)
	if !hasCode(reporter, errors.CodeDuplicateDefinition) {
		t.Fatalf("expected %s, got %v", errors.CodeDuplicateDefinition, codesOf(reporter))
	}
}

func TestUnknownContainerTypeIsFlagged(t *testing.T) {
	source := "create new Widget as w\n"
	reporter := analyze(t, source)
	if !hasCode(reporter, errors.CodeUnknownContainer) {
		t.Fatalf("expected %s, got %v", errors.CodeUnknownContainer, codesOf(reporter))
	}
}

func TestContainerPropertyVisibleInsideItsOwnActions(t *testing.T) {
	source := "create container Counter:\n" +
		"property value as number = 0\n" +
		"define action called bump:\n" +
		"change value to 1\n" +
		"end action\n" +
		"end container\n"
	reporter := analyze(t, source)
	if hasCode(reporter, errors.CodeUndefinedName) {
		t.Errorf("property should resolve inside its own container's actions, got %v", codesOf(reporter))
	}
}

func TestSpaceSeparatedActionCalledWithOneArgumentWarns(t *testing.T) {
	source := "define action called combine needs a b c:\n" +
		"display a\n" +
		"end action\n" +
		"call combine with 1\n"
	reporter := analyze(t, source)
	if !hasCode(reporter, errors.CodeArityMismatchWarning) {
		t.Fatalf("expected %s, got %v", errors.CodeArityMismatchWarning, codesOf(reporter))
	}
}

func TestRespondWithoutContentTypeIsFlagged(t *testing.T) {
	source := "listen on port 8080 as server\n" +
		"wait for request comes in on server as req\n" +
		"respond to req with \"ok\"\n"
	reporter := analyze(t, source)
	if !hasCode(reporter, errors.CodeMissingContentType) {
		t.Fatalf("expected %s, got %v", errors.CodeMissingContentType, codesOf(reporter))
	}
}
