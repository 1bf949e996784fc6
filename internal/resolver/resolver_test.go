package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/errors"
	"github.com/wfl-lang/wfl/internal/lexer"
	"github.com/wfl-lang/wfl/internal/parser"
)

func parseSource(t *testing.T, source string) (*ast.Program, *errors.Reporter) {
	t.Helper()
	reporter := errors.NewReporter("<test>", source)
	p := parser.New(lexer.New(source), reporter)
	return p.ParseProgram(), reporter
}

func TestResolveInlinesSimpleImport(t *testing.T) {
	dir := t.TempDir()
	childPath := filepath.Join(dir, "greeting.wfl")
	if err := os.WriteFile(childPath, []byte("store greeting as \"hi\"\n"), 0644); err != nil {
		t.Fatalf("failed to write child module: %v", err)
	}

	mainPath := filepath.Join(dir, "main.wfl")
	mainSource := "load module from \"greeting.wfl\"\ndisplay greeting\n"
	prog, reporter := parseSource(t, mainSource)
	if reporter.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", reporter.Diagnostics())
	}

	r := New(errors.NewReporter(mainPath, mainSource))
	flattened := r.Resolve(prog, mainPath)

	if len(flattened.Statements) != 2 {
		t.Fatalf("expected 2 statements after inlining, got %d", len(flattened.Statements))
	}
	if _, ok := flattened.Statements[0].(*ast.StoreStatement); !ok {
		t.Errorf("expected first statement to be the inlined store, got %T", flattened.Statements[0])
	}
	if _, ok := flattened.Statements[1].(*ast.DisplayStatement); !ok {
		t.Errorf("expected second statement to be the original display, got %T", flattened.Statements[1])
	}
}

func TestResolveDetectsCycle(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.wfl")
	bPath := filepath.Join(dir, "b.wfl")
	if err := os.WriteFile(aPath, []byte("load module from \"b.wfl\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bPath, []byte("load module from \"a.wfl\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	source, err := os.ReadFile(aPath)
	if err != nil {
		t.Fatal(err)
	}
	prog, reporter := parseSource(t, string(source))
	if reporter.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", reporter.Diagnostics())
	}

	reportOut := errors.NewReporter(aPath, string(source))
	r := New(reportOut)
	r.Resolve(prog, aPath)

	if !reportOut.HasErrors() {
		t.Fatal("expected a circular import diagnostic")
	}
	found := false
	for _, d := range reportOut.Diagnostics() {
		if d.Code == errors.CodeImportCycle {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a %s diagnostic, got %v", errors.CodeImportCycle, reportOut.Diagnostics())
	}
}

func TestResolveIdempotentDoubleImport(t *testing.T) {
	dir := t.TempDir()
	childPath := filepath.Join(dir, "shared.wfl")
	if err := os.WriteFile(childPath, []byte("store shared as 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	mainSource := "load module from \"shared.wfl\"\nload module from \"shared.wfl\"\n"
	mainPath := filepath.Join(dir, "main.wfl")
	prog, reporter := parseSource(t, mainSource)
	if reporter.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", reporter.Diagnostics())
	}

	r := New(errors.NewReporter(mainPath, mainSource))
	flattened := r.Resolve(prog, mainPath)

	if len(flattened.Statements) != 1 {
		t.Fatalf("expected the second import to be a no-op cache hit, got %d statements", len(flattened.Statements))
	}
}

func TestResolveMissingFileReportsEveryPathTried(t *testing.T) {
	dir := t.TempDir()
	mainSource := "load module from \"nope.wfl\"\n"
	mainPath := filepath.Join(dir, "main.wfl")
	prog, reporter := parseSource(t, mainSource)
	if reporter.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", reporter.Diagnostics())
	}

	reportOut := errors.NewReporter(mainPath, mainSource)
	r := New(reportOut)
	r.Resolve(prog, mainPath)

	if !reportOut.HasErrors() {
		t.Fatal("expected a module-not-found diagnostic")
	}
	if reportOut.Diagnostics()[0].Code != errors.CodeImportNotFound {
		t.Errorf("expected %s, got %s", errors.CodeImportNotFound, reportOut.Diagnostics()[0].Code)
	}
}
