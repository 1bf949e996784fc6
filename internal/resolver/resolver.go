// Package resolver implements the module resolution pass that runs between
// parsing and analysis: it inlines every `load module from`/`include from`
// statement's target file in place, recursively, and reports cycles and
// missing files as diagnostics (spec §4.3).
package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/errors"
	"github.com/wfl-lang/wfl/internal/lexer"
	"github.com/wfl-lang/wfl/internal/parser"
)

// Resolver flattens imports into a single program. It mirrors the teacher's
// unit registry (`internal/units.UnitRegistry`): a `loading` set standing in
// for the active import stack (cycle detection) and a `done` set standing in
// for the completed-imports cache (import idempotence), except modules here
// are addressed by resolved file path rather than by unit name.
type Resolver struct {
	reporter *errors.Reporter

	loading map[string]bool // active import stack, for cycle detection
	done    map[string]bool // completed imports, so re-importing is a no-op
	stack   []string        // ordered active stack, for cycle-diagnostic messages
}

// New creates a Resolver that reports failures into reporter.
func New(reporter *errors.Reporter) *Resolver {
	return &Resolver{
		reporter: reporter,
		loading:  make(map[string]bool),
		done:     make(map[string]bool),
	}
}

// Resolve flattens prog, which was parsed from the file at sourcePath,
// inlining every import it (transitively) contains. The returned program has
// no ImportStatement nodes left in it.
func (r *Resolver) Resolve(prog *ast.Program, sourcePath string) *ast.Program {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		abs = sourcePath
	}
	r.loading[abs] = true
	r.stack = append(r.stack, abs)
	defer func() {
		delete(r.loading, abs)
		r.stack = r.stack[:len(r.stack)-1]
		r.done[abs] = true
	}()

	return &ast.Program{Statements: r.inlineStatements(prog.Statements, filepath.Dir(abs))}
}

func (r *Resolver) inlineStatements(stmts []ast.Statement, baseDir string) []ast.Statement {
	out := make([]ast.Statement, 0, len(stmts))
	for _, stmt := range stmts {
		imp, ok := stmt.(*ast.ImportStatement)
		if !ok {
			out = append(out, stmt)
			continue
		}
		out = append(out, r.inlineImport(imp, baseDir)...)
	}
	return out
}

// inlineImport resolves one import statement to a flattened slice of
// statements in place of the `load`/`include` line. On any failure it
// reports a diagnostic and returns the import statement's position as an
// empty slice, so the parent program still makes sense without it.
func (r *Resolver) inlineImport(imp *ast.ImportStatement, baseDir string) []ast.Statement {
	resolved, ok := r.resolvePath(imp, baseDir)
	if !ok {
		return nil
	}

	if r.loading[resolved] {
		r.reporter.Errorf(imp.Pos(), errors.CodeImportCycle, "circular import: %s", r.cycleChain(resolved))
		return nil
	}
	if r.done[resolved] {
		return nil // already inlined elsewhere; imports are idempotent
	}

	source, err := os.ReadFile(resolved)
	if err != nil {
		r.reporter.Errorf(imp.Pos(), errors.CodeImportNotFound, "cannot read module %q: %v", imp.Path, err)
		return nil
	}

	childReporter := errors.NewReporter(resolved, string(source))
	l := lexer.New(string(source))
	p := parser.New(l, childReporter)
	childProg := p.ParseProgram()
	if childReporter.HasErrors() {
		r.reporter.Errorf(imp.Pos(), errors.CodeImportParseError,
			"import chain %s: parse error in imported file", r.cycleChain(resolved))
		return nil
	}

	r.loading[resolved] = true
	r.stack = append(r.stack, resolved)
	flattened := r.inlineStatements(childProg.Statements, filepath.Dir(resolved))
	delete(r.loading, resolved)
	r.stack = r.stack[:len(r.stack)-1]
	r.done[resolved] = true

	return flattened
}

// resolvePath resolves an import's path relative first to the importing
// file's directory, then to the process working directory (spec §4.3 step
// 1). On failure it reports every path tried, per the "file not found"
// failure mode.
func (r *Resolver) resolvePath(imp *ast.ImportStatement, baseDir string) (string, bool) {
	tried := []string{}

	rel := filepath.Join(baseDir, imp.Path)
	tried = append(tried, rel)
	if info, err := os.Stat(rel); err == nil && !info.IsDir() {
		abs, _ := filepath.Abs(rel)
		return abs, true
	}

	cwd, err := os.Getwd()
	if err == nil {
		fromCwd := filepath.Join(cwd, imp.Path)
		tried = append(tried, fromCwd)
		if info, err := os.Stat(fromCwd); err == nil && !info.IsDir() {
			abs, _ := filepath.Abs(fromCwd)
			return abs, true
		}
	}

	r.reporter.Errorf(imp.Pos(), errors.CodeImportNotFound,
		"module %q not found, tried: %s", imp.Path, strings.Join(tried, ", "))
	return "", false
}

func (r *Resolver) cycleChain(target string) string {
	chain := append(append([]string{}, r.stack...), target)
	return strings.Join(chain, " -> ")
}
