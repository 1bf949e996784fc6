package parser

import (
	"testing"

	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/errors"
	"github.com/wfl-lang/wfl/internal/lexer"
)

func parseExprSource(t *testing.T, source string) ast.Expression {
	t.Helper()
	reporter := errors.NewReporter("<test>", source)
	l := lexer.New(source)
	p := New(l, reporter)
	prog := p.ParseProgram()
	if reporter.HasErrors() {
		t.Fatalf("parse errors for:\n%s\n%s", source, reporter.FormatAll())
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected exactly one statement, got %d", len(prog.Statements))
	}
	stmt, ok := prog.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected an ExpressionStatement, got %T", prog.Statements[0])
	}
	return stmt.Expr
}

// TestIndexFormsAreEquivalent verifies the three accepted surface spellings
// of index access normalize to the same IndexExpression shape: `list 0`,
// `list at 0`, and `list[0]`.
func TestIndexFormsAreEquivalent(t *testing.T) {
	forms := []string{
		`list 0`,
		`list at 0`,
		`list[0]`,
	}
	var want string
	for i, src := range forms {
		expr := parseExprSource(t, src)
		ix, ok := expr.(*ast.IndexExpression)
		if !ok {
			t.Fatalf("%q: expected *ast.IndexExpression, got %T", src, expr)
		}
		if _, ok := ix.Object.(*ast.Identifier); !ok {
			t.Fatalf("%q: expected Object to be an Identifier, got %T", src, ix.Object)
		}
		if _, ok := ix.Index.(*ast.NumberLiteral); !ok {
			t.Fatalf("%q: expected Index to be a NumberLiteral, got %T", src, ix.Index)
		}
		if i == 0 {
			want = expr.String()
			continue
		}
		if got := expr.String(); got != want {
			t.Fatalf("%q: String() = %q, want %q (same as %q)", src, got, want, forms[0])
		}
	}
}

// TestIndexFormsChainedOnMemberAccess verifies indexing works the same
// across the three spellings when the indexed object is itself a member
// access, not just a bare identifier.
func TestIndexFormsChainedOnMemberAccess(t *testing.T) {
	forms := []string{
		`order.items 0`,
		`order.items at 0`,
		`order.items[0]`,
	}
	var want string
	for i, src := range forms {
		expr := parseExprSource(t, src)
		ix, ok := expr.(*ast.IndexExpression)
		if !ok {
			t.Fatalf("%q: expected *ast.IndexExpression, got %T", src, expr)
		}
		if _, ok := ix.Object.(*ast.MemberExpression); !ok {
			t.Fatalf("%q: expected Object to be a MemberExpression, got %T", src, ix.Object)
		}
		if i == 0 {
			want = expr.String()
			continue
		}
		if got := expr.String(); got != want {
			t.Fatalf("%q: String() = %q, want %q (same as %q)", src, got, want, forms[0])
		}
	}
}

// TestComparisonPhrases covers the multi-word `is ...` comparison forms
// parsing into the expected BinaryExpression operator, including their
// negated spellings.
func TestComparisonPhrases(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"a is b", "equals"},
		{"a is not b", "not_equals"},
		{"a is greater than b", "greater_than"},
		{"a is less than b", "less_than"},
		{"a is above b", "greater_than"},
		{"a is below b", "less_than"},
		{"a is at least b", "at_least"},
		{"a is at most b", "at_most"},
		{"a is equal to b", "equals"},
		{"a is in b", "in"},
		{"a is not in b", "not_in"},
	}
	for _, c := range cases {
		expr := parseExprSource(t, c.src)
		bin, ok := expr.(*ast.BinaryExpression)
		if !ok {
			t.Fatalf("%q: expected *ast.BinaryExpression, got %T", c.src, expr)
		}
		if bin.Operator != c.want {
			t.Fatalf("%q: Operator = %q, want %q", c.src, bin.Operator, c.want)
		}
	}
}

// TestIsNotGreaterThanNegatesTheWholeComparison covers the "is not <cmp>"
// phrases that don't collapse to a single negated operator name (only
// equals/in do); these wrap the comparison in a UnaryExpression "not".
func TestIsNotGreaterThanNegatesTheWholeComparison(t *testing.T) {
	expr := parseExprSource(t, "a is not greater than b")
	un, ok := expr.(*ast.UnaryExpression)
	if !ok {
		t.Fatalf("expected *ast.UnaryExpression, got %T", expr)
	}
	if un.Operator != "not" {
		t.Fatalf("Operator = %q, want %q", un.Operator, "not")
	}
	bin, ok := un.Operand.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected operand to be *ast.BinaryExpression, got %T", un.Operand)
	}
	if bin.Operator != "greater_than" {
		t.Fatalf("Operator = %q, want %q", bin.Operator, "greater_than")
	}
}

// TestBetweenComparison covers `is [not] between <a> and <b>`.
func TestBetweenComparison(t *testing.T) {
	expr := parseExprSource(t, "a is between 1 and 10")
	bin, ok := expr.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpression, got %T", expr)
	}
	if bin.Operator != "between" {
		t.Fatalf("Operator = %q, want %q", bin.Operator, "between")
	}
	bounds, ok := bin.Right.(*ast.ListLiteral)
	if !ok || len(bounds.Elements) != 2 {
		t.Fatalf("expected Right to be a two-element ListLiteral, got %#v", bin.Right)
	}

	negated := parseExprSource(t, "a is not between 1 and 10")
	un, ok := negated.(*ast.UnaryExpression)
	if !ok || un.Operator != "not" {
		t.Fatalf("expected negated form to be *ast.UnaryExpression \"not\", got %#v", negated)
	}
}

// TestBareIdentifierWithIsConcatenation is the regression this parser's
// call syntax exists to avoid: a bare identifier followed by `with` must
// always parse as string concatenation, never as a call-argument list,
// since only the dedicated `call` keyword introduces a call.
func TestBareIdentifierWithIsConcatenation(t *testing.T) {
	expr := parseExprSource(t, `item with " of " with total`)
	bin, ok := expr.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpression, got %T", expr)
	}
	if bin.Operator != "with" {
		t.Fatalf("Operator = %q, want %q", bin.Operator, "with")
	}
	inner, ok := bin.Left.(*ast.BinaryExpression)
	if !ok || inner.Operator != "with" {
		t.Fatalf("expected Left to be the inner `with` expression, got %#v", bin.Left)
	}
	if _, ok := inner.Left.(*ast.Identifier); !ok {
		t.Fatalf("expected innermost Left to be an Identifier, got %T", inner.Left)
	}
}

// TestCallExpressionWithArguments covers `call <callee> with <arg> and
// <arg>`, including a member-expression callee.
func TestCallExpressionWithArguments(t *testing.T) {
	expr := parseExprSource(t, "call add with 3 and 4")
	call, ok := expr.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected *ast.CallExpression, got %T", expr)
	}
	if _, ok := call.Callee.(*ast.Identifier); !ok {
		t.Fatalf("expected Callee to be an Identifier, got %T", call.Callee)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}

	method := parseExprSource(t, "call counter.increment with 5")
	mcall, ok := method.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected *ast.CallExpression, got %T", method)
	}
	if _, ok := mcall.Callee.(*ast.MemberExpression); !ok {
		t.Fatalf("expected Callee to be a MemberExpression, got %T", mcall.Callee)
	}
	if len(mcall.Args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(mcall.Args))
	}
}

// TestCallExpressionWithNoArguments covers a zero-argument `call foo` with
// no trailing `with` clause.
func TestCallExpressionWithNoArguments(t *testing.T) {
	expr := parseExprSource(t, "call refresh")
	call, ok := expr.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected *ast.CallExpression, got %T", expr)
	}
	if call.Args != nil {
		t.Fatalf("expected nil Args, got %#v", call.Args)
	}
}
