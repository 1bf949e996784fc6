package parser

import (
	"strconv"

	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/errors"
	"github.com/wfl-lang/wfl/internal/lexer"
)

// argPrecedence bounds how much of an expression a single `with <arg> and
// <arg>` list item consumes: high enough to admit arithmetic and
// concatenation, low enough that a bare `and` is read as the next argument
// rather than folded into the previous one. Both call arguments and
// `create new` constructor arguments share it.
const argPrecedence = precComparison

// parseExpression is the entry point for precedence-climbing: it parses
// one unary/primary/postfix term, then repeatedly folds in binary
// operators whose precedence exceeds prec (spec §4.2).
func (p *Parser) parseExpression(prec int) ast.Expression {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for !p.atExprEnd() && prec < p.curOperatorPrecedence() {
		left = p.parseBinaryRHS(left)
		if left == nil {
			return nil
		}
	}
	return left
}

// curOperatorPrecedence reports the precedence of the binary operator
// starting at the current token, or precLowest if none applies.
func (p *Parser) curOperatorPrecedence() int {
	switch p.cur.Type {
	case lexer.OR, lexer.AND, lexer.IS, lexer.CONTAINS, lexer.STARTS, lexer.ENDS,
		lexer.MATCHES, lexer.WITH, lexer.PLUS, lexer.MINUS, lexer.TIMES,
		lexer.DIVIDED, lexer.MODULO:
		if pr, ok := precedences[p.cur.Literal]; ok {
			return pr
		}
		if p.cur.Type == lexer.MATCHES {
			return precComparison
		}
		return precLowest
	default:
		return precLowest
	}
}

// atExprEnd reports tokens that can never begin or continue an expression,
// so the binary-operator loop stops instead of spinning on error recovery.
func (p *Parser) atExprEnd() bool {
	switch p.cur.Type {
	case lexer.EOF, lexer.COLON, lexer.COMMA, lexer.RPAREN, lexer.RBRACKET,
		lexer.RBRACE, lexer.END, lexer.OTHERWISE, lexer.WHEN, lexer.AS,
		lexer.BY, lexer.TO, lexer.FROM, lexer.IN:
		return true
	}
	return false
}

func (p *Parser) parseBinaryRHS(left ast.Expression) ast.Expression {
	switch p.cur.Type {
	case lexer.OR:
		tok := p.cur
		p.next()
		right := p.parseExpression(precOr)
		return &ast.BinaryExpression{Token: tok, Left: left, Operator: "or", Right: right}
	case lexer.AND:
		tok := p.cur
		p.next()
		right := p.parseExpression(precAnd)
		return &ast.BinaryExpression{Token: tok, Left: left, Operator: "and", Right: right}
	case lexer.IS:
		return p.parseComparison(left)
	case lexer.CONTAINS:
		tok := p.cur
		p.next()
		right := p.parseExpression(precComparison)
		return &ast.BinaryExpression{Token: tok, Left: left, Operator: "contains", Right: right}
	case lexer.STARTS:
		tok := p.cur
		p.next()
		p.expect(lexer.WITH)
		right := p.parseExpression(precComparison)
		return &ast.BinaryExpression{Token: tok, Left: left, Operator: "starts_with", Right: right}
	case lexer.ENDS:
		tok := p.cur
		p.next()
		p.expect(lexer.WITH)
		right := p.parseExpression(precComparison)
		return &ast.BinaryExpression{Token: tok, Left: left, Operator: "ends_with", Right: right}
	case lexer.MATCHES:
		tok := p.cur
		p.next()
		pattern := p.parseExpression(precComparison)
		return &ast.MatchesExpression{Token: tok, Text: left, Pattern: pattern}
	case lexer.WITH:
		tok := p.cur
		p.next()
		right := p.parseExpression(precConcat)
		return &ast.BinaryExpression{Token: tok, Left: left, Operator: "with", Right: right}
	case lexer.PLUS:
		tok := p.cur
		p.next()
		right := p.parseExpression(precAdditive)
		return &ast.BinaryExpression{Token: tok, Left: left, Operator: "plus", Right: right}
	case lexer.MINUS:
		tok := p.cur
		p.next()
		right := p.parseExpression(precAdditive)
		return &ast.BinaryExpression{Token: tok, Left: left, Operator: "minus", Right: right}
	case lexer.TIMES:
		tok := p.cur
		p.next()
		right := p.parseExpression(precMultiplicative)
		return &ast.BinaryExpression{Token: tok, Left: left, Operator: "times", Right: right}
	case lexer.DIVIDED:
		tok := p.cur
		p.next()
		p.expect(lexer.BY)
		right := p.parseExpression(precMultiplicative)
		return &ast.BinaryExpression{Token: tok, Left: left, Operator: "divided", Right: right}
	case lexer.MODULO:
		tok := p.cur
		p.next()
		right := p.parseExpression(precMultiplicative)
		return &ast.BinaryExpression{Token: tok, Left: left, Operator: "modulo", Right: right}
	default:
		return left
	}
}

// parseComparison parses every `is ...` phrase: plain equality, `is not`,
// `is greater/less than`, `is at least/most`, `is above/below`, `is equal
// to`, `is in`, and `is [not] between <a> and <b>`.
func (p *Parser) parseComparison(left ast.Expression) ast.Expression {
	tok := p.cur
	p.next() // consume is
	negate := false
	if p.curIs(lexer.NOT) {
		negate = true
		p.next()
	}

	if p.curIs(lexer.BETWEEN) {
		p.next()
		low := p.parseExpression(precAdditive)
		p.expect(lexer.AND)
		high := p.parseExpression(precAdditive)
		bounds := &ast.ListLiteral{Token: tok, Elements: []ast.Expression{low, high}}
		cmp := ast.Expression(&ast.BinaryExpression{Token: tok, Left: left, Operator: "between", Right: bounds})
		if negate {
			return &ast.UnaryExpression{Token: tok, Operator: "not", Operand: cmp}
		}
		return cmp
	}

	op := "equals"
	switch {
	case p.curIs(lexer.IN):
		p.next()
		op = "in"
	case p.curIs(lexer.GREATER):
		p.next()
		p.expect(lexer.THAN)
		op = "greater_than"
	case p.curIs(lexer.LESS):
		p.next()
		p.expect(lexer.THAN)
		op = "less_than"
	case p.curIs(lexer.ABOVE):
		p.next()
		op = "greater_than"
	case p.curIs(lexer.BELOW):
		p.next()
		op = "less_than"
	case p.curIs(lexer.AT):
		p.next()
		if p.curIs(lexer.LEAST) {
			p.next()
			op = "at_least"
		} else if p.curIs(lexer.MOST) {
			p.next()
			op = "at_most"
		}
	case p.curIs(lexer.EQUAL):
		p.next()
		if p.curIs(lexer.TO) {
			p.next()
		}
		op = "equals"
	}

	if negate {
		switch op {
		case "equals":
			op = "not_equals"
		case "in":
			op = "not_in"
		default:
			right := p.parseExpression(precComparison)
			cmp := &ast.BinaryExpression{Token: tok, Left: left, Operator: op, Right: right}
			return &ast.UnaryExpression{Token: tok, Operator: "not", Operand: cmp}
		}
	}
	right := p.parseExpression(precComparison)
	return &ast.BinaryExpression{Token: tok, Left: left, Operator: op, Right: right}
}

// parseUnary parses `not <expr>` and `negative <expr>`, falling through to
// a primary term with its postfix chain otherwise. WFL has no bare `-`
// unary operator (spec §4.2); negation is always spelled out.
func (p *Parser) parseUnary() ast.Expression {
	switch p.cur.Type {
	case lexer.NOT:
		tok := p.cur
		p.next()
		operand := p.parseExpression(precUnary)
		return &ast.UnaryExpression{Token: tok, Operator: "not", Operand: operand}
	case lexer.NEGATIVE:
		tok := p.cur
		p.next()
		operand := p.parseExpression(precUnary)
		return &ast.UnaryExpression{Token: tok, Operator: "negative", Operand: operand}
	default:
		primary := p.parsePrimary()
		if primary == nil {
			return nil
		}
		return p.parsePostfix(primary)
	}
}

func (p *Parser) parsePrimary() ast.Expression {
	switch p.cur.Type {
	case lexer.NUMBER:
		tok := p.cur
		v, _ := strconv.ParseFloat(tok.Literal, 64)
		p.next()
		return &ast.NumberLiteral{Token: tok, Value: v}
	case lexer.STRING:
		tok := p.cur
		p.next()
		return &ast.TextLiteral{Token: tok, Value: tok.Literal}
	case lexer.TRUE, lexer.YES:
		tok := p.cur
		p.next()
		return &ast.BooleanLiteral{Token: tok, Value: true}
	case lexer.FALSE, lexer.NO:
		tok := p.cur
		p.next()
		return &ast.BooleanLiteral{Token: tok, Value: false}
	case lexer.NOTHING:
		tok := p.cur
		p.next()
		return &ast.NullLiteral{Token: tok}
	case lexer.LPAREN:
		tok := p.cur
		p.next()
		inner := p.parseExpression(precLowest)
		p.expect(lexer.RPAREN)
		return &ast.GroupedExpression{Token: tok, Inner: inner}
	case lexer.LBRACKET:
		return p.parseListLiteral()
	case lexer.LBRACE:
		return p.parseMapLiteral()
	case lexer.IDENT, lexer.COUNT:
		tok := p.cur
		p.next()
		return &ast.Identifier{Token: tok, Value: tok.Literal}
	case lexer.FIND, lexer.REPLACE, lexer.SPLIT, lexer.WAIT, lexer.READ:
		return p.parseIOExpression()
	case lexer.CALL:
		return p.parseCallExpression()
	default:
		p.errorf(p.cur.Pos, errors.CodeUnexpectedToken, "unexpected token %s (%q)", p.cur.Type, p.cur.Literal)
		p.next()
		return nil
	}
}

// parsePostfix folds in the postfix forms: member access (`.`), bracket
// indexing (`[i]`), and the `at`-indexing and bare-trailing-integer indexing
// forms (both normalized to the same IndexExpression as `[i]`, spec §4.2).
// Calls are introduced by the dedicated `call` keyword (parsePrimary), not
// by a following `with`, since `with` is also the concatenation operator
// and `<identifier> with <expr>` is ambiguous between the two without it.
func (p *Parser) parsePostfix(expr ast.Expression) ast.Expression {
	for {
		switch p.cur.Type {
		case lexer.DOT:
			tok := p.cur
			p.next()
			prop := p.cur.Literal
			p.next()
			expr = &ast.MemberExpression{Token: tok, Object: expr, Property: prop}
		case lexer.LBRACKET:
			tok := p.cur
			p.next()
			idx := p.parseExpression(precLowest)
			p.expect(lexer.RBRACKET)
			expr = &ast.IndexExpression{Token: tok, Object: expr, Index: idx}
		case lexer.AT:
			if p.suppressAt || !isIndexable(expr) {
				return expr
			}
			tok := p.cur
			p.next()
			idx := p.parseUnary()
			expr = &ast.IndexExpression{Token: tok, Object: expr, Index: idx}
		case lexer.NUMBER:
			if !isIndexable(expr) {
				return expr
			}
			tok := p.cur
			v, _ := strconv.ParseFloat(tok.Literal, 64)
			p.next()
			expr = &ast.IndexExpression{Token: tok, Object: expr, Index: &ast.NumberLiteral{Token: tok, Value: v}}
		default:
			return expr
		}
	}
}

func isIndexable(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.Identifier, *ast.MemberExpression, *ast.IndexExpression, *ast.CallExpression:
		return true
	}
	return false
}

// parseCallExpression handles the `call <callee> [with <arg> [and <arg>
// ...]]` form. The callee is an identifier optionally followed by a chain
// of `.property` member accesses (so `call counter.increment with 5`
// resolves a bound method the same way a bare `counter.increment` would);
// it deliberately does not run through the general parsePostfix chain,
// since bracket/at-indexing a callee mid-call isn't a real use case and
// keeping this narrow avoids reopening the with/concat ambiguity.
func (p *Parser) parseCallExpression() ast.Expression {
	tok := p.cur
	p.next() // consume call
	callee := p.parseCallCallee()
	if !p.curIs(lexer.WITH) {
		return &ast.CallExpression{Token: tok, Callee: callee, Args: nil}
	}
	return p.parseCallArgs(tok, callee)
}

func (p *Parser) parseCallCallee() ast.Expression {
	tok := p.cur
	var expr ast.Expression = &ast.Identifier{Token: tok, Value: tok.Literal}
	p.next()
	for p.curIs(lexer.DOT) {
		dotTok := p.cur
		p.next()
		prop := p.cur.Literal
		p.next()
		expr = &ast.MemberExpression{Token: dotTok, Object: expr, Property: prop}
	}
	return expr
}

// parseCallArgs parses the `with <arg> [and <arg> ...]` argument list that
// follows a `call` callee. Call arguments and `create new` constructor
// arguments share this list shape at argPrecedence (precComparison).
func (p *Parser) parseCallArgs(tok lexer.Token, callee ast.Expression) ast.Expression {
	p.next() // consume with
	args := []ast.Expression{p.parseExpression(argPrecedence)}
	for p.curIs(lexer.AND) {
		p.next()
		args = append(args, p.parseExpression(argPrecedence))
	}
	return &ast.CallExpression{Token: tok, Callee: callee, Args: args}
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.cur
	p.next() // consume [
	lit := &ast.ListLiteral{Token: tok}
	if p.curIs(lexer.RBRACKET) {
		p.next()
		return lit
	}
	lit.Elements = append(lit.Elements, p.parseExpression(precLowest))
	for p.curIs(lexer.COMMA) {
		p.next()
		lit.Elements = append(lit.Elements, p.parseExpression(precLowest))
	}
	p.expect(lexer.RBRACKET)
	return lit
}

func (p *Parser) parseMapLiteral() ast.Expression {
	tok := p.cur
	p.next() // consume {
	lit := &ast.MapLiteral{Token: tok}
	if p.curIs(lexer.RBRACE) {
		p.next()
		return lit
	}
	for {
		key := p.cur.Literal
		p.next()
		p.expect(lexer.COLON)
		val := p.parseExpression(precLowest)
		lit.Entries = append(lit.Entries, ast.MapEntry{Key: key, Value: val})
		if !p.curIs(lexer.COMMA) {
			break
		}
		p.next()
	}
	p.expect(lexer.RBRACE)
	return lit
}
