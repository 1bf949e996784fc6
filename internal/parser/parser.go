// Package parser implements a recursive-descent parser for WFL with
// one-token lookahead and precedence climbing for binary operators (spec
// §4.2). Multi-word operator phrases ("is at least", "is greater than")
// are recognized by scanning a short run of lookahead tokens against a
// phrase table rather than building a separate combinator per phrase.
package parser

import (
	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/errors"
	"github.com/wfl-lang/wfl/internal/lexer"
)

// precedence levels, lowest to highest (spec §4.2).
const (
	_ int = iota
	precLowest
	precOr
	precAnd
	precComparison
	precConcat
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

var precedences = map[string]int{
	"or":       precOr,
	"and":      precAnd,
	"is":       precComparison,
	"contains": precComparison,
	"starts":   precComparison,
	"ends":     precComparison,
	"with":     precConcat,
	"plus":     precAdditive,
	"minus":    precAdditive,
	"times":    precMultiplicative,
	"divided":  precMultiplicative,
	"modulo":   precMultiplicative,
}

// Parser consumes tokens from a lexer.Lexer and builds an ast.Program. It
// never panics: every malformed construct is reported through the shared
// errors.Reporter and the parser resynchronizes at the next statement
// boundary (spec §4.2 error-recovery contract).
type Parser struct {
	l        *lexer.Lexer
	reporter *errors.Reporter

	cur  lexer.Token
	peek lexer.Token

	// suppressAt disables the `at`-indexing postfix form while parsing a
	// for-each collection expression, so its own trailing `at <index>`
	// clause is not swallowed as an index into the collection.
	suppressAt bool
}

// parseExpressionNoTrailingAt parses an expression with the `at`-indexing
// postfix form disabled, for contexts where a bare trailing `at` clause
// belongs to the surrounding statement rather than the expression itself.
func (p *Parser) parseExpressionNoTrailingAt(prec int) ast.Expression {
	prev := p.suppressAt
	p.suppressAt = true
	expr := p.parseExpression(prec)
	p.suppressAt = prev
	return expr
}

// New creates a Parser reading from l, reporting diagnostics into reporter.
func New(l *lexer.Lexer, reporter *errors.Reporter) *Parser {
	p := &Parser{l: l, reporter: reporter}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curIs(t) {
		p.next()
		return true
	}
	p.errorf(p.cur.Pos, errors.CodeUnexpectedToken, "expected %s, got %s (%q)", t, p.cur.Type, p.cur.Literal)
	return false
}

// expectWord consumes an ordinary identifier used as a fixed phrase word
// (e.g. "file", "into", "request", "comes") in a multi-word statement form.
// These words are not part of the closed keyword set, so they lex as plain
// IDENT tokens; the parser matches them by literal text instead.
func (p *Parser) expectWord(word string) bool {
	if p.cur.Type == lexer.IDENT && p.cur.Literal == word {
		p.next()
		return true
	}
	p.errorf(p.cur.Pos, errors.CodeUnexpectedToken, "expected %q, got %s (%q)", word, p.cur.Type, p.cur.Literal)
	return false
}

func (p *Parser) errorf(pos lexer.Position, code, format string, args ...any) {
	p.reporter.Errorf(pos, code, format, args...)
}

// synchronize advances past tokens until a likely statement boundary, so
// one malformed statement does not cascade into spurious errors for every
// statement that follows it.
func (p *Parser) synchronize() {
	for !p.curIs(lexer.EOF) {
		switch p.cur.Type {
		case lexer.STORE, lexer.CHANGE, lexer.DISPLAY, lexer.CHECK, lexer.COUNT,
			lexer.FOR, lexer.REPEAT, lexer.MAIN, lexer.DEFINE,
			lexer.CREATE, lexer.TRY, lexer.RETURN, lexer.GIVE, lexer.BREAK,
			lexer.CONTINUE, lexer.EXIT, lexer.END, lexer.LOAD, lexer.INCLUDE,
			lexer.OPEN, lexer.CLOSE, lexer.WRITE, lexer.LISTEN, lexer.WAIT,
			lexer.RESPOND:
			return
		}
		p.next()
	}
}

// ParseProgram parses the whole token stream into an ast.Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		} else {
			p.synchronize()
		}
	}
	return prog
}

// parseBlock parses statements until one of the given terminator token
// types is seen in current position (the terminator itself is not
// consumed, matching how each caller needs to inspect which terminator
// fired, e.g. `otherwise` vs `end check`).
func (p *Parser) parseBlock(terminators ...lexer.TokenType) []ast.Statement {
	var stmts []ast.Statement
	for !p.curIs(lexer.EOF) {
		for _, t := range terminators {
			if p.curIs(t) {
				return stmts
			}
		}
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		} else {
			p.synchronize()
		}
	}
	return stmts
}

// expectEnd consumes `end <kw>`, the closing phrase every multi-line
// construct uses.
func (p *Parser) expectEnd(kw lexer.TokenType) {
	if !p.expect(lexer.END) {
		return
	}
	p.expect(kw)
}

func identName(tok lexer.Token) string { return tok.Literal }
