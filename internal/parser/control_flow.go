package parser

import (
	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/errors"
	"github.com/wfl-lang/wfl/internal/lexer"
)

// parseConditional parses `check if <cond>: ... [otherwise: ...] end
// check`. `otherwise` always expects a colon next; a chained `check if`
// is just an ordinary statement parsed inside the Else block, so writing
// `otherwise check if` with no colon falls through to parseStatement and
// is reported as a source error there (spec §4.2).
func (p *Parser) parseConditional() ast.Statement {
	tok := p.cur
	p.expect(lexer.CHECK)
	p.expect(lexer.IF)
	cond := p.parseExpression(precLowest)
	p.expect(lexer.COLON)
	then := p.parseBlock(lexer.OTHERWISE, lexer.END)

	stmt := &ast.ConditionalStatement{Token: tok, Condition: cond, Then: then}
	if !p.curIs(lexer.OTHERWISE) {
		p.expectEnd(lexer.CHECK)
		return stmt
	}
	p.next() // consume otherwise
	p.expect(lexer.COLON)
	stmt.Else = p.parseBlock(lexer.END)
	p.expectEnd(lexer.CHECK)
	return stmt
}

// parseCountLoop parses `count from <start> [down] to <end> [by <step>]
// [as <name>]: ... end count`. The loop variable is named "count" unless
// aliased with `as`.
func (p *Parser) parseCountLoop() ast.Statement {
	tok := p.cur
	p.next() // consume count
	p.expect(lexer.FROM)
	from := p.parseExpression(precAdditive)
	stmt := &ast.CountLoopStatement{Token: tok, LoopVar: "count", From: from}
	if p.curIs(lexer.DOWN) {
		p.next()
		stmt.Down = true
	}
	p.expect(lexer.TO)
	stmt.To = p.parseExpression(precAdditive)
	if p.curIs(lexer.BY) {
		p.next()
		stmt.Step = p.parseExpression(precAdditive)
	}
	if p.curIs(lexer.AS) {
		p.next()
		stmt.LoopVar = p.cur.Literal
		p.next()
	}
	p.expect(lexer.COLON)
	stmt.Body = p.parseBlock(lexer.END)
	p.expectEnd(lexer.COUNT)
	return stmt
}

// parseForEach parses `for each <elem> in <collection> [reversed] [at
// <index>]: ... end for`.
func (p *Parser) parseForEach() ast.Statement {
	tok := p.cur
	p.next() // consume for
	p.expect(lexer.EACH)
	elem := p.cur.Literal
	p.next()
	p.expect(lexer.IN)
	stmt := &ast.ForEachStatement{Token: tok, ElemVar: elem}
	stmt.Collection = p.parseExpressionNoTrailingAt(precLowest)
	if p.curIs(lexer.REVERSED) {
		p.next()
		stmt.Reversed = true
	}
	if p.curIs(lexer.AT) {
		p.next()
		stmt.IndexVar = p.cur.Literal
		p.next()
	}
	p.expect(lexer.COLON)
	stmt.Body = p.parseBlock(lexer.END)
	p.expectEnd(lexer.FOR)
	return stmt
}

// parseRepeatLoop parses the three `repeat ...` forms: `repeat while
// <cond>: ... end repeat`, `repeat until <cond>: ...`, and `repeat
// forever: ...`.
func (p *Parser) parseRepeatLoop() ast.Statement {
	tok := p.cur
	p.next() // consume repeat
	switch p.cur.Type {
	case lexer.WHILE, lexer.UNTIL:
		until := p.curIs(lexer.UNTIL)
		p.next()
		cond := p.parseExpression(precLowest)
		p.expect(lexer.COLON)
		body := p.parseBlock(lexer.END)
		p.expectEnd(lexer.REPEAT)
		return &ast.WhileLoopStatement{Token: tok, Condition: cond, Until: until, Body: body}
	case lexer.FOREVER:
		p.next()
		p.expect(lexer.COLON)
		body := p.parseBlock(lexer.END)
		p.expectEnd(lexer.REPEAT)
		return &ast.ForeverLoopStatement{Token: tok, Body: body}
	default:
		p.errorf(p.cur.Pos, errors.CodeUnexpectedToken, "expected while, until or forever after repeat, got %s", p.cur.Type)
		return nil
	}
}

// parseMainLoop parses the script's single top-level `main loop: ... end
// loop`, which runs without the default execution-timeout budget.
func (p *Parser) parseMainLoop() ast.Statement {
	tok := p.cur
	p.next() // consume main
	p.expect(lexer.LOOP)
	p.expect(lexer.COLON)
	body := p.parseBlock(lexer.END)
	p.expectEnd(lexer.LOOP)
	return &ast.ForeverLoopStatement{Token: tok, IsMainLoop: true, Body: body}
}
