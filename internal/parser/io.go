package parser

import (
	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/lexer"
)

// parseIOExpression parses the I/O operations that appear in expression
// position: find/replace/split (pattern matching), wait for (HTTP GET),
// and read (file/handle reads). Statement forms of wait/open/write/etc.
// live alongside the other statement parsers.
func (p *Parser) parseIOExpression() ast.Expression {
	switch p.cur.Type {
	case lexer.FIND:
		tok := p.cur
		p.next()
		pattern := p.parseExpression(precComparison)
		p.expect(lexer.IN)
		text := p.parseExpression(precComparison)
		return &ast.FindExpression{Token: tok, Pattern: pattern, Text: text}
	case lexer.REPLACE:
		tok := p.cur
		p.next()
		pattern := p.parseExpression(precComparison)
		p.expect(lexer.WITH)
		replacement := p.parseExpression(precComparison)
		p.expect(lexer.IN)
		text := p.parseExpression(precComparison)
		return &ast.ReplaceExpression{Token: tok, Pattern: pattern, Replacement: replacement, Text: text}
	case lexer.SPLIT:
		tok := p.cur
		p.next()
		text := p.parseExpression(precComparison)
		p.expect(lexer.ON)
		pattern := p.parseExpression(precComparison)
		return &ast.SplitExpression{Token: tok, Text: text, Pattern: pattern}
	case lexer.WAIT:
		tok := p.cur
		p.next()
		p.expect(lexer.FOR)
		url := p.parseExpression(precComparison)
		return &ast.WaitExpression{Token: tok, URL: url}
	case lexer.READ:
		tok := p.cur
		p.next()
		var count ast.Expression
		if !p.curIs(lexer.CONTENT) {
			count = p.parseExpression(precAdditive)
		}
		unit := p.cur.Literal
		p.next()
		p.expect(lexer.FROM)
		handle := p.parseExpression(precComparison)
		return &ast.ReadExpression{Token: tok, Count: count, Unit: unit, Handle: handle}
	}
	return nil
}

// parseOpenFile parses `open file at <path> for reading|writing|appending
// as <name>`.
func (p *Parser) parseOpenFile() ast.Statement {
	tok := p.cur
	p.next() // consume open
	p.expectWord("file")
	p.expect(lexer.AT)
	path := p.parseExpression(precComparison)
	p.expect(lexer.FOR)
	mode := p.cur.Literal
	p.next()
	p.expect(lexer.AS)
	name := p.cur.Literal
	p.next()
	return &ast.OpenFileStatement{Token: tok, Path: path, Mode: mode, Name: name}
}

// parseClose parses `close <handle>`.
func (p *Parser) parseClose() ast.Statement {
	tok := p.cur
	p.next()
	handle := p.parseExpression(precLowest)
	return &ast.CloseStatement{Token: tok, Handle: handle}
}

// parseWrite parses `write content <text> into <handle>`.
func (p *Parser) parseWrite() ast.Statement {
	tok := p.cur
	p.next() // consume write
	p.expect(lexer.CONTENT)
	content := p.parseExpression(precComparison)
	p.expectWord("into")
	handle := p.parseExpression(precLowest)
	return &ast.WriteStatement{Token: tok, Content: content, Handle: handle}
}

// parseListen parses `listen on port <N> as <server>`.
func (p *Parser) parseListen() ast.Statement {
	tok := p.cur
	p.next() // consume listen
	p.expect(lexer.ON)
	p.expect(lexer.PORT)
	port := p.parseExpression(precComparison)
	p.expect(lexer.AS)
	name := p.cur.Literal
	p.next()
	return &ast.ListenStatement{Token: tok, Port: port, Name: name}
}

// parseWaitStatement dispatches between the two `wait for` forms: the HTTP
// GET expression used for effect only, and the server-request-receiving
// statement `wait for request comes in on <server> as <req>`.
func (p *Parser) parseWaitStatement() ast.Statement {
	tok := p.cur
	p.next() // consume wait
	p.expect(lexer.FOR)
	if p.cur.Type == lexer.IDENT && p.cur.Literal == "request" {
		p.next()
		p.expectWord("comes")
		p.expect(lexer.IN)
		p.expect(lexer.ON)
		server := p.parseExpression(precComparison)
		p.expect(lexer.AS)
		name := p.cur.Literal
		p.next()
		return &ast.WaitForRequestStatement{Token: tok, Server: server, Name: name}
	}
	url := p.parseExpression(precLowest)
	return &ast.ExpressionStatement{Token: tok, Expr: &ast.WaitExpression{Token: tok, URL: url}}
}

// parseRespond parses `respond to <req> with <body> [and status <code>]
// [and content_type <t>]`.
func (p *Parser) parseRespond() ast.Statement {
	tok := p.cur
	p.next() // consume respond
	p.expect(lexer.TO)
	req := p.parseExpression(precConcat)
	p.expect(lexer.WITH)
	body := p.parseExpression(argPrecedence)
	stmt := &ast.RespondStatement{Token: tok, Request: req, Body: body}
	for p.curIs(lexer.AND) {
		p.next()
		switch {
		case p.curIs(lexer.STATUS):
			p.next()
			stmt.Status = p.parseExpression(argPrecedence)
		case p.curIs(lexer.IDENT) && p.cur.Literal == "content_type":
			p.next()
			stmt.ContentType = p.parseExpression(argPrecedence)
		case p.curIs(lexer.CONTENT):
			p.next()
			p.expect(lexer.TYPE)
			stmt.ContentType = p.parseExpression(argPrecedence)
		default:
			return stmt
		}
	}
	return stmt
}
