package parser

import (
	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/errors"
	"github.com/wfl-lang/wfl/internal/lexer"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case lexer.STORE, lexer.CREATE:
		if p.cur.Type == lexer.CREATE {
			return p.parseCreateStatement()
		}
		return p.parseStoreStatement()
	case lexer.CHANGE:
		return p.parseChangeStatement()
	case lexer.DISPLAY:
		return p.parseDisplayStatement()
	case lexer.CHECK:
		return p.parseConditional()
	case lexer.COUNT:
		return p.parseCountLoop()
	case lexer.FOR:
		return p.parseForEach()
	case lexer.REPEAT:
		return p.parseRepeatLoop()
	case lexer.MAIN:
		return p.parseMainLoop()
	case lexer.BREAK, lexer.SKIP:
		tok := p.cur
		p.next()
		if tok.Type == lexer.SKIP {
			return &ast.ContinueStatement{Token: tok}
		}
		return &ast.BreakStatement{Token: tok}
	case lexer.CONTINUE:
		tok := p.cur
		p.next()
		return &ast.ContinueStatement{Token: tok}
	case lexer.EXIT:
		tok := p.cur
		p.next()
		if p.curIs(lexer.LOOP) {
			p.next()
		}
		return &ast.ExitStatement{Token: tok}
	case lexer.RETURN, lexer.GIVE:
		return p.parseReturn()
	case lexer.TRY:
		return p.parseTry()
	case lexer.DEFINE:
		return p.parseActionDefinition()
	case lexer.LOAD, lexer.INCLUDE:
		return p.parseImport()
	case lexer.OPEN:
		return p.parseOpenFile()
	case lexer.CLOSE:
		return p.parseClose()
	case lexer.WRITE:
		return p.parseWrite()
	case lexer.LISTEN:
		return p.parseListen()
	case lexer.WAIT:
		return p.parseWaitStatement()
	case lexer.RESPOND:
		return p.parseRespond()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseTypeAnnotation() *ast.TypeAnnotation {
	if !p.curIs(lexer.AS) {
		return nil
	}
	p.next()
	return p.parseTypeName()
}

// parseTypeName parses a (possibly parameterized) type name: `Text`,
// `List<Number>`, `Map<Text, Number>`, `Optional<Text>`.
func (p *Parser) parseTypeName() *ast.TypeAnnotation {
	name := p.cur.Literal
	p.next()
	t := &ast.TypeAnnotation{Name: name}
	if p.curIs(lexer.LESS) {
		p.next()
		if name == "Map" {
			p.parseTypeName() // key type, always Text; discarded, Map value carries the element type
			p.expect(lexer.COMMA)
		}
		t.Elem = p.parseTypeName()
		p.expect(lexer.GREATER)
	}
	return t
}

func (p *Parser) parseStoreStatement() ast.Statement {
	tok := p.cur
	p.next() // consume store/create
	name := p.cur.Literal
	p.next()
	var typ *ast.TypeAnnotation
	if p.curIs(lexer.AS) && p.peekIs(lexer.IDENT) && p.l.Peek(0).Type == lexer.AS {
		typ = p.parseTypeAnnotation()
	}
	if !p.expect(lexer.AS) {
		return nil
	}
	value := p.parseExpression(precLowest)
	return &ast.StoreStatement{Token: tok, Name: name, Type: typ, Value: value}
}

func (p *Parser) parseChangeStatement() ast.Statement {
	tok := p.cur
	p.next()
	name := p.cur.Literal
	p.next()
	if !p.expect(lexer.TO) {
		return nil
	}
	value := p.parseExpression(precLowest)
	return &ast.ChangeStatement{Token: tok, Name: name, Value: value}
}

func (p *Parser) parseDisplayStatement() ast.Statement {
	tok := p.cur
	p.next()
	values := []ast.Expression{p.parseExpression(precLowest)}
	for p.curIs(lexer.COMMA) {
		p.next()
		values = append(values, p.parseExpression(precLowest))
	}
	return &ast.DisplayStatement{Token: tok, Values: values}
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.cur
	if p.curIs(lexer.GIVE) {
		p.next()
		p.expect(lexer.BACK)
	} else {
		p.next()
	}
	if p.atStatementEnd() {
		return &ast.ReturnStatement{Token: tok}
	}
	value := p.parseExpression(precLowest)
	return &ast.ReturnStatement{Token: tok, Value: value}
}

// atStatementEnd reports whether the current token cannot begin an
// expression, i.e. a bare `give back`/`return` with no value follows.
func (p *Parser) atStatementEnd() bool {
	switch p.cur.Type {
	case lexer.EOF, lexer.END, lexer.OTHERWISE, lexer.WHEN:
		return true
	}
	return false
}

func (p *Parser) parseTry() ast.Statement {
	tok := p.cur
	p.next()
	p.expect(lexer.COLON)
	body := p.parseBlock(lexer.WHEN, lexer.END)
	stmt := &ast.TryStatement{Token: tok, Body: body}
	if p.curIs(lexer.WHEN) {
		p.next()
		p.expect(lexer.ERROR)
		if p.curIs(lexer.AS) {
			p.next()
			stmt.ErrorVar = p.cur.Literal
			p.next()
		}
		p.expect(lexer.COLON)
		stmt.Handler = p.parseBlock(lexer.END)
	}
	p.expectEnd(lexer.TRY)
	return stmt
}

func (p *Parser) parseImport() ast.Statement {
	tok := p.cur
	kind := "load"
	if p.curIs(lexer.INCLUDE) {
		kind = "include"
		p.next()
		p.expect(lexer.FROM)
	} else {
		p.next()
		p.expect(lexer.MODULE)
		p.expect(lexer.FROM)
	}
	path := p.cur.Literal
	p.next()
	return &ast.ImportStatement{Token: tok, Kind: kind, Path: path}
}

func (p *Parser) parseCreateStatement() ast.Statement {
	switch p.peek.Type {
	case lexer.CONTAINER:
		return p.parseContainerDefinition()
	case lexer.NEW:
		return p.parseCreateInstance()
	case lexer.PATTERN:
		return p.parsePatternDefinition()
	default:
		return p.parseStoreStatement()
	}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur
	if p.curIs(lexer.EOF) {
		return nil
	}
	expr := p.parseExpression(precLowest)
	if expr == nil {
		p.errorf(tok.Pos, errors.CodeUnexpectedToken, "unexpected token %s (%q)", tok.Type, tok.Literal)
		p.next()
		return nil
	}
	return &ast.ExpressionStatement{Token: tok, Expr: expr}
}
