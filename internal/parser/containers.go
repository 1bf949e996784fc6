package parser

import (
	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/errors"
	"github.com/wfl-lang/wfl/internal/lexer"
)

// parseContainerDefinition parses `create container <Name> [extends
// <Parent>] [implements <Iface>, ...]: ... end container`. The body is a
// sequence of property, event, and action members; an action named
// `initialize` serves as the constructor (spec §4.5 container typing).
func (p *Parser) parseContainerDefinition() ast.Statement {
	tok := p.cur
	p.next() // consume create
	p.expect(lexer.CONTAINER)
	name := p.cur.Literal
	p.next()

	def := &ast.ContainerDefinition{Token: tok, Name: name}
	if p.curIs(lexer.EXTENDS) {
		p.next()
		def.Parent = p.cur.Literal
		p.next()
	}
	if p.curIs(lexer.IMPLEMENTS) {
		p.next()
		def.Interfaces = append(def.Interfaces, p.cur.Literal)
		p.next()
		for p.curIs(lexer.COMMA) {
			p.next()
			def.Interfaces = append(def.Interfaces, p.cur.Literal)
			p.next()
		}
	}
	p.expect(lexer.COLON)

	for !p.curIs(lexer.END) && !p.curIs(lexer.EOF) {
		switch p.cur.Type {
		case lexer.PROPERTY, lexer.STATIC:
			def.Properties = append(def.Properties, p.parsePropertyDecl())
		case lexer.EVENT:
			p.next()
			def.Events = append(def.Events, p.cur.Literal)
			p.next()
		case lexer.DEFINE:
			if action, ok := p.parseActionDefinition().(*ast.ActionDefinition); ok {
				def.Actions = append(def.Actions, action)
			}
		default:
			p.errorf(p.cur.Pos, errors.CodeUnexpectedToken, "unexpected token %s inside container body", p.cur.Type)
			p.next()
		}
	}
	p.expectEnd(lexer.CONTAINER)
	return def
}

// parsePropertyDecl parses `[static] property <name> as <Type> [= <expr>]`.
func (p *Parser) parsePropertyDecl() *ast.PropertyDecl {
	tok := p.cur
	static := false
	if p.curIs(lexer.STATIC) {
		static = true
		p.next()
	}
	p.expect(lexer.PROPERTY)
	name := p.cur.Literal
	p.next()
	p.expect(lexer.AS)
	typ := p.parseTypeName()
	decl := &ast.PropertyDecl{Token: tok, Name: name, Type: typ, Static: static}
	if p.curIs(lexer.ASSIGN) {
		p.next()
		decl.Default = p.parseExpression(precLowest)
	}
	return decl
}

// parseCreateInstance parses `create new <Type> [with <arg> [and <arg>
// ...]] as <name>[: <prop> is <expr> ... end create]`.
func (p *Parser) parseCreateInstance() ast.Statement {
	tok := p.cur
	p.next() // consume create
	p.expect(lexer.NEW)
	typeName := p.cur.Literal
	p.next()

	stmt := &ast.CreateInstanceStatement{Token: tok, TypeName: typeName}
	if p.curIs(lexer.WITH) {
		p.next()
		stmt.Args = append(stmt.Args, p.parseExpression(argPrecedence))
		for p.curIs(lexer.AND) {
			p.next()
			stmt.Args = append(stmt.Args, p.parseExpression(argPrecedence))
		}
	}
	p.expect(lexer.AS)
	stmt.Name = p.cur.Literal
	p.next()

	if p.curIs(lexer.COLON) {
		p.next()
		for !p.curIs(lexer.END) && !p.curIs(lexer.EOF) {
			propName := p.cur.Literal
			p.next()
			p.expect(lexer.IS)
			val := p.parseExpression(precLowest)
			stmt.Inits = append(stmt.Inits, ast.PropertyInit{Name: propName, Value: val})
		}
		p.expectEnd(lexer.CREATE)
	}
	return stmt
}
