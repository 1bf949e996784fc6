package parser

import (
	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/lexer"
)

// parseActionDefinition parses both action-header spellings: the
// AND-separated form `define action called <name> needs <p1> and <p2> ...:
// ... end action`, which binds each named argument strictly by arity, and
// the space-separated form `define action called <name> needs <p1> <p2>
// <p3>:`, where a single-argument call binds that one value to every
// parameter (spec §9, flagged with diagnostic WFL-241 at the call site).
// Either form may declare a return type with a trailing `gives back <name>
// as <type>` clause.
func (p *Parser) parseActionDefinition() ast.Statement {
	tok := p.cur
	p.next() // consume define
	p.expect(lexer.ACTION)
	p.expect(lexer.CALLED)
	name := p.cur.Literal
	p.next()

	var params []ast.Param
	spaceSeparated := false
	if p.curIs(lexer.NEEDS) {
		p.next()
		params = append(params, ast.Param{Name: p.cur.Literal})
		p.next()
		if p.curIs(lexer.AND) {
			for p.curIs(lexer.AND) {
				p.next()
				params = append(params, ast.Param{Name: p.cur.Literal})
				p.next()
			}
		} else {
			for p.cur.Type == lexer.IDENT {
				spaceSeparated = true
				params = append(params, ast.Param{Name: p.cur.Literal})
				p.next()
			}
		}
	}

	var returnType *ast.TypeAnnotation
	if p.curIs(lexer.GIVES) {
		p.next()
		p.expect(lexer.BACK)
		// The named result binding (e.g. "result" in "gives back result as
		// number") is documentation only; execution always returns through
		// `give back <expr>` in the body, so only the declared type matters.
		p.next()
		if p.curIs(lexer.AS) {
			p.next()
			returnType = p.parseTypeName()
		}
	}

	p.expect(lexer.COLON)
	body := p.parseBlock(lexer.END)
	p.expectEnd(lexer.ACTION)

	return &ast.ActionDefinition{
		Token:          tok,
		Name:           name,
		Params:         params,
		SpaceSeparated: spaceSeparated,
		ReturnType:     returnType,
		Body:           body,
	}
}
