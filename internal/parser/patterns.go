package parser

import (
	"strconv"

	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/errors"
	"github.com/wfl-lang/wfl/internal/lexer"
	"github.com/wfl-lang/wfl/internal/pattern"
)

// parsePatternDefinition parses `create pattern <name>: <pattern-expr> end
// pattern` (spec §4.7). The body is handed to the pattern sub-grammar
// parser below, which builds a pattern.Node tree directly rather than
// going through the main expression grammar.
func (p *Parser) parsePatternDefinition() ast.Statement {
	tok := p.cur
	p.next() // consume create
	p.expect(lexer.PATTERN)
	name := p.cur.Literal
	p.next()
	p.expect(lexer.COLON)
	body := p.parsePatternAlternation()
	p.expectEnd(lexer.PATTERN)
	return &ast.PatternDefStatement{Token: tok, Name: name, Pattern: &body}
}

// parsePatternAlternation parses `<seq> or <seq> or ...`, the lowest
// precedence level of the pattern sub-grammar.
func (p *Parser) parsePatternAlternation() pattern.Node {
	first := p.parsePatternSequence()
	if !p.curIs(lexer.OR) {
		return first
	}
	branches := []pattern.Node{first}
	for p.curIs(lexer.OR) {
		p.next()
		branches = append(branches, p.parsePatternSequence())
	}
	return &pattern.Alternative{Branches: branches}
}

// parsePatternSequence parses a run of juxtaposed atoms, each optionally
// captured with a trailing `as <name>`, until a token that cannot start
// another atom (end-of-pattern terminators, `or`, or a bare `end` that
// isn't part of `end of text`).
func (p *Parser) parsePatternSequence() pattern.Node {
	var items []pattern.Node
	for p.patternAtomStarts() {
		items = append(items, p.parsePatternPostfix())
	}
	if len(items) == 1 {
		return items[0]
	}
	return &pattern.Sequence{Items: items}
}

func (p *Parser) patternAtomStarts() bool {
	switch p.cur.Type {
	case lexer.OR, lexer.RBRACE, lexer.EOF:
		return false
	case lexer.END:
		return p.peekIs(lexer.OF)
	}
	return true
}

// parsePatternPostfix parses one atom and its optional `as <name>` capture
// suffix.
func (p *Parser) parsePatternPostfix() pattern.Node {
	atom := p.parsePatternAtom()
	if p.curIs(lexer.AS) {
		p.next()
		name := p.cur.Literal
		p.next()
		return &pattern.Capture{Name: name, Item: atom}
	}
	return atom
}

// parsePatternGroup parses the brace-delimited sub-pattern that follows a
// quantifier or lookaround keyword, or a single bare atom when no braces
// are present (spec §4.7: "braces group sub-patterns for quantifiers and
// lookarounds").
func (p *Parser) parsePatternGroup() pattern.Node {
	if p.curIs(lexer.LBRACE) {
		p.next()
		inner := p.parsePatternAlternation()
		p.expect(lexer.RBRACE)
		return &pattern.Group{Item: inner}
	}
	return p.parsePatternAtom()
}

func (p *Parser) parsePatternAtom() pattern.Node {
	switch p.cur.Type {
	case lexer.STRING:
		text := p.cur.Literal
		p.next()
		return &pattern.Literal{Text: text}
	case lexer.DIGIT:
		p.next()
		return &pattern.CharClass{Name: "digit"}
	case lexer.LETTER:
		p.next()
		return &pattern.CharClass{Name: "letter"}
	case lexer.WHITESPACE:
		p.next()
		return &pattern.CharClass{Name: "whitespace"}
	case lexer.PUNCTUATION:
		p.next()
		return &pattern.CharClass{Name: "punctuation"}
	case lexer.ANY:
		p.next()
		if p.curIs(lexer.CHARACTER) {
			p.next()
		}
		return &pattern.AnyChar{}
	case lexer.UNICODE:
		p.next()
		switch p.cur.Type {
		case lexer.CATEGORY:
			p.next()
			name := p.cur.Literal
			p.next()
			return &pattern.CharClass{Name: "category:" + name}
		case lexer.SCRIPT:
			p.next()
			name := p.cur.Literal
			p.next()
			return &pattern.CharClass{Name: "script:" + name}
		}
		p.errorf(p.cur.Pos, errors.CodePatternSyntax, "expected category or script after unicode")
		return &pattern.Sequence{}
	case lexer.ONE:
		p.next()
		p.expect(lexer.OR)
		p.expect(lexer.MORE)
		item := p.parsePatternGroup()
		return &pattern.Repeat{Item: item, Min: 1, Max: -1}
	case lexer.ZERO:
		p.next()
		p.expect(lexer.OR)
		p.expect(lexer.MORE)
		item := p.parsePatternGroup()
		return &pattern.Repeat{Item: item, Min: 0, Max: -1}
	case lexer.OPTIONAL:
		p.next()
		item := p.parsePatternGroup()
		return &pattern.Optional{Item: item}
	case lexer.EXACTLY:
		p.next()
		n, _ := strconv.Atoi(p.cur.Literal)
		p.next()
		item := p.parsePatternGroup()
		return &pattern.Repeat{Item: item, Min: n, Max: n}
	case lexer.CHECK:
		p.next()
		negated := false
		if p.curIs(lexer.NOT) {
			negated = true
			p.next()
		}
		ahead := true
		if p.curIs(lexer.BEHIND) {
			ahead = false
			p.next()
		} else {
			p.expect(lexer.AHEAD)
		}
		item := p.parsePatternGroup()
		return &pattern.Lookaround{Item: item, Ahead: ahead, Negated: negated}
	case lexer.SAME:
		p.next()
		p.expect(lexer.AS)
		p.expect(lexer.CAPTURED)
		name := p.cur.Literal
		p.next()
		return &pattern.Backreference{Name: name}
	case lexer.START:
		p.next()
		p.expect(lexer.OF)
		p.expect(lexer.TEXT_KW)
		return &pattern.Anchor{Start: true}
	case lexer.END:
		p.next()
		p.expect(lexer.OF)
		p.expect(lexer.TEXT_KW)
		return &pattern.Anchor{Start: false}
	case lexer.LBRACE:
		p.next()
		inner := p.parsePatternAlternation()
		p.expect(lexer.RBRACE)
		return &pattern.Group{Item: inner}
	default:
		p.errorf(p.cur.Pos, errors.CodePatternSyntax, "unexpected token %s in pattern", p.cur.Type)
		p.next()
		return &pattern.Sequence{}
	}
}
