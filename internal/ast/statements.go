package ast

import (
	"fmt"

	"github.com/wfl-lang/wfl/internal/lexer"
)

// StoreStatement introduces a new binding in the current scope:
// `store <name> as <expr>` / `create <name> as <expr>`.
type StoreStatement struct {
	Token lexer.Token
	Name  string
	Type  *TypeAnnotation // explicit `as Type` annotation, nil if inferred
	Value Expression
}

func (s *StoreStatement) statementNode()       {}
func (s *StoreStatement) TokenLiteral() string { return s.Token.Literal }
func (s *StoreStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *StoreStatement) String() string {
	return fmt.Sprintf("store %s as %s", s.Name, s.Value.String())
}

// ChangeStatement rebinds an existing variable: `change <name> to <expr>`.
type ChangeStatement struct {
	Token lexer.Token
	Name  string
	Value Expression
}

func (c *ChangeStatement) statementNode()       {}
func (c *ChangeStatement) TokenLiteral() string { return c.Token.Literal }
func (c *ChangeStatement) Pos() lexer.Position  { return c.Token.Pos }
func (c *ChangeStatement) String() string {
	return fmt.Sprintf("change %s to %s", c.Name, c.Value.String())
}

// DisplayStatement prints one or more expressions: `display <expr>`.
type DisplayStatement struct {
	Token  lexer.Token
	Values []Expression
}

func (d *DisplayStatement) statementNode()       {}
func (d *DisplayStatement) TokenLiteral() string { return d.Token.Literal }
func (d *DisplayStatement) Pos() lexer.Position  { return d.Token.Pos }
func (d *DisplayStatement) String() string {
	out := "display"
	for _, v := range d.Values {
		out += " " + v.String()
	}
	return out
}

// BlockStatement groups statements inside a construct (action body, loop
// body, branch arm). It has no surface delimiter of its own: the enclosing
// construct's keywords (`end check`, `end for`, ...) mark its extent.
type BlockStatement struct {
	Token      lexer.Token
	Statements []Statement
}

func (b *BlockStatement) statementNode()       {}
func (b *BlockStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStatement) Pos() lexer.Position  { return b.Token.Pos }
func (b *BlockStatement) String() string {
	out := ""
	for _, s := range b.Statements {
		out += s.String() + "\n"
	}
	return out
}
