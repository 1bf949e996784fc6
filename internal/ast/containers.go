package ast

import (
	"fmt"

	"github.com/wfl-lang/wfl/internal/lexer"
)

// PropertyDecl is one `[static] property <name> as <Type> [= <expr>]` line
// inside a container body.
type PropertyDecl struct {
	Token   lexer.Token
	Name    string
	Type    *TypeAnnotation
	Default Expression // nil if the property has no default
	Static  bool
}

// ContainerDefinition is `create container <name> [extends <parent>]
// [implements <iface1>, ...]: ... end container` (spec §3, §4.5 container
// typing).
type ContainerDefinition struct {
	Token      lexer.Token
	Name       string
	Parent     string // empty if no `extends` clause
	Interfaces []string
	Properties []*PropertyDecl
	Actions    []*ActionDefinition
	Events     []string
}

func (c *ContainerDefinition) statementNode()       {}
func (c *ContainerDefinition) TokenLiteral() string { return c.Token.Literal }
func (c *ContainerDefinition) Pos() lexer.Position  { return c.Token.Pos }
func (c *ContainerDefinition) String() string {
	return fmt.Sprintf("create container %s", c.Name)
}

// PropertyInit is one `<name> is <expr>` initializer inside a `create new`
// instantiation block, kept in source order.
type PropertyInit struct {
	Name  string
	Value Expression
}

// CreateInstanceStatement is `create new <Type> [with <arg> [and <arg>
// ...]] as <name>[: <prop> is <expr> ... end create]`. Args carries the
// positional constructor arguments; Inits carries the optional trailing
// property-initializer block.
type CreateInstanceStatement struct {
	Token   lexer.Token
	TypeName string
	Name     string
	Args     []Expression
	Inits    []PropertyInit
}

func (c *CreateInstanceStatement) statementNode()       {}
func (c *CreateInstanceStatement) TokenLiteral() string { return c.Token.Literal }
func (c *CreateInstanceStatement) Pos() lexer.Position  { return c.Token.Pos }
func (c *CreateInstanceStatement) String() string {
	return fmt.Sprintf("create new %s as %s", c.TypeName, c.Name)
}

// ImportStatement is `load module from <path>` or `include from <path>`
// (spec §4.3 treats both spellings as synonyms for the same resolver op).
type ImportStatement struct {
	Token lexer.Token
	Kind  string // "load" or "include"
	Path  string
}

func (i *ImportStatement) statementNode()       {}
func (i *ImportStatement) TokenLiteral() string { return i.Token.Literal }
func (i *ImportStatement) Pos() lexer.Position  { return i.Token.Pos }
func (i *ImportStatement) String() string {
	return fmt.Sprintf("%s module from %s", i.Kind, i.Path)
}
