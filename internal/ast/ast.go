// Package ast defines the Abstract Syntax Tree produced by the WFL parser.
package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wfl-lang/wfl/internal/lexer"
)

// Node is implemented by every AST node. Every node carries a non-zero span
// (spec §3 invariant): Pos always returns a valid position.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() lexer.Position
}

// Expression is a node that produces a Value when evaluated.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a node that performs an action without itself producing a
// value.
type Statement interface {
	Node
	statementNode()
}

// TypeAnnotation names a static type, optionally parameterized (List<T>,
// Map<Text, T>, Optional<T>). It is attached by explicit syntax (`as Type`)
// or filled in by the type checker during inference.
type TypeAnnotation struct {
	Name string
	Elem *TypeAnnotation // element type for List<T>/Map<Text,T>/Optional<T>
}

func (t *TypeAnnotation) String() string {
	if t == nil {
		return ""
	}
	if t.Elem != nil {
		return fmt.Sprintf("%s<%s>", t.Name, t.Elem.String())
	}
	return t.Name
}

// Program is the root of the AST: the flattened list of top-level
// statements after module resolution has inlined every import.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

func (p *Program) Pos() lexer.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1}
}

// Identifier is a variable, parameter, or action/container name reference.
type Identifier struct {
	Token lexer.Token
	Value string
	Type  *TypeAnnotation
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }
func (i *Identifier) Pos() lexer.Position  { return i.Token.Pos }

// NumberLiteral is a double-precision numeric literal.
type NumberLiteral struct {
	Token lexer.Token
	Value float64
	Type  *TypeAnnotation
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) String() string       { return n.Token.Literal }
func (n *NumberLiteral) Pos() lexer.Position  { return n.Token.Pos }

// TextLiteral is a double-quoted string literal.
type TextLiteral struct {
	Token lexer.Token
	Value string
	Type  *TypeAnnotation
}

func (s *TextLiteral) expressionNode()      {}
func (s *TextLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *TextLiteral) String() string       { return "\"" + s.Value + "\"" }
func (s *TextLiteral) Pos() lexer.Position  { return s.Token.Pos }

// BooleanLiteral is `yes`/`true` or `no`/`false`.
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
	Type  *TypeAnnotation
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) String() string       { return b.Token.Literal }
func (b *BooleanLiteral) Pos() lexer.Position  { return b.Token.Pos }

// NullLiteral is `nothing`.
type NullLiteral struct {
	Token lexer.Token
	Type  *TypeAnnotation
}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NullLiteral) String() string       { return "nothing" }
func (n *NullLiteral) Pos() lexer.Position  { return n.Token.Pos }

// ListLiteral is an ordered `[a, b, c]` literal.
type ListLiteral struct {
	Token    lexer.Token
	Elements []Expression
	Type     *TypeAnnotation
}

func (l *ListLiteral) expressionNode()      {}
func (l *ListLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *ListLiteral) Pos() lexer.Position  { return l.Token.Pos }
func (l *ListLiteral) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MapEntry is one key/value pair of a MapLiteral, kept in source order so
// the map's insertion-order invariant (spec §3) starts correctly.
type MapEntry struct {
	Key   string
	Value Expression
}

// MapLiteral is an insertion-ordered `{k: v, ...}` literal.
type MapLiteral struct {
	Token   lexer.Token
	Entries []MapEntry
	Type    *TypeAnnotation
}

func (m *MapLiteral) expressionNode()      {}
func (m *MapLiteral) TokenLiteral() string { return m.Token.Literal }
func (m *MapLiteral) Pos() lexer.Position  { return m.Token.Pos }
func (m *MapLiteral) String() string {
	parts := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		parts[i] = fmt.Sprintf("%s: %s", e.Key, e.Value.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// BinaryExpression is a binary operator application. Operator is the
// canonical operator name ("plus", "is", "with", "and", ...), not the raw
// source phrase, so the interpreter and type checker switch on a small
// closed set regardless of how many words the parser consumed to recognize
// it (spec §9 "contextual multi-word operators").
type BinaryExpression struct {
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
	Type     *TypeAnnotation
}

func (b *BinaryExpression) expressionNode()      {}
func (b *BinaryExpression) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryExpression) Pos() lexer.Position  { return b.Token.Pos }
func (b *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Operator, b.Right.String())
}

// UnaryExpression is `not <expr>` or a negative numeric literal spelled out
// with `negative` (spec §4.2: no bare `-` prefix operator).
type UnaryExpression struct {
	Token    lexer.Token
	Operator string
	Operand  Expression
	Type     *TypeAnnotation
}

func (u *UnaryExpression) expressionNode()      {}
func (u *UnaryExpression) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryExpression) Pos() lexer.Position  { return u.Token.Pos }
func (u *UnaryExpression) String() string {
	return fmt.Sprintf("(%s %s)", u.Operator, u.Operand.String())
}

// CallExpression applies positional arguments to a callee.
type CallExpression struct {
	Token    lexer.Token // the callee's leading token
	Callee   Expression
	Args     []Expression
	Type     *TypeAnnotation
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpression) Pos() lexer.Position  { return c.Token.Pos }
func (c *CallExpression) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee.String(), strings.Join(parts, ", "))
}

// MemberExpression is `<object>.<property>` member access, used for both
// container property access and namespaced builtins.
type MemberExpression struct {
	Token    lexer.Token
	Object   Expression
	Property string
	Type     *TypeAnnotation
}

func (m *MemberExpression) expressionNode()      {}
func (m *MemberExpression) TokenLiteral() string { return m.Token.Literal }
func (m *MemberExpression) Pos() lexer.Position  { return m.Token.Pos }
func (m *MemberExpression) String() string {
	return fmt.Sprintf("%s.%s", m.Object.String(), m.Property)
}

// IndexExpression is index/subscript access. The parser normalizes all
// three accepted surface forms (`list 0`, `list at 0`, `list[0]`) to this
// single node (spec §4.2 "Postfix indexing").
type IndexExpression struct {
	Token lexer.Token
	Object Expression
	Index  Expression
	Type   *TypeAnnotation
}

func (ix *IndexExpression) expressionNode()      {}
func (ix *IndexExpression) TokenLiteral() string { return ix.Token.Literal }
func (ix *IndexExpression) Pos() lexer.Position  { return ix.Token.Pos }
func (ix *IndexExpression) String() string {
	return fmt.Sprintf("%s[%s]", ix.Object.String(), ix.Index.String())
}

// GroupedExpression is a parenthesized sub-expression kept only so printers
// and source-round-tripping tools can preserve explicit grouping.
type GroupedExpression struct {
	Token lexer.Token
	Inner Expression
}

func (g *GroupedExpression) expressionNode()      {}
func (g *GroupedExpression) TokenLiteral() string { return g.Token.Literal }
func (g *GroupedExpression) Pos() lexer.Position  { return g.Token.Pos }
func (g *GroupedExpression) String() string       { return "(" + g.Inner.String() + ")" }

// ExpressionStatement wraps an expression used in statement position (e.g.
// a bare action call or a `wait for` issued for its side effect only).
type ExpressionStatement struct {
	Token lexer.Token
	Expr  Expression
}

func (e *ExpressionStatement) statementNode()       {}
func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExpressionStatement) Pos() lexer.Position  { return e.Token.Pos }
func (e *ExpressionStatement) String() string {
	if e.Expr != nil {
		return e.Expr.String()
	}
	return ""
}
