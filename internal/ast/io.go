package ast

import (
	"fmt"

	"github.com/wfl-lang/wfl/internal/lexer"
	"github.com/wfl-lang/wfl/internal/pattern"
)

// PatternDefStatement is `create pattern <name>: ... end pattern`. The body
// is parsed by the pattern sub-grammar (spec §4.7) directly into a
// pattern.Node, not into this package's Expression tree: the pattern
// sub-language has its own closed AST and its own compiler.
type PatternDefStatement struct {
	Token   lexer.Token
	Name    string
	Pattern *pattern.Node
}

func (p *PatternDefStatement) statementNode()       {}
func (p *PatternDefStatement) TokenLiteral() string { return p.Token.Literal }
func (p *PatternDefStatement) Pos() lexer.Position  { return p.Token.Pos }
func (p *PatternDefStatement) String() string       { return "create pattern " + p.Name }

// MatchesExpression is `<text> matches <pattern>`, evaluating to a boolean.
type MatchesExpression struct {
	Token lexer.Token
	Text    Expression
	Pattern Expression
}

func (m *MatchesExpression) expressionNode()      {}
func (m *MatchesExpression) TokenLiteral() string { return m.Token.Literal }
func (m *MatchesExpression) Pos() lexer.Position  { return m.Token.Pos }
func (m *MatchesExpression) String() string {
	return fmt.Sprintf("%s matches %s", m.Text.String(), m.Pattern.String())
}

// FindExpression is `find <pattern> in <text>`, evaluating to a
// Map<Text, Optional<Text>> of named captures plus a "match" entry holding
// the whole matched text, or nothing if there is no match.
type FindExpression struct {
	Token   lexer.Token
	Pattern Expression
	Text    Expression
}

func (f *FindExpression) expressionNode()      {}
func (f *FindExpression) TokenLiteral() string { return f.Token.Literal }
func (f *FindExpression) Pos() lexer.Position  { return f.Token.Pos }
func (f *FindExpression) String() string {
	return fmt.Sprintf("find %s in %s", f.Pattern.String(), f.Text.String())
}

// ReplaceExpression is `replace <pattern> with <replacement> in <text>`.
type ReplaceExpression struct {
	Token       lexer.Token
	Pattern     Expression
	Replacement Expression
	Text        Expression
}

func (r *ReplaceExpression) expressionNode()      {}
func (r *ReplaceExpression) TokenLiteral() string { return r.Token.Literal }
func (r *ReplaceExpression) Pos() lexer.Position  { return r.Token.Pos }
func (r *ReplaceExpression) String() string {
	return fmt.Sprintf("replace %s with %s in %s", r.Pattern.String(), r.Replacement.String(), r.Text.String())
}

// SplitExpression is `split <text> on <pattern>`.
type SplitExpression struct {
	Token   lexer.Token
	Text    Expression
	Pattern Expression
}

func (s *SplitExpression) expressionNode()      {}
func (s *SplitExpression) TokenLiteral() string { return s.Token.Literal }
func (s *SplitExpression) Pos() lexer.Position  { return s.Token.Pos }
func (s *SplitExpression) String() string {
	return fmt.Sprintf("split %s on %s", s.Text.String(), s.Pattern.String())
}

// WaitExpression is `wait for <url>`: an HTTP GET that suspends the fiber
// until a response arrives (spec §5 I/O suspension points).
type WaitExpression struct {
	Token lexer.Token
	URL   Expression
}

func (w *WaitExpression) expressionNode()      {}
func (w *WaitExpression) TokenLiteral() string { return w.Token.Literal }
func (w *WaitExpression) Pos() lexer.Position  { return w.Token.Pos }
func (w *WaitExpression) String() string       { return "wait for " + w.URL.String() }

// ReadExpression is `read <count> characters|lines|content from <handle>`.
// Unit is "characters", "lines", or "content" (whole-file read, Count nil).
type ReadExpression struct {
	Token  lexer.Token
	Count  Expression
	Unit   string
	Handle Expression
}

func (r *ReadExpression) expressionNode()      {}
func (r *ReadExpression) TokenLiteral() string { return r.Token.Literal }
func (r *ReadExpression) Pos() lexer.Position  { return r.Token.Pos }
func (r *ReadExpression) String() string {
	return fmt.Sprintf("read %s from %s", r.Unit, r.Handle.String())
}

// OpenFileStatement is `open file at <path> for reading|writing|appending
// as <name>`.
type OpenFileStatement struct {
	Token lexer.Token
	Path  Expression
	Mode  string // "reading", "writing", or "appending"
	Name  string
}

func (o *OpenFileStatement) statementNode()       {}
func (o *OpenFileStatement) TokenLiteral() string { return o.Token.Literal }
func (o *OpenFileStatement) Pos() lexer.Position  { return o.Token.Pos }
func (o *OpenFileStatement) String() string {
	return fmt.Sprintf("open file at %s for %s as %s", o.Path.String(), o.Mode, o.Name)
}

// CloseStatement is `close <handle>`.
type CloseStatement struct {
	Token  lexer.Token
	Handle Expression
}

func (c *CloseStatement) statementNode()       {}
func (c *CloseStatement) TokenLiteral() string { return c.Token.Literal }
func (c *CloseStatement) Pos() lexer.Position  { return c.Token.Pos }
func (c *CloseStatement) String() string       { return "close " + c.Handle.String() }

// WriteStatement is `write <content> into <handle>`.
type WriteStatement struct {
	Token   lexer.Token
	Content Expression
	Handle  Expression
}

func (w *WriteStatement) statementNode()       {}
func (w *WriteStatement) TokenLiteral() string { return w.Token.Literal }
func (w *WriteStatement) Pos() lexer.Position  { return w.Token.Pos }
func (w *WriteStatement) String() string {
	return fmt.Sprintf("write %s into %s", w.Content.String(), w.Handle.String())
}

// ListenStatement is `listen on port <port> as <name>`, binding an HTTP
// server handle.
type ListenStatement struct {
	Token lexer.Token
	Port  Expression
	Name  string
}

func (l *ListenStatement) statementNode()       {}
func (l *ListenStatement) TokenLiteral() string { return l.Token.Literal }
func (l *ListenStatement) Pos() lexer.Position  { return l.Token.Pos }
func (l *ListenStatement) String() string {
	return fmt.Sprintf("listen on port %s as %s", l.Port.String(), l.Name)
}

// WaitForRequestStatement is `wait for request comes in on <server> as
// <name>`: suspends until the next inbound HTTP request arrives.
type WaitForRequestStatement struct {
	Token  lexer.Token
	Server Expression
	Name   string
}

func (w *WaitForRequestStatement) statementNode()       {}
func (w *WaitForRequestStatement) TokenLiteral() string { return w.Token.Literal }
func (w *WaitForRequestStatement) Pos() lexer.Position  { return w.Token.Pos }
func (w *WaitForRequestStatement) String() string {
	return fmt.Sprintf("wait for request comes in on %s as %s", w.Server.String(), w.Name)
}

// RespondStatement is `respond to <request> with <body> [status <n>]
// [content_type <type>]` (spec §9: content_type is mandatory, enforced by
// the semantic analyzer rather than the parser so the error carries a
// proper diagnostic span).
type RespondStatement struct {
	Token       lexer.Token
	Request     Expression
	Body        Expression
	Status      Expression // nil implies 200
	ContentType Expression
}

func (r *RespondStatement) statementNode()       {}
func (r *RespondStatement) TokenLiteral() string { return r.Token.Literal }
func (r *RespondStatement) Pos() lexer.Position  { return r.Token.Pos }
func (r *RespondStatement) String() string {
	return fmt.Sprintf("respond to %s with %s", r.Request.String(), r.Body.String())
}
