package ast

import (
	"fmt"

	"github.com/wfl-lang/wfl/internal/lexer"
)

// ConditionalStatement is `check if <cond>: ... otherwise: ... end check`.
// `otherwise` is always followed by a colon; a nested `check if ... end
// check` chain is written as an ordinary statement inside Else, not as a
// fused `otherwise check if` phrase (that spelling is a source error).
type ConditionalStatement struct {
	Token     lexer.Token
	Condition Expression
	Then      []Statement
	Else      []Statement // nil if there is no otherwise branch
}

func (c *ConditionalStatement) statementNode()       {}
func (c *ConditionalStatement) TokenLiteral() string { return c.Token.Literal }
func (c *ConditionalStatement) Pos() lexer.Position  { return c.Token.Pos }
func (c *ConditionalStatement) String() string {
	return fmt.Sprintf("check if %s: ...", c.Condition.String())
}

// CountLoopStatement is `count from <start> [down] to <end> [by <step>]
// [as <name>]`. LoopVar defaults to "count" when no `as` alias is given.
type CountLoopStatement struct {
	Token   lexer.Token
	LoopVar string
	From    Expression
	To      Expression
	Step    Expression // nil implies step 1
	Down    bool
	Body    []Statement
}

func (c *CountLoopStatement) statementNode()       {}
func (c *CountLoopStatement) TokenLiteral() string { return c.Token.Literal }
func (c *CountLoopStatement) Pos() lexer.Position  { return c.Token.Pos }
func (c *CountLoopStatement) String() string {
	return fmt.Sprintf("count %s from %s to %s", c.LoopVar, c.From.String(), c.To.String())
}

// ForEachStatement is `for each <elem> in <collection> [reversed] [at
// <index>]`. IndexVar is empty unless the source bound an index alongside
// the element.
type ForEachStatement struct {
	Token      lexer.Token
	ElemVar    string
	IndexVar   string
	Collection Expression
	Reversed   bool
	Body       []Statement
}

func (f *ForEachStatement) statementNode()       {}
func (f *ForEachStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForEachStatement) Pos() lexer.Position  { return f.Token.Pos }
func (f *ForEachStatement) String() string {
	return fmt.Sprintf("for each %s in %s", f.ElemVar, f.Collection.String())
}

// WhileLoopStatement is `repeat while <cond>: ... end repeat` or its
// negated form `repeat until <cond>: ... end repeat`.
type WhileLoopStatement struct {
	Token     lexer.Token
	Condition Expression
	Until     bool
	Body      []Statement
}

func (w *WhileLoopStatement) statementNode()       {}
func (w *WhileLoopStatement) TokenLiteral() string { return w.Token.Literal }
func (w *WhileLoopStatement) Pos() lexer.Position  { return w.Token.Pos }
func (w *WhileLoopStatement) String() string {
	kw := "while"
	if w.Until {
		kw = "until"
	}
	return fmt.Sprintf("%s %s", kw, w.Condition.String())
}

// ForeverLoopStatement is an unconditional loop: `repeat forever: ... end
// repeat`, or the script's single top-level `main loop: ... end loop`
// (IsMainLoop true), which runs without the default execution-timeout
// budget (spec §5 scheduling contract).
type ForeverLoopStatement struct {
	Token      lexer.Token
	IsMainLoop bool
	Body       []Statement
}

func (f *ForeverLoopStatement) statementNode()       {}
func (f *ForeverLoopStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForeverLoopStatement) Pos() lexer.Position  { return f.Token.Pos }
func (f *ForeverLoopStatement) String() string {
	if f.IsMainLoop {
		return "main loop"
	}
	return "forever"
}

// BreakStatement exits the nearest enclosing loop.
type BreakStatement struct{ Token lexer.Token }

func (b *BreakStatement) statementNode()       {}
func (b *BreakStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BreakStatement) Pos() lexer.Position  { return b.Token.Pos }
func (b *BreakStatement) String() string       { return "break" }

// ContinueStatement skips to the next iteration of the nearest loop.
type ContinueStatement struct{ Token lexer.Token }

func (c *ContinueStatement) statementNode()       {}
func (c *ContinueStatement) TokenLiteral() string { return c.Token.Literal }
func (c *ContinueStatement) Pos() lexer.Position  { return c.Token.Pos }
func (c *ContinueStatement) String() string       { return "continue" }

// ExitStatement unwinds every enclosing loop in the current action at once.
type ExitStatement struct{ Token lexer.Token }

func (e *ExitStatement) statementNode()       {}
func (e *ExitStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExitStatement) Pos() lexer.Position  { return e.Token.Pos }
func (e *ExitStatement) String() string       { return "exit loop" }

// ReturnStatement is `give back <expr>`; Value is nil for a bare return.
type ReturnStatement struct {
	Token lexer.Token
	Value Expression
}

func (r *ReturnStatement) statementNode()       {}
func (r *ReturnStatement) TokenLiteral() string { return r.Token.Literal }
func (r *ReturnStatement) Pos() lexer.Position  { return r.Token.Pos }
func (r *ReturnStatement) String() string {
	if r.Value == nil {
		return "give back"
	}
	return "give back " + r.Value.String()
}

// TryStatement is `try: ... when error [as <name>]: ... end try`.
type TryStatement struct {
	Token    lexer.Token
	Body     []Statement
	ErrorVar string // empty if the handler does not bind the error
	Handler  []Statement
}

func (t *TryStatement) statementNode()       {}
func (t *TryStatement) TokenLiteral() string { return t.Token.Literal }
func (t *TryStatement) Pos() lexer.Position  { return t.Token.Pos }
func (t *TryStatement) String() string       { return "try: ..." }
