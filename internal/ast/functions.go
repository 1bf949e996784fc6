package ast

import (
	"fmt"
	"strings"

	"github.com/wfl-lang/wfl/internal/lexer"
)

// Param is one formal parameter of an action, with an optional declared
// type and an optional default value (spec §3 "actions with default
// parameters").
type Param struct {
	Name    string
	Type    *TypeAnnotation
	Default Expression
}

// ActionDefinition is `define action called <name> [needs p1 and p2 ...]:`,
// or the same with space-separated parameters `needs p1 p2 p3`.
// SpaceSeparated records which parameter syntax produced it. The semantic
// analyzer's call-arity warning (spec §9, diagnostic WFL-241) reads it, and
// so does the interpreter's bindParams, which binds a single argument to
// every parameter of a space-separated action.
type ActionDefinition struct {
	Token          lexer.Token
	Name           string
	Params         []Param
	SpaceSeparated bool
	ReturnType     *TypeAnnotation
	Body           []Statement
}

func (a *ActionDefinition) statementNode()       {}
func (a *ActionDefinition) TokenLiteral() string { return a.Token.Literal }
func (a *ActionDefinition) Pos() lexer.Position  { return a.Token.Pos }
func (a *ActionDefinition) String() string {
	names := make([]string, len(a.Params))
	for i, p := range a.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("define action %s needs %s", a.Name, strings.Join(names, ", "))
}
