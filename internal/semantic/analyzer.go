// Package semantic implements the single-pass analysis that runs between
// module resolution and type checking: scope-tracked name resolution,
// unused-variable and unreachable-code warnings, and the handful of
// structural checks (duplicate definitions, unknown container references,
// missing HTTP content type) that do not need full type inference to catch.
package semantic

import (
	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/errors"
)

// Analyzer walks a flattened program exactly once, maintaining one
// SymbolTable per lexical scope the way the teacher's Analyzer does, minus
// the type-checking and class-table bookkeeping that belongs to
// internal/types instead.
type Analyzer struct {
	reporter *errors.Reporter
	scope    *SymbolTable

	containers map[string]*ast.ContainerDefinition
	actions    map[string]*ast.ActionDefinition
	patterns   map[string]*ast.PatternDefStatement

	loopDepth int
}

// Analyze runs the analyzer over prog, reporting every diagnostic into
// reporter. It does not return a value: callers inspect reporter.HasErrors()
// and reporter.Diagnostics() afterward, same as every other pipeline stage.
func Analyze(prog *ast.Program, reporter *errors.Reporter) {
	a := &Analyzer{
		reporter:   reporter,
		scope:      NewSymbolTable(),
		containers: make(map[string]*ast.ContainerDefinition),
		actions:    make(map[string]*ast.ActionDefinition),
		patterns:   make(map[string]*ast.PatternDefStatement),
	}
	a.collectTopLevel(prog.Statements)
	a.visitStatements(prog.Statements)
	// The global scope is popped quietly, not swept for unused symbols: a
	// top-level action, container, or pattern may exist only to be called
	// from a script that loads this one as a module, so "never referenced
	// in this file" is not evidence of dead code at this scope the way it
	// is for a local variable.
	a.exitScopeQuiet()
}

// collectTopLevel pre-declares every top-level action, container, and
// pattern name before the main walk starts, so forward references (action A
// calling action B defined later in the same file) resolve correctly.
func (a *Analyzer) collectTopLevel(stmts []ast.Statement) {
	for _, stmt := range stmts {
		switch v := stmt.(type) {
		case *ast.ActionDefinition:
			if _, exists := a.actions[v.Name]; exists {
				a.reporter.Errorf(v.Pos(), errors.CodeDuplicateDefinition, "action %q is already defined", v.Name)
				continue
			}
			a.actions[v.Name] = v
			a.scope.Define(v.Name, &ast.TypeAnnotation{Name: "Function"}, v)
		case *ast.ContainerDefinition:
			if _, exists := a.containers[v.Name]; exists {
				a.reporter.Errorf(v.Pos(), errors.CodeDuplicateDefinition, "container %q is already defined", v.Name)
				continue
			}
			a.containers[v.Name] = v
			a.scope.Define(v.Name, &ast.TypeAnnotation{Name: "ContainerType"}, v)
		case *ast.PatternDefStatement:
			if _, exists := a.patterns[v.Name]; exists {
				a.reporter.Errorf(v.Pos(), errors.CodeDuplicateDefinition, "pattern %q is already defined", v.Name)
				continue
			}
			a.patterns[v.Name] = v
			a.scope.Define(v.Name, &ast.TypeAnnotation{Name: "Pattern"}, v)
		}
	}
}

func (a *Analyzer) enterScope() {
	a.scope = NewEnclosedSymbolTable(a.scope)
}

// exitScope pops the current scope, warning about every symbol declared in
// it that was never read (spec §4.4 "unused variable" warning at scope
// exit).
func (a *Analyzer) exitScope() {
	for _, sym := range a.scope.Unused() {
		a.reporter.Warnf(sym.Pos.Pos(), errors.CodeUnusedVariable, "%q is never used", sym.Name)
	}
	if a.scope.Outer != nil {
		a.scope = a.scope.Outer
	}
}

// exitScopeQuiet pops the current scope without an unused-variable sweep,
// for scopes whose bindings are not ordinary local variables (container
// property scopes, where an action simply not touching a sibling property
// is unremarkable, not a mistake worth flagging).
func (a *Analyzer) exitScopeQuiet() {
	if a.scope.Outer != nil {
		a.scope = a.scope.Outer
	}
}

func (a *Analyzer) visitBlock(stmts []ast.Statement) {
	a.enterScope()
	a.visitStatements(stmts)
	a.exitScope()
}

// visitStatements walks one statement list, flagging anything after an
// unconditional break/continue/exit/return as unreachable (spec §4.4's
// per-function CFG, reduced to the block-level case that check actually
// needs: a statement following a same-level terminator can never run).
func (a *Analyzer) visitStatements(stmts []ast.Statement) {
	terminated := false
	for _, stmt := range stmts {
		if terminated {
			a.reporter.Warnf(stmt.Pos(), errors.CodeUnreachableCode, "unreachable code")
		}
		a.visitStatement(stmt)
		if isTerminator(stmt) {
			terminated = true
		}
	}
}

func isTerminator(stmt ast.Statement) bool {
	switch stmt.(type) {
	case *ast.ReturnStatement, *ast.BreakStatement, *ast.ContinueStatement, *ast.ExitStatement:
		return true
	}
	return false
}

func (a *Analyzer) visitStatement(stmt ast.Statement) {
	switch v := stmt.(type) {
	case *ast.StoreStatement:
		a.visitExpression(v.Value)
		a.scope.Define(v.Name, v.Type, v)

	case *ast.ChangeStatement:
		a.visitExpression(v.Value)
		a.resolveName(v.Name, v)

	case *ast.DisplayStatement:
		for _, val := range v.Values {
			a.visitExpression(val)
		}

	case *ast.BlockStatement:
		a.visitBlock(v.Statements)

	case *ast.ConditionalStatement:
		a.visitExpression(v.Condition)
		a.visitBlock(v.Then)
		if v.Else != nil {
			a.visitBlock(v.Else)
		}

	case *ast.CountLoopStatement:
		a.visitExpression(v.From)
		a.visitExpression(v.To)
		if v.Step != nil {
			a.visitExpression(v.Step)
		}
		a.enterScope()
		a.scope.Define(v.LoopVar, &ast.TypeAnnotation{Name: "Number"}, v)
		a.loopDepth++
		a.visitStatements(v.Body)
		a.loopDepth--
		a.exitScope()

	case *ast.ForEachStatement:
		a.visitExpression(v.Collection)
		a.enterScope()
		a.scope.Define(v.ElemVar, nil, v)
		if v.IndexVar != "" {
			a.scope.Define(v.IndexVar, &ast.TypeAnnotation{Name: "Number"}, v)
		}
		a.loopDepth++
		a.visitStatements(v.Body)
		a.loopDepth--
		a.exitScope()

	case *ast.WhileLoopStatement:
		a.visitExpression(v.Condition)
		a.loopDepth++
		a.visitBlock(v.Body)
		a.loopDepth--

	case *ast.ForeverLoopStatement:
		a.loopDepth++
		a.visitBlock(v.Body)
		a.loopDepth--

	case *ast.BreakStatement, *ast.ContinueStatement, *ast.ExitStatement:
		// Loop-depth is tracked for future flow analysis; a break/continue/
		// exit outside any loop is a parser-level structural impossibility
		// given the grammar, so there is nothing further to check here.

	case *ast.ReturnStatement:
		if v.Value != nil {
			a.visitExpression(v.Value)
		}

	case *ast.TryStatement:
		a.visitBlock(v.Body)
		if v.ErrorVar != "" {
			a.enterScope()
			a.scope.Define(v.ErrorVar, &ast.TypeAnnotation{Name: "Text"}, v)
			a.visitStatements(v.Handler)
			a.exitScope()
		} else {
			a.visitBlock(v.Handler)
		}

	case *ast.ActionDefinition:
		if _, exists := a.actions[v.Name]; !exists {
			a.actions[v.Name] = v
			a.scope.Define(v.Name, &ast.TypeAnnotation{Name: "Function"}, v)
		}
		a.visitAction(v)

	case *ast.ContainerDefinition:
		if _, exists := a.containers[v.Name]; !exists {
			a.containers[v.Name] = v
			a.scope.Define(v.Name, &ast.TypeAnnotation{Name: "ContainerType"}, v)
		}
		a.visitContainer(v)

	case *ast.PatternDefStatement:
		if _, exists := a.patterns[v.Name]; !exists {
			a.patterns[v.Name] = v
			a.scope.Define(v.Name, &ast.TypeAnnotation{Name: "Pattern"}, v)
		}

	case *ast.ImportStatement:
		// Imports are inlined by internal/resolver before analysis runs; one
		// surviving here (e.g. a unit test feeding the analyzer directly) is
		// simply skipped rather than flagged.

	case *ast.CreateInstanceStatement:
		if _, known := a.containers[v.TypeName]; !known {
			a.reporter.Errorf(v.Pos(), errors.CodeUnknownContainer, "unknown container type %q", v.TypeName)
		}
		for _, arg := range v.Args {
			a.visitExpression(arg)
		}
		for _, init := range v.Inits {
			a.visitExpression(init.Value)
		}
		a.scope.Define(v.Name, &ast.TypeAnnotation{Name: "ContainerInstance", Elem: &ast.TypeAnnotation{Name: v.TypeName}}, v)

	case *ast.OpenFileStatement:
		a.visitExpression(v.Path)
		a.scope.Define(v.Name, &ast.TypeAnnotation{Name: "FileHandle"}, v)

	case *ast.CloseStatement:
		a.visitExpression(v.Handle)

	case *ast.WriteStatement:
		a.visitExpression(v.Content)
		a.visitExpression(v.Handle)

	case *ast.ListenStatement:
		a.visitExpression(v.Port)
		a.scope.Define(v.Name, &ast.TypeAnnotation{Name: "HttpServerHandle"}, v)

	case *ast.WaitForRequestStatement:
		a.visitExpression(v.Server)
		a.scope.Define(v.Name, &ast.TypeAnnotation{Name: "HttpRequestHandle"}, v)

	case *ast.RespondStatement:
		a.visitExpression(v.Request)
		a.visitExpression(v.Body)
		if v.Status != nil {
			a.visitExpression(v.Status)
		}
		if v.ContentType == nil {
			a.reporter.Errorf(v.Pos(), errors.CodeMissingContentType, "respond statement is missing a content_type clause")
		} else {
			a.visitExpression(v.ContentType)
		}

	case *ast.ExpressionStatement:
		if v.Expr != nil {
			a.visitExpression(v.Expr)
		}
	}
}

// visitAction checks an action's default parameter expressions in the
// enclosing scope (a default cannot reference a sibling parameter), then
// walks the body in a fresh scope with every parameter bound.
func (a *Analyzer) visitAction(act *ast.ActionDefinition) {
	for _, p := range act.Params {
		if p.Default != nil {
			a.visitExpression(p.Default)
		}
	}
	a.enterScope()
	for _, p := range act.Params {
		a.scope.Define(p.Name, p.Type, act)
	}
	a.visitStatements(act.Body)
	a.exitScope()
}

// visitContainer binds every property name into a scope shared by all of
// the container's actions, mirroring the interpreter's own "bind self's
// properties into the activation scope" step (spec §4.6), then walks each
// action body inside it. The property scope itself is popped quietly: a
// property an individual action never touches is ordinary, not a mistake.
func (a *Analyzer) visitContainer(c *ast.ContainerDefinition) {
	a.enterScope()
	for _, prop := range c.Properties {
		if prop.Default != nil {
			a.visitExpression(prop.Default)
		}
		a.scope.Define(prop.Name, prop.Type, c)
	}
	for _, act := range c.Actions {
		a.visitAction(act)
	}
	a.exitScopeQuiet()
}

func (a *Analyzer) visitExpression(expr ast.Expression) {
	switch v := expr.(type) {
	case *ast.Identifier:
		a.resolveName(v.Value, v)

	case *ast.NumberLiteral, *ast.TextLiteral, *ast.BooleanLiteral, *ast.NullLiteral:
		// leaves

	case *ast.ListLiteral:
		for _, el := range v.Elements {
			a.visitExpression(el)
		}

	case *ast.MapLiteral:
		for _, entry := range v.Entries {
			a.visitExpression(entry.Value)
		}

	case *ast.BinaryExpression:
		a.visitExpression(v.Left)
		a.visitExpression(v.Right)

	case *ast.UnaryExpression:
		a.visitExpression(v.Operand)

	case *ast.CallExpression:
		a.visitExpression(v.Callee)
		for _, arg := range v.Args {
			a.visitExpression(arg)
		}
		a.checkCallArity(v)

	case *ast.MemberExpression:
		a.visitExpression(v.Object)

	case *ast.IndexExpression:
		a.visitExpression(v.Object)
		a.visitExpression(v.Index)

	case *ast.GroupedExpression:
		a.visitExpression(v.Inner)

	case *ast.MatchesExpression:
		a.visitExpression(v.Text)
		a.visitExpression(v.Pattern)

	case *ast.FindExpression:
		a.visitExpression(v.Pattern)
		a.visitExpression(v.Text)

	case *ast.ReplaceExpression:
		a.visitExpression(v.Pattern)
		a.visitExpression(v.Replacement)
		a.visitExpression(v.Text)

	case *ast.SplitExpression:
		a.visitExpression(v.Text)
		a.visitExpression(v.Pattern)

	case *ast.WaitExpression:
		a.visitExpression(v.URL)

	case *ast.ReadExpression:
		if v.Count != nil {
			a.visitExpression(v.Count)
		}
		a.visitExpression(v.Handle)
	}
}

// checkCallArity flags the one call-site ambiguity that is visible without
// full type inference: calling a space-separated-parameter action (spec
// §4.2's `needs p1 p2 p3` form) with a single argument is valid but binds
// every parameter to that same value, which reads like a multi-argument
// call and is easy to mistake for one.
func (a *Analyzer) checkCallArity(call *ast.CallExpression) {
	id, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return
	}
	act, ok := a.actions[id.Value]
	if !ok || !act.SpaceSeparated || len(act.Params) < 2 {
		return
	}
	if len(call.Args) == 1 {
		a.reporter.Warnf(call.Pos(), errors.CodeArityMismatchWarning,
			"%q takes %d space-separated parameters but is called with one argument; every parameter will bind to that same value",
			id.Value, len(act.Params))
	}
}

// resolveName looks name up the scope chain, recording a use on success or
// an undefined-name diagnostic with a spelling suggestion on failure.
func (a *Analyzer) resolveName(name string, at ast.Node) {
	if _, ok := a.scope.Resolve(name); ok {
		a.scope.Use(name)
		return
	}
	if suggestion, ok := suggestName(name, a.scope.Names()); ok {
		a.reporter.Errorf(at.Pos(), errors.CodeUndefinedName, "undefined name %q (did you mean %q?)", name, suggestion)
		return
	}
	a.reporter.Errorf(at.Pos(), errors.CodeUndefinedName, "undefined name %q", name)
}
