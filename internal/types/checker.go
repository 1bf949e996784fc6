package types

import (
	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/errors"
)

// Checker runs after internal/semantic and walks the same flattened
// program a second time, this time tracking inferred types rather than
// scopes of mere names. It shares no state with the analyzer: a variable
// that the analyzer already flagged as undefined simply infers as nil
// (unknown) here, which the equality helpers in type.go treat as
// compatible with everything so one missing name doesn't cascade into a
// second wall of diagnostics on top of the analyzer's own.
type Checker struct {
	reporter   *errors.Reporter
	env        *env
	containers map[string]*ast.ContainerDefinition
	actions    map[string]*ast.ActionDefinition
}

// Check runs the type checker over prog, reporting into reporter. Errors
// (definite mismatches) and warnings (ambiguous/unknown-type cases) share
// the reporter with every other stage; callers decide whether to run the
// interpreter based on reporter.HasErrors() (spec §4.5: warnings do not
// block execution, errors do).
func Check(prog *ast.Program, reporter *errors.Reporter) {
	c := &Checker{
		reporter:   reporter,
		env:        newEnv(nil),
		containers: make(map[string]*ast.ContainerDefinition),
		actions:    make(map[string]*ast.ActionDefinition),
	}
	c.collectTopLevel(prog.Statements)
	c.checkStatements(prog.Statements)
}

func (c *Checker) collectTopLevel(stmts []ast.Statement) {
	for _, stmt := range stmts {
		switch v := stmt.(type) {
		case *ast.ActionDefinition:
			c.actions[v.Name] = v
			c.env.define(v.Name, functionTypeOf(v))
		case *ast.ContainerDefinition:
			c.containers[v.Name] = v
			c.env.define(v.Name, ContainerType{Name: v.Name})
		case *ast.PatternDefStatement:
			c.env.define(v.Name, Pattern)
		}
	}
}

func functionTypeOf(act *ast.ActionDefinition) FunctionType {
	params := make([]Type, len(act.Params))
	for i, p := range act.Params {
		params[i] = fromAnnotationOrAny(p.Type)
	}
	return FunctionType{Params: params, Return: fromAnnotation(act.ReturnType)}
}

func (c *Checker) enterScope() { c.env = newEnv(c.env) }
func (c *Checker) exitScope() {
	if c.env.outer != nil {
		c.env = c.env.outer
	}
}

func (c *Checker) checkStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		c.checkStatement(stmt)
	}
}

func (c *Checker) checkBlock(stmts []ast.Statement) {
	c.enterScope()
	c.checkStatements(stmts)
	c.exitScope()
}

func (c *Checker) checkStatement(stmt ast.Statement) {
	switch v := stmt.(type) {
	case *ast.StoreStatement:
		inferred := c.checkExpr(v.Value)
		declared := fromAnnotation(v.Type)
		if declared != nil && inferred != nil && !typesEqual(declared, inferred) {
			c.reporter.Errorf(v.Pos(), errors.CodeTypeMismatch,
				"%q is declared as %s but initialized with %s", v.Name, declared.String(), inferred.String())
			c.env.define(v.Name, declared)
			return
		}
		if declared != nil {
			c.env.define(v.Name, declared)
		} else {
			c.env.define(v.Name, inferred)
		}

	case *ast.ChangeStatement:
		inferred := c.checkExpr(v.Value)
		if existing, ok := c.env.lookup(v.Name); ok && existing != nil && inferred != nil && !typesEqual(existing, inferred) {
			c.reporter.Warnf(v.Pos(), errors.CodeTypeMismatch,
				"%q was %s, now assigned %s", v.Name, existing.String(), inferred.String())
		}
		c.env.narrow(v.Name, inferred)

	case *ast.DisplayStatement:
		for _, val := range v.Values {
			c.checkExpr(val)
		}

	case *ast.BlockStatement:
		c.checkBlock(v.Statements)

	case *ast.ConditionalStatement:
		c.checkExpr(v.Condition)
		c.enterScope()
		c.applyNarrowing(v.Condition, true)
		c.checkStatements(v.Then)
		c.exitScope()
		if v.Else != nil {
			c.enterScope()
			c.applyNarrowing(v.Condition, false)
			c.checkStatements(v.Else)
			c.exitScope()
		}

	case *ast.CountLoopStatement:
		c.checkExpr(v.From)
		c.checkExpr(v.To)
		if v.Step != nil {
			c.checkExpr(v.Step)
		}
		c.enterScope()
		c.env.define(v.LoopVar, Number)
		c.checkStatements(v.Body)
		c.exitScope()

	case *ast.ForEachStatement:
		collType := c.checkExpr(v.Collection)
		c.enterScope()
		c.env.define(v.ElemVar, elementTypeOf(collType))
		if v.IndexVar != "" {
			c.env.define(v.IndexVar, Number)
		}
		c.checkStatements(v.Body)
		c.exitScope()

	case *ast.WhileLoopStatement:
		c.checkExpr(v.Condition)
		c.checkBlock(v.Body)

	case *ast.ForeverLoopStatement:
		c.checkBlock(v.Body)

	case *ast.ReturnStatement:
		if v.Value != nil {
			c.checkExpr(v.Value)
		}

	case *ast.TryStatement:
		c.checkBlock(v.Body)
		c.enterScope()
		if v.ErrorVar != "" {
			c.env.define(v.ErrorVar, Text)
		}
		c.checkStatements(v.Handler)
		c.exitScope()

	case *ast.ActionDefinition:
		if _, ok := c.actions[v.Name]; !ok {
			c.actions[v.Name] = v
			c.env.define(v.Name, functionTypeOf(v))
		}
		c.checkAction(v, nil)

	case *ast.ContainerDefinition:
		if _, ok := c.containers[v.Name]; !ok {
			c.containers[v.Name] = v
			c.env.define(v.Name, ContainerType{Name: v.Name})
		}
		c.checkContainer(v)

	case *ast.CreateInstanceStatement:
		for _, arg := range v.Args {
			c.checkExpr(arg)
		}
		for _, init := range v.Inits {
			initType := c.checkExpr(init.Value)
			if prop := c.resolveProperty(v.TypeName, init.Name); prop != nil {
				declared := fromAnnotationOrAny(prop.Type)
				if initType != nil && !typesEqual(declared, initType) {
					c.reporter.Errorf(v.Pos(), errors.CodeTypeMismatch,
						"property %q of %s expects %s, got %s", init.Name, v.TypeName, declared.String(), initType.String())
				}
			}
		}
		c.env.define(v.Name, ContainerInstance{Name: v.TypeName})

	case *ast.OpenFileStatement:
		c.checkExpr(v.Path)
		c.env.define(v.Name, FileHandle)

	case *ast.CloseStatement:
		c.checkExpr(v.Handle)

	case *ast.WriteStatement:
		c.checkExpr(v.Content)
		c.checkExpr(v.Handle)

	case *ast.ListenStatement:
		c.checkExpr(v.Port)
		c.env.define(v.Name, HttpServerHandle)

	case *ast.WaitForRequestStatement:
		c.checkExpr(v.Server)
		c.env.define(v.Name, HttpRequestHandle)

	case *ast.RespondStatement:
		c.checkExpr(v.Request)
		c.checkExpr(v.Body)
		if v.Status != nil {
			if t := c.checkExpr(v.Status); !IsNumber(t) {
				c.reporter.Errorf(v.Pos(), errors.CodeTypeMismatch, "status must be a Number")
			}
		}
		if v.ContentType != nil {
			if t := c.checkExpr(v.ContentType); !IsText(t) {
				c.reporter.Errorf(v.Pos(), errors.CodeTypeMismatch, "content_type must be Text")
			}
		}

	case *ast.ExpressionStatement:
		if v.Expr != nil {
			c.checkExpr(v.Expr)
		}

	case *ast.PatternDefStatement:
		if _, ok := c.env.lookup(v.Name); !ok {
			c.env.define(v.Name, Pattern)
		}
	}
}

func elementTypeOf(t Type) Type {
	switch v := t.(type) {
	case ListType:
		return v.Elem
	case MapType:
		return v.Elem
	default:
		return nil
	}
}

func (c *Checker) checkAction(act *ast.ActionDefinition, selfProps *ast.ContainerDefinition) {
	c.enterScope()
	for _, p := range act.Params {
		if p.Default != nil {
			c.checkExpr(p.Default)
		}
		c.env.define(p.Name, fromAnnotationOrAny(p.Type))
	}
	if selfProps != nil {
		for _, prop := range c.allProperties(selfProps.Name) {
			c.env.define(prop.Name, fromAnnotationOrAny(prop.Type))
		}
	}
	c.checkStatements(act.Body)
	c.exitScope()
}

// allProperties collects a container's own properties plus every property
// contributed by its `extends` chain, so an action binds inherited
// properties into its activation scope the same way it binds the ones
// declared directly on it.
func (c *Checker) allProperties(containerName string) []*ast.PropertyDecl {
	var props []*ast.PropertyDecl
	seen := map[string]bool{}
	for containerName != "" && !seen[containerName] {
		seen[containerName] = true
		def, ok := c.containers[containerName]
		if !ok {
			break
		}
		props = append(props, def.Properties...)
		containerName = def.Parent
	}
	return props
}

// checkContainer binds property types into a shared scope before checking
// each action body, matching the interpreter's own "bind self's properties
// into the activation scope" step (spec §4.6).
func (c *Checker) checkContainer(def *ast.ContainerDefinition) {
	for _, prop := range def.Properties {
		if prop.Default != nil {
			declared := fromAnnotationOrAny(prop.Type)
			if inferred := c.checkExpr(prop.Default); inferred != nil && !typesEqual(declared, inferred) {
				c.reporter.Errorf(prop.Token.Pos, errors.CodeTypeMismatch,
					"property %q is declared as %s but defaults to %s", prop.Name, declared.String(), inferred.String())
			}
		}
	}
	for _, act := range def.Actions {
		c.checkActionArityAgainstCall(act)
		c.checkAction(act, def)
	}
}

// checkActionArityAgainstCall is an empty per-action hook kept separate
// from checkAction. It checks nothing: the checker does not verify that a
// container satisfies the action signatures its interfaces declare
// (spec §4.5), for properties or for actions.
func (c *Checker) checkActionArityAgainstCall(act *ast.ActionDefinition) {}

// resolveProperty finds a named property on a container, walking the
// `extends` chain so inherited properties are visible without copying the
// schema (spec §4.5 "inheritance contributes properties/actions from
// parent").
func (c *Checker) resolveProperty(containerName, propName string) *ast.PropertyDecl {
	seen := map[string]bool{}
	for containerName != "" && !seen[containerName] {
		seen[containerName] = true
		def, ok := c.containers[containerName]
		if !ok {
			return nil
		}
		for _, p := range def.Properties {
			if p.Name == propName {
				return p
			}
		}
		containerName = def.Parent
	}
	return nil
}

// applyNarrowing implements the one flow-sensitive narrowing rule spec
// §4.5 names: a guard of the shape `<name> is not nothing` narrows name
// from Optional<T> to T inside the branch where the guard held (positive
// for Then, its negation is not narrowed since "is nothing" does not imply
// a usable non-null type in Else).
func (c *Checker) applyNarrowing(cond ast.Expression, positive bool) {
	bin, ok := cond.(*ast.BinaryExpression)
	if !ok || !positive {
		return
	}
	id, ok := bin.Left.(*ast.Identifier)
	if !ok {
		return
	}
	if _, isNull := bin.Right.(*ast.NullLiteral); !isNull {
		return
	}
	if bin.Operator != "not_equals" {
		return
	}
	if existing, ok := c.env.lookup(id.Value); ok {
		if opt, isOpt := existing.(OptionalType); isOpt {
			c.env.narrow(id.Value, opt.Elem)
		}
	}
}

// checkExpr infers and returns expr's type, reporting diagnostics for any
// operator typing rule violation (spec §4.5) along the way. A nil result
// means "could not be inferred" (unknown callee, unresolved member, etc.)
// and is treated as compatible with anything by typesEqual, so one
// unknown sub-expression doesn't cascade into spurious mismatches across
// the rest of the tree.
func (c *Checker) checkExpr(expr ast.Expression) Type {
	switch v := expr.(type) {
	case *ast.Identifier:
		t, _ := c.env.lookup(v.Value)
		return t

	case *ast.NumberLiteral:
		return Number
	case *ast.TextLiteral:
		return Text
	case *ast.BooleanLiteral:
		return Boolean
	case *ast.NullLiteral:
		return Null

	case *ast.ListLiteral:
		var elem Type
		for i, el := range v.Elements {
			t := c.checkExpr(el)
			if i == 0 {
				elem = t
			} else if elem != nil && t != nil && !typesEqual(elem, t) {
				elem = Any
			}
		}
		if elem == nil {
			elem = Any
		}
		return ListType{Elem: elem}

	case *ast.MapLiteral:
		var elem Type
		for i, entry := range v.Entries {
			t := c.checkExpr(entry.Value)
			if i == 0 {
				elem = t
			} else if elem != nil && t != nil && !typesEqual(elem, t) {
				elem = Any
			}
		}
		if elem == nil {
			elem = Any
		}
		return MapType{Elem: elem}

	case *ast.BinaryExpression:
		return c.checkBinary(v)

	case *ast.UnaryExpression:
		operand := c.checkExpr(v.Operand)
		switch v.Operator {
		case "not":
			if !IsBoolean(operand) {
				c.reporter.Errorf(v.Pos(), errors.CodeTypeMismatch, "not requires a Boolean operand, got %s", describeType(operand))
			}
			return Boolean
		case "negative":
			if !IsNumber(operand) {
				c.reporter.Errorf(v.Pos(), errors.CodeTypeMismatch, "unary minus requires a Number operand, got %s", describeType(operand))
			}
			return Number
		default:
			return operand
		}

	case *ast.CallExpression:
		return c.checkCall(v)

	case *ast.MemberExpression:
		return c.checkMember(v)

	case *ast.IndexExpression:
		objType := c.checkExpr(v.Object)
		c.checkExpr(v.Index)
		return elementTypeOf(objType)

	case *ast.GroupedExpression:
		return c.checkExpr(v.Inner)

	case *ast.MatchesExpression:
		c.checkExpr(v.Text)
		c.checkExpr(v.Pattern)
		return Boolean

	case *ast.FindExpression:
		c.checkExpr(v.Pattern)
		c.checkExpr(v.Text)
		return OptionalType{Elem: MapType{Elem: OptionalType{Elem: Text}}}

	case *ast.ReplaceExpression:
		c.checkExpr(v.Pattern)
		c.checkExpr(v.Replacement)
		c.checkExpr(v.Text)
		return Text

	case *ast.SplitExpression:
		c.checkExpr(v.Text)
		c.checkExpr(v.Pattern)
		return ListType{Elem: Text}

	case *ast.WaitExpression:
		c.checkExpr(v.URL)
		return Text

	case *ast.ReadExpression:
		if v.Count != nil {
			c.checkExpr(v.Count)
		}
		c.checkExpr(v.Handle)
		return Text
	}
	return nil
}

// describeType renders t for a diagnostic message, spelling an unresolved
// type as "an unknown type" rather than panicking on a nil receiver.
func describeType(t Type) string {
	if t == nil {
		return "an unknown type"
	}
	return t.String()
}

// checkBinary enforces the operator typing rules from spec §4.5 against
// the canonical operator strings the parser actually assigns (confirmed
// against internal/parser/expressions.go): arithmetic operators require
// Number on both sides, "with" concatenation always yields Text and never
// errors since every value has a display form, equality allows Null on
// either side, ordered comparison and "between" require both sides Number
// or both Text, "and"/"or" require Boolean, and the membership operators
// require a Text or List left operand.
func (c *Checker) checkBinary(b *ast.BinaryExpression) Type {
	left := c.checkExpr(b.Left)
	right := c.checkExpr(b.Right)

	switch b.Operator {
	case "plus", "minus", "times", "divided", "modulo":
		if !IsNumber(left) || !IsNumber(right) {
			c.reporter.Errorf(b.Pos(), errors.CodeTypeMismatch,
				"%s requires Number operands, got %s and %s", b.Operator, describeType(left), describeType(right))
		}
		return Number

	case "with":
		return Text

	case "equals", "not_equals":
		if left != nil && right != nil && left != Null && right != Null && left != Any && right != Any && !typesEqual(left, right) {
			c.reporter.Errorf(b.Pos(), errors.CodeTypeMismatch,
				"cannot compare %s with %s", describeType(left), describeType(right))
		}
		return Boolean

	case "greater_than", "less_than", "at_least", "at_most":
		if !sameOrderable(left, right) {
			c.reporter.Errorf(b.Pos(), errors.CodeTypeMismatch,
				"%s requires two Numbers or two Text values, got %s and %s", b.Operator, describeType(left), describeType(right))
		}
		return Boolean

	case "between":
		bounds, ok := b.Right.(*ast.ListLiteral)
		if !ok || len(bounds.Elements) != 2 {
			return Boolean
		}
		low := c.checkExpr(bounds.Elements[0])
		high := c.checkExpr(bounds.Elements[1])
		if !sameOrderable(left, low) || !sameOrderable(left, high) {
			c.reporter.Errorf(b.Pos(), errors.CodeTypeMismatch, "between requires matching Number or Text operands")
		}
		return Boolean

	case "and", "or":
		if !IsBoolean(left) || !IsBoolean(right) {
			c.reporter.Errorf(b.Pos(), errors.CodeTypeMismatch,
				"%s requires Boolean operands, got %s and %s", b.Operator, describeType(left), describeType(right))
		}
		return Boolean

	case "contains", "starts_with", "ends_with":
		if !IsText(left) && !isListOrUnknown(left) {
			c.reporter.Errorf(b.Pos(), errors.CodeTypeMismatch,
				"%s requires a Text or List left operand, got %s", b.Operator, describeType(left))
		}
		return Boolean

	case "in", "not_in":
		if !isListOrMapOrUnknown(right) && !IsText(right) {
			c.reporter.Errorf(b.Pos(), errors.CodeTypeMismatch,
				"%s requires a List, Map, or Text right operand, got %s", b.Operator, describeType(right))
		}
		return Boolean
	}
	return nil
}

func sameOrderable(a, b Type) bool {
	if a == nil || b == nil || a == Any || b == Any {
		return true
	}
	return (IsNumber(a) && IsNumber(b)) || (IsText(a) && IsText(b))
}

func isListOrUnknown(t Type) bool {
	if t == nil || t == Any {
		return true
	}
	_, ok := t.(ListType)
	return ok
}

func isListOrMapOrUnknown(t Type) bool {
	if isListOrUnknown(t) {
		return true
	}
	_, ok := t.(MapType)
	return ok
}

// checkCall checks argument count and per-parameter types against a known
// action's FunctionType, returning its declared return type. A call whose
// callee doesn't resolve to a known action (computed callee, container
// method, undeclared name already flagged by internal/semantic) infers as
// nil rather than being treated as an error here.
func (c *Checker) checkCall(call *ast.CallExpression) Type {
	argTypes := make([]Type, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = c.checkExpr(arg)
	}
	id, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return nil
	}
	act, ok := c.actions[id.Value]
	if !ok {
		return nil
	}
	fn := functionTypeOf(act)
	if act.SpaceSeparated && len(call.Args) == 1 && len(fn.Params) > 1 {
		// internal/semantic already warns about this call shape (every
		// parameter binds to the single argument); nothing further to
		// check here since there's only one argument type to compare.
		return fn.Return
	}
	for i, pt := range fn.Params {
		if i >= len(argTypes) {
			break
		}
		if argTypes[i] != nil && !typesEqual(pt, argTypes[i]) {
			c.reporter.Errorf(call.Pos(), errors.CodeTypeMismatch,
				"%s expects %s for parameter %d, got %s", id.Value, pt.String(), i+1, argTypes[i].String())
		}
	}
	return fn.Return
}

// checkMember resolves a property access against the object's container
// schema, walking the inheritance chain via resolveProperty.
func (c *Checker) checkMember(m *ast.MemberExpression) Type {
	objType := c.checkExpr(m.Object)
	inst, ok := objType.(ContainerInstance)
	if !ok {
		return nil
	}
	prop := c.resolveProperty(inst.Name, m.Property)
	if prop == nil {
		return nil
	}
	return fromAnnotationOrAny(prop.Type)
}
