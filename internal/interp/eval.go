package interp

import (
	"fmt"

	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/lexer"
	"github.com/wfl-lang/wfl/internal/pattern"
)

// eval evaluates expr in env to a Value (spec §4.6 "expressions return
// Value").
func (i *Interpreter) eval(expr ast.Expression, env *Environment) (Value, error) {
	switch v := expr.(type) {
	case *ast.Identifier:
		val, ok := env.Get(v.Value)
		if !ok {
			return nil, newRuntimeError(v.Pos(), ErrUndefinedName, "undefined name %q", v.Value)
		}
		if isZeroArity(val) {
			return i.callFunction(val, nil, v.Pos())
		}
		return val, nil

	case *ast.NumberLiteral:
		return Number(v.Value), nil

	case *ast.TextLiteral:
		return Text(v.Value), nil

	case *ast.BooleanLiteral:
		return Boolean(v.Value), nil

	case *ast.NullLiteral:
		return NullValue, nil

	case *ast.ListLiteral:
		elems := make([]Value, len(v.Elements))
		for idx, e := range v.Elements {
			val, err := i.eval(e, env)
			if err != nil {
				return nil, err
			}
			elems[idx] = val
		}
		return NewList(elems), nil

	case *ast.MapLiteral:
		m := NewMap()
		for _, entry := range v.Entries {
			val, err := i.eval(entry.Value, env)
			if err != nil {
				return nil, err
			}
			m.Set(entry.Key, val)
		}
		return m, nil

	case *ast.BinaryExpression:
		return i.evalBinary(v, env)

	case *ast.UnaryExpression:
		return i.evalUnary(v, env)

	case *ast.CallExpression:
		return i.evalCall(v, env)

	case *ast.MemberExpression:
		val, err := i.evalMember(v, env)
		if err != nil {
			return nil, err
		}
		if isZeroArity(val) {
			return i.callFunction(val, nil, v.Pos())
		}
		return val, nil

	case *ast.IndexExpression:
		return i.evalIndex(v, env)

	case *ast.GroupedExpression:
		return i.eval(v.Inner, env)

	case *ast.MatchesExpression:
		return i.evalMatches(v, env)

	case *ast.FindExpression:
		return i.evalFind(v, env)

	case *ast.ReplaceExpression:
		return i.evalReplace(v, env)

	case *ast.SplitExpression:
		return i.evalSplit(v, env)

	case *ast.WaitExpression:
		return i.evalWait(v, env)

	case *ast.ReadExpression:
		return i.evalRead(v, env)
	}
	return nil, fmt.Errorf("interp: unhandled expression %T", expr)
}

// evalCallee resolves a call's callee without applying the zero-argument
// auto-call rule, so `call shout with 1` doesn't try to call `shout`'s
// result before passing it the argument.
func (i *Interpreter) evalCallee(expr ast.Expression, env *Environment) (Value, error) {
	if id, ok := expr.(*ast.Identifier); ok {
		val, ok := env.Get(id.Value)
		if !ok {
			return nil, newRuntimeError(id.Pos(), ErrUndefinedName, "undefined name %q", id.Value)
		}
		return val, nil
	}
	return i.eval(expr, env)
}

func (i *Interpreter) evalCall(v *ast.CallExpression, env *Environment) (Value, error) {
	callee, err := i.evalCallee(v.Callee, env)
	if err != nil {
		return nil, err
	}
	args, err := i.evalArgs(v.Args, env)
	if err != nil {
		return nil, err
	}
	return i.callFunction(callee, args, v.Pos())
}

func (i *Interpreter) evalMember(v *ast.MemberExpression, env *Environment) (Value, error) {
	obj, err := i.eval(v.Object, env)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *ContainerInstance:
		if val, ok := o.Props[v.Property]; ok {
			return val, nil
		}
		if act, owner := i.findAction(o.Def, v.Property); act != nil {
			return &Function{Def: act, Closure: i.globals, Self: &ContainerInstance{Def: owner, Props: o.Props}}, nil
		}
		return nil, newRuntimeError(v.Pos(), ErrUndefinedName, "%s has no property or action %q", o.Def.Name, v.Property)
	case *Map:
		if val, ok := o.Get(v.Property); ok {
			return val, nil
		}
		return NullValue, nil
	default:
		return nil, newRuntimeError(v.Pos(), ErrTypeError, "cannot access property %q on %s", v.Property, obj.Type())
	}
}

func (i *Interpreter) evalIndex(v *ast.IndexExpression, env *Environment) (Value, error) {
	obj, err := i.eval(v.Object, env)
	if err != nil {
		return nil, err
	}
	idx, err := i.eval(v.Index, env)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *List:
		n, ok := idx.(Number)
		if !ok {
			return nil, newRuntimeError(v.Pos(), ErrTypeError, "list index must be a Number")
		}
		pos := int(n) - 1 // WFL lists are 1-indexed at the surface syntax level
		if pos < 0 || pos >= len(o.Elements) {
			return nil, newRuntimeError(v.Pos(), ErrIndexOutOfRange, "index %d out of range for a list of length %d", int(n), len(o.Elements))
		}
		return o.Elements[pos], nil
	case *Map:
		key, ok := idx.(Text)
		if !ok {
			return nil, newRuntimeError(v.Pos(), ErrTypeError, "map key must be Text")
		}
		val, ok := o.Get(string(key))
		if !ok {
			return NullValue, nil
		}
		return val, nil
	case Text:
		n, ok := idx.(Number)
		if !ok {
			return nil, newRuntimeError(v.Pos(), ErrTypeError, "text index must be a Number")
		}
		runes := []rune(string(o))
		pos := int(n) - 1
		if pos < 0 || pos >= len(runes) {
			return nil, newRuntimeError(v.Pos(), ErrIndexOutOfRange, "index %d out of range for text of length %d", int(n), len(runes))
		}
		return Text(string(runes[pos])), nil
	default:
		return nil, newRuntimeError(v.Pos(), ErrTypeError, "cannot index a %s", obj.Type())
	}
}

func (i *Interpreter) evalUnary(v *ast.UnaryExpression, env *Environment) (Value, error) {
	operand, err := i.eval(v.Operand, env)
	if err != nil {
		return nil, err
	}
	switch v.Operator {
	case "not":
		b, ok := operand.(Boolean)
		if !ok {
			return nil, newRuntimeError(v.Pos(), ErrTypeError, "not requires a Boolean, got %s", operand.Type())
		}
		return Boolean(!b), nil
	case "negative":
		n, ok := operand.(Number)
		if !ok {
			return nil, newRuntimeError(v.Pos(), ErrTypeError, "negative requires a Number, got %s", operand.Type())
		}
		return Number(-n), nil
	}
	return nil, fmt.Errorf("interp: unknown unary operator %q", v.Operator)
}

// stepLimit returns the configured pattern step budget, falling back to the
// pattern package's own default when the interpreter wasn't given one
// (spec §4.7, §6: PatternStepLimit is an injected setting with a default).
func (i *Interpreter) stepLimit() int {
	if i.patternStepLimit > 0 {
		return i.patternStepLimit
	}
	return pattern.MaxSteps
}

// patternStepError wraps a pattern.ErrStepLimitExceeded as the runtime
// error a `try ... when error` handler can catch (spec §8 "pattern step
// bound": "it raises a step-limit error rather than hanging").
func (i *Interpreter) patternStepError(pos lexer.Position, err error) error {
	if err == pattern.ErrStepLimitExceeded {
		return newRuntimeError(pos, ErrPatternDepth, "pattern exceeded its step limit")
	}
	return err
}

func patternValue(v ast.Expression, env *Environment, i *Interpreter, pos lexer.Position) (*pattern.Program, error) {
	val, err := i.eval(v, env)
	if err != nil {
		return nil, err
	}
	p, ok := val.(*Pattern)
	if !ok {
		return nil, newRuntimeError(pos, ErrTypeError, "expected a Pattern, got %s", val.Type())
	}
	return p.Prog, nil
}

func (i *Interpreter) evalMatches(v *ast.MatchesExpression, env *Environment) (Value, error) {
	text, err := i.eval(v.Text, env)
	if err != nil {
		return nil, err
	}
	t, ok := text.(Text)
	if !ok {
		return nil, newRuntimeError(v.Pos(), ErrTypeError, "matches requires Text on the left, got %s", text.Type())
	}
	prog, err := patternValue(v.Pattern, env, i, v.Pos())
	if err != nil {
		return nil, err
	}
	ok, err = pattern.Matches(prog, string(t), i.stepLimit())
	if err != nil {
		return nil, i.patternStepError(v.Pos(), err)
	}
	return Boolean(ok), nil
}

func (i *Interpreter) evalFind(v *ast.FindExpression, env *Environment) (Value, error) {
	text, err := i.eval(v.Text, env)
	if err != nil {
		return nil, err
	}
	t, ok := text.(Text)
	if !ok {
		return nil, newRuntimeError(v.Pos(), ErrTypeError, "find requires Text, got %s", text.Type())
	}
	prog, err := patternValue(v.Pattern, env, i, v.Pos())
	if err != nil {
		return nil, err
	}
	caps, ok, err := pattern.Find(prog, string(t), i.stepLimit())
	if err != nil {
		return nil, i.patternStepError(v.Pos(), err)
	}
	if !ok {
		return NullValue, nil
	}
	return MapFromCaptures(caps, prog.CaptureNames), nil
}

func (i *Interpreter) evalReplace(v *ast.ReplaceExpression, env *Environment) (Value, error) {
	text, err := i.eval(v.Text, env)
	if err != nil {
		return nil, err
	}
	t, ok := text.(Text)
	if !ok {
		return nil, newRuntimeError(v.Pos(), ErrTypeError, "replace requires Text, got %s", text.Type())
	}
	repl, err := i.eval(v.Replacement, env)
	if err != nil {
		return nil, err
	}
	prog, err := patternValue(v.Pattern, env, i, v.Pos())
	if err != nil {
		return nil, err
	}
	result, err := pattern.Replace(prog, string(t), repl.String(), i.stepLimit())
	if err != nil {
		return nil, i.patternStepError(v.Pos(), err)
	}
	return Text(result), nil
}

func (i *Interpreter) evalSplit(v *ast.SplitExpression, env *Environment) (Value, error) {
	text, err := i.eval(v.Text, env)
	if err != nil {
		return nil, err
	}
	t, ok := text.(Text)
	if !ok {
		return nil, newRuntimeError(v.Pos(), ErrTypeError, "split requires Text, got %s", text.Type())
	}
	prog, err := patternValue(v.Pattern, env, i, v.Pos())
	if err != nil {
		return nil, err
	}
	parts, err := pattern.Split(prog, string(t), i.stepLimit())
	if err != nil {
		return nil, i.patternStepError(v.Pos(), err)
	}
	elems := make([]Value, len(parts))
	for idx, p := range parts {
		elems[idx] = Text(p)
	}
	return NewList(elems), nil
}
