package interp

import (
	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/lexer"
)

// bindParams binds args into scope per act's parameter list. For a
// space-separated-parameter action called with exactly one argument, every
// parameter binds to that same value (spec §4.2, §4.6); otherwise
// parameters bind positionally, with missing trailing arguments falling
// back to their declared default, evaluated against defaultsEnv (the
// action's closure, not the new activation scope, matching the analyzer's
// rule that "a default cannot reference a sibling parameter").
func (i *Interpreter) bindParams(scope, defaultsEnv *Environment, act *ast.ActionDefinition, args []Value, pos lexer.Position) error {
	if act.SpaceSeparated && len(args) == 1 && len(act.Params) > 1 {
		for _, p := range act.Params {
			scope.Define(p.Name, args[0])
		}
		return nil
	}
	if len(args) > len(act.Params) {
		return newRuntimeError(pos, ErrArity, "%q takes %d argument(s), got %d", act.Name, len(act.Params), len(args))
	}
	for idx, p := range act.Params {
		if idx < len(args) {
			scope.Define(p.Name, args[idx])
			continue
		}
		if p.Default != nil {
			v, err := i.eval(p.Default, defaultsEnv)
			if err != nil {
				return err
			}
			scope.Define(p.Name, v)
			continue
		}
		return newRuntimeError(pos, ErrArity, "%q is missing required argument %q", act.Name, p.Name)
	}
	return nil
}

// callFunction invokes fn (a user-defined action or native builtin) with
// the given already-evaluated arguments (spec §4.6 "Action calls").
func (i *Interpreter) callFunction(fn Value, args []Value, pos lexer.Position) (Value, error) {
	switch f := fn.(type) {
	case *NativeFunction:
		if f.Arity >= 0 && len(args) != f.Arity {
			return nil, newRuntimeError(pos, ErrArity, "%q takes %d argument(s), got %d", f.Name, f.Arity, len(args))
		}
		return f.Fn(i, args)

	case *Function:
		if f.Self != nil {
			return i.callMethod(f.Def, f.Self.Def, f.Self, args)
		}
		scope := NewEnclosedEnvironment(f.Closure)
		if err := i.bindParams(scope, f.Closure, f.Def, args, pos); err != nil {
			return nil, err
		}
		savedLoopDepth := i.loopDepth
		i.loopDepth = 0
		sig, err := i.execStatements(f.Def.Body, scope)
		i.loopDepth = savedLoopDepth
		if err != nil {
			return nil, err
		}
		if sig.kind == SigReturn {
			return sig.value, nil
		}
		return NullValue, nil

	default:
		return nil, newRuntimeError(pos, ErrTypeError, "%s is not callable", fn.Type())
	}
}

// isZeroArity reports whether fn is a callable the zero-argument auto-call
// rule applies to (spec §4.6 "Zero-argument callables").
func isZeroArity(fn Value) bool {
	switch f := fn.(type) {
	case *NativeFunction:
		return f.Arity == 0
	case *Function:
		return len(f.Def.Params) == 0
	}
	return false
}
