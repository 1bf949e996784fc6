package interp

import (
	"fmt"

	"github.com/wfl-lang/wfl/internal/ast"
)

// exec executes one statement, returning the control-flow signal it
// produces (spec §4.6's execution contract, statement by statement).
func (i *Interpreter) exec(stmt ast.Statement, env *Environment) (signal, error) {
	switch v := stmt.(type) {
	case *ast.StoreStatement:
		val, err := i.eval(v.Value, env)
		if err != nil {
			return normalSignal, err
		}
		env.Define(v.Name, val)
		i.tracef("store %s = %s", v.Name, val.String())
		return normalSignal, nil

	case *ast.ChangeStatement:
		val, err := i.eval(v.Value, env)
		if err != nil {
			return normalSignal, err
		}
		if !env.Set(v.Name, val) {
			return normalSignal, newRuntimeError(v.Pos(), ErrUndefinedName, "cannot change %q: it was never stored", v.Name)
		}
		i.tracef("change %s = %s", v.Name, val.String())
		return normalSignal, nil

	case *ast.DisplayStatement:
		parts := make([]string, len(v.Values))
		for idx, expr := range v.Values {
			val, err := i.eval(expr, env)
			if err != nil {
				return normalSignal, err
			}
			parts[idx] = val.String()
		}
		for idx, p := range parts {
			if idx > 0 {
				fmt.Fprint(i.out, " ")
			}
			fmt.Fprint(i.out, p)
		}
		fmt.Fprintln(i.out)
		return normalSignal, nil

	case *ast.BlockStatement:
		return i.execBlock(v.Statements, env)

	case *ast.ConditionalStatement:
		cond, err := i.eval(v.Condition, env)
		if err != nil {
			return normalSignal, err
		}
		if Truthy(cond) {
			return i.execBlock(v.Then, env)
		}
		if v.Else != nil {
			return i.execBlock(v.Else, env)
		}
		return normalSignal, nil

	case *ast.CountLoopStatement:
		return i.execCountLoop(v, env)

	case *ast.ForEachStatement:
		return i.execForEach(v, env)

	case *ast.WhileLoopStatement:
		return i.execWhileLoop(v, env)

	case *ast.ForeverLoopStatement:
		return i.execForever(v, env)

	case *ast.BreakStatement:
		return signal{kind: SigBreak}, nil

	case *ast.ContinueStatement:
		return signal{kind: SigContinue}, nil

	case *ast.ExitStatement:
		return signal{kind: SigExit}, nil

	case *ast.ReturnStatement:
		if v.Value == nil {
			return returnSignal(NullValue), nil
		}
		val, err := i.eval(v.Value, env)
		if err != nil {
			return normalSignal, err
		}
		return returnSignal(val), nil

	case *ast.TryStatement:
		return i.execTry(v, env)

	case *ast.ActionDefinition:
		env.Define(v.Name, &Function{Def: v, Closure: env})
		return normalSignal, nil

	case *ast.ContainerDefinition:
		i.containers[v.Name] = v
		return normalSignal, nil

	case *ast.PatternDefStatement:
		i.patterns[v.Name] = v
		env.Define(v.Name, &Pattern{Name: v.Name, Prog: mustCompile(v.Pattern)})
		return normalSignal, nil

	case *ast.ImportStatement:
		// Imports are inlined by internal/resolver before the interpreter
		// ever sees the program; one surviving here is simply skipped.
		return normalSignal, nil

	case *ast.CreateInstanceStatement:
		def, ok := i.containers[v.TypeName]
		if !ok {
			return normalSignal, newRuntimeError(v.Pos(), ErrTypeError, "unknown container type %q", v.TypeName)
		}
		args, err := i.evalArgs(v.Args, env)
		if err != nil {
			return normalSignal, err
		}
		inst, err := i.instantiate(def, args, v.Inits, env)
		if err != nil {
			return normalSignal, err
		}
		env.Define(v.Name, inst)
		return normalSignal, nil

	case *ast.OpenFileStatement:
		return normalSignal, i.execOpenFile(v, env)

	case *ast.CloseStatement:
		return normalSignal, i.execClose(v, env)

	case *ast.WriteStatement:
		return normalSignal, i.execWrite(v, env)

	case *ast.ListenStatement:
		return normalSignal, i.execListen(v, env)

	case *ast.WaitForRequestStatement:
		return normalSignal, i.execWaitForRequest(v, env)

	case *ast.RespondStatement:
		return normalSignal, i.execRespond(v, env)

	case *ast.ExpressionStatement:
		if v.Expr != nil {
			_, err := i.eval(v.Expr, env)
			return normalSignal, err
		}
		return normalSignal, nil
	}
	return normalSignal, fmt.Errorf("interp: unhandled statement %T", stmt)
}

// absorbExit decides what a loop does with an exit signal raised somewhere
// in its body: the outermost loop currently running in this function
// activation converts it to normal completion, so statements following the
// loop nest still run; any loop with one more enclosing it re-propagates
// the signal unchanged so that loop terminates too (spec §8: "exit/exit
// loop breaks all loops in the current function").
func (i *Interpreter) absorbExit() signal {
	if i.loopDepth <= 1 {
		return normalSignal
	}
	return signal{kind: SigExit}
}

func (i *Interpreter) evalArgs(exprs []ast.Expression, env *Environment) ([]Value, error) {
	args := make([]Value, len(exprs))
	for idx, e := range exprs {
		v, err := i.eval(e, env)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}
	return args, nil
}

// execCountLoop implements `count from A to B by S [down] [as name]`
// (spec §4.6).
func (i *Interpreter) execCountLoop(v *ast.CountLoopStatement, env *Environment) (signal, error) {
	from, err := i.eval(v.From, env)
	if err != nil {
		return normalSignal, err
	}
	to, err := i.eval(v.To, env)
	if err != nil {
		return normalSignal, err
	}
	step := 1.0
	if v.Step != nil {
		s, err := i.eval(v.Step, env)
		if err != nil {
			return normalSignal, err
		}
		n, ok := s.(Number)
		if !ok {
			return normalSignal, newRuntimeError(v.Pos(), ErrTypeError, "count loop step must be a Number")
		}
		step = float64(n)
	}
	fromN, ok1 := from.(Number)
	toN, ok2 := to.(Number)
	if !ok1 || !ok2 {
		return normalSignal, newRuntimeError(v.Pos(), ErrTypeError, "count loop bounds must be Numbers")
	}
	loopVar := v.LoopVar
	if loopVar == "" {
		loopVar = "count"
	}
	if v.Down && step > 0 {
		step = -step
	}
	if !v.Down && step < 0 {
		step = -step
	}
	i.loopDepth++
	defer func() { i.loopDepth-- }()
	for cur := float64(fromN); (v.Down && cur >= float64(toN)) || (!v.Down && cur <= float64(toN)); cur += step {
		if err := i.checkDeadline(v.Pos()); err != nil {
			return normalSignal, err
		}
		scope := NewEnclosedEnvironment(env)
		scope.Define(loopVar, Number(cur))
		sig, err := i.execStatements(v.Body, scope)
		if err != nil {
			return normalSignal, err
		}
		switch sig.kind {
		case SigBreak:
			return normalSignal, nil
		case SigContinue:
			continue
		case SigExit:
			return i.absorbExit(), nil
		case SigReturn:
			return sig, nil
		}
	}
	return normalSignal, nil
}

// execForEach implements `for each x in xs [reversed] [at index]`.
func (i *Interpreter) execForEach(v *ast.ForEachStatement, env *Environment) (signal, error) {
	coll, err := i.eval(v.Collection, env)
	if err != nil {
		return normalSignal, err
	}
	type entry struct {
		index int
		elem  Value
	}
	var entries []entry
	switch c := coll.(type) {
	case *List:
		for idx, e := range c.Elements {
			entries = append(entries, entry{idx + 1, e})
		}
	case *Map:
		for idx, k := range c.Keys() {
			val, _ := c.Get(k)
			pair := NewMap()
			pair.Set("key", Text(k))
			pair.Set("value", val)
			entries = append(entries, entry{idx + 1, pair})
		}
	default:
		return normalSignal, newRuntimeError(v.Pos(), ErrTypeError, "for each requires a List or Map, got %s", coll.Type())
	}
	if v.Reversed {
		for l, r := 0, len(entries)-1; l < r; l, r = l+1, r-1 {
			entries[l], entries[r] = entries[r], entries[l]
		}
	}
	i.loopDepth++
	defer func() { i.loopDepth-- }()
	for _, e := range entries {
		if err := i.checkDeadline(v.Pos()); err != nil {
			return normalSignal, err
		}
		scope := NewEnclosedEnvironment(env)
		scope.Define(v.ElemVar, e.elem)
		if v.IndexVar != "" {
			scope.Define(v.IndexVar, Number(e.index))
		}
		sig, err := i.execStatements(v.Body, scope)
		if err != nil {
			return normalSignal, err
		}
		switch sig.kind {
		case SigBreak:
			return normalSignal, nil
		case SigContinue:
			continue
		case SigExit:
			return i.absorbExit(), nil
		case SigReturn:
			return sig, nil
		}
	}
	return normalSignal, nil
}

// execWhileLoop implements `repeat while <cond>` / `repeat until <cond>`.
func (i *Interpreter) execWhileLoop(v *ast.WhileLoopStatement, env *Environment) (signal, error) {
	i.loopDepth++
	defer func() { i.loopDepth-- }()
	for {
		if err := i.checkDeadline(v.Pos()); err != nil {
			return normalSignal, err
		}
		cond, err := i.eval(v.Condition, env)
		if err != nil {
			return normalSignal, err
		}
		truth := Truthy(cond)
		if v.Until {
			truth = !truth
		}
		if !truth {
			return normalSignal, nil
		}
		sig, err := i.execBlock(v.Body, env)
		if err != nil {
			return normalSignal, err
		}
		switch sig.kind {
		case SigBreak:
			return normalSignal, nil
		case SigContinue:
			continue
		case SigExit:
			return i.absorbExit(), nil
		case SigReturn:
			return sig, nil
		}
	}
}

// execForever implements `repeat forever` and `main loop`, the latter
// disabling the execution-timeout check for its entire duration (spec §5).
func (i *Interpreter) execForever(v *ast.ForeverLoopStatement, env *Environment) (signal, error) {
	if v.IsMainLoop {
		i.mainLoopDepth++
		defer func() { i.mainLoopDepth-- }()
	}
	i.loopDepth++
	defer func() { i.loopDepth-- }()
	for {
		if err := i.checkDeadline(v.Pos()); err != nil {
			return normalSignal, err
		}
		sig, err := i.execBlock(v.Body, env)
		if err != nil {
			return normalSignal, err
		}
		switch sig.kind {
		case SigBreak:
			return normalSignal, nil
		case SigContinue:
			continue
		case SigExit:
			return i.absorbExit(), nil
		case SigReturn:
			return sig, nil
		}
	}
}

// execTry implements `try: ... when error [as name]: ...` / `try: ...
// catch: ...`: a RuntimeError raised anywhere in Body is recovered and
// its text bound to ErrorVar (or to `error` if unnamed) before Handler runs
// (spec §4.6, §7 "the handler binds the error description").
func (i *Interpreter) execTry(v *ast.TryStatement, env *Environment) (signal, error) {
	sig, err := i.execBlock(v.Body, env)
	if err == nil {
		return sig, nil
	}
	rerr, ok := err.(*RuntimeError)
	if !ok {
		return normalSignal, err
	}
	scope := NewEnclosedEnvironment(env)
	if v.ErrorVar != "" {
		scope.Define(v.ErrorVar, rerr.Text())
	} else {
		scope.Define("error", rerr.Text())
	}
	return i.execStatements(v.Handler, scope)
}
