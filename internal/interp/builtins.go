package interp

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/wfl-lang/wfl/internal/lexer"
)

// registerBuiltins binds the native function set into env. Grounded on the
// teacher's approach of registering Go closures as callable runtime values
// (internal/interp/builtins.go in the teacher repo binds DWScript's RTL the
// same way) rather than special-casing builtin names in the evaluator.
func registerBuiltins(env *Environment) {
	def := func(name string, arity int, fn func(*Interpreter, []Value) (Value, error)) {
		env.Define(name, &NativeFunction{Name: name, Arity: arity, Fn: fn})
	}

	def("random", 0, func(*Interpreter, []Value) (Value, error) {
		return Number(rand.Float64()), nil
	})
	def("now", 0, func(*Interpreter, []Value) (Value, error) {
		return Text(time.Now().Format(time.RFC3339)), nil
	})
	def("length", 1, func(_ *Interpreter, args []Value) (Value, error) {
		switch v := args[0].(type) {
		case Text:
			return Number(len([]rune(string(v)))), nil
		case *List:
			return Number(len(v.Elements)), nil
		case *Map:
			return Number(len(v.Keys())), nil
		default:
			return nil, newRuntimeError(lexer.Position{}, ErrTypeError, "length requires Text, List, or Map, got %s", v.Type())
		}
	})
	def("uppercase", 1, func(_ *Interpreter, args []Value) (Value, error) {
		t, ok := args[0].(Text)
		if !ok {
			return nil, newRuntimeError(lexer.Position{}, ErrTypeError, "uppercase requires Text")
		}
		return Text(strings.ToUpper(string(t))), nil
	})
	def("lowercase", 1, func(_ *Interpreter, args []Value) (Value, error) {
		t, ok := args[0].(Text)
		if !ok {
			return nil, newRuntimeError(lexer.Position{}, ErrTypeError, "lowercase requires Text")
		}
		return Text(strings.ToLower(string(t))), nil
	})
	def("trim", 1, func(_ *Interpreter, args []Value) (Value, error) {
		t, ok := args[0].(Text)
		if !ok {
			return nil, newRuntimeError(lexer.Position{}, ErrTypeError, "trim requires Text")
		}
		return Text(strings.TrimSpace(string(t))), nil
	})
	def("as_number", 1, func(_ *Interpreter, args []Value) (Value, error) {
		t, ok := args[0].(Text)
		if !ok {
			return nil, newRuntimeError(lexer.Position{}, ErrTypeError, "as_number requires Text")
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
		if err != nil {
			return nil, newRuntimeError(lexer.Position{}, ErrTypeError, "%q is not a number", string(t))
		}
		return Number(n), nil
	})
	def("as_text", 1, func(_ *Interpreter, args []Value) (Value, error) {
		return Text(args[0].String()), nil
	})
	def("append", 2, func(_ *Interpreter, args []Value) (Value, error) {
		l, ok := args[0].(*List)
		if !ok {
			return nil, newRuntimeError(lexer.Position{}, ErrTypeError, "append requires a List")
		}
		l.Elements = append(l.Elements, args[1])
		return l, nil
	})
	def("keys", 1, func(_ *Interpreter, args []Value) (Value, error) {
		m, ok := args[0].(*Map)
		if !ok {
			return nil, newRuntimeError(lexer.Position{}, ErrTypeError, "keys requires a Map")
		}
		ks := m.Keys()
		elems := make([]Value, len(ks))
		for idx, k := range ks {
			elems[idx] = Text(k)
		}
		return NewList(elems), nil
	})
}

// bindScriptArgs implements spec §6's script-argument bindings:
// `arg_count`, `args`, `positional_args`, `flag_<name>`. A long `--name
// [value]` or short `-n [value]` flag consumes the next token as its value
// when that token is not itself a flag; otherwise it binds to `yes`.
func bindScriptArgs(env *Environment, rawArgs []string) {
	argVals := make([]Value, len(rawArgs))
	for idx, a := range rawArgs {
		argVals[idx] = Text(a)
	}
	env.Define("arg_count", Number(len(rawArgs)))
	env.Define("args", NewList(argVals))

	var positional []Value
	for idx := 0; idx < len(rawArgs); idx++ {
		a := rawArgs[idx]
		name, isFlag := flagName(a)
		if !isFlag {
			positional = append(positional, Text(a))
			continue
		}
		if idx+1 < len(rawArgs) {
			if _, nextIsFlag := flagName(rawArgs[idx+1]); !nextIsFlag {
				env.Define("flag_"+name, Text(rawArgs[idx+1]))
				idx++
				continue
			}
		}
		env.Define("flag_"+name, Boolean(true))
	}
	env.Define("positional_args", NewList(positional))
}

func flagName(s string) (string, bool) {
	switch {
	case strings.HasPrefix(s, "--"):
		return s[2:], true
	case strings.HasPrefix(s, "-") && len(s) > 1:
		return s[1:], true
	default:
		return "", false
	}
}
