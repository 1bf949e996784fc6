package interp

import (
	"strings"

	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/lexer"
)

// evalBinary evaluates a BinaryExpression, runtime-enforcing the same
// operator contract internal/types.checkBinary enforces statically (spec
// §4.5/§4.6): by the time the interpreter runs, the type checker has
// already rejected ill-typed operand combinations, so these type
// assertions only fail for `Any`-annotated code that slipped past
// checking, and fail as ordinary RuntimeErrors rather than panics.
func (i *Interpreter) evalBinary(b *ast.BinaryExpression, env *Environment) (Value, error) {
	// and/or short-circuit, so the right operand's side effects (a call, a
	// suspension point) don't run unless needed.
	if b.Operator == "and" || b.Operator == "or" {
		left, err := i.eval(b.Left, env)
		if err != nil {
			return nil, err
		}
		lb, ok := left.(Boolean)
		if !ok {
			return nil, newRuntimeError(b.Pos(), ErrTypeError, "%s requires Boolean operands, got %s", b.Operator, left.Type())
		}
		if b.Operator == "and" && !bool(lb) {
			return Boolean(false), nil
		}
		if b.Operator == "or" && bool(lb) {
			return Boolean(true), nil
		}
		right, err := i.eval(b.Right, env)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(Boolean)
		if !ok {
			return nil, newRuntimeError(b.Pos(), ErrTypeError, "%s requires Boolean operands, got %s", b.Operator, right.Type())
		}
		return rb, nil
	}

	left, err := i.eval(b.Left, env)
	if err != nil {
		return nil, err
	}

	if b.Operator == "with" {
		right, err := i.eval(b.Right, env)
		if err != nil {
			return nil, err
		}
		return Text(left.String() + right.String()), nil
	}

	switch b.Operator {
	case "plus", "minus", "times", "divided", "modulo":
		right, err := i.eval(b.Right, env)
		if err != nil {
			return nil, err
		}
		ln, ok1 := left.(Number)
		rn, ok2 := right.(Number)
		if !ok1 || !ok2 {
			return nil, newRuntimeError(b.Pos(), ErrTypeError, "%s requires Number operands, got %s and %s", b.Operator, left.Type(), right.Type())
		}
		return evalArithmetic(b, ln, rn)

	case "equals", "not_equals":
		right, err := i.eval(b.Right, env)
		if err != nil {
			return nil, err
		}
		eq := valuesEqual(left, right)
		if b.Operator == "not_equals" {
			return Boolean(!eq), nil
		}
		return Boolean(eq), nil

	case "greater_than", "less_than", "at_least", "at_most":
		right, err := i.eval(b.Right, env)
		if err != nil {
			return nil, err
		}
		return evalOrdered(b, left, right)

	case "between":
		bounds, ok := b.Right.(*ast.ListLiteral)
		if !ok || len(bounds.Elements) != 2 {
			return nil, newRuntimeError(b.Pos(), ErrTypeError, "between requires two bounds")
		}
		low, err := i.eval(bounds.Elements[0], env)
		if err != nil {
			return nil, err
		}
		high, err := i.eval(bounds.Elements[1], env)
		if err != nil {
			return nil, err
		}
		geLow, err := evalOrderedOp(b.Pos(), "at_least", left, low)
		if err != nil {
			return nil, err
		}
		leHigh, err := evalOrderedOp(b.Pos(), "at_most", left, high)
		if err != nil {
			return nil, err
		}
		return Boolean(bool(geLow.(Boolean)) && bool(leHigh.(Boolean))), nil

	case "contains", "starts_with", "ends_with":
		right, err := i.eval(b.Right, env)
		if err != nil {
			return nil, err
		}
		return evalContainment(b, left, right)

	case "in", "not_in":
		right, err := i.eval(b.Right, env)
		if err != nil {
			return nil, err
		}
		found, err := evalMembership(b, left, right)
		if err != nil {
			return nil, err
		}
		if b.Operator == "not_in" {
			return Boolean(!bool(found.(Boolean))), nil
		}
		return found, nil
	}
	return nil, newRuntimeError(b.Pos(), ErrTypeError, "unknown operator %q", b.Operator)
}

func evalArithmetic(b *ast.BinaryExpression, l, r Number) (Value, error) {
	switch b.Operator {
	case "plus":
		return l + r, nil
	case "minus":
		return l - r, nil
	case "times":
		return l * r, nil
	case "divided":
		if r == 0 {
			return nil, newRuntimeError(b.Pos(), ErrDivisionByZero, "division by zero")
		}
		return l / r, nil
	case "modulo":
		if r == 0 {
			return nil, newRuntimeError(b.Pos(), ErrDivisionByZero, "division by zero")
		}
		li, ri := int64(l), int64(r)
		return Number(li % ri), nil
	}
	return nil, newRuntimeError(b.Pos(), ErrTypeError, "unknown arithmetic operator %q", b.Operator)
}

func valuesEqual(l, r Value) bool {
	if _, lNull := l.(Null); lNull {
		_, rNull := r.(Null)
		return rNull
	}
	if _, rNull := r.(Null); rNull {
		return false
	}
	cmp, ok := l.(ComparableValue)
	if !ok {
		return false
	}
	return cmp.Equals(r)
}

func evalOrdered(b *ast.BinaryExpression, l, r Value) (Value, error) {
	return evalOrderedOp(b.Pos(), b.Operator, l, r)
}

// evalOrderedOp orders l and r via OrderableValue.CompareTo (spec §4.5:
// "both Number or both Text (lexicographic)").
func evalOrderedOp(pos lexer.Position, op string, l, r Value) (Value, error) {
	ord, ok := l.(OrderableValue)
	if !ok {
		return nil, newRuntimeError(pos, ErrTypeError, "%s requires two Numbers or two Text values, got %s and %s", op, l.Type(), r.Type())
	}
	cmp, ok := ord.CompareTo(r)
	if !ok {
		return nil, newRuntimeError(pos, ErrTypeError, "%s requires two Numbers or two Text values, got %s and %s", op, l.Type(), r.Type())
	}
	switch op {
	case "greater_than":
		return Boolean(cmp > 0), nil
	case "less_than":
		return Boolean(cmp < 0), nil
	case "at_least":
		return Boolean(cmp >= 0), nil
	case "at_most":
		return Boolean(cmp <= 0), nil
	}
	return nil, newRuntimeError(pos, ErrTypeError, "unknown ordering operator %q", op)
}

// evalContainment implements `contains`/`starts_with`/`ends_with` (spec
// §4.5: "left Text or List, right matching element/substring").
func evalContainment(b *ast.BinaryExpression, l, r Value) (Value, error) {
	switch left := l.(type) {
	case Text:
		rt, ok := r.(Text)
		if !ok {
			return nil, newRuntimeError(b.Pos(), ErrTypeError, "%s on Text requires a Text right operand", b.Operator)
		}
		switch b.Operator {
		case "contains":
			return Boolean(strings.Contains(string(left), string(rt))), nil
		case "starts_with":
			return Boolean(strings.HasPrefix(string(left), string(rt))), nil
		case "ends_with":
			return Boolean(strings.HasSuffix(string(left), string(rt))), nil
		}
	case *List:
		if b.Operator != "contains" {
			return nil, newRuntimeError(b.Pos(), ErrTypeError, "%s is not defined for List", b.Operator)
		}
		for _, elem := range left.Elements {
			if valuesEqual(elem, r) {
				return Boolean(true), nil
			}
		}
		return Boolean(false), nil
	}
	return nil, newRuntimeError(b.Pos(), ErrTypeError, "%s requires a Text or List left operand, got %s", b.Operator, l.Type())
}

// evalMembership implements `in`/`not_in`: spec §4.5 right side is a List,
// Map (key membership), or Text (substring).
func evalMembership(b *ast.BinaryExpression, l, r Value) (Value, error) {
	switch right := r.(type) {
	case *List:
		for _, elem := range right.Elements {
			if valuesEqual(elem, l) {
				return Boolean(true), nil
			}
		}
		return Boolean(false), nil
	case *Map:
		key, ok := l.(Text)
		if !ok {
			return nil, newRuntimeError(b.Pos(), ErrTypeError, "in requires a Text key to look up in a Map")
		}
		_, found := right.Get(string(key))
		return Boolean(found), nil
	case Text:
		lt, ok := l.(Text)
		if !ok {
			return nil, newRuntimeError(b.Pos(), ErrTypeError, "in requires a Text left operand against a Text right operand")
		}
		return Boolean(strings.Contains(string(right), string(lt))), nil
	}
	return nil, newRuntimeError(b.Pos(), ErrTypeError, "%s requires a List, Map, or Text right operand, got %s", b.Operator, r.Type())
}
