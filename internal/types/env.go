package types

import "github.com/wfl-lang/wfl/internal/ast"

// env is the type checker's own scope chain: a name-to-Type map with an
// outer pointer, the same shape internal/semantic.SymbolTable uses for
// names, kept as a separate small type here rather than shared so that a
// binding can be *narrowed* in place (flow-sensitive optional narrowing,
// spec §4.5) without disturbing the analyzer's own usage bookkeeping.
type env struct {
	vars  map[string]Type
	outer *env
}

func newEnv(outer *env) *env {
	return &env{vars: make(map[string]Type), outer: outer}
}

func (e *env) define(name string, t Type) {
	e.vars[name] = t
}

func (e *env) lookup(name string) (Type, bool) {
	for s := e; s != nil; s = s.outer {
		if t, ok := s.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// narrow rebinds name to t in whichever scope already holds it, or in the
// current scope if it is not found (defensive fallback; every narrowable
// name should already be bound by the time a guard narrows it).
func (e *env) narrow(name string, t Type) {
	for s := e; s != nil; s = s.outer {
		if _, ok := s.vars[name]; ok {
			s.vars[name] = t
			return
		}
	}
	e.vars[name] = t
}

// fromAnnotation converts a parsed `as Type` annotation into the checker's
// internal Type representation. An unrecognized or absent annotation
// resolves to nil, meaning "infer me", not to Any (Any is reserved for the
// explicit `as Any` spelling, which deliberately silences checking).
func fromAnnotation(t *ast.TypeAnnotation) Type {
	if t == nil {
		return nil
	}
	switch t.Name {
	case "Text":
		return Text
	case "Number":
		return Number
	case "Boolean":
		return Boolean
	case "Null":
		return Null
	case "Any":
		return Any
	case "Pattern":
		return Pattern
	case "FileHandle":
		return FileHandle
	case "HttpServerHandle":
		return HttpServerHandle
	case "HttpRequestHandle":
		return HttpRequestHandle
	case "List":
		return ListType{Elem: fromAnnotationOrAny(t.Elem)}
	case "Map":
		return MapType{Elem: fromAnnotationOrAny(t.Elem)}
	case "Optional":
		return OptionalType{Elem: fromAnnotationOrAny(t.Elem)}
	case "ContainerInstance":
		if t.Elem != nil {
			return ContainerInstance{Name: t.Elem.Name}
		}
		return nil
	default:
		// A bare type name that isn't one of the built-ins is a container
		// type reference: `as Counter` means "an instance of Counter".
		return ContainerInstance{Name: t.Name}
	}
}

func fromAnnotationOrAny(t *ast.TypeAnnotation) Type {
	if resolved := fromAnnotation(t); resolved != nil {
		return resolved
	}
	return Any
}
