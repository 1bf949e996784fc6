// Package types implements the static type checker that runs after
// semantic analysis and before the interpreter (spec §4.5): a closed set of
// types, bidirectional inference, flow-sensitive optional narrowing, and
// operator typing rules enforced as structured diagnostics.
package types

import "fmt"

// Type is any member of the closed static type set. Unlike the teacher's
// `internal/types.Type` (which models Pascal's open-ended array/record/
// class/subrange hierarchy), this set is fixed and small, so Type is a
// closed interface implemented only by the kinds below rather than an
// extensible registry.
type Type interface {
	String() string
	Equals(other Type) bool
}

// Primitive is a type with no parameters: Text, Number, Boolean, Null, Any,
// Pattern, FileHandle, HttpServerHandle, HttpRequestHandle.
type Primitive struct {
	name string
}

func (p Primitive) String() string     { return p.name }
func (p Primitive) Equals(o Type) bool { q, ok := o.(Primitive); return ok && q.name == p.name }

var (
	Text              Type = Primitive{"Text"}
	Number            Type = Primitive{"Number"}
	Boolean           Type = Primitive{"Boolean"}
	Null              Type = Primitive{"Null"}
	Any               Type = Primitive{"Any"}
	Pattern           Type = Primitive{"Pattern"}
	FileHandle        Type = Primitive{"FileHandle"}
	HttpServerHandle  Type = Primitive{"HttpServerHandle"}
	HttpRequestHandle Type = Primitive{"HttpRequestHandle"}
)

// ListType is List<Elem>.
type ListType struct{ Elem Type }

func (l ListType) String() string { return fmt.Sprintf("List<%s>", l.Elem.String()) }
func (l ListType) Equals(o Type) bool {
	q, ok := o.(ListType)
	return ok && typesEqual(l.Elem, q.Elem)
}

// MapType is Map<Text, Elem>; the key type is fixed to Text (spec §3).
type MapType struct{ Elem Type }

func (m MapType) String() string { return fmt.Sprintf("Map<Text, %s>", m.Elem.String()) }
func (m MapType) Equals(o Type) bool {
	q, ok := o.(MapType)
	return ok && typesEqual(m.Elem, q.Elem)
}

// OptionalType is Optional<Elem>, the type of a pattern capture before it
// has been narrowed against `is not nothing`.
type OptionalType struct{ Elem Type }

func (opt OptionalType) String() string { return fmt.Sprintf("Optional<%s>", opt.Elem.String()) }
func (opt OptionalType) Equals(o Type) bool {
	q, ok := o.(OptionalType)
	return ok && typesEqual(opt.Elem, q.Elem)
}

// FunctionType is Function(param-types -> return-type).
type FunctionType struct {
	Params []Type
	Return Type
}

func (f FunctionType) String() string {
	out := "Function("
	for i, p := range f.Params {
		if i > 0 {
			out += ", "
		}
		out += p.String()
	}
	out += " -> "
	if f.Return == nil {
		out += "Null"
	} else {
		out += f.Return.String()
	}
	return out + ")"
}

func (f FunctionType) Equals(o Type) bool {
	q, ok := o.(FunctionType)
	if !ok || len(f.Params) != len(q.Params) {
		return false
	}
	for i := range f.Params {
		if !typesEqual(f.Params[i], q.Params[i]) {
			return false
		}
	}
	return typesEqual(f.Return, q.Return)
}

// ContainerType is ContainerType(name): the definition itself, bound to a
// container's name when it is referenced as a value (e.g. the callee of
// `create new`).
type ContainerType struct{ Name string }

func (c ContainerType) String() string     { return fmt.Sprintf("ContainerType(%s)", c.Name) }
func (c ContainerType) Equals(o Type) bool { q, ok := o.(ContainerType); return ok && q.Name == c.Name }

// ContainerInstance is ContainerInstance(name): the type of a variable
// bound by `create new <Name> ... as <var>`.
type ContainerInstance struct{ Name string }

func (c ContainerInstance) String() string { return fmt.Sprintf("ContainerInstance(%s)", c.Name) }
func (c ContainerInstance) Equals(o Type) bool {
	q, ok := o.(ContainerInstance)
	return ok && q.Name == c.Name
}

// typesEqual treats a nil Type (unknown/uninferred) and Any as compatible
// with anything, so a partially-inferred expression doesn't cascade into a
// wall of spurious mismatches once one sub-expression's type is unknown.
func typesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return true
	}
	if a == Any || b == Any {
		return true
	}
	return a.Equals(b)
}

// IsNumber, IsText, IsBoolean report whether t is exactly that primitive or
// Any (which silences the check, spec §4.5).
func IsNumber(t Type) bool  { return t == nil || t == Any || t.Equals(Number) }
func IsText(t Type) bool    { return t == nil || t == Any || t.Equals(Text) }
func IsBoolean(t Type) bool { return t == nil || t == Any || t.Equals(Boolean) }
