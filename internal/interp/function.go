package interp

import "github.com/wfl-lang/wfl/internal/ast"

// Function is a user-defined action closed over the environment it was
// defined in (spec §4.6 "create a new child scope of the action's captured
// environment").
type Function struct {
	Def     *ast.ActionDefinition
	Closure *Environment
	// Self is non-nil when this Function is a bound container method; the
	// interpreter binds Self's properties into the call's activation scope
	// and writes back any that changed once the body returns (spec §4.6
	// "Container method call").
	Self *ContainerInstance
}

func (f *Function) Type() string   { return "Function" }
func (f *Function) String() string { return "action " + f.Def.Name }

// NativeFunction is a builtin implemented in Go. Arity -1 means variadic.
type NativeFunction struct {
	Name  string
	Arity int
	Fn    func(i *Interpreter, args []Value) (Value, error)
}

func (n *NativeFunction) Type() string   { return "Function" }
func (n *NativeFunction) String() string { return "native action " + n.Name }
