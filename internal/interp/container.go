package interp

import "github.com/wfl-lang/wfl/internal/ast"

// ContainerInstance is a live object created by `create new <Type> ...`
// (spec §3, §4.6). Properties are reference-shared (spec §5: "Containers
// are shared by reference: two variables bound to the same instance
// observe each other's mutations"), so ContainerInstance is always handled
// through a pointer, never copied.
type ContainerInstance struct {
	Def   *ast.ContainerDefinition
	Props map[string]Value
}

func (c *ContainerInstance) Type() string   { return c.Def.Name }
func (c *ContainerInstance) String() string { return "a " + c.Def.Name }
func (*ContainerInstance) referenceValue()  {}

// findAction walks the container's `extends` chain looking for an action
// named name, mirroring the type checker's allProperties/resolveProperty
// inheritance walk (internal/types.checker.go) but for actions.
func (i *Interpreter) findAction(def *ast.ContainerDefinition, name string) (*ast.ActionDefinition, *ast.ContainerDefinition) {
	seen := map[string]bool{}
	for def != nil && !seen[def.Name] {
		seen[def.Name] = true
		for _, act := range def.Actions {
			if act.Name == name {
				return act, def
			}
		}
		if def.Parent == "" {
			break
		}
		def = i.containers[def.Parent]
	}
	return nil, nil
}

// allContainerProperties collects a container's own properties plus every
// property contributed by its `extends` chain, own declarations last so a
// child's redeclaration of an inherited property name wins.
func (i *Interpreter) allContainerProperties(def *ast.ContainerDefinition) []*ast.PropertyDecl {
	var chain []*ast.ContainerDefinition
	seen := map[string]bool{}
	for def != nil && !seen[def.Name] {
		seen[def.Name] = true
		chain = append(chain, def)
		if def.Parent == "" {
			break
		}
		def = i.containers[def.Parent]
	}
	var props []*ast.PropertyDecl
	for k := len(chain) - 1; k >= 0; k-- {
		props = append(props, chain[k].Properties...)
	}
	return props
}

// instantiate allocates a new instance of def, initializes property slots
// from their schema defaults, calls `initialize` with args if the
// container defines one, and finally applies the trailing `: prop is
// value ...` block (spec §4.6 "Container instantiation").
func (i *Interpreter) instantiate(def *ast.ContainerDefinition, args []Value, inits []ast.PropertyInit, env *Environment) (*ContainerInstance, error) {
	inst := &ContainerInstance{Def: def, Props: make(map[string]Value)}
	for _, prop := range i.allContainerProperties(def) {
		if prop.Default != nil {
			v, err := i.eval(prop.Default, env)
			if err != nil {
				return nil, err
			}
			inst.Props[prop.Name] = v
		} else {
			inst.Props[prop.Name] = NullValue
		}
	}
	if ctor, owner := i.findAction(def, "initialize"); ctor != nil {
		_, err := i.callMethod(ctor, owner, inst, args)
		if err != nil {
			return nil, err
		}
	}
	for _, pi := range inits {
		v, err := i.eval(pi.Value, env)
		if err != nil {
			return nil, err
		}
		inst.Props[pi.Name] = v
	}
	return inst, nil
}

// callMethod binds self's properties into a fresh activation scope,
// executes the method body, and writes back any property whose value
// changed from the bound snapshot (spec §4.6 "Container method call": "the
// fix described in the framework completion notes ... property mutation
// inside an action persists"). The snapshot-and-compare approach is the
// spec's own prescribed mechanism (spec §5 "Mutation discipline") so that
// a re-entrant call through a callback does not clobber an outer call's
// pending writes: each call only writes back the properties *it* itself
// changed, detected against the snapshot it took on entry.
func (i *Interpreter) callMethod(act *ast.ActionDefinition, owner *ast.ContainerDefinition, self *ContainerInstance, args []Value) (Value, error) {
	scope := NewEnclosedEnvironment(i.globals)
	snapshot := make(map[string]Value, len(self.Props))
	for name, v := range self.Props {
		snapshot[name] = v
		scope.Define(name, v)
	}
	if err := i.bindParams(scope, scope, act, args, act.Pos()); err != nil {
		return nil, err
	}
	savedLoopDepth := i.loopDepth
	i.loopDepth = 0
	sig, err := i.execBlock(act.Body, scope)
	i.loopDepth = savedLoopDepth
	if err != nil {
		return nil, err
	}
	for name := range self.Props {
		if current, ok := scope.GetLocal(name); ok && !sameValue(current, snapshot[name]) {
			self.Props[name] = current
		}
	}
	if sig.kind == SigReturn {
		return sig.value, nil
	}
	return NullValue, nil
}

// sameValue is a cheap identity/equality check used only to decide whether
// a property slot needs writing back; it never needs to be a full
// deep-equality, since reference types (List/Map/ContainerInstance) always
// compare unequal here unless the same pointer is re-bound, which is
// harmless (a redundant write-back of an unchanged reference is a no-op).
func sameValue(a, b Value) bool {
	if cmp, ok := a.(ComparableValue); ok {
		if _, bIsSame := b.(ComparableValue); bIsSame {
			return cmp.Equals(b)
		}
	}
	return a == b
}
