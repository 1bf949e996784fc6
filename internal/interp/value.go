// Package interp implements the tree-walking evaluator that runs after
// module resolution, semantic analysis, and type checking have all
// accepted a program (spec §4.6): it walks the flattened AST directly,
// evaluating expressions to Value and executing statements for their
// effect and control-flow signal.
package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wfl-lang/wfl/internal/pattern"
)

// Value is implemented by every runtime value. Type returns the closed
// type-checker name for the value (spec §4.5's type set), String renders
// the value in WFL's display/concatenation form (spec §4.6 "Display/render
// conventions"). Mirrors the teacher's runtime.Value split into a minimal
// required interface plus optional capability interfaces, rather than one
// fat interface every value type must implement in full.
type Value interface {
	Type() string
	String() string
}

// NumericValue is implemented by values arithmetic can operate on.
type NumericValue interface {
	Value
	Float() float64
}

// ComparableValue is implemented by values `is`/`is not` can compare.
type ComparableValue interface {
	Value
	Equals(other Value) bool
}

// OrderableValue is implemented by values the ordered comparisons (greater
// than, less than, at least, at most, between) can order.
type OrderableValue interface {
	Value
	CompareTo(other Value) (int, bool)
}

// ReferenceValue marks values that are shared by reference rather than
// copied on assignment (spec §5 "Shared resources": Lists, Maps, container
// instances, and handles all alias rather than clone).
type ReferenceValue interface {
	Value
	referenceValue()
}

// Number is a double-precision numeric value.
type Number float64

func (n Number) Type() string  { return "Number" }
func (n Number) Float() float64 { return float64(n) }
func (n Number) String() string {
	// Spec §4.6: rendered without trailing zeros.
	s := strconv.FormatFloat(float64(n), 'f', -1, 64)
	return s
}
func (n Number) Equals(other Value) bool {
	o, ok := other.(Number)
	return ok && o == n
}
func (n Number) CompareTo(other Value) (int, bool) {
	o, ok := other.(Number)
	if !ok {
		return 0, false
	}
	switch {
	case n < o:
		return -1, true
	case n > o:
		return 1, true
	default:
		return 0, true
	}
}

// Text is a string value.
type Text string

func (t Text) Type() string   { return "Text" }
func (t Text) String() string { return string(t) }
func (t Text) Equals(other Value) bool {
	o, ok := other.(Text)
	return ok && o == t
}
func (t Text) CompareTo(other Value) (int, bool) {
	o, ok := other.(Text)
	if !ok {
		return 0, false
	}
	return strings.Compare(string(t), string(o)), true
}

// Boolean is a yes/no value.
type Boolean bool

func (b Boolean) Type() string { return "Boolean" }
func (b Boolean) String() string {
	if b {
		return "yes"
	}
	return "no"
}
func (b Boolean) Equals(other Value) bool {
	o, ok := other.(Boolean)
	return ok && o == b
}

// Null is the single `nothing` value.
type Null struct{}

func (Null) Type() string   { return "Null" }
func (Null) String() string { return "nothing" }
func (Null) Equals(other Value) bool {
	_, ok := other.(Null)
	return ok
}

// NullValue is the shared Null instance; comparisons use it directly since
// Null carries no state.
var NullValue Value = Null{}

// List is an ordered, reference-shared sequence (spec §5 "Lists and maps
// are likewise reference-shared"): assignment and parameter passing copy
// the pointer, not the backing slice.
type List struct {
	Elements []Value
}

func NewList(elems []Value) *List { return &List{Elements: elems} }

func (l *List) Type() string { return "List" }
func (l *List) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = displayInner(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (*List) referenceValue() {}

// Map is an insertion-ordered, reference-shared Text-keyed dictionary.
type Map struct {
	keys   []string
	values map[string]Value
}

func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

func (m *Map) Type() string { return "Map" }
func (m *Map) String() string {
	parts := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, displayInner(m.values[k])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (*Map) referenceValue() {}

// Get reports the value stored at key and whether it is present.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores value at key, appending key to the insertion order on first
// write and leaving the order unchanged on overwrite.
func (m *Map) Set(key string, value Value) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Keys returns the map's keys in insertion order.
func (m *Map) Keys() []string { return append([]string(nil), m.keys...) }

// MapFromCaptures converts a pattern.Captures result into the
// Map{match, <captures...>} shape `find` returns (spec §4.7). A capture
// name absent from caps (an un-taken alternation branch) is bound to
// Null, not omitted, so `result.name` always resolves rather than
// erroring at member-access time.
func MapFromCaptures(caps pattern.Captures, names []string) *Map {
	m := NewMap()
	m.Set("match", Text(caps["match"]))
	for _, name := range names {
		if v, ok := caps[name]; ok {
			m.Set(name, Text(v))
		} else {
			m.Set(name, NullValue)
		}
	}
	return m
}

// Pattern wraps a compiled pattern program as a first-class value, bound by
// `create pattern <name>: ... end pattern`.
type Pattern struct {
	Name string
	Prog *pattern.Program
}

func (p *Pattern) Type() string   { return "Pattern" }
func (p *Pattern) String() string { return "pattern " + p.Name }

// displayInner renders an element nested inside a List/Map display: Text
// elements keep their bare form (no quoting), matching the teacher's
// "display recurses without re-quoting" convention for aggregate values.
func displayInner(v Value) string {
	if v == nil {
		return "nothing"
	}
	return v.String()
}

// Truthy reports whether v satisfies a Boolean-required position. The type
// checker is expected to have already rejected non-Boolean conditions
// (spec §4.5); this is the interpreter's last-resort coercion should a
// value slip through untyped (e.g. `Any`-annotated code).
func Truthy(v Value) bool {
	switch b := v.(type) {
	case Boolean:
		return bool(b)
	case Null:
		return false
	case Number:
		return b != 0
	default:
		return v != nil
	}
}
