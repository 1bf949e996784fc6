package semantic

import "github.com/wfl-lang/wfl/internal/ast"

// Symbol is one declared name: where it was declared, what type it was
// declared or inferred as, and how many times it has been read since.
// Unlike the teacher's SymbolTable (`_examples/CWBudde-go-dws/internal/
// semantic/symbol_table.go`), there is no overload-set tracking here: WFL
// actions are not overloaded, and names are matched case-sensitively (spec
// §9 resolved), so lookups need no normalization.
type Symbol struct {
	Name     string
	Type     *ast.TypeAnnotation
	Pos      ast.Node // the declaring node, kept for "defining span" diagnostics
	UsedBy   int
	ReadOnly bool
}

// SymbolTable is one lexical scope, chained to its parent via Outer exactly
// like the teacher's `outer *SymbolTable` pointer.
type SymbolTable struct {
	symbols map[string]*Symbol
	Outer   *SymbolTable
}

// NewSymbolTable creates a top-level (global) scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// NewEnclosedSymbolTable creates a scope nested inside outer.
func NewEnclosedSymbolTable(outer *SymbolTable) *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol), Outer: outer}
}

// Define records a new symbol in this scope, overwriting any prior
// definition of the same name in the same scope (shadowing an outer scope's
// binding is legal; redefining within one scope is the caller's business to
// flag as a duplicate-definition diagnostic if desired).
func (st *SymbolTable) Define(name string, typ *ast.TypeAnnotation, declaredAt ast.Node) *Symbol {
	sym := &Symbol{Name: name, Type: typ, Pos: declaredAt}
	st.symbols[name] = sym
	return sym
}

// IsDeclaredInScope reports whether name was declared directly in this
// scope, without walking outward.
func (st *SymbolTable) IsDeclaredInScope(name string) bool {
	_, ok := st.symbols[name]
	return ok
}

// Resolve walks this scope and every enclosing scope outward, returning the
// nearest definition of name.
func (st *SymbolTable) Resolve(name string) (*Symbol, bool) {
	if sym, ok := st.symbols[name]; ok {
		return sym, true
	}
	if st.Outer != nil {
		return st.Outer.Resolve(name)
	}
	return nil, false
}

// Use increments name's usage count if it resolves anywhere in the scope
// chain, supporting the "used only inside a nested call/I-O/loop alias
// still counts" rule (spec §4.4): every reference reaches here through
// Analyzer.visitExpression regardless of how deeply nested it is.
func (st *SymbolTable) Use(name string) {
	if sym, ok := st.Resolve(name); ok {
		sym.UsedBy++
	}
}

// Unused returns the symbols declared directly in this scope (not any
// outer one) that were never read, for the "unused variable" warning
// emitted at scope exit.
func (st *SymbolTable) Unused() []*Symbol {
	var out []*Symbol
	for _, sym := range st.symbols {
		if sym.UsedBy == 0 {
			out = append(out, sym)
		}
	}
	return out
}

// Names returns every name visible from this scope, current scope first,
// for building Damerau-Levenshtein suggestion candidates.
func (st *SymbolTable) Names() []string {
	var names []string
	for s := st; s != nil; s = s.Outer {
		for name := range s.symbols {
			names = append(names, name)
		}
	}
	return names
}
