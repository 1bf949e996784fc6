package interp

// SignalKind is the control-flow signal a statement's execution produces
// (spec §4.6: "statement evaluation returns one of: Normal, Break,
// Continue, Exit, Return(value)"). Grounded on the teacher's
// runtime.ControlFlowKind enum, but carried as a returned value from each
// exec call rather than as a field mutated on a shared execution context:
// the spec's own wording ("returns one of") and the "accept interfaces,
// return structs" idiom both point at a value, not a mutable flag bag.
type SignalKind int

const (
	SigNormal SignalKind = iota
	SigBreak
	SigContinue
	SigExit
	SigReturn
)

// signal is the result of executing one statement or block: a kind, plus
// the returned value when the kind is SigReturn.
type signal struct {
	kind  SignalKind
	value Value
}

var normalSignal = signal{kind: SigNormal}

func returnSignal(v Value) signal { return signal{kind: SigReturn, value: v} }

// isLoopTerminator reports whether s should stop a loop body from running
// further statements in the current iteration.
func (s signal) isLoopTerminator() bool {
	return s.kind != SigNormal
}
