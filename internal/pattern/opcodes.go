package pattern

// OpCode is one instruction of a compiled pattern program. The set is
// closed (spec §4.7): adding a pattern primitive means adding an opcode
// here, never overloading an existing one.
type OpCode byte

const (
	OpChar        OpCode = iota // match literal Rune, advance one rune
	OpAny                       // match any rune, advance one
	OpClass                     // match rune in/not-in Class, advance one
	OpSplit                     // fork: try X first, backtrack to Y on failure
	OpJmp                       // unconditional jump to X
	OpSave                      // record current subject offset into capture Slot
	OpAssertStart               // zero-width: subject position is offset 0
	OpAssertEnd                 // zero-width: subject position is end of text
	OpBackref                   // match the text previously saved at Slot
	OpLookaround                // zero-width: Sub must (not) match at this position
	OpMatch                     // accept
)

// Inst is one bytecode instruction. Fields are interpreted per Op; unused
// fields for a given Op are left zero.
type Inst struct {
	Op      OpCode
	Rune    rune
	Class   string
	Negated bool
	X, Y    int
	Slot    int
	Sub     *Program
	Ahead   bool
}

// Program is a compiled pattern: a flat instruction stream plus the
// capture-name table built during compilation.
type Program struct {
	Insts        []Inst
	CaptureNames []string // index i holds the name of capture i
}
