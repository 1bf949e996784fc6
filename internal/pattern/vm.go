package pattern

// MaxSteps bounds the total number of instructions a single match attempt
// may execute before the VM gives up and reports no match. This is the
// pattern engine's runtime depth guard: a pathological pattern (nested
// unbounded repeats, adversarial backreferences) fails fast instead of
// hanging the fiber that requested the match.
const MaxSteps = 100000

// lookbehindWindow bounds how far back a `check behind` assertion scans
// for a candidate start offset (spec §4.7): lookbehind has no fixed width
// in this grammar, so the search is bounded rather than unbounded.
const lookbehindWindow = 1000

type frame struct {
	pc, sp int
	caps   []int
}

// run executes prog against subject starting at offset start, backtracking
// on failure via an explicit choice-point stack (spec §4.7: "a backtracking
// VM", not an NFA simulation, because backreferences and lookaround are not
// regular). It returns the end offset and capture slots of the first
// successful match found by depth-first search, preferring earlier
// alternatives and greedier repeats exactly as they were written. exceeded
// reports that the step budget ran out before the search could prove a
// match or a non-match, which callers must surface as an error rather than
// silently treating as "no match" (spec §8 "pattern step bound").
func run(prog *Program, subject []rune, start, maxSteps int) (matched bool, end int, caps []int, exceeded bool) {
	numCaps := len(prog.CaptureNames) * 2
	initCaps := make([]int, numCaps)
	for i := range initCaps {
		initCaps[i] = -1
	}
	stack := []frame{{pc: 0, sp: start, caps: initCaps}}
	steps := 0

stackLoop:
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pc, sp, caps := f.pc, f.sp, f.caps

		for {
			steps++
			if steps > maxSteps {
				return false, 0, nil, true
			}
			if pc >= len(prog.Insts) {
				continue stackLoop
			}
			inst := prog.Insts[pc]
			switch inst.Op {
			case OpChar:
				if sp >= len(subject) || subject[sp] != inst.Rune {
					continue stackLoop
				}
				sp++
				pc++
			case OpAny:
				if sp >= len(subject) {
					continue stackLoop
				}
				sp++
				pc++
			case OpClass:
				if sp >= len(subject) {
					continue stackLoop
				}
				m := classMatch(inst.Class, subject[sp])
				if inst.Negated {
					m = !m
				}
				if !m {
					continue stackLoop
				}
				sp++
				pc++
			case OpAssertStart:
				if sp != 0 {
					continue stackLoop
				}
				pc++
			case OpAssertEnd:
				if sp != len(subject) {
					continue stackLoop
				}
				pc++
			case OpSave:
				next := append([]int(nil), caps...)
				next[inst.Slot] = sp
				caps = next
				pc++
			case OpJmp:
				pc = inst.X
			case OpSplit:
				stack = append(stack, frame{pc: inst.Y, sp: sp, caps: append([]int(nil), caps...)})
				pc = inst.X
			case OpBackref:
				if inst.Slot < 0 {
					continue stackLoop
				}
				s, e := caps[inst.Slot*2], caps[inst.Slot*2+1]
				if s < 0 || e < 0 {
					continue stackLoop
				}
				length := e - s
				if sp+length > len(subject) {
					continue stackLoop
				}
				ok := true
				for i := 0; i < length; i++ {
					if subject[sp+i] != subject[s+i] {
						ok = false
						break
					}
				}
				if !ok {
					continue stackLoop
				}
				sp += length
				pc++
			case OpLookaround:
				var ok, subExceeded bool
				if inst.Ahead {
					ok, _, _, subExceeded = run(inst.Sub, subject, sp, maxSteps-steps)
				} else {
					ok, subExceeded = lookbehindMatches(inst.Sub, subject, sp, maxSteps-steps)
				}
				if subExceeded {
					return false, 0, nil, true
				}
				if inst.Negated {
					ok = !ok
				}
				if !ok {
					continue stackLoop
				}
				pc++
			case OpMatch:
				return true, sp, caps, false
			}
		}
	}
	return false, 0, nil, false
}

// lookbehindMatches reports whether sub matches some run of text ending
// exactly at pos, trying candidate start offsets backward from pos up to
// lookbehindWindow runes.
func lookbehindMatches(sub *Program, subject []rune, pos, maxSteps int) (matched, exceeded bool) {
	lo := pos - lookbehindWindow
	if lo < 0 {
		lo = 0
	}
	for s := pos; s >= lo; s-- {
		m, end, _, exc := run(sub, subject, s, maxSteps)
		if exc {
			return false, true
		}
		if m && end == pos {
			return true, false
		}
	}
	return false, false
}
