package pattern

import "fmt"

// compiler turns a Node tree into a flat Program. It mirrors the
// host interpreter's own "build a flat list, patch jump offsets as you go"
// style rather than a two-pass assembler: pattern programs are small enough
// that a single recursive pass suffices.
type compiler struct {
	prog  []Inst
	names []string
	err   error
}

// Compile compiles a pattern AST into an executable Program. It fails at
// compile time, not match time, if a backreference names a capture that
// was never declared anywhere in the pattern (spec §4.7).
func Compile(n Node) (*Program, error) {
	c := &compiler{}
	c.compile(n)
	c.emit(Inst{Op: OpMatch})
	if c.err != nil {
		return nil, c.err
	}
	return &Program{Insts: c.prog, CaptureNames: c.names}, nil
}

func (c *compiler) emit(i Inst) int {
	c.prog = append(c.prog, i)
	return len(c.prog) - 1
}

func (c *compiler) indexForName(name string) int {
	for i, n := range c.names {
		if n == name {
			return i
		}
	}
	return -1
}

func (c *compiler) compile(n Node) {
	switch v := n.(type) {
	case *Sequence:
		for _, item := range v.Items {
			c.compile(item)
		}
	case *Literal:
		for _, r := range v.Text {
			c.emit(Inst{Op: OpChar, Rune: r})
		}
	case *AnyChar:
		c.emit(Inst{Op: OpAny})
	case *CharClass:
		c.emit(Inst{Op: OpClass, Class: v.Name, Negated: v.Negated})
	case *Group:
		c.compile(v.Item)
	case *Optional:
		splitAt := c.emit(Inst{Op: OpSplit})
		c.prog[splitAt].X = len(c.prog)
		c.compile(v.Item)
		c.prog[splitAt].Y = len(c.prog)
	case *Repeat:
		c.compileRepeat(v)
	case *Alternative:
		c.compileAlternative(v.Branches)
	case *Capture:
		idx := len(c.names)
		c.names = append(c.names, v.Name)
		c.emit(Inst{Op: OpSave, Slot: idx * 2})
		c.compile(v.Item)
		c.emit(Inst{Op: OpSave, Slot: idx*2 + 1})
	case *Anchor:
		if v.Start {
			c.emit(Inst{Op: OpAssertStart})
		} else {
			c.emit(Inst{Op: OpAssertEnd})
		}
	case *Lookaround:
		sub, err := Compile(v.Item)
		if err != nil {
			if c.err == nil {
				c.err = err
			}
			return
		}
		c.emit(Inst{Op: OpLookaround, Sub: sub, Ahead: v.Ahead, Negated: v.Negated})
	case *Backreference:
		idx := c.indexForName(v.Name)
		if idx < 0 {
			if c.err == nil {
				c.err = fmt.Errorf("pattern: backreference to undeclared capture %q", v.Name)
			}
			return
		}
		c.emit(Inst{Op: OpBackref, Slot: idx})
	}
}

// compileRepeat unrolls Min mandatory copies, then either a star-loop
// (Max == -1) or Max-Min further optional copies.
func (c *compiler) compileRepeat(r *Repeat) {
	for i := 0; i < r.Min; i++ {
		c.compile(r.Item)
	}
	if r.Max == -1 {
		loopStart := len(c.prog)
		splitAt := c.emit(Inst{Op: OpSplit})
		c.prog[splitAt].X = len(c.prog)
		c.compile(r.Item)
		c.emit(Inst{Op: OpJmp, X: loopStart})
		c.prog[splitAt].Y = len(c.prog)
		return
	}
	extra := r.Max - r.Min
	splits := make([]int, 0, extra)
	for i := 0; i < extra; i++ {
		splitAt := c.emit(Inst{Op: OpSplit})
		c.prog[splitAt].X = len(c.prog)
		c.compile(r.Item)
		splits = append(splits, splitAt)
	}
	for _, s := range splits {
		c.prog[s].Y = len(c.prog)
	}
}

func (c *compiler) compileAlternative(branches []Node) {
	if len(branches) == 1 {
		c.compile(branches[0])
		return
	}
	splitAt := c.emit(Inst{Op: OpSplit})
	c.prog[splitAt].X = len(c.prog)
	c.compile(branches[0])
	jmpAt := c.emit(Inst{Op: OpJmp})
	c.prog[splitAt].Y = len(c.prog)
	c.compileAlternative(branches[1:])
	c.prog[jmpAt].X = len(c.prog)
}
