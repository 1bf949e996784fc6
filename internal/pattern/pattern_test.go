package pattern

import "testing"

func compile(t *testing.T, n Node) *Program {
	t.Helper()
	prog, err := Compile(n)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return prog
}

func TestLiteralMatch(t *testing.T) {
	prog := compile(t, &Literal{Text: "cat"})
	if ok, err := Matches(prog, "a cat sat", MaxSteps); err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}
	if ok, err := Matches(prog, "a dog sat", MaxSteps); err != nil || ok {
		t.Fatalf("expected no match, got ok=%v err=%v", ok, err)
	}
}

func TestCaptureNamed(t *testing.T) {
	prog := compile(t, &Sequence{Items: []Node{
		&Capture{Name: "digits", Item: &Repeat{Item: &CharClass{Name: "digit"}, Min: 1, Max: -1}},
	}})
	caps, ok, err := Find(prog, "order 482 shipped", MaxSteps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected match")
	}
	if caps["digits"] != "482" {
		t.Fatalf("digits = %q, want 482", caps["digits"])
	}
}

func TestOptionalAndAlternative(t *testing.T) {
	prog := compile(t, &Sequence{Items: []Node{
		&Literal{Text: "colo"},
		&Optional{Item: &Literal{Text: "u"}},
		&Literal{Text: "r"},
	}})
	a, err := Matches(prog, "color", MaxSteps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Matches(prog, "colour", MaxSteps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a || !b {
		t.Fatal("expected both spellings to match")
	}
}

func TestAnchors(t *testing.T) {
	prog := compile(t, &Sequence{Items: []Node{
		&Anchor{Start: true},
		&Literal{Text: "go"},
	}})
	if ok, err := Matches(prog, "gopher", MaxSteps); err != nil || !ok {
		t.Fatalf("expected anchored match at start, got ok=%v err=%v", ok, err)
	}
	if ok, err := Matches(prog, "a gopher", MaxSteps); err != nil || ok {
		t.Fatalf("expected no match when not at start, got ok=%v err=%v", ok, err)
	}
}

func TestBackreference(t *testing.T) {
	prog := compile(t, &Sequence{Items: []Node{
		&Capture{Name: "word", Item: &Repeat{Item: &CharClass{Name: "letter"}, Min: 1, Max: -1}},
		&Literal{Text: " "},
		&Backreference{Name: "word"},
	}})
	if ok, err := Matches(prog, "hello hello", MaxSteps); err != nil || !ok {
		t.Fatalf("expected backreference match, got ok=%v err=%v", ok, err)
	}
	if ok, err := Matches(prog, "hello world", MaxSteps); err != nil || ok {
		t.Fatalf("expected no match for mismatched backreference, got ok=%v err=%v", ok, err)
	}
}

func TestLookaround(t *testing.T) {
	prog := compile(t, &Sequence{Items: []Node{
		&Literal{Text: "foo"},
		&Lookaround{Ahead: true, Item: &Literal{Text: "bar"}},
	}})
	if ok, err := Matches(prog, "foobar", MaxSteps); err != nil || !ok {
		t.Fatalf("expected lookahead match, got ok=%v err=%v", ok, err)
	}
	if ok, err := Matches(prog, "foobaz", MaxSteps); err != nil || ok {
		t.Fatalf("expected no match when lookahead fails, got ok=%v err=%v", ok, err)
	}
}

func TestReplaceAndSplit(t *testing.T) {
	prog := compile(t, &Repeat{Item: &CharClass{Name: "digit"}, Min: 1, Max: -1})
	got, err := Replace(prog, "a1b22c333", "#", MaxSteps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a#b#c#" {
		t.Fatalf("Replace = %q", got)
	}
	parts, err := Split(prog, "a1b22c333", MaxSteps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "c", ""}
	if len(parts) != len(want) {
		t.Fatalf("Split = %v, want %v", parts, want)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Fatalf("Split[%d] = %q, want %q", i, parts[i], want[i])
		}
	}
}

func TestStepLimitExceededIsDistinctFromNoMatch(t *testing.T) {
	prog := compile(t, &Repeat{Item: &CharClass{Name: "letter"}, Min: 1, Max: -1})
	_, err := Matches(prog, "plenty of letters to chew through", 3)
	if err != ErrStepLimitExceeded {
		t.Fatalf("expected ErrStepLimitExceeded, got %v", err)
	}
}
