package interp

import "testing"

func TestEnvironmentDefineGet(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", Number(1))
	v, ok := env.Get("x")
	if !ok || v.(Number) != 1 {
		t.Fatalf("expected x=1, got %v, %v", v, ok)
	}
	if _, ok := env.Get("missing"); ok {
		t.Fatal("expected missing to be absent")
	}
}

func TestEnvironmentOuterLookup(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Number(1))
	inner := NewEnclosedEnvironment(outer)
	inner.Define("y", Number(2))

	if v, ok := inner.Get("x"); !ok || v.(Number) != 1 {
		t.Fatalf("expected inner to see outer's x, got %v, %v", v, ok)
	}
	if _, ok := outer.Get("y"); ok {
		t.Fatal("outer should not see inner's y")
	}
}

func TestEnvironmentDefineShadows(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Number(1))
	inner := NewEnclosedEnvironment(outer)
	inner.Define("x", Number(2))

	if v, ok := inner.Get("x"); !ok || v.(Number) != 2 {
		t.Fatalf("expected inner's x to shadow outer's, got %v", v)
	}
	if v, ok := outer.Get("x"); !ok || v.(Number) != 1 {
		t.Fatalf("expected outer's x to be untouched, got %v", v)
	}
}

func TestEnvironmentGetLocalDoesNotWalkOuter(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Number(1))
	inner := NewEnclosedEnvironment(outer)

	if _, ok := inner.GetLocal("x"); ok {
		t.Fatal("GetLocal should not see outer's bindings")
	}
}

func TestEnvironmentSetSearchesOutward(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Number(1))
	inner := NewEnclosedEnvironment(outer)

	if ok := inner.Set("x", Number(5)); !ok {
		t.Fatal("expected Set to find x in outer")
	}
	if v, _ := outer.Get("x"); v.(Number) != 5 {
		t.Fatalf("expected outer's x updated to 5, got %v", v)
	}
	if ok := inner.Set("never_defined", Number(1)); ok {
		t.Fatal("Set on an undefined name should report not found")
	}
}

func TestEnvironmentCheckAcyclicOnChain(t *testing.T) {
	root := NewEnvironment()
	a := NewEnclosedEnvironment(root)
	b := NewEnclosedEnvironment(a)
	c := NewEnclosedEnvironment(b)

	if !c.CheckAcyclic(100) {
		t.Fatal("expected a plain linear chain to report acyclic")
	}
}

func TestEnvironmentCheckAcyclicDetectsCycle(t *testing.T) {
	a := NewEnvironment()
	b := NewEnclosedEnvironment(a)
	// Force a cycle: a scope chain should never actually do this, but the
	// detector must still catch it if something goes wrong upstream.
	a.outer = b

	if b.CheckAcyclic(1000) {
		t.Fatal("expected a cyclic outer chain to be detected")
	}
}
