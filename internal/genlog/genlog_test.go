package genlog

import "testing"

func TestAdvanceIsMonotonic(t *testing.T) {
	l := NewLog()
	if got := l.Current(); got != 0 {
		t.Fatalf("Current() on fresh log = %d, want 0", got)
	}
	ref := Ref{Key: "FOO"}
	g1 := l.Advance(ref, OpSet)
	g2 := l.Advance(ref, OpSet)
	if g1 != 1 || g2 != 2 {
		t.Fatalf("Advance sequence = %d, %d, want 1, 2", g1, g2)
	}
	if got := l.Current(); got != 2 {
		t.Fatalf("Current() = %d, want 2", got)
	}
}

func TestChangedSinceOnlyLatestSurvives(t *testing.T) {
	l := NewLog()
	ref := Ref{Key: "FOO"}
	l.Advance(ref, OpSet)
	l.Advance(ref, OpSet)
	g3 := l.Advance(ref, OpUnset)

	changed := l.ChangedSince(0)
	if len(changed) != 1 {
		t.Fatalf("ChangedSince(0) returned %d refs, want 1 (compacted to latest)", len(changed))
	}
	if changed[ref] != g3 {
		t.Fatalf("ChangedSince(0)[ref] = %d, want latest gen %d", changed[ref], g3)
	}

	if changed := l.ChangedSince(g3); len(changed) != 0 {
		t.Fatalf("ChangedSince(latest) = %v, want empty", changed)
	}
}

func TestChangedSinceIsolatesKeys(t *testing.T) {
	l := NewLog()
	a := Ref{Key: "A"}
	b := Ref{ScopeID: "/p/proj", Key: "B"}
	l.Advance(a, OpSet)
	gB := l.Advance(b, OpSet)

	changed := l.ChangedSince(1)
	if len(changed) != 1 || changed[b] != gB {
		t.Fatalf("ChangedSince(1) = %v, want only %v -> %d", changed, b, gB)
	}
}

func TestForgetRemovesEntry(t *testing.T) {
	l := NewLog()
	ref := Ref{Key: "FOO"}
	l.Advance(ref, OpSet)
	l.Forget(ref)
	if changed := l.ChangedSince(0); len(changed) != 0 {
		t.Fatalf("ChangedSince(0) after Forget = %v, want empty", changed)
	}
}
