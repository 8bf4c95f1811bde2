package store

import (
	"errors"
	"testing"

	"github.com/cmux-dev/cmux-envd/internal/genlog"
)

func newTestStore() *Store {
	return New(genlog.NewLog())
}

func TestSetGetGlobal(t *testing.T) {
	s := newTestStore()
	if _, err := s.Set(Global(), "FOO", "bar"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get("FOO", "/home/u")
	if err != nil || !ok || v != "bar" {
		t.Fatalf("Get = %q, %v, %v; want bar, true, nil", v, ok, err)
	}
}

func TestUnsetMakesKeyUndefined(t *testing.T) {
	s := newTestStore()
	s.Set(Global(), "FOO", "bar")
	if _, err := s.Unset(Global(), "FOO"); err != nil {
		t.Fatalf("Unset: %v", err)
	}
	_, ok, err := s.Get("FOO", "/home/u")
	if err != nil || ok {
		t.Fatalf("Get after unset = ok=%v err=%v, want ok=false", ok, err)
	}
}

func TestUnsetOfAbsentKeyStillAdvancesGen(t *testing.T) {
	s := newTestStore()
	before := s.GetStatus().Gen
	gen, err := s.Unset(Global(), "NEVER_SET")
	if err != nil {
		t.Fatalf("Unset: %v", err)
	}
	if gen != before+1 {
		t.Fatalf("Unset of absent key returned gen %d, want %d", gen, before+1)
	}
}

func TestInvalidNameRejected(t *testing.T) {
	s := newTestStore()
	_, err := s.Set(Global(), "1BAD", "x")
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("Set with bad name: err = %v, want ErrInvalidName", err)
	}
}

func TestInvalidValueRejected(t *testing.T) {
	s := newTestStore()
	_, err := s.Set(Global(), "FOO", "has\x00nul")
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("Set with NUL value: err = %v, want ErrInvalidValue", err)
	}
}

func TestOverlayPrecedence(t *testing.T) {
	s := newTestStore()
	s.Set(Global(), "VAR", "global")
	dirScope, err := NewDirScope("/p/proj")
	if err != nil {
		t.Fatalf("NewDirScope: %v", err)
	}
	s.Set(dirScope, "VAR", "local")

	v, ok, err := s.Get("VAR", "/p/proj/sub")
	if err != nil || !ok || v != "local" {
		t.Fatalf("Get inside overlay = %q, %v, %v; want local, true, nil", v, ok, err)
	}

	v, ok, err = s.Get("VAR", "/p/other")
	if err != nil || !ok || v != "global" {
		t.Fatalf("Get outside overlay = %q, %v, %v; want global, true, nil", v, ok, err)
	}
}

func TestOverlayTombstoneShadowsGlobal(t *testing.T) {
	s := newTestStore()
	s.Set(Global(), "VAR", "global")
	dirScope, _ := NewDirScope("/p/proj")
	s.Unset(dirScope, "VAR")

	_, ok, err := s.Get("VAR", "/p/proj")
	if err != nil || ok {
		t.Fatalf("Get inside tombstoned overlay = ok=%v err=%v, want ok=false", ok, err)
	}

	v, ok, err := s.Get("VAR", "/p/other")
	if err != nil || !ok || v != "global" {
		t.Fatalf("Get outside tombstoned overlay = %q, %v, %v; want global, true, nil", v, ok, err)
	}
}

func TestLongestPrefixWins(t *testing.T) {
	s := newTestStore()
	outer, _ := NewDirScope("/p")
	inner, _ := NewDirScope("/p/proj")
	s.Set(outer, "VAR", "outer")
	s.Set(inner, "VAR", "inner")

	v, ok, _ := s.Get("VAR", "/p/proj/sub")
	if !ok || v != "inner" {
		t.Fatalf("Get at /p/proj/sub = %q, %v; want inner, true", v, ok)
	}
	v, ok, _ = s.Get("VAR", "/p/other")
	if !ok || v != "outer" {
		t.Fatalf("Get at /p/other = %q, %v; want outer, true", v, ok)
	}
}

func TestListSortedAndScoped(t *testing.T) {
	s := newTestStore()
	s.Set(Global(), "B", "2")
	s.Set(Global(), "A", "1")
	dirScope, _ := NewDirScope("/p/proj")
	s.Set(dirScope, "C", "3")

	items, err := s.List("/p/proj")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("List returned %d items, want 3", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Key >= items[i].Key {
			t.Fatalf("List not sorted: %v", items)
		}
	}

	items, err = s.List("/elsewhere")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("List outside overlay returned %d items, want 2", len(items))
	}
}

func TestGenStrictlyIncreases(t *testing.T) {
	s := newTestStore()
	var last uint64
	ops := func() (uint64, error) { return s.Set(Global(), "K", "v") }
	for i := 0; i < 5; i++ {
		gen, err := ops()
		if err != nil {
			t.Fatalf("Set: %v", err)
		}
		if gen <= last {
			t.Fatalf("gen did not strictly increase: %d after %d", gen, last)
		}
		last = gen
	}
}

func TestSnapshotConsistentWithLiveGet(t *testing.T) {
	s := newTestStore()
	s.Set(Global(), "FOO", "bar")
	snap := s.TakeSnapshot()
	resolved, ok := snap.EffectiveValue("FOO", "/anywhere")
	if !ok || resolved.Value != "bar" {
		t.Fatalf("Snapshot.EffectiveValue = %v, %v; want bar, true", resolved, ok)
	}
}

func TestStatusCounts(t *testing.T) {
	s := newTestStore()
	s.Set(Global(), "A", "1")
	s.Set(Global(), "B", "2")
	s.Unset(Global(), "A")
	dirScope, _ := NewDirScope("/p")
	s.Set(dirScope, "C", "3")

	st := s.GetStatus()
	if st.GlobalCount != 1 {
		t.Fatalf("GlobalCount = %d, want 1", st.GlobalCount)
	}
	if st.TombstoneCount != 1 {
		t.Fatalf("TombstoneCount = %d, want 1", st.TombstoneCount)
	}
	if st.OverlayCount != 1 {
		t.Fatalf("OverlayCount = %d, want 1", st.OverlayCount)
	}
	if st.OverlayDirs != 1 {
		t.Fatalf("OverlayDirs = %d, want 1", st.OverlayDirs)
	}
	if st.Gen != 4 {
		t.Fatalf("Gen = %d, want 4", st.Gen)
	}
}
