package voxel

import "testing"

func TestArenaStaleHandle(t *testing.T) {
	var a Arena[string]
	first := a.Insert("a")
	if v, ok := a.Get(first); !ok || v != "a" {
		t.Fatalf("get after insert: %q %v", v, ok)
	}
	if !a.Remove(first) {
		t.Fatalf("remove failed")
	}
	if a.Remove(first) {
		t.Fatalf("second remove should fail")
	}
	second := a.Insert("b")
	if second.index != first.index {
		t.Fatalf("expected slot reuse, got %d and %d", first.index, second.index)
	}
	if _, ok := a.Get(first); ok {
		t.Fatalf("stale handle resolved after slot reuse")
	}
	if v, ok := a.Get(second); !ok || v != "b" {
		t.Fatalf("get reused slot: %q %v", v, ok)
	}
	if a.Len() != 1 {
		t.Fatalf("len = %d", a.Len())
	}
}

func TestArenaZeroHandle(t *testing.T) {
	var a Arena[int]
	a.Insert(1)
	if _, ok := a.Get(Handle{}); ok {
		t.Fatalf("zero handle resolved")
	}
}
