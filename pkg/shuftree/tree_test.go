package shuftree

import (
	"slices"
	"testing"
)

func TestLeafRead(t *testing.T) {
	leaf := Leaf(3, 4, 5)

	if n := leaf.N(); n != 3 {
		t.Errorf("expected N=3, got %d", n)
	}
	if got := leaf.Read(); !slices.Equal(got, []int{3, 4, 5}) {
		t.Errorf("expected [3 4 5], got %v", got)
	}
}

func TestBranchRead(t *testing.T) {
	tree := Branch(
		Branch(Leaf(1), Leaf(2)),
		FixedBranch(Leaf(3), Leaf(4)),
	)

	if n := tree.N(); n != 4 {
		t.Errorf("expected N=4, got %d", n)
	}
	if got := tree.Read(); !slices.Equal(got, []int{1, 2, 3, 4}) {
		t.Errorf("expected identity read, got %v", got)
	}
}

func TestString(t *testing.T) {
	tree := Branch(
		FixedBranch(Leaf(1), Leaf(2)),
		Branch(Leaf(3), Leaf(4)),
	)

	if got := tree.String(); got != "{[1 2] {3 4}}" {
		t.Errorf("unexpected bracket notation: %s", got)
	}
}

func TestCloneIndependence(t *testing.T) {
	tree := Branch(Leaf(1), Leaf(2), Leaf(3))
	clone := tree.Clone()

	if !clone.Advance() {
		t.Fatal("clone should advance")
	}

	if got := tree.Read(); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("advancing the clone mutated the original: %v", got)
	}
	if got := clone.Read(); slices.Equal(got, []int{1, 2, 3}) {
		t.Error("clone did not change after Advance")
	}
}

func TestCloneKeepsState(t *testing.T) {
	tree := Branch(Leaf(1), Leaf(2), Leaf(3))
	tree.Advance()
	tree.Advance()

	clone := tree.Clone()
	if got, want := clone.Read(), tree.Read(); !slices.Equal(got, want) {
		t.Errorf("clone state %v differs from original %v", got, want)
	}
}

func TestResetRestoresIdentity(t *testing.T) {
	tree := Branch(
		Branch(Leaf(1), Leaf(2)),
		Branch(Leaf(3), Leaf(4)),
	)

	rng := NewRNG(99)
	for range 5 {
		tree.Randomize(rng)
	}
	tree.Reset()

	if got := tree.Read(); !slices.Equal(got, []int{1, 2, 3, 4}) {
		t.Errorf("expected identity after reset, got %v", got)
	}
}

func TestResetIdempotent(t *testing.T) {
	tree := Branch(Leaf(1), Leaf(2), Leaf(3))
	tree.Advance()
	tree.Advance()

	tree.Reset()
	once := tree.Read()
	tree.Reset()
	twice := tree.Read()

	if !slices.Equal(once, twice) {
		t.Errorf("reset is not idempotent: %v vs %v", once, twice)
	}
	if !slices.Equal(once, []int{1, 2, 3}) {
		t.Errorf("expected identity, got %v", once)
	}
}

func TestResetInsideFixedBranch(t *testing.T) {
	// The fixed root has no order to restore, but its free children do.
	tree := FixedBranch(
		Branch(Leaf(1), Leaf(2)),
		Branch(Leaf(3), Leaf(4)),
	)
	tree.Advance()
	tree.Reset()

	if got := tree.Read(); !slices.Equal(got, []int{1, 2, 3, 4}) {
		t.Errorf("expected identity after reset, got %v", got)
	}
}
