package shuftree

import "math/rand/v2"

// defaultSeed is the fixed seed used when a caller does not provide a random
// source. The value is arbitrary but stable so that default runs reproduce.
const defaultSeed uint64 = 1

// NewRNG returns a deterministic random source for the given seed. The same
// seed always yields the same draw sequence, so a fixed seed plus a fixed
// draw order reproduces a sampling run exactly.
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Randomize draws, independently at every free branch point, a uniformly
// random arrangement of that branch's immediate children. Fixed branch
// points are never reordered, but their children are still recursed into,
// since deeper levels randomize independently.
//
// The number of random draws per branch is fixed (one key per child), so a
// given rng state always produces the same tree state.
func (t *Tree) Randomize(rng *rand.Rand) {
	randomizeNode(t.root, rng)
}

func randomizeNode(n *node, rng *rand.Rand) {
	if n.kind == leafNode {
		return
	}
	if n.kind == freeBranch {
		// A draw that leaves every child in place is reported as unchanged;
		// the children slice is only rebuilt when something actually moved.
		if p, changed := n.table.shuffle(rng); changed {
			n.applyOrder(p)
		}
	}
	for _, c := range n.children {
		randomizeNode(c, rng)
	}
}
