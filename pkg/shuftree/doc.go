// Package shuftree generates valid rearrangements of N observations for
// permutation-based hypothesis testing, where observations are not freely
// exchangeable but constrained by a hierarchical block structure (repeated
// measures within subjects, twins within families, sites within a multi-site
// study).
//
// # The Permutation Tree
//
// A [Tree] encodes which groups of observations may be reordered and at which
// nesting level. Internal nodes come in two flavors:
//
//   - free branches: immediate children can appear in any order (k! orderings)
//   - fixed branches: immediate children keep their construction order
//
// Leaves hold the observation indices themselves. Only ancestor branch points
// move groups of leaves relative to each other; a leaf never reorders its own
// contents. A tree over two exchangeable blocks of two exchangeable
// observations each:
//
//	tree := shuftree.Branch(
//	    shuftree.Branch(shuftree.Leaf(1), shuftree.Leaf(2)),
//	    shuftree.Branch(shuftree.Leaf(3), shuftree.Leaf(4)),
//	)
//	tree.MaxPerms() // 2! × 2! × 2! = 8, not 4! = 24
//
// Trees are usually built from block definitions via pkg/blocks rather than
// assembled by hand.
//
// # Sampling
//
// [Sample] is the entry point: it produces either an exhaustive enumeration
// or a Monte Carlo sample (with or without replacement) of all
// tree-consistent permutations, always emitting the identity permutation
// first and restoring the canonical observation ordering across the whole
// set before returning.
//
//	res, err := shuftree.Sample(tree, shuftree.Options{
//	    Count: 500,
//	    RNG:   shuftree.NewRNG(42),
//	})
//
// Exhaustive enumeration walks the tree with [Tree.Advance], an odometer over
// branch arrangements that visits every reachable configuration exactly once.
// Monte Carlo sampling draws independent arrangements with [Tree.Randomize].
//
// # Determinism
//
// All randomness flows through an explicit *rand.Rand; a fixed seed plus the
// fixed draw order (draw 1, then draws 2..nP in strict sequence) reproduces a
// sampling run exactly. The package is purely sequential and never blocks.
package shuftree
