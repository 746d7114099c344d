package shuftree

import (
	"strconv"
	"strings"
)

// Tree is a permutation tree: a hierarchical encoding of which groups of
// observations may be reordered relative to each other, and at which nesting
// depth.
//
// Internal nodes come in two flavors:
//   - free branches: immediate children can appear in any order (k! orderings)
//   - fixed branches: immediate children keep their construction order
//
// Leaves hold the observation indices themselves, in a fixed relative
// arrangement. Only ancestor branch points move groups of leaves around;
// a leaf never reorders its own contents.
//
// Tree is not safe for concurrent use. If multiple goroutines access a Tree,
// they must be synchronized with external locking.
//
// The zero value of Tree is not usable; build instances with Leaf, Branch and
// FixedBranch, or via the builders in pkg/blocks.
type Tree struct {
	root *node
	n    int
}

type nodeKind int

const (
	leafNode nodeKind = iota
	freeBranch
	fixedBranch
)

type node struct {
	kind     nodeKind
	indices  []int       // leafNode only
	table    *orderTable // freeBranch only
	children []*node
}

// Leaf creates a leaf holding the given observation indices in a fixed
// relative arrangement. Indices are 1-based by convention (see pkg/blocks).
func Leaf(indices ...int) *Tree {
	idx := make([]int, len(indices))
	copy(idx, indices)
	return &Tree{
		root: &node{kind: leafNode, indices: idx},
		n:    len(idx),
	}
}

// Branch creates a free branch point over the given subtrees: the subtrees
// may appear in any order relative to each other.
func Branch(children ...*Tree) *Tree {
	return newBranch(freeBranch, children)
}

// FixedBranch creates a fixed branch point over the given subtrees: the
// subtrees keep their construction order forever, though their own
// descendants may still be freely permutable.
func FixedBranch(children ...*Tree) *Tree {
	return newBranch(fixedBranch, children)
}

func newBranch(kind nodeKind, children []*Tree) *Tree {
	n := &node{kind: kind, children: make([]*node, len(children))}
	total := 0
	for i, c := range children {
		n.children[i] = c.root
		total += c.n
	}
	if kind == freeBranch {
		n.table = newOrderTable(len(children))
	}
	return &Tree{root: n, n: total}
}

// N returns the total number of observation indices held by the tree's leaves.
func (t *Tree) N() int {
	return t.n
}

// Clone creates an independent deep copy of the tree.
//
// The clone has identical structure and state (including any reordering
// applied by Advance or Randomize) but can be mutated without affecting the
// original. The sampling engine clones the caller's tree before touching it.
func (t *Tree) Clone() *Tree {
	return &Tree{root: cloneNode(t.root), n: t.n}
}

func cloneNode(n *node) *node {
	clone := &node{kind: n.kind}
	if n.indices != nil {
		clone.indices = make([]int, len(n.indices))
		copy(clone.indices, n.indices)
	}
	if n.table != nil {
		clone.table = n.table.clone()
	}
	if len(n.children) > 0 {
		clone.children = make([]*node, len(n.children))
		for i, c := range n.children {
			clone.children[i] = cloneNode(c)
		}
	}
	return clone
}

// Read flattens the tree in its current (possibly mutated) child order into
// a length-N index vector. Read never mutates tree state.
func (t *Tree) Read() []int {
	return readNode(t.root, make([]int, 0, t.n))
}

func readNode(n *node, acc []int) []int {
	if n.kind == leafNode {
		return append(acc, n.indices...)
	}
	for _, c := range n.children {
		acc = readNode(c, acc)
	}
	return acc
}

// Reset recursively restores every free branch point to its construction-time
// child order. Fixed branches have no order to restore but their children are
// still recursed into. Reset is idempotent.
func (t *Tree) Reset() {
	resetNode(t.root)
}

func resetNode(n *node) {
	if n.kind == leafNode {
		return
	}
	if n.kind == freeBranch {
		if p, changed := n.table.restore(); changed {
			n.applyOrder(p)
		}
	}
	for _, c := range n.children {
		resetNode(c)
	}
}

// applyOrder rearranges the node's children so that the child previously at
// position p[i] moves to position i. The order table is rearranged by its own
// mutation primitives before this is called; children follow the table here.
func (n *node) applyOrder(p []int) {
	next := make([]*node, len(n.children))
	for i, src := range p {
		next[i] = n.children[src]
	}
	n.children = next
}

// String returns a bracket notation of the tree structure: free branches in
// curly braces, fixed branches in square brackets, leaves as their indices.
//
// Example: "{[1 2] {3 4}}" is a free root over a fixed block (1,2) and a free
// block (3,4).
func (t *Tree) String() string {
	var b strings.Builder
	writeNodeString(&b, t.root)
	return b.String()
}

func writeNodeString(b *strings.Builder, n *node) {
	if n.kind == leafNode {
		for i, idx := range n.indices {
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(strconv.Itoa(idx))
		}
		return
	}
	open, close := "{", "}"
	if n.kind == fixedBranch {
		open, close = "[", "]"
	}
	b.WriteString(open)
	for i, c := range n.children {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeNodeString(b, c)
	}
	b.WriteString(close)
}
