package shuftree

// Advance steps the tree to the next tree-consistent leaf ordering in a
// fixed, deterministic enumeration order. Starting from a freshly Reset tree
// and calling Advance repeatedly visits every reachable configuration exactly
// once; Advance returns false when the enumeration is exhausted.
//
// The walk behaves like an odometer whose digits are the branch arrangements,
// deepest-and-leftmost fastest. At each branch point the children are tried
// left to right: the first child whose subtree still advances does so, and
// every earlier sibling rolls back to identity (the carry). Only when every
// child subtree is exhausted does the branch point step its own child
// arrangement to the next lexicographic order, resetting all subtrees
// beneath it; the subtrees move together with their branch labels. When that
// too is exhausted the carry propagates upward.
func (t *Tree) Advance() bool {
	return advanceNode(t.root)
}

func advanceNode(n *node) bool {
	if n.kind == leafNode {
		return false
	}
	for ci, child := range n.children {
		if advanceNode(child) {
			for _, prev := range n.children[:ci] {
				resetNode(prev)
			}
			return true
		}
	}
	if n.kind == freeBranch {
		if p, ok := n.table.next(); ok {
			n.applyOrder(p)
			for _, c := range n.children {
				resetNode(c)
			}
			return true
		}
	}
	return false
}
