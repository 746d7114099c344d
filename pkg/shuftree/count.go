package shuftree

// Factorial returns n! (n factorial), the product 1 × 2 × ... × n.
// For n <= 1, Factorial returns 1.
//
// Note that factorials grow extremely fast: 13! = 6,227,020,800 exceeds
// 32-bit int, and 21! overflows int64 entirely. Trees whose branch points
// are that wide are far beyond exhaustive enumeration anyway.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// MaxPerms returns the exact number of distinct tree-consistent permutations.
//
// The count is computed from the tree structure without enumerating:
//   - free branches multiply by k! (factorial of child count)
//   - fixed branches multiply by 1
//   - leaves contribute 1
//
// MaxPerms ignores the tree's current state; the count is a structural
// property.
func (t *Tree) MaxPerms() int {
	return countNode(t.root)
}

func countNode(n *node) int {
	if n.kind == leafNode {
		return 1
	}
	product := 1
	for _, c := range n.children {
		product *= countNode(c)
	}
	if n.kind == freeBranch {
		product *= Factorial(len(n.children))
	}
	return product
}
