// Package blocks builds permutation trees from exchangeability-block
// definitions.
//
// An exchangeability block is a group of observations that may be permuted
// among themselves under the null hypothesis being tested. Blocks nest: a
// study might allow whole families to trade places while twins inside each
// family also trade places, but never an individual across families.
//
// # Definitions
//
// The [Block] type describes one level of that nesting and maps one-to-one
// onto a TOML file format:
//
//	# two free blocks, the second with frozen internal order
//	[[block]]
//	indices = [1, 2, 3]
//
//	[[block]]
//	fixed = true
//	indices = [4, 5, 6]
//
// [Build], [Parse] and [Load] turn definitions into [shuftree.Tree] values;
// [Flat] and [FromGroups] cover the two most common designs without a file.
//
// Structural validation (indices partitioning 1..N, uniform sibling depth)
// happens here. The sampling engine in pkg/shuftree assumes well-formed
// trees and does not re-validate.
package blocks
