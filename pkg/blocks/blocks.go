package blocks

import (
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	perrors "github.com/gllmflndn/palm/pkg/errors"
	"github.com/gllmflndn/palm/pkg/shuftree"
)

// Block is one node of an exchangeability-block definition.
//
// A Block is either a group of observations (Indices set) or a group of
// nested sub-blocks (Blocks set), never both. Fixed freezes the relative
// order of the block's immediate members; descendants of a fixed block may
// still be freely permutable.
//
// Observation indices are 1-based and must cover 1..N exactly once across
// the whole definition.
type Block struct {
	Fixed   bool    `toml:"fixed,omitempty"`
	Indices []int   `toml:"indices,omitempty"`
	Blocks  []Block `toml:"block,omitempty"`
}

// Build validates the definition and constructs the permutation tree it
// describes. A block over indices becomes a branch point over one leaf per
// observation; a block over sub-blocks becomes a branch point over the
// subtrees they build.
//
// Validation enforces the structural invariants the sampling engine assumes
// and does not re-check: every block holds either indices or sub-blocks (not
// both, not neither), sibling subtrees have uniform depth, and the leaf
// indices partition 1..N.
func Build(root Block) (*shuftree.Tree, error) {
	if err := validate(root); err != nil {
		return nil, err
	}
	seen := collectIndices(root, nil)
	slices.Sort(seen)
	for i, v := range seen {
		if v != i+1 {
			return nil, perrors.New(perrors.ErrCodeInvalidBlocks, "indices must cover 1..%d exactly once, found %v", len(seen), seen)
		}
	}
	return build(root), nil
}

// Flat returns the tree for n freely exchangeable observations 1..n: a
// single free branch point with no nested structure.
func Flat(n int) (*shuftree.Tree, error) {
	if n < 1 {
		return nil, perrors.New(perrors.ErrCodeInvalidBlocks, "need at least one observation, got %d", n)
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i + 1
	}
	return Build(Block{Indices: idx})
}

// FromGroups returns the tree for within-group exchangeability: groups[i] is
// the group label of observation i+1, observations may be permuted within
// their group but groups never trade members and never move relative to each
// other. Group order follows first appearance in the slice.
func FromGroups(groups []int) (*shuftree.Tree, error) {
	if len(groups) == 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidBlocks, "empty group vector")
	}
	var order []int
	members := make(map[int][]int)
	for i, g := range groups {
		if _, ok := members[g]; !ok {
			order = append(order, g)
		}
		members[g] = append(members[g], i+1)
	}
	root := Block{Fixed: true}
	for _, g := range order {
		root.Blocks = append(root.Blocks, Block{Indices: members[g]})
	}
	if len(root.Blocks) == 1 {
		return Build(root.Blocks[0])
	}
	return Build(root)
}

// Parse reads a TOML block definition and builds its tree.
//
// The format mirrors the Block structure:
//
//	[[block]]
//	indices = [1, 2]
//
//	[[block]]
//	fixed = true
//	indices = [3, 4]
//
// The top level is itself a block (its "fixed" key freezes the top-level
// arrangement).
func Parse(data []byte) (*shuftree.Tree, error) {
	var root Block
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidBlocks, err, "parse block definition")
	}
	return Build(root)
}

// Load reads a TOML block-definition file and builds its tree.
func Load(path string) (*shuftree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidBlocks, err, "read %s", path)
	}
	return Parse(data)
}

func validate(b Block) error {
	switch {
	case len(b.Indices) > 0 && len(b.Blocks) > 0:
		return perrors.New(perrors.ErrCodeInvalidBlocks, "a block holds either indices or sub-blocks, not both")
	case len(b.Indices) == 0 && len(b.Blocks) == 0:
		return perrors.New(perrors.ErrCodeInvalidBlocks, "empty block")
	}
	for _, idx := range b.Indices {
		if idx < 1 {
			return perrors.New(perrors.ErrCodeInvalidBlocks, "observation indices are 1-based, got %d", idx)
		}
	}
	depth := -1
	for _, sub := range b.Blocks {
		if err := validate(sub); err != nil {
			return err
		}
		d := blockDepth(sub)
		if depth >= 0 && d != depth {
			return perrors.New(perrors.ErrCodeInvalidBlocks, "sibling blocks must have uniform depth, got %d and %d", depth, d)
		}
		depth = d
	}
	return nil
}

func blockDepth(b Block) int {
	if len(b.Blocks) == 0 {
		return 1
	}
	return 1 + blockDepth(b.Blocks[0])
}

func collectIndices(b Block, acc []int) []int {
	acc = append(acc, b.Indices...)
	for _, sub := range b.Blocks {
		acc = collectIndices(sub, acc)
	}
	return acc
}

func build(b Block) *shuftree.Tree {
	var children []*shuftree.Tree
	if len(b.Indices) > 0 {
		for _, idx := range b.Indices {
			children = append(children, shuftree.Leaf(idx))
		}
	} else {
		for _, sub := range b.Blocks {
			children = append(children, build(sub))
		}
	}
	if b.Fixed {
		return shuftree.FixedBranch(children...)
	}
	return shuftree.Branch(children...)
}
