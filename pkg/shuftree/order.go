package shuftree

import (
	"cmp"
	"math/rand/v2"
	"slices"
)

// orderTable tracks the arrangement of one branch point's immediate children.
// Rows are stored in current arrangement order; each row remembers the child's
// current position, its construction-time position, and a scratch sort key
// that only has meaning during a mutation.
//
// Invariant: the current positions are always a permutation of the original
// positions for the branch.
type orderTable struct {
	rows []orderRow
}

type orderRow struct {
	current  int
	original int
	key      int
}

func newOrderTable(k int) *orderTable {
	rows := make([]orderRow, k)
	for i := range rows {
		rows[i] = orderRow{current: i + 1, original: i + 1}
	}
	return &orderTable{rows: rows}
}

func (t *orderTable) clone() *orderTable {
	rows := make([]orderRow, len(t.rows))
	copy(rows, t.rows)
	return &orderTable{rows: rows}
}

// apply rearranges the rows so that the row previously at position p[i] moves
// to position i, then renumbers the current positions.
func (t *orderTable) apply(p []int) {
	next := make([]orderRow, len(t.rows))
	for i, src := range p {
		next[i] = t.rows[src]
		next[i].current = i + 1
	}
	t.rows = next
}

// next rearranges the rows into the lexicographically next arrangement of
// their original positions. It returns the applied arrangement and true, or
// (nil, false) if the rows are already in the final (descending) arrangement,
// in which case the table is left untouched.
//
// This is the standard next-permutation step: find the rightmost ascent,
// swap its left element with the rightmost larger element, reverse the tail.
func (t *orderTable) next() ([]int, bool) {
	rows := t.rows
	i := len(rows) - 2
	for i >= 0 && rows[i].original >= rows[i+1].original {
		i--
	}
	if i < 0 {
		return nil, false
	}
	j := len(rows) - 1
	for rows[j].original <= rows[i].original {
		j--
	}
	p := seq(len(rows))
	p[i], p[j] = p[j], p[i]
	slices.Reverse(p[i+1:])
	t.apply(p)
	return p, true
}

// restore sorts the rows back into construction order. It returns the applied
// arrangement and true, or (nil, false) if the rows were already in
// construction order.
func (t *orderTable) restore() ([]int, bool) {
	for i := range t.rows {
		t.rows[i].key = t.rows[i].original
	}
	return t.sortByKey()
}

// shuffle draws a uniformly random arrangement of the rows by assigning each
// row a random sort key and sorting. It returns (nil, false) when the draw
// leaves every row in place, so the caller can skip reordering its children.
func (t *orderTable) shuffle(rng *rand.Rand) ([]int, bool) {
	if len(t.rows) < 2 {
		return nil, false
	}
	for i := range t.rows {
		t.rows[i].key = int(rng.Int64())
	}
	return t.sortByKey()
}

func (t *orderTable) sortByKey() ([]int, bool) {
	p := seq(len(t.rows))
	slices.SortStableFunc(p, func(a, b int) int {
		return cmp.Compare(t.rows[a].key, t.rows[b].key)
	})
	identity := true
	for i, src := range p {
		if src != i {
			identity = false
			break
		}
	}
	if identity {
		return nil, false
	}
	t.apply(p)
	return p, true
}

// seq returns the slice [0, 1, ..., n-1].
func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}
