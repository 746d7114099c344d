package shuftree

import perrors "github.com/gllmflndn/palm/pkg/errors"

// Matrix is an explicit permutation-operator representation of an index
// vector: an N×N permutation matrix stored sparsely as one source position
// per output row. Row i of the dense form has a single 1 in column rows[i].
//
// Matrices are what downstream linear-model code multiplies designs by; the
// sampling engine produces them when Options.AsMatrices is set.
type Matrix struct {
	rows []int
}

// MatrixFromIndices builds the permutation matrix for an index vector. The
// vector holds 1-based observation indices, as produced by Tree.Read on trees
// built over observations 1..N.
func MatrixFromIndices(perm []int) *Matrix {
	rows := make([]int, len(perm))
	for i, v := range perm {
		rows[i] = v - 1
	}
	return &Matrix{rows: rows}
}

// Size returns N, the number of observations the matrix permutes.
func (m *Matrix) Size() int {
	return len(m.rows)
}

// Indices returns the matrix back in index-vector form (1-based).
func (m *Matrix) Indices() []int {
	perm := make([]int, len(m.rows))
	for i, src := range m.rows {
		perm[i] = src + 1
	}
	return perm
}

// Apply multiplies the matrix with a column vector: out[i] = v[rows[i]].
// The vector length must equal Size.
func (m *Matrix) Apply(v []float64) ([]float64, error) {
	if len(v) != len(m.rows) {
		return nil, perrors.New(perrors.ErrCodeInvalidLength, "vector length %d does not match permutation size %d", len(v), len(m.rows))
	}
	out := make([]float64, len(v))
	for i, src := range m.rows {
		out[i] = v[src]
	}
	return out, nil
}

// Dense returns the full N×N 0/1 matrix. Intended for tests and debugging;
// real consumers should keep the sparse form.
func (m *Matrix) Dense() [][]int {
	n := len(m.rows)
	dense := make([][]int, n)
	for i, src := range m.rows {
		dense[i] = make([]int, n)
		dense[i][src] = 1
	}
	return dense
}
