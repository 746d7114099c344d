package shuftree

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	perrors "github.com/gllmflndn/palm/pkg/errors"
)

// exhaustiveWarnThreshold is the computed maximum above which exhaustive
// enumeration triggers an advisory warning.
const exhaustiveWarnThreshold = 100000

// Options configures a Sample call.
type Options struct {
	// Count is the number of permutations to produce. Zero means all
	// distinct tree-consistent permutations (exhaustive enumeration).
	Count int

	// WithReplacement selects conditional Monte Carlo sampling: draws are
	// independent and duplicates are permitted. Sampling also falls back to
	// replacement whenever Count exceeds the maximum number of distinct
	// permutations.
	WithReplacement bool

	// AsMatrices converts each draw to an explicit permutation-matrix
	// representation instead of a raw index vector.
	AsMatrices bool

	// MaxPerms is the number of distinct tree-consistent permutations, if
	// the caller already knows it. Zero means "compute it from the tree".
	MaxPerms int

	// NeedRestore marks that the caller will consume Result.Restore to keep
	// an external sign-flip draw sequence correspondent with this one. When
	// neither NeedRestore nor MaxPerms is set, Count is silently clamped to
	// the computed maximum; setting either preserves the requested draw
	// count exactly.
	NeedRestore bool

	// RNG is the random source for Monte Carlo draws. Nil selects a
	// deterministic default stream (see NewRNG).
	RNG *rand.Rand

	// Logger receives the advisory warnings. Nil selects log.Default().
	Logger *log.Logger
}

// Result holds the output of a Sample call.
type Result struct {
	// Perms maps draw index to permutation (draw 0 is always the identity
	// arrangement of the tree's indices). Nil when AsMatrices is set.
	Perms [][]int

	// Matrices holds the permutation-operator form of each draw. Nil unless
	// AsMatrices is set.
	Matrices []*Matrix

	// Restore is the index permutation (0-based slice positions) that sorts
	// the first draw into strictly increasing order; it has already been
	// applied to every draw. An external sign-flip walk must apply the same
	// permutation to its own output to stay correspondent.
	Restore []int
}

// Sample produces a set of tree-consistent permutations of the observations
// held by the tree's leaves. The first draw is always the identity (the
// tree's canonical observation order); remaining draws come from exhaustive
// enumeration or Monte Carlo sampling depending on Options.
//
// Sample clones the tree up front: the caller's tree is never mutated.
//
// The strategy selection:
//   - Count == 0, or Count equals the maximum: exhaustive enumeration via
//     repeated Advance calls.
//   - WithReplacement, or Count exceeds the maximum: independent random
//     draws; duplicates permitted.
//   - otherwise: random draws with rejection of any candidate equal to a
//     previously accepted draw.
//
// Two advisory conditions are surfaced as warnings, never as errors: an
// exhaustive enumeration whose computed maximum exceeds 100,000, and
// without-replacement sampling asked for more than half of the computed
// maximum. Both fire only when the caller did not supply MaxPerms.
//
// The only failure mode is input validation: a negative Count.
func Sample(t *Tree, opts Options) (*Result, error) {
	if opts.Count < 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidCount, "requested permutation count must be non-negative, got %d", opts.Count)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	rng := opts.RNG
	if rng == nil {
		rng = NewRNG(defaultSeed)
	}

	work := t.Clone()
	work.Reset()

	maxSupplied := opts.MaxPerms > 0
	maxP := opts.MaxPerms
	if !maxSupplied {
		maxP = work.MaxPerms()
	}

	count := opts.Count
	if !maxSupplied && !opts.NeedRestore && count > maxP {
		// Fast path: the caller only wants the permutation set, so there is
		// no point drawing more than the number of distinct arrangements.
		// Skipped when the restore index is requested or MaxPerms was given,
		// since then the draw count is part of the caller's contract.
		count = maxP
	}

	nP := count
	exhaustive := count == 0 || count == maxP
	if exhaustive {
		nP = maxP
	}

	perms := make([][]int, 0, nP)
	perms = append(perms, work.Read())

	switch {
	case nP <= 1:
		// Single permutation: the untouched identity, no mutation at all.

	case exhaustive:
		if !maxSupplied && maxP > exhaustiveWarnThreshold {
			logger.Warn("exhaustive enumeration of a large permutation space", "max", maxP)
		}
		for len(perms) < nP && work.Advance() {
			perms = append(perms, work.Read())
		}

	case opts.WithReplacement || count > maxP:
		for len(perms) < nP {
			work.Randomize(rng)
			perms = append(perms, work.Read())
		}

	default:
		if !maxSupplied && count > maxP/2 {
			logger.Warn("sampling without replacement close to the permutation space size; rejection sampling may be slow", "count", count, "max", maxP)
		}
		seen := make(map[string]bool, nP)
		seen[permKey(perms[0])] = true
		for len(perms) < nP {
			work.Randomize(rng)
			p := work.Read()
			key := permKey(p)
			if seen[key] {
				continue
			}
			seen[key] = true
			perms = append(perms, p)
		}
	}

	// Tree branch grouping can make the identity draw differ from strictly
	// increasing order. Sorting every draw by the first draw's values
	// restores the canonical observation ordering.
	restore := RestoreIndex(perms[0])
	for i, p := range perms {
		perms[i] = applyIndex(p, restore)
	}

	result := &Result{Restore: restore}
	if opts.AsMatrices {
		result.Matrices = make([]*Matrix, len(perms))
		for i, p := range perms {
			result.Matrices[i] = MatrixFromIndices(p)
		}
	} else {
		result.Perms = perms
	}
	return result, nil
}

// RestoreIndex computes the index permutation (0-based positions) that sorts
// the given draw into strictly increasing order. Applying it to the draw it
// was computed from yields the canonical observation ordering.
func RestoreIndex(first []int) []int {
	idx := seq(len(first))
	slices.SortStableFunc(idx, func(a, b int) int {
		return first[a] - first[b]
	})
	return idx
}

// applyIndex returns the permutation p rearranged by the index permutation
// idx: out[i] = p[idx[i]].
func applyIndex(p, idx []int) []int {
	out := make([]int, len(p))
	for i, src := range idx {
		out[i] = p[src]
	}
	return out
}

// permKey builds a map key identifying a permutation exactly.
func permKey(p []int) string {
	var b strings.Builder
	b.Grow(len(p) * 3)
	for i, v := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}
