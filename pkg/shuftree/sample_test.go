package shuftree

import (
	"bytes"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	perrors "github.com/gllmflndn/palm/pkg/errors"
)

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{})
}

func TestSampleFirstDrawIsIdentity(t *testing.T) {
	tree := Branch(
		Branch(Leaf(1), Leaf(2), Leaf(3)),
		Branch(Leaf(4), Leaf(5), Leaf(6)),
	)

	for _, count := range []int{0, 1, 5} {
		res, err := Sample(tree, Options{Count: count, RNG: NewRNG(11), Logger: quietLogger()})
		if err != nil {
			t.Fatalf("Sample(count=%d): %v", count, err)
		}
		if !slices.Equal(res.Perms[0], []int{1, 2, 3, 4, 5, 6}) {
			t.Errorf("count=%d: first draw should be identity, got %v", count, res.Perms[0])
		}
	}
}

func TestSampleSingleDraw(t *testing.T) {
	tree := Branch(Leaf(1), Leaf(2), Leaf(3))

	res, err := Sample(tree, Options{Count: 1, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Perms) != 1 {
		t.Fatalf("expected 1 draw, got %d", len(res.Perms))
	}
}

func TestSampleExhaustive(t *testing.T) {
	tree := Branch(
		Branch(Leaf(1), Leaf(2)),
		Branch(Leaf(3), Leaf(4)),
	)

	res, err := Sample(tree, Options{Count: 0, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Perms) != 8 {
		t.Fatalf("expected 8 draws, got %d", len(res.Perms))
	}
	assertAllDistinct(t, res.Perms)
	for _, p := range res.Perms {
		assertBijection(t, p)
	}
}

func TestSampleCountEqualsMaxIsExhaustive(t *testing.T) {
	tree := Branch(Leaf(1), Leaf(2), Leaf(3))

	res, err := Sample(tree, Options{Count: 6, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Perms) != 6 {
		t.Fatalf("expected 6 draws, got %d", len(res.Perms))
	}
	assertAllDistinct(t, res.Perms)
}

func TestSampleWithoutReplacement(t *testing.T) {
	tree := Branch(Leaf(1), Leaf(2), Leaf(3), Leaf(4), Leaf(5), Leaf(6))

	res, err := Sample(tree, Options{Count: 3, RNG: NewRNG(1234), Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Perms) != 3 {
		t.Fatalf("expected 3 draws, got %d", len(res.Perms))
	}
	assertAllDistinct(t, res.Perms)
	if !slices.Equal(res.Perms[0], []int{1, 2, 3, 4, 5, 6}) {
		t.Errorf("first draw should be identity, got %v", res.Perms[0])
	}
}

func TestSampleWithReplacementPermitsDuplicates(t *testing.T) {
	// Only 2 distinct arrangements exist, so 8 draws with replacement must
	// repeat; the engine must not reject them and must stop after exactly 8
	// randomizations.
	tree := Branch(Leaf(1), Leaf(2))

	res, err := Sample(tree, Options{
		Count:           8,
		WithReplacement: true,
		NeedRestore:     true, // skip the clamp so all 8 draws happen
		RNG:             NewRNG(5),
		Logger:          quietLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Perms) != 8 {
		t.Fatalf("expected 8 draws, got %d", len(res.Perms))
	}
	seen := make(map[string]int)
	for _, p := range res.Perms {
		seen[permKey(p)]++
	}
	if len(seen) > 2 {
		t.Errorf("expected at most 2 distinct draws, got %d", len(seen))
	}
}

func TestSampleCountAboveMaxFallsBackToReplacement(t *testing.T) {
	tree := Branch(Leaf(1), Leaf(2))

	res, err := Sample(tree, Options{
		Count:    5,
		MaxPerms: 2,
		RNG:      NewRNG(3),
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Perms) != 5 {
		t.Fatalf("expected 5 draws (replacement fallback), got %d", len(res.Perms))
	}
}

func TestSampleClampsCountWhenOnlyPermsWanted(t *testing.T) {
	// No MaxPerms, no NeedRestore: a count above the maximum is clamped down
	// and the run becomes exhaustive.
	tree := Branch(Leaf(1), Leaf(2), Leaf(3))

	res, err := Sample(tree, Options{Count: 50, RNG: NewRNG(3), Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Perms) != 6 {
		t.Fatalf("expected clamp to 6 draws, got %d", len(res.Perms))
	}
	assertAllDistinct(t, res.Perms)
}

func TestSampleNoClampWhenRestoreRequested(t *testing.T) {
	tree := Branch(Leaf(1), Leaf(2), Leaf(3))

	res, err := Sample(tree, Options{
		Count:       50,
		NeedRestore: true,
		RNG:         NewRNG(3),
		Logger:      quietLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Perms) != 50 {
		t.Fatalf("expected all 50 requested draws, got %d", len(res.Perms))
	}
}

func TestSampleRestoreIndex(t *testing.T) {
	// Branch grouping puts observations 3,4 ahead of 1,2 in the canonical
	// reading; the restore index must sort the first draw back to 1..4 and be
	// applied to every draw.
	tree := FixedBranch(
		Branch(Leaf(3), Leaf(4)),
		Branch(Leaf(1), Leaf(2)),
	)

	res, err := Sample(tree, Options{Count: 0, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}

	positions := slices.Clone(res.Restore)
	slices.Sort(positions)
	for i, v := range positions {
		if v != i {
			t.Fatalf("restore index %v is not a permutation of positions", res.Restore)
		}
	}

	if !slices.Equal(res.Perms[0], []int{1, 2, 3, 4}) {
		t.Errorf("restored first draw should be 1..4, got %v", res.Perms[0])
	}
	for _, p := range res.Perms {
		assertBijection(t, p)
	}
}

func TestSampleDeterministicWithSeed(t *testing.T) {
	build := func() (*Result, error) {
		tree := Branch(
			Branch(Leaf(1), Leaf(2), Leaf(3)),
			Branch(Leaf(4), Leaf(5), Leaf(6)),
		)
		return Sample(tree, Options{Count: 10, WithReplacement: true, RNG: NewRNG(42), Logger: quietLogger()})
	}

	first, err := build()
	if err != nil {
		t.Fatal(err)
	}
	second, err := build()
	if err != nil {
		t.Fatal(err)
	}

	for i := range first.Perms {
		if !slices.Equal(first.Perms[i], second.Perms[i]) {
			t.Errorf("draw %d differs between seeded runs: %v vs %v", i, first.Perms[i], second.Perms[i])
		}
	}
}

func TestSampleDoesNotMutateCallerTree(t *testing.T) {
	tree := Branch(Leaf(1), Leaf(2), Leaf(3))

	if _, err := Sample(tree, Options{Count: 4, RNG: NewRNG(8), Logger: quietLogger()}); err != nil {
		t.Fatal(err)
	}

	if got := tree.Read(); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("caller tree was mutated: %v", got)
	}
}

func TestSampleNegativeCount(t *testing.T) {
	tree := Branch(Leaf(1), Leaf(2))

	_, err := Sample(tree, Options{Count: -1, Logger: quietLogger()})
	if err == nil {
		t.Fatal("expected an error for negative count")
	}
	if !perrors.Is(err, perrors.ErrCodeInvalidCount) {
		t.Errorf("expected ErrCodeInvalidCount, got %v", err)
	}
}

func TestSampleMatrices(t *testing.T) {
	tree := Branch(Leaf(1), Leaf(2), Leaf(3))

	res, err := Sample(tree, Options{Count: 0, AsMatrices: true, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if res.Perms != nil {
		t.Error("raw permutations should be nil when matrices are requested")
	}
	if len(res.Matrices) != 6 {
		t.Fatalf("expected 6 matrices, got %d", len(res.Matrices))
	}
	if got := res.Matrices[0].Indices(); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("first matrix should encode identity, got %v", got)
	}
}

func TestSampleWarnsOnNearExhaustiveRejection(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	tree := Branch(Leaf(1), Leaf(2), Leaf(3))
	if _, err := Sample(tree, Options{Count: 5, RNG: NewRNG(2), Logger: logger}); err != nil {
		t.Fatal(err)
	}

	if !bytes.Contains(buf.Bytes(), []byte("rejection sampling")) {
		t.Errorf("expected a rejection-sampling advisory, log was: %s", buf.String())
	}
}

func TestSampleRestoreIndexHelper(t *testing.T) {
	restore := RestoreIndex([]int{3, 1, 2})

	if !slices.Equal(restore, []int{1, 2, 0}) {
		t.Errorf("expected [1 2 0], got %v", restore)
	}
	if got := applyIndex([]int{3, 1, 2}, restore); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("expected sorted draw, got %v", got)
	}
}
