package sxpr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaibhavkarve/graphsat/pkg/mhgraph"
)

func TestGenericReduce(t *testing.T) {
	sum := Sxpr[int, int]{
		Op:    func(acc, n int) int { return acc + n },
		Terms: []int{1, 2, 3, 4},
		Init:  0,
	}
	assert.Equal(t, 10, sum.Reduce())

	concat := Sxpr[string, string]{
		Op:    func(acc, s string) string { return acc + s },
		Terms: []string{"a", "b", "c"},
		Init:  "",
	}
	assert.Equal(t, "abc", concat.Reduce())
}

func TestOpIdentity(t *testing.T) {
	assert.True(t, SatAnd.identity())
	assert.False(t, SatOr.identity())
}

func failingChecker(t *testing.T) Checker {
	t.Helper()

	return func(ctx context.Context, g mhgraph.MHGraph) (bool, error) {
		t.Fatalf("checker called for %v", g)
		return false, nil
	}
}

func constChecker(verdict bool) Checker {
	return func(ctx context.Context, g mhgraph.MHGraph) (bool, error) {
		return verdict, nil
	}
}

func TestReduceBoolTerms(t *testing.T) {
	ctx := context.Background()

	verdict, err := NewAnd(BoolTerm(true), BoolTerm(true)).Reduce(ctx, failingChecker(t))
	require.NoError(t, err)
	assert.True(t, verdict)

	verdict, err = NewAnd(BoolTerm(true), BoolTerm(false)).Reduce(ctx, failingChecker(t))
	require.NoError(t, err)
	assert.False(t, verdict)

	verdict, err = NewOr(BoolTerm(false), BoolTerm(true)).Reduce(ctx, failingChecker(t))
	require.NoError(t, err)
	assert.True(t, verdict)

	// Empty expressions evaluate to the operator identity.
	verdict, err = NewAnd().Reduce(ctx, failingChecker(t))
	require.NoError(t, err)
	assert.True(t, verdict)

	verdict, err = NewOr().Reduce(ctx, failingChecker(t))
	require.NoError(t, err)
	assert.False(t, verdict)
}

func TestReduceShortCircuits(t *testing.T) {
	ctx := context.Background()
	g, err := mhgraph.Parse("[[1,2]]")
	require.NoError(t, err)

	// A false conjunct makes the trailing graph term irrelevant: the
	// checker must never run.
	verdict, err := NewAnd(BoolTerm(false), GraphTerm(g)).Reduce(ctx, failingChecker(t))
	require.NoError(t, err)
	assert.False(t, verdict)

	verdict, err = NewOr(BoolTerm(true), GraphTerm(g)).Reduce(ctx, failingChecker(t))
	require.NoError(t, err)
	assert.True(t, verdict)
}

func TestReduceGraphTerms(t *testing.T) {
	ctx := context.Background()
	g, err := mhgraph.Parse("[[1,2]]")
	require.NoError(t, err)

	verdict, err := NewAnd(GraphTerm(g), BoolTerm(true)).Reduce(ctx, constChecker(true))
	require.NoError(t, err)
	assert.True(t, verdict)

	verdict, err = NewAnd(GraphTerm(g)).Reduce(ctx, constChecker(false))
	require.NoError(t, err)
	assert.False(t, verdict)
}

func TestReduceNested(t *testing.T) {
	ctx := context.Background()

	// (false ∨ (true ∧ (false ∨ true))) = true
	inner := NewOr(BoolTerm(false), BoolTerm(true))
	middle := NewAnd(BoolTerm(true), NestedTerm(inner))
	outer := NewOr(BoolTerm(false), NestedTerm(middle))

	verdict, err := outer.Reduce(ctx, failingChecker(t))
	require.NoError(t, err)
	assert.True(t, verdict)
}

func TestReduceDeepNestingDoesNotRecurse(t *testing.T) {
	ctx := context.Background()

	// Build a chain 100000 levels deep; an explicit work stack must
	// handle it without overflowing the goroutine stack.
	expr := NewAnd(BoolTerm(true))
	for i := 0; i < 100000; i++ {
		expr = NewAnd(NestedTerm(expr))
	}

	verdict, err := expr.Reduce(ctx, failingChecker(t))
	require.NoError(t, err)
	assert.True(t, verdict)
}

func TestReduceCheckerError(t *testing.T) {
	ctx := context.Background()
	g, err := mhgraph.Parse("[[1,2]]")
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = NewAnd(GraphTerm(g)).Reduce(ctx,
		func(ctx context.Context, g mhgraph.MHGraph) (bool, error) {
			return false, boom
		})
	assert.ErrorIs(t, err, boom)
}

func TestReduceCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnd(BoolTerm(true)).Reduce(ctx, constChecker(true))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestString(t *testing.T) {
	g, err := mhgraph.Parse("[[1,2]]")
	require.NoError(t, err)

	expr := NewAnd(BoolTerm(true), GraphTerm(g), NestedTerm(NewOr(BoolTerm(false))))
	assert.Equal(t, "[⊤ ∧ (1,2) ∧ [⊥]]", expr.String())

	assert.Equal(t, "[⊤]", NewAnd().String())
	assert.Equal(t, "[⊥]", NewOr().String())
}
