package rewrite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaibhavkarve/graphsat/pkg/mhgraph"
	"github.com/vaibhavkarve/graphsat/pkg/sat"
)

func graph(t *testing.T, line string) mhgraph.MHGraph {
	t.Helper()

	g, err := mhgraph.Parse(line)
	require.NoError(t, err)

	return g
}

const (
	k4           = "[[1,2],[1,3],[1,4],[2,3],[2,4],[3,4]]"
	fourParallel = "[[1,2],[1,2],[1,2],[1,2]]"
	triangle     = "[[1,2],[1,3],[2,3]]"
	butterfly    = "[[1,2],[1,3],[2,3],[3,4],[3,5],[4,5]]"
	// A doubled 3-edge over a full triangle, equisatisfiable to four
	// parallel edges.
	thickTriangle = "[[1,2,3],[1,2,3],[1,2],[1,3],[2,3]]"
)

func TestDecideCompleteGraphOnFourVertices(t *testing.T) {
	verdict, err := Decide(context.Background(), graph(t, k4))
	require.NoError(t, err)
	assert.False(t, verdict)
}

func TestDecideFourParallelEdges(t *testing.T) {
	verdict, err := Decide(context.Background(), graph(t, fourParallel))
	require.NoError(t, err)
	assert.False(t, verdict)
}

func TestDecideSatisfiableGraphs(t *testing.T) {
	ctx := context.Background()

	for _, line := range []string{
		"[[1,2]]",
		triangle,
		"[[1,2],[2,3],[3,4],[1,4]]",
		"[[1,2,3],[1,2],[2,3]]",
	} {
		verdict, err := Decide(ctx, graph(t, line))
		require.NoError(t, err, line)
		assert.True(t, verdict, line)
	}
}

func TestDecideButterfly(t *testing.T) {
	// Two triangles sharing a vertex support a CNF in which each triangle
	// forces the shared variable to a different value.
	verdict, err := Decide(context.Background(), graph(t, butterfly))
	require.NoError(t, err)
	assert.False(t, verdict)
}

func TestDecideThickTriangle(t *testing.T) {
	// Unsatisfiable only once the entangled check insists that every
	// hyp2-CNF rescue a failing sphere∧hyp1 pair.
	verdict, err := Decide(context.Background(), graph(t, thickTriangle))
	require.NoError(t, err)
	assert.False(t, verdict)
}

func TestDecompositionAgreesWithDirectChecks(t *testing.T) {
	ctx := context.Background()

	// Every decision procedure must agree on small graphs.
	for _, line := range []string{
		"[[1,2]]",
		"[[1,2],[1,2]]",
		"[[1,2],[1,2],[1,2]]",
		fourParallel,
		triangle,
		"[[1,2],[1,3],[2,3],[1,2]]",
		"[[1,2,3],[1,4],[2,4],[3,4]]",
		butterfly,
		thickTriangle,
		k4,
		"[[1,2],[1,3],[1,4],[2,3],[2,4],[3,4],[4,5]]",
	} {
		g := graph(t, line)

		brute, err := sat.MHGraphBruteForceSatCheck(ctx, g)
		require.NoError(t, err, line)

		solver, err := sat.MHGraphSolverSatCheck(ctx, g)
		require.NoError(t, err, line)

		decomposed, err := Decide(ctx, g)
		require.NoError(t, err, line)

		assert.Equal(t, brute, solver, line)
		assert.Equal(t, brute, decomposed, line)
	}
}

func TestDecomposeWithBruteForceChecker(t *testing.T) {
	d := NewDecomposer()
	d.Check = sat.CNFBruteForceSatCheck

	verdict, err := d.Decompose(context.Background(), graph(t, k4))
	require.NoError(t, err)
	assert.False(t, verdict)

	verdict, err = d.Decompose(context.Background(), graph(t, triangle))
	require.NoError(t, err)
	assert.True(t, verdict)
}

func TestDecomposeMemoises(t *testing.T) {
	d := NewDecomposer()
	ctx := context.Background()
	g := graph(t, triangle)

	first, err := d.Decompose(ctx, g)
	require.NoError(t, err)

	second, err := d.Decompose(ctx, g)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	d.mu.Lock()
	_, cached := d.memo[g.String()]
	d.mu.Unlock()
	assert.True(t, cached)
}

func TestDecomposeAtVertexDegenerate(t *testing.T) {
	d := NewDecomposer()

	// Vertex 3 has a single incident edge, so its link has no
	// 2-partition.
	_, err := d.DecomposeAtVertex(context.Background(),
		graph(t, "[[1,2],[2,3]]"), 3)
	assert.ErrorIs(t, err, ErrDegenerateDecomposition)
}

func TestDecomposeCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Decide(ctx, graph(t, k4))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHyperbolicOnly(t *testing.T) {
	d := NewDecomposer()
	d.HyperbolicOnly = true

	// Balanced partitions alone still refute the complete graph.
	verdict, err := d.Decompose(context.Background(), graph(t, k4))
	require.NoError(t, err)
	assert.False(t, verdict)
}

func TestTwoPartitions(t *testing.T) {
	link := []mhgraph.HEdge{{1}, {2}, {3}}

	parts := twoPartitions(link)
	require.Len(t, parts, 3)

	for _, p := range parts {
		assert.NotEmpty(t, p[0])
		assert.NotEmpty(t, p[1])
		assert.Len(t, append(p[0], p[1]...), 3)

		// The first link hyperedge is pinned, so no partition repeats.
		assert.Equal(t, mhgraph.HEdge{1}, p[0][0])
	}

	assert.Nil(t, twoPartitions(link[:1]))
	assert.Nil(t, twoPartitions(nil))
}

func TestDecomposeUptoLevel(t *testing.T) {
	ctx := context.Background()
	d := NewDecomposer()

	// At level zero the graph survives as a single term.
	expr, err := d.DecomposeUptoLevel(ctx, graph(t, triangle), 0)
	require.NoError(t, err)

	verdict, err := d.DecideSxpr(ctx, expr)
	require.NoError(t, err)
	assert.True(t, verdict)

	// One level of unfolding still decides correctly.
	expr, err = d.DecomposeUptoLevel(ctx, graph(t, k4), 1)
	require.NoError(t, err)

	verdict, err = d.DecideSxpr(ctx, expr)
	require.NoError(t, err)
	assert.False(t, verdict)
}
