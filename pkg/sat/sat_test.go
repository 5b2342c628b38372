package sat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaibhavkarve/graphsat/pkg/cnf"
	"github.com/vaibhavkarve/graphsat/pkg/mhgraph"
)

func graph(t *testing.T, line string) mhgraph.MHGraph {
	t.Helper()

	g, err := mhgraph.Parse(line)
	require.NoError(t, err)

	return g
}

func hedge(t *testing.T, vs ...mhgraph.Vertex) mhgraph.HEdge {
	t.Helper()

	h, err := mhgraph.NewHEdge(vs...)
	require.NoError(t, err)

	return h
}

func collectCNFs(it *CNFIterator) []cnf.CNF {
	var out []cnf.CNF

	for {
		f, ok := it.Next()
		if !ok {
			return out
		}

		out = append(out, f)
	}
}

func TestLitsFromVertex(t *testing.T) {
	pos, neg := LitsFromVertex(5)

	assert.Equal(t, cnf.Lit(5), pos)
	assert.Equal(t, cnf.Lit(-5), neg)
	assert.Equal(t, pos, cnf.Neg(neg))
}

func TestClausesFromHEdge(t *testing.T) {
	// A hyperedge of size k supports exactly 2^k clauses.
	assert.Len(t, ClausesFromHEdge(hedge(t, 4)), 2)
	assert.Len(t, ClausesFromHEdge(hedge(t, 1, 2)), 4)
	assert.Len(t, ClausesFromHEdge(hedge(t, 1, 2, 3)), 8)

	clauses := ClausesFromHEdge(hedge(t, 1, 2))

	seen := make(map[string]bool)
	for _, c := range clauses {
		seen[c.String()] = true
		assert.Len(t, c, 2)
	}

	assert.Len(t, seen, 4)
}

func TestCNFsFromHEdge(t *testing.T) {
	it, err := CNFsFromHEdge(hedge(t, 1, 2), 2)
	require.NoError(t, err)

	// C(4, 2) = 6 supported CNFs, each with two clauses.
	cnfs := collectCNFs(it)
	assert.Len(t, cnfs, 6)

	for _, f := range cnfs {
		assert.Len(t, f, 2)
	}

	_, err = CNFsFromHEdge(hedge(t, 1, 2), 0)
	assert.Error(t, err)

	// Multiplicity beyond the palette supports nothing.
	it, err = CNFsFromHEdge(hedge(t, 1, 2), 5)
	require.NoError(t, err)
	assert.Empty(t, collectCNFs(it))
}

func TestCNFsFromMHGraphIsRestartable(t *testing.T) {
	g := graph(t, "[[1,2],[1,3]]")

	first := collectCNFs(CNFsFromMHGraph(g))
	second := collectCNFs(CNFsFromMHGraph(g))

	require.Equal(t, len(first), len(second))
	assert.Equal(t, 16, len(first))

	for i := range first {
		assert.True(t, first[i].Equal(second[i]))
	}
}

func TestNumberOfCNFs(t *testing.T) {
	assert.Equal(t, 4, NumberOfCNFs(graph(t, "[[1,2]]")))
	assert.Equal(t, 6, NumberOfCNFs(graph(t, "[[1,2],[1,2]]")))
	assert.Equal(t, 16, NumberOfCNFs(graph(t, "[[1,2],[1,3]]")))

	// Over-saturated graphs support no CNF at all.
	assert.Equal(t, 0, NumberOfCNFs(graph(t, "[[1,2],[1,2],[1,2],[1,2],[1,2]]")))
}

func TestOversaturated(t *testing.T) {
	assert.False(t, Oversaturated(graph(t, "[[1,2],[1,2],[1,2],[1,2]]")))
	assert.True(t, Oversaturated(graph(t, "[[1,2],[1,2],[1,2],[1,2],[1,2]]")))
}

func TestMHGraphFromCNF(t *testing.T) {
	f := cnf.NewCNF(
		cnf.NewClause(cnf.Lit(1), cnf.Lit(-2)),
		cnf.NewClause(cnf.Lit(-1), cnf.Lit(2)),
		cnf.NewClause(cnf.Lit(2), cnf.Lit(3)),
	)

	g, err := MHGraphFromCNF(f)
	require.NoError(t, err)

	// Two clauses on {1,2} accumulate multiplicity.
	assert.Equal(t, 2, g.Multiplicity(hedge(t, 1, 2)))
	assert.Equal(t, 1, g.Multiplicity(hedge(t, 2, 3)))

	_, err = MHGraphFromCNF(cnf.TrueCNF)
	assert.Error(t, err)

	_, err = MHGraphFromCNF(cnf.FalseCNF)
	assert.Error(t, err)
}

func TestGenerateAssignments(t *testing.T) {
	f := cnf.NewCNF(cnf.NewClause(cnf.Lit(1), cnf.Lit(2)))

	it, err := GenerateAssignments(f)
	require.NoError(t, err)

	count := 0

	for {
		a, ok := it.Next()
		if !ok {
			break
		}

		assert.Len(t, a, 2)

		count++
	}

	assert.Equal(t, 4, count)

	// A trivial formula has the single empty assignment.
	it, err = GenerateAssignments(cnf.TrueCNF)
	require.NoError(t, err)

	a, ok := it.Next()
	assert.True(t, ok)
	assert.Empty(t, a)

	_, ok = it.Next()
	assert.False(t, ok)
}

func TestCNFSatChecksAgree(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		f    cnf.CNF
		want bool
	}{
		{"true", cnf.TrueCNF, true},
		{"false", cnf.FalseCNF, false},
		{"unit", cnf.NewCNF(cnf.NewClause(cnf.Lit(1))), true},
		{"contradiction", cnf.NewCNF(
			cnf.NewClause(cnf.Lit(1)),
			cnf.NewClause(cnf.Lit(-1)),
		), false},
		{"two vars", cnf.NewCNF(
			cnf.NewClause(cnf.Lit(1), cnf.Lit(2)),
			cnf.NewClause(cnf.Lit(-1), cnf.Lit(2)),
			cnf.NewClause(cnf.Lit(1), cnf.Lit(-2)),
		), true},
		{"all four", cnf.NewCNF(
			cnf.NewClause(cnf.Lit(1), cnf.Lit(2)),
			cnf.NewClause(cnf.Lit(-1), cnf.Lit(2)),
			cnf.NewClause(cnf.Lit(1), cnf.Lit(-2)),
			cnf.NewClause(cnf.Lit(-1), cnf.Lit(-2)),
		), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			brute, err := CNFBruteForceSatCheck(ctx, tt.f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, brute)

			solver, err := CNFSolverSatCheck(ctx, tt.f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, solver)
		})
	}
}

func TestMHGraphSatChecks(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		g    mhgraph.MHGraph
		want bool
	}{
		{"single edge", graph(t, "[[1,2]]"), true},
		{"triangle", graph(t, "[[1,2],[1,3],[2,3]]"), true},
		{"four parallel edges", graph(t, "[[1,2],[1,2],[1,2],[1,2]]"), false},
		{"oversaturated", graph(t, "[[1,2],[1,2],[1,2],[1,2],[1,2]]"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			brute, err := MHGraphBruteForceSatCheck(ctx, tt.g)
			require.NoError(t, err)
			assert.Equal(t, tt.want, brute)

			solver, err := MHGraphSolverSatCheck(ctx, tt.g)
			require.NoError(t, err)
			assert.Equal(t, tt.want, solver)
		})
	}
}

func TestSatCheckCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MHGraphBruteForceSatCheck(ctx, graph(t, "[[1,2],[1,3]]"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimplifyLeaves(t *testing.T) {
	// A pendant edge is dropped.
	s := SimplifyLeaves(graph(t, "[[1,2],[1,3],[2,3],[3,4]]"))
	require.False(t, s.Decided)
	assert.True(t, s.Graph.Equal(graph(t, "[[1,2],[1,3],[2,3]]")))

	// A graph of only leaf edges is satisfiable outright.
	s = SimplifyLeaves(graph(t, "[[1,2]]"))
	assert.True(t, s.Decided)
	assert.True(t, s.Verdict)

	// A leafless graph is untouched.
	triangle := graph(t, "[[1,2],[1,3],[2,3]]")
	s = SimplifyLeaves(triangle)
	require.False(t, s.Decided)
	assert.True(t, s.Graph.Equal(triangle))
}

func TestSimplifyLoops(t *testing.T) {
	ctx := context.Background()

	// A double loop is unsatisfiable.
	doubled := mhgraph.NewMHGraph(hedge(t, 1), hedge(t, 1), hedge(t, 1, 2))

	s, err := SimplifyLoops(ctx, doubled)
	require.NoError(t, err)
	require.True(t, s.Decided)
	assert.False(t, s.Verdict)

	// A single loop projects the graph away from its vertex.
	looped := mhgraph.NewMHGraph(hedge(t, 1), hedge(t, 1, 2), hedge(t, 2, 3))

	s, err = SimplifyLoops(ctx, looped)
	require.NoError(t, err)
	require.False(t, s.Decided)
	assert.True(t, s.Graph.Equal(mhgraph.NewMHGraph(hedge(t, 2), hedge(t, 2, 3))))

	// A lone loop is satisfiable.
	s, err = SimplifyLoops(ctx, mhgraph.NewMHGraph(hedge(t, 7)))
	require.NoError(t, err)
	require.True(t, s.Decided)
	assert.True(t, s.Verdict)

	// A loopless graph is untouched.
	triangle := graph(t, "[[1,2],[1,3],[2,3]]")

	s, err = SimplifyLoops(ctx, triangle)
	require.NoError(t, err)
	require.False(t, s.Decided)
	assert.True(t, s.Graph.Equal(triangle))
}

func TestSimplifyLeavesAndLoops(t *testing.T) {
	ctx := context.Background()

	// A path collapses leaf by leaf to a verdict.
	s, err := SimplifyLeavesAndLoops(ctx, graph(t, "[[1,2],[2,3],[3,4]]"))
	require.NoError(t, err)
	require.True(t, s.Decided)
	assert.True(t, s.Verdict)

	// A triangle is already a fixed point.
	triangle := graph(t, "[[1,2],[1,3],[2,3]]")

	s, err = SimplifyLeavesAndLoops(ctx, triangle)
	require.NoError(t, err)
	require.False(t, s.Decided)
	assert.True(t, s.Graph.Equal(triangle))
}
