package rewrite

import (
	"context"

	"github.com/vaibhavkarve/graphsat/pkg/mhgraph"
	"github.com/vaibhavkarve/graphsat/pkg/sat"
	"github.com/vaibhavkarve/graphsat/pkg/sxpr"
)

// DecomposeUptoLevel unfolds the decomposition of a graph into an
// s-expression, stopping after the given number of rewrite levels.  Each
// level replaces a graph term with the conjunction, over all 2-partitions
// of the link at a maximum-degree vertex, of sphere∧hyp1 ∨ sphere∧hyp2.
// Terms that simplification settles become boolean terms; terms at depth
// zero stay as graph terms to be decided directly.
func (d *Decomposer) DecomposeUptoLevel(ctx context.Context, g mhgraph.MHGraph,
	levels int) (*sxpr.SatSxpr, error) {
	term, err := d.unfold(ctx, g, levels)
	if err != nil {
		return nil, err
	}

	return sxpr.NewAnd(term), nil
}

func (d *Decomposer) unfold(ctx context.Context, g mhgraph.MHGraph,
	levels int) (sxpr.Term, error) {
	if err := ctx.Err(); err != nil {
		return sxpr.Term{}, err
	}

	if levels <= 0 {
		return sxpr.GraphTerm(g), nil
	}

	simp, err := sat.SimplifyLeavesAndLoops(ctx, g)
	if err != nil {
		return sxpr.Term{}, err
	}

	if simp.Decided {
		return sxpr.BoolTerm(simp.Verdict), nil
	}

	anchor := mhgraph.PickMaxDegreeVertex(simp.Graph)
	sphere := mhgraph.NewMHGraph(mhgraph.Sphere(simp.Graph, anchor)...)

	partitions := twoPartitions(mhgraph.Link(simp.Graph, anchor))
	if len(partitions) == 0 {
		return sxpr.Term{}, ErrDegenerateDecomposition
	}

	terms := make([]sxpr.Term, 0, len(partitions))

	for _, partition := range partitions {
		half1, err := d.unfold(ctx,
			mhgraph.Union(sphere, mhgraph.NewMHGraph(partition[0]...)), levels-1)
		if err != nil {
			return sxpr.Term{}, err
		}

		half2, err := d.unfold(ctx,
			mhgraph.Union(sphere, mhgraph.NewMHGraph(partition[1]...)), levels-1)
		if err != nil {
			return sxpr.Term{}, err
		}

		terms = append(terms, sxpr.NestedTerm(sxpr.NewOr(half1, half2)))
	}

	return sxpr.NestedTerm(sxpr.NewAnd(terms...)), nil
}

// DecideSxpr evaluates a decomposition s-expression to a verdict, deciding
// the remaining graph terms with this Decomposer's CNF checker.
func (d *Decomposer) DecideSxpr(ctx context.Context, s *sxpr.SatSxpr) (bool, error) {
	return s.Reduce(ctx, d.satcheck)
}
