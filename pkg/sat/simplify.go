package sat

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vaibhavkarve/graphsat/pkg/mhgraph"
	"github.com/vaibhavkarve/graphsat/pkg/morphism"
)

// Simplification is the outcome of an equisatisfiable rewrite: either a
// decided verdict or a smaller graph to keep working on.
type Simplification struct {
	Decided bool
	Verdict bool
	Graph   mhgraph.MHGraph
}

func decided(verdict bool) Simplification {
	return Simplification{Decided: true, Verdict: verdict}
}

func reduced(g mhgraph.MHGraph) Simplification {
	return Simplification{Graph: g}
}

// SimplifyLeaves removes the hyperedges at a degree-one vertex, which is an
// equisatisfiable rewrite.  If every hyperedge hangs off the leaf the graph
// is satisfiable outright.
func SimplifyLeaves(g mhgraph.MHGraph) Simplification {
	leaf := mhgraph.PickMinDegreeVertex(g)
	if mhgraph.Degree(leaf, g) > 1 {
		return reduced(g)
	}

	sphere := mhgraph.Sphere(g, leaf)
	if len(sphere) == 0 {
		return decided(true)
	}

	return reduced(mhgraph.NewMHGraph(sphere...))
}

// doubleLoop is the forbidden pattern: two loops on a single vertex exhaust
// both polarities of its literal.
var doubleLoop = mhgraph.MHGraph{{HEdge: mhgraph.HEdge{1}, Count: 2}}

func hasDoubleLoop(ctx context.Context, g mhgraph.MHGraph) (bool, error) {
	_, found, err := morphism.SubgraphSearch(ctx, doubleLoop, g)
	return found, err
}

// supportsSingleLoop returns the lowest vertex carrying a loop, if any.
func supportsSingleLoop(g mhgraph.MHGraph) (mhgraph.Vertex, bool) {
	for _, v := range g.Vertices() {
		if g.Multiplicity(mhgraph.HEdge{v}) > 0 {
			return v, true
		}
	}

	return 0, false
}

// SimplifyLoops eliminates loops.  A double loop makes the graph
// unsatisfiable; a single loop at a vertex projects the graph away from
// that vertex, which is an equisatisfiable rewrite.
func SimplifyLoops(ctx context.Context, g mhgraph.MHGraph) (Simplification, error) {
	double, err := hasDoubleLoop(ctx, g)
	if err != nil {
		return Simplification{}, err
	}

	if double {
		log.Debugf("%v has a double loop, hence is unsatisfiable", g)
		return decided(false), nil
	}

	v, ok := supportsSingleLoop(g)
	if !ok {
		return reduced(g), nil
	}

	sphere := mhgraph.Sphere(g, v)
	link := mhgraph.Link(g, v)

	if len(sphere) == 0 && len(link) == 0 {
		// A lone loop with no double loops ruled out above.
		return decided(true), nil
	}

	projected := mhgraph.Union(mhgraph.NewMHGraph(sphere...), mhgraph.NewMHGraph(link...))
	log.Debugf("%v simplified to %v at the loop vertex %d", g, projected, v)

	return reduced(projected), nil
}

// SimplifyLeavesAndLoops interleaves leaf and loop elimination to a fixed
// point.  The result is equisatisfiable to the input graph.
func SimplifyLeavesAndLoops(ctx context.Context, g mhgraph.MHGraph) (Simplification, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Simplification{}, err
		}

		if s := SimplifyLeaves(g); s.Decided {
			return s, nil
		} else if !s.Graph.Equal(g) {
			g = s.Graph
			continue
		}

		s, err := SimplifyLoops(ctx, g)
		if err != nil || s.Decided {
			return s, err
		}

		if s.Graph.Equal(g) {
			return s, nil
		}

		g = s.Graph
	}
}
