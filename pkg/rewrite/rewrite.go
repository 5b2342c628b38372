// Package rewrite implements local graph rewriting: a multi-hypergraph is
// decided by decomposing it around a vertex into its sphere and all
// 2-partitions of its link, recursing on the strictly smaller pieces.
package rewrite

import (
	"context"
	"errors"
	"runtime"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vaibhavkarve/graphsat/pkg/cnf"
	"github.com/vaibhavkarve/graphsat/pkg/mhgraph"
	"github.com/vaibhavkarve/graphsat/pkg/sat"
)

// ErrDegenerateDecomposition indicates the anchor vertex has no link to
// partition, so no decomposition exists at that vertex.
var ErrDegenerateDecomposition = errors.New("link admits no 2-partition")

// errUnsatPartition aborts a parallel fan-out as soon as one partition term
// is unsatisfiable.
var errUnsatPartition = errors.New("partition term is unsatisfiable")

// Decomposer decides multi-hypergraph satisfiability by recursive
// decomposition.  Verdicts are memoised, so a Decomposer is cheap to reuse
// across related graphs and safe for concurrent use.
type Decomposer struct {
	// Check decides satisfiability of individual CNFs.
	Check sat.SatChecker
	// Parallel bounds the number of partition terms checked concurrently.
	Parallel int
	// HyperbolicOnly restricts the fan-out to balanced 2-partitions of
	// the link.
	HyperbolicOnly bool

	mu   sync.Mutex
	memo map[string]bool
}

// NewDecomposer returns a Decomposer backed by the external SAT solver.
func NewDecomposer() *Decomposer {
	return &Decomposer{
		Check:    sat.CNFSolverSatCheck,
		Parallel: runtime.NumCPU(),
		memo:     make(map[string]bool),
	}
}

// Decide reports whether a multi-hypergraph is satisfiable, using a fresh
// solver-backed Decomposer.
func Decide(ctx context.Context, g mhgraph.MHGraph) (bool, error) {
	return NewDecomposer().Decompose(ctx, g)
}

// satcheck decides a whole graph directly, without decomposing.
func (d *Decomposer) satcheck(ctx context.Context, g mhgraph.MHGraph) (bool, error) {
	return sat.MHGraphSatCheck(ctx, g, d.Check)
}

// Decompose decides satisfiability of a multi-hypergraph.  The graph is
// first simplified at leaves and loops; if no verdict falls out, it is
// decomposed at a maximum-degree vertex.
func (d *Decomposer) Decompose(ctx context.Context, g mhgraph.MHGraph) (bool, error) {
	key := g.String()

	d.mu.Lock()
	verdict, ok := d.memo[key]
	d.mu.Unlock()

	if ok {
		return verdict, nil
	}

	simp, err := sat.SimplifyLeavesAndLoops(ctx, g)
	if err != nil {
		return false, err
	}

	if simp.Decided {
		log.Debugf("%v decided %v by leaf and loop simplification", g, simp.Verdict)
		d.memoise(key, simp.Verdict)

		return simp.Verdict, nil
	}

	// The simplified graph has no loops and no leaves, so every vertex
	// has degree at least two.
	anchor := mhgraph.PickMaxDegreeVertex(simp.Graph)

	verdict, err = d.DecomposeAtVertex(ctx, simp.Graph, anchor)
	if err != nil {
		return false, err
	}

	d.memoise(key, verdict)

	return verdict, nil
}

func (d *Decomposer) memoise(key string, verdict bool) {
	d.mu.Lock()
	d.memo[key] = verdict
	d.mu.Unlock()
}

// DecomposeAtVertex decides a multi-hypergraph by decomposing at the given
// vertex.  The verdict is the conjunction, over all nonempty 2-partitions
// (hyp1, hyp2) of the link, of the satisfiability of sphere∧(hyp1∨hyp2).
func (d *Decomposer) DecomposeAtVertex(ctx context.Context, g mhgraph.MHGraph,
	v mhgraph.Vertex) (bool, error) {
	sphere := mhgraph.NewMHGraph(mhgraph.Sphere(g, v)...)
	link := mhgraph.Link(g, v)

	partitions := twoPartitions(link)
	if len(partitions) == 0 {
		return false, ErrDegenerateDecomposition
	}

	if d.HyperbolicOnly {
		partitions = balancedOnly(partitions)
	}

	if len(sphere) == 0 {
		// Star graph around v: each partition term reduces to a plain
		// disjunction of its halves.
		return d.allPartitions(ctx, partitions, func(ctx context.Context,
			hyp1, hyp2 mhgraph.MHGraph) (bool, error) {
			return d.eitherDecomposes(ctx, hyp1, hyp2)
		})
	}

	if sat.Oversaturated(sphere) {
		log.Debugf("sphere %v is over-saturated", sphere)
		return false, nil
	}

	return d.allPartitions(ctx, partitions, func(ctx context.Context,
		hyp1, hyp2 mhgraph.MHGraph) (bool, error) {
		return d.satcheckPartition(ctx, sphere, hyp1, hyp2)
	})
}

// allPartitions conjoins a per-partition check across the fan-out,
// stopping at the first unsatisfiable term.
func (d *Decomposer) allPartitions(ctx context.Context, partitions [][2][]mhgraph.HEdge,
	check func(ctx context.Context, hyp1, hyp2 mhgraph.MHGraph) (bool, error)) (bool, error) {
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(max(d.Parallel, 1))

	for _, partition := range partitions {
		hyp1 := mhgraph.NewMHGraph(partition[0]...)
		hyp2 := mhgraph.NewMHGraph(partition[1]...)

		grp.Go(func() error {
			satisfiable, err := check(ctx, hyp1, hyp2)
			if err != nil {
				return err
			}

			if !satisfiable {
				return errUnsatPartition
			}

			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		if errors.Is(err, errUnsatPartition) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (d *Decomposer) eitherDecomposes(ctx context.Context,
	hyp1, hyp2 mhgraph.MHGraph) (bool, error) {
	satisfiable, err := d.Decompose(ctx, hyp1)
	if err != nil || satisfiable {
		return satisfiable, err
	}

	return d.Decompose(ctx, hyp2)
}

// satcheckPartition decides one partition term sphere∧(hyp1∨hyp2).
func (d *Decomposer) satcheckPartition(ctx context.Context,
	sphere, hyp1, hyp2 mhgraph.MHGraph) (bool, error) {
	over1 := sat.Oversaturated(hyp1)
	over2 := sat.Oversaturated(hyp2)

	if over1 && over2 {
		log.Debugf("both %v and %v are over-saturated", hyp1, hyp2)
		return false, nil
	}

	if over1 {
		return d.Decompose(ctx, mhgraph.Union(sphere, hyp2))
	}

	if over2 {
		return d.Decompose(ctx, mhgraph.Union(sphere, hyp1))
	}

	// Heuristic: if either half is satisfiable together with the sphere
	// on its own, the entangled term certainly is.
	independent, err := d.eitherDecomposes(ctx,
		mhgraph.Union(sphere, hyp1), mhgraph.Union(sphere, hyp2))
	if err != nil {
		return false, err
	}

	if independent {
		return true, nil
	}

	return d.satcheckEntangled(ctx, sphere, hyp1, hyp2)
}

// satcheckEntangled decides a partition term exhaustively over the CNFs
// supported on its pieces.  The term is satisfiable iff for every
// sphere-CNF xs, hyp1-CNF xh1 and hyp2-CNF xh2, xs∧xh1 is satisfiable or
// xs∧xh2 is satisfiable.
func (d *Decomposer) satcheckEntangled(ctx context.Context,
	sphere, hyp1, hyp2 mhgraph.MHGraph) (bool, error) {
	sphereCNFs := sat.CNFsFromMHGraph(sphere)

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		xs, ok := sphereCNFs.Next()
		if !ok {
			return true, nil
		}

		hyp1CNFs := sat.CNFsFromMHGraph(hyp1)

		for {
			xh1, ok := hyp1CNFs.Next()
			if !ok {
				break
			}

			satisfiable, err := d.Check(ctx, cnf.And(xs, xh1))
			if err != nil {
				return false, err
			}

			if satisfiable {
				continue
			}

			rescued, err := d.everyHyp2Rescues(ctx, xs, hyp2)
			if err != nil {
				return false, err
			}

			if !rescued {
				log.Debugf("entangled term over %v is unsatisfiable", sphere)
				return false, nil
			}
		}
	}
}

// everyHyp2Rescues reports whether xs∧xh2 is satisfiable for every hyp2-CNF
// xh2.  One failing xh2 sinks the whole partition term.
func (d *Decomposer) everyHyp2Rescues(ctx context.Context, xs cnf.CNF,
	hyp2 mhgraph.MHGraph) (bool, error) {
	hyp2CNFs := sat.CNFsFromMHGraph(hyp2)

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		xh2, ok := hyp2CNFs.Next()
		if !ok {
			return true, nil
		}

		satisfiable, err := d.Check(ctx, cnf.And(xs, xh2))
		if err != nil {
			return false, err
		}

		if !satisfiable {
			return false, nil
		}
	}
}

// twoPartitions enumerates all unordered nonempty 2-partitions of the link.
// The first hyperedge is pinned to the first part, so each partition appears
// exactly once; a link of n hyperedges yields 2^(n-1)-1 partitions.
func twoPartitions(link []mhgraph.HEdge) [][2][]mhgraph.HEdge {
	n := len(link)
	if n < 2 {
		return nil
	}

	var out [][2][]mhgraph.HEdge

	for mask := 1; mask < 1<<(n-1); mask++ {
		part1 := []mhgraph.HEdge{link[0]}

		var part2 []mhgraph.HEdge

		for i := 1; i < n; i++ {
			if mask&(1<<(i-1)) != 0 {
				part2 = append(part2, link[i])
			} else {
				part1 = append(part1, link[i])
			}
		}

		out = append(out, [2][]mhgraph.HEdge{part1, part2})
	}

	return out
}

func balancedOnly(partitions [][2][]mhgraph.HEdge) [][2][]mhgraph.HEdge {
	var out [][2][]mhgraph.HEdge

	for _, p := range partitions {
		diff := len(p[0]) - len(p[1])
		if diff < 0 {
			diff = -diff
		}

		if diff <= 1 {
			out = append(out, p)
		}
	}

	return out
}
