// Package sat connects the hypergraph and CNF algebras: it translates
// multi-hypergraphs into the CNF family they support, and decides
// satisfiability of graphs through brute force or the external solver.
//
// Every vertex contributes a positive and a negative literal.  A hyperedge
// of size k supports the 2^k clauses obtained by choosing one polarity per
// vertex; a hyperedge of multiplicity m contributes every way of choosing m
// distinct clauses from that palette.  A multi-hypergraph is satisfiable
// when it supports at least one CNF and every supported CNF is satisfiable.
package sat

import (
	"fmt"

	"github.com/vaibhavkarve/graphsat/pkg/cnf"
	"github.com/vaibhavkarve/graphsat/pkg/mhgraph"
)

// LitsFromVertex returns the positive and negative literal encoding the two
// sides of the 2-colouring of a vertex.
func LitsFromVertex(v mhgraph.Vertex) (cnf.Lit, cnf.Lit) {
	l, err := cnf.NewLit(int(v))
	if err != nil {
		panic("vertex is always a valid literal")
	}

	return l, cnf.Neg(l)
}

// ClausesFromHEdge enumerates the 2^|h| clauses supported on a hyperedge,
// one polarity choice per vertex, in a fixed deterministic order.
func ClausesFromHEdge(h mhgraph.HEdge) []cnf.Clause {
	k := len(h)
	clauses := make([]cnf.Clause, 0, 1<<k)

	for mask := 0; mask < 1<<k; mask++ {
		lits := make([]cnf.Lit, k)

		for i, v := range h {
			pos, neg := LitsFromVertex(v)
			if mask&(1<<i) == 0 {
				lits[i] = pos
			} else {
				lits[i] = neg
			}
		}

		clauses = append(clauses, cnf.NewClause(lits...))
	}

	return clauses
}

// CNFIterator lazily enumerates the CNFs supported on a multi-hypergraph.
// Each call to CNFsFromMHGraph returns a fresh iterator, so concurrent
// consumers never share cursor state.
type CNFIterator struct {
	palettes [][]cnf.Clause
	cursors  [][]int
	done     bool
}

// Next returns the next supported CNF.  The second result is false once the
// enumeration is exhausted.
func (it *CNFIterator) Next() (cnf.CNF, bool) {
	if it.done {
		return nil, false
	}

	var clauses []cnf.Clause

	for i, cursor := range it.cursors {
		for _, idx := range cursor {
			clauses = append(clauses, it.palettes[i][idx])
		}
	}

	it.advance()

	return cnf.NewCNF(clauses...), true
}

func (it *CNFIterator) advance() {
	for i := len(it.cursors) - 1; i >= 0; i-- {
		if nextCombination(it.cursors[i], len(it.palettes[i])) {
			return
		}
	}

	it.done = true
}

// nextCombination steps a strictly increasing index tuple over [0, n),
// resetting and reporting false after the final tuple.
func nextCombination(idx []int, n int) bool {
	k := len(idx)

	for i := k - 1; i >= 0; i-- {
		if idx[i] < n-k+i {
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}

			return true
		}
	}

	for i := range idx {
		idx[i] = i
	}

	return false
}

// CNFsFromHEdge enumerates the C(2^|h|, mult) CNFs supported on a single
// hyperedge of the given multiplicity.  A multiplicity below one is
// rejected; a multiplicity exceeding the clause palette yields an empty
// enumeration.
func CNFsFromHEdge(h mhgraph.HEdge, mult int) (*CNFIterator, error) {
	if mult < 1 {
		return nil, fmt.Errorf("multiplicity must be at least 1, got %d", mult)
	}

	return newCNFIterator(mhgraph.MHGraph{{HEdge: h, Count: mult}}), nil
}

// CNFsFromMHGraph enumerates every CNF supported on a multi-hypergraph: the
// product, across hyperedges, of each hyperedge's clause choices.
func CNFsFromMHGraph(g mhgraph.MHGraph) *CNFIterator {
	return newCNFIterator(g)
}

func newCNFIterator(g mhgraph.MHGraph) *CNFIterator {
	it := &CNFIterator{}

	for _, me := range g {
		palette := ClausesFromHEdge(me.HEdge)
		if me.Count > len(palette) {
			// Over-saturated hyperedge: no CNF fits.
			it.done = true
			return it
		}

		cursor := make([]int, me.Count)
		for i := range cursor {
			cursor[i] = i
		}

		it.palettes = append(it.palettes, palette)
		it.cursors = append(it.cursors, cursor)
	}

	return it
}

// NumberOfCNFs returns the number of CNFs supported on a multi-hypergraph:
// the product over hyperedges of C(2^|h|, multiplicity).
func NumberOfCNFs(g mhgraph.MHGraph) int {
	total := 1
	for _, me := range g {
		total *= binomial(1<<len(me.HEdge), me.Count)
	}

	return total
}

func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}

	if k > n-k {
		k = n - k
	}

	result := 1
	for i := 0; i < k; i++ {
		result = result * (n - i) / (i + 1)
	}

	return result
}

// Oversaturated reports whether any hyperedge of size k carries multiplicity
// beyond its 2^k clause palette; such a graph supports no CNF at all.
func Oversaturated(g mhgraph.MHGraph) bool {
	for _, me := range g {
		if me.Count > 1<<len(me.HEdge) {
			return true
		}
	}

	return false
}

// MHGraphFromCNF recovers the multi-hypergraph supporting a CNF: each
// clause maps to the hyperedge of its variables, and clauses sharing a
// variable support accumulate multiplicity.  Trivially TRUE or FALSE
// formulas support no graph and are rejected.
func MHGraphFromCNF(f cnf.CNF) (mhgraph.MHGraph, error) {
	reduced := cnf.TautologicallyReduceCNF(f)
	if reduced.IsTrue() || reduced.IsFalse() {
		return nil, fmt.Errorf("trivial CNF %v supports no multi-hypergraph", reduced)
	}

	hedges := make([]mhgraph.HEdge, 0, len(reduced))

	for _, c := range reduced {
		vs := make([]mhgraph.Vertex, len(c))
		for i, l := range c {
			vs[i] = mhgraph.Vertex(cnf.Abs(l))
		}

		h, err := mhgraph.NewHEdge(vs...)
		if err != nil {
			return nil, err
		}

		hedges = append(hedges, h)
	}

	return mhgraph.NewMHGraph(hedges...), nil
}
