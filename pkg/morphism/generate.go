package morphism

import (
	"slices"

	"github.com/vaibhavkarve/graphsat/pkg/mhgraph"
)

// VertexMapIterator lazily enumerates candidate vertex maps from a source
// HGraph into a target HGraph.  The enumeration walks the Cartesian product
// of all orderings of the source vertex set (the domain side) with all
// combinations of target vertices of matching size (the codomain side).
// Every call to GenerateVertexMaps returns an iterator with fresh cursor
// state, so concurrent search branches never interfere.
type VertexMapIterator struct {
	source    mhgraph.HGraph
	target    mhgraph.HGraph
	srcVerts  []mhgraph.Vertex
	tgtVerts  []mhgraph.Vertex
	injective bool
	perm      []int
	comb      []int
	done      bool
}

// GenerateVertexMaps enumerates every vertex map from source into target.
// With injectiveOnly set, target vertices are chosen without replacement and
// every produced map is one-to-one.
func GenerateVertexMaps(source, target mhgraph.HGraph, injectiveOnly bool) *VertexMapIterator {
	if target == nil {
		target = source
	}

	it := &VertexMapIterator{
		source:    source,
		target:    target,
		srcVerts:  source.Vertices(),
		tgtVerts:  target.Vertices(),
		injective: injectiveOnly,
	}

	k, n := len(it.srcVerts), len(it.tgtVerts)
	if k == 0 || (injectiveOnly && k > n) {
		it.done = true
		return it
	}

	it.perm = make([]int, k)
	it.comb = make([]int, k)

	for i := range it.perm {
		it.perm[i] = i

		if injectiveOnly {
			it.comb[i] = i
		}
	}

	return it
}

// Next returns the next candidate map.  The second result is false once the
// enumeration is exhausted.
func (it *VertexMapIterator) Next() (VertexMap, bool) {
	for !it.done {
		tr := make(Translation, len(it.perm))
		for i, p := range it.perm {
			tr[it.srcVerts[p]] = it.tgtVerts[it.comb[i]]
		}

		it.advance()

		// Generate-and-test: construction revalidates the candidate.
		vm, ok := NewVertexMap(tr, it.source, it.target)
		if !ok {
			continue
		}

		if it.injective {
			if _, ok := vm.Injective(); !ok {
				continue
			}
		}

		return vm, true
	}

	return VertexMap{}, false
}

func (it *VertexMapIterator) advance() {
	if it.nextCombination() {
		return
	}

	if !it.nextPermutation() {
		it.done = true
	}
}

// nextCombination steps the codomain cursor.  It reports false after
// wrapping around to the initial combination.
func (it *VertexMapIterator) nextCombination() bool {
	k, n := len(it.comb), len(it.tgtVerts)

	if it.injective {
		for i := k - 1; i >= 0; i-- {
			if it.comb[i] < n-k+i {
				it.comb[i]++
				for j := i + 1; j < k; j++ {
					it.comb[j] = it.comb[j-1] + 1
				}

				return true
			}
		}

		for i := range it.comb {
			it.comb[i] = i
		}

		return false
	}

	for i := k - 1; i >= 0; i-- {
		if it.comb[i] < n-1 {
			it.comb[i]++
			for j := i + 1; j < k; j++ {
				it.comb[j] = it.comb[i]
			}

			return true
		}
	}

	for i := range it.comb {
		it.comb[i] = 0
	}

	return false
}

// nextPermutation steps the domain cursor to the lexicographically next
// ordering.  It reports false after the final ordering.
func (it *VertexMapIterator) nextPermutation() bool {
	p := it.perm

	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}

	if i < 0 {
		return false
	}

	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}

	p[i], p[j] = p[j], p[i]
	slices.Reverse(p[i+1:])

	return true
}
