// Package morphism implements vertex relabelings between hypergraphs and
// brute-force subgraph / isomorphism search over multi-hypergraphs.
//
// A VertexMap proposes a relabeling of one HGraph's vertices into another's;
// an InjectiveVertexMap is a one-to-one proposal; a Morphism is an injective
// proposal under which every source hyperedge lands on a target hyperedge.
// Failed candidates are expected during search, so the validating
// constructors report failure with a boolean rather than an error.
//
// The search itself is generate-and-test: enumerate every injective vertex
// map, keep the ones that are morphisms, and check multiplicity-aware edge
// containment of the image.  Subgraph isomorphism is NP-hard, and the cheap
// count prefilters plus early short-circuit are the only mitigations.
package morphism

import (
	"context"
	"fmt"
	"slices"

	"github.com/vaibhavkarve/graphsat/pkg/mhgraph"
)

// Translation maps vertices of a source hypergraph to vertices of a target.
type Translation map[mhgraph.Vertex]mhgraph.Vertex

// VertexMap is a validated relabeling proposal between two HGraphs: the
// translation is total on the source's vertex set and lands inside the
// target's vertex set.
type VertexMap struct {
	Source      mhgraph.HGraph
	Target      mhgraph.HGraph
	Translation Translation
}

// NewVertexMap validates a translation between two HGraphs.  The second
// result is false if the translation misses a source vertex or maps outside
// the target's vertex set.
func NewVertexMap(tr Translation, source, target mhgraph.HGraph) (VertexMap, bool) {
	if target == nil {
		target = source
	}

	srcVerts := source.Vertices()
	if len(tr) != len(srcVerts) {
		return VertexMap{}, false
	}

	tgtVerts := target.Vertices()

	for _, v := range srcVerts {
		image, mapped := tr[v]
		if !mapped {
			return VertexMap{}, false
		}

		if _, found := slices.BinarySearch(tgtVerts, image); !found {
			return VertexMap{}, false
		}
	}

	return VertexMap{Source: source, Target: target, Translation: tr}, true
}

// InjectiveVertexMap is a VertexMap whose translation is one-to-one.
type InjectiveVertexMap struct {
	VertexMap
}

// Injective checks a VertexMap for injectivity.
func (vm VertexMap) Injective() (InjectiveVertexMap, bool) {
	seen := make(map[mhgraph.Vertex]bool, len(vm.Translation))

	for _, image := range vm.Translation {
		if seen[image] {
			return InjectiveVertexMap{}, false
		}

		seen[image] = true
	}

	return InjectiveVertexMap{vm}, true
}

// Morphism is an InjectiveVertexMap under which the image of every source
// hyperedge is a hyperedge of the target.
type Morphism struct {
	InjectiveVertexMap
}

// NewMorphism checks the edge-mapping condition on an InjectiveVertexMap.
// Multiplicities are ignored here; multiplicity-aware containment is the
// business of subgraph search.
func NewMorphism(ivm InjectiveVertexMap) (Morphism, bool) {
	image := GraphImage(ivm, mhgraph.FromHGraph(ivm.Source))

	for _, me := range image {
		if !slices.ContainsFunc(ivm.Target, me.HEdge.Equal) {
			return Morphism{}, false
		}
	}

	return Morphism{ivm}, true
}

func (m Morphism) String() string {
	return fmt.Sprintf("%v ↪ %v via %v", m.Source, m.Target, m.Translation)
}

// GraphImage applies an injective vertex map to every hyperedge of a
// multi-hypergraph, multiplicities included.  Injectivity guarantees the
// image hyperedges do not collapse.
func GraphImage(ivm InjectiveVertexMap, g mhgraph.MHGraph) mhgraph.MHGraph {
	var mapped []mhgraph.HEdge

	for _, h := range g.Elements() {
		image := make([]mhgraph.Vertex, len(h))
		for i, v := range h {
			image[i] = ivm.Translation[v]
		}

		hedge, err := mhgraph.NewHEdge(image...)
		if err != nil {
			panic("injective image of a hyperedge cannot be degenerate")
		}

		mapped = append(mapped, hedge)
	}

	return mhgraph.NewMHGraph(mapped...)
}

// IsImmediateSubgraph reports whether every hyperedge of the candidate, with
// multiplicity m, appears in the host with multiplicity at least m.  This is
// the cheap, relabeling-free containment test.
func IsImmediateSubgraph(candidate, host mhgraph.MHGraph) bool {
	for _, me := range candidate {
		if host.Multiplicity(me.HEdge) < me.Count {
			return false
		}
	}

	return true
}

// ===================================================================
// Subgraph and isomorphism search
// ===================================================================

// MorphismIterator lazily enumerates the morphisms embedding one
// multi-hypergraph into another.  Each call to AllSubgraphMorphisms returns
// a fresh iterator; concurrent searches never share cursor state.
type MorphismIterator struct {
	ctx   context.Context
	sub   mhgraph.MHGraph
	host  mhgraph.MHGraph
	vmaps *VertexMapIterator
	err   error
}

// Next returns the next embedding morphism.  The second result is false
// when the enumeration is exhausted or cancelled; after cancellation Err
// reports the cause.
func (it *MorphismIterator) Next() (Morphism, bool) {
	if it.err != nil || it.vmaps == nil {
		return Morphism{}, false
	}

	for {
		if err := it.ctx.Err(); err != nil {
			it.err = err
			return Morphism{}, false
		}

		vm, ok := it.vmaps.Next()
		if !ok {
			return Morphism{}, false
		}

		ivm, ok := vm.Injective()
		if !ok {
			continue
		}

		m, ok := NewMorphism(ivm)
		if !ok {
			continue
		}

		if IsImmediateSubgraph(GraphImage(m.InjectiveVertexMap, it.sub), it.host) {
			return m, true
		}
	}
}

// Err reports whether the iteration stopped due to cancellation.
func (it *MorphismIterator) Err() error { return it.err }

// AllSubgraphMorphisms returns a fresh lazy enumeration of every morphism
// embedding sub into host, multiplicities respected.
func AllSubgraphMorphisms(ctx context.Context, sub, host mhgraph.MHGraph) *MorphismIterator {
	it := &MorphismIterator{ctx: ctx, sub: sub, host: host}

	// Count prefilters: embedding is impossible when the candidate is
	// bigger than the host on any cheap measure.
	if len(sub.Vertices()) > len(host.Vertices()) ||
		len(sub) > len(host) ||
		sub.TotalCount() > host.TotalCount() {
		return it
	}

	it.vmaps = GenerateVertexMaps(mhgraph.HGraphOf(sub), mhgraph.HGraphOf(host), true)

	return it
}

// SubgraphSearch looks for one embedding of sub into host, short-circuiting
// on the first match.  The boolean reports whether an embedding exists.
func SubgraphSearch(ctx context.Context, sub, host mhgraph.MHGraph) (Morphism, bool, error) {
	it := AllSubgraphMorphisms(ctx, sub, host)

	m, ok := it.Next()
	if err := it.Err(); err != nil {
		return Morphism{}, false, err
	}

	return m, ok, nil
}

// IsomorphismSearch looks for an isomorphism between two multi-hypergraphs:
// a subgraph embedding between graphs that agree on vertex count, hyperedge
// count and multiplicity profile.
func IsomorphismSearch(ctx context.Context, g1, g2 mhgraph.MHGraph) (Morphism, bool, error) {
	if len(g1.Vertices()) != len(g2.Vertices()) ||
		len(g1) != len(g2) ||
		!slices.Equal(multiplicityProfile(g1), multiplicityProfile(g2)) {
		return Morphism{}, false, nil
	}

	m, found, err := SubgraphSearch(ctx, g1, g2)
	if err != nil || found {
		return m, found, err
	}

	return SubgraphSearch(ctx, g2, g1)
}

func multiplicityProfile(g mhgraph.MHGraph) []int {
	profile := make([]int, len(g))
	for i, me := range g {
		profile[i] = me.Count
	}

	slices.Sort(profile)

	return profile
}

// UniqueUpToIsomorphism filters a list of multi-hypergraphs down to one
// representative per isomorphism class, keeping first occurrences.
func UniqueUpToIsomorphism(ctx context.Context, graphs []mhgraph.MHGraph) ([]mhgraph.MHGraph, error) {
	var unique []mhgraph.MHGraph

	for _, g := range graphs {
		duplicate := false

		for _, u := range unique {
			_, found, err := IsomorphismSearch(ctx, g, u)
			if err != nil {
				return nil, err
			}

			if found {
				duplicate = true
				break
			}
		}

		if !duplicate {
			unique = append(unique, g)
		}
	}

	return unique, nil
}
