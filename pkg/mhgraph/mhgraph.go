// Package mhgraph implements loopless multi-hypergraphs: multisets of
// hyperedges over a vertex set.
//
// An HEdge is a set of distinct vertices.  An HGraph is a set of distinct
// HEdges.  An MHGraph additionally attaches a positive multiplicity to every
// HEdge.  All three are immutable value types with canonical (sorted,
// deduplicated) representations, so equal graphs always compare equal.
//
// External input never carries single-vertex hyperedges ("loops"), but loops
// are representable internally: projecting the link of a vertex away from
// that vertex turns its size-two hyperedges into loops, which the
// satisfiability layer then simplifies away.
package mhgraph

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrDegenerateEdge indicates a hyperedge with too few distinct vertices.
var ErrDegenerateEdge = errors.New("degenerate hyperedge")

// Vertex identifies a hypergraph node.  Valid vertices are >= 1.
type Vertex uint32

// NewVertex builds a Vertex from a positive integer.
func NewVertex(n int) (Vertex, error) {
	if n <= 0 {
		return 0, fmt.Errorf("vertex must be a positive integer, got %d", n)
	}

	return Vertex(n), nil
}

// ===================================================================
// HEdge
// ===================================================================

// HEdge is a hyperedge: a sorted set of distinct vertices.  A size-one HEdge
// is a loop; loops only arise internally via link projection.
type HEdge []Vertex

// NewHEdge builds a hyperedge from one or more vertices.  Duplicates
// collapse.  An empty vertex collection fails with ErrDegenerateEdge.
func NewHEdge(vs ...Vertex) (HEdge, error) {
	if len(vs) == 0 {
		return nil, fmt.Errorf("empty vertex collection: %w", ErrDegenerateEdge)
	}

	h := make(HEdge, len(vs))
	copy(h, vs)
	slices.Sort(h)

	return slices.Compact(h), nil
}

// NewEdge builds a hyperedge from external input, where at least two
// distinct vertices are required.  Fewer fail with ErrDegenerateEdge.
func NewEdge(vs ...Vertex) (HEdge, error) {
	h, err := NewHEdge(vs...)
	if err != nil {
		return nil, err
	}

	if len(h) < 2 {
		return nil, fmt.Errorf("self-loop %v: %w", h, ErrDegenerateEdge)
	}

	return h, nil
}

// IsLoop reports whether this hyperedge is incident on a single vertex.
func (h HEdge) IsLoop() bool { return len(h) == 1 }

// Contains reports whether a vertex lies on this hyperedge.
func (h HEdge) Contains(v Vertex) bool {
	_, found := slices.BinarySearch(h, v)
	return found
}

// Equal reports whether two hyperedges have the same vertex set.
func (h HEdge) Equal(other HEdge) bool { return slices.Equal(h, other) }

func (h HEdge) String() string {
	parts := make([]string, len(h))
	for i, v := range h {
		parts[i] = fmt.Sprintf("%d", v)
	}

	return "(" + strings.Join(parts, ",") + ")"
}

// cmpHEdge orders hyperedges by size, then lexicographically.
func cmpHEdge(a, b HEdge) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}

	return slices.Compare(a, b)
}

// ===================================================================
// HGraph
// ===================================================================

// HGraph is a set of distinct hyperedges, i.e. a multi-hypergraph with all
// multiplicities erased.
type HGraph []HEdge

// NewHGraph builds an HGraph from a collection of hyperedges, collapsing
// duplicates.
func NewHGraph(hedges ...HEdge) HGraph {
	g := make(HGraph, len(hedges))
	copy(g, hedges)
	slices.SortFunc(g, cmpHEdge)

	return slices.CompactFunc(g, HEdge.Equal)
}

// Vertices returns the sorted vertex set of an HGraph.
func (g HGraph) Vertices() []Vertex {
	var vs []Vertex
	for _, h := range g {
		vs = append(vs, h...)
	}

	slices.Sort(vs)

	return slices.Compact(vs)
}

// Equal reports whether two HGraphs have the same hyperedge set.
func (g HGraph) Equal(other HGraph) bool {
	return slices.EqualFunc(g, other, HEdge.Equal)
}

func (g HGraph) String() string {
	parts := make([]string, len(g))
	for i, h := range g {
		parts[i] = h.String()
	}

	return strings.Join(parts, ",")
}

// ===================================================================
// MHGraph
// ===================================================================

// MultiEdge pairs a hyperedge with its multiplicity.
type MultiEdge struct {
	HEdge HEdge
	Count int
}

// MHGraph is a multiset of hyperedges, stored as sorted (HEdge, count)
// pairs with all counts >= 1.
type MHGraph []MultiEdge

// NewMHGraph builds an MHGraph from a collection of hyperedges; repeated
// hyperedges accumulate multiplicity.
func NewMHGraph(hedges ...HEdge) MHGraph {
	sorted := make([]HEdge, len(hedges))
	copy(sorted, hedges)
	slices.SortFunc(sorted, cmpHEdge)

	var g MHGraph

	for _, h := range sorted {
		if n := len(g); n > 0 && g[n-1].HEdge.Equal(h) {
			g[n-1].Count++
		} else {
			g = append(g, MultiEdge{HEdge: h, Count: 1})
		}
	}

	return g
}

// Elements expands an MHGraph into a slice of hyperedges with repetition
// according to multiplicity.
func (g MHGraph) Elements() []HEdge {
	var out []HEdge

	for _, me := range g {
		for i := 0; i < me.Count; i++ {
			out = append(out, me.HEdge)
		}
	}

	return out
}

// Vertices returns the sorted vertex set of an MHGraph.
func (g MHGraph) Vertices() []Vertex {
	return HGraphOf(g).Vertices()
}

// Multiplicity returns the multiplicity of a hyperedge, or zero if absent.
func (g MHGraph) Multiplicity(h HEdge) int {
	for _, me := range g {
		if me.HEdge.Equal(h) {
			return me.Count
		}
	}

	return 0
}

// TotalCount returns the number of hyperedges counted with multiplicity.
func (g MHGraph) TotalCount() int {
	total := 0
	for _, me := range g {
		total += me.Count
	}

	return total
}

// HasLoop reports whether any hyperedge of the graph is a loop.
func (g MHGraph) HasLoop() bool {
	return slices.ContainsFunc(g, func(me MultiEdge) bool { return me.HEdge.IsLoop() })
}

// Equal reports whether two MHGraphs agree as multisets.
func (g MHGraph) Equal(other MHGraph) bool {
	return slices.EqualFunc(g, other, func(a, b MultiEdge) bool {
		return a.Count == b.Count && a.HEdge.Equal(b.HEdge)
	})
}

func (g MHGraph) String() string {
	parts := make([]string, len(g))
	for i, me := range g {
		if me.Count == 1 {
			parts[i] = me.HEdge.String()
		} else {
			parts[i] = fmt.Sprintf("%s^%d", me.HEdge, me.Count)
		}
	}

	return strings.Join(parts, ",")
}

// HGraphOf strips multiplicities from an MHGraph.
func HGraphOf(g MHGraph) HGraph {
	hedges := make([]HEdge, len(g))
	for i, me := range g {
		hedges[i] = me.HEdge
	}

	return NewHGraph(hedges...)
}

// FromHGraph views an HGraph as an MHGraph with all multiplicities one.
func FromHGraph(g HGraph) MHGraph {
	return NewMHGraph(g...)
}

// Union merges two multi-hypergraphs, adding multiplicities.
func Union(g1, g2 MHGraph) MHGraph {
	return NewMHGraph(append(g1.Elements(), g2.Elements()...)...)
}

// Subtract removes the hyperedges of g2 from g1, with multiplicity.
// Multiplicities never drop below zero.
func Subtract(g1, g2 MHGraph) MHGraph {
	var out []HEdge

	for _, me := range g1 {
		count := me.Count - g2.Multiplicity(me.HEdge)
		for i := 0; i < count; i++ {
			out = append(out, me.HEdge)
		}
	}

	return NewMHGraph(out...)
}

// ===================================================================
// Degrees and local structure
// ===================================================================

// Degree returns the number of hyperedges incident on a vertex, counted
// with multiplicity.
func Degree(v Vertex, g MHGraph) int {
	d := 0

	for _, me := range g {
		if me.HEdge.Contains(v) {
			d += me.Count
		}
	}

	return d
}

// PickMinDegreeVertex selects the vertex of lowest degree, breaking ties
// towards the lowest vertex id.  The choice anchors recursive decomposition
// and must be deterministic.
func PickMinDegreeVertex(g MHGraph) Vertex {
	vs := g.Vertices()
	if len(vs) == 0 {
		panic("empty graph has no vertices")
	}

	best, bestDeg := vs[0], Degree(vs[0], g)
	for _, v := range vs[1:] {
		if d := Degree(v, g); d < bestDeg {
			best, bestDeg = v, d
		}
	}

	return best
}

// PickMaxDegreeVertex selects the vertex of highest degree, breaking ties
// towards the highest vertex id.
func PickMaxDegreeVertex(g MHGraph) Vertex {
	vs := g.Vertices()
	if len(vs) == 0 {
		panic("empty graph has no vertices")
	}

	best, bestDeg := vs[0], Degree(vs[0], g)
	for _, v := range vs[1:] {
		if d := Degree(v, g); d >= bestDeg {
			best, bestDeg = v, d
		}
	}

	return best
}

// Star returns the hyperedges incident on a vertex, with multiplicity.
func Star(g MHGraph, v Vertex) []HEdge {
	var out []HEdge

	for _, h := range g.Elements() {
		if h.Contains(v) {
			out = append(out, h)
		}
	}

	return out
}

// Link returns the local neighbourhood structure of a vertex: the star
// projected away from the vertex itself.  Pure loops at the vertex project
// to nothing and are skipped.
func Link(g MHGraph, v Vertex) []HEdge {
	var out []HEdge

	for _, h := range Star(g, v) {
		if h.IsLoop() {
			continue
		}

		projected := make(HEdge, 0, len(h)-1)

		for _, u := range h {
			if u != v {
				projected = append(projected, u)
			}
		}

		out = append(out, projected)
	}

	return out
}

// Sphere returns the hyperedges not incident on a vertex, with multiplicity.
func Sphere(g MHGraph, v Vertex) []HEdge {
	var out []HEdge

	for _, h := range g.Elements() {
		if !h.Contains(v) {
			out = append(out, h)
		}
	}

	return out
}
