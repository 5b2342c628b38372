// Package rules reduces multi-hypergraphs by a fixed catalogue of local
// rewrite rules.  Each rule replaces an embedded pattern with one or more
// smaller graphs whose disjunction is equisatisfiable to the original.
package rules

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vaibhavkarve/graphsat/pkg/mhgraph"
	"github.com/vaibhavkarve/graphsat/pkg/morphism"
)

// Rule is a local rewrite: wherever Pattern embeds into a graph with the
// free vertex keeping its pattern degree, the embedded copy may be replaced
// by each of the Children in turn.
type Rule struct {
	Name     string
	Pattern  mhgraph.MHGraph
	Free     mhgraph.Vertex
	Children []mhgraph.MHGraph
}

// mustGraph builds a multi-hypergraph from vertex lists.  Only for the
// static rule catalogue, where the input is known to be well formed.
func mustGraph(hedges ...[]mhgraph.Vertex) mhgraph.MHGraph {
	out := make([]mhgraph.HEdge, len(hedges))

	for i, vs := range hedges {
		h, err := mhgraph.NewHEdge(vs...)
		if err != nil {
			panic(err)
		}

		out[i] = h
	}

	return mhgraph.NewMHGraph(out...)
}

func repeat(n int, vs []mhgraph.Vertex) [][]mhgraph.Vertex {
	out := make([][]mhgraph.Vertex, n)
	for i := range out {
		out[i] = vs
	}

	return out
}

// EdgeSmooth contracts a degree-two vertex on two simple edges.
var EdgeSmooth = Rule{
	Name:     "edge-smooth",
	Pattern:  mustGraph([]mhgraph.Vertex{1, 2}, []mhgraph.Vertex{1, 3}),
	Free:     1,
	Children: []mhgraph.MHGraph{mustGraph([]mhgraph.Vertex{2, 3})},
}

// HEdgeSmooth contracts a degree-two vertex on two size-three hyperedges
// sharing a second vertex.
var HEdgeSmooth = Rule{
	Name:     "hedge-smooth",
	Pattern:  mustGraph([]mhgraph.Vertex{1, 2, 3}, []mhgraph.Vertex{1, 2, 4}),
	Free:     1,
	Children: []mhgraph.MHGraph{mustGraph([]mhgraph.Vertex{2, 3, 4})},
}

// R1 contracts a hyperedge against a simple edge on a shared pair.
var R1 = Rule{
	Name:     "r1",
	Pattern:  mustGraph([]mhgraph.Vertex{1, 2, 3}, []mhgraph.Vertex{1, 2}),
	Free:     1,
	Children: []mhgraph.MHGraph{mustGraph([]mhgraph.Vertex{2, 3})},
}

// R2 splits a hyperedge flanked by two simple edges into two loops.
var R2 = Rule{
	Name:    "r2",
	Pattern: mustGraph([]mhgraph.Vertex{1, 2, 3}, []mhgraph.Vertex{1, 2}, []mhgraph.Vertex{1, 3}),
	Free:    1,
	Children: []mhgraph.MHGraph{
		mustGraph([]mhgraph.Vertex{2}),
		mustGraph([]mhgraph.Vertex{3}),
	},
}

// R4 rewrites a triangle of size-three hyperedges around a common vertex.
var R4 = Rule{
	Name: "r4",
	Pattern: mustGraph([]mhgraph.Vertex{1, 2, 3}, []mhgraph.Vertex{1, 2, 4},
		[]mhgraph.Vertex{1, 3, 4}),
	Free: 1,
	Children: []mhgraph.MHGraph{
		mustGraph([]mhgraph.Vertex{2, 3}),
		mustGraph([]mhgraph.Vertex{2, 4}),
		mustGraph([]mhgraph.Vertex{3, 4}),
	},
}

// R5 merges a hyperedge with a pendant simple edge.
var R5 = Rule{
	Name:     "r5",
	Pattern:  mustGraph([]mhgraph.Vertex{1, 2, 3}, []mhgraph.Vertex{1, 4}),
	Free:     1,
	Children: []mhgraph.MHGraph{mustGraph([]mhgraph.Vertex{2, 3, 4})},
}

// R7 rewrites a doubled hyperedge flanked by two simple edges.
var R7 = Rule{
	Name: "r7",
	Pattern: mustGraph([]mhgraph.Vertex{1, 2, 3}, []mhgraph.Vertex{1, 2, 3},
		[]mhgraph.Vertex{1, 2}, []mhgraph.Vertex{1, 3}),
	Free:     1,
	Children: []mhgraph.MHGraph{mustGraph(repeat(3, []mhgraph.Vertex{2, 3})...)},
}

// Pop2 pops a vertex carried by n parallel simple edges, halving the
// multiplicity onto a loop.
func Pop2(n int) Rule {
	return Rule{
		Name:     "pop2",
		Pattern:  mustGraph(repeat(n, []mhgraph.Vertex{1, 2})...),
		Free:     1,
		Children: []mhgraph.MHGraph{mustGraph(repeat(n/2, []mhgraph.Vertex{2})...)},
	}
}

// Pop3 pops a vertex carried by n parallel size-three hyperedges.
func Pop3(n int) Rule {
	return Rule{
		Name:     "pop3",
		Pattern:  mustGraph(repeat(n, []mhgraph.Vertex{1, 2, 3})...),
		Free:     1,
		Children: []mhgraph.MHGraph{mustGraph(repeat(n/2, []mhgraph.Vertex{2, 3})...)},
	}
}

// KnownRules returns the full rule catalogue in application order.
func KnownRules() []Rule {
	rules := []Rule{EdgeSmooth, HEdgeSmooth, R1, R2, R4, R5, R7}

	for n := 2; n < 5; n++ {
		rules = append(rules, Pop2(n))
	}

	for n := 2; n < 9; n++ {
		rules = append(rules, Pop3(n))
	}

	return rules
}

// Apply rewrites the graph by the rule at the first embedding that
// preserves the free vertex's degree.  The second result reports whether
// the rule fired; if it did not, the graph is returned unchanged as the
// only element.
func Apply(ctx context.Context, g mhgraph.MHGraph, rule Rule) ([]mhgraph.MHGraph, bool, error) {
	morphs := morphism.AllSubgraphMorphisms(ctx, rule.Pattern, g)

	for {
		m, ok := morphs.Next()
		if !ok {
			break
		}

		mappedFree := m.Translation[rule.Free]
		if mhgraph.Degree(mappedFree, g) != mhgraph.Degree(rule.Free, rule.Pattern) {
			continue
		}

		mappedPattern := morphism.GraphImage(m.InjectiveVertexMap, rule.Pattern)
		remainder := mhgraph.Subtract(g, mappedPattern)

		out := make([]mhgraph.MHGraph, 0, len(rule.Children))
		for _, child := range rule.Children {
			mappedChild := morphism.GraphImage(m.InjectiveVertexMap, child)
			out = append(out, mhgraph.Union(remainder, mappedChild))
		}

		log.Debugf("rule %s fired on %v", rule.Name, g)

		return out, true, nil
	}

	if err := morphs.Err(); err != nil {
		return nil, false, err
	}

	return []mhgraph.MHGraph{g}, false, nil
}

// ReduceAll applies every rule in the catalogue once and collects the
// resulting graphs.  Rules that do not fire contribute nothing.
func ReduceAll(ctx context.Context, g mhgraph.MHGraph) ([]mhgraph.MHGraph, error) {
	var out []mhgraph.MHGraph

	for _, rule := range KnownRules() {
		reduced, fired, err := Apply(ctx, g, rule)
		if err != nil {
			return nil, err
		}

		if fired {
			out = append(out, reduced...)
		}
	}

	if out == nil {
		return []mhgraph.MHGraph{g}, nil
	}

	return morphism.UniqueUpToIsomorphism(ctx, out)
}

// Node is a graph in a rewrite tree.  A graph is equisatisfiable to the
// disjunction of the leaves of its tree.
type Node struct {
	Graph    mhgraph.MHGraph
	Children []*Node
}

// MakeTree unfolds a graph into its rewrite tree by repeatedly applying
// the first rule that fires.
func MakeTree(ctx context.Context, g mhgraph.MHGraph) (*Node, error) {
	node := &Node{Graph: g}

	for _, rule := range KnownRules() {
		reduced, fired, err := Apply(ctx, g, rule)
		if err != nil {
			return nil, err
		}

		if !fired {
			continue
		}

		for _, child := range reduced {
			childNode, err := MakeTree(ctx, child)
			if err != nil {
				return nil, err
			}

			node.Children = append(node.Children, childNode)
		}

		return node, nil
	}

	return node, nil
}

// Leaves returns the leaf graphs of a rewrite tree.
func (n *Node) Leaves() []mhgraph.MHGraph {
	if len(n.Children) == 0 {
		return []mhgraph.MHGraph{n.Graph}
	}

	var out []mhgraph.MHGraph
	for _, child := range n.Children {
		out = append(out, child.Leaves()...)
	}

	return out
}
