package mhgraph

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Parse reads one multi-hypergraph from its textual hedge-list form, e.g.
//
//	[[1,2],[1,3],[2,3],[1,2]]
//
// Repeated hyperedges accumulate multiplicity.  External generators may
// number vertices from zero; if any id is below one, all ids are
// renormalised to the canonical 1..n range, preserving their order.
// Hyperedges with fewer than two distinct vertices fail with
// ErrDegenerateEdge: loops never enter through the external boundary.
func Parse(line string) (MHGraph, error) {
	raw, err := parseHedgeLists(line)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("empty hedge list %q", line)
	}

	raw = renormalise(raw)

	hedges := make([]HEdge, 0, len(raw))

	for _, ids := range raw {
		vs := make([]Vertex, len(ids))

		for i, id := range ids {
			v, err := NewVertex(id)
			if err != nil {
				return nil, err
			}

			vs[i] = v
		}

		h, err := NewEdge(vs...)
		if err != nil {
			return nil, err
		}

		hedges = append(hedges, h)
	}

	return NewMHGraph(hedges...), nil
}

// parseHedgeLists tokenises a bracketed list-of-lists of integers.
func parseHedgeLists(line string) ([][]int, error) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("malformed hedge list %q", line)
	}

	s = strings.TrimSpace(s[1 : len(s)-1])
	if s == "" {
		return nil, nil
	}

	var (
		out  [][]int
		cur  []int
		open bool
	)

	for _, field := range splitFields(s) {
		switch {
		case field == "[":
			if open {
				return nil, fmt.Errorf("nested hedge in %q", line)
			}

			open, cur = true, nil
		case field == "]":
			if !open {
				return nil, fmt.Errorf("unbalanced brackets in %q", line)
			}

			open = false

			out = append(out, cur)
		default:
			if !open {
				return nil, fmt.Errorf("vertex %q outside hedge in %q", field, line)
			}

			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("bad vertex id %q: %w", field, err)
			}

			cur = append(cur, n)
		}
	}

	if open {
		return nil, fmt.Errorf("unbalanced brackets in %q", line)
	}

	return out, nil
}

// splitFields separates brackets from integer tokens, treating commas and
// spaces as separators.
func splitFields(s string) []string {
	var (
		fields []string
		cur    strings.Builder
	)

	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}

	for _, r := range s {
		switch r {
		case '[', ']':
			flush()

			fields = append(fields, string(r))
		case ',', ' ', '\t':
			flush()
		default:
			cur.WriteRune(r)
		}
	}

	flush()

	return fields
}

// renormalise maps vertex ids onto 1..n if any id falls below one.
func renormalise(raw [][]int) [][]int {
	lowest := 1
	for _, ids := range raw {
		for _, id := range ids {
			lowest = min(lowest, id)
		}
	}

	if lowest >= 1 {
		return raw
	}

	var distinct []int
	for _, ids := range raw {
		distinct = append(distinct, ids...)
	}

	slices.Sort(distinct)
	distinct = slices.Compact(distinct)

	rank := make(map[int]int, len(distinct))
	for i, id := range distinct {
		rank[id] = i + 1
	}

	out := make([][]int, len(raw))

	for i, ids := range raw {
		out[i] = make([]int, len(ids))
		for j, id := range ids {
			out[i][j] = rank[id]
		}
	}

	return out
}

// Format serialises a multi-hypergraph back into the hedge-list form read
// by Parse, expanding multiplicities into repeated hyperedges.
func Format(g MHGraph) string {
	var b strings.Builder

	b.WriteByte('[')

	for i, h := range g.Elements() {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteByte('[')

		for j, v := range h {
			if j > 0 {
				b.WriteByte(',')
			}

			fmt.Fprintf(&b, "%d", v)
		}

		b.WriteByte(']')
	}

	b.WriteByte(']')

	return b.String()
}
