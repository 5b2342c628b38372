// Package sxpr provides s-expressions for recording and evaluating graph
// decompositions.  An s-expression is an operator applied to an ordered
// sequence of terms, folded left-to-right from the operator's identity.
package sxpr

import (
	"context"
	"strings"

	"github.com/vaibhavkarve/graphsat/pkg/mhgraph"
)

// Sxpr is a generic fold: op applied left-to-right over terms, starting
// from init.  For example (+, (1 2 3 4), 0) evaluates to ((((0+1)+2)+3)+4).
type Sxpr[S, T any] struct {
	Op    func(T, S) T
	Terms []S
	Init  T
}

// Reduce evaluates the fold.
func (s Sxpr[S, T]) Reduce() T {
	acc := s.Init
	for _, t := range s.Terms {
		acc = s.Op(acc, t)
	}

	return acc
}

// ===================================================================
// Satisfiability s-expressions
// ===================================================================

// Op is a boolean connective over satisfiability verdicts.
type Op int

const (
	// SatAnd conjoins verdicts, with identity true.
	SatAnd Op = iota
	// SatOr disjoins verdicts, with identity false.
	SatOr
)

func (op Op) identity() bool {
	return op == SatAnd
}

func (op Op) combine(acc, v bool) bool {
	if op == SatAnd {
		return acc && v
	}

	return acc || v
}

// shortCircuits reports whether the accumulator already determines the
// verdict, making the remaining terms irrelevant.
func (op Op) shortCircuits(acc bool) bool {
	if op == SatAnd {
		return !acc
	}

	return acc
}

func (op Op) String() string {
	if op == SatAnd {
		return "∧"
	}

	return "∨"
}

// Term is one operand of a satisfiability s-expression: a settled verdict,
// a graph still to be decided, or a nested s-expression.
type Term struct {
	verdict bool
	graph   mhgraph.MHGraph
	nested  *SatSxpr
}

// BoolTerm wraps a settled verdict.
func BoolTerm(v bool) Term {
	return Term{verdict: v}
}

// GraphTerm wraps a graph still to be decided.
func GraphTerm(g mhgraph.MHGraph) Term {
	return Term{graph: g}
}

// NestedTerm wraps a sub-expression.
func NestedTerm(s *SatSxpr) Term {
	return Term{nested: s}
}

func (t Term) String() string {
	switch {
	case t.nested != nil:
		return t.nested.String()
	case t.graph != nil:
		return t.graph.String()
	case t.verdict:
		return "⊤"
	default:
		return "⊥"
	}
}

// SatSxpr is an s-expression whose terms evaluate to satisfiability
// verdicts.
type SatSxpr struct {
	Op    Op
	Terms []Term
}

// NewAnd builds a conjunction.
func NewAnd(terms ...Term) *SatSxpr {
	return &SatSxpr{Op: SatAnd, Terms: terms}
}

// NewOr builds a disjunction.
func NewOr(terms ...Term) *SatSxpr {
	return &SatSxpr{Op: SatOr, Terms: terms}
}

func (s *SatSxpr) String() string {
	if len(s.Terms) == 0 {
		if s.Op.identity() {
			return "[⊤]"
		}

		return "[⊥]"
	}

	parts := make([]string, len(s.Terms))
	for i, t := range s.Terms {
		parts[i] = t.String()
	}

	return "[" + strings.Join(parts, " "+s.Op.String()+" ") + "]"
}

// Checker decides satisfiability of a graph term.
type Checker func(ctx context.Context, g mhgraph.MHGraph) (bool, error)

type frame struct {
	expr *SatSxpr
	next int
	acc  bool
}

// Reduce evaluates the s-expression to a single verdict, deciding graph
// terms with the checker.  Evaluation is left-to-right with short-circuit,
// and uses an explicit work stack so arbitrarily deep nesting cannot
// exhaust the call stack.
func (s *SatSxpr) Reduce(ctx context.Context, check Checker) (bool, error) {
	stack := []*frame{{expr: s, acc: s.Op.identity()}}

	var (
		result     bool
		haveResult bool
	)

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		top := stack[len(stack)-1]

		if haveResult {
			top.acc = top.expr.Op.combine(top.acc, result)
			haveResult = false
		}

		if top.expr.Op.shortCircuits(top.acc) || top.next >= len(top.expr.Terms) {
			result = top.acc
			haveResult = true
			stack = stack[:len(stack)-1]

			continue
		}

		term := top.expr.Terms[top.next]
		top.next++

		switch {
		case term.nested != nil:
			stack = append(stack, &frame{expr: term.nested, acc: term.nested.Op.identity()})
		case term.graph != nil:
			verdict, err := check(ctx, term.graph)
			if err != nil {
				return false, err
			}

			result = verdict
			haveResult = true
		default:
			result = term.verdict
			haveResult = true
		}
	}

	return result, nil
}
