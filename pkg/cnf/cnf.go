// Package cnf implements an immutable algebra of literals, clauses and
// formulas in conjunctive normal form.
//
// A Var is a positive integer identifier for a propositional variable.  A Lit
// is a Var, the negation of a Var, or one of the two boolean constants Top
// and Bot.  A Clause is the disjunction of a set of Lits, and a CNF is the
// conjunction of a set of Clauses.
//
// All four types are value types.  Constructor functions normalise their
// input (sorting, deduplication, tautological reduction) so that equal
// formulas always have equal representations.  No value is ever mutated
// after construction.
package cnf

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// ErrInvalidLiteral indicates an attempt to build a Lit from the integer
// zero, or from a magnitude outside the representable variable range.
var ErrInvalidLiteral = errors.New("literal must be a nonzero integer")

// Var identifies a propositional variable.  Valid variables are >= 1.
type Var uint32

// Lit is a literal: a variable id, its negation, or a boolean constant.
type Lit int32

// Boolean constant literals.  They sit outside the variable range, so
// negation remains a simple sign flip (Neg(Top) == Bot).
const (
	Top Lit = math.MaxInt32
	Bot Lit = -math.MaxInt32
)

// NewVar builds a Var from a positive integer.
func NewVar(n int) (Var, error) {
	if n <= 0 || n >= math.MaxInt32 {
		return 0, fmt.Errorf("variable %d out of range: %w", n, ErrInvalidLiteral)
	}

	return Var(n), nil
}

// NewLit builds a Lit from a nonzero integer.  The sign of the integer gives
// the polarity of the literal.
func NewLit(n int) (Lit, error) {
	if n == 0 {
		return 0, ErrInvalidLiteral
	}

	if n >= math.MaxInt32 || n <= -math.MaxInt32 {
		return 0, fmt.Errorf("literal %d out of range: %w", n, ErrInvalidLiteral)
	}

	return Lit(n), nil
}

// IsConst reports whether this literal is Top or Bot.
func (l Lit) IsConst() bool { return l == Top || l == Bot }

// Neg negates a literal.  Neg is an involution, also on the constants.
func Neg(l Lit) Lit { return -l }

// Abs returns the variable underlying a literal.  The boolean constants have
// no underlying variable; calling Abs on them is a programming error.
func Abs(l Lit) Var {
	if l.IsConst() {
		panic("absolute value not defined for boolean constants")
	}

	if l < 0 {
		return Var(-l)
	}

	return Var(l)
}

func (l Lit) String() string {
	switch l {
	case Top:
		return "⊤"
	case Bot:
		return "⊥"
	default:
		return fmt.Sprintf("%d", int32(l))
	}
}

// cmpLit imposes a total order on literals: by variable id, positive polarity
// before negative, constants last.
func cmpLit(a, b Lit) int {
	keyA, keyB := litKey(a), litKey(b)
	if keyA != keyB {
		return keyA - keyB
	}
	// Same variable: positive sorts first.
	if a != b {
		if a > b {
			return -1
		}

		return 1
	}

	return 0
}

func litKey(l Lit) int {
	if l.IsConst() {
		return math.MaxInt32
	}

	return int(Abs(l))
}

// ===================================================================
// Clause
// ===================================================================

// Clause is a disjunction of literals, stored sorted and without duplicates.
type Clause []Lit

// Canonical clause constants.  The empty clause is the unsatisfiable FALSE
// clause; the clause holding Top is the tautological TRUE clause.
var (
	TrueClause  = Clause{Top}
	FalseClause = Clause{}
)

// NewClause builds a normalised, tautologically reduced Clause from the
// given literals.  It never fails: duplicates collapse, and a clause holding
// a literal and its negation collapses to TrueClause.
func NewClause(lits ...Lit) Clause {
	c := make(Clause, len(lits))
	copy(c, lits)
	slices.SortFunc(c, cmpLit)
	c = slices.Compact(c)

	return TautologicallyReduceClause(c)
}

// TautologicallyReduceClause applies the clause-level tautologies:
//
//	⊤ ∨ c = ⊤,  ⊥ ∨ c = c,  l ∨ ¬l = ⊤.
//
// The input must be sorted and deduplicated.  The function is idempotent.
func TautologicallyReduceClause(c Clause) Clause {
	if slices.Contains(c, Top) {
		return TrueClause
	}

	c = slices.DeleteFunc(slices.Clone(c), func(l Lit) bool { return l == Bot })
	// A literal and its negation are adjacent after sorting by variable.
	for i := 0; i+1 < len(c); i++ {
		if c[i] == Neg(c[i+1]) {
			return TrueClause
		}
	}

	return c
}

// IsTrue reports whether this clause is the tautological TRUE clause.
func (c Clause) IsTrue() bool { return len(c) == 1 && c[0] == Top }

// IsFalse reports whether this clause is the empty (FALSE) clause.
func (c Clause) IsFalse() bool { return len(c) == 0 }

// Equal reports whether two normalised clauses are the same.
func (c Clause) Equal(other Clause) bool { return slices.Equal(c, other) }

func (c Clause) String() string {
	parts := make([]string, len(c))
	for i, l := range c {
		parts[i] = l.String()
	}

	return "(" + strings.Join(parts, ",") + ")"
}

// cmpClause orders clauses by length, then lexicographically.
func cmpClause(a, b Clause) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}

	return slices.CompareFunc(a, b, cmpLit)
}

// ===================================================================
// CNF
// ===================================================================

// CNF is a conjunction of clauses, stored sorted and without duplicates.
type CNF []Clause

// Canonical CNF constants.  The empty CNF is trivially TRUE; a CNF holding
// the empty clause is FALSE.
var (
	TrueCNF  = CNF{}
	FalseCNF = CNF{FalseClause}
)

// NewCNF builds a normalised, tautologically reduced CNF from the given
// clauses.  It never fails.
func NewCNF(clauses ...Clause) CNF {
	f := make(CNF, len(clauses))
	copy(f, clauses)

	return TautologicallyReduceCNF(f)
}

// TautologicallyReduceCNF applies the formula-level tautologies:
//
//	x ∧ ⊥ = ⊥,  x ∧ ⊤ = x.
//
// Each clause is reduced first.  The function is idempotent.
func TautologicallyReduceCNF(f CNF) CNF {
	reduced := make(CNF, 0, len(f))

	for _, c := range f {
		c = TautologicallyReduceClause(NewClause(c...))
		if c.IsFalse() {
			return FalseCNF
		}

		if !c.IsTrue() {
			reduced = append(reduced, c)
		}
	}

	slices.SortFunc(reduced, cmpClause)
	reduced = slices.CompactFunc(reduced, Clause.Equal)

	return reduced
}

// IsTrue reports whether this CNF is trivially TRUE.
func (f CNF) IsTrue() bool { return len(f) == 0 }

// IsFalse reports whether this CNF is trivially FALSE.
func (f CNF) IsFalse() bool {
	return slices.ContainsFunc(f, Clause.IsFalse)
}

// Equal reports whether two normalised CNFs are the same.
func (f CNF) Equal(other CNF) bool {
	return slices.EqualFunc(f, other, Clause.Equal)
}

func (f CNF) String() string {
	parts := make([]string, len(f))
	for i, c := range f {
		parts[i] = c.String()
	}

	return strings.Join(parts, "")
}

// Lits returns the sorted set of all literals appearing in a CNF.
func Lits(f CNF) []Lit {
	var all []Lit
	for _, c := range f {
		all = append(all, c...)
	}

	slices.SortFunc(all, cmpLit)

	return slices.Compact(all)
}

// Vars returns the sorted set of all variables appearing in a CNF.
func Vars(f CNF) []Var {
	var vars []Var

	for _, l := range Lits(f) {
		if !l.IsConst() {
			vars = append(vars, Abs(l))
		}
	}

	slices.Sort(vars)

	return slices.Compact(vars)
}

// ===================================================================
// Assignment
// ===================================================================

// AssignVar substitutes a truth value for one variable throughout a CNF and
// returns the tautologically reduced result.  Clauses satisfied by the
// assignment are dropped; falsified literals are removed from their clauses.
func AssignVar(f CNF, v Var, value bool) CNF {
	pos, negc := Bot, Top
	if value {
		pos, negc = Top, Bot
	}

	assigned := make(CNF, len(f))

	for i, c := range f {
		mapped := make(Clause, len(c))

		for j, l := range c {
			switch {
			case !l.IsConst() && Abs(l) == v && l > 0:
				mapped[j] = pos
			case !l.IsConst() && Abs(l) == v && l < 0:
				mapped[j] = negc
			default:
				mapped[j] = l
			}
		}

		assigned[i] = mapped
	}

	return TautologicallyReduceCNF(assigned)
}

// Assign folds AssignVar over a variable-to-truth mapping, in increasing
// variable order for reproducibility, short-circuiting to FalseCNF the
// moment any intermediate result is FALSE.  An empty assignment simply
// reduces the CNF.
func Assign(f CNF, assignment map[Var]bool) CNF {
	vars := make([]Var, 0, len(assignment))
	for v := range assignment {
		vars = append(vars, v)
	}

	slices.Sort(vars)

	result := TautologicallyReduceCNF(f)
	for _, v := range vars {
		if result.IsFalse() {
			return FalseCNF
		}

		result = AssignVar(result, v, assignment[v])
	}

	return result
}
