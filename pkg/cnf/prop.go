package cnf

// Propositional connectives lifted to whole formulas.  Conjunction is just
// clause-set union; disjunction distributes clauses pairwise and can grow
// the formula quadratically, so it is only applied to the small CNFs arising
// during decomposition.

// And returns the conjunction of two CNFs.
func And(f1, f2 CNF) CNF {
	clauses := make([]Clause, 0, len(f1)+len(f2))
	clauses = append(clauses, f1...)
	clauses = append(clauses, f2...)

	return NewCNF(clauses...)
}

// Or returns the disjunction of two CNFs, distributing clauses pairwise:
//
//	(c₁ ∧ c₂) ∨ (d₁ ∧ d₂) = (c₁∨d₁) ∧ (c₁∨d₂) ∧ (c₂∨d₁) ∧ (c₂∨d₂).
func Or(f1, f2 CNF) CNF {
	if f1.IsTrue() || f2.IsTrue() {
		return TrueCNF
	}

	if f1.IsFalse() {
		return TautologicallyReduceCNF(f2)
	}

	if f2.IsFalse() {
		return TautologicallyReduceCNF(f1)
	}

	clauses := make([]Clause, 0, len(f1)*len(f2))

	for _, c1 := range f1 {
		for _, c2 := range f2 {
			clauses = append(clauses, NewClause(append(cloneLits(c1), c2...)...))
		}
	}

	return NewCNF(clauses...)
}

// Not returns the negation of a CNF, re-expressed in conjunctive normal
// form by De Morgan expansion.
func Not(f CNF) CNF {
	if f.IsTrue() {
		return FalseCNF
	}

	if f.IsFalse() {
		return TrueCNF
	}

	// ¬(c₁ ∧ c₂ ∧ ...) = ¬c₁ ∨ ¬c₂ ∨ ... where each ¬cᵢ is a conjunction
	// of unit clauses.
	result := FalseCNF
	for _, c := range f {
		units := make([]Clause, len(c))
		for i, l := range c {
			units[i] = Clause{Neg(l)}
		}

		result = Or(result, NewCNF(units...))
	}

	return result
}

func cloneLits(c Clause) []Lit {
	out := make([]Lit, len(c))
	copy(out, c)

	return out
}
