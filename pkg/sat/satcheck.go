package sat

import (
	"context"
	"errors"
	"fmt"

	"github.com/crillab/gophersat/solver"
	log "github.com/sirupsen/logrus"

	"github.com/vaibhavkarve/graphsat/pkg/cnf"
	"github.com/vaibhavkarve/graphsat/pkg/mhgraph"
)

// ErrSolverFailure indicates the external solver terminated without proving
// the formula satisfiable or unsatisfiable.
var ErrSolverFailure = errors.New("solver returned an indeterminate status")

// maxBruteForceVars bounds exhaustive assignment enumeration.
const maxBruteForceVars = 30

// AssignmentIterator lazily enumerates every truth assignment over a fixed
// variable set.  Each call to GenerateAssignments returns a fresh iterator.
type AssignmentIterator struct {
	vars []cnf.Var
	mask uint64
	done bool
}

// Next returns the next assignment, or false once all 2^n have been seen.
func (it *AssignmentIterator) Next() (map[cnf.Var]bool, bool) {
	if it.done {
		return nil, false
	}

	assignment := make(map[cnf.Var]bool, len(it.vars))
	for i, v := range it.vars {
		assignment[v] = it.mask&(1<<i) != 0
	}

	if it.mask == uint64(1)<<len(it.vars)-1 {
		it.done = true
	} else {
		it.mask++
	}

	return assignment, true
}

// GenerateAssignments enumerates all truth assignments over the variables of
// the tautologically reduced formula.  A formula with no variables yields the
// single empty assignment.
func GenerateAssignments(f cnf.CNF) (*AssignmentIterator, error) {
	vars := cnf.Vars(cnf.TautologicallyReduceCNF(f))
	if len(vars) > maxBruteForceVars {
		return nil, fmt.Errorf("%d variables exceed the brute-force limit of %d",
			len(vars), maxBruteForceVars)
	}

	return &AssignmentIterator{vars: vars}, nil
}

// CNFBruteForceSatCheck decides satisfiability by exhausting all truth
// assignments.  Intended for small formulas and cross-validation only.
func CNFBruteForceSatCheck(ctx context.Context, f cnf.CNF) (bool, error) {
	reduced := cnf.TautologicallyReduceCNF(f)
	if reduced.IsTrue() {
		return true, nil
	}

	if reduced.IsFalse() {
		return false, nil
	}

	assignments, err := GenerateAssignments(reduced)
	if err != nil {
		return false, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		assignment, ok := assignments.Next()
		if !ok {
			return false, nil
		}

		if cnf.Assign(reduced, assignment).IsTrue() {
			return true, nil
		}
	}
}

// CNFSolverSatCheck decides satisfiability with the external SAT solver.  An
// indeterminate verdict surfaces as ErrSolverFailure.
func CNFSolverSatCheck(ctx context.Context, f cnf.CNF) (bool, error) {
	reduced := cnf.TautologicallyReduceCNF(f)
	if reduced.IsTrue() {
		return true, nil
	}

	if reduced.IsFalse() {
		return false, nil
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}

	pb := solver.ParseSlice(cnf.ToSlice(reduced))

	switch status := solver.New(pb).Solve(); status {
	case solver.Sat:
		return true, nil
	case solver.Unsat:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrSolverFailure, status)
	}
}

// SatChecker decides satisfiability of a single CNF.
type SatChecker func(ctx context.Context, f cnf.CNF) (bool, error)

// MHGraphSatCheck reports whether a multi-hypergraph is satisfiable under
// the given CNF checker: the graph must support at least one CNF and every
// supported CNF must be satisfiable.
func MHGraphSatCheck(ctx context.Context, g mhgraph.MHGraph, check SatChecker) (bool, error) {
	if Oversaturated(g) {
		log.Debugf("%v is over-saturated, hence unsatisfiable", g)
		return false, nil
	}

	cnfs := CNFsFromMHGraph(g)

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		f, ok := cnfs.Next()
		if !ok {
			return true, nil
		}

		satisfiable, err := check(ctx, f)
		if err != nil {
			return false, err
		}

		if !satisfiable {
			log.Debugf("%v is falsified by the supported CNF %v", g, f)
			return false, nil
		}
	}
}

// MHGraphBruteForceSatCheck decides graph satisfiability by exhausting all
// truth assignments of every supported CNF.
func MHGraphBruteForceSatCheck(ctx context.Context, g mhgraph.MHGraph) (bool, error) {
	return MHGraphSatCheck(ctx, g, CNFBruteForceSatCheck)
}

// MHGraphSolverSatCheck decides graph satisfiability with the external SAT
// solver.
func MHGraphSolverSatCheck(ctx context.Context, g mhgraph.MHGraph) (bool, error) {
	return MHGraphSatCheck(ctx, g, CNFSolverSatCheck)
}
