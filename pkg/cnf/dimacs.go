package cnf

import (
	"fmt"
	"strings"
)

// ToDIMACS serialises a CNF in DIMACS clause format: one clause per line,
// literals space-separated, each line terminated by 0.  The formula is
// tautologically reduced first so no boolean constants remain, and the
// canonical clause ordering makes the output deterministic across runs.
//
// A trivially TRUE formula serialises to the empty string; a trivially FALSE
// formula serialises to the single unsatisfiable line "0".
func ToDIMACS(f CNF) string {
	reduced := TautologicallyReduceCNF(f)
	if reduced.IsTrue() {
		return ""
	}

	if reduced.IsFalse() {
		return "0"
	}

	var b strings.Builder

	for i, c := range reduced {
		if i > 0 {
			b.WriteByte('\n')
		}

		for _, l := range c {
			fmt.Fprintf(&b, "%d ", int32(l))
		}

		b.WriteByte('0')
	}

	return b.String()
}

// ToSlice converts a reduced CNF into the slice-of-ints clause form accepted
// by the external solver.  The caller must ensure the formula is not
// trivially TRUE or FALSE.
func ToSlice(f CNF) [][]int {
	out := make([][]int, len(f))

	for i, c := range f {
		out[i] = make([]int, len(c))
		for j, l := range c {
			out[i][j] = int(int32(l))
		}
	}

	return out
}
