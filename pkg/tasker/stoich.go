package tasker

import "github.com/leapstack-labs/taskerslab/pkg/core"

// CountElements counts atoms per atomic number.
func CountElements(rows []core.AtomProjection) map[int]int {
	counts := make(map[int]int)
	for _, r := range rows {
		counts[r.Number]++
	}
	return counts
}

// ReduceFormula returns the bulk element counts divided by their greatest
// common divisor.
func ReduceFormula(rows []core.AtomProjection) core.ReducedFormula {
	counts := CountElements(rows)

	g := 0
	for _, c := range counts {
		g = gcd(g, c)
	}
	if g < 1 {
		g = 1
	}

	reduced := make(core.ReducedFormula, len(counts))
	for z, c := range counts {
		reduced[z] = c / g
	}
	return reduced
}

// IsStoichiometric reports whether counts is a positive integer multiple k of
// formula, and returns k.
//
// Only elements present in formula are checked: extra elements in counts do
// not affect the result.
func IsStoichiometric(counts map[int]int, formula core.ReducedFormula) (bool, int) {
	k := -1
	for z, r := range formula {
		if r == 0 {
			continue
		}
		n := counts[z]
		if n%r != 0 {
			return false, 0
		}
		q := n / r
		if k >= 0 && q != k {
			return false, 0
		}
		k = q
	}
	if k < 1 {
		return false, 0
	}
	return true, k
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
