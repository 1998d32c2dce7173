package surface

import (
	"math"

	"github.com/leapstack-labs/taskerslab/pkg/core"
	"github.com/leapstack-labs/taskerslab/pkg/lattice"
)

// Basis holds the integer combinations of bulk lattice vectors spanning the
// surface cell. Rows 0 and 1 lie in the (h, k, l) plane.
type Basis [3][3]int

// Det returns the determinant. Bases produced by NewBasis are unimodular.
func (b Basis) Det() int {
	return b[0][0]*(b[1][1]*b[2][2]-b[1][2]*b[2][1]) -
		b[0][1]*(b[1][0]*b[2][2]-b[1][2]*b[2][0]) +
		b[0][2]*(b[1][0]*b[2][1]-b[1][1]*b[2][0])
}

// NewBasis finds a surface basis for Miller index m.
//
// When two indices are zero the bulk vectors are permuted. Otherwise the
// in-plane vectors come from the extended Euclidean algorithm, with the first
// vector shortened against the second.
func NewBasis(cell core.Cell, m core.Miller, tol float64) Basis {
	h, k, l := m[0], m[1], m[2]
	h0, k0, l0 := h == 0, k == 0, l == 0

	if (h0 && k0) || (h0 && l0) || (k0 && l0) {
		switch {
		case !h0:
			return Basis{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}}
		case !k0:
			return Basis{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}}
		default:
			return Basis{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
		}
	}

	p, q := extGCD(k, l)
	a1, a2, a3 := cell[0], cell[1], cell[2]

	fh, fk, fl := float64(h), float64(k), float64(l)
	ka1ha2 := lattice.Sub(lattice.Scale(a1, fk), lattice.Scale(a2, fh))
	la1ha3 := lattice.Sub(lattice.Scale(a1, fl), lattice.Scale(a3, fh))
	la2ka3 := lattice.Sub(lattice.Scale(a2, fl), lattice.Scale(a3, fk))

	k1 := lattice.Dot(lattice.Add(lattice.Scale(ka1ha2, float64(p)), lattice.Scale(la1ha3, float64(q))), la2ka3)
	k2 := lattice.Dot(lattice.Sub(lattice.Scale(ka1ha2, fl), lattice.Scale(la1ha3, fk)), la2ka3)

	if math.Abs(k2) > tol {
		i := -int(math.RoundToEven(k1 / k2))
		p, q = p+i*l, q-i*k
	}

	a, b := extGCD(p*k+q*l, h)
	g := absInt(gcd(l, k))

	return Basis{
		{p*k + q*l, -p * h, -q * h},
		{0, floorDiv(l, g), floorDiv(-k, g)},
		{b, a * p, a * q},
	}
}

// extGCD returns x, y with a*x + b*y = +-gcd(a, b), using floored division.
func extGCD(a, b int) (int, int) {
	if b == 0 {
		return 1, 0
	}
	if floorMod(a, b) == 0 {
		return 0, 1
	}
	x, y := extGCD(b, floorMod(a, b))
	return y, x - y*floorDiv(a, b)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return absInt(a)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - b*floorDiv(a, b)
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
