// Package lattice provides the small amount of cell algebra the analysis needs:
// reciprocal vectors, fractional/Cartesian conversion and plane spacings.
package lattice

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// ErrSingularCell is returned when the lattice vectors are linearly dependent.
var ErrSingularCell = errors.New("singular cell")

// Dense returns the cell as a 3x3 matrix with lattice vectors as rows.
func Dense(c core.Cell) *mat.Dense {
	data := make([]float64, 0, 9)
	for _, row := range c {
		data = append(data, row[0], row[1], row[2])
	}
	return mat.NewDense(3, 3, data)
}

func cellFromDense(m mat.Matrix) core.Cell {
	var c core.Cell
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c[i][j] = m.At(i, j)
		}
	}
	return c
}

// Volume returns the signed cell volume.
func Volume(c core.Cell) float64 {
	return mat.Det(Dense(c))
}

// inverse returns A^-1 for the cell matrix A.
func inverse(c core.Cell) (*mat.Dense, error) {
	if math.Abs(Volume(c)) < 1e-12 {
		return nil, ErrSingularCell
	}
	var inv mat.Dense
	if err := inv.Inverse(Dense(c)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularCell, err)
	}
	return &inv, nil
}

// Reciprocal returns the reciprocal cell without the 2*pi factor: rows b_i with
// a_i . b_j = delta_ij, i.e. (A^-1)^T.
func Reciprocal(c core.Cell) (core.Cell, error) {
	inv, err := inverse(c)
	if err != nil {
		return core.Cell{}, err
	}
	return cellFromDense(inv.T()), nil
}

// ReciprocalVector returns G = (h, k, l) . reciprocal(cell).
func ReciprocalVector(c core.Cell, m core.Miller) (core.Vec3, error) {
	recip, err := Reciprocal(c)
	if err != nil {
		return core.Vec3{}, err
	}
	var g core.Vec3
	for i := 0; i < 3; i++ {
		g = Add(g, Scale(recip[i], float64(m[i])))
	}
	return g, nil
}

// PlaneSpacing returns 1/|G| for the Miller index. A zero index yields +Inf.
func PlaneSpacing(c core.Cell, m core.Miller) (float64, error) {
	g, err := ReciprocalVector(c, m)
	if err != nil {
		return 0, err
	}
	return 1.0 / Norm(g), nil
}

// ToFractional converts Cartesian positions to fractional coordinates of the cell.
func ToFractional(c core.Cell, positions []core.Vec3) ([]core.Vec3, error) {
	inv, err := inverse(c)
	if err != nil {
		return nil, err
	}
	out := make([]core.Vec3, len(positions))
	for n, p := range positions {
		// f = p . A^-1 for row vectors
		for j := 0; j < 3; j++ {
			out[n][j] = p[0]*inv.At(0, j) + p[1]*inv.At(1, j) + p[2]*inv.At(2, j)
		}
	}
	return out, nil
}

// ToCartesian converts a fractional coordinate to Cartesian.
func ToCartesian(c core.Cell, f core.Vec3) core.Vec3 {
	var p core.Vec3
	for i := 0; i < 3; i++ {
		p = Add(p, Scale(c[i], f[i]))
	}
	return p
}

// Norm returns the Euclidean length of v.
func Norm(v core.Vec3) float64 {
	return floats.Norm(v[:], 2)
}

// Dot returns a . b.
func Dot(a, b core.Vec3) float64 {
	return floats.Dot(a[:], b[:])
}

// Cross returns a x b.
func Cross(a, b core.Vec3) core.Vec3 {
	return core.Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Add returns a + b.
func Add(a, b core.Vec3) core.Vec3 {
	return core.Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub returns a - b.
func Sub(a, b core.Vec3) core.Vec3 {
	return core.Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale returns s * v.
func Scale(v core.Vec3, s float64) core.Vec3 {
	return core.Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Lengths returns |a|, |b|, |c|.
func Lengths(c core.Cell) [3]float64 {
	return [3]float64{Norm(c[0]), Norm(c[1]), Norm(c[2])}
}
