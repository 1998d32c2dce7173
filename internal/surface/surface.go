// Package surface reorients a bulk crystal so that a Miller plane lies in xy.
package surface

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/leapstack-labs/taskerslab/pkg/core"
	"github.com/leapstack-labs/taskerslab/pkg/lattice"
)

// DefaultTol is the tolerance used when snapping fractional coordinates.
const DefaultTol = 1e-10

// Builder implements core.SurfaceBuilder.
type Builder struct {
	Tol float64
}

var _ core.SurfaceBuilder = (*Builder)(nil)

// NewBuilder creates a Builder with DefaultTol.
func NewBuilder() *Builder {
	return &Builder{Tol: DefaultTol}
}

// Build returns layers repetitions of the reoriented bulk, stacked along z and
// centered with vacuum on both sides. The in-plane axes stay periodic.
//
// Atoms are emitted layer-major, each layer in bulk order.
func (b *Builder) Build(bulk *core.Structure, m core.Miller, layers int, vacuum float64) (*core.Structure, error) {
	if bulk.Len() == 0 {
		return nil, core.ErrEmptyStructure
	}
	if m.IsZero() {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidMiller, m)
	}
	if layers < 1 {
		return nil, fmt.Errorf("layers must be at least 1, got %d", layers)
	}

	basis := NewBasis(bulk.Cell, m, b.Tol)
	surf, err := build(bulk, basis, layers, b.Tol)
	if err != nil {
		return nil, fmt.Errorf("build surface %s: %w", m, err)
	}
	Center(surf, vacuum)
	return surf, nil
}

func build(bulk *core.Structure, basis Basis, layers int, tol float64) (*core.Structure, error) {
	positions := make([]core.Vec3, len(bulk.Atoms))
	for i, a := range bulk.Atoms {
		positions[i] = a.Position
	}
	frac, err := lattice.ToFractional(bulk.Cell, positions)
	if err != nil {
		return nil, err
	}

	bm := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			bm.Set(i, j, float64(basis[i][j]))
		}
	}
	var binv mat.Dense
	if err := binv.Inverse(bm); err != nil {
		return nil, fmt.Errorf("surface basis: %w", err)
	}

	// Fractional coordinates in the new basis, folded into the cell.
	for n, f := range frac {
		var x core.Vec3
		for j := 0; j < 3; j++ {
			x[j] = f[0]*binv.At(0, j) + f[1]*binv.At(1, j) + f[2]*binv.At(2, j)
			x[j] -= math.Floor(x[j] + tol)
		}
		frac[n] = x
	}

	var cell core.Cell
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cell[i] = lattice.Add(cell[i], lattice.Scale(bulk.Cell[j], float64(basis[i][j])))
		}
	}

	atoms := make([]core.Atom, 0, len(bulk.Atoms)*layers)
	for layer := 0; layer < layers; layer++ {
		for n, a := range bulk.Atoms {
			f := frac[n]
			f[2] += float64(layer)
			atoms = append(atoms, core.Atom{Number: a.Number, Position: lattice.ToCartesian(cell, f)})
		}
	}
	cell[2] = lattice.Scale(cell[2], float64(layers))

	// Replace c by its component along the surface normal.
	normal := lattice.Cross(cell[0], cell[1])
	cell[2] = lattice.Scale(normal, lattice.Dot(cell[2], normal)/lattice.Dot(normal, normal))

	// Rotate so that a lies along x and the normal along z.
	a1, a2, a3 := cell[0], cell[1], cell[2]
	n1 := lattice.Norm(a1)
	proj := lattice.Dot(a1, a2) / n1
	n2 := lattice.Norm(a2)
	rotated := core.Cell{
		{n1, 0, 0},
		{proj, math.Sqrt(n2*n2 - proj*proj), 0},
		{0, 0, lattice.Norm(a3)},
	}

	positions = positions[:0]
	for _, a := range atoms {
		positions = append(positions, a.Position)
	}
	frac, err = lattice.ToFractional(cell, positions)
	if err != nil {
		return nil, err
	}
	for i, f := range frac {
		f[0] = wrapUnit(f[0])
		f[1] = wrapUnit(f[1])
		atoms[i].Position = lattice.ToCartesian(rotated, f)
	}

	return &core.Structure{
		Cell:  rotated,
		Atoms: atoms,
		PBC:   [3]bool{true, true, false},
	}, nil
}

func wrapUnit(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1 {
		x = 0
	}
	return x
}

// Center shifts atoms along z so the lowest sits at vacuum and sets the c
// vector to the atom extent plus vacuum on both sides.
func Center(s *core.Structure, vacuum float64) {
	if len(s.Atoms) == 0 {
		return
	}
	lo, hi := ZRange(s)
	shift := vacuum - lo
	for i := range s.Atoms {
		s.Atoms[i].Position[2] += shift
	}
	s.Cell[2] = core.Vec3{0, 0, math.Abs(hi - lo + 2*vacuum)}
}

// ZRange returns the smallest and largest atom z coordinates.
func ZRange(s *core.Structure) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, a := range s.Atoms {
		lo = math.Min(lo, a.Position[2])
		hi = math.Max(hi, a.Position[2])
	}
	return lo, hi
}

// SliceZ returns the atoms with zmin <= z <= zmax, in order, sharing the cell.
func SliceZ(s *core.Structure, zmin, zmax float64) *core.Structure {
	out := &core.Structure{Cell: s.Cell, PBC: s.PBC}
	for _, a := range s.Atoms {
		z := a.Position[2]
		if zmin <= z && z <= zmax {
			out.Atoms = append(out.Atoms, a)
		}
	}
	return out
}
