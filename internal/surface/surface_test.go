package surface

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/taskerslab/pkg/core"
	"github.com/leapstack-labs/taskerslab/pkg/lattice"
)

func simpleCubic(a float64) *core.Structure {
	return &core.Structure{
		Cell:  core.Cell{{a, 0, 0}, {0, a, 0}, {0, 0, a}},
		Atoms: []core.Atom{{Number: 84, Position: core.Vec3{0, 0, 0}}},
		PBC:   [3]bool{true, true, true},
	}
}

func rocksalt(a float64) *core.Structure {
	h := a / 2
	return &core.Structure{
		Cell: core.Cell{{a, 0, 0}, {0, a, 0}, {0, 0, a}},
		Atoms: []core.Atom{
			{Number: 12, Position: core.Vec3{0, 0, 0}},
			{Number: 12, Position: core.Vec3{h, h, 0}},
			{Number: 12, Position: core.Vec3{h, 0, h}},
			{Number: 12, Position: core.Vec3{0, h, h}},
			{Number: 8, Position: core.Vec3{h, 0, 0}},
			{Number: 8, Position: core.Vec3{0, h, 0}},
			{Number: 8, Position: core.Vec3{0, 0, h}},
			{Number: 8, Position: core.Vec3{h, h, h}},
		},
		PBC: [3]bool{true, true, true},
	}
}

func TestExtGCD(t *testing.T) {
	pairs := [][2]int{{3, 5}, {5, 3}, {1, 0}, {0, 1}, {4, 6}, {-1, 2}, {2, -3}, {1, 1}, {7, 21}}
	for _, p := range pairs {
		x, y := extGCD(p[0], p[1])
		g := gcd(p[0], p[1])
		got := p[0]*x + p[1]*y
		assert.Equal(t, g, absInt(got), "extGCD(%d, %d) = (%d, %d)", p[0], p[1], x, y)
	}
}

func TestFloorDivMod(t *testing.T) {
	assert.Equal(t, -1, floorDiv(-1, 2))
	assert.Equal(t, 1, floorMod(-1, 2))
	assert.Equal(t, -2, floorDiv(3, -2))
	assert.Equal(t, -1, floorMod(3, -2))
	assert.Equal(t, 2, floorDiv(4, 2))
	assert.Equal(t, 0, floorMod(4, 2))
}

func TestNewBasis(t *testing.T) {
	cell := simpleCubic(3).Cell

	tests := []struct {
		miller core.Miller
		want   Basis
	}{
		{core.Miller{0, 0, 1}, Basis{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}},
		{core.Miller{1, 0, 0}, Basis{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}}},
		{core.Miller{0, 2, 0}, Basis{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}}},
		{core.Miller{1, 1, 0}, Basis{{1, -1, 0}, {0, 0, -1}, {1, 0, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.miller.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, NewBasis(cell, tt.miller, DefaultTol))
		})
	}
}

func TestNewBasis_Unimodular(t *testing.T) {
	cell := core.Cell{{3.1, 0, 0}, {-1.55, 2.6847, 0}, {0, 0, 5.2}}
	millers := []core.Miller{
		{1, 1, 1}, {1, 1, 0}, {1, 0, 1}, {0, 1, 1}, {2, 1, 1}, {1, -1, 0}, {3, 2, 1}, {1, 2, 3}, {-1, 1, 2},
	}
	for _, m := range millers {
		b := NewBasis(cell, m, DefaultTol)
		assert.Equal(t, 1, absInt(b.Det()), "basis for %s", m)

		// The two in-plane vectors are perpendicular to the plane normal.
		for row := 0; row < 2; row++ {
			assert.Equal(t, 0, b[row][0]*m[0]+b[row][1]*m[1]+b[row][2]*m[2], "row %d of %s", row, m)
		}
	}
}

func TestBuild_SimpleCubic001(t *testing.T) {
	surf, err := NewBuilder().Build(simpleCubic(3), core.Miller{0, 0, 1}, 3, 0)
	require.NoError(t, err)

	require.Len(t, surf.Atoms, 3)
	for i, a := range surf.Atoms {
		assert.InDelta(t, 3*float64(i), a.Position[2], 1e-9)
	}
	assert.InDelta(t, 6.0, surf.Cell[2][2], 1e-9)
	assert.Equal(t, [3]bool{true, true, false}, surf.PBC)
}

func TestBuild_SimpleCubic110(t *testing.T) {
	surf, err := NewBuilder().Build(simpleCubic(3), core.Miller{1, 1, 0}, 2, 0)
	require.NoError(t, err)

	require.Len(t, surf.Atoms, 2)
	spacing := 3 / math.Sqrt2
	assert.InDelta(t, 0.0, surf.Atoms[0].Position[2], 1e-9)
	assert.InDelta(t, spacing, surf.Atoms[1].Position[2], 1e-9)

	// a lies along x with length |(a, -a, 0)|
	assert.InDelta(t, 3*math.Sqrt2, surf.Cell[0][0], 1e-9)
	assert.InDelta(t, 0.0, surf.Cell[0][1], 1e-12)
	assert.InDelta(t, 0.0, surf.Cell[0][2], 1e-12)

	d, err := lattice.PlaneSpacing(simpleCubic(3).Cell, core.Miller{1, 1, 0})
	require.NoError(t, err)
	assert.InDelta(t, d, spacing, 1e-9)
}

func TestBuild_OrderingContract(t *testing.T) {
	bulk := rocksalt(4.2)

	for _, m := range []core.Miller{{0, 0, 1}, {1, 1, 0}, {1, 1, 1}} {
		t.Run(m.Compact(), func(t *testing.T) {
			surf, err := NewBuilder().Build(bulk, m, 2, 0)
			require.NoError(t, err)
			require.Len(t, surf.Atoms, 2*bulk.Len())

			n := bulk.Len()
			for i, a := range surf.Atoms {
				assert.Equal(t, bulk.Atoms[i%n].Number, a.Number, "atom %d", i)
			}

			// The second layer is the first shifted by the layer height.
			layer := surf.Atoms[n].Position[2] - surf.Atoms[0].Position[2]
			for i := 0; i < n; i++ {
				dz := surf.Atoms[n+i].Position[2] - surf.Atoms[i].Position[2]
				assert.InDelta(t, layer, dz, 1e-9)
			}
		})
	}
}

func TestBuild_InPlaneWrapped(t *testing.T) {
	surf, err := NewBuilder().Build(rocksalt(4.2), core.Miller{1, 1, 1}, 1, 0)
	require.NoError(t, err)

	positions := make([]core.Vec3, len(surf.Atoms))
	for i, a := range surf.Atoms {
		positions[i] = a.Position
	}
	cell := surf.Cell
	cell[2] = core.Vec3{0, 0, 1}
	frac, err := lattice.ToFractional(cell, positions)
	require.NoError(t, err)
	for _, f := range frac {
		assert.True(t, f[0] >= -1e-9 && f[0] < 1+1e-9)
		assert.True(t, f[1] >= -1e-9 && f[1] < 1+1e-9)
	}
}

func TestBuild_Vacuum(t *testing.T) {
	surf, err := NewBuilder().Build(simpleCubic(3), core.Miller{0, 0, 1}, 2, 5)
	require.NoError(t, err)

	lo, hi := ZRange(surf)
	assert.InDelta(t, 5.0, lo, 1e-9)
	assert.InDelta(t, 8.0, hi, 1e-9)
	assert.InDelta(t, 13.0, surf.Cell[2][2], 1e-9)
}

func TestBuild_Errors(t *testing.T) {
	b := NewBuilder()

	_, err := b.Build(&core.Structure{Cell: simpleCubic(3).Cell}, core.Miller{0, 0, 1}, 1, 0)
	assert.ErrorIs(t, err, core.ErrEmptyStructure)

	_, err = b.Build(simpleCubic(3), core.Miller{}, 1, 0)
	assert.ErrorIs(t, err, core.ErrInvalidMiller)

	_, err = b.Build(simpleCubic(3), core.Miller{0, 0, 1}, 0, 0)
	assert.Error(t, err)

	singular := &core.Structure{
		Cell:  core.Cell{{1, 0, 0}, {2, 0, 0}, {0, 0, 1}},
		Atoms: []core.Atom{{Number: 1}},
	}
	_, err = b.Build(singular, core.Miller{0, 0, 1}, 1, 0)
	assert.ErrorIs(t, err, lattice.ErrSingularCell)
}

func TestSliceZ(t *testing.T) {
	s := &core.Structure{
		Atoms: []core.Atom{
			{Number: 1, Position: core.Vec3{0, 0, 0}},
			{Number: 2, Position: core.Vec3{0, 0, 1}},
			{Number: 3, Position: core.Vec3{0, 0, 2}},
		},
	}
	got := SliceZ(s, 0.5, 2)
	require.Len(t, got.Atoms, 2)
	assert.Equal(t, 2, got.Atoms[0].Number)
	assert.Equal(t, 3, got.Atoms[1].Number)
}
