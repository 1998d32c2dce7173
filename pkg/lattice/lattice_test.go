package lattice

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

func cubic(a float64) core.Cell {
	return core.Cell{{a, 0, 0}, {0, a, 0}, {0, 0, a}}
}

func TestReciprocal_Cubic(t *testing.T) {
	recip, err := Reciprocal(cubic(4))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 0.25
			}
			assert.InDelta(t, want, recip[i][j], 1e-12)
		}
	}
}

func TestReciprocal_DualBasis(t *testing.T) {
	// Hexagonal cell: a_i . b_j must be the identity
	a, c := 3.0, 5.0
	cell := core.Cell{
		{a, 0, 0},
		{-a / 2, a * math.Sqrt(3) / 2, 0},
		{0, 0, c},
	}
	recip, err := Reciprocal(cell)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, Dot(cell[i], recip[j]), 1e-12, "a_%d . b_%d", i, j)
		}
	}
}

func TestPlaneSpacing(t *testing.T) {
	tests := []struct {
		name   string
		cell   core.Cell
		miller core.Miller
		want   float64
	}{
		{name: "cubic 001", cell: cubic(4), miller: core.Miller{0, 0, 1}, want: 4},
		{name: "cubic 110", cell: cubic(4), miller: core.Miller{1, 1, 0}, want: 4 / math.Sqrt(2)},
		{name: "cubic 111", cell: cubic(4), miller: core.Miller{1, 1, 1}, want: 4 / math.Sqrt(3)},
		{name: "tetragonal 001", cell: core.Cell{{4.5, 0, 0}, {0, 4.5, 0}, {0, 0, 3.1}}, miller: core.Miller{0, 0, 1}, want: 3.1},
		{name: "tetragonal 101", cell: core.Cell{{4, 0, 0}, {0, 4, 0}, {0, 0, 3}}, miller: core.Miller{1, 0, 1}, want: 1 / math.Sqrt(1.0/16+1.0/9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlaneSpacing(tt.cell, tt.miller)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestPlaneSpacing_ZeroMiller(t *testing.T) {
	got, err := PlaneSpacing(cubic(4), core.Miller{})
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))
}

func TestSingularCell(t *testing.T) {
	flat := core.Cell{{1, 0, 0}, {0, 1, 0}, {1, 1, 0}}
	_, err := Reciprocal(flat)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSingularCell))
}

func TestFractionalRoundTrip(t *testing.T) {
	cell := core.Cell{{4, 0, 0}, {1, 3, 0}, {0.5, 0.5, 6}}
	p := []core.Vec3{{1, 2, 3}, {0, 0, 0}, {5.5, 3.5, 6}}

	frac, err := ToFractional(cell, p)
	require.NoError(t, err)
	for i := range p {
		back := ToCartesian(cell, frac[i])
		for j := 0; j < 3; j++ {
			assert.InDelta(t, p[i][j], back[j], 1e-12)
		}
	}
	assert.InDelta(t, 1.0, frac[2][0], 1e-12)
	assert.InDelta(t, 1.0, frac[2][1], 1e-12)
	assert.InDelta(t, 1.0, frac[2][2], 1e-12)
}

func TestVectorHelpers(t *testing.T) {
	x := core.Vec3{1, 0, 0}
	y := core.Vec3{0, 1, 0}
	assert.Equal(t, core.Vec3{0, 0, 1}, Cross(x, y))
	assert.Equal(t, 0.0, Dot(x, y))
	assert.Equal(t, core.Vec3{1, 1, 0}, Add(x, y))
	assert.Equal(t, core.Vec3{1, -1, 0}, Sub(x, y))
	assert.Equal(t, core.Vec3{2, 0, 0}, Scale(x, 2))
	assert.InDelta(t, 5.0, Norm(core.Vec3{3, 4, 0}), 1e-12)
	assert.InDelta(t, 64.0, Volume(cubic(4)), 1e-9)
}
