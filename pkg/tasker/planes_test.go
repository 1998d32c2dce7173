package tasker

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

func TestIdentifyPlanes_Alternating(t *testing.T) {
	planes := IdentifyPlanes(alternatingRows(), 10, 0.1, 1e-3)
	require.Len(t, planes, 6)

	for k, p := range planes {
		assert.Equal(t, []int{k}, p.Indices)
		assert.InDelta(t, float64(k)*10/6, p.Center, 1e-12)
	}
	assert.Equal(t, 2.0, planes[0].Charge)
	assert.Equal(t, -1.0, planes[1].Charge)
	assert.Equal(t, map[int]int{numO: 1}, planes[2].Counts)
}

func TestIdentifyPlanes_Clustering(t *testing.T) {
	tests := []struct {
		name        string
		rows        []core.AtomProjection
		planeTol    float64
		chargeTol   float64
		wantIndices [][]int
		wantCharges []float64
	}{
		{
			name: "close atoms share a plane",
			rows: []core.AtomProjection{
				{Number: 1, Z: 1.00, Charge: 0.5},
				{Number: 1, Z: 1.05, Charge: 0.5},
				{Number: 8, Z: 3.00, Charge: -1},
			},
			planeTol:    0.1,
			chargeTol:   1e-3,
			wantIndices: [][]int{{0, 1}, {2}},
			wantCharges: []float64{1, -1},
		},
		{
			name: "running mean decides membership",
			rows: []core.AtomProjection{
				{Number: 1, Z: 1.00, Charge: 1},
				{Number: 1, Z: 1.08, Charge: 1},
				{Number: 1, Z: 1.16, Charge: 1},
			},
			// mean after two is 1.04; 1.16 is 0.12 away
			planeTol:    0.1,
			chargeTol:   1e-3,
			wantIndices: [][]int{{0, 1}, {2}},
			wantCharges: []float64{2, 1},
		},
		{
			name: "sorted by wrapped coordinate",
			rows: []core.AtomProjection{
				{Number: 8, Z: 14, Charge: -1},
				{Number: 12, Z: 2, Charge: 2},
				{Number: 8, Z: -3, Charge: -1},
			},
			planeTol:    0.1,
			chargeTol:   1e-3,
			wantIndices: [][]int{{1}, {0}, {2}},
			wantCharges: []float64{2, -1, -1},
		},
		{
			name: "small charges are zeroed",
			rows: []core.AtomProjection{
				{Number: 1, Z: 1, Charge: 0.6},
				{Number: 1, Z: 1, Charge: -0.5999},
				{Number: 8, Z: 5, Charge: 0.2},
			},
			planeTol:    0.1,
			chargeTol:   1e-3,
			wantIndices: [][]int{{0, 1}, {2}},
			wantCharges: []float64{0, 0.2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planes := IdentifyPlanes(tt.rows, 10, tt.planeTol, tt.chargeTol)
			require.Len(t, planes, len(tt.wantIndices))
			for i, p := range planes {
				assert.Equal(t, tt.wantIndices[i], p.Indices, "plane %d indices", i)
				assert.InDelta(t, tt.wantCharges[i], p.Charge, 1e-9, "plane %d charge", i)
			}
		})
	}
}

func TestIdentifyPlanes_WraparoundMerge(t *testing.T) {
	rows := []core.AtomProjection{
		{Number: 8, Z: 0.05, Charge: -1},
		{Number: 12, Z: 5.0, Charge: 2},
		{Number: 8, Z: 9.98, Charge: -1},
	}

	planes := IdentifyPlanes(rows, 10, 0.1, 1e-3)
	require.Len(t, planes, 2)

	merged := planes[0]
	assert.ElementsMatch(t, []int{0, 2}, merged.Indices)
	assert.InDelta(t, 0.015, merged.Center, 1e-6)
	assert.Equal(t, -2.0, merged.Charge)
	assert.Equal(t, map[int]int{numO: 2}, merged.Counts)

	assert.Equal(t, []int{1}, planes[1].Indices)
}

func TestIdentifyPlanes_WraparoundMergeBelowZero(t *testing.T) {
	rows := []core.AtomProjection{
		{Number: 8, Z: 0.01, Charge: -1},
		{Number: 8, Z: 9.95, Charge: -1},
		{Number: 12, Z: 5.0, Charge: 2},
	}

	planes := IdentifyPlanes(rows, 10, 0.1, 1e-3)
	require.Len(t, planes, 2)

	// The circular mean lies just below the boundary and is reported in [0, L).
	assert.InDelta(t, 9.98, planes[0].Center, 1e-6)
}

func TestIdentifyPlanes_SinglePlaneNotMerged(t *testing.T) {
	rows := []core.AtomProjection{
		{Number: 8, Z: 0.0, Charge: -1},
		{Number: 8, Z: 0.02, Charge: -1},
	}
	planes := IdentifyPlanes(rows, 10, 0.1, 1e-3)
	require.Len(t, planes, 1)
	assert.Equal(t, []int{0, 1}, planes[0].Indices)
}

func TestIdentifyPlanes_Empty(t *testing.T) {
	assert.Empty(t, IdentifyPlanes(nil, 10, 0.1, 1e-3))
}

func randomRows(rng *rand.Rand, n int, period float64) []core.AtomProjection {
	rows := make([]core.AtomProjection, n)
	for i := range rows {
		rows[i] = core.AtomProjection{
			Number: 1 + rng.Intn(3),
			Z:      (rng.Float64()*3 - 1) * period,
			Charge: rng.Float64()*4 - 2,
		}
	}
	return rows
}

func TestIdentifyPlanes_Partition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		rows := randomRows(rng, 1+rng.Intn(40), 10)
		planes := IdentifyPlanes(rows, 10, 0.1+rng.Float64()*0.5, 1e-3)

		var all []int
		for _, p := range planes {
			require.NotEmpty(t, p.Indices)
			assert.True(t, p.Center >= 0 && p.Center < 10, "center %v outside [0, L)", p.Center)
			all = append(all, p.Indices...)
		}
		sort.Ints(all)

		want := make([]int, len(rows))
		for i := range want {
			want[i] = i
		}
		assert.Equal(t, want, all, "trial %d: planes must partition the rows", trial)
	}
}

func TestIdentifyPlanes_ChargeConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 50; trial++ {
		rows := randomRows(rng, 1+rng.Intn(40), 10)

		// A zero tolerance never zeroes a plane charge.
		planes := IdentifyPlanes(rows, 10, 0.3, 0)

		var planeSum, rowSum float64
		for _, p := range planes {
			planeSum += p.Charge
		}
		for _, r := range rows {
			rowSum += r.Charge
		}
		assert.InDelta(t, rowSum, planeSum, 1e-9, "trial %d", trial)
	}
}

func TestClusterer_FlushWhenEmpty(t *testing.T) {
	c := &clusterer{}
	c.flush()
	assert.Empty(t, c.planes)
	assert.Equal(t, phaseEmpty, c.phase)
}
