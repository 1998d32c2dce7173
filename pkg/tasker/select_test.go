package tasker

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

func window(order int, dipole float64, valid bool) core.CutWindow {
	return core.CutWindow{
		Order:     order,
		NetDipole: dipole,
		IsNeutral: valid,
		IsStoich:  valid,
	}
}

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name       string
		candidates []core.CutWindow
		wantOrder  int
		wantTasker bool
	}{
		{
			name: "smallest dipole wins",
			candidates: []core.CutWindow{
				window(0, 3, true),
				window(1, -0.5, true),
				window(2, 1, true),
			},
			wantOrder: 1,
		},
		{
			name: "invalid windows are ignored",
			candidates: []core.CutWindow{
				window(0, 0, false),
				window(1, 2, true),
			},
			wantOrder: 1,
		},
		{
			name: "exact tie goes to later enumeration",
			candidates: []core.CutWindow{
				window(7, -1, true),
				window(3, 1, true),
			},
			wantOrder: 7,
		},
		{
			name: "tasker II within tolerance",
			candidates: []core.CutWindow{
				window(0, 5e-7, true),
			},
			wantOrder:  0,
			wantTasker: true,
		},
		{
			name: "outside tolerance is not tasker II",
			candidates: []core.CutWindow{
				window(0, 2e-6, true),
			},
			wantOrder: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectBest(tt.candidates, 1e-6)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOrder, got.Order)
			assert.Equal(t, tt.wantTasker, got.IsTaskerII)
		})
	}
}

func TestSelectBest_NoValid(t *testing.T) {
	candidates := []core.CutWindow{
		window(0, 0, false),
		{Order: 1, IsNeutral: true},
		{Order: 2, IsStoich: true},
	}

	got, err := SelectBest(candidates, 1e-6)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, core.ErrNoValidTermination)

	_, err = SelectBest(nil, 1e-6)
	assert.ErrorIs(t, err, core.ErrNoValidTermination)
}

// referenceSelect stable-sorts enumeration-ordered candidates by descending
// |dipole|, keeps the valid ones and takes the last.
func referenceSelect(candidates []core.CutWindow) (core.CutWindow, bool) {
	ordered := make([]core.CutWindow, len(candidates))
	copy(ordered, candidates)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })
	SortByDipole(ordered)
	valid := ValidWindows(ordered)
	if len(valid) == 0 {
		return core.CutWindow{}, false
	}
	return valid[len(valid)-1], true
}

func TestSelectBest_MatchesSortFilterLast(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dipoles := []float64{-2, -1, 0, 1, 2, 0.5}

	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(12)
		candidates := make([]core.CutWindow, n)
		for i := range candidates {
			candidates[i] = window(i, dipoles[rng.Intn(len(dipoles))], rng.Intn(3) > 0)
		}
		rng.Shuffle(n, func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

		want, ok := referenceSelect(candidates)
		got, err := SelectBest(candidates, 1e-6)
		if !ok {
			assert.ErrorIs(t, err, core.ErrNoValidTermination)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, want.Order, got.Order, "trial %d", trial)
	}
}

func TestSelectBest_OrderIndependent(t *testing.T) {
	candidates := []core.CutWindow{
		window(0, 1, true),
		window(1, -1, true),
		window(2, 1, false),
		window(3, 1, true),
	}
	reversed := []core.CutWindow{candidates[3], candidates[2], candidates[1], candidates[0]}

	a, err := SelectBest(candidates, 1e-6)
	require.NoError(t, err)
	b, err := SelectBest(reversed, 1e-6)
	require.NoError(t, err)

	assert.Equal(t, 3, a.Order)
	assert.Equal(t, a.Order, b.Order)
}

func TestValidWindows(t *testing.T) {
	candidates := []core.CutWindow{
		window(4, 1, true),
		window(2, 0, false),
		window(9, 2, true),
	}
	valid := ValidWindows(candidates)
	require.Len(t, valid, 2)
	assert.Equal(t, 4, valid[0].Order)
	assert.Equal(t, 9, valid[1].Order)
}
