package tasker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

func TestResolveCutPositions(t *testing.T) {
	planes, _ := alternatingAnalysisInputs()

	tests := []struct {
		name       string
		bottom     int
		top        int
		wantBottom float64
		wantTop    float64
	}{
		{"interior cuts", 0, 3, 5.0 / 6, 35.0 / 6},
		{"last cut crosses the boundary", 5, 1, 55.0 / 6, 2.5},
		{"equal cuts", 2, 2, 25.0 / 6, 25.0 / 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveCutPositions(planes, 10, tt.bottom, tt.top)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantBottom, got.Bottom, 1e-12)
			assert.InDelta(t, tt.wantTop, got.Top, 1e-12)
		})
	}
}

func TestResolveCutPositions_ShiftByPeriod(t *testing.T) {
	planes, _ := alternatingAnalysisInputs()

	shifted := make([]core.Plane, len(planes))
	for i, p := range planes {
		p.Center += 10
		shifted[i] = p
	}

	for bottom := range planes {
		for top := range planes {
			base, err := ResolveCutPositions(planes, 10, bottom, top)
			require.NoError(t, err)
			moved, err := ResolveCutPositions(shifted, 10, bottom, top)
			require.NoError(t, err)

			assert.InDelta(t, base.Bottom+10, moved.Bottom, 1e-9, "bottom cut %d", bottom)
			assert.InDelta(t, base.Top+10, moved.Top, 1e-9, "top cut %d", top)
		}
	}
}

func TestResolveCutPositions_FromIdentifiedPlanes(t *testing.T) {
	rows := alternatingRows()
	for i := range rows {
		if i%2 == 0 {
			rows[i].Z += 20
		} else {
			rows[i].Z -= 10
		}
	}

	planes := IdentifyPlanes(rows, 10, 0.1, 1e-3)
	require.Len(t, planes, 6)
	for _, p := range planes {
		assert.GreaterOrEqual(t, p.Center, 0.0)
		assert.Less(t, p.Center, 10.0)
	}

	got, err := ResolveCutPositions(planes, 10, 0, 3)
	require.NoError(t, err)
	assert.InDelta(t, 5.0/6, got.Bottom, 1e-9)
	assert.InDelta(t, 35.0/6, got.Top, 1e-9)

	got, err = ResolveCutPositions(planes, 10, 5, 1)
	require.NoError(t, err)
	assert.InDelta(t, 55.0/6, got.Bottom, 1e-9)
	assert.InDelta(t, 2.5, got.Top, 1e-9)
}

func TestResolveCutPositions_SinglePlane(t *testing.T) {
	planes := []core.Plane{plane(4, 0, nil, 0)}

	got, err := ResolveCutPositions(planes, 10, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, core.CutPositions{Bottom: 4, Top: 4}, got)
}

func TestResolveCutPositions_Errors(t *testing.T) {
	planes, _ := alternatingAnalysisInputs()

	_, err := ResolveCutPositions(nil, 10, 0, 0)
	assert.Error(t, err)

	_, err = ResolveCutPositions(planes, 10, 6, 0)
	assert.Error(t, err)

	_, err = ResolveCutPositions(planes, 10, 0, -1)
	assert.Error(t, err)
}
