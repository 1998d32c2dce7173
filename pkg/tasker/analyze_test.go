package tasker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

func TestAnalyze_AlternatingPlanes(t *testing.T) {
	profile := &core.Profile{Rows: alternatingRows(), Period: 10}

	a, err := Analyze(profile, core.DefaultTolerances())
	require.NoError(t, err)

	assert.Len(t, a.Planes, 6)
	assert.Equal(t, core.ReducedFormula{numMg: 1, numO: 2}, a.Formula)
	assert.Len(t, a.Candidates, 36)
	assert.NotEmpty(t, a.Valid())

	require.NotNil(t, a.Selected)
	assert.InDelta(t, 0.0, a.Selected.NetDipole, 1e-9)
	assert.True(t, a.Selected.IsTaskerII)
	assert.True(t, a.Selected.IsValid())

	for _, v := range a.Valid() {
		assert.GreaterOrEqual(t, math.Abs(v.NetDipole), math.Abs(a.Selected.NetDipole))
	}
}

func TestAnalyze_SmallBulk(t *testing.T) {
	bulk := smallBulk()

	profile, err := Project(bulk.Cell, bulk, []float64{2, -1, -1}, core.Miller{0, 0, 1})
	require.NoError(t, err)

	a, err := Analyze(profile, core.DefaultTolerances())
	require.NoError(t, err)

	require.Len(t, a.Planes, 3)
	require.Len(t, a.Candidates, 9)
	assert.Len(t, a.Valid(), 3)

	sel := a.Selected
	assert.Equal(t, 1, sel.BottomCut)
	assert.Equal(t, 1, sel.TopCut)
	assert.Equal(t, 0.0, sel.NetDipole)
	assert.True(t, sel.IsTaskerII)
	assert.Equal(t, []int{2, 0, 1}, sel.PlaneIndices)

	assert.InDelta(t, 1.5, a.Cuts.Bottom, 1e-12)
	assert.InDelta(t, 1.5, a.Cuts.Top, 1e-12)
}

func TestAnalyze_NoValidTermination(t *testing.T) {
	profile := &core.Profile{
		Rows: []core.AtomProjection{
			{Number: 1, Z: 0, Charge: 1},
			{Number: 1, Z: 5, Charge: 1},
		},
		Period: 10,
	}

	a, err := Analyze(profile, core.DefaultTolerances())
	require.ErrorIs(t, err, core.ErrNoValidTermination)

	require.NotNil(t, a, "partial analysis is returned")
	assert.Len(t, a.Planes, 2)
	assert.Len(t, a.Candidates, 4)
	assert.Empty(t, a.Valid())
	assert.Nil(t, a.Selected)
}

func TestAnalysis_PlotData(t *testing.T) {
	bulk := smallBulk()
	profile, err := Project(bulk.Cell, bulk, []float64{2, -1, -1}, core.Miller{0, 0, 1})
	require.NoError(t, err)

	a, err := Analyze(profile, core.DefaultTolerances())
	require.NoError(t, err)

	data := a.PlotData(core.Miller{0, 0, 1})
	assert.Same(t, profile, data.Profile)
	require.NotNil(t, data.Cuts)
	require.NotNil(t, data.Dipole)
	assert.Equal(t, a.Cuts, *data.Cuts)

	partial := &Analysis{Profile: profile}
	data = partial.PlotData(core.Miller{0, 0, 1})
	assert.Nil(t, data.Cuts)
	assert.Nil(t, data.Dipole)
}
