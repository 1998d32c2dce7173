package tasker

import (
	"fmt"
	"math"

	"github.com/leapstack-labs/taskerslab/pkg/core"
	"github.com/leapstack-labs/taskerslab/pkg/lattice"
)

// Project maps an extended atom set and its aligned charges onto the surface
// normal of Miller index m.
//
// The periodicity length is L = 1/|G| with G = (h, k, l) . reciprocal(bulkCell).
// surf must come from a core.SurfaceBuilder so that its z axis is the surface
// normal and its atom order matches charges.
func Project(bulkCell core.Cell, surf *core.Structure, charges []float64, m core.Miller) (*core.Profile, error) {
	if len(charges) != surf.Len() {
		return nil, fmt.Errorf("%w: charges length (%d) does not match atoms (%d)",
			core.ErrLengthMismatch, len(charges), surf.Len())
	}

	period, err := lattice.PlaneSpacing(bulkCell, m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrDegeneratePeriod, err)
	}
	if math.IsNaN(period) || math.IsInf(period, 0) || period <= 0 {
		return nil, fmt.Errorf("%w: L = %v for miller %s", core.ErrDegeneratePeriod, period, m)
	}

	rows := make([]core.AtomProjection, len(surf.Atoms))
	for i, a := range surf.Atoms {
		rows[i] = core.AtomProjection{
			Number: a.Number,
			Z:      a.Position[2],
			Charge: charges[i],
		}
	}

	return &core.Profile{Rows: rows, Period: period}, nil
}

// wrap reduces z into [0, period).
func wrap(z, period float64) float64 {
	r := math.Mod(z, period)
	if r < 0 {
		r += period
	}
	if r >= period {
		r = 0
	}
	return r
}
