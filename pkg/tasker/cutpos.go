package tasker

import (
	"fmt"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// ResolveCutPositions converts cut indices into real-space coordinates.
//
// Cut i lies midway between sorted plane i and plane i+1 (cyclically). When the
// next plane's center is below plane i's it is shifted up by one period, so the
// cut is expressed in the same unwrapped frame as the enumeration. Planes are
// ordered by wrapped center but the midpoint uses their centers as given.
// Centers from IdentifyPlanes already lie in [0, period), so for those planes
// both coincide.
func ResolveCutPositions(planes []core.Plane, period float64, bottom, top int) (core.CutPositions, error) {
	n := len(planes)
	if n == 0 {
		return core.CutPositions{}, fmt.Errorf("resolve cut positions: no planes")
	}
	if bottom < 0 || bottom >= n || top < 0 || top >= n {
		return core.CutPositions{}, fmt.Errorf("resolve cut positions: cut (%d, %d) out of range for %d planes", bottom, top, n)
	}

	sorted := SortPlanes(planes, period)
	midpoint := func(i int) float64 {
		z0 := sorted[i].Center
		z1 := sorted[(i+1)%n].Center
		if z1 < z0 {
			z1 += period
		}
		return 0.5 * (z0 + z1)
	}

	return core.CutPositions{
		Bottom: midpoint(bottom),
		Top:    midpoint(top),
	}, nil
}
