package tasker

import (
	"fmt"
	"math"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// preferred reports whether a ranks ahead of b: valid windows first, then the
// smaller |NetDipole|, then the later enumeration order.
func preferred(a, b *core.CutWindow) bool {
	if a.IsValid() != b.IsValid() {
		return a.IsValid()
	}
	da, db := math.Abs(a.NetDipole), math.Abs(b.NetDipole)
	if da != db {
		return da < db
	}
	return a.Order > b.Order
}

// SelectBest picks the valid window with the smallest |NetDipole|. Exact ties
// go to the window enumerated last. The result is independent of the order of
// candidates.
//
// Returns core.ErrNoValidTermination when no candidate is valid.
func SelectBest(candidates []core.CutWindow, dipoleTol float64) (*core.SelectedWindow, error) {
	var best *core.CutWindow
	for i := range candidates {
		c := &candidates[i]
		if !c.IsValid() {
			continue
		}
		if best == nil || preferred(c, best) {
			best = c
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w among %d candidate windows", core.ErrNoValidTermination, len(candidates))
	}

	return &core.SelectedWindow{
		CutWindow:  *best,
		IsTaskerII: math.Abs(best.NetDipole) <= dipoleTol,
	}, nil
}

// ValidWindows returns the neutral and stoichiometric candidates in their
// original order.
func ValidWindows(candidates []core.CutWindow) []core.CutWindow {
	var out []core.CutWindow
	for _, c := range candidates {
		if c.IsValid() {
			out = append(out, c)
		}
	}
	return out
}
