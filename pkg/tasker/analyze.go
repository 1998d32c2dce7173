package tasker

import (
	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// Analysis holds every intermediate result of a charge-profile analysis.
type Analysis struct {
	Profile    *core.Profile
	Tolerances core.Tolerances

	// Planes are sorted by wrapped center; cut indices refer to this order.
	Planes  []core.Plane
	Formula core.ReducedFormula

	// Candidates are ordered by descending |NetDipole|.
	Candidates []core.CutWindow

	Selected *core.SelectedWindow
	Cuts     core.CutPositions
}

// Valid returns the valid candidates in candidate order.
func (a *Analysis) Valid() []core.CutWindow {
	return ValidWindows(a.Candidates)
}

// PlotData builds the input for a core.Plotter. Cuts and dipole are included
// only when a window was selected.
func (a *Analysis) PlotData(m core.Miller) *core.PlotData {
	data := &core.PlotData{
		Profile: a.Profile,
		Miller:  m,
		Planes:  a.Planes,
	}
	if a.Selected != nil {
		cuts := a.Cuts
		dipole := a.Selected.NetDipole
		data.Cuts = &cuts
		data.Dipole = &dipole
	}
	return data
}

// Analyze runs plane identification, enumeration, selection and cut
// resolution over a projected profile.
//
// When no valid termination exists the partial analysis is returned together
// with an error wrapping core.ErrNoValidTermination, so callers can still
// report the planes and candidates.
func Analyze(profile *core.Profile, tol core.Tolerances) (*Analysis, error) {
	planes := IdentifyPlanes(profile.Rows, profile.Period, tol.Plane, tol.Charge)

	a := &Analysis{
		Profile:    profile,
		Tolerances: tol,
		Planes:     SortPlanes(planes, profile.Period),
		Formula:    ReduceFormula(profile.Rows),
	}
	a.Candidates = EnumerateCutPairs(a.Planes, profile.Period, a.Formula, tol.Charge)

	selected, err := SelectBest(a.Candidates, tol.Dipole)
	if err != nil {
		return a, err
	}
	a.Selected = selected

	cuts, err := ResolveCutPositions(a.Planes, profile.Period, selected.BottomCut, selected.TopCut)
	if err != nil {
		return a, err
	}
	a.Cuts = cuts
	return a, nil
}
