package tasker

import (
	"math"
	"sort"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// SortPlanes returns a copy of planes ordered by center wrapped into
// [0, period). Ties keep their input order.
func SortPlanes(planes []core.Plane, period float64) []core.Plane {
	sorted := make([]core.Plane, len(planes))
	copy(sorted, planes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return wrap(sorted[i].Center, period) < wrap(sorted[j].Center, period)
	})
	return sorted
}

// EnumerateCutPairs evaluates every (bottom, top) cut pair over the planes
// sorted by wrapped center.
//
// A pair's window holds the planes from bottom+1 through top, walking
// cyclically; bottom == top yields the full period. Plane coordinates are
// unwrapped so they are non-decreasing within a window, and the dipole is taken
// about the window midpoint.
//
// The result has n*n entries ordered by descending |NetDipole|; ties keep
// enumeration order, which CutWindow.Order records.
func EnumerateCutPairs(planes []core.Plane, period float64, formula core.ReducedFormula, chargeTol float64) []core.CutWindow {
	if len(planes) == 0 {
		return nil
	}

	sorted := SortPlanes(planes, period)
	n := len(sorted)
	centers := make([]float64, n)
	for i, p := range sorted {
		centers[i] = wrap(p.Center, period)
	}

	out := make([]core.CutWindow, 0, n*n)
	for bottom := 0; bottom < n; bottom++ {
		for top := 0; top < n; top++ {
			w := buildWindow(sorted, centers, period, bottom, top)
			w.Order = bottom*n + top
			w.IsNeutral = math.Abs(w.TotalCharge) <= chargeTol
			w.IsStoich, w.StoichK = IsStoichiometric(w.Counts, formula)
			out = append(out, w)
		}
	}

	SortByDipole(out)
	return out
}

// SortByDipole orders windows by descending |NetDipole|, keeping the relative
// order of equal magnitudes.
func SortByDipole(windows []core.CutWindow) {
	sort.SliceStable(windows, func(i, j int) bool {
		return math.Abs(windows[i].NetDipole) > math.Abs(windows[j].NetDipole)
	})
}

// windowIndices lists the plane indices above bottom up to and including top.
func windowIndices(n, bottom, top int) []int {
	var idx []int
	i := (bottom + 1) % n
	for {
		idx = append(idx, i)
		if i == top {
			return idx
		}
		i = (i + 1) % n
	}
}

func buildWindow(planes []core.Plane, centers []float64, period float64, bottom, top int) core.CutWindow {
	idx := windowIndices(len(planes), bottom, top)

	zs := make([]float64, len(idx))
	qs := make([]float64, len(idx))
	counts := make(map[int]int)

	current := centers[idx[0]]
	for k, i := range idx {
		z := centers[i]
		if k > 0 && z < current {
			z += period
		}
		current = z
		zs[k] = z
		qs[k] = planes[i].Charge
		for num, c := range planes[i].Counts {
			counts[num] += c
		}
	}

	center := 0.5 * (zs[0] + zs[len(zs)-1])
	total, dipole := 0.0, 0.0
	for k := range zs {
		total += qs[k]
		dipole += qs[k] * (zs[k] - center)
	}

	return core.CutWindow{
		BottomCut:    bottom,
		TopCut:       top,
		PlaneIndices: idx,
		PlaneZ:       zs,
		PlaneCharges: qs,
		TotalCharge:  total,
		NetDipole:    dipole,
		Center:       center,
		Counts:       counts,
	}
}
