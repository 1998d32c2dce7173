package tasker

import (
	"math"
	"sort"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// IdentifyPlanes clusters a charge profile into charge planes.
//
// Atoms are sorted by their coordinate wrapped into [0, period) and swept once:
// an atom joins the open cluster while it lies within planeTol of the cluster's
// running mean. Plane charges below chargeTol in magnitude are zeroed. When the
// first and last planes are within planeTol across the periodic boundary they
// are merged into one plane centered at the circular mean of its members.
//
// The returned planes partition the row indices. period must be positive.
func IdentifyPlanes(rows []core.AtomProjection, period, planeTol, chargeTol float64) []core.Plane {
	if len(rows) == 0 {
		return nil
	}

	wrapped := make([]float64, len(rows))
	order := make([]int, len(rows))
	for i, r := range rows {
		wrapped[i] = wrap(r.Z, period)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return wrapped[order[a]] < wrapped[order[b]]
	})

	c := &clusterer{
		rows:      rows,
		wrapped:   wrapped,
		planeTol:  planeTol,
		chargeTol: chargeTol,
	}
	for _, idx := range order {
		c.feed(idx)
	}
	c.flush()

	return mergeWraparound(c.planes, rows, wrapped, period, planeTol, chargeTol)
}

// clusterPhase is the state of the clustering sweep.
type clusterPhase int

const (
	phaseEmpty clusterPhase = iota
	phaseAccumulating
)

// clusterer is the accumulate-then-flush state machine of IdentifyPlanes.
//
//	empty        --feed-->             accumulating
//	accumulating --feed (within tol)--> accumulating
//	accumulating --feed (beyond tol)--> flush, accumulating
//	accumulating --flush-->             empty
type clusterer struct {
	phase  clusterPhase
	buffer []int
	mean   float64

	rows      []core.AtomProjection
	wrapped   []float64
	planeTol  float64
	chargeTol float64

	planes []core.Plane
}

func (c *clusterer) feed(idx int) {
	switch c.phase {
	case phaseEmpty:
		c.start(idx)
	case phaseAccumulating:
		if math.Abs(c.wrapped[idx]-c.mean) <= c.planeTol {
			c.buffer = append(c.buffer, idx)
			c.mean = meanAt(c.wrapped, c.buffer)
			return
		}
		c.flush()
		c.start(idx)
	}
}

func (c *clusterer) start(idx int) {
	c.buffer = []int{idx}
	c.mean = c.wrapped[idx]
	c.phase = phaseAccumulating
}

func (c *clusterer) flush() {
	if c.phase != phaseAccumulating {
		return
	}
	c.planes = append(c.planes, newPlane(c.rows, c.buffer, c.mean, c.chargeTol))
	c.buffer = nil
	c.phase = phaseEmpty
}

// newPlane aggregates the charge and element counts of the given rows.
func newPlane(rows []core.AtomProjection, indices []int, center, chargeTol float64) core.Plane {
	q := 0.0
	counts := make(map[int]int)
	for _, i := range indices {
		q += rows[i].Charge
		counts[rows[i].Number]++
	}
	if math.Abs(q) < chargeTol {
		q = 0
	}
	idx := make([]int, len(indices))
	copy(idx, indices)
	return core.Plane{
		Indices: idx,
		Center:  center,
		Charge:  q,
		Counts:  counts,
	}
}

// mergeWraparound joins the first and last planes when they meet across the
// periodic boundary. The merged plane takes the first position.
func mergeWraparound(planes []core.Plane, rows []core.AtomProjection, wrapped []float64, period, planeTol, chargeTol float64) []core.Plane {
	if len(planes) < 2 {
		return planes
	}

	first, last := planes[0], planes[len(planes)-1]
	if math.Abs(first.Center+period-last.Center) > planeTol {
		return planes
	}

	indices := make([]int, 0, len(first.Indices)+len(last.Indices))
	indices = append(indices, last.Indices...)
	indices = append(indices, first.Indices...)

	center := circularMean(wrapped, indices, period)
	merged := newPlane(rows, indices, center, chargeTol)

	out := make([]core.Plane, 0, len(planes)-1)
	out = append(out, merged)
	out = append(out, planes[1:len(planes)-1]...)
	return out
}

// circularMean averages coordinates on a circle of circumference period and
// returns the result in [0, period).
func circularMean(wrapped []float64, indices []int, period float64) float64 {
	var sinSum, cosSum float64
	for _, i := range indices {
		theta := wrapped[i] / period * 2 * math.Pi
		sinSum += math.Sin(theta)
		cosSum += math.Cos(theta)
	}
	n := float64(len(indices))
	center := math.Atan2(sinSum/n, cosSum/n) / (2 * math.Pi) * period
	if center < 0 {
		center += period
	}
	if center >= period {
		center = 0
	}
	return center
}

func meanAt(values []float64, indices []int) float64 {
	sum := 0.0
	for _, i := range indices {
		sum += values[i]
	}
	return sum / float64(len(indices))
}
