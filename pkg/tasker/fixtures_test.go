package tasker

import (
	"github.com/leapstack-labs/taskerslab/pkg/core"
)

const (
	numMg = 12
	numO  = 8
)

// alternatingRows builds six planes over L = 10 with charges +2, -1, -1 and
// atomic numbers Mg, O, O repeating, one atom per plane.
func alternatingRows() []core.AtomProjection {
	numbers := []int{numMg, numO, numO, numMg, numO, numO}
	charges := []float64{2, -1, -1, 2, -1, -1}
	rows := make([]core.AtomProjection, len(numbers))
	for k := range numbers {
		rows[k] = core.AtomProjection{
			Number: numbers[k],
			Z:      float64(k) * 10 / 6,
			Charge: charges[k],
		}
	}
	return rows
}

func plane(center, charge float64, counts map[int]int, indices ...int) core.Plane {
	return core.Plane{Indices: indices, Center: center, Charge: charge, Counts: counts}
}

// smallBulk is a 4x4x3 cell with one Mg and two O stacked along z.
func smallBulk() *core.Structure {
	return &core.Structure{
		Cell: core.Cell{{4, 0, 0}, {0, 4, 0}, {0, 0, 3}},
		Atoms: []core.Atom{
			{Number: numMg, Position: core.Vec3{0, 0, 0}},
			{Number: numO, Position: core.Vec3{0, 0, 1}},
			{Number: numO, Position: core.Vec3{2, 2, 2}},
		},
		PBC: [3]bool{true, true, true},
	}
}
