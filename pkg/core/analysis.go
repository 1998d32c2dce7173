package core

// =============================================================================
// Charge profile
// =============================================================================

// AtomProjection is one atom projected onto the surface normal.
type AtomProjection struct {
	Number int     // atomic number
	Z      float64 // coordinate along the surface normal
	Charge float64
}

// Profile is the 1D periodic charge profile of a bulk along a Miller normal.
type Profile struct {
	Rows   []AtomProjection
	Period float64 // periodicity length L along the normal
}

// Plane is a cluster of atoms sharing, within tolerance, the same projected
// coordinate. Indices refer to rows of the Profile the plane was built from.
type Plane struct {
	Indices []int
	Center  float64 // wrapped into [0, L)
	Charge  float64 // zeroed when below the charge tolerance
	Counts  map[int]int
}

// ReducedFormula maps atomic number to its smallest integer ratio in the bulk.
type ReducedFormula map[int]int

// =============================================================================
// Cut windows
// =============================================================================

// CutWindow is one candidate termination: the planes strictly above the bottom
// cut up to and including the top cut, taken cyclically.
type CutWindow struct {
	Order     int // enumeration index, bottom*n + top
	BottomCut int
	TopCut    int

	PlaneIndices []int
	PlaneZ       []float64 // unwrapped, non-decreasing
	PlaneCharges []float64

	TotalCharge float64
	NetDipole   float64
	Center      float64
	Counts      map[int]int

	IsNeutral bool
	IsStoich  bool
	StoichK   int
}

// IsValid reports whether the window is both neutral and stoichiometric.
func (w *CutWindow) IsValid() bool {
	return w.IsNeutral && w.IsStoich
}

// SelectedWindow is the chosen termination.
type SelectedWindow struct {
	CutWindow
	IsTaskerII bool
}

// CutPositions are the real-space cut coordinates along the normal, in the
// unwrapped frame used during enumeration.
type CutPositions struct {
	Bottom float64
	Top    float64
}

// Tolerances controls plane clustering and the validity tests.
type Tolerances struct {
	Plane  float64
	Charge float64
	Dipole float64
}

// Default tolerance values.
const (
	DefaultPlaneTol  = 0.1
	DefaultChargeTol = 1e-3
	DefaultDipoleTol = 1e-6
)

// DefaultTolerances returns the default tolerances.
func DefaultTolerances() Tolerances {
	return Tolerances{
		Plane:  DefaultPlaneTol,
		Charge: DefaultChargeTol,
		Dipole: DefaultDipoleTol,
	}
}
