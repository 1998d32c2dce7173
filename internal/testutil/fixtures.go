package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// SmallBulk is a 4x4x3 crystal with one cation and two anions stacked along z:
// Mg at z=0, O at z=1 and O at z=2. Along (0, 0, 1) it has a Tasker type II
// termination with both cuts at z=1.5.
func SmallBulk() *core.Structure {
	return &core.Structure{
		Cell: core.Cell{{4, 0, 0}, {0, 4, 0}, {0, 0, 3}},
		Atoms: []core.Atom{
			{Number: 12, Position: core.Vec3{0, 0, 0}},
			{Number: 8, Position: core.Vec3{0, 0, 1}},
			{Number: 8, Position: core.Vec3{2, 2, 2}},
		},
		PBC: [3]bool{true, true, true},
	}
}

// SmallBulkCharges are the formal charges of SmallBulk in atom order.
func SmallBulkCharges() []float64 {
	return []float64{2, -1, -1}
}

// SmallBulkGeometry is SmallBulk as an FHI-aims geometry.in file.
const SmallBulkGeometry = `lattice_vector 4.0 0.0 0.0
lattice_vector 0.0 4.0 0.0
lattice_vector 0.0 0.0 3.0
atom 0.0 0.0 0.0 Mg
atom 0.0 0.0 1.0 O
atom 2.0 2.0 2.0 O
`

// SmallBulkOutput is an FHI-aims output excerpt carrying SmallBulkCharges.
const SmallBulkOutput = `  Begin self-consistency loop
  Performing Hirshfeld analysis of fragment charges and moments.
  ----------------------------------------------------------------------
  | Atom     1: Mg
  |   Hirshfeld charge        :      2.00000000
  | Atom     2: O
  |   Hirshfeld charge        :     -1.00000000
  | Atom     3: O
  |   Hirshfeld charge        :     -1.00000000
`

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteSmallBulk writes SmallBulk's geometry and charge output into dir.
func WriteSmallBulk(t testing.TB, dir string) (bulkPath, chargesPath string) {
	t.Helper()
	return WriteFile(t, dir, "MgO.in", SmallBulkGeometry), WriteFile(t, dir, "MgO.out", SmallBulkOutput)
}
