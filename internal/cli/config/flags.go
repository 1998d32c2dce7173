package config

import (
	"fmt"

	"github.com/spf13/pflag"

	intconfig "github.com/leapstack-labs/taskerslab/internal/config"
	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// RegisterInputFlags adds the bulk and charge input flags.
func RegisterInputFlags(fs *pflag.FlagSet) {
	fs.StringP("bulk", "b", "", "Bulk structure file (FHI-aims geometry.in, extxyz or yaml)")
	fs.String("format", "", "Bulk structure format (default: from the file extension)")
	fs.StringP("charges", "c", "", "Per-atom charge file, in bulk atom order")
	fs.String("charges-format", "", "Charge file format (fhi-aims-hirshfeld|list)")
	fs.String("bulk-name", "", "Prefix for output files (default: bulk file name)")
}

// RegisterAnalysisFlags adds the projection and tolerance flags.
func RegisterAnalysisFlags(fs *pflag.FlagSet) {
	fs.Int("layers", 0, fmt.Sprintf("Periodic repeats used for the projection (default %d)", intconfig.DefaultLayers))
	fs.Float64("plane-tol", 0, fmt.Sprintf("Plane clustering tolerance in Å (default %g)", core.DefaultPlaneTol))
	fs.Float64("charge-tol", 0, fmt.Sprintf("Charge neutrality tolerance (default %g)", core.DefaultChargeTol))
	fs.Float64("dipole-tol", 0, fmt.Sprintf("Tasker type II dipole tolerance (default %g)", core.DefaultDipoleTol))
}

// RegisterGenerationFlags adds every flag of a generation run.
func RegisterGenerationFlags(fs *pflag.FlagSet) {
	RegisterInputFlags(fs)
	RegisterAnalysisFlags(fs)
	fs.String("thickness", "", "Slab thicknesses in periods, comma separated (default 1,2,3,4,5,6,7)")
	fs.Float64("vacuum", 0, fmt.Sprintf("Vacuum added along z in Å (default %g)", intconfig.DefaultVacuum))
	fs.String("out-dir", "", "Directory for slab files")
	fs.String("ext", "", fmt.Sprintf("Slab file format (default %s)", intconfig.DefaultExt))
	fs.Bool("plot", intconfig.DefaultPlot, "Write the SVG charge profile")
	fs.String("plot-dir", "", "Directory for profile plots")
	fs.IntP("concurrency", "j", 0, "Miller indices processed in parallel (default: number of CPUs)")
	fs.Bool("fail-fast", false, "Stop at the first failing Miller index")
}
