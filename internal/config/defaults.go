package config

import (
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/taskerslab/internal/charges"
	"github.com/leapstack-labs/taskerslab/internal/slab"
	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// Default configuration values.
const (
	DefaultLayers  = 1
	DefaultVacuum  = 10.0
	DefaultExt     = "xyz"
	DefaultOutDir  = "."
	DefaultPlotDir = "."
	DefaultPlot    = true
)

// DefaultMillers are generated when no Miller index is configured.
var DefaultMillers = []core.Miller{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}}

// Defaults returns the generation defaults keyed like the config file.
// Tolerances are only defaulted here so that an explicit zero survives.
func Defaults() map[string]any {
	return map[string]any{
		"layers":         DefaultLayers,
		"plane_tol":      core.DefaultPlaneTol,
		"charge_tol":     core.DefaultChargeTol,
		"dipole_tol":     core.DefaultDipoleTol,
		"vacuum":         DefaultVacuum,
		"ext":            DefaultExt,
		"out_dir":        DefaultOutDir,
		"plot":           DefaultPlot,
		"plot_dir":       DefaultPlotDir,
		"charges_format": charges.DefaultParser,
		"concurrency":    0,
		"fail_fast":      false,
	}
}

// ApplyDefaults fills values that are derived or list-valued.
func ApplyDefaults(c *GenerationConfig) {
	if c == nil {
		return
	}
	if c.Layers == 0 {
		c.Layers = DefaultLayers
	}
	if len(c.Thickness) == 0 {
		c.Thickness = append([]int(nil), slab.DefaultThicknesses...)
	}
	if len(c.Millers) == 0 {
		c.Millers = append([]core.Miller(nil), DefaultMillers...)
	}
	if c.Ext == "" {
		c.Ext = DefaultExt
	}
	if c.ChargesFormat == "" {
		c.ChargesFormat = charges.DefaultParser
	}
	if c.BulkName == "" {
		c.BulkName = BulkNameFromPath(c.Bulk)
	}
}

// BulkNameFromPath derives an output prefix from the bulk file name:
// "data/MgO.in" -> "MgO". A bare "geometry.in" uses its directory name.
func BulkNameFromPath(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	if strings.EqualFold(base, "geometry.in") {
		dir := filepath.Base(filepath.Dir(path))
		if dir != "." && dir != string(filepath.Separator) {
			return dir
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
