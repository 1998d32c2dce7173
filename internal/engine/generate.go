package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/taskerslab/internal/slab"
	"github.com/leapstack-labs/taskerslab/pkg/core"
	"github.com/leapstack-labs/taskerslab/pkg/tasker"
)

// Request describes the inputs shared by every Miller index of a run.
type Request struct {
	Bulk    *core.Structure
	Charges []float64

	// BulkName prefixes every output file name.
	BulkName string
	// BulkPath and ChargesPath are recorded with the run only.
	BulkPath    string
	ChargesPath string

	Layers      int
	Tolerances  core.Tolerances
	Thicknesses []int
	Vacuum      float64

	// OutDir receives the slabs, written in the format named by Ext.
	OutDir string
	Ext    string
	// PlotDir receives the SVG profile figure. Empty disables plotting.
	PlotDir string
}

func (r *Request) validate() error {
	if r == nil || r.Bulk == nil || r.Bulk.Len() == 0 {
		return fmt.Errorf("bulk: %w", core.ErrEmptyStructure)
	}
	if r.Layers < 1 {
		return fmt.Errorf("layers must be at least 1, got %d", r.Layers)
	}
	if r.BulkName == "" {
		return errors.New("bulk name is required")
	}
	return nil
}

func (r *Request) params() core.RunParams {
	return core.RunParams{
		BulkPath:    r.BulkPath,
		ChargesPath: r.ChargesPath,
		Layers:      r.Layers,
		Tolerances:  r.Tolerances,
		Vacuum:      r.Vacuum,
	}
}

// Result is the outcome for one Miller index.
type Result struct {
	Miller core.Miller
	// Analysis is set once the profile was analyzed, including when no valid
	// termination was found.
	Analysis  *tasker.Analysis
	PlotPath  string
	SlabPaths []string
	Duration  time.Duration
	Err       error
}

// OK reports whether the index was processed without error.
func (res *Result) OK() bool {
	return res.Err == nil
}

// MillerError attaches the Miller index to a per-index failure.
type MillerError struct {
	Miller core.Miller
	Err    error
}

func (e *MillerError) Error() string {
	return fmt.Sprintf("miller %s: %v", e.Miller, e.Err)
}

func (e *MillerError) Unwrap() error {
	return e.Err
}

// PlotFileName is the name of the profile figure for a Miller index.
func PlotFileName(bulkName string, m core.Miller) string {
	return fmt.Sprintf("%s_hkl_%s_atoms.svg", bulkName, m.Compact())
}

// SlabTemplate is the slab file name template for a Miller index.
func SlabTemplate(bulkName string, m core.Miller) string {
	return fmt.Sprintf("%s_hkl_%s_layers_%s.%s", bulkName, m.Compact(), slab.LayersPlaceholder, slab.ExtPlaceholder)
}

// Analyze builds the oriented bulk for m and analyzes its charge profile
// without writing anything. On ErrNoValidTermination the partial analysis
// is returned with the error.
func (e *Engine) Analyze(req *Request, m core.Miller) (*tasker.Analysis, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	surf, err := e.builder.Build(req.Bulk, m, req.Layers, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to build surface: %w", err)
	}

	profile, err := tasker.Project(req.Bulk.Cell, surf, req.Charges, m)
	if err != nil {
		return nil, err
	}

	analysis, err := tasker.Analyze(profile, req.Tolerances)
	if err != nil {
		return analysis, err
	}

	e.logger.Debug("analyzed profile",
		"miller", m.String(),
		"period", profile.Period,
		"planes", len(analysis.Planes),
		"candidates", len(analysis.Candidates))
	return analysis, nil
}

// Generate runs the full pipeline for one Miller index. The returned result
// is never nil; on failure its Err is set and the error is a *MillerError.
func (e *Engine) Generate(ctx context.Context, req *Request, m core.Miller) (*Result, error) {
	start := time.Now()
	res := &Result{Miller: m}

	err := e.generate(ctx, req, res)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = &MillerError{Miller: m, Err: err}
		e.logger.Info("generation failed", "miller", m.String(), "error", err.Error())
		return res, res.Err
	}

	e.logger.Info("generated slabs",
		"miller", m.String(),
		"slabs", len(res.SlabPaths),
		"tasker_ii", res.Analysis.Selected.IsTaskerII,
		"duration_ms", res.Duration.Milliseconds())
	return res, nil
}

func (e *Engine) generate(ctx context.Context, req *Request, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := res.Miller
	e.logger.Debug("generating slabs", "bulk", req.BulkName, "miller", m.String())

	analysis, err := e.Analyze(req, m)
	res.Analysis = analysis
	if err != nil {
		return err
	}

	sel := analysis.Selected
	e.logger.Debug("selected termination",
		"miller", m.String(),
		"bottom_cut", sel.BottomCut,
		"top_cut", sel.TopCut,
		"z_bottom", analysis.Cuts.Bottom,
		"z_top", analysis.Cuts.Top,
		"net_dipole", sel.NetDipole)

	if req.PlotDir != "" {
		path, err := e.writePlot(req, analysis, m)
		if err != nil {
			return err
		}
		res.PlotPath = path
	}

	paths, err := e.slabs.WriteSlabs(ctx, &core.SlabRequest{
		Bulk:        req.Bulk,
		Miller:      m,
		Cuts:        analysis.Cuts,
		Period:      analysis.Profile.Period,
		Vacuum:      req.Vacuum,
		Thicknesses: req.Thicknesses,
		OutDir:      req.OutDir,
		Template:    SlabTemplate(req.BulkName, m),
		Format:      req.Ext,
	})
	res.SlabPaths = paths
	if err != nil {
		return fmt.Errorf("failed to write slabs: %w", err)
	}
	return nil
}

func (e *Engine) writePlot(req *Request, analysis *tasker.Analysis, m core.Miller) (path string, err error) {
	if err := os.MkdirAll(req.PlotDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create plot directory: %w", err)
	}

	path = filepath.Join(req.PlotDir, PlotFileName(req.BulkName, m))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create plot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close plot: %w", cerr)
		}
	}()

	if err := e.plotter.Plot(f, analysis.PlotData(m)); err != nil {
		return "", fmt.Errorf("failed to plot profile: %w", err)
	}
	e.logger.Debug("wrote plot", "miller", m.String(), "path", path)
	return path, nil
}
