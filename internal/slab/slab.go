// Package slab cuts finite slabs out of a reoriented bulk at the selected cut
// positions and writes them to disk.
package slab

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/taskerslab/internal/structio"
	"github.com/leapstack-labs/taskerslab/internal/surface"
	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// Template placeholders.
const (
	LayersPlaceholder = "{layers}"
	ExtPlaceholder    = "{ext}"
)

// DefaultThicknesses are the slab thicknesses, in periods, written by default.
var DefaultThicknesses = []int{1, 2, 3, 4, 5, 6, 7}

// Writer implements core.SlabWriter.
type Writer struct {
	builder core.SurfaceBuilder
	logger  *slog.Logger
}

var _ core.SlabWriter = (*Writer)(nil)

// NewWriter creates a Writer. A nil logger discards output.
func NewWriter(builder core.SurfaceBuilder, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{builder: builder, logger: logger}
}

// FileName expands a template for one thickness.
func FileName(template string, layers int, ext string) string {
	name := strings.ReplaceAll(template, LayersPlaceholder, strconv.Itoa(layers))
	return strings.ReplaceAll(name, ExtPlaceholder, strings.TrimPrefix(ext, "."))
}

// Cut builds the slab for one thickness: the surface is built with two extra
// layers and no vacuum, atoms between the bottom cut and the top cut raised by
// thickness periods are kept, and the result is centered with vacuum.
func (w *Writer) Cut(req *core.SlabRequest, thickness int) (*core.Structure, error) {
	surf, err := w.builder.Build(req.Bulk, req.Miller, thickness+2, 0)
	if err != nil {
		return nil, err
	}

	zmin := req.Cuts.Bottom
	zmax := req.Cuts.Top + float64(thickness)*req.Period
	s := surface.SliceZ(surf, zmin, zmax)
	if s.Len() == 0 {
		return nil, fmt.Errorf("thickness %d: no atoms between z=%.4f and z=%.4f: %w", thickness, zmin, zmax, core.ErrEmptyStructure)
	}
	surface.Center(s, req.Vacuum)
	return s, nil
}

// WriteSlabs writes one file per requested thickness and returns the paths in
// request order.
func (w *Writer) WriteSlabs(ctx context.Context, req *core.SlabRequest) ([]string, error) {
	codec, err := structio.Lookup(req.Format)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(req.Thicknesses))
	for _, t := range req.Thicknesses {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		s, err := w.Cut(req, t)
		if err != nil {
			return paths, fmt.Errorf("slab %s: %w", req.Miller, err)
		}

		path := filepath.Join(req.OutDir, FileName(req.Template, t, req.Format))
		if err := structio.WriteFile(path, codec.Name(), s); err != nil {
			return paths, err
		}
		w.logger.Debug("wrote slab", "miller", req.Miller.String(), "thickness", t, "atoms", s.Len(), "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}
