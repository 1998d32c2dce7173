package core

import (
	"context"
	"io"
)

// SurfaceBuilder builds a periodic extended atom set whose surface normal for
// the given Miller index lies along z.
//
// Ordering contract: atoms are emitted layer-major and, within each layer, in
// the bulk's atom order. For layers == 1 atom i of the result is atom i of the
// bulk, so a bulk-ordered charge sequence aligns with the result by index.
// The analysis core relies on this and only checks lengths.
type SurfaceBuilder interface {
	Build(bulk *Structure, m Miller, layers int, vacuum float64) (*Structure, error)
}

// ChargeParser extracts an ordered per-atom charge sequence.
type ChargeParser interface {
	Name() string
	Parse(r io.Reader) ([]float64, error)
}

// StructureReader decodes a structure.
type StructureReader interface {
	Read(r io.Reader) (*Structure, error)
}

// StructureWriter encodes a structure.
type StructureWriter interface {
	Write(w io.Writer, s *Structure) error
}

// SlabRequest describes the slabs to cut for one Miller index.
type SlabRequest struct {
	Bulk        *Structure
	Miller      Miller
	Cuts        CutPositions
	Period      float64
	Vacuum      float64
	Thicknesses []int
	OutDir      string
	// Template is the file name template; "{layers}" and "{ext}" are substituted.
	Template string
	// Format is the structure format name, also used as the "{ext}" value.
	Format string
}

// SlabWriter writes one structure file per requested thickness and returns the paths.
type SlabWriter interface {
	WriteSlabs(ctx context.Context, req *SlabRequest) ([]string, error)
}

// PlotData is everything the plot collaborator receives. Cuts and Dipole are optional.
type PlotData struct {
	Profile *Profile
	Miller  Miller
	Planes  []Plane
	Cuts    *CutPositions
	Dipole  *float64
}

// Plotter renders a diagnostic image of a charge profile.
type Plotter interface {
	Plot(w io.Writer, data *PlotData) error
}
