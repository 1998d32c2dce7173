// Package core defines the shared language of the taskerslab system.
//
// This package contains:
//   - Domain entities (Miller, Structure, Plane, CutWindow, Run, etc.)
//   - Collaborator interfaces (SurfaceBuilder, ChargeParser, SlabWriter, Plotter)
//   - Sentinel errors shared by the analysis core and its collaborators
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
