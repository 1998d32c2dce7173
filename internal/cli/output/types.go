package output

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/leapstack-labs/taskerslab/pkg/core"
	"github.com/leapstack-labs/taskerslab/pkg/elements"
	"github.com/leapstack-labs/taskerslab/pkg/tasker"
)

// PlaneInfo is the JSON view of a charge plane.
type PlaneInfo struct {
	Index       int            `json:"index"`
	Center      float64        `json:"center"`
	Charge      float64        `json:"charge"`
	Atoms       []int          `json:"atoms"`
	Composition map[string]int `json:"composition"`
}

// WindowInfo is the JSON view of a cut window.
type WindowInfo struct {
	Order       int            `json:"order"`
	BottomCut   int            `json:"bottom_cut"`
	TopCut      int            `json:"top_cut"`
	BottomEdge  string         `json:"bottom_edge"`
	TopEdge     string         `json:"top_edge"`
	Planes      []int          `json:"planes"`
	TotalCharge float64        `json:"total_charge"`
	NetDipole   float64        `json:"net_dipole"`
	Center      float64        `json:"center"`
	Composition map[string]int `json:"composition"`
	IsNeutral   bool           `json:"is_neutral"`
	IsStoich    bool           `json:"is_stoich"`
	StoichK     int            `json:"stoich_k"`
	IsTaskerII  bool           `json:"is_tasker_ii"`
}

// CutInfo is the JSON view of the resolved cut positions.
type CutInfo struct {
	Bottom float64 `json:"bottom"`
	Top    float64 `json:"top"`
}

// AnalysisInfo is the JSON view of an analysis.
type AnalysisInfo struct {
	Miller     string         `json:"miller"`
	Period     float64        `json:"period"`
	Formula    map[string]int `json:"formula"`
	Planes     []PlaneInfo    `json:"planes"`
	Candidates []WindowInfo   `json:"candidates"`
	Selected   *WindowInfo    `json:"selected,omitempty"`
	Cuts       *CutInfo       `json:"cuts,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// ResultInfo is the JSON view of one Miller index of a run.
type ResultInfo struct {
	Miller     string   `json:"miller"`
	Status     string   `json:"status"`
	Period     float64  `json:"period,omitempty"`
	Planes     int      `json:"planes"`
	Candidates int      `json:"candidates"`
	Valid      int      `json:"valid"`
	ZBottom    float64  `json:"z_bottom"`
	ZTop       float64  `json:"z_top"`
	NetDipole  float64  `json:"net_dipole"`
	StoichK    int      `json:"stoich_k,omitempty"`
	IsTaskerII bool     `json:"is_tasker_ii"`
	PlotPath   string   `json:"plot_path,omitempty"`
	SlabPaths  []string `json:"slab_paths,omitempty"`
	Error      string   `json:"error,omitempty"`
	DurationMS int64    `json:"duration_ms,omitempty"`
}

// RunInfo is the JSON view of a recorded run.
type RunInfo struct {
	ID          string       `json:"id"`
	BulkName    string       `json:"bulk_name"`
	BulkPath    string       `json:"bulk_path,omitempty"`
	ChargesPath string       `json:"charges_path,omitempty"`
	Status      string       `json:"status"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Error       string       `json:"error,omitempty"`
	Results     []ResultInfo `json:"results,omitempty"`
}

// ChargeSummary summarizes a parsed charge file.
type ChargeSummary struct {
	Path   string  `json:"path"`
	Format string  `json:"format"`
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Composition maps atomic-number counts to element symbols.
func Composition(counts map[int]int) map[string]int {
	out := make(map[string]int, len(counts))
	for z, n := range counts {
		out[elements.Symbol(z)] += n
	}
	return out
}

// FormatComposition renders counts as a formula, elements ordered by atomic
// number: {12: 1, 8: 2} -> "O2Mg".
func FormatComposition(counts map[int]int) string {
	zs := make([]int, 0, len(counts))
	for z := range counts {
		zs = append(zs, z)
	}
	sort.Ints(zs)

	var b strings.Builder
	for _, z := range zs {
		b.WriteString(elements.Symbol(z))
		if counts[z] != 1 {
			fmt.Fprintf(&b, "%d", counts[z])
		}
	}
	return b.String()
}

// Edge labels a cut between plane i and the next one, cyclically: "i-(i+1)".
func Edge(cut, numPlanes int) string {
	if numPlanes == 0 {
		return fmt.Sprintf("%d-?", cut)
	}
	return fmt.Sprintf("%d-%d", cut, (cut+1)%numPlanes)
}

// NewWindowInfo converts a cut window.
func NewWindowInfo(w core.CutWindow, numPlanes int, dipoleTol float64) WindowInfo {
	return WindowInfo{
		Order:       w.Order,
		BottomCut:   w.BottomCut,
		TopCut:      w.TopCut,
		BottomEdge:  Edge(w.BottomCut, numPlanes),
		TopEdge:     Edge(w.TopCut, numPlanes),
		Planes:      w.PlaneIndices,
		TotalCharge: w.TotalCharge,
		NetDipole:   w.NetDipole,
		Center:      w.Center,
		Composition: Composition(w.Counts),
		IsNeutral:   w.IsNeutral,
		IsStoich:    w.IsStoich,
		StoichK:     w.StoichK,
		IsTaskerII:  w.IsValid() && math.Abs(w.NetDipole) <= dipoleTol,
	}
}

// NewAnalysisInfo converts an analysis. When all is false only valid
// candidates are listed.
func NewAnalysisInfo(m core.Miller, a *tasker.Analysis, all bool) AnalysisInfo {
	info := AnalysisInfo{
		Miller:  m.String(),
		Period:  a.Profile.Period,
		Formula: Composition(a.Formula),
	}

	for i, p := range a.Planes {
		info.Planes = append(info.Planes, PlaneInfo{
			Index:       i,
			Center:      p.Center,
			Charge:      p.Charge,
			Atoms:       p.Indices,
			Composition: Composition(p.Counts),
		})
	}

	candidates := a.Candidates
	if !all {
		candidates = a.Valid()
	}
	for _, w := range candidates {
		info.Candidates = append(info.Candidates, NewWindowInfo(w, len(a.Planes), a.Tolerances.Dipole))
	}

	if a.Selected != nil {
		sel := NewWindowInfo(a.Selected.CutWindow, len(a.Planes), a.Tolerances.Dipole)
		sel.IsTaskerII = a.Selected.IsTaskerII
		info.Selected = &sel
		info.Cuts = &CutInfo{Bottom: a.Cuts.Bottom, Top: a.Cuts.Top}
	}
	return info
}

// NewResultInfo converts a persisted result.
func NewResultInfo(r *core.MillerResult) ResultInfo {
	return ResultInfo{
		Miller:     r.Miller.String(),
		Status:     string(r.Status),
		Period:     r.Period,
		Planes:     r.NumPlanes,
		Candidates: r.NumCandidates,
		Valid:      r.NumValid,
		ZBottom:    r.ZBottom,
		ZTop:       r.ZTop,
		NetDipole:  r.NetDipole,
		StoichK:    r.StoichK,
		IsTaskerII: r.IsTaskerII,
		PlotPath:   r.PlotPath,
		SlabPaths:  r.SlabPaths,
		Error:      r.Error,
	}
}

// NewRunInfo converts a recorded run and its results.
func NewRunInfo(run *core.Run, results []*core.MillerResult) RunInfo {
	info := RunInfo{
		ID:          run.ID,
		BulkName:    run.BulkName,
		BulkPath:    run.Params.BulkPath,
		ChargesPath: run.Params.ChargesPath,
		Status:      string(run.Status),
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		Error:       run.Error,
	}
	for _, r := range results {
		info.Results = append(info.Results, NewResultInfo(r))
	}
	return info
}

// SummarizeCharges computes count, sum and range of a charge sequence.
func SummarizeCharges(path, format string, charges []float64) ChargeSummary {
	s := ChargeSummary{Path: path, Format: format, Count: len(charges)}
	if len(charges) == 0 {
		return s
	}
	s.Min, s.Max = math.Inf(1), math.Inf(-1)
	for _, q := range charges {
		s.Sum += q
		s.Min = math.Min(s.Min, q)
		s.Max = math.Max(s.Max, q)
	}
	return s
}
