// Package plot renders the diagnostic charge-profile figure as SVG.
package plot

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/taskerslab/pkg/core"
	"github.com/leapstack-labs/taskerslab/pkg/elements"
	"github.com/leapstack-labs/taskerslab/pkg/tasker"
)

// Layout constants, in SVG user units unless noted.
const (
	defaultWidth  = 960
	defaultHeight = 300

	marginLeft   = 40
	marginRight  = 40
	marginTop    = 50
	marginBottom = 50

	atomRadius = 6

	// stackTol is the fraction of L within which atoms are stacked vertically.
	stackTol = 0.02
	// stackStep is the vertical offset between stacked atoms, in data units.
	stackStep = 0.06
)

// SVG implements core.Plotter.
type SVG struct {
	Width  float64
	Height float64
}

var _ core.Plotter = (*SVG)(nil)

// NewSVG creates a plotter with the default canvas size.
func NewSVG() *SVG {
	return &SVG{Width: defaultWidth, Height: defaultHeight}
}

// Plot implements core.Plotter.
func (p *SVG) Plot(w io.Writer, data *core.PlotData) error {
	if data == nil || data.Profile == nil {
		return fmt.Errorf("plot: no profile")
	}
	if !(data.Profile.Period > 0) {
		return fmt.Errorf("plot: %w", core.ErrDegeneratePeriod)
	}
	return p.Component(data).Render(context.Background(), w)
}

// Component builds the figure. Planes are identified with default tolerances
// when data.Planes is nil.
func (p *SVG) Component(data *core.PlotData) templ.Component {
	period := data.Profile.Period
	rows := data.Profile.Rows

	planes := data.Planes
	if planes == nil {
		planes = tasker.IdentifyPlanes(rows, period, core.DefaultPlaneTol, core.DefaultChargeTol)
	}

	zs := make([]float64, len(rows))
	for i, r := range rows {
		zs[i] = wrap(r.Z, period)
	}
	offsets := StackOffsets(zs, stackTol*period, stackStep)

	maxY := 0.0
	for _, o := range offsets {
		maxY = math.Max(maxY, math.Abs(o))
	}
	yLim := maxY + 0.1

	plotW := p.Width - marginLeft - marginRight
	plotH := p.Height - marginTop - marginBottom
	px := func(z float64) float64 { return marginLeft + z/period*plotW }
	py := func(y float64) float64 { return marginTop + (yLim-y)/(2*yLim)*plotH }
	top, bottom := float64(marginTop), float64(marginTop)+plotH

	var frame []templ.Component
	for _, z := range []float64{0, period} {
		frame = append(frame, line(px(z), top, px(z), bottom, stroke{color: "black", width: 1, opacity: 0.8}))
	}
	frame = append(frame, line(px(0), bottom, px(period), bottom, stroke{color: "black", width: 1, opacity: 0.8}))

	var planeMarks []templ.Component
	labelStyle := textStyle{anchor: "middle", size: 16, color: "gray"}
	for _, pl := range planes {
		zc := wrap(pl.Center, period)
		planeMarks = append(planeMarks,
			line(px(zc), top, px(zc), bottom, stroke{color: "gray", width: 1, opacity: 0.7}),
			text(px(zc), py(0)-atomRadius-4, labelStyle, fmt.Sprintf("%.2f", pl.Charge)),
		)
	}

	var atoms []templ.Component
	for i, r := range rows {
		title := fmt.Sprintf("%s z=%.3f q=%+.3f", elements.Symbol(r.Number), r.Z, r.Charge)
		atoms = append(atoms, circle(px(zs[i]), py(offsets[i]), atomRadius, elements.Color(r.Number), 0.85, title))
	}

	var cuts []templ.Component
	if data.Cuts != nil {
		zbot, ztop := cutMarks(*data.Cuts, period)
		cuts = append(cuts,
			line(px(zbot), top, px(zbot), bottom, stroke{color: "red", width: 1.2, opacity: 0.6, dash: "6,4"}),
			line(px(ztop), top, px(ztop), bottom, stroke{color: "blue", width: 1.2, opacity: 0.6, dash: "6,4"}),
			text(p.Width-marginRight, top-22, textStyle{anchor: "end", size: 12, color: "red"}, "bottom cut"),
			text(p.Width-marginRight, top-8, textStyle{anchor: "end", size: 12, color: "blue"}, "top cut"),
		)
	}

	var annotations []templ.Component
	annotations = append(annotations,
		text(p.Width/2, 22, textStyle{anchor: "middle", size: 16, color: "black"},
			fmt.Sprintf("Unit-cell atoms along z (Miller index %s)", data.Miller)),
		text(p.Width/2, p.Height-12, textStyle{anchor: "middle", size: 13, color: "black"}, "z (Å)"),
		text(px(0), bottom+16, textStyle{anchor: "middle", size: 11, color: "black"}, "0"),
		text(px(period), bottom+16, textStyle{anchor: "middle", size: 11, color: "black"}, fmt.Sprintf("%.3f", period)),
	)
	if data.Dipole != nil {
		annotations = append(annotations,
			text(px(period)-4, bottom-6, textStyle{anchor: "end", size: 11, color: "black"},
				fmt.Sprintf("mu = %+.4e", *data.Dipole)))
	}

	return svgDocument(p.Width, p.Height,
		group("frame", frame...),
		group("planes", planeMarks...),
		group("atoms", atoms...),
		group("cuts", cuts...),
		group("annotations", annotations...),
	)
}

// cutMarks wraps the cut positions into [0, L) and separates them by 1% of L
// when they coincide.
func cutMarks(c core.CutPositions, period float64) (float64, float64) {
	zbot, ztop := wrap(c.Bottom, period), wrap(c.Top, period)
	if math.Abs(zbot-ztop) < 1e-6 {
		zbot += 0.01 * period
		ztop -= 0.01 * period
	}
	return zbot, ztop
}

// StackOffsets assigns vertical offsets so that atoms closer than tol along z
// fan out symmetrically about zero in steps of step. A group grows while each
// next atom (in z order) is within tol of the previous member.
func StackOffsets(z []float64, tol, step float64) []float64 {
	out := make([]float64, len(z))
	if len(z) == 0 {
		return out
	}

	order := make([]int, len(z))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return z[order[a]] < z[order[b]] })

	assign := func(g []int) {
		n := float64(len(g))
		for k, idx := range g {
			out[idx] = (float64(k) - (n-1)/2) * step
		}
	}

	grp := []int{order[0]}
	for _, idx := range order[1:] {
		if math.Abs(z[idx]-z[grp[len(grp)-1]]) <= tol {
			grp = append(grp, idx)
			continue
		}
		assign(grp)
		grp = []int{idx}
	}
	assign(grp)
	return out
}

func wrap(z, period float64) float64 {
	r := math.Mod(z, period)
	if r < 0 {
		r += period
	}
	if r >= period {
		r = 0
	}
	return r
}
