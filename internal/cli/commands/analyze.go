package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/taskerslab/internal/cli/config"
	"github.com/leapstack-labs/taskerslab/internal/cli/output"
	"github.com/leapstack-labs/taskerslab/internal/engine"
	"github.com/leapstack-labs/taskerslab/pkg/core"
	"github.com/leapstack-labs/taskerslab/pkg/tasker"
)

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <miller>",
		Short: "Show the charge planes and cut windows for one Miller index",
		Long: `Project the bulk onto the surface normal of a Miller index and print the
identified charge planes, the neutral and stoichiometric cut windows and the
selected termination. Nothing is written to disk and no run is recorded.

When no valid termination exists the planes are still printed and the
command fails.`,
		Example: `  taskerslab analyze 001 -b geometry.in -c aims.out
  taskerslab analyze "1,1,0" --all -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	config.RegisterInputFlags(cmd.Flags())
	config.RegisterAnalysisFlags(cmd.Flags())
	cmd.Flags().Bool("all", false, "List every candidate window, not only the valid ones")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	m, err := core.ParseMiller(args[0])
	if err != nil {
		return err
	}
	gc, err := generationConfig(cmdCtx.Cfg, nil)
	if err != nil {
		return err
	}
	gc.Millers = []core.Miller{m}
	req, err := loadRequest(&gc)
	if err != nil {
		return err
	}

	eng, err := engine.New(engine.Config{Logger: cmdCtx.Logger})
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	all, _ := cmd.Flags().GetBool("all")
	analysis, analyzeErr := eng.Analyze(req, m)
	if analysis == nil {
		return analyzeErr
	}

	if err := renderAnalysis(cmdCtx.Renderer, m, analysis, all, analyzeErr); err != nil {
		return err
	}
	if errors.Is(analyzeErr, core.ErrNoValidTermination) {
		return fmt.Errorf("miller %s: %w", m, analyzeErr)
	}
	return analyzeErr
}

func renderAnalysis(r *output.Renderer, m core.Miller, a *tasker.Analysis, all bool, analyzeErr error) error {
	info := output.NewAnalysisInfo(m, a, all)
	if analyzeErr != nil {
		info.Error = analyzeErr.Error()
	}
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(info)
	}

	r.Header(1, "Miller "+info.Miller)
	r.Println(output.FormatKeyValue("Period", fmt.Sprintf("%.4f Å", info.Period)))
	r.Println(output.FormatKeyValue("Formula", output.FormatComposition(a.Formula)))
	r.Println(output.FormatKeyValue("Planes", fmt.Sprint(len(info.Planes))))
	r.Println("")

	r.Header(2, "Charge planes")
	planeRows := make([][]any, 0, len(info.Planes))
	for i, p := range info.Planes {
		planeRows = append(planeRows, []any{
			p.Index,
			fmt.Sprintf("%.4f", p.Center),
			fmt.Sprintf("%+.4f", p.Charge),
			output.FormatComposition(a.Planes[i].Counts),
			joinInts(p.Atoms),
		})
	}
	r.Table([]string{"Plane", "z", "Charge", "Atoms", "Rows"}, planeRows)

	title := "Valid cut windows"
	if all {
		title = "Cut windows"
	}
	r.Header(2, title)
	windowRows := make([][]any, 0, len(info.Candidates))
	for _, w := range info.Candidates {
		windowRows = append(windowRows, []any{
			w.Order,
			w.BottomEdge,
			w.TopEdge,
			fmt.Sprintf("%+.4f", w.TotalCharge),
			fmt.Sprintf("%.4f", w.NetDipole),
			yesNo(w.IsNeutral),
			stoichLabel(w),
		})
	}
	r.Table([]string{"Order", "Bottom", "Top", "Charge", "Dipole", "Neutral", "Stoich"}, windowRows)

	if info.Selected == nil {
		r.Error("no neutral, stoichiometric termination")
		return nil
	}

	sel := info.Selected
	r.Header(2, "Selected termination")
	r.Println(output.FormatKeyValue("Cut", fmt.Sprintf("%s / %s", sel.BottomEdge, sel.TopEdge)))
	r.Println(output.FormatKeyValue("Cuts (z)", fmt.Sprintf("%.4f / %.4f", info.Cuts.Bottom, info.Cuts.Top)))
	r.Println(output.FormatKeyValue("Dipole", fmt.Sprintf("%.6f", sel.NetDipole)))
	r.Println(output.FormatKeyValue("Repeat", fmt.Sprintf("%d formula units", sel.StoichK)))
	if sel.IsTaskerII {
		r.Success("Tasker type II")
	} else {
		r.Warning("best termination is polar: dipole above tolerance")
	}
	return nil
}

func stoichLabel(w output.WindowInfo) string {
	if !w.IsStoich {
		return "no"
	}
	return fmt.Sprintf("×%d", w.StoichK)
}
