package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/taskerslab/internal/cli/config"
	"github.com/leapstack-labs/taskerslab/internal/cli/output"
	intconfig "github.com/leapstack-labs/taskerslab/internal/config"
	"github.com/leapstack-labs/taskerslab/internal/engine"
	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate [miller...]",
		Aliases: []string{"gen"},
		Short:   "Find Tasker type II terminations and write slabs",
		Long: `Analyze the charge planes of a bulk crystal along each Miller index,
select the neutral, stoichiometric termination with the smallest dipole and
write slabs of increasing thickness.

Miller indices given as arguments replace the configured list. Each argument
is either one index ("1,1,0", "1 1 0", "110") or several separated by ";".`,
		Example: `  # Default indices (100), (110) and (111)
  taskerslab generate --bulk geometry.in --charges aims.out

  # Selected indices, thinner slabs, extxyz output
  taskerslab generate -b geometry.in -c aims.out 001 "1,-1,0" --thickness 1,2,3

  # Charges as a plain list
  taskerslab generate -b geometry.in -c charges.txt --charges-format list 111`,
		RunE: runGenerate,
	}

	config.RegisterGenerationFlags(cmd.Flags())
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := getConfig()
	gc, err := generationConfig(cfg, args)
	if err != nil {
		return err
	}
	req, err := loadRequest(&gc)
	if err != nil {
		return err
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	batch, runErr := cmdCtx.Engine.GenerateBatch(cmd.Context(), req, gc.Millers)
	if batch == nil {
		return runErr
	}

	if err := renderBatch(cmdCtx.Renderer, req.BulkName, batch); err != nil {
		return err
	}

	if runErr != nil || len(batch.Failed()) > 0 {
		return fmt.Errorf("%d of %d Miller indices failed", len(gc.Millers)-succeeded(batch), len(gc.Millers))
	}
	return nil
}

func succeeded(b *engine.BatchResult) int {
	return len(b.Results) - len(b.Failed())
}

// parseMillerArgs parses Miller index arguments in order.
func parseMillerArgs(args []string) ([]core.Miller, error) {
	var out []core.Miller
	for _, a := range args {
		millers, err := intconfig.ParseMillerList(a)
		if err != nil {
			return nil, err
		}
		out = append(out, millers...)
	}
	if err := intconfig.ValidateMillers(out); err != nil {
		return nil, err
	}
	return out, nil
}

func batchInfo(bulkName string, b *engine.BatchResult) output.RunInfo {
	var info output.RunInfo
	runID := ""
	if b.Run != nil {
		info = output.NewRunInfo(b.Run, nil)
		runID = b.Run.ID
	} else {
		info = output.RunInfo{BulkName: bulkName, Status: string(b.Status)}
	}
	for _, res := range b.Results {
		ri := output.NewResultInfo(res.MillerResult(runID))
		ri.DurationMS = res.Duration.Milliseconds()
		info.Results = append(info.Results, ri)
	}
	return info
}

func renderBatch(r *output.Renderer, bulkName string, b *engine.BatchResult) error {
	info := batchInfo(bulkName, b)
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(info)
	}

	r.Header(1, "Slabs for "+bulkName)
	rows := make([][]any, 0, len(info.Results))
	for _, res := range info.Results {
		rows = append(rows, resultRow(res))
	}
	r.Table([]string{"Miller", "Status", "Planes", "Valid", "Cuts (z)", "Dipole", "Tasker II", "Slabs"}, rows)

	for _, res := range info.Results {
		if res.Error != "" {
			r.StatusLine(res.Miller, res.Status, res.Error)
		}
	}
	for _, res := range info.Results {
		if res.PlotPath != "" {
			r.Muted("plot " + filepath.Base(res.PlotPath))
		}
	}

	summary := fmt.Sprintf("%d of %d succeeded", succeeded(b), len(b.Results))
	if info.ID != "" {
		summary = fmt.Sprintf("run %s %s: %s", info.ID, info.Status, summary)
	}
	r.StatusLine(bulkName, info.Status, summary)
	return nil
}

func resultRow(res output.ResultInfo) []any {
	if res.Error != "" && res.Planes == 0 {
		return []any{res.Miller, res.Status, "-", "-", "-", "-", "-", 0}
	}
	cuts, dipole, taskerII := "-", "-", "-"
	if res.Status == string(core.ResultStatusSuccess) {
		cuts = fmt.Sprintf("%.3f / %.3f", res.ZBottom, res.ZTop)
		dipole = fmt.Sprintf("%.4f", res.NetDipole)
		taskerII = yesNo(res.IsTaskerII)
	}
	return []any{res.Miller, res.Status, res.Planes, res.Valid, cuts, dipole, taskerII, len(res.SlabPaths)}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, " ")
}
