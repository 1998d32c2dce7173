package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/taskerslab/internal/cli/output"
	"github.com/leapstack-labs/taskerslab/pkg/core"
)

const defaultHistoryLimit = 20

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded generation runs",
		Long: `Without arguments, list the most recent generation runs recorded in the
state database. With a run ID, show that run and its per-Miller results.`,
		Example: `  taskerslab history
  taskerslab history --limit 5 -o json
  taskerslab history 3f1c2a9e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", defaultHistoryLimit, "Maximum number of runs to list")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if cfg := getConfig(); cfg.NoState {
		return errors.New("history needs the state database\nHint: remove --no-state")
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	store := cmdCtx.Engine.GetStateStore()
	if store == nil {
		return errors.New("state database is not configured")
	}

	ctx := cmd.Context()
	r := cmdCtx.Renderer

	if len(args) == 1 {
		run, err := store.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		results, err := store.GetResultsForRun(ctx, run.ID)
		if err != nil {
			return err
		}
		return renderRun(r, run, results)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	return renderRuns(r, runs)
}

func renderRuns(r *output.Renderer, runs []*core.Run) error {
	if r.EffectiveMode() == output.ModeJSON {
		infos := make([]output.RunInfo, 0, len(runs))
		for _, run := range runs {
			infos = append(infos, output.NewRunInfo(run, nil))
		}
		return r.JSON(infos)
	}

	r.Header(1, "Runs")
	rows := make([][]any, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []any{
			run.ID,
			run.BulkName,
			string(run.Status),
			run.StartedAt.Local().Format(time.DateTime),
			runDuration(run),
		})
	}
	r.Table([]string{"ID", "Bulk", "Status", "Started", "Duration"}, rows)
	return nil
}

func renderRun(r *output.Renderer, run *core.Run, results []*core.MillerResult) error {
	info := output.NewRunInfo(run, results)
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(info)
	}

	r.Header(1, "Run "+run.ID)
	r.Println(output.FormatKeyValue("Bulk", run.BulkName))
	if run.Params.BulkPath != "" {
		r.Println(output.FormatKeyValue("Bulk file", run.Params.BulkPath))
	}
	if run.Params.ChargesPath != "" {
		r.Println(output.FormatKeyValue("Charges", run.Params.ChargesPath))
	}
	r.Println(output.FormatKeyValue("Layers", fmt.Sprint(run.Params.Layers)))
	tol := run.Params.Tolerances
	r.Println(output.FormatKeyValue("Tolerances", fmt.Sprintf("plane %g, charge %g, dipole %g", tol.Plane, tol.Charge, tol.Dipole)))
	r.Println(output.FormatKeyValue("Started", run.StartedAt.Local().Format(time.DateTime)))
	r.Println(output.FormatKeyValue("Duration", runDuration(run)))
	r.Println("")

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
	r.StatusLine(run.BulkName, string(run.Status), run.Error)
	return nil
}

func runDuration(run *core.Run) string {
	if run.CompletedAt == nil {
		return "-"
	}
	return run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
}
