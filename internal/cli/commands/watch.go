package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/taskerslab/internal/cli/config"
	intconfig "github.com/leapstack-labs/taskerslab/internal/config"
)

const defaultDebounce = 100 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [miller...]",
		Short: "Regenerate slabs whenever the bulk or charge file changes",
		Long: `Run generate once, then watch the bulk and charge files and run it again
after every change. Failed runs are reported and watching continues.
Stop with Ctrl-C.`,
		Example: `  taskerslab watch -b geometry.in -c aims.out 001 110`,
		RunE:    runWatch,
	}

	config.RegisterGenerationFlags(cmd.Flags())
	cmd.Flags().Duration("debounce", defaultDebounce, "Quiet period before a change triggers a run")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	gc, err := generationConfig(getConfig(), args)
	if err != nil {
		return err
	}
	if err := gc.Validate(); err != nil {
		return err
	}
	debounce, _ := cmd.Flags().GetDuration("debounce")

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := cmdCtx.Renderer
	runOnce := func() {
		if err := generateOnce(ctx, cmdCtx, &gc); err != nil && ctx.Err() == nil {
			r.Error(err.Error())
		}
	}

	runOnce()
	r.Muted(fmt.Sprintf("watching %s and %s", gc.Bulk, gc.Charges))

	return watchFiles(ctx, []string{gc.Bulk, gc.Charges}, debounce, cmdCtx.Logger, func(changed string) {
		r.Muted("change detected: " + filepath.Base(changed))
		runOnce()
	})
}

// generateOnce rereads the inputs and runs one batch.
func generateOnce(ctx context.Context, cmdCtx *CommandContext, gc *intconfig.GenerationConfig) error {
	req, err := loadRequest(gc)
	if err != nil {
		return err
	}
	batch, runErr := cmdCtx.Engine.GenerateBatch(ctx, req, gc.Millers)
	if batch == nil {
		return runErr
	}
	if err := renderBatch(cmdCtx.Renderer, req.BulkName, batch); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("%d of %d Miller indices failed", len(gc.Millers)-succeeded(batch), len(gc.Millers))
	}
	return nil
}

// watchFiles calls onChange after files stop changing for the debounce
// period. The parent directories are watched so that files replaced by
// rename are still seen. It returns nil when ctx is done.
func watchFiles(ctx context.Context, files []string, debounce time.Duration, logger *slog.Logger, onChange func(changed string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := ""

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !watched[name] {
				continue
			}
			logger.Debug("input changed", "path", name, "op", event.Op.String())
			pending = name
			timer.Reset(debounce)

		case <-timer.C:
			if pending != "" {
				changed := pending
				pending = ""
				onChange(changed)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err.Error())
		}
	}
}
