package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/taskerslab/internal/charges"
	"github.com/leapstack-labs/taskerslab/internal/cli/config"
	"github.com/leapstack-labs/taskerslab/internal/cli/output"
	intconfig "github.com/leapstack-labs/taskerslab/internal/config"
	"github.com/leapstack-labs/taskerslab/internal/engine"
	"github.com/leapstack-labs/taskerslab/internal/structio"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: newRenderer(cmd, cfg),
	}, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that only read input files.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: newRenderer(cmd, cfg),
	}
}

func newRenderer(cmd *cobra.Command, cfg *config.Config) *output.Renderer {
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
}

// getConfig returns the configuration loaded by the root command, or a
// freshly loaded one when a command runs on its own.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		return &config.Config{
			StatePath:    config.DefaultStateFile,
			OutputFormat: config.DefaultOutput,
			LogLevel:     config.DefaultLogLevel,
		}
	}
	return cfg
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	statePath := ""
	if !cfg.NoState {
		statePath = cfg.StatePath
		// Ensure state directory exists
		if stateDir := filepath.Dir(statePath); statePath != ":memory:" && stateDir != "." && stateDir != "" {
			if err := os.MkdirAll(stateDir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}

	return engine.New(engine.Config{
		StatePath:   statePath,
		Concurrency: cfg.Concurrency,
		FailFast:    cfg.FailFast,
		Logger:      logger,
	})
}

// generationConfig copies the configured generation parameters, replacing
// the Miller indices when any are given as arguments.
func generationConfig(cfg *config.Config, args []string) (intconfig.GenerationConfig, error) {
	gc := cfg.GenerationConfig
	if len(args) == 0 {
		return gc, nil
	}
	millers, err := parseMillerArgs(args)
	if err != nil {
		return gc, err
	}
	gc.Millers = millers
	return gc, nil
}

// loadRequest validates gc, reads the bulk and its charges and builds the
// engine request.
func loadRequest(gc *intconfig.GenerationConfig) (*engine.Request, error) {
	if err := gc.Validate(); err != nil {
		return nil, err
	}

	bulk, err := structio.ReadFile(gc.Bulk, gc.BulkFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to read bulk: %w", err)
	}
	q, err := charges.ParseFile(gc.Charges, gc.ChargesFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to read charges: %w", err)
	}

	plotDir := ""
	if gc.Plot {
		plotDir = gc.PlotDir
	}

	return &engine.Request{
		Bulk:        bulk,
		Charges:     q,
		BulkName:    gc.BulkName,
		BulkPath:    gc.Bulk,
		ChargesPath: gc.Charges,
		Layers:      gc.Layers,
		Tolerances:  gc.Tolerances(),
		Thicknesses: gc.Thickness,
		Vacuum:      gc.Vacuum,
		OutDir:      gc.OutDir,
		Ext:         gc.Ext,
		PlotDir:     plotDir,
	}, nil
}
