// Package engine orchestrates slab generation.
// For each Miller index it builds the oriented bulk, projects the charges,
// analyzes the charge planes, plots the profile and writes the slabs. Runs
// and per-index outcomes are recorded in the state store.
package engine

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/leapstack-labs/taskerslab/internal/plot"
	"github.com/leapstack-labs/taskerslab/internal/slab"
	"github.com/leapstack-labs/taskerslab/internal/state"
	"github.com/leapstack-labs/taskerslab/internal/surface"
	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// Engine runs the generation pipeline.
type Engine struct {
	// Structured logger
	logger *slog.Logger

	// Run history; nil when state is disabled
	store     core.Store
	ownsStore bool

	builder core.SurfaceBuilder
	slabs   core.SlabWriter
	plotter core.Plotter

	concurrency int
	failFast    bool
}

// Config holds engine configuration.
type Config struct {
	// StatePath is the path to the SQLite run history. Empty disables it.
	StatePath string
	// Store is an already opened store. It takes precedence over StatePath
	// and is not closed by Engine.Close.
	Store core.Store
	// Builder builds oriented bulk cells (optional, surface.NewBuilder if nil)
	Builder core.SurfaceBuilder
	// SlabWriter writes slabs (optional, slab.NewWriter over Builder if nil)
	SlabWriter core.SlabWriter
	// Plotter renders the profile figure (optional, plot.NewSVG if nil)
	Plotter core.Plotter
	// Concurrency bounds the Miller indices processed at once (GOMAXPROCS if < 1)
	Concurrency int
	// FailFast cancels the remaining indices of a batch on the first failure
	FailFast bool
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine and opens the state store when configured.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing engine", "state_path", cfg.StatePath, "concurrency", cfg.Concurrency, "fail_fast", cfg.FailFast)

	store := cfg.Store
	ownsStore := false
	if store == nil && cfg.StatePath != "" {
		s := state.NewSQLiteStore(logger)
		if err := s.Open(cfg.StatePath); err != nil {
			return nil, fmt.Errorf("failed to open state store: %w", err)
		}
		if err := s.InitSchema(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to initialize state schema: %w", err)
		}
		store = s
		ownsStore = true
	}

	builder := cfg.Builder
	if builder == nil {
		builder = surface.NewBuilder()
	}
	slabs := cfg.SlabWriter
	if slabs == nil {
		slabs = slab.NewWriter(builder, logger)
	}
	plotter := cfg.Plotter
	if plotter == nil {
		plotter = plot.NewSVG()
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	return &Engine{
		logger:      logger,
		store:       store,
		ownsStore:   ownsStore,
		builder:     builder,
		slabs:       slabs,
		plotter:     plotter,
		concurrency: concurrency,
		failFast:    cfg.FailFast,
	}, nil
}

// Close releases the state store if the engine opened it.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")
	if e.store != nil && e.ownsStore {
		if err := e.store.Close(); err != nil {
			return fmt.Errorf("failed to close state store: %w", err)
		}
	}
	return nil
}

// GetStateStore returns the state store, or nil when state is disabled.
func (e *Engine) GetStateStore() core.Store {
	return e.store
}

// Concurrency returns the effective batch concurrency.
func (e *Engine) Concurrency() int {
	return e.concurrency
}
