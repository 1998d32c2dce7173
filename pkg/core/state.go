package core

import (
	"context"
	"time"
)

// Store defines the interface for run history operations.
type Store interface {
	Open(path string) error
	Close() error
	InitSchema() error

	// Run operations
	CreateRun(ctx context.Context, bulkName string, params RunParams) (*Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	CompleteRun(ctx context.Context, id string, status RunStatus, errMsg string) error
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// Per-Miller result operations
	RecordResult(ctx context.Context, result *MillerResult) error
	GetResultsForRun(ctx context.Context, runID string) ([]*MillerResult, error)
}

// RunStatus represents the status of a generation run.
type RunStatus string

// Run status constants.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusPartial   RunStatus = "partial"
	RunStatusFailed    RunStatus = "failed"
)

// RunParams are the inputs recorded with a run.
type RunParams struct {
	BulkPath    string
	ChargesPath string
	Layers      int
	Tolerances  Tolerances
	Vacuum      float64
}

// Run represents one invocation over a set of Miller indices.
type Run struct {
	ID          string
	BulkName    string
	Params      RunParams
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
}

// ResultStatus is the outcome for a single Miller index.
type ResultStatus string

// Result status constants.
const (
	ResultStatusSuccess ResultStatus = "success"
	ResultStatusFailed  ResultStatus = "failed"
)

// MillerResult is the persisted outcome for one Miller index of a run.
type MillerResult struct {
	ID            string
	RunID         string
	Miller        Miller
	Status        ResultStatus
	Period        float64
	NumPlanes     int
	NumCandidates int
	NumValid      int
	BottomCut     int
	TopCut        int
	ZBottom       float64
	ZTop          float64
	NetDipole     float64
	StoichK       int
	IsTaskerII    bool
	PlotPath      string
	SlabPaths     []string
	Error         string
	CreatedAt     time.Time
}
