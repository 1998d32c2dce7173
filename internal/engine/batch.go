package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// BatchResult is the outcome of GenerateBatch.
type BatchResult struct {
	// Run is the recorded run, nil when state is disabled.
	Run *core.Run
	// Results holds the processed indices in request order. Indices skipped
	// after a fail-fast cancellation are absent.
	Results []*Result
	// Status is the run outcome, set whether or not state is enabled.
	Status core.RunStatus
}

// Failed returns the results that carry an error.
func (b *BatchResult) Failed() []*Result {
	var failed []*Result
	for _, r := range b.Results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}

// GenerateBatch processes several Miller indices concurrently, bounded by the
// engine's concurrency. Without fail-fast every index is attempted and the
// failures are returned joined; with fail-fast the first failure cancels the
// indices that have not started and is returned alone.
func (e *Engine) GenerateBatch(ctx context.Context, req *Request, millers []core.Miller) (*BatchResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if len(millers) == 0 {
		return nil, errors.New("no Miller indices given")
	}

	e.logger.Info("starting run", "bulk", req.BulkName, "millers", len(millers), "concurrency", e.concurrency)

	batch := &BatchResult{}
	runID := ""
	if e.store != nil {
		run, err := e.store.CreateRun(ctx, req.BulkName, req.params())
		if err != nil {
			return nil, fmt.Errorf("failed to create run: %w", err)
		}
		runID = run.ID
		e.logger.Debug("created run", "run_id", runID)
	}

	results := make([]*Result, len(millers))
	var (
		mu   sync.Mutex
		errs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, m := range millers {
		g.Go(func() error {
			// Indices not yet started are skipped once the group is cancelled.
			if gctx.Err() != nil {
				return nil
			}

			res, err := e.Generate(gctx, req, m)
			results[i] = res
			e.record(gctx, runID, res)
			if err == nil {
				return nil
			}
			if e.failFast {
				return err
			}
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			return nil
		})
	}
	groupErr := g.Wait()

	for _, r := range results {
		if r != nil {
			batch.Results = append(batch.Results, r)
		}
	}

	runErr := groupErr
	if runErr == nil {
		runErr = errors.Join(errs...)
	}
	if runErr == nil && ctx.Err() != nil {
		runErr = ctx.Err()
	}

	status, msg := runOutcome(batch, len(millers), runErr)
	batch.Status = status
	if e.store != nil {
		// The run is closed even when the caller's context is already done.
		cctx := context.WithoutCancel(ctx)
		if err := e.store.CompleteRun(cctx, runID, status, msg); err != nil {
			e.logger.Warn("failed to complete run", "run_id", runID, "error", err.Error())
		}
		if run, err := e.store.GetRun(cctx, runID); err == nil {
			batch.Run = run
		}
	}

	if runErr != nil {
		e.logger.Info("run failed", "run_id", runID, "failed", len(batch.Failed()), "error", runErr.Error())
	} else {
		e.logger.Info("run completed", "run_id", runID, "millers", len(millers))
	}
	return batch, runErr
}

// runOutcome maps a batch to its run status: completed when every index
// succeeded, partial when some did, failed otherwise.
func runOutcome(b *BatchResult, requested int, runErr error) (core.RunStatus, string) {
	succeeded := len(b.Results) - len(b.Failed())
	switch {
	case runErr == nil && succeeded == requested:
		return core.RunStatusCompleted, ""
	case succeeded > 0:
		return core.RunStatusPartial, fmt.Sprintf("%d of %d Miller indices failed", requested-succeeded, requested)
	case runErr != nil:
		return core.RunStatusFailed, runErr.Error()
	default:
		return core.RunStatusFailed, "no Miller index processed"
	}
}

// record persists one result. Failures to record are logged, not returned.
func (e *Engine) record(ctx context.Context, runID string, res *Result) {
	if e.store == nil || res == nil {
		return
	}
	mr := res.MillerResult(runID)
	if err := e.store.RecordResult(context.WithoutCancel(ctx), mr); err != nil {
		e.logger.Warn("failed to record result", "run_id", runID, "miller", res.Miller.String(), "error", err.Error())
	}
}

// MillerResult converts the result to its persisted form.
func (res *Result) MillerResult(runID string) *core.MillerResult {
	mr := &core.MillerResult{
		RunID:     runID,
		Miller:    res.Miller,
		Status:    core.ResultStatusSuccess,
		PlotPath:  res.PlotPath,
		SlabPaths: res.SlabPaths,
	}
	if res.Err != nil {
		mr.Status = core.ResultStatusFailed
		var me *MillerError
		if errors.As(res.Err, &me) {
			mr.Error = me.Err.Error()
		} else {
			mr.Error = res.Err.Error()
		}
	}

	a := res.Analysis
	if a == nil {
		return mr
	}
	mr.Period = a.Profile.Period
	mr.NumPlanes = len(a.Planes)
	mr.NumCandidates = len(a.Candidates)
	mr.NumValid = len(a.Valid())
	if sel := a.Selected; sel != nil {
		mr.BottomCut = sel.BottomCut
		mr.TopCut = sel.TopCut
		mr.ZBottom = a.Cuts.Bottom
		mr.ZTop = a.Cuts.Top
		mr.NetDipole = sel.NetDipole
		mr.StoichK = sel.StoichK
		mr.IsTaskerII = sel.IsTaskerII
	}
	return mr
}
