package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

const resultColumns = `id, run_id, miller, status, period, num_planes, num_candidates, num_valid, bottom_cut, top_cut, z_bottom, z_top, net_dipole, stoich_k, is_tasker_ii, plot_path, slab_paths, error, created_at`

// RecordResult stores the outcome for one Miller index. ID and CreatedAt are
// filled in when empty.
func (s *SQLiteStore) RecordResult(ctx context.Context, r *core.MillerResult) error {
	if s.db == nil {
		return errNotOpened
	}
	if r.ID == "" {
		r.ID = generateID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	slabs := r.SlabPaths
	if slabs == nil {
		slabs = []string{}
	}
	slabJSON, err := json.Marshal(slabs)
	if err != nil {
		return fmt.Errorf("failed to encode slab paths: %w", err)
	}

	s.logger.Debug("recording result",
		slog.String("run", r.RunID), slog.String("miller", r.Miller.String()), slog.String("status", string(r.Status)))

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO miller_results (`+resultColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.RunID, formatMiller(r.Miller), string(r.Status), r.Period,
		r.NumPlanes, r.NumCandidates, r.NumValid, r.BottomCut, r.TopCut,
		r.ZBottom, r.ZTop, r.NetDipole, r.StoichK, r.IsTaskerII,
		r.PlotPath, string(slabJSON), nullString(r.Error), formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}

// GetResultsForRun returns a run's results in recording order.
func (s *SQLiteStore) GetResultsForRun(ctx context.Context, runID string) ([]*core.MillerResult, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resultColumns+` FROM miller_results WHERE run_id = ? ORDER BY created_at, rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	defer rows.Close()

	var results []*core.MillerResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResult(sc scanner) (*core.MillerResult, error) {
	var (
		r         core.MillerResult
		miller    string
		status    string
		slabJSON  string
		errMsg    sql.NullString
		createdAt string
	)
	err := sc.Scan(
		&r.ID, &r.RunID, &miller, &status, &r.Period,
		&r.NumPlanes, &r.NumCandidates, &r.NumValid, &r.BottomCut, &r.TopCut,
		&r.ZBottom, &r.ZTop, &r.NetDipole, &r.StoichK, &r.IsTaskerII,
		&r.PlotPath, &slabJSON, &errMsg, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if r.Miller, err = core.ParseMiller(miller); err != nil {
		return nil, err
	}
	r.Status = core.ResultStatus(status)
	if err := json.Unmarshal([]byte(slabJSON), &r.SlabPaths); err != nil {
		return nil, fmt.Errorf("invalid slab paths: %w", err)
	}
	r.Error = errMsg.String
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func formatMiller(m core.Miller) string {
	return fmt.Sprintf("%d %d %d", m[0], m[1], m[2])
}
