package load

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/zuraxy/delivery-warehouse/pkg/database"
)

// WatermarkStore persists the timestamp of the last successful run in the
// warehouse's run_log table. It is read once at the start of a run and
// written once at the end; the recorded value becomes the incremental
// boundary for the next run.
type WatermarkStore struct {
	db *database.DB
}

// NewWatermarkStore creates a watermark store over the warehouse connection.
func NewWatermarkStore(db *database.DB) *WatermarkStore {
	return &WatermarkStore{db: db}
}

// LastRun returns the most recent successful run timestamp. A zero time with
// nil error means no run has ever completed (full load everywhere).
func (s *WatermarkStore) LastRun(ctx context.Context) (time.Time, error) {
	var runDate time.Time
	err := s.db.QueryRow(ctx,
		"SELECT run_date FROM run_log ORDER BY run_date DESC LIMIT 1").Scan(&runDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read last run: %w", err)
	}
	return runDate, nil
}

// Record appends a successful run's start timestamp. Called only after
// every load committed; a failed run leaves the previous watermark in place
// so the next run safely retries from it.
func (s *WatermarkStore) Record(ctx context.Context, runDate time.Time) error {
	if _, err := s.db.Exec(ctx,
		"INSERT INTO run_log (run_date) VALUES ($1)", runDate); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}
