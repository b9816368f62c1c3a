// Package load applies transformed record sets to the warehouse. Each table
// is loaded inside its own transaction; there is no cross-table transaction,
// so a failure mid-run leaves earlier tables committed and the watermark
// unadvanced, and the next run reconsiders the affected rows.
package load

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/zuraxy/delivery-warehouse/pkg/database"
)

// Row is the surface the loader needs from any warehouse record: its replace
// key, its change timestamp (absent means unknown, treated as changed) and
// its column values in Table.Columns order.
type Row interface {
	Key() int64
	ChangedAt() (time.Time, bool)
	Values() []any
}

// RefreshDecision decides whether a batch with the given changed/total row
// counts should be applied as a full table refresh instead of per-key
// deletes. Kept as an explicit strategy so it can later be swapped for a
// pure upsert without touching callers.
type RefreshDecision func(changed, total int) bool

// FullWhenAllChanged refreshes the whole table when every extracted record
// changed, avoiding an unbounded delete key list.
func FullWhenAllChanged(changed, total int) bool {
	return changed == total
}

// Loader applies incremental replace-by-key loads to the warehouse.
type Loader struct {
	db          *database.DB
	logger      *zap.Logger
	fullRefresh RefreshDecision
}

// NewLoader creates a Loader with the default full-refresh heuristic.
func NewLoader(db *database.DB, logger *zap.Logger) *Loader {
	return &Loader{db: db, logger: logger, fullRefresh: FullWhenAllChanged}
}

// WithRefreshDecision overrides the full-vs-partial strategy.
func (l *Loader) WithRefreshDecision(d RefreshDecision) *Loader {
	l.fullRefresh = d
	return l
}

// Load replaces the target table's rows that changed since the watermark.
//
//   - Zero watermark (first run): full refresh, truncate + bulk insert.
//   - No changed rows: no-op, so an immediate re-run loads nothing.
//   - Every row changed: full refresh rather than an unbounded delete list.
//   - Otherwise: delete the changed keys, bulk-insert the changed rows.
//
// The delete+insert pair runs in one transaction; a failure rolls back this
// table entirely. Returns the number of rows applied.
func (l *Loader) Load(ctx context.Context, table Table, rows []Row, watermark time.Time) (int, error) {
	changed := rows
	if !watermark.IsZero() {
		changed = ChangedSince(rows, watermark)
	}

	if len(changed) == 0 {
		l.logger.Info("No changed rows, skipping load", zap.String("table", table.Name))
		return 0, nil
	}

	full := watermark.IsZero() || l.fullRefresh(len(changed), len(rows))

	tx, err := l.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for %s: %w", table.Name, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback on defer is best-effort

	if full {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table.Name)); err != nil {
			return 0, fmt.Errorf("failed to truncate %s: %w", table.Name, err)
		}
	} else {
		keys := distinctKeys(changed)
		query := fmt.Sprintf("DELETE FROM %s WHERE %s = ANY($1)", table.Name, table.KeyColumn)
		if _, err := tx.Exec(ctx, query, keys); err != nil {
			return 0, fmt.Errorf("failed to delete changed keys from %s: %w", table.Name, err)
		}
	}

	if err := copyRows(ctx, tx, table, changed); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit load of %s: %w", table.Name, err)
	}

	l.logger.Info("Loaded table",
		zap.String("table", table.Name),
		zap.Int("rows", len(changed)),
		zap.Bool("full_refresh", full))
	return len(changed), nil
}

// LoadAppendOnly inserts only rows whose key is not already present in the
// target table; existing rows are never deleted or updated. Used for the
// date dimension, whose rows are immutable once observed. The existence
// check is against the target table, not the watermark.
func (l *Loader) LoadAppendOnly(ctx context.Context, table Table, rows []Row) (int, error) {
	if len(rows) == 0 {
		l.logger.Warn("No rows offered for append-only load", zap.String("table", table.Name))
		return 0, nil
	}

	tx, err := l.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for %s: %w", table.Name, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback on defer is best-effort

	existing := make(map[int64]struct{})
	query := fmt.Sprintf("SELECT %s FROM %s", table.KeyColumn, table.Name)
	existingRows, err := tx.Query(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to read existing keys from %s: %w", table.Name, err)
	}
	for existingRows.Next() {
		var key int64
		if err := existingRows.Scan(&key); err != nil {
			existingRows.Close()
			return 0, fmt.Errorf("failed to scan existing key from %s: %w", table.Name, err)
		}
		existing[key] = struct{}{}
	}
	existingRows.Close()
	if err := existingRows.Err(); err != nil {
		return 0, fmt.Errorf("failed reading existing keys from %s: %w", table.Name, err)
	}

	var toInsert []Row
	for _, r := range rows {
		if _, present := existing[r.Key()]; !present {
			toInsert = append(toInsert, r)
		}
	}

	if len(toInsert) == 0 {
		l.logger.Info("No new rows to append", zap.String("table", table.Name))
		return 0, nil
	}

	if err := copyRows(ctx, tx, table, toInsert); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit append to %s: %w", table.Name, err)
	}

	l.logger.Info("Appended new rows",
		zap.String("table", table.Name),
		zap.Int("rows", len(toInsert)))
	return len(toInsert), nil
}

// ChangedSince returns the rows strictly newer than the watermark. A row at
// exactly the watermark is not changed: the watermark records a run that
// already loaded it. Rows with an unknown change time are included.
func ChangedSince(rows []Row, watermark time.Time) []Row {
	var changed []Row
	for _, r := range rows {
		t, ok := r.ChangedAt()
		if !ok || t.After(watermark) {
			changed = append(changed, r)
		}
	}
	return changed
}

func distinctKeys(rows []Row) []int64 {
	seen := make(map[int64]struct{}, len(rows))
	keys := make([]int64, 0, len(rows))
	for _, r := range rows {
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

func copyRows(ctx context.Context, tx pgx.Tx, table Table, rows []Row) error {
	values := make([][]any, len(rows))
	for i, r := range rows {
		values[i] = r.Values()
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{table.Name}, table.Columns, pgx.CopyFromRows(values))
	if err != nil {
		return fmt.Errorf("failed to bulk-insert into %s: %w", table.Name, err)
	}
	if copied != int64(len(rows)) {
		return fmt.Errorf("bulk insert into %s wrote %d of %d rows", table.Name, copied, len(rows))
	}
	return nil
}
