package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zuraxy/delivery-warehouse/pkg/apperrors"
	"github.com/zuraxy/delivery-warehouse/pkg/database"
)

// Result is one report query's rows plus the measured execution duration.
type Result struct {
	DurationMs float64          `json:"durationMs"`
	Rows       []map[string]any `json:"rows"`
}

// Executor runs catalog queries against the warehouse.
type Executor struct {
	db      *database.DB
	catalog *Catalog
	logger  *zap.Logger
}

// NewExecutor creates an Executor over the warehouse connection.
func NewExecutor(db *database.DB, catalog *Catalog, logger *zap.Logger) *Executor {
	return &Executor{db: db, catalog: catalog, logger: logger}
}

// Run executes the named catalog query with the given positional arguments
// and returns its rows with a duration metric.
func (e *Executor) Run(ctx context.Context, name string, args []any) (*Result, error) {
	q, ok := e.catalog.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownQuery, name)
	}
	if len(args) != len(q.Params) {
		return nil, fmt.Errorf("%s expects %d parameters, got %d", name, len(q.Params), len(args))
	}

	start := time.Now()
	rows, err := e.db.Query(ctx, q.SQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var out []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s row: %w", name, err)
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading %s rows: %w", name, err)
	}

	duration := float64(time.Since(start).Microseconds()) / 1000.0
	e.logger.Info("Report query executed",
		zap.String("query", name),
		zap.Int("rows", len(out)),
		zap.Float64("duration_ms", duration))

	return &Result{DurationMs: duration, Rows: out}, nil
}
