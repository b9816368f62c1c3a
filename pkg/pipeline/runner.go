// Package pipeline sequences one ETL run: read watermark, extract,
// transform, load dimensions in dependency order, load the fact table,
// record the new watermark. It is the only place with cross-cutting failure
// handling; everything below it either succeeds or returns an error that
// aborts the run without advancing the watermark.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zuraxy/delivery-warehouse/pkg/extract"
	"github.com/zuraxy/delivery-warehouse/pkg/load"
	"github.com/zuraxy/delivery-warehouse/pkg/logging"
	"github.com/zuraxy/delivery-warehouse/pkg/transform"
)

// SourceReader extracts one consistent snapshot of the source relations.
type SourceReader interface {
	ReadAll(ctx context.Context) (*extract.Snapshot, error)
}

// TableLoader applies record batches to warehouse tables.
type TableLoader interface {
	Load(ctx context.Context, table load.Table, rows []load.Row, watermark time.Time) (int, error)
	LoadAppendOnly(ctx context.Context, table load.Table, rows []load.Row) (int, error)
}

// WatermarkStore reads and records run watermarks.
type WatermarkStore interface {
	LastRun(ctx context.Context) (time.Time, error)
	Record(ctx context.Context, runDate time.Time) error
}

// Report summarizes one completed run.
type Report struct {
	RunID            uuid.UUID
	StartedAt        time.Time
	Duration         time.Duration
	Watermark        time.Time
	FullLoad         bool
	ProductsLoaded   int
	UsersLoaded      int
	RidersLoaded     int
	DatesLoaded      int
	FactsLoaded      int
	UnparseableDates int
	FactStats        transform.FactStats
}

// Runner orchestrates ETL runs.
type Runner struct {
	reader SourceReader
	loader TableLoader
	marks  WatermarkStore
	logger *zap.Logger
}

// New creates a Runner.
func New(reader SourceReader, loader TableLoader, marks WatermarkStore, logger *zap.Logger) *Runner {
	return &Runner{reader: reader, loader: loader, marks: marks, logger: logger}
}

// Run executes one complete pipeline pass. On any error the run aborts
// without recording a new watermark; tables already committed stay
// committed, and the next run reconsiders their rows from the old
// watermark (at-least-once, not exactly-once).
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.New(),
		StartedAt: time.Now().UTC(),
	}
	logger := r.logger.With(zap.String("run_id", report.RunID.String()))

	// A watermark read failure degrades to a full load rather than
	// aborting: loading everything is always safe under replace-by-key.
	watermark, err := r.marks.LastRun(ctx)
	if err != nil {
		logger.Warn("Failed to read last run, performing full load",
			zap.String("error", logging.SanitizeError(err)))
		watermark = time.Time{}
	}
	report.Watermark = watermark
	report.FullLoad = watermark.IsZero()
	if report.FullLoad {
		logger.Info("No previous run found, performing full load")
	} else {
		logger.Info("Incremental run", zap.Time("watermark", watermark))
	}

	snap, err := r.reader.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract failed: %w", err)
	}

	dimProduct := transform.ProductDimension(snap.Products)
	dimUser := transform.UserDimension(snap.Users)
	dimRider := transform.RiderDimension(snap.Riders, snap.Couriers)
	dimDate, deliveryDates, unparseable := transform.DateDimension(snap.Orders)
	facts, factStats := transform.FactTable(snap.OrderItems, snap.Orders, snap.Products, deliveryDates)

	report.UnparseableDates = unparseable
	report.FactStats = factStats
	logger.Info("Transformed record sets",
		zap.Int("dim_product", len(dimProduct)),
		zap.Int("dim_user", len(dimUser)),
		zap.Int("dim_rider", len(dimRider)),
		zap.Int("dim_date", len(dimDate)),
		zap.Int("fact_orders", factStats.Total),
		zap.Int("unparseable_delivery_dates", unparseable),
		zap.Int("missing_product_id", factStats.MissingProductID),
		zap.Int("missing_unit_price", factStats.MissingUnitPrice))

	// Dimensions load before the fact table so fact foreign keys resolve
	// against committed dimension rows. Order within dimensions is fixed.
	if report.ProductsLoaded, err = r.loader.Load(ctx, load.ProductTable, asRows(dimProduct), watermark); err != nil {
		return nil, fmt.Errorf("product dimension load failed: %w", err)
	}
	if report.UsersLoaded, err = r.loader.Load(ctx, load.UserTable, asRows(dimUser), watermark); err != nil {
		return nil, fmt.Errorf("user dimension load failed: %w", err)
	}
	if report.RidersLoaded, err = r.loader.Load(ctx, load.RiderTable, asRows(dimRider), watermark); err != nil {
		return nil, fmt.Errorf("rider dimension load failed: %w", err)
	}
	if report.DatesLoaded, err = r.loader.LoadAppendOnly(ctx, load.DateTable, asRows(dimDate)); err != nil {
		return nil, fmt.Errorf("date dimension load failed: %w", err)
	}

	if report.FactsLoaded, err = r.loader.Load(ctx, load.FactTable, asRows(facts), watermark); err != nil {
		return nil, fmt.Errorf("fact table load failed: %w", err)
	}

	// The run's start timestamp, not its end, becomes the next boundary:
	// source rows modified while this run was loading fall after it and
	// are picked up next time.
	if err := r.marks.Record(ctx, report.StartedAt); err != nil {
		return nil, fmt.Errorf("failed to record watermark: %w", err)
	}

	report.Duration = time.Since(report.StartedAt)
	logger.Info("Run completed",
		zap.Duration("duration", report.Duration),
		zap.Int("products", report.ProductsLoaded),
		zap.Int("users", report.UsersLoaded),
		zap.Int("riders", report.RidersLoaded),
		zap.Int("dates", report.DatesLoaded),
		zap.Int("facts", report.FactsLoaded))

	return report, nil
}

func asRows[T load.Row](records []T) []load.Row {
	rows := make([]load.Row, len(records))
	for i, rec := range records {
		rows[i] = rec
	}
	return rows
}
