package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/microsoft/go-mssqldb" // SQL Server driver
)

// SourceDB wraps the read-only connection to the operational store.
type SourceDB struct {
	*sql.DB
}

// NewSourceConnection opens a SQL Server connection for extraction and
// verifies it with a ping. The pipeline only ever issues SELECTs through it.
func NewSourceConnection(ctx context.Context, connString string) (*SourceDB, error) {
	db, err := sql.Open("sqlserver", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open source connection: %w", err)
	}

	// One worker, six sequential queries; a small pool is plenty.
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping source database: %w", err)
	}

	return &SourceDB{DB: db}, nil
}

// Close closes the underlying connection.
func (db *SourceDB) Close() error {
	return db.DB.Close()
}
