package datastore

import (
	"time"

	"github.com/ducklens-lab/trendlens/internal/types"
	"github.com/moznion/go-optional"
)

// SnapshotStore is the read model every other component depends on: one row
// of precomputed indicators per (symbol, trading day). Implementations must
// support concurrent read-only access; writes happen only during ingestion,
// never during a simulation run.
type SnapshotStore interface {
	// Initialize creates the snapshot schema. When path is non-empty the
	// store is seeded from a parquet file at that location.
	Initialize(path string) error
	// GetSnapshot returns the snapshot for a symbol on an exact date.
	// A missing row yields ErrCodeSnapshotNotFound.
	GetSnapshot(symbol string, date time.Time) (types.IndicatorSnapshot, error)
	// GetRange returns all snapshots for a symbol between start and end
	// inclusive, in chronological order.
	GetRange(symbol string, start time.Time, end time.Time) ([]types.IndicatorSnapshot, error)
	// PreviousSnapshots returns the last count snapshots at or before date in
	// chronological order. Fewer available rows yield the partial result
	// together with an InsufficientDataError.
	PreviousSnapshots(symbol string, date time.Time, count int) ([]types.IndicatorSnapshot, error)
	// TradingDays returns the distinct snapshot dates between start and end
	// inclusive, ascending.
	TradingDays(start time.Time, end time.Time) ([]time.Time, error)
	// Symbols returns all distinct symbols in the store.
	Symbols() ([]string, error)
	// Count returns the number of snapshot rows.
	Count() (int, error)
	// WriteSnapshot inserts one snapshot row. Used by ingestion and tests.
	WriteSnapshot(snapshot types.IndicatorSnapshot) error
	// Cleanup removes all snapshot rows, keeping the schema.
	Cleanup() error
	// ReadAll yields every snapshot in the optional window ordered by date.
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.IndicatorSnapshot, error) bool)
	// Close closes the store and releases any resources.
	Close() error
}
