package writer

import (
	"database/sql"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/ducklens-lab/trendlens/internal/types"
	"github.com/ducklens-lab/trendlens/pkg/errors"
)

// DuckDBBarWriter lands bars in the daily_bars table of a DuckDB database
// file. Writes run inside one transaction committed by Finalize; re-fetching
// a (symbol, date) pair replaces the existing row.
type DuckDBBarWriter struct {
	db   *sql.DB
	tx   *sql.Tx
	stmt *sql.Stmt
	path string
}

// NewDuckDBBarWriter creates a writer targeting the database file at path.
// The file is created on Initialize if it does not exist.
func NewDuckDBBarWriter(path string) *DuckDBBarWriter {
	return &DuckDBBarWriter{path: path}
}

// Initialize opens the database, creates the daily_bars table if needed,
// begins the write transaction and prepares the insert statement.
func (w *DuckDBBarWriter) Initialize() (err error) {
	w.db, err = sql.Open("duckdb", w.path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriterUnavailable, "failed to open duckdb database", err)
	}

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS daily_bars (
			symbol TEXT NOT NULL,
			date DATE NOT NULL,
			open DOUBLE NOT NULL,
			high DOUBLE NOT NULL,
			low DOUBLE NOT NULL,
			close DOUBLE NOT NULL,
			volume DOUBLE NOT NULL,
			PRIMARY KEY (symbol, date)
		)
	`)
	if err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeWriterUnavailable, "failed to create daily_bars table", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeWriterUnavailable, "failed to begin transaction", err)
	}

	w.stmt, err = w.tx.Prepare(`
		INSERT OR REPLACE INTO daily_bars (symbol, date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return errors.Wrap(errors.ErrCodeWriterUnavailable, "failed to prepare insert statement", err)
	}

	return nil
}

// Write stages a single bar inside the open transaction.
func (w *DuckDBBarWriter) Write(bar types.DailyBar) error {
	if w.stmt == nil {
		return errors.New(errors.ErrCodeWriterUnavailable, "writer not initialized")
	}

	_, err := w.stmt.Exec(
		bar.Symbol,
		bar.Date,
		bar.Open,
		bar.High,
		bar.Low,
		bar.Close,
		bar.Volume,
	)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeBarWriteFailed, err, "failed to insert bar for %s", bar.Symbol)
	}

	return nil
}

// Finalize commits the staged bars and returns the database path.
func (w *DuckDBBarWriter) Finalize() (string, error) {
	if w.tx == nil {
		return "", errors.New(errors.ErrCodeWriterUnavailable, "writer not initialized")
	}

	if err := w.tx.Commit(); err != nil {
		w.tx.Rollback()
		w.tx = nil

		return "", errors.Wrap(errors.ErrCodeBarWriteFailed, "failed to commit bars", err)
	}

	w.tx = nil

	return w.path, nil
}

// Close releases the statement, rolls back any uncommitted transaction and
// closes the database.
func (w *DuckDBBarWriter) Close() error {
	var firstErr error

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(errors.ErrCodeWriterUnavailable, "failed to close statement", err)
		}

		w.stmt = nil
	}

	if w.tx != nil {
		w.tx.Rollback()
		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(errors.ErrCodeWriterUnavailable, "failed to close database", err)
		}

		w.db = nil
	}

	return firstErr
}
