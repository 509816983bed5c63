package datastore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/ducklens-lab/trendlens/internal/logger"
	"github.com/ducklens-lab/trendlens/internal/types"
	"github.com/ducklens-lab/trendlens/pkg/errors"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
)

const snapshotColumns = "symbol, date, open, high, low, close, volume, sma_20, sma_50, sma_200, macd, macd_signal, rsi_14, atr_14, avg_volume_20, flow"

type DuckDBStore struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBStore opens a DuckDB database at the given path. Use ":memory:"
// for an ephemeral store in tests. This is distinct from Initialize() which
// creates the schema and optionally seeds it.
func NewDuckDBStore(path string, logger *logger.Logger) (SnapshotStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb at %s: %w", path, err)
	}

	// Keep the analytical workload from starving the host
	_, err = db.Exec(`
		SET memory_limit='4GB';
		SET threads=4;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to set DuckDB options: %w", err)
	}

	return &DuckDBStore{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements SnapshotStore.
func (s *DuckDBStore) Initialize(path string) error {
	s.logger.Debug("Initializing snapshot store", zap.String("path", path))

	_, err := s.db.Exec(`DROP TABLE IF EXISTS indicator_snapshots;`)
	if err != nil {
		return fmt.Errorf("failed to drop existing snapshot table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE indicator_snapshots (
			symbol VARCHAR NOT NULL,
			date TIMESTAMP NOT NULL,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE NOT NULL,
			volume DOUBLE,
			sma_20 DOUBLE,
			sma_50 DOUBLE,
			sma_200 DOUBLE,
			macd DOUBLE,
			macd_signal DOUBLE,
			rsi_14 DOUBLE,
			atr_14 DOUBLE,
			avg_volume_20 DOUBLE,
			flow VARCHAR,
			PRIMARY KEY (symbol, date)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create snapshot table: %w", err)
	}

	if path == "" {
		return nil
	}

	// Seed from parquet. CREATE VIEW would be cheaper but the store also
	// accepts writes, so the rows are copied into the table instead.
	query := fmt.Sprintf(`
		INSERT INTO indicator_snapshots
		SELECT %s FROM read_parquet('%s');
	`, snapshotColumns, path)

	_, err = s.db.Exec(query)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeStoreUnavailable, err, "failed to seed snapshots from %s", path)
	}

	return nil
}

// GetSnapshot implements SnapshotStore.
func (s *DuckDBStore) GetSnapshot(symbol string, date time.Time) (types.IndicatorSnapshot, error) {
	query, args, err := s.sq.
		Select(snapshotColumns).
		From("indicator_snapshots").
		Where(squirrel.And{
			squirrel.Eq{"symbol": symbol},
			squirrel.Eq{"date": date},
		}).
		ToSql()
	if err != nil {
		return types.IndicatorSnapshot{}, fmt.Errorf("failed to build query: %w", err)
	}

	row := s.db.QueryRow(query, args...)

	snapshot, err := scanSnapshot(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.IndicatorSnapshot{}, errors.Newf(errors.ErrCodeSnapshotNotFound, "no snapshot for %s on %s", symbol, date.Format("2006-01-02"))
		}

		return types.IndicatorSnapshot{}, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return snapshot, nil
}

// GetRange implements SnapshotStore.
func (s *DuckDBStore) GetRange(symbol string, start time.Time, end time.Time) ([]types.IndicatorSnapshot, error) {
	query, args, err := s.sq.
		Select(snapshotColumns).
		From("indicator_snapshots").
		Where(squirrel.And{
			squirrel.Eq{"symbol": symbol},
			squirrel.GtOrEq{"date": start},
			squirrel.LtOrEq{"date": end},
		}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	result := make([]types.IndicatorSnapshot, 0, 256)

	for rows.Next() {
		snapshot, err := scanSnapshot(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		result = append(result, snapshot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// PreviousSnapshots implements SnapshotStore.
func (s *DuckDBStore) PreviousSnapshots(symbol string, date time.Time, count int) ([]types.IndicatorSnapshot, error) {
	s.logger.Debug("Getting previous snapshots",
		zap.Time("date", date),
		zap.String("symbol", symbol),
		zap.Int("count", count))

	query, args, err := s.sq.
		Select(snapshotColumns).
		From("indicator_snapshots").
		Where(squirrel.And{
			squirrel.Eq{"symbol": symbol},
			squirrel.LtOrEq{"date": date},
		}).
		OrderBy("date DESC").
		Limit(uint64(count)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	result := make([]types.IndicatorSnapshot, 0, count)

	for rows.Next() {
		snapshot, err := scanSnapshot(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		result = append(result, snapshot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	// Reverse the slice to get chronological order (oldest to newest)
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	if len(result) < count {
		return result, errors.NewInsufficientDataErrorf(count, len(result), symbol, "insufficient snapshots for symbol %s: requested %d, got %d", symbol, count, len(result))
	}

	return result, nil
}

// TradingDays implements SnapshotStore.
func (s *DuckDBStore) TradingDays(start time.Time, end time.Time) ([]time.Time, error) {
	query, args, err := s.sq.
		Select("DISTINCT date").
		From("indicator_snapshots").
		Where(squirrel.And{
			squirrel.GtOrEq{"date": start},
			squirrel.LtOrEq{"date": end},
		}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trading days: %w", err)
	}
	defer rows.Close()

	var days []time.Time

	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan trading day: %w", err)
		}

		days = append(days, day)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trading days: %w", err)
	}

	return days, nil
}

// Symbols implements SnapshotStore.
func (s *DuckDBStore) Symbols() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT symbol FROM indicator_snapshots ORDER BY symbol")
	if err != nil {
		return nil, fmt.Errorf("failed to get symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}

		symbols = append(symbols, symbol)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbols: %w", err)
	}

	return symbols, nil
}

// Count implements SnapshotStore.
func (s *DuckDBStore) Count() (int, error) {
	var count int

	err := s.db.QueryRow("SELECT COUNT(*) FROM indicator_snapshots").Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// WriteSnapshot implements SnapshotStore.
func (s *DuckDBStore) WriteSnapshot(snapshot types.IndicatorSnapshot) error {
	query, args, err := s.sq.
		Insert("indicator_snapshots").
		Columns(strings.Split(snapshotColumns, ", ")...).
		Values(
			snapshot.Symbol,
			snapshot.Date,
			snapshot.Open,
			snapshot.High,
			snapshot.Low,
			snapshot.Close,
			snapshot.Volume,
			floatArg(snapshot.SMA20),
			floatArg(snapshot.SMA50),
			floatArg(snapshot.SMA200),
			floatArg(snapshot.MACD),
			floatArg(snapshot.MACDSignal),
			floatArg(snapshot.RSI14),
			floatArg(snapshot.ATR14),
			floatArg(snapshot.AvgVolume20),
			flowArg(snapshot.Flow),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return errors.Wrapf(errors.ErrCodeStoreWriteFailed, err, "failed to write snapshot for %s on %s", snapshot.Symbol, snapshot.Date.Format("2006-01-02"))
	}

	return nil
}

// Cleanup implements SnapshotStore.
func (s *DuckDBStore) Cleanup() error {
	if _, err := s.db.Exec(`DELETE FROM indicator_snapshots;`); err != nil {
		return fmt.Errorf("failed to clean up snapshot table: %w", err)
	}

	return nil
}

// ReadAll implements SnapshotStore with batch processing.
func (s *DuckDBStore) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.IndicatorSnapshot, error) bool) {
	const batchSize = 1000

	return func(yield func(types.IndicatorSnapshot, error) bool) {
		s.logger.Debug("Reading all snapshots from DuckDB with batch processing")

		query := fmt.Sprintf("SELECT %s FROM indicator_snapshots", snapshotColumns)

		var conditions []string

		var params []interface{}

		paramCount := 0

		if start.IsSome() {
			paramCount++
			conditions = append(conditions, fmt.Sprintf("date >= $%d", paramCount))
			params = append(params, start.Unwrap())
		}

		if end.IsSome() {
			paramCount++
			conditions = append(conditions, fmt.Sprintf("date <= $%d", paramCount))
			params = append(params, end.Unwrap())
		}

		if len(conditions) > 0 {
			query += " WHERE " + strings.Join(conditions, " AND ")
		}

		query += " ORDER BY date ASC, symbol ASC"

		rows, err := s.db.Query(query, params...)
		if err != nil {
			yield(types.IndicatorSnapshot{}, err)

			return
		}
		defer rows.Close()

		batch := make([]types.IndicatorSnapshot, 0, batchSize)

		for rows.Next() {
			snapshot, err := scanSnapshot(rows.Scan)
			if err != nil {
				yield(types.IndicatorSnapshot{}, err)

				return
			}

			batch = append(batch, snapshot)

			if len(batch) >= batchSize {
				for _, data := range batch {
					if !yield(data, nil) {
						return
					}
				}

				batch = batch[:0]
			}
		}

		for _, data := range batch {
			if !yield(data, nil) {
				return
			}
		}
	}
}

// Close implements SnapshotStore.
func (s *DuckDBStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}

	return nil
}

// scanSnapshot maps one snapshot row. The indicator columns are nullable and
// land in Option fields.
func scanSnapshot(scan func(dest ...any) error) (types.IndicatorSnapshot, error) {
	var (
		snapshot                types.IndicatorSnapshot
		sma20, sma50, sma200    sql.NullFloat64
		macd, macdSignal        sql.NullFloat64
		rsi14, atr14, avgVolume sql.NullFloat64
		flow                    sql.NullString
	)

	err := scan(&snapshot.Symbol, &snapshot.Date,
		&snapshot.Open, &snapshot.High, &snapshot.Low, &snapshot.Close, &snapshot.Volume,
		&sma20, &sma50, &sma200, &macd, &macdSignal, &rsi14, &atr14, &avgVolume, &flow)
	if err != nil {
		return types.IndicatorSnapshot{}, err
	}

	snapshot.SMA20 = nullFloat(sma20)
	snapshot.SMA50 = nullFloat(sma50)
	snapshot.SMA200 = nullFloat(sma200)
	snapshot.MACD = nullFloat(macd)
	snapshot.MACDSignal = nullFloat(macdSignal)
	snapshot.RSI14 = nullFloat(rsi14)
	snapshot.ATR14 = nullFloat(atr14)
	snapshot.AvgVolume20 = nullFloat(avgVolume)
	snapshot.Flow = optional.None[types.FlowTag]()

	if flow.Valid {
		snapshot.Flow = optional.Some(types.ParseFlowTag(flow.String))
	}

	return snapshot, nil
}

func nullFloat(v sql.NullFloat64) optional.Option[float64] {
	if !v.Valid {
		return optional.None[float64]()
	}

	return optional.Some(v.Float64)
}

func floatArg(o optional.Option[float64]) any {
	if o.IsNone() {
		return nil
	}

	return o.Unwrap()
}

func flowArg(o optional.Option[types.FlowTag]) any {
	if o.IsNone() {
		return nil
	}

	return string(o.Unwrap())
}
