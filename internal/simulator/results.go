package simulator

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/ducklens-lab/trendlens/internal/types"
	"github.com/ducklens-lab/trendlens/pkg/errors"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	_ "github.com/marcboeker/go-duckdb"
)

// TradeSummary aggregates the closed trades of one run.
type TradeSummary struct {
	TotalTrades   int `yaml:"total_trades" json:"total_trades"`
	WinningTrades int `yaml:"winning_trades" json:"winning_trades"`
	LosingTrades  int `yaml:"losing_trades" json:"losing_trades"`
	// WinRate is the share of winning trades, in percent.
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
	// ProfitFactor is gross wins over gross losses, zero when there are no
	// losing trades.
	ProfitFactor   float64 `yaml:"profit_factor" json:"profit_factor"`
	AverageWin     float64 `yaml:"average_win" json:"average_win"`
	AverageLoss    float64 `yaml:"average_loss" json:"average_loss"`
	BestTrade      float64 `yaml:"best_trade" json:"best_trade"`
	WorstTrade     float64 `yaml:"worst_trade" json:"worst_trade"`
	AvgHoldingDays float64 `yaml:"avg_holding_days" json:"avg_holding_days"`
	MinHoldingDays int     `yaml:"min_holding_days" json:"min_holding_days"`
	MaxHoldingDays int     `yaml:"max_holding_days" json:"max_holding_days"`
}

// Result is the complete outcome of one simulation run. Trades and the
// equity curve are written to their own files rather than the stats YAML;
// StartDate and EndDate are the first and last realized trading days, which
// can be narrower than the configured window.
type Result struct {
	RunID               string       `yaml:"run_id" json:"run_id"`
	Timestamp           time.Time    `yaml:"timestamp" json:"timestamp"`
	Config              Config       `yaml:"config" json:"config"`
	StartDate           time.Time    `yaml:"start_date" json:"start_date"`
	EndDate             time.Time    `yaml:"end_date" json:"end_date"`
	TradingDays         int          `yaml:"trading_days" json:"trading_days"`
	InitialCapital      float64      `yaml:"initial_capital" json:"initial_capital"`
	FinalCapital        float64      `yaml:"final_capital" json:"final_capital"`
	TotalReturnPct      float64      `yaml:"total_return_pct" json:"total_return_pct"`
	BenchmarkReturnPct  *float64     `yaml:"benchmark_return_pct,omitempty" json:"benchmark_return_pct,omitempty"`
	MaxDrawdownPct      float64      `yaml:"max_drawdown_pct" json:"max_drawdown_pct"`
	TargetReachedDate   *time.Time   `yaml:"target_reached_date,omitempty" json:"target_reached_date,omitempty"`
	Summary             TradeSummary `yaml:"trade_summary" json:"trade_summary"`
	TradesFilePath      string       `yaml:"trades_file_path,omitempty" json:"trades_file_path,omitempty"`
	EquityCurveFilePath string       `yaml:"equity_curve_file_path,omitempty" json:"equity_curve_file_path,omitempty"`

	Trades      []types.Trade            `yaml:"-" json:"trades"`
	EquityCurve []types.EquityCurvePoint `yaml:"-" json:"equity_curve"`
}

func (s *Simulator) buildResult(runID string, days []time.Time, equity []types.EquityCurvePoint, targetReached optional.Option[time.Time]) *Result {
	trades := s.portfolio.Trades()
	finalCapital := equity[len(equity)-1].PortfolioValue

	result := &Result{
		RunID:          runID,
		Timestamp:      time.Now(),
		Config:         s.config,
		StartDate:      days[0],
		EndDate:        days[len(days)-1],
		TradingDays:    len(days),
		InitialCapital: s.config.InitialCapital,
		FinalCapital:   finalCapital,
		TotalReturnPct: (finalCapital - s.config.InitialCapital) / s.config.InitialCapital * 100,
		MaxDrawdownPct: MaxDrawdown(equity),
		Summary:        SummarizeTrades(trades),
		Trades:         trades,
		EquityCurve:    equity,
	}

	if targetReached.IsSome() {
		date := targetReached.Unwrap()
		result.TargetReachedDate = &date
	}

	if pct, ok := s.benchmarkReturn(days[0], days[len(days)-1]); ok {
		result.BenchmarkReturnPct = &pct
	}

	return result
}

// benchmarkReturn computes the buy-and-hold return of the benchmark symbol
// over the window, first close against last close in percent. Missing data
// disables the comparison rather than failing the run.
func (s *Simulator) benchmarkReturn(start time.Time, end time.Time) (float64, bool) {
	if s.config.BenchmarkSymbol == "" {
		return 0, false
	}

	snapshots, err := s.store.GetRange(s.config.BenchmarkSymbol, start, end)
	if err != nil || len(snapshots) == 0 {
		s.logger.Warn("No benchmark data, skipping buy-and-hold comparison",
			zap.String("symbol", s.config.BenchmarkSymbol),
		)

		return 0, false
	}

	first := snapshots[0].Close
	last := snapshots[len(snapshots)-1].Close
	if first <= 0 {
		return 0, false
	}

	return (last - first) / first * 100, true
}

// SummarizeTrades aggregates closed trades. Zero-PnL trades count as
// neither wins nor losses.
func SummarizeTrades(trades []types.Trade) TradeSummary {
	summary := TradeSummary{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return summary
	}

	summary.MinHoldingDays = trades[0].HoldingDays
	summary.BestTrade = trades[0].PnL
	summary.WorstTrade = trades[0].PnL

	var totalWins, totalLosses float64
	var holdingSum int

	for _, trade := range trades {
		switch {
		case trade.PnL > 0:
			summary.WinningTrades++
			totalWins += trade.PnL
		case trade.PnL < 0:
			summary.LosingTrades++
			totalLosses += -trade.PnL
		}

		holdingSum += trade.HoldingDays

		if trade.HoldingDays < summary.MinHoldingDays {
			summary.MinHoldingDays = trade.HoldingDays
		}

		if trade.HoldingDays > summary.MaxHoldingDays {
			summary.MaxHoldingDays = trade.HoldingDays
		}

		if trade.PnL > summary.BestTrade {
			summary.BestTrade = trade.PnL
		}

		if trade.PnL < summary.WorstTrade {
			summary.WorstTrade = trade.PnL
		}
	}

	summary.WinRate = float64(summary.WinningTrades) / float64(len(trades)) * 100
	summary.AvgHoldingDays = float64(holdingSum) / float64(len(trades))

	if summary.WinningTrades > 0 {
		summary.AverageWin = totalWins / float64(summary.WinningTrades)
	}

	if summary.LosingTrades > 0 {
		summary.AverageLoss = -(totalLosses / float64(summary.LosingTrades))
		summary.ProfitFactor = totalWins / totalLosses
	}

	return summary
}

// MaxDrawdown returns the largest peak-to-trough decline of the equity
// curve, in percent of the peak.
func MaxDrawdown(equity []types.EquityCurvePoint) float64 {
	var peak, worst float64

	for _, point := range equity {
		if point.PortfolioValue > peak {
			peak = point.PortfolioValue
		}

		if peak <= 0 {
			continue
		}

		drawdown := (peak - point.PortfolioValue) / peak * 100
		if drawdown > worst {
			worst = drawdown
		}
	}

	return worst
}

// WriteResults writes stats.yaml, trades.csv and equity.parquet under
// folder, creating it if needed.
func (s *Simulator) WriteResults(result *Result, folder string) error {
	if result == nil {
		return errors.New(errors.ErrCodeResultsWriteFailed, "nil result")
	}

	if err := os.MkdirAll(folder, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to create results folder", err)
	}

	tradesPath := filepath.Join(folder, "trades.csv")
	if err := writeTradesCSV(tradesPath, result.Trades); err != nil {
		return err
	}

	equityPath := filepath.Join(folder, "equity.parquet")
	if err := writeEquityParquet(equityPath, result.EquityCurve); err != nil {
		return err
	}

	result.TradesFilePath = tradesPath
	result.EquityCurveFilePath = equityPath

	statsPath := filepath.Join(folder, "stats.yaml")
	data, err := yaml.Marshal(result)
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to marshal result to YAML", err)
	}

	if err := os.WriteFile(statsPath, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to write stats file", err)
	}

	s.logger.Info("Results written",
		zap.String("stats", statsPath),
		zap.String("trades", tradesPath),
		zap.String("equity_curve", equityPath),
	)

	return nil
}

func writeTradesCSV(path string, trades []types.Trade) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to create trades file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{
		"id", "symbol", "entry_date", "exit_date", "entry_price", "exit_price",
		"quantity", "pnl", "pnl_pct", "confidence", "leverage_used",
		"exit_reason", "regime", "holding_days",
	}
	if err := writer.Write(header); err != nil {
		return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to write trades header", err)
	}

	for _, trade := range trades {
		record := []string{
			trade.ID,
			trade.Symbol,
			trade.EntryDate.Format("2006-01-02"),
			trade.ExitDate.Format("2006-01-02"),
			formatFloat(trade.EntryPrice),
			formatFloat(trade.ExitPrice),
			formatFloat(trade.Quantity),
			formatFloat(trade.PnL),
			formatFloat(trade.PnLPct),
			formatFloat(trade.Confidence),
			formatFloat(trade.LeverageUsed),
			trade.ExitReason,
			string(trade.Regime),
			strconv.Itoa(trade.HoldingDays),
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to write trade row", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to flush trades file", err)
	}

	return nil
}

// writeEquityParquet stages the curve in an in-memory DuckDB table, then
// exports it with COPY.
func writeEquityParquet(path string, equity []types.EquityCurvePoint) error {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to open duckdb", err)
	}
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE equity_curve (
			date DATE NOT NULL,
			portfolio_value DOUBLE NOT NULL,
			cash DOUBLE NOT NULL,
			open_positions INTEGER NOT NULL
		);
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to create equity table", err)
	}

	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	for _, point := range equity {
		query, args, err := builder.
			Insert("equity_curve").
			Columns("date", "portfolio_value", "cash", "open_positions").
			Values(point.Date, point.PortfolioValue, point.Cash, point.OpenPositions).
			ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to build equity insert", err)
		}

		if _, err := db.Exec(query, args...); err != nil {
			return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to insert equity point", err)
		}
	}

	// Raw SQL, squirrel has no COPY support.
	if _, err := db.Exec(fmt.Sprintf("COPY equity_curve TO '%s' (FORMAT PARQUET)", path)); err != nil {
		return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to export equity curve to parquet", err)
	}

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
