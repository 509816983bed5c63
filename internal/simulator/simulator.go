// Package simulator drives the walk-forward day loop over stored indicator
// snapshots: regime context, trailing stops, exits, signal evaluation and
// ranked entries, with one equity point per trading day and no reads past
// the simulated date.
package simulator

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ducklens-lab/trendlens/internal/calendar"
	"github.com/ducklens-lab/trendlens/internal/datastore"
	"github.com/ducklens-lab/trendlens/internal/detector"
	"github.com/ducklens-lab/trendlens/internal/logger"
	"github.com/ducklens-lab/trendlens/internal/portfolio"
	"github.com/ducklens-lab/trendlens/internal/regime"
	"github.com/ducklens-lab/trendlens/internal/types"
	"github.com/ducklens-lab/trendlens/pkg/errors"
	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// OnDayCallback reports progress after each simulated day.
type OnDayCallback func(current int, total int)

// Simulator replays the detector and portfolio over a historical window.
// Construct with NewSimulator, apply a config with Initialize, then Run.
type Simulator struct {
	store     datastore.SnapshotStore
	calendar  calendar.EventCalendar
	regimes   regime.Provider
	logger    *logger.Logger
	config    Config
	detector  *detector.TrendDetector
	portfolio *portfolio.Portfolio

	// deferred holds symbols whose confirmed buy could not open (regime
	// confidence floor, VIX ceiling, position cap or cash rejection). They
	// stay entry candidates while their trend remains bullish.
	deferred map[string]bool
}

// NewSimulator creates a simulator over the given store, event calendar and
// regime provider.
func NewSimulator(store datastore.SnapshotStore, cal calendar.EventCalendar, regimes regime.Provider, log *logger.Logger) *Simulator {
	return &Simulator{
		store:    store,
		calendar: cal,
		regimes:  regimes,
		logger:   log,
	}
}

// Initialize parses a YAML simulation config and applies it.
func (s *Simulator) Initialize(configYAML string) error {
	if strings.TrimSpace(configYAML) == "" {
		return errors.New(errors.ErrCodeSimulationConfigNil, "empty simulation config")
	}

	var config Config
	if err := yaml.Unmarshal([]byte(configYAML), &config); err != nil {
		return errors.Wrap(errors.ErrCodeSimulationInitFailed, "failed to parse simulation config", err)
	}

	return s.InitializeConfig(config)
}

// InitializeConfig validates the config and builds the detector and
// portfolio for a run.
func (s *Simulator) InitializeConfig(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	trendDetector, err := detector.NewTrendDetector(config.Config, s.calendar, s.logger)
	if err != nil {
		return err
	}

	s.config = config
	s.detector = trendDetector
	s.portfolio = portfolio.NewPortfolio(config.PortfolioSettings(), s.logger)

	s.logger.Debug("Simulator initialized",
		zap.Int("symbols", len(config.Symbols)),
		zap.Time("start", config.StartDate),
		zap.Time("end", config.EndDate),
	)

	return nil
}

func (s *Simulator) preRunCheck() error {
	if s.detector == nil || s.portfolio == nil {
		return errors.New(errors.ErrCodeSimulationInitFailed, "simulator not initialized")
	}

	if s.store == nil {
		return errors.New(errors.ErrCodeSimulationNoStore, "no snapshot store configured")
	}

	if len(s.config.Symbols) == 0 {
		return errors.New(errors.ErrCodeSimulationNoSymbols, "no candidate symbols configured")
	}

	return nil
}

// Run walks every trading day in the configured window in order. Each day it
// refreshes the regime context, ratchets trailing stops, sweeps exits,
// evaluates held symbols for confirmed sells, then opens ranked buy
// candidates up to the regime's position cap. Remaining positions are closed
// at the end of the window before the final equity point.
func (s *Simulator) Run(ctx context.Context, onDay optional.Option[OnDayCallback]) (*Result, error) {
	if err := s.preRunCheck(); err != nil {
		return nil, err
	}

	days, err := s.store.TradingDays(s.config.StartDate, s.config.EndDate)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to list trading days", err)
	}

	if len(days) == 0 {
		return nil, errors.Newf(errors.ErrCodeInsufficientData, "no trading days between %s and %s",
			s.config.StartDate.Format("2006-01-02"), s.config.EndDate.Format("2006-01-02"))
	}

	// Every run starts from a clean slate, re-running needs no re-initialize.
	runID := uuid.New().String()
	s.detector.Reset()
	s.portfolio = portfolio.NewPortfolio(s.config.PortfolioSettings(), s.logger)
	s.deferred = make(map[string]bool)

	s.logger.Info("Simulation starting",
		zap.String("run_id", runID),
		zap.Int("trading_days", len(days)),
		zap.Int("symbols", len(s.config.Symbols)),
	)

	equity := make([]types.EquityCurvePoint, 0, len(days))
	targetReached := optional.None[time.Time]()

	for i, day := range days {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		regimeCtx := s.regimeContext(day)
		params := regime.ParamsFor(regimeCtx.Regime, regimeCtx.VIX)
		snapshots := s.daySnapshots(day)
		prices := closingPrices(snapshots)

		if s.config.TrailingStopEnabled {
			s.portfolio.UpdateTrailingStops(prices)
		}

		for _, exit := range s.portfolio.CheckExits(prices) {
			s.closePosition(exit.Symbol, day, exit.Price, exit.Reason, regimeCtx.Regime)
		}

		evaluated := s.closeOnSellSignals(day, snapshots, prices, regimeCtx.Regime)
		s.openOnBuySignals(day, snapshots, prices, regimeCtx, params, evaluated)

		if i == len(days)-1 {
			s.forceCloseRemaining(day, regimeCtx.Regime)
		}

		point := types.EquityCurvePoint{
			Date:           day,
			PortfolioValue: s.portfolio.Value(prices),
			Cash:           s.portfolio.Cash(),
			OpenPositions:  s.portfolio.OpenCount(),
		}
		equity = append(equity, point)

		if s.config.TargetCapital.IsSome() && targetReached.IsNone() &&
			point.PortfolioValue >= s.config.TargetCapital.Unwrap() {
			targetReached = optional.Some(day)
			s.logger.Info("Target capital reached",
				zap.Time("date", day),
				zap.Float64("portfolio_value", point.PortfolioValue),
			)
		}

		if onDay.IsSome() {
			onDay.Unwrap()(i+1, len(days))
		}
	}

	result := s.buildResult(runID, days, equity, targetReached)

	s.logger.Info("Simulation finished",
		zap.String("run_id", runID),
		zap.Float64("final_capital", result.FinalCapital),
		zap.Float64("total_return_pct", result.TotalReturnPct),
		zap.Int("trades", result.Summary.TotalTrades),
	)

	return result, nil
}

func (s *Simulator) regimeContext(day time.Time) types.RegimeSnapshot {
	regimeCtx, err := s.regimes.Context(day)
	if err != nil {
		s.logger.Warn("Regime provider failed, assuming neutral",
			zap.Time("date", day),
			zap.Error(err),
		)

		return types.RegimeSnapshot{
			Date:      day,
			Regime:    types.RegimeNeutral,
			VIX:       regime.DefaultVIX,
			Reasoning: "regime provider unavailable",
		}
	}

	return regimeCtx
}

// daySnapshots loads the day's snapshot for every candidate symbol. Symbols
// without data that day are simply absent from the map.
func (s *Simulator) daySnapshots(day time.Time) map[string]types.IndicatorSnapshot {
	snapshots := make(map[string]types.IndicatorSnapshot, len(s.config.Symbols))

	for _, symbol := range s.config.Symbols {
		snapshot, err := s.store.GetSnapshot(symbol, day)
		if err != nil {
			if !errors.HasCode(err, errors.ErrCodeSnapshotNotFound) {
				s.logger.Warn("Snapshot lookup failed",
					zap.String("symbol", symbol),
					zap.Time("date", day),
					zap.Error(err),
				)
			}

			continue
		}

		snapshots[symbol] = snapshot
	}

	return snapshots
}

func closingPrices(snapshots map[string]types.IndicatorSnapshot) map[string]float64 {
	prices := make(map[string]float64, len(snapshots))

	for symbol, snapshot := range snapshots {
		if snapshot.Close > 0 {
			prices[symbol] = snapshot.Close
		}
	}

	return prices
}

// closeOnSellSignals evaluates every held symbol and closes those with a
// confirmed sell. Held symbols are evaluated even when they stay held, so
// their confirmation state keeps advancing; the returned set keeps the entry
// scan from evaluating the same symbol twice in one day.
func (s *Simulator) closeOnSellSignals(day time.Time, snapshots map[string]types.IndicatorSnapshot, prices map[string]float64, currentRegime types.MarketRegime) map[string]bool {
	evaluated := make(map[string]bool)

	for _, position := range s.portfolio.Positions() {
		snapshot, ok := snapshots[position.Symbol]
		if !ok {
			continue
		}

		evaluated[position.Symbol] = true

		signal := s.detector.Evaluate(snapshot)
		if signal.Action != types.SignalActionSell {
			continue
		}

		price, ok := prices[position.Symbol]
		if !ok {
			continue
		}

		s.closePosition(position.Symbol, day, price, types.CloseReasonSignalExit, currentRegime)
	}

	return evaluated
}

// openOnBuySignals scans the unheld candidates, ranks confirmed and
// deferred buys by confidence and opens them until the regime's position
// cap is hit. The regime gates are applied after evaluation so confirmation
// counters advance even on blocked days, and a buy they discard is deferred
// rather than lost.
func (s *Simulator) openOnBuySignals(day time.Time, snapshots map[string]types.IndicatorSnapshot, prices map[string]float64, regimeCtx types.RegimeSnapshot, params types.RegimeParams, evaluated map[string]bool) {
	type candidate struct {
		symbol     string
		price      float64
		confidence float64
	}

	var candidates []candidate

	for _, symbol := range s.config.Symbols {
		if evaluated[symbol] || s.portfolio.HasPosition(symbol) {
			continue
		}

		snapshot, ok := snapshots[symbol]
		if !ok {
			continue
		}

		signal := s.detector.Evaluate(snapshot)

		if signal.Trend != types.TrendBullish {
			delete(s.deferred, symbol)
		}

		buyable := signal.Action == types.SignalActionBuy ||
			(s.deferred[symbol] && signal.Trend == types.TrendBullish && !signal.BlockedByEvent)
		if !buyable {
			continue
		}

		if signal.Confidence < params.MinConfidence {
			s.deferred[symbol] = true
			s.logger.Debug("Buy signal below regime confidence floor",
				zap.String("symbol", symbol),
				zap.Float64("confidence", signal.Confidence),
				zap.Float64("floor", params.MinConfidence),
			)

			continue
		}

		if s.config.BlockHighVIXTrades && regimeCtx.VIX > s.config.MaxVIXForEntry {
			s.deferred[symbol] = true
			s.logger.Debug("Buy signal blocked by VIX ceiling",
				zap.String("symbol", symbol),
				zap.Float64("vix", regimeCtx.VIX),
				zap.Float64("ceiling", s.config.MaxVIXForEntry),
			)

			continue
		}

		if snapshot.Close <= 0 {
			continue
		}

		candidates = append(candidates, candidate{
			symbol:     symbol,
			price:      snapshot.Close,
			confidence: signal.Confidence,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].confidence != candidates[j].confidence {
			return candidates[i].confidence > candidates[j].confidence
		}

		return candidates[i].symbol < candidates[j].symbol
	})

	value := s.portfolio.Value(prices)

	for _, cand := range candidates {
		if s.portfolio.OpenCount() >= params.MaxPositions {
			s.deferred[cand.symbol] = true

			continue
		}

		order := portfolio.OpenOrder{
			Symbol:         cand.symbol,
			Date:           day,
			Price:          cand.price,
			Confidence:     cand.confidence,
			PortfolioValue: value,
			Context:        regimeCtx,
			Params:         params,
		}

		if err := s.portfolio.Open(order); err != nil {
			s.deferred[cand.symbol] = true
			s.logger.Debug("Entry rejected",
				zap.String("symbol", cand.symbol),
				zap.Error(err),
			)

			continue
		}

		delete(s.deferred, cand.symbol)
		s.logger.Info("Position opened",
			zap.String("symbol", cand.symbol),
			zap.Time("date", day),
			zap.Float64("price", cand.price),
			zap.Float64("confidence", cand.confidence),
			zap.String("regime", string(regimeCtx.Regime)),
		)
	}
}

// forceCloseRemaining closes everything still open at the end of the window
// at the last available price.
func (s *Simulator) forceCloseRemaining(day time.Time, currentRegime types.MarketRegime) {
	for _, position := range s.portfolio.Positions() {
		price := s.lastAvailablePrice(position.Symbol, day, position.EntryPrice)
		s.closePosition(position.Symbol, day, price, types.CloseReasonPeriodEnd, currentRegime)
	}
}

func (s *Simulator) lastAvailablePrice(symbol string, day time.Time, fallback float64) float64 {
	snapshots, err := s.store.PreviousSnapshots(symbol, day, 1)
	if len(snapshots) == 0 {
		if err != nil {
			s.logger.Warn("No price available for terminal close, using entry price",
				zap.String("symbol", symbol),
				zap.Error(err),
			)
		}

		return fallback
	}

	last := snapshots[len(snapshots)-1].Close
	if last <= 0 {
		return fallback
	}

	return last
}

func (s *Simulator) closePosition(symbol string, day time.Time, price float64, reason string, currentRegime types.MarketRegime) {
	trade, err := s.portfolio.Close(symbol, day, price, reason, currentRegime)
	if err != nil {
		s.logger.Error("Failed to close position",
			zap.String("symbol", symbol),
			zap.Error(err),
		)

		return
	}

	s.logger.Info("Position closed",
		zap.String("symbol", symbol),
		zap.Time("date", day),
		zap.Float64("price", price),
		zap.String("reason", reason),
		zap.Float64("pnl", trade.PnL),
	)
}
