// Package regime classifies broad market conditions (bull, bear, volatile,
// neutral) from an index price versus its 200-day SMA and the VIX level, and
// maps each regime to the risk limits applied while it is active.
package regime

import (
	"fmt"
	"time"

	"github.com/ducklens-lab/trendlens/internal/datastore"
	"github.com/ducklens-lab/trendlens/internal/logger"
	"github.com/ducklens-lab/trendlens/internal/types"
	"go.uber.org/zap"
)

// DefaultVIX is the volatility level assumed when no VIX data is available.
const DefaultVIX = 20.0

// Provider supplies the market context for a trading day.
type Provider interface {
	// Context returns the regime snapshot for the given date. Providers
	// degrade to a conservative neutral context when data is unavailable
	// rather than failing the run.
	Context(date time.Time) (types.RegimeSnapshot, error)
}

// RuleBasedProvider classifies the regime from stored index and VIX
// snapshots:
//
//	VIX > 25            VOLATILE, or BEAR when the index is under its 200 SMA
//	index > 200 SMA and VIX < 20   BULL
//	index < 200 SMA and VIX > 30   BEAR
//	anything else       NEUTRAL
//
// Both lookups use the most recent snapshot at or before the requested date.
// A missing index snapshot (or missing 200 SMA) degrades to NEUTRAL with
// DefaultVIX; a missing VIX snapshot alone only substitutes DefaultVIX.
type RuleBasedProvider struct {
	store       datastore.SnapshotStore
	indexSymbol string
	vixSymbol   string
	logger      *logger.Logger
}

// NewRuleBasedProvider creates a provider reading from the given store.
// indexSymbol is typically SPY and vixSymbol VIX.
func NewRuleBasedProvider(store datastore.SnapshotStore, indexSymbol string, vixSymbol string, logger *logger.Logger) *RuleBasedProvider {
	return &RuleBasedProvider{
		store:       store,
		indexSymbol: indexSymbol,
		vixSymbol:   vixSymbol,
		logger:      logger,
	}
}

// Context implements Provider.
func (p *RuleBasedProvider) Context(date time.Time) (types.RegimeSnapshot, error) {
	index, ok := p.latestSnapshot(p.indexSymbol, date)
	if !ok || index.SMA200.IsNone() || index.SMA200.Unwrap() <= 0 {
		p.logger.Debug("No usable index data for regime classification",
			zap.String("symbol", p.indexSymbol),
			zap.Time("date", date))

		return defaultContext(date), nil
	}

	vix := DefaultVIX
	if vixSnapshot, ok := p.latestSnapshot(p.vixSymbol, date); ok {
		vix = vixSnapshot.Close
	}

	regime, reasoning := classify(index.Close, index.SMA200.Unwrap(), vix)

	return types.RegimeSnapshot{
		Date:      date,
		Regime:    regime,
		VIX:       vix,
		Reasoning: reasoning,
	}, nil
}

// latestSnapshot returns the most recent snapshot at or before date.
func (p *RuleBasedProvider) latestSnapshot(symbol string, date time.Time) (types.IndicatorSnapshot, bool) {
	snapshots, err := p.store.PreviousSnapshots(symbol, date, 1)
	if len(snapshots) == 0 {
		if err != nil {
			p.logger.Debug("Snapshot lookup failed",
				zap.String("symbol", symbol),
				zap.Error(err))
		}

		return types.IndicatorSnapshot{}, false
	}

	return snapshots[0], true
}

func classify(indexClose float64, sma200 float64, vix float64) (types.MarketRegime, string) {
	above200 := indexClose > sma200
	pctFrom200 := ((indexClose - sma200) / sma200) * 100

	switch {
	case vix > 25:
		if above200 {
			return types.RegimeVolatile, fmt.Sprintf(
				"VOLATILE market: High VIX (%.1f), index %+.1f%% from 200 SMA", vix, pctFrom200)
		}

		return types.RegimeBear, fmt.Sprintf(
			"BEAR market: index below 200 SMA (%.1f%%), High VIX (%.1f)", pctFrom200, vix)
	case above200 && vix < 20:
		return types.RegimeBull, fmt.Sprintf(
			"BULL market: index %+.1f%% above 200 SMA, Low VIX (%.1f)", pctFrom200, vix)
	case !above200 && vix > 30:
		return types.RegimeBear, fmt.Sprintf(
			"BEAR market: index %.1f%% below 200 SMA, Elevated VIX (%.1f)", pctFrom200, vix)
	default:
		return types.RegimeNeutral, fmt.Sprintf(
			"NEUTRAL market: index %+.1f%% from 200 SMA, VIX %.1f", pctFrom200, vix)
	}
}

func defaultContext(date time.Time) types.RegimeSnapshot {
	return types.RegimeSnapshot{
		Date:      date,
		Regime:    types.RegimeNeutral,
		VIX:       DefaultVIX,
		Reasoning: "Unable to determine regime - using conservative defaults",
	}
}

// StaticProvider returns a fixed regime for every date. Used in tests and as
// a conservative fallback when no index data is loaded.
type StaticProvider struct {
	regime types.MarketRegime
	vix    float64
}

// NewStaticProvider creates a provider that always reports the given regime
// and VIX level.
func NewStaticProvider(regime types.MarketRegime, vix float64) *StaticProvider {
	return &StaticProvider{regime: regime, vix: vix}
}

// Context implements Provider.
func (p *StaticProvider) Context(date time.Time) (types.RegimeSnapshot, error) {
	return types.RegimeSnapshot{
		Date:      date,
		Regime:    p.regime,
		VIX:       p.vix,
		Reasoning: fmt.Sprintf("Static %s regime", p.regime),
	}, nil
}
