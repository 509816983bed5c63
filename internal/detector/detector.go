package detector

import (
	"fmt"
	"strings"

	"github.com/ducklens-lab/trendlens/internal/calendar"
	"github.com/ducklens-lab/trendlens/internal/logger"
	"github.com/ducklens-lab/trendlens/internal/types"
	"github.com/ducklens-lab/trendlens/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds the emission thresholds for a TrendDetector.
type Config struct {
	// MinConfidence is the classifier confidence below which no trade signal
	// is emitted.
	MinConfidence float64 `yaml:"min_confidence" json:"min_confidence" jsonschema:"title=Minimum Confidence,description=Classifier confidence required before a signal can be emitted" validate:"gte=0,lte=1"`
	// MinTrendStrength gates on the ATR-derived trend strength (0-100 scale).
	MinTrendStrength float64 `yaml:"min_trend_strength" json:"min_trend_strength" jsonschema:"title=Minimum Trend Strength,description=ATR-derived trend strength required before a signal can be emitted" validate:"gte=0,lte=100"`
	// ConfirmationDays is how many consecutive days a new trend must hold
	// before it is acted on.
	ConfirmationDays int `yaml:"confirmation_days" json:"confirmation_days" jsonschema:"title=Confirmation Days,description=Consecutive days a new trend must hold before it is traded" validate:"gte=1"`
	// BlackoutDays extends the no-trade window around high-impact events in
	// both directions.
	BlackoutDays int `yaml:"blackout_days" json:"blackout_days" jsonschema:"title=Blackout Days,description=Calendar days around a high-impact event during which no signal is emitted" validate:"gte=0"`
	// Policy selects bearish handling: long_only or symmetric.
	Policy string `yaml:"policy" json:"policy" jsonschema:"title=Decision Policy,description=Bearish handling policy,enum=long_only,enum=symmetric" validate:"oneof=long_only symmetric"`
}

// DefaultConfig returns the thresholds used when a config file leaves them
// unset.
func DefaultConfig() Config {
	return Config{
		MinConfidence:    0.6,
		MinTrendStrength: 25.0,
		ConfirmationDays: 2,
		BlackoutDays:     2,
		Policy:           PolicyLongOnly,
	}
}

// Validate checks the config, failing fast before any evaluation runs.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid detector config", err)
	}

	return nil
}

// TrendDetector evaluates snapshots into signals. Each detector owns its own
// confirmation state; independent runs never share trackers.
type TrendDetector struct {
	config   Config
	policy   DecisionPolicy
	tracker  *ConfirmationTracker
	calendar calendar.EventCalendar
	logger   *logger.Logger
}

// NewTrendDetector builds a detector for the given config and event
// calendar. The config is validated and the decision policy resolved here,
// so a misconfigured detector never evaluates anything.
func NewTrendDetector(config Config, cal calendar.EventCalendar, logger *logger.Logger) (*TrendDetector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	policy, err := PolicyFromName(config.Policy)
	if err != nil {
		return nil, err
	}

	return &TrendDetector{
		config:   config,
		policy:   policy,
		tracker:  NewConfirmationTracker(),
		calendar: cal,
		logger:   logger,
	}, nil
}

// Policy returns the active decision policy.
func (d *TrendDetector) Policy() DecisionPolicy {
	return d.policy
}

// Tracker exposes the confirmation state for reporting.
func (d *TrendDetector) Tracker() *ConfirmationTracker {
	return d.tracker
}

// Reset clears the confirmation state, typically between runs.
func (d *TrendDetector) Reset() {
	d.tracker.Reset()
}

// Evaluate classifies one snapshot, advances the symbol's confirmation state
// and emits the day's signal. The confirmation state updates on every call,
// including days where the blackout or a threshold blocks emission, so a
// blocked confirmation day delays the signal to the next clear day rather
// than losing it. A trend change is compared against the last accepted
// trend; acceptance happens when the change is acted on (BUY or SELL) or,
// for NEUTRAL, once it has held for the confirmation window.
func (d *TrendDetector) Evaluate(snapshot types.IndicatorSnapshot) types.SignalRecord {
	classification := Classify(snapshot)
	counter, _ := d.tracker.Observe(snapshot.Symbol, classification.Trend)
	previous := d.tracker.Accepted(snapshot.Symbol)
	strength := snapshot.TrendStrength()

	blocked := false

	var blockedReason string

	if events := d.calendar.EventsNear(snapshot.Symbol, snapshot.Date, d.config.BlackoutDays); len(events) > 0 {
		blocked = true
		blockedReason = fmt.Sprintf("High-impact event: %s", events[0].Name)
	}

	action := types.SignalActionDontTrade

	var lines []string

	switch {
	case blocked:
		lines = append(lines,
			fmt.Sprintf("[BLOCKED] %s", blockedReason),
			"Risk management: Avoid trading around high-impact events")
	case classification.Confidence < d.config.MinConfidence:
		lines = append(lines,
			fmt.Sprintf("[LOW CONFIDENCE] Trend confidence %.1f%% < %.1f%%",
				classification.Confidence*100, d.config.MinConfidence*100),
			"Mixed signals - waiting for clearer direction")
	case strength < d.config.MinTrendStrength:
		lines = append(lines,
			fmt.Sprintf("[WEAK TREND] Trend strength %.1f < %.1f", strength, d.config.MinTrendStrength),
			"Trend not strong enough to trade")
	case classification.Trend == types.TrendNeutral:
		lines = append(lines,
			"[NEUTRAL TREND] Market direction unclear",
			"Waiting for trend to establish")
	case classification.Trend == types.TrendBullish && previous != types.TrendBullish:
		if counter >= d.config.ConfirmationDays {
			action = types.SignalActionBuy
			d.tracker.Accept(snapshot.Symbol, types.TrendBullish)
			lines = append(lines,
				fmt.Sprintf("[TREND CHANGE CONFIRMED] %s -> BULLISH", previous),
				fmt.Sprintf("Confirmed for %d days", counter),
				fmt.Sprintf("Confidence: %.1f%% | Trend strength: %.1f", classification.Confidence*100, strength))
		} else {
			lines = append(lines,
				fmt.Sprintf("[TREND CHANGE PENDING] %s -> BULLISH", previous),
				fmt.Sprintf("Waiting for confirmation: %d/%d days", counter, d.config.ConfirmationDays))
		}
	case classification.Trend == types.TrendBearish && previous != types.TrendBearish:
		var policyLines []string

		action, policyLines = d.policy.EvaluateBearish(BearishTurn{
			Snapshot:   snapshot,
			Previous:   previous,
			Counter:    counter,
			Required:   d.config.ConfirmationDays,
			Confidence: classification.Confidence,
			Strength:   strength,
		})
		if action == types.SignalActionSell {
			d.tracker.Accept(snapshot.Symbol, types.TrendBearish)
		}

		lines = append(lines, policyLines...)
	default:
		lines = append(lines,
			fmt.Sprintf("[TREND CONTINUES] Still %s", classification.Trend),
			"No change - holding current position")
	}

	if classification.Trend == types.TrendNeutral && counter >= d.config.ConfirmationDays {
		d.tracker.Accept(snapshot.Symbol, types.TrendNeutral)
	}

	lines = append(lines, detailLines(snapshot, classification)...)

	signal := types.SignalRecord{
		ID:             uuid.New().String(),
		Symbol:         snapshot.Symbol,
		Date:           snapshot.Date,
		Action:         action,
		Trend:          classification.Trend,
		Confidence:     classification.Confidence,
		Reasoning:      strings.Join(lines, "\n"),
		BlockedByEvent: blocked,
	}

	if action != types.SignalActionDontTrade {
		d.logger.Debug("Emitting trade signal",
			zap.String("symbol", signal.Symbol),
			zap.String("action", string(signal.Action)),
			zap.Float64("confidence", signal.Confidence))
	}

	return signal
}

// detailLines renders the indicator block appended to every reasoning
// string. Downstream consumers audit trade rationale from it.
func detailLines(snapshot types.IndicatorSnapshot, c Classification) []string {
	lines := []string{"\n[INDICATORS]"}

	switch {
	case c.SMAAligned.IsSome() && c.SMAAligned.Unwrap():
		lines = append(lines, "  SMA: Bullish (20>50>200)")
	case c.SMAAligned.IsSome():
		lines = append(lines, "  SMA: Bearish (20<50<200)")
	default:
		lines = append(lines, "  SMA: Mixed")
	}

	if snapshot.MACD.IsSome() && snapshot.MACDSignal.IsSome() {
		macd := snapshot.MACD.Unwrap()
		macdSignal := snapshot.MACDSignal.Unwrap()

		if c.MACDBullish.IsSome() && c.MACDBullish.Unwrap() {
			lines = append(lines, fmt.Sprintf("  MACD: Bullish (%.2f > %.2f)", macd, macdSignal))
		} else {
			lines = append(lines, fmt.Sprintf("  MACD: Bearish (%.2f < %.2f)", macd, macdSignal))
		}
	} else {
		lines = append(lines, "  MACD: No data")
	}

	if snapshot.RSI14.IsSome() {
		rsi := snapshot.RSI14.Unwrap()

		if c.RSIHealthy.IsSome() && c.RSIHealthy.Unwrap() {
			lines = append(lines, fmt.Sprintf("  RSI: Healthy (%.1f)", rsi))
		} else {
			lines = append(lines, fmt.Sprintf("  RSI: Unhealthy (%.1f)", rsi))
		}
	} else {
		lines = append(lines, "  RSI: No data")
	}

	if snapshot.Flow.IsSome() {
		lines = append(lines, fmt.Sprintf("  Flow: %s", snapshot.Flow.Unwrap()))
	}

	if c.VolumeNote != "" {
		lines = append(lines, "  "+c.VolumeNote)
	}

	lines = append(lines, fmt.Sprintf("\n[PRICE] $%.2f", snapshot.Close))

	return lines
}
