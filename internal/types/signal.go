package types

import (
	"time"

	"github.com/ducklens-lab/trendlens/pkg/errors"
	"github.com/go-playground/validator/v10"
)

type SignalAction string

const (
	// SignalActionBuy tells the portfolio to open a long position
	SignalActionBuy SignalAction = "BUY"
	// SignalActionSell tells the portfolio to exit the symbol
	SignalActionSell SignalAction = "SELL"
	// SignalActionDontTrade tells the portfolio to do nothing for this symbol today
	SignalActionDontTrade SignalAction = "DONT_TRADE"
)

// SignalRecord is the outcome of one detector evaluation for one
// (symbol, date) pair. Records are created fresh per evaluation and never
// mutated; the reasoning string is a required output that downstream
// consumers use to audit trade rationale.
type SignalRecord struct {
	ID     string         `yaml:"id" json:"id" csv:"id"`
	Symbol string         `yaml:"symbol" json:"symbol" csv:"symbol" validate:"required"`
	Date   time.Time      `yaml:"date" json:"date" csv:"date" validate:"required"`
	Action SignalAction   `yaml:"action" json:"action" csv:"action" validate:"required,oneof=BUY SELL DONT_TRADE"`
	Trend  TrendDirection `yaml:"trend" json:"trend" csv:"trend" validate:"required,oneof=BULLISH BEARISH NEUTRAL"`
	// Confidence is the classifier's conviction in the trend, in [0,1].
	Confidence float64 `yaml:"confidence" json:"confidence" csv:"confidence" validate:"gte=0,lte=1"`
	// Reasoning enumerates the decision branch taken and the contributing
	// indicator states.
	Reasoning string `yaml:"reasoning" json:"reasoning" csv:"reasoning" validate:"required"`
	// BlockedByEvent is true when an event blackout forced DONT_TRADE.
	BlockedByEvent bool `yaml:"blocked_by_event" json:"blocked_by_event" csv:"blocked_by_event"`
}

// Validate validates the SignalRecord struct.
func (s *SignalRecord) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSignal, "invalid signal record", err)
	}

	return nil
}
