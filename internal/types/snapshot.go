package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// IndicatorSnapshot is one day of precomputed price and indicator data for a
// symbol. Snapshots are produced upstream and consumed read-only; indicator
// fields are optional because early rows of a series lack enough history for
// the longer windows.
type IndicatorSnapshot struct {
	Symbol string    `json:"symbol" yaml:"symbol" csv:"symbol"`
	Date   time.Time `json:"date" yaml:"date" csv:"date"`
	Open   float64   `json:"open" yaml:"open" csv:"open"`
	High   float64   `json:"high" yaml:"high" csv:"high"`
	Low    float64   `json:"low" yaml:"low" csv:"low"`
	Close  float64   `json:"close" yaml:"close" csv:"close"`
	Volume float64   `json:"volume" yaml:"volume" csv:"volume"`

	SMA20       optional.Option[float64] `json:"sma_20" yaml:"sma_20" csv:"sma_20"`
	SMA50       optional.Option[float64] `json:"sma_50" yaml:"sma_50" csv:"sma_50"`
	SMA200      optional.Option[float64] `json:"sma_200" yaml:"sma_200" csv:"sma_200"`
	MACD        optional.Option[float64] `json:"macd" yaml:"macd" csv:"macd"`
	MACDSignal  optional.Option[float64] `json:"macd_signal" yaml:"macd_signal" csv:"macd_signal"`
	RSI14       optional.Option[float64] `json:"rsi_14" yaml:"rsi_14" csv:"rsi_14"`
	ATR14       optional.Option[float64] `json:"atr_14" yaml:"atr_14" csv:"atr_14"`
	AvgVolume20 optional.Option[float64] `json:"avg_volume_20" yaml:"avg_volume_20" csv:"avg_volume_20"`
	// Flow is the external options-flow tag for the day, when the feed had one.
	Flow optional.Option[FlowTag] `json:"flow" yaml:"flow" csv:"flow"`
}

// TrendStrength returns the ATR-derived trend strength proxy on a 0-100
// scale: min(100, ATR/close * 100 * 20). A missing ATR or non-positive close
// yields 0.
func (s *IndicatorSnapshot) TrendStrength() float64 {
	if s.ATR14.IsNone() || s.Close <= 0 {
		return 0
	}

	strength := s.ATR14.Unwrap() / s.Close * 100 * 20
	if strength > 100 {
		return 100
	}

	return strength
}

// VolumeRatio returns today's volume relative to the 20-day average.
// Missing or zero average volume yields 0 rather than dividing by zero.
func (s *IndicatorSnapshot) VolumeRatio() float64 {
	if s.AvgVolume20.IsNone() {
		return 0
	}

	avg := s.AvgVolume20.Unwrap()
	if avg <= 0 {
		return 0
	}

	return s.Volume / avg
}

// HasSMAChain reports whether all three moving averages are present, the
// precondition for the alignment vote.
func (s *IndicatorSnapshot) HasSMAChain() bool {
	return s.SMA20.IsSome() && s.SMA50.IsSome() && s.SMA200.IsSome()
}
