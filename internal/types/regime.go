package types

import "time"

// MarketRegime is the broad market-condition tag used to scale permitted
// leverage and position sizing.
type MarketRegime string

const (
	RegimeBull     MarketRegime = "BULL"
	RegimeBear     MarketRegime = "BEAR"
	RegimeNeutral  MarketRegime = "NEUTRAL"
	RegimeVolatile MarketRegime = "VOLATILE"
)

// RegimeSnapshot is the market context for one day: the classified regime and
// the VIX level it was derived from. Reasoning explains the classification
// for reports and logs.
type RegimeSnapshot struct {
	Date      time.Time    `json:"date" yaml:"date"`
	Regime    MarketRegime `json:"regime" yaml:"regime"`
	VIX       float64      `json:"vix" yaml:"vix"`
	Reasoning string       `json:"reasoning" yaml:"reasoning"`
}

// RegimeParams are the risk limits applied while a regime is active.
type RegimeParams struct {
	// MinConfidence is the floor a signal must clear before a position opens.
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`
	// MaxLeverage applies when confidence is high enough; MinLeverage otherwise.
	MaxLeverage float64 `json:"max_leverage" yaml:"max_leverage"`
	MinLeverage float64 `json:"min_leverage" yaml:"min_leverage"`
	// StopLossPct and TakeProfitPct set exit levels relative to the entry price.
	StopLossPct   float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	TakeProfitPct float64 `json:"take_profit_pct" yaml:"take_profit_pct"`
	// MaxPositions caps concurrent open positions while the regime holds.
	MaxPositions int `json:"max_positions" yaml:"max_positions"`
	// PositionScale multiplies the size fraction; below 1.0 in bear and
	// volatile regimes.
	PositionScale float64 `json:"position_scale" yaml:"position_scale"`
}
