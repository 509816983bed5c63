package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// Position represents one open long holding. At most one position exists per
// symbol at a time. HighestPrice and TrailingStop are the only mutable
// fields; both ratchet upward as prices move and never decrease.
type Position struct {
	Symbol     string    `json:"symbol" yaml:"symbol" csv:"symbol"`
	EntryDate  time.Time `json:"entry_date" yaml:"entry_date" csv:"entry_date"`
	EntryPrice float64   `json:"entry_price" yaml:"entry_price" csv:"entry_price"`
	Quantity   float64   `json:"quantity" yaml:"quantity" csv:"quantity"`
	StopLoss   float64   `json:"stop_loss" yaml:"stop_loss" csv:"stop_loss"`
	TakeProfit float64   `json:"take_profit" yaml:"take_profit" csv:"take_profit"`
	// TrailingStop is unset until the position has gained enough to arm it.
	TrailingStop optional.Option[float64] `json:"trailing_stop" yaml:"trailing_stop" csv:"trailing_stop"`
	Confidence   float64                  `json:"confidence" yaml:"confidence" csv:"confidence"`
	LeverageUsed float64                  `json:"leverage_used" yaml:"leverage_used" csv:"leverage_used"`
	// HighestPrice is the peak close seen since entry, the trailing stop anchor.
	HighestPrice float64 `json:"highest_price" yaml:"highest_price" csv:"highest_price"`
}

// MarketValue returns quantity times the given price.
func (p *Position) MarketValue(price float64) float64 {
	return p.Quantity * price
}

// UnrealizedPnL returns the open profit or loss against the entry price.
func (p *Position) UnrealizedPnL(price float64) float64 {
	priceDec := decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(p.EntryPrice))
	result, _ := priceDec.Mul(decimal.NewFromFloat(p.Quantity)).Float64()

	return result
}

// GainPct returns the unrealized gain as a fraction of the entry price.
// A zero entry price yields 0.
func (p *Position) GainPct(price float64) float64 {
	if p.EntryPrice == 0 {
		return 0
	}

	return (price - p.EntryPrice) / p.EntryPrice
}
