package types

import "time"

// EquityCurvePoint is one day of portfolio valuation. The simulator appends
// exactly one per simulated trading day; the sequence is never rewritten.
type EquityCurvePoint struct {
	Date           time.Time `json:"date" yaml:"date" csv:"date"`
	PortfolioValue float64   `json:"portfolio_value" yaml:"portfolio_value" csv:"portfolio_value"`
	Cash           float64   `json:"cash" yaml:"cash" csv:"cash"`
	OpenPositions  int       `json:"open_positions" yaml:"open_positions" csv:"open_positions"`
}
