package types

import "time"

// DailyBar is one raw daily OHLCV aggregate as delivered by a market data
// provider, before any indicator enrichment.
type DailyBar struct {
	Symbol string    `json:"symbol" yaml:"symbol" csv:"symbol"`
	Date   time.Time `json:"date" yaml:"date" csv:"date"`
	Open   float64   `json:"open" yaml:"open" csv:"open"`
	High   float64   `json:"high" yaml:"high" csv:"high"`
	Low    float64   `json:"low" yaml:"low" csv:"low"`
	Close  float64   `json:"close" yaml:"close" csv:"close"`
	Volume float64   `json:"volume" yaml:"volume" csv:"volume"`
}
