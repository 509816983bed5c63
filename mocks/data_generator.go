package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/moznion/go-optional"

	"github.com/ducklens-lab/trendlens/internal/types"
)

// DataGenerator generates realistic daily indicator snapshots for testing
// and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how snapshot data is generated.
type GeneratorConfig struct {
	// Symbol is the trading symbol (e.g., "AAPL", "SPY")
	Symbol string
	// StartDate is the first trading day; weekend dates roll forward to Monday
	StartDate time.Time
	// Count is the number of trading days to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.02 = 2% typical daily volatility)
	Volatility float64
	// Trend is the total drift across the series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per day
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartDate:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Count:          252, // one trading year
		InitialPrice:   100.0,
		Volatility:     0.02, // 2% per day
		Trend:          0.0,  // neutral
		VolumeBase:     1000000,
		VolumeVariance: 0.3,
	}
}

// Generate creates a slice of IndicatorSnapshot based on the configuration.
// Prices follow a geometric Brownian motion model, and indicator fields are
// computed from the generated series, becoming present once their rolling
// windows have enough history, the same way the snapshot pipeline fills them.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.IndicatorSnapshot {
	data := make([]types.IndicatorSnapshot, 0, config.Count)
	state := newIndicatorState()

	currentPrice := config.InitialPrice
	currentDate := nextTradingDay(config.StartDate)

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Using Box-Muller transform for normal distribution
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		// Price change with trend and volatility
		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count) // Distribute trend across days

		close := open * (1 + priceChange + drift)
		if close <= 0 {
			close = open * 0.99 // Prevent negative prices
		}

		// High and low are within the open-close range plus some extension
		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		// Volume with variance
		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		snapshot := types.IndicatorSnapshot{
			Symbol: config.Symbol,
			Date:   currentDate,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(close, 4),
			Volume: roundToDecimals(volume, 2),
		}
		state.observe(&snapshot)
		data = append(data, snapshot)

		// Update for next iteration
		currentPrice = close
		currentDate = nextTradingDay(currentDate.AddDate(0, 0, 1))
	}

	return data
}

// GenerateMultiSymbol generates data for multiple symbols over the same
// trading days.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) []types.IndicatorSnapshot {
	var allData []types.IndicatorSnapshot

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		// Vary initial price and volatility slightly per symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		symbolData := g.Generate(config)
		allData = append(allData, symbolData...)
	}

	return allData
}

// GenerateYear is a convenience function to generate one trading year of
// daily snapshots with default settings for benchmarking.
func GenerateYear(symbol string) []types.IndicatorSnapshot {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Symbol = symbol

	return gen.Generate(config)
}

// indicatorState tracks the rolling windows behind the optional indicator
// fields.
type indicatorState struct {
	days    int
	closes  []float64
	volumes []float64

	ema12 float64
	ema26 float64
	ema9  float64

	avgGain float64
	avgLoss float64

	atr       float64
	prevClose float64
}

func newIndicatorState() *indicatorState {
	return &indicatorState{}
}

// observe folds one day into the rolling state and fills the indicator
// fields whose windows are complete.
func (s *indicatorState) observe(snapshot *types.IndicatorSnapshot) {
	s.days++
	s.closes = append(s.closes, snapshot.Close)
	s.volumes = append(s.volumes, snapshot.Volume)

	if sma, ok := s.sma(20); ok {
		snapshot.SMA20 = optional.Some(roundToDecimals(sma, 4))
	}
	if sma, ok := s.sma(50); ok {
		snapshot.SMA50 = optional.Some(roundToDecimals(sma, 4))
	}
	if sma, ok := s.sma(200); ok {
		snapshot.SMA200 = optional.Some(roundToDecimals(sma, 4))
	}

	s.observeMACD(snapshot)
	s.observeRSI(snapshot)
	s.observeATR(snapshot)
	s.observeVolume(snapshot)

	s.prevClose = snapshot.Close
}

func (s *indicatorState) sma(window int) (float64, bool) {
	if len(s.closes) < window {
		return 0, false
	}

	sum := 0.0
	for _, c := range s.closes[len(s.closes)-window:] {
		sum += c
	}

	return sum / float64(window), true
}

// observeMACD maintains 12 and 26 day EMAs plus the 9 day signal line.
// MACD becomes present once the slow EMA window is filled.
func (s *indicatorState) observeMACD(snapshot *types.IndicatorSnapshot) {
	const (
		k12 = 2.0 / 13.0
		k26 = 2.0 / 27.0
		k9  = 2.0 / 10.0
	)

	if s.days == 1 {
		s.ema12 = snapshot.Close
		s.ema26 = snapshot.Close
	} else {
		s.ema12 = snapshot.Close*k12 + s.ema12*(1-k12)
		s.ema26 = snapshot.Close*k26 + s.ema26*(1-k26)
	}

	macd := s.ema12 - s.ema26
	if s.days == 1 {
		s.ema9 = macd
	} else {
		s.ema9 = macd*k9 + s.ema9*(1-k9)
	}

	if s.days >= 26 {
		snapshot.MACD = optional.Some(roundToDecimals(macd, 4))
		snapshot.MACDSignal = optional.Some(roundToDecimals(s.ema9, 4))
	}
}

// observeRSI applies Wilder smoothing over 14 day gains and losses.
func (s *indicatorState) observeRSI(snapshot *types.IndicatorSnapshot) {
	const period = 14

	if s.days == 1 {
		return
	}

	change := snapshot.Close - s.prevClose
	gain, loss := 0.0, 0.0
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}

	if s.days <= period+1 {
		// Simple averages over the seed window
		s.avgGain += gain / period
		s.avgLoss += loss / period
	} else {
		s.avgGain = (s.avgGain*(period-1) + gain) / period
		s.avgLoss = (s.avgLoss*(period-1) + loss) / period
	}

	if s.days >= period+1 {
		rsi := 100.0
		if s.avgLoss > 0 {
			rs := s.avgGain / s.avgLoss
			rsi = 100 - 100/(1+rs)
		}

		snapshot.RSI14 = optional.Some(roundToDecimals(rsi, 4))
	}
}

// observeATR tracks a Wilder-smoothed 14 day average true range.
func (s *indicatorState) observeATR(snapshot *types.IndicatorSnapshot) {
	const period = 14

	tr := snapshot.High - snapshot.Low
	if s.days > 1 {
		tr = math.Max(tr, math.Max(math.Abs(snapshot.High-s.prevClose), math.Abs(snapshot.Low-s.prevClose)))
	}

	switch {
	case s.days == 1:
		s.atr = tr
	case s.days <= period:
		s.atr = (s.atr*float64(s.days-1) + tr) / float64(s.days)
	default:
		s.atr = (s.atr*(period-1) + tr) / period
	}

	if s.days >= period {
		snapshot.ATR14 = optional.Some(roundToDecimals(s.atr, 4))
	}
}

func (s *indicatorState) observeVolume(snapshot *types.IndicatorSnapshot) {
	const window = 20

	if len(s.volumes) < window {
		return
	}

	sum := 0.0
	for _, v := range s.volumes[len(s.volumes)-window:] {
		sum += v
	}

	snapshot.AvgVolume20 = optional.Some(roundToDecimals(sum/window, 2))
}

// nextTradingDay returns date if it falls on a weekday, otherwise the
// following Monday.
func nextTradingDay(date time.Time) time.Time {
	for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		date = date.AddDate(0, 0, 1)
	}

	return date
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
