package mocks

import (
	"testing"
	"time"
)

func TestDataGenerator_Generate(t *testing.T) {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Count = 100

	data := gen.Generate(config)

	if len(data) != 100 {
		t.Errorf("expected 100 snapshots, got %d", len(data))
	}

	// Verify snapshots land on weekdays in chronological order
	for i, d := range data {
		if wd := d.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("snapshot at index %d falls on a weekend: %v", i, d.Date)
		}

		if i > 0 && !d.Date.After(data[i-1].Date) {
			t.Errorf("snapshots not in chronological order at index %d", i)
		}
	}

	// Verify symbol is set correctly
	for i, d := range data {
		if d.Symbol != config.Symbol {
			t.Errorf("expected symbol %s at index %d, got %s", config.Symbol, i, d.Symbol)
		}
	}

	// Verify OHLC values are positive and consistent
	for i, d := range data {
		if d.Open <= 0 || d.High <= 0 || d.Low <= 0 || d.Close <= 0 {
			t.Errorf("invalid OHLC values at index %d: O=%f H=%f L=%f C=%f",
				i, d.Open, d.High, d.Low, d.Close)
		}

		if d.High < d.Open || d.High < d.Close || d.Low > d.Open || d.Low > d.Close {
			t.Errorf("OHLC out of range at index %d: O=%f H=%f L=%f C=%f",
				i, d.Open, d.High, d.Low, d.Close)
		}
	}
}

func TestDataGenerator_IndicatorWindows(t *testing.T) {
	data := GenerateYear("TEST")

	if len(data) != 252 {
		t.Fatalf("expected 252 snapshots, got %d", len(data))
	}

	windows := []struct {
		name      string
		lastNone  int
		firstSome int
		isSome    func(i int) bool
	}{
		{"SMA20", 18, 19, func(i int) bool { return data[i].SMA20.IsSome() }},
		{"SMA50", 48, 49, func(i int) bool { return data[i].SMA50.IsSome() }},
		{"SMA200", 198, 199, func(i int) bool { return data[i].SMA200.IsSome() }},
		{"MACD", 24, 25, func(i int) bool { return data[i].MACD.IsSome() }},
		{"MACDSignal", 24, 25, func(i int) bool { return data[i].MACDSignal.IsSome() }},
		{"RSI14", 13, 14, func(i int) bool { return data[i].RSI14.IsSome() }},
		{"ATR14", 12, 13, func(i int) bool { return data[i].ATR14.IsSome() }},
		{"AvgVolume20", 18, 19, func(i int) bool { return data[i].AvgVolume20.IsSome() }},
	}

	for _, w := range windows {
		if w.isSome(w.lastNone) {
			t.Errorf("%s present at index %d before its window is full", w.name, w.lastNone)
		}

		if !w.isSome(w.firstSome) {
			t.Errorf("%s missing at index %d", w.name, w.firstSome)
		}

		if !w.isSome(len(data) - 1) {
			t.Errorf("%s missing at the last index", w.name)
		}
	}

	// Flow is never synthesized
	for i, d := range data {
		if d.Flow.IsSome() {
			t.Errorf("unexpected flow tag at index %d", i)
		}
	}
}

func TestDataGenerator_RSIBounds(t *testing.T) {
	data := GenerateYear("TEST")

	for i, d := range data {
		if d.RSI14.IsNone() {
			continue
		}

		rsi := d.RSI14.TakeOr(-1)
		if rsi < 0 || rsi > 100 {
			t.Errorf("RSI out of bounds at index %d: %f", i, rsi)
		}
	}
}

func TestDataGenerator_Reproducibility(t *testing.T) {
	// Same seed should produce same results
	gen1 := NewDataGenerator(42)
	gen2 := NewDataGenerator(42)

	config := DefaultConfig()
	config.Count = 30

	data1 := gen1.Generate(config)
	data2 := gen2.Generate(config)

	for i := range data1 {
		if data1[i].Close != data2[i].Close {
			t.Errorf("data not reproducible at index %d: got %f and %f",
				i, data1[i].Close, data2[i].Close)
		}

		if data1[i].RSI14.TakeOr(-1) != data2[i].RSI14.TakeOr(-1) {
			t.Errorf("RSI not reproducible at index %d", i)
		}
	}
}

func TestDataGenerator_Different_Seeds(t *testing.T) {
	gen1 := NewDataGenerator(42)
	gen2 := NewDataGenerator(123)

	config := DefaultConfig()
	config.Count = 10

	data1 := gen1.Generate(config)
	data2 := gen2.Generate(config)

	// Different seeds should produce different results
	sameCount := 0
	for i := range data1 {
		if data1[i].Close == data2[i].Close {
			sameCount++
		}
	}

	if sameCount == len(data1) {
		t.Error("different seeds produced identical data")
	}
}

func TestGenerateYear(t *testing.T) {
	data := GenerateYear("TEST")

	if len(data) != 252 {
		t.Errorf("expected 252 snapshots, got %d", len(data))
	}

	if data[0].Symbol != "TEST" {
		t.Errorf("expected symbol TEST, got %s", data[0].Symbol)
	}

	if !data[0].Date.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected first trading day 2024-01-02, got %v", data[0].Date)
	}
}

func TestGenerateMultiSymbol(t *testing.T) {
	symbols := []string{"AAPL", "GOOG", "MSFT"}
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Count = 100

	data := gen.GenerateMultiSymbol(symbols, config)

	expectedTotal := len(symbols) * config.Count
	if len(data) != expectedTotal {
		t.Fatalf("expected %d snapshots, got %d", expectedTotal, len(data))
	}

	// Verify each symbol has data
	symbolCounts := make(map[string]int)
	for _, d := range data {
		symbolCounts[d.Symbol]++
	}

	for _, symbol := range symbols {
		if symbolCounts[symbol] != config.Count {
			t.Errorf("expected %d snapshots for %s, got %d",
				config.Count, symbol, symbolCounts[symbol])
		}
	}

	// Symbols share the same trading days
	for i := 0; i < config.Count; i++ {
		first := data[i].Date
		for s := 1; s < len(symbols); s++ {
			if !data[s*config.Count+i].Date.Equal(first) {
				t.Errorf("trading days diverge at index %d for symbol %s", i, symbols[s])
			}
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Count != 252 {
		t.Errorf("expected default count 252, got %d", config.Count)
	}

	if config.Symbol != "TEST" {
		t.Errorf("expected default symbol TEST, got %s", config.Symbol)
	}

	if wd := config.StartDate.Weekday(); wd == time.Saturday || wd == time.Sunday {
		t.Errorf("expected default start on a weekday, got %v", wd)
	}

	if config.InitialPrice != 100.0 {
		t.Errorf("expected default initial price 100.0, got %f", config.InitialPrice)
	}
}
