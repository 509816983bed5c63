package regime

import "github.com/ducklens-lab/trendlens/internal/types"

// ParamsFor returns the risk limits for a regime. Volatile markets tighten
// further once VIX passes 35, falling back to bear-market limits.
func ParamsFor(regime types.MarketRegime, vix float64) types.RegimeParams {
	switch regime {
	case types.RegimeBull:
		return types.RegimeParams{
			MinConfidence: 0.70,
			MaxLeverage:   2.0,
			MinLeverage:   1.0,
			StopLossPct:   0.05,
			TakeProfitPct: 0.15,
			MaxPositions:  10,
			PositionScale: 1.0,
		}
	case types.RegimeBear:
		return types.RegimeParams{
			MinConfidence: 0.85,
			MaxLeverage:   1.0,
			MinLeverage:   1.0,
			StopLossPct:   0.03,
			TakeProfitPct: 0.08,
			MaxPositions:  3,
			PositionScale: 0.5,
		}
	case types.RegimeVolatile:
		if vix > 35 {
			return types.RegimeParams{
				MinConfidence: 0.85,
				MaxLeverage:   1.0,
				MinLeverage:   1.0,
				StopLossPct:   0.03,
				TakeProfitPct: 0.08,
				MaxPositions:  3,
				PositionScale: 0.5,
			}
		}

		return types.RegimeParams{
			MinConfidence: 0.80,
			MaxLeverage:   1.5,
			MinLeverage:   1.0,
			StopLossPct:   0.04,
			TakeProfitPct: 0.10,
			MaxPositions:  5,
			PositionScale: 0.7,
		}
	default:
		return types.RegimeParams{
			MinConfidence: 0.75,
			MaxLeverage:   1.5,
			MinLeverage:   1.0,
			StopLossPct:   0.04,
			TakeProfitPct: 0.12,
			MaxPositions:  7,
			PositionScale: 0.8,
		}
	}
}
