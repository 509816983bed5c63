package regime

import (
	"testing"

	"github.com/ducklens-lab/trendlens/internal/types"
	"github.com/stretchr/testify/suite"
)

type ParamsTestSuite struct {
	suite.Suite
}

func TestParamsSuite(t *testing.T) {
	suite.Run(t, new(ParamsTestSuite))
}

func (suite *ParamsTestSuite) TestParamsFor() {
	tests := []struct {
		name   string
		regime types.MarketRegime
		vix    float64
		want   types.RegimeParams
	}{
		{
			name:   "bull",
			regime: types.RegimeBull,
			vix:    15,
			want: types.RegimeParams{
				MinConfidence: 0.70,
				MaxLeverage:   2.0,
				MinLeverage:   1.0,
				StopLossPct:   0.05,
				TakeProfitPct: 0.15,
				MaxPositions:  10,
				PositionScale: 1.0,
			},
		},
		{
			name:   "bear",
			regime: types.RegimeBear,
			vix:    32,
			want: types.RegimeParams{
				MinConfidence: 0.85,
				MaxLeverage:   1.0,
				MinLeverage:   1.0,
				StopLossPct:   0.03,
				TakeProfitPct: 0.08,
				MaxPositions:  3,
				PositionScale: 0.5,
			},
		},
		{
			name:   "volatile moderate",
			regime: types.RegimeVolatile,
			vix:    28,
			want: types.RegimeParams{
				MinConfidence: 0.80,
				MaxLeverage:   1.5,
				MinLeverage:   1.0,
				StopLossPct:   0.04,
				TakeProfitPct: 0.10,
				MaxPositions:  5,
				PositionScale: 0.7,
			},
		},
		{
			name:   "volatile extreme tightens to bear limits",
			regime: types.RegimeVolatile,
			vix:    36,
			want: types.RegimeParams{
				MinConfidence: 0.85,
				MaxLeverage:   1.0,
				MinLeverage:   1.0,
				StopLossPct:   0.03,
				TakeProfitPct: 0.08,
				MaxPositions:  3,
				PositionScale: 0.5,
			},
		},
		{
			name:   "volatile boundary 35 stays moderate",
			regime: types.RegimeVolatile,
			vix:    35,
			want: types.RegimeParams{
				MinConfidence: 0.80,
				MaxLeverage:   1.5,
				MinLeverage:   1.0,
				StopLossPct:   0.04,
				TakeProfitPct: 0.10,
				MaxPositions:  5,
				PositionScale: 0.7,
			},
		},
		{
			name:   "neutral",
			regime: types.RegimeNeutral,
			vix:    20,
			want: types.RegimeParams{
				MinConfidence: 0.75,
				MaxLeverage:   1.5,
				MinLeverage:   1.0,
				StopLossPct:   0.04,
				TakeProfitPct: 0.12,
				MaxPositions:  7,
				PositionScale: 0.8,
			},
		},
		{
			name:   "unknown regime falls back to neutral limits",
			regime: types.MarketRegime("SIDEWAYS"),
			vix:    20,
			want: types.RegimeParams{
				MinConfidence: 0.75,
				MaxLeverage:   1.5,
				MinLeverage:   1.0,
				StopLossPct:   0.04,
				TakeProfitPct: 0.12,
				MaxPositions:  7,
				PositionScale: 0.8,
			},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.want, ParamsFor(tc.regime, tc.vix))
		})
	}
}
