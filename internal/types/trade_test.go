package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TradeTestSuite struct {
	suite.Suite
}

func TestTradeSuite(t *testing.T) {
	suite.Run(t, new(TradeTestSuite))
}

func (suite *TradeTestSuite) TestCloseReasonConstants() {
	suite.Equal("trailing_stop", CloseReasonTrailingStop)
	suite.Equal("stop_loss", CloseReasonStopLoss)
	suite.Equal("take_profit", CloseReasonTakeProfit)
	suite.Equal("signal_exit", CloseReasonSignalExit)
	suite.Equal("period_end", CloseReasonPeriodEnd)
}

func (suite *TradeTestSuite) TestIsWin() {
	tests := []struct {
		name     string
		trade    Trade
		expected bool
	}{
		{
			name:     "Positive pnl",
			trade:    Trade{PnL: 120.5},
			expected: true,
		},
		{
			name:     "Negative pnl",
			trade:    Trade{PnL: -3.2},
			expected: false,
		},
		{
			name:     "Zero pnl counts as loss",
			trade:    Trade{PnL: 0},
			expected: false,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.Equal(tt.expected, tt.trade.IsWin())
		})
	}
}

func (suite *TradeTestSuite) TestTradeStruct() {
	entry := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	exit := time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC)

	trade := Trade{
		ID:           "trade-1",
		Symbol:       "NVDA",
		EntryDate:    entry,
		ExitDate:     exit,
		EntryPrice:   700.0,
		ExitPrice:    735.0,
		Quantity:     3,
		PnL:          105.0,
		PnLPct:       0.05,
		Confidence:   0.82,
		LeverageUsed: 1.5,
		ExitReason:   CloseReasonTakeProfit,
		Regime:       RegimeBull,
		HoldingDays:  11,
	}

	suite.Equal("NVDA", trade.Symbol)
	suite.Equal(CloseReasonTakeProfit, trade.ExitReason)
	suite.Equal(RegimeBull, trade.Regime)
	suite.Equal(11, trade.HoldingDays)
	suite.True(trade.IsWin())
}
