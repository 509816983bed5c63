package portfolio

import (
	"testing"
	"time"

	"github.com/ducklens-lab/trendlens/internal/logger"
	"github.com/ducklens-lab/trendlens/internal/types"
	"github.com/ducklens-lab/trendlens/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// PortfolioTestSuite is a test suite for the position lifecycle
type PortfolioTestSuite struct {
	suite.Suite
	logger    *logger.Logger
	portfolio *Portfolio
	base      time.Time
}

// SetupSuite sets up the test suite
func (suite *PortfolioTestSuite) SetupSuite() {
	// Create a no-op logger that doesn't log to console
	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.OutputPaths = []string{}      // Empty output paths to prevent console logging
	loggerConfig.ErrorOutputPaths = []string{} // Empty error output paths
	zapLogger, err := loggerConfig.Build()
	suite.Require().NoError(err)
	suite.logger = &logger.Logger{Logger: zapLogger}

	suite.base = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
}

// SetupTest creates a fresh portfolio for each test
func (suite *PortfolioTestSuite) SetupTest() {
	suite.portfolio = NewPortfolio(DefaultSettings(), suite.logger)
}

// TestPortfolioSuite runs the test suite
func TestPortfolioSuite(t *testing.T) {
	suite.Run(t, new(PortfolioTestSuite))
}

// bullParams returns permissive regime limits with easy sizing arithmetic.
func bullParams() types.RegimeParams {
	return types.RegimeParams{
		MinConfidence: 0.70,
		MaxLeverage:   2.0,
		MinLeverage:   1.0,
		StopLossPct:   0.05,
		TakeProfitPct: 0.15,
		MaxPositions:  10,
		PositionScale: 1.0,
	}
}

func calmContext() types.RegimeSnapshot {
	return types.RegimeSnapshot{
		Date:   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Regime: types.RegimeBull,
		VIX:    15,
	}
}

// order builds an open order against a fixed 100k portfolio mark.
func (suite *PortfolioTestSuite) order(symbol string, price, confidence float64) OpenOrder {
	return OpenOrder{
		Symbol:         symbol,
		Date:           suite.base,
		Price:          price,
		Confidence:     confidence,
		PortfolioValue: 100_000,
		Context:        calmContext(),
		Params:         bullParams(),
	}
}

func (suite *PortfolioTestSuite) TestOpenSizesByConfidence() {
	testCases := []struct {
		name         string
		confidence   float64
		wantQuantity float64
		wantLeverage float64
	}{
		// fraction clamps at 0.10 and minimum leverage applies
		{name: "low confidence", confidence: 0.6, wantQuantity: 100, wantLeverage: 1.0},
		// fraction 0.15 cap with maximum leverage
		{name: "high confidence", confidence: 0.9, wantQuantity: 300, wantLeverage: 2.0},
		// leverage switches exactly at the threshold
		{name: "leverage boundary", confidence: 0.85, wantQuantity: 300, wantLeverage: 2.0},
		// fraction between the clamps: 0.62 - 0.5 = 0.12
		{name: "mid confidence", confidence: 0.62, wantQuantity: 120, wantLeverage: 1.0},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			portfolio := NewPortfolio(DefaultSettings(), suite.logger)

			err := portfolio.Open(suite.order("AAPL", 100, tc.confidence))
			suite.Require().NoError(err)

			position, held := portfolio.Position("AAPL")
			suite.Require().True(held)
			suite.Equal(tc.wantQuantity, position.Quantity)
			suite.Equal(tc.wantLeverage, position.LeverageUsed)
		})
	}
}

func (suite *PortfolioTestSuite) TestOpenAppliesPositionScale() {
	order := suite.order("AAPL", 100, 0.6)
	order.Params.PositionScale = 0.5

	suite.Require().NoError(suite.portfolio.Open(order))

	position, _ := suite.portfolio.Position("AAPL")
	suite.Equal(50.0, position.Quantity)
}

// TestHighVIXHalvesLeverage checks the leverage cut above VIX 30 and that
// the cut never drops leverage below 1x.
func (suite *PortfolioTestSuite) TestHighVIXHalvesLeverage() {
	order := suite.order("AAPL", 100, 0.9)
	order.Context.VIX = 35

	suite.Require().NoError(suite.portfolio.Open(order))

	position, _ := suite.portfolio.Position("AAPL")
	suite.Equal(1.0, position.LeverageUsed)
	suite.Equal(150.0, position.Quantity)

	// Low confidence would halve to 0.5x; the floor keeps it at 1x.
	floored := suite.order("MSFT", 100, 0.6)
	floored.Context.VIX = 35

	suite.Require().NoError(suite.portfolio.Open(floored))

	position, _ = suite.portfolio.Position("MSFT")
	suite.Equal(1.0, position.LeverageUsed)
	suite.Equal(100.0, position.Quantity)
}

func (suite *PortfolioTestSuite) TestVIXBoundaryNotHalved() {
	order := suite.order("AAPL", 100, 0.9)
	order.Context.VIX = 30

	suite.Require().NoError(suite.portfolio.Open(order))

	position, _ := suite.portfolio.Position("AAPL")
	suite.Equal(2.0, position.LeverageUsed)
}

func (suite *PortfolioTestSuite) TestOpenSetsExitLevels() {
	suite.Require().NoError(suite.portfolio.Open(suite.order("AAPL", 100, 0.6)))

	position, _ := suite.portfolio.Position("AAPL")
	suite.InDelta(95.0, position.StopLoss, 1e-9)
	suite.InDelta(115.0, position.TakeProfit, 1e-9)
	suite.True(position.TrailingStop.IsNone())
	suite.Equal(100.0, position.HighestPrice)
	suite.Equal(suite.base, position.EntryDate)
}

// TestDuplicateOpenRejected checks the one-position-per-symbol invariant.
func (suite *PortfolioTestSuite) TestDuplicateOpenRejected() {
	suite.Require().NoError(suite.portfolio.Open(suite.order("AAPL", 100, 0.6)))

	err := suite.portfolio.Open(suite.order("AAPL", 105, 0.9))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDuplicatePosition))
	suite.Equal(1, suite.portfolio.OpenCount())
}

func (suite *PortfolioTestSuite) TestMaxPositionsEnforced() {
	order := func(symbol string) OpenOrder {
		o := suite.order(symbol, 100, 0.6)
		o.Params.MaxPositions = 2

		return o
	}

	suite.Require().NoError(suite.portfolio.Open(order("AAPL")))
	suite.Require().NoError(suite.portfolio.Open(order("MSFT")))

	err := suite.portfolio.Open(order("NVDA"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodePositionRejected))
	suite.Equal(2, suite.portfolio.OpenCount())
}

func (suite *PortfolioTestSuite) TestInsufficientCashRejected() {
	settings := DefaultSettings()
	settings.InitialCapital = 1_000
	portfolio := NewPortfolio(settings, suite.logger)

	// Sized off a portfolio mark far above the actual cash on hand.
	err := portfolio.Open(suite.order("AAPL", 100, 0.6))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInsufficientCash))
	suite.Equal(0, portfolio.OpenCount())
	suite.Equal(1_000.0, portfolio.Cash())
}

func (suite *PortfolioTestSuite) TestZeroQuantityRejected() {
	order := suite.order("AAPL", 100, 0.6)
	order.PortfolioValue = 500
	order.Price = 200

	err := suite.portfolio.Open(order)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodePositionRejected))
}

func (suite *PortfolioTestSuite) TestNonPositivePriceRejected() {
	order := suite.order("AAPL", 0, 0.6)

	err := suite.portfolio.Open(order)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodePositionRejected))
}

// TestCloseComputesNetPnL charges commission and slippage on both legs:
// 100 shares in at 100 cost 10020, out at 110 net 10978, PnL 958.
func (suite *PortfolioTestSuite) TestCloseComputesNetPnL() {
	suite.Require().NoError(suite.portfolio.Open(suite.order("AAPL", 100, 0.6)))
	suite.InDelta(100_000-10_020, suite.portfolio.Cash(), 1e-6)

	exitDate := suite.base.AddDate(0, 0, 5)
	trade, err := suite.portfolio.Close("AAPL", exitDate, 110, types.CloseReasonTakeProfit, types.RegimeBull)
	suite.Require().NoError(err)

	suite.InDelta(958.0, trade.PnL, 1e-9)
	suite.InDelta(0.0958, trade.PnLPct, 1e-12)
	suite.Equal(100.0, trade.Quantity)
	suite.Equal(110.0, trade.ExitPrice)
	suite.Equal(types.CloseReasonTakeProfit, trade.ExitReason)
	suite.Equal(types.RegimeBull, trade.Regime)
	suite.Equal(0.6, trade.Confidence)
	suite.Equal(5, trade.HoldingDays)
	suite.NotEmpty(trade.ID)
	suite.True(trade.IsWin())

	suite.False(suite.portfolio.HasPosition("AAPL"))
	suite.InDelta(100_958.0, suite.portfolio.Cash(), 1e-6)
	suite.Len(suite.portfolio.Trades(), 1)
}

func (suite *PortfolioTestSuite) TestCloseUnknownSymbol() {
	_, err := suite.portfolio.Close("AAPL", suite.base, 100, types.CloseReasonSignalExit, types.RegimeNeutral)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodePositionNotFound))
}

// TestStopLossRoundTrip drops the price onto the stop level and checks the
// exit fires with a negative realized PnL.
func (suite *PortfolioTestSuite) TestStopLossRoundTrip() {
	suite.Require().NoError(suite.portfolio.Open(suite.order("AAPL", 100, 0.6)))

	exits := suite.portfolio.CheckExits(map[string]float64{"AAPL": 95})
	suite.Require().Len(exits, 1)
	suite.Equal("AAPL", exits[0].Symbol)
	suite.Equal(95.0, exits[0].Price)
	suite.Equal(types.CloseReasonStopLoss, exits[0].Reason)

	trade, err := suite.portfolio.Close(exits[0].Symbol, suite.base.AddDate(0, 0, 3), exits[0].Price, exits[0].Reason, types.RegimeBull)
	suite.Require().NoError(err)
	suite.Negative(trade.PnL)
	suite.False(trade.IsWin())
}

// TestTrailingStopLifecycle arms the stop after a 10% run-up, ratchets it
// with new peaks, and never lowers it on pullbacks.
func (suite *PortfolioTestSuite) TestTrailingStopLifecycle() {
	order := suite.order("AAPL", 100, 0.6)
	// Push take profit out of the way so the trailing stop decides the exit.
	order.Params.TakeProfitPct = 0.50

	suite.Require().NoError(suite.portfolio.Open(order))

	// 5% gain: below activation, nothing armed.
	suite.portfolio.UpdateTrailingStops(map[string]float64{"AAPL": 105})
	position, _ := suite.portfolio.Position("AAPL")
	suite.True(position.TrailingStop.IsNone())

	// 12% gain arms the stop at 95% of the peak.
	suite.portfolio.UpdateTrailingStops(map[string]float64{"AAPL": 112})
	position, _ = suite.portfolio.Position("AAPL")
	suite.Require().True(position.TrailingStop.IsSome())
	suite.InDelta(106.4, position.TrailingStop.Unwrap(), 1e-9)

	// New peak raises the stop.
	suite.portfolio.UpdateTrailingStops(map[string]float64{"AAPL": 118})
	position, _ = suite.portfolio.Position("AAPL")
	suite.InDelta(112.1, position.TrailingStop.Unwrap(), 1e-9)
	suite.Equal(118.0, position.HighestPrice)

	// Pullback: the peak and the stop both hold.
	suite.portfolio.UpdateTrailingStops(map[string]float64{"AAPL": 113})
	position, _ = suite.portfolio.Position("AAPL")
	suite.InDelta(112.1, position.TrailingStop.Unwrap(), 1e-9)
	suite.Equal(118.0, position.HighestPrice)

	// Price through the stop triggers the exit.
	exits := suite.portfolio.CheckExits(map[string]float64{"AAPL": 111})
	suite.Require().Len(exits, 1)
	suite.Equal(types.CloseReasonTrailingStop, exits[0].Reason)
}

// TestExitPriorityTrailingFirst crashes the price through both the trailing
// stop and the stop loss; the trailing stop reason wins.
func (suite *PortfolioTestSuite) TestExitPriorityTrailingFirst() {
	order := suite.order("AAPL", 100, 0.6)
	order.Params.TakeProfitPct = 0.50

	suite.Require().NoError(suite.portfolio.Open(order))
	suite.portfolio.UpdateTrailingStops(map[string]float64{"AAPL": 112})

	exits := suite.portfolio.CheckExits(map[string]float64{"AAPL": 90})
	suite.Require().Len(exits, 1)
	suite.Equal(types.CloseReasonTrailingStop, exits[0].Reason)
}

func (suite *PortfolioTestSuite) TestCheckExitsSkipsMissingQuotes() {
	suite.Require().NoError(suite.portfolio.Open(suite.order("AAPL", 100, 0.6)))

	suite.Empty(suite.portfolio.CheckExits(map[string]float64{}))
	suite.Empty(suite.portfolio.CheckExits(map[string]float64{"AAPL": 0}))
}

func (suite *PortfolioTestSuite) TestTakeProfitExit() {
	suite.Require().NoError(suite.portfolio.Open(suite.order("AAPL", 100, 0.6)))

	exits := suite.portfolio.CheckExits(map[string]float64{"AAPL": 115})
	suite.Require().Len(exits, 1)
	suite.Equal(types.CloseReasonTakeProfit, exits[0].Reason)
}

// TestValueMarksPositions values held symbols at today's quote and falls
// back to the entry price without one.
func (suite *PortfolioTestSuite) TestValueMarksPositions() {
	suite.Require().NoError(suite.portfolio.Open(suite.order("AAPL", 100, 0.6)))
	cash := suite.portfolio.Cash()

	suite.InDelta(cash+11_000, suite.portfolio.Value(map[string]float64{"AAPL": 110}), 1e-6)
	suite.InDelta(cash+10_000, suite.portfolio.Value(map[string]float64{}), 1e-6)
	suite.InDelta(cash+10_000, suite.portfolio.Value(map[string]float64{"AAPL": -1}), 1e-6)
}

func (suite *PortfolioTestSuite) TestPositionsReturnsSortedCopies() {
	suite.Require().NoError(suite.portfolio.Open(suite.order("MSFT", 100, 0.6)))
	suite.Require().NoError(suite.portfolio.Open(suite.order("AAPL", 100, 0.6)))

	positions := suite.portfolio.Positions()
	suite.Require().Len(positions, 2)
	suite.Equal("AAPL", positions[0].Symbol)
	suite.Equal("MSFT", positions[1].Symbol)

	// Mutating the copy leaves the book untouched.
	positions[0].Quantity = 0
	position, _ := suite.portfolio.Position("AAPL")
	suite.Equal(100.0, position.Quantity)
}
