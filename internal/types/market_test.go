package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func (suite *MarketTestSuite) TestDailyBarStruct() {
	date := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	bar := DailyBar{
		Symbol: "AAPL",
		Date:   date,
		Open:   150.0,
		High:   155.0,
		Low:    148.0,
		Close:  152.5,
		Volume: 1000000.0,
	}

	suite.Equal("AAPL", bar.Symbol)
	suite.Equal(date, bar.Date)
	suite.Equal(150.0, bar.Open)
	suite.Equal(155.0, bar.High)
	suite.Equal(148.0, bar.Low)
	suite.Equal(152.5, bar.Close)
	suite.Equal(1000000.0, bar.Volume)
}

func (suite *MarketTestSuite) TestDailyBarZeroValues() {
	bar := DailyBar{}

	suite.Empty(bar.Symbol)
	suite.True(bar.Date.IsZero())
	suite.Equal(0.0, bar.Open)
	suite.Equal(0.0, bar.Volume)
}

func (suite *MarketTestSuite) TestDailyBarOHLCRelationships() {
	bar := DailyBar{
		Symbol: "SPY",
		Date:   time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		Open:   450.0,
		High:   455.0,
		Low:    448.0,
		Close:  452.0,
		Volume: 5000000.0,
	}

	suite.GreaterOrEqual(bar.High, bar.Open)
	suite.GreaterOrEqual(bar.High, bar.Close)
	suite.LessOrEqual(bar.Low, bar.Open)
	suite.LessOrEqual(bar.Low, bar.Close)
}
