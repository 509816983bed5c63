package regime

import (
	"strings"
	"testing"
	"time"

	"github.com/ducklens-lab/trendlens/internal/datastore"
	"github.com/ducklens-lab/trendlens/internal/logger"
	"github.com/ducklens-lab/trendlens/internal/types"
	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type RegimeTestSuite struct {
	suite.Suite
	store  datastore.SnapshotStore
	logger *logger.Logger
}

func TestRegimeSuite(t *testing.T) {
	suite.Run(t, new(RegimeTestSuite))
}

func (suite *RegimeTestSuite) SetupSuite() {
	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.OutputPaths = []string{}
	loggerConfig.ErrorOutputPaths = []string{}
	zapLogger, err := loggerConfig.Build()
	suite.Require().NoError(err)
	suite.logger = &logger.Logger{Logger: zapLogger}
}

func (suite *RegimeTestSuite) SetupTest() {
	store, err := datastore.NewDuckDBStore(":memory:", suite.logger)
	suite.Require().NoError(err)
	suite.Require().NoError(store.Initialize(""))
	suite.store = store
}

func (suite *RegimeTestSuite) TearDownTest() {
	if suite.store != nil {
		suite.store.Close()
	}
}

// writeIndexDay stores one SPY snapshot with the given close and 200 SMA.
func (suite *RegimeTestSuite) writeIndexDay(date time.Time, indexClose float64, sma200 optional.Option[float64]) {
	suite.Require().NoError(suite.store.WriteSnapshot(types.IndicatorSnapshot{
		Symbol: "SPY",
		Date:   date,
		Open:   indexClose,
		High:   indexClose,
		Low:    indexClose,
		Close:  indexClose,
		Volume: 1,
		SMA200: sma200,
	}))
}

// writeVIXDay stores one VIX snapshot with the given level.
func (suite *RegimeTestSuite) writeVIXDay(date time.Time, level float64) {
	suite.Require().NoError(suite.store.WriteSnapshot(types.IndicatorSnapshot{
		Symbol: "VIX",
		Date:   date,
		Open:   level,
		High:   level,
		Low:    level,
		Close:  level,
		Volume: 1,
	}))
}

func (suite *RegimeTestSuite) TestClassificationRules() {
	tests := []struct {
		name       string
		indexClose float64
		sma200     float64
		vix        float64
		want       types.MarketRegime
	}{
		{name: "bull when above sma and calm", indexClose: 500, sma200: 480, vix: 15, want: types.RegimeBull},
		{name: "volatile when vix elevated above sma", indexClose: 500, sma200: 480, vix: 27, want: types.RegimeVolatile},
		{name: "bear when vix high below sma", indexClose: 450, sma200: 480, vix: 32, want: types.RegimeBear},
		{name: "bear when vix elevated below sma", indexClose: 450, sma200: 480, vix: 27, want: types.RegimeBear},
		{name: "neutral when mixed", indexClose: 500, sma200: 480, vix: 22, want: types.RegimeNeutral},
		{name: "neutral below sma with calm vix", indexClose: 450, sma200: 480, vix: 15, want: types.RegimeNeutral},
		{name: "vix boundary 25 is not volatile", indexClose: 500, sma200: 480, vix: 25, want: types.RegimeNeutral},
		{name: "vix boundary 20 is not bull", indexClose: 500, sma200: 480, vix: 20, want: types.RegimeNeutral},
	}

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	provider := NewRuleBasedProvider(suite.store, "SPY", "VIX", suite.logger)

	for i, tc := range tests {
		// One day per case so the at-or-before lookup always lands on the
		// case's own rows
		date := base.AddDate(0, 0, i)
		suite.writeIndexDay(date, tc.indexClose, optional.Some(tc.sma200))
		suite.writeVIXDay(date, tc.vix)

		suite.Run(tc.name, func() {
			got, err := provider.Context(date)
			suite.Require().NoError(err)
			suite.Equal(tc.want, got.Regime)
			suite.Equal(tc.vix, got.VIX)
			suite.True(got.Date.Equal(date))
			suite.NotEmpty(got.Reasoning)
		})
	}
}

func (suite *RegimeTestSuite) TestVolatileBelowSMAIsBear() {
	// High VIX plus index under its 200 SMA classifies BEAR, not VOLATILE
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	suite.writeIndexDay(date, 450, optional.Some(480.0))
	suite.writeVIXDay(date, 31)

	provider := NewRuleBasedProvider(suite.store, "SPY", "VIX", suite.logger)
	got, err := provider.Context(date)
	suite.Require().NoError(err)
	suite.Equal(types.RegimeBear, got.Regime)
	suite.True(strings.HasPrefix(got.Reasoning, "BEAR market"))
}

func (suite *RegimeTestSuite) TestMissingIndexDegradesToDefault() {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	suite.writeVIXDay(date, 40)

	provider := NewRuleBasedProvider(suite.store, "SPY", "VIX", suite.logger)
	got, err := provider.Context(date)
	suite.Require().NoError(err)

	suite.Equal(types.RegimeNeutral, got.Regime)
	suite.Equal(DefaultVIX, got.VIX)
	suite.Contains(got.Reasoning, "Unable to determine regime")
}

func (suite *RegimeTestSuite) TestMissingSMA200DegradesToDefault() {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	suite.writeIndexDay(date, 500, optional.None[float64]())
	suite.writeVIXDay(date, 15)

	provider := NewRuleBasedProvider(suite.store, "SPY", "VIX", suite.logger)
	got, err := provider.Context(date)
	suite.Require().NoError(err)
	suite.Equal(types.RegimeNeutral, got.Regime)
	suite.Equal(DefaultVIX, got.VIX)
}

func (suite *RegimeTestSuite) TestMissingVIXStillClassifies() {
	// Without VIX data the provider assumes DefaultVIX and classifies on the
	// index alone; the reasoning shows a real classification, not the
	// degraded default
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	suite.writeIndexDay(date, 500, optional.Some(480.0))

	provider := NewRuleBasedProvider(suite.store, "SPY", "VIX", suite.logger)
	got, err := provider.Context(date)
	suite.Require().NoError(err)

	suite.Equal(types.RegimeNeutral, got.Regime)
	suite.Equal(DefaultVIX, got.VIX)
	suite.True(strings.HasPrefix(got.Reasoning, "NEUTRAL market"))
}

func (suite *RegimeTestSuite) TestLookupUsesLatestAtOrBefore() {
	// A weekend date uses Friday's snapshots
	friday := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	saturday := friday.AddDate(0, 0, 1)
	suite.writeIndexDay(friday, 500, optional.Some(480.0))
	suite.writeVIXDay(friday, 15)

	provider := NewRuleBasedProvider(suite.store, "SPY", "VIX", suite.logger)
	got, err := provider.Context(saturday)
	suite.Require().NoError(err)
	suite.Equal(types.RegimeBull, got.Regime)
}

func (suite *RegimeTestSuite) TestStaticProvider() {
	provider := NewStaticProvider(types.RegimeBull, 14)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	got, err := provider.Context(date)
	suite.Require().NoError(err)
	suite.Equal(types.RegimeBull, got.Regime)
	suite.Equal(14.0, got.VIX)
	suite.True(got.Date.Equal(date))
}
