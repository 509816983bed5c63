package detector

import (
	"math/rand"
	"testing"

	"github.com/ducklens-lab/trendlens/internal/types"
	"github.com/stretchr/testify/suite"
)

// ConfirmationTestSuite is a test suite for the confirmation state machine
type ConfirmationTestSuite struct {
	suite.Suite
	tracker *ConfirmationTracker
}

// SetupTest creates a fresh tracker for each test
func (suite *ConfirmationTestSuite) SetupTest() {
	suite.tracker = NewConfirmationTracker()
}

// TestConfirmationSuite runs the test suite
func TestConfirmationSuite(t *testing.T) {
	suite.Run(t, new(ConfirmationTestSuite))
}

func (suite *ConfirmationTestSuite) TestFirstObservationStartsAtOne() {
	counter, previous := suite.tracker.Observe("AAPL", types.TrendBullish)

	suite.Equal(1, counter)
	suite.Equal(types.TrendNeutral, previous)
}

func (suite *ConfirmationTestSuite) TestSameTrendIncrements() {
	suite.tracker.Observe("AAPL", types.TrendBullish)

	counter, previous := suite.tracker.Observe("AAPL", types.TrendBullish)
	suite.Equal(2, counter)
	suite.Equal(types.TrendBullish, previous)

	counter, _ = suite.tracker.Observe("AAPL", types.TrendBullish)
	suite.Equal(3, counter)
}

func (suite *ConfirmationTestSuite) TestTrendChangeResetsToOne() {
	suite.tracker.Observe("AAPL", types.TrendBullish)
	suite.tracker.Observe("AAPL", types.TrendBullish)

	counter, previous := suite.tracker.Observe("AAPL", types.TrendBearish)
	suite.Equal(1, counter)
	suite.Equal(types.TrendBullish, previous)

	counter, previous = suite.tracker.Observe("AAPL", types.TrendBullish)
	suite.Equal(1, counter)
	suite.Equal(types.TrendBearish, previous)
}

// TestNeutralRunsCount checks that NEUTRAL is a trend like any other: an
// unseen symbol already stores NEUTRAL, so observing it increments rather
// than resets.
func (suite *ConfirmationTestSuite) TestNeutralRunsCount() {
	counter, previous := suite.tracker.Observe("AAPL", types.TrendNeutral)
	suite.Equal(1, counter)
	suite.Equal(types.TrendNeutral, previous)

	counter, _ = suite.tracker.Observe("AAPL", types.TrendNeutral)
	suite.Equal(2, counter)
}

func (suite *ConfirmationTestSuite) TestSymbolsTrackedIndependently() {
	suite.tracker.Observe("AAPL", types.TrendBullish)
	suite.tracker.Observe("AAPL", types.TrendBullish)
	suite.tracker.Observe("MSFT", types.TrendBearish)

	counter, _ := suite.tracker.Observe("AAPL", types.TrendBullish)
	suite.Equal(3, counter)

	counter, _ = suite.tracker.Observe("MSFT", types.TrendBearish)
	suite.Equal(2, counter)
}

func (suite *ConfirmationTestSuite) TestSnapshotDoesNotMutate() {
	trend, counter := suite.tracker.Snapshot("AAPL")
	suite.Equal(types.TrendNeutral, trend)
	suite.Equal(0, counter)

	suite.tracker.Observe("AAPL", types.TrendBullish)

	trend, counter = suite.tracker.Snapshot("AAPL")
	suite.Equal(types.TrendBullish, trend)
	suite.Equal(1, counter)

	trend, counter = suite.tracker.Snapshot("AAPL")
	suite.Equal(types.TrendBullish, trend)
	suite.Equal(1, counter)
}

func (suite *ConfirmationTestSuite) TestAcceptedDefaultsToNeutral() {
	suite.Equal(types.TrendNeutral, suite.tracker.Accepted("AAPL"))

	// Raw observations alone never move the accepted trend.
	suite.tracker.Observe("AAPL", types.TrendBullish)
	suite.Equal(types.TrendNeutral, suite.tracker.Accepted("AAPL"))

	suite.tracker.Accept("AAPL", types.TrendBullish)
	suite.Equal(types.TrendBullish, suite.tracker.Accepted("AAPL"))
	suite.Equal(types.TrendNeutral, suite.tracker.Accepted("MSFT"))
}

func (suite *ConfirmationTestSuite) TestResetClearsAllState() {
	suite.tracker.Observe("AAPL", types.TrendBullish)
	suite.tracker.Observe("AAPL", types.TrendBullish)
	suite.tracker.Accept("AAPL", types.TrendBullish)

	suite.tracker.Reset()

	trend, counter := suite.tracker.Snapshot("AAPL")
	suite.Equal(types.TrendNeutral, trend)
	suite.Equal(0, counter)
	suite.Equal(types.TrendNeutral, suite.tracker.Accepted("AAPL"))

	counter, previous := suite.tracker.Observe("AAPL", types.TrendBearish)
	suite.Equal(1, counter)
	suite.Equal(types.TrendNeutral, previous)
}

// TestRandomSequenceCounterInvariant drives the tracker with a long random
// trend sequence and checks the counter invariant at every step: reset to 1
// exactly on a change, increment otherwise.
func (suite *ConfirmationTestSuite) TestRandomSequenceCounterInvariant() {
	trends := []types.TrendDirection{types.TrendBullish, types.TrendBearish, types.TrendNeutral}
	rng := rand.New(rand.NewSource(42))

	expectedLast := types.TrendNeutral
	expectedCounter := 0

	for i := 0; i < 500; i++ {
		trend := trends[rng.Intn(len(trends))]

		if trend == expectedLast {
			expectedCounter++
		} else {
			expectedCounter = 1
		}

		counter, previous := suite.tracker.Observe("AAPL", trend)

		suite.Require().Equal(expectedCounter, counter, "step %d", i)
		suite.Require().Equal(expectedLast, previous, "step %d", i)

		expectedLast = trend
	}
}
