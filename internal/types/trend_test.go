package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type TrendTestSuite struct {
	suite.Suite
}

func TestTrendSuite(t *testing.T) {
	suite.Run(t, new(TrendTestSuite))
}

func (suite *TrendTestSuite) TestTrendDirectionConstants() {
	suite.Equal(TrendDirection("BULLISH"), TrendBullish)
	suite.Equal(TrendDirection("BEARISH"), TrendBearish)
	suite.Equal(TrendDirection("NEUTRAL"), TrendNeutral)
}

func (suite *TrendTestSuite) TestParseFlowTag() {
	tests := []struct {
		name     string
		raw      string
		expected FlowTag
	}{
		{
			name:     "Exact bullish",
			raw:      "BULLISH",
			expected: FlowBullish,
		},
		{
			name:     "Exact bearish",
			raw:      "BEARISH",
			expected: FlowBearish,
		},
		{
			name:     "Lowercase input",
			raw:      "bullish",
			expected: FlowBullish,
		},
		{
			name:     "Padded input",
			raw:      "  bearish  ",
			expected: FlowBearish,
		},
		{
			name:     "Unrecognized value",
			raw:      "mixed",
			expected: FlowUnknown,
		},
		{
			name:     "Empty string",
			raw:      "",
			expected: FlowUnknown,
		},
		{
			name:     "Explicit unknown",
			raw:      "UNKNOWN",
			expected: FlowUnknown,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.Equal(tt.expected, ParseFlowTag(tt.raw))
		})
	}
}
