package types

import "strings"

type TrendDirection string

const (
	// TrendBullish indicates indicators agree on upward momentum
	TrendBullish TrendDirection = "BULLISH"
	// TrendBearish indicates indicators agree on downward momentum
	TrendBearish TrendDirection = "BEARISH"
	// TrendNeutral indicates indicators disagree or abstained
	TrendNeutral TrendDirection = "NEUTRAL"
)

// FlowTag is the externally supplied options-flow sentiment for a symbol.
// Upstream feeds deliver it as a free-form string; ParseFlowTag narrows it
// to this closed set so that comparisons never depend on raw input casing.
type FlowTag string

const (
	FlowBullish FlowTag = "BULLISH"
	FlowBearish FlowTag = "BEARISH"
	FlowUnknown FlowTag = "UNKNOWN"
)

// ParseFlowTag maps an upstream flow string to a FlowTag.
// Any value outside the known set becomes FlowUnknown.
func ParseFlowTag(raw string) FlowTag {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(FlowBullish):
		return FlowBullish
	case string(FlowBearish):
		return FlowBearish
	default:
		return FlowUnknown
	}
}
