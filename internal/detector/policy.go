package detector

import (
	"fmt"

	"github.com/ducklens-lab/trendlens/internal/types"
	"github.com/ducklens-lab/trendlens/pkg/errors"
)

// Policy names accepted in configuration.
const (
	PolicyLongOnly  = "long_only"
	PolicySymmetric = "symmetric"
)

// BearishTurn carries everything a policy needs to decide on a bearish trend
// change that has passed the blackout, confidence and strength gates.
type BearishTurn struct {
	Snapshot   types.IndicatorSnapshot
	Previous   types.TrendDirection
	Counter    int
	Required   int
	Confidence float64
	Strength   float64
}

// DecisionPolicy settles how a bearish trend change is handled. The two
// implementations are interchangeable and selected at construction.
type DecisionPolicy interface {
	// Name returns the configuration identifier of the policy.
	Name() string
	// EvaluateBearish returns the action for a bearish trend change along
	// with the reasoning lines explaining it.
	EvaluateBearish(turn BearishTurn) (types.SignalAction, []string)
}

// PolicyFromName resolves a configured policy name.
func PolicyFromName(name string) (DecisionPolicy, error) {
	switch name {
	case PolicyLongOnly:
		return &LongOnlyPolicy{}, nil
	case PolicySymmetric:
		return &SymmetricPolicy{}, nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownPolicy, "unknown decision policy %q", name)
	}
}

// LongOnlyPolicy ignores short-term bearishness and sells only on a
// confirmed death cross (SMA50 under SMA200). Positions ride out pullbacks
// as long as the long-term structure holds.
type LongOnlyPolicy struct{}

// Name implements DecisionPolicy.
func (p *LongOnlyPolicy) Name() string { return PolicyLongOnly }

// EvaluateBearish implements DecisionPolicy.
func (p *LongOnlyPolicy) EvaluateBearish(turn BearishTurn) (types.SignalAction, []string) {
	deathCross := false

	var sma50, sma200 float64

	if turn.Snapshot.SMA50.IsSome() && turn.Snapshot.SMA200.IsSome() {
		sma50 = turn.Snapshot.SMA50.Unwrap()
		sma200 = turn.Snapshot.SMA200.Unwrap()
		deathCross = sma50 < sma200
	}

	if deathCross && turn.Counter >= turn.Required {
		return types.SignalActionSell, []string{
			"[DEATH CROSS CONFIRMED] Major trend reversal",
			fmt.Sprintf("SMA50 (%.2f) < SMA200 (%.2f)", sma50, sma200),
			fmt.Sprintf("Confirmed for %d days - EXIT POSITION", turn.Counter),
		}
	}

	lines := []string{
		"[SHORT-TERM BEARISH] Ignoring in long-only mode",
		"Hold position - waiting for death cross to exit",
	}
	if deathCross {
		lines = append(lines, fmt.Sprintf("Death cross detected but needs confirmation: %d/%d days",
			turn.Counter, turn.Required))
	}

	return types.SignalActionDontTrade, lines
}

// SymmetricPolicy sells on any bearish trend change once it has been
// confirmed for the required number of days.
type SymmetricPolicy struct{}

// Name implements DecisionPolicy.
func (p *SymmetricPolicy) Name() string { return PolicySymmetric }

// EvaluateBearish implements DecisionPolicy.
func (p *SymmetricPolicy) EvaluateBearish(turn BearishTurn) (types.SignalAction, []string) {
	if turn.Counter >= turn.Required {
		return types.SignalActionSell, []string{
			fmt.Sprintf("[TREND CHANGE CONFIRMED] %s -> BEARISH", turn.Previous),
			fmt.Sprintf("Confirmed for %d days", turn.Counter),
			fmt.Sprintf("Confidence: %.1f%% | Trend strength: %.1f", turn.Confidence*100, turn.Strength),
		}
	}

	return types.SignalActionDontTrade, []string{
		fmt.Sprintf("[TREND CHANGE PENDING] %s -> BEARISH", turn.Previous),
		fmt.Sprintf("Waiting for confirmation: %d/%d days", turn.Counter, turn.Required),
	}
}
