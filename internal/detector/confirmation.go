package detector

import "github.com/ducklens-lab/trendlens/internal/types"

// ConfirmationTracker counts how many consecutive days a symbol has held its
// current trend. The counter resets to 1 exactly when the newly observed
// trend differs from the stored one and increments otherwise; the stored
// trend is always overwritten, so days on which emission was blocked
// downstream still count toward (or reset) confirmation.
//
// Alongside the raw daily trend the tracker remembers the accepted trend:
// the last direction the detector acted on (or NEUTRAL before any action).
// A trend change stays actionable until it is accepted, so a blackout or a
// low-confidence day on the confirmation day delays the signal to the next
// clear day instead of losing it.
//
// Trackers are instance-scoped. Independent runs must each own their own
// tracker; there is no process-wide state.
type ConfirmationTracker struct {
	lastTrend map[string]types.TrendDirection
	counter   map[string]int
	accepted  map[string]types.TrendDirection
}

// NewConfirmationTracker creates an empty tracker. Symbols never observed
// report NEUTRAL with a zero counter.
func NewConfirmationTracker() *ConfirmationTracker {
	return &ConfirmationTracker{
		lastTrend: make(map[string]types.TrendDirection),
		counter:   make(map[string]int),
		accepted:  make(map[string]types.TrendDirection),
	}
}

// Observe records the trend computed for symbol today and returns the
// updated consecutive-day counter together with the previously stored trend.
func (t *ConfirmationTracker) Observe(symbol string, trend types.TrendDirection) (int, types.TrendDirection) {
	previous, seen := t.lastTrend[symbol]
	if !seen {
		previous = types.TrendNeutral
	}

	if trend == previous {
		t.counter[symbol]++
	} else {
		t.counter[symbol] = 1
	}

	t.lastTrend[symbol] = trend

	return t.counter[symbol], previous
}

// Accepted returns the last trend acted on for symbol, NEUTRAL if none.
func (t *ConfirmationTracker) Accepted(symbol string) types.TrendDirection {
	trend, seen := t.accepted[symbol]
	if !seen {
		return types.TrendNeutral
	}

	return trend
}

// Accept marks trend as acted on for symbol.
func (t *ConfirmationTracker) Accept(symbol string, trend types.TrendDirection) {
	t.accepted[symbol] = trend
}

// Snapshot returns the stored trend and counter for symbol without mutating
// state.
func (t *ConfirmationTracker) Snapshot(symbol string) (types.TrendDirection, int) {
	trend, seen := t.lastTrend[symbol]
	if !seen {
		return types.TrendNeutral, 0
	}

	return trend, t.counter[symbol]
}

// Reset clears all tracked symbols.
func (t *ConfirmationTracker) Reset() {
	t.lastTrend = make(map[string]types.TrendDirection)
	t.counter = make(map[string]int)
	t.accepted = make(map[string]types.TrendDirection)
}
