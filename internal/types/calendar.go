package types

import (
	"strings"
	"time"

	"github.com/ducklens-lab/trendlens/pkg/errors"
	"github.com/moznion/go-optional"
)

// EventImpact ranks how disruptive a scheduled economic event is expected to
// be. Only high-impact events trigger trading blackouts.
type EventImpact string

const (
	EventImpactLow    EventImpact = "LOW"
	EventImpactMedium EventImpact = "MEDIUM"
	EventImpactHigh   EventImpact = "HIGH"
)

// ParseEventImpact converts a raw calendar string into an EventImpact.
// Unlike flow tags, an unknown impact is a configuration error.
func ParseEventImpact(raw string) (EventImpact, error) {
	impact := EventImpact(strings.ToUpper(strings.TrimSpace(raw)))

	switch impact {
	case EventImpactLow, EventImpactMedium, EventImpactHigh:
		return impact, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unknown event impact %q", raw)
	}
}

// EconomicEvent is one scheduled calendar entry. Macro events (FOMC, CPI)
// carry no symbol and block every candidate; earnings events carry the symbol
// they belong to and block only that symbol.
type EconomicEvent struct {
	Date   time.Time               `json:"date" yaml:"date"`
	Name   string                  `json:"name" yaml:"name"`
	Impact EventImpact             `json:"impact" yaml:"impact"`
	Symbol optional.Option[string] `json:"symbol" yaml:"symbol"`
}

// AppliesTo reports whether the event gates trading for the given symbol.
func (e *EconomicEvent) AppliesTo(symbol string) bool {
	if e.Symbol.IsNone() {
		return true
	}

	return e.Symbol.Unwrap() == symbol
}
