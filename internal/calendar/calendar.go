// Package calendar provides the economic event calendar that gates signal
// emission around high-impact dates.
package calendar

import (
	"os"
	"time"

	"github.com/ducklens-lab/trendlens/internal/types"
	"github.com/ducklens-lab/trendlens/pkg/errors"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v2"
)

// EventCalendar answers which events fall near a trading day.
type EventCalendar interface {
	// EventsNear returns the high-impact events within windowDays calendar
	// days of date, in both directions inclusive, that apply to symbol.
	// Symbol-scoped events such as earnings match only their own symbol.
	EventsNear(symbol string, date time.Time, windowDays int) []types.EconomicEvent
}

// StaticCalendar is an EventCalendar backed by a fixed event list.
type StaticCalendar struct {
	events []types.EconomicEvent
}

// NewStaticCalendar creates a calendar from an in-memory event list.
func NewStaticCalendar(events []types.EconomicEvent) *StaticCalendar {
	return &StaticCalendar{events: events}
}

// EventsNear implements EventCalendar.
func (c *StaticCalendar) EventsNear(symbol string, date time.Time, windowDays int) []types.EconomicEvent {
	var matches []types.EconomicEvent

	for _, event := range c.events {
		if event.Impact != types.EventImpactHigh {
			continue
		}

		if !event.AppliesTo(symbol) {
			continue
		}

		if absDays(event.Date, date) <= windowDays {
			matches = append(matches, event)
		}
	}

	return matches
}

// absDays returns the absolute distance between two dates in calendar days,
// ignoring the time of day.
func absDays(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)

	days := int(a.Sub(b).Hours() / 24)
	if days < 0 {
		days = -days
	}

	return days
}

// calendarFile is the YAML layout of a calendar file:
//
//	events:
//	  - date: 2024-03-20
//	    name: FOMC Rate Decision
//	    impact: HIGH
//	  - date: 2024-04-25
//	    name: AAPL Earnings
//	    impact: HIGH
//	    symbol: AAPL
type calendarFile struct {
	Events []calendarEntry `yaml:"events"`
}

type calendarEntry struct {
	Date   time.Time `yaml:"date"`
	Name   string    `yaml:"name"`
	Impact string    `yaml:"impact"`
	Symbol string    `yaml:"symbol"`
}

// LoadCalendar reads an event calendar from a YAML file. Entries must carry
// a date, a name and a known impact level; a bad entry fails the whole load.
func LoadCalendar(path string) (*StaticCalendar, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeCalendarLoadFailed, err, "failed to read calendar file %s", path)
	}

	var file calendarFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeCalendarLoadFailed, err, "failed to parse calendar file %s", path)
	}

	events := make([]types.EconomicEvent, 0, len(file.Events))

	for i, entry := range file.Events {
		if entry.Name == "" {
			return nil, errors.Newf(errors.ErrCodeCalendarLoadFailed, "calendar entry %d has no name", i)
		}

		if entry.Date.IsZero() {
			return nil, errors.Newf(errors.ErrCodeCalendarLoadFailed, "calendar entry %q has no date", entry.Name)
		}

		impact, err := types.ParseEventImpact(entry.Impact)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeCalendarLoadFailed, err, "calendar entry %q", entry.Name)
		}

		event := types.EconomicEvent{
			Date:   entry.Date,
			Name:   entry.Name,
			Impact: impact,
			Symbol: optional.None[string](),
		}
		if entry.Symbol != "" {
			event.Symbol = optional.Some(entry.Symbol)
		}

		events = append(events, event)
	}

	return NewStaticCalendar(events), nil
}
