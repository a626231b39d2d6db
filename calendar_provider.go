package main

import (
	"time"
)

// CalendarTarget is a calendar that extracted events can be written to.
type CalendarTarget interface {
	// Name identifies the target in state records and log output.
	Name() string
	// FindConflicts returns events already in the calendar that overlap
	// the given event's time window.
	FindConflicts(event *Event) ([]*Event, error)
	// AddEvent writes the event to the calendar and returns the
	// identifier needed to delete it later.
	AddEvent(event *Event) (string, error)
	// DeleteEvent removes a previously added event.
	DeleteEvent(eventID string) error
}

// Event is a calendar event assembled from an extracted reservation.
// AllDay marks events whose start (and end, if any) is a plain date.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Geo         *Geo
	Start       time.Time
	End         time.Time
	AllDay      bool
	Duration    time.Duration
	Categories  []string
	Attendees   []string
	Alarms      []time.Duration
	Status      string
}

// timeKey identifies an event by its start and end instants, for
// run-level deduplication. The same booking often arrives in several
// emails (confirmation, reminder, check-in notice).
func (e *Event) timeKey() string {
	return e.Start.UTC().Format(time.RFC3339) + "/" + e.End.UTC().Format(time.RFC3339)
}

// conflictWindow widens the event's times into the window searched for
// conflicting calendar entries. All-day events widen to whole days; an
// event with no end becomes a one-second window around its start.
func (e *Event) conflictWindow() (time.Time, time.Time) {
	start := e.Start
	end := e.End
	if e.AllDay {
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		if end.IsZero() {
			end = start.AddDate(0, 0, 1)
		} else {
			end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)
		}
	} else if end.IsZero() {
		end = start.Add(time.Second)
		start = start.Add(-time.Second)
	}
	return start, end
}
