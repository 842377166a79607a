package models

import "time"

// Event represents a single calendar event occurrence.
// Start and End are naive wall-clock values: they carry no timezone of their
// own and are kept in time.UTC purely as a container. The owning calendar's
// zone decides which instant they denote.
type Event struct {
	Subject     string    // Non-empty title; part of the event's identity
	Start       time.Time // Naive start, identity together with Subject
	End         time.Time // Naive end, never before Start
	Description string    // Optional free text
	Location    string    // Optional free text
	Public      bool      // Visibility: public (true) or private (false)
	SeriesID    string    // Recurring-series membership; empty for single events
}

// Duration returns the length of the event.
func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// IsSeriesPart reports whether the event belongs to a recurring series.
func (e *Event) IsSeriesPart() bool {
	return e.SeriesID != ""
}

// Clone returns an independent copy of the event.
func (e *Event) Clone() *Event {
	c := *e
	return &c
}
