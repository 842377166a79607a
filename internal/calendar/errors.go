// Package calendar implements the in-memory calendar engine: a book of named
// calendars, each owning events and recurring series, with scoped editing,
// range queries and cross-calendar copies. The engine is synchronous and does
// no logging of its own; callers are expected to serialize access to a Book.
package calendar

import "errors"

// Sentinel errors returned by the engine. They are always wrapped with the
// offending key or parameters, so callers should match with errors.Is.
var (
	ErrInvalidInterval   = errors.New("event end before start")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	ErrDuplicateEvent    = errors.New("duplicate event")
	ErrEventNotFound     = errors.New("event not found")
	ErrCalendarNotFound  = errors.New("calendar not found")
	ErrDuplicateCalendar = errors.New("duplicate calendar")
	ErrEmptySubject      = errors.New("event subject is empty")
)
