package calendar

import (
	"fmt"
	"time"
)

// Book is a registry of uniquely-named calendars. Names are case-sensitive
// and listed in insertion order. A Book starts empty; callers decide whether
// a default calendar should exist.
type Book struct {
	names     []string
	calendars map[string]*Calendar
}

// NewBook returns an empty calendar book.
func NewBook() *Book {
	return &Book{calendars: make(map[string]*Calendar)}
}

// CreateCalendar registers a new calendar under the given name with an IANA
// timezone identifier.
func (b *Book) CreateCalendar(name, zone string) (*Calendar, error) {
	if name == "" {
		return nil, fmt.Errorf("create calendar: name is empty")
	}
	if _, exists := b.calendars[name]; exists {
		return nil, fmt.Errorf("create calendar %q: %w", name, ErrDuplicateCalendar)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("create calendar %q: invalid timezone %q: %w", name, zone, err)
	}
	cal := newCalendar(name, loc)
	b.calendars[name] = cal
	b.names = append(b.names, name)
	return cal, nil
}

// RenameCalendar changes a calendar's name, keeping its position in the
// listing order.
func (b *Book) RenameCalendar(oldName, newName string) error {
	cal, exists := b.calendars[oldName]
	if !exists {
		return fmt.Errorf("rename calendar %q: %w", oldName, ErrCalendarNotFound)
	}
	if newName == "" {
		return fmt.Errorf("rename calendar %q: new name is empty", oldName)
	}
	if _, taken := b.calendars[newName]; taken {
		return fmt.Errorf("rename calendar %q to %q: %w", oldName, newName, ErrDuplicateCalendar)
	}
	delete(b.calendars, oldName)
	cal.name = newName
	b.calendars[newName] = cal
	for i, n := range b.names {
		if n == oldName {
			b.names[i] = newName
			break
		}
	}
	return nil
}

// SetTimezone replaces a calendar's zone. Stored naive date-times are not
// re-stamped: the same wall-clock values simply denote different instants
// from now on. This relabel behavior is deliberate.
func (b *Book) SetTimezone(name, zone string) error {
	cal, exists := b.calendars[name]
	if !exists {
		return fmt.Errorf("set timezone of %q: %w", name, ErrCalendarNotFound)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return fmt.Errorf("set timezone of %q: invalid timezone %q: %w", name, zone, err)
	}
	cal.zone = loc
	return nil
}

// HasCalendar reports whether a calendar exists under the given name.
func (b *Book) HasCalendar(name string) bool {
	_, exists := b.calendars[name]
	return exists
}

// Calendar returns the calendar registered under the given name.
func (b *Book) Calendar(name string) (*Calendar, error) {
	cal, exists := b.calendars[name]
	if !exists {
		return nil, fmt.Errorf("calendar %q: %w", name, ErrCalendarNotFound)
	}
	return cal, nil
}

// Names lists the registered calendar names in insertion order.
func (b *Book) Names() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}
