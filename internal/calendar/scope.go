package calendar

import (
	"fmt"
	"time"

	"calbook/internal/models"
)

// Scope is the breadth of a series edit.
type Scope int

const (
	// ScopeEvent edits only the targeted occurrence.
	ScopeEvent Scope = iota
	// ScopeEvents edits the targeted occurrence and every later one in its
	// series.
	ScopeEvents
	// ScopeSeries edits every occurrence in the series, including earlier
	// ones.
	ScopeSeries
)

// Change is a strongly-typed edit to one event property.
type Change interface {
	isChange()
}

// SetSubject renames the event. The (subject, start) identity changes with it.
type SetSubject struct{ Subject string }

// SetStart moves the event's start. Across ScopeEvents/ScopeSeries every
// member shifts by the anchor's delta, start and end alike, preserving the
// relative spacing within the series.
type SetStart struct{ Start time.Time }

// SetEnd moves the event's end. Across ScopeEvents/ScopeSeries the anchor's
// delta is applied per member so each keeps its own duration change.
type SetEnd struct{ End time.Time }

// SetDescription replaces the description text.
type SetDescription struct{ Description string }

// SetLocation replaces the location text.
type SetLocation struct{ Location string }

// SetVisibility marks the event public or private.
type SetVisibility struct{ Public bool }

func (SetSubject) isChange()     {}
func (SetStart) isChange()       {}
func (SetEnd) isChange()         {}
func (SetDescription) isChange() {}
func (SetLocation) isChange()    {}
func (SetVisibility) isChange()  {}

// EditEvent applies a change to exactly the event at (subject, start).
func (c *Calendar) EditEvent(subject string, start time.Time, change Change) error {
	return c.edit(subject, start, ScopeEvent, change)
}

// EditEventsFrom applies a change to the event at (subject, start) and, when
// it belongs to a series, to every later member of that series. For a single
// event it behaves exactly like EditEvent.
func (c *Calendar) EditEventsFrom(subject string, start time.Time, change Change) error {
	return c.edit(subject, start, ScopeEvents, change)
}

// EditSeries applies a change to every member of the anchor's series,
// including members earlier than the anchor.
func (c *Calendar) EditSeries(subject string, start time.Time, change Change) error {
	return c.edit(subject, start, ScopeSeries, change)
}

// edit is the scoped-edit state machine: resolve the affected set, build the
// mutated copies, validate intervals and key uniqueness, then commit. A
// failed validation leaves the store untouched.
func (c *Calendar) edit(subject string, start time.Time, scope Scope, change Change) error {
	anchor, ok := c.events[keyOf(subject, start)]
	if !ok {
		return fmt.Errorf("edit event %q at %s in %q: %w", subject, start, c.name, ErrEventNotFound)
	}

	keys := c.resolveScope(anchor, scope)
	updated := make([]*models.Event, 0, len(keys))
	for _, k := range keys {
		updated = append(updated, c.events[k].Clone())
	}

	if err := applyChange(updated, anchor, scope, change); err != nil {
		return err
	}
	for _, ev := range updated {
		if ev.End.Before(ev.Start) {
			return fmt.Errorf("edit event %q at %s: %w", ev.Subject, ev.Start, ErrInvalidInterval)
		}
	}

	// New keys must be unique among themselves and against every event that
	// is not part of the edit.
	affected := make(map[eventKey]struct{}, len(keys))
	for _, k := range keys {
		affected[k] = struct{}{}
	}
	newKeys := make(map[eventKey]struct{}, len(updated))
	for _, ev := range updated {
		nk := keyOf(ev.Subject, ev.Start)
		if _, dup := newKeys[nk]; dup {
			return fmt.Errorf("edit event %q at %s: %w", ev.Subject, ev.Start, ErrDuplicateEvent)
		}
		newKeys[nk] = struct{}{}
		if _, exists := c.events[nk]; exists {
			if _, ours := affected[nk]; !ours {
				return fmt.Errorf("edit event %q at %s: %w", ev.Subject, ev.Start, ErrDuplicateEvent)
			}
		}
	}

	for _, k := range keys {
		c.remove(k)
	}
	for _, ev := range updated {
		c.insert(ev)
	}
	return nil
}

// resolveScope determines which stored events a scoped edit touches. Events
// outside a series always resolve to just the anchor, whatever the scope.
func (c *Calendar) resolveScope(anchor *models.Event, scope Scope) []eventKey {
	anchorKey := keyOf(anchor.Subject, anchor.Start)
	if scope == ScopeEvent || !anchor.IsSeriesPart() {
		return []eventKey{anchorKey}
	}
	members := c.series[anchor.SeriesID]
	keys := make([]eventKey, 0, len(members))
	for _, k := range members {
		if scope == ScopeEvents && k.start < anchorKey.start {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

func applyChange(updated []*models.Event, anchor *models.Event, scope Scope, change Change) error {
	scoped := scope != ScopeEvent && anchor.IsSeriesPart()
	switch ch := change.(type) {
	case SetSubject:
		if ch.Subject == "" {
			return fmt.Errorf("edit event %q at %s: %w", anchor.Subject, anchor.Start, ErrEmptySubject)
		}
		for _, ev := range updated {
			ev.Subject = ch.Subject
		}
	case SetStart:
		if scoped {
			delta := ch.Start.Sub(anchor.Start)
			for _, ev := range updated {
				ev.Start = ev.Start.Add(delta)
				ev.End = ev.End.Add(delta)
			}
		} else {
			updated[0].Start = ch.Start
		}
	case SetEnd:
		if scoped {
			delta := ch.End.Sub(anchor.End)
			for _, ev := range updated {
				ev.End = ev.End.Add(delta)
			}
		} else {
			updated[0].End = ch.End
		}
	case SetDescription:
		for _, ev := range updated {
			ev.Description = ch.Description
		}
	case SetLocation:
		for _, ev := range updated {
			ev.Location = ch.Location
		}
	case SetVisibility:
		for _, ev := range updated {
			ev.Public = ch.Public
		}
	default:
		return fmt.Errorf("edit event %q at %s: unsupported change %T", anchor.Subject, anchor.Start, change)
	}
	return nil
}
