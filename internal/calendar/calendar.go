package calendar

import (
	"fmt"
	"sort"
	"time"

	"calbook/internal/models"
)

// eventKey identifies an event within one calendar. The pair (subject, start)
// is unique per calendar at all times; start is the naive wall-clock value in
// unix seconds so keys stay comparable regardless of how the time was built.
type eventKey struct {
	subject string
	start   int64
}

func keyOf(subject string, start time.Time) eventKey {
	return eventKey{subject: subject, start: start.Unix()}
}

// Calendar owns a timezone and a set of events keyed by (subject, start).
// A side index maps each series id to its member keys, kept ordered by start,
// so scope resolution does not need a full scan.
type Calendar struct {
	name   string
	zone   *time.Location
	events map[eventKey]*models.Event
	series map[string][]eventKey
}

func newCalendar(name string, zone *time.Location) *Calendar {
	return &Calendar{
		name:   name,
		zone:   zone,
		events: make(map[eventKey]*models.Event),
		series: make(map[string][]eventKey),
	}
}

// Name returns the calendar's name within its book.
func (c *Calendar) Name() string {
	return c.name
}

// Zone returns the IANA timezone the calendar's naive date-times are read in.
func (c *Calendar) Zone() *time.Location {
	return c.zone
}

// Absolute converts a naive wall-clock value to the instant it denotes in the
// calendar's zone. Exporters and cross-timezone consumers use this; the
// stored events themselves stay naive.
func (c *Calendar) Absolute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), c.zone)
}

// CreateEvent adds a single event. The new event is public until edited
// otherwise.
func (c *Calendar) CreateEvent(subject string, start, end time.Time) (*models.Event, error) {
	if subject == "" {
		return nil, fmt.Errorf("create event in %q: %w", c.name, ErrEmptySubject)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("create event %q (%s to %s): %w", subject, start, end, ErrInvalidInterval)
	}
	ev := &models.Event{
		Subject: subject,
		Start:   start,
		End:     end,
		Public:  true,
	}
	if err := c.insertBatch([]*models.Event{ev}); err != nil {
		return nil, err
	}
	return ev.Clone(), nil
}

// CreateEventSeries adds a recurring series terminated after count
// occurrences. The whole batch is inserted atomically: one key collision
// rejects every occurrence.
func (c *Calendar) CreateEventSeries(subject string, start, end time.Time, weekdays []time.Weekday, count int) ([]*models.Event, error) {
	events, err := generateSeries(subject, start, end, weekdays, count, time.Time{})
	if err != nil {
		return nil, err
	}
	if err := c.insertBatch(events); err != nil {
		return nil, err
	}
	return cloneAll(events), nil
}

// CreateEventSeriesUntil adds a recurring series terminated by an inclusive
// end date, with the same atomicity contract as CreateEventSeries.
func (c *Calendar) CreateEventSeriesUntil(subject string, start, end time.Time, weekdays []time.Weekday, until time.Time) ([]*models.Event, error) {
	events, err := generateSeries(subject, start, end, weekdays, 0, until)
	if err != nil {
		return nil, err
	}
	if err := c.insertBatch(events); err != nil {
		return nil, err
	}
	return cloneAll(events), nil
}

// Find returns the event at (subject, start), if any.
func (c *Calendar) Find(subject string, start time.Time) (*models.Event, bool) {
	ev, ok := c.events[keyOf(subject, start)]
	if !ok {
		return nil, false
	}
	return ev.Clone(), true
}

// RemoveEvent deletes the event at (subject, start).
func (c *Calendar) RemoveEvent(subject string, start time.Time) error {
	k := keyOf(subject, start)
	if _, ok := c.events[k]; !ok {
		return fmt.Errorf("remove event %q at %s: %w", subject, start, ErrEventNotFound)
	}
	c.remove(k)
	return nil
}

// EventsInRange returns every event whose start falls within [from, to]
// inclusive, ordered by start ascending with ties broken by subject.
func (c *Calendar) EventsInRange(from, to time.Time) []*models.Event {
	var out []*models.Event
	for _, ev := range c.events {
		if ev.Start.Before(from) || ev.Start.After(to) {
			continue
		}
		out = append(out, ev.Clone())
	}
	sortEvents(out)
	return out
}

// EventsOn returns every event starting on the given calendar date, in the
// same order as EventsInRange.
func (c *Calendar) EventsOn(date time.Time) []*models.Event {
	var out []*models.Event
	for _, ev := range c.events {
		if !sameDate(ev.Start, date) {
			continue
		}
		out = append(out, ev.Clone())
	}
	sortEvents(out)
	return out
}

// Events enumerates every event in the calendar sorted by start. Exporters
// consume this.
func (c *Calendar) Events() []*models.Event {
	out := make([]*models.Event, 0, len(c.events))
	for _, ev := range c.events {
		out = append(out, ev.Clone())
	}
	sortEvents(out)
	return out
}

// BusyAt reports whether any event covers the given naive date-time,
// treating the event interval as [start, end] inclusive.
func (c *Calendar) BusyAt(t time.Time) bool {
	for _, ev := range c.events {
		if !t.Before(ev.Start) && !t.After(ev.End) {
			return true
		}
	}
	return false
}

// insertBatch validates every candidate key before committing any event, so
// a collision never leaves a partial batch behind.
func (c *Calendar) insertBatch(events []*models.Event) error {
	seen := make(map[eventKey]struct{}, len(events))
	for _, ev := range events {
		k := keyOf(ev.Subject, ev.Start)
		if _, dup := seen[k]; dup {
			return fmt.Errorf("event %q at %s in %q: %w", ev.Subject, ev.Start, c.name, ErrDuplicateEvent)
		}
		if _, dup := c.events[k]; dup {
			return fmt.Errorf("event %q at %s in %q: %w", ev.Subject, ev.Start, c.name, ErrDuplicateEvent)
		}
		seen[k] = struct{}{}
	}
	for _, ev := range events {
		c.insert(ev)
	}
	return nil
}

func (c *Calendar) insert(ev *models.Event) {
	k := keyOf(ev.Subject, ev.Start)
	c.events[k] = ev
	if ev.SeriesID != "" {
		members := append(c.series[ev.SeriesID], k)
		sort.Slice(members, func(i, j int) bool { return members[i].start < members[j].start })
		c.series[ev.SeriesID] = members
	}
}

func (c *Calendar) remove(k eventKey) {
	ev, ok := c.events[k]
	if !ok {
		return
	}
	delete(c.events, k)
	if ev.SeriesID == "" {
		return
	}
	members := c.series[ev.SeriesID]
	for i, m := range members {
		if m == k {
			members = append(members[:i], members[i+1:]...)
			break
		}
	}
	if len(members) == 0 {
		delete(c.series, ev.SeriesID)
	} else {
		c.series[ev.SeriesID] = members
	}
}

func sortEvents(events []*models.Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].Subject < events[j].Subject
	})
}

func cloneAll(events []*models.Event) []*models.Event {
	out := make([]*models.Event, len(events))
	for i, ev := range events {
		out[i] = ev.Clone()
	}
	return out
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
