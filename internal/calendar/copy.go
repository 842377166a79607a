package calendar

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"calbook/internal/models"
)

// CopyEvent copies the event at (subject, start) into target, anchored at
// targetStart exactly. The caller decides what targetStart should be, zone
// conversion included; the copy keeps the source's duration and attributes
// but is always an independent, non-series event.
func (c *Calendar) CopyEvent(subject string, start time.Time, target *Calendar, targetStart time.Time) (*models.Event, error) {
	src, ok := c.events[keyOf(subject, start)]
	if !ok {
		return nil, fmt.Errorf("copy event %q at %s from %q: %w", subject, start, c.name, ErrEventNotFound)
	}
	cp := src.Clone()
	cp.Start = targetStart
	cp.End = targetStart.Add(src.Duration())
	cp.SeriesID = ""
	if err := target.insertBatch([]*models.Event{cp}); err != nil {
		return nil, err
	}
	return cp.Clone(), nil
}

// CopyEventsOn copies every event starting on date into target at targetDate,
// each keeping its own time of day and duration, as independent events. The
// batch is atomic: one collision in the target rejects every copy.
func (c *Calendar) CopyEventsOn(date time.Time, target *Calendar, targetDate time.Time) ([]*models.Event, error) {
	sources := c.EventsOn(date)
	copies := make([]*models.Event, 0, len(sources))
	for _, src := range sources {
		cp := src.Clone()
		cp.Start = onDate(targetDate, src.Start)
		cp.End = cp.Start.Add(src.Duration())
		cp.SeriesID = ""
		copies = append(copies, cp)
	}
	if err := target.insertBatch(copies); err != nil {
		return nil, err
	}
	return cloneAll(copies), nil
}

// CopyEventsBetween copies every event in [startDate, endDate] into target,
// shifting each by the day offset between targetAnchorDate and startDate.
// Series grouping survives the copy under fresh series ids. The batch is
// atomic.
func (c *Calendar) CopyEventsBetween(startDate, endDate time.Time, target *Calendar, targetAnchorDate time.Time) ([]*models.Event, error) {
	if dateOf(endDate).Before(dateOf(startDate)) {
		return nil, fmt.Errorf("copy events from %q: range %s to %s: %w",
			c.name, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"), ErrInvalidInterval)
	}
	from := dateOf(startDate)
	to := dateOf(endDate).Add(24*time.Hour - time.Second)
	offsetDays := int(dateOf(targetAnchorDate).Sub(from).Hours() / 24)

	sources := c.EventsInRange(from, to)
	remapped := make(map[string]string)
	copies := make([]*models.Event, 0, len(sources))
	for _, src := range sources {
		cp := src.Clone()
		cp.Start = src.Start.AddDate(0, 0, offsetDays)
		cp.End = src.End.AddDate(0, 0, offsetDays)
		if src.SeriesID != "" {
			sid, seen := remapped[src.SeriesID]
			if !seen {
				sid = uuid.New().String()
				remapped[src.SeriesID] = sid
			}
			cp.SeriesID = sid
		}
		copies = append(copies, cp)
	}
	if err := target.insertBatch(copies); err != nil {
		return nil, err
	}
	return cloneAll(copies), nil
}

// onDate keeps the time of day of t but moves it to date's calendar day.
func onDate(date, t time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
