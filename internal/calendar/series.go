package calendar

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"calbook/internal/models"
)

// generateSeries expands a weekly weekday pattern into concrete occurrences.
// Exactly one of count (> 0) or until (non-zero) terminates the series; until
// is inclusive, so an occurrence landing on it is emitted. The literal start
// date is emitted only when its weekday matches the pattern.
func generateSeries(subject string, start, end time.Time, weekdays []time.Weekday, count int, until time.Time) ([]*models.Event, error) {
	if subject == "" {
		return nil, fmt.Errorf("create series: %w", ErrEmptySubject)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("create series %q (%s to %s): %w", subject, start, end, ErrInvalidInterval)
	}
	if len(weekdays) == 0 {
		return nil, fmt.Errorf("create series %q: empty weekday set: %w", subject, ErrInvalidRecurrence)
	}
	byday, err := toByweekday(weekdays)
	if err != nil {
		return nil, fmt.Errorf("create series %q: %w", subject, err)
	}

	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   start,
		Byweekday: byday,
	}
	if until.IsZero() {
		if count <= 0 {
			return nil, fmt.Errorf("create series %q: occurrence count %d: %w", subject, count, ErrInvalidRecurrence)
		}
		opt.Count = count
	} else {
		if dateOf(until).Before(dateOf(start)) {
			return nil, fmt.Errorf("create series %q: until %s precedes start %s: %w",
				subject, until.Format("2006-01-02"), start.Format("2006-01-02"), ErrInvalidRecurrence)
		}
		// The occurrence keeps the start's time of day, so an inclusive date
		// bound means the end of that day.
		y, m, d := until.Date()
		opt.Until = time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("create series %q: %v: %w", subject, err, ErrInvalidRecurrence)
	}

	duration := end.Sub(start)
	seriesID := uuid.New().String()
	starts := rule.All()
	events := make([]*models.Event, 0, len(starts))
	for _, s := range starts {
		events = append(events, &models.Event{
			Subject:  subject,
			Start:    s,
			End:      s.Add(duration),
			Public:   true,
			SeriesID: seriesID,
		})
	}
	return events, nil
}

func toByweekday(weekdays []time.Weekday) ([]rrule.Weekday, error) {
	seen := make(map[time.Weekday]struct{}, len(weekdays))
	out := make([]rrule.Weekday, 0, len(weekdays))
	for _, wd := range weekdays {
		if _, dup := seen[wd]; dup {
			continue
		}
		seen[wd] = struct{}{}
		rw, err := rruleWeekday(wd)
		if err != nil {
			return nil, err
		}
		out = append(out, rw)
	}
	return out, nil
}

func rruleWeekday(wd time.Weekday) (rrule.Weekday, error) {
	switch wd {
	case time.Monday:
		return rrule.MO, nil
	case time.Tuesday:
		return rrule.TU, nil
	case time.Wednesday:
		return rrule.WE, nil
	case time.Thursday:
		return rrule.TH, nil
	case time.Friday:
		return rrule.FR, nil
	case time.Saturday:
		return rrule.SA, nil
	case time.Sunday:
		return rrule.SU, nil
	}
	return rrule.MO, fmt.Errorf("weekday %d: %w", wd, ErrInvalidRecurrence)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
