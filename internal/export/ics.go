package export

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"calbook/internal/models"
)

// Source is the slice of the calendar engine an exporter needs: the sorted
// event enumeration plus the zone math to turn naive date-times into
// instants.
type Source interface {
	Name() string
	Events() []*models.Event
	Absolute(t time.Time) time.Time
}

// WriteICS encodes every event of the calendar as an iCalendar stream.
// Naive date-times are resolved to instants in the calendar's zone and
// written as UTC.
func WriteICS(w io.Writer, cal Source) error {
	out := ical.NewCalendar()
	out.Props.SetText(ical.PropVersion, "2.0")
	out.Props.SetText(ical.PropProductID, "-//calbook//EN")
	out.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	now := time.Now().UTC()
	for _, ev := range cal.Events() {
		out.Children = append(out.Children, toVEvent(cal, ev, now))
	}

	if err := ical.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encode calendar %q to iCal: %w", cal.Name(), err)
	}
	return nil
}

func toVEvent(cal Source, ev *models.Event, stamp time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, uuid.New().String())
	ve.Props.SetText(ical.PropSummary, ev.Subject)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ve.Props.SetDateTime(ical.PropDateTimeStart, cal.Absolute(ev.Start).UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, cal.Absolute(ev.End).UTC())

	if ev.Description != "" {
		ve.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Location != "" {
		ve.Props.SetText(ical.PropLocation, ev.Location)
	}
	class := "PRIVATE"
	if ev.Public {
		class = "PUBLIC"
	}
	ve.Props.SetText(ical.PropClass, class)
	return ve
}
