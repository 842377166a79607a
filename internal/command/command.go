// Package command implements the single-line command language shared by the
// interactive shell and the headless script runner. It drives the calendar
// engine only through its public operations.
package command

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"calbook/internal/calendar"
	"calbook/internal/export"
	"calbook/internal/models"
)

// Default working hours used when an event is created for a whole day.
const (
	workingDayStartHour = 8
	workingDayEndHour   = 17
)

// Executor parses and runs commands against a calendar book. It tracks which
// calendar is in use and writes human-readable results to out.
type Executor struct {
	book   *calendar.Book
	out    io.Writer
	logger *slog.Logger
	active string
}

// NewExecutor returns an executor over the given book. Output goes to out;
// the logger receives per-command diagnostics.
func NewExecutor(book *calendar.Book, out io.Writer, logger *slog.Logger) *Executor {
	return &Executor{book: book, out: out, logger: logger}
}

// Use selects the named calendar for subsequent event commands.
func (e *Executor) Use(name string) error {
	if !e.book.HasCalendar(name) {
		return fmt.Errorf("use calendar %q: %w", name, calendar.ErrCalendarNotFound)
	}
	e.active = name
	return nil
}

// Active returns the name of the calendar in use, or "" when none is.
func (e *Executor) Active() string {
	return e.active
}

// Execute runs one command line. It returns true when the session should
// end. Blank lines and #-comments are ignored.
func (e *Executor) Execute(line string) (bool, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return false, err
	}
	if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
		return false, nil
	}
	e.logger.Debug("executing command", "command", tokens[0], "line", line)

	switch tokens[0] {
	case "exit":
		return true, nil
	case "create":
		return false, e.create(tokens)
	case "edit":
		return false, e.edit(tokens)
	case "use":
		return false, e.useCalendar(tokens)
	case "print":
		return false, e.print(tokens)
	case "show":
		return false, e.showStatus(tokens)
	case "copy":
		return false, e.copy(tokens)
	case "export":
		return false, e.export(tokens)
	}
	return false, fmt.Errorf("unknown command %q", tokens[0])
}

func (e *Executor) create(tokens []string) error {
	if len(tokens) < 2 {
		return fmt.Errorf("create: expected 'calendar' or 'event'")
	}
	switch tokens[1] {
	case "calendar":
		name, err := flagValue(tokens, "--name")
		if err != nil {
			return err
		}
		zone, err := flagValue(tokens, "--timezone")
		if err != nil {
			return err
		}
		if _, err := e.book.CreateCalendar(name, zone); err != nil {
			return err
		}
		e.active = name
		fmt.Fprintf(e.out, "Created calendar %q (%s)\n", name, zone)
		return nil
	case "event":
		return e.createEvent(tokens)
	}
	return fmt.Errorf("create: unknown target %q", tokens[1])
}

// createEvent handles both timed and all-day forms:
//
//	create event <subject> from <dt> to <dt> [repeats <MTWRFSU> for <n> times]
//	create event <subject> from <dt> to <dt> [repeats <MTWRFSU> until <date>]
//	create event <subject> on <date> [repeats ...]
func (e *Executor) createEvent(tokens []string) error {
	cal, err := e.activeCalendar()
	if err != nil {
		return err
	}
	if len(tokens) < 5 {
		return fmt.Errorf("create event: expected 'from <dt> to <dt>' or 'on <date>'")
	}
	subject := tokens[2]

	var start, end time.Time
	rest := tokens[3:]
	switch rest[0] {
	case "from":
		if len(rest) < 4 || rest[2] != "to" {
			return fmt.Errorf("create event: expected 'from <dt> to <dt>'")
		}
		if start, err = parseDateTime(rest[1]); err != nil {
			return err
		}
		if end, err = parseDateTime(rest[3]); err != nil {
			return err
		}
		rest = rest[4:]
	case "on":
		day, err := parseDate(rest[1])
		if err != nil {
			return err
		}
		start = day.Add(workingDayStartHour * time.Hour)
		end = day.Add(workingDayEndHour * time.Hour)
		rest = rest[2:]
	default:
		return fmt.Errorf("create event: expected 'from' or 'on', got %q", rest[0])
	}

	if len(rest) == 0 {
		if _, err := cal.CreateEvent(subject, start, end); err != nil {
			return err
		}
		fmt.Fprintf(e.out, "Created event %q\n", subject)
		return nil
	}

	if rest[0] != "repeats" || len(rest) < 4 {
		return fmt.Errorf("create event: expected 'repeats <weekdays> for <n> times' or 'repeats <weekdays> until <date>'")
	}
	weekdays, err := parseWeekdays(rest[1])
	if err != nil {
		return err
	}
	var events []*models.Event
	switch rest[2] {
	case "for":
		if len(rest) < 5 || rest[4] != "times" {
			return fmt.Errorf("create event: expected 'for <n> times'")
		}
		var count int
		if _, err := fmt.Sscanf(rest[3], "%d", &count); err != nil {
			return fmt.Errorf("invalid occurrence count %q", rest[3])
		}
		events, err = cal.CreateEventSeries(subject, start, end, weekdays, count)
		if err != nil {
			return err
		}
	case "until":
		until, err := parseDate(rest[3])
		if err != nil {
			return err
		}
		events, err = cal.CreateEventSeriesUntil(subject, start, end, weekdays, until)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("create event: expected 'for' or 'until', got %q", rest[2])
	}
	fmt.Fprintf(e.out, "Created series %q with %d occurrences\n", subject, len(events))
	return nil
}

func (e *Executor) edit(tokens []string) error {
	if len(tokens) < 2 {
		return fmt.Errorf("edit: expected 'calendar', 'event', 'events' or 'series'")
	}
	switch tokens[1] {
	case "calendar":
		return e.editCalendar(tokens)
	case "event", "events", "series":
		return e.editEvent(tokens)
	}
	return fmt.Errorf("edit: unknown target %q", tokens[1])
}

// editCalendar handles:
//
//	edit calendar --name <name> --property name <newName>
//	edit calendar --name <name> --property timezone <zone>
func (e *Executor) editCalendar(tokens []string) error {
	name, err := flagValue(tokens, "--name")
	if err != nil {
		return err
	}
	prop, err := flagValue(tokens, "--property")
	if err != nil {
		return err
	}
	value, err := flagFollowing(tokens, "--property")
	if err != nil {
		return err
	}
	switch prop {
	case "name":
		if err := e.book.RenameCalendar(name, value); err != nil {
			return err
		}
		if e.active == name {
			e.active = value
		}
		fmt.Fprintf(e.out, "Renamed calendar %q to %q\n", name, value)
		return nil
	case "timezone":
		if err := e.book.SetTimezone(name, value); err != nil {
			return err
		}
		fmt.Fprintf(e.out, "Calendar %q now uses timezone %s\n", name, value)
		return nil
	}
	return fmt.Errorf("edit calendar: unknown property %q", prop)
}

// editEvent handles the three scopes:
//
//	edit event <prop> <subject> from <dt> to <dt> with <value>
//	edit events <prop> <subject> from <dt> with <value>
//	edit series <prop> <subject> from <dt> with <value>
func (e *Executor) editEvent(tokens []string) error {
	cal, err := e.activeCalendar()
	if err != nil {
		return err
	}
	if len(tokens) < 8 || tokens[4] != "from" {
		return fmt.Errorf("edit %s: expected '<property> <subject> from <dt> ... with <value>'", tokens[1])
	}
	prop, subject := tokens[2], tokens[3]
	start, err := parseDateTime(tokens[5])
	if err != nil {
		return err
	}

	rest := tokens[6:]
	if tokens[1] == "event" {
		// The single-event form also names the end as part of the locator.
		if len(rest) < 4 || rest[0] != "to" {
			return fmt.Errorf("edit event: expected 'from <dt> to <dt> with <value>'")
		}
		end, err := parseDateTime(rest[1])
		if err != nil {
			return err
		}
		ev, ok := cal.Find(subject, start)
		if !ok || !ev.End.Equal(end) {
			return fmt.Errorf("edit event %q from %s to %s: %w", subject, tokens[5], rest[1], calendar.ErrEventNotFound)
		}
		rest = rest[2:]
	}
	if len(rest) < 2 || rest[0] != "with" {
		return fmt.Errorf("edit %s: expected 'with <value>'", tokens[1])
	}
	change, err := buildChange(prop, rest[1])
	if err != nil {
		return err
	}

	switch tokens[1] {
	case "event":
		err = cal.EditEvent(subject, start, change)
	case "events":
		err = cal.EditEventsFrom(subject, start, change)
	case "series":
		err = cal.EditSeries(subject, start, change)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Edited %s of %q\n", prop, subject)
	return nil
}

func buildChange(prop, value string) (calendar.Change, error) {
	switch prop {
	case "subject":
		return calendar.SetSubject{Subject: value}, nil
	case "start":
		t, err := parseDateTime(value)
		if err != nil {
			return nil, err
		}
		return calendar.SetStart{Start: t}, nil
	case "end":
		t, err := parseDateTime(value)
		if err != nil {
			return nil, err
		}
		return calendar.SetEnd{End: t}, nil
	case "description":
		return calendar.SetDescription{Description: value}, nil
	case "location":
		return calendar.SetLocation{Location: value}, nil
	case "status":
		switch value {
		case "public":
			return calendar.SetVisibility{Public: true}, nil
		case "private":
			return calendar.SetVisibility{Public: false}, nil
		}
		return nil, fmt.Errorf("invalid status %q (use public or private)", value)
	}
	return nil, fmt.Errorf("unknown property %q", prop)
}

func (e *Executor) useCalendar(tokens []string) error {
	if len(tokens) < 2 || tokens[1] != "calendar" {
		return fmt.Errorf("use: expected 'use calendar --name <name>'")
	}
	name, err := flagValue(tokens, "--name")
	if err != nil {
		return err
	}
	if err := e.Use(name); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Using calendar %q\n", name)
	return nil
}

// print handles:
//
//	print events on <date>
//	print events from <dt> to <dt>
func (e *Executor) print(tokens []string) error {
	cal, err := e.activeCalendar()
	if err != nil {
		return err
	}
	if len(tokens) < 4 || tokens[1] != "events" {
		return fmt.Errorf("print: expected 'events on <date>' or 'events from <dt> to <dt>'")
	}
	var events []*models.Event
	switch tokens[2] {
	case "on":
		day, err := parseDate(tokens[3])
		if err != nil {
			return err
		}
		events = cal.EventsOn(day)
	case "from":
		if len(tokens) < 6 || tokens[4] != "to" {
			return fmt.Errorf("print: expected 'events from <dt> to <dt>'")
		}
		from, err := parseDateTime(tokens[3])
		if err != nil {
			return err
		}
		to, err := parseDateTime(tokens[5])
		if err != nil {
			return err
		}
		events = cal.EventsInRange(from, to)
	default:
		return fmt.Errorf("print: expected 'on' or 'from', got %q", tokens[2])
	}

	if len(events) == 0 {
		fmt.Fprintln(e.out, "No events found")
		return nil
	}
	for _, ev := range events {
		line := fmt.Sprintf("- %s: %s to %s", ev.Subject,
			ev.Start.Format("2006-01-02 15:04"), ev.End.Format("2006-01-02 15:04"))
		if ev.Location != "" {
			line += " @ " + ev.Location
		}
		fmt.Fprintln(e.out, line)
	}
	return nil
}

func (e *Executor) showStatus(tokens []string) error {
	cal, err := e.activeCalendar()
	if err != nil {
		return err
	}
	if len(tokens) < 4 || tokens[1] != "status" || tokens[2] != "on" {
		return fmt.Errorf("show: expected 'status on <dt>'")
	}
	t, err := parseDateTime(tokens[3])
	if err != nil {
		return err
	}
	if cal.BusyAt(t) {
		fmt.Fprintln(e.out, "busy")
	} else {
		fmt.Fprintln(e.out, "available")
	}
	return nil
}

// copy handles:
//
//	copy event <subject> on <dt> --target <cal> to <dt>
//	copy events on <date> --target <cal> to <date>
//	copy events between <date> and <date> --target <cal> to <date>
func (e *Executor) copy(tokens []string) error {
	cal, err := e.activeCalendar()
	if err != nil {
		return err
	}
	if len(tokens) < 2 {
		return fmt.Errorf("copy: expected 'event' or 'events'")
	}
	targetName, err := flagValue(tokens, "--target")
	if err != nil {
		return err
	}
	target, err := e.book.Calendar(targetName)
	if err != nil {
		return err
	}

	switch tokens[1] {
	case "event":
		if len(tokens) < 9 || tokens[3] != "on" || tokens[7] != "to" {
			return fmt.Errorf("copy event: expected '<subject> on <dt> --target <cal> to <dt>'")
		}
		start, err := parseDateTime(tokens[4])
		if err != nil {
			return err
		}
		targetStart, err := parseDateTime(tokens[8])
		if err != nil {
			return err
		}
		if _, err := cal.CopyEvent(tokens[2], start, target, targetStart); err != nil {
			return err
		}
		fmt.Fprintf(e.out, "Copied event %q to %q\n", tokens[2], targetName)
		return nil
	case "events":
		switch tokens[2] {
		case "on":
			if len(tokens) < 8 || tokens[6] != "to" {
				return fmt.Errorf("copy events: expected 'on <date> --target <cal> to <date>'")
			}
			day, err := parseDate(tokens[3])
			if err != nil {
				return err
			}
			targetDay, err := parseDate(tokens[7])
			if err != nil {
				return err
			}
			copied, err := cal.CopyEventsOn(day, target, targetDay)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Copied %d events to %q\n", len(copied), targetName)
			return nil
		case "between":
			if len(tokens) < 10 || tokens[4] != "and" || tokens[8] != "to" {
				return fmt.Errorf("copy events: expected 'between <date> and <date> --target <cal> to <date>'")
			}
			from, err := parseDate(tokens[3])
			if err != nil {
				return err
			}
			to, err := parseDate(tokens[5])
			if err != nil {
				return err
			}
			anchor, err := parseDate(tokens[9])
			if err != nil {
				return err
			}
			copied, err := cal.CopyEventsBetween(from, to, target, anchor)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Copied %d events to %q\n", len(copied), targetName)
			return nil
		}
	}
	return fmt.Errorf("copy: expected 'event ... on', 'events on' or 'events between'")
}

func (e *Executor) export(tokens []string) error {
	cal, err := e.activeCalendar()
	if err != nil {
		return err
	}
	if len(tokens) < 3 || tokens[1] != "cal" {
		return fmt.Errorf("export: expected 'cal <file.ics|file.csv>'")
	}
	path, err := export.ToFile(tokens[2], cal)
	if err != nil {
		return err
	}
	e.logger.Info("exported calendar", "calendar", cal.Name(), "path", path)
	fmt.Fprintf(e.out, "Exported to %s\n", path)
	return nil
}

func (e *Executor) activeCalendar() (*calendar.Calendar, error) {
	if e.active == "" {
		return nil, fmt.Errorf("no calendar in use (run 'use calendar --name <name>' first)")
	}
	return e.book.Calendar(e.active)
}

// flagValue returns the token following the given flag.
func flagValue(tokens []string, flag string) (string, error) {
	for i, t := range tokens {
		if t == flag {
			if i+1 >= len(tokens) {
				return "", fmt.Errorf("flag %s needs a value", flag)
			}
			return tokens[i+1], nil
		}
	}
	return "", fmt.Errorf("missing required flag %s", flag)
}

// flagFollowing returns the second token after the given flag, for flags that
// take a property name and a value.
func flagFollowing(tokens []string, flag string) (string, error) {
	for i, t := range tokens {
		if t == flag {
			if i+2 >= len(tokens) {
				return "", fmt.Errorf("flag %s needs a property and a value", flag)
			}
			return tokens[i+2], nil
		}
	}
	return "", fmt.Errorf("missing required flag %s", flag)
}
