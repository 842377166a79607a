package command_test

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"calbook/internal/calendar"
	"calbook/internal/command"
)

func newTestExecutor(t *testing.T) (*command.Executor, *calendar.Book, *bytes.Buffer) {
	t.Helper()
	book := calendar.NewBook()
	out := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return command.NewExecutor(book, out, logger), book, out
}

func run(t *testing.T, e *command.Executor, lines ...string) {
	t.Helper()
	for _, line := range lines {
		quit, err := e.Execute(line)
		require.NoError(t, err, "command %q", line)
		require.False(t, quit, "command %q", line)
	}
}

func TestExecute_CreateCalendarAndEvent(t *testing.T) {
	e, book, out := newTestExecutor(t)

	run(t, e,
		`create calendar --name Work --timezone America/New_York`,
		`create event "Team meeting" from 2024-01-02T09:00 to 2024-01-02T10:00`,
	)

	require.Equal(t, "Work", e.Active())
	cal, err := book.Calendar("Work")
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)
	require.Equal(t, "Team meeting", events[0].Subject)
	require.Contains(t, out.String(), `Created event "Team meeting"`)
}

func TestExecute_AllDayEventUsesWorkingHours(t *testing.T) {
	e, book, _ := newTestExecutor(t)

	run(t, e,
		`create calendar --name Work --timezone UTC`,
		`create event Offsite on 2024-01-02`,
	)

	cal, err := book.Calendar("Work")
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)
	require.Equal(t, "08:00", events[0].Start.Format("15:04"))
	require.Equal(t, "17:00", events[0].End.Format("15:04"))
}

func TestExecute_SeriesForms(t *testing.T) {
	e, book, out := newTestExecutor(t)

	run(t, e,
		`create calendar --name Work --timezone UTC`,
		`create event Standup from 2024-01-01T09:00 to 2024-01-01T09:15 repeats MW for 4 times`,
		`create event Review from 2024-01-01T16:00 to 2024-01-01T17:00 repeats F until 2024-01-31`,
	)

	cal, err := book.Calendar("Work")
	require.NoError(t, err)
	require.Len(t, cal.Events(), 4+4) // four Mon/Wed, four January Fridays
	require.Contains(t, out.String(), `Created series "Standup" with 4 occurrences`)
}

func TestExecute_EditScopes(t *testing.T) {
	e, book, _ := newTestExecutor(t)

	run(t, e,
		`create calendar --name Work --timezone UTC`,
		`create event Standup from 2024-01-01T09:00 to 2024-01-01T09:15 repeats MTWRF for 5 times`,
		`edit events subject Standup from 2024-01-03T09:00 with "Daily sync"`,
		`edit series location "Daily sync" from 2024-01-03T09:00 with "Room 1"`,
		`edit event status Standup from 2024-01-01T09:00 to 2024-01-01T09:15 with private`,
	)

	cal, err := book.Calendar("Work")
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 5)
	require.Equal(t, "Standup", events[0].Subject)
	require.Equal(t, "Standup", events[1].Subject)
	require.Equal(t, "Daily sync", events[2].Subject)
	for _, ev := range events {
		require.Equal(t, "Room 1", ev.Location)
	}
	require.False(t, events[0].Public)
	require.True(t, events[1].Public)
}

func TestExecute_PrintAndStatus(t *testing.T) {
	e, _, out := newTestExecutor(t)

	run(t, e,
		`create calendar --name Work --timezone UTC`,
		`create event Lunch from 2024-01-02T12:00 to 2024-01-02T13:00`,
	)

	out.Reset()
	run(t, e, `print events on 2024-01-02`)
	require.Contains(t, out.String(), "- Lunch: 2024-01-02 12:00 to 2024-01-02 13:00")

	out.Reset()
	run(t, e, `print events on 2024-01-03`)
	require.Contains(t, out.String(), "No events found")

	out.Reset()
	run(t, e, `show status on 2024-01-02T12:30`)
	require.Contains(t, out.String(), "busy")

	out.Reset()
	run(t, e, `show status on 2024-01-02T15:00`)
	require.Contains(t, out.String(), "available")
}

func TestExecute_CopyBetweenCalendars(t *testing.T) {
	e, book, _ := newTestExecutor(t)

	run(t, e,
		`create calendar --name Work --timezone America/New_York`,
		`create calendar --name Personal --timezone Europe/Paris`,
		`use calendar --name Work`,
		`create event Planning from 2024-01-02T09:00 to 2024-01-02T10:30`,
		`copy event Planning on 2024-01-02T09:00 --target Personal to 2024-01-09T15:00`,
	)

	personal, err := book.Calendar("Personal")
	require.NoError(t, err)
	got, ok := personal.Find("Planning", mustParse(t, "2024-01-09T15:00"))
	require.True(t, ok)
	require.Equal(t, 90*time.Minute, got.Duration())
}

func TestExecute_EditCalendar(t *testing.T) {
	e, book, _ := newTestExecutor(t)

	run(t, e,
		`create calendar --name Work --timezone UTC`,
		`edit calendar --name Work --property name Office`,
		`edit calendar --name Office --property timezone Asia/Tokyo`,
	)

	require.Equal(t, "Office", e.Active())
	cal, err := book.Calendar("Office")
	require.NoError(t, err)
	require.Equal(t, "Asia/Tokyo", cal.Zone().String())
}

func TestExecute_Errors(t *testing.T) {
	e, _, _ := newTestExecutor(t)

	_, err := e.Execute("frobnicate the calendar")
	require.ErrorContains(t, err, "unknown command")

	_, err = e.Execute("print events on 2024-01-02")
	require.ErrorContains(t, err, "no calendar in use")

	run(t, e, `create calendar --name Work --timezone UTC`)
	_, err = e.Execute(`use calendar --name Missing`)
	require.ErrorIs(t, err, calendar.ErrCalendarNotFound)

	_, err = e.Execute(`create event Broken from 2024-01-02T09:00 to yesterday`)
	require.ErrorContains(t, err, "invalid date-time")

	_, err = e.Execute(`create event "Unterminated from 2024-01-02T09:00 to 2024-01-02T10:00`)
	require.ErrorContains(t, err, "unterminated quote")
}

func TestExecute_ExitAndBlankLines(t *testing.T) {
	e, _, _ := newTestExecutor(t)

	quit, err := e.Execute("")
	require.NoError(t, err)
	require.False(t, quit)

	quit, err = e.Execute("# a comment")
	require.NoError(t, err)
	require.False(t, quit)

	quit, err = e.Execute("exit")
	require.NoError(t, err)
	require.True(t, quit)
}

func TestRunScript_StopsAtFirstError(t *testing.T) {
	e, book, _ := newTestExecutor(t)

	script := strings.Join([]string{
		`create calendar --name Work --timezone UTC`,
		`create event Ok from 2024-01-02T09:00 to 2024-01-02T10:00`,
		`create event Ok from 2024-01-02T09:00 to 2024-01-02T10:00`,
		`create event NeverReached from 2024-01-03T09:00 to 2024-01-03T10:00`,
	}, "\n")

	err := command.RunScript(strings.NewReader(script), e)
	require.ErrorIs(t, err, calendar.ErrDuplicateEvent)
	require.ErrorContains(t, err, "line 3")

	cal, lookupErr := book.Calendar("Work")
	require.NoError(t, lookupErr)
	require.Len(t, cal.Events(), 1)
}

func TestRunInteractive_ContinuesPastErrorsAndSaysGoodbye(t *testing.T) {
	e, book, out := newTestExecutor(t)

	input := strings.Join([]string{
		`create calendar --name Work --timezone UTC`,
		`bogus command`,
		`create event Ok from 2024-01-02T09:00 to 2024-01-02T10:00`,
		`exit`,
	}, "\n")

	err := command.RunInteractive(strings.NewReader(input), e)
	require.NoError(t, err)
	require.Contains(t, out.String(), "Error:")
	require.Contains(t, out.String(), "Goodbye")

	cal, lookupErr := book.Calendar("Work")
	require.NoError(t, lookupErr)
	require.Len(t, cal.Events(), 1)
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02T15:04", s)
	require.NoError(t, err)
	return parsed
}
