package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"calbook/internal/calendar"
)

func twoCalendars(t *testing.T) (*calendar.Calendar, *calendar.Calendar) {
	t.Helper()
	book := calendar.NewBook()
	src, err := book.CreateCalendar("Work", "America/New_York")
	require.NoError(t, err)
	dst, err := book.CreateCalendar("Personal", "Europe/Paris")
	require.NoError(t, err)
	return src, dst
}

func TestCopyEvent_PreservesDuration(t *testing.T) {
	src, dst := twoCalendars(t)
	start := naive("2024-01-02T09:00")

	_, err := src.CreateEvent("Planning", start, start.Add(90*time.Minute))
	require.NoError(t, err)

	targetStart := naive("2024-01-09T15:00")
	copied, err := src.CopyEvent("Planning", start, dst, targetStart)
	require.NoError(t, err)
	require.True(t, copied.Start.Equal(targetStart))
	require.Equal(t, 90*time.Minute, copied.Duration())

	got, ok := dst.Find("Planning", targetStart)
	require.True(t, ok)
	require.Equal(t, 90*time.Minute, got.Duration())

	// The source is untouched.
	_, ok = src.Find("Planning", start)
	require.True(t, ok)
}

func TestCopyEvent_Errors(t *testing.T) {
	src, dst := twoCalendars(t)
	start := naive("2024-01-02T09:00")

	_, err := src.CopyEvent("Missing", start, dst, start)
	require.ErrorIs(t, err, calendar.ErrEventNotFound)

	_, err = src.CreateEvent("Planning", start, start.Add(time.Hour))
	require.NoError(t, err)
	_, err = dst.CreateEvent("Planning", start, start.Add(time.Hour))
	require.NoError(t, err)

	_, err = src.CopyEvent("Planning", start, dst, start)
	require.ErrorIs(t, err, calendar.ErrDuplicateEvent)
}

func TestCopyEvent_DetachesFromSeries(t *testing.T) {
	src, dst := twoCalendars(t)

	events, err := src.CreateEventSeries("Standup",
		naive("2024-01-01T09:00"), naive("2024-01-01T09:15"),
		[]time.Weekday{time.Monday}, 2)
	require.NoError(t, err)

	copied, err := src.CopyEvent("Standup", events[0].Start, dst, naive("2024-02-05T09:00"))
	require.NoError(t, err)
	require.Empty(t, copied.SeriesID)
}

func TestCopyEventsOn_KeepsTimeOfDay(t *testing.T) {
	src, dst := twoCalendars(t)

	_, err := src.CreateEvent("Morning", naive("2024-01-02T08:30"), naive("2024-01-02T09:00"))
	require.NoError(t, err)
	_, err = src.CreateEvent("Evening", naive("2024-01-02T19:00"), naive("2024-01-02T20:30"))
	require.NoError(t, err)
	_, err = src.CreateEvent("OtherDay", naive("2024-01-03T08:30"), naive("2024-01-03T09:00"))
	require.NoError(t, err)

	copied, err := src.CopyEventsOn(naive("2024-01-02T00:00"), dst, naive("2024-03-10T00:00"))
	require.NoError(t, err)
	require.Len(t, copied, 2)

	morning, ok := dst.Find("Morning", naive("2024-03-10T08:30"))
	require.True(t, ok)
	require.Equal(t, 30*time.Minute, morning.Duration())
	evening, ok := dst.Find("Evening", naive("2024-03-10T19:00"))
	require.True(t, ok)
	require.Equal(t, 90*time.Minute, evening.Duration())
}

func TestCopyEventsOn_AtomicOnCollision(t *testing.T) {
	src, dst := twoCalendars(t)

	_, err := src.CreateEvent("A", naive("2024-01-02T08:00"), naive("2024-01-02T09:00"))
	require.NoError(t, err)
	_, err = src.CreateEvent("B", naive("2024-01-02T10:00"), naive("2024-01-02T11:00"))
	require.NoError(t, err)

	// Collides with B's copy only; still nothing may land in the target.
	_, err = dst.CreateEvent("B", naive("2024-03-10T10:00"), naive("2024-03-10T11:00"))
	require.NoError(t, err)

	_, err = src.CopyEventsOn(naive("2024-01-02T00:00"), dst, naive("2024-03-10T00:00"))
	require.ErrorIs(t, err, calendar.ErrDuplicateEvent)
	require.Len(t, dst.Events(), 1)
}

func TestCopyEventsBetween_ShiftsByAnchorOffset(t *testing.T) {
	src, dst := twoCalendars(t)

	_, err := src.CreateEvent("First", naive("2024-01-01T09:00"), naive("2024-01-01T10:00"))
	require.NoError(t, err)
	_, err = src.CreateEvent("Second", naive("2024-01-03T14:00"), naive("2024-01-03T15:00"))
	require.NoError(t, err)

	// Anchor ten days after the range start: every copy moves ten days.
	copied, err := src.CopyEventsBetween(naive("2024-01-01T00:00"), naive("2024-01-05T00:00"),
		dst, naive("2024-01-11T00:00"))
	require.NoError(t, err)
	require.Len(t, copied, 2)

	_, ok := dst.Find("First", naive("2024-01-11T09:00"))
	require.True(t, ok)
	_, ok = dst.Find("Second", naive("2024-01-13T14:00"))
	require.True(t, ok)
}

func TestCopyEventsBetween_RemapsSeriesIDs(t *testing.T) {
	src, dst := twoCalendars(t)

	events, err := src.CreateEventSeries("Standup",
		naive("2024-01-01T09:00"), naive("2024-01-01T09:15"),
		[]time.Weekday{time.Monday, time.Wednesday}, 4)
	require.NoError(t, err)

	copied, err := src.CopyEventsBetween(naive("2024-01-01T00:00"), naive("2024-01-31T00:00"),
		dst, naive("2024-02-05T00:00"))
	require.NoError(t, err)
	require.Len(t, copied, 4)

	// Copies stay grouped, but under a fresh series id.
	require.NotEmpty(t, copied[0].SeriesID)
	require.NotEqual(t, events[0].SeriesID, copied[0].SeriesID)
	for _, ev := range copied {
		require.Equal(t, copied[0].SeriesID, ev.SeriesID)
	}

	// Scoped edits work on the copied series.
	require.NoError(t, dst.EditSeries(copied[1].Subject, copied[1].Start,
		calendar.SetSubject{Subject: "Synced standup"}))
	for _, ev := range dst.Events() {
		require.Equal(t, "Synced standup", ev.Subject)
	}
}

func TestCopyEventsBetween_InvalidRange(t *testing.T) {
	src, dst := twoCalendars(t)

	_, err := src.CopyEventsBetween(naive("2024-01-05T00:00"), naive("2024-01-01T00:00"),
		dst, naive("2024-02-01T00:00"))
	require.ErrorIs(t, err, calendar.ErrInvalidInterval)
}
