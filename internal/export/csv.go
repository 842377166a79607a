package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

const (
	csvDateLayout = "01/02/2006"
	csvTimeLayout = "03:04 PM"
)

// WriteCSV writes the calendar as a spreadsheet-importable CSV listing,
// one row per event, dates and times rendered as the calendar's naive
// wall-clock values.
func WriteCSV(w io.Writer, cal Source) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Subject", "Start Date", "Start Time", "End Date", "End Time",
		"Description", "Location", "Private",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, ev := range cal.Events() {
		private := "True"
		if ev.Public {
			private = "False"
		}
		row := []string{
			ev.Subject,
			ev.Start.Format(csvDateLayout),
			ev.Start.Format(csvTimeLayout),
			ev.End.Format(csvDateLayout),
			ev.End.Format(csvTimeLayout),
			ev.Description,
			ev.Location,
			private,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV row for %q: %w", ev.Subject, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush CSV for calendar %q: %w", cal.Name(), err)
	}
	return nil
}
