package command

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateTimeLayout = "2006-01-02T15:04"
	dateLayout     = "2006-01-02"
)

// tokenize splits a command line on whitespace, keeping double-quoted
// stretches together so subjects and values may contain spaces.
func tokenize(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuotes := false
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range line {
		switch {
		case r == '"':
			if inQuotes {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inQuotes = false
			} else {
				flush()
				inQuotes = true
			}
		case !inQuotes && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated quote in %q", line)
	}
	flush()
	return tokens, nil
}

// parseDateTime parses a naive date-time like 2024-01-01T09:00. The result
// carries time.UTC as a wall-clock container, matching the engine's
// representation.
func parseDateTime(s string) (time.Time, error) {
	t, err := time.Parse(dateTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date-time %q (want yyyy-mm-ddThh:mm)", s)
	}
	return t, nil
}

// parseDate parses a naive date like 2024-01-01.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want yyyy-mm-dd)", s)
	}
	return t, nil
}

// parseWeekdays reads a weekday pattern written as the letters MTWRFSU
// (Monday through Sunday), e.g. "MWF".
func parseWeekdays(s string) ([]time.Weekday, error) {
	if s == "" {
		return nil, fmt.Errorf("empty weekday pattern")
	}
	var out []time.Weekday
	for _, r := range strings.ToUpper(s) {
		switch r {
		case 'M':
			out = append(out, time.Monday)
		case 'T':
			out = append(out, time.Tuesday)
		case 'W':
			out = append(out, time.Wednesday)
		case 'R':
			out = append(out, time.Thursday)
		case 'F':
			out = append(out, time.Friday)
		case 'S':
			out = append(out, time.Saturday)
		case 'U':
			out = append(out, time.Sunday)
		default:
			return nil, fmt.Errorf("invalid weekday letter %q in %q (use MTWRFSU)", string(r), s)
		}
	}
	return out, nil
}
