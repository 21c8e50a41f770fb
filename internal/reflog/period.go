package reflog

import (
	"errors"
	"fmt"
	"time"
)

// DisplayLayout is how entry dates are printed.
const DisplayLayout = "2006-01-02 03:04 PM"

// Period bounds entries by date. A zero bound is open.
type Period struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls within p, bounds included.
func (p Period) Contains(t time.Time) bool {
	if !p.From.IsZero() && t.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && t.After(p.To) {
		return false
	}
	return true
}

// DateFlags are the raw period flags of "dt reflog".
type DateFlags struct {
	Date     string
	FromDate string
	ToDate   string
	// Days is the positional shortcut: a day offset from today.
	Days *int
}

// ParsePeriod validates flags and turns them into a Period. layout is the
// Go time layout of the date flags; now anchors "today".
func ParsePeriod(flags DateFlags, layout string, now time.Time) (Period, error) {
	date := flags.Date
	if flags.Days != nil && date == "" && flags.FromDate == "" && flags.ToDate == "" {
		date = now.AddDate(0, 0, *flags.Days).Format(layout)
	}
	if date != "" && (flags.FromDate != "" || flags.ToDate != "") {
		return Period{}, errors.New(`--date cannot be used with "--from-date" or "--to-date"`)
	}

	endOfToday := endOfDay(now)

	if date != "" {
		d, err := parseDate(date, layout, "--date", now.Location())
		if err != nil {
			return Period{}, err
		}
		if d.After(endOfToday) {
			return Period{}, errors.New("--date cannot exceed current date")
		}
		return Period{From: d, To: endOfDay(d)}, nil
	}

	var p Period
	if flags.FromDate != "" {
		d, err := parseDate(flags.FromDate, layout, "--from-date", now.Location())
		if err != nil {
			return Period{}, err
		}
		if d.After(endOfToday) {
			return Period{}, errors.New("--from-date cannot exceed current date")
		}
		p.From = d
	}
	if flags.ToDate != "" {
		d, err := parseDate(flags.ToDate, layout, "--to-date", now.Location())
		if err != nil {
			return Period{}, err
		}
		p.To = endOfDay(d)
	}
	return p, nil
}

func parseDate(value, layout, flag string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s not recognized as a date [%s]", flag, value)
	}
	return startOfDay(d), nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
