// Package date provides the day granularity Date of ledger transactions.
//
// Dates are persisted as ISO-8601 text ("2022-07-19") and displayed as
// day-month-year ("19-07-2022").
package date

import (
	"fmt"
	"time"
)

const (
	// ISOFormat is the persisted form of a Date.
	ISOFormat = "2006-01-02"

	// DisplayFormat is the form of a Date in reports.
	DisplayFormat = "02-01-2006"

	// lenient form accepted by Parse, single digit months and days are allowed.
	readFormat = "2006-1-2"
)

// Date is a calendar day.
type Date struct {
	y int
	m time.Month
	d int
}

// midnight returns the canonical time of d, at midnight UTC.
func (d Date) midnight() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns the Date of the given day, normalized like time.Date: February 31 is March 3 (or 2).
func New(year int, month time.Month, day int) Date {
	y, m, dd := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return Date{y: y, m: m, d: dd}
}

// Today returns the current local day.
func Today() Date { return New(time.Now().Date()) }

func (d Date) Year() int         { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int          { return d.d }

// IsZero reports whether d is the zero Date, used for "no date".
func (d Date) IsZero() bool { return d == Date{} }

// String returns d in ISO format.
func (d Date) String() string { return d.midnight().Format(ISOFormat) }

// Display returns d as day-month-year.
func (d Date) Display() string { return d.midnight().Format(DisplayFormat) }

// Parse parses an ISO date. It accepts "2022-7-1" as well as "2022-07-01" but
// rejects days that do not exist.
func Parse(s string) (Date, error) {
	t, err := time.Parse(readFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	return New(t.Date()), nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}
