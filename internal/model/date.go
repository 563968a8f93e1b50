package model

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form. The hotel's operating date,
// check-in and check-out dates are all plain calendar dates with no time or
// timezone component, and in this form lexicographic order equals
// chronological order.
type Date string

// ParseDate validates s as a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(s), nil
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// Valid reports whether d is a well-formed YYYY-MM-DD date.
func (d Date) Valid() bool {
	_, err := time.Parse(dateLayout, string(d))
	return err == nil
}

// Time returns the date at midnight UTC. d must be valid.
func (d Date) Time() time.Time {
	t, _ := time.Parse(dateLayout, string(d))
	return t
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Before(other Date) bool { return d < other }

func (d Date) After(other Date) bool { return d > other }

// Month returns the YYYY-MM prefix of the date.
func (d Date) Month() string {
	if len(d) < 7 {
		return string(d)
	}
	return string(d[:7])
}

// NightsBetween returns the number of nights in the half-open range
// [checkIn, checkOut). It is zero or negative when the range is empty.
func NightsBetween(checkIn, checkOut Date) int {
	return int(checkOut.Time().Sub(checkIn.Time()).Hours() / 24)
}
