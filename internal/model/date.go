package model

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a local calendar day with no time component. Two Dates are the
// same day iff they are equal.
type Date string

func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return "", fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool {
	return d == ""
}

// Time returns midnight local time on the day.
func (d Date) Time() (time.Time, error) {
	return time.ParseInLocation(dateLayout, string(d), time.Local)
}

func (d Date) AddDays(n int) Date {
	t, err := d.Time()
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

func (d Date) String() string {
	return string(d)
}
