package domain

import (
	"time"

	dErrors "geoclock/pkg/domain-errors"
)

const workDateLayout = "2006-01-02"

// WorkDate is the calendar day an attendance session belongs to.
// Invariant: always a valid YYYY-MM-DD date.
type WorkDate string

// WorkDateOf returns the calendar date of t in loc.
func WorkDateOf(t time.Time, loc *time.Location) WorkDate {
	if loc != nil {
		t = t.In(loc)
	}
	return WorkDate(t.Format(workDateLayout))
}

// ParseWorkDate validates external input.
func ParseWorkDate(s string) (WorkDate, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "work_date is required")
	}
	if _, err := time.Parse(workDateLayout, s); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInvalidInput, "work_date must be YYYY-MM-DD")
	}
	return WorkDate(s), nil
}

func (d WorkDate) String() string { return string(d) }

// Time returns midnight of the date in loc.
func (d WorkDate) Time(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(workDateLayout, string(d), loc)
}
