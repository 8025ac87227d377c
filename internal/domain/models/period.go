package models

import (
	"fmt"
	"time"
)

// PeriodKind distinguishes a single calendar date from a whole month.
type PeriodKind string

const (
	PeriodDay   PeriodKind = "day"
	PeriodMonth PeriodKind = "month"
)

const (
	dayLayout   = "20060102"
	monthLayout = "200601"

	minPeriodYear = 2000
	maxPeriodYear = 2099
)

// Period identifies one editable menu scope: a day keyed YYYYMMDD or a
// month keyed YYYYMM. Keys are local calendar values, never UTC-shifted.
type Period struct {
	Kind PeriodKind `json:"kind"`
	Key  string     `json:"key"`
}

// ParseDay validates a YYYYMMDD key and returns the day period.
func ParseDay(key string) (Period, error) {
	t, err := time.ParseInLocation(dayLayout, key, time.Local)
	if err != nil {
		return Period{}, fmt.Errorf("%w: day %q must be YYYYMMDD", ErrInvalidPeriod, key)
	}
	if err := checkYear(t.Year()); err != nil {
		return Period{}, err
	}
	return Period{Kind: PeriodDay, Key: key}, nil
}

// ParseMonth validates a YYYYMM key and returns the month period.
func ParseMonth(key string) (Period, error) {
	t, err := time.ParseInLocation(monthLayout, key, time.Local)
	if err != nil {
		return Period{}, fmt.Errorf("%w: month %q must be YYYYMM", ErrInvalidPeriod, key)
	}
	if err := checkYear(t.Year()); err != nil {
		return Period{}, err
	}
	return Period{Kind: PeriodMonth, Key: key}, nil
}

// DayPeriod renders a time as a day period using the local calendar.
func DayPeriod(t time.Time) Period {
	return Period{Kind: PeriodDay, Key: t.Format(dayLayout)}
}

// MonthPeriod renders a time as a month period using the local calendar.
func MonthPeriod(t time.Time) Period {
	return Period{Kind: PeriodMonth, Key: t.Format(monthLayout)}
}

// Validate re-checks a period built outside the parse helpers.
func (p Period) Validate() error {
	switch p.Kind {
	case PeriodDay:
		_, err := ParseDay(p.Key)
		return err
	case PeriodMonth:
		_, err := ParseMonth(p.Key)
		return err
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPeriod, p.Kind)
	}
}

func (p Period) String() string {
	return string(p.Kind) + ":" + p.Key
}

func checkYear(year int) error {
	if year < minPeriodYear || year > maxPeriodYear {
		return fmt.Errorf("%w: year %d not in [%d, %d]", ErrPeriodOutOfRange, year, minPeriodYear, maxPeriodYear)
	}
	return nil
}
