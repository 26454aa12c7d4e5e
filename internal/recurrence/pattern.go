// Package recurrence implements the frequency rules that turn a
// recurring obligation into concrete occurrence dates.
package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/billplan/backend/internal/types"
)

// swagger:enum Frequency
type Frequency string

const (
	FrequencyDaily     Frequency = "DAILY"
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyBiWeekly  Frequency = "BIWEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
)

var (
	ErrFrequencyInvalid      = errors.New("the frequency is not valid")
	ErrIntervalInvalid       = errors.New("the interval must be at least 1")
	ErrDayOfMonthOutOfRange  = errors.New("the day of the month must be between 1 and 31")
	ErrMonthOfYearOutOfRange = errors.New("the month of the year must be between 1 and 12")
	ErrDayOfWeekRequired     = errors.New("weekly and bi-weekly patterns must set a day of the week")
	ErrAnchorInvalid         = errors.New("this anchor cannot be used with the frequency")
)

// Pattern is a recurrence rule.
//
// Which anchor fields may be set depends on the frequency, Validate
// enforces exactly one consistent interpretation per frequency.
type Pattern struct {
	Frequency   Frequency     `json:"frequency" example:"MONTHLY"`
	Interval    uint          `json:"interval" example:"1" minimum:"1" default:"1"` // Multiplies the base frequency, e.g. MONTHLY with interval 2 recurs every second month
	DayOfMonth  *int          `json:"dayOfMonth" example:"31"`                      // Day of the month for MONTHLY, QUARTERLY and YEARLY. Days beyond the end of a month clamp to its last day
	DayOfWeek   *time.Weekday `json:"dayOfWeek" example:"4"`                        // Weekday for WEEKLY and BIWEEKLY, 0 is Sunday
	MonthOfYear *time.Month   `json:"monthOfYear" example:"2"`                      // Month anchor for YEARLY
}

// Validate checks that the pattern has a consistent interpretation.
func (p Pattern) Validate() error {
	if p.Interval < 1 {
		return ErrIntervalInvalid
	}

	if p.DayOfMonth != nil && (*p.DayOfMonth < 1 || *p.DayOfMonth > 31) {
		return ErrDayOfMonthOutOfRange
	}

	if p.MonthOfYear != nil && (*p.MonthOfYear < time.January || *p.MonthOfYear > time.December) {
		return ErrMonthOfYearOutOfRange
	}

	switch p.Frequency {
	case FrequencyDaily:
		if p.DayOfWeek != nil || p.DayOfMonth != nil || p.MonthOfYear != nil {
			return fmt.Errorf("%w: daily patterns do not use anchors", ErrAnchorInvalid)
		}

	case FrequencyWeekly, FrequencyBiWeekly:
		if p.DayOfWeek == nil {
			return ErrDayOfWeekRequired
		}
		if p.DayOfMonth != nil || p.MonthOfYear != nil {
			return fmt.Errorf("%w: weekly patterns only use a day of the week", ErrAnchorInvalid)
		}

	case FrequencyMonthly, FrequencyQuarterly:
		if p.DayOfWeek != nil || p.MonthOfYear != nil {
			return fmt.Errorf("%w: monthly and quarterly patterns only use a day of the month", ErrAnchorInvalid)
		}

	case FrequencyYearly:
		if p.DayOfWeek != nil {
			return fmt.Errorf("%w: yearly patterns do not use a day of the week", ErrAnchorInvalid)
		}

	default:
		return ErrFrequencyInvalid
	}

	return nil
}

// NextOnOrAfter returns the first occurrence of the pattern that is on
// or after from. Occurrences are anchored at start, the first day of the
// obligation's validity window, and never precede it.
//
// The pattern must have been validated, NextOnOrAfter does not check
// again.
func (p Pattern) NextOnOrAfter(start, from types.Date) types.Date {
	if from.Before(start) {
		from = start
	}

	switch p.Frequency {
	case FrequencyDaily:
		return nextByDays(start, from, int(p.Interval))

	case FrequencyWeekly:
		return nextByDays(p.firstWeekday(start), from, 7*int(p.Interval))

	case FrequencyBiWeekly:
		// Bi-weekly patterns carry their cadence in the interval,
		// an interval of 2 recurs every second week
		return nextByDays(p.firstWeekday(start), from, 7*int(p.Interval))

	case FrequencyMonthly:
		return p.nextByMonths(start, from, int(p.Interval))

	case FrequencyQuarterly:
		return p.nextByMonths(start, from, 3*int(p.Interval))

	case FrequencyYearly:
		return p.nextByMonths(start, from, 12*int(p.Interval))
	}

	// Unreachable for validated patterns
	return from
}

// firstWeekday returns the first date on or after start that falls on
// the pattern's weekday anchor.
func (p Pattern) firstWeekday(start types.Date) types.Date {
	offset := (int(*p.DayOfWeek) - int(start.Weekday()) + 7) % 7
	return start.AddDate(0, 0, offset)
}

// nextByDays advances from first in fixed steps of step days until
// reaching or passing from.
func nextByDays(first, from types.Date, step int) types.Date {
	days := types.DaysBetween(first, from)
	if days <= 0 {
		return first
	}

	// Round up to the next full step
	k := (days + step - 1) / step
	return first.AddDate(0, 0, k*step)
}

// nextByMonths advances in calendar month steps from the start month,
// landing on the day-of-month anchor clamped to each target month's
// actual length.
func (p Pattern) nextByMonths(start, from types.Date, stepMonths int) types.Date {
	day := start.Day()
	if p.DayOfMonth != nil {
		day = *p.DayOfMonth
	}

	// The month grid is anchored at the start month. A yearly month
	// anchor replaces the month but stays in the start year.
	anchorMonth := start.Month()
	if p.Frequency == FrequencyYearly && p.MonthOfYear != nil {
		anchorMonth = *p.MonthOfYear
	}

	first := monthIndex(start.Year(), anchorMonth)
	target := monthIndex(from.Year(), from.Month())

	k := 0
	if target > first {
		k = (target - first + stepMonths - 1) / stepMonths
	}

	candidate := dayInMonthIndex(first+k*stepMonths, day)
	if candidate.Before(from) {
		candidate = dayInMonthIndex(first+(k+1)*stepMonths, day)
	}

	return candidate
}

// monthIndex maps a year and month to a linear month count.
func monthIndex(year int, month time.Month) int {
	return year*12 + int(month) - 1
}

// dayInMonthIndex returns the date at the given linear month count,
// clamping the day to the month's length.
func dayInMonthIndex(index, day int) types.Date {
	year := index / 12
	month := time.Month(index%12 + 1)

	if max := types.DaysIn(year, month); day > max {
		day = max
	}

	return types.NewDate(year, month, day)
}
