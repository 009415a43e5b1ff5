package services

import (
	"fmt"
	"time"

	"finrecon/internal/core"
)

// DuenessChecker is the per-frequency strategy for recurring charges:
// it decides whether a charge is due and computes the next due date once
// the charge has been materialized.
type DuenessChecker interface {
	IsDue(nextDue, now time.Time) bool
	Advance(nextDue time.Time) time.Time
}

// dueOnOrAfter implements the shared dueness rule: a charge is due as
// soon as now reaches its next-due date.
type dueOnOrAfter struct{}

func (dueOnOrAfter) IsDue(nextDue, now time.Time) bool {
	return !now.Before(nextDue)
}

// WeeklyChecker advances in plain seven-day steps.
type WeeklyChecker struct{ dueOnOrAfter }

func (WeeklyChecker) Advance(nextDue time.Time) time.Time {
	return nextDue.AddDate(0, 0, 7)
}

// MonthlyChecker advances by one calendar month, clamping to the last
// day when the target day does not exist (Jan 31 -> Feb 28).
type MonthlyChecker struct{ dueOnOrAfter }

func (MonthlyChecker) Advance(nextDue time.Time) time.Time {
	return addMonthsClamped(nextDue, 1)
}

// YearlyChecker advances by one year, clamping Feb 29 to Feb 28 off
// leap years.
type YearlyChecker struct{ dueOnOrAfter }

func (YearlyChecker) Advance(nextDue time.Time) time.Time {
	return addMonthsClamped(nextDue, 12)
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// duenessStrategies maps frequencies to their checkers.
var duenessStrategies = map[core.Frequency]DuenessChecker{
	core.FrequencyWeekly:  WeeklyChecker{},
	core.FrequencyMonthly: MonthlyChecker{},
	core.FrequencyYearly:  YearlyChecker{},
}

// GetDuenessChecker returns the checker for a frequency.
func GetDuenessChecker(frequency core.Frequency) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return checker, nil
}
