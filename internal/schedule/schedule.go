// Package schedule computes lubrication due dates and due status. Every
// function takes "today" explicitly and never reads the system clock.
package schedule

import "github.com/vbonduro/lubetrack/internal/domain"

// NextDueDate adds cycleDays calendar days to from.
func NextDueDate(from domain.Date, cycleDays int) domain.Date {
	return from.AddDays(cycleDays)
}

// StatusOf classifies a due date against today.
func StatusOf(nextDue, today domain.Date) domain.Status {
	switch c := nextDue.Compare(today); {
	case c < 0:
		return domain.StatusOverdue
	case c == 0:
		return domain.StatusDue
	default:
		return domain.StatusOK
	}
}

// DaysOverdue returns how many days nextDue lies before today, or 0.
func DaysOverdue(nextDue, today domain.Date) int {
	if n := today.DaysSince(nextDue); n > 0 {
		return n
	}
	return 0
}
