// Package engagement derives login-streak updates and weekly-window
// resets from calendar dates. All functions take the date explicitly;
// the caller injects the clock so transitions are testable.
package engagement

import (
	"time"

	"learningleague/internal/domain"
)

// Clock supplies the current calendar date. Production uses
// SystemClock; tests inject fixed dates.
type Clock interface {
	Today() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Today() time.Time {
	return DateOf(time.Now().UTC())
}

// FixedClock always returns the same date. Test helper.
type FixedClock struct{ Date time.Time }

func (c FixedClock) Today() time.Time { return DateOf(c.Date) }

// DateOf truncates a timestamp to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// daysBetween returns whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// WeekStart returns the start of the weekly window containing the
// date. Windows begin on Sunday, matching the Sunday-based day
// indexing of the penalty checkpoint; weekly XP accumulates from
// Sunday and the Thursday checkpoint evaluates the same window.
func WeekStart(t time.Time) time.Time {
	d := DateOf(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// ApplyLogin updates the login streak for a login on today's date.
// Same-day re-logins never inflate the streak; a login exactly one
// day after the last one extends it; any wider gap, or a first-ever
// login, starts a new streak at 1.
func ApplyLogin(today time.Time, u *domain.User) {
	today = DateOf(today)

	switch {
	case u.LastLoginDate == nil:
		u.LoginStreak = 1
	case SameDay(*u.LastLoginDate, today):
		// re-entrant login, streak unchanged
	case daysBetween(*u.LastLoginDate, today) == 1:
		u.LoginStreak++
	default:
		u.LoginStreak = 1
	}

	if u.LoginStreak > u.BestStreak {
		u.BestStreak = u.LoginStreak
	}
	u.LastLoginDate = &today
}

// ApplyWeeklyReset zeroes WeeklyXP when today falls in a newer weekly
// window than the one recorded on the user. Returns true if a reset
// happened so the store knows to persist it.
func ApplyWeeklyReset(today time.Time, u *domain.User) bool {
	ws := WeekStart(today)
	if u.WeekStart != nil && u.WeekStart.Equal(ws) {
		return false
	}
	u.WeeklyXP = 0
	u.LessonsThisWeek = 0
	u.WeekStart = &ws
	return true
}
