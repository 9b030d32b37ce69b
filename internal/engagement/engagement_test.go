package engagement

import (
	"testing"
	"time"

	"learningleague/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestApplyLogin(t *testing.T) {
	base := date(2025, time.March, 10) // a Monday

	cases := []struct {
		name       string
		lastLogin  *time.Time
		streak     int
		today      time.Time
		wantStreak int
	}{
		{
			name:       "first ever login",
			lastLogin:  nil,
			streak:     0,
			today:      base,
			wantStreak: 1,
		},
		{
			name:       "next day extends streak",
			lastLogin:  &base,
			streak:     5,
			today:      base.AddDate(0, 0, 1),
			wantStreak: 6,
		},
		{
			name:       "same day unchanged",
			lastLogin:  &base,
			streak:     5,
			today:      base,
			wantStreak: 5,
		},
		{
			name:       "three day gap resets",
			lastLogin:  &base,
			streak:     5,
			today:      base.AddDate(0, 0, 3),
			wantStreak: 1,
		},
		{
			name:       "two day gap resets",
			lastLogin:  &base,
			streak:     12,
			today:      base.AddDate(0, 0, 2),
			wantStreak: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := &domain.User{Role: domain.RoleStudent, LoginStreak: tc.streak}
			if tc.lastLogin != nil {
				d := *tc.lastLogin
				u.LastLoginDate = &d
			}

			ApplyLogin(tc.today, u)

			if u.LoginStreak != tc.wantStreak {
				t.Errorf("streak = %d; want %d", u.LoginStreak, tc.wantStreak)
			}
			if u.LastLoginDate == nil || !u.LastLoginDate.Equal(DateOf(tc.today)) {
				t.Errorf("last login date = %v; want %v", u.LastLoginDate, DateOf(tc.today))
			}
		})
	}
}

func TestApplyLoginTracksBestStreak(t *testing.T) {
	u := &domain.User{Role: domain.RoleStudent}
	day := date(2025, time.June, 1)

	for i := 0; i < 4; i++ {
		ApplyLogin(day.AddDate(0, 0, i), u)
	}
	if u.BestStreak != 4 {
		t.Fatalf("best streak = %d; want 4", u.BestStreak)
	}

	// break the streak, best must survive
	ApplyLogin(day.AddDate(0, 0, 10), u)
	if u.LoginStreak != 1 {
		t.Fatalf("streak after gap = %d; want 1", u.LoginStreak)
	}
	if u.BestStreak != 4 {
		t.Fatalf("best streak after gap = %d; want 4", u.BestStreak)
	}
}

func TestApplyLoginUsesCalendarDaysNotHours(t *testing.T) {
	// 23:30 one day to 00:30 the next is a one-hour gap but a new
	// calendar day, so the streak must extend.
	last := time.Date(2025, time.March, 10, 23, 30, 0, 0, time.UTC)
	lastDay := DateOf(last)
	u := &domain.User{Role: domain.RoleStudent, LoginStreak: 2, LastLoginDate: &lastDay}

	ApplyLogin(time.Date(2025, time.March, 11, 0, 30, 0, 0, time.UTC), u)

	if u.LoginStreak != 3 {
		t.Fatalf("streak = %d; want 3", u.LoginStreak)
	}
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		day  time.Time
		want time.Time
	}{
		{date(2025, time.March, 9), date(2025, time.March, 9)},   // Sunday
		{date(2025, time.March, 10), date(2025, time.March, 9)},  // Monday
		{date(2025, time.March, 13), date(2025, time.March, 9)},  // Thursday
		{date(2025, time.March, 15), date(2025, time.March, 9)},  // Saturday
		{date(2025, time.March, 16), date(2025, time.March, 16)}, // next Sunday
	}

	for _, tc := range cases {
		if got := WeekStart(tc.day); !got.Equal(tc.want) {
			t.Fatalf("WeekStart(%v) = %v; want %v", tc.day, got, tc.want)
		}
	}
}

func TestApplyWeeklyReset(t *testing.T) {
	thursday := date(2025, time.March, 13)
	sunday := WeekStart(thursday)

	u := &domain.User{Role: domain.RoleStudent, WeeklyXP: 42, WeekStart: &sunday}

	// same window: no reset
	if reset := ApplyWeeklyReset(thursday, u); reset {
		t.Fatal("reset within the same window")
	}
	if u.WeeklyXP != 42 {
		t.Fatalf("weekly xp = %d; want 42", u.WeeklyXP)
	}

	// next window: reset to zero
	nextMonday := date(2025, time.March, 17)
	if reset := ApplyWeeklyReset(nextMonday, u); !reset {
		t.Fatal("expected reset in new window")
	}
	if u.WeeklyXP != 0 {
		t.Fatalf("weekly xp = %d; want 0", u.WeeklyXP)
	}
	if u.WeekStart == nil || !u.WeekStart.Equal(date(2025, time.March, 16)) {
		t.Fatalf("week start = %v; want 2025-03-16", u.WeekStart)
	}
}

func TestApplyWeeklyResetFirstObservation(t *testing.T) {
	u := &domain.User{Role: domain.RoleStudent, WeeklyXP: 7}
	if reset := ApplyWeeklyReset(date(2025, time.March, 12), u); !reset {
		t.Fatal("expected reset when no window recorded")
	}
	if u.WeeklyXP != 0 {
		t.Fatalf("weekly xp = %d; want 0", u.WeeklyXP)
	}
}
