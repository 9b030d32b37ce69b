package progression

import (
	"errors"
	"testing"

	"learningleague/internal/domain"
)

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{1, 1},
		{99, 1},
		{100, 2},
		{101, 2},
		{250, 3},
		{999, 10},
		{1000, 11},
		{-5, 1},
	}

	for _, tc := range cases {
		if got := LevelForXP(tc.xp); got != tc.want {
			t.Fatalf("LevelForXP(%d) = %d; want %d", tc.xp, got, tc.want)
		}
	}
}

func TestLevelForXPNonDecreasing(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 1; xp <= 2000; xp++ {
		cur := LevelForXP(xp)
		if cur < prev {
			t.Fatalf("LevelForXP decreased at xp=%d: %d -> %d", xp, prev, cur)
		}
		prev = cur
	}
}

func TestXPToNextLevel(t *testing.T) {
	cases := []struct {
		level int
		want  int
	}{
		{1, 100},
		{2, 200},
		{5, 500},
		{0, 100}, // clamped to level 1
	}

	for _, tc := range cases {
		if got := XPToNextLevel(tc.level); got != tc.want {
			t.Fatalf("XPToNextLevel(%d) = %d; want %d", tc.level, got, tc.want)
		}
	}
}

func TestXPAtLevelStartMatchesLevelForXP(t *testing.T) {
	for level := 1; level <= 20; level++ {
		start := XPAtLevelStart(level)
		if got := LevelForXP(start); got != level {
			t.Fatalf("LevelForXP(XPAtLevelStart(%d)) = %d; want %d", level, got, level)
		}
		if start > 0 {
			if got := LevelForXP(start - 1); got != level-1 {
				t.Fatalf("LevelForXP(%d) = %d; want %d", start-1, got, level-1)
			}
		}
	}
}

func TestApply(t *testing.T) {
	u := &domain.User{Role: domain.RoleStudent, Level: 1, XP: 90, WeeklyXP: 5, Gems: 10}

	if err := Apply(u, Reward{XP: 30, Gems: 5}); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if u.XP != 120 {
		t.Errorf("xp = %d; want 120", u.XP)
	}
	if u.WeeklyXP != 35 {
		t.Errorf("weekly xp = %d; want 35", u.WeeklyXP)
	}
	if u.Gems != 15 {
		t.Errorf("gems = %d; want 15", u.Gems)
	}
	if u.Level != 2 {
		t.Errorf("level = %d; want 2", u.Level)
	}
}

func TestApplyRejectsInvalidReward(t *testing.T) {
	cases := []struct {
		name string
		r    Reward
	}{
		{"zero xp", Reward{XP: 0, Gems: 5}},
		{"negative xp", Reward{XP: -10, Gems: 5}},
		{"zero gems", Reward{XP: 10, Gems: 0}},
		{"negative gems", Reward{XP: 10, Gems: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := &domain.User{Role: domain.RoleStudent, Level: 1, XP: 50, WeeklyXP: 50, Gems: 20}
			err := Apply(u, tc.r)
			if !errors.Is(err, domain.ErrInvalidReward) {
				t.Fatalf("Apply(%+v) error = %v; want ErrInvalidReward", tc.r, err)
			}
			if u.XP != 50 || u.WeeklyXP != 50 || u.Gems != 20 || u.Level != 1 {
				t.Fatalf("rejected reward mutated user: %+v", u)
			}
		})
	}
}

func TestApplyNeverDecreases(t *testing.T) {
	u := &domain.User{Role: domain.RoleStudent, Level: 1}
	rewards := []Reward{{10, 1}, {25, 3}, {100, 10}, {1, 1}, {64, 7}}

	for _, r := range rewards {
		prevXP, prevWeekly, prevGems, prevLevel := u.XP, u.WeeklyXP, u.Gems, u.Level
		if err := Apply(u, r); err != nil {
			t.Fatalf("Apply(%+v) returned error: %v", r, err)
		}
		if u.XP < prevXP || u.WeeklyXP < prevWeekly || u.Gems < prevGems || u.Level < prevLevel {
			t.Fatalf("progression decreased after %+v: %+v", r, u)
		}
		if u.Level != LevelForXP(u.XP) {
			t.Fatalf("level %d inconsistent with xp %d", u.Level, u.XP)
		}
	}
}
