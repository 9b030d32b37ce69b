// Package progression computes levels and applies activity rewards.
// Everything here is deterministic and side-effect free; duplicate
// completion guards live in the store, not here.
package progression

import "learningleague/internal/domain"

// xpPerLevel is the size of each level step. Thresholds are uniform:
// level n starts at (n-1)*100 cumulative XP.
const xpPerLevel = 100

// Reward is what a completed lesson or goal pays out.
type Reward struct {
	XP   int
	Gems int64
}

// Valid reports whether the reward can be applied. Zero and negative
// amounts are rejected so a reward can never decrease or no-op a
// student's progression.
func (r Reward) Valid() bool {
	return r.XP > 0 && r.Gems > 0
}

// LevelForXP returns the level implied by total XP. LevelForXP(0) is 1
// and the function is non-decreasing in xp.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/xpPerLevel + 1
}

// XPToNextLevel returns the cumulative XP required to reach level+1.
func XPToNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return level * xpPerLevel
}

// XPAtLevelStart returns the cumulative XP at which the level begins.
// The UI renders progress-within-level as
// (xp - XPAtLevelStart(level)) / (XPToNextLevel(level) - XPAtLevelStart(level)).
func XPAtLevelStart(level int) int {
	if level < 1 {
		level = 1
	}
	return (level - 1) * xpPerLevel
}

// Apply adds the reward to the user's XP, weekly XP and gem balance,
// then recomputes the level. The caller guarantees the completion is
// unique; Apply itself only validates the amounts.
func Apply(u *domain.User, r Reward) error {
	if !r.Valid() {
		return domain.ErrInvalidReward
	}

	u.XP += r.XP
	u.WeeklyXP += r.XP
	u.Gems += r.Gems
	u.Level = LevelForXP(u.XP)
	return nil
}
