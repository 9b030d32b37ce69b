// Package penalty evaluates the weekly-engagement checkpoint and
// produces penalty-box transitions. It only flags the condition;
// which features the box restricts is the presentation layer's call.
package penalty

import (
	"time"

	"learningleague/internal/domain"
)

// DefaultThreshold is the minimum weekly XP a student must earn
// before the Thursday checkpoint.
const DefaultThreshold = 10

// checkpointDay is the first weekday the check fires (Sunday = 0,
// Thursday = 4). Thursday through Saturday are all past the
// checkpoint.
const checkpointDay = time.Thursday

const (
	Reason         = "Low weekly engagement. Earn at least 10 XP this week."
	RedemptionTask = "Complete one quest to exit the Penalty Box."
)

// AtCheckpoint reports whether the date is at or past the weekly
// evaluation day.
func AtCheckpoint(today time.Time) bool {
	return today.Weekday() >= checkpointDay
}

// Evaluate runs the Clear -> Penalized transition for one student
// visit. It returns the penalty box to activate, or nil when no
// transition applies. Re-running while already penalized is a no-op,
// so the caller may evaluate on every session start.
func Evaluate(today time.Time, u *domain.User, threshold int) *domain.PenaltyBox {
	if !u.IsStudent() {
		return nil
	}
	if u.IsPenalized() {
		return nil
	}
	if !AtCheckpoint(today) {
		return nil
	}
	if u.WeeklyXP >= threshold {
		return nil
	}

	return &domain.PenaltyBox{
		IsActive:       true,
		Reason:         Reason,
		RedemptionTask: RedemptionTask,
		ActivatedAt:    today,
	}
}

// Redeem deactivates an active penalty box. The Penalized -> Clear
// transition is driven by the store's completion path, never by the
// passage of time: exiting the box requires real engagement.
func Redeem(u *domain.User) bool {
	if !u.IsPenalized() {
		return false
	}
	u.PenaltyBox.IsActive = false
	return true
}
