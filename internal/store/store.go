// Package store owns the live User aggregate and its command
// dispatch surface. Every lifecycle event is one command; a command
// runs to completion against the current user, the result is
// persisted write-through and broadcast to observers.
package store

import (
	"context"
	"sync"
	"time"

	"learningleague/internal/domain"
	"learningleague/internal/engagement"
	"learningleague/internal/logger"
	"learningleague/internal/penalty"
	"learningleague/internal/progression"
)

// Persister is the injected load/save capability. The store never
// assumes a backing format.
type Persister interface {
	Load(ctx context.Context, userID int64) (*domain.User, error)
	Save(ctx context.Context, u *domain.User) error
}

// Catalog is the static reference data the store validates ids
// against. Implementations must answer from memory: the reducer path
// does no blocking I/O.
type Catalog interface {
	HasLesson(id string) bool
	HasGoal(id string) bool
	HasBadge(id string) bool
	Item(id string) (domain.ShopItem, bool)
}

// Observer receives a snapshot after every successful mutating
// command. Snapshots are deep copies; observers cannot touch the
// live aggregate.
type Observer func(*domain.User)

const saveTimeout = 5 * time.Second

// Store holds one live user for one session. Commands are serialized:
// each runs to completion before the next is accepted.
type Store struct {
	mu        sync.Mutex
	user      *domain.User
	clock     engagement.Clock
	catalog   Catalog
	persister Persister
	threshold int
	observers []Observer
}

// New wraps an already-loaded user. threshold is the weekly XP floor
// for the penalty checkpoint.
func New(u *domain.User, clock engagement.Clock, catalog Catalog, persister Persister, threshold int) *Store {
	if threshold <= 0 {
		threshold = penalty.DefaultThreshold
	}
	return &Store{
		user:      u,
		clock:     clock,
		catalog:   catalog,
		persister: persister,
		threshold: threshold,
	}
}

// Subscribe registers an observer for snapshot broadcasts.
func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Snapshot returns a read-only copy of the current user.
func (s *Store) Snapshot() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

// UserID returns the identity of the session's user.
func (s *Store) UserID() int64 {
	return s.Snapshot().ID
}

// dispatch serializes a command, and on success persists and
// broadcasts the new state. Commands report whether they mutated
// anything; silent no-ops skip the write-through.
func (s *Store) dispatch(name string, cmd func(u *domain.User) (changed bool, err error)) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	commandsTotal.WithLabelValues(name).Inc()

	changed, err := cmd(s.user)
	if err != nil {
		commandFailures.WithLabelValues(name).Inc()
		return nil, err
	}

	if changed {
		s.user.UpdatedAt = time.Now().UTC()
	}
	snap := s.user.Clone()
	if changed {
		s.persist(snap)
		for _, o := range s.observers {
			o(snap.Clone())
		}
	}
	return snap, nil
}

// persist writes through asynchronously. A failed save is reported
// and counted but never rolls back the in-memory state: the session
// favors responsiveness over strict durability.
func (s *Store) persist(snap *domain.User) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := s.persister.Save(ctx, snap); err != nil {
			persistenceFailures.Inc()
			logger.Error("user save failed", "user_id", snap.ID, "error", err)
		}
	}()
}

// SessionStart runs the per-visit housekeeping: weekly-window reset
// and the penalty checkpoint. It replaces the original view-mount
// side effect with an explicit command and is idempotent.
func (s *Store) SessionStart() (*domain.User, error) {
	return s.dispatch("session_start", func(u *domain.User) (bool, error) {
		if !u.IsStudent() {
			return false, nil
		}
		today := s.clock.Today()
		changed := engagement.ApplyWeeklyReset(today, u)

		if box := penalty.Evaluate(today, u, s.threshold); box != nil {
			u.PenaltyBox = box
			penaltyActivations.Inc()
			changed = true
		}
		return changed, nil
	})
}

// RecordLogin updates the login streak for today. Tutors do not
// participate in progression, so their logins are absorbed.
func (s *Store) RecordLogin() (*domain.User, error) {
	return s.dispatch("record_login", func(u *domain.User) (bool, error) {
		if !u.IsStudent() {
			return false, nil
		}
		today := s.clock.Today()
		engagement.ApplyWeeklyReset(today, u)
		engagement.ApplyLogin(today, u)
		return true, nil
	})
}

// CompleteLesson records a lesson completion and applies its reward.
// Completing the same lesson twice is a silent no-op so the UI may
// re-dispatch freely.
func (s *Store) CompleteLesson(lessonID string, r progression.Reward) (*domain.User, error) {
	return s.dispatch("complete_lesson", func(u *domain.User) (bool, error) {
		if !u.IsStudent() {
			return false, domain.ErrNotStudent
		}
		if !s.catalog.HasLesson(lessonID) {
			return false, domain.ErrNotFound
		}
		if u.HasLesson(lessonID) {
			return false, nil
		}
		if err := progression.Apply(u, r); err != nil {
			return false, err
		}
		u.CompletedLessons = append(u.CompletedLessons, lessonID)
		u.LessonsThisWeek++
		penalty.Redeem(u)
		return true, nil
	})
}

// CompleteGoal records an external or tutor-assigned goal completion.
// Same idempotence and redemption semantics as lessons.
func (s *Store) CompleteGoal(goalID string, r progression.Reward) (*domain.User, error) {
	return s.dispatch("complete_goal", func(u *domain.User) (bool, error) {
		if !u.IsStudent() {
			return false, domain.ErrNotStudent
		}
		if !s.catalog.HasGoal(goalID) {
			return false, domain.ErrNotFound
		}
		if u.HasGoal(goalID) {
			return false, nil
		}
		if err := progression.Apply(u, r); err != nil {
			return false, err
		}
		u.CompletedGoals = append(u.CompletedGoals, goalID)
		penalty.Redeem(u)
		return true, nil
	})
}

// AwardBadge adds a badge. Duplicate awards are absorbed.
func (s *Store) AwardBadge(badgeID string) (*domain.User, error) {
	return s.dispatch("award_badge", func(u *domain.User) (bool, error) {
		if !u.IsStudent() {
			return false, domain.ErrNotStudent
		}
		if !s.catalog.HasBadge(badgeID) {
			return false, domain.ErrNotFound
		}
		if u.HasBadge(badgeID) {
			return false, nil
		}
		u.Badges = append(u.Badges, badgeID)
		return true, nil
	})
}

// PurchaseItem spends gems on a shop item. Economic violations are
// surfaced synchronously and never partially mutate state.
func (s *Store) PurchaseItem(itemID string) (*domain.User, error) {
	return s.dispatch("purchase_item", func(u *domain.User) (bool, error) {
		if !u.IsStudent() {
			return false, domain.ErrNotStudent
		}
		item, ok := s.catalog.Item(itemID)
		if !ok {
			return false, domain.ErrNotFound
		}
		if u.OwnsItem(itemID) {
			return false, domain.ErrAlreadyOwned
		}
		if u.Gems < item.Price {
			return false, domain.ErrInsufficientFunds
		}
		u.Gems -= item.Price
		u.Inventory = append(u.Inventory, itemID)
		return true, nil
	})
}

// SetAvatar switches the avatar emoji. Only the default set and owned
// avatar items qualify; ownership checks live in the handler, the
// store records the choice.
func (s *Store) SetAvatar(emoji string) (*domain.User, error) {
	return s.dispatch("set_avatar", func(u *domain.User) (bool, error) {
		if emoji == "" || emoji == u.Avatar {
			return false, nil
		}
		u.Avatar = emoji
		return true, nil
	})
}

// ActivatePenalty forces the penalty box on, with the supplied text.
// No-op when a penalty is already active.
func (s *Store) ActivatePenalty(reason, redemptionTask string) (*domain.User, error) {
	return s.dispatch("activate_penalty", func(u *domain.User) (bool, error) {
		if !u.IsStudent() {
			return false, domain.ErrNotStudent
		}
		if u.IsPenalized() {
			return false, nil
		}
		u.PenaltyBox = &domain.PenaltyBox{
			IsActive:       true,
			Reason:         reason,
			RedemptionTask: redemptionTask,
			ActivatedAt:    s.clock.Today(),
		}
		penaltyActivations.Inc()
		return true, nil
	})
}
