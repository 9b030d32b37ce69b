package store

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"learningleague/internal/domain"
	"learningleague/internal/engagement"
	"learningleague/internal/penalty"
	"learningleague/internal/progression"
)

// fakeCatalog answers existence checks from fixed sets.
type fakeCatalog struct {
	lessons map[string]bool
	goals   map[string]bool
	badges  map[string]bool
	items   map[string]domain.ShopItem
}

func (c *fakeCatalog) HasLesson(id string) bool { return c.lessons[id] }
func (c *fakeCatalog) HasGoal(id string) bool   { return c.goals[id] }
func (c *fakeCatalog) HasBadge(id string) bool  { return c.badges[id] }
func (c *fakeCatalog) Item(id string) (domain.ShopItem, bool) {
	item, ok := c.items[id]
	return item, ok
}

// memPersister records saves; optionally fails them.
type memPersister struct {
	mu    sync.Mutex
	saved []*domain.User
	fail  bool
}

func (p *memPersister) Load(ctx context.Context, id int64) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (p *memPersister) Save(ctx context.Context, u *domain.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return domain.ErrPersistenceFailure
	}
	p.saved = append(p.saved, u)
	return nil
}

func (p *memPersister) saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.saved)
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		lessons: map[string]bool{"l1": true, "l2": true, "l3": true},
		goals:   map[string]bool{"g1": true, "g2": true},
		badges:  map[string]bool{"b1": true},
		items: map[string]domain.ShopItem{
			"hat":   {ID: "hat", Price: 30, Category: domain.ItemCategoryAvatar},
			"crown": {ID: "crown", Price: 500, Category: domain.ItemCategoryAvatar},
		},
	}
}

func student() *domain.User {
	return &domain.User{
		ID:    1,
		Name:  "zoe",
		Role:  domain.RoleStudent,
		Level: 1,
		Gems:  50,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Wednesday and Thursday of the same window (week starts Sunday 2025-03-09).
var (
	wednesday = day(2025, time.March, 12)
	thursday  = day(2025, time.March, 13)
)

func newTestStore(u *domain.User, today time.Time) (*Store, *memPersister) {
	p := &memPersister{}
	s := New(u, engagement.FixedClock{Date: today}, testCatalog(), p, penalty.DefaultThreshold)
	return s, p
}

func TestCompleteLessonIdempotent(t *testing.T) {
	s, _ := newTestStore(student(), wednesday)
	r := progression.Reward{XP: 20, Gems: 5}

	first, err := s.CompleteLesson("l1", r)
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}

	second, err := s.CompleteLesson("l1", r)
	if err != nil {
		t.Fatalf("duplicate completion should be a no-op, got %v", err)
	}

	first.UpdatedAt, second.UpdatedAt = time.Time{}, time.Time{}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("duplicate completion changed state:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if second.XP != 20 || second.Gems != 55 {
		t.Fatalf("double-awarded reward: xp=%d gems=%d", second.XP, second.Gems)
	}
}

func TestMonotonicity(t *testing.T) {
	s, _ := newTestStore(student(), wednesday)

	seq := []struct {
		lesson string
		goal   string
		r      progression.Reward
	}{
		{lesson: "l1", r: progression.Reward{XP: 10, Gems: 2}},
		{goal: "g1", r: progression.Reward{XP: 45, Gems: 20}},
		{lesson: "l2", r: progression.Reward{XP: 60, Gems: 8}},
		{lesson: "l2", r: progression.Reward{XP: 60, Gems: 8}}, // duplicate
		{goal: "g2", r: progression.Reward{XP: 5, Gems: 1}},
	}

	prev := s.Snapshot()
	for _, step := range seq {
		var snap *domain.User
		var err error
		if step.lesson != "" {
			snap, err = s.CompleteLesson(step.lesson, step.r)
		} else {
			snap, err = s.CompleteGoal(step.goal, step.r)
		}
		if err != nil {
			t.Fatalf("step %+v: %v", step, err)
		}
		if snap.XP < prev.XP || snap.Gems < prev.Gems || snap.Level < prev.Level || snap.WeeklyXP < prev.WeeklyXP {
			t.Fatalf("progression decreased: %+v -> %+v", prev, snap)
		}
		if got := progression.LevelForXP(snap.XP); snap.Level != got {
			t.Fatalf("level %d inconsistent with xp %d (want %d)", snap.Level, snap.XP, got)
		}
		prev = snap
	}
}

func TestCompleteLessonUnknownID(t *testing.T) {
	s, _ := newTestStore(student(), wednesday)
	if _, err := s.CompleteLesson("nope", progression.Reward{XP: 10, Gems: 1}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestCompleteLessonInvalidReward(t *testing.T) {
	s, _ := newTestStore(student(), wednesday)
	if _, err := s.CompleteLesson("l1", progression.Reward{XP: 0, Gems: 1}); !errors.Is(err, domain.ErrInvalidReward) {
		t.Fatalf("err = %v; want ErrInvalidReward", err)
	}
	snap := s.Snapshot()
	if snap.HasLesson("l1") {
		t.Fatal("lesson recorded despite invalid reward")
	}
}

func TestPurchaseSafety(t *testing.T) {
	s, _ := newTestStore(student(), wednesday) // 50 gems

	if _, err := s.PurchaseItem("crown"); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("err = %v; want ErrInsufficientFunds", err)
	}
	snap := s.Snapshot()
	if snap.Gems != 50 || len(snap.Inventory) != 0 {
		t.Fatalf("failed purchase mutated state: gems=%d inventory=%v", snap.Gems, snap.Inventory)
	}
}

func TestPurchaseAndNoDoubleSpend(t *testing.T) {
	s, _ := newTestStore(student(), wednesday)

	snap, err := s.PurchaseItem("hat")
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if snap.Gems != 20 || !snap.OwnsItem("hat") {
		t.Fatalf("purchase result: gems=%d inventory=%v", snap.Gems, snap.Inventory)
	}

	if _, err := s.PurchaseItem("hat"); !errors.Is(err, domain.ErrAlreadyOwned) {
		t.Fatalf("err = %v; want ErrAlreadyOwned", err)
	}
	snap = s.Snapshot()
	if snap.Gems != 20 {
		t.Fatalf("balance changed on rejected re-purchase: %d", snap.Gems)
	}
}

func TestPurchaseUnknownItem(t *testing.T) {
	s, _ := newTestStore(student(), wednesday)
	if _, err := s.PurchaseItem("ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestSessionStartPenaltyTrigger(t *testing.T) {
	u := student()
	u.WeeklyXP = 5
	ws := engagement.WeekStart(thursday)
	u.WeekStart = &ws

	s, _ := newTestStore(u, thursday)
	snap, err := s.SessionStart()
	if err != nil {
		t.Fatalf("session start: %v", err)
	}
	if !snap.IsPenalized() {
		t.Fatal("expected penalty box active at thursday checkpoint with weekly xp 5")
	}
	if snap.PenaltyBox.Reason != penalty.Reason {
		t.Fatalf("reason = %q", snap.PenaltyBox.Reason)
	}

	// idempotent: re-running changes nothing
	again, err := s.SessionStart()
	if err != nil {
		t.Fatalf("second session start: %v", err)
	}
	if !again.IsPenalized() {
		t.Fatal("penalty dropped by re-evaluation")
	}
}

func TestSessionStartNoTriggerWithEnoughXP(t *testing.T) {
	u := student()
	u.WeeklyXP = 15
	ws := engagement.WeekStart(thursday)
	u.WeekStart = &ws

	s, _ := newTestStore(u, thursday)
	snap, err := s.SessionStart()
	if err != nil {
		t.Fatalf("session start: %v", err)
	}
	if snap.IsPenalized() {
		t.Fatal("penalty triggered despite sufficient weekly xp")
	}
}

func TestSessionStartWeeklyReset(t *testing.T) {
	u := student()
	u.WeeklyXP = 40
	lastWeek := day(2025, time.March, 2) // previous Sunday
	u.WeekStart = &lastWeek

	s, _ := newTestStore(u, wednesday)
	snap, err := s.SessionStart()
	if err != nil {
		t.Fatalf("session start: %v", err)
	}
	if snap.WeeklyXP != 0 {
		t.Fatalf("weekly xp = %d after window change; want 0", snap.WeeklyXP)
	}
	if snap.XP != 0 {
		t.Fatalf("lifetime xp touched by weekly reset: %d", snap.XP)
	}
}

func TestRedemptionOnCompletion(t *testing.T) {
	u := student()
	u.WeeklyXP = 2
	ws := engagement.WeekStart(thursday)
	u.WeekStart = &ws
	u.PenaltyBox = &domain.PenaltyBox{
		IsActive:       true,
		Reason:         penalty.Reason,
		RedemptionTask: penalty.RedemptionTask,
	}

	s, _ := newTestStore(u, thursday)
	snap, err := s.CompleteLesson("l1", progression.Reward{XP: 15, Gems: 3})
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if snap.IsPenalized() {
		t.Fatal("penalty box still active after qualifying completion")
	}
	if snap.PenaltyBox == nil {
		t.Fatal("redeemed box record dropped")
	}
}

func TestRecordLoginStreaks(t *testing.T) {
	u := student()
	monday := day(2025, time.March, 10)
	u.LastLoginDate = &monday
	u.LoginStreak = 5

	// D+1
	s, _ := newTestStore(u.Clone(), monday.AddDate(0, 0, 1))
	snap, err := s.RecordLogin()
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if snap.LoginStreak != 6 {
		t.Fatalf("streak = %d; want 6", snap.LoginStreak)
	}

	// D+3
	s, _ = newTestStore(u.Clone(), monday.AddDate(0, 0, 3))
	if snap, _ = s.RecordLogin(); snap.LoginStreak != 1 {
		t.Fatalf("streak = %d; want 1", snap.LoginStreak)
	}

	// same day
	s, _ = newTestStore(u.Clone(), monday)
	if snap, _ = s.RecordLogin(); snap.LoginStreak != 5 {
		t.Fatalf("streak = %d; want 5", snap.LoginStreak)
	}
}

func TestTutorCommandsAreAbsorbed(t *testing.T) {
	tutor := &domain.User{ID: 9, Name: "marianna", Role: domain.RoleTutor}
	s, _ := newTestStore(tutor, thursday)

	snap, err := s.SessionStart()
	if err != nil {
		t.Fatalf("tutor session start: %v", err)
	}
	if snap.IsPenalized() {
		t.Fatal("tutor entered the penalty box")
	}

	if _, err := s.CompleteLesson("l1", progression.Reward{XP: 10, Gems: 1}); !errors.Is(err, domain.ErrNotStudent) {
		t.Fatalf("err = %v; want ErrNotStudent", err)
	}
}

func TestObserversGetSnapshots(t *testing.T) {
	s, _ := newTestStore(student(), wednesday)

	var got []*domain.User
	s.Subscribe(func(u *domain.User) { got = append(got, u) })

	if _, err := s.CompleteLesson("l1", progression.Reward{XP: 10, Gems: 1}); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("observer calls = %d; want 1", len(got))
	}

	// mutating the observed snapshot must not leak into the store
	got[0].Gems = 0
	got[0].CompletedLessons = append(got[0].CompletedLessons, "l2")
	snap := s.Snapshot()
	if snap.Gems != 51 || snap.HasLesson("l2") {
		t.Fatalf("observer mutated live state: %+v", snap)
	}

	// no-op commands do not broadcast
	if _, err := s.CompleteLesson("l1", progression.Reward{XP: 10, Gems: 1}); err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("observer called on no-op: %d", len(got))
	}
}

func TestPersistFailureKeepsState(t *testing.T) {
	u := student()
	p := &memPersister{fail: true}
	s := New(u, engagement.FixedClock{Date: wednesday}, testCatalog(), p, 0)

	snap, err := s.CompleteLesson("l1", progression.Reward{XP: 10, Gems: 1})
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if snap.XP != 10 {
		t.Fatalf("in-memory state rolled back: %+v", snap)
	}

	// the failed async save must not disturb later reads
	time.Sleep(20 * time.Millisecond)
	if got := s.Snapshot(); got.XP != 10 {
		t.Fatalf("state changed after failed save: %+v", got)
	}
}

func TestSuccessfulCommandsPersist(t *testing.T) {
	s, p := newTestStore(student(), wednesday)

	if _, err := s.CompleteLesson("l1", progression.Reward{XP: 10, Gems: 1}); err != nil {
		t.Fatalf("completion: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for p.saves() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if p.saves() != 1 {
		t.Fatalf("saves = %d; want 1", p.saves())
	}
}

func TestActivatePenaltyCommand(t *testing.T) {
	s, _ := newTestStore(student(), wednesday)

	snap, err := s.ActivatePenalty("manual", "do the thing")
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !snap.IsPenalized() || snap.PenaltyBox.Reason != "manual" {
		t.Fatalf("penalty not applied: %+v", snap.PenaltyBox)
	}

	// already active: silent no-op, text unchanged
	snap, err = s.ActivatePenalty("other", "other task")
	if err != nil {
		t.Fatalf("re-activate: %v", err)
	}
	if snap.PenaltyBox.Reason != "manual" {
		t.Fatalf("active box overwritten: %+v", snap.PenaltyBox)
	}
}

func TestAwardBadgeIdempotent(t *testing.T) {
	s, _ := newTestStore(student(), wednesday)

	if _, err := s.AwardBadge("b1"); err != nil {
		t.Fatalf("award: %v", err)
	}
	snap, err := s.AwardBadge("b1")
	if err != nil {
		t.Fatalf("duplicate award should be a no-op: %v", err)
	}
	if len(snap.Badges) != 1 {
		t.Fatalf("badges = %v; want exactly one", snap.Badges)
	}

	if _, err := s.AwardBadge("ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestManagerSessions(t *testing.T) {
	cat := testCatalog()
	p := &managerPersister{users: map[int64]*domain.User{1: student()}}
	m := NewManager(engagement.FixedClock{Date: wednesday}, cat, p, 0)

	s, err := m.StartSession(context.Background(), 1)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	again, err := m.StartSession(context.Background(), 1)
	if err != nil {
		t.Fatalf("restart session: %v", err)
	}
	if s != again {
		t.Fatal("second login created a second live instance")
	}

	if _, ok := m.Get(1); !ok {
		t.Fatal("session not retrievable")
	}

	m.EndSession(1)
	if _, ok := m.Get(1); ok {
		t.Fatal("session survived logout")
	}

	if _, err := m.StartSession(context.Background(), 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

// managerPersister serves loads from a fixed map.
type managerPersister struct {
	mu    sync.Mutex
	users map[int64]*domain.User
}

func (p *managerPersister) Load(ctx context.Context, id int64) (*domain.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u.Clone(), nil
}

func (p *managerPersister) Save(ctx context.Context, u *domain.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[u.ID] = u.Clone()
	return nil
}
