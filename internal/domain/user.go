package domain

import "time"

// Role separates the two account kinds. Tutors never accumulate
// progression state; every XP/gems/penalty field is student-only.
type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
)

// PenaltyBox is the punitive state entered after a week of low
// engagement. A nil box means the student was never penalized or has
// been redeemed and the record cleared; IsActive=false keeps the last
// cycle visible so the UI can show a "redeemed" state.
type PenaltyBox struct {
	IsActive       bool      `db:"is_active" json:"is_active"`
	Reason         string    `db:"reason" json:"reason"`
	RedemptionTask string    `db:"redemption_task" json:"redemption_task"`
	ActivatedAt    time.Time `db:"activated_at" json:"activated_at"`
}

// User is the single mutable aggregate of the system. All mutation
// goes through the store's command dispatch; everything else holds
// read-only snapshots.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Role     Role   `db:"role" json:"role"`
	TutorID  *int64 `db:"tutor_id" json:"tutor_id,omitempty"`
	Avatar   string `db:"avatar" json:"avatar"` // emoji
	Password string `db:"password_hash" json:"-"`

	Level    int   `db:"level" json:"level"`
	XP       int   `db:"xp" json:"xp"`
	WeeklyXP int   `db:"weekly_xp" json:"weekly_xp"`
	Gems     int64 `db:"gems" json:"gems"`

	Inventory        []string `db:"inventory" json:"inventory"`
	CompletedLessons []string `db:"completed_lessons" json:"completed_lessons"`
	CompletedGoals   []string `db:"completed_goals" json:"completed_goals"`
	Badges           []string `db:"badges" json:"badges"`

	LoginStreak   int        `db:"login_streak" json:"login_streak"`
	BestStreak    int        `db:"best_streak" json:"best_streak"`
	LastLoginDate *time.Time `db:"last_login_date" json:"last_login_date,omitempty"` // calendar day
	WeekStart     *time.Time `db:"week_start" json:"week_start,omitempty"`           // start of the current weekly window

	PenaltyBox *PenaltyBox `db:"-" json:"penalty_box,omitempty"`

	// Reporting-only metadata for the parent weekly summary.
	ParentName      string `db:"parent_name" json:"parent_name,omitempty"`
	ParentEmail     string `db:"parent_email" json:"parent_email,omitempty"`
	LessonsThisWeek int    `db:"lessons_this_week" json:"lessons_this_week"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsStudent reports whether progression commands apply to this user.
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// IsPenalized reports whether the penalty box is currently active.
func (u *User) IsPenalized() bool {
	return u.PenaltyBox != nil && u.PenaltyBox.IsActive
}

// HasLesson reports whether the lesson was already completed.
func (u *User) HasLesson(id string) bool { return contains(u.CompletedLessons, id) }

// HasGoal reports whether the goal was already completed.
func (u *User) HasGoal(id string) bool { return contains(u.CompletedGoals, id) }

// HasBadge reports whether the badge was already awarded.
func (u *User) HasBadge(id string) bool { return contains(u.Badges, id) }

// OwnsItem reports whether the shop item is in the inventory.
func (u *User) OwnsItem(id string) bool { return contains(u.Inventory, id) }

// Clone returns a deep copy. Observers receive clones so they can
// never mutate the store's live instance.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Inventory = append([]string(nil), u.Inventory...)
	c.CompletedLessons = append([]string(nil), u.CompletedLessons...)
	c.CompletedGoals = append([]string(nil), u.CompletedGoals...)
	c.Badges = append([]string(nil), u.Badges...)
	if u.LastLoginDate != nil {
		d := *u.LastLoginDate
		c.LastLoginDate = &d
	}
	if u.WeekStart != nil {
		d := *u.WeekStart
		c.WeekStart = &d
	}
	if u.TutorID != nil {
		id := *u.TutorID
		c.TutorID = &id
	}
	if u.PenaltyBox != nil {
		pb := *u.PenaltyBox
		c.PenaltyBox = &pb
	}
	return &c
}

func contains(set []string, id string) bool {
	for _, s := range set {
		if s == id {
			return true
		}
	}
	return false
}
