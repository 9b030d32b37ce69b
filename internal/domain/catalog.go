package domain

import "time"

// Catalog types are static reference data. The core only records ids
// pointing into them and checks existence; it never copies content.

// ItemCategory - shop item category
type ItemCategory string

const (
	ItemCategoryAvatar ItemCategory = "avatar"
	ItemCategoryReward ItemCategory = "reward"
)

// ShopItem - purchasable cosmetic or reward
type ShopItem struct {
	ID          string       `db:"id" json:"id"`
	Name        string       `db:"name" json:"name"`
	Category    ItemCategory `db:"category" json:"category"`
	Price       int64        `db:"price" json:"price"`
	Asset       string       `db:"asset" json:"asset"` // emoji or image URL
	Description string       `db:"description" json:"description,omitempty"`
}

// Badge - cosmetic award granted by tutors
type Badge struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Icon        string `db:"icon" json:"icon"`
}

// Lesson - single lesson inside a course, with its completion reward
type Lesson struct {
	ID      string `db:"id" json:"id"`
	CourseID string `db:"course_id" json:"course_id"`
	Title   string `db:"title" json:"title"`
	Topic   string `db:"topic" json:"topic"`
	XP      int    `db:"xp" json:"xp"`
	Gems    int64  `db:"gems" json:"gems"`
}

// Course - ordered group of lessons
type Course struct {
	ID          string   `db:"id" json:"id"`
	Title       string   `db:"title" json:"title"`
	Description string   `db:"description" json:"description"`
	Icon        string   `db:"icon" json:"icon"`
	Lessons     []Lesson `db:"-" json:"lessons"`
}

// ExternalGoal - work assigned on an outside platform (IXL, Nearpod)
type ExternalGoal struct {
	ID          string `db:"id" json:"id"`
	Platform    string `db:"platform" json:"platform"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	XP          int    `db:"xp" json:"xp"`
	Gems        int64  `db:"gems" json:"gems"`
}

// ClassroomInfo - links and schedule for a live classroom
type ClassroomInfo struct {
	ID            string `db:"id" json:"id"`
	CourseName    string `db:"course_name" json:"course_name"`
	ClassroomLink string `db:"classroom_link" json:"classroom_link"`
	ClassCode     string `db:"class_code" json:"class_code"`
	MeetingLink   string `db:"meeting_link" json:"meeting_link"`
	Schedule      string `db:"schedule" json:"schedule"`
	Icon          string `db:"icon" json:"icon"`
}

// CustomGoal - tutor-assigned goal for one student. Completing it
// routes through the same goal-completion command as external goals.
type CustomGoal struct {
	ID          string    `db:"id" json:"id"`
	StudentID   int64     `db:"student_id" json:"student_id"`
	TutorID     int64     `db:"tutor_id" json:"tutor_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	XP          int       `db:"xp" json:"xp"`
	Gems        int64     `db:"gems" json:"gems"`
	IsCompleted bool      `db:"is_completed" json:"is_completed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TutorNote - free-form note a tutor keeps on a student
type TutorNote struct {
	ID        string    `db:"id" json:"id"`
	StudentID int64     `db:"student_id" json:"student_id"`
	TutorID   int64     `db:"tutor_id" json:"tutor_id"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
