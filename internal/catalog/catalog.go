// Package catalog holds the reference data the progression core
// validates ids against: courses and lessons, shop items, badges,
// external goals and classrooms. Everything is loaded once at startup
// and answered from memory; the store's command path never waits on
// the database. Tutor-assigned custom goals are the one dynamic part,
// registered here as they are created.
package catalog

import (
	"context"
	"sync"

	"learningleague/internal/domain"
	"learningleague/internal/progression"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Catalog struct {
	mu sync.RWMutex

	courses    []domain.Course
	classrooms []domain.ClassroomInfo
	lessons    map[string]domain.Lesson
	items      map[string]domain.ShopItem
	badges     map[string]domain.Badge
	external   map[string]domain.ExternalGoal
	custom     map[string]domain.CustomGoal
}

func newEmpty() *Catalog {
	return &Catalog{
		lessons:  make(map[string]domain.Lesson),
		items:    make(map[string]domain.ShopItem),
		badges:   make(map[string]domain.Badge),
		external: make(map[string]domain.ExternalGoal),
		custom:   make(map[string]domain.CustomGoal),
	}
}

// Load reads every reference table into memory.
func Load(ctx context.Context, db *pgxpool.Pool) (*Catalog, error) {
	c := newEmpty()

	if err := c.loadCourses(ctx, db); err != nil {
		return nil, err
	}
	if err := c.loadItems(ctx, db); err != nil {
		return nil, err
	}
	if err := c.loadBadges(ctx, db); err != nil {
		return nil, err
	}
	if err := c.loadExternalGoals(ctx, db); err != nil {
		return nil, err
	}
	if err := c.loadClassrooms(ctx, db); err != nil {
		return nil, err
	}
	if err := c.loadCustomGoals(ctx, db); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) loadCourses(ctx context.Context, db *pgxpool.Pool) error {
	rows, err := db.Query(ctx,
		`SELECT id, title, description, icon FROM courses ORDER BY title`)
	if err != nil {
		return err
	}
	defer rows.Close()

	byID := make(map[string]int)
	for rows.Next() {
		var course domain.Course
		if err := rows.Scan(&course.ID, &course.Title, &course.Description, &course.Icon); err != nil {
			return err
		}
		byID[course.ID] = len(c.courses)
		c.courses = append(c.courses, course)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	lessonRows, err := db.Query(ctx,
		`SELECT id, course_id, title, topic, xp, gems FROM lessons ORDER BY course_id, id`)
	if err != nil {
		return err
	}
	defer lessonRows.Close()

	for lessonRows.Next() {
		var l domain.Lesson
		if err := lessonRows.Scan(&l.ID, &l.CourseID, &l.Title, &l.Topic, &l.XP, &l.Gems); err != nil {
			return err
		}
		c.lessons[l.ID] = l
		if i, ok := byID[l.CourseID]; ok {
			c.courses[i].Lessons = append(c.courses[i].Lessons, l)
		}
	}
	return lessonRows.Err()
}

func (c *Catalog) loadItems(ctx context.Context, db *pgxpool.Pool) error {
	rows, err := db.Query(ctx,
		`SELECT id, name, category, price, asset, COALESCE(description, '') FROM shop_items ORDER BY price`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.ShopItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Price, &item.Asset, &item.Description); err != nil {
			return err
		}
		c.items[item.ID] = item
	}
	return rows.Err()
}

func (c *Catalog) loadBadges(ctx context.Context, db *pgxpool.Pool) error {
	rows, err := db.Query(ctx,
		`SELECT id, name, description, icon FROM badges ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var b domain.Badge
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Icon); err != nil {
			return err
		}
		c.badges[b.ID] = b
	}
	return rows.Err()
}

func (c *Catalog) loadExternalGoals(ctx context.Context, db *pgxpool.Pool) error {
	rows, err := db.Query(ctx,
		`SELECT id, platform, title, description, xp, gems FROM external_goals ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g domain.ExternalGoal
		if err := rows.Scan(&g.ID, &g.Platform, &g.Title, &g.Description, &g.XP, &g.Gems); err != nil {
			return err
		}
		c.external[g.ID] = g
	}
	return rows.Err()
}

func (c *Catalog) loadClassrooms(ctx context.Context, db *pgxpool.Pool) error {
	rows, err := db.Query(ctx,
		`SELECT id, course_name, classroom_link, class_code, meeting_link, schedule, icon
		 FROM classrooms ORDER BY course_name`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ci domain.ClassroomInfo
		if err := rows.Scan(&ci.ID, &ci.CourseName, &ci.ClassroomLink, &ci.ClassCode, &ci.MeetingLink, &ci.Schedule, &ci.Icon); err != nil {
			return err
		}
		c.classrooms = append(c.classrooms, ci)
	}
	return rows.Err()
}

func (c *Catalog) loadCustomGoals(ctx context.Context, db *pgxpool.Pool) error {
	rows, err := db.Query(ctx,
		`SELECT id, student_id, tutor_id, title, description, xp, gems, is_completed, created_at
		 FROM custom_goals ORDER BY created_at`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g domain.CustomGoal
		if err := rows.Scan(&g.ID, &g.StudentID, &g.TutorID, &g.Title, &g.Description, &g.XP, &g.Gems, &g.IsCompleted, &g.CreatedAt); err != nil {
			return err
		}
		c.custom[g.ID] = g
	}
	return rows.Err()
}

// HasLesson implements store.Catalog.
func (c *Catalog) HasLesson(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.lessons[id]
	return ok
}

// HasGoal implements store.Catalog: external and custom goals share
// one id space from the store's point of view.
func (c *Catalog) HasGoal(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.external[id]; ok {
		return true
	}
	_, ok := c.custom[id]
	return ok
}

// HasBadge implements store.Catalog.
func (c *Catalog) HasBadge(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.badges[id]
	return ok
}

// Item implements store.Catalog.
func (c *Catalog) Item(id string) (domain.ShopItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

// LessonReward resolves a lesson's payout.
func (c *Catalog) LessonReward(id string) (progression.Reward, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lessons[id]
	if !ok {
		return progression.Reward{}, false
	}
	return progression.Reward{XP: l.XP, Gems: l.Gems}, true
}

// GoalReward resolves an external or custom goal's payout.
func (c *Catalog) GoalReward(id string) (progression.Reward, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if g, ok := c.external[id]; ok {
		return progression.Reward{XP: g.XP, Gems: g.Gems}, true
	}
	if g, ok := c.custom[id]; ok {
		return progression.Reward{XP: g.XP, Gems: g.Gems}, true
	}
	return progression.Reward{}, false
}

// Courses returns the course list with lessons attached.
func (c *Catalog) Courses() []domain.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.courses
}

// Classrooms returns classroom reference data.
func (c *Catalog) Classrooms() []domain.ClassroomInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.classrooms
}

// ShopItems returns every purchasable item.
func (c *Catalog) ShopItems() []domain.ShopItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]domain.ShopItem, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, item)
	}
	return items
}

// Badges returns every badge definition.
func (c *Catalog) Badges() []domain.Badge {
	c.mu.RLock()
	defer c.mu.RUnlock()
	badges := make([]domain.Badge, 0, len(c.badges))
	for _, b := range c.badges {
		badges = append(badges, b)
	}
	return badges
}

// ExternalGoals returns the externally-assigned goal definitions.
func (c *Catalog) ExternalGoals() []domain.ExternalGoal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	goals := make([]domain.ExternalGoal, 0, len(c.external))
	for _, g := range c.external {
		goals = append(goals, g)
	}
	return goals
}

// AddCustomGoal registers a freshly assigned goal so completion
// commands can validate it without a database round trip.
func (c *Catalog) AddCustomGoal(g domain.CustomGoal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.custom[g.ID] = g
}

// CustomGoalsForStudent lists a student's assigned goals.
func (c *Catalog) CustomGoalsForStudent(studentID int64) []domain.CustomGoal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var goals []domain.CustomGoal
	for _, g := range c.custom {
		if g.StudentID == studentID {
			goals = append(goals, g)
		}
	}
	return goals
}

// MarkCustomGoalCompleted flips the in-memory completion flag.
func (c *Catalog) MarkCustomGoalCompleted(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if g, ok := c.custom[id]; ok {
		g.IsCompleted = true
		c.custom[id] = g
	}
}

// CustomGoal returns one assigned goal by id.
func (c *Catalog) CustomGoal(id string) (domain.CustomGoal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.custom[id]
	return g, ok
}
