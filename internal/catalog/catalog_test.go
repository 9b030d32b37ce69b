package catalog

import (
	"testing"

	"learningleague/internal/domain"
)

func testCatalog() *Catalog {
	c := newEmpty()
	c.lessons["math-1"] = domain.Lesson{ID: "math-1", CourseID: "math", XP: 10, Gems: 5}
	c.items["hat"] = domain.ShopItem{ID: "hat", Category: domain.ItemCategoryAvatar, Price: 30, Asset: "🎩"}
	c.badges["star"] = domain.Badge{ID: "star"}
	c.external["ixl-1"] = domain.ExternalGoal{ID: "ixl-1", XP: 20, Gems: 10}
	return c
}

func TestCatalogLookups(t *testing.T) {
	c := testCatalog()

	if !c.HasLesson("math-1") {
		t.Fatal("expected known lesson")
	}
	if c.HasLesson("math-99") {
		t.Fatal("unknown lesson reported as present")
	}
	if !c.HasBadge("star") || c.HasBadge("moon") {
		t.Fatal("badge lookup wrong")
	}
	if _, ok := c.Item("hat"); !ok {
		t.Fatal("expected shop item")
	}

	r, ok := c.LessonReward("math-1")
	if !ok || r.XP != 10 || r.Gems != 5 {
		t.Fatalf("lesson reward = %+v, ok=%v", r, ok)
	}
	if _, ok := c.LessonReward("math-99"); ok {
		t.Fatal("reward for unknown lesson")
	}
}

func TestCatalogCustomGoals(t *testing.T) {
	c := testCatalog()

	if c.HasGoal("goal-1") {
		t.Fatal("goal should not exist yet")
	}

	c.AddCustomGoal(domain.CustomGoal{ID: "goal-1", StudentID: 7, XP: 15, Gems: 5})
	c.AddCustomGoal(domain.CustomGoal{ID: "goal-2", StudentID: 8, XP: 15, Gems: 5})

	if !c.HasGoal("goal-1") {
		t.Fatal("registered goal not found")
	}
	// external goals share the id space
	if !c.HasGoal("ixl-1") {
		t.Fatal("external goal not found")
	}

	r, ok := c.GoalReward("goal-1")
	if !ok || r.XP != 15 || r.Gems != 5 {
		t.Fatalf("custom goal reward = %+v, ok=%v", r, ok)
	}

	mine := c.CustomGoalsForStudent(7)
	if len(mine) != 1 || mine[0].ID != "goal-1" {
		t.Fatalf("CustomGoalsForStudent(7) = %+v", mine)
	}

	c.MarkCustomGoalCompleted("goal-1")
	g, ok := c.CustomGoal("goal-1")
	if !ok || !g.IsCompleted {
		t.Fatalf("goal not marked completed: %+v, ok=%v", g, ok)
	}
}
