// Seeds a demo tutor, two students and a small catalog. Intended for
// local development; running it twice is safe.
package main

import (
	"context"
	"log"
	"os"

	"learningleague/internal/auth"
	"learningleague/internal/db"
	"learningleague/internal/domain"
	"learningleague/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()
	seedCatalog(ctx, pool)

	repo := repository.NewUserRepository(pool)

	tutor := ensureUser(ctx, repo, &domain.User{
		Name:   "ms-harper",
		Role:   domain.RoleTutor,
		Avatar: "🦉",
		Level:  1,
	}, "tutor-pass")

	ensureUser(ctx, repo, &domain.User{
		Name:        "zoe",
		Role:        domain.RoleStudent,
		TutorID:     &tutor.ID,
		Avatar:      "🦊",
		Level:       1,
		Gems:        50,
		ParentName:  "Dana Reeves",
		ParentEmail: "dana.reeves@example.com",
	}, "zoe-pass")

	ensureUser(ctx, repo, &domain.User{
		Name:        "marcus",
		Role:        domain.RoleStudent,
		TutorID:     &tutor.ID,
		Avatar:      "🐯",
		Level:       1,
		Gems:        50,
		ParentName:  "Elena Cole",
		ParentEmail: "elena.cole@example.com",
	}, "marcus-pass")

	log.Println("seed complete")
}

func ensureUser(ctx context.Context, repo *repository.UserRepository, u *domain.User, password string) *domain.User {
	existing, err := repo.GetByName(ctx, u.Name)
	if err == nil {
		log.Printf("user %s already exists id=%d", existing.Name, existing.ID)
		return existing
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password for %s: %v", u.Name, err)
	}
	u.Password = hash

	if err := repo.Create(ctx, u); err != nil {
		log.Fatalf("create user %s: %v", u.Name, err)
	}
	log.Printf("created %s %s id=%d", u.Role, u.Name, u.ID)
	return u
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool) {
	statements := []struct {
		desc string
		sql  string
	}{
		{"courses", `
			INSERT INTO courses (id, title, description, icon) VALUES
			('math-3', 'Math Explorers', 'Multiplication, division and fractions', '➗'),
			('reading-3', 'Reading Adventures', 'Comprehension and vocabulary', '📚')
			ON CONFLICT (id) DO NOTHING`},
		{"lessons", `
			INSERT INTO lessons (id, course_id, title, topic, xp, gems) VALUES
			('math-3-1', 'math-3', 'Multiplication Basics', 'multiplication', 10, 5),
			('math-3-2', 'math-3', 'Division Basics', 'division', 10, 5),
			('math-3-3', 'math-3', 'Intro to Fractions', 'fractions', 15, 8),
			('reading-3-1', 'reading-3', 'Main Idea', 'comprehension', 10, 5),
			('reading-3-2', 'reading-3', 'Context Clues', 'vocabulary', 10, 5)
			ON CONFLICT (id) DO NOTHING`},
		{"shop items", `
			INSERT INTO shop_items (id, name, category, price, asset, description) VALUES
			('avatar-dragon', 'Dragon Avatar', 'avatar', 100, '🐉', 'A fierce dragon avatar'),
			('avatar-robot', 'Robot Avatar', 'avatar', 80, '🤖', 'Beep boop'),
			('avatar-wizard', 'Wizard Avatar', 'avatar', 120, '🧙', 'Master of spells'),
			('reward-movie', 'Movie Night', 'reward', 200, '🎬', 'Pick the family movie'),
			('reward-treat', 'Special Treat', 'reward', 150, '🍦', 'Redeem with your tutor')
			ON CONFLICT (id) DO NOTHING`},
		{"badges", `
			INSERT INTO badges (id, name, description, icon) VALUES
			('first-lesson', 'First Steps', 'Completed a first lesson', '🌱'),
			('week-streak', 'On Fire', 'Logged in seven days in a row', '🔥'),
			('math-star', 'Math Star', 'Finished every math lesson', '⭐'),
			('bookworm', 'Bookworm', 'Finished every reading lesson', '🐛')
			ON CONFLICT (id) DO NOTHING`},
		{"external goals", `
			INSERT INTO external_goals (id, platform, title, description, xp, gems) VALUES
			('ixl-mult-10', 'IXL', 'Multiplication to 10', 'Score 90 or higher on IXL skill C.4', 20, 10),
			('nearpod-solar', 'Nearpod', 'Solar System Lesson', 'Complete the Nearpod solar system activity', 15, 8)
			ON CONFLICT (id) DO NOTHING`},
		{"classrooms", `
			INSERT INTO classrooms (id, course_name, classroom_link, class_code, meeting_link, schedule, icon) VALUES
			('class-math', 'Math Explorers', 'https://classroom.google.com/c/math', 'abc123', 'https://meet.google.com/math', 'Mon/Wed 4pm', '➗'),
			('class-reading', 'Reading Adventures', 'https://classroom.google.com/c/reading', 'def456', 'https://meet.google.com/reading', 'Tue/Thu 4pm', '📚')
			ON CONFLICT (id) DO NOTHING`},
	}

	for _, st := range statements {
		if _, err := pool.Exec(ctx, st.sql); err != nil {
			log.Fatalf("seed %s: %v", st.desc, err)
		}
		log.Printf("seeded %s", st.desc)
	}
}
