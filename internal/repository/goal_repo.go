package repository

import (
	"context"
	"errors"

	"learningleague/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GoalRepository persists tutor-assigned custom goals. Reads on the
// hot path go through the in-memory catalog; these writes keep the
// database authoritative across restarts.
type GoalRepository struct {
	db *pgxpool.Pool
}

func NewGoalRepository(db *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create inserts a new goal and fills in its generated id.
func (r *GoalRepository) Create(ctx context.Context, g *domain.CustomGoal) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO custom_goals (id, student_id, tutor_id, title, description, xp, gems, is_completed, created_at)
		VALUES (gen_random_uuid()::text, $1, $2, $3, $4, $5, $6, FALSE, NOW())
		RETURNING id, created_at`,
		g.StudentID, g.TutorID, g.Title, g.Description, g.XP, g.Gems,
	).Scan(&g.ID, &g.CreatedAt)
}

// Get returns one goal by id.
func (r *GoalRepository) Get(ctx context.Context, id string) (*domain.CustomGoal, error) {
	var g domain.CustomGoal
	err := r.db.QueryRow(ctx, `
		SELECT id, student_id, tutor_id, title, description, xp, gems, is_completed, created_at
		FROM custom_goals WHERE id = $1`, id,
	).Scan(&g.ID, &g.StudentID, &g.TutorID, &g.Title, &g.Description, &g.XP, &g.Gems, &g.IsCompleted, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListByStudent returns a student's goals, newest first.
func (r *GoalRepository) ListByStudent(ctx context.Context, studentID int64) ([]domain.CustomGoal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, student_id, tutor_id, title, description, xp, gems, is_completed, created_at
		FROM custom_goals WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.CustomGoal
	for rows.Next() {
		var g domain.CustomGoal
		if err := rows.Scan(&g.ID, &g.StudentID, &g.TutorID, &g.Title, &g.Description, &g.XP, &g.Gems, &g.IsCompleted, &g.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// MarkCompleted records that the student finished the goal.
func (r *GoalRepository) MarkCompleted(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE custom_goals SET is_completed = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
