package repository

import (
	"context"
	"errors"
	"time"

	"learningleague/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository is the persistence collaborator for the user
// aggregate. The store treats it through the Persister interface;
// handlers use the extra queries for login, tutors and the
// leaderboard.
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, role, tutor_id, avatar, password_hash,
	level, xp, weekly_xp, gems,
	inventory, completed_lessons, completed_goals, badges,
	login_streak, best_streak, last_login_date, week_start,
	penalty_active, COALESCE(penalty_reason, ''), COALESCE(penalty_redemption_task, ''), penalty_activated_at,
	COALESCE(parent_name, ''), COALESCE(parent_email, ''), lessons_this_week,
	created_at, updated_at`

// Load implements store.Persister.
func (r *UserRepository) Load(ctx context.Context, userID int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// GetByName looks a user up for the login flow.
func (r *UserRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE name = $1`, name)
	return scanUser(row)
}

// Save implements store.Persister. The whole aggregate is written in
// one statement; the store serializes commands, so last-write-wins is
// acceptable here.
func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	var (
		penaltyActive bool
		penaltyReason *string
		penaltyTask   *string
		penaltyAt     *time.Time
	)
	if u.PenaltyBox != nil {
		penaltyActive = u.PenaltyBox.IsActive
		penaltyReason = &u.PenaltyBox.Reason
		penaltyTask = &u.PenaltyBox.RedemptionTask
		penaltyAt = &u.PenaltyBox.ActivatedAt
	}

	_, err := r.db.Exec(ctx,
		`UPDATE users SET
			avatar = $2, level = $3, xp = $4, weekly_xp = $5, gems = $6,
			inventory = $7, completed_lessons = $8, completed_goals = $9, badges = $10,
			login_streak = $11, best_streak = $12, last_login_date = $13, week_start = $14,
			penalty_active = $15, penalty_reason = $16, penalty_redemption_task = $17, penalty_activated_at = $18,
			lessons_this_week = $19, updated_at = now()
		 WHERE id = $1`,
		u.ID, u.Avatar, u.Level, u.XP, u.WeeklyXP, u.Gems,
		u.Inventory, u.CompletedLessons, u.CompletedGoals, u.Badges,
		u.LoginStreak, u.BestStreak, u.LastLoginDate, u.WeekStart,
		penaltyActive, penaltyReason, penaltyTask, penaltyAt,
		u.LessonsThisWeek,
	)
	if err != nil {
		return err
	}
	return nil
}

// Create provisions a new account. Role is fixed for life at this
// point.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO users (name, role, tutor_id, avatar, password_hash, level, gems, parent_name, parent_email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		u.Name, u.Role, u.TutorID, u.Avatar, u.Password, u.Level, u.Gems, u.ParentName, u.ParentEmail,
	).Scan(&u.ID)
}

// ListByTutor returns the students a tutor manages, newest first.
func (r *UserRepository) ListByTutor(ctx context.Context, tutorID int64) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = 'student' AND tutor_id = $1 ORDER BY name`,
		tutorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// LeaderboardEntry is one row of the XP ranking.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Level  int    `json:"level"`
	XP     int    `json:"xp"`
}

// TopStudents returns the top-N students by lifetime XP.
func (r *UserRepository) TopStudents(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, avatar, level, xp,
			RANK() OVER (ORDER BY xp DESC, id) AS rank
		 FROM users
		 WHERE role = 'student'
		 ORDER BY xp DESC, id
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Avatar, &e.Level, &e.XP, &e.Rank); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// Rank returns a student's position in the XP ranking.
func (r *UserRepository) Rank(ctx context.Context, userID int64) (int, error) {
	var rank int
	err := r.db.QueryRow(ctx,
		`SELECT rank FROM (
			SELECT id, RANK() OVER (ORDER BY xp DESC, id) AS rank
			FROM users WHERE role = 'student'
		 ) ranked WHERE id = $1`,
		userID,
	).Scan(&rank)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return rank, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u             domain.User
		penaltyActive bool
		penaltyReason string
		penaltyTask   string
		activatedAt   *time.Time
	)

	err := row.Scan(
		&u.ID, &u.Name, &u.Role, &u.TutorID, &u.Avatar, &u.Password,
		&u.Level, &u.XP, &u.WeeklyXP, &u.Gems,
		&u.Inventory, &u.CompletedLessons, &u.CompletedGoals, &u.Badges,
		&u.LoginStreak, &u.BestStreak, &u.LastLoginDate, &u.WeekStart,
		&penaltyActive, &penaltyReason, &penaltyTask, &activatedAt,
		&u.ParentName, &u.ParentEmail, &u.LessonsThisWeek,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if penaltyReason != "" || penaltyActive {
		box := &domain.PenaltyBox{
			IsActive:       penaltyActive,
			Reason:         penaltyReason,
			RedemptionTask: penaltyTask,
		}
		if activatedAt != nil {
			box.ActivatedAt = *activatedAt
		}
		u.PenaltyBox = box
	}
	return &u, nil
}
