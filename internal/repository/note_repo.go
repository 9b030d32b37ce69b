package repository

import (
	"context"

	"learningleague/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NoteRepository stores free-form tutor notes on students.
type NoteRepository struct {
	db *pgxpool.Pool
}

func NewNoteRepository(db *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts a note and fills in its generated id.
func (r *NoteRepository) Create(ctx context.Context, n *domain.TutorNote) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO tutor_notes (id, student_id, tutor_id, note, created_at)
		VALUES (gen_random_uuid()::text, $1, $2, $3, NOW())
		RETURNING id, created_at`,
		n.StudentID, n.TutorID, n.Note,
	).Scan(&n.ID, &n.CreatedAt)
}

// ListByStudent returns a student's notes, newest first.
func (r *NoteRepository) ListByStudent(ctx context.Context, studentID int64) ([]domain.TutorNote, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, student_id, tutor_id, note, created_at
		FROM tutor_notes WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.TutorNote
	for rows.Next() {
		var n domain.TutorNote
		if err := rows.Scan(&n.ID, &n.StudentID, &n.TutorID, &n.Note, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
