package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"studentrecords/internal/entity"
)

type MarkRepository struct {
	db *sqlx.DB
}

func NewMarkRepository(db *sqlx.DB) *MarkRepository {
	return &MarkRepository{db: db}
}

// Add records a mark for m.StudentID and fills in m.ID.
// A missing student yields ErrNotFound.
func (r *MarkRepository) Add(ctx context.Context, m *entity.Mark) error {
	op := fmt.Sprintf("add mark for student %d", m.StudentID)

	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO marks (student_id, subject, score)
		SELECT id, $2, $3 FROM students WHERE id = $1
		RETURNING id
	`, m.StudentID, m.Subject, m.Score).Scan(&m.ID)

	return wrap(op, err)
}

func (r *MarkRepository) ListByStudent(ctx context.Context, studentID int) ([]entity.Mark, error) {
	marks := make([]entity.Mark, 0)
	err := r.db.SelectContext(ctx, &marks, `
		SELECT id, student_id, subject, score
		FROM marks
		WHERE student_id = $1
		ORDER BY subject, id
	`, studentID)
	if err != nil {
		return nil, wrap(fmt.Sprintf("list marks of student %d", studentID), err)
	}
	return marks, nil
}

// Delete removes the mark and returns the id of the student it belonged to.
func (r *MarkRepository) Delete(ctx context.Context, id int) (int, error) {
	var studentID int
	err := r.db.QueryRowxContext(ctx,
		`DELETE FROM marks WHERE id = $1 RETURNING student_id`, id).Scan(&studentID)
	if err != nil {
		return 0, wrap(fmt.Sprintf("delete mark %d", id), err)
	}
	return studentID, nil
}
