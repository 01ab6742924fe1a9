package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"studentrecords/internal/entity"
)

const studentColumns = `
	id, name, age, grade,
	COALESCE(email, '') AS email,
	COALESCE(phone, '') AS phone,
	COALESCE(address, '') AS address,
	created_at`

type StudentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts s and fills in its ID and CreatedAt.
func (r *StudentRepository) Create(ctx context.Context, s *entity.Student) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO students (name, age, grade, email, phone, address)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''))
		RETURNING id, created_at
	`, s.Name, s.Age, s.Grade, s.Email, s.Phone, s.Address).Scan(&s.ID, &s.CreatedAt)

	return wrap("create student", err)
}

// List returns all students ordered by id. A non-empty search keeps only
// students whose name contains it, ignoring case.
func (r *StudentRepository) List(ctx context.Context, search string) ([]entity.Student, error) {
	students := make([]entity.Student, 0)

	var err error
	if search == "" {
		err = r.db.SelectContext(ctx, &students,
			`SELECT `+studentColumns+` FROM students ORDER BY id`)
	} else {
		err = r.db.SelectContext(ctx, &students,
			`SELECT `+studentColumns+` FROM students WHERE name ILIKE $1 ORDER BY id`,
			likePattern(search))
	}
	if err != nil {
		return nil, wrap("list students", err)
	}

	return students, nil
}

func (r *StudentRepository) Get(ctx context.Context, id int) (*entity.Student, error) {
	var s entity.Student
	err := r.db.GetContext(ctx, &s,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	if err != nil {
		return nil, wrap(fmt.Sprintf("get student %d", id), err)
	}
	return &s, nil
}

// Update overwrites every editable field of the student with s.ID.
func (r *StudentRepository) Update(ctx context.Context, s *entity.Student) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students
		SET name = $1, age = $2, grade = $3,
			email = NULLIF($4, ''), phone = NULLIF($5, ''), address = NULLIF($6, '')
		WHERE id = $7
	`, s.Name, s.Age, s.Grade, s.Email, s.Phone, s.Address, s.ID)
	if err != nil {
		return wrap(fmt.Sprintf("update student %d", s.ID), err)
	}
	return expectOneRow(res, fmt.Sprintf("update student %d", s.ID))
}

// Delete removes the student; marks and enrollments go with it.
func (r *StudentRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return wrap(fmt.Sprintf("delete student %d", id), err)
	}
	return expectOneRow(res, fmt.Sprintf("delete student %d", id))
}

// Courses lists the courses the student is enrolled in.
func (r *StudentRepository) Courses(ctx context.Context, id int) ([]entity.Course, error) {
	courses := make([]entity.Course, 0)
	err := r.db.SelectContext(ctx, &courses, `
		SELECT c.id, c.name, c.description
		FROM courses c
		JOIN enrollments e ON e.course_id = c.id
		WHERE e.student_id = $1
		ORDER BY c.name
	`, id)
	if err != nil {
		return nil, wrap(fmt.Sprintf("list courses of student %d", id), err)
	}
	return courses, nil
}

// SetCourses replaces the student's enrollments with courseIDs.
// Unknown course ids are ignored.
func (r *StudentRepository) SetCourses(ctx context.Context, id int, courseIDs []int) error {
	op := fmt.Sprintf("set courses of student %d", id)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrap(op, err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM students WHERE id = $1)`, id); err != nil {
		return wrap(op, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE student_id = $1`, id); err != nil {
		return wrap(op, err)
	}

	if len(courseIDs) > 0 {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO enrollments (student_id, course_id)
			SELECT $1, id FROM courses WHERE id = ANY($2)
		`, id, pq.Array(courseIDs))
		if err != nil {
			return wrap(op, err)
		}
	}

	return wrap(op, tx.Commit())
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func expectOneRow(res rowsAffecter, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
