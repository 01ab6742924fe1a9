package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"studentrecords/internal/entity"
)

type CourseRepository struct {
	db *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) List(ctx context.Context) ([]entity.Course, error) {
	courses := make([]entity.Course, 0)
	err := r.db.SelectContext(ctx, &courses,
		`SELECT id, name, description FROM courses ORDER BY name`)
	if err != nil {
		return nil, wrap("list courses", err)
	}
	return courses, nil
}

// ListWithCounts returns every course with its number of enrolled students.
func (r *CourseRepository) ListWithCounts(ctx context.Context) ([]entity.CourseSummary, error) {
	courses := make([]entity.CourseSummary, 0)
	err := r.db.SelectContext(ctx, &courses, `
		SELECT c.id, c.name, c.description, COUNT(e.student_id) AS student_count
		FROM courses c
		LEFT JOIN enrollments e ON e.course_id = c.id
		GROUP BY c.id, c.name, c.description
		ORDER BY c.name
	`)
	if err != nil {
		return nil, wrap("list courses with counts", err)
	}
	return courses, nil
}
