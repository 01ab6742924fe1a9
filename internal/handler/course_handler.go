package handler

import (
	"context"
	"net/http"

	"studentrecords/internal/entity"
)

// CourseStore is implemented by repository.CourseRepository.
type CourseStore interface {
	List(ctx context.Context) ([]entity.Course, error)
	ListWithCounts(ctx context.Context) ([]entity.CourseSummary, error)
}

type CourseHandler struct {
	courses CourseStore
	pages   *pages
}

func NewCourseHandler(courses CourseStore, p *pages) *CourseHandler {
	return &CourseHandler{courses: courses, pages: p}
}

func (h *CourseHandler) Courses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.ListWithCounts(r.Context())
	if err != nil {
		h.pages.serverError(w, r, "failed to list courses", err)
		return
	}

	h.pages.render(w, r, "courses.html", map[string]interface{}{
		"Title":   "Courses",
		"Courses": courses,
	})
}
