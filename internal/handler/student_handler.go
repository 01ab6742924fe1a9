package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"studentrecords/internal/entity"
	"studentrecords/internal/logger"
	"studentrecords/internal/middleware"
	"studentrecords/internal/repository"
	"studentrecords/internal/session"
)

// StudentStore is implemented by repository.StudentRepository.
type StudentStore interface {
	Create(ctx context.Context, s *entity.Student) error
	List(ctx context.Context, search string) ([]entity.Student, error)
	Get(ctx context.Context, id int) (*entity.Student, error)
	Update(ctx context.Context, s *entity.Student) error
	Delete(ctx context.Context, id int) error
	Courses(ctx context.Context, id int) ([]entity.Course, error)
	SetCourses(ctx context.Context, id int, courseIDs []int) error
}

type StudentHandler struct {
	students StudentStore
	courses  CourseStore
	marks    MarkStore
	pages    *pages
}

func NewStudentHandler(students StudentStore, courses CourseStore, marks MarkStore, p *pages) *StudentHandler {
	return &StudentHandler{students: students, courses: courses, marks: marks, pages: p}
}

func (h *StudentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	students, err := h.students.List(r.Context(), search)
	if err != nil {
		h.pages.serverError(w, r, "failed to list students", err)
		return
	}

	h.pages.render(w, r, "dashboard.html", map[string]interface{}{
		"Title":    "Dashboard",
		"Search":   search,
		"Students": students,
	})
}

func (h *StudentHandler) AddStudentPage(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, "student_form.html", map[string]interface{}{
		"Title":   "Add Student",
		"Action":  "/add_student",
		"Student": entity.Student{},
	})
}

func (h *StudentHandler) AddStudent(w http.ResponseWriter, r *http.Request) {
	form, err := parseStudentForm(r)
	if err != nil {
		h.pages.redirect(w, r, "/add_student", session.Danger, formMessage(err))
		return
	}

	student := form.Student(0)
	if err := h.students.Create(r.Context(), &student); err != nil {
		h.saveFailed(w, r, "/add_student", err)
		return
	}

	logger.LogInfo("student created",
		"student_id", student.ID, "by", middleware.Username(r.Context()))
	h.pages.redirect(w, r, "/dashboard", session.Success, "Student added successfully!")
}

func (h *StudentHandler) EditStudentPage(w http.ResponseWriter, r *http.Request) {
	student, ok := h.loadStudent(w, r)
	if !ok {
		return
	}

	h.pages.render(w, r, "student_form.html", map[string]interface{}{
		"Title":   "Edit Student",
		"Action":  fmt.Sprintf("/edit_student/%d", student.ID),
		"Student": student,
	})
}

func (h *StudentHandler) EditStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	back := fmt.Sprintf("/edit_student/%d", id)

	form, err := parseStudentForm(r)
	if err != nil {
		if _, err := h.students.Get(r.Context(), id); errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Student not found", http.StatusNotFound)
			return
		}
		h.pages.redirect(w, r, back, session.Danger, formMessage(err))
		return
	}

	student := form.Student(id)
	err = h.students.Update(r.Context(), &student)
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "Student not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.saveFailed(w, r, back, err)
		return
	}

	logger.LogInfo("student updated", "student_id", id, "by", middleware.Username(r.Context()))
	h.pages.redirect(w, r, "/dashboard", session.Success, "Student updated successfully!")
}

func (h *StudentHandler) ViewStudent(w http.ResponseWriter, r *http.Request) {
	student, ok := h.loadStudent(w, r)
	if !ok {
		return
	}

	courses, err := h.students.Courses(r.Context(), student.ID)
	if err != nil {
		h.pages.serverError(w, r, "failed to load student courses", err)
		return
	}
	marks, err := h.marks.ListByStudent(r.Context(), student.ID)
	if err != nil {
		h.pages.serverError(w, r, "failed to load student marks", err)
		return
	}

	h.pages.render(w, r, "view_student.html", map[string]interface{}{
		"Title": student.Name,
		"Profile": entity.StudentProfile{
			Student: *student,
			Courses: courses,
			Marks:   marks,
		},
	})
}

func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := h.students.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "Student not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.LogError("failed to delete student", err,
			"student_id", id, "request_id", middleware.RequestID(r.Context()))
		h.pages.redirect(w, r, "/dashboard", session.Danger, "Something went wrong, please try again")
		return
	}

	logger.LogInfo("student deleted", "student_id", id, "by", middleware.Username(r.Context()))
	h.pages.redirect(w, r, "/dashboard", session.Success, "Student deleted successfully!")
}

func (h *StudentHandler) EnrollPage(w http.ResponseWriter, r *http.Request) {
	student, ok := h.loadStudent(w, r)
	if !ok {
		return
	}

	all, err := h.courses.List(r.Context())
	if err != nil {
		h.pages.serverError(w, r, "failed to list courses", err)
		return
	}
	current, err := h.students.Courses(r.Context(), student.ID)
	if err != nil {
		h.pages.serverError(w, r, "failed to load student courses", err)
		return
	}

	enrolled := make(map[int]bool, len(current))
	for _, c := range current {
		enrolled[c.ID] = true
	}

	h.pages.render(w, r, "enroll_student.html", map[string]interface{}{
		"Title":    "Courses for " + student.Name,
		"Student":  student,
		"Courses":  all,
		"Enrolled": enrolled,
	})
}

func (h *StudentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.pages.redirect(w, r, fmt.Sprintf("/enroll_student/%d", id), session.Danger, "Could not read the form")
		return
	}

	courseIDs := make([]int, 0, len(r.PostForm["course_id"]))
	for _, raw := range r.PostForm["course_id"] {
		if cid, err := strconv.Atoi(raw); err == nil {
			courseIDs = append(courseIDs, cid)
		}
	}

	err := h.students.SetCourses(r.Context(), id, courseIDs)
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "Student not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.saveFailed(w, r, fmt.Sprintf("/enroll_student/%d", id), err)
		return
	}

	h.pages.redirect(w, r, fmt.Sprintf("/view_student/%d", id), session.Success, "Courses updated successfully!")
}

// loadStudent resolves the {id} path variable, answering 404 itself when
// the student does not exist.
func (h *StudentHandler) loadStudent(w http.ResponseWriter, r *http.Request) (*entity.Student, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}

	student, err := h.students.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "Student not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		h.pages.serverError(w, r, "failed to load student", err)
		return nil, false
	}
	return student, true
}

func (h *StudentHandler) saveFailed(w http.ResponseWriter, r *http.Request, back string, err error) {
	if errors.Is(err, repository.ErrDuplicate) {
		h.pages.redirect(w, r, back, session.Danger, "A student with this email already exists")
		return
	}
	logger.LogError("failed to save student", err, "request_id", middleware.RequestID(r.Context()))
	h.pages.redirect(w, r, back, session.Danger, "Something went wrong, please try again")
}

// pathID parses the {id} route variable. Routes only match digits, so a
// failure here means the number does not fit in an int.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}
