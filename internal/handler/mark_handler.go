package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"studentrecords/internal/entity"
	"studentrecords/internal/logger"
	"studentrecords/internal/middleware"
	"studentrecords/internal/repository"
	"studentrecords/internal/session"
)

// MarkStore is implemented by repository.MarkRepository.
type MarkStore interface {
	Add(ctx context.Context, m *entity.Mark) error
	ListByStudent(ctx context.Context, studentID int) ([]entity.Mark, error)
	Delete(ctx context.Context, id int) (int, error)
}

type MarkHandler struct {
	marks MarkStore
	pages *pages
}

func NewMarkHandler(marks MarkStore, p *pages) *MarkHandler {
	return &MarkHandler{marks: marks, pages: p}
}

func (h *MarkHandler) AddMark(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathID(w, r)
	if !ok {
		return
	}
	back := fmt.Sprintf("/view_student/%d", studentID)

	form, err := parseMarkForm(r)
	if err != nil {
		h.pages.redirect(w, r, back, session.Danger, formMessage(err))
		return
	}

	mark := entity.Mark{StudentID: studentID, Subject: form.Subject, Score: form.Score}
	err = h.marks.Add(r.Context(), &mark)
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "Student not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.LogError("failed to add mark", err,
			"student_id", studentID, "request_id", middleware.RequestID(r.Context()))
		h.pages.redirect(w, r, back, session.Danger, "Something went wrong, please try again")
		return
	}

	h.pages.redirect(w, r, back, session.Success, "Mark added successfully!")
}

func (h *MarkHandler) DeleteMark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	studentID, err := h.marks.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "Mark not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.LogError("failed to delete mark", err,
			"mark_id", id, "request_id", middleware.RequestID(r.Context()))
		h.pages.redirect(w, r, "/dashboard", session.Danger, "Something went wrong, please try again")
		return
	}

	h.pages.redirect(w, r, fmt.Sprintf("/view_student/%d", studentID), session.Success, "Mark removed")
}
