package handler

import (
	"bytes"
	"net/http"
	"strings"

	"studentrecords/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportStudents downloads the dashboard list (same ?search= filter) as xlsx.
func (h *StudentHandler) ExportStudents(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	students, err := h.students.List(r.Context(), search)
	if err != nil {
		h.pages.serverError(w, r, "failed to list students for export", err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteStudents(&buf, students); err != nil {
		h.pages.serverError(w, r, "failed to build student export", err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="students.xlsx"`)
	w.Write(buf.Bytes())
}
