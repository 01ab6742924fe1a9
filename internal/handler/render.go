package handler

import (
	"bytes"
	"html/template"
	"net/http"

	"studentrecords/internal/logger"
	"studentrecords/internal/middleware"
	"studentrecords/internal/session"
	"studentrecords/internal/templates"
)

var pageFiles = []string{
	"home.html",
	"register.html",
	"login.html",
	"dashboard.html",
	"student_form.html",
	"view_student.html",
	"enroll_student.html",
	"courses.html",
}

// pages renders HTML pages and issues flash redirects. Shared by all handlers.
type pages struct {
	sessions *session.Manager
	tmpl     map[string]*template.Template
}

func newPages(sm *session.Manager) *pages {
	tmpl := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		tmpl[name] = template.Must(template.ParseFS(templates.Pages, "base.html", name))
	}
	return &pages{sessions: sm, tmpl: tmpl}
}

// render executes the page into a buffer first so a template error
// still produces a clean 500.
func (p *pages) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	if user, ok := p.sessions.CurrentUser(r); ok {
		data["User"] = user
	}
	data["Flashes"] = p.sessions.Flashes(w, r)

	var buf bytes.Buffer
	if err := p.tmpl[name].ExecuteTemplate(&buf, "base", data); err != nil {
		logger.LogError("failed to render template", err,
			"template", name, "request_id", middleware.RequestID(r.Context()))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// redirect attaches a flash message and sends the caller to url.
func (p *pages) redirect(w http.ResponseWriter, r *http.Request, url, category, message string) {
	if err := p.sessions.AddFlash(w, r, category, message); err != nil {
		logger.LogError("failed to save flash", err, "request_id", middleware.RequestID(r.Context()))
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// serverError logs a storage failure and answers with 500.
func (p *pages) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger.LogError(msg, err, "path", r.URL.Path, "request_id", middleware.RequestID(r.Context()))
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
