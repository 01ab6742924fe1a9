package handler

import "net/http"

type HomeHandler struct {
	pages *pages
}

func NewHomeHandler(p *pages) *HomeHandler {
	return &HomeHandler{pages: p}
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, "home.html", map[string]interface{}{
		"Title": "Home",
	})
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
