package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"studentrecords/internal/auth"
	"studentrecords/internal/entity"
	"studentrecords/internal/logger"
	"studentrecords/internal/middleware"
	"studentrecords/internal/session"
)

// Credentials registers and verifies users. Implemented by auth.Service.
type Credentials interface {
	Register(ctx context.Context, username, password string) (*entity.User, error)
	Verify(ctx context.Context, username, password string) (*entity.User, error)
}

type AuthHandler struct {
	creds    Credentials
	sessions *session.Manager
	pages    *pages
}

func NewAuthHandler(creds Credentials, sm *session.Manager, p *pages) *AuthHandler {
	return &AuthHandler{creds: creds, sessions: sm, pages: p}
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, "register.html", map[string]interface{}{
		"Title": "Register",
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	form, err := parseRegisterForm(r)
	if err != nil {
		h.pages.redirect(w, r, "/register", session.Danger, formMessage(err))
		return
	}

	_, err = h.creds.Register(r.Context(), form.Username, form.Password)
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		h.pages.redirect(w, r, "/register", session.Danger, "Username already exists!")
		return
	case errors.Is(err, auth.ErrPasswordTooLong):
		h.pages.redirect(w, r, "/register", session.Danger,
			fmt.Sprintf("Password is too long (max %d bytes)", auth.MaxPasswordBytes))
		return
	case err != nil:
		logger.LogError("failed to register user", err,
			"username", form.Username, "request_id", middleware.RequestID(r.Context()))
		h.pages.redirect(w, r, "/register", session.Danger, "Something went wrong, please try again")
		return
	}

	logger.LogInfo("user registered", "username", form.Username)
	h.pages.redirect(w, r, "/login", session.Success, "Registration successful! Please login.")
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	h.pages.render(w, r, "login.html", map[string]interface{}{
		"Title": "Login",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form, err := parseLoginForm(r)
	if err != nil {
		h.pages.redirect(w, r, "/login", session.Danger, "Invalid username or password")
		return
	}

	user, err := h.creds.Verify(r.Context(), form.Username, form.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		logger.LogInfo("failed login", "username", form.Username)
		h.pages.redirect(w, r, "/login", session.Danger, "Invalid username or password")
		return
	case err != nil:
		logger.LogError("failed to verify credentials", err,
			"username", form.Username, "request_id", middleware.RequestID(r.Context()))
		h.pages.redirect(w, r, "/login", session.Danger, "Something went wrong, please try again")
		return
	}

	if err := h.sessions.Login(w, r, user.Username); err != nil {
		logger.LogError("failed to save session", err, "username", user.Username)
		h.pages.redirect(w, r, "/login", session.Danger, "Something went wrong, please try again")
		return
	}

	logger.LogInfo("user logged in", "username", user.Username, "user_id", user.ID)
	h.pages.redirect(w, r, "/dashboard", session.Success, "Login successful!")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		logger.LogError("failed to clear session", err)
	}
	h.pages.redirect(w, r, "/", session.Success, "Logged out successfully!")
}
