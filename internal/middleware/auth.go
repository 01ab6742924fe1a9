package middleware

import (
	"context"
	"net/http"

	"studentrecords/internal/logger"
	"studentrecords/internal/session"
)

type contextKey string

const usernameKey contextKey = "username"

// RequireAuth lets the request through only when the session carries a
// logged-in user. Otherwise it flashes a notice and redirects to /login
// without calling next.
func RequireAuth(sm *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := sm.CurrentUser(r)
			if !ok {
				logger.LogInfo("unauthenticated request",
					"method", r.Method, "path", r.URL.Path, "request_id", RequestID(r.Context()))
				if err := sm.AddFlash(w, r, session.Danger, "Please login first"); err != nil {
					logger.LogError("failed to save flash", err)
				}
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Username returns the user stored by RequireAuth.
func Username(ctx context.Context) string {
	username, _ := ctx.Value(usernameKey).(string)
	return username
}
