package api

import (
	"net/http"

	"github.com/okian/energy-analytics/internal/adapters/repository"
)

// SessionCookie carries the browser's session ID.
const SessionCookie = "energy_session"

// sessionFor resolves the request's session from its cookie.
func sessionFor(r *http.Request, deps Dependencies) repository.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	return deps.Session(r.Context(), id)
}

// setSessionCookie pins the browser to sess. Must run before the body is written.
func setSessionCookie(w http.ResponseWriter, r *http.Request, sess repository.Session) {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value == sess.ID {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
