package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "app-session"
	userKey     = "user"
)

// Flash categories used by the templates.
const (
	Success = "success"
	Danger  = "danger"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
	// flashes are kept as []interface{} in the session values
	gob.Register([]interface{}{})
}

// Manager ties a request to the logged-in username through a gorilla session.
// It is safe for concurrent use as long as the underlying store is.
type Manager struct {
	store sessions.Store
}

func NewManager(store sessions.Store) *Manager {
	return &Manager{store: store}
}

// NewCookieStore keeps the session values in a signed cookie.
func NewCookieStore(secret []byte, maxAge int) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = DefaultOptions(maxAge)
	store.MaxAge(maxAge)
	return store
}

func DefaultOptions(maxAge int) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Login associates the caller's session with username. Stores keyed by a
// session id get a new one, so an id handed out before login never
// becomes an authenticated one.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, username string) error {
	s, _ := m.store.Get(r, sessionName)
	if err := m.renew(r, s); err != nil {
		return err
	}
	s.Values[userKey] = username
	return s.Save(r, w)
}

// Logout discards every session value and, for id-keyed stores, the id
// itself. Flashes added afterwards land in the fresh anonymous session.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	s, _ := m.store.Get(r, sessionName)
	if err := m.renew(r, s); err != nil {
		return err
	}
	for k := range s.Values {
		delete(s.Values, k)
	}
	return s.Save(r, w)
}

// idRenewer is implemented by stores that keep values server-side under
// a session id.
type idRenewer interface {
	Renew(r *http.Request, s *sessions.Session) error
}

func (m *Manager) renew(r *http.Request, s *sessions.Session) error {
	if rn, ok := m.store.(idRenewer); ok {
		return rn.Renew(r, s)
	}
	return nil
}

// CurrentUser reports the logged-in username, if any.
func (m *Manager) CurrentUser(r *http.Request) (string, bool) {
	s, err := m.store.Get(r, sessionName)
	if err != nil {
		return "", false
	}
	username, ok := s.Values[userKey].(string)
	return username, ok && username != ""
}

func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) error {
	s, _ := m.store.Get(r, sessionName)
	s.AddFlash(Flash{Category: category, Message: message})
	return s.Save(r, w)
}

// Flashes returns and clears pending flashes. It must run before the
// response body is written since it may set a cookie.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	s, err := m.store.Get(r, sessionName)
	if err != nil {
		return nil
	}
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save(r, w)

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}
