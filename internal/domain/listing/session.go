package listing

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName      = "farmstay_search"
	sessionValueName = "criteria"
)

// SessionStore keeps one Criteria per browser session in a signed cookie.
// MaxAge is zero, so the cookie dies with the browser session.
type SessionStore struct {
	store sessions.Store
}

// NewSessionStore signs cookies with key (at least 32 bytes).
func NewSessionStore(key []byte, secure bool) *SessionStore {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/api/search",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

// Load returns the session criteria, or the defaults for a new or unreadable session.
func (s *SessionStore) Load(r *http.Request) Criteria {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		// tampered or rotated key: start over
		return DefaultCriteria()
	}
	raw, ok := session.Values[sessionValueName].(string)
	if !ok {
		return DefaultCriteria()
	}
	var c Criteria
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return DefaultCriteria()
	}
	// re-run the constructors so a stored value can never hold an unselectable state
	return DefaultCriteria().
		WithSearch(c.Search).
		WithPrice(c.Price).
		WithMinGuests(c.MinGuests).
		WithMinRating(c.MinRating).
		WithAmenities(c.Amenities...)
}

// Save writes c to the session cookie.
func (s *SessionStore) Save(w http.ResponseWriter, r *http.Request, c Criteria) error {
	// Get returns a fresh session alongside a decode error, which is fine to overwrite.
	session, _ := s.store.Get(r, sessionName)
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding search criteria: %w", err)
	}
	session.Values[sessionValueName] = string(raw)
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("saving search session: %w", err)
	}
	return nil
}
