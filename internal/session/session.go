// Package session provides per-browser session storage for the viewer.
//
// Values live for the lifetime of the process and are scoped to a session
// id carried in a cookie. Closing the browser drops the cookie, which is
// how password unlocks expire.
package session

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// CookieName carries the session id between requests.
const CookieName = "folio_session"

// Store is an in-memory map of session id to string key/value pairs.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]map[string]string)}
}

// Get returns the value stored under key for the session, if any.
func (s *Store) Get(sessionID, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vals, ok := s.sessions[sessionID]
	if !ok {
		return "", false
	}
	v, ok := vals[key]
	return v, ok
}

// Set stores a value under key for the session.
func (s *Store) Set(sessionID, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vals, ok := s.sessions[sessionID]
	if !ok {
		vals = make(map[string]string)
		s.sessions[sessionID] = vals
	}
	vals[key] = value
}

// Delete removes a single key from the session.
func (s *Store) Delete(sessionID, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if vals, ok := s.sessions[sessionID]; ok {
		delete(vals, key)
	}
}

// Drop discards the whole session.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// FromRequest returns the session id from the request cookie, or ok=false
// when the request carries none.
func FromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Ensure returns the request's session id, minting a new one and setting
// the cookie when the request has none.
func Ensure(w http.ResponseWriter, r *http.Request) string {
	if id, ok := FromRequest(r); ok {
		return id
	}
	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
