// Package flash provides one-shot status messages that survive a
// redirect. Messages are held in a signed session cookie and cleared
// the first time they are read, so a banner renders exactly once.
package flash

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/backoffice-labs/catalog/internal/config"
)

// Status classifies a flash message for rendering.
type Status string

// Flash statuses.
const (
	Success Status = "success"
	Error   Status = "error"
)

// Message is the response envelope carried across a redirect:
// an explicit status plus the user-facing text.
type Message struct {
	Status  Status
	Message string
}

func init() {
	gob.Register(Message{})
}

// Store reads and writes flash messages backed by a cookie session.
type Store struct {
	store *sessions.CookieStore
	name  string
}

// NewStore creates a flash store from session configuration.
func NewStore(cfg *config.SessionConfig) *Store {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Store{
		store: store,
		name:  cfg.Name,
	}
}

// Set queues a flash message for the next request.
func (s *Store) Set(w http.ResponseWriter, r *http.Request, status Status, text string) {
	session, _ := s.store.Get(r, s.name)
	session.AddFlash(Message{Status: status, Message: text})
	if err := session.Save(r, w); err != nil {
		// A failed save only loses the banner, not the operation result.
		return
	}
}

// Pop returns the pending flash message, if any, and clears it.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) *Message {
	session, err := s.store.Get(r, s.name)
	if err != nil {
		return nil
	}

	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil
	}

	session.Save(r, w)

	if msg, ok := flashes[0].(Message); ok {
		return &msg
	}
	return nil
}
