package main

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	learnerSessionName = "docquiz-learner"
	learnerIDKey       = "learner_id"
)

func newCookieStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 365,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func randomSecret() string {
	return string(securecookie.GenerateRandomKey(32))
}

// learnerID returns the anonymous learner of this browser, issuing one on first visit
func (s *Server) learnerID(w http.ResponseWriter, r *http.Request) (string, error) {
	// a cookie signed with an old secret yields a fresh session and an error we can ignore
	session, _ := s.store.Get(r, learnerSessionName)

	if id, ok := session.Values[learnerIDKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	session.Values[learnerIDKey] = id
	if err := session.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to save learner session: %w", err)
	}
	return id, nil
}
