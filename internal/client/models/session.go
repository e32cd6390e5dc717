package models

import (
	"errors"
	"strings"
	"time"
)

// AuthMode records which path produced a session.
type AuthMode string

const (
	AuthModeRemote   AuthMode = "remote"
	AuthModeFallback AuthMode = "fallback"
)

// SessionRecord is the single active session. Its fields are copied from the
// authenticated user when the session is created.
type SessionRecord struct {
	UserID          string    `json:"userId,omitempty"`
	SubjectUsername string    `json:"subjectUsername"`
	Role            Role      `json:"role"`
	IssuedAt        time.Time `json:"issuedAt"`
	AuthMode        AuthMode  `json:"authMode"`
	// Token is the bearer token issued by the remote service; empty for
	// fallback sessions.
	Token string `json:"token,omitempty"`
}

var errInvalidSession = errors.New("invalid session")

// Validate requires subjectUsername, role and issuedAt to be present.
func (s *SessionRecord) Validate() error {
	if strings.TrimSpace(s.SubjectUsername) == "" || strings.TrimSpace(string(s.Role)) == "" || s.IssuedAt.IsZero() {
		return errInvalidSession
	}
	return nil
}
