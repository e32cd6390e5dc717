// Package models defines the typed records the admin client keeps in its
// local slot store: credential records, the active session, the connection
// status, and the assistant's settings.
package models

import (
	"errors"
	"strings"
	"time"
)

// Role tags what a user may do in the admin tool. Authentication carries it
// into the session without interpreting it.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// SystemActor is the audit identity used for records created by bootstrap.
const SystemActor = "system"

// UserRecord is one entry of the local credential store.
type UserRecord struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedBy    string    `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedBy    string    `json:"updatedBy"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var (
	errMissingID       = errors.New("missing id")
	errMissingUsername = errors.New("missing username")
	errMissingHash     = errors.New("missing password hash")
)

// Validate reports whether the record carries the fields authentication
// depends on.
func (u *UserRecord) Validate() error {
	switch {
	case strings.TrimSpace(u.ID) == "":
		return errMissingID
	case strings.TrimSpace(u.Username) == "":
		return errMissingUsername
	case u.PasswordHash == "":
		return errMissingHash
	}
	return nil
}

// MatchesUsername compares usernames case-insensitively.
func (u *UserRecord) MatchesUsername(username string) bool {
	return strings.EqualFold(u.Username, username)
}
