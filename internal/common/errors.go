// Package common defines shared sentinel errors and small helpers used across
// the admin client and the remote server. Callers should use errors.Is to
// match the sentinel values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("duplicate username")

	// Service-level errors.
	ErrInternal = errors.New("internal error")

	// Authentication errors. ErrInvalidCredentials is deliberately generic:
	// it never tells the caller whether the user exists.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrStorageFailure marks a local durable store that could not be read
	// or written. It is never reported as ErrInvalidCredentials.
	ErrStorageFailure = errors.New("storage failure")

	// Connectivity errors.
	ErrProbeTimeout      = errors.New("health probe timed out")
	ErrRemoteUnavailable = errors.New("remote service unavailable")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// RemoteAuthError is an authoritative rejection returned by the remote
// authentication service. It must not trigger a fallback to local credentials.
type RemoteAuthError struct {
	Reason string
}

func (e *RemoteAuthError) Error() string {
	if e.Reason == "" {
		return "remote authentication rejected"
	}
	return "remote authentication rejected: " + e.Reason
}

// Unwrap lets errors.Is(err, ErrInvalidCredentials) succeed for remote
// rejections, so callers can show the same generic message for both paths.
func (e *RemoteAuthError) Unwrap() error {
	return ErrInvalidCredentials
}
