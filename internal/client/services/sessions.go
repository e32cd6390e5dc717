package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eurisssow03/wc-helper-sub001/internal/client/models"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/slots"
	"github.com/eurisssow03/wc-helper-sub001/internal/common"
	"github.com/eurisssow03/wc-helper-sub001/internal/logging"
)

// SessionManager owns the single active session slot.
type SessionManager interface {
	// Create overwrites the active session with one for user.
	Create(ctx context.Context, user models.UserRecord, mode models.AuthMode, token string) (*models.SessionRecord, error)
	// Current returns the active session, or nil when the slot is empty or
	// holds something that is not a valid session.
	Current(ctx context.Context) (*models.SessionRecord, error)
	// Clear removes the active session. It is idempotent.
	Clear(ctx context.Context) error
}

type sessionManager struct {
	store slots.Store
	log   logging.Logger
	now   func() time.Time
}

func NewSessionManager(store slots.Store, log logging.Logger) SessionManager {
	if log == nil {
		log = logging.Nop()
	}
	return &sessionManager{store: store, log: log, now: time.Now}
}

func (s *sessionManager) Create(ctx context.Context, user models.UserRecord, mode models.AuthMode, token string) (*models.SessionRecord, error) {
	rec := &models.SessionRecord{
		UserID:          user.ID,
		SubjectUsername: user.Username,
		Role:            user.Role,
		IssuedAt:        s.now().UTC(),
		AuthMode:        mode,
		Token:           token,
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("create session for %q: %w", user.Username, err)
	}
	if err := slots.SetJSON(ctx, s.store, slots.KeySessions, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *sessionManager) Current(ctx context.Context) (*models.SessionRecord, error) {
	var rec models.SessionRecord
	found, err := slots.GetJSON(ctx, s.store, slots.KeySessions, &rec)
	if errors.Is(err, slots.ErrCorrupt) {
		s.log.Warn(ctx, "ignoring corrupt session slot", "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if err := rec.Validate(); err != nil {
		s.log.Warn(ctx, "ignoring invalid session", "error", err)
		return nil, nil
	}
	return &rec, nil
}

func (s *sessionManager) Clear(ctx context.Context) error {
	if err := s.store.Remove(ctx, slots.KeySessions); err != nil {
		return fmt.Errorf("%w: remove session: %w", common.ErrStorageFailure, err)
	}
	return nil
}
