// Package services contains application services for the admin client.
// This file defines the authentication service: it probes the remote
// service, prefers remote login, falls back to the local credential store
// when the remote side is unreachable, and records the resulting session.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/eurisssow03/wc-helper-sub001/internal/client/client"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/models"
	"github.com/eurisssow03/wc-helper-sub001/internal/common"
	"github.com/eurisssow03/wc-helper-sub001/internal/cryptox"
	"github.com/eurisssow03/wc-helper-sub001/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Authenticate: one login attempt; returns the new session or an error.
//     Bad credentials on either path match common.ErrInvalidCredentials;
//     an authoritative remote rejection is a *common.RemoteAuthError; local
//     storage problems match common.ErrStorageFailure.
//   - Logout: drop the active session.
//   - CurrentSession: the active session, or nil.
//   - Status: the last recorded connection status.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*models.SessionRecord, error)
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (*models.SessionRecord, error)
	Status() models.ConnectionStatus
}

// StatusChecker is the part of health.Monitor the service needs.
type StatusChecker interface {
	Check(ctx context.Context, timeout time.Duration) models.ConnectionStatus
	Status() models.ConnectionStatus
}

// RemoteAuthenticator is the remote credential service.
type RemoteAuthenticator interface {
	Login(ctx context.Context, username, password string) (*client.RemoteUser, error)
}

type authService struct {
	monitor      StatusChecker
	remote       RemoteAuthenticator
	creds        CredentialStore
	sessions     SessionManager
	hasher       cryptox.Hasher
	log          logging.Logger
	probeTimeout time.Duration
}

// NewAuthService wires the orchestrator. remote may be nil, in which case
// every attempt uses the local store. probeTimeout <= 0 means the monitor's
// default.
func NewAuthService(
	monitor StatusChecker,
	remote RemoteAuthenticator,
	creds CredentialStore,
	sessions SessionManager,
	hasher cryptox.Hasher,
	log logging.Logger,
	probeTimeout time.Duration,
) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{
		monitor:      monitor,
		remote:       remote,
		creds:        creds,
		sessions:     sessions,
		hasher:       hasher,
		log:          log,
		probeTimeout: probeTimeout,
	}
}

func (a *authService) Authenticate(ctx context.Context, username, password string) (*models.SessionRecord, error) {
	log := a.log.With("username", username)

	st := a.monitor.Check(ctx, a.probeTimeout)
	log.Debug(ctx, "connection probed", "state", st.State, "detail", st.Detail)

	if st.Connected() && a.remote != nil {
		sess, err := a.remoteLogin(ctx, username, password)
		if err == nil {
			log.Info(ctx, "login succeeded", "mode", models.AuthModeRemote)
			return sess, nil
		}
		var rejected *common.RemoteAuthError
		switch {
		case errors.As(err, &rejected):
			log.Info(ctx, "remote login rejected", "reason", rejected.Reason)
			return nil, err
		case !errors.Is(err, common.ErrRemoteUnavailable):
			// The remote answered; its outcome is not replaced by the local store.
			log.Error(ctx, "remote login failed", "error", err)
			return nil, err
		}
		log.Warn(ctx, "remote unreachable, falling back to local credentials", "error", err)
	}

	sess, err := a.fallbackLogin(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			log.Info(ctx, "local login rejected")
		} else {
			log.Error(ctx, "local login failed", "error", err)
		}
		return nil, err
	}
	log.Info(ctx, "login succeeded", "mode", models.AuthModeFallback)
	return sess, nil
}

func (a *authService) remoteLogin(ctx context.Context, username, password string) (*models.SessionRecord, error) {
	ru, err := a.remote.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	user := models.UserRecord{ID: ru.ID, Username: ru.Username, Role: ru.Role}
	return a.sessions.Create(ctx, user, models.AuthModeRemote, ru.Token)
}

// fallbackLogin checks the local store. Unknown user, wrong password and
// inactive account all yield the same error.
func (a *authService) fallbackLogin(ctx context.Context, username, password string) (*models.SessionRecord, error) {
	digest := a.hasher.Hash(password)

	user, err := a.creds.FindActiveByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive || !cryptox.EqualDigests(user.PasswordHash, digest) {
		return nil, common.ErrInvalidCredentials
	}
	return a.sessions.Create(ctx, *user, models.AuthModeFallback, "")
}

func (a *authService) Logout(ctx context.Context) error {
	return a.sessions.Clear(ctx)
}

func (a *authService) CurrentSession(ctx context.Context) (*models.SessionRecord, error) {
	return a.sessions.Current(ctx)
}

func (a *authService) Status() models.ConnectionStatus {
	return a.monitor.Status()
}
