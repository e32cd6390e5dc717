package services

import (
	"context"
	"testing"
	"time"

	"github.com/eurisssow03/wc-helper-sub001/internal/client/client"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/models"
	"github.com/eurisssow03/wc-helper-sub001/internal/cryptox"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeChecker struct {
	state    models.ConnectionState
	calls    int
	timeouts []time.Duration
}

func (f *fakeChecker) Check(_ context.Context, timeout time.Duration) models.ConnectionStatus {
	f.calls++
	f.timeouts = append(f.timeouts, timeout)
	return models.NewConnectionStatus(f.state, time.Now(), "")
}

func (f *fakeChecker) Status() models.ConnectionStatus {
	return models.NewConnectionStatus(f.state, time.Now(), "")
}

type fakeRemote struct {
	user  *client.RemoteUser
	err   error
	calls int

	lastUser string
	lastPass string
}

func (f *fakeRemote) Login(_ context.Context, username, password string) (*client.RemoteUser, error) {
	f.calls++
	f.lastUser, f.lastPass = username, password
	return f.user, f.err
}

// ---- helpers ----

func userRecord(t *testing.T, id, username, password string, active bool) models.UserRecord {
	t.Helper()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return models.UserRecord{
		ID:           id,
		Username:     username,
		PasswordHash: cryptox.SHA256Hasher{}.Hash(password),
		Role:         models.RoleStaff,
		IsActive:     active,
		CreatedBy:    models.SystemActor,
		CreatedAt:    now,
		UpdatedBy:    models.SystemActor,
		UpdatedAt:    now,
	}
}

func requireNoSession(t *testing.T, sm SessionManager) {
	t.Helper()
	cur, err := sm.Current(context.Background())
	require.NoError(t, err)
	require.Nil(t, cur)
}
