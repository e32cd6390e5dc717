package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/eurisssow03/wc-helper-sub001/internal/client/models"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/slots"
	"github.com/eurisssow03/wc-helper-sub001/internal/common"
	"github.com/eurisssow03/wc-helper-sub001/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialStore_List_EmptyWhenAbsent(t *testing.T) {
	cs := NewCredentialStore(slots.NewMemoryStore(), nil)

	users, err := cs.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestCredentialStore_ReplaceAll_PreservesOrder(t *testing.T) {
	cs := NewCredentialStore(slots.NewMemoryStore(), nil)
	ctx := context.Background()

	in := []models.UserRecord{
		userRecord(t, "1", "carol", "p1", true),
		userRecord(t, "2", "alice", "p2", true),
		userRecord(t, "3", "bob", "p3", false),
	}
	require.NoError(t, cs.ReplaceAll(ctx, in))

	users, err := cs.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{users[0].ID, users[1].ID, users[2].ID})
	assert.Equal(t, in[0].PasswordHash, users[0].PasswordHash)
}

func TestCredentialStore_ReplaceAll_Overwrites(t *testing.T) {
	cs := NewCredentialStore(slots.NewMemoryStore(), nil)
	ctx := context.Background()

	require.NoError(t, cs.ReplaceAll(ctx, []models.UserRecord{userRecord(t, "1", "a", "p", true)}))
	require.NoError(t, cs.ReplaceAll(ctx, nil))

	users, err := cs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestCredentialStore_ReplaceAll_RejectsInvalidRecord(t *testing.T) {
	cs := NewCredentialStore(slots.NewMemoryStore(), nil)

	bad := userRecord(t, "1", "", "p", true)
	err := cs.ReplaceAll(context.Background(), []models.UserRecord{bad})
	require.Error(t, err)
}

func TestCredentialStore_FindActiveByUsername_CaseInsensitive(t *testing.T) {
	cs := NewCredentialStore(slots.NewMemoryStore(), nil)
	ctx := context.Background()
	require.NoError(t, cs.ReplaceAll(ctx, []models.UserRecord{
		userRecord(t, "1", "Admin@Example.com", "p", true),
		userRecord(t, "2", "staff", "p", true),
	}))

	for _, q := range []string{"admin@example.com", "ADMIN@EXAMPLE.COM", "Admin@Example.com", "aDmIn@eXaMpLe.CoM"} {
		u, err := cs.FindActiveByUsername(ctx, q)
		require.NoError(t, err)
		require.NotNil(t, u, q)
		assert.Equal(t, "1", u.ID)
	}
}

func TestCredentialStore_FindActiveByUsername_InactiveIsNotFound(t *testing.T) {
	cs := NewCredentialStore(slots.NewMemoryStore(), nil)
	ctx := context.Background()
	require.NoError(t, cs.ReplaceAll(ctx, []models.UserRecord{
		userRecord(t, "1", "demo@example.com", "p", false),
	}))

	u, err := cs.FindActiveByUsername(ctx, "demo@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestCredentialStore_FindActiveByUsername_FirstActiveMatchWins(t *testing.T) {
	cs := NewCredentialStore(slots.NewMemoryStore(), nil)
	ctx := context.Background()
	require.NoError(t, cs.ReplaceAll(ctx, []models.UserRecord{
		userRecord(t, "1", "dup", "p", false),
		userRecord(t, "2", "DUP", "p", true),
		userRecord(t, "3", "dup", "p", true),
	}))

	u, err := cs.FindActiveByUsername(ctx, "dup")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "2", u.ID)
}

func TestCredentialStore_WithUniqueUsernames(t *testing.T) {
	ctx := context.Background()
	recs := []models.UserRecord{
		userRecord(t, "1", "dup", "p", true),
		userRecord(t, "2", "DUP", "p", true),
	}

	loose := NewCredentialStore(slots.NewMemoryStore(), nil)
	require.NoError(t, loose.ReplaceAll(ctx, recs))

	strict := NewCredentialStore(slots.NewMemoryStore(), nil, WithUniqueUsernames())
	require.ErrorIs(t, strict.ReplaceAll(ctx, recs), common.ErrDuplicateUsername)

	recs[0].IsActive = false
	require.NoError(t, strict.ReplaceAll(ctx, recs))
}

func TestCredentialStore_SkipsInvalidRecordsAndLogs(t *testing.T) {
	store := slots.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, slots.KeyUsers, []byte(`[
		{"id":"1","username":"ok","passwordHash":"abc","role":"staff","isActive":true},
		{"id":"2","username":"","passwordHash":"abc","isActive":true},
		"not an object",
		{"id":"3","username":"ok2","passwordHash":"def","role":"admin","isActive":true}
	]`)))

	var buf bytes.Buffer
	cs := NewCredentialStore(store, logging.NewTextLogger(&buf, "debug"))

	users, err := cs.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "1", users[0].ID)
	assert.Equal(t, "3", users[1].ID)
	assert.Equal(t, 2, strings.Count(buf.String(), "skipping"))
}

func TestCredentialStore_CorruptSlotIsStorageFailure(t *testing.T) {
	store := slots.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, slots.KeyUsers, []byte(`{"not":"a list"}`)))

	cs := NewCredentialStore(store, nil)

	_, err := cs.List(ctx)
	require.ErrorIs(t, err, common.ErrStorageFailure)

	_, err = cs.FindActiveByUsername(ctx, "admin")
	require.ErrorIs(t, err, common.ErrStorageFailure)
	require.NotErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestCredentialStore_ReadAndWriteFailures(t *testing.T) {
	store := slots.NewMemoryStore()
	cs := NewCredentialStore(store, nil)
	ctx := context.Background()

	store.SetErr = errors.New("quota exceeded")
	require.ErrorIs(t, cs.ReplaceAll(ctx, []models.UserRecord{userRecord(t, "1", "a", "p", true)}), common.ErrStorageFailure)

	store.GetErr = errors.New("io error")
	_, err := cs.List(ctx)
	require.ErrorIs(t, err, common.ErrStorageFailure)
}
