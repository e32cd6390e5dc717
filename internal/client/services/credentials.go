package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eurisssow03/wc-helper-sub001/internal/client/models"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/slots"
	"github.com/eurisssow03/wc-helper-sub001/internal/common"
	"github.com/eurisssow03/wc-helper-sub001/internal/logging"
)

// CredentialStore is the local, durable list of user records that serves as
// the authentication authority while the remote service is unreachable.
//
// Contract:
//   - List: records in insertion order; unreadable entries are skipped.
//   - ReplaceAll: atomic overwrite of the whole list.
//   - FindActiveByUsername: first active, case-insensitive match in list
//     order, or (nil, nil) when there is none.
//
// Storage problems wrap common.ErrStorageFailure.
type CredentialStore interface {
	List(ctx context.Context) ([]models.UserRecord, error)
	ReplaceAll(ctx context.Context, records []models.UserRecord) error
	FindActiveByUsername(ctx context.Context, username string) (*models.UserRecord, error)
}

type credentialStore struct {
	store  slots.Store
	log    logging.Logger
	unique bool
}

// CredentialOption configures NewCredentialStore.
type CredentialOption func(*credentialStore)

// WithUniqueUsernames makes ReplaceAll reject lists holding two active records
// with the same case-folded username.
func WithUniqueUsernames() CredentialOption {
	return func(c *credentialStore) { c.unique = true }
}

func NewCredentialStore(store slots.Store, log logging.Logger, opts ...CredentialOption) CredentialStore {
	if log == nil {
		log = logging.Nop()
	}
	c := &credentialStore{store: store, log: log}
	for _, o := range opts {
		o(c)
	}
	return c
}

// readRaw returns the stored list without decoding individual records.
func readRaw(ctx context.Context, store slots.Store) ([]json.RawMessage, error) {
	var raw []json.RawMessage
	if _, err := slots.GetJSON(ctx, store, slots.KeyUsers, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *credentialStore) List(ctx context.Context) ([]models.UserRecord, error) {
	raw, err := readRaw(ctx, c.store)
	if err != nil {
		return nil, err
	}

	users := make([]models.UserRecord, 0, len(raw))
	for i, r := range raw {
		var u models.UserRecord
		if err := json.Unmarshal(r, &u); err != nil {
			c.log.Warn(ctx, "skipping undecodable user record", "index", i, "error", err)
			continue
		}
		if err := u.Validate(); err != nil {
			c.log.Warn(ctx, "skipping invalid user record", "index", i, "error", err)
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (c *credentialStore) ReplaceAll(ctx context.Context, records []models.UserRecord) error {
	seen := make(map[string]struct{}, len(records))
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return fmt.Errorf("user record %d: %w", i, err)
		}
		if !c.unique || !records[i].IsActive {
			continue
		}
		key := strings.ToLower(records[i].Username)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s", common.ErrDuplicateUsername, records[i].Username)
		}
		seen[key] = struct{}{}
	}

	if records == nil {
		records = []models.UserRecord{}
	}
	return slots.SetJSON(ctx, c.store, slots.KeyUsers, records)
}

func (c *credentialStore) FindActiveByUsername(ctx context.Context, username string) (*models.UserRecord, error) {
	users, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].IsActive && users[i].MatchesUsername(username) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}
