package services

import (
	"context"
	"time"

	"github.com/eurisssow03/wc-helper-sub001/internal/client/models"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/slots"
	"github.com/eurisssow03/wc-helper-sub001/internal/cryptox"
	"github.com/eurisssow03/wc-helper-sub001/internal/logging"
	"github.com/google/uuid"
)

// Default administrative identity seeded into an empty credential store.
// It is documented, not secret.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// Bootstrapper makes sure every local slot the tool relies on exists.
type Bootstrapper interface {
	// EnsureInitialized creates missing slots with defaults and leaves
	// existing ones untouched. Safe to call on every start.
	EnsureInitialized(ctx context.Context) error
}

type bootstrapper struct {
	store  slots.Store
	hasher cryptox.Hasher
	log    logging.Logger
	now    func() time.Time
	newID  func() string
}

// NewBootstrapper returns a Bootstrapper over store. On backends that
// implement slots.Updater all slots are seeded in one transaction.
func NewBootstrapper(store slots.Store, hasher cryptox.Hasher, log logging.Logger) Bootstrapper {
	if log == nil {
		log = logging.Nop()
	}
	return &bootstrapper{
		store:  store,
		hasher: hasher,
		log:    log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (b *bootstrapper) EnsureInitialized(ctx context.Context) error {
	return slots.Update(ctx, b.store, func(ctx context.Context, tx slots.Store) error {
		if err := b.ensureUsers(ctx, tx); err != nil {
			return err
		}
		if err := b.ensureSettings(ctx, tx); err != nil {
			return err
		}
		for _, key := range slots.ContentKeys {
			if err := b.ensureList(ctx, tx, key); err != nil {
				return err
			}
		}
		return nil
	})
}

// ensureUsers seeds the default admin only when the stored list is absent or
// has no entries at all; a list holding only unreadable records is left as is.
// A users slot that does not decode as a list is an error: seeding over it
// would discard the operator's accounts.
func (b *bootstrapper) ensureUsers(ctx context.Context, store slots.Store) error {
	raw, err := readRaw(ctx, store)
	if err != nil {
		return err
	}
	if len(raw) > 0 {
		return nil
	}

	now := b.now().UTC()
	admin := models.UserRecord{
		ID:           b.newID(),
		Username:     DefaultAdminUsername,
		PasswordHash: b.hasher.Hash(DefaultAdminPassword),
		Role:         models.RoleAdmin,
		IsActive:     true,
		CreatedBy:    models.SystemActor,
		CreatedAt:    now,
		UpdatedBy:    models.SystemActor,
		UpdatedAt:    now,
	}
	if err := NewCredentialStore(store, b.log).ReplaceAll(ctx, []models.UserRecord{admin}); err != nil {
		return err
	}
	b.log.Info(ctx, "seeded default admin user", "username", admin.Username)
	return nil
}

// ensureSettings tolerates an unreadable settings slot; login does not
// depend on it.
func (b *bootstrapper) ensureSettings(ctx context.Context, store slots.Store) error {
	var current models.SettingsRecord
	found, err := slots.GetJSON(ctx, store, slots.KeySettings, &current)
	if found {
		if err != nil {
			b.log.Warn(ctx, "settings slot is unreadable, leaving it untouched", "error", err)
		} else if verr := current.Validate(); verr != nil {
			b.log.Warn(ctx, "settings slot is incomplete, leaving it untouched", "error", verr)
		}
		return nil
	}
	if err != nil {
		return err
	}

	if err := slots.SetJSON(ctx, store, slots.KeySettings, models.DefaultSettings(b.now().UTC())); err != nil {
		return err
	}
	b.log.Info(ctx, "created default settings")
	return nil
}

func (b *bootstrapper) ensureList(ctx context.Context, store slots.Store, key string) error {
	ok, err := slots.Exists(ctx, store, key)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if err := slots.SetJSON(ctx, store, key, []any{}); err != nil {
		return err
	}
	b.log.Debug(ctx, "created empty collection", "key", key)
	return nil
}
