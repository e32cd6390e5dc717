// Package slots implements the admin client's local durable store: a small
// set of named slots, each holding one serialized record or list.
//
// Every component that persists local state (credential store, session
// manager, bootstrapper, backup exporter) receives a Store handle instead of
// reaching for a global. Three backends are provided:
//
//   - SQLiteStore: a single-file database, the default for a workstation.
//   - RedisStore:  shared state for several admin processes.
//   - MemoryStore: process memory, used by tests and the "memory" driver.
package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/eurisssow03/wc-helper-sub001/internal/common"
)

// Logical slot keys.
const (
	KeySessions  = "sessions"
	KeyUsers     = "users"
	KeySettings  = "settings"
	KeyFAQs      = "faqs"
	KeyHomestays = "homestays"
	KeyLogs      = "logs"
)

// ContentKeys are the opaque collections bootstrap materializes as empty lists.
var ContentKeys = []string{KeyFAQs, KeyHomestays, KeyLogs}

// ErrCorrupt marks a slot whose stored bytes do not decode. It is always
// reported together with common.ErrStorageFailure.
var ErrCorrupt = errors.New("corrupt slot")

// Store is the capability every backend offers.
//
// Get returns (nil, nil) when the slot is absent. Remove is idempotent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Updater is implemented by backends that can apply several writes
// atomically.
type Updater interface {
	Update(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// Update runs fn inside a transaction when s supports one, and directly
// against s otherwise.
func Update(ctx context.Context, s Store, fn func(ctx context.Context, tx Store) error) error {
	if u, ok := s.(Updater); ok {
		return u.Update(ctx, fn)
	}
	return fn(ctx, s)
}

// Backend is a Store owning resources that must be released.
type Backend interface {
	Store
	Close() error
}

// GetJSON reads key and decodes it into v. found is false when the slot is
// absent. Read failures wrap common.ErrStorageFailure; undecodable content
// additionally wraps ErrCorrupt.
func GetJSON(ctx context.Context, s Store, key string, v any) (found bool, err error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %w", common.ErrStorageFailure, key, err)
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("%w: decode %s: %w", common.ErrStorageFailure, key, errors.Join(ErrCorrupt, err))
	}
	return true, nil
}

// SetJSON encodes v and writes it to key. Failures wrap common.ErrStorageFailure.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", common.ErrStorageFailure, key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("%w: write %s: %w", common.ErrStorageFailure, key, err)
	}
	return nil
}

// Exists reports whether key holds a value.
func Exists(ctx context.Context, s Store, key string) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %w", common.ErrStorageFailure, key, err)
	}
	return raw != nil, nil
}
