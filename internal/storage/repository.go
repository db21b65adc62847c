package storage

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound       = errors.New("storage: not found")
	ErrEmptyUserKey   = errors.New("storage: empty user key")
	ErrUnknownBackend = errors.New("storage: unknown backend")
)

// Repository persists whole per-user states. Load on an unknown user returns
// a fresh NewState.
type Repository interface {
	Load(ctx context.Context, userKey string) (State, error)
	Save(ctx context.Context, userKey string, st State) error
	Close() error
}

func checkUserKey(userKey string) error {
	if strings.TrimSpace(userKey) == "" {
		return ErrEmptyUserKey
	}
	return nil
}
