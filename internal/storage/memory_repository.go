package storage

import (
	"context"
	"maps"
	"sync"
)

// MemoryRepository keeps encoded documents in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]map[string][]byte)}
}

func (r *MemoryRepository) Load(ctx context.Context, userKey string) (State, error) {
	if err := checkUserKey(userKey); err != nil {
		return State{}, err
	}
	if err := ctx.Err(); err != nil {
		return State{}, err
	}
	r.mu.RLock()
	docs := maps.Clone(r.users[userKey])
	r.mu.RUnlock()
	return Decode(docs)
}

func (r *MemoryRepository) Save(ctx context.Context, userKey string, st State) error {
	if err := checkUserKey(userKey); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	docs, err := Encode(st)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.users[userKey] = docs
	r.mu.Unlock()
	return nil
}

// Document returns the raw stored JSON for one key.
func (r *MemoryRepository) Document(userKey, name string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	raw, ok := r.users[userKey][name]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (r *MemoryRepository) Close() error { return nil }
