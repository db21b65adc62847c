// Package store owns one user's task state and mirrors every mutation to a
// storage.Repository.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskdash/internal/metrics"
	"github.com/sandeepkv93/taskdash/internal/model"
	"github.com/sandeepkv93/taskdash/internal/storage"
)

var ErrInvalidMinutes = errors.New("store: minutes must be positive")

// Change describes a committed mutation.
type Change struct {
	Op     string
	TaskID string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(next func() string) Option {
	return func(s *Store) { s.newID = next }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithLocation sets the zone used for "today" in derived views.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

type Store struct {
	mu        sync.RWMutex
	repo      storage.Repository
	userKey   string
	state     storage.State
	lastStamp time.Time

	now     func() time.Time
	newID   func() string
	loc     *time.Location
	logger  *zap.Logger
	metrics *metrics.Metrics

	subMu  sync.Mutex
	subs   map[int]func(Change)
	nextID int
}

// Open loads userKey's state from repo and returns a store bound to it.
func Open(ctx context.Context, repo storage.Repository, userKey string, opts ...Option) (*Store, error) {
	if repo == nil {
		return nil, errors.New("store: nil repository")
	}
	s := &Store{
		repo:    repo,
		userKey: userKey,
		now:     time.Now,
		newID:   uuid.NewString,
		loc:     time.Local,
		logger:  zap.NewNop(),
		subs:    make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("user", userKey))

	st, err := repo.Load(ctx, userKey)
	if err != nil {
		return nil, fmt.Errorf("open store for %s: %w", userKey, err)
	}
	s.state = st
	for _, set := range [][]model.Task{st.Tasks, st.Archived} {
		for _, t := range set {
			if t.UpdatedAt.After(s.lastStamp) {
				s.lastStamp = t.UpdatedAt
			}
		}
	}
	s.metrics.TaskCounts(len(st.Tasks), len(st.Archived))
	s.logger.Debug("store opened", zap.Int("tasks", len(st.Tasks)), zap.Int("archived", len(st.Archived)))
	return s, nil
}

func (s *Store) UserKey() string { return s.userKey }

// Now returns the store clock in the store's location.
func (s *Store) Now() time.Time {
	return s.now().In(s.loc)
}

// Subscribe registers fn for every committed change and returns a cancel func.
// fn runs after the store lock is released and may call back into the store.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(c Change) {
	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

// stampLocked returns a timestamp strictly after every earlier stamp.
func (s *Store) stampLocked() time.Time {
	now := s.now()
	if !now.After(s.lastStamp) {
		now = s.lastStamp.Add(time.Millisecond)
	}
	s.lastStamp = now
	return now
}

// commitLocked writes the whole state through the repository. The in-memory
// mutation stands even when the save fails.
func (s *Store) commitLocked(ctx context.Context, op string) error {
	s.metrics.Mutation(op)
	s.metrics.TaskCounts(len(s.state.Tasks), len(s.state.Archived))

	start := time.Now()
	err := s.repo.Save(ctx, s.userKey, s.state.Clone())
	s.metrics.Saved(time.Since(start), err)
	if err != nil {
		s.logger.Error("persist state failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("persist %s: %w", op, err)
	}
	s.logger.Debug("state persisted", zap.String("op", op), zap.Duration("took", time.Since(start)))
	return nil
}

// mutate runs fn under the write lock, commits when fn reports a change, and
// publishes the change once the lock is released.
func (s *Store) mutate(ctx context.Context, op string, fn func() (taskID string, changed bool, err error)) (bool, error) {
	s.mu.Lock()
	taskID, changed, err := fn()
	if err != nil || !changed {
		s.mu.Unlock()
		return changed, err
	}
	saveErr := s.commitLocked(ctx, op)
	s.mu.Unlock()

	s.publish(Change{Op: op, TaskID: taskID})
	return true, saveErr
}

func (s *Store) findLocked(set []model.Task, id string) int {
	for i := range set {
		if set[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) historyLocked(action model.Action, task *model.Task, fields []string, bulk *model.BulkSummary) {
	var snap *model.Task
	if task != nil {
		c := task.Clone()
		snap = &c
	}
	s.state.History = model.Prepend(s.state.History, model.HistoryEntry{
		ID:        s.newID(),
		Action:    action,
		Task:      snap,
		Fields:    fields,
		Bulk:      bulk,
		Timestamp: s.stampLocked(),
	})
}

func (s *Store) notifyLocked(message string, kind model.Severity) model.Notification {
	n := model.Notification{
		ID:        s.newID(),
		Message:   message,
		Type:      kind,
		Timestamp: s.stampLocked(),
	}
	s.state.Notifications = model.Prepend(s.state.Notifications, n)
	s.metrics.Notified(string(kind))
	return n
}

// Snapshot returns a deep copy of the whole user state.
func (s *Store) Snapshot() storage.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// ClearAllData drops active and archived tasks, history and notifications.
// Categories, labels, team and templates survive.
func (s *Store) ClearAllData(ctx context.Context) error {
	_, err := s.mutate(ctx, "clear_all", func() (string, bool, error) {
		s.state.Tasks = []model.Task{}
		s.state.Archived = []model.Task{}
		s.state.History = []model.HistoryEntry{}
		s.state.Notifications = []model.Notification{}
		return "", true, nil
	})
	if err == nil {
		s.logger.Info("all task data cleared")
	}
	return err
}
