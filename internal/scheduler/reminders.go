package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/taskdash/internal/metrics"
	"github.com/sandeepkv93/taskdash/internal/model"
)

// Source is the part of the store the reminder loop reads and writes.
type Source interface {
	Tasks() []model.Task
	Now() time.Time
	AddNotification(ctx context.Context, message string, kind model.Severity) (model.Notification, error)
}

// DueMessage is the warning posted when a task becomes due.
func DueMessage(title string) string {
	return fmt.Sprintf(`Task "%s" is due`, title)
}

// Reminders keeps the engine in step with the task list and turns fired
// events into warning notifications.
type Reminders struct {
	engine  *Engine
	src     Source
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	fired map[string]model.Date
}

func NewReminders(engine *Engine, src Source, logger *zap.Logger, m *metrics.Metrics) *Reminders {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reminders{
		engine:  engine,
		src:     src,
		logger:  logger,
		metrics: m,
		fired:   make(map[string]model.Date),
	}
}

// Sync schedules a reminder at local midnight of every open task's due date
// and cancels reminders for tasks that are done, undated, past due or gone.
// A task that already fired for its current due date is not rescheduled.
func (r *Reminders) Sync() {
	now := r.src.Now()
	today := model.DateOf(now)
	tasks := r.src.Tasks()

	r.mu.Lock()
	defer r.mu.Unlock()

	live := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		live[t.ID] = true
		if t.DueDate == nil || t.Status == model.StatusDone || t.DueDate.Before(today) {
			r.engine.Cancel(t.ID)
			continue
		}
		if last, ok := r.fired[t.ID]; ok && last == *t.DueDate {
			continue
		}
		ev := DueEvent{TaskID: t.ID, Title: t.Title, TriggerAt: t.DueDate.In(now.Location())}
		if err := r.engine.Schedule(ev); err != nil {
			r.logger.Warn("schedule reminder failed", zap.String("task", t.ID), zap.Error(err))
		}
	}
	for id := range r.fired {
		if !live[id] {
			delete(r.fired, id)
			r.engine.Cancel(id)
		}
	}
}

// Deliver posts the due notification for ev unless the task changed since it
// was scheduled.
func (r *Reminders) Deliver(ctx context.Context, ev DueEvent) error {
	var current *model.Task
	for _, t := range r.src.Tasks() {
		if t.ID == ev.TaskID {
			current = &t
			break
		}
	}
	if current == nil || current.DueDate == nil || current.Status == model.StatusDone {
		return nil
	}

	r.mu.Lock()
	r.fired[ev.TaskID] = *current.DueDate
	r.mu.Unlock()

	r.metrics.ReminderFired()
	if _, err := r.src.AddNotification(ctx, DueMessage(current.Title), model.SeverityWarning); err != nil {
		return fmt.Errorf("due notification for %s: %w", ev.TaskID, err)
	}
	r.logger.Info("due reminder delivered", zap.String("task", ev.TaskID))
	return nil
}

// Run delivers events until ctx is done or the engine stops.
func (r *Reminders) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-r.engine.C():
			if !ok {
				return
			}
			if err := r.Deliver(ctx, ev); err != nil {
				r.logger.Error("deliver reminder failed", zap.Error(err))
			}
		}
	}
}
