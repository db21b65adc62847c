package scheduler

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(DueEvent{TaskID: "later", TriggerAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(DueEvent{TaskID: "sooner", TriggerAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.TaskID != "sooner" || second.TaskID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.TaskID, second.TaskID)
	}
}

func TestScheduleReplacesPendingEventForTask(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(DueEvent{TaskID: "a", Title: "old", TriggerAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := engine.Schedule(DueEvent{TaskID: "a", Title: "new", TriggerAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if engine.Len() != 1 {
		t.Fatalf("expected one pending event, got %d", engine.Len())
	}
	ev := waitEvent(t, engine.C(), time.Second)
	if ev.Title != "new" {
		t.Fatalf("expected replaced event, got %+v", ev)
	}
	if _, ok := engine.Pending("a"); ok {
		t.Fatal("fired event still pending")
	}
}

func TestCancelRemovesPendingEvent(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	for i, id := range []string{"a", "b", "c"} {
		if err := engine.Schedule(DueEvent{TaskID: id, TriggerAt: now.Add(time.Duration(i+1) * 30 * time.Millisecond)}); err != nil {
			t.Fatalf("schedule %s: %v", id, err)
		}
	}
	if !engine.Cancel("a") || engine.Cancel("a") {
		t.Fatal("expected exactly one successful cancel")
	}
	first := waitEvent(t, engine.C(), time.Second)
	if first.TaskID != "b" {
		t.Fatalf("expected b after cancelling a, got %s", first.TaskID)
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	var hooked atomic.Int64
	engine := NewEngine(1, WithDropHook(func() { hooked.Add(1) }))
	engine.Start()
	defer engine.Stop()

	at := time.Now().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(DueEvent{TaskID: fmt.Sprintf("task-%d", i), TriggerAt: at}); err != nil {
			t.Fatalf("schedule event: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", engine.Dropped())
	}
	if uint64(hooked.Load()) != engine.Dropped() {
		t.Fatalf("drop hook saw %d drops, engine counted %d", hooked.Load(), engine.Dropped())
	}
}

func TestScheduleValidates(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(DueEvent{TaskID: "bad"}); err != ErrInvalidTriggerTime {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
	if err := engine.Schedule(DueEvent{TriggerAt: time.Now()}); err != ErrMissingTaskID {
		t.Fatalf("expected ErrMissingTaskID, got %v", err)
	}
	engine.Start()
	engine.Stop()
	if err := engine.Schedule(DueEvent{TaskID: "late", TriggerAt: time.Now()}); err != ErrStopped {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func waitEvent(t *testing.T, ch <-chan DueEvent, timeout time.Duration) DueEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return DueEvent{}
	}
}
