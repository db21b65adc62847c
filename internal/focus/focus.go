// Package focus implements the Pomodoro timer: work sessions followed by
// short breaks, with a long break after every fourth completed session.
package focus

import (
	"context"
	"fmt"
	"time"

	"github.com/sandeepkv93/taskdash/internal/model"
)

const CompleteMessage = "Pomodoro complete! Time for a break."

type Mode string

const (
	ModeWork       Mode = "work"
	ModeShortBreak Mode = "shortBreak"
	ModeLongBreak  Mode = "longBreak"
)

type Durations struct {
	Work           time.Duration
	ShortBreak     time.Duration
	LongBreak      time.Duration
	LongBreakEvery int
}

func DefaultDurations() Durations {
	return Durations{
		Work:           25 * time.Minute,
		ShortBreak:     5 * time.Minute,
		LongBreak:      15 * time.Minute,
		LongBreakEvery: 4,
	}
}

func (d Durations) For(m Mode) time.Duration {
	switch m {
	case ModeShortBreak:
		return d.ShortBreak
	case ModeLongBreak:
		return d.LongBreak
	default:
		return d.Work
	}
}

// Timer is a value type; every transition returns the next state.
type Timer struct {
	Mode      Mode
	Remaining time.Duration
	Running   bool
	Completed int
	TaskID    string
	Durations Durations
}

// Completion is reported when a phase runs out.
type Completion struct {
	Finished Mode
	Next     Mode
	TaskID   string
	Minutes  int
}

func New(d Durations) Timer {
	if d.LongBreakEvery <= 0 {
		d.LongBreakEvery = 4
	}
	return Timer{Mode: ModeWork, Remaining: d.Work, Durations: d}
}

func (t Timer) Start() Timer {
	if t.Remaining <= 0 {
		t.Remaining = t.Durations.For(t.Mode)
	}
	t.Running = true
	return t
}

func (t Timer) Pause() Timer {
	t.Running = false
	return t
}

func (t Timer) Toggle() Timer {
	if t.Running {
		return t.Pause()
	}
	return t.Start()
}

// Reset stops the clock and refills the current phase.
func (t Timer) Reset() Timer {
	t.Running = false
	t.Remaining = t.Durations.For(t.Mode)
	return t
}

// Bind attaches the timer to a task; completed work minutes go to it.
func (t Timer) Bind(taskID string) Timer {
	t.TaskID = taskID
	return t
}

// Tick advances a running timer by elapsed and reports a completion when the
// phase runs out.
func (t Timer) Tick(elapsed time.Duration) (Timer, *Completion) {
	if !t.Running {
		return t, nil
	}
	t.Remaining -= elapsed
	if t.Remaining > 0 {
		return t, nil
	}
	return t.finish()
}

func (t Timer) finish() (Timer, *Completion) {
	done := Completion{Finished: t.Mode, TaskID: t.TaskID}
	if t.Mode == ModeWork {
		t.Completed++
		done.Minutes = int(t.Durations.Work / time.Minute)
		t.Mode = ModeShortBreak
		if t.Completed%t.Durations.LongBreakEvery == 0 {
			t.Mode = ModeLongBreak
		}
	} else {
		t.Mode = ModeWork
	}
	t.Running = false
	t.Remaining = t.Durations.For(t.Mode)
	done.Next = t.Mode
	return t, &done
}

// Skip jumps to the next phase without crediting the current one.
func (t Timer) Skip() Timer {
	if t.Mode == ModeWork {
		t.Mode = ModeShortBreak
	} else {
		t.Mode = ModeWork
	}
	t.Running = false
	t.Remaining = t.Durations.For(t.Mode)
	return t
}

// Clock renders the remaining time as MM:SS.
func (t Timer) Clock() string {
	secs := int(t.Remaining.Round(time.Second) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Recorder is the part of the store a completed session writes to.
type Recorder interface {
	AddTimeEntry(ctx context.Context, taskID string, minutes int) (bool, error)
	AddNotification(ctx context.Context, message string, kind model.Severity) (model.Notification, error)
}

// Record credits a finished work session to its task and posts the break
// notification. Break completions record nothing.
func Record(ctx context.Context, r Recorder, c Completion) error {
	if c.Finished != ModeWork {
		return nil
	}
	if c.TaskID != "" && c.Minutes > 0 {
		if _, err := r.AddTimeEntry(ctx, c.TaskID, c.Minutes); err != nil {
			return fmt.Errorf("record focus time: %w", err)
		}
	}
	if _, err := r.AddNotification(ctx, CompleteMessage, model.SeverityInfo); err != nil {
		return fmt.Errorf("focus notification: %w", err)
	}
	return nil
}
