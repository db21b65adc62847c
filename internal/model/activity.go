package model

import (
	"errors"
	"time"
)

// LogCapacity bounds both the history and the notification log.
const LogCapacity = 50

var ErrInvalidNotification = errors.New("model: invalid notification")

type Action string

const (
	ActionCreated     Action = "created"
	ActionUpdated     Action = "updated"
	ActionDeleted     Action = "deleted"
	ActionDuplicated  Action = "duplicated"
	ActionArchived    Action = "archived"
	ActionRestored    Action = "restored"
	ActionBulkDeleted Action = "bulk_deleted"
)

type BulkSummary struct {
	Count int    `json:"count"`
	Tasks []Task `json:"tasks"`
}

type HistoryEntry struct {
	ID        string       `json:"id"`
	Action    Action       `json:"action"`
	Task      *Task        `json:"task"`
	Fields    []string     `json:"fields,omitempty"`
	Bulk      *BulkSummary `json:"bulk,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return true
	default:
		return false
	}
}

type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message" validate:"notblank"`
	Type      Severity  `json:"type" validate:"severity"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

func (n Notification) Validate() error {
	return validateStruct(ErrInvalidNotification, n)
}

// Prepend puts item at the head of log and drops anything past LogCapacity.
func Prepend[T any](log []T, item T) []T {
	out := make([]T, 0, min(len(log)+1, LogCapacity))
	out = append(out, item)
	for _, v := range log {
		if len(out) == LogCapacity {
			break
		}
		out = append(out, v)
	}
	return out
}
