package model

import (
	"errors"
	"testing"
	"time"
)

func TestLabelValidate(t *testing.T) {
	for _, l := range DefaultLabels() {
		if err := l.Validate(); err != nil {
			t.Fatalf("seed label %q invalid: %v", l.Name, err)
		}
	}
	bad := Label{ID: "x", Name: "Ops", Color: "blue"}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidLabel) {
		t.Fatalf("expected ErrInvalidLabel, got %v", err)
	}
}

func TestTeamMemberValidate(t *testing.T) {
	m := TeamMember{ID: "m1", Name: "Ada", Email: "ada@example.com", Role: RoleLead, AddedAt: time.Now()}
	if err := m.Validate(); err != nil {
		t.Fatalf("expected valid member, got %v", err)
	}
	m.Email = ""
	if err := m.Validate(); !errors.Is(err, ErrInvalidMember) {
		t.Fatalf("expected ErrInvalidMember for missing email, got %v", err)
	}
	m.Email = "ada@example.com"
	m.Role = Role("Owner")
	if err := m.Validate(); !errors.Is(err, ErrInvalidMember) {
		t.Fatalf("expected ErrInvalidMember for bad role, got %v", err)
	}
}

func TestPrependCapsLog(t *testing.T) {
	var log []int
	for i := range LogCapacity + 10 {
		log = Prepend(log, i)
	}
	if len(log) != LogCapacity {
		t.Fatalf("expected %d entries, got %d", LogCapacity, len(log))
	}
	if log[0] != LogCapacity+9 {
		t.Fatalf("expected newest first, got %d", log[0])
	}
	if log[LogCapacity-1] != 10 {
		t.Fatalf("expected oldest retained entry 10, got %d", log[LogCapacity-1])
	}
}

func TestNotificationValidate(t *testing.T) {
	n := Notification{ID: "n1", Message: "hi", Type: SeverityWarning}
	if err := n.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n.Type = Severity("fatal")
	if err := n.Validate(); !errors.Is(err, ErrInvalidNotification) {
		t.Fatalf("expected ErrInvalidNotification, got %v", err)
	}
}
