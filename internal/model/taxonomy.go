package model

import (
	"errors"
	"time"
)

var (
	ErrInvalidLabel  = errors.New("model: invalid label")
	ErrInvalidMember = errors.New("model: invalid team member")
)

const DefaultLabelColor = "#3b82f6"

// DefaultCategories seeds a fresh user's category list.
var DefaultCategories = []string{"Work", "Personal", "Shopping", "Health", "Education"}

type Label struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"notblank"`
	Color string `json:"color" validate:"hexcolor"`
}

func (l Label) Validate() error {
	return validateStruct(ErrInvalidLabel, l)
}

// DefaultLabels returns the seeded label set with stable ids.
func DefaultLabels() []Label {
	return []Label{
		{ID: "1", Name: "Bug", Color: "#ef4444"},
		{ID: "2", Name: "Feature", Color: "#3b82f6"},
		{ID: "3", Name: "Improvement", Color: "#10b981"},
		{ID: "4", Name: "Urgent", Color: "#f59e0b"},
	}
}

type LabelPatch struct {
	Name  *string
	Color *string
}

func (p LabelPatch) Apply(l *Label) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Color != nil {
		l.Color = *p.Color
	}
}

type Role string

const (
	RoleMember  Role = "Member"
	RoleLead    Role = "Lead"
	RoleManager Role = "Manager"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleLead, RoleManager:
		return true
	default:
		return false
	}
}

type TeamMember struct {
	ID      string    `json:"id" validate:"required"`
	Name    string    `json:"name" validate:"notblank"`
	Email   string    `json:"email" validate:"required,email"`
	Role    Role      `json:"role" validate:"memberrole"`
	AddedAt time.Time `json:"addedAt"`
}

func (m TeamMember) Validate() error {
	return validateStruct(ErrInvalidMember, m)
}

type MemberDraft struct {
	Name  string
	Email string
	Role  Role
}
