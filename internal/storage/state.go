package storage

import (
	"encoding/json"
	"fmt"

	"github.com/sandeepkv93/taskdash/internal/model"
)

// Logical document names persisted per user.
const (
	KeyTasks         = "tasks"
	KeyArchived      = "archived"
	KeyHistory       = "history"
	KeyCategories    = "categories"
	KeyLabels        = "labels"
	KeyTeam          = "team"
	KeyTemplates     = "templates"
	KeyNotifications = "notifications"
)

// Keys lists every document name in write order.
var Keys = []string{KeyTasks, KeyArchived, KeyHistory, KeyCategories, KeyLabels, KeyTeam, KeyTemplates, KeyNotifications}

// State is everything a user owns.
type State struct {
	Tasks         []model.Task         `json:"tasks"`
	Archived      []model.Task         `json:"archivedTasks"`
	History       []model.HistoryEntry `json:"history"`
	Categories    []string             `json:"categories"`
	Labels        []model.Label        `json:"labels"`
	Team          []model.TeamMember   `json:"teamMembers"`
	Templates     []model.Template     `json:"templates"`
	Notifications []model.Notification `json:"notifications"`
}

// NewState returns a fresh state with the default categories and labels.
func NewState() State {
	return State{
		Tasks:         []model.Task{},
		Archived:      []model.Task{},
		History:       []model.HistoryEntry{},
		Categories:    append([]string{}, model.DefaultCategories...),
		Labels:        model.DefaultLabels(),
		Team:          []model.TeamMember{},
		Templates:     []model.Template{},
		Notifications: []model.Notification{},
	}
}

// Clone deep-copies the task lists; the remaining slices are copied shallowly
// since their elements hold no shared references that callers mutate.
func (s State) Clone() State {
	out := State{
		Tasks:         cloneTasks(s.Tasks),
		Archived:      cloneTasks(s.Archived),
		History:       append([]model.HistoryEntry{}, s.History...),
		Categories:    append([]string{}, s.Categories...),
		Labels:        append([]model.Label{}, s.Labels...),
		Team:          append([]model.TeamMember{}, s.Team...),
		Templates:     append([]model.Template{}, s.Templates...),
		Notifications: append([]model.Notification{}, s.Notifications...),
	}
	return out
}

func cloneTasks(in []model.Task) []model.Task {
	out := make([]model.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}

// Encode splits s into one JSON document per key.
func Encode(s State) (map[string][]byte, error) {
	parts := map[string]any{
		KeyTasks:         s.Tasks,
		KeyArchived:      s.Archived,
		KeyHistory:       s.History,
		KeyCategories:    s.Categories,
		KeyLabels:        s.Labels,
		KeyTeam:          s.Team,
		KeyTemplates:     s.Templates,
		KeyNotifications: s.Notifications,
	}
	out := make(map[string][]byte, len(parts))
	for _, key := range Keys {
		raw, err := json.Marshal(parts[key])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		out[key] = raw
	}
	return out, nil
}

// Decode rebuilds a state from stored documents. Missing keys keep the
// NewState defaults; a JSON null decodes to an empty list.
func Decode(docs map[string][]byte) (State, error) {
	s := NewState()
	targets := map[string]any{
		KeyTasks:         &s.Tasks,
		KeyArchived:      &s.Archived,
		KeyHistory:       &s.History,
		KeyCategories:    &s.Categories,
		KeyLabels:        &s.Labels,
		KeyTeam:          &s.Team,
		KeyTemplates:     &s.Templates,
		KeyNotifications: &s.Notifications,
	}
	for _, key := range Keys {
		raw, ok := docs[key]
		if !ok || len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, targets[key]); err != nil {
			return State{}, fmt.Errorf("decode %s: %w", key, err)
		}
	}
	s.normalize()
	return s, nil
}

func (s *State) normalize() {
	if s.Tasks == nil {
		s.Tasks = []model.Task{}
	}
	if s.Archived == nil {
		s.Archived = []model.Task{}
	}
	if s.History == nil {
		s.History = []model.HistoryEntry{}
	}
	if s.Categories == nil {
		s.Categories = []string{}
	}
	if s.Labels == nil {
		s.Labels = []model.Label{}
	}
	if s.Team == nil {
		s.Team = []model.TeamMember{}
	}
	if s.Templates == nil {
		s.Templates = []model.Template{}
	}
	if s.Notifications == nil {
		s.Notifications = []model.Notification{}
	}
}
