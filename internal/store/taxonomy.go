package store

import (
	"context"
	"slices"
	"strings"

	"github.com/sandeepkv93/taskdash/internal/model"
)

func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.state.Categories...)
}

// AddCategory appends name unless an exact, case-sensitive match exists.
func (s *Store) AddCategory(ctx context.Context, name string) (bool, error) {
	return s.mutate(ctx, "add_category", func() (string, bool, error) {
		if strings.TrimSpace(name) == "" || slices.Contains(s.state.Categories, name) {
			return "", false, nil
		}
		s.state.Categories = append(s.state.Categories, name)
		return "", true, nil
	})
}

func (s *Store) Labels() []model.Label {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Label{}, s.state.Labels...)
}

func (s *Store) Label(id string) (model.Label, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.state.Labels {
		if l.ID == id {
			return l, true
		}
	}
	return model.Label{}, false
}

// AddLabel creates a label; an empty color falls back to the default blue.
func (s *Store) AddLabel(ctx context.Context, name, color string) (model.Label, error) {
	var out model.Label
	_, err := s.mutate(ctx, "add_label", func() (string, bool, error) {
		if color == "" {
			color = model.DefaultLabelColor
		}
		l := model.Label{ID: s.newID(), Name: strings.TrimSpace(name), Color: color}
		if err := l.Validate(); err != nil {
			return "", false, err
		}
		s.state.Labels = append(s.state.Labels, l)
		out = l
		return "", true, nil
	})
	return out, err
}

func (s *Store) UpdateLabel(ctx context.Context, id string, patch model.LabelPatch) (bool, error) {
	return s.mutate(ctx, "update_label", func() (string, bool, error) {
		for i := range s.state.Labels {
			if s.state.Labels[i].ID != id {
				continue
			}
			next := s.state.Labels[i]
			patch.Apply(&next)
			if err := next.Validate(); err != nil {
				return "", false, err
			}
			s.state.Labels[i] = next
			return "", true, nil
		}
		return "", false, nil
	})
}

// DeleteLabel removes the label and strips its id from every task, active
// and archived.
func (s *Store) DeleteLabel(ctx context.Context, id string) (bool, error) {
	return s.mutate(ctx, "delete_label", func() (string, bool, error) {
		i := slices.IndexFunc(s.state.Labels, func(l model.Label) bool { return l.ID == id })
		if i < 0 {
			return "", false, nil
		}
		s.state.Labels = slices.Delete(s.state.Labels, i, i+1)
		for _, set := range [][]model.Task{s.state.Tasks, s.state.Archived} {
			for j := range set {
				if set[j].HasLabel(id) {
					set[j].Labels = slices.DeleteFunc(slices.Clone(set[j].Labels), func(l string) bool { return l == id })
					set[j].UpdatedAt = s.stampLocked()
				}
			}
		}
		return "", true, nil
	})
}

func (s *Store) TeamMembers() []model.TeamMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.TeamMember{}, s.state.Team...)
}

// AddTeamMember requires name and email; role defaults to Member.
func (s *Store) AddTeamMember(ctx context.Context, d model.MemberDraft) (model.TeamMember, error) {
	var out model.TeamMember
	_, err := s.mutate(ctx, "add_member", func() (string, bool, error) {
		role := d.Role
		if role == "" {
			role = model.RoleMember
		}
		m := model.TeamMember{
			ID:      s.newID(),
			Name:    strings.TrimSpace(d.Name),
			Email:   strings.TrimSpace(d.Email),
			Role:    role,
			AddedAt: s.now(),
		}
		if err := m.Validate(); err != nil {
			return "", false, err
		}
		s.state.Team = append(s.state.Team, m)
		out = m
		return "", true, nil
	})
	return out, err
}

func (s *Store) RemoveTeamMember(ctx context.Context, id string) (bool, error) {
	return s.mutate(ctx, "remove_member", func() (string, bool, error) {
		i := slices.IndexFunc(s.state.Team, func(m model.TeamMember) bool { return m.ID == id })
		if i < 0 {
			return "", false, nil
		}
		s.state.Team = slices.Delete(s.state.Team, i, i+1)
		return "", true, nil
	})
}
