package store

import (
	"github.com/sandeepkv93/taskdash/internal/insights"
	"github.com/sandeepkv93/taskdash/internal/model"
)

func (s *Store) Search(query string, f insights.Filters) []model.Task {
	return insights.Search(s.Tasks(), query, f)
}

func (s *Store) Stats() insights.Stats {
	return insights.ComputeStats(s.Tasks(), s.Now())
}

func (s *Store) Overdue() []model.Task {
	return insights.Overdue(s.Tasks(), s.Now())
}

func (s *Store) Productivity() insights.Productivity {
	return insights.ComputeProductivity(s.Tasks(), s.Now())
}
