// Package insights derives read-only views from a task list: search,
// counters, overdue detection and productivity figures.
package insights

import (
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/sandeepkv93/taskdash/internal/model"
)

// All disables a filter, the same as leaving it empty.
const All = "All"

type Filters struct {
	Status   string
	Priority string
	Category string
	Label    string
	Assignee string
}

// Search keeps tasks whose title or description contains query (case
// insensitive) and which pass every filter. Order is preserved.
func Search(tasks []model.Task, query string, f Filters) []model.Task {
	q := strings.ToLower(query)
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if q != "" && !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
			continue
		}
		if !matchesAll(f.Status, string(t.Status)) || !matchesAll(f.Priority, string(t.Priority)) {
			continue
		}
		if !unset(f.Category) && !t.HasCategory(f.Category) {
			continue
		}
		if !unset(f.Label) && !t.HasLabel(f.Label) {
			continue
		}
		if !unset(f.Assignee) && !t.HasAssignee(f.Assignee) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func unset(filter string) bool { return filter == "" || filter == All }

func matchesAll(filter, value string) bool {
	return unset(filter) || filter == value
}

type Stats struct {
	Total        int `json:"total"`
	Completed    int `json:"completed"`
	InProgress   int `json:"inProgress"`
	Todo         int `json:"todo"`
	Overdue      int `json:"overdue"`
	HighPriority int `json:"highPriority"`
}

// CompletionRate is the rounded percentage of completed tasks.
func (s Stats) CompletionRate() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
}

func ComputeStats(tasks []model.Task, now time.Time) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		switch t.Status {
		case model.StatusDone:
			s.Completed++
		case model.StatusInProgress:
			s.InProgress++
		case model.StatusTodo:
			s.Todo++
		}
		if t.Priority == model.PriorityHigh {
			s.HighPriority++
		}
		if t.IsOverdue(now) {
			s.Overdue++
		}
	}
	return s
}

// Overdue returns tasks due strictly before now's calendar day that are not done.
func Overdue(tasks []model.Task, now time.Time) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range tasks {
		if t.IsOverdue(now) {
			out = append(out, t)
		}
	}
	return out
}

type Productivity struct {
	CompletedToday    int     `json:"tasksCompletedToday"`
	CompletedThisWeek int     `json:"tasksCompletedThisWeek"`
	TotalTimeSpent    int     `json:"totalTimeSpent"`
	AvgTimePerTask    float64 `json:"avgTimePerTask"`
}

// ComputeProductivity counts done tasks by their last update, measured in
// now's location. The week window opens at local midnight seven days ago.
func ComputeProductivity(tasks []model.Task, now time.Time) Productivity {
	loc := now.Location()
	today := model.DateOf(now)
	weekAgo := today.AddDays(-7).In(loc)

	var p Productivity
	for _, t := range tasks {
		p.TotalTimeSpent += t.TimeSpent
		if t.Status != model.StatusDone || t.UpdatedAt.IsZero() {
			continue
		}
		updated := t.UpdatedAt.In(loc)
		if model.DateOf(updated) == today {
			p.CompletedToday++
		}
		if !updated.Before(weekAgo) {
			p.CompletedThisWeek++
		}
	}
	if len(tasks) > 0 {
		p.AvgTimePerTask = float64(p.TotalTimeSpent) / float64(len(tasks))
	}
	return p
}

// GoalProgress is the percentage of goal reached, capped at 100.
func GoalProgress(completed, goal int) int {
	if goal <= 0 {
		return 100
	}
	return min(int(math.Round(float64(completed)/float64(goal)*100)), 100)
}

type PriorityBreakdown struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

func Priorities(tasks []model.Task) PriorityBreakdown {
	var b PriorityBreakdown
	for _, t := range tasks {
		switch t.Priority {
		case model.PriorityHigh:
			b.High++
		case model.PriorityMedium:
			b.Medium++
		case model.PriorityLow:
			b.Low++
		}
	}
	return b
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Categories counts tasks per category, most used first, ties by name.
func Categories(tasks []model.Task) []CategoryCount {
	counts := make(map[string]int)
	for _, t := range tasks {
		for _, c := range t.Categories {
			counts[c]++
		}
	}
	out := make([]CategoryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, CategoryCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Recent returns up to n tasks ordered by updatedAt, newest first. The input
// is not reordered.
func Recent(tasks []model.Task, n int) []model.Task {
	out := slices.Clone(tasks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
