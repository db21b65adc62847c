// Package calendar lays tasks out on month grids and week strips by due date.
// Weeks start on Sunday.
package calendar

import (
	"time"

	"github.com/sandeepkv93/taskdash/internal/model"
)

type Mode string

const (
	ModeMonth Mode = "month"
	ModeWeek  Mode = "week"
)

type Cell struct {
	Date    model.Date
	Blank   bool
	Today   bool
	Tasks   []model.Task
	Overdue int
}

// TasksOn returns the tasks due on d in input order.
func TasksOn(tasks []model.Task, d model.Date) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range tasks {
		if t.DueDate != nil && *t.DueDate == d {
			out = append(out, t)
		}
	}
	return out
}

func newCell(tasks []model.Task, d, today model.Date) Cell {
	c := Cell{Date: d, Today: d == today, Tasks: TasksOn(tasks, d)}
	for _, t := range c.Tasks {
		if t.Status != model.StatusDone && d.Before(today) {
			c.Overdue++
		}
	}
	return c
}

// MonthGrid returns the rows of year/month. The first row is padded with
// blank cells before the 1st; the last row is padded after the last day.
func MonthGrid(year int, month time.Month, tasks []model.Task, today model.Date) [][]Cell {
	first := model.NewDate(year, month, 1)
	lead := int(first.In(time.UTC).Weekday())
	days := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	cells := make([]Cell, 0, lead+days+6)
	for range lead {
		cells = append(cells, Cell{Blank: true})
	}
	for d := range days {
		cells = append(cells, newCell(tasks, first.AddDays(d), today))
	}
	for len(cells)%7 != 0 {
		cells = append(cells, Cell{Blank: true})
	}

	rows := make([][]Cell, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		rows = append(rows, cells[i:i+7])
	}
	return rows
}

// WeekStart returns the Sunday on or before d.
func WeekStart(d model.Date) model.Date {
	return d.AddDays(-int(d.In(time.UTC).Weekday()))
}

// WeekStrip returns the seven days of the week containing focus.
func WeekStrip(focus model.Date, tasks []model.Task, today model.Date) []Cell {
	start := WeekStart(focus)
	out := make([]Cell, 7)
	for i := range out {
		out[i] = newCell(tasks, start.AddDays(i), today)
	}
	return out
}

// Cursor tracks the focused date and view mode.
type Cursor struct {
	Mode  Mode
	Focus model.Date
}

func NewCursor(today model.Date) Cursor {
	return Cursor{Mode: ModeMonth, Focus: today}
}

// Step moves the focus by delta months or weeks depending on the mode.
func (c Cursor) Step(delta int) Cursor {
	if c.Mode == ModeWeek {
		c.Focus = c.Focus.AddDays(7 * delta)
		return c
	}
	first := time.Date(c.Focus.Year, c.Focus.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	c.Focus = model.DateOf(first)
	return c
}

func (c Cursor) Today(today model.Date) Cursor {
	c.Focus = today
	return c
}

func (c Cursor) Toggle() Cursor {
	if c.Mode == ModeWeek {
		c.Mode = ModeMonth
	} else {
		c.Mode = ModeWeek
	}
	return c
}

// Title is "March 2026" in month mode and the week's date range otherwise.
func (c Cursor) Title() string {
	if c.Mode == ModeWeek {
		start := WeekStart(c.Focus)
		end := start.AddDays(6)
		return start.In(time.UTC).Format("Jan 2") + " - " + end.In(time.UTC).Format("Jan 2, 2006")
	}
	return c.Focus.In(time.UTC).Format("January 2006")
}
