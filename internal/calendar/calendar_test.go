package calendar

import (
	"testing"
	"time"

	"github.com/sandeepkv93/taskdash/internal/model"
)

func due(id string, d model.Date, st model.Status) model.Task {
	t := model.NewTask(id, model.TaskDraft{Title: id, Status: st}, time.Now())
	t.DueDate = &d
	return t
}

func TestMonthGridLeadingBlanksSundayFirst(t *testing.T) {
	// March 1st 2026 is a Sunday; April 1st 2026 is a Wednesday.
	march := MonthGrid(2026, time.March, nil, model.NewDate(2026, 3, 10))
	if march[0][0].Blank || march[0][0].Date != model.NewDate(2026, 3, 1) {
		t.Fatalf("expected March to start in the first cell, got %+v", march[0][0])
	}

	april := MonthGrid(2026, time.April, nil, model.NewDate(2026, 3, 10))
	for i := range 3 {
		if !april[0][i].Blank {
			t.Fatalf("expected blank lead cell %d", i)
		}
	}
	if april[0][3].Date != model.NewDate(2026, 4, 1) {
		t.Fatalf("expected April 1st on Wednesday, got %+v", april[0][3])
	}
	last := april[len(april)-1]
	if len(last) != 7 {
		t.Fatalf("expected full final row, got %d cells", len(last))
	}
	days := 0
	for _, row := range april {
		for _, c := range row {
			if !c.Blank {
				days++
			}
		}
	}
	if days != 30 {
		t.Fatalf("expected 30 days, got %d", days)
	}
}

func TestCellsCarryTasksTodayAndOverdue(t *testing.T) {
	today := model.NewDate(2026, 3, 10)
	tasks := []model.Task{
		due("late", model.NewDate(2026, 3, 9), model.StatusTodo),
		due("done", model.NewDate(2026, 3, 9), model.StatusDone),
		due("now", today, model.StatusTodo),
	}
	grid := MonthGrid(2026, time.March, tasks, today)
	var ninth, tenth Cell
	for _, row := range grid {
		for _, c := range row {
			switch c.Date {
			case model.NewDate(2026, 3, 9):
				ninth = c
			case today:
				tenth = c
			}
		}
	}
	if len(ninth.Tasks) != 2 || ninth.Overdue != 1 {
		t.Fatalf("unexpected 9th cell: %+v", ninth)
	}
	if !tenth.Today || tenth.Overdue != 0 || len(tenth.Tasks) != 1 {
		t.Fatalf("unexpected today cell: %+v", tenth)
	}
}

func TestWeekStripStartsSunday(t *testing.T) {
	strip := WeekStrip(model.NewDate(2026, 3, 11), nil, model.NewDate(2026, 3, 11))
	if len(strip) != 7 || strip[0].Date != model.NewDate(2026, 3, 8) || strip[6].Date != model.NewDate(2026, 3, 14) {
		t.Fatalf("unexpected week strip: %v .. %v", strip[0].Date, strip[6].Date)
	}
	if !strip[3].Today {
		t.Fatal("expected Wednesday flagged as today")
	}
}

func TestCursorNavigation(t *testing.T) {
	c := NewCursor(model.NewDate(2026, 1, 31))
	c = c.Step(1)
	if c.Focus.Month != time.February || c.Focus.Year != 2026 {
		t.Fatalf("month step overflowed: %v", c.Focus)
	}
	if c.Title() != "February 2026" {
		t.Fatalf("unexpected title %q", c.Title())
	}
	c = c.Toggle().Today(model.NewDate(2026, 3, 11)).Step(-1)
	if c.Mode != ModeWeek || c.Focus != model.NewDate(2026, 3, 4) {
		t.Fatalf("unexpected week step: %+v", c)
	}
	if c.Title() != "Mar 1 - Mar 7, 2026" {
		t.Fatalf("unexpected week title %q", c.Title())
	}
}
