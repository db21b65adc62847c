package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskdash/internal/calendar"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "m":
		m.Calendar = m.Calendar.Toggle()
		m.Status = StatusBar{Text: "calendar mode: " + string(m.Calendar.Mode)}
	case "t":
		m.Calendar = m.Calendar.Today(m.today())
	case "h", "left":
		m.Calendar.Focus = m.Calendar.Focus.AddDays(-1)
	case "l", "right":
		m.Calendar.Focus = m.Calendar.Focus.AddDays(1)
	case "k", "up":
		m.Calendar.Focus = m.Calendar.Focus.AddDays(-7)
	case "j", "down":
		m.Calendar.Focus = m.Calendar.Focus.AddDays(7)
	case "<", ",":
		m.Calendar = m.Calendar.Step(-1)
	case ">", ".":
		m.Calendar = m.Calendar.Step(1)
	case "[":
		return m.moveCursor(-1), nil
	case "]":
		return m.moveCursor(1), nil
	default:
		next, cmd, _ := m.handleTaskKey(msg)
		return next, cmd
	}
	m.setCursor(0)
	m.syncSelection()
	return m, nil
}

func (m Model) calendarWeeks() [][]calendar.Cell {
	tasks := m.store.Tasks()
	if m.Calendar.Mode == calendar.ModeWeek {
		return [][]calendar.Cell{calendar.WeekStrip(m.Calendar.Focus, tasks, m.today())}
	}
	return calendar.MonthGrid(m.Calendar.Focus.Year, m.Calendar.Focus.Month, tasks, m.today())
}
