package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskdash/internal/focus"
)

const focusTick = time.Second

func (m Model) handleFocusKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case " ", "space":
		return m.toggleFocus()
	case "r":
		m.Focus = m.Focus.Reset()
		m.Status = StatusBar{Text: "focus reset"}
	case "n":
		m.Focus = m.Focus.Skip()
		m.Status = StatusBar{Text: "skipped to " + string(m.Focus.Mode)}
	case "b":
		if task, ok := m.selectedTask(); ok {
			m.Focus = m.Focus.Bind(task.ID)
			m.Status = StatusBar{Text: fmt.Sprintf("focus bound to %q", task.Title)}
		} else {
			m.Status = StatusBar{Text: "select a task first", IsError: true}
		}
	}
	return m, nil
}

func (m Model) toggleFocus() (Model, tea.Cmd) {
	m.Focus = m.Focus.Toggle()
	if !m.Focus.Running {
		m.Status = StatusBar{Text: "focus paused"}
		return m, nil
	}
	m.focusTickID++
	m.Status = StatusBar{Text: "focus running"}
	return m, focusTickCmd(m.focusTickID)
}

func (m Model) onFocusTick(msg FocusTickMsg) (Model, tea.Cmd) {
	if msg.ID != m.focusTickID || !m.Focus.Running {
		return m, nil
	}
	next, done := m.Focus.Tick(focusTick)
	m.Focus = next
	if done == nil {
		return m, focusTickCmd(m.focusTickID)
	}
	if err := focus.Record(m.ctx, m.store, *done); err != nil {
		return m.afterMutation("", err), nil
	}
	if done.Finished == focus.ModeWork {
		m.Status = StatusBar{Text: focus.CompleteMessage}
	} else {
		m.Status = StatusBar{Text: "break over, back to work"}
	}
	return m, nil
}

func (m Model) focusFraction() float64 {
	total := m.Focus.Durations.For(m.Focus.Mode)
	if total <= 0 {
		return 0
	}
	return 1 - float64(m.Focus.Remaining)/float64(total)
}

func focusTickCmd(id int) tea.Cmd {
	return tea.Tick(focusTick, func(time.Time) tea.Msg { return FocusTickMsg{ID: id} })
}
