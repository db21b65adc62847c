package update

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskdash/internal/calendar"
	"github.com/sandeepkv93/taskdash/internal/focus"
	"github.com/sandeepkv93/taskdash/internal/insights"
	"github.com/sandeepkv93/taskdash/internal/model"
	"github.com/sandeepkv93/taskdash/internal/store"
	"github.com/sandeepkv93/taskdash/internal/transfer"
)

type View string

const (
	ViewDashboard     View = "Dashboard"
	ViewTasks         View = "Tasks"
	ViewKanban        View = "Kanban"
	ViewCalendar      View = "Calendar"
	ViewStats         View = "Stats"
	ViewFocus         View = "Focus"
	ViewHistory       View = "History"
	ViewArchive       View = "Archive"
	ViewNotifications View = "Notifications"
	ViewSettings      View = "Settings"
	ViewTeam          View = "Team"
	ViewTemplates     View = "Templates"
)

// ViewOrder is the tab order. The first ten views are bound to 1-9 and 0.
var ViewOrder = []View{
	ViewDashboard, ViewTasks, ViewKanban, ViewCalendar, ViewStats, ViewFocus,
	ViewHistory, ViewArchive, ViewNotifications, ViewSettings, ViewTeam, ViewTemplates,
}

func ParseView(s string) (View, bool) {
	for _, v := range ViewOrder {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, true
		}
	}
	return "", false
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Palette string
	Next    string
	Prev    string
	Help    string
	Quit    string
}

// PromptKind names what the single-line prompt is collecting.
type PromptKind string

const (
	PromptNone       PromptKind = ""
	PromptAddTask    PromptKind = "new task"
	PromptSearch     PromptKind = "search"
	PromptSubtask    PromptKind = "subtask"
	PromptComment    PromptKind = "comment"
	PromptAttachment PromptKind = "attachment"
	PromptMinutes    PromptKind = "minutes spent"
	PromptCategory   PromptKind = "category"
	PromptLabel      PromptKind = "label (name #color)"
	PromptMember     PromptKind = "member (name email [role])"
)

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView    View
	SelectedTaskID string
	Filter         insights.Filters
	Query          string
	Calendar       calendar.Cursor
	Focus          focus.Timer
	Palette        CommandPaletteState
	Prompt         PromptKind
	HelpVisible    bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	store     *store.Store
	ctx       context.Context
	logger    *zap.Logger
	fs        afero.Fs
	importer  *transfer.Importer
	exportDir string
	backend   string
	dailyGoal int
	changes   <-chan store.Change

	cursors      map[View]int
	kanbanCol    int
	focusTickID  int
	confirmClear bool

	commandInput  textinput.Model
	promptInput   textinput.Model
	focusProgress progress.Model
	helpModel     help.Model
}

type Option func(*Model)

func WithContext(ctx context.Context) Option { return func(m *Model) { m.ctx = ctx } }

func WithLogger(l *zap.Logger) Option { return func(m *Model) { m.logger = l } }

// WithFs sets the filesystem used for export, import and backups.
func WithFs(fs afero.Fs) Option { return func(m *Model) { m.fs = fs } }

func WithExportDir(dir string) Option { return func(m *Model) { m.exportDir = dir } }

func WithBackendName(name string) Option { return func(m *Model) { m.backend = name } }

func WithDailyGoal(n int) Option { return func(m *Model) { m.dailyGoal = n } }

func WithFocusDurations(d focus.Durations) Option { return func(m *Model) { m.Focus = focus.New(d) } }

// WithChanges feeds store change events into the update loop.
func WithChanges(ch <-chan store.Change) Option { return func(m *Model) { m.changes = ch } }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type FocusTickMsg struct {
	ID int
}

type StoreChangedMsg struct {
	Change store.Change
}

const defaultDailyGoal = 5

func NewModel(st *store.Store, opts ...Option) Model {
	m := Model{
		CurrentView: ViewDashboard,
		Focus:       focus.New(focus.DefaultDurations()),
		Keys: GlobalKeyMap{
			Palette: "/",
			Next:    "tab",
			Prev:    "shift+tab",
			Help:    "?",
			Quit:    "q",
		},
		store:     st,
		ctx:       context.Background(),
		logger:    zap.NewNop(),
		fs:        afero.NewOsFs(),
		exportDir: ".",
		backend:   "sqlite",
		dailyGoal: defaultDailyGoal,
		cursors:   make(map[View]int),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.Calendar = calendar.NewCursor(model.DateOf(st.Now()))
	m.importer = transfer.NewImporter(m.fs, st, m.logger, nil)
	m.initBubbleComponents()
	m.syncSelection()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.Placeholder = "add pay rent p:high due:2026-04-01 #Personal"
	m.commandInput.CharLimit = 256

	m.promptInput = textinput.New()
	m.promptInput.Prompt = "> "
	m.promptInput.CharLimit = 512

	m.focusProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	m.helpModel = help.New()
}

// Store exposes the backing store to callers that embed the model.
func (m Model) Store() *store.Store { return m.store }

func (m Model) cursor() int { return m.cursors[m.CurrentView] }

func (m *Model) setCursor(n int) {
	m.cursors[m.CurrentView] = max(0, n)
}

func (m Model) today() model.Date {
	return model.DateOf(m.store.Now())
}

func (m Model) now() time.Time { return m.store.Now() }
