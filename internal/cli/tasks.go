package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/taskdash/internal/commands"
	"github.com/sandeepkv93/taskdash/internal/insights"
	"github.com/sandeepkv93/taskdash/internal/model"
	"github.com/sandeepkv93/taskdash/internal/transfer"
)

func newAddCmd(f *rootFlags) *cobra.Command {
	var description, status string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Long: `Add a task. The title accepts the same inline tokens as the command palette:
p:<priority>, due:<YYYY-MM-DD> and #<category>.

Examples:
  taskdash add "Pay rent p:high due:2026-04-01 #Personal"
  taskdash add Write report --description "Q1 numbers" --status "In Progress"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := commands.Parse("add " + strings.Join(args, " "))
			if err != nil {
				return err
			}
			draft := model.TaskDraft{
				Title:       parsed.Add.Title,
				Description: description,
				Priority:    parsed.Add.Priority,
				DueDate:     parsed.Add.Due,
				Categories:  parsed.Add.Categories,
			}
			if status != "" {
				if draft.Status, err = model.ParseStatus(status); err != nil {
					return err
				}
			}

			a, err := openApp(cmd.Context(), f, false)
			if err != nil {
				return err
			}
			defer a.Close()
			task, err := a.store.AddTask(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q\n", task.ID, task.Title)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&status, "status", "s", "", "initial status (To Do, In Progress, Done)")
	return cmd
}

type filterFlags struct {
	status   string
	priority string
	category string
	label    string
	assignee string
	archived bool
	json     bool
}

func (ff *filterFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&ff.status, "status", "", "only tasks with this status")
	fl.StringVar(&ff.priority, "priority", "", "only tasks with this priority")
	fl.StringVar(&ff.category, "category", "", "only tasks in this category")
	fl.StringVar(&ff.label, "label", "", "only tasks carrying this label id")
	fl.StringVar(&ff.assignee, "assignee", "", "only tasks assigned to this member id")
	fl.BoolVar(&ff.archived, "archived", false, "list archived tasks instead of active ones")
	fl.BoolVar(&ff.json, "json", false, "print JSON instead of a table")
}

func (ff *filterFlags) filters() (insights.Filters, error) {
	out := insights.Filters{Category: ff.category, Label: ff.label, Assignee: ff.assignee}
	if ff.status != "" {
		st, err := model.ParseStatus(ff.status)
		if err != nil {
			return out, err
		}
		out.Status = string(st)
	}
	if ff.priority != "" {
		p, err := model.ParsePriority(ff.priority)
		if err != nil {
			return out, err
		}
		out.Priority = string(p)
	}
	return out, nil
}

func newListCmd(f *rootFlags) *cobra.Command {
	ff := &filterFlags{}
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, f, ff, "")
		},
	}
	ff.register(cmd)
	return cmd
}

func newSearchCmd(f *rootFlags) *cobra.Command {
	ff := &filterFlags{}
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find tasks whose title or description contains query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, f, ff, strings.Join(args, " "))
		},
	}
	ff.register(cmd)
	return cmd
}

func runQuery(cmd *cobra.Command, f *rootFlags, ff *filterFlags, query string) error {
	filters, err := ff.filters()
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context(), f, false)
	if err != nil {
		return err
	}
	defer a.Close()

	tasks := a.store.Tasks()
	if ff.archived {
		tasks = a.store.ArchivedTasks()
	}
	tasks = insights.Search(tasks, query, filters)
	if ff.json {
		data, err := transfer.EncodeJSON(tasks)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	writeTaskTable(cmd.OutOrStdout(), tasks, a.store.Now())
	return nil
}

var (
	headerCell = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	bodyCell   = lipgloss.NewStyle().Padding(0, 1)
)

func writeTaskTable(w io.Writer, tasks []model.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.String()
		}
		rows = append(rows, []string{t.ID, t.Title, string(t.Status), string(t.Priority), due, strings.Join(t.Categories, ", ")})
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Title", "Status", "Priority", "Due", "Categories").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return bodyCell
		})
	fmt.Fprintln(w, tbl.Render())
	fmt.Fprintf(w, "%d task(s) as of %s\n", len(tasks), now.Format("2006-01-02 15:04"))
}

func newStatsCmd(f *rootFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task counts and productivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), f, false)
			if err != nil {
				return err
			}
			defer a.Close()

			tasks := a.store.Tasks()
			report := statsReport{
				Stats:          a.store.Stats(),
				Productivity:   a.store.Productivity(),
				Priorities:     insights.Priorities(tasks),
				Categories:     insights.Categories(tasks),
				DailyGoal:      a.cfg.Focus.DailyGoal,
				CompletionRate: a.store.Stats().CompletionRate(),
			}
			report.GoalProgress = insights.GoalProgress(report.Productivity.CompletedToday, report.DailyGoal)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), report)
			}
			report.write(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

type statsReport struct {
	Stats          insights.Stats             `json:"stats"`
	CompletionRate int                        `json:"completionRate"`
	Productivity   insights.Productivity      `json:"productivity"`
	Priorities     insights.PriorityBreakdown `json:"priorities"`
	Categories     []insights.CategoryCount   `json:"categories"`
	DailyGoal      int                        `json:"dailyGoal"`
	GoalProgress   int                        `json:"goalProgress"`
}

func (r statsReport) write(w io.Writer) {
	s := r.Stats
	fmt.Fprintf(w, "Total: %d  To Do: %d  In Progress: %d  Done: %d\n", s.Total, s.Todo, s.InProgress, s.Completed)
	fmt.Fprintf(w, "Overdue: %d  High priority: %d  Completion: %d%%\n", s.Overdue, s.HighPriority, r.CompletionRate)
	fmt.Fprintf(w, "Priorities: High %d, Medium %d, Low %d\n", r.Priorities.High, r.Priorities.Medium, r.Priorities.Low)
	p := r.Productivity
	fmt.Fprintf(w, "Completed today: %d (goal %d, %d%%)  This week: %d\n", p.CompletedToday, r.DailyGoal, r.GoalProgress, p.CompletedThisWeek)
	fmt.Fprintf(w, "Time spent: %dm  Average per task: %.1fm\n", p.TotalTimeSpent, p.AvgTimePerTask)
	for _, c := range r.Categories {
		fmt.Fprintf(w, "  %s: %d\n", c.Name, c.Count)
	}
}
