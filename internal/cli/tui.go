package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskdash/internal/scheduler"
	"github.com/sandeepkv93/taskdash/internal/store"
	"github.com/sandeepkv93/taskdash/internal/transfer"
	"github.com/sandeepkv93/taskdash/internal/update"
)

func newTUICmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, f)
		},
	}
}

func runTUI(cmd *cobra.Command, f *rootFlags) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := openApp(ctx, f, true)
	if err != nil {
		return err
	}
	defer a.Close()
	a.serveMetrics(ctx)

	engine := scheduler.NewEngine(a.cfg.Scheduler.Buffer, scheduler.WithDropHook(a.metrics.ReminderDropped))
	engine.Start()
	defer engine.Stop()
	reminders := scheduler.NewReminders(engine, a.store, a.logger, a.metrics)
	go reminders.Run(ctx)

	// Subscribers run on the mutating goroutine, often the update loop
	// itself; the send must never block.
	changes := make(chan store.Change, 1)
	unsubscribe := a.store.Subscribe(func(c store.Change) {
		reminders.Sync()
		select {
		case changes <- c:
		default:
		}
	})
	defer unsubscribe()
	reminders.Sync()

	fs := afero.NewOsFs()
	if dir := a.cfg.Transfer.ImportDir; dir != "" {
		w := transfer.NewWatcher(dir, transfer.NewImporter(fs, a.store, a.logger, a.metrics))
		go func() {
			if err := w.Run(ctx); err != nil {
				a.logger.Error("import watcher stopped", zap.Error(err))
			}
		}()
	}

	model := update.NewModel(a.store,
		update.WithContext(ctx),
		update.WithLogger(a.logger),
		update.WithFs(fs),
		update.WithExportDir(a.cfg.Transfer.ExportDir),
		update.WithBackendName(a.cfg.Storage.Backend),
		update.WithDailyGoal(a.cfg.Focus.DailyGoal),
		update.WithFocusDurations(a.cfg.FocusDurations()),
		update.WithChanges(changes),
	)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run dashboard: %w", err)
	}
	a.logger.Info("dashboard closed", zap.Uint64("reminders_dropped", engine.Dropped()))
	return nil
}
