package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskdash/internal/transfer"
)

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func newExportCmd(f *rootFlags) *cobra.Command {
	var format, dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write active tasks to tasks_<user>_<date>.json or .csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmtKind, err := transfer.ParseFormat(format)
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), f, false)
			if err != nil {
				return err
			}
			defer a.Close()
			if dir == "" {
				dir = a.cfg.Transfer.ExportDir
			}
			path, err := transfer.Export(afero.NewOsFs(), dir, a.store.UserKey(), fmtKind, a.store.Tasks(), a.store.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", len(a.store.Tasks()), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or csv")
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default transfer.export_dir)")
	return cmd
}

func newImportCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import tasks from a .json or .csv file",
		Long:  "Import tasks from a .json or .csv file. Files with any other extension import nothing.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), f, false)
			if err != nil {
				return err
			}
			defer a.Close()
			im := transfer.NewImporter(afero.NewOsFs(), a.store, a.logger, a.metrics)
			res, err := im.ImportFile(cmd.Context(), args[0])
			fmt.Fprintln(cmd.OutOrStdout(), transfer.Message(res, err))
			if err == nil && res.Skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d rows\n", res.Skipped)
			}
			return err
		},
	}
}

func newWatchCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Import every .json or .csv file dropped into a directory",
		Long: `Watch a directory and import each new .json or .csv file once it stops
changing. Defaults to transfer.import_dir. Stops on Ctrl-C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, f, false)
			if err != nil {
				return err
			}
			defer a.Close()
			a.serveMetrics(ctx)

			dir := a.cfg.Transfer.ImportDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return fmt.Errorf("no directory to watch: pass one or set transfer.import_dir")
			}
			out := cmd.OutOrStdout()
			im := transfer.NewImporter(afero.NewOsFs(), a.store, a.logger, a.metrics)
			w := transfer.NewWatcher(dir, im, transfer.WithResultHook(func(path string, res transfer.Result, err error) {
				fmt.Fprintf(out, "%s: %s\n", path, transfer.Message(res, err))
			}))
			fmt.Fprintf(out, "Watching %s for task files\n", dir)
			return w.Run(ctx)
		},
	}
}

func newBackupCmd(f *rootFlags) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write every collection of the current user to a JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), f, false)
			if err != nil {
				return err
			}
			defer a.Close()
			if dir == "" {
				dir = a.cfg.Transfer.ExportDir
			}
			path, err := transfer.WriteBackup(afero.NewOsFs(), dir, a.store.UserKey(), a.store.Snapshot(), a.store.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default transfer.export_dir)")
	cmd.AddCommand(newRestoreCmd(f))
	return cmd
}

func newRestoreCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the current user's data with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := transfer.ReadBackup(afero.NewOsFs(), args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), f, false)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.repo.Save(cmd.Context(), a.cfg.UserKey, b.State); err != nil {
				return fmt.Errorf("restore backup: %w", err)
			}
			a.logger.Info("backup restored", zap.String("file", args[0]), zap.Time("exported", b.ExportDate))
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d tasks and %d archived from %s\n", len(b.Tasks), len(b.Archived), args[0])
			return nil
		},
	}
}

func newConfigCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.loadConfig()
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
