// Package cli wires configuration, storage and the dashboard into the
// taskdash command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configFile string
	envFile    string
	user       string
	verbose    bool
}

// NewRootCmd builds the command tree. Without a subcommand it opens the dashboard.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "taskdash",
		Short: "A terminal task dashboard",
		Long: `taskdash keeps a personal task list with a kanban board, calendar,
focus timer and statistics.

Run it without arguments for the interactive dashboard, or use the
subcommands to script the same store.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "config file (default ./.taskdash.yaml or $HOME/.taskdash.yaml)")
	pf.StringVar(&flags.envFile, "env-file", "", "dotenv file read before the environment (default .env)")
	pf.StringVarP(&flags.user, "user", "u", "", "user key whose tasks are loaded")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log to stderr with the console encoder")

	root.AddCommand(
		newTUICmd(flags),
		newAddCmd(flags),
		newListCmd(flags),
		newSearchCmd(flags),
		newStatsCmd(flags),
		newExportCmd(flags),
		newImportCmd(flags),
		newWatchCmd(flags),
		newBackupCmd(flags),
		newConfigCmd(flags),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
