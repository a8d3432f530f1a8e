package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/pod/internal/config"
)

var (
	// Global flags
	jsonOutput bool

	groupTitleColor = color.New(color.FgCyan, color.Bold)
)

// rootCmd is the root command for pod. Run without a subcommand it
// dispatches on the MODE environment variable.
var rootCmd = &cobra.Command{
	Use:     "pod",
	Version: "dev",
	Short:   "Byte-level version snapshots of a working directory",
	Long: `pod records an initial snapshot of the current directory and, on each
commit, appends the positional byte difference between the working tree and
the state rebuilt from every earlier commit.

Run without a subcommand, pod reads MODE from the environment:
  MODE=INIT    freeze the working tree into the initial snapshot
  MODE=COMMIT  record the difference against the last commit`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	RunE: runMode,
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	// Group titles are colored once here; cobra's own help template
	// renders them.
	rootCmd.AddGroup(
		&cobra.Group{ID: "history", Title: groupTitleColor.Sprint("Recording History:")},
		&cobra.Group{ID: "inspection", Title: groupTitleColor.Sprint("Inspecting History:")},
		&cobra.Group{ID: "cli-tooling", Title: groupTitleColor.Sprint("CLI & Tooling:")},
	)
	rootCmd.SetHelpCommandGroupID("cli-tooling")

	rootCmd.AddCommand(&cobra.Command{
		Use:     "version",
		Short:   "Print the pod version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
		},
	})

	initCmd.GroupID = "history"
	commitCmd.GroupID = "history"
	statusCmd.GroupID = "inspection"
	logCmd.GroupID = "inspection"
	verifyCmd.GroupID = "inspection"
	exportCmd.GroupID = "inspection"
	rootCmd.AddCommand(initCmd, commitCmd, statusCmd, logCmd, verifyCmd, exportCmd)
}

// runMode runs the operation selected by MODE.
func runMode(cmd *cobra.Command, args []string) error {
	eng, cfg, err := newEngine()
	if err != nil {
		return err
	}

	mode, err := config.ParseMode(cfg.Mode)
	if err != nil {
		return fmt.Errorf("%w (set MODE=%s or MODE=%s, or run a subcommand)", err, config.ModeInit, config.ModeCommit)
	}

	switch mode {
	case config.ModeInit:
		return runInit(cmd, eng)
	case config.ModeCommit:
		return runCommit(cmd, eng, false)
	}
	return nil
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
