package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/pod/internal/engine"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Freeze the working tree into the initial snapshot",
	Long: `Copy every directory and file of the working tree into .pod, the initial
snapshot every later commit is replayed over.

Names listed in .podignore (one per line, exact basename match) are left out,
as are .pod and .commits themselves. Fails if the snapshot already exists.

Equivalent to running pod with MODE=INIT.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}
		return runInit(cmd, eng)
	},
}

func runInit(cmd *cobra.Command, eng *engine.Engine) error {
	result, err := eng.Init(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), result)
	}

	PrintSuccess(fmt.Sprintf("Initialized snapshot at %s", result.Snapshot))
	PrintLabelValue("Directories", fmt.Sprintf("%d", result.Dirs))
	PrintLabelValue("Files", fmt.Sprintf("%d", result.Files))
	return nil
}
