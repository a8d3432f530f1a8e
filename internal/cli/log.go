package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List commits in replay order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}

		result, err := eng.Log(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), result)
		}

		if len(result.Entries) == 0 {
			PrintEmptyState("No commits yet")
			return nil
		}

		rows := make([][]string, 0, len(result.Entries))
		for _, e := range result.Entries {
			if e.Empty {
				rows = append(rows, []string{e.Name, e.Time.Local().Format(time.RFC3339), "-", "-", "-"})
				continue
			}
			rows = append(rows, []string{
				e.Name,
				e.Time.Local().Format(time.RFC3339),
				fmt.Sprintf("+%d -%d", e.NewDirs, e.RemovedDirs),
				fmt.Sprintf("+%d -%d", e.NewFiles, e.RemovedFiles),
				fmt.Sprintf("%d", e.ChangedFiles),
			})
		}
		PrintTable([]string{"COMMIT", "TIME", "DIRS", "FILES", "CHANGED"}, rows)
		return nil
	},
}
