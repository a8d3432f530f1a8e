package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the next commit would record",
	Long:  `Diff the working tree against the last commit without writing an entry.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}

		result, err := eng.Status(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), result)
		}

		if !result.Initialized {
			PrintWarning("Not initialized (run pod init)")
			return nil
		}

		latest := result.Latest
		if latest == "" {
			latest = "(snapshot only)"
		}
		PrintLabelValue("Commits", PrintCount(result.Entries, "commit", "commits"))
		PrintLabelValue("Latest", latest)
		PrintSection("Pending Changes")
		printRecord(result.Record)
		return nil
	},
}
