package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/pod/internal/engine"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the working tree against the last commit",
	Long: `Rebuild the last committed state and compare it with the working tree by
SHA-256 digest. Exits non-zero when they differ.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}

		result, err := eng.Verify(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			if err := outputJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
		} else if result.Clean {
			PrintSuccess(fmt.Sprintf("Working tree matches the last commit (%s replayed)",
				PrintCount(result.Replayed, "commit", "commits")))
		} else {
			PrintWarning("Working tree differs from the last commit")
			for _, g := range []struct {
				title string
				paths []string
			}{
				{"Modified:", result.Modified},
				{"Missing:", result.Missing},
				{"Extra:", result.Extra},
			} {
				if len(g.paths) > 0 {
					PrintSubsection(g.title)
					PrintList(g.paths, 2)
				}
			}
		}

		if !result.Clean {
			return engine.ErrDrift
		}
		return nil
	},
}
