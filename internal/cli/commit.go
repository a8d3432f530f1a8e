package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/pod/internal/engine"
)

var commitDryRun bool

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record the working tree as a new commit",
	Long: `Rebuild the last committed state by replaying every commit over the
initial snapshot, then record the byte-level difference between it and the
working tree as a new entry under .commits.

An entry is written even when nothing changed.

Equivalent to running pod with MODE=COMMIT.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}
		return runCommit(cmd, eng, commitDryRun)
	},
}

func init() {
	commitCmd.Flags().BoolVar(&commitDryRun, "dry-run", false, "Show what would be committed without committing")
}

func runCommit(cmd *cobra.Command, eng *engine.Engine, dryRun bool) error {
	result, err := eng.Commit(context.Background(), &engine.CommitRequest{DryRun: dryRun})
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), result)
	}

	if result.DryRun {
		PrintSection("Dry Run")
		printRecord(result.Record)
		return nil
	}

	PrintSuccess(fmt.Sprintf("Committed %s", result.Entry))
	PrintLabelValue("Replayed", PrintCount(result.Replayed, "commit", "commits"))
	printRecord(result.Record)
	return nil
}

// printRecord lists the paths of a record grouped by kind.
func printRecord(record *engine.Record) {
	if record.Empty() {
		PrintEmptyState("No changes")
		return
	}

	groups := []struct {
		title string
		paths []string
	}{
		{"New directories:", record.NewDirs},
		{"Removed directories:", record.RemovedDirs},
		{"New files:", record.NewFiles},
		{"Removed files:", record.RemovedFiles},
		{"Modified files:", record.ModifiedFiles()},
	}
	for _, g := range groups {
		if len(g.paths) == 0 {
			continue
		}
		PrintSubsection(g.title)
		PrintList(g.paths, 2)
	}
}
