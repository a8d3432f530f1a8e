package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/pod/internal/engine"
	"github.com/danieljhkim/pod/internal/fsops"
)

var exportAt string

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write the tree as of a commit to a directory",
	Long: `Rebuild the tree as of the last commit, or as of --at <commit>, and copy
it into dir. dir must be outside the working tree and empty or missing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cfg, err := newEngine()
		if err != nil {
			return err
		}

		dest, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", args[0], err)
		}
		if rel, err := filepath.Rel(cfg.Root, dest); err == nil && !strings.HasPrefix(rel, "..") {
			return fmt.Errorf("export destination %s is inside the working tree", dest)
		}

		result, err := eng.Export(context.Background(), &engine.ExportRequest{
			Dest: fsops.NewRealFS(dest),
			At:   exportAt,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), result)
		}

		at := result.Entry
		if at == "" {
			at = "initial snapshot"
		}
		PrintSuccess(fmt.Sprintf("Exported %s to %s", at, dest))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportAt, "at", "", "Last commit to replay (default: all)")
}
