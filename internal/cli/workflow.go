package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chazuruo/chaosq/internal/api"
)

// NewWorkflowCommand creates the workflow command group.
func NewWorkflowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Archive workflows",
	}

	cmd.AddCommand(
		newActionCommand("archive", "Archive workflows", archiveWorkflows),
	)

	return cmd
}

// archiveWorkflows archives each workflow in turn. The dashboard has no
// batch endpoint for workflows.
func archiveWorkflows(ctx context.Context, w io.Writer, c *api.Client, uids []string) error {
	for _, uid := range uids {
		if err := c.ArchiveWorkflow(ctx, uid); err != nil {
			return fmt.Errorf("failed to archive %s: %w", uid, err)
		}
		fmt.Fprintf(w, "✓ Archived %s\n", uid)
	}
	return nil
}
