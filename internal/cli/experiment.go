package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chazuruo/chaosq/internal/api"
)

// NewExperimentCommand creates the experiment command group.
func NewExperimentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Pause, start or archive experiments",
	}

	cmd.AddCommand(
		newActionCommand("pause", "Pause running experiments", pauseExperiments),
		newActionCommand("start", "Start paused experiments", startExperiments),
		newActionCommand("archive", "Archive experiments", archiveExperiments),
	)

	return cmd
}

// action runs one pause/start/archive style operation over uids.
type action func(ctx context.Context, w io.Writer, c *api.Client, uids []string) error

func newActionCommand(use, short string, run action) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <uid>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return run(commandContext(cmd), cmd.OutOrStdout(), env.Client, args)
		},
	}
}

func pauseExperiments(ctx context.Context, w io.Writer, c *api.Client, uids []string) error {
	for _, uid := range uids {
		if err := c.PauseExperiment(ctx, uid); err != nil {
			return fmt.Errorf("failed to pause %s: %w", uid, err)
		}
		fmt.Fprintf(w, "✓ Paused %s\n", uid)
	}
	return nil
}

func startExperiments(ctx context.Context, w io.Writer, c *api.Client, uids []string) error {
	for _, uid := range uids {
		if err := c.StartExperiment(ctx, uid); err != nil {
			return fmt.Errorf("failed to start %s: %w", uid, err)
		}
		fmt.Fprintf(w, "✓ Started %s\n", uid)
	}
	return nil
}

func archiveExperiments(ctx context.Context, w io.Writer, c *api.Client, uids []string) error {
	var err error
	if len(uids) == 1 {
		err = c.ArchiveExperiment(ctx, uids[0])
	} else {
		err = c.ArchiveExperiments(ctx, uids)
	}
	if err != nil {
		return fmt.Errorf("failed to archive: %w", err)
	}

	for _, uid := range uids {
		fmt.Fprintf(w, "✓ Archived %s\n", uid)
	}
	return nil
}
