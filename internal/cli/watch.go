package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/chazuruo/chaosq/internal/api"
	"github.com/chazuruo/chaosq/internal/format"
	"github.com/chazuruo/chaosq/internal/poll"
)

// DefaultWatchInterval matches the dashboard's experiment list refresh.
const DefaultWatchInterval = 6 * time.Second

// WatchOptions contains the options for the watch command.
type WatchOptions struct {
	Interval time.Duration
	Output   string
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch experiments",
		Short: "Refresh the experiment list until every experiment settles",
		Long: `Print the experiment list on an interval.

Watching stops by itself once every experiment is finished or paused,
or when interrupted.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"experiments"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "experiments" && args[0] != "experiment" {
				return fmt.Errorf("only experiments can be watched, got %q", args[0])
			}
			env, err := loadEnv(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			f, err := parseOutputFormat(opts.Output, env.Config.Output.Format)
			if err != nil {
				return err
			}
			return watchExperiments(commandContext(cmd), cmd.OutOrStdout(), env.Client, opts.Interval, f)
		},
	}

	cmd.Flags().DurationVar(&opts.Interval, "interval", DefaultWatchInterval, "refresh interval")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output format: table, plain, json, yaml")

	return cmd
}

// watchExperiments prints the experiment list until all are settled.
func watchExperiments(ctx context.Context, w io.Writer, c *api.Client, interval time.Duration, f OutputFormat) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", interval)
	}

	return poll.Until(ctx, interval, func(ctx context.Context) (bool, error) {
		experiments, err := c.ListExperiments(ctx)
		if err != nil {
			return false, err
		}

		items := mapResources(experiments, api.Experiment.Resource)
		fmt.Fprintf(w, "%s  %d experiment(s)\n", format.Time(time.Now()), len(items))
		if err := writeResources(w, f, items); err != nil {
			return false, err
		}

		return allSettled(experiments), nil
	})
}

// allSettled reports whether no experiment is still changing state.
func allSettled(experiments []api.Experiment) bool {
	for _, e := range experiments {
		if e.Status != api.StatusFinished && e.Status != api.StatusPaused {
			return false
		}
	}
	return true
}
