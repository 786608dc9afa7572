package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chazuruo/chaosq/internal/api"
	"github.com/chazuruo/chaosq/internal/format"
	"github.com/chazuruo/chaosq/internal/poll"
)

// DefaultStatusInterval matches the dashboard overview refresh.
const DefaultStatusInterval = 12 * time.Second

// StatusOptions contains the options for the status command.
type StatusOptions struct {
	Watch    bool
	Interval time.Duration
	Count    int
	Output   string
}

// Tally counts the resources of one type by status.
type Tally struct {
	Total    int            `json:"total" yaml:"total"`
	ByStatus map[string]int `json:"by_status" yaml:"by_status"`
}

// Overview is the resource summary shown by the status command.
type Overview struct {
	Workflows   Tally `json:"workflows" yaml:"workflows"`
	Schedules   Tally `json:"schedules" yaml:"schedules"`
	Experiments Tally `json:"experiments" yaml:"experiments"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand() *cobra.Command {
	opts := &StatusOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show how many workflows, schedules and experiments exist",
		Long: `Display an overview of the dashboard.

Shows, per resource type:
- Total count
- Count per status (running, paused, finished, ...)

Use --watch to refresh the overview on an interval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			f, err := parseOutputFormat(opts.Output, env.Config.Output.Format)
			if err != nil {
				return err
			}
			return runStatus(commandContext(cmd), cmd.OutOrStdout(), env.Client, opts, f)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "refresh the overview on an interval")
	cmd.Flags().DurationVar(&opts.Interval, "interval", DefaultStatusInterval, "refresh interval with --watch")
	cmd.Flags().IntVar(&opts.Count, "count", 0, "stop after this many refreshes with --watch (0 = until interrupted)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output format: table, plain, json, yaml")

	return cmd
}

func runStatus(ctx context.Context, w io.Writer, c *api.Client, opts *StatusOptions, f OutputFormat) error {
	if !opts.Watch {
		ov, err := fetchOverview(ctx, c)
		if err != nil {
			return err
		}
		return writeOverview(w, f, ov)
	}

	if opts.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", opts.Interval)
	}

	refreshes := 0
	return poll.Until(ctx, opts.Interval, func(ctx context.Context) (bool, error) {
		ov, err := fetchOverview(ctx, c)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(w, format.Time(time.Now()))
		if err := writeOverview(w, f, ov); err != nil {
			return false, err
		}
		refreshes++
		return opts.Count > 0 && refreshes >= opts.Count, nil
	})
}

// fetchOverview lists workflows, schedules and experiments concurrently.
func fetchOverview(ctx context.Context, c *api.Client) (Overview, error) {
	var (
		workflows   []api.Workflow
		schedules   []api.Schedule
		experiments []api.Experiment
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		workflows, err = c.ListWorkflows(gCtx)
		return err
	})
	g.Go(func() (err error) {
		schedules, err = c.ListSchedules(gCtx)
		return err
	})
	g.Go(func() (err error) {
		experiments, err = c.ListExperiments(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	return Overview{
		Workflows:   tally(workflows, func(w api.Workflow) string { return w.Status }),
		Schedules:   tally(schedules, func(s api.Schedule) string { return s.Status }),
		Experiments: tally(experiments, func(e api.Experiment) string { return e.Status }),
	}, nil
}

func tally[T any](items []T, status func(T) string) Tally {
	t := Tally{Total: len(items), ByStatus: map[string]int{}}
	for _, it := range items {
		s := strings.ToLower(status(it))
		if s == "" {
			s = api.StatusUnknown
		}
		t.ByStatus[s]++
	}
	return t
}

// breakdown renders counts as "paused 1, running 2", sorted by status.
func breakdown(t Tally, sep string, render func(string) string) string {
	parts := make([]string, 0, len(t.ByStatus))
	for _, s := range slices.Sorted(maps.Keys(t.ByStatus)) {
		parts = append(parts, fmt.Sprintf("%s%s%d", render(s), sep, t.ByStatus[s]))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func writeOverview(w io.Writer, f OutputFormat, ov Overview) error {
	rows := []struct {
		key string
		t   Tally
	}{
		{"workflows", ov.Workflows},
		{"schedules", ov.Schedules},
		{"experiments", ov.Experiments},
	}

	switch f {
	case FormatJSON:
		return writeJSON(w, ov)
	case FormatYAML:
		return writeYAML(w, ov)
	case FormatPlain:
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%d\t%s\n", r.key, r.t.Total, strings.ReplaceAll(
				breakdown(r.t, "=", func(s string) string { return s }), ", ", " "))
		}
		return nil
	default:
		tbl := table.New("TYPE", "TOTAL", "STATUS").
			WithHeaderFormatter(headerFormatter).
			WithWriter(w)
		for _, r := range rows {
			tbl.AddRow(r.key, r.t.Total, breakdown(r.t, " ", format.Status))
		}
		tbl.Print()
		return nil
	}
}
