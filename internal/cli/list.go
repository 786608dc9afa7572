package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazuruo/chaosq/internal/api"
	"github.com/chazuruo/chaosq/internal/resource"
)

// ListOptions contains the options for the list command.
type ListOptions struct {
	Archived string
	Output   string
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list <workflows|schedules|experiments|archives>",
		Short: "List resources of one type",
		Long: `List all resources of one type from the dashboard.

Archives are archived experiments by default. Use --archived to list
archived workflows or schedules instead.

Examples:
  chaosq list experiments
  chaosq list archives --archived workflows
  chaosq list schedules --output yaml`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"workflows", "schedules", "experiments", "archives"},
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			f, err := parseOutputFormat(opts.Output, env.Config.Output.Format)
			if err != nil {
				return err
			}
			items, err := listResources(commandContext(cmd), env.Client, args[0], opts.Archived)
			if err != nil {
				return err
			}
			return writeResources(cmd.OutOrStdout(), f, items)
		},
	}

	cmd.Flags().StringVar(&opts.Archived, "archived", "", "with archives: list archived workflows or schedules")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output format: table, plain, json, yaml")

	return cmd
}

// listResources fetches one collection and normalizes it.
func listResources(ctx context.Context, c *api.Client, typ, archived string) ([]resource.Resource, error) {
	v, err := resource.ParseVariant(typ)
	if err != nil {
		return nil, err
	}

	if archived != "" && v != resource.Archive {
		return nil, fmt.Errorf("--archived only applies to archives")
	}

	switch v {
	case resource.Workflow:
		items, err := c.ListWorkflows(ctx)
		return toResources(items, err, api.Workflow.Resource)
	case resource.Schedule:
		items, err := c.ListSchedules(ctx)
		return toResources(items, err, api.Schedule.Resource)
	case resource.Experiment:
		items, err := c.ListExperiments(ctx)
		return toResources(items, err, api.Experiment.Resource)
	case resource.Archive:
		return listArchives(ctx, c, archived)
	}
	return nil, fmt.Errorf("unsupported resource type %q", typ)
}

func listArchives(ctx context.Context, c *api.Client, archived string) ([]resource.Resource, error) {
	if archived == "" {
		items, err := c.ListArchives(ctx)
		return toResources(items, err, func(a api.Archive) resource.Resource { return a.Resource("") })
	}

	v, err := resource.ParseVariant(archived)
	if err != nil {
		return nil, err
	}
	switch v {
	case resource.Workflow:
		items, err := c.ListWorkflowArchives(ctx)
		return toResources(items, err, func(a api.Archive) resource.Resource { return a.Resource(resource.KindWorkflow) })
	case resource.Schedule:
		items, err := c.ListScheduleArchives(ctx)
		return toResources(items, err, func(a api.Archive) resource.Resource { return a.Resource(resource.KindSchedule) })
	case resource.Experiment, resource.Archive:
		return nil, fmt.Errorf("--archived must be workflows or schedules, got %q", archived)
	}
	return nil, fmt.Errorf("--archived must be workflows or schedules, got %q", archived)
}

func toResources[T any](items []T, err error, fn func(T) resource.Resource) ([]resource.Resource, error) {
	if err != nil {
		return nil, err
	}
	return mapResources(items, fn), nil
}

func mapResources[T any](items []T, fn func(T) resource.Resource) []resource.Resource {
	out := make([]resource.Resource, len(items))
	for i, it := range items {
		out[i] = fn(it)
	}
	return out
}
