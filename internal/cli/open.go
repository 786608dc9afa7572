package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	cqerrors "github.com/chazuruo/chaosq/internal/errors"
	"github.com/chazuruo/chaosq/internal/resource"
)

// OpenOptions contains the options for the open command.
type OpenOptions struct {
	Type string
	Kind string
	URL  bool
}

// NewOpenCommand creates the open command.
func NewOpenCommand() *cobra.Command {
	opts := &OpenOptions{}

	cmd := &cobra.Command{
		Use:   "open <uid>",
		Short: "Print the dashboard path of a resource",
		Long: `Print the dashboard path of a resource without contacting the server.

Archives need the kind they archive (--kind Workflow, Schedule or an
experiment kind such as PodChaos) to pick the right detail page.

Examples:
  chaosq open 3f5b8e2c-9d1a-4f6e-8b7c-2a1d0e9f8c7b --type experiment
  chaosq open 3f5b8e2c-9d1a-4f6e-8b7c-2a1d0e9f8c7b --type archive --kind Workflow --url`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := resolveOpen(args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "experiment", "resource type: workflow, schedule, experiment, archive")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "original kind of an archived resource")
	cmd.Flags().BoolVar(&opts.URL, "url", false, "print the full dashboard URL")

	return cmd
}

// resolveOpen validates the arguments and resolves the link.
func resolveOpen(uid string, opts *OpenOptions) (string, error) {
	uid = strings.TrimSpace(uid)
	if _, err := uuid.Parse(uid); err != nil {
		return "", fmt.Errorf("invalid uid %q: %w", uid, cqerrors.ErrInvalid)
	}

	v, err := resource.ParseVariant(opts.Type)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cqerrors.ErrInvalid, err)
	}

	link := resource.ResolveLink(uid, v, opts.Kind)
	if !opts.URL {
		return link, nil
	}

	serverURL, err := configuredServer()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(serverURL, "/") + link, nil
}
