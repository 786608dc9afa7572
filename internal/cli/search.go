// Package cli provides Cobra command definitions for chaosq.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/chazuruo/chaosq/internal/search"
	"github.com/chazuruo/chaosq/internal/tui"
)

// SearchOptions contains the options for the search command.
type SearchOptions struct {
	Query   string
	Output  string
	Matcher string
	Limit   int
	URL     bool
}

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	opts := &SearchOptions{}

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search workflows, schedules, experiments and archives",
		Long: `Search every resource type of the dashboard at once.

Interactive mode (default):
- Results update as you type, after a short quiet period
- Results are grouped by type
- Enter prints the dashboard path of the selected resource

Non-interactive mode (--query, --output or --no-tui):
- Runs one search and prints the grouped results
- Use --output json or yaml for structured output

Qualifiers narrow the search:
  namespace:<ns>   only resources in namespace <ns> (alias ns:)
  kind:<kind>      only resources whose kind contains <kind>

Examples:
  chaosq search
  chaosq search pod kill
  chaosq search --query "ns:default kind:network" --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && opts.Query == "" {
				opts.Query = strings.Join(args, " ")
			}
			return runSearch(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "search query (non-interactive mode)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output format: table, plain, json, yaml")
	cmd.Flags().StringVar(&opts.Matcher, "matcher", "", "matcher: substring or fuzzy (default from config)")
	cmd.Flags().IntVar(&opts.Limit, "limit", -1, "maximum results per type (0 = unlimited, default from config)")
	cmd.Flags().BoolVar(&opts.URL, "url", false, "print the full dashboard URL of the selection")

	return cmd
}

func runSearch(cmd *cobra.Command, opts *SearchOptions) error {
	env, err := loadEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cfg := env.Config

	matcher, err := search.ParseMatcher(firstNonEmpty(opts.Matcher, cfg.Search.Matcher))
	if err != nil {
		return err
	}
	limit := cfg.Search.Limit
	if opts.Limit >= 0 {
		limit = opts.Limit
	}

	interactive := cfg.TUI.Enabled && !IsNoTUI() && opts.Output == "" && !cmd.Flags().Changed("query")

	// Logs would draw over the TUI, so they are dropped while it runs.
	logger := env.Logger
	if interactive {
		logger = slog.New(slog.DiscardHandler)
	}

	searcher := search.NewSearcher(env.Client,
		search.WithMatcher(matcher),
		search.WithLimit(limit),
		search.WithLogger(logger),
	)

	if !interactive {
		if strings.TrimSpace(opts.Query) == "" {
			return fmt.Errorf("a query is required in non-interactive mode")
		}
		f, err := parseOutputFormat(opts.Output, cfg.Output.Format)
		if err != nil {
			return err
		}
		return searchOnce(commandContext(cmd), cmd.OutOrStdout(), searcher, opts.Query, f)
	}

	session := search.NewSession(searcher,
		search.WithDebounce(cfg.Search.Debounce.Std()),
		search.WithSessionLogger(logger),
	)
	defer session.Close()

	model := tui.NewSearchModel(session, opts.Query, cfg.TUI.ShowHelp)
	final, err := tea.NewProgram(model, tea.WithContext(commandContext(cmd))).Run()
	if err != nil {
		return fmt.Errorf("search UI failed: %w", err)
	}

	sm, ok := final.(tui.SearchModel)
	if !ok || !sm.DidConfirm() {
		return nil
	}

	link := sm.Link
	if opts.URL {
		link = strings.TrimRight(cfg.Server.URL, "/") + link
	}
	fmt.Fprintln(cmd.OutOrStdout(), link)
	return nil
}

// searchOnce runs a single search cycle and prints the result.
func searchOnce(ctx context.Context, w io.Writer, q search.Querier, query string, f OutputFormat) error {
	rs, err := q.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return writeResultSet(w, f, rs)
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
