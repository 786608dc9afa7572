package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/chazuruo/chaosq/internal/config"
)

// InitOptions contains the options for the init command.
type InitOptions struct {
	// Scriptable/flag options for --no-tui mode
	URL       string
	Token     string
	Namespace string
	Matcher   string
	Output    string
	Force     bool
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize chaosq configuration",
		Long: `Initialize chaosq configuration.

The init command guides you through setting up your chaosq configuration:
- Dashboard URL and optional bearer token
- Default namespace (empty for all namespaces)
- Search matcher (substring or fuzzy)
- Default output format

Use --no-tui with flags for scripted setup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "dashboard URL (e.g., http://localhost:2333)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "bearer token")
	cmd.Flags().StringVar(&opts.Namespace, "namespace", "", "default namespace (empty = all)")
	cmd.Flags().StringVar(&opts.Matcher, "matcher", "", "search matcher: substring or fuzzy")
	cmd.Flags().StringVar(&opts.Output, "output", "", "default output format: table, plain, json, yaml")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing config file")

	return cmd
}

func runInit(w io.Writer, opts *InitOptions) error {
	configPath, err := initConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil && !opts.Force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", configPath)
	}

	var cfg *config.Config
	if IsNoTUI() {
		cfg, err = buildInitConfig(opts)
	} else {
		cfg, err = runInitInteractive(opts)
	}
	if err != nil {
		return err
	}

	if err := config.Write(configPath, cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintln(w, "✓ Configuration written successfully!")
	fmt.Fprintf(w, "  Config: %s\n", configPath)
	fmt.Fprintf(w, "  Server: %s\n", cfg.Server.URL)
	if cfg.Server.Namespace != "" {
		fmt.Fprintf(w, "  Namespace: %s\n", cfg.Server.Namespace)
	}
	fmt.Fprintln(w, "\nYou're ready to go! Try 'chaosq search' to verify.")

	return nil
}

// initConfigPath returns --config or the default location.
func initConfigPath() (string, error) {
	configPath, _, _ := globals()
	if configPath != "" {
		return configPath, nil
	}
	path, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to determine config path: %w", err)
	}
	return path, nil
}

// buildInitConfig builds a validated config from flags.
func buildInitConfig(opts *InitOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if opts.URL != "" {
		cfg.Server.URL = opts.URL
	}
	cfg.Server.Token = opts.Token
	cfg.Server.Namespace = opts.Namespace
	if opts.Matcher != "" {
		cfg.Search.Matcher = opts.Matcher
	}
	if opts.Output != "" {
		cfg.Output.Format = opts.Output
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// runInitInteractive runs the init wizard with huh, seeded from flags.
func runInitInteractive(opts *InitOptions) (*config.Config, error) {
	defaults := config.DefaultConfig()

	url := firstNonEmpty(opts.URL, defaults.Server.URL)
	token := opts.Token
	namespace := opts.Namespace
	matcher := firstNonEmpty(opts.Matcher, defaults.Search.Matcher)
	output := firstNonEmpty(opts.Output, defaults.Output.Format)
	qps := strconv.FormatFloat(defaults.Server.QPS, 'f', -1, 64)

	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dashboard URL").
				Description("Base URL of the chaos dashboard").
				Value(&url).
				Validate(func(s string) error {
					c := config.DefaultConfig()
					c.Server.URL = s
					return c.Validate()
				}),
			huh.NewInput().
				Title("Token").
				Description("Bearer token (leave empty if the dashboard has no auth)").
				EchoMode(huh.EchoModePassword).
				Value(&token),
			huh.NewInput().
				Title("Namespace").
				Description("Only show resources in this namespace (empty = all)").
				Value(&namespace),
			huh.NewInput().
				Title("Request rate limit").
				Description("Requests per second (0 disables limiting)").
				Value(&qps).
				Validate(func(s string) error {
					_, err := strconv.ParseFloat(s, 64)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Search matcher").
				Options(
					huh.NewOption("Substring - names containing the query", "substring"),
					huh.NewOption("Fuzzy - ranked fuzzy matching", "fuzzy"),
				).
				Value(&matcher),
			huh.NewSelect[string]().
				Title("Default output format").
				Options(
					huh.NewOption("Table", "table"),
					huh.NewOption("Plain", "plain"),
					huh.NewOption("JSON", "json"),
					huh.NewOption("YAML", "yaml"),
				).
				Value(&output),
		),
	).Run(); err != nil {
		return nil, fmt.Errorf("form error: %w", err)
	}

	cfg, err := buildInitConfig(&InitOptions{
		URL:       url,
		Token:     token,
		Namespace: namespace,
		Matcher:   matcher,
		Output:    output,
	})
	if err != nil {
		return nil, err
	}

	rate, err := strconv.ParseFloat(qps, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", qps, err)
	}
	cfg.Server.QPS = rate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
