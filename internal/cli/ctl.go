package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"expenseboard/internal/config"
	"expenseboard/internal/dashboard"
	"expenseboard/internal/filter"
	applog "expenseboard/internal/log"
)

// APIFactory builds the expense API the commands talk to.
type APIFactory func(cfg *config.Config, logger *applog.Logger) (dashboard.API, error)

// CtlApp is the expensectl command line application.
type CtlApp struct {
	rootCmd *cobra.Command
	newAPI  APIFactory

	cfg    *config.Config
	api    dashboard.API
	logger *applog.Logger
	plain  bool
}

// NewCtlApp creates the command tree. newAPI may be nil, in which case the
// HTTP client for the configured base URL is used.
func NewCtlApp(version string, newAPI APIFactory) *CtlApp {
	app := &CtlApp{newAPI: newAPI}
	if app.newAPI == nil {
		app.newAPI = func(cfg *config.Config, logger *applog.Logger) (dashboard.API, error) {
			return NewAPIClient(cfg, logger)
		}
	}

	rootCmd := &cobra.Command{
		Use:               "expensectl",
		Short:             "Browse expenses from the terminal",
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: app.setup,
	}
	rootCmd.SetVersionTemplate(`{{printf "expensectl version: %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON profile")
	flags.String("api", "", "Expense API base URL (overrides EXPENSE_API_BASE_URL)")
	flags.Duration("timeout", 0, "Per-request timeout (e.g. 5s)")
	flags.Int("retries", -1, "Retries for transport errors and 5xx responses")
	flags.String("log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	flags.Bool("plain", false, "Disable colors and spinners")

	rootCmd.AddCommand(app.listCommand(), app.showCommand(), app.totalCommand(), app.categoriesCommand())

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CtlApp) Execute(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// Command exposes the root command, e.g. to set arguments and output in tests.
func (app *CtlApp) Command() *cobra.Command {
	return app.rootCmd
}

// setup resolves configuration from the environment, the optional profile
// and flags, in that order of precedence from lowest to highest.
func (app *CtlApp) setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	cfg := config.Load()
	if path, _ := flags.GetString("config-file"); path != "" {
		profile, err := config.LoadProfile(path)
		if err != nil {
			return err
		}
		if err := cfg.ApplyProfile(profile); err != nil {
			return err
		}
	}
	if flags.Changed("api") {
		cfg.APIBaseURL, _ = flags.GetString("api")
	}
	if flags.Changed("timeout") {
		cfg.APITimeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("retries") {
		cfg.APIRetries, _ = flags.GetInt("retries")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	app.plain, _ = flags.GetBool("plain")
	if app.plain {
		color.NoColor = true
		pterm.DisableStyling()
	}

	app.logger = applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: applog.ComponentCLI,
		Output:    cmd.ErrOrStderr(),
	})

	api, err := app.newAPI(cfg, app.logger)
	if err != nil {
		return err
	}
	app.cfg = cfg
	app.api = api
	return nil
}

func (app *CtlApp) listCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, _ := cmd.Flags().GetStringSlice("category")
			minPrice, _ := cmd.Flags().GetString("min")
			maxPrice, _ := cmd.Flags().GetString("max")
			page, _ := cmd.Flags().GetInt("page")

			q, err := ListQuery(categories, minPrice, maxPrice, page)
			if err != nil {
				return err
			}

			loader := dashboard.NewListLoader(app.api, app.api,
				dashboard.WithEnrichConcurrency(app.cfg.EnrichConcurrency),
				dashboard.WithListLogger(app.logger))

			stop := app.spin("Loading expenses")
			state := loader.Load(cmd.Context(), q, filter.PageFromQuery(q))
			stop()

			if err := stateError(state); err != nil {
				return err
			}
			return RenderList(cmd.OutOrStdout(), state.Data)
		},
	}
	cmd.Flags().StringSlice("category", nil, "Category ids to include (comma-separated)")
	cmd.Flags().String("min", "", "Minimum price")
	cmd.Flags().String("max", "", "Maximum price")
	cmd.Flags().Int("page", 1, "Page number, starting at 1")
	return cmd
}

func (app *CtlApp) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := dashboard.NewDetailLoader(app.api, app.logger)

			stop := app.spin("Loading expense")
			state := loader.Load(cmd.Context(), args[0])
			stop()

			if err := stateError(state); err != nil {
				return err
			}
			return RenderDetail(cmd.OutOrStdout(), state.Data)
		},
	}
}

func (app *CtlApp) totalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "total",
		Short: "Show the sum of all expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state := dashboard.NewTotalLoader(app.api, app.logger).Load(cmd.Context())
			if err := stateError(state); err != nil {
				return err
			}
			RenderTotal(cmd.OutOrStdout(), state.Data)
			return nil
		},
	}
}

func (app *CtlApp) categoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List expense categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader := dashboard.NewCategoryLoader(app.api, time.Minute, app.logger)
			state := loader.Load(cmd.Context())
			if err := stateError(state); err != nil {
				return err
			}
			return RenderCategories(cmd.OutOrStdout(), state.Data)
		},
	}
}

// spin shows a spinner until the returned func is called.
func (app *CtlApp) spin(message string) func() {
	if app.plain {
		return func() {}
	}
	spinner, err := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(message)
	if err != nil {
		return func() {}
	}
	return func() { _ = spinner.Stop() }
}

// ListQuery builds the dashboard query for the list command, the same query
// the browser carries in its address bar.
func ListQuery(categories []string, minPrice, maxPrice string, page int) (url.Values, error) {
	q := filter.WithCategories(url.Values{}, categories)

	var err error
	if q, err = filter.WithRange(q, filter.KeyMinPrice, strings.TrimSpace(minPrice)); err != nil {
		return nil, err
	}
	if q, err = filter.WithRange(q, filter.KeyMaxPrice, strings.TrimSpace(maxPrice)); err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, fmt.Errorf("page must be at least 1, got %d", page)
	}
	return filter.WithPage(q, page), nil
}

func stateError[T any](s dashboard.State[T]) error {
	if !s.IsFailed() {
		return nil
	}
	if s.Err == nil {
		return errors.New(s.Message())
	}
	return fmt.Errorf("%s: %w", strings.TrimSuffix(s.Message(), "."), s.Err)
}

// ExitOnError prints err the way the rest of the output looks and exits.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, pterm.Error.Sprint(err.Error()))
	os.Exit(1)
}
