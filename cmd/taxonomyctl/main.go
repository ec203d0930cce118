// Command taxonomyctl reads frameworks, channels and the dashboard from the
// taxonomy service, and creates channels, using the same configuration as
// the API server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"taxonomy-console/application/commands/bus"
	querybus "taxonomy-console/application/queries/bus"
	"taxonomy-console/infrastructure/config"
	"taxonomy-console/infrastructure/di"
)

const (
	appName        = "taxonomyctl"
	Version        = "0.1.0"
	defaultTimeout = 30 * time.Second
)

// app is what every subcommand runs against
type app struct {
	commands *bus.CommandBus
	queries  *querybus.QueryBus
	format   string
	close    func() error
}

// appFactory builds the app once flags are parsed
type appFactory func(ctx context.Context, opts *globalOptions) (*app, error)

type globalOptions struct {
	configDir   string
	environment string
	output      string
	timeout     time.Duration
}

func main() {
	if err := newRootCmd(containerApp).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// containerApp wires the full container from the configuration directory
func containerApp(ctx context.Context, opts *globalOptions) (*app, error) {
	env := config.EnvironmentFromEnv()
	if opts.environment != "" {
		env = config.Environment(opts.environment)
	}
	dir := opts.configDir
	if dir == "" {
		dir = os.Getenv("CONFIG_DIR")
	}

	cfg, err := config.NewLoader(dir, env).Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	// Keep the CLI quiet unless asked otherwise
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "error"
	}
	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return &app{
		commands: container.CommandBus,
		queries:  container.QueryBus,
		format:   opts.output,
		close: func() error {
			return container.Shutdown(context.Background())
		},
	}, nil
}

func newRootCmd(factory appFactory) *cobra.Command {
	opts := &globalOptions{}
	var current *app

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Inspect and manage taxonomy frameworks and channels",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			if opts.output != "table" && opts.output != "json" {
				return fmt.Errorf("unknown output format %q, want table or json", opts.output)
			}
			a, err := factory(cmd.Context(), opts)
			if err != nil {
				return err
			}
			current = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if current != nil && current.close != nil {
				return current.close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", "Configuration directory (default $CONFIG_DIR or ./config)")
	cmd.PersistentFlags().StringVar(&opts.environment, "env", "", "Environment: development, staging or production (default $ENVIRONMENT)")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "Output format: table or json")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "Timeout for each call to the taxonomy service")

	appFn := func() *app { return current }
	cmd.AddCommand(
		newFrameworksCmd(appFn, opts),
		newChannelsCmd(appFn, opts),
		newDashboardCmd(appFn, opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}
