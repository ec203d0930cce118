package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"taxonomy-console/application/commands"
	"taxonomy-console/application/queries"
	"taxonomy-console/application/services"
	"taxonomy-console/domain/core/entities"
)

func withTimeout(cmd *cobra.Command, opts *globalOptions) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, opts.timeout)
}

func newFrameworksCmd(appFn func() *app, opts *globalOptions) *cobra.Command {
	var statuses []string

	cmd := &cobra.Command{
		Use:   "frameworks",
		Short: "List frameworks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd, opts)
			defer cancel()

			result, err := appFn().queries.Ask(ctx, queries.ListFrameworksQuery{Statuses: statuses})
			if err != nil {
				return err
			}
			rows, _ := result.([]services.FrameworkSummary)
			return render(cmd.OutOrStdout(), appFn().format, rows, func(t *table) {
				t.header("IDENTIFIER", "NAME", "CODE", "STATUS", "UPDATED")
				for _, f := range rows {
					t.row(f.Identifier, f.Name, f.Code, f.StatusLabel, f.LastUpdatedOn)
				}
			})
		},
	}
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Statuses to include (default Draft,Live)")

	cmd.AddCommand(&cobra.Command{
		Use:   "get <identifier>",
		Short: "Show one framework with its categories and terms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd, opts)
			defer cancel()

			result, err := appFn().queries.Ask(ctx, queries.GetFrameworkQuery{Identifier: args[0]})
			if err != nil {
				return err
			}
			framework, _ := result.(*entities.FrameworkRecord)
			if framework == nil {
				return fmt.Errorf("framework %s returned no data", args[0])
			}
			return render(cmd.OutOrStdout(), appFn().format, framework, func(t *table) {
				t.header("CATEGORY", "CODE", "TERMS")
				for _, c := range framework.Categories {
					t.row(c.Name, c.Code, fmt.Sprint(len(c.Terms)))
				}
			})
		},
	})
	return cmd
}

func newChannelsCmd(appFn func() *app, opts *globalOptions) *cobra.Command {
	var (
		search   string
		statuses []string
	)

	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd, opts)
			defer cancel()

			query := queries.ListChannelsQuery{Search: search, Statuses: statuses}.Normalized()
			result, err := appFn().queries.Ask(ctx, query)
			if err != nil {
				return err
			}
			rows, _ := result.([]entities.ChannelRecord)
			return render(cmd.OutOrStdout(), appFn().format, rows, func(t *table) {
				t.header("IDENTIFIER", "NAME", "CODE", "STATUS")
				for _, c := range rows {
					t.row(c.Identifier, c.Name, c.Code, c.Status)
				}
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Match name or code, ignoring case")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Statuses to include (default all)")

	var name, code string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd, opts)
			defer cancel()

			result, err := appFn().commands.Send(ctx, commands.CreateChannelCommand{Name: name, Code: code})
			if err != nil {
				return err
			}
			created, _ := result.(*commands.CreateChannelResult)
			if created == nil {
				return fmt.Errorf("channel create returned no identifier")
			}
			return render(cmd.OutOrStdout(), appFn().format, created, func(t *table) {
				t.header("IDENTIFIER")
				t.row(created.Identifier)
			})
		},
	}
	create.Flags().StringVar(&name, "name", "", "Channel name")
	create.Flags().StringVar(&code, "code", "", "Channel code")
	cmd.AddCommand(create)
	return cmd
}

func newDashboardCmd(appFn func() *app, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show framework counts and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd, opts)
			defer cancel()

			result, err := appFn().queries.Ask(ctx, queries.DashboardQuery{})
			if err != nil {
				return err
			}
			d, _ := result.(*services.Dashboard)
			if d == nil {
				return fmt.Errorf("dashboard returned no data")
			}
			return render(cmd.OutOrStdout(), appFn().format, d, func(t *table) {
				t.row("Total frameworks", fmt.Sprint(d.TotalFrameworks))
				t.row("Published", fmt.Sprint(d.LiveFrameworks))
				t.row("Draft", fmt.Sprint(d.DraftFrameworks))
				t.row("")
				t.header("RECENT", "CODE", "STATUS", "UPDATED")
				for _, f := range d.Recent {
					t.row(f.Name, f.Code, f.StatusLabel, f.LastUpdatedOn)
				}
			})
		},
	}
}
