package cli

import (
	"fmt"

	usecase "github.com/alexanderramin/margindefense/internal/app"
	"github.com/alexanderramin/margindefense/internal/cli/formatter"
	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/spf13/cobra"
)

func newScopeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scope",
		Short: "Track and resolve out-of-scope client requests",
	}
	cmd.AddCommand(
		newScopeAddCmd(app),
		newScopeListCmd(app),
		newScopeResolveCmd(app),
	)
	return cmd
}

func newScopeAddCmd(app *App) *cobra.Command {
	var title, desc, client, project string
	var hours float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a scope request, priced at the organization rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			clientID, err := resolveOptional(ctx, app, client, resolveClientID)
			if err != nil {
				return err
			}
			projectID, err := resolveOptional(ctx, app, project, resolveProjectID)
			if err != nil {
				return err
			}

			r, err := app.Scope.Create(ctx, usecase.CreateScopeRequest{
				Title:          title,
				Description:    desc,
				EstimatedHours: optionalFloat(cmd.Flags(), "hours", hours),
				ClientID:       clientID,
				ProjectID:      projectID,
				Source:         domain.SourceManual,
			})
			if err != nil {
				return err
			}
			symbol, err := app.currencySymbol(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatScopeRequest(r, symbol))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Short title")
	cmd.Flags().StringVar(&desc, "desc", "", "Details")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Estimated hours")
	cmd.Flags().StringVar(&client, "client", "", "Client name or ID")
	cmd.Flags().StringVar(&project, "project", "", "Project name or ID")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newScopeListCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List scope requests",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var filter *domain.ScopeStatus
			if status != "" {
				s := domain.ScopeStatus(status)
				filter = &s
			}
			reqs, err := app.Scope.List(ctx, filter)
			if err != nil {
				return err
			}
			symbol, err := app.currencySymbol(ctx)
			if err != nil {
				return err
			}
			names, err := app.clientNames(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatScopeList(reqs, names, symbol, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "pending, accepted_burn, converted_revenue or rejected")

	return cmd
}

func newScopeResolveCmd(app *App) *cobra.Command {
	var as, by string

	cmd := &cobra.Command{
		Use:   "resolve <request-id>",
		Short: "Resolve a pending request as accepted_burn, converted_revenue or rejected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveScopeRequestID(ctx, app, args[0])
			if err != nil {
				return err
			}
			resp, err := app.Scope.Resolve(ctx, usecase.ResolveScopeRequest{
				ScopeRequestID: id,
				Status:         domain.ScopeStatus(as),
				Actor:          by,
			})
			if err != nil {
				return err
			}
			symbol, err := app.currencySymbol(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatScopeResolution(resp, symbol))
			return nil
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "accepted_burn, converted_revenue or rejected")
	cmd.Flags().StringVar(&by, "by", defaultActor, "Who resolved it")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}
