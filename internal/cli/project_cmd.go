package cli

import (
	"fmt"

	"github.com/alexanderramin/margindefense/internal/cli/formatter"
	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/alexanderramin/margindefense/internal/service"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectUpdateCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var client, name, desc string
	var budget float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project for a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			clientID, err := resolveClientID(ctx, app, client)
			if err != nil {
				return err
			}
			p, err := app.Projects.Create(ctx, clientID, name, desc, budget)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, formatter.TruncID(p.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&client, "client", "", "Client name or ID")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&desc, "desc", "", "Project description")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Total budget")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var client string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			clientID := ""
			if client != "" {
				id, err := resolveClientID(ctx, app, client)
				if err != nil {
					return err
				}
				clientID = id
			}

			symbol, err := app.currencySymbol(ctx)
			if err != nil {
				return err
			}
			projects, err := app.Projects.List(ctx, clientID)
			if err != nil {
				return err
			}
			names, err := app.clientNames(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects, names, symbol))
			return nil
		},
	}

	cmd.Flags().StringVar(&client, "client", "", "Only projects of this client")

	return cmd
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, health, status string
	var budget, spend float64

	cmd := &cobra.Command{
		Use:   "update <project>",
		Short: "Update budget, spend, margin health or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			fs := cmd.Flags()
			upd := service.ProjectUpdate{
				Name:         optionalString(fs, "name", name),
				TotalBudget:  optionalFloat(fs, "budget", budget),
				CurrentSpend: optionalFloat(fs, "spend", spend),
			}
			if fs.Changed("health") {
				h := domain.MarginHealth(health)
				upd.MarginHealth = &h
			}
			if fs.Changed("status") {
				s := domain.ProjectStatus(status)
				upd.Status = &s
			}

			p, err := app.Projects.Update(ctx, id, upd)
			if err != nil {
				return err
			}
			symbol, err := app.currencySymbol(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProject(p, symbol))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New project name")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Total budget")
	cmd.Flags().Float64Var(&spend, "spend", 0, "Current spend")
	cmd.Flags().StringVar(&health, "health", "", "Margin health (healthy, warning, critical, underwater)")
	cmd.Flags().StringVar(&status, "status", "", "Status (active, completed, on_hold)")

	return cmd
}
