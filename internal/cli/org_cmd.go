package cli

import (
	"fmt"

	"github.com/alexanderramin/margindefense/internal/cli/formatter"
	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/spf13/cobra"
)

func newOrgCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Show or change organization settings",
	}
	cmd.AddCommand(newOrgShowCmd(app), newOrgSetCmd(app))
	return cmd
}

func newOrgShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := app.Orgs.Current(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatOrganization(org))
			return nil
		},
	}
}

func newOrgSetCmd(app *App) *cobra.Command {
	var name, currency string
	var rate float64

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update name, currency symbol or global hourly cost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			settings := domain.OrganizationSettings{
				Name:             optionalString(fs, "name", name),
				CurrencySymbol:   optionalString(fs, "currency", currency),
				GlobalHourlyCost: optionalFloat(fs, "rate", rate),
			}
			if settings == (domain.OrganizationSettings{}) {
				return fmt.Errorf("nothing to update: pass --name, --currency or --rate")
			}
			org, err := app.Orgs.UpdateSettings(cmd.Context(), settings)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatOrganization(org))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Organization name")
	cmd.Flags().StringVar(&currency, "currency", "", "Currency symbol, e.g. $ or €")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Global hourly cost")

	return cmd
}

func newClientCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}
	cmd.AddCommand(
		newClientAddCmd(app),
		newClientListCmd(app),
		newClientResetBurnCmd(app),
	)
	return cmd
}

func newClientAddCmd(app *App) *cobra.Command {
	var name string
	var retainer float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Clients.Create(cmd.Context(), name, optionalFloat(cmd.Flags(), "retainer", retainer))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created client %s [%s]\n", c.Name, formatter.TruncID(c.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Client name")
	cmd.Flags().Float64Var(&retainer, "retainer", 0, "Monthly retainer value")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newClientListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List clients with accumulated burn",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			symbol, err := app.currencySymbol(ctx)
			if err != nil {
				return err
			}
			clients, err := app.Clients.List(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatClientList(clients, symbol))
			return nil
		},
	}
}

func newClientResetBurnCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-burn <client>",
		Short: "Reset a client's accumulated burn to zero",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveClientID(ctx, app, args[0])
			if err != nil {
				return err
			}
			c, err := app.Clients.ResetBurn(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset accumulated burn for %s\n", c.Name)
			return nil
		},
	}
}
