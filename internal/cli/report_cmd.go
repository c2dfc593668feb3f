package cli

import (
	"fmt"

	usecase "github.com/alexanderramin/margindefense/internal/app"
	"github.com/alexanderramin/margindefense/internal/cli/formatter"
	"github.com/spf13/cobra"
)

// analyticsRequest builds a request for the window, pinned to the app clock.
func (a *App) analyticsRequest(days int) usecase.AnalyticsRequest {
	req := usecase.NewAnalyticsRequest(days)
	now := a.now()
	req.Now = &now
	req.ShameLimit = a.shameLimit()
	return req
}

func newMetricsCmd(app *App) *cobra.Command {
	var days int
	var client, project string

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Revenue secured versus margin burn for a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			req := app.analyticsRequest(days)
			if client != "" {
				id, err := resolveClientID(ctx, app, client)
				if err != nil {
					return err
				}
				req.ClientID = id
			}
			if project != "" {
				id, err := resolveProjectID(ctx, app, project)
				if err != nil {
					return err
				}
				req.ProjectID = id
			}

			m, err := app.Analytics.PeriodMetrics(ctx, req)
			if err != nil {
				return err
			}
			symbol, err := app.currencySymbol(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPeriodMetrics(m, symbol))
			return nil
		},
	}

	addDaysFlag(cmd.Flags(), &days, app.windowDays())
	cmd.Flags().StringVar(&client, "client", "", "Only work for this client")
	cmd.Flags().StringVar(&project, "project", "", "Only work for this project")

	return cmd
}

func newBurnCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "burn",
		Short: "Break margin burn down by reason or client",
	}
	cmd.AddCommand(newBurnReasonsCmd(app), newBurnClientsCmd(app))
	return cmd
}

func newBurnReasonsCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "reasons",
		Short: "Burn per sub-reason",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rows, err := app.Analytics.BurnByReason(ctx, app.analyticsRequest(days))
			if err != nil {
				return err
			}
			symbol, err := app.currencySymbol(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBurnByReason(rows, symbol))
			return nil
		},
	}

	addDaysFlag(cmd.Flags(), &days, app.windowDays())
	return cmd
}

func newBurnClientsCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Burn and billable per client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rows, err := app.Analytics.BurnByClient(ctx, app.analyticsRequest(days))
			if err != nil {
				return err
			}
			symbol, err := app.currencySymbol(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBurnByClient(rows, symbol))
			return nil
		},
	}

	addDaysFlag(cmd.Flags(), &days, app.windowDays())
	return cmd
}

func newShameCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "shame",
		Short: "The costliest margin-burn logs of all time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			req := app.analyticsRequest(app.windowDays())
			req.ShameLimit = limit
			logs, err := app.Analytics.HallOfShame(ctx, req)
			if err != nil {
				return err
			}
			symbol, err := app.currencySymbol(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHallOfShame(logs, symbol, app.Thresholds))
			return nil
		},
	}

	addLimitFlag(cmd.Flags(), &limit, app.shameLimit())
	return cmd
}

func newHealthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Risk score and health tier per client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			health, err := app.Analytics.ClientHealth(ctx)
			if err != nil {
				return err
			}
			symbol, err := app.currencySymbol(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatClientHealth(health, symbol))
			return nil
		},
	}
}

func newAlertsCmd(app *App) *cobra.Command {
	var days int
	var hide []string

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Budget, scope creep and efficiency alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			req := app.analyticsRequest(days)
			req.HiddenAlertIDs = hide
			alerts, err := app.Analytics.Alerts(ctx, req)
			if err != nil {
				return err
			}
			symbol, err := app.currencySymbol(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAlerts(alerts, symbol))
			return nil
		},
	}

	addDaysFlag(cmd.Flags(), &days, app.windowDays())
	cmd.Flags().StringSliceVar(&hide, "hide", nil, "Alert IDs to leave out")
	return cmd
}

func newDashboardCmd(app *App) *cobra.Command {
	var days int
	var hide []string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Command center with every report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.analyticsRequest(days)
			req.HiddenAlertIDs = hide
			resp, err := app.Analytics.Dashboard(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDashboard(resp, app.Thresholds))
			return nil
		},
	}

	addDaysFlag(cmd.Flags(), &days, app.windowDays())
	cmd.Flags().StringSliceVar(&hide, "hide", nil, "Alert IDs to leave out")
	return cmd
}

func newTrendCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Daily revenue, burn and billable ratio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			points, err := app.Analytics.Trend(ctx, app.analyticsRequest(days))
			if err != nil {
				return err
			}
			symbol, err := app.currencySymbol(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTrend(points, symbol))
			return nil
		},
	}

	addDaysFlag(cmd.Flags(), &days, app.windowDays())
	return cmd
}
