package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/margindefense/internal/analytics"
	"github.com/alexanderramin/margindefense/internal/classifier"
	"github.com/alexanderramin/margindefense/internal/logger"
	"github.com/alexanderramin/margindefense/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Orgs      service.OrganizationService
	Clients   service.ClientService
	Projects  service.ProjectService
	WorkLogs  service.WorkLogService
	Scope     service.ScopeService
	Analytics service.AnalyticsService
	Import    service.ImportService

	// Classifier backs the classify dry run. Nil uses the default lexicon.
	Classifier *classifier.Classifier

	WindowDays int
	ShameLimit int
	Thresholds analytics.Thresholds

	// Now is the clock for relative timestamps. Nil means time.Now.
	Now func() time.Time

	// Logging tags every command's context with the command path and the
	// organization ID for use-case log records.
	Logging bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

func (a *App) windowDays() int {
	if a.WindowDays > 0 {
		return a.WindowDays
	}
	return 7
}

func (a *App) shameLimit() int {
	if a.ShameLimit > 0 {
		return a.ShameLimit
	}
	return analytics.DefaultHallOfShameLimit
}

// currencySymbol returns the organization's symbol for display.
func (a *App) currencySymbol(ctx context.Context) (string, error) {
	org, err := a.Orgs.Current(ctx)
	if err != nil {
		return "", err
	}
	return org.CurrencySymbol, nil
}

// clientNames maps client IDs to names for list views.
func (a *App) clientNames(ctx context.Context) (map[string]string, error) {
	clients, err := a.Clients.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	return names, nil
}

// NewRootCmd creates the top-level "margindefense" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "margindefense",
		Short:         "Classify agency work and track margin risk",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !app.Logging {
				return nil
			}
			ctx := logger.WithLogFields(cmd.Context(), logger.LogFields{Command: cmd.CommandPath()})
			org, err := app.Orgs.Current(ctx)
			if err != nil {
				return err
			}
			cmd.SetContext(logger.WithLogFields(ctx, logger.LogFields{OrganizationID: org.ID}))
			return nil
		},
	}

	// Parsed again by main before the services exist; registered here so
	// cobra accepts them anywhere on the command line.
	var global GlobalFlags
	global.register(root.PersistentFlags())

	root.AddCommand(
		newClassifyCmd(app),
		newOrgCmd(app),
		newClientCmd(app),
		newProjectCmd(app),
		newLogCmd(app),
		newScopeCmd(app),
		newMetricsCmd(app),
		newBurnCmd(app),
		newShameCmd(app),
		newHealthCmd(app),
		newAlertsCmd(app),
		newDashboardCmd(app),
		newTrendCmd(app),
		newImportCmd(app),
		newSeedCmd(app),
	)

	return root
}
