package cli

import (
	"fmt"
	"strings"

	usecase "github.com/alexanderramin/margindefense/internal/app"
	"github.com/alexanderramin/margindefense/internal/classifier"
	"github.com/alexanderramin/margindefense/internal/cli/formatter"
	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/spf13/cobra"
)

// defaultActor stamps reclassifications and resolutions made from the CLI.
const defaultActor = "cli"

func newClassifyCmd(app *App) *cobra.Command {
	var minutes int
	var rate float64

	cmd := &cobra.Command{
		Use:   "classify <text>",
		Short: "Classify a work description without storing it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			cls := app.Classifier
			if cls == nil {
				cls = classifier.New(classifier.DefaultLexicon())
			}
			res := cls.Classify(text)

			symbol := "$"
			if minutes > 0 && !cmd.Flags().Changed("rate") {
				org, err := app.Orgs.Current(cmd.Context())
				if err != nil {
					return err
				}
				symbol, rate = org.CurrencySymbol, org.GlobalHourlyCost
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatClassification(text, res, minutes, rate, symbol))
			return nil
		},
	}

	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Duration, to preview the cost")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Hourly rate for the cost preview (default: organization rate)")

	return cmd
}

func newLogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record and review work logs",
	}
	cmd.AddCommand(
		newLogAddCmd(app),
		newLogListCmd(app),
		newLogReclassifyCmd(app),
	)
	return cmd
}

func newLogAddCmd(app *App) *cobra.Command {
	var desc, client, project string
	var minutes int
	var rate float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Classify, cost and store a unit of work",
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

			req := usecase.NewLogWorkRequest(desc, minutes)
			req.HourlyRate = optionalFloat(cmd.Flags(), "rate", rate)
			req.ClientID = clientID
			req.ProjectID = projectID

			w, err := app.WorkLogs.Log(ctx, req)
			if err != nil {
				return err
			}
			symbol, err := app.currencySymbol(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWorkLog(w, symbol))
			return nil
		},
	}

	cmd.Flags().StringVar(&desc, "desc", "", "What was done")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Duration in minutes")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Hourly rate (default: organization rate)")
	cmd.Flags().StringVar(&client, "client", "", "Client name or ID")
	cmd.Flags().StringVar(&project, "project", "", "Project name or ID")
	_ = cmd.MarkFlagRequired("desc")
	_ = cmd.MarkFlagRequired("minutes")

	return cmd
}

func newLogListCmd(app *App) *cobra.Command {
	var category, client, project, since, until string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List work logs, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var q usecase.WorkLogQuery
			var err error

			if category != "" {
				c := domain.WorkCategory(category)
				q.Category = &c
			}
			if q.ClientID, err = resolveOptional(ctx, app, client, resolveClientID); err != nil {
				return err
			}
			if q.ProjectID, err = resolveOptional(ctx, app, project, resolveProjectID); err != nil {
				return err
			}
			if q.Since, err = parseDate("since", since); err != nil {
				return err
			}
			if q.Until, err = parseDate("until", until); err != nil {
				return err
			}

			logs, err := app.WorkLogs.List(ctx, q)
			if err != nil {
				return err
			}
			symbol, err := app.currencySymbol(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWorkLogList(logs, symbol, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "billable, margin_burn, scope_risk or unclassified")
	cmd.Flags().StringVar(&client, "client", "", "Client name or ID")
	cmd.Flags().StringVar(&project, "project", "", "Project name or ID")
	cmd.Flags().StringVar(&since, "since", "", "From this date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&until, "until", "", "Before this date, exclusive (YYYY-MM-DD)")

	return cmd
}

func newLogReclassifyCmd(app *App) *cobra.Command {
	var category, reason, by string

	cmd := &cobra.Command{
		Use:   "reclassify <log-id>",
		Short: "Override the category and burn reason of a log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveWorkLogID(ctx, app, args[0])
			if err != nil {
				return err
			}

			req := usecase.ReclassifyRequest{
				WorkLogID: id,
				Category:  domain.WorkCategory(category),
				Actor:     by,
			}
			if reason != "" {
				r := domain.BurnReason(reason)
				req.BurnReason = &r
			}

			w, err := app.WorkLogs.Reclassify(ctx, req)
			if err != nil {
				return err
			}
			symbol, err := app.currencySymbol(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWorkLog(w, symbol))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "New category")
	cmd.Flags().StringVar(&reason, "reason", "", "Burn reason for margin_burn or scope_risk")
	cmd.Flags().StringVar(&by, "by", defaultActor, "Who made the change")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}
