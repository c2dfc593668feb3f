package cli

import (
	"fmt"

	"github.com/alexanderramin/margindefense/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import clients, projects, work logs and scope requests from a YAML ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImportResult(res))
			return nil
		},
	}
}

func newSeedCmd(app *App) *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample data into an empty ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !demo {
				return fmt.Errorf("nothing to seed: pass --demo")
			}
			res, err := app.Import.SeedDemo(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImportResult(res))
			return nil
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "Load the demo agency")
	return cmd
}
