package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed DIR",
		Short: "Load customers, products, tanks and recipes from CSV files",
		Long: "Seed reads customers.csv, products.csv, tanks.csv and recipes.csv from DIR.\n" +
			"Products and tanks are required; existing records are skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.SeedDir(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "customers: %d, products: %d, tanks: %d, recipes: %d, skipped: %d\n",
				report.Customers, report.Products, report.Tanks, report.Recipes, report.Skipped)
			return nil
		},
	}
}
