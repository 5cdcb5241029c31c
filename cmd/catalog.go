package cmd

import (
	"fmt"

	"github.com/RyanBlaney/dance-advisor/internal/app"
	"github.com/spf13/cobra"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the genre list and style catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the genres and catalog entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		advisor, err := newAdvisor(newAppContext())
		if err != nil {
			return err
		}
		defer advisor.Close()

		return advisor.ShowCatalog()
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the catalog to a YAML or JSON file",
	Long: `Write the genre list and every catalog entry to a file. A .json
extension writes JSON, anything else writes YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.ExportCatalog(args[0], nil); err != nil {
			return err
		}
		fmt.Printf("✅ Catalog written to: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogExportCmd)
}
