package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the available filters and their default parameters",
	RunE:  runCatalog,
}

var catalogJSON bool

func init() {
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "output the catalog as JSON")

	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	definitions := newService().Catalog()

	if catalogJSON {
		data, err := json.MarshalIndent(definitions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal catalog: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	for _, def := range definitions {
		fmt.Printf("%-8s %s\n", def.Key, def.Name)
		fmt.Printf("         %s\n", def.Description)
	}
	return nil
}
