package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

// emptyCatalogMessage is printed when nothing has been ingested.
const emptyCatalogMessage = "No manuals found. Run ingestion first."

var manualsJSON bool

var manualsCmd = &cobra.Command{
	Use:   "manuals",
	Short: "List ingested manuals",
	Long:  `Lists the manuals recorded in the catalog by the last ingestion run.`,
	Args:  cobra.NoArgs,
	RunE:  runManuals,
}

func init() {
	manualsCmd.Flags().BoolVar(&manualsJSON, "json", false, "output the catalog as JSON")
	rootCmd.AddCommand(manualsCmd)
}

func runManuals(cmd *cobra.Command, _ []string) error {
	if err := requireServices(cmd); err != nil {
		return err
	}
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	manuals, err := catalogService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list manuals: %w", err)
	}

	if manualsJSON {
		if manuals == nil {
			manuals = []domain.Manual{}
		}
		return outputJSON(cmd, manuals)
	}

	if len(manuals) == 0 {
		cmd.Println(emptyCatalogMessage)
		return nil
	}

	for _, m := range manuals {
		cmd.Printf("%-32s %s\n", m.ID, m.Label)
	}
	return nil
}
