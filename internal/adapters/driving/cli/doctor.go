package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that backing services are reachable",
	Long: `Pings the embedding service, the language model service, the vector
index, and the keyword index, and reports each one. Exits non-zero when any
backend is unreachable.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	if err := requireServices(cmd); err != nil {
		return err
	}
	if healthService == nil {
		return errors.New("health service not configured")
	}

	results := healthService.Check(cmd.Context())

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}

	if doctorJSON {
		if err := outputJSON(cmd, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			status := "ok"
			if r.Error != "" {
				status = "FAIL: " + r.Error
			}
			cmd.Printf("%-10s %-12s %s\n", r.Component, r.Backend, status)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d backends unreachable", failed, len(results))
	}
	return nil
}
