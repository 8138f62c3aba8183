package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/logger"
)

var (
	ingestReset bool
	ingestWatch bool
	ingestJSON  bool
)

// watchDebounce is how long a file must be quiet before it is re-ingested.
const watchDebounce = time.Second

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Index a manual or a directory of manuals",
	Long: `Extracts pages from PDF and text documents, splits them into overlapping
word chunks, and writes the chunks to both the vector and keyword indexes.

With no path, the configured manuals directory (ingest.manuals_dir) is used.
A directory run rewrites manuals.json in that directory; a single file is
merged into the existing catalog.

Use --reset to discard both indexes first, and --watch to keep running and
re-ingest documents as they change.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestReset, "reset", false, "discard both indexes before writing")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "re-ingest documents when they change")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := requireServices(cmd); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path := manualsDir()
	if len(args) == 1 {
		path = args[0]
	}

	report, err := ingestService.Ingest(cmd.Context(), path, domain.IngestOptions{Reset: ingestReset})
	if report != nil {
		if outErr := outputReport(cmd, report); outErr != nil {
			return outErr
		}
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if !ingestWatch {
		return nil
	}

	cmd.Printf("Watching %s for changes (ctrl+c to stop)\n", path)
	w := &watcher{
		path:     path,
		debounce: watchDebounce,
		onChange: func(file string) {
			r, err := ingestService.IngestFile(cmd.Context(), file, domain.IngestOptions{})
			if errors.Is(err, domain.ErrUnsupportedType) {
				return
			}
			if r != nil {
				_ = outputReport(cmd, r)
			}
			if err != nil {
				logger.Error("re-ingest %s: %v", file, err)
			}
		},
	}
	return w.run(cmd.Context())
}

func outputReport(cmd *cobra.Command, report *domain.IngestReport) error {
	if ingestJSON {
		return outputJSON(cmd, report)
	}

	for _, m := range report.Manuals {
		cmd.Printf("%s (%s): %d pages, %d chunks -> dense %d, sparse %d\n",
			m.Manual.ID, m.File, m.Pages, m.Chunks, m.DenseWritten, m.SparseWritten)
	}
	for _, s := range report.Skipped {
		cmd.Printf("skipped %s\n", s)
	}

	t := report.Totals
	cmd.Printf("chunks_written_dense: %d\n", t.DenseWritten)
	cmd.Printf("chunks_written_sparse: %d\n", t.SparseWritten)
	if t.DenseError != "" {
		cmd.Printf("dense_error: %s\n", t.DenseError)
	}
	if t.SparseError != "" {
		cmd.Printf("sparse_error: %s\n", t.SparseError)
	}
	return nil
}
