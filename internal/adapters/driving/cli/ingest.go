package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canlaw-labs/jurist-cli/internal/core/ports/driving"
)

var (
	ingestCursor string
	ingestReset  bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [source-id]",
	Short: "Ingest documents from configured sources",
	Long: `Runs the ingestion pipeline for configured sources.
If a source ID is provided, only that source is ingested.
Otherwise, all sources are ingested in configuration order.

Already-ingested documents with unchanged content are skipped; a run
interrupted mid-stream resumes from its saved cursor.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestCursor, "cursor", "",
		"start the stream at this cursor instead of the saved one")
	ingestCmd.Flags().BoolVar(&ingestReset, "reset-cursor", false,
		"ignore the saved cursor and start from the beginning")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if ingestor == nil {
		return errors.New("ingest service not configured")
	}

	opts := driving.IngestOptions{
		Cursor:      ingestCursor,
		ResetCursor: ingestReset,
	}

	var summaries []*driving.RunSummary

	if len(args) > 0 {
		sourceID := args[0]
		cmd.Printf("Ingesting source: %s...\n", sourceID)

		summary, err := ingestor.Ingest(cmd.Context(), sourceID, opts)
		if summary != nil {
			summaries = append(summaries, summary)
			printSummary(cmd, summary)
		}
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
	} else {
		cmd.Println("Ingesting all sources...")

		var err error
		summaries, err = ingestor.IngestAll(cmd.Context(), opts)
		for _, summary := range summaries {
			printSummary(cmd, summary)
		}
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
	}

	for _, summary := range summaries {
		if !summary.Succeeded() {
			return fmt.Errorf("ingest completed with %d failed documents", totalFailed(summaries))
		}
	}
	return nil
}

func printSummary(cmd *cobra.Command, s *driving.RunSummary) {
	cmd.Printf("Source %s (run %s):\n", s.SourceID, s.RunID)
	cmd.Printf("  fetched:           %d\n", s.Fetched)
	cmd.Printf("  committed:         %d\n", s.Committed)
	cmd.Printf("  skipped-unchanged: %d\n", s.SkippedUnchanged)
	cmd.Printf("  skipped-invalid:   %d\n", s.SkippedInvalid)
	cmd.Printf("  malformed:         %d\n", s.Malformed)
	cmd.Printf("  failed:            %d\n", s.Failed)
}

func totalFailed(summaries []*driving.RunSummary) int {
	total := 0
	for _, s := range summaries {
		total += s.Failed
	}
	return total
}
