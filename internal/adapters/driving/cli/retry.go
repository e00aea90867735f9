package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
)

var retryCmd = &cobra.Command{
	Use:   "retry [document-id]",
	Short: "Queue failed documents for reprocessing",
	Long: `Moves failed ledger entries back to pending so the next ingest run
reprocesses them. Pass a document ID to retry one document; with no
argument every failed document is retried.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRetry,
}

func init() {
	rootCmd.AddCommand(retryCmd)
}

func runRetry(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if ledgerStore == nil {
		return errors.New("ledger not configured")
	}

	ctx := cmd.Context()

	if len(args) > 0 {
		documentID := args[0]
		if err := ledgerStore.MarkRetry(ctx, documentID); err != nil {
			return fmt.Errorf("retry %s: %w", documentID, err)
		}
		cmd.Printf("Document %s queued for reprocessing.\n", documentID)
		return nil
	}

	entries, err := ledgerStore.List(ctx)
	if err != nil {
		return err
	}

	retried := 0
	for _, e := range entries {
		if e.Status != domain.StatusFailed {
			continue
		}
		if err := ledgerStore.MarkRetry(ctx, e.DocumentID); err != nil {
			return fmt.Errorf("retry %s: %w", e.DocumentID, err)
		}
		retried++
	}
	cmd.Printf("%d documents queued for reprocessing.\n", retried)
	return nil
}
