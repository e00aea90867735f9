package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
)

var statusFailedOnly bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ingestion ledger state",
	Long: `Shows how many documents the ledger holds in each state, plus the
saved stream cursor for every configured source. With --failed, lists
each failed document with its last error.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusFailedOnly, "failed", false,
		"list failed documents with their last error")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if ledgerStore == nil {
		return errors.New("ledger not configured")
	}

	ctx := cmd.Context()

	if statusFailedOnly {
		entries, err := ledgerStore.List(ctx)
		if err != nil {
			return err
		}
		failed := 0
		for _, e := range entries {
			if e.Status != domain.StatusFailed {
				continue
			}
			failed++
			cmd.Printf("%s  attempts=%d  %s\n", e.DocumentID, e.AttemptCount, e.LastError)
		}
		if failed == 0 {
			cmd.Println("No failed documents.")
		}
		return nil
	}

	summary, err := ledgerStore.Summary(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Ledger: %d documents\n", summary.Total())
	cmd.Printf("  done:    %d\n", summary.Done)
	cmd.Printf("  pending: %d\n", summary.Pending)
	cmd.Printf("  failed:  %d\n", summary.Failed)

	for _, src := range sourceConfigs {
		state, err := cursorStore.Get(ctx, src.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				cmd.Printf("Source %s: no saved cursor\n", src.ID)
				continue
			}
			return err
		}
		cmd.Printf("Source %s: cursor %q (updated %s)\n",
			src.ID, state.Cursor, state.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
