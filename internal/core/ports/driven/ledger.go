package driven

import (
	"context"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
)

// Ledger is the durable record of which documents have been ingested.
// It is the only shared mutable state in the pipeline; implementations
// must be safe under concurrent calls for different document IDs.
// Calls for the same document ID are serialised by the pipeline, which
// hands each document to exactly one worker.
type Ledger interface {
	// ShouldProcess reports whether a document with the given content
	// hash needs processing. It returns false only when an entry exists
	// with a matching hash and status done; a differing hash means the
	// content changed and must be reprocessed.
	ShouldProcess(ctx context.Context, documentID, contentHash string) (bool, error)

	// Record upserts the entry for a document. Last write wins per
	// document ID. AttemptCount in the stored entry is incremented on
	// each failed record.
	Record(ctx context.Context, entry domain.LedgerEntry) error

	// MarkRetry moves a failed entry back to pending so the next run
	// reprocesses it. Returns domain.ErrNotFound if no entry exists.
	MarkRetry(ctx context.Context, documentID string) error

	// Get retrieves the entry for a document.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, documentID string) (*domain.LedgerEntry, error)

	// List returns all entries, for status reporting.
	List(ctx context.Context) ([]domain.LedgerEntry, error)

	// Summary returns entry counts by status.
	Summary(ctx context.Context) (domain.LedgerSummary, error)
}
