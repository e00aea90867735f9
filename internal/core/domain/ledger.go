package domain

import (
	"fmt"
	"time"
)

// IngestStatus is the ledger state of one document.
type IngestStatus string

const (
	// StatusPending means processing has started but not committed.
	StatusPending IngestStatus = "pending"

	// StatusDone means the document and all its chunks are durably
	// committed.
	StatusDone IngestStatus = "done"

	// StatusFailed means the last attempt ended in an unrecoverable
	// per-document error.
	StatusFailed IngestStatus = "failed"
)

// ParseIngestStatus validates a status string read back from storage.
// An unknown value means the ledger cannot be trusted, so this returns
// an ErrLedgerCorruption-wrapped error rather than ErrUnsupportedType.
func ParseIngestStatus(s string) (IngestStatus, error) {
	switch IngestStatus(s) {
	case StatusPending, StatusDone, StatusFailed:
		return IngestStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrLedgerCorruption, s)
	}
}

// LedgerEntry records the ingestion outcome for one document. The
// ledger is the sole source of truth for "has this exact content
// already been fully ingested".
type LedgerEntry struct {
	// DocumentID is the document this entry tracks.
	DocumentID string

	// ContentHash is the body hash that was (or is being) processed.
	ContentHash string

	// Status is the current state.
	Status IngestStatus

	// AttemptCount is how many times processing has been attempted.
	AttemptCount int

	// LastError holds the most recent failure message, if any.
	LastError string

	// UpdatedAt is when the entry was last written.
	UpdatedAt time.Time
}

// LedgerSummary reports entry counts by status, for status output.
type LedgerSummary struct {
	Pending int
	Done    int
	Failed  int
}

// Total returns the number of ledger entries.
func (s LedgerSummary) Total() int {
	return s.Pending + s.Done + s.Failed
}
