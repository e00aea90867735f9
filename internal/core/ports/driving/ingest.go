package driving

import (
	"context"
)

// RunSummary reports what one ingestion run did. All counts are for
// this run only; the ledger holds the cumulative state.
type RunSummary struct {
	// RunID identifies this run in logs.
	RunID string

	// SourceID is the source the run ingested from.
	SourceID string

	// Fetched is how many raw records the source produced.
	Fetched int

	// Malformed is how many records could not be parsed by the source.
	Malformed int

	// SkippedInvalid is how many records the normaliser rejected for
	// missing identity fields.
	SkippedInvalid int

	// SkippedUnchanged is how many documents the ledger reported as
	// already done with identical content.
	SkippedUnchanged int

	// Chunked is how many documents were chunked.
	Chunked int

	// Committed is how many documents were durably committed.
	Committed int

	// Failed is how many documents hit an unrecoverable commit error.
	Failed int
}

// Succeeded reports whether the run completed without per-document
// failures. The CLI exits non-zero when this is false.
func (s RunSummary) Succeeded() bool {
	return s.Failed == 0
}

// IngestOptions adjusts a single run.
type IngestOptions struct {
	// Cursor overrides the persisted cursor when non-empty.
	Cursor string

	// ResetCursor ignores the persisted cursor and starts from the
	// beginning of the stream.
	ResetCursor bool
}

// Ingestor runs the ingestion pipeline.
type Ingestor interface {
	// Ingest runs the pipeline for one configured source and returns
	// the run summary. Per-record and per-document errors are isolated
	// and counted; only source exhaustion or ledger corruption abort
	// the run with an error.
	Ingest(ctx context.Context, sourceID string, opts IngestOptions) (*RunSummary, error)

	// IngestAll runs the pipeline for every configured source in turn.
	IngestAll(ctx context.Context, opts IngestOptions) ([]*RunSummary, error)
}
