package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown source or enum value.
	ErrUnsupportedType = errors.New("unsupported type")

	// Pipeline errors.

	// ErrSourceUnavailable indicates the upstream source could not be
	// reached after the configured retry attempts. Fatal for the run.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedRecord indicates a single record could not be parsed.
	// Non-fatal: the record is skipped and counted, the stream continues.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidRecord indicates a record is missing mandatory identity
	// fields (citation, jurisdiction). Non-fatal: skipped and counted.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrWriterFailure indicates a per-document commit failed. The
	// document's partial writes are rolled back and its ledger entry is
	// marked failed; the pipeline continues with the next document.
	ErrWriterFailure = errors.New("writer failure")

	// ErrLedgerCorruption indicates the ledger cannot safely determine
	// resumption state. Fatal: the run stops rather than risk silent
	// reprocessing or silent skipping.
	ErrLedgerCorruption = errors.New("ledger corruption")

	// ErrInvalidPolicy indicates an unusable chunking policy
	// (e.g., overlap not smaller than the chunk size).
	ErrInvalidPolicy = errors.New("invalid chunk policy")
)
