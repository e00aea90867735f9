package driven

import (
	"context"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
)

// CommitWriter persists a document together with its chunks.
//
// Commit is atomic per document: either the document and all its
// chunks become durably visible and the ledger entry moves to done, or
// none of that happens. Atomicity is NOT guaranteed across documents;
// each document's outcome is independent, which is what makes the
// pipeline resumable. Committing a document that already exists
// replaces it and its whole chunk set.
type CommitWriter interface {
	// Commit durably persists the document and its chunk set, then
	// marks the document done in the ledger. The ledger update happens
	// only after (or atomically with) the data becoming visible.
	// Failures are reported wrapped in domain.ErrWriterFailure.
	Commit(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error
}

// DocumentReader reads back committed documents and chunks. Downstream
// consumers must only read chunks whose owning document has a done
// ledger entry.
type DocumentReader interface {
	// GetDocument retrieves a committed document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves the committed chunks for a document, in
	// ordinal order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)
}
