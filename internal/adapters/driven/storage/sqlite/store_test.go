package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testDocument(id string) *domain.Document {
	body := "The appeal is allowed.\n\nCosts to the appellant."
	return &domain.Document{
		ID:           id,
		Jurisdiction: domain.JurisdictionFederalCourt,
		Title:        "Doe v. Canada",
		Date:         "2020-01-15",
		Language:     domain.LanguageEnglish,
		Body:         body,
		SourceURL:    "https://example.org/1",
		ContentHash:  "hash-" + id,
	}
}

func testChunks(doc *domain.Document) []domain.Chunk {
	return []domain.Chunk{
		{
			ID:            domain.ChunkID(doc.ID, 0),
			DocumentID:    doc.ID,
			Ordinal:       0,
			Text:          "The appeal is allowed.",
			Span:          domain.Span{Start: 0, End: 22},
			TokenEstimate: 5,
		},
		{
			ID:            domain.ChunkID(doc.ID, 1),
			DocumentID:    doc.ID,
			Ordinal:       1,
			Text:          "Costs to the appellant.",
			Span:          domain.Span{Start: 24, End: 47},
			TokenEstimate: 5,
		},
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	store := setupTestStore(t)

	// The ledger table must exist and be queryable.
	summary, err := store.Ledger().Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total())
}

func TestNewStore_Reopens(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Re-running migrations on an existing database is a no-op.
	store, err = NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestDocumentStore_CommitAndRead(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	doc := testDocument("doc-1")
	chunks := testChunks(doc)

	require.NoError(t, store.DocumentStore().Commit(ctx, doc, chunks))

	got, err := store.DocumentStore().GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	gotChunks, err := store.DocumentStore().GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, chunks, gotChunks)

	// Commit marks the ledger entry done in the same transaction.
	entry, err := store.Ledger().Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, entry.Status)
	assert.Equal(t, doc.ContentHash, entry.ContentHash)
}

func TestDocumentStore_CommitReplacesChunkSet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	doc := testDocument("doc-1")
	require.NoError(t, store.DocumentStore().Commit(ctx, doc, testChunks(doc)))

	// Recommit with a single chunk; the old set must be gone.
	newChunks := testChunks(doc)[:1]
	require.NoError(t, store.DocumentStore().Commit(ctx, doc, newChunks))

	gotChunks, err := store.DocumentStore().GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, newChunks, gotChunks)
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.DocumentStore().GetDocument(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_ShouldProcess(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	ledger := store.Ledger()

	// No entry: process.
	ok, err := ledger.ShouldProcess(ctx, "doc-1", "hash-a")
	require.NoError(t, err)
	assert.True(t, ok)

	// Done with same hash: skip.
	require.NoError(t, ledger.Record(ctx, domain.LedgerEntry{
		DocumentID: "doc-1", ContentHash: "hash-a", Status: domain.StatusDone,
	}))
	ok, err = ledger.ShouldProcess(ctx, "doc-1", "hash-a")
	require.NoError(t, err)
	assert.False(t, ok)

	// Done with different hash: content changed, reprocess.
	ok, err = ledger.ShouldProcess(ctx, "doc-1", "hash-b")
	require.NoError(t, err)
	assert.True(t, ok)

	// Failed entry: reprocess even with matching hash.
	require.NoError(t, ledger.Record(ctx, domain.LedgerEntry{
		DocumentID: "doc-2", ContentHash: "hash-a", Status: domain.StatusFailed, LastError: "boom",
	}))
	ok, err = ledger.ShouldProcess(ctx, "doc-2", "hash-a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLedger_Record_AttemptCount(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	ledger := store.Ledger()

	entry := domain.LedgerEntry{DocumentID: "doc-1", ContentHash: "h", Status: domain.StatusFailed, LastError: "first"}
	require.NoError(t, ledger.Record(ctx, entry))

	got, err := ledger.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.AttemptCount)
	assert.Equal(t, "first", got.LastError)

	entry.LastError = "second"
	require.NoError(t, ledger.Record(ctx, entry))

	got, err = ledger.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.AttemptCount)
	assert.Equal(t, "second", got.LastError)

	// A later success keeps the attempt history.
	entry.Status = domain.StatusDone
	entry.LastError = ""
	require.NoError(t, ledger.Record(ctx, entry))

	got, err = ledger.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, got.Status)
	assert.Equal(t, 2, got.AttemptCount)
}

func TestLedger_MarkRetry(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	ledger := store.Ledger()

	require.ErrorIs(t, ledger.MarkRetry(ctx, "missing"), domain.ErrNotFound)

	require.NoError(t, ledger.Record(ctx, domain.LedgerEntry{
		DocumentID: "doc-1", ContentHash: "h", Status: domain.StatusFailed, LastError: "boom",
	}))
	require.NoError(t, ledger.MarkRetry(ctx, "doc-1"))

	got, err := ledger.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Empty(t, got.LastError)

	// Retrying a non-failed entry is a no-op.
	require.NoError(t, ledger.MarkRetry(ctx, "doc-1"))
}

func TestLedger_SummaryAndList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	ledger := store.Ledger()

	require.NoError(t, ledger.Record(ctx, domain.LedgerEntry{DocumentID: "a", ContentHash: "h", Status: domain.StatusDone}))
	require.NoError(t, ledger.Record(ctx, domain.LedgerEntry{DocumentID: "b", ContentHash: "h", Status: domain.StatusDone}))
	require.NoError(t, ledger.Record(ctx, domain.LedgerEntry{DocumentID: "c", ContentHash: "h", Status: domain.StatusFailed, LastError: "x"}))
	require.NoError(t, ledger.Record(ctx, domain.LedgerEntry{DocumentID: "d", ContentHash: "h", Status: domain.StatusPending}))

	summary, err := ledger.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.LedgerSummary{Pending: 1, Done: 2, Failed: 1}, summary)

	entries, err := ledger.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "a", entries[0].DocumentID)
}

func TestLedger_CorruptStatusDetected(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// Write a row with a status the application never produces.
	_, err := store.db.ExecContext(ctx, `
		INSERT INTO ledger (document_id, content_hash, status, attempt_count, last_error, updated_at)
		VALUES ('doc-x', 'h', 'limbo', 0, '', CURRENT_TIMESTAMP)
	`)
	require.NoError(t, err)

	_, err = store.Ledger().ShouldProcess(ctx, "doc-x", "h")
	require.ErrorIs(t, err, domain.ErrLedgerCorruption)

	_, err = store.Ledger().Summary(ctx)
	require.ErrorIs(t, err, domain.ErrLedgerCorruption)
}

func TestCursorStore(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	cursors := store.CursorStore()

	_, err := cursors.Get(ctx, "fc")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, cursors.Save(ctx, domain.CursorState{SourceID: "fc", Cursor: "100"}))

	got, err := cursors.Get(ctx, "fc")
	require.NoError(t, err)
	assert.Equal(t, "100", got.Cursor)
	assert.False(t, got.UpdatedAt.IsZero())

	// Last write wins.
	require.NoError(t, cursors.Save(ctx, domain.CursorState{SourceID: "fc", Cursor: "200"}))
	got, err = cursors.Get(ctx, "fc")
	require.NoError(t, err)
	assert.Equal(t, "200", got.Cursor)

	require.NoError(t, cursors.Delete(ctx, "fc"))
	_, err = cursors.Get(ctx, "fc")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
