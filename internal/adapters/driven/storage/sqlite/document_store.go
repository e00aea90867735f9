package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
	"github.com/canlaw-labs/jurist-cli/internal/core/ports/driven"
)

// DocumentStore persists documents and chunks in the shared SQLite
// database.
type DocumentStore struct {
	store *Store
}

var (
	_ driven.CommitWriter   = (*DocumentStore)(nil)
	_ driven.DocumentReader = (*DocumentStore)(nil)
)

// Commit writes the document, replaces its chunk set and marks the
// ledger entry done, all in one transaction. If anything fails the
// transaction rolls back and nothing becomes visible.
func (d *DocumentStore) Commit(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	tx, err := d.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin commit: %v", domain.ErrWriterFailure, err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, jurisdiction, title, date, language, body, source_url, content_hash, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			jurisdiction = excluded.jurisdiction,
			title = excluded.title,
			date = excluded.date,
			language = excluded.language,
			body = excluded.body,
			source_url = excluded.source_url,
			content_hash = excluded.content_hash,
			updated_at = excluded.updated_at
	`, doc.ID, string(doc.Jurisdiction), doc.Title, doc.Date, string(doc.Language),
		doc.Body, doc.SourceURL, doc.ContentHash, now); err != nil {
		return fmt.Errorf("%w: saving document %s: %v", domain.ErrWriterFailure, doc.ID, err)
	}

	// Chunks are replaced as a set; a changed body must never leave
	// stale chunks from the previous version behind.
	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = ?`, doc.ID); err != nil {
		return fmt.Errorf("%w: clearing chunks for %s: %v", domain.ErrWriterFailure, doc.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, ordinal, text, span_start, span_end, token_estimate)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing chunk insert: %v", domain.ErrWriterFailure, err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.Ordinal,
			chunk.Text, chunk.Span.Start, chunk.Span.End, chunk.TokenEstimate); err != nil {
			return fmt.Errorf("%w: saving chunk %s: %v", domain.ErrWriterFailure, chunk.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ledger (document_id, content_hash, status, attempt_count, last_error, updated_at)
		VALUES (?, ?, 'done', 0, '', ?)
		ON CONFLICT(document_id) DO UPDATE SET
			content_hash = excluded.content_hash,
			status = 'done',
			last_error = '',
			updated_at = excluded.updated_at
	`, doc.ID, doc.ContentHash, now); err != nil {
		return fmt.Errorf("%w: updating ledger for %s: %v", domain.ErrWriterFailure, doc.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing %s: %v", domain.ErrWriterFailure, doc.ID, err)
	}
	return nil
}

// GetDocument retrieves a committed document by ID.
func (d *DocumentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := d.store.db.QueryRowContext(ctx, `
		SELECT id, jurisdiction, title, date, language, body, source_url, content_hash
		FROM documents WHERE id = ?
	`, id)

	var doc domain.Document
	var jurisdiction, language string
	if err := row.Scan(&doc.ID, &jurisdiction, &doc.Title, &doc.Date,
		&language, &doc.Body, &doc.SourceURL, &doc.ContentHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	doc.Jurisdiction = domain.Jurisdiction(jurisdiction)
	doc.Language = domain.Language(language)
	return &doc, nil
}

// GetChunks retrieves the committed chunks for a document in ordinal
// order.
func (d *DocumentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := d.store.db.QueryContext(ctx, `
		SELECT id, document_id, ordinal, text, span_start, span_end, token_estimate
		FROM chunks WHERE document_id = ? ORDER BY ordinal
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Ordinal,
			&chunk.Text, &chunk.Span.Start, &chunk.Span.End, &chunk.TokenEstimate); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}
