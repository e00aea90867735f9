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

// ledgerStore implements driven.Ledger.
type ledgerStore struct {
	store *Store
}

var _ driven.Ledger = (*ledgerStore)(nil)

// ShouldProcess reports whether a document needs processing.
// Skips only when a done entry exists with the same content hash.
func (l *ledgerStore) ShouldProcess(ctx context.Context, documentID, contentHash string) (bool, error) {
	row := l.store.db.QueryRowContext(ctx, `
		SELECT content_hash, status FROM ledger WHERE document_id = ?
	`, documentID)

	var storedHash, rawStatus string
	if err := row.Scan(&storedHash, &rawStatus); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return true, nil
		}
		return false, fmt.Errorf("%w: reading entry %s: %v", domain.ErrLedgerCorruption, documentID, err)
	}

	status, err := domain.ParseIngestStatus(rawStatus)
	if err != nil {
		return false, err
	}

	return !(status == domain.StatusDone && storedHash == contentHash), nil
}

// Record upserts the entry for a document. The attempt count is
// maintained here: each failed record increments it, other transitions
// leave it alone.
func (l *ledgerStore) Record(ctx context.Context, entry domain.LedgerEntry) error {
	_, err := l.store.db.ExecContext(ctx, `
		INSERT INTO ledger (document_id, content_hash, status, attempt_count, last_error, updated_at)
		VALUES (?, ?, ?, CASE WHEN ? = 'failed' THEN 1 ELSE 0 END, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			content_hash = excluded.content_hash,
			status = excluded.status,
			attempt_count = CASE WHEN excluded.status = 'failed'
				THEN ledger.attempt_count + 1
				ELSE ledger.attempt_count END,
			last_error = excluded.last_error,
			updated_at = excluded.updated_at
	`, entry.DocumentID, entry.ContentHash, string(entry.Status),
		string(entry.Status), entry.LastError, time.Now().UTC())

	if err != nil {
		return fmt.Errorf("recording ledger entry: %w", err)
	}
	return nil
}

// MarkRetry moves a failed entry back to pending. Entries in other
// states are left untouched.
func (l *ledgerStore) MarkRetry(ctx context.Context, documentID string) error {
	res, err := l.store.db.ExecContext(ctx, `
		UPDATE ledger SET status = 'pending', last_error = '', updated_at = ?
		WHERE document_id = ? AND status = 'failed'
	`, time.Now().UTC(), documentID)
	if err != nil {
		return fmt.Errorf("marking retry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking retry: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing entry from one that isn't failed.
		if _, err := l.Get(ctx, documentID); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves the entry for a document.
func (l *ledgerStore) Get(ctx context.Context, documentID string) (*domain.LedgerEntry, error) {
	row := l.store.db.QueryRowContext(ctx, `
		SELECT document_id, content_hash, status, attempt_count, last_error, updated_at
		FROM ledger WHERE document_id = ?
	`, documentID)

	entry, err := scanLedgerEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

// List returns all entries ordered by document ID.
func (l *ledgerStore) List(ctx context.Context) ([]domain.LedgerEntry, error) {
	rows, err := l.store.db.QueryContext(ctx, `
		SELECT document_id, content_hash, status, attempt_count, last_error, updated_at
		FROM ledger ORDER BY document_id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing entries: %v", domain.ErrLedgerCorruption, err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanning entries: %v", domain.ErrLedgerCorruption, err)
	}
	return entries, nil
}

// Summary returns entry counts by status.
func (l *ledgerStore) Summary(ctx context.Context) (domain.LedgerSummary, error) {
	rows, err := l.store.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM ledger GROUP BY status
	`)
	if err != nil {
		return domain.LedgerSummary{}, fmt.Errorf("%w: summarising ledger: %v", domain.ErrLedgerCorruption, err)
	}
	defer rows.Close()

	var summary domain.LedgerSummary
	for rows.Next() {
		var rawStatus string
		var count int
		if err := rows.Scan(&rawStatus, &count); err != nil {
			return domain.LedgerSummary{}, fmt.Errorf("%w: scanning summary: %v", domain.ErrLedgerCorruption, err)
		}

		status, err := domain.ParseIngestStatus(rawStatus)
		if err != nil {
			return domain.LedgerSummary{}, err
		}
		switch status {
		case domain.StatusPending:
			summary.Pending = count
		case domain.StatusDone:
			summary.Done = count
		case domain.StatusFailed:
			summary.Failed = count
		}
	}
	if err := rows.Err(); err != nil {
		return domain.LedgerSummary{}, fmt.Errorf("%w: scanning summary: %v", domain.ErrLedgerCorruption, err)
	}
	return summary, nil
}

// scanLedgerEntry reads one ledger row, validating the stored status.
func scanLedgerEntry(scan func(dest ...any) error) (*domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	var rawStatus string
	var updatedAt sql.NullTime

	if err := scan(&entry.DocumentID, &entry.ContentHash, &rawStatus,
		&entry.AttemptCount, &entry.LastError, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: scanning ledger row: %v", domain.ErrLedgerCorruption, err)
	}

	status, err := domain.ParseIngestStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	entry.Status = status
	if updatedAt.Valid {
		entry.UpdatedAt = updatedAt.Time
	}
	return &entry, nil
}
