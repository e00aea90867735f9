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

// cursorStore implements driven.CursorStore.
type cursorStore struct {
	store *Store
}

var _ driven.CursorStore = (*cursorStore)(nil)

// Save stores or updates the cursor for a source.
func (c *cursorStore) Save(ctx context.Context, state domain.CursorState) error {
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO cursors (source_id, cursor, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(source_id) DO UPDATE SET
			cursor = excluded.cursor,
			updated_at = excluded.updated_at
	`, state.SourceID, state.Cursor, time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving cursor: %w", err)
	}
	return nil
}

// Get retrieves the cursor for a source.
func (c *cursorStore) Get(ctx context.Context, sourceID string) (*domain.CursorState, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT source_id, cursor, updated_at FROM cursors WHERE source_id = ?
	`, sourceID)

	var state domain.CursorState
	var updatedAt sql.NullTime
	if err := row.Scan(&state.SourceID, &state.Cursor, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning cursor: %w", err)
	}
	if updatedAt.Valid {
		state.UpdatedAt = updatedAt.Time
	}
	return &state, nil
}

// Delete removes the cursor for a source.
func (c *cursorStore) Delete(ctx context.Context, sourceID string) error {
	if _, err := c.store.db.ExecContext(ctx, `
		DELETE FROM cursors WHERE source_id = ?
	`, sourceID); err != nil {
		return fmt.Errorf("deleting cursor: %w", err)
	}
	return nil
}
