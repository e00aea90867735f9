package driven

import (
	"context"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
)

// CursorStore persists the stream position for each source, replacing
// the ad hoc process-global cursors of the original download scripts.
type CursorStore interface {
	// Save stores or updates the cursor for a source.
	Save(ctx context.Context, state domain.CursorState) error

	// Get retrieves the cursor for a source.
	// Returns domain.ErrNotFound if none has been saved.
	Get(ctx context.Context, sourceID string) (*domain.CursorState, error)

	// Delete removes the cursor for a source.
	Delete(ctx context.Context, sourceID string) error
}
