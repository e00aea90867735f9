package driven

import (
	"context"
	"errors"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
)

// RecordSource streams raw records from an upstream corpus.
// Each source type (huggingface, jsonl) implements this interface.
type RecordSource interface {
	// Type returns the source type identifier.
	Type() string

	// SourceID returns the configured source ID.
	SourceID() string

	// Stream fetches records starting at the given cursor. An empty
	// cursor means "from the beginning". Records arrive on the first
	// channel; per-record parse failures arrive on the second as
	// domain.ErrMalformedRecord-wrapped errors and never terminate the
	// stream. On successful exhaustion the source sends StreamComplete
	// on the error channel carrying the next cursor, then closes both
	// channels. A fatal error (domain.ErrSourceUnavailable after
	// retries are exhausted) is sent on the error channel before
	// closing.
	//
	// The record channel is unbuffered: a slow consumer suspends the
	// reader rather than buffering unboundedly.
	Stream(ctx context.Context, cursor string) (<-chan domain.RawRecord, <-chan error)

	// Close releases resources.
	Close() error
}

// StreamComplete is sent on the error channel when a stream finishes
// successfully. It carries the cursor a future run should resume from.
type StreamComplete struct {
	NewCursor string
}

// Error implements the error interface so StreamComplete can travel on
// the error channel.
func (StreamComplete) Error() string {
	return "stream complete"
}

// IsStreamComplete checks whether an error is actually a successful
// completion. Returns the StreamComplete and true if it is.
func IsStreamComplete(err error) (*StreamComplete, bool) {
	var sc *StreamComplete
	if errors.As(err, &sc) {
		return sc, true
	}
	return nil, false
}

// SourceBuilder creates a RecordSource from a source configuration.
type SourceBuilder func(cfg domain.SourceConfig) (RecordSource, error)

// SourceFactory creates record sources from configuration.
// It maintains a registry of source types and their builders.
type SourceFactory interface {
	// Create returns a RecordSource for the given configuration.
	// Returns domain.ErrUnsupportedType if the type is unknown.
	Create(cfg domain.SourceConfig) (RecordSource, error)

	// Register adds a source builder for the given type.
	Register(sourceType string, builder SourceBuilder)

	// SupportedTypes returns all registered source types.
	SupportedTypes() []string
}
