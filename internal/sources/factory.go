package sources

import (
	"fmt"
	"sort"
	"sync"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
	"github.com/canlaw-labs/jurist-cli/internal/core/ports/driven"
)

// Known source type identifiers.
const (
	TypeHuggingFace = "huggingface"
	TypeJSONL       = "jsonl"
	TypeStatuteXML  = "statutexml"
)

// Ensure Factory implements the interface.
var _ driven.SourceFactory = (*Factory)(nil)

// Factory creates record sources from configuration via registered
// builders.
type Factory struct {
	mu       sync.RWMutex
	builders map[string]driven.SourceBuilder
}

// NewFactory creates an empty source factory. Builders are registered
// at bootstrap so this package never imports the concrete sources.
func NewFactory() *Factory {
	return &Factory{
		builders: make(map[string]driven.SourceBuilder),
	}
}

// Register adds a source builder for the given type.
func (f *Factory) Register(sourceType string, builder driven.SourceBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[sourceType] = builder
}

// Create returns a RecordSource for the given configuration.
func (f *Factory) Create(cfg domain.SourceConfig) (driven.RecordSource, error) {
	f.mu.RLock()
	builder, ok := f.builders[cfg.Type]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: source type %q", domain.ErrUnsupportedType, cfg.Type)
	}
	return builder(cfg)
}

// SupportedTypes returns all registered source types, sorted.
func (f *Factory) SupportedTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]string, 0, len(f.builders))
	for t := range f.builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
