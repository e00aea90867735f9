// Package file loads the Jurist configuration from a TOML file.
// Configuration lives at ~/.jurist/config.toml unless overridden on
// the command line; a missing file means defaults.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/canlaw-labs/jurist-cli/internal/chunker"
	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFiles  = "files"
)

// Config is the full application configuration.
type Config struct {
	Source   SourceSettings   `toml:"source"`
	Chunk    ChunkSettings    `toml:"chunk"`
	Pipeline PipelineSettings `toml:"pipeline"`
	Ledger   LedgerSettings   `toml:"ledger"`
	Storage  StorageSettings  `toml:"storage"`
	Sources  []SourceEntry    `toml:"sources"`
}

// SourceSettings tunes the source reader.
type SourceSettings struct {
	// BatchSize is rows fetched per upstream page.
	BatchSize int `toml:"batch_size"`
}

// ChunkSettings tunes the chunker.
type ChunkSettings struct {
	MaxChars           int    `toml:"max_chars"`
	OverlapChars       int    `toml:"overlap_chars"`
	BoundaryPreference string `toml:"boundary_preference"`
}

// PipelineSettings tunes the worker pool.
type PipelineSettings struct {
	WorkerCount      int `toml:"worker_count"`
	RetryMaxAttempts int `toml:"retry_max_attempts"`
}

// LedgerSettings locates the ledger database.
type LedgerSettings struct {
	// Location is the data directory holding the SQLite database.
	// Empty means ~/.jurist/data.
	Location string `toml:"location"`
}

// StorageSettings selects the document store backend.
type StorageSettings struct {
	// Backend is "sqlite" (default) or "files".
	Backend string `toml:"backend"`

	// Path is the root directory for the files backend.
	Path string `toml:"path"`
}

// SourceEntry configures one upstream corpus source.
type SourceEntry struct {
	ID           string `toml:"id"`
	Type         string `toml:"type"`
	Jurisdiction string `toml:"jurisdiction"`
	Dataset      string `toml:"dataset"`
	Config       string `toml:"config"`
	Split        string `toml:"split"`
	Path         string `toml:"path"`
}

// Default returns the configuration used when the file is absent.
func Default() Config {
	return Config{
		Source: SourceSettings{BatchSize: 100},
		Chunk: ChunkSettings{
			MaxChars:           chunker.DefaultMaxChars,
			OverlapChars:       chunker.DefaultOverlapChars,
			BoundaryPreference: string(chunker.BoundaryParagraph),
		},
		Pipeline: PipelineSettings{WorkerCount: 4, RetryMaxAttempts: 5},
		Storage:  StorageSettings{Backend: BackendSQLite},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".jurist", "config.toml"), nil
}

// Load reads the configuration from the given path. An empty path uses
// the default location. A missing file yields defaults; a present but
// unparsable file is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	if c.Source.BatchSize < 1 || c.Source.BatchSize > 100 {
		return fmt.Errorf("%w: source.batch_size must be in [1, 100], got %d",
			domain.ErrInvalidInput, c.Source.BatchSize)
	}
	if c.Pipeline.WorkerCount < 1 {
		return fmt.Errorf("%w: pipeline.worker_count must be at least 1, got %d",
			domain.ErrInvalidInput, c.Pipeline.WorkerCount)
	}
	if c.Pipeline.RetryMaxAttempts < 1 {
		return fmt.Errorf("%w: pipeline.retry_max_attempts must be at least 1, got %d",
			domain.ErrInvalidInput, c.Pipeline.RetryMaxAttempts)
	}
	if err := c.ChunkPolicy().Validate(); err != nil {
		return err
	}

	switch c.Storage.Backend {
	case BackendSQLite:
	case BackendFiles:
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: storage.backend %q requires storage.path",
				domain.ErrInvalidInput, BackendFiles)
		}
	default:
		return fmt.Errorf("%w: unknown storage.backend %q", domain.ErrInvalidInput, c.Storage.Backend)
	}

	seen := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		if s.ID == "" {
			return fmt.Errorf("%w: source entry without id", domain.ErrInvalidInput)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate source id %q", domain.ErrInvalidInput, s.ID)
		}
		seen[s.ID] = true
		if _, err := domain.ParseJurisdiction(s.Jurisdiction); err != nil {
			return fmt.Errorf("source %q: %w", s.ID, err)
		}
	}
	return nil
}

// ChunkPolicy converts the chunk settings into a chunker policy.
func (c *Config) ChunkPolicy() chunker.Policy {
	return chunker.Policy{
		MaxChars:     c.Chunk.MaxChars,
		OverlapChars: c.Chunk.OverlapChars,
		Boundary:     chunker.Boundary(c.Chunk.BoundaryPreference),
	}
}

// SourceConfigs converts the configured source entries into domain
// source configurations.
func (c *Config) SourceConfigs() []domain.SourceConfig {
	out := make([]domain.SourceConfig, 0, len(c.Sources))
	for _, s := range c.Sources {
		out = append(out, domain.SourceConfig{
			ID:           s.ID,
			Type:         s.Type,
			Jurisdiction: domain.Jurisdiction(s.Jurisdiction),
			Dataset:      s.Dataset,
			Config:       s.Config,
			Split:        s.Split,
			Path:         s.Path,
		})
	}
	return out
}
