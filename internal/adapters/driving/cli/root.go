// Package cli implements the jurist command-line interface using cobra.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/canlaw-labs/jurist-cli/internal/adapters/driven/config/file"
	"github.com/canlaw-labs/jurist-cli/internal/adapters/driven/storage/fsstore"
	"github.com/canlaw-labs/jurist-cli/internal/adapters/driven/storage/sqlite"
	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
	"github.com/canlaw-labs/jurist-cli/internal/core/ports/driven"
	"github.com/canlaw-labs/jurist-cli/internal/core/ports/driving"
	"github.com/canlaw-labs/jurist-cli/internal/core/services"
	"github.com/canlaw-labs/jurist-cli/internal/logger"
	"github.com/canlaw-labs/jurist-cli/internal/sources"
	"github.com/canlaw-labs/jurist-cli/internal/sources/huggingface"
	"github.com/canlaw-labs/jurist-cli/internal/sources/jsonl"
	"github.com/canlaw-labs/jurist-cli/internal/sources/statutexml"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired at bootstrap. Tests swap these for mocks.
var (
	ingestor      driving.Ingestor
	ledgerStore   driven.Ledger
	cursorStore   driven.CursorStore
	sourceConfigs []domain.SourceConfig

	// store is held so Execute can close it after the command runs.
	store *sqlite.Store
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "jurist",
	Short: "Ingest Canadian case law into a retrieval-ready store",
	Long: `Jurist ingests Canadian legal case law from upstream corpora,
normalises each decision into a canonical document, splits it into
retrieval-sized chunks, and commits the result to a local store.
Runs are resumable: an ingestion ledger tracks what has already been
processed, so an interrupted run picks up where it left off.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to the configuration file (default ~/.jurist/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose logging")
}

// Execute runs the CLI.
func Execute() error {
	defer func() {
		if store != nil {
			_ = store.Close()
		}
	}()
	return rootCmd.Execute()
}

// ensureServices wires the real adapters on first use. Commands that
// need only the configuration call ensureConfig instead, so that
// "jurist version" never touches the database.
func ensureServices() error {
	if ingestor != nil {
		return nil
	}

	cfg, err := ensureConfig()
	if err != nil {
		return err
	}

	store, err = sqlite.NewStore(cfg.Ledger.Location)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	ledgerStore = store.Ledger()
	cursorStore = store.CursorStore()

	var writer driven.CommitWriter
	switch cfg.Storage.Backend {
	case file.BackendFiles:
		writer, err = fsstore.NewWriter(cfg.Storage.Path, ledgerStore)
		if err != nil {
			return fmt.Errorf("open document store: %w", err)
		}
	default:
		writer = store.DocumentStore()
	}

	factory := sources.NewFactory()
	factory.Register(sources.TypeHuggingFace, func(sc domain.SourceConfig) (driven.RecordSource, error) {
		return huggingface.New(sc,
			huggingface.WithBatchSize(cfg.Source.BatchSize),
			huggingface.WithRetry(cfg.Pipeline.RetryMaxAttempts, time.Second),
		)
	})
	factory.Register(sources.TypeJSONL, func(sc domain.SourceConfig) (driven.RecordSource, error) {
		return jsonl.New(sc)
	})
	factory.Register(sources.TypeStatuteXML, func(sc domain.SourceConfig) (driven.RecordSource, error) {
		return statutexml.New(sc)
	})

	ingestor = services.NewIngestOrchestrator(
		sourceConfigs,
		factory,
		ledgerStore,
		writer,
		cursorStore,
		cfg.ChunkPolicy(),
		cfg.Pipeline.WorkerCount,
	)
	return nil
}

// loadedConfig caches the configuration across commands in one run.
var loadedConfig *file.Config

func ensureConfig() (*file.Config, error) {
	if loadedConfig != nil {
		return loadedConfig, nil
	}
	cfg, err := file.Load(configPath)
	if err != nil {
		return nil, err
	}
	loadedConfig = cfg
	sourceConfigs = cfg.SourceConfigs()
	return cfg, nil
}
