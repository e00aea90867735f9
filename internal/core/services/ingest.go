package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/canlaw-labs/jurist-cli/internal/chunker"
	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
	"github.com/canlaw-labs/jurist-cli/internal/core/ports/driven"
	"github.com/canlaw-labs/jurist-cli/internal/core/ports/driving"
	"github.com/canlaw-labs/jurist-cli/internal/logger"
	"github.com/canlaw-labs/jurist-cli/internal/normaliser"
)

// Ensure IngestOrchestrator implements the interface.
var _ driving.Ingestor = (*IngestOrchestrator)(nil)

// IngestOrchestrator coordinates document ingestion. A single reader
// goroutine owns the source stream and the cursor; a pool of workers
// takes each record end to end (normalise, ledger check, chunk,
// commit). Per-record failures are counted and logged, never fatal;
// only source exhaustion after retries and ledger corruption abort a
// run.
type IngestOrchestrator struct {
	sources map[string]domain.SourceConfig
	order   []string

	factory driven.SourceFactory
	ledger  driven.Ledger
	writer  driven.CommitWriter
	cursors driven.CursorStore

	policy  chunker.Policy
	workers int
}

// NewIngestOrchestrator creates an ingest orchestrator over the given
// source configurations. workers below 1 is clamped to 1.
func NewIngestOrchestrator(
	sources []domain.SourceConfig,
	factory driven.SourceFactory,
	ledger driven.Ledger,
	writer driven.CommitWriter,
	cursors driven.CursorStore,
	policy chunker.Policy,
	workers int,
) *IngestOrchestrator {
	if workers < 1 {
		workers = 1
	}
	byID := make(map[string]domain.SourceConfig, len(sources))
	order := make([]string, 0, len(sources))
	for _, s := range sources {
		byID[s.ID] = s
		order = append(order, s.ID)
	}
	return &IngestOrchestrator{
		sources: byID,
		order:   order,
		factory: factory,
		ledger:  ledger,
		writer:  writer,
		cursors: cursors,
		policy:  policy,
		workers: workers,
	}
}

// runState accumulates counters for one run. Workers increment it
// concurrently.
type runState struct {
	mu      sync.Mutex
	summary driving.RunSummary

	// inflight holds document IDs currently being processed, so two
	// workers never commit the same document concurrently. Duplicate
	// citations inside one batch hit this.
	inflight map[string]bool
}

func newRunState(sourceID string) *runState {
	return &runState{
		summary: driving.RunSummary{
			RunID:    uuid.NewString(),
			SourceID: sourceID,
		},
		inflight: make(map[string]bool),
	}
}

func (r *runState) add(apply func(*driving.RunSummary)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apply(&r.summary)
}

func (r *runState) tryAcquire(docID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inflight[docID] {
		return false
	}
	r.inflight[docID] = true
	return true
}

func (r *runState) release(docID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inflight, docID)
}

func (r *runState) snapshot() *driving.RunSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.summary
	return &s
}

// Ingest runs the pipeline for one configured source.
func (o *IngestOrchestrator) Ingest(
	ctx context.Context,
	sourceID string,
	opts driving.IngestOptions,
) (*driving.RunSummary, error) {
	cfg, ok := o.sources[sourceID]
	if !ok {
		return nil, fmt.Errorf("%w: source %q", domain.ErrNotFound, sourceID)
	}

	source, err := o.factory.Create(cfg)
	if err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}
	defer source.Close()

	cursor, err := o.startCursor(ctx, sourceID, opts)
	if err != nil {
		return nil, err
	}

	run := newRunState(sourceID)
	logger.Info("Run %s: ingesting source %s (cursor %q, %d workers)",
		run.summary.RunID, sourceID, cursor, o.workers)

	var newCursor string
	work := make(chan domain.RawRecord)

	g, gctx := errgroup.WithContext(ctx)

	// The stream gets the group context so the source's producer
	// goroutine unblocks when a worker aborts the run.
	records, errs := source.Stream(gctx, cursor)

	// Reader: multiplexes the source channels into the work queue.
	// It is the only goroutine that sees the new cursor.
	g.Go(func() error {
		defer close(work)
		for records != nil || errs != nil {
			select {
			case <-gctx.Done():
				return gctx.Err()

			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				if sc, done := driven.IsStreamComplete(err); done {
					newCursor = sc.NewCursor
					continue
				}
				if errors.Is(err, domain.ErrMalformedRecord) {
					run.add(func(s *driving.RunSummary) { s.Malformed++ })
					logger.Warn("Skipping malformed record: %v", err)
					continue
				}
				return fmt.Errorf("source %s: %w", sourceID, err)

			case rec, ok := <-records:
				if !ok {
					records = nil
					continue
				}
				run.add(func(s *driving.RunSummary) { s.Fetched++ })
				select {
				case work <- rec:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		}
		return nil
	})

	for i := 0; i < o.workers; i++ {
		g.Go(func() error {
			for rec := range work {
				if err := o.processRecord(gctx, cfg.Jurisdiction, rec, run); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return run.snapshot(), err
	}

	if newCursor != "" {
		state := domain.CursorState{
			SourceID:  sourceID,
			Cursor:    newCursor,
			UpdatedAt: time.Now().UTC(),
		}
		if err := o.cursors.Save(ctx, state); err != nil {
			return run.snapshot(), fmt.Errorf("save cursor: %w", err)
		}
	}

	summary := run.snapshot()
	logger.Info("Run %s complete: fetched=%d committed=%d skipped-unchanged=%d skipped-invalid=%d malformed=%d failed=%d",
		summary.RunID, summary.Fetched, summary.Committed,
		summary.SkippedUnchanged, summary.SkippedInvalid,
		summary.Malformed, summary.Failed)
	return summary, nil
}

// IngestAll runs the pipeline for every configured source, in
// configuration order. A failing source does not stop the ones after
// it; all failures are joined into the returned error.
func (o *IngestOrchestrator) IngestAll(
	ctx context.Context,
	opts driving.IngestOptions,
) ([]*driving.RunSummary, error) {
	summaries := make([]*driving.RunSummary, 0, len(o.order))

	var errs []error
	for _, id := range o.order {
		summary, err := o.Ingest(ctx, id, opts)
		if summary != nil {
			summaries = append(summaries, summary)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("ingest %s: %w", id, err))
			if ctx.Err() != nil {
				break
			}
		}
	}

	if len(errs) > 0 {
		return summaries, errors.Join(errs...)
	}
	return summaries, nil
}

// startCursor resolves where the stream should begin.
func (o *IngestOrchestrator) startCursor(
	ctx context.Context,
	sourceID string,
	opts driving.IngestOptions,
) (string, error) {
	if opts.ResetCursor {
		return "", nil
	}
	if opts.Cursor != "" {
		return opts.Cursor, nil
	}
	state, err := o.cursors.Get(ctx, sourceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get cursor: %w", err)
	}
	return state.Cursor, nil
}

// processRecord takes one raw record through normalise, ledger check,
// chunk and commit. It returns an error only for conditions that must
// abort the whole run; everything else is counted on the run state.
func (o *IngestOrchestrator) processRecord(
	ctx context.Context,
	jurisdiction domain.Jurisdiction,
	rec domain.RawRecord,
	run *runState,
) error {
	doc, err := normaliser.Normalise(&rec, jurisdiction)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRecord) {
			run.add(func(s *driving.RunSummary) { s.SkippedInvalid++ })
			logger.Warn("Skipping invalid record %q: %v", rec.Citation, err)
			return nil
		}
		return fmt.Errorf("normalise: %w", err)
	}

	if !run.tryAcquire(doc.ID) {
		// Same document already in flight on another worker.
		logger.Warn("Duplicate document %s in batch, skipping", doc.ID)
		return nil
	}
	defer run.release(doc.ID)

	proceed, err := o.ledger.ShouldProcess(ctx, doc.ID, doc.ContentHash)
	if err != nil {
		// The ledger is the resumption source of truth; if it cannot
		// answer, continuing risks silent reprocessing or skipping.
		return fmt.Errorf("ledger check for %s: %w", doc.ID, err)
	}
	if !proceed {
		run.add(func(s *driving.RunSummary) { s.SkippedUnchanged++ })
		logger.Debug("Unchanged: %s", doc.ID)
		return nil
	}

	pending := domain.LedgerEntry{
		DocumentID:  doc.ID,
		ContentHash: doc.ContentHash,
		Status:      domain.StatusPending,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := o.ledger.Record(ctx, pending); err != nil {
		return fmt.Errorf("ledger record pending for %s: %w", doc.ID, err)
	}

	chunks, err := chunker.Split(doc, o.policy)
	if err != nil {
		o.recordFailure(ctx, doc, err, run)
		return nil
	}
	run.add(func(s *driving.RunSummary) { s.Chunked++ })

	// Commit moves the ledger entry to done itself, atomically with
	// the data becoming visible.
	if err := o.writer.Commit(ctx, doc, chunks); err != nil {
		o.recordFailure(ctx, doc, err, run)
		return nil
	}

	run.add(func(s *driving.RunSummary) { s.Committed++ })
	logger.Debug("Committed %s (%d chunks)", doc.ID, len(chunks))
	return nil
}

// recordFailure marks the document failed in the ledger and counts it.
// The failed entry keeps the content hash so a later retry with the
// same content is still attempted.
func (o *IngestOrchestrator) recordFailure(
	ctx context.Context,
	doc *domain.Document,
	cause error,
	run *runState,
) {
	run.add(func(s *driving.RunSummary) { s.Failed++ })
	logger.Warn("Failed to ingest %s: %v", doc.ID, cause)

	entry := domain.LedgerEntry{
		DocumentID:  doc.ID,
		ContentHash: doc.ContentHash,
		Status:      domain.StatusFailed,
		LastError:   cause.Error(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := o.ledger.Record(ctx, entry); err != nil {
		logger.Warn("Could not record failure for %s: %v", doc.ID, err)
	}
}
