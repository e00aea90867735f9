// Package huggingface reads raw records from the Hugging Face
// datasets-server rows API, which hosts the canadian-legal-data corpus
// the pipeline ingests.
//
// The reader owns the upstream cursor: a decimal row offset into the
// configured dataset split, persisted between runs so ingestion resumes
// where it stopped.
package huggingface

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
	"github.com/canlaw-labs/jurist-cli/internal/core/ports/driven"
	"github.com/canlaw-labs/jurist-cli/internal/sources"
)

// DefaultBatchSize is rows per page. The rows API caps length at 100.
const DefaultBatchSize = 100

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

// Source streams records from one dataset configuration
// (e.g., refugee-law-lab/canadian-legal-data, config FC, split train).
type Source struct {
	sourceID  string
	dataset   string
	config    string
	split     string
	batchSize int
	client    *Client
}

// Option configures the source.
type Option func(*Source)

// WithBaseURL overrides the datasets-server endpoint. Used in tests.
func WithBaseURL(u string) Option {
	return func(s *Source) {
		s.client.baseURL = u
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) {
		s.client.httpClient = c
	}
}

// WithBatchSize sets rows fetched per page.
func WithBatchSize(n int) Option {
	return func(s *Source) {
		if n > 0 && n <= DefaultBatchSize {
			s.batchSize = n
		}
	}
}

// WithRetry sets the retry attempt cap and the first backoff delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(s *Source) {
		if maxAttempts > 0 {
			s.client.maxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			s.client.baseDelay = baseDelay
		}
	}
}

// WithRequestRate sets the proactive throttle in requests per second.
func WithRequestRate(perSecond float64) Option {
	return func(s *Source) {
		if perSecond > 0 {
			s.client.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// New creates a datasets-server source for the given configuration.
func New(cfg domain.SourceConfig, opts ...Option) (*Source, error) {
	if cfg.Dataset == "" {
		return nil, fmt.Errorf("%w: huggingface source %q has no dataset", domain.ErrInvalidInput, cfg.ID)
	}

	s := &Source{
		sourceID:  cfg.ID,
		dataset:   cfg.Dataset,
		config:    cfg.Config,
		split:     cfg.Split,
		batchSize: DefaultBatchSize,
		client:    NewClient(),
	}
	if s.split == "" {
		s.split = "train"
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Type returns the source type identifier.
func (s *Source) Type() string {
	return "huggingface"
}

// SourceID returns the configured source ID.
func (s *Source) SourceID() string {
	return s.sourceID
}

// Stream pages through the dataset from the cursor onwards. Rows that
// fail to decode are reported as malformed on the error channel and
// skipped; the offset still advances past them.
func (s *Source) Stream(ctx context.Context, cursor string) (<-chan domain.RawRecord, <-chan error) {
	records := make(chan domain.RawRecord)
	errs := make(chan error, 1)

	go func() {
		defer close(records)
		defer close(errs)

		offset, err := parseCursor(cursor)
		if err != nil {
			errs <- err
			return
		}

		for {
			page, err := s.client.FetchRows(ctx, s.dataset, s.config, s.split, offset, s.batchSize)
			if err != nil {
				errs <- err
				return
			}
			if len(page.Rows) == 0 {
				break
			}

			for _, row := range page.Rows {
				rec, err := sources.DecodeRecord(row.Row)
				offset++
				if err != nil {
					select {
					case <-ctx.Done():
						return
					case errs <- fmt.Errorf("row %d: %w", row.RowIdx, err):
					}
					continue
				}
				select {
				case <-ctx.Done():
					return
				case records <- rec:
				}
			}

			if page.NumRowsTotal > 0 && offset >= page.NumRowsTotal {
				break
			}
		}

		// The buffer slot may already hold a malformed-record error, so
		// this send must not outlive the consumer.
		select {
		case <-ctx.Done():
		case errs <- &driven.StreamComplete{NewCursor: strconv.Itoa(offset)}:
		}
	}()

	return records, errs
}

// Close releases resources.
func (s *Source) Close() error {
	s.client.httpClient.CloseIdleConnections()
	return nil
}

func parseCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(cursor)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: cursor %q", domain.ErrInvalidInput, cursor)
	}
	return n, nil
}
