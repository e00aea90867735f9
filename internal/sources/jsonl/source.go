// Package jsonl reads raw records from newline-delimited JSON files on
// local disk. It backs test fixtures and offline ingestion of corpora
// that were already downloaded.
package jsonl

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
	"github.com/canlaw-labs/jurist-cli/internal/core/ports/driven"
	"github.com/canlaw-labs/jurist-cli/internal/sources"
)

// maxLineBytes bounds a single record line. Full decision texts run to
// megabytes; 32 MiB leaves ample headroom.
const maxLineBytes = 32 << 20

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

// Source streams records from one JSONL file.
// The cursor is the decimal number of lines already consumed, so a
// resumed stream skips exactly what previous runs emitted.
type Source struct {
	sourceID string
	path     string
}

// New creates a JSONL source for the given configuration.
func New(cfg domain.SourceConfig) (*Source, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: jsonl source %q has no path", domain.ErrInvalidInput, cfg.ID)
	}
	return &Source{sourceID: cfg.ID, path: cfg.Path}, nil
}

// Type returns the source type identifier.
func (s *Source) Type() string {
	return "jsonl"
}

// SourceID returns the configured source ID.
func (s *Source) SourceID() string {
	return s.sourceID
}

// Stream reads the file from the cursor onwards. Lines that fail to
// decode are reported as malformed on the error channel and skipped;
// they still advance the cursor so re-runs do not re-report them.
func (s *Source) Stream(ctx context.Context, cursor string) (<-chan domain.RawRecord, <-chan error) {
	records := make(chan domain.RawRecord)
	errs := make(chan error, 1)

	go func() {
		defer close(records)
		defer close(errs)

		skip, err := parseCursor(cursor)
		if err != nil {
			errs <- err
			return
		}

		f, err := os.Open(s.path)
		if err != nil {
			errs <- fmt.Errorf("%w: open %s: %v", domain.ErrSourceUnavailable, s.path, err)
			return
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

		line := 0
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			default:
			}

			line++
			if line <= skip {
				continue
			}
			if len(scanner.Bytes()) == 0 {
				continue // blank line, not a record
			}

			rec, err := sources.DecodeRecord(scanner.Bytes())
			if err != nil {
				select {
				case <-ctx.Done():
					return
				case errs <- fmt.Errorf("line %d: %w", line, err):
				}
				continue
			}

			select {
			case <-ctx.Done():
				return
			case records <- rec:
			}
		}

		if err := scanner.Err(); err != nil {
			errs <- fmt.Errorf("%w: read %s: %v", domain.ErrSourceUnavailable, s.path, err)
			return
		}

		// The buffer slot may already hold a malformed-line error, so
		// this send must not outlive the consumer.
		select {
		case <-ctx.Done():
		case errs <- &driven.StreamComplete{NewCursor: strconv.Itoa(line)}:
		}
	}()

	return records, errs
}

// Close releases resources. The file handle lives only for the
// duration of a Stream call, so there is nothing to do.
func (s *Source) Close() error {
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
