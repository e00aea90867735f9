package jsonl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
	"github.com/canlaw-labs/jurist-cli/internal/core/ports/driven"
)

func writeFixture(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0600))
	return path
}

// collect drains both channels and returns records, non-fatal errors,
// and the completion sentinel (nil if the stream failed).
func collect(t *testing.T, src *Source, cursor string) ([]domain.RawRecord, []error, *driven.StreamComplete) {
	t.Helper()

	records, errs := src.Stream(context.Background(), cursor)

	var got []domain.RawRecord
	var softErrs []error
	var complete *driven.StreamComplete

	for records != nil || errs != nil {
		select {
		case rec, ok := <-records:
			if !ok {
				records = nil
				continue
			}
			got = append(got, rec)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if sc, done := driven.IsStreamComplete(err); done {
				complete = sc
				continue
			}
			softErrs = append(softErrs, err)
		}
	}
	return got, softErrs, complete
}

func TestStream(t *testing.T) {
	path := writeFixture(t, `{"citation":"2020 FC 1","year":2020,"unofficial_text":"One."}
{"citation":"2020 FC 2","year":2020,"unofficial_text":"Two."}
`)
	src, err := New(domain.SourceConfig{ID: "fc", Path: path})
	require.NoError(t, err)

	got, softErrs, complete := collect(t, src, "")

	require.Len(t, got, 2)
	assert.Empty(t, softErrs)
	assert.Equal(t, "2020 FC 1", got[0].Citation)
	assert.Equal(t, "2020 FC 2", got[1].Citation)
	require.NotNil(t, complete)
	assert.Equal(t, "2", complete.NewCursor)
}

func TestStream_ResumesFromCursor(t *testing.T) {
	path := writeFixture(t, `{"citation":"2020 FC 1"}
{"citation":"2020 FC 2"}
{"citation":"2020 FC 3"}
`)
	src, err := New(domain.SourceConfig{ID: "fc", Path: path})
	require.NoError(t, err)

	got, _, complete := collect(t, src, "2")

	require.Len(t, got, 1)
	assert.Equal(t, "2020 FC 3", got[0].Citation)
	require.NotNil(t, complete)
	assert.Equal(t, "3", complete.NewCursor)
}

func TestStream_MalformedLineDoesNotAbort(t *testing.T) {
	path := writeFixture(t, `{"citation":"2020 FC 1"}
not json at all
{"citation":"2020 FC 3"}
`)
	src, err := New(domain.SourceConfig{ID: "fc", Path: path})
	require.NoError(t, err)

	got, softErrs, complete := collect(t, src, "")

	require.Len(t, got, 2)
	require.Len(t, softErrs, 1)
	assert.ErrorIs(t, softErrs[0], domain.ErrMalformedRecord)
	require.NotNil(t, complete, "one bad record must never abort the stream")
}

func TestStream_MissingFile(t *testing.T) {
	src, err := New(domain.SourceConfig{ID: "fc", Path: "/does/not/exist.jsonl"})
	require.NoError(t, err)

	_, softErrs, complete := collect(t, src, "")

	assert.Nil(t, complete)
	require.Len(t, softErrs, 1)
	assert.ErrorIs(t, softErrs[0], domain.ErrSourceUnavailable)
}

func TestStream_InvalidCursor(t *testing.T) {
	path := writeFixture(t, `{"citation":"2020 FC 1"}`+"\n")
	src, err := New(domain.SourceConfig{ID: "fc", Path: path})
	require.NoError(t, err)

	_, softErrs, complete := collect(t, src, "abc")

	assert.Nil(t, complete)
	require.Len(t, softErrs, 1)
	assert.ErrorIs(t, softErrs[0], domain.ErrInvalidInput)
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New(domain.SourceConfig{ID: "fc"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
