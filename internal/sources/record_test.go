package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
	"github.com/canlaw-labs/jurist-cli/internal/core/ports/driven"
)

func TestDecodeRecord(t *testing.T) {
	data := []byte(`{
		"citation": "2020 FC 1",
		"citation2": "[2020] 1 FCR 100",
		"name": "Doe v. Canada",
		"year": 2020,
		"document_date": "2020-01-15",
		"language": "en",
		"unofficial_text": "The applicant seeks judicial review.",
		"source_url": "https://example.org/1",
		"scraped_timestamp": "2024-06-01T00:00:00Z",
		"dataset": "FC",
		"docket": "IMM-1234-19"
	}`)

	rec, err := DecodeRecord(data)
	require.NoError(t, err)

	assert.Equal(t, "2020 FC 1", rec.Citation)
	assert.Equal(t, "[2020] 1 FCR 100", rec.Citation2)
	assert.Equal(t, "Doe v. Canada", rec.Name)
	assert.Equal(t, 2020, rec.Year)
	assert.Equal(t, "en", rec.Language)
	assert.Equal(t, "FC", rec.Dataset)
	assert.Equal(t, "IMM-1234-19", rec.Metadata["docket"])
}

func TestDecodeRecord_YearAsString(t *testing.T) {
	rec, err := DecodeRecord([]byte(`{"citation":"2019 SCC 5","year":"2019"}`))
	require.NoError(t, err)
	assert.Equal(t, 2019, rec.Year)
}

func TestDecodeRecord_CaseNameAlias(t *testing.T) {
	rec, err := DecodeRecord([]byte(`{"citation":"2019 SCC 5","case_name":"R. v. Smith"}`))
	require.NoError(t, err)
	assert.Equal(t, "R. v. Smith", rec.Name)
}

func TestDecodeRecord_Malformed(t *testing.T) {
	_, err := DecodeRecord([]byte(`{"citation": `))
	require.ErrorIs(t, err, domain.ErrMalformedRecord)

	_, err = DecodeRecord([]byte(`{"citation":"x","year":"twenty"}`))
	require.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestDecodeRecord_NoExtras(t *testing.T) {
	rec, err := DecodeRecord([]byte(`{"citation":"2020 FC 2"}`))
	require.NoError(t, err)
	assert.Nil(t, rec.Metadata)
}

func TestFactory(t *testing.T) {
	f := NewFactory()
	assert.Empty(t, f.SupportedTypes())

	f.Register("fake", func(cfg domain.SourceConfig) (driven.RecordSource, error) {
		return nil, nil
	})

	assert.Equal(t, []string{"fake"}, f.SupportedTypes())

	_, err := f.Create(domain.SourceConfig{Type: "unknown"})
	require.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = f.Create(domain.SourceConfig{Type: "fake"})
	require.NoError(t, err)
}
