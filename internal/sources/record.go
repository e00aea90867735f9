package sources

import (
	"encoding/json"
	"fmt"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
)

// rawRow mirrors the record shape of the canadian-legal-data dataset.
// Year is a json.Number so records carrying it as a string still parse.
type rawRow struct {
	Citation         string      `json:"citation"`
	Citation2        string      `json:"citation2"`
	Name             string      `json:"name"`
	CaseName         string      `json:"case_name"`
	Year             json.Number `json:"year"`
	DocumentDate     string      `json:"document_date"`
	Language         string      `json:"language"`
	UnofficialText   string      `json:"unofficial_text"`
	SourceURL        string      `json:"source_url"`
	ScrapedTimestamp string      `json:"scraped_timestamp"`
	Dataset          string      `json:"dataset"`
}

// knownFields are lifted into typed RawRecord fields; everything else
// a record carries lands in Metadata.
var knownFields = []string{
	"citation", "citation2", "name", "case_name", "year", "document_date",
	"language", "unofficial_text", "source_url", "scraped_timestamp", "dataset",
}

// DecodeRecord parses one JSON record into a domain.RawRecord.
// Unrecognised fields are preserved in the Metadata map. Returns a
// domain.ErrMalformedRecord-wrapped error when the bytes are not a
// JSON object; callers skip and count such records.
func DecodeRecord(data []byte) (domain.RawRecord, error) {
	var row rawRow
	if err := json.Unmarshal(data, &row); err != nil {
		return domain.RawRecord{}, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}

	name := row.Name
	if name == "" {
		name = row.CaseName
	}

	year := 0
	if row.Year != "" {
		y, err := row.Year.Int64()
		if err != nil {
			return domain.RawRecord{}, fmt.Errorf("%w: year %q: %v", domain.ErrMalformedRecord, row.Year, err)
		}
		year = int(y)
	}

	return domain.RawRecord{
		Citation:         row.Citation,
		Citation2:        row.Citation2,
		Name:             name,
		Year:             year,
		DocumentDate:     row.DocumentDate,
		Language:         row.Language,
		UnofficialText:   row.UnofficialText,
		SourceURL:        row.SourceURL,
		ScrapedTimestamp: row.ScrapedTimestamp,
		Dataset:          row.Dataset,
		Metadata:         extraFields(data),
	}, nil
}

// extraFields returns the fields of a record that have no typed home.
func extraFields(data []byte) map[string]any {
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return nil
	}
	for _, k := range knownFields {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil
	}
	return all
}
