package domain

// RawRecord represents one record as fetched from an upstream corpus
// source, before normalisation. No field is guaranteed to be present;
// the Normaliser decides what is mandatory.
type RawRecord struct {
	// Citation is the primary neutral citation (e.g., "2020 FC 1").
	Citation string

	// Citation2 is an alternate or parallel citation, if the source
	// provides one.
	Citation2 string

	// Name is the case or statute name.
	Name string

	// Year is the decision or enactment year.
	Year int

	// DocumentDate is the source-provided date string (often ISO 8601,
	// but left uninterpreted here).
	DocumentDate string

	// Language is the declared language code, if any.
	Language string

	// UnofficialText is the full unofficial text of the decision or
	// statute.
	UnofficialText string

	// SourceURL is where the record was originally scraped from.
	SourceURL string

	// ScrapedTimestamp is when the upstream dataset scraped the record.
	ScrapedTimestamp string

	// Dataset identifies the upstream dataset configuration the record
	// came from (e.g., "FC", "SCC").
	Dataset string

	// Metadata contains any remaining source-specific fields.
	Metadata map[string]any
}
