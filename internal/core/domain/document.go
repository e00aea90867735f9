package domain

import "fmt"

// Jurisdiction classifies a document within the canonical corpus.
type Jurisdiction string

const (
	// JurisdictionFederalCourt covers Federal Court decisions.
	JurisdictionFederalCourt Jurisdiction = "federal-court"

	// JurisdictionSCC covers Supreme Court of Canada decisions.
	JurisdictionSCC Jurisdiction = "scc"

	// JurisdictionFederalStatute covers federal statutes.
	JurisdictionFederalStatute Jurisdiction = "federal-statute"

	// JurisdictionProvincialStatute covers provincial statutes.
	JurisdictionProvincialStatute Jurisdiction = "provincial-statute"
)

// ParseJurisdiction validates a jurisdiction string.
// Returns ErrUnsupportedType for unknown values.
func ParseJurisdiction(s string) (Jurisdiction, error) {
	switch Jurisdiction(s) {
	case JurisdictionFederalCourt, JurisdictionSCC,
		JurisdictionFederalStatute, JurisdictionProvincialStatute:
		return Jurisdiction(s), nil
	default:
		return "", fmt.Errorf("%w: jurisdiction %q", ErrUnsupportedType, s)
	}
}

// Language is the declared language of a document.
type Language string

const (
	// LanguageEnglish is English.
	LanguageEnglish Language = "en"

	// LanguageFrench is French.
	LanguageFrench Language = "fr"

	// LanguageUnknown is used when the source declares no language.
	// The pipeline never guesses beyond the declared field.
	LanguageUnknown Language = "unknown"
)

// Document is the canonical representation of one legal document after
// normalisation. Documents are immutable once created; re-ingesting a
// record with a changed body produces a new version with the same ID
// and a new ContentHash.
type Document struct {
	// ID is a stable hash derived from the citation, alternate
	// citation, jurisdiction and year. It is a pure function of those
	// identifiers and never regenerated differently for the same input.
	ID string

	// Jurisdiction classifies the document.
	Jurisdiction Jurisdiction

	// Title is the case or statute name.
	Title string

	// Date is the source-provided document date.
	Date string

	// Language is the declared language.
	Language Language

	// Body is the normalised plain text.
	Body string

	// SourceURL is where the record was originally scraped from.
	SourceURL string

	// ContentHash is a hash of Body, used for change detection.
	ContentHash string
}

// Span marks a half-open byte range [Start, End) into a Document body.
type Span struct {
	Start int
	End   int
}

// Chunk is a bounded text segment of a Document, the unit handed to
// downstream embedding and indexing. Chunks are immutable; when the
// owning Document's ContentHash changes they are replaced as a set.
type Chunk struct {
	// ID is the Document ID plus the zero-padded ordinal, so re-chunking
	// the same document yields the same chunk identities.
	ID string

	// DocumentID links back to the owning Document.
	DocumentID string

	// Ordinal is the 0-based position within the document.
	Ordinal int

	// Text is the chunk content.
	Text string

	// Span locates Text within the document body.
	Span Span

	// TokenEstimate is a rough token count for downstream budgeting.
	TokenEstimate int
}

// ChunkID builds the deterministic chunk identifier for a document and
// ordinal.
func ChunkID(documentID string, ordinal int) string {
	return fmt.Sprintf("%s:%04d", documentID, ordinal)
}
