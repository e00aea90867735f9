// Package normaliser converts heterogeneous raw corpus records into
// canonical documents with stable identity.
//
// Normalisation is a pure function: no I/O, no clocks, no randomness.
// The same record always produces the same document ID and content
// hash, across process restarts and across languages.
package normaliser

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
)

// idSeparator joins identity fields before hashing. A field value can
// never contain it, so distinct field tuples never collide by
// concatenation.
const idSeparator = "\x1f"

var (
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	newlineRun = regexp.MustCompile(`\n{3,}`)
)

// artifactReplacer strips encoding artifacts common in scraped legal
// text: BOMs, zero-width characters, and non-breaking spaces.
var artifactReplacer = strings.NewReplacer(
	"\uFEFF", "", // byte order mark
	"\u200B", "", // zero-width space
	"\u200C", "", // zero-width non-joiner
	"\u200D", "", // zero-width joiner
	"\u00A0", " ", // non-breaking space
	"\r\n", "\n",
	"\r", "\n",
)

// Normalise converts one raw record into a canonical document for the
// given jurisdiction.
//
// Returns domain.ErrInvalidRecord when the citation or jurisdiction is
// missing: without them no stable identity can be derived. Such records
// must be counted by the caller, never silently dropped.
func Normalise(raw *domain.RawRecord, jurisdiction domain.Jurisdiction) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	citation := strings.TrimSpace(raw.Citation)
	if citation == "" {
		return nil, fmt.Errorf("%w: missing citation", domain.ErrInvalidRecord)
	}
	if jurisdiction == "" {
		return nil, fmt.Errorf("%w: missing jurisdiction", domain.ErrInvalidRecord)
	}

	body := CleanText(raw.UnofficialText)

	title := strings.TrimSpace(raw.Name)
	if title == "" {
		title = citation
	}

	return &domain.Document{
		ID:           DocumentID(citation, strings.TrimSpace(raw.Citation2), jurisdiction, raw.Year),
		Jurisdiction: jurisdiction,
		Title:        title,
		Date:         strings.TrimSpace(raw.DocumentDate),
		Language:     ParseLanguage(raw.Language),
		Body:         body,
		SourceURL:    strings.TrimSpace(raw.SourceURL),
		ContentHash:  ContentHash(body),
	}, nil
}

// DocumentID derives the stable document identifier from the immutable
// source identifiers. Same inputs always yield the same ID.
func DocumentID(citation, citation2 string, jurisdiction domain.Jurisdiction, year int) string {
	h := sha256.New()
	h.Write([]byte(strings.Join([]string{
		citation,
		citation2,
		string(jurisdiction),
		strconv.Itoa(year),
	}, idSeparator)))
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// ContentHash hashes a document body for change detection.
func ContentHash(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// ParseLanguage maps the declared language field to the language enum.
// Only the declared field is consulted; records without one are
// LanguageUnknown. Heuristic detection is deliberately absent.
func ParseLanguage(declared string) domain.Language {
	switch strings.ToLower(strings.TrimSpace(declared)) {
	case "en", "eng", "english", "en-ca":
		return domain.LanguageEnglish
	case "fr", "fra", "fre", "french", "fr-ca":
		return domain.LanguageFrench
	default:
		return domain.LanguageUnknown
	}
}

// CleanText strips encoding artifacts and collapses whitespace while
// preserving paragraph boundaries. A paragraph boundary is exactly one
// blank line; the chunker keys on it to avoid splitting mid-sentence.
func CleanText(s string) string {
	s = artifactReplacer.Replace(s)
	s = spaceRun.ReplaceAllString(s, " ")

	// Trim trailing spaces per line so blank lines are truly empty.
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	s = strings.Join(lines, "\n")

	s = newlineRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
