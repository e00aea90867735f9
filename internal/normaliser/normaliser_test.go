package normaliser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
)

func TestNormalise(t *testing.T) {
	raw := &domain.RawRecord{
		Citation:       "2020 FC 1",
		Citation2:      "[2020] 1 FCR 100",
		Name:           "Doe v. Canada",
		Year:           2020,
		DocumentDate:   "2020-01-15",
		Language:       "en",
		UnofficialText: "The applicant seeks judicial review.",
		SourceURL:      "https://decisions.fct-cf.gc.ca/fc-cf/decisions/en/item/1",
	}

	doc, err := Normalise(raw, domain.JurisdictionFederalCourt)
	require.NoError(t, err)

	assert.Equal(t, domain.JurisdictionFederalCourt, doc.Jurisdiction)
	assert.Equal(t, "Doe v. Canada", doc.Title)
	assert.Equal(t, "2020-01-15", doc.Date)
	assert.Equal(t, domain.LanguageEnglish, doc.Language)
	assert.Equal(t, "The applicant seeks judicial review.", doc.Body)
	assert.Equal(t, ContentHash(doc.Body), doc.ContentHash)
	assert.Len(t, doc.ID, 32)
}

func TestNormalise_Deterministic(t *testing.T) {
	rec := func(text string) *domain.RawRecord {
		return &domain.RawRecord{
			Citation:       "2019 SCC 12",
			Year:           2019,
			UnofficialText: text,
		}
	}

	a, err := Normalise(rec("First version."), domain.JurisdictionSCC)
	require.NoError(t, err)
	b, err := Normalise(rec("Second version, longer body."), domain.JurisdictionSCC)
	require.NoError(t, err)

	// Identity is a pure function of citation/jurisdiction/year; body
	// changes only the content hash.
	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ContentHash, b.ContentHash)
}

func TestNormalise_MissingCitation(t *testing.T) {
	raw := &domain.RawRecord{
		Name:           "Nameless v. Canada",
		Year:           2021,
		UnofficialText: "Body.",
	}

	_, err := Normalise(raw, domain.JurisdictionFederalCourt)
	require.ErrorIs(t, err, domain.ErrInvalidRecord)
}

func TestNormalise_MissingJurisdiction(t *testing.T) {
	raw := &domain.RawRecord{Citation: "2021 FC 9", Year: 2021}

	_, err := Normalise(raw, "")
	require.ErrorIs(t, err, domain.ErrInvalidRecord)
}

func TestNormalise_NilRecord(t *testing.T) {
	_, err := Normalise(nil, domain.JurisdictionSCC)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_TitleFallsBackToCitation(t *testing.T) {
	raw := &domain.RawRecord{Citation: "2020 FC 7", Year: 2020}

	doc, err := Normalise(raw, domain.JurisdictionFederalCourt)
	require.NoError(t, err)
	assert.Equal(t, "2020 FC 7", doc.Title)
}

func TestDocumentID_DistinguishesFields(t *testing.T) {
	base := DocumentID("2020 FC 1", "", domain.JurisdictionFederalCourt, 2020)

	assert.NotEqual(t, base, DocumentID("2020 FC 2", "", domain.JurisdictionFederalCourt, 2020))
	assert.NotEqual(t, base, DocumentID("2020 FC 1", "[2020] 1 FCR 1", domain.JurisdictionFederalCourt, 2020))
	assert.NotEqual(t, base, DocumentID("2020 FC 1", "", domain.JurisdictionSCC, 2020))
	assert.NotEqual(t, base, DocumentID("2020 FC 1", "", domain.JurisdictionFederalCourt, 2021))
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		declared string
		want     domain.Language
	}{
		{"en", domain.LanguageEnglish},
		{"English", domain.LanguageEnglish},
		{"fr", domain.LanguageFrench},
		{"FRA", domain.LanguageFrench},
		{"", domain.LanguageUnknown},
		{"de", domain.LanguageUnknown},
	}

	for _, tt := range tests {
		if got := ParseLanguage(tt.declared); got != tt.want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tt.declared, got, tt.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	t.Run("strips artifacts", func(t *testing.T) {
		got := CleanText("\uFEFFThe\u00A0Court\u200B held")
		assert.Equal(t, "The Court held", got)
	})

	t.Run("collapses space runs", func(t *testing.T) {
		got := CleanText("The  Court \t held")
		assert.Equal(t, "The Court held", got)
	})

	t.Run("preserves paragraph boundaries", func(t *testing.T) {
		got := CleanText("Para one.\n\n\n\nPara two.\r\nStill two.")
		assert.Equal(t, "Para one.\n\nPara two.\nStill two.", got)
	})

	t.Run("trims trailing line spaces", func(t *testing.T) {
		got := CleanText("Para one.  \n  \nPara two.")
		assert.Equal(t, "Para one.\n\nPara two.", got)
	})
}
