package domain

import (
	"errors"
	"testing"
)

func TestParseJurisdiction(t *testing.T) {
	valid := []string{"federal-court", "scc", "federal-statute", "provincial-statute"}
	for _, s := range valid {
		j, err := ParseJurisdiction(s)
		if err != nil {
			t.Errorf("ParseJurisdiction(%q) returned error: %v", s, err)
		}
		if string(j) != s {
			t.Errorf("ParseJurisdiction(%q) = %q", s, j)
		}
	}

	_, err := ParseJurisdiction("ontario-court")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestParseIngestStatus(t *testing.T) {
	for _, s := range []string{"pending", "done", "failed"} {
		st, err := ParseIngestStatus(s)
		if err != nil {
			t.Errorf("ParseIngestStatus(%q) returned error: %v", s, err)
		}
		if string(st) != s {
			t.Errorf("ParseIngestStatus(%q) = %q", s, st)
		}
	}

	_, err := ParseIngestStatus("in-progress")
	if !errors.Is(err, ErrLedgerCorruption) {
		t.Errorf("expected ErrLedgerCorruption for unknown status, got %v", err)
	}
}

func TestChunkID(t *testing.T) {
	id := ChunkID("abc123", 7)
	if id != "abc123:0007" {
		t.Errorf("unexpected chunk ID %q", id)
	}

	// Same inputs always yield the same ID.
	if ChunkID("abc123", 7) != id {
		t.Error("chunk ID is not deterministic")
	}
}

func TestLedgerSummary_Total(t *testing.T) {
	s := LedgerSummary{Pending: 1, Done: 2, Failed: 3}
	if s.Total() != 6 {
		t.Errorf("Total() = %d, want 6", s.Total())
	}
}
