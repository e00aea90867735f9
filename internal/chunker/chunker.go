// Package chunker splits normalised documents into overlapping text
// segments suitable for embedding, preserving provenance.
//
// Chunking is deterministic: the same document and policy always
// produce a byte-identical chunk sequence. There is no randomness and
// no dependence on anything outside the document body.
package chunker

import (
	"fmt"
	"unicode/utf8"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
)

// Boundary selects where chunk cuts prefer to land.
type Boundary string

const (
	// BoundaryParagraph prefers blank-line paragraph breaks, falling
	// back to sentence ends, then to a hard cut.
	BoundaryParagraph Boundary = "paragraph"

	// BoundarySentence prefers sentence ends, falling back to a hard
	// cut.
	BoundarySentence Boundary = "sentence"

	// BoundaryChar always cuts hard at the size limit.
	BoundaryChar Boundary = "char"
)

// DefaultMaxChars is the default target chunk size.
const DefaultMaxChars = 1000

// DefaultOverlapChars is the default overlap between consecutive chunks.
const DefaultOverlapChars = 200

// Policy configures how a document body is split.
type Policy struct {
	// MaxChars is the target chunk size.
	MaxChars int

	// OverlapChars is the overlap between consecutive chunks.
	// Must satisfy 0 <= OverlapChars < MaxChars.
	OverlapChars int

	// Boundary is the preferred cut point kind.
	Boundary Boundary
}

// DefaultPolicy returns the policy used when configuration is silent.
func DefaultPolicy() Policy {
	return Policy{
		MaxChars:     DefaultMaxChars,
		OverlapChars: DefaultOverlapChars,
		Boundary:     BoundaryParagraph,
	}
}

// MinMaxChars is the smallest usable chunk size. Below the widest
// UTF-8 encoding, a hard cut could back up to the chunk start and
// stall on a single multi-byte rune.
const MinMaxChars = utf8.UTFMax

// Validate checks the policy invariants.
func (p Policy) Validate() error {
	if p.MaxChars < MinMaxChars {
		return fmt.Errorf("%w: max_chars must be at least %d, got %d",
			domain.ErrInvalidPolicy, MinMaxChars, p.MaxChars)
	}
	if p.OverlapChars < 0 || p.OverlapChars >= p.MaxChars {
		return fmt.Errorf("%w: overlap_chars must satisfy 0 <= overlap < max_chars, got %d/%d",
			domain.ErrInvalidPolicy, p.OverlapChars, p.MaxChars)
	}
	switch p.Boundary {
	case BoundaryParagraph, BoundarySentence, BoundaryChar:
		return nil
	default:
		return fmt.Errorf("%w: unknown boundary preference %q", domain.ErrInvalidPolicy, p.Boundary)
	}
}

// lookback is how far before the proposed cut the boundary search
// extends before giving up and cutting hard.
func (p Policy) lookback() int {
	lb := p.MaxChars / 4
	if lb < 1 {
		lb = 1
	}
	return lb
}

// Split walks the document body left to right, emitting chunks of at
// most MaxChars, cut back to the nearest acceptable boundary within
// the lookback window. The cursor advances to the cut point minus the
// overlap, so boundary-shortened chunks never skip text.
//
// An empty body yields zero chunks. A body no longer than MaxChars
// yields exactly one chunk spanning the whole body.
func Split(doc *domain.Document, p Policy) ([]domain.Chunk, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	body := doc.Body
	n := len(body)
	if n == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, 0, n/(p.MaxChars-p.OverlapChars)+1)
	start := 0
	ordinal := 0

	for start < n {
		end := start + p.MaxChars
		if end >= n {
			end = n
		} else {
			end = cutPoint(body, start, end, p)
		}

		text := body[start:end]
		chunks = append(chunks, domain.Chunk{
			ID:            domain.ChunkID(doc.ID, ordinal),
			DocumentID:    doc.ID,
			Ordinal:       ordinal,
			Text:          text,
			Span:          domain.Span{Start: start, End: end},
			TokenEstimate: estimateTokens(text),
		})
		ordinal++

		if end >= n {
			break
		}

		next := end - p.OverlapChars
		if next <= start {
			// Guarantee forward progress even when a boundary cut
			// shrank the chunk below the overlap.
			next = start + 1
		}
		start = skipSeparators(body, next)
	}

	return chunks, nil
}

// cutPoint finds where the chunk ending at the proposed position should
// actually end. It searches backward within the lookback window for the
// preferred boundary kind, cascading to weaker boundaries before
// falling back to a hard cut at the size limit.
func cutPoint(body string, start, proposed int, p Policy) int {
	windowStart := proposed - p.lookback()
	if windowStart <= start {
		windowStart = start + 1
	}

	switch p.Boundary {
	case BoundaryParagraph:
		if cut, ok := lastParagraphEnd(body, windowStart, proposed); ok {
			return cut
		}
		fallthrough
	case BoundarySentence:
		if cut, ok := lastSentenceEnd(body, windowStart, proposed); ok {
			return cut
		}
	}

	return hardCut(body, proposed)
}

// lastParagraphEnd finds the latest cut position in
// [windowStart, proposed] that lands at the end of a paragraph. A
// paragraph boundary is a blank line; the cut lands before it.
func lastParagraphEnd(body string, windowStart, proposed int) (int, bool) {
	for q := proposed; q >= windowStart; q-- {
		if q+1 < len(body) && body[q] == '\n' && body[q+1] == '\n' {
			return q, true
		}
	}
	return 0, false
}

// lastSentenceEnd finds the latest cut position in
// [windowStart, proposed] that lands just after a sentence terminator:
// '.', '!' or '?' followed by whitespace or the end of the body.
func lastSentenceEnd(body string, windowStart, proposed int) (int, bool) {
	for q := proposed; q >= windowStart; q-- {
		switch body[q-1] {
		case '.', '!', '?':
			if q == len(body) || isSeparator(body[q]) {
				return q, true
			}
		}
	}
	return 0, false
}

// hardCut backs a byte offset up to the nearest rune start so a cut in
// the middle of a multi-byte character never happens.
func hardCut(body string, proposed int) int {
	for proposed > 0 && !utf8.RuneStart(body[proposed]) {
		proposed--
	}
	return proposed
}

// skipSeparators advances past whitespace so a chunk never starts on
// the separator that ended the previous one.
func skipSeparators(body string, i int) int {
	for i < len(body) && isSeparator(body[i]) {
		i++
	}
	return i
}

func isSeparator(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t'
}

// estimateTokens approximates the token count of a chunk. Legal English
// and French average roughly four characters per token; downstream
// embedding budgeting only needs the order of magnitude.
func estimateTokens(text string) int {
	runes := utf8.RuneCountInString(text)
	est := runes / 4
	if est < 1 && runes > 0 {
		est = 1
	}
	return est
}
