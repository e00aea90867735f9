// Package statutexml reads consolidated federal statutes in the
// justice.gc.ca XML format and emits one record per section.
//
// The statute hierarchy (Act, Part, Section, Subsection, Paragraph,
// Subparagraph) is flattened: each section becomes one record whose
// text carries its subsections and paragraphs as labelled blocks,
// separated by blank lines so the chunker can cut on them. Part and
// heading context travels in the record metadata.
package statutexml

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
	"github.com/canlaw-labs/jurist-cli/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

// Source streams section records from a statute XML file.
type Source struct {
	sourceID string
	path     string
	actCode  string
}

// New creates a statute XML source. cfg.Path locates the XML file and
// cfg.Config carries the act code used in citations (e.g. "CBCA");
// without one the act's short title is used.
func New(cfg domain.SourceConfig) (*Source, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: statutexml source %q requires a path", domain.ErrInvalidInput, cfg.ID)
	}
	return &Source{
		sourceID: cfg.ID,
		path:     cfg.Path,
		actCode:  cfg.Config,
	}, nil
}

// Type returns the source type identifier.
func (s *Source) Type() string {
	return "statutexml"
}

// SourceID returns the configured source ID.
func (s *Source) SourceID() string {
	return s.sourceID
}

// Stream parses the statute file and emits one record per section.
// The cursor is the number of sections already consumed, so a re-run
// resumes mid-act. Statute XML is a single document: any parse failure
// makes the whole file unusable and is reported as a fatal
// domain.ErrSourceUnavailable, not a per-record skip.
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

		emitted, err := s.walk(ctx, f, skip, records)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			errs <- fmt.Errorf("%w: parse %s: %v", domain.ErrSourceUnavailable, s.path, err)
			return
		}

		select {
		case <-ctx.Done():
		case errs <- &driven.StreamComplete{NewCursor: strconv.Itoa(emitted)}:
		}
	}()

	return records, errs
}

// Close releases resources. The file handle lives only for the
// duration of a Stream call, so there is nothing to do.
func (s *Source) Close() error {
	return nil
}

// identification is the statute's front matter.
type identification struct {
	ShortTitle flatText `xml:"ShortTitle"`
	LongTitle  flatText `xml:"LongTitle"`
}

// heading is a Part heading (level 1) or a sub-heading (level 2).
type heading struct {
	Level string   `xml:"level,attr"`
	Label flatText `xml:"Label"`
	Title flatText `xml:"TitleText"`
}

type section struct {
	Label        flatText     `xml:"Label"`
	MarginalNote flatText     `xml:"MarginalNote"`
	Text         flatText     `xml:"Text"`
	Subsections  []subsection `xml:"Subsection"`
	Paragraphs   []paragraph  `xml:"Paragraph"`
}

type subsection struct {
	Label        flatText    `xml:"Label"`
	MarginalNote flatText    `xml:"MarginalNote"`
	Text         flatText    `xml:"Text"`
	Paragraphs   []paragraph `xml:"Paragraph"`
}

type paragraph struct {
	Label         flatText       `xml:"Label"`
	Text          flatText       `xml:"Text"`
	Subparagraphs []subparagraph `xml:"Subparagraph"`
}

type subparagraph struct {
	Label flatText `xml:"Label"`
	Text  flatText `xml:"Text"`
}

// walk token-scans the document, tracking the current Part and heading
// while decoding each Body-level Section. Returns the total number of
// sections seen, including skipped ones.
func (s *Source) walk(ctx context.Context, r io.Reader, skip int, records chan<- domain.RawRecord) (int, error) {
	dec := xml.NewDecoder(r)

	var (
		ident       identification
		identParsed bool
		partLabel   string
		partTitle   string
		headTitle   string
		seen        int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return seen, nil
		}
		if err != nil {
			return seen, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "Identification":
			if !identParsed {
				if err := dec.DecodeElement(&ident, &start); err != nil {
					return seen, err
				}
				identParsed = true
			}

		case "Heading":
			var h heading
			if err := dec.DecodeElement(&h, &start); err != nil {
				return seen, err
			}
			label := strings.TrimSpace(string(h.Label))
			if h.Level == "1" && strings.HasPrefix(label, "PART") {
				partLabel = label
				partTitle = strings.TrimSpace(string(h.Title))
				headTitle = ""
			} else {
				headTitle = strings.TrimSpace(string(h.Title))
			}

		case "Section":
			var sec section
			if err := dec.DecodeElement(&sec, &start); err != nil {
				return seen, err
			}
			seen++
			if seen <= skip {
				continue
			}

			rec := s.record(&ident, &sec, partLabel, partTitle, headTitle)
			select {
			case <-ctx.Done():
				return seen, ctx.Err()
			case records <- rec:
			}
		}
	}
}

// record flattens one section into a raw record.
func (s *Source) record(ident *identification, sec *section, partLabel, partTitle, headTitle string) domain.RawRecord {
	shortTitle := strings.TrimSpace(string(ident.ShortTitle))

	actCode := s.actCode
	if actCode == "" {
		actCode = shortTitle
	}

	num := strings.TrimSpace(string(sec.Label))
	title := strings.TrimSpace(string(sec.MarginalNote))
	if title == "" {
		title = fmt.Sprintf("%s s. %s", actCode, num)
	}

	metadata := map[string]any{
		"act":  shortTitle,
		"kind": "statute-section",
	}
	if partLabel != "" {
		metadata["part"] = partLabel
		metadata["part_title"] = partTitle
	}
	if headTitle != "" {
		metadata["heading"] = headTitle
	}

	return domain.RawRecord{
		Citation:       fmt.Sprintf("%s s. %s", actCode, num),
		Name:           title,
		UnofficialText: sectionText(sec),
		Dataset:        actCode,
		Metadata:       metadata,
	}
}

// sectionText joins a section's own text with its subsection and
// paragraph texts, each prefixed with its label and separated by blank
// lines.
func sectionText(sec *section) string {
	var blocks []string

	if t := strings.TrimSpace(string(sec.Text)); t != "" {
		blocks = append(blocks, t)
	}
	blocks = appendParagraphBlocks(blocks, "", sec.Paragraphs)

	for _, sub := range sec.Subsections {
		if t := strings.TrimSpace(string(sub.Text)); t != "" {
			blocks = append(blocks, labelled(string(sub.Label), t))
		}
		blocks = appendParagraphBlocks(blocks, string(sub.Label), sub.Paragraphs)
	}

	return strings.Join(blocks, "\n\n")
}

func appendParagraphBlocks(blocks []string, parentLabel string, paras []paragraph) []string {
	for _, p := range paras {
		label := strings.TrimSpace(parentLabel) + strings.TrimSpace(string(p.Label))
		if t := strings.TrimSpace(string(p.Text)); t != "" {
			blocks = append(blocks, labelled(label, t))
		}
		for _, sp := range p.Subparagraphs {
			if t := strings.TrimSpace(string(sp.Text)); t != "" {
				blocks = append(blocks, labelled(label+strings.TrimSpace(string(sp.Label)), t))
			}
		}
	}
	return blocks
}

func labelled(label, text string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return text
	}
	return label + " " + text
}

// flatText collects all character data inside an element, including
// text nested in inline markup such as cross-references and defined
// terms.
type flatText string

func (t *flatText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case xml.CharData:
			b.Write(v)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				*t = flatText(b.String())
				return nil
			}
			depth--
		}
	}
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
