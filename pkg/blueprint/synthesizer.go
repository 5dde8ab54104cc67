package blueprint

import (
	"log"
	"regexp"
	"strings"
)

// sectionKeys maps normalized heading text to a section index. Aliases
// cover the short forms models actually emit for the longer titles.
var sectionKeys = map[string]int{}

var sectionAliases = map[string]int{
	"product scope":            3,
	"product scope mvp":        3,
	"go to market":             4,
	"tech and build":           5,
	"revenue and pricing":      7,
	"open items":               9,
	"open items wip":           9,
	"reality checks and risks": 10,
	"reality checks":           10,
}

func init() {
	for i, title := range SectionTitles {
		sectionKeys[normalizeHeading(title)] = i
	}
	for alias, i := range sectionAliases {
		sectionKeys[alias] = i
	}
}

var leadingNumberRe = regexp.MustCompile(`^\d+[.)]\s+`)
var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeHeading reduces a heading to a comparable key: markdown and
// numbering markers stripped, lowercased, punctuation collapsed.
func normalizeHeading(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "#")
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_")
	s = strings.TrimSpace(s)
	s = leadingNumberRe.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	s = nonAlnumRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// isHeadingLine reports whether a line looks like a section heading:
// a markdown heading or a standalone bold line.
func isHeadingLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "#") {
		return true
	}
	return strings.HasPrefix(trimmed, "**") && strings.HasSuffix(trimmed, "**") && len(trimmed) > 4
}

// Synthesizer normalizes raw model markdown into the fixed document
// layout. It is forgiving on input and strict on output: whatever
// arrives, the result has exactly the eleven canonical sections.
type Synthesizer struct {
	logger *log.Logger
}

func NewSynthesizer(logger *log.Logger) *Synthesizer {
	return &Synthesizer{logger: logger}
}

// Synthesize builds a fresh document from raw markdown. Content under
// recognized headings lands in the matching section; unrecognized
// headings stay as body text of the current section; sections the
// model skipped keep empty bodies for the consistency scan to flag.
func (s *Synthesizer) Synthesize(raw string) *Document {
	doc := NewDocument()

	bodies := make([]strings.Builder, len(doc.Sections))
	current := -1
	matched := 0

	for _, line := range strings.Split(raw, "\n") {
		if isHeadingLine(line) {
			if idx, ok := sectionKeys[normalizeHeading(line)]; ok {
				if bodies[idx].Len() == 0 {
					matched++
				}
				current = idx
				continue
			}
			// Unrecognized heading: document title or a model-invented
			// subsection. Before the first match it is preamble and
			// dropped; afterwards it stays in the current body.
			if current == -1 {
				continue
			}
		}
		if current >= 0 {
			bodies[current].WriteString(line)
			bodies[current].WriteString("\n")
		}
	}

	// Nothing recognizable: keep the text rather than losing it.
	if matched == 0 && strings.TrimSpace(raw) != "" {
		bodies[0].WriteString(strings.TrimSpace(raw))
		bodies[0].WriteString("\n")
		s.logger.Printf("[SYNTH] No recognizable sections, raw text kept under %q", SectionTitles[0])
	}

	for i := range doc.Sections {
		doc.Sections[i].Body = strings.TrimSpace(bodies[i].String())
	}

	s.logger.Printf("[SYNTH] Document synthesized: %d/%d sections populated", populated(doc), len(doc.Sections))
	return doc
}

func populated(doc *Document) int {
	n := 0
	for _, sec := range doc.Sections {
		if sec.Body != "" {
			n++
		}
	}
	return n
}
