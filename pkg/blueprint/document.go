package blueprint

import (
	"fmt"
	"strings"
)

// SectionTitles lists the blueprint sections in delivery order. Every
// document carries exactly these, each exactly once.
var SectionTitles = [11]string{
	"Business summary",
	"Customer and problem",
	"Value proposition and differentiation",
	"Product scope (MVP, included vs excluded)",
	"Go-to-market hypothesis",
	"Tech and build direction",
	"Operations and risks",
	"Revenue and pricing logic",
	"90-day execution plan",
	"Open items (WIP, mandatory)",
	"Reality checks & risks",
}

// Consistency section literals.
const (
	CheckHeader          = "## Consistency check (auto)"
	NoContradictionsText = "No internal contradictions detected."
	CheckUnavailableText = "Consistency check could not be completed."
)

type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CheckResult is the consistency annotation appended to a document.
type CheckResult struct {
	Ran         bool     `json:"ran"`
	Unavailable bool     `json:"unavailable"`
	Issues      []string `json:"issues"`
}

// Document is a normalized blueprint: the fixed section layout plus
// the consistency annotation. It is rebuilt whole on every synthesis,
// never patched in place.
type Document struct {
	Sections [11]Section `json:"sections"`
	Check    CheckResult `json:"check"`
}

// NewDocument returns a document with the canonical section layout and
// empty bodies.
func NewDocument() *Document {
	d := &Document{}
	for i, title := range SectionTitles {
		d.Sections[i] = Section{Title: title}
	}
	return d
}

// CoreMarkdown renders the eleven sections without the consistency
// annotation. This is the text the contradiction scan reads.
func (d *Document) CoreMarkdown() string {
	var sb strings.Builder
	for i, sec := range d.Sections {
		sb.WriteString(fmt.Sprintf("## %d. %s\n", i+1, sec.Title))
		if body := strings.TrimSpace(sec.Body); body != "" {
			sb.WriteString(body)
			sb.WriteString("\n")
		}
		if i < len(d.Sections)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Markdown renders the full document. Once the check ran, the
// consistency section follows the eleven core sections: numbered
// issues in received order, or the no-contradictions sentence, or the
// could-not-complete sentence when the scan was unavailable.
func (d *Document) Markdown() string {
	core := strings.TrimRight(d.CoreMarkdown(), "\n")
	if !d.Check.Ran {
		return core + "\n"
	}

	var sb strings.Builder
	sb.WriteString(core)
	sb.WriteString("\n\n")
	sb.WriteString(CheckHeader)
	sb.WriteString("\n")

	switch {
	case d.Check.Unavailable:
		sb.WriteString(CheckUnavailableText)
		sb.WriteString("\n")
	case len(d.Check.Issues) > 0:
		for i, issue := range d.Check.Issues {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue))
		}
	default:
		sb.WriteString(NoContradictionsText)
		sb.WriteString("\n")
	}

	return sb.String()
}
