package blueprint

import (
	"fmt"
	"strings"
	"testing"
)

func TestCoreMarkdownLayout(t *testing.T) {
	doc := NewDocument()
	doc.Sections[0].Body = "A meal planning service."
	doc.Sections[10].Body = "Churn risk after week one."

	md := doc.CoreMarkdown()

	if n := strings.Count(md, "\n## "); n+1 != 11 {
		// first heading starts the string, the other ten follow newlines
		t.Errorf("found %d section headings, want 11", n+1)
	}

	for i, title := range SectionTitles {
		heading := fmt.Sprintf("## %d. %s", i+1, title)
		if !strings.Contains(md, heading) {
			t.Errorf("missing heading %q", heading)
		}
	}

	// Order: summary first, reality checks last
	first := strings.Index(md, "## 1. Business summary")
	last := strings.Index(md, "## 11. Reality checks & risks")
	if first == -1 || last == -1 || first > last {
		t.Errorf("section order broken: first=%d last=%d", first, last)
	}

	if !strings.Contains(md, "A meal planning service.") {
		t.Errorf("section body missing from render")
	}
}

func TestMarkdownWithoutCheck(t *testing.T) {
	doc := NewDocument()
	md := doc.Markdown()

	if strings.Contains(md, CheckHeader) {
		t.Errorf("consistency header rendered before the check ran")
	}
}

func TestMarkdownCleanCheck(t *testing.T) {
	doc := NewDocument()
	doc.Check = CheckResult{Ran: true, Issues: []string{}}

	md := doc.Markdown()

	if !strings.Contains(md, CheckHeader) {
		t.Fatalf("missing %q", CheckHeader)
	}
	if !strings.Contains(md, NoContradictionsText) {
		t.Errorf("missing %q", NoContradictionsText)
	}
	if strings.Contains(md, CheckUnavailableText) {
		t.Errorf("unexpected unavailable sentence")
	}

	// The check section comes after all eleven core sections
	if strings.Index(md, CheckHeader) < strings.Index(md, "## 11. Reality checks & risks") {
		t.Errorf("consistency section is not last")
	}
}

func TestMarkdownNumbersIssuesInOrder(t *testing.T) {
	doc := NewDocument()
	doc.Check = CheckResult{Ran: true, Issues: []string{
		"Pricing assumes 10k users but the plan targets 500.",
		"MVP excludes accounts yet GTM depends on referrals.",
	}}

	md := doc.Markdown()

	first := strings.Index(md, "1. Pricing assumes 10k users but the plan targets 500.")
	second := strings.Index(md, "2. MVP excludes accounts yet GTM depends on referrals.")
	if first == -1 || second == -1 || first > second {
		t.Errorf("issues not numbered in received order:\n%s", md)
	}
	if strings.Contains(md, NoContradictionsText) {
		t.Errorf("clean sentence rendered alongside issues")
	}
}

func TestMarkdownUnavailableCheck(t *testing.T) {
	doc := NewDocument()
	doc.Check = CheckResult{Ran: true, Unavailable: true, Issues: []string{}}

	md := doc.Markdown()

	if !strings.Contains(md, CheckUnavailableText) {
		t.Errorf("missing %q", CheckUnavailableText)
	}
	if strings.Contains(md, NoContradictionsText) {
		t.Errorf("clean sentence rendered for an unavailable check")
	}
}
