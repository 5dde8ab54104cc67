package blueprint

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
)

type scriptedCritic struct {
	issues []string
	err    error
	sawDoc string
}

func (c *scriptedCritic) Critique(ctx context.Context, blueprintMD string) ([]string, error) {
	c.sawDoc = blueprintMD
	return c.issues, c.err
}

func TestCheckerRecordsIssues(t *testing.T) {
	critic := &scriptedCritic{issues: []string{"pricing contradicts the plan"}}
	checker := NewChecker(critic, log.New(io.Discard, "", 0))

	doc := NewDocument()
	doc.Sections[0].Body = "Summary text."
	checker.Run(context.Background(), doc)

	if !doc.Check.Ran {
		t.Errorf("Check.Ran = false")
	}
	if doc.Check.Unavailable {
		t.Errorf("Check.Unavailable = true for a successful scan")
	}
	if len(doc.Check.Issues) != 1 || doc.Check.Issues[0] != "pricing contradicts the plan" {
		t.Errorf("Check.Issues = %v", doc.Check.Issues)
	}

	// The scan reads the core sections, not the annotated render
	if !strings.Contains(critic.sawDoc, "## 1. Business summary") {
		t.Errorf("critic did not receive the core markdown")
	}
	if strings.Contains(critic.sawDoc, CheckHeader) {
		t.Errorf("critic received the consistency section itself")
	}
}

func TestCheckerDegradesWhenCritiqueFails(t *testing.T) {
	critic := &scriptedCritic{err: errors.New("model down")}
	checker := NewChecker(critic, log.New(io.Discard, "", 0))

	doc := NewDocument()
	checker.Run(context.Background(), doc)

	if !doc.Check.Ran {
		t.Errorf("Check.Ran = false")
	}
	if !doc.Check.Unavailable {
		t.Errorf("Check.Unavailable = false after a failed scan")
	}
	if len(doc.Check.Issues) != 0 {
		t.Errorf("Check.Issues = %v, want none", doc.Check.Issues)
	}

	if !strings.Contains(doc.Markdown(), CheckUnavailableText) {
		t.Errorf("document does not carry the could-not-complete sentence")
	}
}

func TestCheckerNormalizesNilIssues(t *testing.T) {
	critic := &scriptedCritic{issues: nil}
	checker := NewChecker(critic, log.New(io.Discard, "", 0))

	doc := NewDocument()
	checker.Run(context.Background(), doc)

	if doc.Check.Issues == nil {
		t.Errorf("Check.Issues left nil")
	}
	if !strings.Contains(doc.Markdown(), NoContradictionsText) {
		t.Errorf("clean scan did not render the no-contradictions sentence")
	}
}
