package blueprint

import (
	"context"
	"log"
)

// Critic produces concrete issues for a finished document. Implemented
// by the model gateway's contradiction scan.
type Critic interface {
	Critique(ctx context.Context, blueprintMD string) ([]string, error)
}

// Checker runs the consistency pass over every produced document. It
// annotates, never blocks: an unavailable critique degrades to the
// could-not-complete outcome and the document still ships.
type Checker struct {
	critic Critic
	logger *log.Logger
}

func NewChecker(critic Critic, logger *log.Logger) *Checker {
	return &Checker{critic: critic, logger: logger}
}

// Run scans the core sections and records the outcome on the document.
func (c *Checker) Run(ctx context.Context, doc *Document) {
	issues, err := c.critic.Critique(ctx, doc.CoreMarkdown())
	if err != nil {
		c.logger.Printf("[CHECK] Consistency scan unavailable: %v", err)
		doc.Check = CheckResult{Ran: true, Unavailable: true, Issues: []string{}}
		return
	}
	if issues == nil {
		issues = []string{}
	}
	doc.Check = CheckResult{Ran: true, Issues: issues}
	c.logger.Printf("[CHECK] Consistency scan recorded %d issue(s)", len(issues))
}
