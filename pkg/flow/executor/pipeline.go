package executor

import (
	"context"
	"errors"
	"log"

	"ai-blueprint-be/pkg/blueprint"
	"ai-blueprint-be/pkg/flow/state"
	"ai-blueprint-be/pkg/gateway"
	"ai-blueprint-be/pkg/llm"
	"ai-blueprint-be/pkg/store"
)

// TurnExecutor orchestrates the three-phase turn pipeline
// Phase 1: Model Turn → Phase 2: State Application → Phase 3: Synthesis & Consistency
type TurnExecutor struct {
	gateway      *gateway.Gateway
	stateManager *state.Manager
	synthesizer  *blueprint.Synthesizer
	checker      *blueprint.Checker
	logger       *log.Logger
}

// NewTurnExecutor creates a new three-phase turn executor
func NewTurnExecutor(gw *gateway.Gateway, logger *log.Logger) *TurnExecutor {
	return &TurnExecutor{
		gateway:      gw,
		stateManager: state.NewManager(logger),
		synthesizer:  blueprint.NewSynthesizer(logger),
		checker:      blueprint.NewChecker(gw, logger),
		logger:       logger,
	}
}

// TurnResult contains the outcome of one executed turn
type TurnResult struct {
	AssistantMessage string
	ModeRejected     bool                // provider reported a backward mode; previous state kept
	ModeAdvanced     bool                // mode moved forward this turn
	Document         *blueprint.Document // non-nil when this turn synthesized a blueprint
}

// Execute runs one user turn against the session. On a provider
// failure the session is returned untouched and the error is
// ErrProvider. A backward mode report is not an error: the previous
// state stays and the assistant text is still delivered.
func (p *TurnExecutor) Execute(
	ctx context.Context,
	session *store.Session,
	userText string,
	history []llm.Message,
) (*TurnResult, error) {

	p.logger.Printf("[PIPELINE] Starting turn for session %s: %s", session.ID, truncate(userText, 50))

	// ═══════════════════════════════════════════════════════════════
	// PHASE 1: MODEL TURN (single attempt, no retry)
	// ═══════════════════════════════════════════════════════════════
	p.logger.Printf("[PHASE 1] Continuing conversation (thread=%t, mode=%s)...",
		session.ThreadID != "", session.Mode)

	reply, err := p.gateway.Continue(ctx, gateway.ThreadInput{
		ThreadID: session.ThreadID,
		History:  history,
		UserText: userText,
	})
	if err != nil {
		return nil, err
	}

	// The provider-side thread advanced even if the state below is
	// rejected, so the continuation token is kept either way.
	if reply.ThreadID != "" {
		session.ThreadID = reply.ThreadID
	}

	result := &TurnResult{AssistantMessage: reply.AssistantMessage}

	// ═══════════════════════════════════════════════════════════════
	// PHASE 2: STATE APPLICATION (forward-only)
	// ═══════════════════════════════════════════════════════════════
	previousMode := session.Mode

	if err := p.stateManager.Apply(session, reply.State); err != nil {
		if !errors.Is(err, state.ErrInvalidTransition) {
			return nil, err
		}
		p.logger.Printf("[WARN] %v - previous state retained", err)
		result.ModeRejected = true
		return result, nil
	}
	result.ModeAdvanced = session.Mode != previousMode

	// ═══════════════════════════════════════════════════════════════
	// PHASE 3: SYNTHESIS & CONSISTENCY (BUILDER turns only)
	// ═══════════════════════════════════════════════════════════════
	if session.Mode != store.ModeBuilder || !reply.HasBlueprint() {
		return result, nil
	}

	p.logger.Printf("[PHASE 3] Synthesizing blueprint...")
	doc := p.synthesizer.Synthesize(reply.BlueprintMD)

	// The scan runs on every produced document and never blocks it.
	p.checker.Run(ctx, doc)

	session.BlueprintMarkdown = doc.Markdown()
	result.Document = doc

	return result, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
