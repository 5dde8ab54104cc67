package state

import (
	"errors"
	"io"
	"log"
	"testing"

	"ai-blueprint-be/pkg/gateway"
	"ai-blueprint-be/pkg/store"
)

func testManager() *Manager {
	return NewManager(log.New(io.Discard, "", 0))
}

func TestApplyForwardTransition(t *testing.T) {
	m := testManager()
	session := store.NewSession("s-1")

	reported := gateway.TurnState{
		Mode:             store.ModeIntentLock,
		ConvergenceReady: true,
		Confidence:       map[string]int{"problem": 80, "customer": 70},
		DirectionThesis:  "weekly meal planning for families",
		NextUserPrompt:   "Anything fundamentally wrong or missing?",
	}

	if err := m.Apply(session, reported); err != nil {
		t.Fatalf("Apply returned %v, want nil", err)
	}

	if session.Mode != store.ModeIntentLock {
		t.Errorf("Mode = %q, want %q", session.Mode, store.ModeIntentLock)
	}
	if !session.ConvergenceReady {
		t.Errorf("ConvergenceReady not copied")
	}
	if session.Confidence["problem"] != 80 {
		t.Errorf("Confidence = %v, want problem=80", session.Confidence)
	}
	if session.DirectionThesis != reported.DirectionThesis {
		t.Errorf("DirectionThesis = %q", session.DirectionThesis)
	}
	if session.NextUserPrompt != reported.NextUserPrompt {
		t.Errorf("NextUserPrompt = %q", session.NextUserPrompt)
	}

	turns := session.AllTurns()
	if len(turns) != 1 {
		t.Fatalf("transcript has %d turns, want 1 transition record", len(turns))
	}
	if turns[0].Role != "system" {
		t.Errorf("transition record role = %q, want system", turns[0].Role)
	}
	if turns[0].Text != "Mode advanced: DISCOVERY -> INTENT_LOCK" {
		t.Errorf("transition record text = %q", turns[0].Text)
	}
}

func TestApplySameModeAddsNoRecord(t *testing.T) {
	m := testManager()
	session := store.NewSession("s-1")

	reported := gateway.TurnState{
		Mode:           store.ModeDiscovery,
		Confidence:     map[string]int{"problem": 30},
		NextUserPrompt: "Who exactly has this problem?",
	}

	if err := m.Apply(session, reported); err != nil {
		t.Fatalf("Apply returned %v, want nil", err)
	}
	if len(session.AllTurns()) != 0 {
		t.Errorf("same-mode apply appended a transition record")
	}
	if session.NextUserPrompt != "Who exactly has this problem?" {
		t.Errorf("NextUserPrompt = %q", session.NextUserPrompt)
	}
}

func TestApplyBackwardRejectedStateUntouched(t *testing.T) {
	m := testManager()
	session := store.NewSession("s-1")
	session.Mode = store.ModeBuilder
	session.ConvergenceReady = true
	session.Confidence = map[string]int{"problem": 95}
	session.DirectionThesis = "locked thesis"
	session.NextUserPrompt = "previous prompt"

	reported := gateway.TurnState{
		Mode:             store.ModeDiscovery,
		ConvergenceReady: false,
		Confidence:       map[string]int{"problem": 10},
		DirectionThesis:  "regressed thesis",
		NextUserPrompt:   "regressed prompt",
	}

	err := m.Apply(session, reported)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Apply returned %v, want ErrInvalidTransition", err)
	}

	if session.Mode != store.ModeBuilder {
		t.Errorf("Mode = %q, want BUILDER retained", session.Mode)
	}
	if !session.ConvergenceReady {
		t.Errorf("ConvergenceReady was overwritten on rejection")
	}
	if session.Confidence["problem"] != 95 {
		t.Errorf("Confidence = %v, want retained", session.Confidence)
	}
	if session.DirectionThesis != "locked thesis" {
		t.Errorf("DirectionThesis = %q, want retained", session.DirectionThesis)
	}
	if session.NextUserPrompt != "previous prompt" {
		t.Errorf("NextUserPrompt = %q, want retained", session.NextUserPrompt)
	}
	if len(session.AllTurns()) != 0 {
		t.Errorf("rejected apply appended a transcript record")
	}
}

func TestApplyUnknownReportedMode(t *testing.T) {
	m := testManager()
	session := store.NewSession("s-1")

	err := m.Apply(session, gateway.TurnState{Mode: "DREAMING"})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Apply returned %v, want ErrInvalidTransition", err)
	}
	if session.Mode != store.ModeDiscovery {
		t.Errorf("Mode = %q, want DISCOVERY retained", session.Mode)
	}
}

func TestApplySkipAheadIsForward(t *testing.T) {
	m := testManager()
	session := store.NewSession("s-1")

	err := m.Apply(session, gateway.TurnState{Mode: store.ModeBuilder})
	if err != nil {
		t.Fatalf("Apply returned %v, want nil", err)
	}
	if session.Mode != store.ModeBuilder {
		t.Errorf("Mode = %q, want BUILDER", session.Mode)
	}

	turns := session.AllTurns()
	if len(turns) != 1 || turns[0].Text != "Mode advanced: DISCOVERY -> BUILDER" {
		t.Errorf("transition record = %+v", turns)
	}
}

func TestApplyEmptyNextPromptKeepsPrevious(t *testing.T) {
	m := testManager()
	session := store.NewSession("s-1")
	session.NextUserPrompt = "previous prompt"

	err := m.Apply(session, gateway.TurnState{Mode: store.ModeDiscovery, NextUserPrompt: ""})
	if err != nil {
		t.Fatalf("Apply returned %v, want nil", err)
	}
	if session.NextUserPrompt != "previous prompt" {
		t.Errorf("NextUserPrompt = %q, want previous retained", session.NextUserPrompt)
	}
}

func TestResetRestartsSession(t *testing.T) {
	m := testManager()
	session := store.NewSession("s-1")
	session.Mode = store.ModeBuilder
	session.Append("user", "hello")
	session.BlueprintMarkdown = "## 1. Business summary\n"

	m.Reset(session)

	if session.Mode != store.ModeDiscovery {
		t.Errorf("Mode = %q after reset", session.Mode)
	}
	if len(session.AllTurns()) != 0 {
		t.Errorf("transcript survived reset")
	}
	if session.BlueprintMarkdown != "" {
		t.Errorf("blueprint survived reset")
	}
	if session.Epoch != 1 {
		t.Errorf("Epoch = %d, want 1", session.Epoch)
	}
}
