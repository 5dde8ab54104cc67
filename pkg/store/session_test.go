package store

import (
	"testing"
)

func TestNewSessionInitialState(t *testing.T) {
	s := NewSession("s-1")

	if s.Mode != ModeDiscovery {
		t.Errorf("Mode = %q, want %q", s.Mode, ModeDiscovery)
	}
	if s.ConvergenceReady {
		t.Errorf("ConvergenceReady = true, want false")
	}
	if s.NextUserPrompt != InitialNextPrompt {
		t.Errorf("NextUserPrompt = %q, want %q", s.NextUserPrompt, InitialNextPrompt)
	}
	if s.Confidence == nil || len(s.Confidence) != 0 {
		t.Errorf("Confidence = %v, want empty map", s.Confidence)
	}
	if len(s.Transcript) != 0 {
		t.Errorf("Transcript has %d turns, want 0", len(s.Transcript))
	}
	if s.ThreadID != "" {
		t.Errorf("ThreadID = %q, want empty", s.ThreadID)
	}
	if s.Epoch != 0 {
		t.Errorf("Epoch = %d, want 0", s.Epoch)
	}
}

func TestAppendKeepsOrder(t *testing.T) {
	s := NewSession("s-1")

	first := s.Append("user", "hello")
	second := s.Append("assistant", "hi there")

	if first.ID == "" || second.ID == "" {
		t.Fatalf("Append returned turn without id")
	}
	if first.ID == second.ID {
		t.Errorf("turn ids collide: %q", first.ID)
	}

	turns := s.AllTurns()
	if len(turns) != 2 {
		t.Fatalf("AllTurns = %d turns, want 2", len(turns))
	}
	if turns[0].Text != "hello" || turns[1].Text != "hi there" {
		t.Errorf("turn order broken: %q, %q", turns[0].Text, turns[1].Text)
	}
	if turns[0].Role != "user" || turns[1].Role != "assistant" {
		t.Errorf("roles = %q, %q", turns[0].Role, turns[1].Role)
	}
}

func TestAllTurnsReturnsCopy(t *testing.T) {
	s := NewSession("s-1")
	s.Append("user", "original")

	turns := s.AllTurns()
	turns[0].Text = "mutated"

	if s.Transcript[0].Text != "original" {
		t.Errorf("mutating the copy changed the transcript")
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	s := NewSession("s-1")
	s.Mode = ModeBuilder
	s.ConvergenceReady = true
	s.Confidence = map[string]int{"problem": 90}
	s.DirectionThesis = "meal planning for families"
	s.NextUserPrompt = "Anything else?"
	s.ThreadID = "resp_123"
	s.Append("user", "hello")
	s.BlueprintMarkdown = "## 1. Business summary\ntext\n"

	s.Reset()

	if s.Mode != ModeDiscovery {
		t.Errorf("Mode = %q, want %q", s.Mode, ModeDiscovery)
	}
	if s.ConvergenceReady {
		t.Errorf("ConvergenceReady survived reset")
	}
	if len(s.Confidence) != 0 {
		t.Errorf("Confidence = %v, want empty", s.Confidence)
	}
	if s.DirectionThesis != "" {
		t.Errorf("DirectionThesis = %q, want empty", s.DirectionThesis)
	}
	if s.NextUserPrompt != InitialNextPrompt {
		t.Errorf("NextUserPrompt = %q, want %q", s.NextUserPrompt, InitialNextPrompt)
	}
	if s.ThreadID != "" {
		t.Errorf("ThreadID = %q, want empty", s.ThreadID)
	}
	if len(s.Transcript) != 0 {
		t.Errorf("Transcript has %d turns after reset, want 0", len(s.Transcript))
	}
	if s.BlueprintMarkdown != "" {
		t.Errorf("BlueprintMarkdown survived reset")
	}
	if s.Epoch != 1 {
		t.Errorf("Epoch = %d, want 1", s.Epoch)
	}

	s.Reset()
	if s.Epoch != 2 {
		t.Errorf("Epoch = %d after second reset, want 2", s.Epoch)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := NewSession("s-1")
	s.Confidence["problem"] = 40
	s.Append("user", "hello")

	c := s.Clone()
	c.Confidence["problem"] = 99
	c.Append("assistant", "clone-only")
	c.Mode = ModeIntentLock

	if s.Confidence["problem"] != 40 {
		t.Errorf("clone confidence write leaked into original: %v", s.Confidence)
	}
	if len(s.Transcript) != 1 {
		t.Errorf("clone append leaked into original: %d turns", len(s.Transcript))
	}
	if s.Mode != ModeDiscovery {
		t.Errorf("clone mode write leaked into original: %q", s.Mode)
	}
	if c.ID != s.ID || c.Epoch != s.Epoch {
		t.Errorf("clone lost identity: id=%q epoch=%d", c.ID, c.Epoch)
	}
}
