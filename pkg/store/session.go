package store

import (
	"time"

	"github.com/google/uuid"
)

// Turn is a single transcript entry. The transcript is append-only and
// carries no decision logic; it exists for display and replay.
type Turn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" | "assistant" | "system"
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Session represents the active conversation state in memory.
type Session struct {
	ID               string         `json:"id"`
	Mode             string         `json:"mode"` // "DISCOVERY" | "INTENT_LOCK" | "BUILDER"
	ConvergenceReady bool           `json:"convergence_ready"`
	Confidence       map[string]int `json:"confidence"` // provider-reported, diagnostic only
	DirectionThesis  string         `json:"direction_thesis"`
	NextUserPrompt   string         `json:"next_user_prompt"`

	// ThreadID is the provider continuation token for the current thread.
	// Empty means the next gateway call starts a fresh thread.
	ThreadID string `json:"thread_id"`

	// Epoch increments on every reset. A turn computed against an older
	// epoch must never be applied.
	Epoch int `json:"epoch"`

	Transcript        []Turn `json:"transcript"`
	BlueprintMarkdown string `json:"blueprint_markdown"` // empty until BUILDER produced one

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	ModeDiscovery  = "DISCOVERY"
	ModeIntentLock = "INTENT_LOCK"
	ModeBuilder    = "BUILDER"

	// InitialNextPrompt is the hint shown before the first user turn.
	InitialNextPrompt = "Share your idea in plain words."
)

// NewSession returns a session in its documented initial state.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:               id,
		Mode:             ModeDiscovery,
		ConvergenceReady: false,
		Confidence:       map[string]int{},
		DirectionThesis:  "",
		NextUserPrompt:   InitialNextPrompt,
		Transcript:       []Turn{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Append adds a turn to the end of the transcript and returns it.
// Existing turns are never modified or removed.
func (s *Session) Append(role, text string) Turn {
	turn := Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	s.Transcript = append(s.Transcript, turn)
	s.UpdatedAt = turn.CreatedAt
	return turn
}

// AllTurns returns a copy of the transcript in insertion order.
func (s *Session) AllTurns() []Turn {
	out := make([]Turn, len(s.Transcript))
	copy(out, s.Transcript)
	return out
}

// Clone returns a deep copy. Turns execute against a clone so a reset
// landing mid-flight never sees half-applied state.
func (s *Session) Clone() *Session {
	out := *s
	out.Confidence = make(map[string]int, len(s.Confidence))
	for k, v := range s.Confidence {
		out.Confidence[k] = v
	}
	out.Transcript = make([]Turn, len(s.Transcript))
	copy(out.Transcript, s.Transcript)
	return &out
}

// Reset restores the initial state in place: mode back to DISCOVERY,
// flags and confidence cleared, transcript and blueprint discarded,
// continuation thread dropped. The epoch moves forward so in-flight
// turns against the old state are discarded instead of applied.
func (s *Session) Reset() {
	s.Mode = ModeDiscovery
	s.ConvergenceReady = false
	s.Confidence = map[string]int{}
	s.DirectionThesis = ""
	s.NextUserPrompt = InitialNextPrompt
	s.ThreadID = ""
	s.Epoch++
	s.Transcript = []Turn{}
	s.BlueprintMarkdown = ""
	s.UpdatedAt = time.Now().UTC()
}
