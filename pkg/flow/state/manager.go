package state

import (
	"errors"
	"fmt"
	"log"

	"ai-blueprint-be/internal/constant"
	"ai-blueprint-be/pkg/gateway"
	"ai-blueprint-be/pkg/store"
)

// ErrInvalidTransition marks a provider-reported mode that moves
// backward. The session keeps its previous valid state; the turn
// itself is not an error.
var ErrInvalidTransition = errors.New("invalid mode transition")

// modeRank orders the one-way conversation stages.
var modeRank = map[string]int{
	store.ModeDiscovery:  0,
	store.ModeIntentLock: 1,
	store.ModeBuilder:    2,
}

// Manager applies provider-reported state to a session. The model owns
// convergence judgment; this side only refuses to move backward.
type Manager struct {
	logger *log.Logger
}

// NewManager creates a new state manager
func NewManager(logger *log.Logger) *Manager {
	return &Manager{logger: logger}
}

// Apply copies the reported state onto the session. Mode may stay or
// advance, never regress. On a rejected transition the session is left
// exactly as it was and ErrInvalidTransition is returned.
func (m *Manager) Apply(session *store.Session, reported gateway.TurnState) error {
	currentRank, ok := modeRank[session.Mode]
	if !ok {
		return fmt.Errorf("session %s holds unknown mode %q", session.ID, session.Mode)
	}
	reportedRank, ok := modeRank[reported.Mode]
	if !ok {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidTransition, reported.Mode)
	}

	if reportedRank < currentRank {
		m.logger.Printf("[STATE] Rejected backward transition %s -> %s (session %s)",
			session.Mode, reported.Mode, session.ID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, session.Mode, reported.Mode)
	}

	advanced := reportedRank > currentRank
	previousMode := session.Mode

	// Stored verbatim; confidence is diagnostic metadata only.
	session.Mode = reported.Mode
	session.ConvergenceReady = reported.ConvergenceReady
	session.Confidence = reported.Confidence
	session.DirectionThesis = reported.DirectionThesis
	if reported.NextUserPrompt != "" {
		session.NextUserPrompt = reported.NextUserPrompt
	}

	if advanced {
		session.Append(constant.ChatMessageRoleSystem,
			fmt.Sprintf("Mode advanced: %s -> %s", previousMode, reported.Mode))
		m.logger.Printf("[STATE] Transitioned %s -> %s (session %s)", previousMode, reported.Mode, session.ID)
	}

	return nil
}

// Reset returns the session to its initial state: DISCOVERY mode,
// cleared transcript and blueprint, fresh thread.
func (m *Manager) Reset(session *store.Session) {
	session.Reset()
	m.logger.Printf("[STATE] Reset session %s (epoch %d)", session.ID, session.Epoch)
}
