package history

import (
	"ai-blueprint-be/internal/constant"
	"ai-blueprint-be/pkg/llm"
	"ai-blueprint-be/pkg/store"
)

// Loader converts a session transcript into provider messages. It only
// matters for providers without server-side threads; with a live
// continuation token the gateway skips history entirely.
type Loader struct {
	limit int
}

// NewLoader creates a history loader keeping at most limit turns.
func NewLoader(limit int) *Loader {
	return &Loader{limit: limit}
}

// Load maps the most recent transcript turns to chat messages.
// System transition records are bookkeeping, not conversation, and are
// filtered out so they never contaminate the model context.
func (l *Loader) Load(session *store.Session) []llm.Message {
	turns := session.AllTurns()

	messages := make([]llm.Message, 0, len(turns))
	for _, turn := range turns {
		if turn.Role == constant.ChatMessageRoleSystem {
			continue
		}
		role := constant.ChatMessageRoleUser
		if turn.Role == constant.ChatMessageRoleAssistant {
			role = constant.ChatMessageRoleAssistant
		}
		messages = append(messages, llm.Message{
			Role:    role,
			Content: turn.Text,
		})
	}

	if l.limit > 0 && len(messages) > l.limit {
		messages = messages[len(messages)-l.limit:]
	}

	return messages
}
