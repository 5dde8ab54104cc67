package dto

import (
	"time"

	"github.com/google/uuid"
)

// SessionStateDTO is the client view of the conversation state.
type SessionStateDTO struct {
	Mode             string         `json:"mode"`
	ConvergenceReady bool           `json:"convergence_ready"`
	Confidence       map[string]int `json:"confidence"`
	DirectionThesis  string         `json:"direction_thesis"`
	NextUserPrompt   string         `json:"next_user_prompt"`
}

type CreateSessionResponse struct {
	Id        uuid.UUID       `json:"id"`
	Greeting  string          `json:"greeting"`
	State     SessionStateDTO `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Chat          string    `json:"chat" validate:"required"`
}

type SendChatResponseChat struct {
	Id        string    `json:"id"`
	Chat      string    `json:"chat"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type SendChatResponse struct {
	ChatSessionId  uuid.UUID             `json:"chat_session_id"`
	Sent           *SendChatResponseChat `json:"sent"`
	Reply          *SendChatResponseChat `json:"reply"`
	State          SessionStateDTO       `json:"state"`
	ModeAdvanced   bool                  `json:"mode_advanced"`
	ModeRejected   bool                  `json:"mode_rejected"`
	BlueprintReady bool                  `json:"blueprint_ready"`
}

type GetChatHistoryResponse struct {
	Id        string    `json:"id"`
	Role      string    `json:"role"`
	Chat      string    `json:"chat"`
	CreatedAt time.Time `json:"created_at"`
}

type ResetSessionResponse struct {
	Id    uuid.UUID       `json:"id"`
	State SessionStateDTO `json:"state"`
}

// BlueprintEventDTO rides the session stream when a document lands.
type BlueprintEventDTO struct {
	ChatSessionId uuid.UUID `json:"chat_session_id"`
	Issues        int       `json:"issues"`
	Unavailable   bool      `json:"unavailable"`
	GeneratedAt   time.Time `json:"generated_at"`
}
