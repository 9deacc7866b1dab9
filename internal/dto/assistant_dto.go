package dto

import (
	"time"

	"enterprise-assistant-be/pkg/assistant/action"
	"enterprise-assistant-be/pkg/retrieval"
)

type CreateSessionResponse struct {
	SessionId string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type InvokeRequest struct {
	SessionId string `json:"session_id" validate:"omitempty,max=64"`
	// Pointer so that an empty reply is distinguishable from a missing field.
	Message   *string `json:"message" validate:"required"`
}

type PendingActionDTO struct {
	Category     string    `json:"category"`
	OriginalText string    `json:"original_text"`
	CreatedAt    time.Time `json:"created_at"`
}

type InvokeResponse struct {
	SessionId     string              `json:"session_id"`
	Output        string              `json:"output"`
	Kind          string              `json:"kind"` // refusal | confirm_prompt | reprompt | cancelled | action | answer
	PendingAction *PendingActionDTO   `json:"pending_action,omitempty"`
	Action        *action.Result      `json:"action,omitempty"`
	Sources       []retrieval.Passage `json:"sources,omitempty"`
}

type SessionResponse struct {
	SessionId     string            `json:"session_id"`
	PendingAction *PendingActionDTO `json:"pending_action,omitempty"`
	LastQuery     string            `json:"last_query,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
