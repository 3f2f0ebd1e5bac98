package chat

import (
	"time"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/dto/common"
)

// LastMessageResponse is the preview of the latest message
type LastMessageResponse struct {
	Preview  string    `json:"preview"`
	SenderID string    `json:"sender_id,omitempty"`
	At       time.Time `json:"at"`
}

// ChatSessionResponse represents a chat session
type ChatSessionResponse struct {
	ID              string               `json:"id"`
	InviteID        string               `json:"invite_id"`
	Participants    []string             `json:"participants"`
	CounterpartID   string               `json:"counterpart_id,omitempty"`
	ConversationRef string               `json:"conversation_ref"`
	Provider        string               `json:"provider"`
	Status          string               `json:"status"`
	LastActivity    time.Time            `json:"last_activity"`
	LastMessage     *LastMessageResponse `json:"last_message,omitempty"`
	MessageCount    int64                `json:"message_count"`
	ArchivedAt      *time.Time           `json:"archived_at,omitempty"`
	BlockedAt       *time.Time           `json:"blocked_at,omitempty"`
	BlockedBy       *string              `json:"blocked_by,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

// ChatSessionListResponse represents a page of chat sessions
type ChatSessionListResponse struct {
	Sessions   []*ChatSessionResponse     `json:"sessions"`
	Pagination *common.PaginationResponse `json:"pagination"`
}

// ProvisionResponse is the session plus whether this call created it
type ProvisionResponse struct {
	Session *ChatSessionResponse `json:"session"`
	Created bool                 `json:"created"`
}

// SessionTokenResponse is a client credential for the chat provider
type SessionTokenResponse struct {
	Token           string    `json:"token"`
	Provider        string    `json:"provider"`
	ConversationRef string    `json:"conversation_ref"`
	ExpiresAt       time.Time `json:"expires_at"`
}
