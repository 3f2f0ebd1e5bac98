package chat

import "time"

// ListChatSessionsRequest represents query parameters for listing chat sessions
type ListChatSessionsRequest struct {
	Status   *string `query:"status" validate:"omitempty,oneof=active archived blocked"`
	Page     int     `query:"page" validate:"omitempty,min=1"`
	PageSize int     `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// ProviderWebhookRequest is a message event pushed by the chat provider.
// TalkJS nests the conversation, other providers send it flat.
type ProviderWebhookRequest struct {
	EventType       string               `json:"eventType"`
	ConversationRef string               `json:"conversationRef"`
	Conversation    *WebhookConversation `json:"conversation,omitempty"`
	MessageText     string               `json:"messageText"`
	SenderID        string               `json:"senderId"`
	CreatedAt       *time.Time           `json:"createdAt,omitempty"`
	Message         *WebhookMessage      `json:"message,omitempty"`
	ID              string               `json:"id"`
}

// WebhookConversation identifies the conversation in nested payloads
type WebhookConversation struct {
	ID string `json:"id"`
}

// WebhookMessage is the nested message of a provider event
type WebhookMessage struct {
	Text     string `json:"text"`
	SenderID string `json:"senderId"`
}

// Ref returns the conversation reference from either payload shape
func (r *ProviderWebhookRequest) Ref() string {
	if r.ConversationRef != "" {
		return r.ConversationRef
	}
	if r.Conversation != nil {
		return r.Conversation.ID
	}
	return ""
}

// Text returns the message body from either payload shape
func (r *ProviderWebhookRequest) Text() string {
	if r.MessageText != "" {
		return r.MessageText
	}
	if r.Message != nil {
		return r.Message.Text
	}
	return ""
}

// Sender returns the sender id from either payload shape
func (r *ProviderWebhookRequest) Sender() string {
	if r.SenderID != "" {
		return r.SenderID
	}
	if r.Message != nil {
		return r.Message.SenderID
	}
	return ""
}
