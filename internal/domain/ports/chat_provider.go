package ports

import (
	"context"
	"time"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
)

// ProviderUser is a participant as registered with the external chat provider
type ProviderUser struct {
	Ref     entities.UserRef
	Name    string
	Email   string
	Role    string
	Country string
}

// ChatProvider is the external chat service that stores and transports messages.
// Every call is an idempotent upsert and safe to retry.
type ChatProvider interface {
	// Name identifies the provider in stored sessions
	Name() string

	// UpsertUser creates or updates a user
	UpsertUser(ctx context.Context, user ProviderUser) error

	// UpsertConversation creates or updates a conversation keyed by ref
	UpsertConversation(ctx context.Context, ref string, participants []entities.UserRef, subject string, metadata map[string]string) error

	// IssueSessionToken issues a client token for the user valid for ttl.
	// Providers with user-scoped tokens ignore conversationRef.
	IssueSessionToken(ctx context.Context, user entities.UserRef, conversationRef string, ttl time.Duration) (string, error)
}
