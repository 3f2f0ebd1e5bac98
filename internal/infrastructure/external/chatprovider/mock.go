package chatprovider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/ports"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/config"
)

// Mock keeps users and conversations in memory. Used in development.
type Mock struct {
	mu            sync.Mutex
	users         map[entities.UserRef]ports.ProviderUser
	conversations map[string][]entities.UserRef
}

var _ ports.ChatProvider = (*Mock)(nil)

// NewMock creates an in-memory provider
func NewMock() *Mock {
	return &Mock{
		users:         make(map[entities.UserRef]ports.ProviderUser),
		conversations: make(map[string][]entities.UserRef),
	}
}

func (m *Mock) Name() string { return config.ProviderMock }

func (m *Mock) UpsertUser(_ context.Context, user ports.ProviderUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Ref] = user
	return nil
}

func (m *Mock) UpsertConversation(_ context.Context, ref string, participants []entities.UserRef, _ string, _ map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations[ref] = append([]entities.UserRef(nil), participants...)
	return nil
}

func (m *Mock) IssueSessionToken(_ context.Context, user entities.UserRef, conversationRef string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("mock.%s.%s.%d", user, conversationRef, time.Now().Add(ttl).Unix()), nil
}

// HasConversation reports whether ref was upserted
func (m *Mock) HasConversation(ref string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.conversations[ref]
	return ok
}
