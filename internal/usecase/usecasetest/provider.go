package usecasetest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/ports"
)

// ErrProviderDown is returned by FakeProvider while failures are injected
var ErrProviderDown = errors.New("provider unavailable")

// FakeProvider is a chat provider that records upserts and can be made to fail
type FakeProvider struct {
	mu            sync.Mutex
	failures      int
	rejected      map[entities.UserRef]bool
	users         map[entities.UserRef]ports.ProviderUser
	conversations map[string][]entities.UserRef
}

var _ ports.ChatProvider = (*FakeProvider)(nil)

// NewFakeProvider creates a healthy provider
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		rejected:      make(map[entities.UserRef]bool),
		users:         make(map[entities.UserRef]ports.ProviderUser),
		conversations: make(map[string][]entities.UserRef),
	}
}

// FailNext makes the next n calls fail
func (p *FakeProvider) FailNext(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures = n
}

// Reject makes every upsert of the user fail, as a provider refusing a profile would
func (p *FakeProvider) Reject(ref entities.UserRef) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rejected[ref] = true
}

// Conversations returns the number of distinct conversations created
func (p *FakeProvider) Conversations() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conversations)
}

// HasUser reports whether a user was upserted
func (p *FakeProvider) HasUser(ref entities.UserRef) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.users[ref]
	return ok
}

func (p *FakeProvider) fail() bool {
	if p.failures > 0 {
		p.failures--
		return true
	}
	return false
}

func (p *FakeProvider) Name() string { return "fake" }

func (p *FakeProvider) UpsertUser(ctx context.Context, user ports.ProviderUser) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail() || p.rejected[user.Ref] {
		return ErrProviderDown
	}
	p.users[user.Ref] = user
	return nil
}

func (p *FakeProvider) UpsertConversation(ctx context.Context, ref string, participants []entities.UserRef, subject string, metadata map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail() {
		return ErrProviderDown
	}
	p.conversations[ref] = participants
	return nil
}

func (p *FakeProvider) IssueSessionToken(ctx context.Context, user entities.UserRef, conversationRef string, ttl time.Duration) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail() {
		return "", ErrProviderDown
	}
	return "token-" + user.String(), nil
}
