// Package usecasetest provides in-memory implementations of the domain ports
// for exercising usecases without a database.
package usecasetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/repositories"
)

// Store holds invites and chat sessions behind one mutex, which gives the same
// compare-and-swap guarantees as the database implementations.
type Store struct {
	mu       sync.Mutex
	invites  map[uuid.UUID]*entities.Invite
	sessions map[uuid.UUID]*entities.ChatSession
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		invites:  make(map[uuid.UUID]*entities.Invite),
		sessions: make(map[uuid.UUID]*entities.ChatSession),
	}
}

// Invites returns the store as an InviteRepository
func (s *Store) Invites() repositories.InviteRepository { return (*inviteRepo)(s) }

// Sessions returns the store as a ChatSessionRepository
func (s *Store) Sessions() repositories.ChatSessionRepository { return (*sessionRepo)(s) }

// PutInvite stores an invite as-is, bypassing uniqueness checks
func (s *Store) PutInvite(invite *entities.Invite) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *invite
	s.invites[invite.ID] = &cp
}

// InviteStatus returns the stored status of an invite
func (s *Store) InviteStatus(id uuid.UUID) entities.InviteStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv, ok := s.invites[id]; ok {
		return inv.Status
	}
	return ""
}

// CountPending counts pending invites between two users
func (s *Store) CountPending(a, b entities.UserRef) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	low, high := entities.PairKey(a, b)
	n := 0
	for _, inv := range s.invites {
		l, h := entities.PairKey(inv.SenderID, inv.RecipientID)
		if l == low && h == high && inv.Status == entities.InviteStatusPending {
			n++
		}
	}
	return n
}

// Invite returns a copy of the stored invite
func (s *Store) Invite(id uuid.UUID) *entities.Invite {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invites[id]
	if !ok {
		return nil
	}
	cp := *inv
	return &cp
}

// SessionCount returns the number of stored chat sessions
func (s *Store) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type inviteRepo Store

func (r *inviteRepo) Create(ctx context.Context, invite *entities.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	low, high := entities.PairKey(invite.SenderID, invite.RecipientID)
	for _, inv := range r.invites {
		l, h := entities.PairKey(inv.SenderID, inv.RecipientID)
		if l == low && h == high && inv.Status == entities.InviteStatusPending {
			return repositories.ErrDuplicatePending
		}
	}
	if invite.ID == uuid.Nil {
		invite.ID = uuid.New()
	}
	invite.PairLow, invite.PairHigh = low, high
	cp := *invite
	r.invites[invite.ID] = &cp
	return nil
}

func (r *inviteRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invites[id]
	if !ok {
		return nil, entities.ErrInviteNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *inviteRepo) FindPendingBetween(ctx context.Context, a, b entities.UserRef) (*entities.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	low, high := entities.PairKey(a, b)
	for _, inv := range r.invites {
		l, h := entities.PairKey(inv.SenderID, inv.RecipientID)
		if l == low && h == high && inv.Status == entities.InviteStatusPending {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, entities.ErrInviteNotFound
}

func (r *inviteRepo) Transition(ctx context.Context, id uuid.UUID, from, to entities.InviteStatus, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invites[id]
	if !ok || inv.Status != from {
		return false, nil
	}
	inv.ApplyTransition(to, at)
	return true, nil
}

func (r *inviteRepo) TransitionIfLive(ctx context.Context, id uuid.UUID, to entities.InviteStatus, at, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invites[id]
	if !ok || inv.Status != entities.InviteStatusPending || inv.ExpiresAt.Before(now) {
		return false, nil
	}
	inv.ApplyTransition(to, at)
	return true, nil
}

func (r *inviteRepo) CancelExpired(ctx context.Context, now time.Time, scope repositories.ExpiryScope) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, inv := range r.invites {
		if inv.Status != entities.InviteStatusPending || !inv.ExpiresAt.Before(now) {
			continue
		}
		if scope.User != nil && !inv.IsParty(*scope.User) {
			continue
		}
		if scope.User != nil && scope.Counterpart != nil && inv.Counterpart(*scope.User) != *scope.Counterpart {
			continue
		}
		inv.ApplyTransition(entities.InviteStatusCancelled, now)
		n++
	}
	return n, nil
}

func (r *inviteRepo) List(ctx context.Context, filters repositories.InviteFilters) ([]*entities.Invite, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entities.Invite
	for _, inv := range r.invites {
		if filters.SenderID != nil && inv.SenderID != *filters.SenderID {
			continue
		}
		if filters.RecipientID != nil && inv.RecipientID != *filters.RecipientID {
			continue
		}
		if filters.Status != nil && inv.Status != *filters.Status {
			continue
		}
		cp := *inv
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := filters.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filters.Limit > 0 && start+filters.Limit < end {
		end = start + filters.Limit
	}
	return matched[start:end], total, nil
}

func (r *inviteRepo) CountByStatus(ctx context.Context, user entities.UserRef) (*entities.InviteStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &entities.InviteStats{}
	for _, inv := range r.invites {
		if inv.RecipientID == user {
			stats.Received.Add(inv.Status, 1)
		}
		if inv.SenderID == user {
			stats.Sent.Add(inv.Status, 1)
		}
	}
	return stats, nil
}

func (r *inviteRepo) FindAcceptedWithoutSession(ctx context.Context, now time.Time, limit int) ([]*entities.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	provisioned := make(map[uuid.UUID]bool, len(r.sessions))
	for _, sess := range r.sessions {
		provisioned[sess.InviteID] = true
	}
	var out []*entities.Invite
	for _, inv := range r.invites {
		if inv.Status != entities.InviteStatusAccepted || provisioned[inv.ID] {
			continue
		}
		if inv.ProvisionRetryAt != nil && inv.ProvisionRetryAt.After(now) {
			continue
		}
		cp := *inv
		out = append(out, &cp)
	}
	// same queue order as the databases: COALESCE(provision_retry_at, accepted_at), id
	sort.Slice(out, func(i, j int) bool {
		qi, qj := provisionQueueAt(out[i]), provisionQueueAt(out[j])
		if !qi.Equal(qj) {
			return qi.Before(qj)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func provisionQueueAt(inv *entities.Invite) time.Time {
	if inv.ProvisionRetryAt != nil {
		return *inv.ProvisionRetryAt
	}
	if inv.AcceptedAt != nil {
		return *inv.AcceptedAt
	}
	return time.Time{}
}

func (r *inviteRepo) RecordProvisionFailure(ctx context.Context, id uuid.UUID, retryAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invites[id]
	if !ok || inv.Status != entities.InviteStatusAccepted {
		return nil
	}
	inv.ProvisionAttempts++
	at := retryAt
	inv.ProvisionRetryAt = &at
	return nil
}

type sessionRepo Store

func (r *sessionRepo) Create(ctx context.Context, session *entities.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.sessions {
		if existing.InviteID == session.InviteID {
			return repositories.ErrDuplicateSession
		}
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, entities.ErrChatSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (r *sessionRepo) FindByInviteID(ctx context.Context, inviteID uuid.UUID) (*entities.ChatSession, error) {
	return r.findBy(func(s *entities.ChatSession) bool { return s.InviteID == inviteID })
}

func (r *sessionRepo) findBy(match func(*entities.ChatSession) bool) (*entities.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sess := range r.sessions {
		if match(sess) {
			cp := *sess
			return &cp, nil
		}
	}
	return nil, entities.ErrChatSessionNotFound
}

func (r *sessionRepo) RecordActivity(ctx context.Context, ref string, activity repositories.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sess := range r.sessions {
		if sess.ConversationRef != ref {
			continue
		}
		preview, at := activity.Preview, activity.At
		sess.MessageCount++
		sess.LastMessagePreview = &preview
		sess.LastMessageSenderID = activity.SenderID
		sess.LastMessageAt = &at
		if at.After(sess.LastActivity) {
			sess.LastActivity = at
		}
		return nil
	}
	return entities.ErrChatSessionNotFound
}

func (r *sessionRepo) Transition(ctx context.Context, id uuid.UUID, from, to entities.ChatSessionStatus, by entities.UserRef, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok || sess.Status != from {
		return false, nil
	}
	sess.Status = to
	sess.UpdatedAt = at
	switch to {
	case entities.ChatSessionStatusArchived:
		sess.ArchivedAt = &at
	case entities.ChatSessionStatusBlocked:
		sess.BlockedAt = &at
		sess.BlockedBy = &by
	}
	return true, nil
}

func (r *sessionRepo) List(ctx context.Context, filters repositories.ChatSessionFilters) ([]*entities.ChatSession, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entities.ChatSession
	for _, sess := range r.sessions {
		if !sess.HasParticipant(filters.Participant) {
			continue
		}
		if filters.Status != nil && sess.Status != *filters.Status {
			continue
		}
		cp := *sess
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].LastActivity.After(matched[j].LastActivity) })

	total := int64(len(matched))
	start := filters.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filters.Limit > 0 && start+filters.Limit < end {
		end = start + filters.Limit
	}
	return matched[start:end], total, nil
}
