package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/ports"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/repositories"
	usecaseErrors "github.com/PtKartikVashishtha/BecopyMain-sub000/internal/usecase/errors"
)

// reconcileBatch bounds how many invites one ProvisionPending pass handles
const reconcileBatch = 50

// A failed invite waits retryBase before its next attempt, doubling per
// failure up to retryMax.
const (
	retryBase = time.Minute
	retryMax  = 6 * time.Hour
)

// provisionRetryDelay is the wait after the given number of prior failures
func provisionRetryDelay(attempts int) time.Duration {
	delay := retryBase
	for i := 0; i < attempts && delay < retryMax; i++ {
		delay *= 2
	}
	if delay > retryMax {
		delay = retryMax
	}
	return delay
}

// ChatService provisions chat sessions and keeps their bookkeeping
type ChatService struct {
	sessionRepo repositories.ChatSessionRepository
	inviteRepo  repositories.InviteRepository
	directory   repositories.DirectoryRepository
	provider    ports.ChatProvider
	notifier    ports.Notifier
	tokenTTL    time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

var _ Service = (*ChatService)(nil)

// NewChatService creates a new chat service
func NewChatService(
	sessionRepo repositories.ChatSessionRepository,
	inviteRepo repositories.InviteRepository,
	directory repositories.DirectoryRepository,
	provider ports.ChatProvider,
	notifier ports.Notifier,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		sessionRepo: sessionRepo,
		inviteRepo:  inviteRepo,
		directory:   directory,
		provider:    provider,
		notifier:    notifier,
		tokenTTL:    tokenTTL,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source
func (s *ChatService) WithClock(now func() time.Time) *ChatService {
	s.now = now
	return s
}

// ProvisionFromAcceptedInvite creates the session for an accepted invite or returns the existing one
func (s *ChatService) ProvisionFromAcceptedInvite(ctx context.Context, inviteID uuid.UUID, userID entities.UserRef) (*ProvisionOutput, error) {
	invite, err := s.inviteRepo.FindByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, entities.ErrInviteNotFound) {
			return nil, usecaseErrors.ErrInviteNotFound
		}
		return nil, usecaseErrors.Internal(fmt.Errorf("failed to get invite: %w", err))
	}
	if !invite.IsParty(userID) {
		return nil, usecaseErrors.ErrInviteNotFound
	}
	return s.provision(ctx, invite)
}

// ProvisionPending provisions sessions for accepted invites left without one
func (s *ChatService) ProvisionPending(ctx context.Context) (int, error) {
	now := s.now()
	invites, err := s.inviteRepo.FindAcceptedWithoutSession(ctx, now, reconcileBatch)
	if err != nil {
		return 0, usecaseErrors.Internal(fmt.Errorf("failed to find unprovisioned invites: %w", err))
	}

	provisioned := 0
	for _, invite := range invites {
		if ctx.Err() != nil {
			break
		}
		out, err := s.provision(ctx, invite)
		if err != nil {
			retryAt := now.Add(provisionRetryDelay(invite.ProvisionAttempts))
			s.logger.Warn("chat.reconcile.failed",
				zap.String("invite_id", invite.ID.String()),
				zap.Int("attempts", invite.ProvisionAttempts+1),
				zap.Time("retry_at", retryAt),
				zap.Error(err),
			)
			if ctx.Err() != nil {
				break
			}
			if rerr := s.inviteRepo.RecordProvisionFailure(ctx, invite.ID, retryAt); rerr != nil {
				s.logger.Error("chat.reconcile.record_failed",
					zap.String("invite_id", invite.ID.String()),
					zap.Error(rerr),
				)
			}
			continue
		}
		if out.Created {
			provisioned++
		}
	}
	return provisioned, nil
}

func (s *ChatService) provision(ctx context.Context, invite *entities.Invite) (*ProvisionOutput, error) {
	if invite.Status != entities.InviteStatusAccepted {
		return nil, usecaseErrors.ErrInviteNotAccepted
	}

	existing, err := s.sessionRepo.FindByInviteID(ctx, invite.ID)
	if err == nil {
		return &ProvisionOutput{Session: existing}, nil
	}
	if !errors.Is(err, entities.ErrChatSessionNotFound) {
		return nil, usecaseErrors.Internal(fmt.Errorf("failed to get chat session: %w", err))
	}

	sender, err := s.providerUser(ctx, invite.SenderID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.providerUser(ctx, invite.RecipientID)
	if err != nil {
		return nil, err
	}

	// Provider calls are upserts keyed by stable ids, so a failed attempt is retried from the top
	for _, user := range []ports.ProviderUser{sender, recipient} {
		if err := s.provider.UpsertUser(ctx, user); err != nil {
			return nil, usecaseErrors.ErrChatProvider.Wrap(fmt.Errorf("upsert user %s: %w", user.Ref, err))
		}
	}

	ref := entities.ConversationRefFor(invite.ID)
	metadata := map[string]string{
		"invite_id":    invite.ID.String(),
		"sender_id":    invite.SenderID.String(),
		"recipient_id": invite.RecipientID.String(),
	}
	subject := fmt.Sprintf("%s & %s", sender.Name, recipient.Name)
	participants := []entities.UserRef{invite.SenderID, invite.RecipientID}
	if err := s.provider.UpsertConversation(ctx, ref, participants, subject, metadata); err != nil {
		return nil, usecaseErrors.ErrChatProvider.Wrap(fmt.Errorf("upsert conversation %s: %w", ref, err))
	}

	session := entities.NewChatSession(invite, s.provider.Name(), s.now())
	if raw, err := json.Marshal(metadata); err == nil {
		session.Metadata = datatypes.JSON(raw)
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		if errors.Is(err, repositories.ErrDuplicateSession) {
			winner, findErr := s.sessionRepo.FindByInviteID(ctx, invite.ID)
			if findErr != nil {
				return nil, usecaseErrors.Internal(fmt.Errorf("failed to re-read chat session: %w", findErr))
			}
			return &ProvisionOutput{Session: winner}, nil
		}
		return nil, usecaseErrors.Internal(fmt.Errorf("failed to create chat session: %w", err))
	}

	s.logger.Info("chat.session.created",
		zap.String("session_id", session.ID.String()),
		zap.String("invite_id", invite.ID.String()),
		zap.String("conversation_ref", ref),
	)
	s.notifier.SessionCreated(ctx, session)

	return &ProvisionOutput{Session: session, Created: true}, nil
}

// providerUser builds the provider profile of a participant from the directory
func (s *ChatService) providerUser(ctx context.Context, ref entities.UserRef) (ports.ProviderUser, error) {
	user, err := s.directory.GetUser(ctx, ref)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return ports.ProviderUser{Ref: ref, Name: ref.String()}, nil
		}
		return ports.ProviderUser{}, usecaseErrors.Internal(fmt.Errorf("failed to get user: %w", err))
	}
	return ports.ProviderUser{
		Ref:     ref,
		Name:    user.Name,
		Email:   user.Email,
		Role:    user.UserType,
		Country: user.Country,
	}, nil
}

// UpdateActivity records an inbound message event
func (s *ChatService) UpdateActivity(ctx context.Context, input ActivityInput) error {
	ref := strings.TrimSpace(input.ConversationRef)
	if ref == "" {
		return usecaseErrors.ErrInvalidInput.WithMessage("conversation reference is required")
	}

	at := input.At
	if at.IsZero() {
		at = s.now()
	}

	activity := repositories.Activity{
		Preview:  entities.TruncatePreview(strings.TrimSpace(input.MessageText)),
		SenderID: input.SenderID,
		At:       at.UTC(),
	}
	if err := s.sessionRepo.RecordActivity(ctx, ref, activity); err != nil {
		if errors.Is(err, entities.ErrChatSessionNotFound) {
			return usecaseErrors.ErrChatSessionNotFound
		}
		return usecaseErrors.Internal(fmt.Errorf("failed to record activity: %w", err))
	}
	return nil
}

// Archive moves an active session to archived
func (s *ChatService) Archive(ctx context.Context, sessionID uuid.UUID, userID entities.UserRef) (*entities.ChatSession, error) {
	return s.transition(ctx, sessionID, userID, entities.ChatSessionStatusArchived)
}

// Block moves an active session to blocked
func (s *ChatService) Block(ctx context.Context, sessionID uuid.UUID, userID entities.UserRef) (*entities.ChatSession, error) {
	return s.transition(ctx, sessionID, userID, entities.ChatSessionStatusBlocked)
}

func (s *ChatService) transition(ctx context.Context, sessionID uuid.UUID, userID entities.UserRef, to entities.ChatSessionStatus) (*entities.ChatSession, error) {
	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status == to {
		return session, nil
	}
	if session.Status != entities.ChatSessionStatusActive {
		return nil, usecaseErrors.ErrChatSessionInvalidTransition
	}

	now := s.now()
	ok, err := s.sessionRepo.Transition(ctx, sessionID, entities.ChatSessionStatusActive, to, userID, now)
	if err != nil {
		return nil, usecaseErrors.Internal(fmt.Errorf("failed to update chat session: %w", err))
	}
	if !ok {
		// Somebody else moved it first; repeating the same target is still fine
		current, err := s.sessionRepo.FindByID(ctx, sessionID)
		if err == nil && current.Status == to {
			return current, nil
		}
		return nil, usecaseErrors.ErrChatSessionInvalidTransition
	}

	session.Status = to
	session.UpdatedAt = now
	switch to {
	case entities.ChatSessionStatusArchived:
		session.ArchivedAt = &now
	case entities.ChatSessionStatusBlocked:
		session.BlockedAt = &now
		session.BlockedBy = &userID
	}

	s.logger.Info("chat.session."+string(to),
		zap.String("session_id", sessionID.String()),
		zap.String("user_id", userID.String()),
	)
	return session, nil
}

// Get retrieves a session visible to the user
func (s *ChatService) Get(ctx context.Context, sessionID uuid.UUID, userID entities.UserRef) (*entities.ChatSession, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, entities.ErrChatSessionNotFound) {
			return nil, usecaseErrors.ErrChatSessionNotFound
		}
		return nil, usecaseErrors.Internal(fmt.Errorf("failed to get chat session: %w", err))
	}
	if !session.HasParticipant(userID) {
		return nil, usecaseErrors.ErrChatSessionNotFound
	}
	return session, nil
}

// List lists the user's sessions
func (s *ChatService) List(ctx context.Context, userID entities.UserRef, input ListInput) (*ListOutput, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, usecaseErrors.ErrInvalidInput.WithMessage("unknown chat session status %q", *input.Status)
	}

	page, size := input.normalize()
	items, total, err := s.sessionRepo.List(ctx, repositories.ChatSessionFilters{
		Participant: userID,
		Status:      input.Status,
		Limit:       size,
		Offset:      (page - 1) * size,
	})
	if err != nil {
		return nil, usecaseErrors.Internal(fmt.Errorf("failed to list chat sessions: %w", err))
	}
	return &ListOutput{Items: items, Total: total, Page: page, PageSize: size}, nil
}

// IssueSessionToken issues a provider token for an active session
func (s *ChatService) IssueSessionToken(ctx context.Context, sessionID uuid.UUID, userID entities.UserRef) (*SessionToken, error) {
	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, usecaseErrors.ErrChatSessionNotActive
	}

	issuedAt := s.now()
	token, err := s.provider.IssueSessionToken(ctx, userID, session.ConversationRef, s.tokenTTL)
	if err != nil {
		return nil, usecaseErrors.ErrChatProvider.Wrap(fmt.Errorf("issue token: %w", err))
	}

	return &SessionToken{
		Token:           token,
		Provider:        session.Provider,
		ConversationRef: session.ConversationRef,
		ExpiresAt:       issuedAt.Add(s.tokenTTL),
	}, nil
}
