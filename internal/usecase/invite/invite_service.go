package invite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/ports"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/repositories"
	usecaseErrors "github.com/PtKartikVashishtha/BecopyMain-sub000/internal/usecase/errors"
)

// InviteService handles the invite state machine and its read paths
type InviteService struct {
	inviteRepo repositories.InviteRepository
	directory  repositories.DirectoryRepository
	notifier   ports.Notifier
	policy     Policy
	logger     *zap.Logger
	now        func() time.Time
}

var _ Service = (*InviteService)(nil)

// NewInviteService creates a new invite service
func NewInviteService(
	inviteRepo repositories.InviteRepository,
	directory repositories.DirectoryRepository,
	notifier ports.Notifier,
	policy Policy,
	logger *zap.Logger,
) *InviteService {
	return &InviteService{
		inviteRepo: inviteRepo,
		directory:  directory,
		notifier:   notifier,
		policy:     policy,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source
func (s *InviteService) WithClock(now func() time.Time) *InviteService {
	s.now = now
	return s
}

// Create sends a new invite
func (s *InviteService) Create(ctx context.Context, input CreateInput) (*entities.Invite, error) {
	message := strings.TrimSpace(input.Message)
	if n := utf8.RuneCountInString(message); n < s.policy.MessageMin || n > s.policy.MessageMax {
		return nil, usecaseErrors.ErrInvalidMessage.WithMessage(
			"message must be between %d and %d characters", s.policy.MessageMin, s.policy.MessageMax)
	}
	if input.SenderID.IsZero() || input.RecipientID.IsZero() {
		return nil, usecaseErrors.ErrInvalidInput.WithMessage("sender and recipient are required")
	}
	if input.SenderID == input.RecipientID {
		return nil, usecaseErrors.ErrSelfInvite
	}

	sender, err := s.lookupUser(ctx, input.SenderID)
	if err != nil {
		return nil, err
	}
	if !sender.CanSendInvites() {
		return nil, usecaseErrors.ErrSenderUnavailable
	}

	recipient, err := s.lookupUser(ctx, input.RecipientID)
	if err != nil {
		return nil, err
	}
	if !recipient.CanReceiveInvites(s.policy.RequireVerifiedRecipient) {
		return nil, usecaseErrors.ErrRecipientUnavailable
	}

	now := s.now()

	// An expired invite still holds the pending slot until it is swept
	scope := repositories.ExpiryScope{User: &input.SenderID, Counterpart: &input.RecipientID}
	if _, err := s.inviteRepo.CancelExpired(ctx, now, scope); err != nil {
		return nil, usecaseErrors.Internal(fmt.Errorf("failed to sweep expired invites: %w", err))
	}

	invite, err := entities.NewInvite(input.SenderID, input.RecipientID, message, now, s.policy.Expiry)
	if err != nil {
		return nil, usecaseErrors.ErrSelfInvite
	}

	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		if errors.Is(err, repositories.ErrDuplicatePending) {
			return nil, usecaseErrors.ErrDuplicateInvite
		}
		return nil, usecaseErrors.Internal(fmt.Errorf("failed to create invite: %w", err))
	}

	s.logger.Info("invite.created",
		zap.String("invite_id", invite.ID.String()),
		zap.String("sender_id", invite.SenderID.String()),
		zap.String("recipient_id", invite.RecipientID.String()),
	)
	s.notifier.InviteReceived(ctx, invite)

	return invite, nil
}

// Get retrieves an invite visible to the acting user
func (s *InviteService) Get(ctx context.Context, inviteID uuid.UUID, userID entities.UserRef) (*entities.Invite, error) {
	invite, err := s.findInvite(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if !invite.IsParty(userID) {
		return nil, usecaseErrors.ErrInviteNotFound
	}

	now := s.now()
	if invite.IsExpired(now) {
		s.expire(ctx, invite, now)
	}
	return invite, nil
}

// Accept accepts a pending invite
func (s *InviteService) Accept(ctx context.Context, inviteID uuid.UUID, userID entities.UserRef) (*entities.Invite, error) {
	invite, err := s.respond(ctx, inviteID, userID, entities.InviteStatusAccepted)
	if err != nil {
		return nil, err
	}
	s.notifier.InviteAccepted(ctx, invite)
	return invite, nil
}

// Decline declines a pending invite
func (s *InviteService) Decline(ctx context.Context, inviteID uuid.UUID, userID entities.UserRef) (*entities.Invite, error) {
	invite, err := s.respond(ctx, inviteID, userID, entities.InviteStatusDeclined)
	if err != nil {
		return nil, err
	}
	s.notifier.InviteDeclined(ctx, invite)
	return invite, nil
}

// respond runs the recipient side of the state machine
func (s *InviteService) respond(ctx context.Context, inviteID uuid.UUID, userID entities.UserRef, to entities.InviteStatus) (*entities.Invite, error) {
	invite, err := s.findInvite(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if invite.RecipientID != userID {
		return nil, usecaseErrors.ErrNotInviteRecipient
	}
	if invite.Status.IsTerminal() {
		return nil, usecaseErrors.ErrInviteNotFoundOrAlreadyProcessed
	}

	now := s.now()
	if invite.IsExpired(now) {
		s.expire(ctx, invite, now)
		return nil, usecaseErrors.ErrInviteExpired
	}

	ok, err := s.inviteRepo.TransitionIfLive(ctx, inviteID, to, now, now)
	if err != nil {
		return nil, usecaseErrors.Internal(fmt.Errorf("failed to %s invite: %w", verb(to), err))
	}
	if !ok {
		return nil, s.lostTransition(ctx, inviteID, now)
	}

	invite.ApplyTransition(to, now)
	s.logger.Info("invite."+string(to),
		zap.String("invite_id", invite.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return invite, nil
}

// Cancel withdraws a pending invite
func (s *InviteService) Cancel(ctx context.Context, inviteID uuid.UUID, userID entities.UserRef) (*entities.Invite, error) {
	invite, err := s.findInvite(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if invite.SenderID != userID {
		return nil, usecaseErrors.ErrNotInviteSender
	}
	if invite.Status.IsTerminal() {
		return nil, usecaseErrors.ErrInviteNotFoundOrAlreadyProcessed
	}

	// expired invites are swept without a cancellation notice
	now := s.now()
	if invite.IsExpired(now) {
		s.expire(ctx, invite, now)
		if invite.Status == entities.InviteStatusCancelled {
			return invite, nil
		}
		current, err := s.inviteRepo.FindByID(ctx, inviteID)
		if err == nil && current.Status == entities.InviteStatusCancelled {
			return current, nil
		}
		return nil, usecaseErrors.ErrInviteNotFoundOrAlreadyProcessed
	}

	ok, err := s.inviteRepo.Transition(ctx, inviteID, entities.InviteStatusPending, entities.InviteStatusCancelled, now)
	if err != nil {
		return nil, usecaseErrors.Internal(fmt.Errorf("failed to cancel invite: %w", err))
	}
	if !ok {
		return nil, usecaseErrors.ErrInviteNotFoundOrAlreadyProcessed
	}

	invite.ApplyTransition(entities.InviteStatusCancelled, now)
	s.logger.Info("invite.cancelled",
		zap.String("invite_id", invite.ID.String()),
		zap.String("user_id", userID.String()),
	)
	s.notifier.InviteCancelled(ctx, invite)

	return invite, nil
}

// SweepExpired cancels every pending invite past its deadline
func (s *InviteService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.inviteRepo.CancelExpired(ctx, s.now(), repositories.ExpiryScope{})
	if err != nil {
		return 0, usecaseErrors.Internal(fmt.Errorf("failed to sweep expired invites: %w", err))
	}
	if n > 0 {
		s.logger.Info("invite.swept", zap.Int64("count", n))
	}
	return n, nil
}

// ListReceived lists invites addressed to the user
func (s *InviteService) ListReceived(ctx context.Context, userID entities.UserRef, input ListInput) (*ListOutput, error) {
	return s.list(ctx, userID, input, repositories.InviteFilters{RecipientID: &userID})
}

// ListSent lists invites sent by the user
func (s *InviteService) ListSent(ctx context.Context, userID entities.UserRef, input ListInput) (*ListOutput, error) {
	return s.list(ctx, userID, input, repositories.InviteFilters{SenderID: &userID})
}

func (s *InviteService) list(ctx context.Context, userID entities.UserRef, input ListInput, filters repositories.InviteFilters) (*ListOutput, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, usecaseErrors.ErrInvalidInput.WithMessage("unknown invite status %q", *input.Status)
	}
	if err := s.sweepFor(ctx, userID); err != nil {
		return nil, err
	}

	page, size := input.normalize()
	filters.Status = input.Status
	filters.Limit = size
	filters.Offset = (page - 1) * size

	items, total, err := s.inviteRepo.List(ctx, filters)
	if err != nil {
		return nil, usecaseErrors.Internal(fmt.Errorf("failed to list invites: %w", err))
	}

	return &ListOutput{Items: items, Total: total, Page: page, PageSize: size}, nil
}

// Stats counts the user's invites per direction and status
func (s *InviteService) Stats(ctx context.Context, userID entities.UserRef) (*entities.InviteStats, error) {
	if err := s.sweepFor(ctx, userID); err != nil {
		return nil, err
	}
	stats, err := s.inviteRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, usecaseErrors.Internal(fmt.Errorf("failed to count invites: %w", err))
	}
	return stats, nil
}

// CheckEligibility reports whether sender may currently invite recipient. It never writes.
func (s *InviteService) CheckEligibility(ctx context.Context, senderID, recipientID entities.UserRef) (*Eligibility, error) {
	if senderID == recipientID {
		return &Eligibility{Reason: ReasonSelf}, nil
	}

	recipient, err := s.directory.GetUser(ctx, recipientID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return &Eligibility{Reason: ReasonRecipientNotFound}, nil
		}
		return nil, usecaseErrors.Internal(fmt.Errorf("failed to get recipient: %w", err))
	}
	if !recipient.CanReceiveInvites(s.policy.RequireVerifiedRecipient) {
		return &Eligibility{Reason: ReasonRecipientUnavailable}, nil
	}

	existing, err := s.inviteRepo.FindPendingBetween(ctx, senderID, recipientID)
	if err != nil {
		if errors.Is(err, entities.ErrInviteNotFound) {
			return &Eligibility{CanSendInvite: true}, nil
		}
		return nil, usecaseErrors.Internal(fmt.Errorf("failed to find pending invite: %w", err))
	}
	if existing.IsExpired(s.now()) {
		return &Eligibility{CanSendInvite: true}, nil
	}

	id := existing.ID
	return &Eligibility{
		Reason:           ReasonPendingInviteExists,
		Direction:        existing.DirectionFor(senderID),
		ExistingInviteID: &id,
	}, nil
}

func (s *InviteService) findInvite(ctx context.Context, inviteID uuid.UUID) (*entities.Invite, error) {
	invite, err := s.inviteRepo.FindByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, entities.ErrInviteNotFound) {
			return nil, usecaseErrors.ErrInviteNotFound
		}
		return nil, usecaseErrors.Internal(fmt.Errorf("failed to get invite: %w", err))
	}
	return invite, nil
}

func (s *InviteService) lookupUser(ctx context.Context, ref entities.UserRef) (*entities.DirectoryUser, error) {
	user, err := s.directory.GetUser(ctx, ref)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, usecaseErrors.ErrUserNotFound.WithMessage("user %s not found", ref)
		}
		return nil, usecaseErrors.Internal(fmt.Errorf("failed to get user: %w", err))
	}
	return user, nil
}

// expire applies lazy expiry to a single invite. The in-memory copy follows
// whatever the store ends up holding.
func (s *InviteService) expire(ctx context.Context, invite *entities.Invite, now time.Time) {
	ok, err := s.inviteRepo.Transition(ctx, invite.ID, entities.InviteStatusPending, entities.InviteStatusCancelled, now)
	if err != nil {
		s.logger.Warn("invite.expire.failed", zap.String("invite_id", invite.ID.String()), zap.Error(err))
		return
	}
	if ok {
		invite.ApplyTransition(entities.InviteStatusCancelled, now)
		s.logger.Info("invite.expired", zap.String("invite_id", invite.ID.String()))
	}
}

// lostTransition explains why a conditional write matched nothing
func (s *InviteService) lostTransition(ctx context.Context, inviteID uuid.UUID, now time.Time) error {
	current, err := s.inviteRepo.FindByID(ctx, inviteID)
	if err != nil {
		return usecaseErrors.ErrInviteNotFoundOrAlreadyProcessed
	}
	if current.IsExpired(now) {
		s.expire(ctx, current, now)
		return usecaseErrors.ErrInviteExpired
	}
	return usecaseErrors.ErrInviteNotFoundOrAlreadyProcessed
}

func (s *InviteService) sweepFor(ctx context.Context, userID entities.UserRef) error {
	if _, err := s.inviteRepo.CancelExpired(ctx, s.now(), repositories.ExpiryScope{User: &userID}); err != nil {
		return usecaseErrors.Internal(fmt.Errorf("failed to sweep expired invites: %w", err))
	}
	return nil
}

func verb(status entities.InviteStatus) string {
	switch status {
	case entities.InviteStatusAccepted:
		return "accept"
	case entities.InviteStatusDeclined:
		return "decline"
	}
	return "cancel"
}
