package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/repositories"
)

// inviteRepository implements the InviteRepository interface
type inviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository creates a new invite repository
func NewInviteRepository(db *gorm.DB) repositories.InviteRepository {
	return &inviteRepository{db: db}
}

// Create inserts a pending invite
func (r *inviteRepository) Create(ctx context.Context, invite *entities.Invite) error {
	if err := r.db.WithContext(ctx).Create(invite).Error; err != nil {
		if isUniqueViolation(err) {
			return repositories.ErrDuplicatePending
		}
		return fmt.Errorf("failed to create invite: %w", err)
	}
	return nil
}

// FindByID retrieves an invite by its ID
func (r *inviteRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Invite, error) {
	var invite entities.Invite
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to find invite: %w", err)
	}
	return &invite, nil
}

// FindPendingBetween retrieves the pending invite for the unordered pair
func (r *inviteRepository) FindPendingBetween(ctx context.Context, a, b entities.UserRef) (*entities.Invite, error) {
	low, high := entities.PairKey(a, b)

	var invite entities.Invite
	err := r.db.WithContext(ctx).
		Where("pair_low = ? AND pair_high = ? AND status = ?", low, high, entities.InviteStatusPending).
		First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to find pending invite: %w", err)
	}
	return &invite, nil
}

// Transition moves an invite from one status to another if it is still in `from`
func (r *inviteRepository) Transition(ctx context.Context, id uuid.UUID, from, to entities.InviteStatus, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Invite{}).
		Where("id = ? AND status = ?", id, from).
		Updates(transitionColumns(to, at))
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition invite: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// TransitionIfLive moves a pending, unexpired invite to `to`
func (r *inviteRepository) TransitionIfLive(ctx context.Context, id uuid.UUID, to entities.InviteStatus, at, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Invite{}).
		Where("id = ? AND status = ? AND expires_at >= ?", id, entities.InviteStatusPending, now).
		Updates(transitionColumns(to, at))
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition invite: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// CancelExpired cancels pending invites whose deadline passed
func (r *inviteRepository) CancelExpired(ctx context.Context, now time.Time, scope repositories.ExpiryScope) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&entities.Invite{}).
		Where("status = ? AND expires_at < ?", entities.InviteStatusPending, now)

	switch {
	case scope.User != nil && scope.Counterpart != nil:
		low, high := entities.PairKey(*scope.User, *scope.Counterpart)
		query = query.Where("pair_low = ? AND pair_high = ?", low, high)
	case scope.User != nil:
		query = query.Where("(sender_id = ? OR recipient_id = ?)", *scope.User, *scope.User)
	}

	result := query.Updates(transitionColumns(entities.InviteStatusCancelled, now))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cancel expired invites: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// List retrieves invites with filters and pagination
func (r *inviteRepository) List(ctx context.Context, filters repositories.InviteFilters) ([]*entities.Invite, int64, error) {
	var invites []*entities.Invite
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Invite{})

	// Apply filters
	if filters.SenderID != nil {
		query = query.Where("sender_id = ?", *filters.SenderID)
	}
	if filters.RecipientID != nil {
		query = query.Where("recipient_id = ?", *filters.RecipientID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count invites: %w", err)
	}

	query = query.Order("created_at DESC").Order("id DESC")

	// Apply pagination
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&invites).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list invites: %w", err)
	}
	return invites, total, nil
}

type statusCount struct {
	Status entities.InviteStatus
	Count  int64
}

// CountByStatus counts a user's invites per direction and status
func (r *inviteRepository) CountByStatus(ctx context.Context, user entities.UserRef) (*entities.InviteStats, error) {
	stats := &entities.InviteStats{}

	for column, counts := range map[string]*entities.InviteStatusCounts{
		"recipient_id": &stats.Received,
		"sender_id":    &stats.Sent,
	} {
		var rows []statusCount
		err := r.db.WithContext(ctx).
			Model(&entities.Invite{}).
			Select("status, COUNT(*) AS count").
			Where(column+" = ?", user).
			Group("status").
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count invites by %s: %w", column, err)
		}
		for _, row := range rows {
			counts.Add(row.Status, row.Count)
		}
	}
	return stats, nil
}

// FindAcceptedWithoutSession retrieves accepted invites with no chat session
func (r *inviteRepository) FindAcceptedWithoutSession(ctx context.Context, now time.Time, limit int) ([]*entities.Invite, error) {
	var invites []*entities.Invite
	query := r.db.WithContext(ctx).
		Where("status = ?", entities.InviteStatusAccepted).
		Where("NOT EXISTS (SELECT 1 FROM chat_sessions cs WHERE cs.invite_id = invites.id)").
		Where("(provision_retry_at IS NULL OR provision_retry_at <= ?)", now).
		Order("COALESCE(provision_retry_at, accepted_at) ASC").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&invites).Error; err != nil {
		return nil, fmt.Errorf("failed to find unprovisioned invites: %w", err)
	}
	return invites, nil
}

// RecordProvisionFailure counts a failed attempt and defers the next one
func (r *inviteRepository) RecordProvisionFailure(ctx context.Context, id uuid.UUID, retryAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&entities.Invite{}).
		Where("id = ? AND status = ?", id, entities.InviteStatusAccepted).
		Updates(map[string]interface{}{
			"provision_attempts": gorm.Expr("provision_attempts + 1"),
			"provision_retry_at": retryAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to record provisioning failure: %w", err)
	}
	return nil
}

// transitionColumns sets the status with its matching timestamp
func transitionColumns(to entities.InviteStatus, at time.Time) map[string]interface{} {
	columns := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	switch to {
	case entities.InviteStatusAccepted:
		columns["accepted_at"] = at
	case entities.InviteStatusDeclined:
		columns["declined_at"] = at
	case entities.InviteStatusCancelled:
		columns["cancelled_at"] = at
	}
	return columns
}
