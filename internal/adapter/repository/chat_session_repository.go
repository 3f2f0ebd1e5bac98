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

// chatSessionRepository implements the ChatSessionRepository interface
type chatSessionRepository struct {
	db *gorm.DB
}

// NewChatSessionRepository creates a new chat session repository
func NewChatSessionRepository(db *gorm.DB) repositories.ChatSessionRepository {
	return &chatSessionRepository{db: db}
}

// Create inserts a chat session
func (r *chatSessionRepository) Create(ctx context.Context, session *entities.ChatSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		if isUniqueViolation(err) {
			return repositories.ErrDuplicateSession
		}
		return fmt.Errorf("failed to create chat session: %w", err)
	}
	return nil
}

// FindByID retrieves a session by its ID
func (r *chatSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ChatSession, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByInviteID retrieves the session produced by an invite
func (r *chatSessionRepository) FindByInviteID(ctx context.Context, inviteID uuid.UUID) (*entities.ChatSession, error) {
	return r.findOne(ctx, "invite_id = ?", inviteID)
}

func (r *chatSessionRepository) findOne(ctx context.Context, cond string, arg interface{}) (*entities.ChatSession, error) {
	var session entities.ChatSession
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrChatSessionNotFound
		}
		return nil, fmt.Errorf("failed to find chat session: %w", err)
	}
	return &session, nil
}

// RecordActivity applies one message event in a single statement
func (r *chatSessionRepository) RecordActivity(ctx context.Context, ref string, activity repositories.Activity) error {
	result := r.db.WithContext(ctx).
		Model(&entities.ChatSession{}).
		Where("conversation_ref = ?", ref).
		Updates(map[string]interface{}{
			"message_count":          gorm.Expr("message_count + 1"),
			"last_message_preview":   activity.Preview,
			"last_message_sender_id": activity.SenderID,
			"last_message_at":        activity.At,
			"last_activity":          gorm.Expr("CASE WHEN last_activity < ? THEN ? ELSE last_activity END", activity.At, activity.At),
			"updated_at":             activity.At,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to record chat activity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrChatSessionNotFound
	}
	return nil
}

// Transition moves a session from one status to another if it is still in `from`
func (r *chatSessionRepository) Transition(ctx context.Context, id uuid.UUID, from, to entities.ChatSessionStatus, by entities.UserRef, at time.Time) (bool, error) {
	columns := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	switch to {
	case entities.ChatSessionStatusArchived:
		columns["archived_at"] = at
	case entities.ChatSessionStatusBlocked:
		columns["blocked_at"] = at
		columns["blocked_by"] = by
	}

	result := r.db.WithContext(ctx).
		Model(&entities.ChatSession{}).
		Where("id = ? AND status = ?", id, from).
		Updates(columns)
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition chat session: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// List retrieves a participant's sessions, most recently active first
func (r *chatSessionRepository) List(ctx context.Context, filters repositories.ChatSessionFilters) ([]*entities.ChatSession, int64, error) {
	var sessions []*entities.ChatSession
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entities.ChatSession{}).
		Where("(participant_a = ? OR participant_b = ?)", filters.Participant, filters.Participant)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count chat sessions: %w", err)
	}

	query = query.Order("last_activity DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&sessions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	return sessions, total, nil
}
