package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/repositories"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/infrastructure/mongodb"
)

type chatSessionRepository struct {
	sessions *mongo.Collection
}

// NewChatSessionRepository creates a chat session repository backed by MongoDB
func NewChatSessionRepository(db *mongo.Database) repositories.ChatSessionRepository {
	return &chatSessionRepository{sessions: db.Collection(mongodb.CollectionChatSessions)}
}

func (r *chatSessionRepository) Create(ctx context.Context, session *entities.ChatSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if _, err := r.sessions.InsertOne(ctx, newChatSessionDoc(session)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicateSession
		}
		return fmt.Errorf("failed to create chat session: %w", err)
	}
	return nil
}

func (r *chatSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ChatSession, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *chatSessionRepository) FindByInviteID(ctx context.Context, inviteID uuid.UUID) (*entities.ChatSession, error) {
	return r.findOne(ctx, bson.M{"invite_id": inviteID.String()})
}

func (r *chatSessionRepository) findOne(ctx context.Context, filter bson.M) (*entities.ChatSession, error) {
	var doc chatSessionDoc
	if err := r.sessions.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrChatSessionNotFound
		}
		return nil, fmt.Errorf("failed to find chat session: %w", err)
	}
	return doc.toEntity()
}

// RecordActivity applies one message event with a single atomic update
func (r *chatSessionRepository) RecordActivity(ctx context.Context, ref string, activity repositories.Activity) error {
	res, err := r.sessions.UpdateOne(ctx, bson.M{"conversation_ref": ref}, activityUpdate(activity))
	if err != nil {
		return fmt.Errorf("failed to record chat activity: %w", err)
	}
	if res.MatchedCount == 0 {
		return entities.ErrChatSessionNotFound
	}
	return nil
}

func (r *chatSessionRepository) Transition(ctx context.Context, id uuid.UUID, from, to entities.ChatSessionStatus, by entities.UserRef, at time.Time) (bool, error) {
	set := bson.M{"status": string(to), "updated_at": at}
	switch to {
	case entities.ChatSessionStatusArchived:
		set["archived_at"] = at
	case entities.ChatSessionStatusBlocked:
		set["blocked_at"] = at
		set["blocked_by"] = by.String()
	}

	res, err := r.sessions.UpdateOne(ctx,
		bson.M{"_id": id.String(), "status": string(from)},
		bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to transition chat session: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *chatSessionRepository) List(ctx context.Context, filters repositories.ChatSessionFilters) ([]*entities.ChatSession, int64, error) {
	filter := bson.M{"participants": filters.Participant.String()}
	if filters.Status != nil {
		filter["status"] = string(*filters.Status)
	}

	total, err := r.sessions.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count chat sessions: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "last_activity", Value: -1}})
	if filters.Limit > 0 {
		opts.SetLimit(int64(filters.Limit))
	}
	if filters.Offset > 0 {
		opts.SetSkip(int64(filters.Offset))
	}

	cursor, err := r.sessions.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []chatSessionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode chat sessions: %w", err)
	}
	sessions := make([]*entities.ChatSession, 0, len(docs))
	for i := range docs {
		session, err := docs[i].toEntity()
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, session)
	}
	return sessions, total, nil
}

// activityUpdate increments the counter and only moves last_activity forward
func activityUpdate(activity repositories.Activity) bson.M {
	last := bson.M{"preview": activity.Preview, "at": activity.At}
	if activity.SenderID != nil {
		last["sender_id"] = activity.SenderID.String()
	}
	return bson.M{
		"$inc": bson.M{"message_count": 1},
		"$set": bson.M{"last_message": last, "updated_at": activity.At},
		"$max": bson.M{"last_activity": activity.At},
	}
}
