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

type inviteRepository struct {
	invites *mongo.Collection
}

// NewInviteRepository creates an invite repository backed by MongoDB
func NewInviteRepository(db *mongo.Database) repositories.InviteRepository {
	return &inviteRepository{invites: db.Collection(mongodb.CollectionInvites)}
}

func (r *inviteRepository) Create(ctx context.Context, invite *entities.Invite) error {
	if invite.ID == uuid.Nil {
		invite.ID = uuid.New()
	}
	invite.PairLow, invite.PairHigh = entities.PairKey(invite.SenderID, invite.RecipientID)

	if _, err := r.invites.InsertOne(ctx, newInviteDoc(invite)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicatePending
		}
		return fmt.Errorf("failed to create invite: %w", err)
	}
	return nil
}

func (r *inviteRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Invite, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *inviteRepository) FindPendingBetween(ctx context.Context, a, b entities.UserRef) (*entities.Invite, error) {
	low, high := entities.PairKey(a, b)
	return r.findOne(ctx, bson.M{
		"pair_low":  low,
		"pair_high": high,
		"status":    string(entities.InviteStatusPending),
	})
}

func (r *inviteRepository) findOne(ctx context.Context, filter bson.M) (*entities.Invite, error) {
	var doc inviteDoc
	if err := r.invites.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to find invite: %w", err)
	}
	return doc.toEntity()
}

func (r *inviteRepository) Transition(ctx context.Context, id uuid.UUID, from, to entities.InviteStatus, at time.Time) (bool, error) {
	filter := bson.M{"_id": id.String(), "status": string(from)}
	return r.updateOne(ctx, filter, transitionSet(to, at))
}

func (r *inviteRepository) TransitionIfLive(ctx context.Context, id uuid.UUID, to entities.InviteStatus, at, now time.Time) (bool, error) {
	filter := bson.M{
		"_id":        id.String(),
		"status":     string(entities.InviteStatusPending),
		"expires_at": bson.M{"$gte": now},
	}
	return r.updateOne(ctx, filter, transitionSet(to, at))
}

func (r *inviteRepository) updateOne(ctx context.Context, filter bson.M, set bson.M) (bool, error) {
	res, err := r.invites.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to transition invite: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *inviteRepository) CancelExpired(ctx context.Context, now time.Time, scope repositories.ExpiryScope) (int64, error) {
	res, err := r.invites.UpdateMany(ctx, expiryFilter(now, scope),
		bson.M{"$set": transitionSet(entities.InviteStatusCancelled, now)})
	if err != nil {
		return 0, fmt.Errorf("failed to cancel expired invites: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *inviteRepository) List(ctx context.Context, filters repositories.InviteFilters) ([]*entities.Invite, int64, error) {
	filter := listFilter(filters)

	total, err := r.invites.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count invites: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if filters.Limit > 0 {
		opts.SetLimit(int64(filters.Limit))
	}
	if filters.Offset > 0 {
		opts.SetSkip(int64(filters.Offset))
	}

	cursor, err := r.invites.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invites: %w", err)
	}
	invites, err := decodeInvites(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return invites, total, nil
}

func (r *inviteRepository) CountByStatus(ctx context.Context, user entities.UserRef) (*entities.InviteStats, error) {
	ref := user.String()
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"sender_id": ref},
			bson.M{"recipient_id": ref},
		}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"status": "$status",
				"sent":   bson.M{"$eq": bson.A{"$sender_id", ref}},
			},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.invites.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count invites: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID struct {
			Status string `bson:"status"`
			Sent   bool   `bson:"sent"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode invite counts: %w", err)
	}

	stats := &entities.InviteStats{}
	for _, row := range rows {
		status := entities.InviteStatus(row.ID.Status)
		if row.ID.Sent {
			stats.Sent.Add(status, row.Count)
		} else {
			stats.Received.Add(status, row.Count)
		}
	}
	return stats, nil
}

func (r *inviteRepository) FindAcceptedWithoutSession(ctx context.Context, now time.Time, limit int) ([]*entities.Invite, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status": string(entities.InviteStatusAccepted),
			"$or": bson.A{
				bson.M{"provision_retry_at": nil},
				bson.M{"provision_retry_at": bson.M{"$lte": now}},
			},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         mongodb.CollectionChatSessions,
			"localField":   "_id",
			"foreignField": "invite_id",
			"as":           "sessions",
		}}},
		{{Key: "$match", Value: bson.M{"sessions": bson.M{"$size": 0}}}},
		{{Key: "$addFields", Value: bson.M{"queue_at": bson.M{"$ifNull": bson.A{"$provision_retry_at", "$accepted_at"}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "queue_at", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$project", Value: bson.M{"sessions": 0, "queue_at": 0}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cursor, err := r.invites.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to find unprovisioned invites: %w", err)
	}
	return decodeInvites(ctx, cursor)
}

func (r *inviteRepository) RecordProvisionFailure(ctx context.Context, id uuid.UUID, retryAt time.Time) error {
	_, err := r.invites.UpdateOne(ctx,
		bson.M{"_id": id.String(), "status": string(entities.InviteStatusAccepted)},
		bson.M{
			"$inc": bson.M{"provision_attempts": 1},
			"$set": bson.M{"provision_retry_at": retryAt},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to record provisioning failure: %w", err)
	}
	return nil
}

func decodeInvites(ctx context.Context, cursor *mongo.Cursor) ([]*entities.Invite, error) {
	defer cursor.Close(ctx)

	var docs []inviteDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode invites: %w", err)
	}
	invites := make([]*entities.Invite, 0, len(docs))
	for i := range docs {
		invite, err := docs[i].toEntity()
		if err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}
	return invites, nil
}

// transitionSet is the $set document for a status change
func transitionSet(to entities.InviteStatus, at time.Time) bson.M {
	set := bson.M{"status": string(to), "updated_at": at}
	switch to {
	case entities.InviteStatusAccepted:
		set["accepted_at"] = at
	case entities.InviteStatusDeclined:
		set["declined_at"] = at
	case entities.InviteStatusCancelled:
		set["cancelled_at"] = at
	}
	return set
}

func expiryFilter(now time.Time, scope repositories.ExpiryScope) bson.M {
	filter := bson.M{
		"status":     string(entities.InviteStatusPending),
		"expires_at": bson.M{"$lt": now},
	}
	switch {
	case scope.User != nil && scope.Counterpart != nil:
		low, high := entities.PairKey(*scope.User, *scope.Counterpart)
		filter["pair_low"] = low
		filter["pair_high"] = high
	case scope.User != nil:
		ref := scope.User.String()
		filter["$or"] = bson.A{bson.M{"sender_id": ref}, bson.M{"recipient_id": ref}}
	}
	return filter
}

func listFilter(filters repositories.InviteFilters) bson.M {
	filter := bson.M{}
	if filters.SenderID != nil {
		filter["sender_id"] = filters.SenderID.String()
	}
	if filters.RecipientID != nil {
		filter["recipient_id"] = filters.RecipientID.String()
	}
	if filters.Status != nil {
		filter["status"] = string(*filters.Status)
	}
	return filter
}
