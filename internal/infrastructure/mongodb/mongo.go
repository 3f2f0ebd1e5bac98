package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/config"
)

// Collection names
const (
	CollectionUsers        = "users"
	CollectionInvites      = "invites"
	CollectionChatSessions = "chat_sessions"
)

// Connect opens a client and verifies the connection
func Connect(cfg config.MongoConfig, log *zap.Logger) (*mongo.Database, *mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	log.Info("mongo.connected", zap.String("database", cfg.Database))
	return client.Database(cfg.Database), client, nil
}

// EnsureIndexes creates the indexes the repositories rely on, including the
// partial unique index that keeps one pending invite per pair.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("ux_users_email"),
			},
		},
		CollectionInvites: {
			{
				Keys: bson.D{{Key: "pair_low", Value: 1}, {Key: "pair_high", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetName("ux_invites_pending_pair").
					SetPartialFilterExpression(bson.M{"status": "pending"}),
			},
			{
				Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_invites_recipient_created"),
			},
			{
				Keys:    bson.D{{Key: "sender_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_invites_sender_created"),
			},
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "expires_at", Value: 1}},
				Options: options.Index().SetName("idx_invites_status_expiry"),
			},
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "provision_retry_at", Value: 1}, {Key: "accepted_at", Value: 1}},
				Options: options.Index().SetName("idx_invites_provision_queue"),
			},
		},
		CollectionChatSessions: {
			{
				Keys:    bson.D{{Key: "invite_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("ux_chat_sessions_invite"),
			},
			{
				Keys:    bson.D{{Key: "conversation_ref", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("ux_chat_sessions_conversation"),
			},
			{
				Keys:    bson.D{{Key: "participants", Value: 1}, {Key: "last_activity", Value: -1}},
				Options: options.Index().SetName("idx_chat_sessions_participants"),
			},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

// Disconnect closes the client
func Disconnect(ctx context.Context, client *mongo.Client) error {
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect mongo: %w", err)
	}
	return nil
}
