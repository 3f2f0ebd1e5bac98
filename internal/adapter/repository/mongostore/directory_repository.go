package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/infrastructure/mongodb"
)

// DirectoryRepository reads users from the users collection
type DirectoryRepository struct {
	users *mongo.Collection
}

// NewDirectoryRepository creates a directory backed by MongoDB
func NewDirectoryRepository(db *mongo.Database) *DirectoryRepository {
	return &DirectoryRepository{users: db.Collection(mongodb.CollectionUsers)}
}

// GetUser finds a user by reference
func (r *DirectoryRepository) GetUser(ctx context.Context, ref entities.UserRef) (*entities.DirectoryUser, error) {
	var doc userDoc
	if err := r.users.FindOne(ctx, bson.M{"_id": ref.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.toEntity()
}

// Upsert creates or replaces a user. Used by the seed command.
func (r *DirectoryRepository) Upsert(ctx context.Context, user *entities.DirectoryUser) error {
	_, err := r.users.ReplaceOne(ctx,
		bson.M{"_id": user.ID.String()},
		newUserDoc(user),
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}
