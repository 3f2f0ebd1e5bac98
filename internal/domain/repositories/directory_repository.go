package repositories

import (
	"context"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
)

// DirectoryRepository is the read-only user directory consulted by the invite flow
type DirectoryRepository interface {
	// GetUser finds a user by reference. Returns entities.ErrUserNotFound when absent.
	GetUser(ctx context.Context, ref entities.UserRef) (*entities.DirectoryUser, error)
}
