package usecasetest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
)

// Directory is an in-memory user directory
type Directory struct {
	mu    sync.RWMutex
	users map[entities.UserRef]*entities.DirectoryUser
}

// NewDirectory creates an empty directory
func NewDirectory() *Directory {
	return &Directory{users: make(map[entities.UserRef]*entities.DirectoryUser)}
}

// AddUser registers an active, verified user and returns its reference
func (d *Directory) AddUser(name string) entities.UserRef {
	ref := entities.UserRefFromUUID(uuid.New())
	d.Put(&entities.DirectoryUser{
		ID:              ref,
		Name:            name,
		Email:           name + "@test.local",
		UserType:        "developer",
		IsActive:        true,
		IsEmailVerified: true,
	})
	return ref
}

// Put stores a user as-is
func (d *Directory) Put(user *entities.DirectoryUser) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := *user
	d.users[user.ID] = &cp
}

// GetUser implements repositories.DirectoryRepository
func (d *Directory) GetUser(ctx context.Context, ref entities.UserRef) (*entities.DirectoryUser, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.users[ref]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}
