package entities

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRef identifies a platform user. It is parsed once at the edge of the system
// and passed around as a typed value afterwards.
type UserRef uuid.UUID

// ParseUserRef parses a user identifier from its canonical string form
func ParseUserRef(s string) (UserRef, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return UserRef{}, fmt.Errorf("%w: %q", ErrInvalidUserRef, s)
	}
	return UserRef(id), nil
}

// UserRefFromUUID converts an authenticated user id into a UserRef
func UserRefFromUUID(id uuid.UUID) UserRef {
	return UserRef(id)
}

// String returns the canonical representation
func (r UserRef) String() string {
	return uuid.UUID(r).String()
}

// UUID returns the underlying identifier
func (r UserRef) UUID() uuid.UUID {
	return uuid.UUID(r)
}

// IsZero reports whether the reference is unset
func (r UserRef) IsZero() bool {
	return uuid.UUID(r) == uuid.Nil
}

// Scan implements sql.Scanner
func (r *UserRef) Scan(src interface{}) error {
	var id uuid.UUID
	if err := id.Scan(src); err != nil {
		return err
	}
	*r = UserRef(id)
	return nil
}

// Value implements driver.Valuer
func (r UserRef) Value() (driver.Value, error) {
	return r.String(), nil
}

// MarshalText implements encoding.TextMarshaler
func (r UserRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *UserRef) UnmarshalText(b []byte) error {
	parsed, err := ParseUserRef(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// DirectoryUser is the read-only projection of a platform user that the
// invite flow needs: identity facts plus eligibility flags.
type DirectoryUser struct {
	ID              UserRef   `json:"id" gorm:"type:uuid;primaryKey"`
	Name            string    `json:"name" gorm:"type:varchar(255);not null"`
	Email           string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	UserType        string    `json:"user_type" gorm:"type:varchar(50);not null;default:'developer'"`
	Country         string    `json:"country" gorm:"type:varchar(100)"`
	IsActive        bool      `json:"is_active" gorm:"not null"`
	IsDeleted       bool      `json:"is_deleted" gorm:"not null;default:false"`
	IsEmailVerified bool      `json:"is_email_verified" gorm:"not null;default:false"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for DirectoryUser
func (DirectoryUser) TableName() string {
	return "users"
}

// CanReceiveInvites reports whether the user may be the target of a new invite
func (u *DirectoryUser) CanReceiveInvites(requireVerified bool) bool {
	if !u.IsActive || u.IsDeleted {
		return false
	}
	return !requireVerified || u.IsEmailVerified
}

// CanSendInvites reports whether the user may create invites
func (u *DirectoryUser) CanSendInvites() bool {
	return u.IsActive && !u.IsDeleted
}
