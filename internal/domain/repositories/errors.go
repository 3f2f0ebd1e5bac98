package repositories

import "errors"

// Store level errors shared by every repository implementation
var (
	// ErrDuplicatePending is returned when an insert collides with the pending-pair unique index
	ErrDuplicatePending = errors.New("a pending invite already exists for this pair")

	// ErrDuplicateSession is returned when a chat session already exists for the invite
	ErrDuplicateSession = errors.New("chat session already exists for invite")
)
