package entities

import "errors"

// Domain errors
var (
	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidUserRef = errors.New("invalid user reference")

	// Invite errors
	ErrInviteNotFound = errors.New("invite not found")
	ErrSelfInvite     = errors.New("cannot invite yourself")

	// Chat session errors
	ErrChatSessionNotFound = errors.New("chat session not found")
)
