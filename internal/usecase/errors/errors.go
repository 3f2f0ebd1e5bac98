package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a usecase error for callers that only need to know how to react
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindDuplicateInvite
	KindInvalidTransition
	KindExternalProvider
)

// String returns a readable kind name
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindDuplicateInvite:
		return "duplicate_invite"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindExternalProvider:
		return "external_provider"
	}
	return "internal"
}

// Error is a typed usecase outcome. Two errors match under errors.Is when their codes match.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

// Error implements error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap returns a copy carrying the cause
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// WithMessage returns a copy with a more specific message
func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// KindOf reports the kind of err. Unknown errors are internal.
func KindOf(err error) Kind {
	var ucErr *Error
	if errors.As(err, &ucErr) {
		return ucErr.Kind
	}
	return KindInternal
}

// Internal wraps an unexpected failure
func Internal(err error) *Error {
	return ErrInternal.Wrap(err)
}

// Validation errors
var (
	ErrInvalidInput         = &Error{Kind: KindValidation, Code: "invalid_input", Message: "invalid input"}
	ErrSelfInvite           = &Error{Kind: KindValidation, Code: "self_invite", Message: "cannot send an invite to yourself"}
	ErrInvalidMessage       = &Error{Kind: KindValidation, Code: "invalid_message", Message: "invite message has an invalid length"}
	ErrRecipientUnavailable = &Error{Kind: KindValidation, Code: "recipient_unavailable", Message: "recipient cannot receive invites"}
	ErrSenderUnavailable    = &Error{Kind: KindValidation, Code: "sender_unavailable", Message: "sender account cannot send invites"}
)

// Not found errors
var (
	ErrUserNotFound        = &Error{Kind: KindNotFound, Code: "user_not_found", Message: "user not found"}
	ErrInviteNotFound      = &Error{Kind: KindNotFound, Code: "invite_not_found", Message: "invite not found"}
	ErrChatSessionNotFound = &Error{Kind: KindNotFound, Code: "chat_session_not_found", Message: "chat session not found"}
)

// Authorization errors
var (
	ErrNotInviteRecipient = &Error{Kind: KindForbidden, Code: "not_invite_recipient", Message: "only the recipient can respond to this invite"}
	ErrNotInviteSender    = &Error{Kind: KindForbidden, Code: "not_invite_sender", Message: "only the sender can cancel this invite"}
)

// Invariant and state errors
var (
	ErrDuplicateInvite                  = &Error{Kind: KindDuplicateInvite, Code: "duplicate_invite", Message: "there is already a pending invite between these users"}
	ErrInviteExpired                    = &Error{Kind: KindInvalidTransition, Code: "invite_expired", Message: "invite has expired"}
	ErrInviteNotFoundOrAlreadyProcessed = &Error{Kind: KindInvalidTransition, Code: "invite_already_processed", Message: "invite not found or already processed"}
	ErrInviteNotAccepted                = &Error{Kind: KindInvalidTransition, Code: "invite_not_accepted", Message: "invite has not been accepted"}
	ErrChatSessionInvalidTransition     = &Error{Kind: KindInvalidTransition, Code: "chat_session_invalid_transition", Message: "chat session cannot move to the requested status"}
	ErrChatSessionNotActive             = &Error{Kind: KindInvalidTransition, Code: "chat_session_not_active", Message: "chat session is not active"}
)

// Infrastructure errors
var (
	ErrChatProvider = &Error{Kind: KindExternalProvider, Code: "chat_provider_failed", Message: "chat provider request failed"}
	ErrInternal     = &Error{Kind: KindInternal, Code: "internal", Message: "internal error"}
)
