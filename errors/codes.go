package errors

// ErrorCode is the machine-readable code carried in every error envelope.
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED ErrorCode = 0
	ErrorCode_HTTP_OK     ErrorCode = 200

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1005
	ErrorCode_FORBIDDEN        ErrorCode = 1006
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1007
	ErrorCode_RATE_LIMITED     ErrorCode = 1008

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 2001

	// Invites
	ErrorCode_INVITE_NOT_FOUND          ErrorCode = 3000
	ErrorCode_INVITE_DUPLICATE          ErrorCode = 3001
	ErrorCode_INVITE_EXPIRED            ErrorCode = 3002
	ErrorCode_INVITE_ALREADY_PROCESSED  ErrorCode = 3003
	ErrorCode_INVITE_NOT_ACCEPTED       ErrorCode = 3004
	ErrorCode_INVITE_SELF               ErrorCode = 3005
	ErrorCode_INVITE_RECIPIENT_INVALID  ErrorCode = 3006
	ErrorCode_INVITE_MESSAGE_INVALID    ErrorCode = 3007
	ErrorCode_INVITE_INVALID_TRANSITION ErrorCode = 3008

	// Chat sessions
	ErrorCode_CHAT_NOT_FOUND          ErrorCode = 4000
	ErrorCode_CHAT_INVALID_TRANSITION ErrorCode = 4001
	ErrorCode_CHAT_NOT_ACTIVE         ErrorCode = 4002

	// Integrations
	ErrorCode_INTEGRATION_CHAT_PROVIDER_FAILED ErrorCode = 5000
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:                      "UNSPECIFIED",
	ErrorCode_HTTP_OK:                          "HTTP_OK",
	ErrorCode_INTERNAL:                         "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                 "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                        "NOT_FOUND",
	ErrorCode_UNAUTHENTICATED:                  "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                        "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:                  "INVALID_PAYLOAD",
	ErrorCode_RATE_LIMITED:                     "RATE_LIMITED",
	ErrorCode_AUTH_INVALID_TOKEN:               "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:               "AUTH_TOKEN_EXPIRED",
	ErrorCode_INVITE_NOT_FOUND:                 "INVITE_NOT_FOUND",
	ErrorCode_INVITE_DUPLICATE:                 "INVITE_DUPLICATE",
	ErrorCode_INVITE_EXPIRED:                   "INVITE_EXPIRED",
	ErrorCode_INVITE_ALREADY_PROCESSED:         "INVITE_ALREADY_PROCESSED",
	ErrorCode_INVITE_NOT_ACCEPTED:              "INVITE_NOT_ACCEPTED",
	ErrorCode_INVITE_SELF:                      "INVITE_SELF",
	ErrorCode_INVITE_RECIPIENT_INVALID:         "INVITE_RECIPIENT_INVALID",
	ErrorCode_INVITE_MESSAGE_INVALID:           "INVITE_MESSAGE_INVALID",
	ErrorCode_INVITE_INVALID_TRANSITION:        "INVITE_INVALID_TRANSITION",
	ErrorCode_CHAT_NOT_FOUND:                   "CHAT_NOT_FOUND",
	ErrorCode_CHAT_INVALID_TRANSITION:          "CHAT_INVALID_TRANSITION",
	ErrorCode_CHAT_NOT_ACTIVE:                  "CHAT_NOT_ACTIVE",
	ErrorCode_INTEGRATION_CHAT_PROVIDER_FAILED: "INTEGRATION_CHAT_PROVIDER_FAILED",
}

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNSPECIFIED"
}

// MarshalText renders the code by name in JSON envelopes.
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
