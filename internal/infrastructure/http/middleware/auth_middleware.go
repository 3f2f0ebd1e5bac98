package middleware

import (
	stdErrors "errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/errors"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/jwt"
)

// Echo context keys set by EchoAuth
const (
	ContextUserID = "user_id"
	ContextClaims = "claims"
)

// TokenValidator validates a bearer access token
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// EchoAuth returns an Echo middleware that validates the JWT and sets
// "user_id" (entities.UserRef) and "claims" (*jwt.Claims) into the Echo context
func EchoAuth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c.Request())
			if token == "" {
				return unauthorized(c, errors.ErrUnauthenticated())
			}

			claims, err := validator.ValidateAccessToken(token)
			if err != nil {
				if stdErrors.Is(err, jwt.ErrExpired) {
					return unauthorized(c, errors.ErrTokenExpired())
				}
				return unauthorized(c, errors.ErrInvalidToken())
			}

			c.Set(ContextUserID, entities.UserRefFromUUID(claims.UserID))
			c.Set(ContextClaims, claims)

			return next(c)
		}
	}
}

// UserFromContext returns the authenticated user set by EchoAuth
func UserFromContext(c echo.Context) (entities.UserRef, bool) {
	user, ok := c.Get(ContextUserID).(entities.UserRef)
	return user, ok && !user.IsZero()
}

// ExtractToken reads the bearer token from the Authorization header, then the
// access_token cookie, then the token query parameter (browsers cannot set
// headers on websocket upgrades)
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}

	return r.URL.Query().Get("token")
}

func unauthorized(c echo.Context, appErr errors.AppError) error {
	return c.JSON(appErr.HTTPCode, map[string]interface{}{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
