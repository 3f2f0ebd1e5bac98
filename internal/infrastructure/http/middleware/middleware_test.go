package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/jwt"
)

func newProtected(t *testing.T, mw ...echo.MiddlewareFunc) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		user, ok := UserFromContext(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		return c.String(http.StatusOK, user.String())
	}, mw...)
	return e
}

func TestEchoAuth(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Minute)
	e := newProtected(t, EchoAuth(manager))
	userID := uuid.New()
	token, err := manager.GenerateAccessToken(userID, "a@example.com", "developer")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"missing token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "access_token", Value: token}) }, http.StatusOK},
		{"query", func(r *http.Request) { r.URL.RawQuery = "token=" + token }, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status == http.StatusOK && rec.Body.String() != userID.String() {
				t.Errorf("user = %s, want %s", rec.Body.String(), userID)
			}
		})
	}
}

func TestUserRateLimiter(t *testing.T) {
	rl := NewUserRateLimiter(2)
	a := entities.UserRefFromUUID(uuid.New()).String()
	b := entities.UserRefFromUUID(uuid.New()).String()

	if !rl.Allow(a) || !rl.Allow(a) {
		t.Fatal("burst should allow two requests")
	}
	if rl.Allow(a) {
		t.Error("third request within a minute should be limited")
	}
	if !rl.Allow(b) {
		t.Error("limits are per user")
	}
}

func TestUserRateLimiterMiddleware(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Minute)
	e := newProtected(t, EchoAuth(manager), NewUserRateLimiter(1).Middleware())
	token, _ := manager.GenerateAccessToken(uuid.New(), "a@example.com", "developer")

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 429]", codes)
	}
}
