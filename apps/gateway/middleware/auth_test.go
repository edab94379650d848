package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-storefront/pkg/jwt"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(t *testing.T) (*gin.Engine, *jwt.Service) {
	t.Helper()
	tokens, err := jwt.NewService(jwt.Config{Secret: "test-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	r := gin.New()
	r.GET("/private", AuthMiddleware(tokens), func(c *gin.Context) {
		claims := Claims(c)
		c.String(http.StatusOK, claims.Email())
	})
	return r, tokens
}

func TestAuthMiddleware(t *testing.T) {
	r, tokens := newEngine(t)
	sub := jwt.Subject{ID: 1, Email: "a@x.com", Role: "buyer"}
	access, _ := tokens.IssueAccess(sub)
	refresh, _ := tokens.IssueRefresh(sub)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, "MissingToken"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "InvalidToken"},
		{"garbage", "Bearer abc", http.StatusUnauthorized, "InvalidToken"},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized, "WrongTokenType"},
		{"access token", "Bearer " + access, http.StatusOK, "a@x.com"},
		{"lowercase scheme", "bearer " + access, http.StatusOK, "a@x.com"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tt.status || !strings.Contains(w.Body.String(), tt.body) {
			t.Errorf("%s: expected %d containing %q, got %d %s", tt.name, tt.status, tt.body, w.Code, w.Body.String())
		}
	}
}

func TestOptional(t *testing.T) {
	blocked := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusTeapot)
	}
	for _, enabled := range []bool{true, false} {
		r := gin.New()
		r.GET("/", Optional(enabled, blocked), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		want := http.StatusOK
		if enabled {
			want = http.StatusTeapot
		}
		if w.Code != want {
			t.Errorf("enabled=%v: expected %d, got %d", enabled, want, w.Code)
		}
	}
}
