package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go-storefront/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

var alice = Subject{ID: 42, Email: "a@x.com", Role: "seller"}

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService(Config{Secret: "test-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return s
}

func TestNewServiceRejectsBadConfig(t *testing.T) {
	if _, err := NewService(Config{}); err == nil {
		t.Errorf("Expected error for empty secret")
	}
	if _, err := NewService(Config{Secret: "x", Algorithm: "RS256"}); err == nil {
		t.Errorf("Expected error for non-HMAC algorithm")
	}
	if _, err := NewService(Config{Secret: "x", Algorithm: "HS512"}); err != nil {
		t.Errorf("Expected HS512 to be accepted, got %v", err)
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	s := newTestService(t)
	token, err := s.IssueAccess(alice)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := s.Validate(token, TypeAccess)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if claims.Email() != alice.Email || claims.Role != alice.Role || claims.UserId != alice.ID {
		t.Errorf("Expected claims for %+v, got %+v", alice, claims)
	}
	if claims.Kind() != TypeAccess {
		t.Errorf("Expected access token type, got %s", claims.Kind())
	}
}

func TestRefreshTokenCarriesDiscriminator(t *testing.T) {
	s := newTestService(t)
	token, _ := s.IssueRefresh(alice)
	claims, err := s.Validate(token, TypeRefresh)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if claims.TokenType != TypeRefresh {
		t.Errorf("Expected token_type=refresh, got %q", claims.TokenType)
	}
}

func TestWrongTokenType(t *testing.T) {
	s := newTestService(t)
	access, _ := s.IssueAccess(alice)
	refresh, _ := s.IssueRefresh(alice)

	if _, err := s.Validate(access, TypeRefresh); !errors.Is(err, errs.ErrWrongTokenType) {
		t.Errorf("Expected WrongTokenType for access-as-refresh, got %v", err)
	}
	if _, err := s.Validate(refresh, TypeAccess); !errors.Is(err, errs.ErrWrongTokenType) {
		t.Errorf("Expected WrongTokenType for refresh-as-access, got %v", err)
	}
}

func TestTokenWithoutDiscriminatorIsAccess(t *testing.T) {
	s := newTestService(t)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  alice.Email,
		"role": alice.Role,
		"id":   alice.ID,
		"exp":  time.Now().Add(time.Minute).Unix(),
	})
	signed, _ := token.SignedString([]byte("test-secret"))

	if _, err := s.Validate(signed, TypeAccess); err != nil {
		t.Errorf("Expected legacy token to validate as access, got %v", err)
	}
	if _, err := s.Validate(signed, TypeRefresh); !errors.Is(err, errs.ErrWrongTokenType) {
		t.Errorf("Expected WrongTokenType, got %v", err)
	}
}

func TestExpiredToken(t *testing.T) {
	s := newTestService(t)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _ := s.IssueRefresh(alice)
	s.now = time.Now

	if _, err := s.Validate(token, TypeRefresh); !errors.Is(err, errs.ErrExpiredToken) {
		t.Errorf("Expected ExpiredToken, got %v", err)
	}
}

func TestInvalidSignature(t *testing.T) {
	s := newTestService(t)
	other, _ := NewService(Config{Secret: "another-secret"})
	token, _ := other.IssueAccess(alice)

	if _, err := s.Validate(token, TypeAccess); !errors.Is(err, errs.ErrInvalidToken) {
		t.Errorf("Expected InvalidToken for foreign signature, got %v", err)
	}
}

func TestMalformedToken(t *testing.T) {
	s := newTestService(t)
	for _, raw := range []string{"", "abc", "a.b.c", strings.Repeat("x", 64)} {
		if _, err := s.Validate(raw, TypeAccess); !errors.Is(err, errs.ErrInvalidToken) {
			t.Errorf("Validate(%q): expected InvalidToken, got %v", raw, err)
		}
	}
}

func TestAlgorithmMismatchRejected(t *testing.T) {
	s := newTestService(t)
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		Role: "seller", UserId: 1, TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   alice.Email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	signed, _ := token.SignedString([]byte("test-secret"))
	if _, err := s.Validate(signed, TypeAccess); !errors.Is(err, errs.ErrInvalidToken) {
		t.Errorf("Expected InvalidToken for HS512 token on HS256 service, got %v", err)
	}
}
