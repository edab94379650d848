package jwt

import (
	"errors"
	"fmt"
	"time"

	"go-storefront/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

const issuer = "go-storefront"

// Subject is the identity embedded in every token.
type Subject struct {
	ID    uint
	Email string
	Role  string
}

type Claims struct {
	Role      string `json:"role"`
	UserId    uint   `json:"id"`
	TokenType string `json:"token_type,omitempty"`
	jwt.RegisteredClaims
}

// Kind returns the token type, treating a token without a discriminator as
// an access token.
func (c *Claims) Kind() string {
	if c.TokenType == "" {
		return TypeAccess
	}
	return c.TokenType
}

// Email is the subject claim.
func (c *Claims) Email() string {
	return c.Subject
}

type Config struct {
	Secret     string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Service issues and validates signed access/refresh tokens.
type Service struct {
	key        []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt: secret must not be empty")
	}
	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("jwt: unsupported algorithm %q", alg)
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 30 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &Service{
		key:        []byte(cfg.Secret),
		method:     method,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}, nil
}

// IssueAccess mints a short-lived access token.
func (s *Service) IssueAccess(sub Subject) (string, error) {
	return s.issue(sub, TypeAccess, s.accessTTL)
}

// IssueRefresh mints a long-lived refresh token.
func (s *Service) IssueRefresh(sub Subject) (string, error) {
	return s.issue(sub, TypeRefresh, s.refreshTTL)
}

func (s *Service) issue(sub Subject, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		Role:      sub.Role,
		UserId:    sub.ID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.Email,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString(s.key)
}

// Validate checks signature, expiry and token type.
func (s *Service) Validate(tokenString, expectedType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.ErrExpiredToken
		}
		return nil, errs.ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errs.ErrInvalidToken
	}
	if claims.Kind() != expectedType {
		return nil, errs.ErrWrongTokenType.WithMessage("expected %s token, got %s", expectedType, claims.Kind())
	}
	return claims, nil
}
