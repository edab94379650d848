package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"go-storefront/apps/user/model"
	"go-storefront/apps/user/repository"
	"go-storefront/pkg/errs"
	"go-storefront/pkg/jwt"
	"go-storefront/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenPair is returned by login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// RefreshedToken is returned by the refresh token exchange.
type RefreshedToken struct {
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AccessToken is returned by the access token exchange.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Service struct {
	repo   *repository.Repository
	tokens *jwt.Service
	log    *zap.Logger
}

func New(repo *repository.Repository, tokens *jwt.Service, log *zap.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, log: log.Named("user")}
}

// Register creates an Active user. Role defaults to buyer.
func (s *Service) Register(ctx context.Context, email, plain string, role model.Role) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return nil, errs.Validation("ValidationError", "invalid email address")
	}
	if len(plain) < password.MinLength {
		return nil, errs.Validation("ValidationError", "password must be at least %d characters", password.MinLength)
	}
	if role == "" {
		role = model.RoleBuyer
	}
	if !role.Valid() {
		return nil, errs.Validation("ValidationError", "role must be buyer or seller")
	}

	taken, err := s.repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, errs.Internal("check email", err)
	}
	if taken {
		return nil, errs.ErrEmailExists
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		return nil, errs.Internal("hash password", err)
	}
	u := &model.User{Email: email, HashedPassword: hashed, Role: role}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrEmailExists
		}
		return nil, errs.Internal("create user", err)
	}
	s.log.Info("user registered", zap.Uint("id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// Login checks the credentials of an Active user and issues a token pair.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, plain string) (*TokenPair, error) {
	u, err := s.repo.FindActiveByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, errs.Internal("load user", err)
	}
	if u == nil || !password.Verify(plain, u.HashedPassword) {
		return nil, errs.ErrInvalidCredentials
	}

	sub := subjectOf(u)
	access, err := s.tokens.IssueAccess(sub)
	if err != nil {
		return nil, errs.Internal("issue access token", err)
	}
	refresh, err := s.tokens.IssueRefresh(sub)
	if err != nil {
		return nil, errs.Internal("issue refresh token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// RefreshToken exchanges a refresh token for a new refresh token.
func (s *Service) RefreshToken(ctx context.Context, refresh string) (*RefreshedToken, error) {
	u, err := s.userFromRefresh(ctx, refresh)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.IssueRefresh(subjectOf(u))
	if err != nil {
		return nil, errs.Internal("issue refresh token", err)
	}
	return &RefreshedToken{RefreshToken: token, TokenType: "bearer"}, nil
}

// AccessToken exchanges a refresh token for a new access token.
func (s *Service) AccessToken(ctx context.Context, refresh string) (*AccessToken, error) {
	u, err := s.userFromRefresh(ctx, refresh)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.IssueAccess(subjectOf(u))
	if err != nil {
		return nil, errs.Internal("issue access token", err)
	}
	return &AccessToken{AccessToken: token, TokenType: "bearer"}, nil
}

func (s *Service) userFromRefresh(ctx context.Context, refresh string) (*model.User, error) {
	claims, err := s.tokens.Validate(refresh, jwt.TypeRefresh)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.FindActiveByEmail(ctx, claims.Email())
	if err != nil {
		return nil, errs.Internal("load user", err)
	}
	if u == nil {
		return nil, errs.ErrUserInactive
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, errs.Internal("list users", err)
	}
	return users, nil
}

// Deactivate soft-deletes a user. Only the account holder may do so.
func (s *Service) Deactivate(ctx context.Context, current *model.User, id uint) error {
	if current.ID != id {
		return errs.ErrForbidden.WithMessage("You can only deactivate your own account")
	}
	changed, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return errs.Internal("deactivate user", err)
	}
	if !changed {
		return errs.ErrNotFound.WithMessage("User not found")
	}
	s.log.Info("user deactivated", zap.Uint("id", id))
	return nil
}

// FindActiveSeller exposes the seller lookup used by catalog filters.
func (s *Service) FindActiveSeller(ctx context.Context, id uint) (*model.User, error) {
	return s.repo.FindActiveSeller(ctx, id)
}

func subjectOf(u *model.User) jwt.Subject {
	return jwt.Subject{ID: u.ID, Email: u.Email, Role: string(u.Role)}
}
