package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"tollway/internal/models"
	"tollway/internal/password"
	"tollway/internal/repository"
)

// ErrInvalidCredentials represents login failure.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// UserRepository defines the storage contract used by the auth service.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	ListUsernames(ctx context.Context) ([]string, error)
}

// AuthService contains login and account management logic.
type AuthService struct {
	repo      UserRepository
	hasher    password.Hasher
	tokenizer *TokenService
	logger    *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(repo UserRepository, hasher password.Hasher, tokenizer *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// Login authenticates a user and produces a JWT.
func (s *AuthService) Login(ctx context.Context, username, plain string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || plain == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := s.hasher.Compare(user.PasswordHash, plain); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokenizer.GenerateToken(user)
	if err != nil {
		return "", err
	}

	s.logger.Info("user logged in", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return token, nil
}

// VerifyToken decodes a token and returns its claims.
func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	return s.tokenizer.ValidateToken(tokenString)
}

// UpsertUser creates an account with role normal, or rotates the password of
// an existing account keeping its role. Reports whether the user was created.
func (s *AuthService) UpsertUser(ctx context.Context, username, plain string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || plain == "" {
		return false, errors.New("auth: username and password are required")
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return false, err
	}

	_, err = s.repo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return false, err
		}
		user := &models.User{Username: username, PasswordHash: hash, Role: models.RoleNormal}
		if err := s.repo.Create(ctx, user); err != nil {
			return false, err
		}
		s.logger.Info("user created", zap.String("username", username))
		return true, nil
	}

	if err := s.repo.UpdatePassword(ctx, username, hash); err != nil {
		return false, err
	}
	s.logger.Info("user password updated", zap.String("username", username))
	return false, nil
}

// ListUsernames returns every account name.
func (s *AuthService) ListUsernames(ctx context.Context) ([]string, error) {
	return s.repo.ListUsernames(ctx)
}
