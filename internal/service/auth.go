package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/task-service/internal/apperrors"
	"github.com/Dan9191/task-service/internal/auth"
	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/repository"
)

// IssuedToken is the result of a successful login
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService handles registration, login and token resolution
type AuthService struct {
	users  UserRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenService
	log    *logrus.Logger
}

// NewAuthService initializes a new auth service
func NewAuthService(users UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenService, log *logrus.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log}
}

// Register creates a new user with hashed password. A duplicate email is
// detected by the store's unique constraint and reported as a conflict.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = models.NormalizeEmail(email)

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperrors.InvalidInput("password must be at most 72 bytes")
		}
		return nil, apperrors.Internal(err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         models.RoleStandard,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.ErrConflict
		}
		return nil, apperrors.Internal(err)
	}

	s.log.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login authenticates a user and returns a signed token. An unknown email
// and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*IssuedToken, error) {
	user, err := s.users.FindUserByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, invalidCredentials()
		}
		return nil, apperrors.Internal(err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, invalidCredentials()
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.WithField("user_id", user.ID).Info("User logged in")
	return &IssuedToken{Token: token, ExpiresAt: expiresAt}, nil
}

// WhoAmI resolves a bearer token to the identity it was issued for
func (s *AuthService) WhoAmI(ctx context.Context, token string) (*auth.Identity, error) {
	identity, err := s.tokens.Verify(token)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	return identity, nil
}

func invalidCredentials() error {
	return apperrors.Unauthorized("Invalid credentials")
}
