package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkale/splitledger/internal/auth"
	"github.com/mkale/splitledger/internal/models"
	"github.com/mkale/splitledger/internal/storage"
)

// AuthService handles registration, login and session lookup.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
}

func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
	}
}

// AuthResult is the outcome of a successful register or login.
type AuthResult struct {
	User  *models.User
	Token string
}

// Register creates a new account and returns a session token for it.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*AuthResult, error) {
	if email == "" {
		return nil, validationErrorf("email is required")
	}
	if name == "" {
		return nil, validationErrorf("name is required")
	}

	user, err := s.authenticator.Register(ctx, email, name, password)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("user logged in", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// GetCurrentUser resolves the acting user's own record.
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFoundErrorf("user %s not found", userID)
	}
	return user, nil
}

// UpdateProfile syncs the acting user's display name and avatar.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, name, imageURL string) error {
	if name == "" {
		return validationErrorf("name is required")
	}
	if err := s.store.UpdateUserProfile(ctx, userID, name, imageURL); err != nil {
		return notFoundErrorf("user %s not found", userID)
	}
	return nil
}
