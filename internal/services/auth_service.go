package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskforce/internal/auth"
	"taskforce/internal/models"
	"taskforce/internal/repository"
)

var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidRefreshToken = errors.New("refresh token is invalid or has been revoked")
)

// AuthService verifies credentials and issues bearer token pairs for the
// JSON API. The panel reuses Authenticate for its session login.
type AuthService struct {
	userRepo   repository.UserRepository
	tokens     *auth.TokenService
	tokenStore auth.TokenStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenService, tokenStore auth.TokenStore) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		tokenStore: tokenStore,
	}
}

// TokenPair is a short-lived access token plus its refresh token.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Authenticate verifies a username/password pair and returns the user.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// IssueTokenPair authenticates credentials and returns a fresh token pair.
func (s *AuthService) IssueTokenPair(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.Authenticate(username, password)
	if err != nil {
		return nil, err
	}

	return s.generatePair(ctx, user)
}

// RefreshTokenPair exchanges a valid refresh token for a new pair. The spent
// token is revoked so each refresh token works exactly once.
func (s *AuthService) RefreshTokenPair(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil || claims.ID == "" {
		return nil, ErrInvalidRefreshToken
	}

	userID, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, auth.ErrRefreshTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.generatePair(ctx, user)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (s *AuthService) generatePair(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	tokenID, refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}
