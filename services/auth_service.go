package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pawperfection/models"
	"pawperfection/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login, and refresh-token rotation.
type AuthService struct {
	users  repository.UserRepository
	tokens *TokenService
}

func NewAuthService(users repository.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("user already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password")
	}

	user := &models.User{
		Email:    email,
		Password: string(hashedPassword),
		Name:     name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, fmt.Errorf("invalid credentials")
	}

	pair, tokenID, err := s.tokens.GenerateTokenPair(user.ID.String(), user.Email)
	if err != nil {
		return nil, nil, err
	}
	if err := s.users.SaveRefreshToken(ctx, &models.RefreshToken{
		TokenID:   tokenID,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}); err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh validates a refresh token, revokes it, and issues a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refreshToken, "refresh")
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}

	tokenID, _ := claims["jti"].(string)
	stored, err := s.users.FindRefreshToken(ctx, tokenID)
	if err != nil || stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, fmt.Errorf("invalid refresh token")
	}

	userID, err := uuid.Parse(claims["sub"].(string))
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}

	if err := s.users.RevokeRefreshToken(ctx, tokenID); err != nil {
		return nil, err
	}

	pair, newTokenID, err := s.tokens.GenerateTokenPair(user.ID.String(), user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.users.SaveRefreshToken(ctx, &models.RefreshToken{
		TokenID:   newTokenID,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes all of the user's outstanding refresh tokens.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.users.RevokeUserRefreshTokens(ctx, userID)
}
