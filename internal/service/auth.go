package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/castroh/pdi-agent/internal/domain"
	"github.com/castroh/pdi-agent/internal/security"
)

// AuthService handles registration, login and password recovery.
type AuthService struct {
	users      UserStore
	mailer     ResetMailer
	jwtManager *security.JWTManager
	resetTTL   time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, mailer ResetMailer, jwtManager *security.JWTManager, resetTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		mailer:     mailer,
		jwtManager: jwtManager,
		resetTTL:   resetTTL,
	}
}

// Register creates a new user record with a fresh empty profile and plan.
func (s *AuthService) Register(ctx context.Context, input domain.UserCreate) error {
	email := normalizeEmail(input.Email)

	exists, err := s.users.Exists(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check registration: %w", err)
	}
	if exists {
		return ErrEmailTaken
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	rec := domain.NewUserRecord(email, strings.TrimSpace(input.Name), hash)
	if err := s.users.Create(ctx, rec); err != nil {
		return err
	}

	log.Info().Str("email", email).Msg("User registered")
	return nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, input domain.UserLogin) (*domain.TokenPair, error) {
	email := normalizeEmail(input.Email)

	rec, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if rec == nil || !security.CheckPassword(input.Password, rec.Security.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.tokenPair(email)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	email, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	exists, err := s.users.Exists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return nil, ErrInvalidCredentials
	}

	return s.tokenPair(email)
}

// RequestPasswordReset stores a reset token and mails it to the user. An
// unknown e-mail is not an error: the caller answers the same way either
// way, so the endpoint cannot be used to probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	exists, err := s.users.Exists(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return nil
	}

	token, err := security.NewResetToken()
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	expiry := time.Now().Add(s.resetTTL).Format(time.RFC3339)
	if err := s.users.SetResetToken(ctx, email, token, expiry); err != nil {
		return err
	}

	if err := s.mailer.SendResetToken(ctx, email, token); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	log.Info().Str("email", email).Msg("Password reset token sent")
	return nil
}

// ResetPassword redeems a valid, unexpired token for a new password hash.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	rec, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if rec == nil || rec.Security.ResetToken == "" {
		return ErrInvalidResetToken
	}

	expiry, err := time.Parse(time.RFC3339, rec.Security.ResetTokenExpiry)
	if err != nil || time.Now().After(expiry) {
		return ErrExpiredResetToken
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.ResetPassword(ctx, rec.Email, hash); err != nil {
		return err
	}

	log.Info().Str("email", rec.Email).Msg("Password reset")
	return nil
}

func (s *AuthService) tokenPair(email string) (*domain.TokenPair, error) {
	access, refresh, expiresIn, err := s.jwtManager.GenerateTokenPair(email)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
