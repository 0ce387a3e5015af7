package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blogd/internal/crypto"
	"blogd/internal/mailer"
	"blogd/internal/models"
	"blogd/internal/repository"
	"blogd/internal/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ( // Define custom errors
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenConsumed      = errors.New("token has already been used")
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*token.Pair, error)
	Refresh(ctx context.Context, refreshToken string) (string, time.Time, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, tokenString, newPassword string) error
	RequestVerification(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, tokenString string) error
}

type authService struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	issuer *token.Issuer
	codec  *token.Codec
	sender mailer.Sender
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens repository.TokenRepository,
	codec *token.Codec, issuer *token.Issuer, sender mailer.Sender, logger *zap.Logger) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		issuer: issuer,
		codec:  codec,
		sender: sender,
		logger: logger,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	passwordHash, err := crypto.HashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         "user",
		Photo:        "default.png",
		Verified:     false,
	}

	err = s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserAlreadyExists
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Kick off email verification right away. Delivery problems must not
	// fail the registration itself.
	if err := s.RequestVerification(ctx, email); err != nil {
		s.logger.Warn("Failed to send verification email", zap.String("email", email), zap.Error(err))
	}

	s.logger.Info("User registered successfully.", zap.String("email", user.Email))
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*token.Pair, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !crypto.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuer.IssueSession(user.ID)
	if err != nil {
		s.logger.Error("Failed to issue session tokens", zap.Error(err))
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	s.logger.Info("User logged in successfully.", zap.String("email", user.Email))
	return pair, nil
}

func (s *authService) Refresh(_ context.Context, refreshToken string) (string, time.Time, error) {
	return s.issuer.Refresh(refreshToken)
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Do not reveal whether the address is registered.
			s.logger.Info("Password reset requested for unknown email", zap.String("email", email))
			return nil
		}
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	resetToken, err := s.issuer.IssuePasswordReset(user.Email)
	if err != nil {
		s.logger.Error("Failed to issue password reset token", zap.Error(err))
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	if err := s.sender.SendPasswordReset(ctx, user.Email, resetToken); err != nil {
		s.logger.Error("Failed to send password reset email", zap.Error(err))
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, tokenString, newPassword string) error {
	claims, err := s.consumeOneTime(ctx, tokenString, token.NamespaceReset)
	if err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	passwordHash, err := crypto.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.users.UpdatePassword(ctx, user.ID, passwordHash, crypto.TokenFingerprint(tokenString))
	if err != nil {
		if errors.Is(err, repository.ErrTokenConsumed) {
			return ErrTokenConsumed
		}
		s.logger.Error("Failed to update password", zap.Error(err))
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password reset completed.", zap.String("email", user.Email))
	return nil
}

func (s *authService) RequestVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	verifyToken, err := s.issuer.IssueVerification(user.Email)
	if err != nil {
		s.logger.Error("Failed to issue verification token", zap.Error(err))
		return fmt.Errorf("failed to issue verification token: %w", err)
	}

	return s.sender.SendVerification(ctx, user.Email, verifyToken)
}

func (s *authService) VerifyEmail(ctx context.Context, tokenString string) error {
	claims, err := s.consumeOneTime(ctx, tokenString, token.NamespaceVerify)
	if err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	err = s.users.SetVerified(ctx, user.ID, crypto.TokenFingerprint(tokenString))
	if err != nil {
		if errors.Is(err, repository.ErrTokenConsumed) {
			return ErrTokenConsumed
		}
		s.logger.Error("Failed to set verified flag", zap.Error(err))
		return fmt.Errorf("failed to verify email: %w", err)
	}

	s.logger.Info("Email verified.", zap.String("email", user.Email))
	return nil
}

// consumeOneTime validates an out-of-band token against the expected
// purpose and rejects replays of already-consumed tokens.
func (s *authService) consumeOneTime(ctx context.Context, tokenString, namespace string) (*token.Claims, error) {
	claims, err := s.codec.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Namespace != namespace {
		return nil, token.ErrWrongPurpose
	}

	consumed, err := s.tokens.IsConsumed(ctx, crypto.TokenFingerprint(tokenString))
	if err != nil {
		s.logger.Error("Failed to check token consumption", zap.Error(err))
		return nil, fmt.Errorf("failed to check token: %w", err)
	}
	if consumed {
		return nil, ErrTokenConsumed
	}

	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
