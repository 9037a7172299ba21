package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caremeet/telehealth-api/internal/model"
	"github.com/caremeet/telehealth-api/internal/queue"
	"github.com/caremeet/telehealth-api/internal/repository"
	"github.com/caremeet/telehealth-api/pkg/auth"
	apperrors "github.com/caremeet/telehealth-api/pkg/errors"
	"github.com/caremeet/telehealth-api/pkg/logger"
	"github.com/caremeet/telehealth-api/pkg/security"
)

// Service handles account registration and the token lifecycle. Refresh
// tokens are persisted as digests and rotate on every use; changing the
// password revokes all of them.
type Service struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	jwt    *auth.JWTService
	emails queue.Enqueuer
	logger *logger.Logger
}

func NewService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	jwt *auth.JWTService,
	emails queue.Enqueuer,
	logger *logger.Logger,
) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		jwt:    jwt,
		emails: emails,
		logger: logger,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	_, err := s.users.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, apperrors.Conflict("Email already registered")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.emails.Enqueue(ctx, queue.JobWelcome, map[string]string{
		"toEmail":  user.Email,
		"username": user.Username,
	}); err != nil {
		s.logger.Error(err, "failed to enqueue welcome email", "user_id", user.ID.String())
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.User, *model.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, apperrors.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !security.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, nil, apperrors.Unauthorized("Invalid email or password")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates the refresh token: the presented token is revoked and
// a fresh pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}

	stored, err := s.tokens.FindValid(ctx, claims.UserID, security.HashToken(refreshToken))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if err := s.tokens.Revoke(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req *model.ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("User not found")
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if !security.VerifyPassword(user.PasswordHash, req.CurrentPassword) {
		return apperrors.Unauthorized("Current password is incorrect")
	}

	hash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	// Hash update and token revocation commit together.
	if err := s.users.ChangePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

const resetTokenTTL = 15 * time.Minute

// ForgotPassword issues a fresh reset token and mails it out. Any older
// token of the user stops working at that point.
func (s *Service) ForgotPassword(ctx context.Context, req *model.ForgotPasswordRequest) error {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("User not found")
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	token, err := security.GenerateToken()
	if err != nil {
		return err
	}

	if err := s.tokens.CreatePasswordReset(ctx, &model.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: security.HashToken(token),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.emails.Enqueue(ctx, queue.JobPasswordReset, map[string]string{
		"toEmail":  user.Email,
		"username": user.Username,
		"token":    token,
	}); err != nil {
		s.logger.Error(err, "failed to enqueue password reset email", "user_id", user.ID.String())
	}
	return nil
}

// ResetPassword consumes the reset token: the hash update, session
// revocation and token deletion commit together.
func (s *Service) ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error {
	user, err := s.users.GetByID(ctx, req.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("User not found")
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	stored, err := s.tokens.FindValidPasswordReset(ctx, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.BadRequest("Invalid or expired token")
	}
	if err != nil {
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if stored.TokenHash != security.HashToken(req.Token) {
		return apperrors.BadRequest("Invalid or expired token")
	}

	hash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.ResetPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	if err := s.emails.Enqueue(ctx, queue.JobPasswordResetSuccess, map[string]string{
		"toEmail":  user.Email,
		"username": user.Username,
	}); err != nil {
		s.logger.Error(err, "failed to enqueue reset confirmation email", "user_id", user.ID.String())
	}
	return nil
}

// Logout revokes every refresh token of the presented session's user.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return apperrors.Unauthorized("Invalid refresh token")
	}
	if err := s.tokens.RevokeAllForUser(ctx, claims.UserID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}

func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *Service) issueTokens(ctx context.Context, user *model.User) (*model.TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	record := &model.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: security.HashToken(refresh),
		ExpiresAt: time.Now().Add(s.jwt.RefreshTTL()),
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
