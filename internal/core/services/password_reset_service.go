package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quickbill/quickbill_backend/internal/apperrors"
	portsrepo "github.com/quickbill/quickbill_backend/internal/core/ports/repositories"
	portssvc "github.com/quickbill/quickbill_backend/internal/core/ports/services"
	"github.com/quickbill/quickbill_backend/internal/middleware"
	"github.com/quickbill/quickbill_backend/internal/utils"
)

const (
	resetCodeDigits = 6
	resetCodeTTL    = 15 * time.Minute
)

type passwordResetService struct {
	userService portssvc.UserSvcFacade
	codeRepo    portsrepo.ResetCodeRepositoryFacade
	notifier    portssvc.Notifier
}

// NewPasswordResetService creates the forgot-password flow service.
func NewPasswordResetService(
	userService portssvc.UserSvcFacade,
	codeRepo portsrepo.ResetCodeRepositoryFacade,
	notifier portssvc.Notifier,
) portssvc.PasswordResetSvcFacade {
	return &passwordResetService{
		userService: userService,
		codeRepo:    codeRepo,
		notifier:    notifier,
	}
}

var _ portssvc.PasswordResetSvcFacade = (*passwordResetService)(nil)

// RequestReset issues a short-lived numeric code and delivers it over email
// or SMS. Unknown contacts get the same nil response so the endpoint cannot
// be used to probe which accounts exist.
func (s *passwordResetService) RequestReset(ctx context.Context, emailOrPhone string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userService.GetUserByContact(ctx, emailOrPhone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Info("Password reset requested for unknown contact")
			return nil
		}
		return fmt.Errorf("failed to look up user for password reset: %w", err)
	}

	code, err := utils.GenerateNumericCode(resetCodeDigits)
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	if err := s.codeRepo.StoreCode(ctx, emailOrPhone, code, resetCodeTTL); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	if err := s.notifier.SendResetCode(ctx, user, code); err != nil {
		return fmt.Errorf("failed to deliver reset code: %w", err)
	}

	logger.Info("Password reset code issued", slog.String("userID", user.UserID))
	return nil
}

func (s *passwordResetService) VerifyCode(ctx context.Context, emailOrPhone string, code string) error {
	stored, err := s.codeRepo.GetCode(ctx, emailOrPhone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewBadRequestError("invalid or expired reset code")
		}
		return fmt.Errorf("failed to read reset code: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return apperrors.NewBadRequestError("invalid or expired reset code")
	}
	return nil
}

// ResetPassword consumes the code and sets the new password. The code is
// deleted before the password write so it cannot be replayed.
func (s *passwordResetService) ResetPassword(ctx context.Context, emailOrPhone string, code string, newPassword string) error {
	if err := s.VerifyCode(ctx, emailOrPhone, code); err != nil {
		return err
	}

	user, err := s.userService.GetUserByContact(ctx, emailOrPhone)
	if err != nil {
		return fmt.Errorf("failed to look up user for password reset: %w", err)
	}

	if err := s.codeRepo.DeleteCode(ctx, emailOrPhone); err != nil {
		return fmt.Errorf("failed to consume reset code: %w", err)
	}

	if err := s.userService.UpdatePassword(ctx, user.UserID, newPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Password reset completed", slog.String("userID", user.UserID))
	return nil
}
