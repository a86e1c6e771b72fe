// Package notify delivers short messages to users over email or SMS.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quickbill/quickbill_backend/internal/core/domain"
	portssvc "github.com/quickbill/quickbill_backend/internal/core/ports/services"
	"github.com/quickbill/quickbill_backend/internal/middleware"
	"github.com/quickbill/quickbill_backend/internal/platform/config"
)

// contactNotifier routes a reset code to email or SMS based on which contact
// handle the account carries. Email wins when both are present.
type contactNotifier struct {
	email *emailSender
	sms   *smsSender
}

// NewNotifier creates the delivery adapter used by the password reset flow.
func NewNotifier(cfg *config.Config) portssvc.Notifier {
	return &contactNotifier{
		email: newEmailSender(cfg),
		sms:   newSMSSender(cfg),
	}
}

var _ portssvc.Notifier = (*contactNotifier)(nil)

func (n *contactNotifier) SendResetCode(ctx context.Context, user *domain.User, code string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if user.Email != "" {
		if err := n.email.sendResetCode(user.Email, code); err != nil {
			return fmt.Errorf("failed to send reset code email: %w", err)
		}
		logger.Info("Reset code sent over email", slog.String("userID", user.UserID))
		return nil
	}
	if user.Phone != "" {
		if err := n.sms.sendResetCode(ctx, user.Phone, code); err != nil {
			return fmt.Errorf("failed to send reset code SMS: %w", err)
		}
		logger.Info("Reset code sent over SMS", slog.String("userID", user.UserID))
		return nil
	}
	return fmt.Errorf("user %s has no contact handle for delivery", user.UserID)
}
