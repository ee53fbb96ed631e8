package ports

import (
	"context"

	"github.com/changecomm/admin-system/internal/core/domain"
)

// AuthService defines the credentials and password-recovery use cases.
type AuthService interface {
	// Login exchanges credentials for a signed bearer token and the
	// authenticated principal.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// ChangePassword replaces the password of the authenticated user after
	// verifying the old one.
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	// ForgotPassword issues a one-time code and queues its email delivery.
	// Calling it again reissues a fresh code (resend).
	ForgotPassword(ctx context.Context, email string) error
	// VerifyCode consumes a one-time code and opens the reset window for the
	// email on success.
	VerifyCode(ctx context.Context, email, code string) error
	// ResetPassword sets a new password for an email whose reset window is
	// open, then closes the window.
	ResetPassword(ctx context.Context, email, newPassword string) error
}
