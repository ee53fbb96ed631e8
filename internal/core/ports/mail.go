package ports

import "context"

// OTPMail is a queued one-time-code delivery.
type OTPMail struct {
	To   string
	Code string
}

// MailSender delivers a single OTP email.
type MailSender interface {
	SendOTP(ctx context.Context, mail OTPMail) error
}

// MailDispatcher accepts OTP mails for asynchronous delivery. Ordering is
// preserved per recipient.
type MailDispatcher interface {
	Enqueue(mail OTPMail)
}

// OTPStore holds issued one-time codes and the per-email reset window.
type OTPStore interface {
	// SaveCode stores the active code for email, replacing any previous one.
	SaveCode(ctx context.Context, email, code string) error
	// GetCode returns the active code for email, or "" when none is pending.
	GetCode(ctx context.Context, email string) (string, error)
	DeleteCode(ctx context.Context, email string) error
	// AllowReset opens the reset window for email.
	AllowReset(ctx context.Context, email string) error
	ResetAllowed(ctx context.Context, email string) (bool, error)
	ClearReset(ctx context.Context, email string) error
}
