package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/changecomm/admin-system/internal/core/ports"
)

// ResendSender delivers OTP emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	log    zerolog.Logger
}

// NewResendSender creates a sender with the given API key and default from
// address.
func NewResendSender(apiKey, from string, log zerolog.Logger) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		log:    log,
	}
}

// SendOTP sends a password-reset code to the recipient.
func (s *ResendSender) SendOTP(ctx context.Context, m ports.OTPMail) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{m.To},
		Subject: "Your password reset code",
		Html: fmt.Sprintf(
			"<p>Your verification code is <strong>%s</strong>. It expires in 10 minutes.</p>",
			m.Code,
		),
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}

	s.log.Info().Str("message_id", sent.Id).Str("to", m.To).Msg("otp email sent")
	return nil
}
