package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/changecomm/admin-system/internal/core/domain"
	"github.com/changecomm/admin-system/internal/core/ports"
)

// Sessions are a fixed 30-day wall-clock window; there is no silent refresh,
// expiry forces re-login.
const defaultTokenTTL = 30 * 24 * time.Hour

// AuthService implements login, password change, and the OTP reset flow.
type AuthService struct {
	users     ports.UserRepository
	otp       ports.OTPStore
	mail      ports.MailDispatcher
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	otp ports.OTPStore,
	mail ports.MailDispatcher,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		users:     users,
		otp:       otp,
		mail:      mail,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")
	return token, user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	hashStr := string(hash)
	if _, err := s.users.Update(ctx, userID, ports.UserPatch{PasswordHash: &hashStr}); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	if err := s.otp.SaveCode(ctx, user.Email, code); err != nil {
		return fmt.Errorf("save otp: %w", err)
	}

	// Delivery is asynchronous; the request returns as soon as the code is
	// stored and queued.
	s.mail.Enqueue(ports.OTPMail{To: user.Email, Code: code})

	s.log.Info().Str("email", user.Email).Msg("otp issued")
	return nil
}

func (s *AuthService) VerifyCode(ctx context.Context, email, code string) error {
	stored, err := s.otp.GetCode(ctx, email)
	if err != nil {
		return fmt.Errorf("load otp: %w", err)
	}
	if stored == "" || stored != code {
		return domain.ErrInvalidOTP
	}

	if err := s.otp.DeleteCode(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to delete consumed otp")
	}
	if err := s.otp.AllowReset(ctx, email); err != nil {
		return fmt.Errorf("open reset window: %w", err)
	}

	s.log.Info().Str("email", email).Msg("otp verified")
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidCredentials
	}

	allowed, err := s.otp.ResetAllowed(ctx, email)
	if err != nil {
		return fmt.Errorf("check reset window: %w", err)
	}
	if !allowed {
		return domain.ErrResetNotAllowed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePasswordByEmail(ctx, email, string(hash)); err != nil {
		return err
	}

	if err := s.otp.ClearReset(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to close reset window")
	}

	s.log.Info().Str("email", email).Msg("password reset")
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// generateOTP returns a 6-digit numeric code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
