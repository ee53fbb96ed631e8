package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	codeTTL  = 10 * time.Minute
	resetTTL = 15 * time.Minute
)

// OTPStore keeps issued password-reset codes and the per-email reset window
// in Redis, expiring both by TTL.
//
// Key formats: otp:code:<email> and otp:reset:<email>.
type OTPStore struct {
	client *redis.Client
}

// NewOTPStore creates an OTPStore wrapping the given Redis client.
func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

// SaveCode stores the active code for email, replacing any previous one.
func (s *OTPStore) SaveCode(ctx context.Context, email, code string) error {
	return s.client.Set(ctx, s.codeKey(email), code, codeTTL).Err()
}

// GetCode returns the active code for email, or "" when none is pending.
func (s *OTPStore) GetCode(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, s.codeKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("get otp: %w", err)
	}
	return code, nil
}

func (s *OTPStore) DeleteCode(ctx context.Context, email string) error {
	return s.client.Del(ctx, s.codeKey(email)).Err()
}

// AllowReset opens the reset window for email.
func (s *OTPStore) AllowReset(ctx context.Context, email string) error {
	return s.client.Set(ctx, s.resetKey(email), "1", resetTTL).Err()
}

func (s *OTPStore) ResetAllowed(ctx context.Context, email string) (bool, error) {
	n, err := s.client.Exists(ctx, s.resetKey(email)).Result()
	if err != nil {
		return false, fmt.Errorf("check reset window: %w", err)
	}
	return n > 0, nil
}

func (s *OTPStore) ClearReset(ctx context.Context, email string) error {
	return s.client.Del(ctx, s.resetKey(email)).Err()
}

func (s *OTPStore) codeKey(email string) string {
	return "otp:code:" + email
}

func (s *OTPStore) resetKey(email string) string {
	return "otp:reset:" + email
}
