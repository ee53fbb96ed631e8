package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/changecomm/admin-system/internal/core/domain"
	"github.com/changecomm/admin-system/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		r.nextID++
		copy.ID = fmt.Sprintf("user_%d", r.nextID)
	}
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context, filter ports.UserListFilter) ([]*domain.User, int64, error) {
	var matching []*domain.User
	for i := 1; i <= r.nextID; i++ {
		u, ok := r.users[fmt.Sprintf("user_%d", i)]
		if !ok {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		matching = append(matching, cloneUser(u))
	}

	total := int64(len(matching))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matching) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(matching) {
		end = len(matching)
	}
	return matching[start:end], total, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdatePasswordByEmail(_ context.Context, email, passwordHash string) error {
	for _, u := range r.users {
		if u.Email == email {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubOTPStore struct {
	codes   map[string]string
	allowed map[string]bool
}

func newStubOTPStore() *stubOTPStore {
	return &stubOTPStore{codes: make(map[string]string), allowed: make(map[string]bool)}
}

func (s *stubOTPStore) SaveCode(_ context.Context, email, code string) error {
	s.codes[email] = code
	return nil
}

func (s *stubOTPStore) GetCode(_ context.Context, email string) (string, error) {
	return s.codes[email], nil
}

func (s *stubOTPStore) DeleteCode(_ context.Context, email string) error {
	delete(s.codes, email)
	return nil
}

func (s *stubOTPStore) AllowReset(_ context.Context, email string) error {
	s.allowed[email] = true
	return nil
}

func (s *stubOTPStore) ResetAllowed(_ context.Context, email string) (bool, error) {
	return s.allowed[email], nil
}

func (s *stubOTPStore) ClearReset(_ context.Context, email string) error {
	delete(s.allowed, email)
	return nil
}

type stubDispatcher struct {
	sent []ports.OTPMail
}

func (d *stubDispatcher) Enqueue(mail ports.OTPMail) {
	d.sent = append(d.sent, mail)
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := repo.Create(context.Background(), &domain.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func newAuthService(repo *stubUserRepo, otp *stubOTPStore, mail *stubDispatcher) *AuthService {
	return NewAuthService(repo, otp, mail, "secret", time.Hour, zerolog.Nop())
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "admin@example.com", "s3cret", domain.RoleAdmin)
	svc := newAuthService(repo, newStubOTPStore(), &stubDispatcher{})

	token, user, err := svc.Login(context.Background(), "admin@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Email != "admin@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != string(domain.RoleAdmin) {
		t.Fatalf("expected role %s, got %v", domain.RoleAdmin, claims["role"])
	}
	if claims["user_id"] != user.ID {
		t.Fatalf("expected user_id %s, got %v", user.ID, claims["user_id"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "admin@example.com", "goodpass", domain.RoleAdmin)
	svc := newAuthService(repo, newStubOTPStore(), &stubDispatcher{})

	if _, _, err := svc.Login(context.Background(), "admin@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), newStubOTPStore(), &stubDispatcher{})

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "admin@example.com", "oldpass", domain.RoleAdmin)
	svc := newAuthService(repo, newStubOTPStore(), &stubDispatcher{})

	if err := svc.ChangePassword(context.Background(), user.ID, "wrong", "newpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong old password, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "oldpass", "newpass"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "admin@example.com", "newpass"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "admin@example.com", "oldpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected old password to be rejected, got %v", err)
	}
}

func TestAuthService_ForgotPassword_IssuesCode(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "admin@example.com", "pass", domain.RoleAdmin)
	otp := newStubOTPStore()
	mail := &stubDispatcher{}
	svc := newAuthService(repo, otp, mail)

	if err := svc.ForgotPassword(context.Background(), "admin@example.com"); err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}

	code := otp.codes["admin@example.com"]
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", code)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected 1 mail enqueued, got %d", len(mail.sent))
	}
	if mail.sent[0].To != "admin@example.com" || mail.sent[0].Code != code {
		t.Fatalf("unexpected mail: %+v", mail.sent[0])
	}
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), newStubOTPStore(), &stubDispatcher{})

	if err := svc.ForgotPassword(context.Background(), "ghost@example.com"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_VerifyCode(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "admin@example.com", "pass", domain.RoleAdmin)
	otp := newStubOTPStore()
	svc := newAuthService(repo, otp, &stubDispatcher{})

	if err := svc.ForgotPassword(context.Background(), "admin@example.com"); err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}
	code := otp.codes["admin@example.com"]

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	if err := svc.VerifyCode(context.Background(), "admin@example.com", wrong); err != domain.ErrInvalidOTP {
		t.Fatalf("expected ErrInvalidOTP for wrong code, got %v", err)
	}

	if err := svc.VerifyCode(context.Background(), "admin@example.com", code); err != nil {
		t.Fatalf("verify code failed: %v", err)
	}
	if !otp.allowed["admin@example.com"] {
		t.Fatalf("expected reset window to be open")
	}
	if _, ok := otp.codes["admin@example.com"]; ok {
		t.Fatalf("expected code to be consumed")
	}

	// Consumed codes cannot be replayed.
	if err := svc.VerifyCode(context.Background(), "admin@example.com", code); err != domain.ErrInvalidOTP {
		t.Fatalf("expected ErrInvalidOTP on replay, got %v", err)
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "admin@example.com", "oldpass", domain.RoleAdmin)
	otp := newStubOTPStore()
	svc := newAuthService(repo, otp, &stubDispatcher{})

	if err := svc.ResetPassword(context.Background(), "admin@example.com", "newpass"); err != domain.ErrResetNotAllowed {
		t.Fatalf("expected ErrResetNotAllowed without verified code, got %v", err)
	}

	otp.allowed["admin@example.com"] = true
	if err := svc.ResetPassword(context.Background(), "admin@example.com", "newpass"); err != nil {
		t.Fatalf("reset password failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "admin@example.com", "newpass"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if otp.allowed["admin@example.com"] {
		t.Fatalf("expected reset window to be closed after use")
	}
}
