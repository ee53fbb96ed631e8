package ports

import (
	"context"

	"github.com/changecomm/admin-system/internal/core/domain"
)

// UserListFilter carries query parameters for listing accounts.
type UserListFilter struct {
	Role  domain.Role // empty = all roles
	Page  int         // 1-based
	Limit int         // rows per page
}

// UserPatch carries a partial account update. Nil fields are left untouched;
// this is how a blank optional form field avoids an empty-string overwrite.
type UserPatch struct {
	Name         *string
	Email        *string
	Phone        *string
	PasswordHash *string
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// List returns a page of accounts matching filter and the total count.
	List(ctx context.Context, filter UserListFilter) ([]*domain.User, int64, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
	Delete(ctx context.Context, id string) error
}
