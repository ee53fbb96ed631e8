package ports

import (
	"context"

	"github.com/changecomm/admin-system/internal/core/domain"
)

// ListTrainersInput carries pagination parameters for the trainer list.
type ListTrainersInput struct {
	Page  int
	Limit int
}

// Pagination is the metadata block returned alongside every list page.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// ListTrainersResult is one page of trainers plus pagination metadata.
// Pagination.Page reflects clamping: a request past the last page is served
// the last non-empty page.
type ListTrainersResult struct {
	Items      []*domain.User
	Pagination Pagination
}

// CreateTrainerInput carries the fields of a new trainer account.
type CreateTrainerInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     domain.Role
}

// UpdateTrainerInput is a partial trainer update. Nil fields are not written;
// a nil Password in particular means "keep the current password".
type UpdateTrainerInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
}

// TrainerService defines the admin trainer-management use cases.
type TrainerService interface {
	List(ctx context.Context, input ListTrainersInput) (*ListTrainersResult, error)
	Create(ctx context.Context, input CreateTrainerInput) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateTrainerInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
