package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/changecomm/admin-system/internal/core/domain"
	"github.com/changecomm/admin-system/internal/core/ports"
)

const (
	defaultPageLimit = 8
	maxPageLimit     = 100
)

// TrainerService implements trainer account management.
type TrainerService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewTrainerService(users ports.UserRepository, log zerolog.Logger) *TrainerService {
	return &TrainerService{users: users, log: log}
}

// List returns one page of trainer accounts. A page past the end is clamped
// to the last non-empty page so a delete that empties the last page never
// strands the caller on an empty view.
func (s *TrainerService) List(ctx context.Context, input ports.ListTrainersInput) (*ports.ListTrainersResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.users.List(ctx, ports.UserListFilter{
		Role:  domain.RoleTrainer,
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages > 0 && page > totalPages {
		page = totalPages
		items, total, err = s.users.List(ctx, ports.UserListFilter{
			Role:  domain.RoleTrainer,
			Page:  page,
			Limit: limit,
		})
		if err != nil {
			return nil, err
		}
	}

	return &ports.ListTrainersResult{
		Items: items,
		Pagination: ports.Pagination{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

func (s *TrainerService) Create(ctx context.Context, input ports.CreateTrainerInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleTrainer
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	trainer := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, trainer)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("trainer_id", created.ID).Str("email", created.Email).Msg("trainer created")
	return created, nil
}

// Update applies a partial update. A nil or blank password never overwrites
// the stored hash.
func (s *TrainerService) Update(ctx context.Context, id string, input ports.UpdateTrainerInput) (*domain.User, error) {
	patch := ports.UserPatch{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
	}

	if input.Password != nil && *input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashStr := string(hash)
		patch.PasswordHash = &hashStr
	}

	updated, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("trainer_id", id).Msg("trainer updated")
	return updated, nil
}

func (s *TrainerService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("trainer_id", id).Msg("trainer deleted")
	return nil
}
