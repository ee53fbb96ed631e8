package handler

import (
	"time"

	"github.com/changecomm/admin-system/internal/core/domain"
	"github.com/changecomm/admin-system/internal/core/ports"
)

// envelope is the platform's canonical response shape. Every response, error
// or success, carries a status flag and a human-readable message; list
// responses nest items and pagination under data.
type envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type listData struct {
	Items      any              `json:"items"`
	Pagination *ports.Pagination `json:"pagination,omitempty"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginData struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

type userResponse struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Language     string `json:"language,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required,len=6"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// --- Trainers ---

type createTrainerRequest struct {
	Name     string `json:"name"     validate:"required,min=2"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=ADMIN TRAINER"`
}

// updateTrainerRequest is a partial update: nil fields stay untouched and a
// blank password is treated as "keep the current one".
type updateTrainerRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=2"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

type trainerResponse struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toTrainerResponse(u *domain.User) trainerResponse {
	return trainerResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       string(u.Role),
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

// --- System settings ---

type localizedTextRequest struct {
	DE string `json:"de"`
	EN string `json:"en"`
}

type helpTextRequest struct {
	Name   string               `json:"name" validate:"required"`
	Values localizedTextRequest `json:"values"`
}

type typeItemRequest struct {
	Name string `json:"name" validate:"required"`
}

type measureTypeRequest struct {
	Name   string               `json:"name" validate:"required"`
	Values localizedTextRequest `json:"values"`
}

// updateSettingsRequest carries any subset of the singleton's array fields;
// absent fields are not touched. Version, when present, enables the
// stale-write check.
type updateSettingsRequest struct {
	HelpTexts     *[]helpTextRequest    `json:"helpTexts"`
	RoleTypes     *[]typeItemRequest    `json:"roleTypes"`
	CategoryTypes *[]typeItemRequest    `json:"categoryTypes"`
	MeasureTypes  *[]measureTypeRequest `json:"measureTypes"`
	Version       *int64                `json:"version"`
}

type settingsResponse struct {
	ID            string               `json:"_id"`
	HelpTexts     []domain.HelpText    `json:"helpTexts"`
	RoleTypes     []domain.TypeItem    `json:"roleTypes"`
	CategoryTypes []domain.TypeItem    `json:"categoryTypes"`
	MeasureTypes  []domain.MeasureType `json:"measureTypes"`
	Version       int64                `json:"version"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func toSettingsResponse(s *domain.SystemSettings) settingsResponse {
	return settingsResponse{
		ID:            s.ID,
		HelpTexts:     s.HelpTexts,
		RoleTypes:     s.RoleTypes,
		CategoryTypes: s.CategoryTypes,
		MeasureTypes:  s.MeasureTypes,
		Version:       s.Version,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
