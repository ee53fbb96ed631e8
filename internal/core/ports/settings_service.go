package ports

import (
	"context"

	"github.com/changecomm/admin-system/internal/core/domain"
)

// SettingsPatch carries a partial settings update. Only non-nil array fields
// are replaced; absent fields stay untouched, which is how a sub-editor
// updates one taxonomy without clobbering its siblings. When Version is set,
// the write is rejected with ErrSettingsVersionConflict unless it matches the
// stored document.
type SettingsPatch struct {
	HelpTexts     *[]domain.HelpText
	RoleTypes     *[]domain.TypeItem
	CategoryTypes *[]domain.TypeItem
	MeasureTypes  *[]domain.MeasureType
	Version       *int64
}

// Empty reports whether the patch carries no array field at all.
func (p SettingsPatch) Empty() bool {
	return p.HelpTexts == nil && p.RoleTypes == nil && p.CategoryTypes == nil && p.MeasureTypes == nil
}

// SettingsService defines the system-settings singleton use cases.
type SettingsService interface {
	// Get returns the singleton, or domain.ErrSettingsNotFound when it has
	// not been initialized yet.
	Get(ctx context.Context) (*domain.SystemSettings, error)
	// Initialize creates the singleton with seed values.
	Initialize(ctx context.Context) (*domain.SystemSettings, error)
	// Patch replaces the provided array fields and returns the updated
	// document.
	Patch(ctx context.Context, id string, patch SettingsPatch) (*domain.SystemSettings, error)
}

// SettingsRepository defines persistence operations for the settings
// singleton.
type SettingsRepository interface {
	Find(ctx context.Context) (*domain.SystemSettings, error)
	FindByID(ctx context.Context, id string) (*domain.SystemSettings, error)
	Create(ctx context.Context, settings *domain.SystemSettings) (*domain.SystemSettings, error)
	Patch(ctx context.Context, id string, patch SettingsPatch) error
}
