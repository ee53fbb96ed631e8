package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/changecomm/admin-system/internal/core/domain"
	"github.com/changecomm/admin-system/internal/core/ports"
)

// SettingsService implements the system-settings singleton use cases.
type SettingsService struct {
	repo ports.SettingsRepository
	log  zerolog.Logger
}

func NewSettingsService(repo ports.SettingsRepository, log zerolog.Logger) *SettingsService {
	return &SettingsService{repo: repo, log: log}
}

func (s *SettingsService) Get(ctx context.Context) (*domain.SystemSettings, error) {
	settings, err := s.repo.Find(ctx)
	if err != nil {
		return nil, err
	}
	mergeHelpTexts(settings)
	return settings, nil
}

// Initialize creates the singleton with seed values: every help-text
// category present with empty localized pairs, taxonomies empty.
func (s *SettingsService) Initialize(ctx context.Context) (*domain.SystemSettings, error) {
	created, err := s.repo.Create(ctx, domain.SeedSettings())
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("settings_id", created.ID).Msg("system settings initialized")
	return created, nil
}

// Patch replaces the array fields present in patch and leaves the rest of
// the document untouched. Localized values are normalized before the write
// so a missing translation is stored as "".
func (s *SettingsService) Patch(ctx context.Context, id string, patch ports.SettingsPatch) (*domain.SystemSettings, error) {
	if patch.Empty() {
		return s.repo.FindByID(ctx, id)
	}

	if err := s.repo.Patch(ctx, id, patch); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	mergeHelpTexts(updated)

	s.log.Info().
		Str("settings_id", id).
		Bool("help_texts", patch.HelpTexts != nil).
		Bool("role_types", patch.RoleTypes != nil).
		Bool("category_types", patch.CategoryTypes != nil).
		Bool("measure_types", patch.MeasureTypes != nil).
		Msg("system settings updated")
	return updated, nil
}

// mergeHelpTexts reshapes the stored help texts against the fixed category
// list: known categories keep their values, missing ones appear with empty
// pairs, unknown names are dropped.
func mergeHelpTexts(settings *domain.SystemSettings) {
	byName := make(map[string]domain.HelpText, len(settings.HelpTexts))
	for _, ht := range settings.HelpTexts {
		byName[ht.Name] = ht
	}

	merged := make([]domain.HelpText, 0, len(domain.HelpTextCategories))
	for _, name := range domain.HelpTextCategories {
		if existing, ok := byName[name]; ok {
			merged = append(merged, existing)
			continue
		}
		merged = append(merged, domain.HelpText{Name: name})
	}
	settings.HelpTexts = merged
}
