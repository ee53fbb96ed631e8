package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/changecomm/admin-system/internal/core/domain"
	"github.com/changecomm/admin-system/internal/core/ports"
)

const settingsCollection = "system_settings"

type SettingsRepository struct {
	coll *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{coll: db.Collection(settingsCollection)}
}

type mongoSettings struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	HelpTexts     []domain.HelpText    `bson:"help_texts"`
	RoleTypes     []domain.TypeItem    `bson:"role_types"`
	CategoryTypes []domain.TypeItem    `bson:"category_types"`
	MeasureTypes  []domain.MeasureType `bson:"measure_types"`
	Version       int64                `bson:"version"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

func (r *SettingsRepository) Find(ctx context.Context) (*domain.SystemSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoSettings
	if err := r.coll.FindOne(ctx, bson.M{}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("find settings: %w", err)
	}
	return ms.toDomain(), nil
}

func (r *SettingsRepository) FindByID(ctx context.Context, id string) (*domain.SystemSettings, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSettingsNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoSettings
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("find settings: %w", err)
	}
	return ms.toDomain(), nil
}

// Create inserts the singleton. A document already present means the tenant
// is initialized and the insert is rejected.
func (r *SettingsRepository) Create(ctx context.Context, settings *domain.SystemSettings) (*domain.SystemSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count settings: %w", err)
	}
	if count > 0 {
		return nil, domain.ErrSettingsExists
	}

	now := time.Now().UTC()
	doc := mongoSettings{
		HelpTexts:     settings.HelpTexts,
		RoleTypes:     settings.RoleTypes,
		CategoryTypes: settings.CategoryTypes,
		MeasureTypes:  settings.MeasureTypes,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert settings: %w", err)
	}

	created := doc
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid
	}
	return created.toDomain(), nil
}

// Patch replaces only the array fields present in patch and bumps the
// version counter. When patch.Version is set, the write matches only a
// document still at that version; a live document at another version is a
// stale-write conflict.
func (r *SettingsRepository) Patch(ctx context.Context, id string, patch ports.SettingsPatch) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrSettingsNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.HelpTexts != nil {
		set["help_texts"] = normalizeHelpTexts(*patch.HelpTexts)
	}
	if patch.RoleTypes != nil {
		set["role_types"] = *patch.RoleTypes
	}
	if patch.CategoryTypes != nil {
		set["category_types"] = *patch.CategoryTypes
	}
	if patch.MeasureTypes != nil {
		set["measure_types"] = *patch.MeasureTypes
	}

	filter := bson.M{"_id": oid}
	if patch.Version != nil {
		filter["version"] = *patch.Version
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	if res.MatchedCount == 0 {
		if patch.Version != nil {
			// Distinguish "gone" from "moved on".
			count, countErr := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
			if countErr == nil && count > 0 {
				return domain.ErrSettingsVersionConflict
			}
		}
		return domain.ErrSettingsNotFound
	}
	return nil
}

// normalizeHelpTexts is a write-path guard only; localized values are value
// types here, so absent translations already decode as "".
func normalizeHelpTexts(items []domain.HelpText) []domain.HelpText {
	if items == nil {
		return []domain.HelpText{}
	}
	return items
}

func (ms *mongoSettings) toDomain() *domain.SystemSettings {
	settings := &domain.SystemSettings{
		ID:            ms.ID.Hex(),
		HelpTexts:     ms.HelpTexts,
		RoleTypes:     ms.RoleTypes,
		CategoryTypes: ms.CategoryTypes,
		MeasureTypes:  ms.MeasureTypes,
		Version:       ms.Version,
		CreatedAt:     ms.CreatedAt,
		UpdatedAt:     ms.UpdatedAt,
	}
	if settings.RoleTypes == nil {
		settings.RoleTypes = []domain.TypeItem{}
	}
	if settings.CategoryTypes == nil {
		settings.CategoryTypes = []domain.TypeItem{}
	}
	if settings.MeasureTypes == nil {
		settings.MeasureTypes = []domain.MeasureType{}
	}
	return settings
}
