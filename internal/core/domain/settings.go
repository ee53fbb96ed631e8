package domain

import (
	"errors"
	"time"
)

var (
	ErrSettingsNotFound        = errors.New("system settings not found")
	ErrSettingsExists          = errors.New("system settings already initialized")
	ErrSettingsVersionConflict = errors.New("system settings modified by another editor")
)

// Locale codes used by localized dictionaries. The platform ships German and
// English; a missing translation is stored as "", never as an absent key.
const (
	LocaleDE = "de"
	LocaleEN = "en"
)

// LocalizedText is a de/en value pair.
type LocalizedText struct {
	DE string `json:"de" bson:"de"`
	EN string `json:"en" bson:"en"`
}

// HelpText is a localized help entry keyed by its category name.
type HelpText struct {
	Name   string        `json:"name" bson:"name"`
	Values LocalizedText `json:"values" bson:"values"`
}

// TypeItem is a single dropdown taxonomy entry.
type TypeItem struct {
	Name string `json:"name" bson:"name"`
}

// MeasureType is a taxonomy entry carrying a localized AI prompt.
type MeasureType struct {
	Name   string        `json:"name" bson:"name"`
	Values LocalizedText `json:"values" bson:"values"`
}

// HelpTextCategories is the fixed set of help-text categories the dashboard
// edits. Documents are merged against this list on read so every category is
// always present.
var HelpTextCategories = []string{
	"Relevance",
	"Vision",
	"The past (good old days)",
	"Obstacle / Problem",
	"Risk of inaction / Consequences",
	"Solution / Idea",
}

// SystemSettings is the per-tenant settings singleton. At most one document
// exists; Version increments on every write and backs the optimistic
// concurrency check on PUT.
type SystemSettings struct {
	ID            string        `json:"_id"`
	HelpTexts     []HelpText    `json:"helpTexts"`
	RoleTypes     []TypeItem    `json:"roleTypes"`
	CategoryTypes []TypeItem    `json:"categoryTypes"`
	MeasureTypes  []MeasureType `json:"measureTypes"`
	Version       int64         `json:"version"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// SeedSettings returns the document created by the initialization action:
// every help-text category present with empty localized pairs, taxonomies
// empty.
func SeedSettings() *SystemSettings {
	helpTexts := make([]HelpText, 0, len(HelpTextCategories))
	for _, name := range HelpTextCategories {
		helpTexts = append(helpTexts, HelpText{Name: name})
	}
	return &SystemSettings{
		HelpTexts:     helpTexts,
		RoleTypes:     []TypeItem{},
		CategoryTypes: []TypeItem{},
		MeasureTypes:  []MeasureType{},
	}
}
