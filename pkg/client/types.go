package client

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoSession is returned when an authenticated call is attempted
	// without a stored principal. No request is issued in that case.
	ErrNoSession = errors.New("no active session")
	// ErrInvalidCredentials is returned by Login when the backend rejects
	// the email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSettingsNotInitialized is returned when the settings singleton does
	// not exist yet; call InitializeSettings first.
	ErrSettingsNotInitialized = errors.New("system settings not initialized")
	// ErrIndexOutOfRange is returned by positional sub-editor operations
	// addressing an element the current snapshot does not have.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// APIError carries a non-2xx response: the backend message when present,
// otherwise a generic one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Principal is the authenticated identity held for the session.
type Principal struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Language     string `json:"language"`
	ProfileImage string `json:"profileImage"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Trainer mirrors the trainer records served by the admin list.
type Trainer struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Pagination is the metadata block on list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// TrainerPage is one fetched page of trainers.
type TrainerPage struct {
	Items      []Trainer
	Pagination Pagination
}

// NewTrainer carries the fields of a trainer to create.
type NewTrainer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// TrainerUpdate is a partial trainer update. Empty fields are omitted from
// the payload; a blank Password in particular is never sent.
type TrainerUpdate struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// LocalizedText is a de/en value pair; a missing translation is "".
type LocalizedText struct {
	DE string `json:"de"`
	EN string `json:"en"`
}

// HelpText is a localized help entry keyed by category name.
type HelpText struct {
	Name   string        `json:"name"`
	Values LocalizedText `json:"values"`
}

// TypeItem is a single dropdown taxonomy entry.
type TypeItem struct {
	Name string `json:"name"`
}

// MeasureType is a taxonomy entry carrying a localized prompt.
type MeasureType struct {
	Name   string        `json:"name"`
	Values LocalizedText `json:"values"`
}

// SystemSettings is the settings singleton as served by the backend.
type SystemSettings struct {
	ID            string        `json:"_id"`
	HelpTexts     []HelpText    `json:"helpTexts"`
	RoleTypes     []TypeItem    `json:"roleTypes"`
	CategoryTypes []TypeItem    `json:"categoryTypes"`
	MeasureTypes  []MeasureType `json:"measureTypes"`
	Version       int64         `json:"version"`
}

// TaxonomyField names one editable taxonomy array of the settings singleton.
type TaxonomyField string

const (
	RoleTypes     TaxonomyField = "roleTypes"
	CategoryTypes TaxonomyField = "categoryTypes"
	MeasureTypes  TaxonomyField = "measureTypes"
)

// HelpTextCategories is the fixed category set the help-text editor manages.
// Backend data is merged into this shape; missing categories default to
// empty localized pairs.
var HelpTextCategories = []string{
	"Relevance",
	"Vision",
	"The past (good old days)",
	"Obstacle / Problem",
	"Risk of inaction / Consequences",
	"Solution / Idea",
}
