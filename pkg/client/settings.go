package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type settingsListData struct {
	Items []SystemSettings `json:"items"`
}

// Settings returns the settings singleton, served from the cached snapshot
// when one is held. ErrSettingsNotInitialized is returned while no document
// exists yet.
func (c *Client) Settings(ctx context.Context) (*SystemSettings, error) {
	c.mu.Lock()
	if c.settings != nil {
		cp := copySettings(c.settings)
		c.mu.Unlock()
		return cp, nil
	}
	c.mu.Unlock()

	data, err := c.do(ctx, http.MethodGet, "/system-setting", nil, true)
	if err != nil {
		return nil, err
	}
	var ld settingsListData
	if err := json.Unmarshal(data, &ld); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if len(ld.Items) == 0 {
		return nil, ErrSettingsNotInitialized
	}

	s := ld.Items[0]
	c.mu.Lock()
	c.settings = copySettings(&s)
	c.mu.Unlock()
	return &s, nil
}

// InitializeSettings creates the settings singleton with the default
// help-text categories and empty taxonomies.
func (c *Client) InitializeSettings(ctx context.Context) (*SystemSettings, error) {
	data, err := c.do(ctx, http.MethodPost, "/system-setting", nil, true)
	if err != nil {
		return nil, err
	}
	var s SystemSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	c.invalidate()
	return &s, nil
}

// AddType appends a named entry to one taxonomy field. For measure types the
// entry starts with an empty localized prompt.
func (c *Client) AddType(ctx context.Context, field TaxonomyField, name string) (*SystemSettings, error) {
	s, err := c.Settings(ctx)
	if err != nil {
		return nil, err
	}
	var value any
	switch field {
	case MeasureTypes:
		value = append(append([]MeasureType(nil), s.MeasureTypes...), MeasureType{Name: name})
	case RoleTypes:
		value = append(append([]TypeItem(nil), s.RoleTypes...), TypeItem{Name: name})
	case CategoryTypes:
		value = append(append([]TypeItem(nil), s.CategoryTypes...), TypeItem{Name: name})
	default:
		return nil, fmt.Errorf("unknown taxonomy field %q", field)
	}
	return c.putField(ctx, s, field, value)
}

// RenameType replaces the name of the entry at index. Measure-type prompts
// attached to the entry are kept.
func (c *Client) RenameType(ctx context.Context, field TaxonomyField, index int, name string) (*SystemSettings, error) {
	s, err := c.Settings(ctx)
	if err != nil {
		return nil, err
	}
	var value any
	switch field {
	case MeasureTypes:
		if index < 0 || index >= len(s.MeasureTypes) {
			return nil, ErrIndexOutOfRange
		}
		items := append([]MeasureType(nil), s.MeasureTypes...)
		items[index].Name = name
		value = items
	case RoleTypes:
		if index < 0 || index >= len(s.RoleTypes) {
			return nil, ErrIndexOutOfRange
		}
		items := append([]TypeItem(nil), s.RoleTypes...)
		items[index].Name = name
		value = items
	case CategoryTypes:
		if index < 0 || index >= len(s.CategoryTypes) {
			return nil, ErrIndexOutOfRange
		}
		items := append([]TypeItem(nil), s.CategoryTypes...)
		items[index].Name = name
		value = items
	default:
		return nil, fmt.Errorf("unknown taxonomy field %q", field)
	}
	return c.putField(ctx, s, field, value)
}

// RemoveType deletes the entry at index from one taxonomy field.
func (c *Client) RemoveType(ctx context.Context, field TaxonomyField, index int) (*SystemSettings, error) {
	s, err := c.Settings(ctx)
	if err != nil {
		return nil, err
	}
	var value any
	switch field {
	case MeasureTypes:
		if index < 0 || index >= len(s.MeasureTypes) {
			return nil, ErrIndexOutOfRange
		}
		items := append([]MeasureType(nil), s.MeasureTypes[:index]...)
		value = append(items, s.MeasureTypes[index+1:]...)
	case RoleTypes:
		if index < 0 || index >= len(s.RoleTypes) {
			return nil, ErrIndexOutOfRange
		}
		items := append([]TypeItem(nil), s.RoleTypes[:index]...)
		value = append(items, s.RoleTypes[index+1:]...)
	case CategoryTypes:
		if index < 0 || index >= len(s.CategoryTypes) {
			return nil, ErrIndexOutOfRange
		}
		items := append([]TypeItem(nil), s.CategoryTypes[:index]...)
		value = append(items, s.CategoryTypes[index+1:]...)
	default:
		return nil, fmt.Errorf("unknown taxonomy field %q", field)
	}
	return c.putField(ctx, s, field, value)
}

// SaveHelpTexts writes the full help-text set. Provided values are merged
// over the fixed category list, so the payload always carries one entry per
// category in canonical order.
func (c *Client) SaveHelpTexts(ctx context.Context, texts map[string]LocalizedText) (*SystemSettings, error) {
	s, err := c.Settings(ctx)
	if err != nil {
		return nil, err
	}
	current := make(map[string]LocalizedText, len(s.HelpTexts))
	for _, ht := range s.HelpTexts {
		current[ht.Name] = ht.Values
	}
	merged := make([]HelpText, 0, len(HelpTextCategories))
	for _, category := range HelpTextCategories {
		values := current[category]
		if v, ok := texts[category]; ok {
			values = v
		}
		merged = append(merged, HelpText{Name: category, Values: values})
	}
	return c.putField(ctx, s, "helpTexts", merged)
}

// SaveMeasurePrompts sets the localized prompts of existing measure types,
// keyed by entry name. Only the measureTypes field is sent; prompts for
// unknown names are ignored.
func (c *Client) SaveMeasurePrompts(ctx context.Context, prompts map[string]LocalizedText) (*SystemSettings, error) {
	s, err := c.Settings(ctx)
	if err != nil {
		return nil, err
	}
	items := append([]MeasureType(nil), s.MeasureTypes...)
	for i := range items {
		if v, ok := prompts[items[i].Name]; ok {
			items[i].Values = v
		}
	}
	return c.putField(ctx, s, MeasureTypes, items)
}

// putField replaces one settings field via PUT, carrying the snapshot version
// so concurrent edits are detected by the backend.
func (c *Client) putField(ctx context.Context, s *SystemSettings, field TaxonomyField, value any) (*SystemSettings, error) {
	payload := map[string]any{
		string(field): value,
		"version":     s.Version,
	}
	data, err := c.do(ctx, http.MethodPut, "/system-setting/"+s.ID, payload, true)
	if err != nil {
		return nil, err
	}
	var updated SystemSettings
	if err := json.Unmarshal(data, &updated); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	c.mu.Lock()
	c.settings = copySettings(&updated)
	c.mu.Unlock()
	return &updated, nil
}

func copySettings(s *SystemSettings) *SystemSettings {
	cp := *s
	cp.HelpTexts = append([]HelpText(nil), s.HelpTexts...)
	cp.RoleTypes = append([]TypeItem(nil), s.RoleTypes...)
	cp.CategoryTypes = append([]TypeItem(nil), s.CategoryTypes...)
	cp.MeasureTypes = append([]MeasureType(nil), s.MeasureTypes...)
	return &cp
}
