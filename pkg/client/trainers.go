package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// PageSize is the fixed number of trainers requested per page.
const PageSize = 8

type trainerListData struct {
	Items      []Trainer  `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// ListTrainers fetches one page of trainers. Pages are cached until the next
// mutation; page numbers below 1 are treated as 1.
func (c *Client) ListTrainers(ctx context.Context, page int) (*TrainerPage, error) {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	if cached, ok := c.trainerPages[page]; ok {
		cp := *cached
		cp.Items = append([]Trainer(nil), cached.Items...)
		c.mu.Unlock()
		return &cp, nil
	}
	c.mu.Unlock()

	path := fmt.Sprintf("/admin/users?role=TRAINER&page=%d&limit=%d", page, PageSize)
	data, err := c.do(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}
	var ld trainerListData
	if err := json.Unmarshal(data, &ld); err != nil {
		return nil, fmt.Errorf("decode trainer list: %w", err)
	}

	result := &TrainerPage{Items: ld.Items, Pagination: ld.Pagination}
	c.mu.Lock()
	// The backend clamps out-of-range pages; cache under the effective page.
	c.trainerPages[result.Pagination.Page] = result
	c.mu.Unlock()

	cp := *result
	cp.Items = append([]Trainer(nil), result.Items...)
	return &cp, nil
}

// CreateTrainer creates a trainer account and invalidates cached pages.
func (c *Client) CreateTrainer(ctx context.Context, t NewTrainer) (*Trainer, error) {
	data, err := c.do(ctx, http.MethodPost, "/admin/trainer", t, true)
	if err != nil {
		return nil, err
	}
	var created Trainer
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("decode created trainer: %w", err)
	}
	c.invalidate()
	return &created, nil
}

// UpdateTrainer applies a partial update. Empty fields are left out of the
// payload, so a blank password never reaches the backend.
func (c *Client) UpdateTrainer(ctx context.Context, id string, u TrainerUpdate) (*Trainer, error) {
	payload := map[string]string{}
	if u.Name != "" {
		payload["name"] = u.Name
	}
	if u.Email != "" {
		payload["email"] = u.Email
	}
	if u.Phone != "" {
		payload["phone"] = u.Phone
	}
	if u.Password != "" {
		payload["password"] = u.Password
	}
	data, err := c.do(ctx, http.MethodPatch, "/admin/users/"+id, payload, true)
	if err != nil {
		return nil, err
	}
	var updated Trainer
	if err := json.Unmarshal(data, &updated); err != nil {
		return nil, fmt.Errorf("decode updated trainer: %w", err)
	}
	c.invalidate()
	return &updated, nil
}

// DeleteConfirmation is a pending trainer deletion. Nothing is sent to the
// backend until Confirm is called; dropping the value cancels the deletion.
type DeleteConfirmation struct {
	client *Client
	id     string
	done   bool
}

// DeleteTrainer stages a deletion. The DELETE request is only issued by
// Confirm on the returned confirmation.
func (c *Client) DeleteTrainer(id string) *DeleteConfirmation {
	return &DeleteConfirmation{client: c, id: id}
}

// ID returns the trainer id staged for deletion.
func (d *DeleteConfirmation) ID() string { return d.id }

// Confirm issues the deletion. Calling it more than once is a no-op.
func (d *DeleteConfirmation) Confirm(ctx context.Context) error {
	if d.done {
		return nil
	}
	_, err := d.client.do(ctx, http.MethodDelete, "/admin/users/"+d.id, nil, true)
	if err != nil {
		return err
	}
	d.done = true
	d.client.invalidate()
	return nil
}
