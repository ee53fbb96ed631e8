package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const testToken = "tok123"

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

// fakeBackend is an in-memory stand-in for the admin service speaking the
// same envelope protocol.
type fakeBackend struct {
	t *testing.T

	mu       sync.Mutex
	requests []recordedRequest
	trainers []Trainer
	settings *SystemSettings
	nextID   int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	return &fakeBackend{t: t}
}

func (f *fakeBackend) record(r *http.Request) recordedRequest {
	var body map[string]any
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	rec := recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	}
	f.requests = append(f.requests, rec)
	return rec
}

func (f *fakeBackend) count(method, pathPrefix string) int {
	n := 0
	for _, r := range f.requests {
		if r.Method == method && strings.HasPrefix(r.Path, pathPrefix) {
			n++
		}
	}
	return n
}

func (f *fakeBackend) last() recordedRequest {
	return f.requests[len(f.requests)-1]
}

func writeEnvelope(w http.ResponseWriter, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  code < 300,
		"message": message,
		"data":    data,
	})
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req := f.record(r)

	if r.URL.Path == "/auth/login" && r.Method == http.MethodPost {
		if req.Body["password"] != "goodpass" {
			writeEnvelope(w, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "Login successful", map[string]any{
			"user": map[string]any{
				"_id":      "admin_1",
				"name":     "Admin",
				"email":    req.Body["email"],
				"role":     "ADMIN",
				"language": "de",
			},
			"accessToken": testToken,
		})
		return
	}

	if req.Auth != "Bearer "+testToken {
		writeEnvelope(w, http.StatusUnauthorized, "invalid token", nil)
		return
	}

	switch {
	case r.URL.Path == "/admin/users" && r.Method == http.MethodGet:
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if page < 1 {
			page = 1
		}
		total := len(f.trainers)
		totalPages := (total + limit - 1) / limit
		if totalPages > 0 && page > totalPages {
			page = totalPages
		}
		start := (page - 1) * limit
		end := start + limit
		if start > total {
			start = total
		}
		if end > total {
			end = total
		}
		writeEnvelope(w, http.StatusOK, "Trainers fetched successfully", map[string]any{
			"items": f.trainers[start:end],
			"pagination": Pagination{
				Page:       page,
				Limit:      limit,
				TotalItems: int64(total),
				TotalPages: totalPages,
				HasNext:    page < totalPages,
				HasPrev:    page > 1,
			},
		})

	case r.URL.Path == "/admin/trainer" && r.Method == http.MethodPost:
		f.nextID++
		trainer := Trainer{
			ID:    fmt.Sprintf("t%d", f.nextID),
			Name:  req.Body["name"].(string),
			Email: req.Body["email"].(string),
			Role:  "TRAINER",
		}
		f.trainers = append(f.trainers, trainer)
		writeEnvelope(w, http.StatusCreated, "Trainer created successfully", trainer)

	case strings.HasPrefix(r.URL.Path, "/admin/users/") && r.Method == http.MethodPatch:
		id := strings.TrimPrefix(r.URL.Path, "/admin/users/")
		for i := range f.trainers {
			if f.trainers[i].ID == id {
				if name, ok := req.Body["name"].(string); ok {
					f.trainers[i].Name = name
				}
				writeEnvelope(w, http.StatusOK, "Trainer updated successfully", f.trainers[i])
				return
			}
		}
		writeEnvelope(w, http.StatusNotFound, "User not found", nil)

	case strings.HasPrefix(r.URL.Path, "/admin/users/") && r.Method == http.MethodDelete:
		id := strings.TrimPrefix(r.URL.Path, "/admin/users/")
		for i := range f.trainers {
			if f.trainers[i].ID == id {
				f.trainers = append(f.trainers[:i], f.trainers[i+1:]...)
				writeEnvelope(w, http.StatusOK, "Trainer deleted successfully", nil)
				return
			}
		}
		writeEnvelope(w, http.StatusNotFound, "User not found", nil)

	case r.URL.Path == "/system-setting" && r.Method == http.MethodGet:
		items := []SystemSettings{}
		if f.settings != nil {
			items = append(items, *f.settings)
		}
		writeEnvelope(w, http.StatusOK, "System settings fetched successfully", map[string]any{"items": items})

	case r.URL.Path == "/system-setting" && r.Method == http.MethodPost:
		if f.settings != nil {
			writeEnvelope(w, http.StatusConflict, "System settings already initialized", nil)
			return
		}
		helpTexts := make([]HelpText, 0, len(HelpTextCategories))
		for _, name := range HelpTextCategories {
			helpTexts = append(helpTexts, HelpText{Name: name})
		}
		f.settings = &SystemSettings{
			ID:            "settings_1",
			HelpTexts:     helpTexts,
			RoleTypes:     []TypeItem{},
			CategoryTypes: []TypeItem{},
			MeasureTypes:  []MeasureType{},
			Version:       1,
		}
		writeEnvelope(w, http.StatusCreated, "System settings initialized", f.settings)

	case strings.HasPrefix(r.URL.Path, "/system-setting/") && r.Method == http.MethodPut:
		if f.settings == nil || strings.TrimPrefix(r.URL.Path, "/system-setting/") != f.settings.ID {
			writeEnvelope(w, http.StatusNotFound, "System settings not found", nil)
			return
		}
		if v, ok := req.Body["version"].(float64); ok && int64(v) != f.settings.Version {
			writeEnvelope(w, http.StatusConflict, "Settings were changed by another editor, reload and try again", nil)
			return
		}
		applyField := func(key string, out any) bool {
			raw, ok := req.Body[key]
			if !ok {
				return false
			}
			buf, _ := json.Marshal(raw)
			_ = json.Unmarshal(buf, out)
			return true
		}
		applyField("helpTexts", &f.settings.HelpTexts)
		applyField("roleTypes", &f.settings.RoleTypes)
		applyField("categoryTypes", &f.settings.CategoryTypes)
		applyField("measureTypes", &f.settings.MeasureTypes)
		f.settings.Version++
		writeEnvelope(w, http.StatusOK, "System settings updated successfully", f.settings)

	default:
		writeEnvelope(w, http.StatusNotFound, "not found", nil)
	}
}

func newTestClient(t *testing.T) (*Client, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend(t)
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return New(srv.URL), backend
}

func login(t *testing.T, c *Client) {
	t.Helper()
	if _, err := c.Login(context.Background(), "admin@example.com", "goodpass"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

func TestClient_Login(t *testing.T) {
	c, _ := newTestClient(t)

	principal, err := c.Login(context.Background(), "admin@example.com", "goodpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if principal.ID != "admin_1" || principal.Role != "ADMIN" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
	if principal.AccessToken != testToken {
		t.Fatalf("expected access token stored, got %q", principal.AccessToken)
	}
	if c.Principal() == nil {
		t.Fatalf("expected session to be stored")
	}
}

func TestClient_Login_InvalidCredentials(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Login(context.Background(), "admin@example.com", "badpass")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if c.Principal() != nil {
		t.Fatalf("failed login must not store a session")
	}
}

func TestClient_NoSessionNoRequest(t *testing.T) {
	c, backend := newTestClient(t)

	if _, err := c.ListTrainers(context.Background(), 1); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, err := c.Settings(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if len(backend.requests) != 0 {
		t.Fatalf("no request may be issued without a session, saw %d", len(backend.requests))
	}
}

func TestClient_BearerAttached(t *testing.T) {
	c, backend := newTestClient(t)
	login(t, c)

	if _, err := c.ListTrainers(context.Background(), 1); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	last := backend.last()
	if last.Auth != "Bearer "+testToken {
		t.Fatalf("expected bearer token on request, got %q", last.Auth)
	}
}

func TestClient_Logout_DropsSession(t *testing.T) {
	c, _ := newTestClient(t)
	login(t, c)

	c.Logout()
	if c.Principal() != nil {
		t.Fatalf("expected session dropped")
	}
	if _, err := c.ListTrainers(context.Background(), 1); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after logout, got %v", err)
	}
}

func TestClient_LocaleIndependentOfSession(t *testing.T) {
	c, _ := newTestClient(t)
	c.SetLocale("en")
	login(t, c)
	c.Logout()

	if c.Locale() != "en" {
		t.Fatalf("display locale must survive logout, got %q", c.Locale())
	}
}

func TestClient_CreateThenList(t *testing.T) {
	c, backend := newTestClient(t)
	login(t, c)

	// Prime the cache with an empty list.
	page, err := c.ListTrainers(context.Background(), 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("expected empty list, got %d", len(page.Items))
	}

	created, err := c.CreateTrainer(context.Background(), NewTrainer{
		Name:     "New Trainer",
		Email:    "new@example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// The cache was invalidated, so the next list reflects the new row.
	page, err = c.ListTrainers(context.Background(), 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != created.ID {
		t.Fatalf("expected created trainer in list, got %+v", page.Items)
	}
	if backend.count(http.MethodGet, "/admin/users") != 2 {
		t.Fatalf("expected 2 list fetches, got %d", backend.count(http.MethodGet, "/admin/users"))
	}
}

func TestClient_ListCache(t *testing.T) {
	c, backend := newTestClient(t)
	login(t, c)

	if _, err := c.ListTrainers(context.Background(), 1); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := c.ListTrainers(context.Background(), 1); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if got := backend.count(http.MethodGet, "/admin/users"); got != 1 {
		t.Fatalf("expected cached second read, got %d fetches", got)
	}
}

func TestClient_UpdateTrainer_OmitsBlankPassword(t *testing.T) {
	c, backend := newTestClient(t)
	login(t, c)

	created, err := c.CreateTrainer(context.Background(), NewTrainer{
		Name:     "Trainer",
		Email:    "t@example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := c.UpdateTrainer(context.Background(), created.ID, TrainerUpdate{Name: "Renamed"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	last := backend.last()
	if _, ok := last.Body["password"]; ok {
		t.Fatalf("blank password must not appear in the payload: %+v", last.Body)
	}
	if last.Body["name"] != "Renamed" {
		t.Fatalf("expected name in payload, got %+v", last.Body)
	}
}

func TestClient_DeleteTrainer_RequiresConfirm(t *testing.T) {
	c, backend := newTestClient(t)
	login(t, c)

	created, err := c.CreateTrainer(context.Background(), NewTrainer{
		Name:     "Trainer",
		Email:    "t@example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	pending := c.DeleteTrainer(created.ID)
	if got := backend.count(http.MethodDelete, "/admin/users"); got != 0 {
		t.Fatalf("staging a deletion must not issue a DELETE, saw %d", got)
	}

	if err := pending.Confirm(context.Background()); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if got := backend.count(http.MethodDelete, "/admin/users"); got != 1 {
		t.Fatalf("expected 1 DELETE after confirm, got %d", got)
	}

	// Confirming again is a no-op.
	if err := pending.Confirm(context.Background()); err != nil {
		t.Fatalf("second confirm failed: %v", err)
	}
	if got := backend.count(http.MethodDelete, "/admin/users"); got != 1 {
		t.Fatalf("expected no second DELETE, got %d", got)
	}

	page, err := c.ListTrainers(context.Background(), 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("expected trainer removed, got %+v", page.Items)
	}
}
