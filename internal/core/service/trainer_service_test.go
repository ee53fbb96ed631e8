package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/changecomm/admin-system/internal/core/domain"
	"github.com/changecomm/admin-system/internal/core/ports"
)

func seedTrainers(t *testing.T, repo *stubUserRepo, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		seedUser(t, repo, fmt.Sprintf("trainer%d@example.com", i), "pass", domain.RoleTrainer)
	}
}

func TestTrainerService_Create_HashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewTrainerService(repo, zerolog.Nop())

	created, err := svc.Create(context.Background(), ports.CreateTrainerInput{
		Name:     "New Trainer",
		Email:    "new@example.com",
		Password: "plainpass",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Role != domain.RoleTrainer {
		t.Fatalf("expected default role TRAINER, got %s", created.Role)
	}
	if created.PasswordHash == "plainpass" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("plainpass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestTrainerService_Create_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "dup@example.com", "pass", domain.RoleTrainer)
	svc := NewTrainerService(repo, zerolog.Nop())

	_, err := svc.Create(context.Background(), ports.CreateTrainerInput{
		Name:     "Dup",
		Email:    "dup@example.com",
		Password: "pass",
	})
	if err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestTrainerService_Create_RejectsUnknownRole(t *testing.T) {
	svc := NewTrainerService(newStubUserRepo(), zerolog.Nop())

	_, err := svc.Create(context.Background(), ports.CreateTrainerInput{
		Name:     "X",
		Email:    "x@example.com",
		Password: "pass",
		Role:     "SUPERADMIN",
	})
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected rejection of unknown role, got %v", err)
	}
}

func TestTrainerService_List_Pagination(t *testing.T) {
	repo := newStubUserRepo()
	seedTrainers(t, repo, 10)
	svc := NewTrainerService(repo, zerolog.Nop())

	page1, err := svc.List(context.Background(), ports.ListTrainersInput{Page: 1, Limit: 8})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page1.Items) != 8 {
		t.Fatalf("expected 8 items on page 1, got %d", len(page1.Items))
	}
	p := page1.Pagination
	if p.TotalItems != 10 || p.TotalPages != 2 || !p.HasNext || p.HasPrev {
		t.Fatalf("unexpected pagination: %+v", p)
	}

	page2, err := svc.List(context.Background(), ports.ListTrainersInput{Page: 2, Limit: 8})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page2.Items) != 2 {
		t.Fatalf("expected 2 items on page 2, got %d", len(page2.Items))
	}
	if page2.Pagination.HasNext || !page2.Pagination.HasPrev {
		t.Fatalf("unexpected pagination: %+v", page2.Pagination)
	}
}

func TestTrainerService_List_ClampsPastLastPage(t *testing.T) {
	repo := newStubUserRepo()
	seedTrainers(t, repo, 9)
	svc := NewTrainerService(repo, zerolog.Nop())

	result, err := svc.List(context.Background(), ports.ListTrainersInput{Page: 5, Limit: 8})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Pagination.Page != 2 {
		t.Fatalf("expected clamp to page 2, got %d", result.Pagination.Page)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item on last page, got %d", len(result.Items))
	}
}

func TestTrainerService_List_Defaults(t *testing.T) {
	repo := newStubUserRepo()
	seedTrainers(t, repo, 3)
	svc := NewTrainerService(repo, zerolog.Nop())

	result, err := svc.List(context.Background(), ports.ListTrainersInput{Page: 0, Limit: 0})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Pagination.Page != 1 || result.Pagination.Limit != 8 {
		t.Fatalf("expected defaults page=1 limit=8, got %+v", result.Pagination)
	}
}

func TestTrainerService_List_FiltersRole(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "admin@example.com", "pass", domain.RoleAdmin)
	seedTrainers(t, repo, 2)
	svc := NewTrainerService(repo, zerolog.Nop())

	result, err := svc.List(context.Background(), ports.ListTrainersInput{Page: 1, Limit: 8})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Pagination.TotalItems != 2 {
		t.Fatalf("expected only trainers counted, got %d", result.Pagination.TotalItems)
	}
	for _, u := range result.Items {
		if u.Role != domain.RoleTrainer {
			t.Fatalf("unexpected role in trainer list: %s", u.Role)
		}
	}
}

func TestTrainerService_Update_SkipsBlankPassword(t *testing.T) {
	repo := newStubUserRepo()
	trainer := seedUser(t, repo, "trainer@example.com", "origpass", domain.RoleTrainer)
	origHash := repo.users[trainer.ID].PasswordHash
	svc := NewTrainerService(repo, zerolog.Nop())

	name := "Renamed"
	blank := ""
	updated, err := svc.Update(context.Background(), trainer.ID, ports.UpdateTrainerInput{
		Name:     &name,
		Password: &blank,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("expected name updated, got %q", updated.Name)
	}
	if repo.users[trainer.ID].PasswordHash != origHash {
		t.Fatalf("blank password must not overwrite the stored hash")
	}
}

func TestTrainerService_Update_RehashesNewPassword(t *testing.T) {
	repo := newStubUserRepo()
	trainer := seedUser(t, repo, "trainer@example.com", "origpass", domain.RoleTrainer)
	svc := NewTrainerService(repo, zerolog.Nop())

	newPass := "freshpass"
	if _, err := svc.Update(context.Background(), trainer.ID, ports.UpdateTrainerInput{Password: &newPass}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	hash := repo.users[trainer.ID].PasswordHash
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("freshpass")); err != nil {
		t.Fatalf("stored hash does not match new password: %v", err)
	}
}

func TestTrainerService_Delete(t *testing.T) {
	repo := newStubUserRepo()
	trainer := seedUser(t, repo, "trainer@example.com", "pass", domain.RoleTrainer)
	svc := NewTrainerService(repo, zerolog.Nop())

	if err := svc.Delete(context.Background(), trainer.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), trainer.ID); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}
