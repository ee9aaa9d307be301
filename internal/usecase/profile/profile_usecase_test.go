package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdugdh24/spark-backend/internal/domain"
	"github.com/gdugdh24/spark-backend/internal/repository/memory"
)

func seed(t *testing.T, completed bool) (*ProfileUseCase, *memory.ProfileRepository) {
	t.Helper()
	repo := memory.NewProfileRepository()
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	gender := domain.GenderFemale
	p := &domain.Profile{
		ID:                  "u1",
		Email:               "ana@example.com",
		Name:                "Ana",
		Age:                 25,
		Gender:              &gender,
		Photos:              []string{"a.jpg"},
		Hobbies:             []string{"Travel", "Music", "Art"},
		Preferences:         domain.DefaultPreferences(),
		OnboardingCompleted: completed,
		CreatedAt:           created,
		UpdatedAt:           created,
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	return NewProfileUseCase(repo), repo
}

func TestUpdateProfile(t *testing.T) {
	uc, repo := seed(t, true)
	ctx := context.Background()

	bio := "Coffee first"
	hobbies := []string{"Coffee", "Yoga", "Beach", "Pets"}
	updated, err := uc.UpdateProfile(ctx, "u1", &UpdateProfileRequest{Bio: &bio, Hobbies: &hobbies})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Bio != bio || len(updated.Hobbies) != 4 {
		t.Errorf("updated = %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Errorf("UpdatedAt %v not after CreatedAt %v", updated.UpdatedAt, updated.CreatedAt)
	}
	if updated.Name != "Ana" || updated.Email != "ana@example.com" {
		t.Error("untouched fields changed")
	}

	stored, _ := repo.GetByID(ctx, "u1")
	if stored.Bio != bio {
		t.Errorf("stored bio = %q", stored.Bio)
	}
}

func TestUpdateMissingProfile(t *testing.T) {
	uc, _ := seed(t, true)
	name := "X"
	if _, err := uc.UpdateProfile(context.Background(), "ghost", &UpdateProfileRequest{Name: &name}); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("error = %v", err)
	}
}

func TestGetProfileByUserID(t *testing.T) {
	uc, _ := seed(t, true)
	p, err := uc.GetProfileByUserID(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Ana" || p.Age != 25 {
		t.Errorf("public profile = %+v", p)
	}

	uc, _ = seed(t, false)
	if _, err := uc.GetProfileByUserID(context.Background(), "u1"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("unfinished profile error = %v", err)
	}
}
