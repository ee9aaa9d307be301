package repository

import (
	"context"

	"github.com/gdugdh24/spark-backend/internal/domain"
)

// ProfileFilter narrows SearchProfiles. Zero values mean "no filter".
type ProfileFilter struct {
	OnboardingCompleted *bool
	ExcludeIDs          []string
	Genders             []domain.Gender
	MinAge              int
	MaxAge              int
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	Delete(ctx context.Context, id string) error
	SearchProfiles(ctx context.Context, filter ProfileFilter, limit, offset int) ([]*domain.Profile, error)
}
