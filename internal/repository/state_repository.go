package repository

import (
	"context"

	"github.com/gdugdh24/spark-backend/internal/domain"
)

// DraftRepository stores in-progress onboarding state per user.
type DraftRepository interface {
	Get(ctx context.Context, userID string) (*domain.OnboardingState, error)
	Save(ctx context.Context, userID string, state *domain.OnboardingState) error
	Delete(ctx context.Context, userID string) error
}

// SessionStateRepository stores the client session tracker per device.
type SessionStateRepository interface {
	Get(ctx context.Context, deviceID string) (*domain.SessionState, error)
	Save(ctx context.Context, deviceID string, state *domain.SessionState) error
	Delete(ctx context.Context, deviceID string) error
}
