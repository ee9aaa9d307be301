package repository

import (
	"context"

	"github.com/gdugdh24/spark-backend/internal/domain"
)

type MatchRepository interface {
	Create(ctx context.Context, match *domain.Match) error
	GetByID(ctx context.Context, id int) (*domain.Match, error)
	GetByUsers(ctx context.Context, user1ID, user2ID string) (*domain.Match, error)
	GetUserMatches(ctx context.Context, userID string, limit, offset int) ([]*domain.Match, error)
	UpdateStatus(ctx context.Context, id int, isActive bool) error
	UpdateIcebreakers(ctx context.Context, id int, icebreakers []string) error
	Delete(ctx context.Context, id int) error
}
