package repository

import (
	"context"

	"github.com/gdugdh24/spark-backend/internal/domain"
)

type SwipeRepository interface {
	Create(ctx context.Context, swipe *domain.Swipe) error
	GetByUsers(ctx context.Context, swiperID, swipedID string) (*domain.Swipe, error)
	GetUserSwipes(ctx context.Context, swiperID string, limit, offset int) ([]*domain.Swipe, error)
	GetSwipedIDs(ctx context.Context, swiperID string) ([]string, error)
	Delete(ctx context.Context, id int) error
}
