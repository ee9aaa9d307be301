package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/spark-backend/internal/domain"
	"github.com/gdugdh24/spark-backend/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	draftKeyPrefix        = "onboarding:draft:"
	sessionStateKeyPrefix = "session:state:"
)

// jsonStore keeps JSON documents under prefixed keys with a sliding TTL.
type jsonStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (s *jsonStore) get(ctx context.Context, id string, dst interface{}) (bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", s.prefix, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", s.prefix, err)
	}
	return true, nil
}

func (s *jsonStore) save(ctx context.Context, id string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.prefix, err)
	}
	return s.client.Set(ctx, s.prefix+id, raw, s.ttl).Err()
}

func (s *jsonStore) delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.prefix+id).Err()
}

type draftRepository struct {
	store jsonStore
}

func NewDraftRepository(client *redis.Client, ttl time.Duration) repository.DraftRepository {
	return &draftRepository{store: jsonStore{client: client, prefix: draftKeyPrefix, ttl: ttl}}
}

func (r *draftRepository) Get(ctx context.Context, userID string) (*domain.OnboardingState, error) {
	var state domain.OnboardingState
	found, err := r.store.get(ctx, userID, &state)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrDraftNotFound
	}
	return &state, nil
}

func (r *draftRepository) Save(ctx context.Context, userID string, state *domain.OnboardingState) error {
	return r.store.save(ctx, userID, state)
}

func (r *draftRepository) Delete(ctx context.Context, userID string) error {
	return r.store.delete(ctx, userID)
}

type sessionStateRepository struct {
	store jsonStore
}

func NewSessionStateRepository(client *redis.Client, ttl time.Duration) repository.SessionStateRepository {
	return &sessionStateRepository{store: jsonStore{client: client, prefix: sessionStateKeyPrefix, ttl: ttl}}
}

func (r *sessionStateRepository) Get(ctx context.Context, deviceID string) (*domain.SessionState, error) {
	var state domain.SessionState
	found, err := r.store.get(ctx, deviceID, &state)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrSessionStateNotFound
	}
	return &state, nil
}

func (r *sessionStateRepository) Save(ctx context.Context, deviceID string, state *domain.SessionState) error {
	return r.store.save(ctx, deviceID, state)
}

func (r *sessionStateRepository) Delete(ctx context.Context, deviceID string) error {
	return r.store.delete(ctx, deviceID)
}
