package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/spark-backend/internal/domain"
	"github.com/gdugdh24/spark-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type matchRow struct {
	ID          int            `db:"id"`
	User1ID     string         `db:"user1_id"`
	User2ID     string         `db:"user2_id"`
	IsActive    bool           `db:"is_active"`
	Icebreakers pq.StringArray `db:"icebreakers"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r matchRow) toDomain() *domain.Match {
	return &domain.Match{
		ID:          r.ID,
		User1ID:     r.User1ID,
		User2ID:     r.User2ID,
		IsActive:    r.IsActive,
		Icebreakers: append([]string{}, r.Icebreakers...),
		CreatedAt:   r.CreatedAt,
	}
}

type matchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) repository.MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	// Ensure user1_id < user2_id for constraint
	user1ID, user2ID := domain.OrderedPair(match.User1ID, match.User2ID)

	query := `
		INSERT INTO matches (user1_id, user2_id, is_active, icebreakers)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, user1ID, user2ID, match.IsActive, pq.Array(match.Icebreakers)).
		Scan(&match.ID, &match.CreatedAt)

	match.User1ID = user1ID
	match.User2ID = user2ID
	return err
}

func (r *matchRepository) GetByID(ctx context.Context, id int) (*domain.Match, error) {
	var row matchRow
	query := `SELECT id, user1_id, user2_id, is_active, icebreakers, created_at FROM matches WHERE id = $1`
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *matchRepository) GetByUsers(ctx context.Context, user1ID, user2ID string) (*domain.Match, error) {
	user1ID, user2ID = domain.OrderedPair(user1ID, user2ID)

	var row matchRow
	query := `
		SELECT id, user1_id, user2_id, is_active, icebreakers, created_at
		FROM matches WHERE user1_id = $1 AND user2_id = $2
	`
	err := r.db.GetContext(ctx, &row, query, user1ID, user2ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *matchRepository) GetUserMatches(ctx context.Context, userID string, limit, offset int) ([]*domain.Match, error) {
	var rows []matchRow
	query := `
		SELECT id, user1_id, user2_id, is_active, icebreakers, created_at
		FROM matches
		WHERE (user1_id = $1 OR user2_id = $1) AND is_active = true
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, err
	}

	matches := make([]*domain.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, row.toDomain())
	}
	return matches, nil
}

func (r *matchRepository) UpdateStatus(ctx context.Context, id int, isActive bool) error {
	query := `UPDATE matches SET is_active = $1 WHERE id = $2`
	return r.execAffectingOne(ctx, query, isActive, id)
}

func (r *matchRepository) UpdateIcebreakers(ctx context.Context, id int, icebreakers []string) error {
	query := `UPDATE matches SET icebreakers = $1 WHERE id = $2`
	return r.execAffectingOne(ctx, query, pq.Array(icebreakers), id)
}

func (r *matchRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM matches WHERE id = $1`
	return r.execAffectingOne(ctx, query, id)
}

func (r *matchRepository) execAffectingOne(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}
