package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/spark-backend/internal/domain"
	"github.com/gdugdh24/spark-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const profileColumns = `
	id, email, name, age, gender, bio, photos, looking_for, hobbies,
	pref_min_age, pref_max_age, pref_max_distance_km, pref_genders,
	onboarding_completed, created_at, updated_at`

// profileRow mirrors the profiles table; arrays go through pq.StringArray.
type profileRow struct {
	ID                  string         `db:"id"`
	Email               string         `db:"email"`
	Name                string         `db:"name"`
	Age                 int            `db:"age"`
	Gender              sql.NullString `db:"gender"`
	Bio                 string         `db:"bio"`
	Photos              pq.StringArray `db:"photos"`
	LookingFor          sql.NullString `db:"looking_for"`
	Hobbies             pq.StringArray `db:"hobbies"`
	PrefMinAge          int            `db:"pref_min_age"`
	PrefMaxAge          int            `db:"pref_max_age"`
	PrefMaxDistanceKm   int            `db:"pref_max_distance_km"`
	PrefGenders         pq.StringArray `db:"pref_genders"`
	OnboardingCompleted bool           `db:"onboarding_completed"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func (r profileRow) toDomain() *domain.Profile {
	p := &domain.Profile{
		ID:      r.ID,
		Email:   r.Email,
		Name:    r.Name,
		Age:     r.Age,
		Bio:     r.Bio,
		Photos:  append([]string{}, r.Photos...),
		Hobbies: append([]string{}, r.Hobbies...),
		Preferences: domain.Preferences{
			MinAge:           r.PrefMinAge,
			MaxAge:           r.PrefMaxAge,
			MaxDistance:      r.PrefMaxDistanceKm,
			GenderPreference: make([]domain.Gender, 0, len(r.PrefGenders)),
		},
		OnboardingCompleted: r.OnboardingCompleted,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
	if r.Gender.Valid {
		g := domain.Gender(r.Gender.String)
		p.Gender = &g
	}
	if r.LookingFor.Valid {
		l := domain.LookingFor(r.LookingFor.String)
		p.LookingFor = &l
	}
	for _, g := range r.PrefGenders {
		p.Preferences.GenderPreference = append(p.Preferences.GenderPreference, domain.Gender(g))
	}
	return p
}

func nullableString[T ~string](v *T) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*v), Valid: true}
}

func genderStrings(genders []domain.Gender) pq.StringArray {
	out := make(pq.StringArray, 0, len(genders))
	for _, g := range genders {
		out = append(out, string(g))
	}
	return out
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (
			id, email, name, age, gender, bio, photos, looking_for, hobbies,
			pref_min_age, pref_max_age, pref_max_distance_km, pref_genders,
			onboarding_completed, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		profile.ID, profile.Email, profile.Name, profile.Age, nullableString(profile.Gender),
		profile.Bio, pq.Array(profile.Photos), nullableString(profile.LookingFor), pq.Array(profile.Hobbies),
		profile.Preferences.MinAge, profile.Preferences.MaxAge, profile.Preferences.MaxDistance,
		genderStrings(profile.Preferences.GenderPreference),
		profile.OnboardingCompleted, profile.CreatedAt, profile.UpdatedAt,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrProfileAlreadyExists
		}
		return err
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var row profileRow
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET name = $1, age = $2, gender = $3, bio = $4, photos = $5,
		    looking_for = $6, hobbies = $7,
		    pref_min_age = $8, pref_max_age = $9, pref_max_distance_km = $10, pref_genders = $11,
		    onboarding_completed = $12, updated_at = CURRENT_TIMESTAMP
		WHERE id = $13
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		profile.Name, profile.Age, nullableString(profile.Gender), profile.Bio, pq.Array(profile.Photos),
		nullableString(profile.LookingFor), pq.Array(profile.Hobbies),
		profile.Preferences.MinAge, profile.Preferences.MaxAge, profile.Preferences.MaxDistance,
		genderStrings(profile.Preferences.GenderPreference),
		profile.OnboardingCompleted,
		profile.ID,
	).Scan(&profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProfileNotFound
	}
	return err
}

func (r *profileRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM profiles WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) SearchProfiles(ctx context.Context, filter repository.ProfileFilter, limit, offset int) ([]*domain.Profile, error) {
	var conds []string
	args := []interface{}{}
	argCount := 1

	if filter.OnboardingCompleted != nil {
		conds = append(conds, fmt.Sprintf("onboarding_completed = $%d", argCount))
		args = append(args, *filter.OnboardingCompleted)
		argCount++
	}

	if len(filter.ExcludeIDs) > 0 {
		conds = append(conds, fmt.Sprintf("NOT (id = ANY($%d))", argCount))
		args = append(args, pq.Array(filter.ExcludeIDs))
		argCount++
	}

	if len(filter.Genders) > 0 {
		conds = append(conds, fmt.Sprintf("gender = ANY($%d)", argCount))
		args = append(args, genderStrings(filter.Genders))
		argCount++
	}

	if filter.MinAge > 0 {
		conds = append(conds, fmt.Sprintf("age >= $%d", argCount))
		args = append(args, filter.MinAge)
		argCount++
	}

	if filter.MaxAge > 0 {
		conds = append(conds, fmt.Sprintf("age <= $%d", argCount))
		args = append(args, filter.MaxAge)
		argCount++
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE 1=1`
	for _, c := range conds {
		query += " AND " + c
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, limit, offset)

	var rows []profileRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	profiles := make([]*domain.Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, row.toDomain())
	}
	return profiles, nil
}
