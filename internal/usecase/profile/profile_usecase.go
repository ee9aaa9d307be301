package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/gdugdh24/spark-backend/internal/domain"
	"github.com/gdugdh24/spark-backend/internal/repository"
)

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	now         func() time.Time
}

func NewProfileUseCase(profileRepo repository.ProfileRepository) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// UpdateProfileRequest represents profile update request
type UpdateProfileRequest struct {
	Name       *string            `json:"name" binding:"omitempty,min=1,max=100"`
	Age        *int               `json:"age" binding:"omitempty,gte=18,lte=120"`
	Gender     *domain.Gender     `json:"gender" binding:"omitempty,gender"`
	Bio        *string            `json:"bio" binding:"omitempty,max=500"`
	Photos     *[]string          `json:"photos" binding:"omitempty,min=1,max=6,dive,required"`
	LookingFor *domain.LookingFor `json:"looking_for" binding:"omitempty,looking_for"`
	Hobbies    *[]string          `json:"hobbies" binding:"omitempty,min=3,dive,hobby"`
}

// PublicProfile is what other users see
type PublicProfile struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Age        int                `json:"age"`
	Gender     *domain.Gender     `json:"gender"`
	Bio        string             `json:"bio"`
	Photos     []string           `json:"photos"`
	LookingFor *domain.LookingFor `json:"looking_for"`
	Hobbies    []string           `json:"hobbies"`
}

// GetMyProfile returns current user's profile
func (uc *ProfileUseCase) GetMyProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return uc.profileRepo.GetByID(ctx, userID)
}

// GetProfileByUserID returns another user's public profile
func (uc *ProfileUseCase) GetProfileByUserID(ctx context.Context, targetUserID string) (*PublicProfile, error) {
	p, err := uc.profileRepo.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if !p.OnboardingCompleted {
		return nil, domain.ErrProfileNotFound
	}
	return &PublicProfile{
		ID:         p.ID,
		Name:       p.Name,
		Age:        p.Age,
		Gender:     p.Gender,
		Bio:        p.Bio,
		Photos:     p.Photos,
		LookingFor: p.LookingFor,
		Hobbies:    p.Hobbies,
	}, nil
}

// UpdateProfile edits the finished profile and refreshes its update time
func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*domain.Profile, error) {
	profile, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Age != nil {
		profile.Age = *req.Age
	}
	if req.Gender != nil {
		g := *req.Gender
		profile.Gender = &g
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Photos != nil {
		profile.Photos = append([]string{}, (*req.Photos)...)
	}
	if req.LookingFor != nil {
		l := *req.LookingFor
		profile.LookingFor = &l
	}
	if req.Hobbies != nil {
		profile.Hobbies = append([]string{}, (*req.Hobbies)...)
	}
	profile.Touch(uc.now().UTC())

	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}
