package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gdugdh24/spark-backend/internal/domain"
	"github.com/gdugdh24/spark-backend/internal/repository"
)

type OnboardingUseCase struct {
	draftRepo   repository.DraftRepository
	profileRepo repository.ProfileRepository
	locks       sync.Map
	now         func() time.Time
}

func NewOnboardingUseCase(
	draftRepo repository.DraftRepository,
	profileRepo repository.ProfileRepository,
) *OnboardingUseCase {
	return &OnboardingUseCase{
		draftRepo:   draftRepo,
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// StateResponse is the onboarding state as seen by the client
type StateResponse struct {
	Step         int                    `json:"step"`
	Draft        domain.OnboardingDraft `json:"draft"`
	StepValidity []bool                 `json:"step_validity"`
	Complete     bool                   `json:"complete"`
}

// UpdateDraftRequest is a partial draft update. Apart from the age bounds,
// values are stored as sent.
type UpdateDraftRequest struct {
	Name       *string            `json:"name"`
	Age        *int               `json:"age" binding:"omitempty,gte=18,lte=120"`
	Gender     *domain.Gender     `json:"gender" binding:"omitempty,gender"`
	LookingFor *domain.LookingFor `json:"looking_for" binding:"omitempty,looking_for"`
	// AgeText is the age as typed. It takes precedence over Age once parsed.
	AgeText *string `json:"age_text,omitempty"`
}

type SetStepRequest struct {
	Step int `json:"step" binding:"required,min=1,max=5"`
}

type AddPhotoRequest struct {
	URI string `json:"uri" binding:"required"`
}

type ReorderPhotosRequest struct {
	From *int `json:"from" binding:"required,min=0"`
	To   *int `json:"to" binding:"required,min=0"`
}

type ToggleHobbyRequest struct {
	Hobby string `json:"hobby" binding:"required,hobby"`
}

type SetHobbiesRequest struct {
	Hobbies []string `json:"hobbies" binding:"required,dive,hobby"`
}

type UpdatePreferencesRequest struct {
	MinAge           *int             `json:"min_age"`
	MaxAge           *int             `json:"max_age"`
	MaxDistance      *int             `json:"max_distance"`
	GenderPreference *[]domain.Gender `json:"gender_preference" binding:"omitempty,dive,gender"`
}

type AdjustAgeRequest struct {
	Bound     AgeBound `json:"bound" binding:"required,oneof=min max"`
	Direction string   `json:"direction" binding:"required,oneof=up down"`
}

// OptionsResponse lists the selectable values with their display metadata
type OptionsResponse struct {
	Genders    []domain.OptionMeta `json:"genders"`
	LookingFor []domain.OptionMeta `json:"looking_for"`
	Hobbies    []string            `json:"hobbies"`
	MaxPhotos  int                 `json:"max_photos"`
	MinHobbies int                 `json:"min_hobbies"`
}

func (uc *OnboardingUseCase) lock(userID string) func() {
	v, _ := uc.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (uc *OnboardingUseCase) load(ctx context.Context, userID string) (*Tracker, error) {
	state, err := uc.draftRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrDraftNotFound) {
			tr := NewTracker()
			tr.now = uc.now
			return tr, nil
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	tr := Restore(*state)
	tr.now = uc.now
	return tr, nil
}

// mutate runs fn against the user's tracker under the per-user lock and saves
// the result. Nothing is saved when fn fails.
func (uc *OnboardingUseCase) mutate(ctx context.Context, userID string, fn func(*Tracker) error) (*StateResponse, error) {
	unlock := uc.lock(userID)
	defer unlock()

	tr, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(tr); err != nil {
		return nil, err
	}
	state := tr.State()
	if err := uc.draftRepo.Save(ctx, userID, &state); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return toResponse(tr), nil
}

func toResponse(tr *Tracker) *StateResponse {
	validity := tr.StepValidity()
	complete := true
	for _, ok := range validity {
		complete = complete && ok
	}
	return &StateResponse{
		Step:         tr.Step(),
		Draft:        tr.Draft(),
		StepValidity: validity,
		Complete:     complete,
	}
}

// GetState returns the user's draft, creating an empty one on first access
func (uc *OnboardingUseCase) GetState(ctx context.Context, userID string) (*StateResponse, error) {
	tr, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponse(tr), nil
}

func (uc *OnboardingUseCase) UpdateDraft(ctx context.Context, userID string, req *UpdateDraftRequest) (*StateResponse, error) {
	return uc.mutate(ctx, userID, func(tr *Tracker) error {
		tr.UpdateField(domain.DraftPatch{
			Name:       req.Name,
			Age:        req.Age,
			Gender:     req.Gender,
			LookingFor: req.LookingFor,
		})
		return nil
	})
}

func (uc *OnboardingUseCase) AdvanceStep(ctx context.Context, userID string, step int) (*StateResponse, error) {
	return uc.mutate(ctx, userID, func(tr *Tracker) error {
		return tr.AdvanceStep(step)
	})
}

func (uc *OnboardingUseCase) IsStepValid(ctx context.Context, userID string, step int) (bool, error) {
	if step < 1 || step > domain.OnboardingSteps {
		return false, domain.ErrInvalidStep
	}
	tr, err := uc.load(ctx, userID)
	if err != nil {
		return false, err
	}
	return tr.IsStepValid(step), nil
}

func (uc *OnboardingUseCase) AddPhoto(ctx context.Context, userID string, uri string) (*StateResponse, error) {
	return uc.mutate(ctx, userID, func(tr *Tracker) error {
		return tr.AddPhoto(uri)
	})
}

func (uc *OnboardingUseCase) RemovePhoto(ctx context.Context, userID string, index int) (*StateResponse, error) {
	return uc.mutate(ctx, userID, func(tr *Tracker) error {
		return tr.RemovePhoto(index)
	})
}

func (uc *OnboardingUseCase) ReorderPhotos(ctx context.Context, userID string, from, to int) (*StateResponse, error) {
	return uc.mutate(ctx, userID, func(tr *Tracker) error {
		return tr.ReorderPhotos(from, to)
	})
}

func (uc *OnboardingUseCase) ToggleHobby(ctx context.Context, userID string, hobby string) (*StateResponse, error) {
	return uc.mutate(ctx, userID, func(tr *Tracker) error {
		tr.ToggleHobby(hobby)
		return nil
	})
}

func (uc *OnboardingUseCase) SetHobbies(ctx context.Context, userID string, hobbies []string) (*StateResponse, error) {
	return uc.mutate(ctx, userID, func(tr *Tracker) error {
		tr.SetHobbies(hobbies)
		return nil
	})
}

// UpdatePreferences merges into the draft and, once onboarding is finished,
// into the stored profile as well.
func (uc *OnboardingUseCase) UpdatePreferences(ctx context.Context, userID string, req *UpdatePreferencesRequest) (*StateResponse, error) {
	patch := domain.PreferencesPatch{
		MinAge:           req.MinAge,
		MaxAge:           req.MaxAge,
		MaxDistance:      req.MaxDistance,
		GenderPreference: req.GenderPreference,
	}
	return uc.mutate(ctx, userID, func(tr *Tracker) error {
		profile, err := uc.profileRepo.GetByID(ctx, userID)
		if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		tr.profile = profile

		tr.UpdatePreferences(patch)
		if tr.profile == nil {
			return nil
		}
		if err := uc.profileRepo.Update(ctx, tr.profile); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		return nil
	})
}

func (uc *OnboardingUseCase) AdjustAge(ctx context.Context, userID string, req *AdjustAgeRequest) (*StateResponse, error) {
	return uc.mutate(ctx, userID, func(tr *Tracker) error {
		return tr.AdjustAge(req.Bound, req.Direction == "up")
	})
}

// Complete promotes the draft into the user's profile and clears the draft
func (uc *OnboardingUseCase) Complete(ctx context.Context, userID, email string) (*domain.Profile, error) {
	unlock := uc.lock(userID)
	defer unlock()

	tr, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrProfileAlreadyExists
	}

	profile, err := tr.CompleteOnboarding(userID, email)
	if err != nil {
		return nil, err
	}

	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	if err := uc.draftRepo.Delete(ctx, userID); err != nil {
		log.Printf("[Onboarding] failed to drop draft for %s: %v", userID, err)
	}

	log.Printf("[Onboarding] completed for user %s", userID)
	return profile, nil
}

// Discard drops the user's draft; the next visit starts from an empty one
func (uc *OnboardingUseCase) Discard(ctx context.Context, userID string) error {
	unlock := uc.lock(userID)
	defer unlock()

	if err := uc.draftRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to discard draft: %w", err)
	}
	return nil
}

func (uc *OnboardingUseCase) Reset(ctx context.Context, userID string) (*StateResponse, error) {
	return uc.mutate(ctx, userID, func(tr *Tracker) error {
		tr.ResetOnboarding()
		return nil
	})
}

func (uc *OnboardingUseCase) Options() *OptionsResponse {
	genders := make([]domain.OptionMeta, 0, len(domain.Genders))
	for _, g := range domain.Genders {
		genders = append(genders, domain.GenderOptions[g])
	}
	lookingFor := make([]domain.OptionMeta, 0, len(domain.LookingForValues))
	for _, l := range domain.LookingForValues {
		lookingFor = append(lookingFor, domain.LookingForOptions[l])
	}
	return &OptionsResponse{
		Genders:    genders,
		LookingFor: lookingFor,
		Hobbies:    append([]string{}, domain.AvailableHobbies...),
		MaxPhotos:  domain.MaxPhotos,
		MinHobbies: domain.MinHobbies,
	}
}
