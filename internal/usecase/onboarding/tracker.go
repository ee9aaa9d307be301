package onboarding

import (
	"log"
	"time"

	"github.com/gdugdh24/spark-backend/internal/domain"
)

type AgeBound string

const (
	AgeBoundMin AgeBound = "min"
	AgeBoundMax AgeBound = "max"
)

// Tracker owns one user's onboarding draft and step pointer. It is not safe
// for concurrent use; UseCase serializes access per user.
type Tracker struct {
	state   domain.OnboardingState
	profile *domain.Profile
	now     func() time.Time
}

func NewTracker() *Tracker {
	return Restore(domain.NewOnboardingState())
}

// Restore rebuilds a tracker from persisted state.
func Restore(state domain.OnboardingState) *Tracker {
	state.Draft = state.Draft.Clone()
	if state.Step < 1 || state.Step > domain.OnboardingSteps {
		state.Step = 1
	}
	return &Tracker{state: state, now: time.Now}
}

func (t *Tracker) State() domain.OnboardingState {
	s := t.state
	s.Draft = t.state.Draft.Clone()
	return s
}

func (t *Tracker) Draft() domain.OnboardingDraft {
	return t.state.Draft.Clone()
}

func (t *Tracker) Step() int {
	return t.state.Step
}

// Profile returns the finished profile produced by CompleteOnboarding, or nil.
func (t *Tracker) Profile() *domain.Profile {
	return t.profile
}

// UpdateField merges the non-nil patch fields into the draft without validating them.
func (t *Tracker) UpdateField(patch domain.DraftPatch) {
	t.state.Draft.Apply(patch)
}

// AdvanceStep records the current step. It does not check the previous step.
func (t *Tracker) AdvanceStep(step int) error {
	if step < 1 || step > domain.OnboardingSteps {
		return domain.ErrInvalidStep
	}
	t.state.Step = step
	return nil
}

func (t *Tracker) IsStepValid(step int) bool {
	return t.state.Draft.StepValid(step)
}

// StepValidity returns the predicate result of every step, index 0 being step 1.
func (t *Tracker) StepValidity() []bool {
	out := make([]bool, domain.OnboardingSteps)
	for i := range out {
		out[i] = t.state.Draft.StepValid(i + 1)
	}
	return out
}

// CompleteOnboarding builds the finished profile and resets the draft so the
// next sign-up starts clean. On error the tracker is left unchanged.
func (t *Tracker) CompleteOnboarding(userID, email string) (*domain.Profile, error) {
	if userID == "" || email == "" {
		log.Printf("[Onboarding] complete aborted: missing identity (user_id=%q, email=%q)", userID, email)
		return nil, domain.ErrMissingIdentity
	}
	if !t.state.Draft.Complete() {
		return nil, domain.ErrOnboardingIncomplete
	}

	profile := domain.NewProfileFromDraft(userID, email, t.state.Draft, t.now().UTC())
	t.profile = profile
	t.state = domain.NewOnboardingState()
	return profile, nil
}

// ResetOnboarding clears the step pointer and draft. The finished profile is kept.
func (t *Tracker) ResetOnboarding() {
	t.state = domain.NewOnboardingState()
}

func (t *Tracker) AddPhoto(uri string) error {
	if uri == "" {
		return domain.ErrEmptyPhoto
	}
	if len(t.state.Draft.Photos) >= domain.MaxPhotos {
		return domain.ErrTooManyPhotos
	}
	t.state.Draft.Photos = append(t.state.Draft.Photos, uri)
	return nil
}

func (t *Tracker) RemovePhoto(index int) error {
	photos := t.state.Draft.Photos
	if index < 0 || index >= len(photos) {
		return domain.ErrPhotoIndexOutOfRange
	}
	out := make([]string, 0, len(photos)-1)
	out = append(out, photos[:index]...)
	t.state.Draft.Photos = append(out, photos[index+1:]...)
	return nil
}

// ReorderPhotos moves the photo at from to position to. Index 0 is the main photo.
func (t *Tracker) ReorderPhotos(from, to int) error {
	photos := t.state.Draft.Photos
	if from < 0 || from >= len(photos) || to < 0 || to >= len(photos) {
		return domain.ErrPhotoIndexOutOfRange
	}
	moved := photos[from]
	rest := make([]string, 0, len(photos))
	rest = append(rest, photos[:from]...)
	rest = append(rest, photos[from+1:]...)

	out := make([]string, 0, len(photos))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	t.state.Draft.Photos = append(out, rest[to:]...)
	return nil
}

// ToggleHobby adds the hobby if absent and removes it otherwise.
func (t *Tracker) ToggleHobby(hobby string) {
	hobbies := t.state.Draft.Hobbies
	for i, h := range hobbies {
		if h == hobby {
			out := make([]string, 0, len(hobbies)-1)
			out = append(out, hobbies[:i]...)
			t.state.Draft.Hobbies = append(out, hobbies[i+1:]...)
			return
		}
	}
	t.state.Draft.Hobbies = append(t.state.Draft.Hobbies, hobby)
}

// SetHobbies replaces the hobby set, dropping duplicates.
func (t *Tracker) SetHobbies(hobbies []string) {
	seen := make(map[string]bool, len(hobbies))
	out := make([]string, 0, len(hobbies))
	for _, h := range hobbies {
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	t.state.Draft.Hobbies = out
}

// UpdatePreferences merges into the draft preferences and, when onboarding has
// already produced a profile, into the profile too.
func (t *Tracker) UpdatePreferences(patch domain.PreferencesPatch) {
	t.state.Draft.Preferences.Apply(patch)
	if t.profile != nil {
		t.profile.Preferences.Apply(patch)
		t.profile.Touch(t.now().UTC())
	}
}

// AdjustAge steps one bound of the preferred age range by one year. The range
// never collapses: minAge stays below maxAge, within 18..99.
func (t *Tracker) AdjustAge(bound AgeBound, up bool) error {
	p := &t.state.Draft.Preferences
	delta := -1
	if up {
		delta = 1
	}

	switch bound {
	case AgeBoundMin:
		next := p.MinAge + delta
		if next < domain.MinPreferredAge || next >= p.MaxAge {
			return domain.ErrAgeAdjustmentRejected
		}
		p.MinAge = next
	case AgeBoundMax:
		next := p.MaxAge + delta
		if next > domain.MaxPreferredAge || next <= p.MinAge {
			return domain.ErrAgeAdjustmentRejected
		}
		p.MaxAge = next
	default:
		return domain.ErrInvalidInput
	}
	return nil
}
