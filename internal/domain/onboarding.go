package domain

import "strings"

const (
	OnboardingSteps = 5

	MinAge = 18
	MaxAge = 120

	MinPreferredAge = 18
	MaxPreferredAge = 99

	// Search radius bounds in kilometres.
	MinDistanceKm = 1
	MaxDistanceKm = 150

	MaxPhotos  = 6
	MinHobbies = 3
)

type Preferences struct {
	MinAge           int      `json:"min_age"`
	MaxAge           int      `json:"max_age"`
	MaxDistance      int      `json:"max_distance"`
	GenderPreference []Gender `json:"gender_preference"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		MinAge:           18,
		MaxAge:           50,
		MaxDistance:      50,
		GenderPreference: []Gender{},
	}
}

// Valid reports whether the age range is consistent, the distance is in range
// and at least one gender is selected.
func (p Preferences) Valid() bool {
	if p.MinAge < MinPreferredAge || p.MaxAge > MaxPreferredAge || p.MinAge >= p.MaxAge {
		return false
	}
	if p.MaxDistance < MinDistanceKm || p.MaxDistance > MaxDistanceKm {
		return false
	}
	if len(p.GenderPreference) == 0 {
		return false
	}
	for _, g := range p.GenderPreference {
		if !g.Valid() {
			return false
		}
	}
	return true
}

func (p Preferences) clone() Preferences {
	c := p
	c.GenderPreference = append([]Gender{}, p.GenderPreference...)
	return c
}

// OnboardingDraft holds the partially entered profile. Fields may hold
// transiently invalid values; StepValid is the only validity check.
type OnboardingDraft struct {
	Name        string      `json:"name"`
	Age         int         `json:"age"`
	Gender      *Gender     `json:"gender"`
	Photos      []string    `json:"photos"`
	LookingFor  *LookingFor `json:"looking_for"`
	Hobbies     []string    `json:"hobbies"`
	Preferences Preferences `json:"preferences"`
}

func NewOnboardingDraft() OnboardingDraft {
	return OnboardingDraft{
		Age:         MinAge,
		Photos:      []string{},
		Hobbies:     []string{},
		Preferences: DefaultPreferences(),
	}
}

// Clone returns a deep copy so callers can't alias the draft's slices.
func (d OnboardingDraft) Clone() OnboardingDraft {
	c := d
	if d.Gender != nil {
		g := *d.Gender
		c.Gender = &g
	}
	if d.LookingFor != nil {
		l := *d.LookingFor
		c.LookingFor = &l
	}
	c.Photos = append([]string{}, d.Photos...)
	c.Hobbies = append([]string{}, d.Hobbies...)
	c.Preferences = d.Preferences.clone()
	return c
}

// StepValid evaluates the completion predicate of a single onboarding step.
func (d OnboardingDraft) StepValid(step int) bool {
	switch step {
	case 1:
		return strings.TrimSpace(d.Name) != "" &&
			d.Age >= MinAge && d.Age <= MaxAge &&
			d.Gender != nil && d.Gender.Valid()
	case 2:
		return len(d.Photos) >= 1
	case 3:
		return d.LookingFor != nil && d.LookingFor.Valid()
	case 4:
		return d.Preferences.Valid()
	case 5:
		return len(d.Hobbies) >= MinHobbies
	}
	return false
}

// Complete reports whether every step predicate holds.
func (d OnboardingDraft) Complete() bool {
	for step := 1; step <= OnboardingSteps; step++ {
		if !d.StepValid(step) {
			return false
		}
	}
	return true
}

// DraftPatch is a partial update of the draft; nil fields are left untouched.
type DraftPatch struct {
	Name        *string      `json:"name"`
	Age         *int         `json:"age"`
	Gender      *Gender      `json:"gender"`
	Photos      *[]string    `json:"photos"`
	LookingFor  *LookingFor  `json:"looking_for"`
	Hobbies     *[]string    `json:"hobbies"`
	Preferences *Preferences `json:"preferences"`
}

func (d *OnboardingDraft) Apply(p DraftPatch) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Age != nil {
		d.Age = *p.Age
	}
	if p.Gender != nil {
		g := *p.Gender
		d.Gender = &g
	}
	if p.Photos != nil {
		d.Photos = append([]string{}, (*p.Photos)...)
	}
	if p.LookingFor != nil {
		l := *p.LookingFor
		d.LookingFor = &l
	}
	if p.Hobbies != nil {
		d.Hobbies = append([]string{}, (*p.Hobbies)...)
	}
	if p.Preferences != nil {
		d.Preferences = p.Preferences.clone()
	}
}

// PreferencesPatch merges into existing preferences.
type PreferencesPatch struct {
	MinAge           *int      `json:"min_age"`
	MaxAge           *int      `json:"max_age"`
	MaxDistance      *int      `json:"max_distance"`
	GenderPreference *[]Gender `json:"gender_preference"`
}

func (p *Preferences) Apply(patch PreferencesPatch) {
	if patch.MinAge != nil {
		p.MinAge = *patch.MinAge
	}
	if patch.MaxAge != nil {
		p.MaxAge = *patch.MaxAge
	}
	if patch.MaxDistance != nil {
		p.MaxDistance = *patch.MaxDistance
	}
	if patch.GenderPreference != nil {
		p.GenderPreference = append([]Gender{}, (*patch.GenderPreference)...)
	}
}

// OnboardingState is the persisted form of an onboarding tracker.
type OnboardingState struct {
	Step  int             `json:"step"`
	Draft OnboardingDraft `json:"draft"`
}

func NewOnboardingState() OnboardingState {
	return OnboardingState{Step: 1, Draft: NewOnboardingDraft()}
}
