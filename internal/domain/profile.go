package domain

import "time"

type Profile struct {
	ID                  string      `json:"id" db:"id"`
	Email               string      `json:"email" db:"email"`
	Name                string      `json:"name" db:"name"`
	Age                 int         `json:"age" db:"age"`
	Gender              *Gender     `json:"gender" db:"gender"`
	Bio                 string      `json:"bio" db:"bio"`
	Photos              []string    `json:"photos" db:"photos"`
	LookingFor          *LookingFor `json:"looking_for" db:"looking_for"`
	Hobbies             []string    `json:"hobbies" db:"hobbies"`
	Preferences         Preferences `json:"preferences"`
	OnboardingCompleted bool        `json:"onboarding_completed" db:"onboarding_completed"`
	CreatedAt           time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at" db:"updated_at"`
}

// NewProfileFromDraft snapshots the draft into a finished profile.
func NewProfileFromDraft(userID, email string, draft OnboardingDraft, now time.Time) *Profile {
	d := draft.Clone()
	return &Profile{
		ID:                  userID,
		Email:               email,
		Name:                d.Name,
		Age:                 d.Age,
		Gender:              d.Gender,
		Bio:                 "",
		Photos:              d.Photos,
		LookingFor:          d.LookingFor,
		Hobbies:             d.Hobbies,
		Preferences:         d.Preferences,
		OnboardingCompleted: true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// MainPhoto returns the first photo, which the client shows on the card.
func (p *Profile) MainPhoto() string {
	if len(p.Photos) == 0 {
		return ""
	}
	return p.Photos[0]
}

// Touch refreshes the update timestamp after a mutation.
func (p *Profile) Touch(now time.Time) {
	p.UpdatedAt = now
}
