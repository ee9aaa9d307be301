package domain

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")

	// Onboarding
	ErrMissingIdentity       = errors.New("user id and email are required")
	ErrOnboardingIncomplete  = errors.New("onboarding steps are not complete")
	ErrInvalidStep           = errors.New("invalid onboarding step")
	ErrTooManyPhotos         = errors.New("photo limit reached")
	ErrPhotoIndexOutOfRange  = errors.New("photo index out of range")
	ErrEmptyPhoto            = errors.New("photo reference is empty")
	ErrAgeAdjustmentRejected = errors.New("age adjustment out of range")
	ErrDraftNotFound         = errors.New("onboarding draft not found")

	// Profile
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists")

	// Auth
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidToken         = errors.New("invalid token")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrSessionStateNotFound = errors.New("session state not found")

	// Discover
	ErrCannotSwipeSelf    = errors.New("cannot swipe yourself")
	ErrSwipeAlreadyExists = errors.New("swipe already exists")
	ErrInvalidDirection   = errors.New("invalid swipe direction")
	ErrMatchNotFound      = errors.New("match not found")
	ErrNothingToRewind    = errors.New("no swipe to rewind")
	ErrRewindMatched      = errors.New("swipe already produced a match")
)
