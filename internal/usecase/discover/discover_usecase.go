package discover

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gdugdh24/spark-backend/internal/domain"
	"github.com/gdugdh24/spark-backend/internal/gesture"
	"github.com/gdugdh24/spark-backend/internal/repository"
)

const defaultFeedLimit = 20

// Wingman suggests opening lines for a fresh match.
type Wingman interface {
	GenerateIcebreakers(ctx context.Context, user1Interests, user2Interests []string) ([]string, error)
}

type DiscoverUseCase struct {
	swipeRepo   repository.SwipeRepository
	matchRepo   repository.MatchRepository
	profileRepo repository.ProfileRepository
	matcher     Matcher
	wingman     Wingman
}

// NewDiscoverUseCase wires the discovery flow. wingman may be nil.
func NewDiscoverUseCase(
	swipeRepo repository.SwipeRepository,
	matchRepo repository.MatchRepository,
	profileRepo repository.ProfileRepository,
	matcher Matcher,
	wingman Wingman,
) *DiscoverUseCase {
	return &DiscoverUseCase{
		swipeRepo:   swipeRepo,
		matchRepo:   matchRepo,
		profileRepo: profileRepo,
		matcher:     matcher,
		wingman:     wingman,
	}
}

// SwipeRequest represents a swipe action
type SwipeRequest struct {
	TargetUserID string                `json:"target_user_id" binding:"required"`
	Direction    domain.SwipeDirection `json:"direction" binding:"required,oneof=left right"`
}

// GestureRequest is a raw drag reported by the client for one card
type GestureRequest struct {
	TargetUserID  string           `json:"target_user_id" binding:"required"`
	ViewportWidth float64          `json:"viewport_width" binding:"required,gt=0"`
	Samples       []gesture.Sample `json:"samples" binding:"required,min=1"`
}

// Card is a profile as shown on a discover card
type Card struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Age           int                `json:"age"`
	Gender        *domain.Gender     `json:"gender"`
	Bio           string             `json:"bio"`
	Photos        []string           `json:"photos"`
	MainPhoto     string             `json:"main_photo"`
	LookingFor    *domain.LookingFor `json:"looking_for"`
	Hobbies       []string           `json:"hobbies"`
	SharedHobbies []string           `json:"shared_hobbies"`
}

// FeedResponse carries the candidate cards and the stack shown on screen
type FeedResponse struct {
	Cards     []*Card `json:"cards"`
	Stack     []*Card `json:"stack"`
	Exhausted bool    `json:"exhausted"`
}

// SwipeResponse represents swipe result
type SwipeResponse struct {
	IsMatch     bool          `json:"is_match"`
	Swipe       *domain.Swipe `json:"swipe"`
	Match       *domain.Match `json:"match,omitempty"`
	MatchedUser *Card         `json:"matched_user,omitempty"`
}

// GestureResponse is the replayed drag outcome
type GestureResponse struct {
	Decision  gesture.Decision  `json:"decision"`
	Transform gesture.Transform `json:"transform"`
	Swipe     *SwipeResponse    `json:"swipe,omitempty"`
}

// RewindResponse is the card brought back after its swipe was taken back
type RewindResponse struct {
	Swipe *domain.Swipe `json:"swipe"`
	Card  *Card         `json:"card"`
}

// MatchResponse is a match together with the other person's card
type MatchResponse struct {
	Match   *domain.Match `json:"match"`
	Partner *Card         `json:"partner"`
}

func toCard(p *domain.Profile, viewer *domain.Profile) *Card {
	card := &Card{
		ID:            p.ID,
		Name:          p.Name,
		Age:           p.Age,
		Gender:        p.Gender,
		Bio:           p.Bio,
		Photos:        p.Photos,
		MainPhoto:     p.MainPhoto(),
		LookingFor:    p.LookingFor,
		Hobbies:       p.Hobbies,
		SharedHobbies: []string{},
	}
	if viewer != nil {
		card.SharedHobbies = sharedHobbies(viewer.Hobbies, p.Hobbies)
	}
	return card
}

func sharedHobbies(a, b []string) []string {
	set := make(map[string]bool, len(a))
	for _, h := range a {
		set[h] = true
	}
	out := []string{}
	for _, h := range b {
		if set[h] {
			out = append(out, h)
		}
	}
	return out
}

// Feed returns onboarded profiles the user has not swiped yet, filtered by
// the user's preferences.
func (uc *DiscoverUseCase) Feed(ctx context.Context, userID string, limit int) (*FeedResponse, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	me, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	swiped, err := uc.swipeRepo.GetSwipedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get swiped users: %w", err)
	}

	completed := true
	filter := repository.ProfileFilter{
		OnboardingCompleted: &completed,
		ExcludeIDs:          append(swiped, userID),
		Genders:             me.Preferences.GenderPreference,
		MinAge:              me.Preferences.MinAge,
		MaxAge:              me.Preferences.MaxAge,
	}
	candidates, err := uc.profileRepo.SearchProfiles(ctx, filter, limit, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}

	cards := make([]*Card, 0, len(candidates))
	for _, candidate := range candidates {
		cards = append(cards, toCard(candidate, me))
	}

	deck := NewDeck(cards)
	return &FeedResponse{
		Cards:     cards,
		Stack:     deck.Visible(),
		Exhausted: deck.Exhausted(),
	}, nil
}

// Swipe records a swipe and, for a right swipe, flips the match coin
func (uc *DiscoverUseCase) Swipe(ctx context.Context, swiperID string, req *SwipeRequest) (*SwipeResponse, error) {
	if !req.Direction.Valid() {
		return nil, domain.ErrInvalidDirection
	}
	if swiperID == req.TargetUserID {
		return nil, domain.ErrCannotSwipeSelf
	}

	target, err := uc.profileRepo.GetByID(ctx, req.TargetUserID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.swipeRepo.GetByUsers(ctx, swiperID, req.TargetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check swipe: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrSwipeAlreadyExists
	}

	swipe := &domain.Swipe{
		SwiperID:  swiperID,
		SwipedID:  req.TargetUserID,
		Direction: req.Direction,
	}
	if err := uc.swipeRepo.Create(ctx, swipe); err != nil {
		if errors.Is(err, domain.ErrSwipeAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create swipe: %w", err)
	}

	response := &SwipeResponse{Swipe: swipe}
	if !swipe.IsLike() || !uc.matcher.Match(swiperID, req.TargetUserID) {
		return response, nil
	}

	match, err := uc.createMatch(ctx, swiperID, req.TargetUserID)
	if err != nil {
		log.Printf("[Match] createMatch failed: %v", err)
		return response, nil
	}
	log.Printf("[Match] match %d created (%s, %s)", match.ID, match.User1ID, match.User2ID)

	me, _ := uc.profileRepo.GetByID(ctx, swiperID)
	uc.suggestIcebreakers(ctx, match, me, target)

	response.IsMatch = true
	response.Match = match
	response.MatchedUser = toCard(target, me)
	return response, nil
}

func (uc *DiscoverUseCase) createMatch(ctx context.Context, user1ID, user2ID string) (*domain.Match, error) {
	user1ID, user2ID = domain.OrderedPair(user1ID, user2ID)

	existing, err := uc.matchRepo.GetByUsers(ctx, user1ID, user2ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrMatchNotFound) {
		return nil, err
	}

	match := &domain.Match{
		User1ID:     user1ID,
		User2ID:     user2ID,
		IsActive:    true,
		Icebreakers: []string{},
	}
	if err := uc.matchRepo.Create(ctx, match); err != nil {
		return nil, err
	}
	return match, nil
}

func (uc *DiscoverUseCase) suggestIcebreakers(ctx context.Context, match *domain.Match, me, target *domain.Profile) {
	if uc.wingman == nil || me == nil {
		return
	}
	icebreakers, err := uc.wingman.GenerateIcebreakers(ctx, me.Hobbies, target.Hobbies)
	if err != nil {
		log.Printf("[Match] icebreakers unavailable for match %d: %v", match.ID, err)
		return
	}
	if err := uc.matchRepo.UpdateIcebreakers(ctx, match.ID, icebreakers); err != nil {
		log.Printf("[Match] failed to save icebreakers for match %d: %v", match.ID, err)
		return
	}
	match.Icebreakers = icebreakers
}

// Rewind takes back the user's latest swipe and returns its card. A swipe
// that produced a match stays.
func (uc *DiscoverUseCase) Rewind(ctx context.Context, userID string) (*RewindResponse, error) {
	last, err := uc.swipeRepo.GetUserSwipes(ctx, userID, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get last swipe: %w", err)
	}
	if len(last) == 0 {
		return nil, domain.ErrNothingToRewind
	}
	swipe := last[0]

	if swipe.IsLike() {
		_, err := uc.matchRepo.GetByUsers(ctx, userID, swipe.SwipedID)
		if err == nil {
			return nil, domain.ErrRewindMatched
		}
		if !errors.Is(err, domain.ErrMatchNotFound) {
			return nil, fmt.Errorf("failed to check match: %w", err)
		}
	}

	target, err := uc.profileRepo.GetByID(ctx, swipe.SwipedID)
	if err != nil {
		return nil, err
	}
	if err := uc.swipeRepo.Delete(ctx, swipe.ID); err != nil {
		return nil, fmt.Errorf("failed to delete swipe: %w", err)
	}

	me, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}
	log.Printf("[Match] user %s took back swipe %d", userID, swipe.ID)
	return &RewindResponse{Swipe: swipe, Card: toCard(target, me)}, nil
}

type inlineScheduler struct{}

func (inlineScheduler) AfterFunc(_ time.Duration, fn func()) {
	fn()
}

// Gesture replays a reported drag through a swipe card and records the swipe
// when the drag commits.
func (uc *DiscoverUseCase) Gesture(ctx context.Context, swiperID string, req *GestureRequest) (*GestureResponse, error) {
	if swiperID == req.TargetUserID {
		return nil, domain.ErrCannotSwipeSelf
	}

	var (
		result   *SwipeResponse
		swipeErr error
	)
	record := func(dir domain.SwipeDirection) func(string) {
		return func(target string) {
			result, swipeErr = uc.Swipe(ctx, swiperID, &SwipeRequest{TargetUserID: target, Direction: dir})
		}
	}

	card := gesture.NewCard(req.TargetUserID, gesture.DefaultConfig(req.ViewportWidth), nil, inlineScheduler{})
	card.OnSwipeLeft = record(domain.SwipeLeft)
	card.OnSwipeRight = record(domain.SwipeRight)

	decision, ok := card.Replay(req.Samples)
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	if swipeErr != nil {
		return nil, swipeErr
	}

	return &GestureResponse{
		Decision:  decision,
		Transform: card.Transform(),
		Swipe:     result,
	}, nil
}

// Matches returns the user's active matches, newest first
func (uc *DiscoverUseCase) Matches(ctx context.Context, userID string, limit, offset int) ([]*MatchResponse, error) {
	matches, err := uc.matchRepo.GetUserMatches(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}

	me, _ := uc.profileRepo.GetByID(ctx, userID)
	responses := make([]*MatchResponse, 0, len(matches))
	for _, m := range matches {
		otherID, ok := m.GetOtherUserID(userID)
		if !ok {
			continue
		}
		partner, err := uc.profileRepo.GetByID(ctx, otherID)
		if err != nil {
			continue
		}
		responses = append(responses, &MatchResponse{Match: m, Partner: toCard(partner, me)})
	}
	return responses, nil
}
