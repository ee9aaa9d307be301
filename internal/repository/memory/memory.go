// Package memory implements the repository interfaces on in-process maps.
// It backs STORAGE_TYPE=memory / STATE_STORE=memory and the use case tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gdugdh24/spark-backend/internal/domain"
	"github.com/gdugdh24/spark-backend/internal/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrUserAlreadyExists
		}
	}
	if _, ok := r.users[user.ID]; ok {
		return domain.ErrUserAlreadyExists
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type SessionRepository struct {
	mu       sync.RWMutex
	nextID   int
	sessions map[string]domain.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]domain.Session)}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	session.ID = r.nextID
	session.CreatedAt = time.Now()
	r.sessions[session.Token] = *session
	return nil
}

func (r *SessionRepository) GetByToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[tokenHash]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[tokenHash]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.sessions, tokenHash)
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, s := range r.sessions {
		if s.IsExpired() {
			delete(r.sessions, k)
			n++
		}
	}
	return n, nil
}

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]domain.Profile)}
}

func copyProfile(p domain.Profile) *domain.Profile {
	c := p
	if p.Gender != nil {
		g := *p.Gender
		c.Gender = &g
	}
	if p.LookingFor != nil {
		l := *p.LookingFor
		c.LookingFor = &l
	}
	c.Photos = append([]string{}, p.Photos...)
	c.Hobbies = append([]string{}, p.Hobbies...)
	c.Preferences.GenderPreference = append([]domain.Gender{}, p.Preferences.GenderPreference...)
	return &c
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.ID]; ok {
		return domain.ErrProfileAlreadyExists
	}
	r.profiles[profile.ID] = *copyProfile(*profile)
	return nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return copyProfile(p), nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.ID]; !ok {
		return domain.ErrProfileNotFound
	}
	profile.UpdatedAt = time.Now()
	r.profiles[profile.ID] = *copyProfile(*profile)
	return nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[id]; !ok {
		return domain.ErrProfileNotFound
	}
	delete(r.profiles, id)
	return nil
}

func (r *ProfileRepository) SearchProfiles(ctx context.Context, filter repository.ProfileFilter, limit, offset int) ([]*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	excluded := make(map[string]bool, len(filter.ExcludeIDs))
	for _, id := range filter.ExcludeIDs {
		excluded[id] = true
	}

	var out []*domain.Profile
	for _, p := range r.profiles {
		if excluded[p.ID] {
			continue
		}
		if filter.OnboardingCompleted != nil && p.OnboardingCompleted != *filter.OnboardingCompleted {
			continue
		}
		if len(filter.Genders) > 0 && !containsGender(filter.Genders, p.Gender) {
			continue
		}
		if filter.MinAge > 0 && p.Age < filter.MinAge {
			continue
		}
		if filter.MaxAge > 0 && p.Age > filter.MaxAge {
			continue
		}
		out = append(out, copyProfile(p))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []*domain.Profile{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func containsGender(genders []domain.Gender, g *domain.Gender) bool {
	if g == nil {
		return false
	}
	for _, candidate := range genders {
		if candidate == *g {
			return true
		}
	}
	return false
}

type SwipeRepository struct {
	mu     sync.RWMutex
	nextID int
	swipes []domain.Swipe
}

func NewSwipeRepository() *SwipeRepository {
	return &SwipeRepository{}
}

func (r *SwipeRepository) Create(ctx context.Context, swipe *domain.Swipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.swipes {
		if s.SwiperID == swipe.SwiperID && s.SwipedID == swipe.SwipedID {
			return domain.ErrSwipeAlreadyExists
		}
	}
	r.nextID++
	swipe.ID = r.nextID
	swipe.CreatedAt = time.Now()
	r.swipes = append(r.swipes, *swipe)
	return nil
}

func (r *SwipeRepository) GetByUsers(ctx context.Context, swiperID, swipedID string) (*domain.Swipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.swipes {
		if s.SwiperID == swiperID && s.SwipedID == swipedID {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (r *SwipeRepository) GetUserSwipes(ctx context.Context, swiperID string, limit, offset int) ([]*domain.Swipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Swipe
	for i := len(r.swipes) - 1; i >= 0; i-- {
		if r.swipes[i].SwiperID == swiperID {
			s := r.swipes[i]
			out = append(out, &s)
		}
	}
	if offset >= len(out) {
		return []*domain.Swipe{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *SwipeRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.swipes {
		if s.ID == id {
			r.swipes = append(r.swipes[:i], r.swipes[i+1:]...)
			return nil
		}
	}
	return domain.ErrNothingToRewind
}

func (r *SwipeRepository) GetSwipedIDs(ctx context.Context, swiperID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []string
	for _, s := range r.swipes {
		if s.SwiperID == swiperID {
			ids = append(ids, s.SwipedID)
		}
	}
	return ids, nil
}

type MatchRepository struct {
	mu      sync.RWMutex
	nextID  int
	matches map[int]domain.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{matches: make(map[int]domain.Match)}
}

func (r *MatchRepository) Create(ctx context.Context, match *domain.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	match.User1ID, match.User2ID = domain.OrderedPair(match.User1ID, match.User2ID)
	r.nextID++
	match.ID = r.nextID
	match.CreatedAt = time.Now()
	r.matches[match.ID] = *match
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id int) (*domain.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	return &m, nil
}

func (r *MatchRepository) GetByUsers(ctx context.Context, user1ID, user2ID string) (*domain.Match, error) {
	user1ID, user2ID = domain.OrderedPair(user1ID, user2ID)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.matches {
		if m.User1ID == user1ID && m.User2ID == user2ID {
			m := m
			return &m, nil
		}
	}
	return nil, domain.ErrMatchNotFound
}

func (r *MatchRepository) GetUserMatches(ctx context.Context, userID string, limit, offset int) ([]*domain.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Match
	for _, m := range r.matches {
		if m.IsActive && m.HasUser(userID) {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return []*domain.Match{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, id int, isActive bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return domain.ErrMatchNotFound
	}
	m.IsActive = isActive
	r.matches[id] = m
	return nil
}

func (r *MatchRepository) UpdateIcebreakers(ctx context.Context, id int, icebreakers []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return domain.ErrMatchNotFound
	}
	m.Icebreakers = append([]string{}, icebreakers...)
	r.matches[id] = m
	return nil
}

func (r *MatchRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[id]; !ok {
		return domain.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

type DraftRepository struct {
	mu     sync.RWMutex
	drafts map[string]domain.OnboardingState
}

func NewDraftRepository() *DraftRepository {
	return &DraftRepository{drafts: make(map[string]domain.OnboardingState)}
}

func (r *DraftRepository) Get(ctx context.Context, userID string) (*domain.OnboardingState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.drafts[userID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	s.Draft = s.Draft.Clone()
	return &s, nil
}

func (r *DraftRepository) Save(ctx context.Context, userID string, state *domain.OnboardingState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := *state
	s.Draft = state.Draft.Clone()
	r.drafts[userID] = s
	return nil
}

func (r *DraftRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, userID)
	return nil
}

type SessionStateRepository struct {
	mu     sync.RWMutex
	states map[string]domain.SessionState
}

func NewSessionStateRepository() *SessionStateRepository {
	return &SessionStateRepository{states: make(map[string]domain.SessionState)}
}

func (r *SessionStateRepository) Get(ctx context.Context, deviceID string) (*domain.SessionState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.states[deviceID]
	if !ok {
		return nil, domain.ErrSessionStateNotFound
	}
	return &s, nil
}

func (r *SessionStateRepository) Save(ctx context.Context, deviceID string, state *domain.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[deviceID] = *state
	return nil
}

func (r *SessionStateRepository) Delete(ctx context.Context, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, deviceID)
	return nil
}

var (
	_ repository.UserRepository         = (*UserRepository)(nil)
	_ repository.SessionRepository      = (*SessionRepository)(nil)
	_ repository.ProfileRepository      = (*ProfileRepository)(nil)
	_ repository.SwipeRepository        = (*SwipeRepository)(nil)
	_ repository.MatchRepository        = (*MatchRepository)(nil)
	_ repository.DraftRepository        = (*DraftRepository)(nil)
	_ repository.SessionStateRepository = (*SessionStateRepository)(nil)
)
