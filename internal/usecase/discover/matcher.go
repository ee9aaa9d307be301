package discover

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultMatchProbability is the chance that a right swipe becomes a match.
const DefaultMatchProbability = 0.3

// Matcher decides whether a right swipe produces a match.
type Matcher interface {
	Match(swiperID, swipedID string) bool
}

// RandomMatcher flips a biased coin. There is no compatibility scoring.
type RandomMatcher struct {
	probability float64
	mu          sync.Mutex
	rnd         *rand.Rand
}

// NewRandomMatcher clamps probability to [0, 1]. A nil src seeds from the clock.
func NewRandomMatcher(probability float64, src rand.Source) *RandomMatcher {
	if probability < 0 {
		probability = 0
	}
	if probability > 1 {
		probability = 1
	}
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &RandomMatcher{probability: probability, rnd: rand.New(src)}
}

func (m *RandomMatcher) Match(swiperID, swipedID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rnd.Float64() < m.probability
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(swiperID, swipedID string) bool

func (f MatcherFunc) Match(swiperID, swipedID string) bool {
	return f(swiperID, swipedID)
}
