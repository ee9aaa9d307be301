package domain

import "time"

type SwipeDirection string

const (
	SwipeLeft  SwipeDirection = "left"
	SwipeRight SwipeDirection = "right"
)

func (d SwipeDirection) Valid() bool {
	return d == SwipeLeft || d == SwipeRight
}

type Swipe struct {
	ID        int            `json:"id" db:"id"`
	SwiperID  string         `json:"swiper_id" db:"swiper_id"`
	SwipedID  string         `json:"swiped_id" db:"swiped_id"`
	Direction SwipeDirection `json:"direction" db:"direction"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

func (s *Swipe) IsLike() bool {
	return s.Direction == SwipeRight
}

type Match struct {
	ID          int       `json:"id" db:"id"`
	User1ID     string    `json:"user1_id" db:"user1_id"`
	User2ID     string    `json:"user2_id" db:"user2_id"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	Icebreakers []string  `json:"icebreakers" db:"icebreakers"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (m *Match) HasUser(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

func (m *Match) GetOtherUserID(userID string) (string, bool) {
	if m.User1ID == userID {
		return m.User2ID, true
	}
	if m.User2ID == userID {
		return m.User1ID, true
	}
	return "", false
}

// OrderedPair returns the two ids sorted so a pair is stored once.
func OrderedPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}
