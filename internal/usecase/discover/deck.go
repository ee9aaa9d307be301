package discover

// VisibleCards is how many cards the client stacks on screen at once.
const VisibleCards = 3

// Deck is an ordered run of candidate cards, top card first. Swiped cards
// never come back from the server, so the deck is always dealt from the top.
type Deck[T any] struct {
	cards []T
}

func NewDeck[T any](cards []T) *Deck[T] {
	return &Deck[T]{cards: cards}
}

// Visible returns up to VisibleCards cards starting at the top card.
func (d *Deck[T]) Visible() []T {
	end := VisibleCards
	if end > len(d.cards) {
		end = len(d.cards)
	}
	out := make([]T, 0, end)
	return append(out, d.cards[:end]...)
}

func (d *Deck[T]) Exhausted() bool {
	return len(d.cards) == 0
}
