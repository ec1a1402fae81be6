package deck

import (
	"errors"
	"math/rand/v2"
)

// ErrExhaustedShoe is reported by TryDraw when no cards are left.
var ErrExhaustedShoe = errors.New("shoe exhausted")

// CardsPerDeck is the size of one standard deck.
const CardsPerDeck = 52

// Shoe is a multi-deck pool of cards. Cards are drawn from the end of the
// slice; an empty shoe is refilled with a freshly shuffled one.
type Shoe struct {
	decks      int
	cards      []Card
	rng        *rand.Rand
	reshuffles int
}

// NewShoe creates a shuffled shoe holding the given number of decks.
func NewShoe(decks int, rng *rand.Rand) *Shoe {
	if decks < 1 {
		decks = 1
	}
	s := &Shoe{
		decks: decks,
		cards: make([]Card, 0, decks*CardsPerDeck),
		rng:   rng,
	}
	s.fill()
	return s
}

// NewShoeFromCards creates a shoe with a fixed order; the last card is drawn
// first. Once exhausted it refills with decks shuffled decks.
func NewShoeFromCards(cards []Card, decks int, rng *rand.Rand) *Shoe {
	if decks < 1 {
		decks = 1
	}
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Shoe{decks: decks, cards: stacked, rng: rng}
}

// fill restores every deck and shuffles the shoe.
func (s *Shoe) fill() {
	s.cards = s.cards[:0]
	for range s.decks {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}
	s.Shuffle()
}

// Shuffle randomizes the order of the remaining cards (Fisher-Yates).
func (s *Shoe) Shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// TryDraw removes and returns the last card.
func (s *Shoe) TryDraw() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, ErrExhaustedShoe
	}
	last := len(s.cards) - 1
	card := s.cards[last]
	s.cards = s.cards[:last]
	return card, nil
}

// Draw removes and returns the last card, reshuffling a fresh shoe first if
// the current one is empty.
func (s *Shoe) Draw() Card {
	card, err := s.TryDraw()
	if errors.Is(err, ErrExhaustedShoe) {
		s.reshuffles++
		s.fill()
		card, _ = s.TryDraw()
	}
	return card
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Reshuffles counts how many times the shoe was refilled on exhaustion.
func (s *Shoe) Reshuffles() int {
	return s.reshuffles
}

// Decks returns the number of decks a full shoe holds.
func (s *Shoe) Decks() int {
	return s.decks
}
