package odds

import "github.com/lox/minicasino/internal/deck"

// BlackjackTarget is the best possible hand value.
const BlackjackTarget = 21

// HandValue scores a blackjack hand. Aces start at 11 and are downgraded to
// 1 one at a time while the total is over 21. soft reports whether an ace is
// still counted as 11.
func HandValue(cards []deck.Card) (total int, soft bool) {
	aces := 0
	for _, c := range cards {
		total += c.Points()
		if c.IsAce() {
			aces++
		}
	}
	for total > BlackjackTarget && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces > 0
}

// IsBlackjack reports a two-card 21.
func IsBlackjack(cards []deck.Card) bool {
	if len(cards) != 2 {
		return false
	}
	total, _ := HandValue(cards)
	return total == BlackjackTarget
}

// IsBust reports a hand over 21.
func IsBust(cards []deck.Card) bool {
	total, _ := HandValue(cards)
	return total > BlackjackTarget
}
