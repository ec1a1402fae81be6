// Package games holds the rule sets plugged into the round engine: Blackjack,
// Mines, Tower, Coinflip and Wheel, plus a catalog that builds them from
// lobby settings.
package games

import (
	"fmt"

	"github.com/lox/minicasino/internal/round"
)

// Game names.
const (
	BlackjackGame = "blackjack"
	MinesGame     = "mines"
	TowerGame     = "tower"
	CoinflipGame  = "coinflip"
	WheelGame     = "wheel"
)

// Names lists the games in lobby order.
func Names() []string {
	return []string{BlackjackGame, MinesGame, TowerGame, CoinflipGame, WheelGame}
}

func unsupported(game string, a round.Action) error {
	return fmt.Errorf("%s does not support %s: %w", game, a, round.ErrInvalidAction)
}
