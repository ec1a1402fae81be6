// Package round implements the generic round state machine shared by every
// game in the lobby. A game contributes a Rules value; the Engine owns the
// wager, the balance movements and the Betting → Active → Resolving →
// Settled lifecycle.
package round

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidWager is returned when a wager is below the minimum stake,
	// has sub-cent precision or exceeds the balance.
	ErrInvalidWager = errors.New("invalid wager")
	// ErrInvalidAction is returned when an action does not apply to the
	// current state of the round.
	ErrInvalidAction = errors.New("invalid action")
)

// State is the lifecycle stage of a round.
type State int

const (
	Betting State = iota
	Active
	Resolving
	Settled
)

func (s State) String() string {
	switch s {
	case Betting:
		return "betting"
	case Active:
		return "active"
	case Resolving:
		return "resolving"
	case Settled:
		return "settled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome is how a settled round ended for the player.
type Outcome int

const (
	NoOutcome Outcome = iota
	Win
	Loss
	Push
)

func (o Outcome) String() string {
	switch o {
	case NoOutcome:
		return "none"
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Push:
		return "push"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Action kinds understood by the bundled games.
const (
	KindHit    = "hit"
	KindStand  = "stand"
	KindReveal = "reveal"
	KindFlip   = "flip"
	KindSpin   = "spin"
)

// Action is a player intent forwarded to the active play. Index selects a
// cell, tile or coin side where the kind needs one.
type Action struct {
	Kind  string
	Index int
}

func (a Action) String() string {
	switch a.Kind {
	case KindReveal, KindFlip:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Index)
	default:
		return a.Kind
	}
}

func Hit() Action { return Action{Kind: KindHit} }
func Stand() Action { return Action{Kind: KindStand} }
func Spin() Action { return Action{Kind: KindSpin} }
func Reveal(index int) Action { return Action{Kind: KindReveal, Index: index} }
func Flip(side int) Action { return Action{Kind: KindFlip, Index: side} }

// Result is the final verdict of a play. Multiplier is applied to the
// wager to compute the credit; zero means nothing is paid back.
type Result struct {
	Outcome    Outcome
	Multiplier float64
	Text       string
}

// Snapshot is an immutable copy of an engine's state, handed to renderers.
type Snapshot struct {
	RoundID    string
	Game       string
	State      State
	Balance    decimal.Decimal
	Wager      decimal.Decimal
	Payout     decimal.Decimal
	Multiplier float64
	Progress   int
	CanCashOut bool
	Outcome    Outcome
	Text       string
	// View is the game specific payload (hands, grid, tower, coin, wheel).
	View any
}

// HistoryEntry records one settled round.
type HistoryEntry struct {
	RoundID    string
	Game       string
	Wager      decimal.Decimal
	Payout     decimal.Decimal
	Multiplier float64
	Outcome    Outcome
	Text       string
	SettledAt  time.Time
}

// Net returns the balance change the round produced.
func (h HistoryEntry) Net() decimal.Decimal {
	return h.Payout.Sub(h.Wager)
}
