package games

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lox/minicasino/internal/round"
)

// Coin sides, used as the Flip action index.
const (
	Heads = 0
	Tails = 1
)

// SideName returns "Heads" or "Tails".
func SideName(side int) string {
	switch side {
	case Heads:
		return "Heads"
	case Tails:
		return "Tails"
	default:
		return "?"
	}
}

// CoinflipConfig holds the payout and the flip animation length.
type CoinflipConfig struct {
	Multiplier float64
	Flip       time.Duration
}

// DefaultCoinflipConfig pays even money after a two second flip.
func DefaultCoinflipConfig() CoinflipConfig {
	return CoinflipConfig{Multiplier: 2, Flip: 2 * time.Second}
}

// Coinflip is a call-the-side game.
type Coinflip struct {
	cfg CoinflipConfig
}

// NewCoinflip returns a coinflip paying cfg.Multiplier on a correct call.
func NewCoinflip(cfg CoinflipConfig) (*Coinflip, error) {
	if cfg.Multiplier <= 0 {
		return nil, fmt.Errorf("coinflip multiplier %v must be positive", cfg.Multiplier)
	}
	return &Coinflip{cfg: cfg}, nil
}

func (c *Coinflip) Game() string { return CoinflipGame }

// NewPlay decides the landing side up front; the flip only reveals it.
func (c *Coinflip) NewPlay(rng *rand.Rand) (round.Play, error) {
	return &coinPlay{rules: c, landed: rng.IntN(2), pick: -1}, nil
}

// CoinView shows the called side and, once landed, the result.
type CoinView struct {
	Pick     int
	Result   int
	Flipping bool
}

type coinPlay struct {
	rules    *Coinflip
	landed   int
	pick     int
	flipping bool
	shown    bool
}

func (p *coinPlay) Apply(a round.Action) (round.Transition, error) {
	if a.Kind != round.KindFlip {
		return round.Transition{}, unsupported(CoinflipGame, a)
	}
	if a.Index != Heads && a.Index != Tails {
		return round.Transition{}, fmt.Errorf("coin side %d: %w", a.Index, round.ErrInvalidAction)
	}
	p.pick = a.Index
	return round.Resolve(p), nil
}

// Step starts the flip; the result is shown at settlement.
func (p *coinPlay) Step(int) (time.Duration, bool) {
	p.flipping = true
	return p.rules.cfg.Flip, true
}

func (p *coinPlay) Result() round.Result {
	p.flipping = false
	p.shown = true
	if p.landed == p.pick {
		return round.Result{
			Outcome:    round.Win,
			Multiplier: p.rules.cfg.Multiplier,
			Text:       SideName(p.landed) + ", you win",
		}
	}
	return round.Result{Outcome: round.Loss, Text: SideName(p.landed) + ", you lose"}
}

func (p *coinPlay) Progress() int       { return 0 }
func (p *coinPlay) Multiplier() float64 { return p.rules.cfg.Multiplier }
func (p *coinPlay) CanCashOut() bool    { return false }

func (p *coinPlay) View() any {
	v := CoinView{Pick: p.pick, Result: -1, Flipping: p.flipping}
	if p.shown {
		v.Result = p.landed
	}
	return v
}
