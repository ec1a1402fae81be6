package simulator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/lox/minicasino/internal/games"
	"github.com/lox/minicasino/internal/odds"
	"github.com/lox/minicasino/internal/round"
)

// ErrUnknownStrategy is returned by ParseStrategy for names it cannot build.
var ErrUnknownStrategy = errors.New("unknown strategy")

// maxActions stops a strategy that never settles its round.
const maxActions = 64

// Strategy plays a round that has already been bet on until it settles.
type Strategy interface {
	Name() string
	Play(e *round.Engine, rng *rand.Rand) error
}

// DefaultStrategy returns the strategy name used when none is given.
func DefaultStrategy(game string) string {
	switch game {
	case games.BlackjackGame:
		return "stand:17"
	case games.MinesGame:
		return "reveal:3"
	case games.TowerGame:
		return "climb:2"
	case games.CoinflipGame:
		return "heads"
	case games.WheelGame:
		return "spin"
	}
	return ""
}

// ParseStrategy builds a strategy for game from "name" or "name:N".
//
//	blackjack: stand:N   hit until the hand totals at least N
//	mines:     reveal:K  reveal K random cells, then cash out
//	tower:     climb:K   climb K levels on random tiles, then cash out
//	coinflip:  heads, tails, random
//	wheel:     spin
func ParseStrategy(game, raw string) (Strategy, error) {
	if raw == "" {
		raw = DefaultStrategy(game)
	}
	name, arg, hasArg := strings.Cut(raw, ":")
	n := 0
	if hasArg {
		var err error
		if n, err = strconv.Atoi(arg); err != nil {
			return nil, fmt.Errorf("strategy %q: bad argument: %w", raw, ErrUnknownStrategy)
		}
	}

	switch {
	case game == games.BlackjackGame && name == "stand":
		if !hasArg {
			n = games.DealerStandsOn
		}
		if n < 4 || n > odds.BlackjackTarget {
			return nil, fmt.Errorf("strategy %q: stand total must be 4-21: %w", raw, ErrUnknownStrategy)
		}
		return standOn{total: n}, nil
	case game == games.MinesGame && name == "reveal":
		if n < 1 {
			return nil, fmt.Errorf("strategy %q: reveal at least one cell: %w", raw, ErrUnknownStrategy)
		}
		return revealK{reveals: n}, nil
	case game == games.TowerGame && name == "climb":
		if n < 1 {
			return nil, fmt.Errorf("strategy %q: climb at least one level: %w", raw, ErrUnknownStrategy)
		}
		return climbK{levels: n}, nil
	case game == games.CoinflipGame && (name == "heads" || name == "tails" || name == "random"):
		return callSide{side: name}, nil
	case game == games.WheelGame && name == "spin":
		return spin{}, nil
	}
	return nil, fmt.Errorf("strategy %q for %s: %w", raw, game, ErrUnknownStrategy)
}

type standOn struct{ total int }

func (s standOn) Name() string { return fmt.Sprintf("stand:%d", s.total) }

func (s standOn) Play(e *round.Engine, _ *rand.Rand) error {
	for range maxActions {
		snap := e.Snapshot()
		if snap.State != round.Active {
			return nil
		}
		view, ok := snap.View.(games.BlackjackView)
		if !ok {
			return fmt.Errorf("stand:%d played on %s", s.total, snap.Game)
		}
		action := round.Stand()
		if view.PlayerTotal < s.total {
			action = round.Hit()
		}
		if err := e.Act(action); err != nil {
			return err
		}
	}
	return fmt.Errorf("%s: round did not settle", s.Name())
}

type revealK struct{ reveals int }

func (s revealK) Name() string { return fmt.Sprintf("reveal:%d", s.reveals) }

func (s revealK) Play(e *round.Engine, rng *rand.Rand) error {
	snap := e.Snapshot()
	view, ok := snap.View.(games.MinesView)
	if !ok {
		return fmt.Errorf("%s played on %s", s.Name(), snap.Game)
	}
	order := rng.Perm(view.Cells)
	for i := 0; i < s.reveals && i < len(order); i++ {
		if e.State() != round.Active {
			return nil
		}
		if err := e.Act(round.Reveal(order[i])); err != nil {
			return err
		}
	}
	return cashOutIfActive(e)
}

type climbK struct{ levels int }

func (s climbK) Name() string { return fmt.Sprintf("climb:%d", s.levels) }

func (s climbK) Play(e *round.Engine, rng *rand.Rand) error {
	snap := e.Snapshot()
	view, ok := snap.View.(games.TowerView)
	if !ok {
		return fmt.Errorf("%s played on %s", s.Name(), snap.Game)
	}
	for range s.levels {
		if e.State() != round.Active {
			return nil
		}
		if err := e.Act(round.Reveal(rng.IntN(view.Tiles))); err != nil {
			return err
		}
	}
	return cashOutIfActive(e)
}

type callSide struct{ side string }

func (s callSide) Name() string { return s.side }

func (s callSide) Play(e *round.Engine, rng *rand.Rand) error {
	side := games.Heads
	switch s.side {
	case "tails":
		side = games.Tails
	case "random":
		side = rng.IntN(2)
	}
	return e.Act(round.Flip(side))
}

type spin struct{}

func (spin) Name() string { return "spin" }

func (spin) Play(e *round.Engine, _ *rand.Rand) error {
	return e.Act(round.Spin())
}

func cashOutIfActive(e *round.Engine) error {
	snap := e.Snapshot()
	if snap.State == round.Active && snap.CanCashOut {
		return e.CashOut()
	}
	return nil
}
