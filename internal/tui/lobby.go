package tui

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/minicasino/internal/games"
	"github.com/lox/minicasino/internal/randutil"
	"github.com/lox/minicasino/internal/round"
	"github.com/lox/minicasino/internal/wager"
	"github.com/lox/minicasino/internal/wallet"
	"github.com/shopspring/decimal"
)

// ErrRoundInProgress is returned when the player tries to leave a game
// while its round is still running.
var ErrRoundInProgress = errors.New("round in progress")

// LobbyConfig wires a lobby to its collaborators.
type LobbyConfig struct {
	Catalog     *games.Catalog
	Store       *wallet.Store
	Normalizer  wager.Normalizer
	DefaultGame string
	Seed        int64
	Logger      *log.Logger

	// EngineOptions are applied to every engine the lobby creates, after
	// the lobby's own logger, seed and event bus.
	EngineOptions []round.EngineOption
}

// Lobby owns one engine per game, all sharing the wallet and a single
// event bus. Only the selected game takes input.
type Lobby struct {
	cfg     LobbyConfig
	logger  *log.Logger
	bus     *round.SimpleEventBus
	engines map[string]*round.Engine
	tiers   map[string]string
	game    string
	stake   decimal.Decimal
}

// NewLobby creates a lobby with DefaultGame selected.
func NewLobby(cfg LobbyConfig) (*Lobby, error) {
	if cfg.Catalog == nil || cfg.Store == nil {
		return nil, errors.New("lobby needs a catalog and a wallet")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Normalizer.MinStake.IsZero() {
		cfg.Normalizer = wager.Default
	}
	if cfg.DefaultGame == "" {
		cfg.DefaultGame = games.BlackjackGame
	}
	cfg.Seed = randutil.Seed(cfg.Seed)

	l := &Lobby{
		cfg:     cfg,
		logger:  cfg.Logger.WithPrefix("lobby"),
		bus:     round.NewEventBus(),
		engines: make(map[string]*round.Engine),
		tiers:   make(map[string]string),
	}
	l.stake = cfg.Normalizer.Clamp(decimal.NewFromInt(1), cfg.Store.Balance())
	if err := l.SelectGame(cfg.DefaultGame); err != nil {
		return nil, err
	}
	return l, nil
}

// Bus carries the events of every game's engine. Subscribers should filter
// on Snapshot.Game.
func (l *Lobby) Bus() round.EventBus { return l.bus }

// Game is the selected game.
func (l *Lobby) Game() string { return l.game }

// Engine is the selected game's engine.
func (l *Lobby) Engine() *round.Engine { return l.engines[l.game] }

// Catalog returns the rule catalog the lobby builds games from.
func (l *Lobby) Catalog() *games.Catalog { return l.cfg.Catalog }

// Tier is the selected game's tier, empty for games without tiers.
func (l *Lobby) Tier() string { return l.tiers[l.game] }

// Balance is the wallet balance.
func (l *Lobby) Balance() decimal.Decimal { return l.cfg.Store.Balance() }

// Stake is the wager the next bet will use.
func (l *Lobby) Stake() decimal.Decimal { return l.stake }

// SelectGame switches to game, creating its engine on first use. Leaving a
// game with a live round is refused.
func (l *Lobby) SelectGame(game string) error {
	if !slices.Contains(games.Names(), game) {
		return fmt.Errorf("%q: %w", game, games.ErrUnknownGame)
	}
	if game == l.game {
		return nil
	}
	if cur := l.Engine(); cur != nil {
		if s := cur.State(); s == round.Active || s == round.Resolving {
			return fmt.Errorf("leave %s: %w", l.game, ErrRoundInProgress)
		}
	}

	if _, ok := l.engines[game]; !ok {
		tier := l.cfg.Catalog.DefaultTier(game)
		opts := []round.EngineOption{
			round.WithLogger(l.cfg.Logger),
			round.WithEventBus(l.bus),
			round.WithSeed(randutil.Derive(l.cfg.Seed, slices.Index(games.Names(), game))),
			round.WithMinStake(l.cfg.Normalizer.MinStake),
		}
		engine, err := l.cfg.Catalog.NewEngine(game, tier, l.cfg.Store, append(opts, l.cfg.EngineOptions...)...)
		if err != nil {
			return err
		}
		l.engines[game] = engine
		l.tiers[game] = tier
	}

	l.logger.Debug("Selected game", "game", game, "tier", l.tiers[game])
	l.game = game
	return nil
}

// SetTier changes the selected game's difficulty. The engine only allows
// this between rounds.
func (l *Lobby) SetTier(tier string) error {
	rules, err := l.cfg.Catalog.Rules(l.game, tier)
	if err != nil {
		return err
	}
	if err := l.Engine().SetRules(rules); err != nil {
		return err
	}
	l.tiers[l.game] = tier
	return nil
}

// SetStake commits typed wager text.
func (l *Lobby) SetStake(raw string) decimal.Decimal {
	l.stake = l.cfg.Normalizer.Normalize(raw, l.Balance())
	return l.stake
}

// HalveStake halves the stake.
func (l *Lobby) HalveStake() decimal.Decimal {
	l.stake = l.cfg.Normalizer.Halve(l.stake, l.Balance())
	return l.stake
}

// QuarterStake cuts the stake to a quarter.
func (l *Lobby) QuarterStake() decimal.Decimal {
	l.stake = l.cfg.Normalizer.Quarter(l.stake, l.Balance())
	return l.stake
}

// DoubleStake doubles the stake up to the balance.
func (l *Lobby) DoubleStake() decimal.Decimal {
	l.stake = l.cfg.Normalizer.Double(l.stake, l.Balance())
	return l.stake
}

// Bet places the current stake on the selected game. The stake is clamped
// against the balance first, since it may exceed it after a loss.
func (l *Lobby) Bet() error {
	l.stake = l.cfg.Normalizer.Clamp(l.stake, l.Balance())
	return l.Engine().PlaceBet(l.stake)
}

// Act forwards a game action.
func (l *Lobby) Act(a round.Action) error {
	return l.Engine().Act(a)
}

// CashOut collects the selected game's current multiplier.
func (l *Lobby) CashOut() error {
	return l.Engine().CashOut()
}

// NewRound returns a settled game to betting.
func (l *Lobby) NewRound() error {
	return l.Engine().NewRound()
}

// Deposit tops up the wallet.
func (l *Lobby) Deposit(raw string) (decimal.Decimal, error) {
	amount := wager.Parse(raw).Round(2)
	if err := l.cfg.Store.Deposit(amount); err != nil {
		return decimal.Zero, err
	}
	l.logger.Info("Deposit", "amount", wager.Format(amount), "balance", wager.Format(l.Balance()))
	return amount, nil
}
