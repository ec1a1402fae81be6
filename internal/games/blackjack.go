package games

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/minicasino/internal/deck"
	"github.com/lox/minicasino/internal/odds"
	"github.com/lox/minicasino/internal/round"
)

// DealerStandsOn is the total at which the dealer stops drawing.
const DealerStandsOn = 17

// BlackjackConfig holds the table parameters.
type BlackjackConfig struct {
	Decks             int
	NaturalMultiplier float64
	DealerStep        time.Duration
}

// DefaultBlackjackConfig is a six deck shoe paying 3:2 on naturals.
func DefaultBlackjackConfig() BlackjackConfig {
	return BlackjackConfig{
		Decks:             6,
		NaturalMultiplier: 2.5,
		DealerStep:        800 * time.Millisecond,
	}
}

// Blackjack is a single-hand table. The shoe persists across rounds and is
// reshuffled when it runs out.
type Blackjack struct {
	cfg    BlackjackConfig
	shoe   *deck.Shoe
	logger *log.Logger
}

// NewBlackjack creates a table. The shoe is built lazily from the engine's
// RNG on the first deal.
func NewBlackjack(cfg BlackjackConfig, logger *log.Logger) *Blackjack {
	if cfg.Decks < 1 {
		cfg.Decks = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Blackjack{cfg: cfg, logger: logger.WithPrefix(BlackjackGame)}
}

// NewBlackjackWithShoe creates a table dealing from shoe.
func NewBlackjackWithShoe(cfg BlackjackConfig, shoe *deck.Shoe, logger *log.Logger) *Blackjack {
	b := NewBlackjack(cfg, logger)
	b.shoe = shoe
	return b
}

func (b *Blackjack) Game() string { return BlackjackGame }

// Shoe returns the shoe in use, nil before the first deal.
func (b *Blackjack) Shoe() *deck.Shoe { return b.shoe }

func (b *Blackjack) NewPlay(rng *rand.Rand) (round.Play, error) {
	if b.shoe == nil {
		b.shoe = deck.NewShoe(b.cfg.Decks, rng)
	}

	p := &blackjackPlay{rules: b, holeHidden: true}
	for range 2 {
		p.player = append(p.player, b.draw())
		p.dealer = append(p.dealer, b.draw())
	}
	return p, nil
}

func (b *Blackjack) draw() deck.Card {
	before := b.shoe.Reshuffles()
	card := b.shoe.Draw()
	if b.shoe.Reshuffles() != before {
		b.logger.Debug("shoe exhausted, reshuffled", "decks", b.shoe.Decks(), "reshuffles", b.shoe.Reshuffles())
	}
	return card
}

// BlackjackView is what the table shows. The dealer's hole card is left out
// until it is revealed.
type BlackjackView struct {
	Player      []deck.Card
	Dealer      []deck.Card
	HoleHidden  bool
	PlayerTotal int
	PlayerSoft  bool
	DealerTotal int
}

type blackjackPlay struct {
	rules      *Blackjack
	player     []deck.Card
	dealer     []deck.Card
	holeHidden bool
	hits       int
}

// Open ends the round on a dealt natural: the dealer turns the hole card and
// the hand settles without the player acting.
func (p *blackjackPlay) Open() round.Transition {
	if odds.IsBlackjack(p.player) {
		return round.Resolve(&dealerTurn{play: p})
	}
	return round.Continue()
}

func (p *blackjackPlay) Apply(a round.Action) (round.Transition, error) {
	if odds.IsBlackjack(p.player) {
		return round.Transition{}, fmt.Errorf("%s on a natural: %w", a, round.ErrInvalidAction)
	}
	switch a.Kind {
	case round.KindHit:
		p.player = append(p.player, p.rules.draw())
		p.hits++
		total, _ := odds.HandValue(p.player)
		switch {
		case total > odds.BlackjackTarget:
			p.holeHidden = false
			return round.Settle(round.Result{
				Outcome: round.Loss,
				Text:    fmt.Sprintf("Bust with %d", total),
			}), nil
		case total == odds.BlackjackTarget:
			return round.Resolve(&dealerTurn{play: p}), nil
		}
		return round.Continue(), nil
	case round.KindStand:
		return round.Resolve(&dealerTurn{play: p}), nil
	}
	return round.Transition{}, unsupported(BlackjackGame, a)
}

func (p *blackjackPlay) Progress() int { return p.hits }

func (p *blackjackPlay) Multiplier() float64 {
	if odds.IsBlackjack(p.player) {
		return p.rules.cfg.NaturalMultiplier
	}
	return 2
}

func (p *blackjackPlay) CanCashOut() bool { return false }

func (p *blackjackPlay) View() any {
	v := BlackjackView{
		Player:     append([]deck.Card(nil), p.player...),
		HoleHidden: p.holeHidden,
	}
	v.PlayerTotal, v.PlayerSoft = odds.HandValue(p.player)

	dealer := p.dealer
	if p.holeHidden {
		dealer = dealer[:1]
	}
	v.Dealer = append([]deck.Card(nil), dealer...)
	v.DealerTotal, _ = odds.HandValue(dealer)
	return v
}

// dealerTurn reveals the hole card on step 0, then draws one card per step
// while the dealer is below DealerStandsOn.
type dealerTurn struct {
	play *blackjackPlay
}

func (d *dealerTurn) Step(i int) (time.Duration, bool) {
	p := d.play
	if i == 0 {
		p.holeHidden = false
	} else {
		p.dealer = append(p.dealer, p.rules.draw())
	}
	return p.rules.cfg.DealerStep, d.dealerDone()
}

func (d *dealerTurn) dealerDone() bool {
	p := d.play
	if odds.IsBlackjack(p.player) {
		return true
	}
	total, _ := odds.HandValue(p.dealer)
	return total >= DealerStandsOn
}

func (d *dealerTurn) Result() round.Result {
	p := d.play
	player, _ := odds.HandValue(p.player)
	dealer, _ := odds.HandValue(p.dealer)
	playerNatural := odds.IsBlackjack(p.player)
	dealerNatural := odds.IsBlackjack(p.dealer)

	switch {
	case playerNatural && dealerNatural:
		return round.Result{Outcome: round.Push, Multiplier: 1, Text: "Both have blackjack, push"}
	case playerNatural:
		return round.Result{Outcome: round.Win, Multiplier: p.rules.cfg.NaturalMultiplier, Text: "Blackjack!"}
	case dealerNatural:
		return round.Result{Outcome: round.Loss, Text: "Dealer has blackjack"}
	case dealer > odds.BlackjackTarget:
		return round.Result{Outcome: round.Win, Multiplier: 2, Text: fmt.Sprintf("Dealer busts with %d", dealer)}
	case player > dealer:
		return round.Result{Outcome: round.Win, Multiplier: 2, Text: fmt.Sprintf("%d beats %d", player, dealer)}
	case player < dealer:
		return round.Result{Outcome: round.Loss, Text: fmt.Sprintf("Dealer wins %d to %d", dealer, player)}
	default:
		return round.Result{Outcome: round.Push, Multiplier: 1, Text: fmt.Sprintf("Push at %d", player)}
	}
}
