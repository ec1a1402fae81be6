package games

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/lox/minicasino/internal/deck"
	"github.com/lox/minicasino/internal/randutil"
	"github.com/lox/minicasino/internal/round"
	"github.com/lox/minicasino/internal/wallet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stacked builds a table whose shoe deals cards in the given order:
// player, dealer, player, dealer, then hits and dealer draws.
func stacked(order string) *Blackjack {
	cards := deck.MustParseCards(order)
	reversed := make([]deck.Card, len(cards))
	for i, c := range cards {
		reversed[len(cards)-1-i] = c
	}
	shoe := deck.NewShoeFromCards(reversed, 1, randutil.New(1))
	return NewBlackjackWithShoe(DefaultBlackjackConfig(), shoe, quietLogger())
}

func TestBlackjackHands(t *testing.T) {
	tests := []struct {
		name    string
		order   string
		actions []round.Action
		outcome round.Outcome
		balance string
		dealer  int
	}{
		{
			name:    "dealer draws to 22",
			order:   "Td Ts Th 6d 6c",
			actions: []round.Action{round.Stand()},
			outcome: round.Win,
			balance: "11.00",
			dealer:  3,
		},
		{
			name:    "natural pays 2.5x",
			order:   "As Ts Kh 7c",
			actions: nil,
			outcome: round.Win,
			balance: "11.50",
			dealer:  2,
		},
		{
			name:    "natural pushes against dealer natural",
			order:   "As Ad Kh Qc",
			actions: nil,
			outcome: round.Push,
			balance: "10.00",
			dealer:  2,
		},
		{
			name:    "dealer natural beats 20",
			order:   "Th Ad Tc Qc",
			actions: []round.Action{round.Stand()},
			outcome: round.Loss,
			balance: "9.00",
			dealer:  2,
		},
		{
			name:    "bust",
			order:   "Th 9s 6c 8d Kd",
			actions: []round.Action{round.Hit()},
			outcome: round.Loss,
			balance: "9.00",
			dealer:  2,
		},
		{
			name:    "hitting 21 stands automatically",
			order:   "5h Ts 6c 7d Tc",
			actions: []round.Action{round.Hit()},
			outcome: round.Win,
			balance: "11.00",
			dealer:  2,
		},
		{
			name:    "equal totals push",
			order:   "Th Ts 7c 7d",
			actions: []round.Action{round.Stand()},
			outcome: round.Push,
			balance: "10.00",
			dealer:  2,
		},
		{
			name:    "dealer draws several cards",
			order:   "Th 2c 9c 3d 4h 5s 6d",
			actions: []round.Action{round.Stand()},
			outcome: round.Loss,
			balance: "9.00",
			dealer:  5,
		},
		{
			name:    "dealer stands on soft 17",
			order:   "Th As 8c 6d",
			actions: []round.Action{round.Stand()},
			outcome: round.Win,
			balance: "11.00",
			dealer:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, store := newEngine(t, stacked(tt.order))
			require.NoError(t, e.PlaceBet(dec("1")))
			for _, a := range tt.actions {
				require.NoError(t, e.Act(a))
			}

			snap := e.Snapshot()
			require.Equal(t, round.Settled, snap.State)
			assert.Equal(t, tt.outcome, snap.Outcome, snap.Text)
			assert.Equal(t, tt.balance, store.Balance().StringFixed(2))

			view := snap.View.(BlackjackView)
			assert.False(t, view.HoleHidden)
			assert.Len(t, view.Dealer, tt.dealer)
		})
	}
}

func TestBlackjackHidesHoleCard(t *testing.T) {
	e, _ := newEngine(t, stacked("Th 9s 6c 8d"))
	require.NoError(t, e.PlaceBet(dec("1")))

	view := e.Snapshot().View.(BlackjackView)
	assert.True(t, view.HoleHidden)
	require.Len(t, view.Dealer, 1)
	assert.Equal(t, 9, view.DealerTotal)
	assert.Equal(t, 16, view.PlayerTotal)
}

func TestBlackjackRejectsOtherActions(t *testing.T) {
	e, _ := newEngine(t, stacked("Th 9s 6c 8d"))
	require.NoError(t, e.PlaceBet(dec("1")))

	assert.ErrorIs(t, e.Act(round.Reveal(0)), round.ErrInvalidAction)
	assert.ErrorIs(t, e.CashOut(), round.ErrInvalidAction)
	assert.Equal(t, round.Active, e.State())
}

// creditCounter counts credits so a test can see how often a round paid out.
type creditCounter struct {
	*wallet.Store
	credits int
}

func (c *creditCounter) Credit(amount decimal.Decimal) error {
	c.credits++
	return c.Store.Credit(amount)
}

func TestBlackjackNaturalSettlesOnDeal(t *testing.T) {
	ledger := &creditCounter{Store: wallet.NewStore(dec("10"), quietLogger())}
	e := round.NewEngine(stacked("As Ts Kh 7c"), ledger, round.WithLogger(quietLogger()), round.WithSeed(1))

	var settled int
	defer e.Bus().Subscribe(round.SubscriberFunc(func(ev round.Event) {
		if ev.Type == round.EventRoundSettled {
			settled++
		}
	}))()

	require.NoError(t, e.PlaceBet(dec("2")))

	snap := e.Snapshot()
	require.Equal(t, round.Settled, snap.State)
	assert.Equal(t, round.Win, snap.Outcome)
	assert.Equal(t, 2.5, snap.Multiplier)
	assert.Equal(t, "5.00", snap.Payout.StringFixed(2))
	assert.Equal(t, "13.00", ledger.Balance().StringFixed(2))
	assert.False(t, snap.View.(BlackjackView).HoleHidden)

	assert.ErrorIs(t, e.Act(round.Hit()), round.ErrInvalidAction)
	assert.ErrorIs(t, e.Act(round.Stand()), round.ErrInvalidAction)
	assert.Equal(t, "13.00", ledger.Balance().StringFixed(2))
	assert.Equal(t, 1, ledger.credits)
	assert.Equal(t, 1, settled)
	assert.Len(t, e.History(), 1)
}

func TestBlackjackNaturalRejectsHitDuringReveal(t *testing.T) {
	clock := quartz.NewMock(t)
	e, store := newEngine(t, stacked("As Ts Kh 7c 5d"),
		round.WithPacer(round.NewClocked(clock)), round.WithClock(clock))

	require.NoError(t, e.PlaceBet(dec("1")))
	assert.Equal(t, round.Resolving, e.State())
	assert.ErrorIs(t, e.Act(round.Hit()), round.ErrInvalidAction)

	drive(t, clock, func() bool { return e.State() == round.Settled })

	snap := e.Snapshot()
	assert.Equal(t, round.Win, snap.Outcome)
	assert.Len(t, snap.View.(BlackjackView).Player, 2)
	assert.Equal(t, "11.50", store.Balance().StringFixed(2))
}

func TestBlackjackNaturalPlayRefusesHit(t *testing.T) {
	play, err := stacked("As Ts Kh 7c 5d").NewPlay(randutil.New(1))
	require.NoError(t, err)

	_, err = play.Apply(round.Hit())
	require.ErrorIs(t, err, round.ErrInvalidAction)
	assert.Len(t, play.View().(BlackjackView).Player, 2)

	opener, ok := play.(round.Opener)
	require.True(t, ok)
	_, resolves := opener.Open().Resolves()
	assert.True(t, resolves)
}

func TestBlackjackOpenContinuesWithoutNatural(t *testing.T) {
	play, err := stacked("Th 9s 6c 8d").NewPlay(randutil.New(1))
	require.NoError(t, err)

	tr := play.(round.Opener).Open()
	_, settles := tr.Settles()
	_, resolves := tr.Resolves()
	assert.False(t, settles)
	assert.False(t, resolves)
}

func TestBlackjackShoeSurvivesRounds(t *testing.T) {
	b := NewBlackjack(BlackjackConfig{Decks: 1, NaturalMultiplier: 2.5}, quietLogger())
	e, _ := newEngineWithBalance(t, b, dec("1000"))

	for range 30 {
		require.NoError(t, e.PlaceBet(dec("1")))
		if e.State() == round.Active {
			require.NoError(t, e.Act(round.Stand()))
		}
		require.NoError(t, e.NewRound())
	}
	require.NotNil(t, b.Shoe())
	assert.Positive(t, b.Shoe().Reshuffles())
}

func TestBlackjackClockedMatchesImmediate(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		immediate, immediateStore := newEngine(t, NewBlackjack(DefaultBlackjackConfig(), quietLogger()), round.WithSeed(seed))
		require.NoError(t, immediate.PlaceBet(dec("1")))
		if immediate.State() == round.Active {
			require.NoError(t, immediate.Act(round.Stand()))
		}

		clock := quartz.NewMock(t)
		clocked, clockedStore := newEngine(t, NewBlackjack(DefaultBlackjackConfig(), quietLogger()),
			round.WithSeed(seed), round.WithPacer(round.NewClocked(clock)), round.WithClock(clock))
		require.NoError(t, clocked.PlaceBet(dec("1")))
		if clocked.State() == round.Active {
			require.NoError(t, clocked.Act(round.Stand()))
		}
		drive(t, clock, func() bool { return clocked.State() == round.Settled })

		assert.Equal(t, immediateStore.Balance().String(), clockedStore.Balance().String(), "seed %d", seed)
		assert.Equal(t, immediate.Snapshot().View, clocked.Snapshot().View, "seed %d", seed)
	}
}
