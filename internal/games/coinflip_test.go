package games

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/lox/minicasino/internal/round"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinflipPaysTheCalledSide(t *testing.T) {
	coin, err := NewCoinflip(DefaultCoinflipConfig())
	require.NoError(t, err)

	outcomes := make(map[round.Outcome]int)
	for seed := int64(1); seed <= 64; seed++ {
		e, store := newEngine(t, coin, round.WithSeed(seed))
		require.NoError(t, e.PlaceBet(dec("1")))
		require.NoError(t, e.Act(round.Flip(Heads)))

		snap := e.Snapshot()
		view := snap.View.(CoinView)
		assert.Equal(t, Heads, view.Pick)
		assert.False(t, view.Flipping)

		switch snap.Outcome {
		case round.Win:
			assert.Equal(t, Heads, view.Result)
			assert.Equal(t, "11.00", store.Balance().StringFixed(2))
		case round.Loss:
			assert.Equal(t, Tails, view.Result)
			assert.Equal(t, "9.00", store.Balance().StringFixed(2))
		default:
			t.Fatalf("unexpected outcome %s", snap.Outcome)
		}
		outcomes[snap.Outcome]++
	}
	assert.Len(t, outcomes, 2)
}

func TestCoinflipHidesResultWhileFlipping(t *testing.T) {
	coin, err := NewCoinflip(DefaultCoinflipConfig())
	require.NoError(t, err)

	clock := quartz.NewMock(t)
	e, _ := newEngine(t, coin, round.WithPacer(round.NewClocked(clock)), round.WithClock(clock))
	require.NoError(t, e.PlaceBet(dec("1")))
	require.NoError(t, e.Act(round.Flip(Tails)))

	snap := e.Snapshot()
	assert.Equal(t, round.Resolving, snap.State)
	view := snap.View.(CoinView)
	assert.True(t, view.Flipping)
	assert.Equal(t, -1, view.Result)

	drive(t, clock, func() bool { return e.State() == round.Settled })
	assert.NotEqual(t, -1, e.Snapshot().View.(CoinView).Result)
}

func TestCoinflipRejectsBadSide(t *testing.T) {
	coin, err := NewCoinflip(DefaultCoinflipConfig())
	require.NoError(t, err)

	e, _ := newEngine(t, coin)
	require.NoError(t, e.PlaceBet(dec("1")))
	assert.ErrorIs(t, e.Act(round.Flip(2)), round.ErrInvalidAction)
	assert.ErrorIs(t, e.Act(round.Spin()), round.ErrInvalidAction)
	assert.Equal(t, round.Active, e.State())

	_, err = NewCoinflip(CoinflipConfig{Multiplier: 0})
	assert.Error(t, err)
}

func TestSideName(t *testing.T) {
	assert.Equal(t, "Heads", SideName(Heads))
	assert.Equal(t, "Tails", SideName(Tails))
	assert.Equal(t, "?", SideName(5))
}
