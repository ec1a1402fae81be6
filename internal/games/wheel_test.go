package games

import (
	"math"
	"testing"

	"github.com/lox/minicasino/internal/odds"
	"github.com/lox/minicasino/internal/round"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWheelConvergesToExpectedValue(t *testing.T) {
	if testing.Short() {
		t.Skip("long simulation")
	}
	const spins = 100_000

	for _, tier := range DefaultWheelTiers() {
		t.Run(tier.Name, func(t *testing.T) {
			wheel, err := NewWheel(WheelConfig{Tier: tier})
			require.NoError(t, err)

			start := decimal.NewFromInt(spins)
			e, store := newEngineWithBalance(t, wheel, start, round.WithSeed(42), round.WithHistorySize(1))
			for range spins {
				require.NoError(t, e.PlaceBet(dec("1")))
				require.NoError(t, e.Act(round.Spin()))
				require.NoError(t, e.NewRound())
			}

			paid := store.Balance().Sub(start).Add(decimal.NewFromInt(spins))
			mean := paid.InexactFloat64() / spins
			want := odds.ExpectedValue(tier.Segments)
			tolerance := 5 * odds.StdDev(tier.Segments) / math.Sqrt(spins)

			assert.InDelta(t, want, mean, tolerance)
			assert.Less(t, want, 1.0, "house edge must be positive")
		})
	}
}

func TestWheelPartialPayouts(t *testing.T) {
	tests := []struct {
		multiplier float64
		outcome    round.Outcome
		balance    string
	}{
		{2, round.Win, "12.00"},
		{1, round.Push, "10.00"},
		{0.5, round.Loss, "9.00"},
		{0, round.Loss, "8.00"},
	}
	for _, tt := range tests {
		wheel, err := NewWheel(WheelConfig{Tier: WheelTier{Name: "one", Segments: odds.NewSegments(tt.multiplier)}})
		require.NoError(t, err)

		e, store := newEngine(t, wheel)
		require.NoError(t, e.PlaceBet(dec("2")))
		require.NoError(t, e.Act(round.Spin()))

		snap := e.Snapshot()
		assert.Equal(t, tt.outcome, snap.Outcome, "%vx", tt.multiplier)
		assert.Equal(t, tt.balance, store.Balance().StringFixed(2), "%vx", tt.multiplier)
		assert.Equal(t, 0, snap.View.(WheelView).Index)
	}
}

func TestWheelHidesIndexUntilLanded(t *testing.T) {
	wheel, err := NewWheel(DefaultWheelConfig())
	require.NoError(t, err)

	e, _ := newEngine(t, wheel)
	require.NoError(t, e.PlaceBet(dec("1")))

	view := e.Snapshot().View.(WheelView)
	assert.Equal(t, -1, view.Index)
	assert.Equal(t, "medium", view.Tier)
	assert.Len(t, view.Segments, 14)
	assert.ErrorIs(t, e.Act(round.Reveal(0)), round.ErrInvalidAction)
}

func TestNewWheelValidatesSegments(t *testing.T) {
	_, err := NewWheel(WheelConfig{Tier: WheelTier{Name: "empty"}})
	assert.ErrorIs(t, err, odds.ErrInvalidParameters)
}
