package games

import (
	"testing"

	"github.com/lox/minicasino/internal/odds"
	"github.com/lox/minicasino/internal/round"
	"github.com/lox/minicasino/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogBuildsEveryGame(t *testing.T) {
	c := NewCatalog(DefaultSettings(), quietLogger())
	for _, name := range Names() {
		rules, err := c.Rules(name, "")
		require.NoError(t, err, name)
		assert.Equal(t, name, rules.Game())
	}
}

func TestCatalogTiers(t *testing.T) {
	c := NewCatalog(DefaultSettings(), quietLogger())

	assert.Equal(t, []string{"easy", "medium", "hard"}, c.Tiers(TowerGame))
	assert.Equal(t, []string{"easy", "medium", "hard"}, c.Tiers(WheelGame))
	assert.Len(t, c.Tiers(MinesGame), 24)
	assert.Nil(t, c.Tiers(BlackjackGame))

	assert.Equal(t, "easy", c.DefaultTier(TowerGame))
	assert.Equal(t, "medium", c.DefaultTier(WheelGame))
	assert.Equal(t, "5", c.DefaultTier(MinesGame))
	assert.Empty(t, c.DefaultTier(CoinflipGame))

	rules, err := c.Rules(TowerGame, "hard")
	require.NoError(t, err)
	assert.Equal(t, TowerHard, rules.(*Tower).Config().Tier)

	rules, err = c.Rules(WheelGame, "easy")
	require.NoError(t, err)
	assert.Equal(t, "easy", rules.(*Wheel).Tier().Name)

	rules, err = c.Rules(MinesGame, "3")
	require.NoError(t, err)
	assert.Equal(t, 3, rules.(*Mines).Config().Mines)
}

func TestCatalogErrors(t *testing.T) {
	c := NewCatalog(DefaultSettings(), quietLogger())

	_, err := c.Rules("roulette", "")
	assert.ErrorIs(t, err, ErrUnknownGame)
	_, err = c.Rules(TowerGame, "extreme")
	assert.ErrorIs(t, err, ErrUnknownGame)
	_, err = c.Rules(WheelGame, "extreme")
	assert.ErrorIs(t, err, ErrUnknownGame)
	_, err = c.Rules(MinesGame, "lots")
	assert.ErrorIs(t, err, ErrUnknownGame)
	_, err = c.Rules(MinesGame, "25")
	assert.ErrorIs(t, err, odds.ErrInvalidParameters)
}

func TestCatalogNewEngine(t *testing.T) {
	c := NewCatalog(DefaultSettings(), quietLogger())
	store := wallet.NewStore(dec("5"), quietLogger())

	e, err := c.NewEngine(WheelGame, "hard", store, round.WithLogger(quietLogger()), round.WithSeed(9))
	require.NoError(t, err)
	require.NoError(t, e.PlaceBet(dec("1")))
	require.NoError(t, e.Act(round.Spin()))
	assert.Equal(t, round.Settled, e.State())
	assert.Equal(t, WheelGame, e.Snapshot().Game)

	_, err = c.NewEngine("roulette", "", store)
	assert.ErrorIs(t, err, ErrUnknownGame)
}
