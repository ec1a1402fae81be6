package games

import (
	"context"
	"io"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/minicasino/internal/round"
	"github.com/lox/minicasino/internal/wallet"
	"github.com/shopspring/decimal"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newEngine(t *testing.T, rules round.Rules, opts ...round.EngineOption) (*round.Engine, *wallet.Store) {
	t.Helper()
	return newEngineWithBalance(t, rules, dec("10"), opts...)
}

func newEngineWithBalance(t *testing.T, rules round.Rules, balance decimal.Decimal, opts ...round.EngineOption) (*round.Engine, *wallet.Store) {
	t.Helper()
	store := wallet.NewStore(balance, quietLogger())
	opts = append([]round.EngineOption{round.WithLogger(quietLogger()), round.WithSeed(1)}, opts...)
	return round.NewEngine(rules, store, opts...), store
}

// fixedRules deals a prepared play instead of a random one.
type fixedRules struct {
	game string
	play func() (round.Play, error)
}

func (r fixedRules) Game() string { return r.game }

func (r fixedRules) NewPlay(*rand.Rand) (round.Play, error) { return r.play() }

// drive advances clock until done reports true.
func drive(t *testing.T, clock *quartz.Mock, done func() bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for !done() {
		if d, ok := clock.Peek(); ok {
			clock.Advance(d).MustWait(ctx)
			continue
		}
		select {
		case <-ctx.Done():
			t.Fatal("timed out driving the clock")
		case <-time.After(time.Millisecond):
		}
	}
}
