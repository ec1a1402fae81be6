package round

import (
	"math/rand/v2"
	"time"
)

// Rules describes one game. Implementations are values configured up front
// (deck count, mine count, tier) and must not change while a round runs.
type Rules interface {
	// Game is the short name used in logs, metrics and history.
	Game() string
	// NewPlay deals or draws everything the round needs. It is called once
	// per round, after the wager was validated and before it is debited.
	NewPlay(rng *rand.Rand) (Play, error)
}

// Play is the game specific payload of a live round.
type Play interface {
	// Apply advances the play. Returning an error leaves the play untouched.
	Apply(action Action) (Transition, error)
	// Progress counts successful steps; cash out requires at least one.
	Progress() int
	// Multiplier is the payout multiplier the player would lock in now.
	Multiplier() float64
	CanCashOut() bool
	// View returns a copy of what a renderer may show.
	View() any
}

// Opener is implemented by plays whose deal alone can decide the round,
// such as a blackjack natural. Open is called once, right after the wager
// is debited.
type Opener interface {
	Open() Transition
}

// Sequence is a timed multi-step reveal such as a dealer drawing cards or a
// wheel spinning down. Step performs step i and reports the delay before the
// next step, or before settlement when done is true. Delays are pacing hints
// only and never change the result.
type Sequence interface {
	Step(i int) (wait time.Duration, done bool)
	Result() Result
}

type transitionKind int

const (
	transitionContinue transitionKind = iota
	transitionSettle
	transitionResolve
)

// Transition tells the engine what an applied action did to the round.
type Transition struct {
	kind     transitionKind
	result   Result
	sequence Sequence
}

// Continue keeps the round active.
func Continue() Transition {
	return Transition{kind: transitionContinue}
}

// Settle ends the round immediately with result.
func Settle(result Result) Transition {
	return Transition{kind: transitionSettle, result: result}
}

// Resolve hands the round to a timed reveal sequence.
func Resolve(seq Sequence) Transition {
	return Transition{kind: transitionResolve, sequence: seq}
}

// Settles reports whether the transition ends the round, and with what.
func (t Transition) Settles() (Result, bool) {
	return t.result, t.kind == transitionSettle
}

// Resolves reports whether the transition starts a reveal sequence.
func (t Transition) Resolves() (Sequence, bool) {
	return t.sequence, t.kind == transitionResolve
}

// RunSequence drives seq to completion without pacing and returns its result.
func RunSequence(seq Sequence) Result {
	for i := 0; ; i++ {
		if _, done := seq.Step(i); done {
			return seq.Result()
		}
	}
}
