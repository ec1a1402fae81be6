package round

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
)

// Ledger is the balance an engine debits wagers from and credits payouts to.
type Ledger interface {
	Balance() decimal.Decimal
	Debit(amount decimal.Decimal) error
	Credit(amount decimal.Decimal) error
}

// live is the state of the round in progress.
type live struct {
	id       string
	wager    decimal.Decimal
	play     Play
	sequence Sequence
	result   Result
	payout   decimal.Decimal
}

// Engine is the round state machine for one game screen. All methods are
// safe to call from the UI goroutine while paced reveal steps fire on
// timer goroutines.
type Engine struct {
	mu      sync.Mutex
	cfg     *engineConfig
	logger  atomic.Pointer[log.Logger]
	rules   Rules
	ledger  Ledger
	state   State
	current *live
	history *history
}

// NewEngine creates an engine in the Betting state.
func NewEngine(rules Rules, ledger Ledger, opts ...EngineOption) *Engine {
	if rules == nil {
		panic("rules are required")
	}
	if ledger == nil {
		panic("ledger is required")
	}

	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.finish()

	e := &Engine{
		cfg:     cfg,
		rules:   rules,
		ledger:  ledger,
		state:   Betting,
		history: newHistory(cfg.historySize),
	}
	e.logger.Store(cfg.logger.WithPrefix("round").With("game", rules.Game()))
	return e
}

func (e *Engine) log() *log.Logger {
	return e.logger.Load()
}

// Bus returns the event bus the engine publishes on.
func (e *Engine) Bus() EventBus {
	return e.cfg.bus
}

// Rules returns the rule set used for the next round.
func (e *Engine) Rules() Rules {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rules
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// History returns settled rounds, newest first.
func (e *Engine) History() []HistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.list()
}

// SetRules swaps the rule set, for example to change difficulty. The
// original rules stay in force for a round already under way, so this is
// only accepted while betting.
func (e *Engine) SetRules(rules Rules) error {
	if rules == nil {
		return fmt.Errorf("set rules: %w", ErrInvalidAction)
	}

	e.mu.Lock()
	if e.state != Betting {
		state := e.state
		e.mu.Unlock()
		e.log().Debug("rejected rules change", "state", state)
		return fmt.Errorf("set rules while %s: %w", state, ErrInvalidAction)
	}
	e.rules = rules
	e.logger.Store(e.cfg.logger.WithPrefix("round").With("game", rules.Game()))
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.publish(EventRulesChanged, snap)
	return nil
}

// PlaceBet validates and debits wager, then starts a round.
func (e *Engine) PlaceBet(wager decimal.Decimal) error {
	e.mu.Lock()

	if e.state != Betting {
		state := e.state
		e.mu.Unlock()
		e.log().Debug("rejected bet", "state", state)
		return fmt.Errorf("place bet while %s: %w", state, ErrInvalidAction)
	}
	if err := e.validateWagerLocked(wager); err != nil {
		e.mu.Unlock()
		e.log().Debug("rejected bet", "wager", wager.String(), "error", err)
		return err
	}

	play, err := e.rules.NewPlay(e.cfg.rng)
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("start %s round: %w", e.rules.Game(), err)
	}
	if err := e.ledger.Debit(wager); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("debit wager %s: %w: %w", wager.StringFixed(2), ErrInvalidWager, err)
	}

	cur := &live{
		id:    e.cfg.ids.Generate(),
		wager: wager,
		play:  play,
	}
	e.current = cur
	e.state = Active
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.log().Info("round started", "round", snap.RoundID, "wager", wager.StringFixed(2))
	e.publish(EventRoundStart, snap)

	if opener, ok := play.(Opener); ok {
		e.open(cur, opener)
	}
	return nil
}

// open lets the deal decide the round before the player acts. A Continue
// from Open leaves the round as it is.
func (e *Engine) open(cur *live, opener Opener) {
	e.mu.Lock()
	if e.current != cur || e.state != Active {
		e.mu.Unlock()
		return
	}
	tr := opener.Open()
	if tr.kind == transitionContinue {
		e.mu.Unlock()
		return
	}
	e.advance(cur, tr, "deal")
}

func (e *Engine) validateWagerLocked(wager decimal.Decimal) error {
	if wager.LessThan(e.cfg.minStake) {
		return fmt.Errorf("wager %s below minimum %s: %w", wager.String(), e.cfg.minStake.StringFixed(2), ErrInvalidWager)
	}
	if !wager.Equal(wager.Truncate(2)) {
		return fmt.Errorf("wager %s has sub-cent precision: %w", wager.String(), ErrInvalidWager)
	}
	if balance := e.ledger.Balance(); wager.GreaterThan(balance) {
		return fmt.Errorf("wager %s exceeds balance %s: %w", wager.StringFixed(2), balance.StringFixed(2), ErrInvalidWager)
	}
	return nil
}

// Act forwards action to the active play.
func (e *Engine) Act(action Action) error {
	e.mu.Lock()

	if e.state != Active {
		state := e.state
		e.mu.Unlock()
		e.log().Debug("rejected action", "action", action, "state", state)
		return fmt.Errorf("%s while %s: %w", action, state, ErrInvalidAction)
	}

	cur := e.current
	tr, err := cur.play.Apply(action)
	if err != nil {
		e.mu.Unlock()
		e.log().Debug("rejected action", "action", action, "error", err)
		return err
	}

	e.advance(cur, tr, action.String())
	return nil
}

// advance applies tr to the live round. It must be called with e.mu held
// and releases it.
func (e *Engine) advance(cur *live, tr Transition, cause string) {
	if result, ok := tr.Settles(); ok {
		snap := e.settleLocked(cur, result)
		e.mu.Unlock()
		e.afterSettle(cur, snap)
		return
	}

	if seq, ok := tr.Resolves(); ok {
		cur.sequence = seq
		e.state = Resolving
		snap := e.snapshotLocked()
		e.mu.Unlock()

		e.log().Debug("resolving", "round", cur.id, "cause", cause)
		e.publish(EventRoundResolve, snap)
		e.step(cur, 0)
		return
	}

	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.log().Debug("step", "round", cur.id, "cause", cause, "progress", snap.Progress, "multiplier", snap.Multiplier)
	e.publish(EventRoundStep, snap)
}

// CashOut settles an active round at the current multiplier. It requires
// at least one successful step; a second call finds the round settled and
// is rejected.
func (e *Engine) CashOut() error {
	e.mu.Lock()

	if e.state != Active {
		state := e.state
		e.mu.Unlock()
		return fmt.Errorf("cash out while %s: %w", state, ErrInvalidAction)
	}
	cur := e.current
	if !cur.play.CanCashOut() {
		e.mu.Unlock()
		return fmt.Errorf("cash out before any progress: %w", ErrInvalidAction)
	}

	mult := cur.play.Multiplier()
	snap := e.settleLocked(cur, Result{
		Outcome:    Win,
		Multiplier: mult,
		Text:       fmt.Sprintf("Cashed out at %.2fx", mult),
	})
	e.mu.Unlock()

	e.afterSettle(cur, snap)
	return nil
}

// NewRound returns a settled engine to Betting.
func (e *Engine) NewRound() error {
	e.mu.Lock()
	if e.state != Settled {
		state := e.state
		e.mu.Unlock()
		return fmt.Errorf("new round while %s: %w", state, ErrInvalidAction)
	}
	snap := e.resetLocked()
	e.mu.Unlock()

	e.publish(EventRoundReset, snap)
	return nil
}

func (e *Engine) resetLocked() Snapshot {
	e.current = nil
	e.state = Betting
	return e.snapshotLocked()
}

// step runs step i of the current reveal sequence and schedules the next.
func (e *Engine) step(cur *live, i int) {
	e.mu.Lock()
	if e.current != cur || e.state != Resolving {
		e.mu.Unlock()
		return
	}
	wait, done := cur.sequence.Step(i)
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.publish(EventRoundStep, snap)

	if done {
		e.cfg.pacer.After(wait, func() { e.finish(cur) })
		return
	}
	e.cfg.pacer.After(wait, func() { e.step(cur, i+1) })
}

func (e *Engine) finish(cur *live) {
	e.mu.Lock()
	if e.current != cur || e.state != Resolving {
		e.mu.Unlock()
		return
	}
	snap := e.settleLocked(cur, cur.sequence.Result())
	e.mu.Unlock()

	e.afterSettle(cur, snap)
}

// settleLocked credits the payout and moves to Settled in one critical
// section so no reader sees a settled round without its credit.
func (e *Engine) settleLocked(cur *live, result Result) Snapshot {
	payout := decimal.Zero
	if result.Multiplier > 0 {
		payout = cur.wager.Mul(decimal.NewFromFloat(result.Multiplier)).Round(2)
	}
	if err := e.ledger.Credit(payout); err != nil {
		e.log().Error("credit failed", "round", cur.id, "payout", payout.StringFixed(2), "error", err)
		payout = decimal.Zero
	}

	cur.result = result
	cur.payout = payout
	e.state = Settled

	e.history.add(HistoryEntry{
		RoundID:    cur.id,
		Game:       e.rules.Game(),
		Wager:      cur.wager,
		Payout:     payout,
		Multiplier: result.Multiplier,
		Outcome:    result.Outcome,
		Text:       result.Text,
		SettledAt:  e.cfg.clock.Now(),
	})

	return e.snapshotLocked()
}

func (e *Engine) afterSettle(cur *live, snap Snapshot) {
	e.log().Info("round settled",
		"round", snap.RoundID,
		"outcome", snap.Outcome,
		"wager", snap.Wager.StringFixed(2),
		"payout", snap.Payout.StringFixed(2),
		"balance", snap.Balance.StringFixed(2))
	e.publish(EventRoundSettled, snap)

	if e.cfg.autoReset > 0 {
		e.cfg.pacer.After(e.cfg.autoReset, func() { e.autoReset(cur) })
	}
}

func (e *Engine) autoReset(cur *live) {
	e.mu.Lock()
	if e.current != cur || e.state != Settled {
		e.mu.Unlock()
		return
	}
	snap := e.resetLocked()
	e.mu.Unlock()

	e.publish(EventRoundReset, snap)
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		Game:    e.rules.Game(),
		State:   e.state,
		Balance: e.ledger.Balance(),
		Wager:   decimal.Zero,
		Payout:  decimal.Zero,
	}
	cur := e.current
	if cur == nil {
		return snap
	}

	snap.RoundID = cur.id
	snap.Wager = cur.wager
	snap.Multiplier = cur.play.Multiplier()
	snap.Progress = cur.play.Progress()
	snap.CanCashOut = e.state == Active && cur.play.CanCashOut()
	snap.View = cur.play.View()
	if e.state == Settled {
		snap.Outcome = cur.result.Outcome
		snap.Text = cur.result.Text
		snap.Multiplier = cur.result.Multiplier
		snap.Payout = cur.payout
	}
	return snap
}

func (e *Engine) publish(t EventType, snap Snapshot) {
	e.cfg.bus.Publish(Event{Type: t, Snapshot: snap, Time: e.cfg.clock.Now()})
}
