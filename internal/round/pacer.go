package round

import (
	"time"

	"github.com/coder/quartz"
)

// Pacer schedules reveal steps. Implementations decide whether the delay
// hint is honoured; the engine produces the same result either way.
type Pacer interface {
	After(d time.Duration, fn func())
}

type immediatePacer struct{}

// Immediate runs every step synchronously and ignores delays. Tests and the
// simulator use it so rounds settle before PlaceBet/Act return.
var Immediate Pacer = immediatePacer{}

func (immediatePacer) After(_ time.Duration, fn func()) {
	fn()
}

// Clocked schedules steps on a quartz clock: the real clock in the lobby,
// a mock in tests.
type Clocked struct {
	clock quartz.Clock
}

// NewClocked creates a pacer backed by clock.
func NewClocked(clock quartz.Clock) *Clocked {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Clocked{clock: clock}
}

func (p *Clocked) After(d time.Duration, fn func()) {
	p.clock.AfterFunc(d, fn, "round", "pacer")
}
