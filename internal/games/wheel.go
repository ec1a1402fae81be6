package games

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lox/minicasino/internal/odds"
	"github.com/lox/minicasino/internal/round"
)

// WheelTier is a named segment set.
type WheelTier struct {
	Name     string
	Segments []odds.Segment
}

// Wheel difficulties. Every set returns less than the stake on average.
var (
	WheelEasy = WheelTier{Name: "easy", Segments: odds.NewSegments(
		1.5, 0.5, 1.2, 0.3, 2, 0.5, 1.2, 0.45, 1.5, 0.5,
	)}
	WheelMedium = WheelTier{Name: "medium", Segments: odds.NewSegments(
		0.2, 1.5, 0.2, 3, 0.5, 0.2, 1.2, 0.5, 0, 0.2, 0.3, 0.5, 0, 5,
	)}
	WheelHard = WheelTier{Name: "hard", Segments: odds.NewSegments(
		0.2, 0.5, 0, 2, 0.3, 0, 1, 0.2, 0, 0, 0.5, 0.2, 0.2, 0, 0.3, 0.2, 11, 0,
	)}
)

// DefaultWheelTiers lists the bundled segment sets, easiest first.
func DefaultWheelTiers() []WheelTier {
	return []WheelTier{WheelEasy, WheelMedium, WheelHard}
}

// WheelConfig selects a tier and the spin length.
type WheelConfig struct {
	Tier WheelTier
	Spin time.Duration
}

// DefaultWheelConfig is the medium wheel with a four second spin.
func DefaultWheelConfig() WheelConfig {
	return WheelConfig{Tier: WheelMedium, Spin: 4 * time.Second}
}

// Wheel pays the multiplier of a uniformly chosen segment.
type Wheel struct {
	cfg WheelConfig
}

// NewWheel validates the tier segments and returns the wheel.
func NewWheel(cfg WheelConfig) (*Wheel, error) {
	if err := odds.ValidateSegments(cfg.Tier.Segments); err != nil {
		return nil, fmt.Errorf("wheel tier %q: %w", cfg.Tier.Name, err)
	}
	return &Wheel{cfg: cfg}, nil
}

func (w *Wheel) Game() string { return WheelGame }

// Tier returns the segment set in use.
func (w *Wheel) Tier() WheelTier { return w.cfg.Tier }

// NewPlay picks the landing segment; the spin only reveals it.
func (w *Wheel) NewPlay(rng *rand.Rand) (round.Play, error) {
	return &wheelPlay{rules: w, index: rng.IntN(len(w.cfg.Tier.Segments))}, nil
}

// WheelOutcome classifies a segment multiplier. Segments below 1x still pay
// back part of the stake.
func WheelOutcome(multiplier float64) round.Outcome {
	switch {
	case multiplier > 1:
		return round.Win
	case multiplier == 1:
		return round.Push
	default:
		return round.Loss
	}
}

// WheelView shows the segments and, once landed, where the wheel stopped.
type WheelView struct {
	Tier     string
	Segments []odds.Segment
	Index    int
	Spinning bool
}

type wheelPlay struct {
	rules    *Wheel
	index    int
	spinning bool
	landed   bool
}

func (p *wheelPlay) Apply(a round.Action) (round.Transition, error) {
	if a.Kind != round.KindSpin {
		return round.Transition{}, unsupported(WheelGame, a)
	}
	return round.Resolve(p), nil
}

func (p *wheelPlay) Step(int) (time.Duration, bool) {
	p.spinning = true
	return p.rules.cfg.Spin, true
}

func (p *wheelPlay) Result() round.Result {
	p.spinning = false
	p.landed = true
	seg := p.rules.cfg.Tier.Segments[p.index]
	return round.Result{
		Outcome:    WheelOutcome(seg.Multiplier),
		Multiplier: seg.Multiplier,
		Text:       "Landed on " + seg.Label,
	}
}

func (p *wheelPlay) Progress() int { return 0 }

func (p *wheelPlay) Multiplier() float64 {
	if !p.landed {
		return 0
	}
	return p.rules.cfg.Tier.Segments[p.index].Multiplier
}

func (p *wheelPlay) CanCashOut() bool { return false }

func (p *wheelPlay) View() any {
	v := WheelView{
		Tier:     p.rules.cfg.Tier.Name,
		Segments: append([]odds.Segment(nil), p.rules.cfg.Tier.Segments...),
		Index:    -1,
		Spinning: p.spinning,
	}
	if p.landed {
		v.Index = p.index
	}
	return v
}
