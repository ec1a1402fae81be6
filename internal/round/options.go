package round

import (
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/minicasino/internal/randutil"
	"github.com/lox/minicasino/internal/roundid"
	"github.com/shopspring/decimal"
)

// DefaultHistorySize is how many settled rounds an engine remembers.
const DefaultHistorySize = 10

// IDGenerator creates round identifiers.
type IDGenerator interface {
	Generate() string
}

// EngineOption configures an Engine during creation.
type EngineOption func(*engineConfig)

type engineConfig struct {
	logger      *log.Logger
	pacer       Pacer
	bus         EventBus
	clock       quartz.Clock
	rng         *rand.Rand
	ids         IDGenerator
	autoReset   time.Duration
	historySize int
	minStake    decimal.Decimal
}

func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		logger:      log.Default(),
		pacer:       Immediate,
		clock:       quartz.NewReal(),
		historySize: DefaultHistorySize,
		minStake:    decimal.New(1, -2),
	}
}

// WithLogger sets the logger; the engine adds its own prefix.
func WithLogger(logger *log.Logger) EngineOption {
	return func(c *engineConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPacer sets how reveal steps are scheduled. Defaults to Immediate.
func WithPacer(p Pacer) EngineOption {
	return func(c *engineConfig) {
		if p != nil {
			c.pacer = p
		}
	}
}

// WithEventBus publishes engine events on bus instead of a private one.
func WithEventBus(bus EventBus) EngineOption {
	return func(c *engineConfig) {
		c.bus = bus
	}
}

// WithClock sets the clock used to timestamp events and history.
func WithClock(clock quartz.Clock) EngineOption {
	return func(c *engineConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithRand sets the RNG handed to Rules.NewPlay.
func WithRand(rng *rand.Rand) EngineOption {
	return func(c *engineConfig) {
		c.rng = rng
	}
}

// WithSeed is shorthand for WithRand(randutil.New(seed)).
func WithSeed(seed int64) EngineOption {
	return WithRand(randutil.New(seed))
}

// WithIDs sets the round id generator.
func WithIDs(ids IDGenerator) EngineOption {
	return func(c *engineConfig) {
		c.ids = ids
	}
}

// WithAutoReset returns a settled round to Betting after d. Zero disables it.
func WithAutoReset(d time.Duration) EngineOption {
	return func(c *engineConfig) {
		c.autoReset = d
	}
}

// WithHistorySize caps the settled round history.
func WithHistorySize(n int) EngineOption {
	return func(c *engineConfig) {
		if n > 0 {
			c.historySize = n
		}
	}
}

// WithMinStake sets the smallest accepted wager.
func WithMinStake(stake decimal.Decimal) EngineOption {
	return func(c *engineConfig) {
		if stake.IsPositive() {
			c.minStake = stake
		}
	}
}

func (c *engineConfig) finish() {
	if c.rng == nil {
		c.rng = randutil.New(randutil.Seed(0))
	}
	if c.ids == nil {
		c.ids = roundid.NewGeneratorWithClock(randutil.NewReader(randutil.New(c.rng.Int64())), c.clock.Now)
	}
	if c.bus == nil {
		c.bus = NewEventBus()
	}
}
