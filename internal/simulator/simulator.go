// Package simulator plays many rounds headlessly to measure a game's
// return to player.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/lox/minicasino/internal/games"
	"github.com/lox/minicasino/internal/randutil"
	"github.com/lox/minicasino/internal/round"
	"github.com/lox/minicasino/internal/statistics"
	"github.com/lox/minicasino/internal/wallet"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// bankrollRounds is how many wagers each worker's wallet is topped up with.
const bankrollRounds = 100

// Config holds configuration for running simulations
type Config struct {
	Game     string
	Tier     string
	Rounds   int
	Workers  int
	Seed     int64
	Wager    decimal.Decimal
	Strategy Strategy
	Logger   *log.Logger

	// Observers are subscribed to every worker's engine.
	Observers []round.Subscriber
}

// Simulator runs rounds against engines built from a catalog
type Simulator struct {
	config  Config
	catalog *games.Catalog
	logger  *log.Logger
}

// New creates a new simulator with the given configuration
func New(catalog *games.Catalog, config Config) (*Simulator, error) {
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	if config.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", config.Rounds)
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Workers > config.Rounds {
		config.Workers = config.Rounds
	}
	if config.Wager.IsZero() {
		config.Wager = decimal.NewFromInt(1)
	}
	if !config.Wager.IsPositive() {
		return nil, fmt.Errorf("wager %s: %w", config.Wager, round.ErrInvalidWager)
	}
	config.Seed = randutil.Seed(config.Seed)
	if config.Strategy == nil {
		s, err := ParseStrategy(config.Game, "")
		if err != nil {
			return nil, err
		}
		config.Strategy = s
	}
	if _, err := catalog.Rules(config.Game, config.Tier); err != nil {
		return nil, err
	}
	return &Simulator{
		config:  config,
		catalog: catalog,
		logger:  config.Logger.WithPrefix("simulator"),
	}, nil
}

// Config returns the effective configuration, with defaults filled in.
func (s *Simulator) Config() Config {
	return s.config
}

// Run plays Rounds rounds split across Workers goroutines. Each worker owns
// its wallet, engine and RNG streams derived from Seed, so a run with the
// same seed and worker count is reproducible.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	cfg := s.config
	perWorker := make([]*statistics.Statistics, cfg.Workers)

	s.logger.Info("Starting simulation",
		"game", cfg.Game, "tier", cfg.Tier, "rounds", cfg.Rounds,
		"workers", cfg.Workers, "strategy", cfg.Strategy.Name(), "seed", cfg.Seed)

	g, ctx := errgroup.WithContext(ctx)
	for w := range cfg.Workers {
		rounds := cfg.Rounds / cfg.Workers
		if w < cfg.Rounds%cfg.Workers {
			rounds++
		}
		g.Go(func() error {
			stats, err := s.runWorker(ctx, w, rounds)
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			perWorker[w] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, ws := range perWorker {
		stats.Merge(ws)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("Simulation complete", "rounds", stats.Rounds, "rtp", fmt.Sprintf("%.4f", stats.RTP()))
	return stats, nil
}

func (s *Simulator) runWorker(ctx context.Context, w, rounds int) (*statistics.Statistics, error) {
	cfg := s.config
	seed := randutil.Derive(cfg.Seed, w)
	logger := cfg.Logger.With("worker", w)

	bankroll := cfg.Wager.Mul(decimal.NewFromInt(bankrollRounds))
	store := wallet.NewStore(bankroll, logger)
	engine, err := s.catalog.NewEngine(cfg.Game, cfg.Tier, store,
		round.WithLogger(logger),
		round.WithPacer(round.Immediate),
		round.WithRand(randutil.New(seed)),
	)
	if err != nil {
		return nil, err
	}
	for _, o := range cfg.Observers {
		defer engine.Bus().Subscribe(o)()
	}

	rng := randutil.New(randutil.Derive(seed, 1))
	stats := &statistics.Statistics{}
	for i := range rounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if store.Balance().LessThan(cfg.Wager) {
			if err := store.Deposit(bankroll); err != nil {
				return nil, err
			}
		}
		result, err := playRound(engine, cfg.Wager, cfg.Strategy, rng)
		if err != nil {
			return nil, fmt.Errorf("round %d (seed %d): %w", i+1, seed, err)
		}
		result.Seed = seed
		stats.Add(result)
	}
	return stats, nil
}

func playRound(engine *round.Engine, wager decimal.Decimal, strategy Strategy, rng *rand.Rand) (statistics.RoundResult, error) {
	if err := engine.PlaceBet(wager); err != nil {
		return statistics.RoundResult{}, err
	}
	if err := strategy.Play(engine, rng); err != nil {
		return statistics.RoundResult{}, err
	}
	snap := engine.Snapshot()
	if snap.State != round.Settled {
		return statistics.RoundResult{}, errors.New("round did not settle: " + snap.State.String())
	}
	if err := engine.NewRound(); err != nil {
		return statistics.RoundResult{}, err
	}
	return statistics.RoundResult{
		Wager:    snap.Wager.InexactFloat64(),
		Payout:   snap.Payout.InexactFloat64(),
		Outcome:  snap.Outcome,
		Progress: snap.Progress,
	}, nil
}

// PrintSummary writes a summary of simulation results to w
func PrintSummary(w io.Writer, stats *statistics.Statistics, cfg Config) {
	low, high := stats.ConfidenceInterval95()

	label := cfg.Game
	if cfg.Tier != "" {
		label += "/" + cfg.Tier
	}
	strategy := ""
	if cfg.Strategy != nil {
		strategy = cfg.Strategy.Name()
	}

	fmt.Fprintf(w, "\n=== RESULTS %s (%s) ===\n", label, strategy)
	fmt.Fprintf(w, "Rounds played: %d\n", stats.Rounds)
	fmt.Fprintf(w, "Wagered: %.2f  Paid: %.2f\n", stats.Wagered, stats.Paid)
	fmt.Fprintf(w, "RTP: %.4f  House edge: %.2f%%\n", stats.RTP(), stats.HouseEdge()*100)

	fmt.Fprintf(w, "\n=== PAYOUT RATIO ===\n")
	fmt.Fprintf(w, "Mean: %.4f  Median: %.4f\n", stats.Mean(), stats.Median())
	fmt.Fprintf(w, "Std Dev: %.4f  Std Error: %.4f\n", stats.StdDev(), stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f]\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.2f, P25=%.2f, P75=%.2f, P95=%.2f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
	fmt.Fprintf(w, "Max: %.2fx  Big wins (>=%.0fx): %d\n", stats.MaxRatio, statistics.BigWinRatio, stats.BigWins)

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	pct := func(n int) float64 { return float64(n) / float64(stats.Rounds) * 100 }
	fmt.Fprintf(w, "Wins: %d (%.1f%%)  Losses: %d (%.1f%%)  Pushes: %d (%.1f%%)\n",
		stats.Wins, pct(stats.Wins), stats.Losses, pct(stats.Losses), stats.Pushes, pct(stats.Pushes))

	if len(stats.ProgressHit) > 1 {
		steps := make([]int, 0, len(stats.ProgressHit))
		for k := range stats.ProgressHit {
			steps = append(steps, k)
		}
		sort.Ints(steps)
		fmt.Fprintf(w, "\n=== PROGRESS AT SETTLEMENT ===\n")
		for _, k := range steps {
			fmt.Fprintf(w, "%2d steps: %d rounds (%.1f%%)\n", k, stats.ProgressHit[k], pct(stats.ProgressHit[k]))
		}
	}
}
