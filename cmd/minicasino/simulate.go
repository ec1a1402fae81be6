package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/lox/minicasino/internal/games"
	"github.com/lox/minicasino/internal/odds"
	"github.com/lox/minicasino/internal/simulator"
	"github.com/shopspring/decimal"
)

// SimulateCmd plays rounds without a terminal UI
type SimulateCmd struct {
	Game     string `short:"g" required:"" enum:"blackjack,mines,tower,coinflip,wheel" help:"Game to simulate"`
	Tier     string `short:"t" help:"Tier: wheel/tower difficulty or mines count"`
	Rounds   int    `short:"n" default:"100000" help:"Number of rounds"`
	Workers  int    `short:"w" help:"Parallel workers (default: number of CPUs)"`
	Seed     int64  `help:"RNG seed (0 picks one)"`
	Wager    string `default:"1.00" help:"Stake per round"`
	Strategy string `short:"s" help:"Strategy, e.g. stand:17, reveal:3, climb:2, heads, spin"`
	Output   string `short:"o" type:"path" help:"Also write the results as JSON to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, level, err := loadConfig(g)
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	logger := setupLogger(os.Stderr, level)

	stake, err := decimal.NewFromString(c.Wager)
	if err != nil {
		return fmt.Errorf("wager %q: %w", c.Wager, err)
	}
	strategy, err := simulator.ParseStrategy(c.Game, c.Strategy)
	if err != nil {
		return err
	}
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	catalog := games.NewCatalog(settings, logger)
	sim, err := simulator.New(catalog, simulator.Config{
		Game:     c.Game,
		Tier:     c.Tier,
		Rounds:   c.Rounds,
		Workers:  workers,
		Seed:     c.Seed,
		Wager:    stake,
		Strategy: strategy,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	simulator.PrintSummary(os.Stdout, stats, sim.Config())

	if c.Game == games.WheelGame {
		tier := c.Tier
		if tier == "" {
			tier = catalog.DefaultTier(games.WheelGame)
		}
		for _, t := range settings.WheelTiers {
			if t.Name == tier {
				fmt.Printf("\nTheoretical RTP: %.4f\n", odds.ExpectedValue(t.Segments))
			}
		}
	}
	fmt.Printf("Seed: %d\n", sim.Config().Seed)

	if c.Output != "" {
		if err := simulator.WriteReport(c.Output, simulator.NewReport(stats, sim.Config())); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", c.Output)
	}
	return nil
}
