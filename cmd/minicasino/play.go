package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/coder/quartz"
	"github.com/lox/minicasino/internal/games"
	"github.com/lox/minicasino/internal/metrics"
	"github.com/lox/minicasino/internal/randutil"
	"github.com/lox/minicasino/internal/round"
	"github.com/lox/minicasino/internal/tui"
	"github.com/lox/minicasino/internal/wallet"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// PlayCmd opens the interactive lobby
type PlayCmd struct {
	Seed        int64  `help:"RNG seed to replay a session (0 picks one)"`
	Game        string `short:"g" help:"Game to open first (overrides the config file)"`
	MetricsAddr string `help:"Serve Prometheus metrics on this address, e.g. :9090"`
	NoColor     bool   `help:"Disable colors"`
	LogFile     string `help:"Log file (overrides the config file)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, level, err := loadConfig(g)
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	balance, err := cfg.StartingBalance()
	if err != nil {
		return err
	}
	normalizer, err := cfg.Normalizer()
	if err != nil {
		return err
	}

	logPath := cfg.Lobby.LogFile
	if c.LogFile != "" {
		logPath = c.LogFile
	}
	logFile, err := openLogFile(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := setupLogger(logFile, level)

	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	seed := randutil.Seed(c.Seed)
	game := cfg.Lobby.DefaultGame
	if c.Game != "" {
		game = c.Game
	}
	logger.Info("Opening lobby", "game", game, "seed", seed, "balance", balance.StringFixed(2), "config", g.Config)

	lobby, err := tui.NewLobby(tui.LobbyConfig{
		Catalog:     games.NewCatalog(settings, logger),
		Store:       wallet.NewStore(balance, logger),
		Normalizer:  normalizer,
		DefaultGame: game,
		Seed:        seed,
		Logger:      logger,
		EngineOptions: []round.EngineOption{
			round.WithPacer(round.NewClocked(quartz.NewReal())),
			round.WithAutoReset(settings.ResetDelay),
		},
	})
	if err != nil {
		return err
	}

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	grp, ctx := errgroup.WithContext(ctx)
	if c.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		recorder := metrics.NewRecorder(reg)
		defer lobby.Bus().Subscribe(recorder)()
		grp.Go(func() error {
			return metrics.Serve(ctx, c.MetricsAddr, reg, logger)
		})
	}
	grp.Go(func() error {
		defer cancel()
		return tui.Run(ctx, lobby, logger)
	})

	if err := grp.Wait(); err != nil {
		return fmt.Errorf("lobby: %w", err)
	}
	fmt.Printf("Thanks for playing. Final balance %s (seed %d)\n", lobby.Balance().StringFixed(2), seed)
	return nil
}
