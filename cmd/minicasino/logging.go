package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/lox/minicasino/internal/config"
)

// loadConfig reads the config file and resolves the log level, the flag
// winning over the file.
func loadConfig(g *Globals) (*config.Config, log.Level, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, 0, err
	}
	name := cfg.Lobby.LogLevel
	if g.LogLevel != "" {
		name = g.LogLevel
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return nil, 0, fmt.Errorf("log level %q: %w", name, err)
	}
	return cfg, level, nil
}

// setupLogger creates the process logger writing to w
func setupLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
}

// openLogFile opens path for the lobby's log so the terminal UI stays clean.
func openLogFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// setupSignalHandler creates a context that is cancelled on interrupt signals
func setupSignalHandler(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, shutting down gracefully", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
