package simulator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lox/minicasino/internal/statistics"
)

// Report is the machine readable summary of a run.
type Report struct {
	Game     string     `json:"game"`
	Tier     string     `json:"tier,omitempty"`
	Strategy string     `json:"strategy"`
	Seed     int64      `json:"seed"`
	Workers  int        `json:"workers"`
	Wager    string     `json:"wager"`
	Rounds   int        `json:"rounds"`
	Wagered  float64    `json:"wagered"`
	Paid     float64    `json:"paid"`
	RTP      float64    `json:"rtp"`
	Mean     float64    `json:"mean_ratio"`
	StdDev   float64    `json:"std_dev"`
	CI95     [2]float64 `json:"ci95"`
	Median   float64    `json:"median_ratio"`
	MaxRatio float64    `json:"max_ratio"`
	Wins     int        `json:"wins"`
	Losses   int        `json:"losses"`
	Pushes   int        `json:"pushes"`
	BigWins  int        `json:"big_wins"`

	// Progress maps steps taken to rounds settled after that many steps.
	Progress map[string]int `json:"progress,omitempty"`
}

// NewReport summarises stats for cfg.
func NewReport(stats *statistics.Statistics, cfg Config) Report {
	low, high := stats.ConfidenceInterval95()
	r := Report{
		Game:     cfg.Game,
		Tier:     cfg.Tier,
		Seed:     cfg.Seed,
		Workers:  cfg.Workers,
		Wager:    cfg.Wager.StringFixed(2),
		Rounds:   stats.Rounds,
		Wagered:  stats.Wagered,
		Paid:     stats.Paid,
		RTP:      stats.RTP(),
		Mean:     stats.Mean(),
		StdDev:   stats.StdDev(),
		CI95:     [2]float64{low, high},
		Median:   stats.Median(),
		MaxRatio: stats.MaxRatio,
		Wins:     stats.Wins,
		Losses:   stats.Losses,
		Pushes:   stats.Pushes,
		BigWins:  stats.BigWins,
	}
	if cfg.Strategy != nil {
		r.Strategy = cfg.Strategy.Name()
	}
	if len(stats.ProgressHit) > 1 {
		r.Progress = make(map[string]int, len(stats.ProgressHit))
		for k, v := range stats.ProgressHit {
			r.Progress[strconv.Itoa(k)] = v
		}
	}
	return r
}

// WriteReport writes r as JSON to filename. The report goes to a temporary
// file in the same directory first and is renamed into place, so readers
// never see a partial report.
func WriteReport(filename string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')

	tmpFile, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if tmpFile != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tmpFile = nil

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
