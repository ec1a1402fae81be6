package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/minicasino/internal/games"
	"github.com/lox/minicasino/internal/odds"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// OddsCmd prints the payout tables the games use
type OddsCmd struct {
	Game  string `short:"g" required:"" enum:"mines,tower,wheel" help:"Game whose table to print"`
	Mines int    `help:"Mine count for the mines table (default from config)"`
}

func (c *OddsCmd) Run(g *Globals) error {
	cfg, _, err := loadConfig(g)
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}

	switch c.Game {
	case games.MinesGame:
		return printMines(settings, c.Mines)
	case games.TowerGame:
		return printTower(settings)
	default:
		printWheel(settings)
		return nil
	}
}

func printMines(s games.Settings, mines int) error {
	if mines == 0 {
		mines = s.Mines.Mines
	}
	table, err := odds.Mines(s.Mines.Cells, mines, s.Mines.HouseEdge)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Mines: %d cells, %d mines", s.Mines.Cells, mines)))
	for k, m := range table.Multipliers() {
		if k == 0 {
			continue
		}
		p := odds.MinesProbability(s.Mines.Cells, mines, k)
		fmt.Printf("%3d reveals  %12.2fx  %s\n", k, m, labelStyle.Render(fmt.Sprintf("p=%.6f", p)))
	}
	return nil
}

func printTower(s games.Settings) error {
	for _, tier := range s.TowerTiers {
		table, err := odds.Tower(tier.Tiles, tier.Safe, s.Tower.Height, s.Tower.HouseEdge)
		if err != nil {
			return err
		}
		fmt.Println(titleStyle.Render(fmt.Sprintf("Tower %s: %d of %d tiles safe", tier.Name, tier.Safe, tier.Tiles)))
		row := make([]string, 0, table.Height())
		for level, m := range table.Multipliers() {
			if level == 0 {
				continue
			}
			row = append(row, fmt.Sprintf("L%d %.2fx", level, m))
		}
		fmt.Println(strings.Join(row, "  "))
		fmt.Println()
	}
	return nil
}

func printWheel(s games.Settings) {
	for _, tier := range s.WheelTiers {
		fmt.Println(titleStyle.Render("Wheel " + tier.Name))
		labels := make([]string, len(tier.Segments))
		for i, seg := range tier.Segments {
			labels[i] = seg.Label
		}
		fmt.Println(strings.Join(labels, " "))
		fmt.Println(labelStyle.Render(fmt.Sprintf("RTP %.4f  house edge %.2f%%  std dev %.3f",
			odds.ExpectedValue(tier.Segments), odds.HouseEdge(tier.Segments)*100, odds.StdDev(tier.Segments))))
		fmt.Println()
	}
}
