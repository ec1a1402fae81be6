package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/lox/minicasino/internal/deck"
	"github.com/lox/minicasino/internal/games"
	"github.com/lox/minicasino/internal/round"
)

// renderGame draws the game payload of snap. Cells and tiles are numbered
// from 1, matching the reveal command.
func renderGame(snap round.Snapshot) string {
	switch v := snap.View.(type) {
	case games.BlackjackView:
		return renderBlackjack(v)
	case games.MinesView:
		return renderMines(v)
	case games.TowerView:
		return renderTower(v)
	case games.CoinView:
		return renderCoin(v)
	case games.WheelView:
		return renderWheel(v)
	}
	return InfoStyle.Render("Place a bet to start a round")
}

func renderBlackjack(v games.BlackjackView) string {
	var b strings.Builder

	dealer := "?"
	if !v.HoleHidden {
		dealer = fmt.Sprintf("%d", v.DealerTotal)
	}
	fmt.Fprintf(&b, "Dealer: %s  %s\n", formatCards(v.Dealer, v.HoleHidden), InfoStyle.Render(dealer))

	player := fmt.Sprintf("%d", v.PlayerTotal)
	if v.PlayerSoft {
		player = "soft " + player
	}
	fmt.Fprintf(&b, "You:    %s  %s", formatCards(v.Player, false), WarningStyle.Render(player))
	return b.String()
}

// formatCards formats cards with colors. A hidden hole card is drawn after
// the dealer's up card.
func formatCards(cards []deck.Card, holeHidden bool) string {
	var formatted []string
	for _, card := range cards {
		if card.IsRed() {
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		} else {
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}
	if holeHidden {
		formatted = append(formatted, HiddenStyle.Render("??"))
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func renderMines(v games.MinesView) string {
	cols := int(math.Sqrt(float64(v.Cells)))
	if cols*cols != v.Cells {
		cols = 5
	}

	var b strings.Builder
	for i := range v.Cells {
		var cell string
		switch {
		case i == v.Exploded:
			cell = ErrorStyle.Render("  * ")
		case v.Revealed[i]:
			cell = SuccessStyle.Render("  + ")
		case v.Mines != nil && v.Mines[i]:
			cell = WarningStyle.Render("  * ")
		default:
			cell = InfoStyle.Render(fmt.Sprintf("%3d ", i+1))
		}
		b.WriteString(cell)
		if (i+1)%cols == 0 && i+1 < v.Cells {
			b.WriteString("\n")
		}
	}
	next := "-"
	if v.NextMultiplier > 0 {
		next = fmt.Sprintf("%.2fx", v.NextMultiplier)
	}
	fmt.Fprintf(&b, "\n\nSafe: %d  Now: %s  Next: %s", v.Safe,
		MultiplierStyle.Render(fmt.Sprintf("%.2fx", v.Multiplier)),
		MultiplierStyle.Render(next))
	return b.String()
}

func renderTower(v games.TowerView) string {
	picked := make(map[int]games.TowerPick, len(v.Picks))
	for _, p := range v.Picks {
		picked[p.Level] = p
	}

	var rows []string
	for level := v.Height - 1; level >= 0; level-- {
		var row strings.Builder
		marker := "  "
		if level == v.Level && v.Layout == nil {
			marker = "> "
		}
		row.WriteString(marker)
		for tile := range v.Tiles {
			pick, hasPick := picked[level]
			switch {
			case hasPick && pick.Tile == tile && pick.Safe:
				row.WriteString(SuccessStyle.Render(" [+] "))
			case hasPick && pick.Tile == tile:
				row.WriteString(ErrorStyle.Render(" [*] "))
			case v.Layout != nil && !v.Layout[level][tile]:
				row.WriteString(WarningStyle.Render(" [*] "))
			default:
				row.WriteString(InfoStyle.Render(fmt.Sprintf(" [%d] ", tile+1)))
			}
		}
		if level+1 < len(v.Multipliers) {
			row.WriteString(MultiplierStyle.Render(fmt.Sprintf(" %.2fx", v.Multipliers[level+1])))
		}
		rows = append(rows, row.String())
	}
	return strings.Join(rows, "\n") + "\n\n" + InfoStyle.Render("Tier: "+v.Tier)
}

func renderCoin(v games.CoinView) string {
	pick := "call heads or tails"
	if v.Pick >= 0 {
		pick = games.SideName(v.Pick)
	}
	result := ""
	switch {
	case v.Flipping:
		result = WarningStyle.Render("flipping...")
	case v.Result >= 0:
		result = MultiplierStyle.Render(games.SideName(v.Result))
	}
	return fmt.Sprintf("Call: %s\nCoin: %s", pick, result)
}

func renderWheel(v games.WheelView) string {
	labels := make([]string, len(v.Segments))
	for i, s := range v.Segments {
		if i == v.Index && !v.Spinning {
			labels[i] = SelectedStyle.Render(s.Label)
		} else {
			labels[i] = InfoStyle.Render(s.Label)
		}
	}
	status := InfoStyle.Render("Tier: " + v.Tier)
	if v.Spinning {
		status = WarningStyle.Render("spinning...")
	}
	return strings.Join(labels, " ") + "\n\n" + status
}

// renderHistory lists settled rounds, newest first.
func renderHistory(entries []round.HistoryEntry) string {
	if len(entries) == 0 {
		return InfoStyle.Render("No rounds yet")
	}
	var b strings.Builder
	for _, e := range entries {
		net := e.Net()
		style := ErrorStyle
		if net.IsPositive() {
			style = SuccessStyle
		} else if net.IsZero() {
			style = WarningStyle
		}
		fmt.Fprintf(&b, "%-9s %s %s\n", e.Game, style.Render(fmt.Sprintf("%+.2f", net.InexactFloat64())),
			InfoStyle.Render(fmt.Sprintf("%.2fx", e.Multiplier)))
	}
	return strings.TrimRight(b.String(), "\n")
}
