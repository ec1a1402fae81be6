// Package tui is the terminal lobby: it renders engine snapshots and turns
// typed commands into engine intents.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/minicasino/internal/games"
	"github.com/lox/minicasino/internal/round"
	"github.com/lox/minicasino/internal/wager"
)

// EventMsg carries an engine event into the Bubble Tea loop.
type EventMsg round.Event

// Model is the Bubble Tea model for the lobby
type Model struct {
	lobby  *Lobby
	logger *log.Logger

	// UI components
	logViewport  viewport.Model
	commandInput textinput.Model

	// State
	snap        round.Snapshot
	gameLog     []string
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Dimensions
	width  int
	height int
}

// NewModel creates a lobby model
func NewModel(lobby *Lobby, logger *log.Logger) *Model {
	// Sized when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "bet 1.50, hit, stand, reveal 7, cash, heads, spin, game mines, help"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 64
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &Model{
		lobby:        lobby,
		logger:       logger.WithPrefix("tui"),
		logViewport:  vp,
		commandInput: ti,
		focusedPane:  1,
		snap:         lobby.Engine().Snapshot(),
	}
	m.AddLogEntry(fmt.Sprintf("Welcome! Balance %s. Type 'help' for commands.", wager.Format(lobby.Balance())))
	return m
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case EventMsg:
		m.handleEvent(round.Event(msg))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.commandInput.Focus()
			} else {
				m.focusedPane = 0
				m.commandInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := m.commandInput.Value()
				m.commandInput.SetValue("")
				if m.Execute(input) {
					m.quitting = true
					return m, tea.Quit
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.commandInput, cmd = m.commandInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleEvent logs settlements. Events can arrive after later commands
// have run, so the displayed state is re-read from the engine.
func (m *Model) handleEvent(e round.Event) {
	m.snap = m.lobby.Engine().Snapshot()
	if e.Type == round.EventRoundSettled {
		s := e.Snapshot
		net := s.Payout.Sub(s.Wager)
		m.AddLogEntry(fmt.Sprintf("%s %s: %s (%s) %+.2f, balance %s",
			s.Game, s.RoundID, s.Outcome, s.Text, net.InexactFloat64(), wager.Format(s.Balance)))
	}
}

// Execute runs one typed command and reports whether the player asked to quit.
func (m *Model) Execute(input string) bool {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	cmd, args := "", []string(nil)
	if len(fields) > 0 {
		cmd, args = fields[0], fields[1:]
	}
	arg := strings.Join(args, " ")

	var err error
	switch cmd {
	case "quit", "q", "exit":
		return true
	case "":
		err = m.continueRound()
	case "help", "?":
		m.showHelp()
	case "bet", "b":
		if arg != "" {
			m.lobby.SetStake(arg)
		}
		err = m.lobby.Bet()
	case "stake", "wager":
		m.AddLogEntry("Stake " + wager.Format(m.lobby.SetStake(arg)))
	case "half", "1/2":
		m.AddLogEntry("Stake " + wager.Format(m.lobby.HalveStake()))
	case "quarter", "1/4":
		m.AddLogEntry("Stake " + wager.Format(m.lobby.QuarterStake()))
	case "double", "2x":
		m.AddLogEntry("Stake " + wager.Format(m.lobby.DoubleStake()))
	case "hit", "h":
		err = m.lobby.Act(round.Hit())
	case "stand", "s":
		err = m.lobby.Act(round.Stand())
	case "reveal", "r", "pick":
		err = m.reveal(arg)
	case "cash", "c", "cashout":
		err = m.lobby.CashOut()
	case "heads", "tails":
		err = m.flip(cmd)
	case "flip":
		err = m.flip(arg)
	case "spin":
		err = m.lobby.Act(round.Spin())
	case "new", "n":
		err = m.lobby.NewRound()
	case "game", "g":
		err = m.selectGame(arg)
	case "tier", "t":
		if err = m.lobby.SetTier(arg); err == nil {
			m.AddLogEntry(fmt.Sprintf("%s tier %s", m.lobby.Game(), arg))
		}
	case "deposit", "d":
		err = m.deposit(arg)
	default:
		switch {
		case isGame(cmd):
			err = m.selectGame(cmd)
		case isNumber(cmd):
			err = m.reveal(cmd)
		default:
			m.AddLogEntry(fmt.Sprintf("Unknown command: %s. Type 'help' for available commands.", cmd))
		}
	}

	if err != nil {
		m.logger.Debug("Command rejected", "command", input, "error", err)
		m.AddLogEntry(ErrorStyle.Render("Error: " + err.Error()))
	}
	m.snap = m.lobby.Engine().Snapshot()
	return false
}

// continueRound is what Enter on an empty line does: bet between rounds,
// start the next round after a result.
func (m *Model) continueRound() error {
	switch m.lobby.Engine().State() {
	case round.Betting:
		return m.lobby.Bet()
	case round.Settled:
		return m.lobby.NewRound()
	}
	return nil
}

func (m *Model) reveal(arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("reveal needs a cell or tile number: %w", round.ErrInvalidAction)
	}
	return m.lobby.Act(round.Reveal(n - 1))
}

func (m *Model) flip(side string) error {
	switch side {
	case "heads", "h":
		return m.lobby.Act(round.Flip(games.Heads))
	case "tails", "t":
		return m.lobby.Act(round.Flip(games.Tails))
	}
	return fmt.Errorf("call heads or tails: %w", round.ErrInvalidAction)
}

func (m *Model) deposit(raw string) error {
	amount, err := m.lobby.Deposit(raw)
	if err != nil {
		return err
	}
	m.AddLogEntry(fmt.Sprintf("Deposited %s, balance %s", wager.Format(amount), wager.Format(m.lobby.Balance())))
	return nil
}

func (m *Model) selectGame(name string) error {
	if err := m.lobby.SelectGame(name); err != nil {
		return err
	}
	m.AddLogEntry("Playing " + name)
	return nil
}

func (m *Model) showHelp() {
	for _, line := range []string{
		"Between rounds: bet [amount], stake <amount>, half, quarter, double, deposit <amount>",
		"Games: game <blackjack|mines|tower|coinflip|wheel>, tier <name>",
		"Blackjack: hit, stand   Mines/Tower: reveal <n>, cash   Coinflip: heads, tails   Wheel: spin",
		"Enter on an empty line bets again or starts the next round; quit to leave",
	} {
		m.AddLogEntry(line)
	}
}

func isGame(name string) bool {
	for _, g := range games.Names() {
		if g == name {
			return true
		}
	}
	return false
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1))
	actionPane := actionStyle.Render(actionContent)

	sidebarContent := m.renderSidebar()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	paneHeight := max(m.height-actionHeight-lipgloss.Height(header)-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	gamePane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7D56F4")).
		Width(max(m.width-sidebarWidth-4, 1)).
		Render(renderGame(m.snap))
	gameHeight := lipgloss.Height(gamePane)

	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = max(paneHeight-gameHeight, 1)
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Height(m.logViewport.Height)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	left := lipgloss.JoinVertical(lipgloss.Left, gamePane, logPane)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, left, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Left, header, topRow, actionPane)
}

func (m *Model) renderHeader() string {
	tabs := []string{HeaderStyle.Render("minicasino")}
	for _, g := range games.Names() {
		if g == m.lobby.Game() {
			tabs = append(tabs, ActiveTabStyle.Render(g))
		} else {
			tabs = append(tabs, TabStyle.Render(g))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(BalanceStyle.Render("Balance: " + wager.Format(m.lobby.Balance())))
	b.WriteString("\n")
	b.WriteString(WarningStyle.Render("Stake: " + wager.Format(m.lobby.Stake())))
	b.WriteString("\n")
	if tier := m.lobby.Tier(); tier != "" {
		b.WriteString(InfoStyle.Render("Tier: " + tier))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("Recent rounds:"))
	b.WriteString("\n")
	b.WriteString(renderHistory(m.lobby.Engine().History()))
	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder

	snap := m.snap
	status := fmt.Sprintf("%s  %s", snap.Game, snap.State)
	if snap.State != round.Betting {
		status += fmt.Sprintf("  wager %s  %s", wager.Format(snap.Wager),
			MultiplierStyle.Render(fmt.Sprintf("%.2fx", snap.Multiplier)))
	}
	if snap.State == round.Settled {
		status += "  " + snap.Text
	}
	b.WriteString(status)
	b.WriteString("\n")
	b.WriteString(m.commandInput.View())
	b.WriteString("\n")

	help := "Tab to scroll log • Enter to submit • Ctrl+C to quit"
	if m.focusedPane == 0 {
		help = "Log focused: ↑↓ scroll, Tab to input"
	}
	b.WriteString(InfoStyle.Render(help))
	return b.String()
}

// AddLogEntry adds an entry to the game log
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns the game log entries.
func (m *Model) Log() []string {
	return append([]string(nil), m.gameLog...)
}

// Snapshot is the state of the selected game as last seen by the model.
func (m *Model) Snapshot() round.Snapshot {
	return m.snap
}

// eventBuffer bounds the events queued between the engines and the program.
const eventBuffer = 256

// Run runs the lobby until the player quits or ctx is cancelled. Engine
// events reach the model through Program.Send, so timer driven reveals
// redraw without input.
func Run(ctx context.Context, lobby *Lobby, logger *log.Logger, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(lobby, logger)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(model, opts...)

	// Commands publish from inside Update, where a blocking Send would
	// deadlock, so events are queued and forwarded from another goroutine.
	events := make(chan round.Event, eventBuffer)
	unsubscribe := lobby.Bus().Subscribe(round.SubscriberFunc(func(e round.Event) {
		select {
		case events <- e:
		default:
			model.logger.Warn("Dropping engine event", "type", e.Type, "round", e.Snapshot.RoundID)
		}
	}))
	defer unsubscribe()

	go func() {
		for {
			select {
			case e := <-events:
				program.Send(EventMsg(e))
			case <-ctx.Done():
				return
			}
		}
	}()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run lobby: %w", err)
	}
	return nil
}
