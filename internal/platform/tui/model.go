package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/session"
)

// footerHeight is the status line plus the help line.
const footerHeight = 2

// startMsg starts the session once the program is running.
type startMsg struct{}

// Model is the Bubble Tea model for one snake session.
type Model struct {
	session  *session.Session
	scores   ScoreSource
	player   string
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	interval time.Duration

	gen     int // current tick loop; bumped on every start/stop
	ticking bool

	status   string
	statusID int

	board    *ScoreboardModel
	width    int
	height   int
	quitting bool
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithScores enables the in-game scoreboard for player.
func WithScores(src ScoreSource, player string) ModelOption {
	return func(m *Model) {
		m.scores = src
		m.player = player
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) ModelOption {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// NewModel creates a model driving sess with a tick every interval.
func NewModel(sess *session.Session, interval time.Duration, opts ...ModelOption) Model {
	w, h := snake.BoardSize(sess.State().GridSize)
	m := Model{
		session:  sess,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		interval: interval,
		width:    w,
		height:   h + footerHeight,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.screen = core.NewScreen(m.width, max(m.height-footerHeight, 1))
	m.help.Width = m.width
	return m
}

// Init starts the game.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg:
		return m.apply(m.session.Start())

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		if m.board != nil {
			return m.updateBoard(msg)
		}
		return m.handleKey(msg)

	case TickMsg:
		return m.handleTick(msg)

	case statusExpiredMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Scores):
		return m.openBoard()
	}

	action := m.keys.Action(msg)
	if action == core.ActionNone {
		return m, nil
	}
	return m.apply(m.session.Apply(action))
}

// handleTick advances the game if the tick belongs to the live loop.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if !m.ticking || msg.Gen != m.gen {
		return m, nil
	}

	out := m.session.Tick()
	next, cmd := m.apply(out)
	if out.Ticker == session.TickerKeep && next.ticking {
		cmd = tea.Batch(cmd, tickCmd(next.interval, next.gen))
	}
	return next, cmd
}

// apply turns a session outcome into model state and commands.
func (m Model) apply(out session.Outcome) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	if out.Status != nil {
		m.statusID++
		m.status = out.Status.Text
		cmds = append(cmds, statusCmd(out.Status.Duration, m.statusID))
	}

	switch out.Ticker {
	case session.TickerStart:
		m.gen++
		m.ticking = true
		cmds = append(cmds, tickCmd(m.interval, m.gen))
	case session.TickerStop:
		m.gen++
		m.ticking = false
	}

	if out.Quit {
		m.quitting = true
		cmds = append(cmds, tea.Quit)
	}

	return m, tea.Batch(cmds...)
}

// handleResize processes window resize events. The game keeps running; a
// window smaller than the board shows a notice instead.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-footerHeight, 1))
	m.help.Width = msg.Width

	if m.board != nil {
		next, cmd := m.board.Update(msg)
		board := next.(ScoreboardModel)
		m.board = &board
		return m, cmd
	}
	return m, nil
}

// openBoard shows the scoreboard and pauses a running game.
func (m Model) openBoard() (tea.Model, tea.Cmd) {
	if m.scores == nil {
		m.statusID++
		m.status = "Score history is disabled"
		return m, statusCmd(2*time.Second, m.statusID)
	}

	var cmd tea.Cmd
	if m.session.State().Phase == snake.PhaseRunning {
		m, cmd = m.apply(m.session.Apply(core.ActionPause))
	}
	board := NewScoreboardModel(m.scores, m.player, m.width, m.height)
	m.board = &board
	return m, cmd
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next, cmd := m.board.Update(msg)
	board := next.(ScoreboardModel)

	switch {
	case board.IsQuitting():
		return m.apply(m.session.Apply(core.ActionQuit))
	case board.IsGoingBack():
		m.board = nil
		return m, nil
	}
	m.board = &board
	return m, cmd
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.board != nil {
		return m.board.View()
	}

	snake.Render(m.screen, m.session.State(), m.session.Best())

	status := ""
	if m.status != "" {
		status = statusStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		RenderScreen(m.screen),
		centerText(status, m.width),
		helpStyle.Render(m.help.View(m.keys)),
	)
}

// Status returns the status message currently shown.
func (m Model) Status() string {
	return m.status
}

// Ticking reports whether the tick loop is running.
func (m Model) Ticking() bool {
	return m.ticking
}

// Run starts the Bubble Tea program for sess.
func Run(sess *session.Session, interval time.Duration, opts ...ModelOption) error {
	model := NewModel(sess, interval, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
