package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maxwellito/tetrispad/internal/core"
	"github.com/maxwellito/tetrispad/internal/engine"
	"github.com/maxwellito/tetrispad/internal/input"
	"github.com/maxwellito/tetrispad/internal/launchpad"
	"github.com/maxwellito/tetrispad/internal/session"
)

// DefaultFPS is the redraw rate of the virtual grid.
const DefaultFPS = 30

// The grid starts below the title line and inside the border.
const (
	gridLeft = 1
	gridTop  = 2
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Game is the part of a session the model drives.
type Game interface {
	Press(key string) bool
	Pad(status, key, velocity byte) bool
	Stop()
	Done() <-chan struct{}
	State() engine.State
	EndReason() engine.EndReason
}

var _ Game = (*session.Session)(nil)

// Options configures a Model.
type Options struct {
	Title  string
	KeyMap map[string]core.Intent // nil = input.DefaultKeyMap()
	FPS    int
}

// Model is the Bubble Tea model showing one game on a virtual Launchpad.
// Keys are forwarded to the game as they arrive; mouse clicks on the grid
// act as pad presses.
type Model struct {
	game     Game
	grid     *VirtualGrid
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	title    string
	fps      int
	pressed  int // pad index held by the mouse, -1 when none
	quitting bool
	board    *boardCache
}

// boardCache holds the bordered grid last rendered and the grid version it
// shows. It is shared by copies of the model.
type boardCache struct {
	version uint64
	out     string
	drawn   bool
}

// NewModel creates a model over a running game and the grid it draws to.
func NewModel(game Game, g *VirtualGrid, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	if opts.Title == "" {
		opts.Title = "TETRISPAD"
	}
	keys := opts.KeyMap
	if keys == nil {
		keys = input.DefaultKeyMap()
	}
	return Model{
		game:    game,
		grid:    g,
		screen:  core.NewScreen(g.Width()*padCols, g.Height()),
		keys:    NewKeyMap(keys),
		help:    help.New(),
		title:   opts.Title,
		fps:     opts.FPS,
		pressed: -1,
		board:   &boardCache{},
	}
}

// renderBoard redraws the grid only when it changed since the last frame.
func (m Model) renderBoard() string {
	if m.board.drawn && m.board.version == m.grid.Version() {
		return m.board.out
	}
	cells, version := m.grid.Snapshot()
	m.screen.Clear()
	DrawGrid(m.screen, cells, m.grid.Width())
	*m.board = boardCache{version: version, out: borderStyle.Render(RenderScreen(m.screen)), drawn: true}
	return m.board.out
}

// Init starts the redraw loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.fps)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		select {
		case <-m.game.Done():
			m.quitting = true
			return m, tea.Quit
		default:
		}
		return m, tickCmd(m.fps)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.game.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	m.game.Press(msg.String())
	return m, nil
}

// handleMouse turns left clicks on the grid into pad messages.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	w := m.grid.Width()
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		idx, ok := m.padAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.pressed = idx
		m.game.Pad(launchpad.StatusNoteOn, launchpad.Key(idx, w), 127)
	case tea.MouseActionRelease:
		if m.pressed < 0 {
			return m, nil
		}
		m.game.Pad(launchpad.StatusNoteOn, launchpad.Key(m.pressed, w), 0)
		m.pressed = -1
	}
	return m, nil
}

// padAt maps a terminal cell to a pad index.
func (m Model) padAt(x, y int) (int, bool) {
	px, py := (x-gridLeft)/padCols, y-gridTop
	if x < gridLeft || py < 0 || px >= m.grid.Width() || py >= m.grid.Height() {
		return 0, false
	}
	return py*m.grid.Width() + px, true
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.renderBoard())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(statusLine(m.game.State(), m.game.EndReason())))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func statusLine(s engine.State, r engine.EndReason) string {
	switch s {
	case engine.Idle:
		return "press start"
	case engine.Ended:
		return fmt.Sprintf("game over (%s), press start", r)
	default:
		return s.String()
	}
}

// Run shows a running game until the user quits, the game session stops or
// ctx is done. It starts the session itself.
func Run(ctx context.Context, s *session.Session, g *VirtualGrid, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	p := tea.NewProgram(
		NewModel(s, g, opts),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()

	s.Stop()
	cancel()
	if serr := <-errc; serr != nil {
		return serr
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
