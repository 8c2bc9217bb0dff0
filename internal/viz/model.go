package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/demonsim/internal/control"
	"github.com/san-kum/demonsim/internal/demon"
)

const (
	width           = 60
	height          = 30
	historyCapacity = 600
)

type TickMsg time.Time

// Options configures the play loop.
type Options struct {
	Title         string
	Dt            float64
	StepsPerFrame int
	FrameRate     int
	Theme         string
	// Autopilot drives the gate while toggled on with A. Nil disables it.
	Autopilot     control.Policy
	// Rebuild starts a new round on R. Nil disables restarting.
	Rebuild       func() (*demon.Game, error)
}

// Model contains the game, visualization buffers, and UI context.
type Model struct {
	game          *demon.Game
	opts          Options
	frame         time.Duration
	canvas        *Canvas
	theme         Theme
	paused        bool
	auto          bool
	showHelp      bool
	ticks         int
	energyHistory []float64
	scoreHistory  []float64
	err           error
}

func NewModel(game *demon.Game, opts Options) Model {
	opts.StepsPerFrame = max(opts.StepsPerFrame, 1)
	opts.FrameRate = max(opts.FrameRate, 1)

	m := Model{
		game:          game,
		opts:          opts,
		frame:         time.Second / time.Duration(opts.FrameRate),
		canvas:        NewCanvas(width, height),
		theme:         GetTheme(opts.Theme),
		energyHistory: make([]float64, 0, historyCapacity),
		scoreHistory:  make([]float64, 0, historyCapacity),
	}
	m.record()
	return m
}

func (m Model) Game() *demon.Game { return m.game }
func (m Model) Err() error        { return m.err }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the game.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.game.Status() != demon.StatusPlaying {
				return m, tea.Quit
			}
			m.game.Stop()
		case "up", "k":
			m.game.MoveGate(demon.DirDecreaseY)
		case "down", "j":
			m.game.MoveGate(demon.DirIncreaseY)
		case " ":
			m.paused = !m.paused
		case "r":
			m.restart()
		case "a":
			m.auto = m.opts.Autopilot != nil && !m.auto
		case "t":
			m.theme = NextTheme(m.theme.Name)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.ticks++
		if !m.paused {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

// advance runs one frame of substeps. The round clock moves by one frame
// in total, split evenly across the substeps.
func (m *Model) advance() {
	if m.game.Status() != demon.StatusPlaying {
		return
	}
	if m.auto {
		if dir, ok := m.opts.Autopilot.Decide(m.game); ok {
			m.game.MoveGate(dir)
		}
	}
	slice := m.frame / time.Duration(m.opts.StepsPerFrame)
	for i := 0; i < m.opts.StepsPerFrame; i++ {
		if err := m.game.Tick(m.opts.Dt, slice); err != nil {
			m.err = err
			m.game.Stop()
			break
		}
	}
	m.record()
}

func (m *Model) record() {
	m.energyHistory = appendCapped(m.energyHistory, m.game.World().KineticEnergy())
	m.scoreHistory = appendCapped(m.scoreHistory, m.game.Score())
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) restart() {
	if m.opts.Rebuild == nil {
		return
	}
	g, err := m.opts.Rebuild()
	if err != nil {
		m.err = err
		return
	}
	m.game = g
	m.err = nil
	m.paused = false
	m.energyHistory = m.energyHistory[:0]
	m.scoreHistory = m.scoreHistory[:0]
	m.record()
}

// project maps world coordinates in the unit square to canvas dots.
func (m *Model) project(x, y float64) (int, int) {
	cw, ch := m.canvas.Dots()
	return int(x * float64(cw-1)), int(y * float64(ch-1))
}

func (m *Model) scale(r float64) int {
	cw, _ := m.canvas.Dots()
	return int(r*float64(cw-1) + 0.5)
}

func (m *Model) draw() {
	m.canvas.Clear()

	walls := m.game.Walls()
	gate := m.game.Gate()
	for i := 0; i < walls.Len(); i++ {
		tl, br := walls.Corners(i)
		x0, y0 := m.project(tl[0], tl[1])
		x1, y1 := m.project(br[0], br[1])
		tag := TagWall
		if gate != nil {
			if up, lo := gate.Indices(); i == up || i == lo {
				tag = TagGate
			}
		}
		m.canvas.FillRect(x0, y0, x1, y1, tag)
	}

	m.drawBalls(TagLeft)
	m.drawBalls(TagRight)
}

func (m *Model) drawBalls(tag Tag) {
	c := m.game.Left()
	if tag == TagRight {
		c = m.game.Right()
	}
	r := m.scale(c.Radius())
	for _, p := range c.Positions() {
		x, y := m.project(p[0], p[1])
		m.canvas.FillCircle(x, y, r, tag)
	}
}

func (m Model) statusLine() string {
	switch m.game.Status() {
	case demon.StatusWon:
		return StatusWon.Render("SORTED!")
	case demon.StatusTimeUp:
		return StatusTimeUp.Render("TIME UP")
	}
	if m.paused {
		return Subtle.Render("PAUSED")
	}
	if m.auto {
		return StatusPlaying.Render(AnimatedSpinner(m.ticks) + " AUTOPILOT")
	}
	return StatusPlaying.Render(AnimatedSpinner(m.ticks) + " PLAYING")
}

func row(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value) + "\n"
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(m.theme))

	var s strings.Builder
	title := m.opts.Title
	if title == "" {
		title = "maxwell's demon"
	}
	s.WriteString(TitleStyle.Render(strings.ToUpper(title)) + "\n")
	s.WriteString(m.statusLine() + "\n\n")

	s.WriteString(row("Time", fmt.Sprintf("%.1fs", m.game.Remaining().Seconds())))
	s.WriteString(ProgressBar(m.game.RemainingFraction(), 24) + "\n")
	s.WriteString(row("Score", fmt.Sprintf("%.1f%%", m.game.Score())))
	s.WriteString(row("Energy", fmt.Sprintf("%.4f", m.game.World().KineticEnergy())))
	if gate := m.game.Gate(); gate != nil {
		top, bottom := gate.Opening()
		s.WriteString(row("Gate", fmt.Sprintf("%.2f-%.2f", top, bottom)))
	}
	s.WriteString("\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(24), asciigraph.Caption("Energy"))
		s.WriteString(chart + "\n\n")
	}
	s.WriteString(Subtle.Render("score ") + SparklineChart(m.scoreHistory, 24) + "\n")

	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Error).Render(m.err.Error()) + "\n")
	}

	s.WriteString("\n" + Separator(24) + "\n")
	s.WriteString(KeyHint.Render("↑↓:Gate SP:Pause R:New A:Auto\nT:Theme ?:Help Esc:End Q:Quit"))

	statsView := GlassPanel.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Up/K     - Raise the gate           ║
║  Down/J   - Lower the gate           ║
║  Space    - Pause/Resume             ║
║  R        - Start a new round        ║
║  A        - Toggle autopilot         ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Esc      - End round / quit         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run plays the game in the terminal until the user quits.
func Run(game *demon.Game, opts Options) (*demon.Game, error) {
	p := tea.NewProgram(NewModel(game, opts), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m := final.(Model)
	return m.game, m.err
}
