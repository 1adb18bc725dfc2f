package viz

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lanyard/internal/config"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/input"
	"github.com/san-kum/lanyard/internal/lanyard"
	"github.com/san-kum/lanyard/internal/metrics"
	"github.com/san-kum/lanyard/internal/view"
)

const (
	defaultCols     = 80
	defaultRows     = 24
	historyCapacity = 240
	fps             = 60

	mousePointer    = 1
	keyboardPointer = 2
	// keyStep is how far one arrow press moves the keyboard pointer, in NDC.
	keyStep = 0.08
)

type TickMsg time.Time

type reloadMsg struct {
	profile *config.Profile
	err     error
}

// Options configure a live session.
type Options struct {
	Profile *config.Profile
	Label   string
	Theme   string
	// ConfigPath and Watcher enable rebuilding the scene when the file changes.
	ConfigPath string
	Watcher    *config.Watcher
	// GIFPath is where a recording is written.
	GIFPath      string
	Logger       *slog.Logger
	SceneOptions []lanyard.Option
}

// Model runs a scene in the terminal, stepping once per frame.
type Model struct {
	opts    Options
	profile *config.Profile

	scene    *lanyard.Scene
	frame    *dynamo.Frame
	canvas   *Canvas
	renderer *Renderer

	width, height int
	running       bool
	showHelp      bool
	theme         Theme
	styles        styles
	energy        []float64
	status        string

	kbdActive  bool
	kbdDown    bool
	kbdTarget  mgl64.Vec2
	kbdPos     mgl64.Vec2
	kbdVel     mgl64.Vec2
	spring     harmonica.Spring
	mouseDown  bool
	recorder   *Recorder
	recording  bool
	buildError error
}

func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Profile == nil {
		opts.Profile = config.DesktopProfile()
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "lanyard.gif"
	}
	theme := GetTheme(opts.Theme)
	m := Model{
		opts:     opts,
		profile:  opts.Profile.Clone(),
		canvas:   NewCanvas(defaultCols-statsWidth-2, defaultRows-2),
		width:    defaultCols,
		height:   defaultRows,
		running:  true,
		theme:    theme,
		styles:   newStyles(theme),
		spring:   harmonica.NewSpring(harmonica.FPS(fps), 8.0, 0.6),
		recorder: NewRecorder(theme.Band),
	}
	m.rebuild()
	return m
}

// viewport converts the canvas to pixels at a nominal terminal cell size,
// so the camera aspect matches the braille dot grid.
func (m *Model) viewport() view.Viewport {
	return view.Viewport{Width: m.canvas.Width * cellW, Height: m.canvas.Height * cellH}
}

func (m *Model) rebuild() {
	opts := append([]lanyard.Option{lanyard.WithLogger(m.opts.Logger)}, m.opts.SceneOptions...)
	scene, err := lanyard.New(*m.profile, m.viewport(), opts...)
	if err != nil {
		m.buildError = err
		m.opts.Logger.Error("scene build failed", "err", err)
		return
	}
	m.buildError = nil
	m.scene = scene
	m.renderer = &Renderer{Camera: scene.Camera(), CardHalfExtents: m.profile.Card.HalfExtents, ShowJoints: true}
	m.energy = m.energy[:0]
	m.mouseDown, m.kbdDown = false, false
	m.frame = nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) waitForChange() tea.Cmd {
	w := m.opts.Watcher
	if w == nil {
		return nil
	}
	path := m.opts.ConfigPath
	return func() tea.Msg {
		select {
		case _, ok := <-w.Events:
			if !ok {
				return nil
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return reloadMsg{err: err}
		}
		cfg, err := config.Load(path)
		if err != nil {
			return reloadMsg{err: err}
		}
		p, err := cfg.ResolveProfile()
		return reloadMsg{profile: p, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.waitForChange())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case reloadMsg:
		if msg.err != nil {
			m.status = "reload failed: " + msg.err.Error()
			m.opts.Logger.Warn("config reload failed", "path", m.opts.ConfigPath, "err", msg.err)
		} else {
			m.profile = msg.profile
			m.rebuild()
			m.status = "reloaded " + m.opts.ConfigPath
			m.opts.Logger.Info("config reloaded", "path", m.opts.ConfigPath)
		}
		return m, m.waitForChange()
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.recording {
			m.saveRecording()
		}
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "r":
		m.rebuild()
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	case "g":
		if m.recording {
			m.saveRecording()
		}
		m.recording = !m.recording
	case "up", "k":
		m.moveKeyboard(mgl64.Vec2{0, keyStep})
	case "down", "j":
		m.moveKeyboard(mgl64.Vec2{0, -keyStep})
	case "left", "h":
		m.moveKeyboard(mgl64.Vec2{-keyStep, 0})
	case "right", "l":
		m.moveKeyboard(mgl64.Vec2{keyStep, 0})
	case "enter":
		m.toggleKeyboardGrab()
	case "esc":
		if m.kbdDown {
			m.toggleKeyboardGrab()
		}
		m.kbdActive = false
	}
	return m, nil
}

func (m *Model) moveKeyboard(d mgl64.Vec2) {
	if !m.kbdActive {
		m.kbdActive = true
		m.kbdTarget, m.kbdPos, m.kbdVel = mgl64.Vec2{}, mgl64.Vec2{}, mgl64.Vec2{}
	}
	t := m.kbdTarget.Add(d)
	m.kbdTarget = mgl64.Vec2{mgl64.Clamp(t.X(), -1, 1), mgl64.Clamp(t.Y(), -1, 1)}
}

func (m *Model) toggleKeyboardGrab() {
	if m.scene == nil {
		return
	}
	m.kbdActive = true
	kind := input.Down
	if m.kbdDown {
		kind = input.Up
	}
	m.kbdDown = !m.kbdDown
	m.scene.Push(input.Event{Kind: kind, PointerID: keyboardPointer, NDC: m.kbdPos})
}

// canvasCell maps a terminal cell to a canvas cell; the canvas sits below
// the one-line header.
func (m *Model) canvasCell(x, y int) (int, int, bool) {
	col, row := x, y-1
	return col, row, col >= 0 && row >= 0 && col < m.canvas.Width && row < m.canvas.Height
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.scene == nil {
		return
	}
	col, row, inside := m.canvasCell(msg.X, msg.Y)
	ndc := m.canvas.CellToNDC(col, row)
	e := input.Event{PointerID: mousePointer, NDC: ndc}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return
		}
		e.Kind = input.Down
		m.mouseDown = true
	case tea.MouseActionRelease:
		if !m.mouseDown {
			return
		}
		e.Kind = input.Up
		m.mouseDown = false
	case tea.MouseActionMotion:
		e.Kind = input.Hover
		if m.mouseDown {
			e.Kind = input.Move
		}
	default:
		return
	}
	m.scene.Push(e)
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.canvas.Resize(w-statsWidth-2, h-2)
	if m.scene != nil {
		m.scene.Resize(m.viewport())
	}
}

func (m *Model) step() {
	if m.scene == nil {
		return
	}
	if m.kbdActive {
		x, vx := m.spring.Update(m.kbdPos.X(), m.kbdVel.X(), m.kbdTarget.X())
		y, vy := m.spring.Update(m.kbdPos.Y(), m.kbdVel.Y(), m.kbdTarget.Y())
		m.kbdPos, m.kbdVel = mgl64.Vec2{x, y}, mgl64.Vec2{vx, vy}
		kind := input.Hover
		if m.kbdDown {
			kind = input.Move
		}
		m.scene.Push(input.Event{Kind: kind, PointerID: keyboardPointer, NDC: m.kbdPos})
	}

	m.frame = m.scene.Tick(1.0 / fps)
	m.energy = append(m.energy, metrics.FrameEnergy(m.frame))
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}

	m.renderer.Draw(m.canvas, m.frame)
	if m.kbdActive {
		DrawPointer(m.canvas, m.kbdPos)
	}
	if m.recording {
		m.recorder.Capture(m.canvas)
	}
}

func (m *Model) saveRecording() {
	if m.recorder.Len() == 0 {
		return
	}
	f, err := os.Create(m.opts.GIFPath)
	if err != nil {
		m.status = "record: " + err.Error()
		return
	}
	defer f.Close()
	if err := m.recorder.Encode(f); err != nil {
		m.status = "record: " + err.Error()
		return
	}
	m.status = "saved " + m.opts.GIFPath
}

func (m Model) View() string {
	s := m.styles
	title := strings.ToUpper("lanyard " + m.profile.Device)
	if m.opts.Label != "" {
		title += " · " + m.opts.Label
	}
	header := s.header.Render(title)

	if m.buildError != nil {
		return header + "\n" + s.warn.Render(m.buildError.Error()) + "\n" + s.help.Render("q: quit")
	}

	var b strings.Builder
	b.WriteString(m.statusLine() + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(statsWidth-10), asciigraph.Caption("kinetic energy"))
		b.WriteString(s.graph.Render(chart) + "\n\n")
	}

	if f := m.frame; f != nil {
		b.WriteString(s.row("time", fmt.Sprintf("%.2fs", f.Time)))
		b.WriteString(s.row("stretch", fmt.Sprintf("%.3f", metrics.MaxStretch(f))))
		b.WriteString(s.row("anchor gap", fmt.Sprintf("%.4f", f.AnchorGap)))
		b.WriteString(s.row("cursor", string(f.Cursor)))
		if end, ok := f.Body(lanyard.EndName); ok {
			p := end.Transform.Position
			b.WriteString(s.row("card", fmt.Sprintf("%.2f %.2f %.2f", p.X(), p.Y(), p.Z())))
		}
		if m.scene != nil {
			b.WriteString(s.row("damping", m.scene.Drag().Damping().State().String()))
		}
	}
	if m.status != "" {
		b.WriteString("\n" + s.help.Render(m.status) + "\n")
	}
	if m.showHelp {
		b.WriteString(s.help.Render("\nmouse: drag the card\narrows: keyboard pointer\nenter: grab/release  esc: drop\nspace: pause  r: reset\nt: theme  g: record gif\nq: quit"))
	} else {
		b.WriteString(s.help.Render("\n?: help"))
	}

	canvas := s.canvas.Render(m.canvas.String())
	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, canvas, s.stats.Render(b.String()))
}

func (m Model) statusLine() string {
	s := m.styles
	switch {
	case m.recording:
		return s.warn.Render("● REC")
	case !m.running:
		return s.warn.Render("PAUSED")
	case m.frame != nil && m.frame.Dragging:
		return s.grab.Render("DRAGGING")
	case m.scene != nil && m.scene.World().IsSleeping():
		return s.value.Render("ASLEEP")
	}
	return s.value.Render("RUNNING")
}

// Frame is the last frame stepped, nil before the first tick.
func (m Model) Frame() *dynamo.Frame { return m.frame }

// Run starts the live view full screen with mouse tracking.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
