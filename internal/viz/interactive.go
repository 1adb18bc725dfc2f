package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/lanyard/internal/config"
)

type presetEntry struct {
	device, name string
}

// picker lists every preset and hands the chosen one to a live Model.
type picker struct {
	entries  []presetEntry
	cursor   int
	opts     Options
	styles   styles
	live     *Model
	width    int
	height   int
	selected string
}

// NewInteractiveApp starts on a preset menu instead of a fixed profile.
func NewInteractiveApp(opts Options) tea.Model {
	p := &picker{opts: opts, styles: newStyles(GetTheme(opts.Theme))}
	for _, device := range config.ListDevices() {
		for _, name := range config.ListPresets(device) {
			p.entries = append(p.entries, presetEntry{device, name})
		}
	}
	return p
}

func (p *picker) Init() tea.Cmd { return nil }

func (p *picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		next, cmd := p.live.Update(msg)
		live := next.(Model)
		p.live = &live
		return p, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return p, tea.Quit
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(p.entries)-1 {
				p.cursor++
			}
		case "enter":
			return p, p.launch()
		}
	}
	return p, nil
}

func (p *picker) launch() tea.Cmd {
	if len(p.entries) == 0 {
		return nil
	}
	e := p.entries[p.cursor]
	opts := p.opts
	opts.Profile = config.GetPreset(e.device, e.name)
	opts.Label = e.name
	live := NewModel(opts)
	if p.width > 0 {
		live.resize(p.width, p.height)
	}
	p.live = &live
	p.selected = e.device + "/" + e.name
	return live.Init()
}

func (p *picker) View() string {
	if p.live != nil {
		return p.live.View()
	}
	s := p.styles
	var b strings.Builder
	b.WriteString(s.header.Render("LANYARD") + "\n\n")
	for i, e := range p.entries {
		line := fmt.Sprintf("%-8s %s", e.device, e.name)
		if i == p.cursor {
			b.WriteString(s.pick.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + s.value.Render(line) + "\n")
		}
	}
	b.WriteString("\n" + s.help.Render("↑↓: choose  enter: start  q: quit"))
	return b.String()
}

// RunInteractive starts the preset menu full screen.
func RunInteractive(opts Options) error {
	p := tea.NewProgram(NewInteractiveApp(opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
