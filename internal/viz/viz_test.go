package viz

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/config"
	"github.com/san-kum/lanyard/internal/lanyard"
	"github.com/san-kum/lanyard/internal/view"
)

func view390() view.Viewport { return view.Viewport{Width: 390, Height: 844} }

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	if w, h := c.Dots(); w != 8 || h != 8 {
		t.Fatalf("expected 8x8 dots, got %dx%d", w, h)
	}

	c.Set(3, 5)
	if !c.IsSet(3, 5) || c.IsSet(2, 5) {
		t.Error("Set lit the wrong dot")
	}
	c.Set(-1, 0)
	c.Set(100, 100)

	c.Clear()
	if c.IsSet(3, 5) {
		t.Error("Clear left a dot")
	}
	lines := strings.Split(c.String(), "\n")
	if len(lines) != 2 || len([]rune(lines[0])) != 4 {
		t.Errorf("unexpected canvas text %q", c.String())
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(1, 1, 17, 15)
	if !c.IsSet(1, 1) || !c.IsSet(17, 15) {
		t.Error("line should include both endpoints")
	}
}

func TestToDotsCorners(t *testing.T) {
	c := NewCanvas(10, 5)
	tests := []struct {
		ndc  mgl64.Vec2
		x, y int
	}{
		{mgl64.Vec2{-1, 1}, 0, 0},
		{mgl64.Vec2{1, -1}, 19, 19},
		{mgl64.Vec2{1, 1}, 19, 0},
	}
	for _, tt := range tests {
		x, y := c.ToDots(tt.ndc)
		if x != tt.x || y != tt.y {
			t.Errorf("ToDots(%v) = %d,%d, want %d,%d", tt.ndc, x, y, tt.x, tt.y)
		}
	}
}

func TestCellToNDC(t *testing.T) {
	c := NewCanvas(2, 2)
	got := c.CellToNDC(0, 0)
	if !got.ApproxEqual(mgl64.Vec2{-0.5, 0.5}) {
		t.Errorf("expected top-left cell centre at (-0.5, 0.5), got %v", got)
	}
}

func TestRendererDrawsScene(t *testing.T) {
	scene, err := lanyard.New(*config.MobileProfile(), view390())
	if err != nil {
		t.Fatal(err)
	}
	f := scene.Tick(1.0 / 60)

	c := NewCanvas(40, 30)
	r := &Renderer{Camera: scene.Camera(), CardHalfExtents: config.MobileProfile().Card.HalfExtents}
	r.Draw(c, f)

	lit := 0
	w, h := c.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.IsSet(x, y) {
				lit++
			}
		}
	}
	if lit < 20 {
		t.Errorf("expected the band and card on the canvas, %d dots lit", lit)
	}

	r.Draw(c, nil)
	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Error("drawing a nil frame should leave a blank canvas")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != ThemeNight.Name {
		t.Error("unknown theme should fall back to night")
	}
	seen := map[string]bool{}
	th := ThemeNight
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th)
	}
	if len(seen) != len(Themes) || th.Name != ThemeNight.Name {
		t.Errorf("NextTheme should cycle through every theme, saw %v", seen)
	}
}

func TestMeter(t *testing.T) {
	if got := Meter(0.5, 4); got != "██░░" {
		t.Errorf("unexpected meter %q", got)
	}
	if got := Meter(2, 3); got != "███" {
		t.Errorf("meter should clamp, got %q", got)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(color.White)
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	r.Capture(c)
	r.Capture(c)
	if r.Len() != 2 {
		t.Fatalf("expected 2 frames, got %d", r.Len())
	}
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("GIF89a")) {
		t.Error("expected a GIF header")
	}
	if r.Len() != 0 {
		t.Error("Encode should reset the recorder")
	}
}

func step(m Model, n int) Model {
	for i := 0; i < n; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	return m
}

func TestModelTicks(t *testing.T) {
	m := NewModel(Options{Profile: config.DesktopProfile()})
	m = step(m, 3)
	if m.Frame() == nil || m.Frame().Tick != 3 {
		t.Fatalf("expected frame 3, got %+v", m.Frame())
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = step(next.(Model), 2)
	if m.Frame().Tick != 3 {
		t.Error("paused model should not step")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show paused")
	}
}

func TestModelMouseDrag(t *testing.T) {
	m := NewModel(Options{Profile: config.DesktopProfile()})
	m = step(m, 600)

	end, ok := m.Frame().Body(lanyard.EndName)
	if !ok {
		t.Fatal("no end body in frame")
	}
	ndc, visible := m.scene.Camera().Project(end.Transform.Position)
	if !visible {
		t.Fatal("card should be in front of the camera")
	}
	col := int((ndc.X() + 1) / 2 * float64(m.canvas.Width))
	row := int((1 - ndc.Y()) / 2 * float64(m.canvas.Height))

	next, _ := m.Update(tea.MouseMsg{X: col, Y: row + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = step(next.(Model), 1)
	if !m.Frame().Dragging {
		t.Fatalf("pressing on the card at cell %d,%d should start a drag", col, row)
	}

	next, _ = m.Update(tea.MouseMsg{X: col, Y: row + 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = step(next.(Model), 1)
	if m.Frame().Dragging {
		t.Error("release should end the drag")
	}
}

func TestModelPressOutsideCanvasIgnored(t *testing.T) {
	m := NewModel(Options{Profile: config.DesktopProfile()})
	next, _ := m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(Model)
	if m.mouseDown {
		t.Error("a press on the header row is outside the canvas")
	}
}

func TestModelKeyboardPointer(t *testing.T) {
	m := NewModel(Options{Profile: config.DesktopProfile()})
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = step(next.(Model), 120)
	if !m.kbdActive {
		t.Fatal("arrow key should activate the keyboard pointer")
	}
	if !m.kbdPos.ApproxEqualThreshold(mgl64.Vec2{keyStep, 0}, 1e-3) {
		t.Errorf("spring should settle on the target, at %v", m.kbdPos)
	}
}

func TestModelResize(t *testing.T) {
	m := NewModel(Options{Profile: config.DesktopProfile()})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	if m.canvas.Width != 120-statsWidth-2 || m.canvas.Height != 38 {
		t.Errorf("unexpected canvas %dx%d", m.canvas.Width, m.canvas.Height)
	}
	if got := m.scene.Viewport().Width; got != m.canvas.Width*cellW {
		t.Errorf("scene viewport not resized: %d", got)
	}
}

func TestModelBuildError(t *testing.T) {
	m := NewModel(Options{
		Profile:      config.DesktopProfile(),
		SceneOptions: []lanyard.Option{lanyard.WithAssets(lanyard.Assets{})},
	})
	if m.buildError == nil {
		t.Fatal("expected missing assets to fail the build")
	}
	m = step(m, 2)
	if m.Frame() != nil {
		t.Error("no scene, no frames")
	}
	if !strings.Contains(m.View(), "assets") {
		t.Error("view should report the build error")
	}
}

func TestPickerLaunches(t *testing.T) {
	app := NewInteractiveApp(Options{})
	next, _ := app.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p := next.(*picker)
	if p.live == nil || cmd == nil {
		t.Fatal("enter should start the live view")
	}
	if p.selected != p.entries[1].device+"/"+p.entries[1].name {
		t.Errorf("unexpected selection %s", p.selected)
	}
}
