package explorer

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	key "github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mriexplore/pkg/compositor"
	"mriexplore/pkg/figure"
)

func (e *Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = msg.Width
		e.height = msg.Height
		e.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, e.keys.Quit):
			return e, tea.Quit
		case key.Matches(msg, e.keys.Up):
			e.selectSlider(-1)
		case key.Matches(msg, e.keys.Down):
			e.selectSlider(1)
		case key.Matches(msg, e.keys.Left):
			e.adjust(-1)
		case key.Matches(msg, e.keys.Right):
			e.adjust(1)
		case key.Matches(msg, e.keys.JumpLeft):
			e.adjust(-10)
		case key.Matches(msg, e.keys.JumpRight):
			e.adjust(10)
		case key.Matches(msg, e.keys.Colormap):
			e.cycleColormap()
		case key.Matches(msg, e.keys.Thicker):
			e.setThickness(1)
		case key.Matches(msg, e.keys.Thinner):
			e.setThickness(-1)
		case key.Matches(msg, e.keys.Window):
			e.toggleWindow()
		case key.Matches(msg, e.keys.Export):
			e.exportSnapshot()
		case key.Matches(msg, e.keys.Help):
			e.help.ShowAll = !e.help.ShowAll
		}
	}
	return e, nil
}

func (e *Explorer) selectSlider(delta int) {
	n := len(e.sliders)
	e.active = (e.active + delta + n) % n
}

func (e *Explorer) adjust(delta int) {
	s := &e.sliders[e.active]
	pos := s.pos + delta
	if pos < 0 {
		pos = 0
	}
	if pos > s.max {
		pos = s.max
	}
	s.pos = pos
	if s.percent {
		e.status = fmt.Sprintf("%s: %.2f", strings.ToLower(s.label), float64(pos)/100)
		return
	}
	e.status = fmt.Sprintf("%s: %d/%d", strings.ToLower(s.label), pos, s.max)
}

func (e *Explorer) cycleColormap() {
	cmap := e.ctx.Colormap()
	if cmap == nil {
		return
	}
	names := compositor.Names()
	next := names[0]
	for i, n := range names {
		if n == cmap.Name() {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if err := e.ctx.SetColormap(next); err != nil {
		e.status = err.Error()
		return
	}
	e.status = "colormap: " + next
}

func (e *Explorer) setThickness(delta int) {
	t := e.ctx.Thickness() + delta
	if t < 1 {
		t = 1
	}
	e.ctx.SetThickness(t)
	e.status = fmt.Sprintf("thickness: %d", t)
}

func (e *Explorer) toggleWindow() {
	if e.ctx.Window() != nil {
		e.ctx.SetWindow(nil)
		e.status = "window: per-slice"
		return
	}
	e.applyWindow()
}

// applyWindow pins the display intensity band to the volume's 1st..99th
// percentile range so outlier voxels stop dominating the scale.
func (e *Explorer) applyWindow() {
	if e.stats.P99 <= e.stats.P01 {
		e.status = "window: intensity band is degenerate"
		return
	}
	w := compositor.Window{Lo: e.stats.P01, Hi: e.stats.P99}
	e.ctx.SetWindow(&w)
	e.status = fmt.Sprintf("window: [%.4g, %.4g]", w.Lo, w.Hi)
}

// exportSnapshot renders the current panels into one labeled figure and
// writes it next to the configured export directory. Failures only touch
// the status line; the session keeps running.
func (e *Explorer) exportSnapshot() {
	panels, err := e.ctx.Render(e.params())
	if err != nil {
		e.status = "export failed: " + err.Error()
		return
	}
	interp, err := figure.ParseInterpolation(e.opts.ExportInterpolation)
	if err != nil {
		e.status = "export failed: " + err.Error()
		return
	}
	img := figure.Compose(panels, figure.Layout{Scale: e.opts.ExportScale, Interp: interp})

	dir := e.opts.ExportDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		e.status = "export failed: " + err.Error()
		return
	}
	name := fmt.Sprintf("snapshot_%s.%s",
		time.Now().Format("20060102_150405"), figure.Extension(e.opts.ExportFormat))
	path := filepath.Join(dir, name)
	if err := figure.Save(path, img, e.opts.ExportFormat); err != nil {
		e.status = "export failed: " + err.Error()
		return
	}
	log.Printf("Saved snapshot to %s", path)
	e.status = "saved " + path
}
