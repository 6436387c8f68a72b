package explorer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"mriexplore/pkg/compositor"
)

func (e *Explorer) View() string {
	if e.width == 0 || e.height == 0 {
		return ""
	}

	header := titleStyle.Render(" mriexplore ─ multi-planar volume explorer ")
	sliders := e.renderSliders()
	info := e.renderInfo()
	status := dimStyle.Render(" " + e.status)
	helpView := e.help.View(e.keys)

	// Everything but the panel canvas has a fixed height; the canvas gets
	// the rest.
	chrome := 1 + lipgloss.Height(sliders) + 1 + 1 + lipgloss.Height(helpView)
	canvasH := e.height - chrome
	if canvasH < 4 {
		canvasH = 4
	}
	canvasW := e.width
	if canvasW < 16 {
		canvasW = 16
	}
	canvas := e.renderCanvas(canvasW, canvasH)

	ui := lipgloss.JoinVertical(lipgloss.Left, header, canvas, sliders, info, status, helpView)
	return appStyle.Width(e.width).Height(e.height).Render(ui)
}

func (e *Explorer) renderSliders() string {
	barW := e.width - 24
	if barW < 10 {
		barW = 10
	}
	if barW > 60 {
		barW = 60
	}
	e.bar.Width = barW

	rows := make([]string, 0, len(e.sliders))
	for i, s := range e.sliders {
		cursor := "  "
		label := labelStyle.Render(fmt.Sprintf("%-9s", s.label))
		if i == e.active {
			cursor = activeStyle.Render("▸ ")
			label = activeStyle.Render(fmt.Sprintf("%-9s", s.label))
		}
		frac := 0.0
		if s.max > 0 {
			frac = float64(s.pos) / float64(s.max)
		}
		var value string
		if s.percent {
			value = fmt.Sprintf(" %.2f", float64(s.pos)/100)
		} else {
			value = fmt.Sprintf(" %d/%d", s.pos, s.max)
		}
		rows = append(rows, " "+cursor+label+e.bar.ViewAs(frac)+dimStyle.Render(value))
	}
	return strings.Join(rows, "\n")
}

func (e *Explorer) renderInfo() string {
	base := e.ctx.Base()
	parts := []string{
		"shape " + base.ShapeString(),
		humanize.IBytes(base.SizeBytes()),
		fmt.Sprintf("range [%.4g, %.4g]", e.stats.Min, e.stats.Max),
	}
	switch e.ctx.Mode() {
	case compositor.ModePlain, compositor.ModeCompare:
		parts = append(parts, "cmap "+e.ctx.Colormap().Name())
		if w := e.ctx.Window(); w != nil {
			parts = append(parts, fmt.Sprintf("window [%.4g, %.4g]", w.Lo, w.Hi))
		} else {
			parts = append(parts, "window per-slice")
		}
	case compositor.ModeContour:
		parts = append(parts, fmt.Sprintf("thickness %d", e.ctx.Thickness()))
	case compositor.ModeBlend:
		parts = append(parts, fmt.Sprintf("alpha %.2f", e.params().Transparency))
	}
	return dimStyle.Render("  " + strings.Join(parts, "   "))
}
