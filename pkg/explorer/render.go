package explorer

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nfnt/resize"

	"mriexplore/pkg/compositor"
)

// renderCanvas draws the current panels into a w x h cell area. Single
// volume modes lay the three planes out in one row; comparison mode stacks
// one before/after row per plane.
func (e *Explorer) renderCanvas(w, h int) string {
	panels, err := e.ctx.Render(e.params())
	if err != nil {
		return errStyle.Render(" render failed: " + err.Error())
	}

	cols, rows := 3, 1
	if e.ctx.Mode() == compositor.ModeCompare {
		cols, rows = 2, 3
	}
	cellW := (w - (cols - 1)) / cols
	if cellW < 8 {
		cellW = 8
	}
	cellH := h / rows
	if cellH < 2 {
		cellH = 2
	}

	rowViews := make([]string, 0, rows)
	for r := 0; r < rows; r++ {
		parts := make([]string, 0, 2*cols-1)
		for c := 0; c < cols; c++ {
			if c > 0 {
				parts = append(parts, " ")
			}
			parts = append(parts, panelView(panels[r*cols+c], cellW, cellH))
		}
		rowViews = append(rowViews, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rowViews...)
}

// panelView renders one titled panel into a cellW x cellH cell block.
func panelView(p compositor.Panel, cellW, cellH int) string {
	imgRows := cellH - 1
	if imgRows < 1 {
		imgRows = 1
	}
	title := panelStyle.Render(p.Title)
	canvas := halfBlockView(p.Image, cellW, imgRows*2)
	block := lipgloss.JoinVertical(lipgloss.Center, title, canvas)
	return lipgloss.PlaceHorizontal(cellW, lipgloss.Center, block)
}

// halfBlockView draws an image at two vertical pixels per terminal cell:
// the upper half block glyph carries the top pixel as foreground and the
// bottom pixel as background. The image is thumbnailed to fit maxW columns
// by maxHPx pixel rows, preserving aspect ratio.
func halfBlockView(img image.Image, maxW, maxHPx int) string {
	if maxW < 1 || maxHPx < 2 {
		return ""
	}
	thumb := resize.Thumbnail(uint(maxW), uint(maxHPx), img, resize.Bilinear)
	b := thumb.Bounds()

	rows := make([]string, 0, (b.Dy()+1)/2)
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		var sb strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			cell := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(thumb, x, y)))
			if y+1 < b.Max.Y {
				cell = cell.Background(lipgloss.Color(hexColor(thumb, x, y+1)))
			}
			sb.WriteString(cell.Render("▀"))
		}
		rows = append(rows, sb.String())
	}
	return strings.Join(rows, "\n")
}

func hexColor(img image.Image, x, y int) string {
	r, g, b, _ := img.At(x, y).RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
