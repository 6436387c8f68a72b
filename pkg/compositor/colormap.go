// Package compositor turns extracted cross-sections into display-ready RGB
// images: colormap application, mask contour overlays, transparency blends,
// and the per-plane panel sets the presentation layers consume.
package compositor

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColormap is used when no colormap is configured.
const DefaultColormap = "gray"

// Colormap maps a normalized intensity in [0, 1] to an RGB color through a
// 256-entry lookup table.
type Colormap struct {
	name string
	lut  [256]color.RGBA
}

// anchor pins a color at a position along the gradient; the table between
// anchors is interpolated in Lab space, which keeps perceived brightness
// moving evenly where naive RGB blending would not.
type anchor struct {
	pos float64
	hex string
}

var colormapAnchors = map[string][]anchor{
	// Identity ramp; Lab blending of pure black and white stays achromatic.
	"gray": {
		{0.0, "#000000"},
		{1.0, "#ffffff"},
	},
	// Grayscale with a bone-tissue blue cast in the midtones.
	"bone": {
		{0.0, "#000000"},
		{0.365, "#515171"},
		{0.746, "#a6c6c6"},
		{1.0, "#ffffff"},
	},
	// Black body radiation: black, red, yellow, white.
	"hot": {
		{0.0, "#000000"},
		{0.365, "#ff0000"},
		{0.746, "#ffff00"},
		{1.0, "#ffffff"},
	},
	"cool": {
		{0.0, "#00ffff"},
		{1.0, "#ff00ff"},
	},
	// The standard five-anchor approximation of viridis.
	"viridis": {
		{0.0, "#440154"},
		{0.25, "#3b528b"},
		{0.5, "#21918c"},
		{0.75, "#5ec962"},
		{1.0, "#fde725"},
	},
}

// Names returns the available colormap names in a stable order, with the
// default first, for cycling in the explorer.
func Names() []string {
	names := make([]string, 0, len(colormapAnchors))
	for name := range colormapAnchors {
		if name != DefaultColormap {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return append([]string{DefaultColormap}, names...)
}

// ParseColormap resolves a colormap name to its lookup table. Unknown names
// are an error for the caller to surface; nothing falls back silently.
func ParseColormap(name string) (*Colormap, error) {
	anchors, ok := colormapAnchors[name]
	if !ok {
		return nil, fmt.Errorf("unknown colormap: %s", name)
	}

	type stop struct {
		pos float64
		col colorful.Color
	}
	stops := make([]stop, len(anchors))
	for i, a := range anchors {
		c, err := colorful.Hex(a.hex)
		if err != nil {
			return nil, fmt.Errorf("colormap %s anchor %s: %w", name, a.hex, err)
		}
		stops[i] = stop{pos: a.pos, col: c}
	}

	m := &Colormap{name: name}
	for i := range m.lut {
		t := float64(i) / 255.0
		var c colorful.Color
		for k := 0; k < len(stops)-1; k++ {
			lo, hi := stops[k], stops[k+1]
			if t > hi.pos && k < len(stops)-2 {
				continue
			}
			switch frac := (t - lo.pos) / (hi.pos - lo.pos); {
			case frac <= 0:
				c = lo.col
			case frac >= 1:
				c = hi.col
			default:
				c = lo.col.BlendLab(hi.col, frac).Clamped()
			}
			break
		}
		r, g, b := c.RGB255()
		m.lut[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return m, nil
}

// Name returns the colormap's registered name.
func (m *Colormap) Name() string {
	return m.name
}

// Map looks up the color for a normalized intensity, clamping v to [0, 1].
func (m *Colormap) Map(v float64) color.RGBA {
	if math.IsNaN(v) || v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return m.lut[int(v*255+0.5)]
}
