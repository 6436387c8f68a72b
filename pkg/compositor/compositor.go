package compositor

import (
	"fmt"
	"image"

	"mriexplore/pkg/volume"
)

// Mode selects the rendering pipeline of a Context.
type Mode int

const (
	// ModePlain renders one volume through a colormap.
	ModePlain Mode = iota

	// ModeContour renders grayscale with mask boundaries traced on top.
	ModeContour

	// ModeBlend renders a weighted mix of two grayscale volumes.
	ModeBlend

	// ModeCompare renders two volumes side by side through a colormap.
	ModeCompare
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeContour:
		return "contour"
	case ModeBlend:
		return "blend"
	case ModeCompare:
		return "compare"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Window is a display intensity band: values at or below Lo render black,
// values at or above Hi render full scale. A nil window means each slice is
// normalized to its own value range, the way a bare plot call would show it.
type Window struct {
	Lo float64
	Hi float64
}

// Params selects what one Render call shows: the slice position on each
// plane and, in blend mode, the overlay transparency. Modes with a single
// shared control pass the same index for all three planes.
type Params struct {
	Axial    int
	Coronal  int
	Sagittal int

	// Transparency is the overlay weight t in blend mode, nominally in
	// [0, 1]; other modes ignore it.
	Transparency float64
}

// Index returns the requested slice position along plane p.
func (p Params) Index(plane volume.Plane) int {
	switch plane {
	case volume.Coronal:
		return p.Coronal
	case volume.Sagittal:
		return p.Sagittal
	default:
		return p.Axial
	}
}

// Panel is one rendered cross-section, labeled and ready for presentation.
type Panel struct {
	Plane volume.Plane
	Index int
	Title string
	Image *image.RGBA
}

// Context captures everything a render needs besides the Params: the source
// volumes (referenced, never copied, and treated as read-only) and the
// presentation settings. Rendering never mutates the Context, so one Context
// serves an entire exploration session.
type Context struct {
	mode      Mode
	base      *volume.Volume
	companion *volume.Volume
	cmap      *Colormap
	thickness int
	window    *Window
}

// NewPlain builds a single-volume context rendering through the named
// colormap.
func NewPlain(vol *volume.Volume, colormap string) (*Context, error) {
	cmap, err := ParseColormap(colormap)
	if err != nil {
		return nil, err
	}
	return &Context{mode: ModePlain, base: vol, cmap: cmap}, nil
}

// NewContour builds a context that traces the boundaries of mask over vol in
// green at the given stroke thickness. Intensities are rescaled to [0, 1]
// over the whole volume up front so slice brightness stays steady while
// scrubbing. The mask must have the same shape as the volume.
func NewContour(vol, mask *volume.Volume, thickness int) (*Context, error) {
	if !vol.SameShape(mask) {
		return nil, fmt.Errorf("mask shape %s does not match volume shape %s",
			mask.ShapeString(), vol.ShapeString())
	}
	return &Context{
		mode:      ModeContour,
		base:      vol.Rescaled(0, 1),
		companion: mask,
		thickness: thickness,
	}, nil
}

// NewBlend builds a context mixing vol and overlay, both rescaled to [0, 1]
// over their whole volumes so the blend weights act on comparable
// intensities. The overlay must have the same shape as the volume.
func NewBlend(vol, overlay *volume.Volume) (*Context, error) {
	if !vol.SameShape(overlay) {
		return nil, fmt.Errorf("overlay shape %s does not match volume shape %s",
			overlay.ShapeString(), vol.ShapeString())
	}
	return &Context{
		mode:      ModeBlend,
		base:      vol.Rescaled(0, 1),
		companion: overlay.Rescaled(0, 1),
	}, nil
}

// NewCompare builds a side-by-side before/after context rendering both
// volumes through the named colormap. The volumes must have the same shape.
func NewCompare(before, after *volume.Volume, colormap string) (*Context, error) {
	if !before.SameShape(after) {
		return nil, fmt.Errorf("after shape %s does not match before shape %s",
			after.ShapeString(), before.ShapeString())
	}
	cmap, err := ParseColormap(colormap)
	if err != nil {
		return nil, err
	}
	return &Context{mode: ModeCompare, base: before, companion: after, cmap: cmap}, nil
}

// Mode returns the context's rendering mode.
func (c *Context) Mode() Mode {
	return c.mode
}

// Base returns the primary captured volume.
func (c *Context) Base() *volume.Volume {
	return c.base
}

// Colormap returns the active colormap, or nil for grayscale modes.
func (c *Context) Colormap() *Colormap {
	return c.cmap
}

// SetColormap switches the active colormap in the modes that use one.
func (c *Context) SetColormap(name string) error {
	if c.mode != ModePlain && c.mode != ModeCompare {
		return fmt.Errorf("colormaps do not apply in %s mode", c.mode)
	}
	cmap, err := ParseColormap(name)
	if err != nil {
		return err
	}
	c.cmap = cmap
	return nil
}

// Thickness returns the contour stroke thickness.
func (c *Context) Thickness() int {
	return c.thickness
}

// SetThickness adjusts the contour stroke thickness.
func (c *Context) SetThickness(t int) {
	c.thickness = t
}

// Window returns the active display window, or nil for per-slice scaling.
func (c *Context) Window() *Window {
	return c.window
}

// SetWindow fixes the display intensity band for the colormapped modes; a
// nil window restores per-slice scaling.
func (c *Context) SetWindow(w *Window) {
	c.window = w
}

// Render produces the labeled panel set for the given parameters: three
// panels (axial, coronal, sagittal) in the single-volume modes, six in
// compare mode with each plane's before and after adjacent. Rendering is a
// pure function of the captured volumes and its inputs.
func (c *Context) Render(p Params) ([]Panel, error) {
	panels := make([]Panel, 0, 6)
	for _, plane := range volume.Planes {
		ps, err := c.RenderPlane(plane, p)
		if err != nil {
			return nil, err
		}
		panels = append(panels, ps...)
	}
	return panels, nil
}

// RenderPlane produces the panels for a single plane: one in the
// single-volume modes, the before/after pair in compare mode. Sequence
// export uses it to walk one plane without constraining the other two.
func (c *Context) RenderPlane(plane volume.Plane, p Params) ([]Panel, error) {
	idx := p.Index(plane)
	if c.mode == ModeCompare {
		before, err := c.renderMapped(c.base, plane, idx)
		if err != nil {
			return nil, err
		}
		after, err := c.renderMapped(c.companion, plane, idx)
		if err != nil {
			return nil, err
		}
		return []Panel{
			{Plane: plane, Index: idx, Title: fmt.Sprintf("%s - Before", plane.Title()), Image: before},
			{Plane: plane, Index: idx, Title: fmt.Sprintf("%s - After", plane.Title()), Image: after},
		}, nil
	}

	img, err := c.renderSingle(plane, idx, p.Transparency)
	if err != nil {
		return nil, err
	}
	return []Panel{{
		Plane: plane,
		Index: idx,
		Title: fmt.Sprintf("%s Slice %d", plane.Title(), idx),
		Image: img,
	}}, nil
}

// renderSingle produces one panel image in the plain, contour, or blend
// pipeline.
func (c *Context) renderSingle(plane volume.Plane, idx int, transparency float64) (*image.RGBA, error) {
	s, err := c.base.Slice(plane, idx)
	if err != nil {
		return nil, err
	}

	switch c.mode {
	case ModeContour:
		m, err := c.companion.Slice(plane, idx)
		if err != nil {
			return nil, err
		}
		img := grayImage(s.Data, s.Rows, s.Cols)
		DrawContours(img, FindContours(m), ContourColor, c.thickness)
		return img, nil

	case ModeBlend:
		o, err := c.companion.Slice(plane, idx)
		if err != nil {
			return nil, err
		}
		return grayImage(BlendWeighted(s.Data, o.Data, transparency), s.Rows, s.Cols), nil

	default:
		return mappedImage(c.normalize(s.Data), s.Rows, s.Cols, c.cmap), nil
	}
}

// renderMapped produces one colormapped panel for the compare pipeline.
func (c *Context) renderMapped(vol *volume.Volume, plane volume.Plane, idx int) (*image.RGBA, error) {
	s, err := vol.Slice(plane, idx)
	if err != nil {
		return nil, err
	}
	return mappedImage(c.normalize(s.Data), s.Rows, s.Cols, c.cmap), nil
}

// normalize maps raw slice intensities into [0, 1] for colormap lookup,
// through the fixed display window when one is set and per-slice value range
// otherwise.
func (c *Context) normalize(data []float64) []float64 {
	if c.window == nil {
		return volume.RescaleLinear(data, 0, 1)
	}

	span := c.window.Hi - c.window.Lo
	out := make([]float64, len(data))
	if span <= 0 {
		return out
	}
	for i, v := range data {
		x := (v - c.window.Lo) / span
		if x < 0 {
			x = 0
		} else if x > 1 {
			x = 1
		}
		out[i] = x
	}
	return out
}

// grayImage expands normalized intensities to an RGB image, saturating each
// value to [0, 255].
func grayImage(data []float64, rows, cols int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			v := data[r*cols+col]
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			g := uint8(v*255 + 0.5)
			i := img.PixOffset(col, r)
			img.Pix[i+0] = g
			img.Pix[i+1] = g
			img.Pix[i+2] = g
			img.Pix[i+3] = 255
		}
	}
	return img
}

// mappedImage renders normalized intensities through a colormap LUT.
func mappedImage(data []float64, rows, cols int, cmap *Colormap) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			c := cmap.Map(data[r*cols+col])
			i := img.PixOffset(col, r)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return img
}
