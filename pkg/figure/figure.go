// Package figure composes rendered slice panels into a single labeled image
// and writes it to disk, for snapshot and slice-sequence export.
package figure

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"mriexplore/pkg/compositor"
	"mriexplore/pkg/volume"
)

// DefaultJPEGQuality applies when a "jpg" format string carries no quality
// suffix.
const DefaultJPEGQuality = 90

const (
	// gutter is the outer margin and the spacing between panel cells.
	gutter = 8

	// titlePad is the space above and below a panel title.
	titlePad = 4
)

// Layout controls figure geometry.
type Layout struct {
	// Scale multiplies panel dimensions before layout. Values below 2 leave
	// panels at their native voxel resolution.
	Scale int

	// Interp is the resampling kernel applied when Scale takes effect.
	Interp resize.InterpolationFunction
}

// ParseInterpolation maps a resampling kernel name from configuration to its
// function. An empty name selects nearest neighbor, which keeps voxel edges
// crisp under magnification.
func ParseInterpolation(name string) (resize.InterpolationFunction, error) {
	switch name {
	case "", "nearest":
		return resize.NearestNeighbor, nil
	case "bilinear":
		return resize.Bilinear, nil
	case "bicubic":
		return resize.Bicubic, nil
	case "mitchell":
		return resize.MitchellNetravali, nil
	case "lanczos2":
		return resize.Lanczos2, nil
	case "lanczos3":
		return resize.Lanczos3, nil
	default:
		return 0, fmt.Errorf("unknown interpolation: %s (must be nearest, bilinear, bicubic, mitchell, lanczos2, or lanczos3)", name)
	}
}

// Compose lays the panels out on a white canvas with a title over each: one
// row of three in the single-volume modes, three rows of before/after pairs
// in comparison mode.
func Compose(panels []compositor.Panel, l Layout) *image.RGBA {
	images := make([]image.Image, len(panels))
	cellW, imgH := 0, 0
	for i, p := range panels {
		var img image.Image = p.Image
		if l.Scale > 1 {
			b := p.Image.Bounds()
			img = resize.Resize(uint(b.Dx()*l.Scale), uint(b.Dy()*l.Scale), p.Image, l.Interp)
		}
		images[i] = img
		if w := img.Bounds().Dx(); w > cellW {
			cellW = w
		}
		if h := img.Bounds().Dy(); h > imgH {
			imgH = h
		}
	}

	face := basicfont.Face7x13
	for _, p := range panels {
		if w := font.MeasureString(face, p.Title).Ceil(); w > cellW {
			cellW = w
		}
	}

	cols := len(panels)
	if cols > 3 {
		cols = 2
	}
	if cols == 0 {
		cols = 1
	}
	rows := (len(panels) + cols - 1) / cols

	titleH := face.Metrics().Height.Ceil() + 2*titlePad
	cellH := titleH + imgH
	canvas := image.NewRGBA(image.Rect(0,
		0,
		gutter+cols*(cellW+gutter),
		gutter+rows*(cellH+gutter)))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for i, img := range images {
		cellX := gutter + (i%cols)*(cellW+gutter)
		cellY := gutter + (i/cols)*(cellH+gutter)

		// Title centered over the cell
		title := panels[i].Title
		tw := font.MeasureString(face, title).Ceil()
		dr := &font.Drawer{
			Dst:  canvas,
			Src:  image.Black,
			Face: face,
			Dot: fixed.Point26_6{
				X: fixed.I(cellX + (cellW-tw)/2),
				Y: fixed.I(cellY + titlePad + face.Metrics().Ascent.Ceil()),
			},
		}
		dr.DrawString(title)

		// Panel centered in the remaining cell area
		b := img.Bounds()
		x := cellX + (cellW-b.Dx())/2
		y := cellY + titleH + (imgH-b.Dy())/2
		draw.Draw(canvas, image.Rect(x, y, x+b.Dx(), y+b.Dy()), img, b.Min, draw.Src)
	}
	return canvas
}

// Encode writes img in the format named by a string such as "png" or
// "jpg:80", where the optional suffix sets the JPEG quality.
func Encode(w io.Writer, img image.Image, formatStr string) error {
	parts := strings.Split(formatStr, ":")
	quality := DefaultJPEGQuality
	if len(parts) > 1 {
		q, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("invalid quality in image format %q: %w", formatStr, err)
		}
		quality = q
	}
	switch parts[0] {
	case "", "png":
		return png.Encode(w, img)
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	default:
		return fmt.Errorf("illegal image format requested: %s", parts[0])
	}
}

// Extension returns the file extension for a format string.
func Extension(formatStr string) string {
	f := strings.Split(formatStr, ":")[0]
	if f == "" {
		return "png"
	}
	return f
}

// Save writes img to path in the given format.
func Save(path string, img image.Image, formatStr string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return Encode(file, img, formatStr)
}

// SaveSequence renders every slice position along one plane through the
// context and writes a figure per position to outputDir as
// <plane>_NNN.<ext>. The index fields of params are overridden at each
// position; every other setting, such as blend transparency, carries
// through.
func SaveSequence(ctx *compositor.Context, plane volume.Plane, params compositor.Params, outputDir, formatStr string, l Layout) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	ext := Extension(formatStr)
	extent := ctx.Base().Extent(plane)
	for pos := 0; pos < extent; pos++ {
		params.Axial, params.Coronal, params.Sagittal = pos, pos, pos
		panels, err := ctx.RenderPlane(plane, params)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("%s_%03d.%s", plane, pos, ext))
		if err := Save(filename, Compose(panels, l), formatStr); err != nil {
			return err
		}
	}
	return nil
}
