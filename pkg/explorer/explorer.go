// Package explorer provides interactive terminal views of MRI volumes.
//
// Each of the four entry points captures the supplied volumes in a
// compositor context and binds slider controls to the slice indices (and,
// for overlays, the blend weight). Every control change re-renders the
// visible panels in full through the same stateless pipeline that drives
// figure export, so what the terminal shows is exactly what a saved
// snapshot contains.
package explorer

import (
	help "github.com/charmbracelet/bubbles/help"
	progress "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"mriexplore/pkg/compositor"
	"mriexplore/pkg/config"
	"mriexplore/pkg/volume"
)

// Options carries the presentation defaults an explorer starts with. The
// zero value is usable: gray colormap, single-pixel contours, PNG snapshots
// in the current directory.
type Options struct {
	// Colormap names the intensity colormap for plain and comparison views.
	Colormap string

	// Thickness is the contour stroke thickness in pixels.
	Thickness int

	// Transparency is the initial overlay weight in blend views, clamped
	// to [0, 1] for the slider range.
	Transparency float64

	// AutoWindow starts the session with percentile intensity windowing
	// instead of per-slice scaling.
	AutoWindow bool

	// ExportFormat is the snapshot image format string, e.g. "png" or
	// "jpg:80".
	ExportFormat string

	// ExportScale magnifies panels in exported figures.
	ExportScale int

	// ExportInterpolation selects the resampling kernel used when scaling
	// exported figures.
	ExportInterpolation string

	// ExportDir is the directory snapshots are written to.
	ExportDir string
}

// OptionsFromConfig maps a loaded configuration onto explorer options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Colormap:            cfg.Display.Colormap,
		Thickness:           cfg.Display.Thickness,
		Transparency:        cfg.Display.Transparency,
		AutoWindow:          cfg.Display.AutoWindow,
		ExportFormat:        cfg.Export.Format,
		ExportScale:         cfg.Export.Scale,
		ExportInterpolation: cfg.Export.Interpolation,
		ExportDir:           cfg.Export.Dir,
	}
}

func (o Options) colormapName() string {
	if o.Colormap == "" {
		return compositor.DefaultColormap
	}
	return o.Colormap
}

// slider is one bound control: a labeled integer position in [0, max].
// The blend weight is held in hundredths so every control steps the same
// way; percent marks that slider.
type slider struct {
	label   string
	plane   volume.Plane
	max     int
	pos     int
	percent bool
}

// Explorer is the interactive widget handle returned to the caller. It
// satisfies tea.Model; run it with tea.NewProgram. The captured volumes are
// never mutated, only the control state changes between renders.
type Explorer struct {
	ctx  *compositor.Context
	opts Options

	width  int
	height int

	sliders []slider
	active  int

	// shared marks the single-slider variant where one control drives all
	// three planes, bounded by the smallest extent.
	shared bool

	stats volume.Stats

	bar  progress.Model
	keys keyMap
	help help.Model

	status string
}

// New builds a plain explorer over one volume: a 1x3 panel row with a
// single shared slice slider ranging over [0, min extent - 1].
func New(vol *volume.Volume, opts Options) (*Explorer, error) {
	ctx, err := compositor.NewPlain(vol, opts.colormapName())
	if err != nil {
		return nil, err
	}
	e := newExplorer(ctx, vol, opts)
	e.shared = true
	e.sliders = sharedSlider(vol)
	return e, nil
}

// NewWithContour builds an explorer that traces the boundaries of mask over
// vol in green, with one slider per plane and adjustable stroke thickness.
// Construction fails when the mask shape differs from the volume shape.
func NewWithContour(vol, mask *volume.Volume, opts Options) (*Explorer, error) {
	thickness := opts.Thickness
	if thickness < 1 {
		thickness = 1
	}
	ctx, err := compositor.NewContour(vol, mask, thickness)
	if err != nil {
		return nil, err
	}
	e := newExplorer(ctx, vol, opts)
	e.sliders = planeSliders(vol)
	return e, nil
}

// NewComparison builds a before/after explorer: 3x2 panels driven by a
// single shared slice slider. Construction fails when the shapes differ.
func NewComparison(before, after *volume.Volume, opts Options) (*Explorer, error) {
	ctx, err := compositor.NewCompare(before, after, opts.colormapName())
	if err != nil {
		return nil, err
	}
	e := newExplorer(ctx, before, opts)
	e.shared = true
	e.sliders = sharedSlider(before)
	return e, nil
}

// NewWithOverlay builds an alpha-blend explorer mixing vol and overlay,
// with one slider per plane plus a transparency slider stepping by 0.01.
// Construction fails when the overlay shape differs from the volume shape.
func NewWithOverlay(vol, overlay *volume.Volume, opts Options) (*Explorer, error) {
	ctx, err := compositor.NewBlend(vol, overlay)
	if err != nil {
		return nil, err
	}
	e := newExplorer(ctx, vol, opts)
	t := opts.Transparency
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	e.sliders = append(planeSliders(vol), slider{
		label:   "Alpha",
		max:     100,
		pos:     int(t*100 + 0.5),
		percent: true,
	})
	return e, nil
}

func newExplorer(ctx *compositor.Context, vol *volume.Volume, opts Options) *Explorer {
	e := &Explorer{
		ctx:    ctx,
		opts:   opts,
		stats:  vol.Stats(),
		bar:    progress.New(progress.WithSolidFill(string(accentFg)), progress.WithoutPercentage()),
		keys:   newKeyMap(ctx.Mode()),
		help:   help.New(),
		status: ctx.Mode().String() + " mode",
	}
	mapped := ctx.Mode() == compositor.ModePlain || ctx.Mode() == compositor.ModeCompare
	if opts.AutoWindow && mapped {
		e.applyWindow()
	}
	return e
}

func sharedSlider(vol *volume.Volume) []slider {
	max := vol.MinExtent() - 1
	return []slider{{label: "Slice", max: max, pos: max / 2}}
}

func planeSliders(vol *volume.Volume) []slider {
	ss := make([]slider, 0, len(volume.Planes))
	for _, p := range volume.Planes {
		n := vol.Extent(p)
		ss = append(ss, slider{label: p.Title(), plane: p, max: n - 1, pos: (n - 1) / 2})
	}
	return ss
}

// params snapshots the current control state for one render call.
func (e *Explorer) params() compositor.Params {
	var p compositor.Params
	for _, s := range e.sliders {
		switch {
		case s.percent:
			p.Transparency = float64(s.pos) / 100
		case e.shared:
			p.Axial, p.Coronal, p.Sagittal = s.pos, s.pos, s.pos
		default:
			switch s.plane {
			case volume.Coronal:
				p.Coronal = s.pos
			case volume.Sagittal:
				p.Sagittal = s.pos
			default:
				p.Axial = s.pos
			}
		}
	}
	return p
}

func (e *Explorer) Init() tea.Cmd { return nil }
