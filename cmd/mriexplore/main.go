package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"mriexplore/pkg/compositor"
	"mriexplore/pkg/config"
	"mriexplore/pkg/explorer"
	"mriexplore/pkg/figure"
	"mriexplore/pkg/volume"
)

func main() {
	// Parse command line arguments
	inputDir := flag.String("input", "", "Directory containing 2D MRI slice images (PNG/JPEG)")
	rawPath := flag.String("raw", "", "Raw little-endian voxel file for the base volume")
	dims := flag.String("dims", "", "Raw volume dimensions as ZxXxY, e.g. 64x256x256")
	rawFormat := flag.String("format", "uint16", "Raw voxel format: uint8, uint16, float32 or float64")
	maskPath := flag.String("mask", "", "Segmentation mask volume for contour overlay (directory or raw file)")
	overlayPath := flag.String("overlay", "", "Overlay volume for alpha blending (directory or raw file)")
	comparePath := flag.String("compare", "", "Second volume for side-by-side comparison (directory or raw file)")
	cmapName := flag.String("cmap", "", "Intensity colormap: gray, bone, cool, hot or viridis")
	thickness := flag.Int("thickness", 0, "Contour stroke thickness in pixels")
	transparency := flag.Float64("transparency", 0, "Initial overlay weight in [0, 1]")
	autoWindow := flag.Bool("auto-window", false, "Start with percentile intensity windowing")
	exportPath := flag.String("export", "", "Render one figure to the given file and exit")
	sequenceDir := flag.String("export-sequence", "", "Render every slice along -axis into the given directory and exit")
	axis := flag.String("axis", "axial", "Plane for sequence export: axial, coronal or sagittal")
	configPath := flag.String("config", "mriexplore.yaml", "Path to the YAML configuration file")
	initConfig := flag.Bool("init-config", false, "Write a default configuration file to -config and exit")
	logfile := flag.String("logfile", "", "Route log output to a rotating file")
	debug := flag.Bool("debug", false, "Write bubbletea debug output to mriexplore_debug.log")
	flag.Parse()

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to create config file: %v", err)
		}
		fmt.Printf("Created default configuration at: %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Explicit flags win over the configuration file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cmap":
			cfg.Display.Colormap = *cmapName
		case "thickness":
			cfg.Display.Thickness = *thickness
		case "transparency":
			cfg.Display.Transparency = *transparency
		case "auto-window":
			cfg.Display.AutoWindow = *autoWindow
		case "logfile":
			cfg.Log.Logfile = *logfile
		}
	})
	cfg.Log.SetLogger()

	if *debug {
		f, err := tea.LogToFile("mriexplore_debug.log", "debug")
		if err != nil {
			log.Fatalf("Failed to open debug log: %v", err)
		}
		defer f.Close()
	}

	// Validate inputs
	if *inputDir == "" && *rawPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	format, err := volume.ParseRawFormat(*rawFormat)
	if err != nil {
		log.Fatalf("Invalid -format: %v", err)
	}

	fmt.Println("================================")
	fmt.Println("MRIEXPLORE - INTERACTIVE MULTI-PLANAR MRI VOLUME EXPLORER")
	fmt.Println("================================")

	base, err := loadBase(*inputDir, *rawPath, *dims, format)
	if err != nil {
		log.Fatalf("Failed to load volume: %v", err)
	}
	fmt.Printf("Loaded volume %s (%s)\n", base.ShapeString(), humanize.IBytes(base.SizeBytes()))

	companions := 0
	for _, p := range []string{*maskPath, *overlayPath, *comparePath} {
		if p != "" {
			companions++
		}
	}
	if companions > 1 {
		log.Fatalf("Only one of -mask, -overlay or -compare may be set")
	}

	var mask, overlay, compare *volume.Volume
	if *maskPath != "" {
		if mask, err = loadCompanion(*maskPath, base, format); err != nil {
			log.Fatalf("Failed to load mask: %v", err)
		}
	}
	if *overlayPath != "" {
		if overlay, err = loadCompanion(*overlayPath, base, format); err != nil {
			log.Fatalf("Failed to load overlay: %v", err)
		}
	}
	if *comparePath != "" {
		if compare, err = loadCompanion(*comparePath, base, format); err != nil {
			log.Fatalf("Failed to load comparison volume: %v", err)
		}
	}

	// Headless export paths render through the same pipeline the TUI uses.
	if *exportPath != "" || *sequenceDir != "" {
		if err := runExport(base, mask, overlay, compare, cfg, *exportPath, *sequenceDir, *axis); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		return
	}

	opts := explorer.OptionsFromConfig(cfg)
	var e *explorer.Explorer
	switch {
	case mask != nil:
		e, err = explorer.NewWithContour(base, mask, opts)
	case overlay != nil:
		e, err = explorer.NewWithOverlay(base, overlay, opts)
	case compare != nil:
		e, err = explorer.NewComparison(base, compare, opts)
	default:
		e, err = explorer.New(base, opts)
	}
	if err != nil {
		log.Fatalf("Failed to create explorer: %v", err)
	}

	// Without a log file the standard logger would scribble over the
	// alternate screen.
	if cfg.Log.Logfile == "" && !*debug {
		log.SetOutput(io.Discard)
	}

	if _, err := tea.NewProgram(e, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running explorer: %v\n", err)
		os.Exit(1)
	}
}

// loadBase reads the base volume from an image directory or a raw voxel
// file, whichever was requested.
func loadBase(imageDir, rawPath, dims string, format volume.RawFormat) (*volume.Volume, error) {
	switch {
	case imageDir != "" && rawPath != "":
		return nil, fmt.Errorf("-input and -raw are mutually exclusive")
	case rawPath != "":
		nz, nx, ny, err := parseDims(dims)
		if err != nil {
			return nil, err
		}
		return volume.LoadRaw(rawPath, nz, nx, ny, format)
	default:
		return volume.LoadImageDir(imageDir)
	}
}

// loadCompanion reads a mask, overlay or comparison volume. Directories are
// image stacks; anything else is a raw file sharing the base volume's
// dimensions and format.
func loadCompanion(path string, base *volume.Volume, format volume.RawFormat) (*volume.Volume, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return volume.LoadImageDir(path)
	}
	nz, nx, ny := base.Dims()
	return volume.LoadRaw(path, nz, nx, ny, format)
}

func parseDims(s string) (nz, nx, ny int, err error) {
	parts := strings.Split(s, "x")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("dimensions must look like ZxXxY, got %q", s)
	}
	vals := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v <= 0 {
			return 0, 0, 0, fmt.Errorf("dimensions must look like ZxXxY, got %q", s)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], nil
}

// runExport renders without the TUI: a single composed figure, a slice
// sequence along one plane, or both.
func runExport(base, mask, overlay, compare *volume.Volume, cfg *config.Config, exportPath, sequenceDir, axis string) error {
	ctx, err := buildContext(base, mask, overlay, compare, cfg)
	if err != nil {
		return err
	}
	if cfg.Display.AutoWindow &&
		(ctx.Mode() == compositor.ModePlain || ctx.Mode() == compositor.ModeCompare) {
		s := base.Stats()
		if s.P99 > s.P01 {
			ctx.SetWindow(&compositor.Window{Lo: s.P01, Hi: s.P99})
		}
	}

	interp, err := figure.ParseInterpolation(cfg.Export.Interpolation)
	if err != nil {
		return err
	}
	layout := figure.Layout{Scale: cfg.Export.Scale, Interp: interp}
	params := midParams(base, cfg.Display.Transparency)

	if exportPath != "" {
		fmt.Printf("Rendering figure to: %s\n", exportPath)
		panels, err := ctx.Render(params)
		if err != nil {
			return err
		}
		img := figure.Compose(panels, layout)
		if err := figure.Save(exportPath, img, formatForPath(exportPath, cfg.Export.Format)); err != nil {
			return err
		}
		fmt.Println("Figure export completed!")
	}

	if sequenceDir != "" {
		plane, err := volume.ParsePlane(axis)
		if err != nil {
			return err
		}
		fmt.Printf("Saving %s slice sequence to: %s\n", plane, sequenceDir)
		if err := figure.SaveSequence(ctx, plane, params, sequenceDir, cfg.Export.Format, layout); err != nil {
			return err
		}
		fmt.Println("Sequence export completed!")
	}
	return nil
}

func buildContext(base, mask, overlay, compare *volume.Volume, cfg *config.Config) (*compositor.Context, error) {
	switch {
	case mask != nil:
		return compositor.NewContour(base, mask, cfg.Display.Thickness)
	case overlay != nil:
		return compositor.NewBlend(base, overlay)
	case compare != nil:
		return compositor.NewCompare(base, compare, cfg.Display.Colormap)
	default:
		return compositor.NewPlain(base, cfg.Display.Colormap)
	}
}

// midParams starts every plane at its middle slice, matching where the
// interactive sliders come up.
func midParams(vol *volume.Volume, transparency float64) compositor.Params {
	return compositor.Params{
		Axial:        (vol.Extent(volume.Axial) - 1) / 2,
		Coronal:      (vol.Extent(volume.Coronal) - 1) / 2,
		Sagittal:     (vol.Extent(volume.Sagittal) - 1) / 2,
		Transparency: transparency,
	}
}

// formatForPath keeps the configured format string when it agrees with the
// file extension, and otherwise follows the extension.
func formatForPath(path, cfgFormat string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" || figure.Extension(cfgFormat) == ext {
		return cfgFormat
	}
	return ext
}
