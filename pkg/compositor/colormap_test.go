package compositor

import (
	"image/color"
	"math"
	"testing"
)

// TestParseColormap verifies lookup of every built-in colormap and rejection
// of unknown names
func TestParseColormap(t *testing.T) {
	for _, name := range Names() {
		m, err := ParseColormap(name)
		if err != nil {
			t.Errorf("ParseColormap(%q) returned error: %v", name, err)
			continue
		}
		if m.Name() != name {
			t.Errorf("Expected colormap name %q, got %q", name, m.Name())
		}
	}

	if _, err := ParseColormap("plasma"); err == nil {
		t.Error("Expected error for unknown colormap, got nil")
	}
}

// TestColormapNames verifies that the default colormap leads the cycle order
func TestColormapNames(t *testing.T) {
	names := Names()
	if len(names) != 5 {
		t.Fatalf("Expected 5 colormaps, got %d: %v", len(names), names)
	}
	if names[0] != DefaultColormap {
		t.Errorf("Expected %q first, got %q", DefaultColormap, names[0])
	}

	seen := make(map[string]bool)
	for _, n := range names {
		if seen[n] {
			t.Errorf("Colormap %q listed twice", n)
		}
		seen[n] = true
	}
	for _, want := range []string{"gray", "bone", "hot", "cool", "viridis"} {
		if !seen[want] {
			t.Errorf("Expected colormap %q in Names()", want)
		}
	}
}

// TestColormapEndpoints verifies that gradient anchors are reproduced exactly
func TestColormapEndpoints(t *testing.T) {
	cases := []struct {
		name string
		lo   color.RGBA
		hi   color.RGBA
	}{
		{"gray", color.RGBA{0, 0, 0, 255}, color.RGBA{255, 255, 255, 255}},
		{"hot", color.RGBA{0, 0, 0, 255}, color.RGBA{255, 255, 255, 255}},
		{"cool", color.RGBA{0, 255, 255, 255}, color.RGBA{255, 0, 255, 255}},
		{"viridis", color.RGBA{0x44, 0x01, 0x54, 255}, color.RGBA{0xfd, 0xe7, 0x25, 255}},
	}
	for _, c := range cases {
		m, err := ParseColormap(c.name)
		if err != nil {
			t.Fatalf("Failed to parse colormap %q: %v", c.name, err)
		}
		if got := m.Map(0); got != c.lo {
			t.Errorf("Expected %s at 0 to be %v, got %v", c.name, c.lo, got)
		}
		if got := m.Map(1); got != c.hi {
			t.Errorf("Expected %s at 1 to be %v, got %v", c.name, c.hi, got)
		}
	}
}

// TestColormapGrayMidtones verifies that the gray ramp stays achromatic and
// monotone. The Lab roundtrip can leave one level of chroma noise in a
// channel, so achromatic here means a spread of at most one.
func TestColormapGrayMidtones(t *testing.T) {
	m, err := ParseColormap("gray")
	if err != nil {
		t.Fatalf("Failed to parse colormap: %v", err)
	}

	prev := -1
	for i := 0; i <= 255; i++ {
		c := m.Map(float64(i) / 255.0)
		lo, hi := c.R, c.R
		for _, ch := range []uint8{c.G, c.B} {
			if ch < lo {
				lo = ch
			}
			if ch > hi {
				hi = ch
			}
		}
		if hi-lo > 1 {
			t.Fatalf("Expected achromatic gray at %d, got %v", i, c)
		}
		if int(c.R) < prev {
			t.Fatalf("Expected monotone gray ramp, value dropped at %d", i)
		}
		prev = int(c.R)
	}
}

// TestColormapMapClamps verifies that out-of-range and NaN lookups clamp
func TestColormapMapClamps(t *testing.T) {
	m, err := ParseColormap("gray")
	if err != nil {
		t.Fatalf("Failed to parse colormap: %v", err)
	}

	black := color.RGBA{0, 0, 0, 255}
	white := color.RGBA{255, 255, 255, 255}

	if got := m.Map(-3); got != black {
		t.Errorf("Expected clamp below range to black, got %v", got)
	}
	if got := m.Map(42); got != white {
		t.Errorf("Expected clamp above range to white, got %v", got)
	}
	if got := m.Map(math.NaN()); got != black {
		t.Errorf("Expected NaN to map to black, got %v", got)
	}
}
