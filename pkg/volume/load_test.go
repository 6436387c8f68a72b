package volume

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// TestParseRawFormat verifies raw format name validation
func TestParseRawFormat(t *testing.T) {
	for _, name := range []string{"uint8", "uint16", "float32", "float64"} {
		f, err := ParseRawFormat(name)
		if err != nil {
			t.Errorf("ParseRawFormat(%q) returned error: %v", name, err)
			continue
		}
		if string(f) != name {
			t.Errorf("ParseRawFormat(%q) = %q", name, f)
		}
		if f.VoxelBytes() == 0 {
			t.Errorf("Expected nonzero voxel size for %q", name)
		}
	}

	if _, err := ParseRawFormat("int32"); err == nil {
		t.Error("Expected error for unsupported format, got nil")
	}
}

// TestLoadRawUint8 verifies loading a raw byte volume with explicit extents
func TestLoadRawUint8(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	tempDir, err := os.MkdirTemp("", "volume-raw-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	// Write a 2x3x4 volume where each byte is its own flat index
	nz, nx, ny := 2, 3, 4
	raw := make([]byte, nz*nx*ny)
	for i := range raw {
		raw[i] = byte(i)
	}
	path := filepath.Join(tempDir, "volume.raw")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("Failed to write raw file: %v", err)
	}

	vol, err := LoadRaw(path, nz, nx, ny, RawUint8)
	if err != nil {
		t.Fatalf("Failed to load raw volume: %v", err)
	}

	gotZ, gotX, gotY := vol.Dims()
	if gotZ != nz || gotX != nx || gotY != ny {
		t.Errorf("Expected dims (%d, %d, %d), got (%d, %d, %d)", nz, nx, ny, gotZ, gotX, gotY)
	}

	// Voxel (z, x, y) holds its flat index z*nx*ny + x*ny + y
	if got := vol.At(1, 2, 3); got != float64(1*12+2*4+3) {
		t.Errorf("Expected voxel value %d, got %f", 1*12+2*4+3, got)
	}
}

// TestLoadRawFloat64 verifies that float64 voxels roundtrip exactly
func TestLoadRawFloat64(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	tempDir, err := os.MkdirTemp("", "volume-raw-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	values := []float64{0, -1.5, math.Pi, 1e-12, 65535, 0.25, -0.75, 12345.6789}
	raw := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(v))
	}
	path := filepath.Join(tempDir, "volume.f64")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("Failed to write raw file: %v", err)
	}

	vol, err := LoadRaw(path, 2, 2, 2, RawFloat64)
	if err != nil {
		t.Fatalf("Failed to load raw volume: %v", err)
	}

	for i, want := range values {
		if got := vol.Data()[i]; got != want {
			t.Errorf("Expected voxel %d to be %v, got %v", i, want, got)
		}
	}
}

// TestLoadRawSizeMismatch verifies that file length must match the extents
func TestLoadRawSizeMismatch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	tempDir, err := os.MkdirTemp("", "volume-raw-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "short.raw")
	if err := os.WriteFile(path, make([]byte, 23), 0644); err != nil {
		t.Fatalf("Failed to write raw file: %v", err)
	}

	if _, err := LoadRaw(path, 2, 3, 4, RawUint8); err == nil {
		t.Error("Expected error for size mismatch, got nil")
	}
}

// TestLoadImageDir verifies that a directory of numbered slice images builds
// a volume in acquisition order
func TestLoadImageDir(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	tempDir, err := os.MkdirTemp("", "volume-stack-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	// Three 6x5 slices whose gray level encodes their stack position. The
	// names sort differently as strings than as numbers.
	width, height := 6, 5
	names := []string{"slice_1.png", "slice_2.png", "slice_10.png"}
	for pos, name := range names {
		img := image.NewGray(image.Rect(0, 0, width, height))
		level := uint8((pos + 1) * 50)
		for py := 0; py < height; py++ {
			for px := 0; px < width; px++ {
				img.Pix[py*img.Stride+px] = level
			}
		}
		f, err := os.Create(filepath.Join(tempDir, name))
		if err != nil {
			t.Fatalf("Failed to create slice image: %v", err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			t.Fatalf("Failed to encode slice image: %v", err)
		}
		f.Close()
	}

	vol, err := LoadImageDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to load image directory: %v", err)
	}

	// Image rows become X and columns become Y
	nz, nx, ny := vol.Dims()
	if nz != 3 || nx != height || ny != width {
		t.Errorf("Expected dims (3, %d, %d), got (%d, %d, %d)", height, width, nz, nx, ny)
	}

	// slice_2 must land between slice_1 and slice_10 despite string order
	for z := 0; z < nz; z++ {
		want := float64((z+1)*50) / 255.0
		got := vol.At(z, 2, 3)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Expected slice %d luminance %f, got %f", z, want, got)
		}
	}
}

// TestLoadImageDirErrors verifies the empty and mismatched-size failure modes
func TestLoadImageDirErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	// A directory with no slice images
	emptyDir, err := os.MkdirTemp("", "volume-empty-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(emptyDir)

	if _, err := LoadImageDir(emptyDir); err == nil {
		t.Error("Expected error for directory without images, got nil")
	}

	// A stack whose second image has different dimensions
	badDir, err := os.MkdirTemp("", "volume-bad-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(badDir)

	sizes := []image.Rectangle{image.Rect(0, 0, 4, 4), image.Rect(0, 0, 5, 4)}
	for i, r := range sizes {
		f, err := os.Create(filepath.Join(badDir, fmt.Sprintf("slice_%d.png", i)))
		if err != nil {
			t.Fatalf("Failed to create slice image: %v", err)
		}
		if err := png.Encode(f, image.NewGray(r)); err != nil {
			f.Close()
			t.Fatalf("Failed to encode slice image: %v", err)
		}
		f.Close()
	}

	if _, err := LoadImageDir(badDir); err == nil {
		t.Error("Expected error for mismatched slice dimensions, got nil")
	}
}
