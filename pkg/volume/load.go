package volume

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	// Registered decoders for the image-stack provider.
	_ "image/jpeg"
	_ "image/png"
)

// RawFormat names the voxel encoding of a raw little-endian volume file.
type RawFormat string

const (
	RawUint8   RawFormat = "uint8"
	RawUint16  RawFormat = "uint16"
	RawFloat32 RawFormat = "float32"
	RawFloat64 RawFormat = "float64"
)

// ParseRawFormat validates a raw voxel format name.
func ParseRawFormat(s string) (RawFormat, error) {
	switch RawFormat(s) {
	case RawUint8, RawUint16, RawFloat32, RawFloat64:
		return RawFormat(s), nil
	default:
		return "", fmt.Errorf("invalid raw format: %s (must be uint8, uint16, float32, or float64)", s)
	}
}

// VoxelBytes returns the encoded size of one voxel.
func (f RawFormat) VoxelBytes() int {
	switch f {
	case RawUint8:
		return 1
	case RawUint16:
		return 2
	case RawFloat32:
		return 4
	case RawFloat64:
		return 8
	default:
		return 0
	}
}

// LoadRaw reads a little-endian voxel stream with explicit (Z, X, Y) extents.
// The file length must match the extents exactly; there is no header and no
// medical-format decoding here, since callers exporting from scanner
// toolchains dump raw arrays in (Z, X, Y) order.
func LoadRaw(path string, nz, nx, ny int, format RawFormat) (*Volume, error) {
	bpv := format.VoxelBytes()
	if bpv == 0 {
		return nil, fmt.Errorf("invalid raw format: %s", format)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw volume: %w", err)
	}

	vol, err := New(nz, nx, ny)
	if err != nil {
		return nil, err
	}
	want := vol.NumVoxels() * bpv
	if len(raw) != want {
		return nil, fmt.Errorf("raw volume %s is %d bytes, extents %s as %s require %d",
			filepath.Base(path), len(raw), vol.ShapeString(), format, want)
	}

	switch format {
	case RawUint8:
		for i, b := range raw {
			vol.data[i] = float64(b)
		}
	case RawUint16:
		for i := range vol.data {
			vol.data[i] = float64(binary.LittleEndian.Uint16(raw[i*2:]))
		}
	case RawFloat32:
		for i := range vol.data {
			vol.data[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:])))
		}
	case RawFloat64:
		for i := range vol.data {
			vol.data[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
		}
	}
	return vol, nil
}

// LoadImageDir builds a volume from a directory of 2D slice images (PNG or
// JPEG), one image per axial cut, ordered by the number embedded in each
// filename. Luminance is normalized to [0, 1]. Every image must share the
// same dimensions.
func LoadImageDir(dir string) (*Volume, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read slice directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no PNG or JPEG slice images found in %s", dir)
	}

	// Sort by the number embedded in the filename so the anatomical order of
	// the acquisition is preserved, falling back to the name itself on ties.
	sort.Slice(names, func(i, j int) bool {
		ni, nj := extractNumber(names[i]), extractNumber(names[j])
		if ni != nj {
			return ni < nj
		}
		return names[i] < names[j]
	})

	var vol *Volume
	for z, name := range names {
		img, err := loadImage(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to load slice %s: %w", name, err)
		}
		bounds := img.Bounds()
		if vol == nil {
			vol, err = New(len(names), bounds.Dy(), bounds.Dx())
			if err != nil {
				return nil, err
			}
		}
		_, nx, ny := vol.Dims()
		if bounds.Dy() != nx || bounds.Dx() != ny {
			return nil, fmt.Errorf("slice %s is %dx%d, expected %dx%d like the first slice",
				name, bounds.Dx(), bounds.Dy(), ny, nx)
		}
		for x := 0; x < nx; x++ {
			for y := 0; y < ny; y++ {
				r, _, _, _ := img.At(bounds.Min.X+y, bounds.Min.Y+x).RGBA()
				// 16-bit luminance down to the [0, 1] display range.
				vol.SetAt(z, x, y, float64(r)/65535.0)
			}
		}
	}
	return vol, nil
}

// extractNumber pulls the digits out of a slice filename to determine its
// position in the stack.
func extractNumber(filename string) int {
	var numStr strings.Builder
	for _, c := range filepath.Base(filename) {
		if c >= '0' && c <= '9' {
			numStr.WriteRune(c)
		}
	}
	if numStr.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(numStr.String())
	if err != nil {
		return 0
	}
	return n
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return img, nil
}
