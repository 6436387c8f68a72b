// Package volume holds 3D volumetric image data and extracts 2D cross-sections
// along the three anatomical viewing planes. Volumes are stored as flat
// float64 arrays in (Z, X, Y) order, matching the slice stacks produced by
// MRI acquisition: Z selects an axial cut, X a coronal cut, Y a sagittal cut.
package volume

import (
	"fmt"
)

// Plane identifies one of the three orthogonal anatomical viewing planes.
type Plane int

const (
	// Axial cuts are perpendicular to the Z axis (top-down view).
	Axial Plane = iota

	// Coronal cuts are perpendicular to the X axis (front-back view).
	Coronal

	// Sagittal cuts are perpendicular to the Y axis (side view).
	Sagittal
)

// Planes lists the three anatomical planes in display order.
var Planes = []Plane{Axial, Coronal, Sagittal}

// String returns the lowercase plane name.
func (p Plane) String() string {
	switch p {
	case Axial:
		return "axial"
	case Coronal:
		return "coronal"
	case Sagittal:
		return "sagittal"
	default:
		return fmt.Sprintf("plane(%d)", int(p))
	}
}

// Title returns the capitalized plane name used in panel titles.
func (p Plane) Title() string {
	switch p {
	case Axial:
		return "Axial"
	case Coronal:
		return "Coronal"
	case Sagittal:
		return "Sagittal"
	default:
		return fmt.Sprintf("Plane(%d)", int(p))
	}
}

// ParsePlane maps a plane name ("axial", "coronal", "sagittal") to its Plane.
func ParsePlane(s string) (Plane, error) {
	switch s {
	case "axial", "z":
		return Axial, nil
	case "coronal", "x":
		return Coronal, nil
	case "sagittal", "y":
		return Sagittal, nil
	default:
		return 0, fmt.Errorf("invalid plane: %s (must be axial, coronal, or sagittal)", s)
	}
}

// IndexError reports a slice index outside the extent of its plane. It is the
// out-of-bounds fault propagated, not recovered, when a caller requests a
// cross-section that does not exist.
type IndexError struct {
	// Plane is the viewing plane that was indexed.
	Plane Plane

	// Index is the requested position.
	Index int

	// Extent is the number of valid positions along the plane.
	Extent int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.Plane, e.Index, e.Extent)
}

// Volume is an immutable 3D block of voxel intensities indexed (Z, X, Y).
// The flat data layout is idx = z*NX*NY + x*NY + y, so an axial cut is a
// contiguous run and the Y coordinate varies fastest.
//
// A Volume is never mutated after construction; every exploration session
// shares the same backing array by reference.
type Volume struct {
	data []float64

	// nz, nx, ny are the extents of the Z, X, and Y axes in voxels.
	nz, nx, ny int
}

// New allocates a zero-valued volume with the given extents.
func New(nz, nx, ny int) (*Volume, error) {
	if nz <= 0 || nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("volume extents must be positive, got (%d, %d, %d)", nz, nx, ny)
	}
	return &Volume{
		data: make([]float64, nz*nx*ny),
		nz:   nz,
		nx:   nx,
		ny:   ny,
	}, nil
}

// FromData wraps an existing flat array as a volume. The array is referenced,
// not copied, and its length must equal nz*nx*ny.
func FromData(data []float64, nz, nx, ny int) (*Volume, error) {
	if nz <= 0 || nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("volume extents must be positive, got (%d, %d, %d)", nz, nx, ny)
	}
	if len(data) != nz*nx*ny {
		return nil, fmt.Errorf("data length %d does not match extents (%d, %d, %d) = %d voxels",
			len(data), nz, nx, ny, nz*nx*ny)
	}
	return &Volume{data: data, nz: nz, nx: nx, ny: ny}, nil
}

// Dims returns the (Z, X, Y) extents in voxels.
func (v *Volume) Dims() (nz, nx, ny int) {
	return v.nz, v.nx, v.ny
}

// Extent returns the number of valid slice positions along the given plane.
func (v *Volume) Extent(p Plane) int {
	switch p {
	case Axial:
		return v.nz
	case Coronal:
		return v.nx
	case Sagittal:
		return v.ny
	default:
		return 0
	}
}

// MinExtent returns the smallest of the three axis extents. A single shared
// slice control ranges over [0, MinExtent()-1] so that one index is valid on
// every plane; this trades per-axis reach for a single control.
func (v *Volume) MinExtent() int {
	m := v.nz
	if v.nx < m {
		m = v.nx
	}
	if v.ny < m {
		m = v.ny
	}
	return m
}

// NumVoxels returns the total voxel count.
func (v *Volume) NumVoxels() int {
	return v.nz * v.nx * v.ny
}

// SizeBytes returns the in-memory size of the voxel data.
func (v *Volume) SizeBytes() uint64 {
	return uint64(len(v.data)) * 8
}

// ShapeString renders the extents as "(Z, X, Y)" for messages and titles.
func (v *Volume) ShapeString() string {
	return fmt.Sprintf("(%d, %d, %d)", v.nz, v.nx, v.ny)
}

// SameShape reports whether both volumes have identical extents on every axis.
func (v *Volume) SameShape(o *Volume) bool {
	return o != nil && v.nz == o.nz && v.nx == o.nx && v.ny == o.ny
}

// At returns the voxel intensity at (z, x, y). Bounds are not rechecked; the
// caller is expected to index within Dims().
func (v *Volume) At(z, x, y int) float64 {
	return v.data[z*v.nx*v.ny+x*v.ny+y]
}

// SetAt stores a voxel intensity at (z, x, y). It is intended for volume
// construction; volumes handed to an exploration session must not change.
func (v *Volume) SetAt(z, x, y int, value float64) {
	v.data[z*v.nx*v.ny+x*v.ny+y] = value
}

// Data exposes the backing array. Callers must treat it as read-only.
func (v *Volume) Data() []float64 {
	return v.data
}

// Slice extracts the 2D cross-section at index idx along plane p.
//
// The axial cut is returned in raw array order. Coronal and sagittal cuts are
// vertically flipped relative to raw order so that the superior (head) end of
// the Z axis appears at the top of the image; the asymmetry is required for
// correct anatomical orientation and must not be "fixed".
func (v *Volume) Slice(p Plane, idx int) (*Slice, error) {
	extent := v.Extent(p)
	if idx < 0 || idx >= extent {
		return nil, &IndexError{Plane: p, Index: idx, Extent: extent}
	}

	switch p {
	case Axial:
		// Volume[idx, :, :] is a contiguous block, no flip.
		s := &Slice{Rows: v.nx, Cols: v.ny, Data: make([]float64, v.nx*v.ny)}
		copy(s.Data, v.data[idx*v.nx*v.ny:(idx+1)*v.nx*v.ny])
		return s, nil

	case Coronal:
		// flipud(Volume[:, idx, :]): row r reads plane z = nz-1-r.
		s := &Slice{Rows: v.nz, Cols: v.ny, Data: make([]float64, v.nz*v.ny)}
		for r := 0; r < v.nz; r++ {
			z := v.nz - 1 - r
			src := z*v.nx*v.ny + idx*v.ny
			copy(s.Data[r*v.ny:(r+1)*v.ny], v.data[src:src+v.ny])
		}
		return s, nil

	case Sagittal:
		// flipud(Volume[:, :, idx]): row r reads plane z = nz-1-r.
		s := &Slice{Rows: v.nz, Cols: v.nx, Data: make([]float64, v.nz*v.nx)}
		for r := 0; r < v.nz; r++ {
			z := v.nz - 1 - r
			for c := 0; c < v.nx; c++ {
				s.Data[r*v.nx+c] = v.data[z*v.nx*v.ny+c*v.ny+idx]
			}
		}
		return s, nil

	default:
		return nil, fmt.Errorf("invalid plane: %d", int(p))
	}
}

// Rescaled returns a copy of the volume with intensities linearly remapped to
// [lo, hi]. The receiver is left untouched.
func (v *Volume) Rescaled(lo, hi float64) *Volume {
	return &Volume{
		data: RescaleLinear(v.data, lo, hi),
		nz:   v.nz,
		nx:   v.nx,
		ny:   v.ny,
	}
}

// Slice is a 2D cross-section in row-major order: Data[r*Cols+c] is the
// intensity at row r, column c.
type Slice struct {
	Data []float64
	Rows int
	Cols int
}

// At returns the intensity at row r, column c.
func (s *Slice) At(r, c int) float64 {
	return s.Data[r*s.Cols+c]
}

// Flipped returns the vertical mirror of the slice (row order reversed).
// Flipping twice restores the original.
func (s *Slice) Flipped() *Slice {
	out := &Slice{Rows: s.Rows, Cols: s.Cols, Data: make([]float64, len(s.Data))}
	for r := 0; r < s.Rows; r++ {
		src := (s.Rows - 1 - r) * s.Cols
		copy(out.Data[r*s.Cols:(r+1)*s.Cols], s.Data[src:src+s.Cols])
	}
	return out
}
