package compositor

import (
	"image"
	"image/color"
	"math"

	"mriexplore/pkg/volume"
)

// ContourColor traces mask boundaries. Pure green reads clearly against both
// grayscale tissue and every built-in colormap.
var ContourColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}

// Contour is one traced border of the mask foreground. Points form a closed
// chain in image coordinates (X = column, Y = row).
type Contour struct {
	Points []image.Point

	// Hole marks a border that encloses background rather than foreground.
	Hole bool

	// Parent indexes the enclosing contour, or -1 at the top level.
	Parent int
}

// Neighbor probe order, clockwise from east with Y growing downward.
var borderDirs = [8]image.Point{
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
	{X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
}

// FindContours traces every border of the mask's foreground using the
// Suzuki-Abe border-following algorithm over 8-connected components,
// returning the full outer and hole border hierarchy. A voxel belongs to the
// foreground when its integer-truncated value is nonzero, matching the
// byte-mask convention of the upstream pipelines that produce these masks.
// Chains are compressed so that straight runs keep only their endpoints.
func FindContours(mask *volume.Slice) []Contour {
	rows, cols := mask.Rows, mask.Cols

	// One-pixel zero border removes bounds checks from the trace.
	w := cols + 2
	f := make([]int, (rows+2)*w)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if math.Trunc(mask.At(r, c)) != 0 {
				f[(r+1)*w+(c+1)] = 1
			}
		}
	}

	type border struct {
		hole      bool
		parentSeq int
	}
	// Sequence 1 is the frame, treated as a hole border with no parent.
	borders := []border{{}, {hole: true, parentSeq: 0}}
	nbd := 1

	var contours []Contour

	for i := 1; i <= rows; i++ {
		lnbd := 1
		for j := 1; j <= cols; j++ {
			p := i*w + j
			if f[p] == 0 {
				continue
			}

			var start int // probe index of the zero pixel that triggered the border
			isHole := false
			trace := false
			switch {
			case f[p] == 1 && f[p-1] == 0:
				// Outer border: foreground pixel entered from background.
				trace = true
				start = 4 // west
			case f[p] >= 1 && f[p+1] == 0:
				// Hole border: foreground pixel with background to the east.
				trace = true
				isHole = true
				start = 0 // east
				if f[p] > 1 {
					lnbd = f[p]
				}
			}

			if trace {
				nbd++
				prime := borders[lnbd]
				parentSeq := lnbd
				if prime.hole == isHole {
					parentSeq = prime.parentSeq
				}
				borders = append(borders, border{hole: isHole, parentSeq: parentSeq})

				points := followBorder(f, w, p, start, nbd)
				parent := parentSeq - 2
				if parentSeq <= 1 {
					parent = -1
				}
				contours = append(contours, Contour{
					Points: simplifyChain(unpad(points, w)),
					Hole:   isHole,
					Parent: parent,
				})
			}

			if f[p] != 1 {
				lnbd = f[p]
				if lnbd < 0 {
					lnbd = -lnbd
				}
			}
		}
	}
	return contours
}

// followBorder traces one border starting at pixel p, marking visited pixels
// in f with ±nbd, and returns the chain as padded-grid offsets.
func followBorder(f []int, w, p, start, nbd int) []int {
	step := func(q, dir int) int {
		d := borderDirs[dir]
		return q + d.Y*w + d.X
	}

	// Find the first nonzero neighbor clockwise from the trigger pixel.
	dir := -1
	for k := 0; k < 8; k++ {
		if f[step(p, (start+k)%8)] != 0 {
			dir = (start + k) % 8
			break
		}
	}
	if dir < 0 {
		// Isolated pixel: a border of one point.
		f[p] = -nbd
		return []int{p}
	}

	first := step(p, dir)
	var points []int
	cur := p
	prevDir := dir // points from cur toward the pixel the trace came from
	for {
		// Probe counterclockwise from just past the came-from pixel,
		// remembering whether the east neighbor was seen to be background.
		eastZero := false
		next, nextDir := 0, 0
		for k := 1; k <= 8; k++ {
			d := (prevDir - k + 8) % 8
			q := step(cur, d)
			if f[q] != 0 {
				next, nextDir = q, d
				break
			}
			if d == 0 {
				eastZero = true
			}
		}

		switch {
		case eastZero:
			f[cur] = -nbd
		case f[cur] == 1:
			f[cur] = nbd
		}
		points = append(points, cur)

		if next == p && cur == first {
			return points
		}
		cur = next
		prevDir = (nextDir + 4) % 8
	}
}

// unpad converts padded-grid offsets back to image coordinates.
func unpad(points []int, w int) []image.Point {
	out := make([]image.Point, len(points))
	for i, p := range points {
		out[i] = image.Point{X: p%w - 1, Y: p/w - 1}
	}
	return out
}

// simplifyChain drops interior points of straight 8-connected runs so only
// run endpoints remain, treating the chain as closed.
func simplifyChain(points []image.Point) []image.Point {
	n := len(points)
	if n < 3 {
		return points
	}

	dir := func(a, b image.Point) image.Point {
		return image.Point{X: sign(b.X - a.X), Y: sign(b.Y - a.Y)}
	}

	out := points[:0:0]
	for i := 0; i < n; i++ {
		prev := points[(i-1+n)%n]
		next := points[(i+1)%n]
		if dir(prev, points[i]) != dir(points[i], next) {
			out = append(out, points[i])
		}
	}
	if len(out) == 0 {
		// Degenerate ring (all points collinear); keep the extremes.
		return []image.Point{points[0], points[n/2]}
	}
	return out
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// DrawContours strokes every contour onto img in place. Thickness is the
// stroke diameter in pixels and is passed through without range checks;
// values below one are drawn as a single-pixel line. Pixels falling outside
// the image are clipped.
func DrawContours(img *image.RGBA, contours []Contour, col color.RGBA, thickness int) {
	radius := 0
	if thickness > 1 {
		radius = thickness / 2
	}

	for _, c := range contours {
		switch len(c.Points) {
		case 0:
		case 1:
			stamp(img, c.Points[0], col, radius)
		case 2:
			strokeLine(img, c.Points[0], c.Points[1], col, radius)
		default:
			for i := range c.Points {
				strokeLine(img, c.Points[i], c.Points[(i+1)%len(c.Points)], col, radius)
			}
		}
	}
}

// strokeLine walks a Bresenham line stamping a disc at each step.
func strokeLine(img *image.RGBA, a, b image.Point, col color.RGBA, radius int) {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)
	err := dx + dy

	x, y := a.X, a.Y
	for {
		stamp(img, image.Point{X: x, Y: y}, col, radius)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// stamp fills a disc of the given radius, clipped to the image bounds.
func stamp(img *image.RGBA, p image.Point, col color.RGBA, radius int) {
	if radius == 0 {
		if image.Pt(p.X, p.Y).In(img.Bounds()) {
			img.SetRGBA(p.X, p.Y, col)
		}
		return
	}
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			if image.Pt(p.X+dx, p.Y+dy).In(img.Bounds()) {
				img.SetRGBA(p.X+dx, p.Y+dy, col)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
