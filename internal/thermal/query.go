package thermal

import (
	"errors"
	"fmt"
	"math"

	"pcb-thermal/pkg/geometry"
)

// ErrEmptyRegion signals that a query region contains no samples: it
// lies entirely outside the matrix or encloses no grid point. Reported
// distinctly so callers can tell "no data sampled" from a legitimately
// low maximum.
var ErrEmptyRegion = errors.New("region contains no samples")

// Peak is the hottest sample found by a region query, located in
// matrix pixel coordinates.
type Peak struct {
	Value float64
	X     int
	Y     int
}

// Region is a query region in display coordinates; the uniform scale
// passed to MaxInRegion converts display coordinates back into matrix
// pixels.
type Region interface {
	maxIn(m *Matrix, scale float64) (Peak, error)
}

// Box is an axis-aligned region spanning [Left,Right) x [Top,Bottom).
type Box struct {
	Left, Top, Right, Bottom float64
}

// Circle is a circular region around a center point.
type Circle struct {
	CenterX, CenterY, Radius float64
}

// Polygon is an arbitrary closed region given by its ordered vertices.
type Polygon struct {
	Vertices []geometry.Point2D
}

func (b Box) maxIn(m *Matrix, scale float64) (Peak, error) {
	return m.MaxInBox(b.Left, b.Top, b.Right, b.Bottom, scale)
}

func (c Circle) maxIn(m *Matrix, scale float64) (Peak, error) {
	return m.MaxInCircle(c.CenterX, c.CenterY, c.Radius, scale)
}

func (p Polygon) maxIn(m *Matrix, scale float64) (Peak, error) {
	return m.MaxInPolygon(p.Vertices, scale)
}

// MaxInRegion dispatches to the matching query for the region kind.
func (m *Matrix) MaxInRegion(r Region, scale float64) (Peak, error) {
	return r.maxIn(m, scale)
}

// MaxInBox returns the hottest sample in the box, with coordinates in
// matrix space. Box coordinates are divided by scale, clamped into the
// matrix, and a collapsed right or bottom edge is widened by one pixel
// so a degenerate box still samples its anchor cell. A box that does
// not intersect the matrix at all returns ErrEmptyRegion.
func (m *Matrix) MaxInBox(left, top, right, bottom float64, scale float64) (Peak, error) {
	if scale <= 0 {
		return Peak{}, fmt.Errorf("scale must be positive, got %g", scale)
	}

	fl, fr := math.Min(left, right)/scale, math.Max(left, right)/scale
	ft, fb := math.Min(top, bottom)/scale, math.Max(top, bottom)/scale

	if fr < 0 || fb < 0 || fl >= float64(m.width) || ft >= float64(m.height) {
		return Peak{}, fmt.Errorf("box (%g,%g)-(%g,%g): %w", left, top, right, bottom, ErrEmptyRegion)
	}

	l := clampInt(int(fl), 0, m.width-1)
	t := clampInt(int(ft), 0, m.height-1)
	r := clampInt(int(fr), 0, m.width)
	b := clampInt(int(fb), 0, m.height)
	if r <= l {
		r = l + 1
	}
	if b <= t {
		b = t + 1
	}

	peak := Peak{Value: math.Inf(-1)}
	for y := t; y < b; y++ {
		for x := l; x < r; x++ {
			if v := m.data[y][x]; v > peak.Value {
				peak = Peak{Value: v, X: x, Y: y}
			}
		}
	}
	return peak, nil
}

// MaxInCircle returns the hottest sample whose center lies within
// radius of the circle center, coordinates in matrix space. Returns
// ErrEmptyRegion when no grid point falls inside the circle.
func (m *Matrix) MaxInCircle(cx, cy, radius float64, scale float64) (Peak, error) {
	if scale <= 0 {
		return Peak{}, fmt.Errorf("scale must be positive, got %g", scale)
	}

	x1 := clampInt(int((cx-radius)/scale), 0, m.width)
	y1 := clampInt(int((cy-radius)/scale), 0, m.height)
	x2 := clampInt(int((cx+radius)/scale)+1, 0, m.width)
	y2 := clampInt(int((cy+radius)/scale)+1, 0, m.height)

	centerX := cx / scale
	centerY := cy / scale
	r := radius / scale

	peak := Peak{Value: math.Inf(-1)}
	found := false
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			dx := float64(x) - centerX
			dy := float64(y) - centerY
			if math.Sqrt(dx*dx+dy*dy) > r {
				continue
			}
			if v := m.data[y][x]; !found || v > peak.Value {
				peak = Peak{Value: v, X: x, Y: y}
				found = true
			}
		}
	}
	if !found {
		return Peak{}, fmt.Errorf("circle center (%g,%g) radius %g: %w", cx, cy, radius, ErrEmptyRegion)
	}
	return peak, nil
}

// MaxInPolygon returns the hottest sample inside the polygon, tested
// by ray casting, coordinates in matrix space. Returns ErrEmptyRegion
// when the polygon encloses no grid point inside the matrix.
func (m *Matrix) MaxInPolygon(vertices []geometry.Point2D, scale float64) (Peak, error) {
	if scale <= 0 {
		return Peak{}, fmt.Errorf("scale must be positive, got %g", scale)
	}
	if len(vertices) < 3 {
		return Peak{}, fmt.Errorf("polygon with %d vertices: %w", len(vertices), ErrEmptyRegion)
	}

	scaled := make([]geometry.Point2D, len(vertices))
	for i, v := range vertices {
		scaled[i] = v.Scale(1 / scale)
	}

	bounds := geometry.BoundingBox(scaled)
	x1 := clampInt(int(bounds.X), 0, m.width)
	y1 := clampInt(int(bounds.Y), 0, m.height)
	x2 := clampInt(int(bounds.X+bounds.Width)+1, 0, m.width)
	y2 := clampInt(int(bounds.Y+bounds.Height)+1, 0, m.height)

	peak := Peak{Value: math.Inf(-1)}
	found := false
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			if !geometry.PointInPolygon(geometry.Point2D{X: float64(x), Y: float64(y)}, scaled) {
				continue
			}
			if v := m.data[y][x]; !found || v > peak.Value {
				peak = Peak{Value: v, X: x, Y: y}
				found = true
			}
		}
	}
	if !found {
		return Peak{}, fmt.Errorf("polygon with %d vertices: %w", len(vertices), ErrEmptyRegion)
	}
	return peak, nil
}
