// Package pipeline chains the board geometry conversion and the
// estimated image transform: board millimeters to layout pixels to
// thermal pixels, and back.
package pipeline

import (
	"math"

	"pcb-thermal/internal/alignment"
	"pcb-thermal/internal/board"
	"pcb-thermal/pkg/geometry"
)

// Pipeline converts coordinates across the three spaces involved in a
// query session. The coordinate math cannot fail on well-formed input:
// results landing outside the thermal matrix are clamped, not
// rejected, since board/layout misalignment is a data-quality issue
// handled upstream.
type Pipeline struct {
	Geometry  board.Geometry
	Transform *alignment.Transform
}

// ThermalBox is an axis-aligned pixel region of the thermal matrix,
// half-open on the right and bottom edges.
type ThermalBox struct {
	Left, Top, Right, Bottom int
}

// PhysicalToLayout converts a board millimeter coordinate to a layout
// pixel coordinate.
func (p *Pipeline) PhysicalToLayout(xMM, yMM float64) geometry.Point2D {
	return p.Geometry.PhysicalToLayout(xMM, yMM)
}

// LayoutToThermal maps a layout pixel into thermal image space.
func (p *Pipeline) LayoutToThermal(pt geometry.Point2D) geometry.Point2D {
	return p.Transform.ApplyInverse(pt)
}

// ThermalToLayout maps a thermal pixel into layout image space.
func (p *Pipeline) ThermalToLayout(pt geometry.Point2D) geometry.Point2D {
	return p.Transform.Apply(pt)
}

// PhysicalBoxToLayout converts a millimeter bounding box to a layout
// pixel rectangle. Corner order is normalized after the origin flip so
// the result always has positive extents.
func (p *Pipeline) PhysicalBoxToLayout(leftMM, topMM, rightMM, bottomMM float64) geometry.Rect {
	a := p.Geometry.PhysicalToLayout(leftMM, topMM)
	b := p.Geometry.PhysicalToLayout(rightMM, bottomMM)
	return normalizedRect(a, b)
}

// LayoutBoxToThermal maps a layout rectangle into thermal space by its
// two corners, normalizing the corner order afterwards.
func (p *Pipeline) LayoutBoxToThermal(r geometry.Rect) geometry.Rect {
	a := p.Transform.ApplyInverse(r.TopLeft())
	b := p.Transform.ApplyInverse(r.BottomRight())
	return normalizedRect(a, b)
}

// ClampToMatrix clamps a thermal-space rectangle into the matrix
// extents. Degenerate zero-area spans are nudged forward to a one
// pixel minimum so the region always samples at least one cell.
func (p *Pipeline) ClampToMatrix(r geometry.Rect, width, height int) ThermalBox {
	left := clampInt(int(math.Round(r.X)), 0, width-1)
	top := clampInt(int(math.Round(r.Y)), 0, height-1)
	right := clampInt(int(math.Round(r.X+r.Width)), 0, width-1)
	bottom := clampInt(int(math.Round(r.Y+r.Height)), 0, height-1)

	if left >= right {
		right = minInt(left+1, width-1)
	}
	if top >= bottom {
		bottom = minInt(top+1, height-1)
	}
	return ThermalBox{Left: left, Top: top, Right: right, Bottom: bottom}
}

// PhysicalBoxToThermal runs the full chain for an axis-aligned
// millimeter box: mm to layout pixels to thermal pixels, clamped into
// the matrix.
func (p *Pipeline) PhysicalBoxToThermal(leftMM, topMM, rightMM, bottomMM float64, width, height int) ThermalBox {
	layout := p.PhysicalBoxToLayout(leftMM, topMM, rightMM, bottomMM)
	thermal := p.LayoutBoxToThermal(layout)
	return p.ClampToMatrix(thermal, width, height)
}

// ComponentToLayout returns the layout pixel rectangle covering a
// component. Rotated parts map each footprint corner individually and
// take the bounding box of the four mapped corners; the search area is
// widened rather than clipped to the rotated quadrilateral.
func (p *Pipeline) ComponentToLayout(c board.Component) geometry.Rect {
	corners := c.CornersMM()
	mapped := make([]geometry.Point2D, len(corners))
	for i, corner := range corners {
		mapped[i] = p.Geometry.PhysicalToLayout(corner.X, corner.Y)
	}
	return geometry.BoundingBox(mapped)
}

// ComponentToThermal returns the clamped thermal matrix region
// covering a component, mapping each rotated footprint corner through
// both conversion stages.
func (p *Pipeline) ComponentToThermal(c board.Component, width, height int) ThermalBox {
	corners := c.CornersMM()
	mapped := make([]geometry.Point2D, len(corners))
	for i, corner := range corners {
		layout := p.Geometry.PhysicalToLayout(corner.X, corner.Y)
		mapped[i] = p.Transform.ApplyInverse(layout)
	}
	return p.ClampToMatrix(geometry.BoundingBox(mapped), width, height)
}

func normalizedRect(a, b geometry.Point2D) geometry.Rect {
	left := math.Min(a.X, b.X)
	top := math.Min(a.Y, b.Y)
	return geometry.Rect{
		X:      left,
		Y:      top,
		Width:  math.Max(a.X, b.X) - left,
		Height: math.Max(a.Y, b.Y) - top,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
