package board

import (
	"pcb-thermal/pkg/geometry"
)

// Component is one placed part from the layout data: its reference
// designator, physical center and size in board millimeters, and its
// rotation in degrees. Read-only input to the engine.
type Component struct {
	RefDes      string  `json:"refdes"`
	CenterXMM   float64 `json:"center_x_mm"`
	CenterYMM   float64 `json:"center_y_mm"`
	LengthMM    float64 `json:"length_mm"`
	WidthMM     float64 `json:"width_mm"`
	RotationDeg float64 `json:"rotation_deg"`
	Description string  `json:"description,omitempty"`
}

// CornersMM returns the component footprint's four corners in board
// millimeters, rotated about the center.
func (c Component) CornersMM() [4]geometry.Point2D {
	center := geometry.Point2D{X: c.CenterXMM, Y: c.CenterYMM}
	return geometry.RotatedRectCorners(center, c.LengthMM/2, c.WidthMM/2, c.RotationDeg)
}

// BoundsMM returns the axis-aligned bounding box of the rotated
// footprint. For rotated parts this box is wider than the footprint
// itself; the engine searches the widened area rather than the exact
// rotated quadrilateral.
func (c Component) BoundsMM() geometry.Rect {
	corners := c.CornersMM()
	return geometry.BoundingBox(corners[:])
}
