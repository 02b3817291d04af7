// Package board models the physical board: its coordinate system,
// its components, and the layout data files describing them.
package board

import (
	"encoding/json"
	"fmt"

	"pcb-thermal/pkg/geometry"
)

// OriginCorner identifies which corner of the board carries the
// physical coordinate origin.
type OriginCorner int

const (
	OriginTopLeft OriginCorner = iota
	OriginTopRight
	OriginBottomLeft
	OriginBottomRight
)

func (o OriginCorner) String() string {
	switch o {
	case OriginTopLeft:
		return "top-left"
	case OriginTopRight:
		return "top-right"
	case OriginBottomLeft:
		return "bottom-left"
	case OriginBottomRight:
		return "bottom-right"
	default:
		return "unknown"
	}
}

// ParseOriginCorner parses the string form produced by String.
func ParseOriginCorner(s string) (OriginCorner, error) {
	switch s {
	case "top-left":
		return OriginTopLeft, nil
	case "top-right":
		return OriginTopRight, nil
	case "bottom-left":
		return OriginBottomLeft, nil
	case "bottom-right":
		return OriginBottomRight, nil
	}
	return OriginTopLeft, fmt.Errorf("unknown origin corner %q", s)
}

// MarshalJSON encodes the corner as its string form.
func (o OriginCorner) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON decodes the string form.
func (o *OriginCorner) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseOriginCorner(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Geometry describes how physical board millimeters map onto layout
// image pixels: board dimensions, which corner the physical origin
// sits in (plus an inward offset), and the padding the layout image
// carries around the board area. It is passed explicitly wherever
// needed; there is no shared settings state.
type Geometry struct {
	BoardWidthMM  float64 `json:"board_width_mm"`
	BoardHeightMM float64 `json:"board_height_mm"`

	Origin          OriginCorner `json:"origin"`
	OriginOffsetXMM float64      `json:"origin_offset_x_mm"`
	OriginOffsetYMM float64      `json:"origin_offset_y_mm"`

	// Padding between the layout image edges and the board area, in
	// layout pixels.
	PaddingLeft   float64 `json:"padding_left"`
	PaddingTop    float64 `json:"padding_top"`
	PaddingRight  float64 `json:"padding_right"`
	PaddingBottom float64 `json:"padding_bottom"`

	LayoutWidth  float64 `json:"layout_width"`
	LayoutHeight float64 `json:"layout_height"`
}

// Validate checks the geometry for usable values.
func (g Geometry) Validate() error {
	if g.BoardWidthMM <= 0 || g.BoardHeightMM <= 0 {
		return fmt.Errorf("board dimensions must be positive, got %.2fx%.2f mm", g.BoardWidthMM, g.BoardHeightMM)
	}
	if g.PaddingLeft < 0 || g.PaddingTop < 0 || g.PaddingRight < 0 || g.PaddingBottom < 0 {
		return fmt.Errorf("padding must not be negative")
	}
	if g.LayoutWidth-g.PaddingLeft-g.PaddingRight <= 0 ||
		g.LayoutHeight-g.PaddingTop-g.PaddingBottom <= 0 {
		return fmt.Errorf("padding leaves no board area inside the %gx%g layout image", g.LayoutWidth, g.LayoutHeight)
	}
	return nil
}

// PixelsPerMM returns the effective pixel density of the board area
// inside the layout image, per axis.
func (g Geometry) PixelsPerMM() (x, y float64) {
	return (g.LayoutWidth - g.PaddingLeft - g.PaddingRight) / g.BoardWidthMM,
		(g.LayoutHeight - g.PaddingTop - g.PaddingBottom) / g.BoardHeightMM
}

// PhysicalToLayout converts a physical board coordinate (mm, measured
// from the configured origin corner plus offset) to a layout image
// pixel coordinate. The point is first translated into a canonical
// top-left-origin millimeter frame by the corner-specific flip, then
// scaled and shifted by the padding. Out-of-board inputs convert
// without clamping; misaligned data is a quality issue for the caller.
func (g Geometry) PhysicalToLayout(xMM, yMM float64) geometry.Point2D {
	ox := xMM + g.OriginOffsetXMM
	oy := yMM + g.OriginOffsetYMM

	var cx, cy float64
	switch g.Origin {
	case OriginTopLeft:
		cx, cy = ox, oy
	case OriginTopRight:
		cx, cy = g.BoardWidthMM-ox, oy
	case OriginBottomLeft:
		cx, cy = ox, g.BoardHeightMM-oy
	case OriginBottomRight:
		cx, cy = g.BoardWidthMM-ox, g.BoardHeightMM-oy
	}

	ppmX, ppmY := g.PixelsPerMM()
	return geometry.Point2D{
		X: g.PaddingLeft + cx*ppmX,
		Y: g.PaddingTop + cy*ppmY,
	}
}

// LayoutToPhysical is the exact inverse of PhysicalToLayout.
func (g Geometry) LayoutToPhysical(p geometry.Point2D) (xMM, yMM float64) {
	ppmX, ppmY := g.PixelsPerMM()
	cx := (p.X - g.PaddingLeft) / ppmX
	cy := (p.Y - g.PaddingTop) / ppmY

	var ox, oy float64
	switch g.Origin {
	case OriginTopLeft:
		ox, oy = cx, cy
	case OriginTopRight:
		ox, oy = g.BoardWidthMM-cx, cy
	case OriginBottomLeft:
		ox, oy = cx, g.BoardHeightMM-cy
	case OriginBottomRight:
		ox, oy = g.BoardWidthMM-cx, g.BoardHeightMM-cy
	}

	return ox - g.OriginOffsetXMM, oy - g.OriginOffsetYMM
}
