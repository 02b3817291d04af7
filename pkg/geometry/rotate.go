package geometry

import "math"

// RotatePoint rotates p around center by angleDeg degrees.
func RotatePoint(p, center Point2D, angleDeg float64) Point2D {
	rad := angleDeg * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	d := p.Sub(center)
	return Point2D{
		X: cos*d.X - sin*d.Y + center.X,
		Y: sin*d.X + cos*d.Y + center.Y,
	}
}

// RotatedRectCorners returns the four corners of a rectangle centered at
// center with the given half-extents, rotated by angleDeg degrees around
// the center. Corner order is TL, TR, BR, BL of the unrotated rectangle.
func RotatedRectCorners(center Point2D, halfW, halfH, angleDeg float64) [4]Point2D {
	rad := angleDeg * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)

	offsets := [4]Point2D{
		{X: -halfW, Y: -halfH},
		{X: halfW, Y: -halfH},
		{X: halfW, Y: halfH},
		{X: -halfW, Y: halfH},
	}

	var corners [4]Point2D
	for i, off := range offsets {
		corners[i] = Point2D{
			X: cos*off.X - sin*off.Y + center.X,
			Y: sin*off.X + cos*off.Y + center.Y,
		}
	}
	return corners
}
