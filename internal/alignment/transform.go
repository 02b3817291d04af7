package alignment

import (
	"fmt"

	"pcb-thermal/pkg/geometry"
)

// Transform maps thermal-image coordinates to layout-image coordinates
// and back. Both directions are estimated independently from the same
// correspondence set, so the inverse is not the algebraic inverse of
// the forward map, but the two agree within the reprojection tolerance
// on every correspondence point.
type Transform struct {
	projective bool

	fwdAffine geometry.AffineTransform
	invAffine geometry.AffineTransform

	fwdH geometry.Homography
	invH geometry.Homography
}

// Apply maps a thermal-image point into layout-image space.
func (t *Transform) Apply(p geometry.Point2D) geometry.Point2D {
	if t.projective {
		return t.fwdH.Apply(p)
	}
	return t.fwdAffine.Apply(p)
}

// ApplyInverse maps a layout-image point into thermal-image space.
func (t *Transform) ApplyInverse(p geometry.Point2D) geometry.Point2D {
	if t.projective {
		return t.invH.Apply(p)
	}
	return t.invAffine.Apply(p)
}

// IsProjective reports whether the transform is a homography (built
// from 4 or more points) rather than an exact 3-point affine map.
func (t *Transform) IsProjective() bool {
	return t.projective
}

// ForwardMatrix returns the raw forward coefficients: 2 rows of 3 for
// the affine case, 3 rows of 3 for the projective case. Consumers that
// re-target a different display resolution should prefer Rescaled over
// composing scale matrices by hand.
func (t *Transform) ForwardMatrix() [][]float64 {
	if t.projective {
		return homographyRows(t.fwdH)
	}
	return affineRows(t.fwdAffine)
}

// InverseMatrix returns the raw inverse coefficients in the same shape
// as ForwardMatrix.
func (t *Transform) InverseMatrix() [][]float64 {
	if t.projective {
		return homographyRows(t.invH)
	}
	return affineRows(t.invAffine)
}

// Rescaled returns a transform operating on rescaled coordinate
// spaces: the thermal side multiplied by srcScale and the layout side
// by dstScale. The forward map becomes S_dst * F * S_src^-1.
func (t *Transform) Rescaled(srcScale, dstScale float64) (*Transform, error) {
	if srcScale <= 0 || dstScale <= 0 {
		return nil, fmt.Errorf("%w: scale factors must be positive", ErrInvalidInput)
	}

	if t.projective {
		preFwd := scaleHomography(1 / srcScale)
		postFwd := scaleHomography(dstScale)
		preInv := scaleHomography(1 / dstScale)
		postInv := scaleHomography(srcScale)
		return &Transform{
			projective: true,
			fwdH:       postFwd.Mul(t.fwdH).Mul(preFwd),
			invH:       postInv.Mul(t.invH).Mul(preInv),
		}, nil
	}

	return &Transform{
		fwdAffine: geometry.Scale(dstScale, dstScale).
			Compose(t.fwdAffine).
			Compose(geometry.Scale(1/srcScale, 1/srcScale)),
		invAffine: geometry.Scale(srcScale, srcScale).
			Compose(t.invAffine).
			Compose(geometry.Scale(1/dstScale, 1/dstScale)),
	}, nil
}

// ReprojectionError returns the mean forward-mapping error over a
// correspondence set, in destination pixels.
func (t *Transform) ReprojectionError(thermalPts, layoutPts []geometry.Point2D) float64 {
	if len(thermalPts) == 0 || len(thermalPts) != len(layoutPts) {
		return 0
	}
	var total float64
	for i := range thermalPts {
		total += t.Apply(thermalPts[i]).Distance(layoutPts[i])
	}
	return total / float64(len(thermalPts))
}

func scaleHomography(s float64) geometry.Homography {
	return geometry.Homography{{s, 0, 0}, {0, s, 0}, {0, 0, 1}}
}

func affineRows(a geometry.AffineTransform) [][]float64 {
	m := a.ToMatrix()
	return [][]float64{
		{m[0][0], m[0][1], m[0][2]},
		{m[1][0], m[1][1], m[1][2]},
	}
}

func homographyRows(h geometry.Homography) [][]float64 {
	return [][]float64{
		{h[0][0], h[0][1], h[0][2]},
		{h[1][0], h[1][1], h[1][2]},
		{h[2][0], h[2][1], h[2][2]},
	}
}
