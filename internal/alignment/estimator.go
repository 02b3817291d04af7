package alignment

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"pcb-thermal/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateGeometry indicates collinear correspondence points or an
// otherwise singular system. No transform can be built; the caller
// should request different or additional points.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

const (
	ransacIterations = 2000
	reprojThreshold  = 3.0
)

// Estimate builds the thermal-to-layout transform from two point lists
// marked on the thermal image (a) and the layout image (b). The lists
// are correspondence-matched by distance first, so marking order does
// not matter. Exactly 3 points produce an exact affine map in each
// direction; 4 or more produce a projective homography estimated with
// RANSAC in each direction to tolerate marking imprecision.
func Estimate(thermalPts, layoutPts []geometry.Point2D) (*Transform, error) {
	if len(thermalPts) != len(layoutPts) || len(thermalPts) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 matched points, got %d vs %d",
			ErrInvalidInput, len(thermalPts), len(layoutPts))
	}

	perm, err := MatchPoints(thermalPts, layoutPts)
	if err != nil {
		return nil, err
	}
	matched := make([]geometry.Point2D, len(layoutPts))
	for i, j := range perm {
		matched[i] = layoutPts[j]
	}

	if len(thermalPts) == 3 {
		fwd, err := solveAffineExact(thermalPts, matched)
		if err != nil {
			return nil, err
		}
		inv, err := solveAffineExact(matched, thermalPts)
		if err != nil {
			return nil, err
		}
		return &Transform{fwdAffine: fwd, invAffine: inv}, nil
	}

	fwd, err := estimateHomography(thermalPts, matched)
	if err != nil {
		return nil, err
	}
	inv, err := estimateHomography(matched, thermalPts)
	if err != nil {
		return nil, err
	}
	return &Transform{projective: true, fwdH: fwd, invH: inv}, nil
}

// solveAffineExact computes the unique affine transform mapping three
// source points onto three destination points.
func solveAffineExact(src, dst []geometry.Point2D) (geometry.AffineTransform, error) {
	if len(src) < 3 || len(dst) < 3 {
		return geometry.AffineTransform{}, fmt.Errorf("%w: need 3 points", ErrInvalidInput)
	}

	// Build matrix equation: [x', y'] = [a, b, tx; c, d, ty] * [x, y, 1]
	A := mat.NewDense(6, 6, nil)
	B := mat.NewVecDense(6, nil)

	for i := 0; i < 3; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		// x' = a*x + b*y + tx
		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		B.SetVec(i*2, xp)

		// y' = c*x + d*y + ty
		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		B.SetVec(i*2+1, yp)
	}

	var params mat.VecDense
	if err := params.SolveVec(A, B); err != nil {
		return geometry.AffineTransform{}, fmt.Errorf("%w: collinear points produce a singular system", ErrDegenerateGeometry)
	}

	return geometry.AffineTransform{
		A:  params.AtVec(0),
		B:  params.AtVec(1),
		TX: params.AtVec(2),
		C:  params.AtVec(3),
		D:  params.AtVec(4),
		TY: params.AtVec(5),
	}, nil
}

// estimateHomography estimates a 3x3 projective map from >=4 point
// pairs. With exactly 4 pairs the DLT solution is used directly; with
// more, RANSAC samples minimal 4-subsets, scores candidates by
// reprojection error and refits on the consensus set.
func estimateHomography(src, dst []geometry.Point2D) (geometry.Homography, error) {
	n := len(src)
	if n == 4 {
		return homographyDLT(src, dst)
	}

	bestInliers := []int{}
	for iter := 0; iter < ransacIterations; iter++ {
		indices := rand.Perm(n)[:4]

		sample := make([]geometry.Point2D, 4)
		target := make([]geometry.Point2D, 4)
		for i, idx := range indices {
			sample[i] = src[idx]
			target[i] = dst[idx]
		}

		h, err := homographyDLT(sample, target)
		if err != nil {
			continue
		}

		var inliers []int
		for i := range src {
			if h.Apply(src[i]).Distance(dst[i]) < reprojThreshold {
				inliers = append(inliers, i)
			}
		}
		if len(inliers) > len(bestInliers) {
			bestInliers = inliers
		}
	}

	if len(bestInliers) < 4 {
		return geometry.Homography{}, fmt.Errorf("%w: homography estimation found no consensus", ErrDegenerateGeometry)
	}

	inlierSrc := make([]geometry.Point2D, len(bestInliers))
	inlierDst := make([]geometry.Point2D, len(bestInliers))
	for i, idx := range bestInliers {
		inlierSrc[i] = src[idx]
		inlierDst[i] = dst[idx]
	}
	return homographyDLT(inlierSrc, inlierDst)
}

// homographyDLT solves the direct linear transform system for n>=4
// point pairs. The homography is the right singular vector of the
// smallest singular value of the 2n x 9 design matrix.
func homographyDLT(src, dst []geometry.Point2D) (geometry.Homography, error) {
	n := len(src)
	if n < 4 {
		return geometry.Homography{}, fmt.Errorf("%w: need at least 4 points", ErrInvalidInput)
	}

	A := mat.NewDense(2*n, 9, nil)
	for i := 0; i < n; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		A.SetRow(i*2, []float64{x, y, 1, 0, 0, 0, -xp * x, -xp * y, -xp})
		A.SetRow(i*2+1, []float64{0, 0, 0, x, y, 1, -yp * x, -yp * y, -yp})
	}

	var svd mat.SVD
	if !svd.Factorize(A, mat.SVDFullV) {
		return geometry.Homography{}, fmt.Errorf("%w: SVD factorization failed", ErrDegenerateGeometry)
	}

	values := svd.Values(nil)
	// A rank below 8 means the null space holds more than the single
	// homography solution: the points are collinear or coincident.
	if values[7] <= 1e-9*math.Max(values[0], 1) {
		return geometry.Homography{}, fmt.Errorf("%w: correspondence points are collinear", ErrDegenerateGeometry)
	}

	var v mat.Dense
	svd.VTo(&v)

	var h geometry.Homography
	scale := v.At(8, 8)
	if math.Abs(scale) < 1e-12 {
		scale = 1.0
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			h[i][j] = v.At(i*3+j, 8) / scale
		}
	}
	return h, nil
}
