package thermal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcb-thermal/pkg/geometry"
)

// testMatrix returns a 10x8 grid at 20.0 with a 99.9 peak at (5,3).
func testMatrix(t *testing.T) *Matrix {
	t.Helper()
	samples := make([][]float64, 8)
	for y := range samples {
		samples[y] = make([]float64, 10)
		for x := range samples[y] {
			samples[y][x] = 20.0
		}
	}
	samples[3][5] = 99.9
	m, err := NewMatrix(samples)
	require.NoError(t, err)
	return m
}

func TestNewMatrixValidation(t *testing.T) {
	_, err := NewMatrix(nil)
	assert.Error(t, err)

	_, err = NewMatrix([][]float64{{}})
	assert.Error(t, err)

	_, err = NewMatrix([][]float64{{1, 2}, {3}})
	assert.Error(t, err)

	m, err := NewMatrix([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Width())
	assert.Equal(t, 2, m.Height())
	assert.Equal(t, 6.0, m.At(2, 1))
}

func TestMaxInBox(t *testing.T) {
	m := testMatrix(t)

	peak, err := m.MaxInBox(0, 0, 10, 8, 1)
	require.NoError(t, err)
	assert.Equal(t, Peak{Value: 99.9, X: 5, Y: 3}, peak)

	// A box that stops short of the peak returns the flat background,
	// first occurrence in row-major order.
	peak, err = m.MaxInBox(0, 0, 5, 8, 1)
	require.NoError(t, err)
	assert.Equal(t, Peak{Value: 20.0, X: 0, Y: 0}, peak)
}

func TestMaxInBoxScale(t *testing.T) {
	m := testMatrix(t)

	// Display coordinates at 2x zoom address the same samples.
	peak, err := m.MaxInBox(0, 0, 20, 16, 2)
	require.NoError(t, err)
	assert.Equal(t, Peak{Value: 99.9, X: 5, Y: 3}, peak)

	_, err = m.MaxInBox(0, 0, 10, 8, 0)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyRegion)
}

func TestMaxInBoxNormalizesCorners(t *testing.T) {
	m := testMatrix(t)
	peak, err := m.MaxInBox(10, 8, 0, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, Peak{Value: 99.9, X: 5, Y: 3}, peak)
}

func TestMaxInBoxCollapsedSpan(t *testing.T) {
	m := testMatrix(t)

	// A zero-area box still samples its anchor cell.
	peak, err := m.MaxInBox(5, 3, 5, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, Peak{Value: 99.9, X: 5, Y: 3}, peak)
}

func TestMaxInBoxPartialOverlap(t *testing.T) {
	m := testMatrix(t)

	// Overhanging edges clamp to the matrix instead of failing.
	peak, err := m.MaxInBox(4, -3, 50, 50, 1)
	require.NoError(t, err)
	assert.Equal(t, Peak{Value: 99.9, X: 5, Y: 3}, peak)
}

func TestMaxInBoxEmptyRegion(t *testing.T) {
	m := testMatrix(t)

	_, err := m.MaxInBox(-10, -5, -1, -1, 1)
	assert.ErrorIs(t, err, ErrEmptyRegion)

	_, err = m.MaxInBox(10, 0, 20, 8, 1)
	assert.ErrorIs(t, err, ErrEmptyRegion)
}

func TestMaxInCircle(t *testing.T) {
	m := testMatrix(t)

	peak, err := m.MaxInCircle(5, 3, 0.5, 1)
	require.NoError(t, err)
	assert.Equal(t, Peak{Value: 99.9, X: 5, Y: 3}, peak)

	// The boundary is inclusive: distance exactly equal to the radius
	// still samples.
	peak, err = m.MaxInCircle(4, 3, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, Peak{Value: 99.9, X: 5, Y: 3}, peak)

	// Just inside the boundary it does not.
	peak, err = m.MaxInCircle(4, 3, 0.99, 1)
	require.NoError(t, err)
	assert.Equal(t, 20.0, peak.Value)
}

func TestMaxInCircleEmptyRegion(t *testing.T) {
	m := testMatrix(t)

	_, err := m.MaxInCircle(-5, -5, 1, 1)
	assert.ErrorIs(t, err, ErrEmptyRegion)

	// A tiny circle between grid points encloses no sample.
	_, err = m.MaxInCircle(4.5, 3.5, 0.2, 1)
	assert.ErrorIs(t, err, ErrEmptyRegion)
}

func TestMaxInPolygon(t *testing.T) {
	m := testMatrix(t)

	triangle := []geometry.Point2D{{X: 4.5, Y: 2.5}, {X: 7.5, Y: 2.5}, {X: 6, Y: 5.5}}
	peak, err := m.MaxInPolygon(triangle, 1)
	require.NoError(t, err)
	assert.Equal(t, Peak{Value: 99.9, X: 5, Y: 3}, peak)
}

func TestMaxInPolygonMatchesBox(t *testing.T) {
	m := testMatrix(t)

	// A polygon drawn around the same grid cells as a half-open box
	// finds the identical peak.
	boxPeak, err := m.MaxInBox(1, 1, 7, 5, 1)
	require.NoError(t, err)

	square := []geometry.Point2D{
		{X: 0.5, Y: 0.5}, {X: 6.5, Y: 0.5}, {X: 6.5, Y: 4.5}, {X: 0.5, Y: 4.5},
	}
	polyPeak, err := m.MaxInPolygon(square, 1)
	require.NoError(t, err)
	assert.Equal(t, boxPeak, polyPeak)
}

func TestMaxInPolygonEmptyRegion(t *testing.T) {
	m := testMatrix(t)

	_, err := m.MaxInPolygon([]geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 1}}, 1)
	assert.ErrorIs(t, err, ErrEmptyRegion)

	outside := []geometry.Point2D{{X: -5, Y: -5}, {X: -1, Y: -5}, {X: -3, Y: -1}}
	_, err = m.MaxInPolygon(outside, 1)
	assert.ErrorIs(t, err, ErrEmptyRegion)
}

func TestMaxInRegionDispatch(t *testing.T) {
	m := testMatrix(t)

	peak, err := m.MaxInRegion(Box{Left: 0, Top: 0, Right: 10, Bottom: 8}, 1)
	require.NoError(t, err)
	assert.Equal(t, 99.9, peak.Value)

	peak, err = m.MaxInRegion(Circle{CenterX: 5, CenterY: 3, Radius: 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, 99.9, peak.Value)

	peak, err = m.MaxInRegion(Polygon{Vertices: []geometry.Point2D{
		{X: 4.5, Y: 2.5}, {X: 7.5, Y: 2.5}, {X: 6, Y: 5.5},
	}}, 1)
	require.NoError(t, err)
	assert.Equal(t, 99.9, peak.Value)
}

func TestCloneAndZeroBox(t *testing.T) {
	m := testMatrix(t)
	clone := m.Clone()

	clone.ZeroBox(4, 2, 7, 5)
	assert.Equal(t, 0.0, clone.At(5, 3))
	assert.Equal(t, 99.9, m.At(5, 3), "original must stay untouched")

	// Out-of-range spans clamp instead of panicking.
	clone.ZeroBox(-5, -5, 100, 100)
	peak, err := clone.MaxInBox(0, 0, 10, 8, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, peak.Value)
}
