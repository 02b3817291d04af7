// Package thermal holds the temperature sample matrix and the region
// queries that locate the hottest sample inside a geometric region.
package thermal

import (
	"fmt"
)

// Matrix is a dense 2D grid of temperature samples aligned
// pixel-for-pixel with the thermal image: row = y, column = x. Queries
// never mutate it; Clone and ZeroBox exist for the resolver's private
// working copy during deduplication.
type Matrix struct {
	data   [][]float64
	width  int
	height int
}

// NewMatrix wraps a row-major sample grid. The grid must be non-empty
// and rectangular. The rows are not copied; the caller must not mutate
// them afterwards.
func NewMatrix(samples [][]float64) (*Matrix, error) {
	if len(samples) == 0 || len(samples[0]) == 0 {
		return nil, fmt.Errorf("temperature matrix is empty")
	}
	width := len(samples[0])
	for y, row := range samples {
		if len(row) != width {
			return nil, fmt.Errorf("temperature matrix is ragged: row %d has %d samples, expected %d", y, len(row), width)
		}
	}
	return &Matrix{data: samples, width: width, height: len(samples)}, nil
}

// Width returns the number of columns.
func (m *Matrix) Width() int { return m.width }

// Height returns the number of rows.
func (m *Matrix) Height() int { return m.height }

// At returns the sample at column x, row y.
func (m *Matrix) At(x, y int) float64 { return m.data[y][x] }

// Clone returns a deep copy for mutation by the deduplication pass.
func (m *Matrix) Clone() *Matrix {
	data := make([][]float64, m.height)
	for y, row := range m.data {
		data[y] = make([]float64, m.width)
		copy(data[y], row)
	}
	return &Matrix{data: data, width: m.width, height: m.height}
}

// ZeroBox zeroes the half-open region [left,right) x [top,bottom),
// clamped to the matrix. Only ever called on a Clone.
func (m *Matrix) ZeroBox(left, top, right, bottom int) {
	left = clampInt(left, 0, m.width)
	right = clampInt(right, 0, m.width)
	top = clampInt(top, 0, m.height)
	bottom = clampInt(bottom, 0, m.height)
	for y := top; y < bottom; y++ {
		for x := left; x < right; x++ {
			m.data[y][x] = 0
		}
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
