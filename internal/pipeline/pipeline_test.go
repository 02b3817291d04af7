package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcb-thermal/internal/alignment"
	"pcb-thermal/internal/board"
	"pcb-thermal/pkg/geometry"
)

// identityTransform estimates a transform from coincident corner
// points, yielding an identity mapping between the two image spaces.
func identityTransform(t *testing.T, w, h float64) *alignment.Transform {
	t.Helper()
	corners := []geometry.Point2D{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
	tr, err := alignment.Estimate(corners, corners)
	require.NoError(t, err)
	return tr
}

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	return &Pipeline{
		Geometry: board.Geometry{
			BoardWidthMM:  200,
			BoardHeightMM: 160,
			Origin:        board.OriginBottomLeft,
			LayoutWidth:   800,
			LayoutHeight:  640,
		},
		Transform: identityTransform(t, 800, 640),
	}
}

func TestPhysicalBoxToLayout(t *testing.T) {
	p := testPipeline(t)

	// A 20x10 mm part centered at (100, 80) on a bottom-left-origin
	// board maps to an 80x40 px box on the 800x640 canvas.
	rect := p.PhysicalBoxToLayout(90, 75, 110, 85)
	assert.InDelta(t, 360.0, rect.X, 1e-9)
	assert.InDelta(t, 300.0, rect.Y, 1e-9)
	assert.InDelta(t, 80.0, rect.Width, 1e-9)
	assert.InDelta(t, 40.0, rect.Height, 1e-9)
}

func TestPhysicalBoxToThermalEndToEnd(t *testing.T) {
	p := testPipeline(t)

	box := p.PhysicalBoxToThermal(90, 75, 110, 85, 800, 640)
	assert.Equal(t, ThermalBox{Left: 360, Top: 300, Right: 440, Bottom: 340}, box)
}

func TestComponentToLayout(t *testing.T) {
	p := testPipeline(t)

	c := board.Component{RefDes: "U1", CenterXMM: 100, CenterYMM: 80, LengthMM: 20, WidthMM: 10}
	rect := p.ComponentToLayout(c)
	assert.InDelta(t, 360.0, rect.X, 1e-9)
	assert.InDelta(t, 300.0, rect.Y, 1e-9)
	assert.InDelta(t, 80.0, rect.Width, 1e-9)
	assert.InDelta(t, 40.0, rect.Height, 1e-9)
}

func TestComponentToThermalRotated(t *testing.T) {
	p := testPipeline(t)

	// Rotating 90 degrees swaps the box extents around the same center.
	c := board.Component{RefDes: "U1", CenterXMM: 100, CenterYMM: 80, LengthMM: 20, WidthMM: 10, RotationDeg: 90}
	box := p.ComponentToThermal(c, 800, 640)
	assert.Equal(t, ThermalBox{Left: 380, Top: 280, Right: 420, Bottom: 360}, box)
}

func TestClampToMatrix(t *testing.T) {
	p := testPipeline(t)

	// Overhanging regions clamp to the matrix edges.
	box := p.ClampToMatrix(geometry.Rect{X: -10, Y: -5, Width: 40, Height: 20}, 20, 20)
	assert.Equal(t, ThermalBox{Left: 0, Top: 0, Right: 19, Bottom: 15}, box)

	// A region entirely off the matrix collapses to a corner pixel.
	box = p.ClampToMatrix(geometry.Rect{X: -10, Y: -10, Width: 5, Height: 5}, 20, 20)
	assert.Equal(t, ThermalBox{Left: 0, Top: 0, Right: 1, Bottom: 1}, box)

	// Sub-pixel regions keep a one pixel span.
	box = p.ClampToMatrix(geometry.Rect{X: 5.2, Y: 7.1, Width: 0.1, Height: 0.1}, 20, 20)
	assert.Equal(t, ThermalBox{Left: 5, Top: 7, Right: 6, Bottom: 8}, box)
}

func TestRoundtripThroughLayout(t *testing.T) {
	p := testPipeline(t)

	layout := p.PhysicalToLayout(50, 40)
	thermal := p.LayoutToThermal(layout)
	back := p.ThermalToLayout(thermal)
	assert.InDelta(t, layout.X, back.X, 1e-6)
	assert.InDelta(t, layout.Y, back.Y, 1e-6)
}
