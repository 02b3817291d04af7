package session

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcb-thermal/internal/alignment"
	"pcb-thermal/pkg/geometry"
)

func validSession() *Correspondence {
	return &Correspondence{
		ThermalPoints: []geometry.Point2D{{X: 10, Y: 10}, {X: 90, Y: 10}, {X: 10, Y: 90}},
		LayoutPoints:  []geometry.Point2D{{X: 20, Y: 20}, {X: 180, Y: 20}, {X: 20, Y: 180}},
		ThermalWidth:  100,
		ThermalHeight: 100,
		LayoutWidth:   200,
		LayoutHeight:  200,
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	c := validSession()
	require.NoError(t, c.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestLoadRejectsInvalidSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"thermal_points":[{"x":1,"y":1}],"layout_points":[]}`), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, alignment.ErrInvalidInput)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := validSession()
	assert.NoError(t, c.Validate())

	c.LayoutPoints = c.LayoutPoints[:2]
	assert.ErrorIs(t, c.Validate(), alignment.ErrInvalidInput)

	c = validSession()
	c.ThermalPoints = c.ThermalPoints[:2]
	c.LayoutPoints = c.LayoutPoints[:2]
	assert.ErrorIs(t, c.Validate(), alignment.ErrInvalidInput)

	c = validSession()
	c.ThermalWidth = 0
	assert.ErrorIs(t, c.Validate(), alignment.ErrInvalidInput)
}

func TestScaledTo(t *testing.T) {
	c := validSession()

	scaled, err := c.ScaledTo(200, 50, 100, 100)
	require.NoError(t, err)

	// Thermal points doubled in X and halved in Y, layout points halved.
	assert.Equal(t, geometry.Point2D{X: 20, Y: 5}, scaled.ThermalPoints[0])
	assert.Equal(t, geometry.Point2D{X: 180, Y: 5}, scaled.ThermalPoints[1])
	assert.Equal(t, geometry.Point2D{X: 10, Y: 10}, scaled.LayoutPoints[0])
	assert.Equal(t, 200, scaled.ThermalWidth)
	assert.Equal(t, 50, scaled.ThermalHeight)

	// The source session is untouched.
	assert.Equal(t, geometry.Point2D{X: 10, Y: 10}, c.ThermalPoints[0])

	_, err = c.ScaledTo(0, 50, 100, 100)
	assert.ErrorIs(t, err, alignment.ErrInvalidInput)
}

func TestEstimateTransform(t *testing.T) {
	c := validSession()

	tr, err := c.EstimateTransform()
	require.NoError(t, err)
	assert.False(t, tr.IsProjective())

	// The session maps a 100px space onto a 200px space at 2x.
	got := tr.Apply(geometry.Point2D{X: 50, Y: 50})
	assert.InDelta(t, 100.0, got.X, 1e-9)
	assert.InDelta(t, 100.0, got.Y, 1e-9)
}

func TestProbeImageSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.png")
	img := image.NewRGBA(image.Rect(0, 0, 7, 5))
	img.Set(0, 0, color.White)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	w, h, err := ProbeImageSize(path)
	require.NoError(t, err)
	assert.Equal(t, 7, w)
	assert.Equal(t, 5, h)

	_, _, err = ProbeImageSize(filepath.Join(t.TempDir(), "absent.png"))
	assert.Error(t, err)
}
