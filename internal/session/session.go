// Package session persists alignment sessions: the manually picked
// correspondence points between a thermal image and a layout image,
// together with the image dimensions they were picked at.
package session

import (
	"encoding/json"
	"fmt"
	"image"
	"os"

	// Register decoders for the image formats layout and thermal
	// captures arrive in.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"pcb-thermal/internal/alignment"
	"pcb-thermal/pkg/geometry"
)

// Correspondence is a saved alignment session. Points are stored in
// the pixel space of the images at their recorded dimensions, so a
// session survives the images being re-exported at another resolution:
// rescale with ScaledTo before estimating.
type Correspondence struct {
	ThermalPoints []geometry.Point2D `json:"thermal_points"`
	LayoutPoints  []geometry.Point2D `json:"layout_points"`

	ThermalWidth  int `json:"thermal_width"`
	ThermalHeight int `json:"thermal_height"`
	LayoutWidth   int `json:"layout_width"`
	LayoutHeight  int `json:"layout_height"`
}

// Validate checks that the session holds enough points to estimate a
// transform.
func (c *Correspondence) Validate() error {
	if len(c.ThermalPoints) != len(c.LayoutPoints) {
		return fmt.Errorf("%w: %d thermal points but %d layout points",
			alignment.ErrInvalidInput, len(c.ThermalPoints), len(c.LayoutPoints))
	}
	if len(c.ThermalPoints) < 3 {
		return fmt.Errorf("%w: need at least 3 point pairs, have %d",
			alignment.ErrInvalidInput, len(c.ThermalPoints))
	}
	if c.ThermalWidth <= 0 || c.ThermalHeight <= 0 || c.LayoutWidth <= 0 || c.LayoutHeight <= 0 {
		return fmt.Errorf("%w: image dimensions must be positive", alignment.ErrInvalidInput)
	}
	return nil
}

// Load reads a session file.
func Load(path string) (*Correspondence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Correspondence
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("session %s: %w", path, err)
	}
	return &c, nil
}

// Save writes the session as indented JSON.
func (c *Correspondence) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ScaledTo returns a copy with all points rescaled to new image
// dimensions, for sessions recorded against differently sized exports
// of the same captures.
func (c *Correspondence) ScaledTo(thermalW, thermalH, layoutW, layoutH int) (*Correspondence, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if thermalW <= 0 || thermalH <= 0 || layoutW <= 0 || layoutH <= 0 {
		return nil, fmt.Errorf("%w: target dimensions must be positive", alignment.ErrInvalidInput)
	}

	sx := float64(thermalW) / float64(c.ThermalWidth)
	sy := float64(thermalH) / float64(c.ThermalHeight)
	lx := float64(layoutW) / float64(c.LayoutWidth)
	ly := float64(layoutH) / float64(c.LayoutHeight)

	out := &Correspondence{
		ThermalPoints: make([]geometry.Point2D, len(c.ThermalPoints)),
		LayoutPoints:  make([]geometry.Point2D, len(c.LayoutPoints)),
		ThermalWidth:  thermalW,
		ThermalHeight: thermalH,
		LayoutWidth:   layoutW,
		LayoutHeight:  layoutH,
	}
	for i, p := range c.ThermalPoints {
		out.ThermalPoints[i] = geometry.Point2D{X: p.X * sx, Y: p.Y * sy}
	}
	for i, p := range c.LayoutPoints {
		out.LayoutPoints[i] = geometry.Point2D{X: p.X * lx, Y: p.Y * ly}
	}
	return out, nil
}

// EstimateTransform runs the alignment estimator over the session's
// point pairs.
func (c *Correspondence) EstimateTransform() (*alignment.Transform, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return alignment.Estimate(c.ThermalPoints, c.LayoutPoints)
}

// ProbeImageSize reads just enough of an image file to report its
// pixel dimensions.
func ProbeImageSize(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("reading image header of %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}
